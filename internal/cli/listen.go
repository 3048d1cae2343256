package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"runclub/internal/amqp"
	"runclub/internal/core"
	"runclub/internal/worker"
)

func newListenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Consume run-logged events from the broker and print each run",
		Long: `Listen prints every run announced on the run-logged queue until
interrupted, then shows the club-wide totals of the runs it received.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.AMQPEnabled() {
				return errors.New("listen needs AMQP_URL or [amqp] url to be configured")
			}
			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, a.logger)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer client.Close()

			ctx, stop := GracefulShutdown(cmd.Context())
			defer stop()

			out := cmd.OutOrStdout()
			w := worker.NewRunWorker(a.logger, func(_ context.Context, run core.Run) error {
				_, err := fmt.Fprintln(out, table(nil, [][]string{{
					run.Date, core.FormatDistance(run.Distance) + " km", run.Pledge, "$" + run.Wealth,
				}}))
				return err
			})

			err = client.ConsumeRunLogged(ctx, w.HandleRunLogged)
			if errors.Is(err, context.Canceled) {
				err = nil
			}

			t := w.Tally()
			fmt.Fprintln(out, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Club totals"),
				field("Runs", strconv.Itoa(t.Runs)),
				field("Total distance", core.FormatTotalKm(t.TotalDistance)),
				field("Wealth shared", core.FormatCurrency(t.TotalWealth)),
			)))
			return err
		},
	}
}
