package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"runclub/internal/core"
)

func newLogCommand(a *app) *cobra.Command {
	var (
		distance string
		pledge   string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a run",
		Long: `Log a run dated today. The wealth shared is the distance multiplied by
the per-kilometre rate; an empty pledge is recorded as "none".`,
		Example: "  runclub log --distance 5 --pledge FoodBank",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := core.ParseDistance(distance)
			if err != nil {
				return fmt.Errorf("distance %q: %w", distance, err)
			}
			run, err := a.ledger.Append(cmd.Context(), d, pledge)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Run logged"))
			fmt.Fprintln(cmd.OutOrStdout(), field("Date", run.Date))
			fmt.Fprintln(cmd.OutOrStdout(), field("Distance", core.FormatDistance(run.Distance)+" km"))
			fmt.Fprintln(cmd.OutOrStdout(), field("Pledge", run.Pledge))
			fmt.Fprintln(cmd.OutOrStdout(), field("Wealth", "$"+run.Wealth))
			return nil
		},
	}
	cmd.Flags().StringVarP(&distance, "distance", "d", "", "distance run in kilometres")
	cmd.Flags().StringVarP(&pledge, "pledge", "p", core.PledgeNone, "cause the run is pledged to")
	_ = cmd.MarkFlagRequired("distance")
	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs := a.ledger.Load(cmd.Context())
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No runs logged yet."))
				return nil
			}
			if limit > 0 && limit < len(runs) {
				runs = runs[:limit]
			}
			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{r.Date, core.FormatDistance(r.Distance) + " km", r.Pledge, "$" + r.Wealth}
			}
			fmt.Fprintln(cmd.OutOrStdout(), table([]string{"Date", "Distance", "Pledge", "Wealth"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many runs (0 for all)")
	return cmd
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total distance, wealth shared and the active pledge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := core.Summarize(a.ledger.Load(cmd.Context()))
			title := "My Impact"
			if name, ok := a.identity.Name(cmd.Context()); ok {
				title += " · " + name
			}
			body := lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render(title),
				field("Total distance", core.FormatTotalKm(s.TotalDistance)),
				field("Wealth shared", core.FormatCurrency(s.TotalWealth)),
				field("Active pledge", s.ActivePledge),
				field("Runs", strconv.Itoa(s.Runs)),
			)
			fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(body))
			return nil
		},
	}
}
