package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apphttp "runclub/internal/http"
	"runclub/internal/pages"
	"runclub/internal/render"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		page   string
		input  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run a page's load pipeline and print the patched HTML",
		Long: `Render applies the page-load pipeline of the tracker, dashboard or
leaderboard page to a host document and prints the result. Without --in
the built-in page template is used.`,
		Example: "  runclub render --page dashboard\n  runclub render --page tracker --in site/tracker.html --out build/tracker.html",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := pages.ParseID(page)
			if err != nil {
				return fmt.Errorf("%w (want one of %s)", err, pageNames())
			}

			if output == "" {
				return a.renderPage(cmd.Context(), cmd.OutOrStdout(), id, input)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := a.renderPage(cmd.Context(), f, id, input); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "page to render: "+pageNames())
	cmd.Flags().StringVar(&input, "in", "", "host HTML document to patch")
	cmd.Flags().StringVarP(&output, "out", "o", "", "write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

// renderPage patches the host document at input, or the built-in page
// template when input is empty, and writes it to w.
func (a *app) renderPage(ctx context.Context, w io.Writer, id pages.ID, input string) error {
	if input == "" {
		return apphttp.RenderPage(ctx, w, a.pages(), id)
	}
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := render.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	if err := a.pages().Load(ctx, id, doc); err != nil {
		return err
	}
	return doc.Render(w)
}

func pageNames() string {
	names := make([]string, len(pages.IDs))
	for i, id := range pages.IDs {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
