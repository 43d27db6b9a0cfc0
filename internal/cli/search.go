package cli

import (
	"fmt"
	"strings"

	"bookclub-cli/internal/format"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the book catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Home); err != nil {
				return writeErr(cmd, err)
			}
			q := strings.TrimSpace(strings.Join(args, " "))
			if q == "" {
				return writeErr(cmd, fmt.Errorf("empty query"))
			}
			if pages < 1 {
				pages = 1
			}

			ctx := ctxOf(cmd)
			page, err := app.client.SearchBooks(ctx, q)
			if err != nil {
				return writeErr(cmd, logFailure(app, "Search failed.", err))
			}
			results := append([]model.Book{}, page.Results...)
			fetched := 1
			next := page.NextCursor()
			for ; fetched < pages && next != ""; fetched++ {
				page, err = app.client.NextSearchPage(ctx, next)
				if err != nil {
					return writeErr(cmd, logFailure(app, "Search failed.", err))
				}
				results = append(results, page.Results...)
				next = page.NextCursor()
			}

			var hints []string
			if len(results) > 0 {
				hints = append(hints, fmt.Sprintf("bookclub todo add %d", results[0].ID))
			}
			if next != "" {
				hints = append(hints, fmt.Sprintf("bookclub search %q --pages %d", q, fetched+1))
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  results,
				Meta:  map[string]any{"query": q, "pages": fetched, "next": next},
				Hints: hints,
			})
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "Number of result pages to fetch")
	return cmd
}
