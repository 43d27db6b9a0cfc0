package cli

import (
	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/route"

	"github.com/spf13/cobra"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Book note commands",
	}
	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesAddCmd(app))
	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List books with their notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Notes); err != nil {
				return writeErr(cmd, err)
			}
			books, err := app.client.ListBooksWithNotes(ctxOf(cmd))
			if err != nil {
				return writeErr(cmd, logFailure(app, "Failed to load notes.", err))
			}
			return writeOut(cmd, app, map[string]any{"data": books})
		},
	}
}

func newNotesAddCmd(app *App) *cobra.Command {
	var bookID, note string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a note on a book",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Notes); err != nil {
				return writeErr(cmd, err)
			}
			book, bookErr := formBook(bookID)
			form := forms.NoteForm{Book: book, Note: note}
			if err := form.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			if bookErr != nil {
				return writeErr(cmd, bookErr)
			}

			ctx := ctxOf(cmd)
			if err := app.client.CreateNote(ctx, form.Book.ID, form.Note); err != nil {
				return writeErr(cmd, logFailure(app, forms.MsgAddNoteFailed, err))
			}
			books, err := app.client.ListBooksWithNotes(ctx)
			if err != nil {
				return writeErr(cmd, logFailure(app, "Failed to load notes.", err))
			}
			return writeOut(cmd, app, map[string]any{"data": books})
		},
	}

	cmd.Flags().StringVar(&bookID, "book", "", "Book id")
	cmd.Flags().StringVar(&note, "note", "", "Note text (markdown)")
	return cmd
}
