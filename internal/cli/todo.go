package cli

import (
	"fmt"
	"strings"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/model"
	"bookclub-cli/internal/route"

	"github.com/spf13/cobra"
)

func newTodoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Reading list commands",
	}
	cmd.AddCommand(newTodoListCmd(app))
	cmd.AddCommand(newTodoAddCmd(app))
	return cmd
}

func newTodoListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the books on your reading list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Home); err != nil {
				return writeErr(cmd, err)
			}
			entries, err := app.client.ListTodos(ctxOf(cmd))
			if err != nil {
				return writeErr(cmd, logFailure(app, "Failed to load the reading list.", err))
			}
			return writeOut(cmd, app, map[string]any{"data": entries})
		},
	}
}

func newTodoAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <book-id>",
		Short: "Add a book to your reading list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Home); err != nil {
				return writeErr(cmd, err)
			}
			book, err := bookRef(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			form := forms.TodoForm{Book: book}
			if err := form.Validate(); err != nil {
				return writeErr(cmd, err)
			}

			ctx := ctxOf(cmd)
			if err := app.client.AddTodo(ctx, form.Book.ID); err != nil {
				return writeErr(cmd, logFailure(app, forms.MsgAddTodoFailed, err))
			}
			entries, err := app.client.ListTodos(ctx)
			if err != nil {
				return writeErr(cmd, logFailure(app, "Failed to load the reading list.", err))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   entries,
				"meta":   map[string]any{"added": form.Book.ID},
				"_hints": []string{fmt.Sprintf("bookclub meetings add --book %d", form.Book.ID)},
			})
		},
	}
}

// bookRef turns a book id argument into a form value. An empty id means no book.
func bookRef(s string) (*model.Book, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := api.ParseBookID(s)
	if err != nil {
		return nil, err
	}
	return &model.Book{ID: id}, nil
}

// formBook is bookRef for multi-field forms. An unparseable id still counts as given,
// so a missing field is reported first; the parse error is returned for afterwards.
func formBook(s string) (*model.Book, error) {
	book, err := bookRef(s)
	if err != nil {
		return &model.Book{}, err
	}
	return book, nil
}
