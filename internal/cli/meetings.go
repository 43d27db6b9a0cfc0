package cli

import (
	"time"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/forms"
	"bookclub-cli/internal/route"

	"github.com/spf13/cobra"
)

func newMeetingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Club meeting commands",
	}
	cmd.AddCommand(newMeetingsListCmd(app))
	cmd.AddCommand(newMeetingsAddCmd(app))
	return cmd
}

func newMeetingsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Meetings); err != nil {
				return writeErr(cmd, err)
			}
			meetings, err := app.client.ListMeetings(ctxOf(cmd))
			if err != nil {
				return writeErr(cmd, logFailure(app, "Failed to load meetings.", err))
			}
			return writeOut(cmd, app, map[string]any{"data": meetings})
		},
	}
}

func newMeetingsAddCmd(app *App) *cobra.Command {
	var (
		bookID      string
		description string
		start       string
		duration    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a meeting about a book",
		Long: "Schedule a meeting about a book.\n\n" +
			"--start accepts YYYY-MM-DD HH:MM[:SS] in local time, or RFC3339; it is sent to the server in UTC.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd, app, route.Meetings); err != nil {
				return writeErr(cmd, err)
			}
			book, bookErr := formBook(bookID)
			form := forms.MeetingForm{
				Book:        book,
				Description: description,
				Start:       start,
				Duration:    duration,
				Location:    time.Local,
			}
			if err := form.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			if bookErr != nil {
				return writeErr(cmd, bookErr)
			}

			ctx := ctxOf(cmd)
			req := api.CreateMeetingRequest{
				BookID:      form.Book.ID,
				Description: form.Description,
				StartTime:   form.StartTime,
				Duration:    form.Duration,
			}
			if err := app.client.CreateMeeting(ctx, req); err != nil {
				return writeErr(cmd, logFailure(app, forms.MsgAddMeetingFailed, err))
			}
			meetings, err := app.client.ListMeetings(ctx)
			if err != nil {
				return writeErr(cmd, logFailure(app, "Failed to load meetings.", err))
			}
			return writeOut(cmd, app, map[string]any{"data": meetings})
		},
	}

	cmd.Flags().StringVar(&bookID, "book", "", "Book id")
	cmd.Flags().StringVar(&description, "description", "", "What the meeting is about")
	cmd.Flags().StringVar(&start, "start", "", "Start time (YYYY-MM-DD HH:MM, local time)")
	cmd.Flags().StringVar(&duration, "duration", "", "Duration (e.g. 01:30:00)")
	return cmd
}
