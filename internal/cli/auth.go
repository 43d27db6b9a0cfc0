package cli

import (
	"bookclub-cli/internal/api"
	"bookclub-cli/internal/forms"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd); err != nil {
				return writeErr(cmd, err)
			}
			form := forms.LoginForm{Username: username, Password: password}
			if err := form.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			ctx := ctxOf(cmd)
			resp, err := app.client.Login(ctx, form.Username, form.Password)
			if err != nil {
				return writeErr(cmd, logFailure(app, forms.MsgLoginFailed, err))
			}
			if err := app.sess.Login(ctx, resp.UserID.String(), resp.Key); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   app.sess.Snapshot(),
				"_hints": []string{"bookclub todo list", "bookclub search <query>"},
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var username, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd); err != nil {
				return writeErr(cmd, err)
			}
			form := forms.RegisterForm{Username: username, Password: password, Confirm: confirm}
			if err := form.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			req := api.RegisterRequest{Username: form.Username, Password1: form.Password, Password2: form.Confirm}
			if err := app.client.Register(ctxOf(cmd), req); err != nil {
				return writeErr(cmd, logFailure(app, forms.MsgRegisterFailed, err))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"username": form.Username, "registered": true},
				"_hints": []string{"bookclub login --username " + form.Username + " --password <password>"},
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password again")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session on the server and forget it locally",
		Long: "Invalidate the session on the server and forget it locally.\n\n" +
			"If the server call fails the local session is kept; --local forgets it without contacting the server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd); err != nil {
				return writeErr(cmd, err)
			}
			ctx := ctxOf(cmd)
			if local {
				if err := app.sess.Clear(ctx); err != nil {
					return writeErr(cmd, err)
				}
			} else if err := app.sess.Logout(ctx, app.client); err != nil {
				return writeErr(cmd, actionFailed("Logout failed. The local session was kept; use --local to forget it.", err))
			}
			return writeOut(cmd, app, map[string]any{"data": app.sess.Snapshot()})
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Forget the local session without calling the server")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": app.sess.Snapshot(),
				"meta": map[string]any{"api_url": app.client.BaseURL()},
			})
		},
	}
}
