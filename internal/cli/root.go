package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bookclub-cli/internal/api"
	"bookclub-cli/internal/config"
	"bookclub-cli/internal/format"
	"bookclub-cli/internal/logging"
	"bookclub-cli/internal/route"
	"bookclub-cli/internal/session"
	"bookclub-cli/internal/store"
	"bookclub-cli/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type App struct {
	APIURL         string
	ConfigDir      string
	SessionBackend string
	PrettyJSON     bool
	Format         string

	cfg    *config.Config
	logger *zap.Logger
	kv     store.KV
	sess   *session.Store
	client *api.Client
}

// Execute runs the root command against argv (argv[0] is the program name) and returns
// the process exit code.
func Execute(argv []string) int {
	cmd, app := newRootCmd()
	defer app.close()
	if len(argv) > 0 {
		cmd.SetArgs(argv[1:])
	}
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// CommandNames lists the top-level subcommands, aliases included.
func CommandNames() []string {
	names := []string{"help", "completion"}
	for _, c := range NewRootCmd().Commands() {
		names = append(names, c.Name())
		names = append(names, c.Aliases...)
	}
	return names
}

func newRootCmd() (*cobra.Command, *App) {
	app := &App{}
	var view string

	cmd := &cobra.Command{
		Use:           "bookclub",
		Short:         "Book club client (TUI + scriptable CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  bookclub

  # Log in, then script against the same session
  bookclub login --username ann --password secret
  bookclub search dune
  bookclub todo add 42
  bookclub meetings add --book 42 --description "Kickoff" --start "2026-11-03 19:30" --duration 01:30:00
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, view)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("BOOKCLUB_API_URL", "http://localhost:8000/api"), "REST API base URL")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("BOOKCLUB_CONFIG_DIR", ""), "Directory for the session store and log file (default ~/.bookclub)")
	cmd.PersistentFlags().StringVar(&app.SessionBackend, "session-backend", envOr("BOOKCLUB_SESSION_BACKEND", config.BackendSQLite), "Session store (sqlite|redis|memory)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BOOKCLUB_FORMAT", "json"), "Output format (json|edn)")
	views := make([]string, 0, len(route.All))
	for _, r := range route.All {
		views = append(views, string(r))
	}
	cmd.Flags().StringVar(&view, "view", string(route.Home), "TUI start view ("+strings.Join(views, "|")+")")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newTodoCmd(app))
	cmd.AddCommand(newMeetingsCmd(app))
	cmd.AddCommand(newNotesCmd(app))

	return cmd, app
}

func runTUI(cmd *cobra.Command, app *App, view string) error {
	start, ok := route.Parse(view)
	if !ok {
		return writeErr(cmd, fmt.Errorf("unknown view %q", view))
	}
	if err := app.open(cmd); err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(app.client, app.sess, logging.Module(app.logger, "tui"), start)
}

// open loads configuration and wires the logger, session store and API client.
// Flags set on the command line override the environment.
func (app *App) open(cmd *cobra.Command) error {
	if app.client != nil {
		return nil
	}
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd.Flags(), cfg)
	if err := cfg.Finalize(); err != nil {
		return err
	}
	if !format.Valid(cfg.Format) {
		return fmt.Errorf("unknown format: %s (expected json|edn)", cfg.Format)
	}
	app.cfg = cfg
	app.Format = cfg.Format

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	app.logger = logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	app.kv = kv

	sess, err := session.Open(ctx, kv, logging.Module(logger, "session"))
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	app.sess = sess

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: cfg.APIURL,
		Tokens:  sess,
		Logger:  logging.Module(logger, "api"),
	})
	if err != nil {
		return err
	}
	app.client = client
	return nil
}

func (app *App) close() {
	if app.kv != nil {
		_ = app.kv.Close()
		app.kv = nil
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	app.client = nil
}

func applyFlagOverrides(fs *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if !fs.Changed(name) {
			return
		}
		if v, err := fs.GetString(name); err == nil {
			*dst = v
		}
	}
	str("api-url", &cfg.APIURL)
	str("config-dir", &cfg.Dir)
	str("session-backend", &cfg.Session.Backend)
	str("format", &cfg.Format)
}

// requireSession applies the route guard to a command that belongs to route r.
func requireSession(cmd *cobra.Command, app *App, r route.Route) error {
	if err := app.open(cmd); err != nil {
		return err
	}
	if route.Resolve(r, app.sess.Snapshot()) != r {
		return errNotLoggedIn(cmd.CommandPath())
	}
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// logFailure records an API failure and returns the user-facing error for it.
// A rejected token gets a pointer to `bookclub login`; the stored session is left alone.
func logFailure(app *App, msg string, err error) error {
	if app.logger != nil {
		app.logger.Error(msg, zap.Error(err), zap.Int("status", api.StatusCode(err)))
	}
	if api.IsUnauthorized(err) {
		msg += " The server rejected the session; run `bookclub login` again."
	}
	return actionFailed(msg, err)
}
