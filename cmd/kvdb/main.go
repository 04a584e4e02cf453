package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/kvdb/internal/config"
	"github.com/alfredjeanlab/kvdb/internal/events"
	"github.com/alfredjeanlab/kvdb/internal/logging"
	"github.com/alfredjeanlab/kvdb/internal/store"
	"github.com/alfredjeanlab/kvdb/internal/store/postgres"
	"github.com/alfredjeanlab/kvdb/internal/store/sqlite"
	"github.com/alfredjeanlab/kvdb/internal/ui"
)

// errReported is returned by commands that have already printed their
// failure line; run maps it to exit status 1 without printing usage.
var errReported = errors.New("failure already reported")

// errUsage is returned when no verb was given.
var errUsage = errors.New("no command given")

// annotationStore marks commands that need an open store.
const annotationStore = "kvdb/store"

var storeAnnotations = map[string]string{annotationStore: "true"}

// app holds the state of one invocation: one store, one operation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg       *config.Config
	logger    *slog.Logger
	store     store.Store
	publisher events.Publisher

	dbFlag       string
	logLevelFlag string
	jsonOutput   bool
	noColor      bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:    stdout,
		stderr:    stderr,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		publisher: &events.NoopPublisher{},
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kvdb <command>",
		Short: "Key-value store backed by an embedded SQLite database",
		Long: `Key-value store backed by an embedded SQLite database.

Each invocation runs one command and exits 0 on success or 1 on failure.
An invalid invocation prints usage to stderr and exits 1. "kvdb help" and
--help print help to stdout and exit 0.

Keys and values are taken literally, even when they start with "-". Flags
go before the key; "--" ends them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Verbs with literal arguments parse their flags and run setup
			// themselves.
			if cmd.Annotations[annotationStore] != "true" || cmd.DisableFlagParsing {
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errUsage
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVar(&a.dbFlag, "db", "", "database file path or postgres:// URL (default from KVDB_DB or kvdb.db)")
	rootCmd.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "log level: debug, info, warn, error (default from KVDB_LOG_LEVEL or warn)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored help and log output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "keys", Title: "Keys:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(colorizedHelpFunc(a))

	// Keys
	rootCmd.AddCommand(a.literalArgs(newSetCmd(a)))
	rootCmd.AddCommand(a.literalArgs(newGetCmd(a)))
	rootCmd.AddCommand(a.literalArgs(newDelCmd(a)))
	rootCmd.AddCommand(a.literalArgs(newTSCmd(a)))

	// Data
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newExportCmd(a))

	return rootCmd
}

// setup resolves configuration, builds the logger, opens the store and
// ensures the schema. Any store that was opened is closed by run.
func (a *app) setup(cmd *cobra.Command) error {
	prog := cmd.Root().Name()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", prog, err)
		return errReported
	}
	if cmd.Flags().Changed("db") {
		cfg.DB = a.dbFlag
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevelFlag
	}
	a.cfg = cfg

	logger, err := logging.New(a.stderr, logging.Options{
		Level:   cfg.LogLevel,
		NoColor: !a.colorFor(a.stderr),
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", prog, err)
		return errReported
	}
	a.logger = logger

	ctx := cmd.Context()
	s, err := openStore(cfg)
	if err != nil {
		a.logger.Error("open database failed", "db", displayDB(cfg.DB), "err", err)
		fmt.Fprintf(a.stderr, "%s: Could not open database '%s'\n", prog, displayDB(cfg.DB))
		return errReported
	}
	a.store = s

	if err := s.EnsureSchema(ctx); err != nil {
		a.logger.Error("ensure schema failed", "db", displayDB(cfg.DB), "err", err)
		fmt.Fprintf(a.stderr, "%s: Could not create/access table in database '%s'\n", prog, displayDB(cfg.DB))
		return errReported
	}
	a.logger.Debug("database ready", "db", displayDB(cfg.DB), "postgres", cfg.IsPostgres())

	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			a.logger.Warn("events disabled", "err", err)
		} else {
			a.publisher = pub
		}
	}
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.IsPostgres() {
		return postgres.New(cfg.DB)
	}
	return sqlite.Open(cfg.DB)
}

// displayDB hides credentials in database URLs.
func displayDB(db string) string {
	u, err := url.Parse(db)
	if err != nil || u.User == nil {
		return db
	}
	return u.Redacted()
}

// colorFor reports whether w gets ANSI colors. Only real files qualify.
func (a *app) colorFor(w io.Writer) bool {
	if a.noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && ui.ColorEnabled(f)
}

// teardown releases the publisher and the store. It runs on every exit
// path, including failed commands.
func (a *app) teardown(prog string) error {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("closing event publisher", "err", err)
	}
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("close database failed", "err", err)
		fmt.Fprintf(a.stderr, "%s: Could not close database '%s'\n", prog, displayDB(a.cfg.DB))
		return errReported
	}
	return nil
}

// run executes one invocation and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	rootCmd := newRootCmd(a)
	// Cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	closeErr := a.teardown(rootCmd.Name())

	switch {
	case err == nil && closeErr == nil:
		return 0
	case err == nil, errors.Is(err, errReported):
		return 1
	}

	if !errors.Is(err, errUsage) {
		fmt.Fprintf(stderr, "%s: %v\n", rootCmd.Name(), err)
	}
	fmt.Fprint(stderr, rootCmd.UsageString())
	return 1
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
