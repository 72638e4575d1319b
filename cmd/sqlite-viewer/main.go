// sqlite-viewer is a terminal browser and editor for SQLite files. It runs
// a full-screen interface on capable terminals and a line-oriented prompt
// everywhere else.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/johan-st/sqlite-viewer/internal/cli"
	"github.com/johan-st/sqlite-viewer/internal/config"
	"github.com/johan-st/sqlite-viewer/internal/history"
	"github.com/johan-st/sqlite-viewer/internal/session"
	"github.com/johan-st/sqlite-viewer/internal/store"
	"github.com/johan-st/sqlite-viewer/internal/tui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type options struct {
	configPath string
	name       string
	color      string
	readOnly   bool
	lineMode   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "sqlite-viewer [database] [command [args...]]",
		Short: "Browse and edit SQLite databases in the terminal",
		Long: `sqlite-viewer opens SQLite files in a menu-driven full-screen interface.

With no database it reopens the one used last. When a command follows the
database it runs once and exits, for example:

  sqlite-viewer app.db tables
  sqlite-viewer app.db sql "SELECT * FROM users" --format=json

Terminals that cannot run the full-screen interface (or --line) get a
sqlite> prompt that accepts the same commands.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), opts, args)
			reportError(os.Stderr, err)
			return err
		},
	}

	// Everything after the database path belongs to the command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name for the database")
	cmd.Flags().StringVar(&opts.color, "color", "", "display color for the database")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "open databases read-only")
	cmd.Flags().BoolVar(&opts.lineMode, "line", false, "use the line-oriented prompt")
	return cmd
}

// reportError prints err unless the command already reported it.
func reportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, cli.ErrCommandFailed) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func run(ctx context.Context, opts options, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.readOnly {
		cfg.ReadOnly = true
	}

	var dbPath string
	var cmdArgs []string
	if len(args) > 0 {
		dbPath, cmdArgs = args[0], args[1:]
	}

	lineMode := opts.lineMode || len(cmdArgs) > 0 || !interactive()
	closeLog, err := setupLogging(cfg, lineMode)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(cfg.StoreFile)
	if err != nil {
		return err
	}

	sessOpts := session.Options{ReadOnly: cfg.ReadOnly, RowLimit: cfg.RowLimit}
	if cfg.History.Enabled {
		hist, err := history.NewStore(cfg.DataDir, cfg.History.MaxEntries)
		if err != nil {
			log.Warn("query history disabled", "err", err)
		} else {
			sessOpts.History = hist
		}
	}

	sess := session.New(st, sessOpts)
	defer sess.Close()

	if dbPath != "" {
		if err := connect(sess, dbPath, opts); err != nil {
			return err
		}
	} else if !lineMode {
		// Line mode reconnects on its own and says so.
		if _, err := sess.Reconnect(); err != nil {
			log.Warn("could not reopen the last database", "err", err)
		}
	}

	handler := cli.NewHandler(sess, cfg, version)
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		handler.SetWidth(w)
	}

	switch {
	case len(cmdArgs) > 0:
		return handler.Run(cmdArgs, os.Stdout, os.Stderr)
	case lineMode:
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return handler.Loop(ctx, os.Stdin, os.Stdout, os.Stderr)
	default:
		p := tea.NewProgram(tui.NewApp(sess, cfg), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}
}

// connect opens the database named on the command line. A saved entry
// supplies the name and color unless flags override them.
func connect(sess *session.Session, path string, opts options) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}

	name, color := opts.name, store.DefaultColor
	for _, e := range sess.Store().List() {
		if sameFile(e.Path, path) {
			color = e.Color
			if name == "" {
				name = e.Name
			}
		}
	}
	if opts.color != "" {
		c, err := store.ParseColor(opts.color)
		if err != nil {
			return err
		}
		color = c
	}
	return sess.Connect(path, name, color)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// interactive reports whether the full-screen interface can run.
func interactive() bool {
	switch os.Getenv("TERM") {
	case "", "dumb", "unknown":
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// setupLogging points the default logger at a file in full-screen mode, so
// log lines never land on the screen, and at stderr in line mode.
func setupLogging(cfg *config.Config, lineMode bool) (func(), error) {
	level := log.InfoLevel
	if cfg.Log.Level != "" {
		l, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
		}
		level = l
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if lineMode {
		if cfg.Log.Level == "" {
			level = log.WarnLevel
		}
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	log.SetDefault(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: !lineMode,
		Prefix:          "sqlite-viewer",
	}))
	return closeFn, nil
}
