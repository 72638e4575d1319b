// Package cli implements line mode: a prompt for terminals that cannot run
// the full-screen interface, and one-shot commands for scripts.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/johan-st/sqlite-viewer/internal/config"
	"github.com/johan-st/sqlite-viewer/internal/session"
)

// ErrCommandFailed is returned by Run when the command has already written
// its own error message.
var ErrCommandFailed = errors.New("command failed")

// Handler runs line-mode commands against a session.
type Handler struct {
	sess    *session.Session
	cfg     *config.Config
	version string
	width   int
}

// DefaultWidth is the table width used when the output is not a terminal.
const DefaultWidth = 100

// NewHandler creates a new CLI handler.
func NewHandler(sess *session.Session, cfg *config.Config, version string) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Handler{
		sess:    sess,
		cfg:     cfg,
		version: version,
		width:   DefaultWidth,
	}
}

// SetWidth sets the width tables are fitted to.
func (h *Handler) SetWidth(w int) {
	if w > 0 {
		h.width = w
	}
}

// Run executes a single command, for example from the command line. It
// returns an error when the command failed.
func (h *Handler) Run(args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, "No command specified. Run 'help' for usage.")
		return nil
	}

	ctx := &CommandContext{
		Args: args[1:],
		Out:  out,
		Err:  errOut,
	}
	h.routeCommand(args[0], ctx)

	if ctx.exitCode != 0 {
		return fmt.Errorf("%s: %w", args[0], ErrCommandFailed)
	}
	return nil
}

// routeCommand routes a command to its handler. It reports false when the
// command asks to leave the prompt.
func (h *Handler) routeCommand(cmd string, ctx *CommandContext) bool {
	switch strings.ToLower(cmd) {
	// Connection commands
	case "connect", "open":
		h.cmdConnect(ctx)
	case "disconnect", "close":
		h.cmdDisconnect(ctx)
	case "saved", "ls", "list":
		h.cmdSaved(ctx)
	case "forget":
		h.cmdForget(ctx)
	case "color":
		h.cmdColor(ctx)
	case "info":
		h.cmdInfo(ctx)
	case "find":
		h.cmdFind(ctx)

	// Schema commands
	case "tables":
		h.cmdTables(ctx)
	case "schema":
		h.cmdSchema(ctx)
	case "create-table":
		h.cmdCreateTable(ctx)
	case "drop-table":
		h.cmdDropTable(ctx)

	// Browsing and queries
	case "browse":
		h.cmdBrowse(ctx)
	case "record":
		h.cmdRecord(ctx)
	case "sql", "query":
		h.cmdSQL(ctx)
	case "count":
		h.cmdCount(ctx)

	// Data commands
	case "insert":
		h.cmdInsert(ctx)
	case "update":
		h.cmdUpdate(ctx)
	case "delete":
		h.cmdDelete(ctx)

	// Export and history
	case "export":
		h.cmdExport(ctx)
	case "history":
		h.cmdHistory(ctx)
	case "audit":
		h.cmdAudit(ctx)

	// Utility commands
	case "help", "?":
		h.cmdHelp(ctx)
	case "version":
		h.cmdVersion(ctx)
	case "quit", "exit":
		return false

	default:
		fmt.Fprintf(ctx.Err, "Unknown command: %s\n", cmd)
		fmt.Fprintln(ctx.Err, "Run 'help' for usage.")
		ctx.Exit(1)
	}
	return true
}

// CommandContext provides context for command execution.
type CommandContext struct {
	Args     []string
	Out      io.Writer
	Err      io.Writer
	exitCode int
}

// Exit sets the exit code reported by Run.
func (c *CommandContext) Exit(code int) {
	c.exitCode = code
}

// Fail prints err and marks the command as failed.
func (c *CommandContext) Fail(err error) {
	fmt.Fprintf(c.Err, "Error: %v\n", err)
	c.Exit(1)
}

// Usage prints a usage line and marks the command as failed.
func (c *CommandContext) Usage(usage string) {
	fmt.Fprintf(c.Err, "Usage: %s\n", usage)
	c.Exit(1)
}

// GetFlag returns a flag value from args (e.g., --format=json).
func (c *CommandContext) GetFlag(name string) string {
	prefix := "--" + name + "="
	shortPrefix := "-" + name + "="
	for _, arg := range c.Args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix)
		}
		if strings.HasPrefix(arg, shortPrefix) {
			return strings.TrimPrefix(arg, shortPrefix)
		}
	}
	return ""
}

// IntFlag returns a numeric flag, def when it is absent. A malformed value
// is reported and ok is false.
func (c *CommandContext) IntFlag(name string, def int) (n int, ok bool) {
	v := c.GetFlag(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.Fail(fmt.Errorf("--%s must be a number, got %q", name, v))
		return 0, false
	}
	return n, true
}

// HasFlag checks if a boolean flag is present.
func (c *CommandContext) HasFlag(name string) bool {
	flag := "--" + name
	shortFlag := "-" + name
	for _, arg := range c.Args {
		if arg == flag || arg == shortFlag {
			return true
		}
	}
	return false
}

// GetPositionalArgs returns args that are not flags. A lone "-" counts as
// positional so negative numbers and dashes survive.
func (c *CommandContext) GetPositionalArgs() []string {
	var result []string
	for _, arg := range c.Args {
		if strings.HasPrefix(arg, "--") || (strings.HasPrefix(arg, "-") && len(arg) > 1 && !isNumber(arg)) {
			continue
		}
		result = append(result, arg)
	}
	return result
}

// Text joins every argument except --name=value options. It is used for
// free text such as SQL, where a leading dash is part of the input.
func (c *CommandContext) Text() string {
	var parts []string
	for _, arg := range c.Args {
		if !isOption(arg) {
			parts = append(parts, arg)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// requireConnection reports an error when no database is open.
func (h *Handler) requireConnection(ctx *CommandContext) bool {
	if !h.sess.Connected() {
		fmt.Fprintln(ctx.Err, "Error: not connected. Use 'connect <path>' first.")
		ctx.Exit(1)
		return false
	}
	return true
}
