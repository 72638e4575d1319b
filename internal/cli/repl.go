package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/charmbracelet/log"
)

// Prompt is printed before each line is read.
const Prompt = "sqlite> "

// Loop reads commands from in until quit, exit, end of input or a canceled
// context. Errors are printed and the loop carries on.
func (h *Handler) Loop(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	h.reconnect(out, errOut)
	fmt.Fprintln(out, "Type 'help' for commands, 'quit' to leave.")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !h.Exec(line, out, errOut) {
			return nil
		}
	}
}

// Exec runs one input line. It reports false when the line asks to quit.
func (h *Handler) Exec(line string, out, errOut io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	// Statements are taken from the raw line so quotes inside the SQL
	// survive. A bare statement is a shortcut for sql.
	var args []string
	switch first := fields[0]; {
	case looksLikeSQL(first):
		args = sqlArgs(line)
	case strings.EqualFold(first, "sql") || strings.EqualFold(first, "query"):
		args = sqlArgs(strings.TrimSpace(line)[len(first):])
	default:
		var err error
		args, err = shlex.Split(line, true)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return true
		}
		if len(args) == 0 {
			return true
		}
	}

	ctx := &CommandContext{Args: args[1:], Out: out, Err: errOut}
	log.Debug("command", "name", args[0], "args", len(args)-1)
	return h.routeCommand(args[0], ctx)
}

// reconnect opens the last used database, if there is one.
func (h *Handler) reconnect(out, errOut io.Writer) {
	if h.sess.Connected() {
		fmt.Fprintf(out, "Connected to %s (%s)\n", h.sess.Name(), h.sess.Path())
		return
	}
	ok, err := h.sess.Reconnect()
	if err != nil {
		fmt.Fprintf(errOut, "Error: could not reopen the last database: %v\n", err)
		return
	}
	if ok {
		fmt.Fprintf(out, "Connected to %s (%s)\n", h.sess.Name(), h.sess.Path())
	}
}

func looksLikeSQL(word string) bool {
	switch strings.ToUpper(word) {
	case "SELECT", "PRAGMA", "EXPLAIN", "WITH", "VALUES":
		return true
	}
	return false
}

// sqlArgs turns the text after "sql" into command arguments: the statement
// plus any --flag=value options at either end. A statement wrapped in one
// pair of quotes is unwrapped.
func sqlArgs(rest string) []string {
	var flags []string
	for {
		rest = strings.TrimSpace(rest)
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			break
		}
		if first := fields[0]; isOption(first) {
			flags = append(flags, first)
			rest = rest[len(first):]
			continue
		}
		if last := fields[len(fields)-1]; isOption(last) {
			flags = append(flags, last)
			rest = rest[:strings.LastIndex(rest, last)]
			continue
		}
		break
	}

	if strings.HasPrefix(rest, "\"") || strings.HasPrefix(rest, "'") {
		if words, err := shlex.Split(rest, true); err == nil && len(words) == 1 {
			rest = words[0]
		}
	}
	return append([]string{"sql", rest}, flags...)
}

func isOption(word string) bool {
	return strings.HasPrefix(word, "--") && strings.Contains(word, "=")
}
