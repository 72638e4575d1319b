package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/johan-st/sqlite-viewer/internal/grid"
)

// cmdHelp shows help information.
func (h *Handler) cmdHelp(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()

	if len(args) > 0 {
		h.showCommandHelp(ctx, args[0])
		return
	}

	fmt.Fprintln(ctx.Out, `sqlite-viewer - SQLite browser (line mode)

CONNECTION COMMANDS:
  connect <path> [name] [--color=N]  Open a database file and save it
  disconnect                         Close the current database
  saved, ls                          List saved databases (* = last used)
  forget <path|name>                 Remove a saved database
  color [name|N]                     Show or change the database color
  info                               Show information about the database
  find [dir|glob]                    Look for database files

SCHEMA COMMANDS:
  tables                             List tables
  schema <table>                     Show columns, indexes and foreign keys
  create-table <table> "<columns>"   Create a table
  drop-table <table> --confirm       Drop a table

BROWSING AND QUERIES:
  browse <table> [--page=N]          Show one page of rows
  record <table> <n>                 Show every field of row n
  count <table>                      Count rows
  sql "<statement>"                  Run any SQL statement
  SELECT ...                         Statements can be typed directly

DATA COMMANDS:
  insert <table> col=value ...       Insert a row
  update <table> <rowid> <col> <v>   Change one value
  delete <table> <rowid> --confirm   Delete a row

EXPORT AND HISTORY:
  export <table> [--format=csv|json] Write all rows to stdout
  history [--limit=N] [--all]        Show executed statements
  audit [--limit=N] [--all]          Show data changes

UTILITY COMMANDS:
  help [command]                     Show help
  version                            Show version
  quit, exit                         Leave

COMMON OPTIONS:
  --format=json                      Output in JSON format
  --format=csv                       Output in CSV format

Run 'help <command>' for detailed help on a specific command.`)
}

// showCommandHelp shows help for a specific command.
func (h *Handler) showCommandHelp(ctx *CommandContext, command string) {
	help := map[string]string{
		"connect": `connect - Open a database file

USAGE:
  connect <path> [name] [--color=N]

The database is added to the saved list and reopened on the next start.
Colors: green, blue, red, yellow, cyan, magenta (or their numbers).

EXAMPLES:
  connect ./app.db
  connect ./app.db production --color=red`,

		"browse": `browse - Show one page of a table

USAGE:
  browse <table> [--page=N] [--page-size=N] [--format=json]

Pages are numbered from 1. A page past the end shows the last page.
Columns that do not fit are listed as hidden; use 'record' to see them.

EXAMPLES:
  browse users
  browse users --page=2 --page-size=10`,

		"sql": `sql - Execute a SQL statement

USAGE:
  sql "<statement>" [options]

OPTIONS:
  --format=json    Output results as JSON
  --format=csv     Output results as CSV
  --format=table   Output results as table (default)

Statements starting with SELECT, PRAGMA, EXPLAIN, WITH or VALUES can be
typed without the sql prefix.

EXAMPLES:
  sql "SELECT * FROM users"
  sql "UPDATE users SET age = 40 WHERE id = 2"
  SELECT count(*) FROM users`,

		"insert": `insert - Insert a row

USAGE:
  insert <table> <column>=<value> ...

Columns left out get their default. Values for numeric columns are stored
as numbers; "null" stores NULL.

EXAMPLE:
  insert users name=Dana email=dana@example.com age=29`,

		"update": `update - Change one value

USAGE:
  update <table> <rowid> <column> <value>

Rows are addressed by rowid. Use 'sql "SELECT rowid, * FROM t"' to find it.

EXAMPLE:
  update users 2 age 41`,

		"delete": `delete - Delete a row

USAGE:
  delete <table> <rowid> --confirm

The --confirm flag is required to prevent accidental deletes.

EXAMPLE:
  delete users 3 --confirm`,

		"export": `export - Export table data

USAGE:
  export <table> [--format=csv|json]

OUTPUT:
  Data is written to stdout. Redirect to a file:
  sqlite-viewer app.db export users --format=csv > users.csv`,
	}

	if h, ok := help[command]; ok {
		fmt.Fprintln(ctx.Out, h)
	} else {
		fmt.Fprintf(ctx.Out, "No detailed help available for '%s'\n", command)
	}
}

// cmdVersion shows version information.
func (h *Handler) cmdVersion(ctx *CommandContext) {
	format := ctx.GetFlag("format")
	if format == "json" {
		printJSON(ctx.Out, map[string]string{"version": h.version})
		return
	}
	fmt.Fprintf(ctx.Out, "sqlite-viewer %s\n", h.version)
}

// printJSON writes JSON to a writer.
func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printCSV writes a header line and one record per row. NULL is written as
// an empty field.
func printCSV(w io.Writer, headers []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i := range record {
			record[i] = ""
			if i < len(row) && row[i] != nil {
				record[i] = grid.Text(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// printFrame writes a rendered grid.
func printFrame(w io.Writer, f grid.Frame) {
	if f.Header != "" {
		fmt.Fprintln(w, f.Header)
		fmt.Fprintln(w, f.Separator)
	}
	for _, line := range f.Lines {
		fmt.Fprintln(w, line)
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
