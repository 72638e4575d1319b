package cli

import (
	"fmt"
	"strings"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/grid"
)

// cmdSchema shows a table's columns, indexes and foreign keys.
func (h *Handler) cmdSchema(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("schema <table> [--format=json]")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	info, err := h.sess.TableStructure(args[0])
	if err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, schemaJSON(info))
		return
	}

	headers := []string{"Column Name", "Type", "Not Null", "Default", "Primary Key"}
	rows := make([][]any, len(info.Columns))
	for i, c := range info.Columns {
		rows[i] = []any{c.Name, c.Type, yesNo(c.NotNull), c.Default(), yesNo(c.IsPrimaryKey())}
	}

	fmt.Fprintf(ctx.Out, "Table: %s\n\n", info.Name)
	printFrame(ctx.Out, grid.Table(headers, rows, h.width, grid.ASCIIStyle))

	fmt.Fprintln(ctx.Out)
	fmt.Fprintln(ctx.Out, "Indexes:")
	if len(info.Indexes) == 0 {
		fmt.Fprintln(ctx.Out, "  (none)")
	}
	for _, idx := range info.Indexes {
		unique := ""
		if idx.Unique {
			unique = " unique"
		}
		fmt.Fprintf(ctx.Out, "  %s%s (%s)\n", idx.Name, unique, strings.Join(idx.Columns, ", "))
	}

	fmt.Fprintln(ctx.Out, "Foreign keys:")
	if len(info.ForeignKeys) == 0 {
		fmt.Fprintln(ctx.Out, "  (none)")
	}
	for _, fk := range info.ForeignKeys {
		fmt.Fprintf(ctx.Out, "  %s -> %s(%s)\n", fk.From, fk.Table, fk.To)
	}

	fmt.Fprintf(ctx.Out, "Rows: %d\n", info.RowCount)
}

func schemaJSON(info *database.TableInfo) map[string]any {
	cols := make([]map[string]any, 0, len(info.Columns))
	for _, c := range info.Columns {
		col := map[string]any{
			"name":        c.Name,
			"type":        c.Type,
			"not_null":    c.NotNull,
			"primary_key": c.IsPrimaryKey(),
		}
		if c.DefaultValue.Valid {
			col["default"] = c.DefaultValue.String
		}
		cols = append(cols, col)
	}
	return map[string]any{
		"name":         info.Name,
		"sql":          info.SQL,
		"columns":      cols,
		"indexes":      info.Indexes,
		"foreign_keys": info.ForeignKeys,
		"rows":         info.RowCount,
	}
}

// cmdCreateTable creates a table from column definitions.
func (h *Handler) cmdCreateTable(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 2 {
		ctx.Usage(`create-table <table> "<column definitions>"`)
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	defs := strings.Join(args[1:], " ")
	if _, err := h.sess.CreateTable(table, defs); err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, map[string]any{"created": table})
		return
	}
	fmt.Fprintf(ctx.Out, "Created table %s (%s)\n", table, defs)
}

// cmdDropTable drops a table. It needs --confirm.
func (h *Handler) cmdDropTable(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("drop-table <table> --confirm")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	if !ctx.HasFlag("confirm") {
		fmt.Fprintf(ctx.Err, "Error: dropping %s deletes all of its rows; add --confirm to proceed\n", table)
		ctx.Exit(1)
		return
	}

	if _, err := h.sess.DropTable(table); err != nil {
		ctx.Fail(err)
		return
	}
	fmt.Fprintf(ctx.Out, "Dropped table %s\n", table)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
