package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johan-st/sqlite-viewer/internal/database"
)

// cmdInsert inserts a row from column=value pairs.
func (h *Handler) cmdInsert(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 2 {
		ctx.Usage("insert <table> <column>=<value> ...")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	cols, err := h.sess.TableSchema(table)
	if err != nil {
		ctx.Fail(err)
		return
	}

	var names []string
	var values []any
	for _, pair := range args[1:] {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			ctx.Fail(fmt.Errorf("expected column=value, got %q", pair))
			return
		}
		col, found := findColumn(cols, name)
		if !found {
			ctx.Fail(fmt.Errorf("table %s has no column %q", table, name))
			return
		}
		names = append(names, col.Name)
		values = append(values, database.Coerce(raw, col.Type))
	}

	result, err := h.sess.InsertRow(table, names, values)
	if err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, map[string]any{
			"last_insert_id": result.LastInsertID,
			"rows_affected":  result.RowsAffected,
		})
		return
	}
	fmt.Fprintf(ctx.Out, "Inserted row %d into %s\n", result.LastInsertID, table)
}

// cmdUpdate sets one cell, addressed by rowid.
func (h *Handler) cmdUpdate(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 4 {
		ctx.Usage("update <table> <rowid> <column> <value>")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	rowID, err := parseRowID(args[1])
	if err != nil {
		ctx.Fail(err)
		return
	}

	cols, err := h.sess.TableSchema(table)
	if err != nil {
		ctx.Fail(err)
		return
	}
	col, ok := findColumn(cols, args[2])
	if !ok {
		ctx.Fail(fmt.Errorf("table %s has no column %q", table, args[2]))
		return
	}

	value := strings.Join(args[3:], " ")
	result, err := h.sess.UpdateCell(table, rowID, col.Name, database.Coerce(value, col.Type))
	if err != nil {
		ctx.Fail(err)
		return
	}
	fmt.Fprintln(ctx.Out, result.Summary())
}

// cmdDelete removes one row, addressed by rowid. It needs --confirm.
func (h *Handler) cmdDelete(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 2 {
		ctx.Usage("delete <table> <rowid> --confirm")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	rowID, err := parseRowID(args[1])
	if err != nil {
		ctx.Fail(err)
		return
	}

	if !ctx.HasFlag("confirm") && !ctx.HasFlag("force") {
		fmt.Fprintf(ctx.Err, "Error: add --confirm to delete row %d from %s\n", rowID, table)
		ctx.Exit(1)
		return
	}

	result, err := h.sess.DeleteRow(table, rowID)
	if err != nil {
		ctx.Fail(err)
		return
	}
	fmt.Fprintln(ctx.Out, result.Summary())
}

func parseRowID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("rowid must be a whole number, got %q", s)
	}
	return id, nil
}

func findColumn(cols []database.ColumnInfo, name string) (database.ColumnInfo, bool) {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return database.ColumnInfo{}, false
}
