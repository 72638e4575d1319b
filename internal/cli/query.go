package cli

import (
	"fmt"
	"strconv"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/grid"
)

// defaultPageSize is used by browse when the config leaves it to the
// viewport.
const defaultPageSize = 20

// cmdSQL executes a statement.
func (h *Handler) cmdSQL(ctx *CommandContext) {
	stmt := ctx.Text()
	if stmt == "" {
		ctx.Usage(`sql "<statement>" [--format=table|json|csv]`)
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	result, err := h.sess.Execute(stmt)
	if err != nil {
		ctx.Fail(err)
		return
	}
	h.formatQueryResult(ctx, result, ctx.GetFlag("format"))
}

// cmdCount counts rows in a table.
func (h *Handler) cmdCount(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("count <table>")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	n, err := h.sess.CountRows(args[0])
	if err != nil {
		ctx.Fail(err)
		return
	}
	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, map[string]any{"count": n})
		return
	}
	fmt.Fprintln(ctx.Out, n)
}

// cmdBrowse prints one page of a table.
func (h *Handler) cmdBrowse(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("browse <table> [--page=N] [--page-size=N]")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	page, ok := ctx.IntFlag("page", 1)
	if !ok {
		return
	}
	size := h.cfg.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size, ok = ctx.IntFlag("page-size", size); !ok {
		return
	}
	if size <= 0 {
		ctx.Fail(fmt.Errorf("--page-size must be positive, got %d", size))
		return
	}

	result, err := h.sess.TableRows(args[0], 0)
	if err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, rowMaps(result))
		return
	}

	pager := grid.NewPager(size)
	pager.SetTotal(len(result.Rows))
	pager.SetPage(page - 1)
	start, end := pager.Bounds()

	fmt.Fprintf(ctx.Out, "Table: %s\n", args[0])
	if len(result.Rows) == 0 {
		fmt.Fprintln(ctx.Out, "(no rows)")
		return
	}

	frame := grid.Table(result.Columns, result.Rows[start:end], h.width, grid.ASCIIStyle)
	printFrame(ctx.Out, frame)
	fmt.Fprintf(ctx.Out, "Page %d/%d (%d rows)\n", pager.Page()+1, pager.PageCount(), pager.Total())
	if frame.Hidden > 0 {
		fmt.Fprintf(ctx.Out, "+%d columns hidden; use 'record %s <n>' to see a full row\n", frame.Hidden, args[0])
	}
}

// cmdRecord prints every field of one row. Rows are numbered from 1.
func (h *Handler) cmdRecord(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 2 {
		ctx.Usage("record <table> <n>")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	n, err := strconv.Atoi(args[1])
	if err != nil {
		ctx.Fail(fmt.Errorf("record number must be a whole number, got %q", args[1]))
		return
	}

	result, err := h.sess.TableRows(table, 0)
	if err != nil {
		ctx.Fail(err)
		return
	}
	if n < 1 || n > len(result.Rows) {
		ctx.Fail(fmt.Errorf("record %d out of range; %s has %d row(s)", n, table, len(result.Rows)))
		return
	}
	row := result.Rows[n-1]

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, rowMap(result.Columns, row))
		return
	}

	types := map[string]string{}
	if cols, err := h.sess.TableSchema(table); err == nil {
		for _, c := range cols {
			types[c.Name] = c.Type
		}
	}

	fmt.Fprintf(ctx.Out, "Record %d of %d\n\n", n, len(result.Rows))
	valueWidth := h.width - 2
	for i, col := range result.Columns {
		label := col
		if t := types[col]; t != "" {
			label = fmt.Sprintf("%s (%s)", col, t)
		}
		var v any
		if i < len(row) {
			v = row[i]
		}
		fmt.Fprintf(ctx.Out, "%s:\n  %s\n", label, grid.Truncate(grid.Text(v), valueWidth))
	}
}

// formatQueryResult formats and outputs a query result.
func (h *Handler) formatQueryResult(ctx *CommandContext, result *database.QueryResult, format string) {
	switch format {
	case "json":
		if !result.IsSelect {
			printJSON(ctx.Out, map[string]any{
				"rows_affected":  result.RowsAffected,
				"last_insert_id": result.LastInsertID,
			})
			return
		}
		printJSON(ctx.Out, rowMaps(result))

	case "csv":
		if !result.IsSelect {
			fmt.Fprintln(ctx.Out, result.Summary())
			return
		}
		if err := printCSV(ctx.Out, result.Columns, result.Rows); err != nil {
			ctx.Fail(err)
		}

	case "", "table":
		if !result.IsSelect {
			fmt.Fprintln(ctx.Out, result.Summary())
			return
		}
		if len(result.Rows) > 0 {
			frame := grid.Table(result.Columns, result.Rows, h.width, grid.ASCIIStyle)
			printFrame(ctx.Out, frame)
			if frame.Hidden > 0 {
				fmt.Fprintf(ctx.Out, "+%d columns hidden; use --format=json to see them\n", frame.Hidden)
			}
		}
		fmt.Fprintln(ctx.Out, result.Summary())

	default:
		ctx.Fail(fmt.Errorf("unknown format %q (want table, json or csv)", format))
	}
}

// rowMaps converts a result to one map per row, for JSON output.
func rowMaps(result *database.QueryResult) []map[string]any {
	rows := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, rowMap(result.Columns, row))
	}
	return rows
}

func rowMap(columns []string, row []any) map[string]any {
	m := make(map[string]any, len(columns))
	for i, col := range columns {
		if i < len(row) {
			m[col] = jsonValue(row[i])
		}
	}
	return m
}

// jsonValue keeps blobs readable; everything else encodes as is.
func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return grid.Text(b)
	}
	return v
}
