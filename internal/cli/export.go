package cli

import (
	"fmt"
)

// cmdExport writes every row of a table to stdout.
func (h *Handler) cmdExport(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("export <table> [--format=csv|json]")
		return
	}
	if !h.requireConnection(ctx) {
		return
	}

	table := args[0]
	format := ctx.GetFlag("format")
	if format == "" {
		format = "csv" // Default to CSV for export
	}
	if format != "csv" && format != "json" {
		ctx.Fail(fmt.Errorf("unknown format %q (use csv or json)", format))
		return
	}

	result, err := h.sess.AllRows(table)
	if err != nil {
		ctx.Fail(err)
		return
	}

	switch format {
	case "json":
		printJSON(ctx.Out, rowMaps(result))
	case "csv":
		if err := printCSV(ctx.Out, result.Columns, result.Rows); err != nil {
			ctx.Fail(err)
			return
		}
	}
	h.sess.RecordExport(table, format, len(result.Rows))
}
