package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/johan-st/sqlite-viewer/internal/grid"
)

var errNoHistory = errors.New("history is disabled (history.enabled in the config)")

const defaultHistoryLimit = 50

// cmdHistory shows executed statements for the open database, or for every
// database with --all.
func (h *Handler) cmdHistory(ctx *CommandContext) {
	hist := h.sess.History()
	if hist == nil {
		ctx.Fail(errNoHistory)
		return
	}

	limit, ok := ctx.IntFlag("limit", defaultHistoryLimit)
	if !ok {
		return
	}

	path := h.sess.Path()
	if ctx.HasFlag("all") {
		path = ""
	}
	queries, err := hist.ListQueryHistory(path, limit)
	if err != nil {
		ctx.Fail(fmt.Errorf("error fetching history: %w", err))
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, queries)
		return
	}

	if len(queries) == 0 {
		fmt.Fprintln(ctx.Out, "No query history")
		return
	}

	fmt.Fprintln(ctx.Out, "WHEN\tDURATION\tRESULT\tQUERY")
	for _, q := range queries {
		result := fmt.Sprintf("%d row(s)", q.RowsAffected)
		if q.Error != "" {
			result = "error"
		}
		fmt.Fprintf(ctx.Out, "%s\t%dms\t%s\t%s\n",
			humanize.Time(q.CreatedAt),
			q.ExecutionTimeMs,
			result,
			grid.Truncate(q.Query, 60))
	}
}

// cmdAudit shows data changes made through the commands and tools.
func (h *Handler) cmdAudit(ctx *CommandContext) {
	hist := h.sess.History()
	if hist == nil {
		ctx.Fail(errNoHistory)
		return
	}

	limit, ok := ctx.IntFlag("limit", defaultHistoryLimit)
	if !ok {
		return
	}

	path := h.sess.Path()
	if ctx.HasFlag("all") {
		path = ""
	}
	entries, err := hist.ListAuditLog(path, limit)
	if err != nil {
		ctx.Fail(fmt.Errorf("error fetching audit log: %w", err))
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, entries)
		return
	}

	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out, "No audit log entries")
		return
	}

	fmt.Fprintln(ctx.Out, "WHEN\tACTION\tTABLE\tDETAILS")
	for _, e := range entries {
		fmt.Fprintf(ctx.Out, "%s\t%s\t%s\t%s\n",
			humanize.Time(e.CreatedAt),
			e.Action,
			e.TableName,
			grid.Truncate(e.Details, 40))
	}
}
