// Package grid lays out tabular SQL results inside a fixed character budget.
//
// It formats cells, allocates column widths, renders header, separator and
// data lines, and pages through row sets. Nothing here talks to the database
// or to the terminal; callers pass plain rows and get strings back.
package grid

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Null is the marker shown for SQL NULL values.
const Null = "NULL"

const ellipsis = "..."

// cond measures display width with ambiguous East Asian runes treated as
// narrow, so the box-drawing glyphs count as one column on every locale.
var cond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Text returns the canonical string form of a cell value.
func Text(v any) string {
	if v == nil {
		return Null
	}
	switch val := v.(type) {
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return fmt.Sprintf("%d", val)
	case int:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	case sql.NullString:
		if val.Valid {
			return val.String
		}
		return Null
	case sql.NullInt64:
		if val.Valid {
			return fmt.Sprintf("%d", val.Int64)
		}
		return Null
	case sql.NullFloat64:
		if val.Valid {
			return fmt.Sprintf("%g", val.Float64)
		}
		return Null
	case sql.NullBool:
		if val.Valid {
			return Text(val.Bool)
		}
		return Null
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Cell renders v into exactly width display columns.
func Cell(v any, width int) string {
	return Fit(Text(v), width)
}

// Fit truncates s to width display columns and pads it on the right.
// Widths of 4 or more end truncated text with "..."; narrower columns are
// cut without an ellipsis.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = flatten(s)
	if cond.StringWidth(s) > width {
		tail := ellipsis
		if width < 4 {
			tail = ""
		}
		s = cond.Truncate(s, width, tail)
	}
	return cond.FillRight(s, width)
}

// Width reports the display width of s as Fit measures it.
func Width(s string) int {
	return cond.StringWidth(flatten(s))
}

// Truncate shortens s to at most width display columns, with an ellipsis
// when there is room for one. Unlike Fit it does not pad.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = flatten(s)
	if width < 4 {
		return cond.Truncate(s, width, "")
	}
	return cond.Truncate(s, width, ellipsis)
}

// flatten replaces line breaks and tabs so one cell stays on one line.
func flatten(s string) string {
	if !strings.ContainsAny(s, "\n\r\t") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}
