package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Style holds the glyphs used between columns.
type Style struct {
	Vertical   string
	Horizontal string
	Cross      string
}

var (
	// BoxStyle draws with box-drawing characters.
	BoxStyle = Style{Vertical: "│", Horizontal: "─", Cross: "┼"}

	// ASCIIStyle is for terminals that cannot be trusted with Unicode.
	ASCIIStyle = Style{Vertical: "|", Horizontal: "-", Cross: "+"}
)

// Frame is a rendered page of rows.
type Frame struct {
	Header    string
	Separator string
	Lines     []string

	// Hidden is the number of trailing columns that did not fit.
	Hidden int

	// Plain is set when the layout failed and Lines hold a raw listing.
	Plain bool
}

// Empty reports whether the frame has nothing to show.
func (f Frame) Empty() bool {
	return f.Header == "" && len(f.Lines) == 0
}

// Render formats rows with the given column widths. Only the first
// len(widths) columns are rendered; rows shorter than that get blank cells
// and longer rows are cut.
func Render(headers []string, rows [][]any, widths []int, style Style) Frame {
	n := len(widths)
	if n > len(headers) {
		n = len(headers)
	}

	sep := " " + style.Vertical + " "

	cells := make([]string, n)
	for i := 0; i < n; i++ {
		cells[i] = Fit(headers[i], widths[i])
	}
	header := strings.Join(cells, sep)

	rules := make([]string, n)
	for i := 0; i < n; i++ {
		rules[i] = strings.Repeat(style.Horizontal, widths[i])
	}
	separator := strings.Join(rules, style.Horizontal+style.Cross+style.Horizontal)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		for i := 0; i < n; i++ {
			if i < len(row) {
				cells[i] = Cell(row[i], widths[i])
			} else {
				cells[i] = strings.Repeat(" ", widths[i])
			}
		}
		lines = append(lines, strings.Join(cells, sep))
	}

	return Frame{
		Header:    header,
		Separator: separator,
		Lines:     lines,
		Hidden:    len(headers) - n,
	}
}

// Table allocates widths for rows and renders them. A failure anywhere in
// the layout falls back to Plain so the caller always gets something to show.
func Table(headers []string, rows [][]any, available int, style Style) (frame Frame) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("grid layout failed, using plain listing", "err", fmt.Sprint(r))
			frame = Plain(rows, available)
		}
	}()

	return layout(headers, rows, available, style)
}

// layout is the allocate-then-render path of Table.
var layout = func(headers []string, rows [][]any, available int, style Style) Frame {
	widths, ok := Allocate(headers, rows, available)
	if !ok {
		return Frame{}
	}
	return Render(headers, rows, widths, style)
}

// Plain joins raw cell values with " | ", one line per row, cut to width.
func Plain(rows [][]any, width int) Frame {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = Text(v)
		}
		line := strings.Join(parts, " | ")
		if width > 0 {
			line = Truncate(line, width)
		}
		lines = append(lines, line)
	}
	return Frame{Lines: lines, Plain: true}
}
