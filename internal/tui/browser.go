package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/johan-st/sqlite-viewer/internal/browse"
	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/grid"
)

const (
	minListWidth = 20
	gutter       = "> "

	// header, separator, page footer, hidden-columns note and paginator
	browserChrome = 5
)

// browser is the split table browser: table names on the left, the rows of
// the open table (or one record) on the right.
type browser struct {
	ctl    *browse.Controller
	dots   paginator.Model
	tables []string

	// rows of the open table
	result  *database.QueryResult
	columns []database.ColumnInfo
	err     error
}

func newBrowser(ctx *Context) *browser {
	dots := paginator.New()
	dots.Type = paginator.Dots
	dots.ActiveDot = selectedItemStyle.Render("•")
	dots.InactiveDot = dimItemStyle.Render("•")
	dots.KeyMap = paginator.KeyMap{}

	b := &browser{
		ctl:  browse.New(pageSize(ctx)),
		dots: dots,
	}
	b.loadTables(ctx)
	return b
}

// pageSize is the number of rows that fit in the body, unless the config
// fixes it.
func pageSize(ctx *Context) int {
	if ctx.Config != nil && ctx.Config.PageSize > 0 {
		return ctx.Config.PageSize
	}
	return max(1, ctx.Height-browserChrome)
}

func (b *browser) Title() string {
	if b.ctl.State() == browse.BrowsingList || len(b.tables) == 0 {
		return "Browse Tables"
	}
	return "Browse: " + b.tables[b.ctl.SelectedTable()]
}

func (b *browser) Help(keys KeyMap) []key.Binding {
	switch b.ctl.State() {
	case browse.BrowsingRows:
		return []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right, keys.Select, keys.Copy, keys.Refresh, keys.Back}
	case browse.ViewingRecord:
		return []key.Binding{key.NewBinding(key.WithKeys("esc"), key.WithHelp("any key", "back to rows"))}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Select, keys.Refresh, keys.Back}
}

func (b *browser) loadTables(ctx *Context) {
	tables, err := ctx.Session.ListTables()
	if err != nil {
		b.err = err
		return
	}
	b.tables = tables
	b.ctl.SetTables(len(tables))
}

// loadRows fetches the selected table. The page and cursor are kept, so a
// refresh stays where it was as far as the new row count allows.
func (b *browser) loadRows(ctx *Context) {
	b.result, b.columns, b.err = nil, nil, nil
	if len(b.tables) == 0 {
		b.ctl.SetRowCount(0)
		return
	}
	table := b.tables[b.ctl.SelectedTable()]

	res, err := ctx.Session.TableRows(table, 0)
	if err != nil {
		log.Warn("failed to load rows", "table", table, "err", err)
		b.err = err
		b.ctl.SetRowCount(0)
		return
	}
	cols, err := ctx.Session.TableSchema(table)
	if err != nil {
		log.Warn("failed to load schema", "table", table, "err", err)
	}
	b.result = res
	b.columns = cols
	b.ctl.SetRowCount(len(res.Rows))
}

func (b *browser) Update(ctx *Context, msg tea.Msg) Action {
	if n := pageSize(ctx); n != b.ctl.Pager().PageSize() {
		b.ctl.SetPageSize(n)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return Stay()
	}
	keys := ctx.Keys
	state := b.ctl.State()

	if state != browse.ViewingRecord {
		switch {
		case key.Matches(km, keys.Refresh):
			b.loadTables(ctx)
			if state == browse.BrowsingRows {
				b.loadRows(ctx)
			}
			return StayCmd(status("Refreshed"))
		case state == browse.BrowsingRows && key.Matches(km, keys.Copy):
			return StayCmd(b.copyRow())
		case state == browse.BrowsingList && key.Matches(km, keys.Quit):
			return Pop()
		}
	}

	switch b.ctl.HandleKey(translateKey(keys, km)) {
	case browse.EventOpenTable:
		b.loadRows(ctx)
	case browse.EventCloseTable:
		b.result, b.columns, b.err = nil, nil, nil
	case browse.EventExit:
		return Pop()
	}
	return Stay()
}

func translateKey(keys KeyMap, km tea.KeyMsg) browse.Key {
	switch {
	case key.Matches(km, keys.Up):
		return browse.KeyUp
	case key.Matches(km, keys.Down):
		return browse.KeyDown
	case key.Matches(km, keys.Left), key.Matches(km, keys.PageUp):
		return browse.KeyLeft
	case key.Matches(km, keys.Right), key.Matches(km, keys.PageDown):
		return browse.KeyRight
	case key.Matches(km, keys.Select):
		return browse.KeyEnter
	case key.Matches(km, keys.Back):
		return browse.KeyEscape
	}
	return browse.KeyOther
}

func (b *browser) copyRow() tea.Cmd {
	row := b.currentRow()
	if row == nil {
		return nil
	}
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = grid.Text(v)
	}
	if err := clipboard.WriteAll(strings.Join(cells, "\t")); err != nil {
		return statusError(fmt.Errorf("copy failed: %w", err))
	}
	return status("Copied row to clipboard")
}

func (b *browser) currentRow() []any {
	return b.resultRow(b.ctl.Pager().Index())
}

func (b *browser) View(ctx *Context) string {
	listW := max(minListWidth, ctx.Width/4)
	rightW := ctx.Width - listW - 3
	left := b.renderList(listW, ctx.Height)

	var right []string
	switch {
	case b.err != nil:
		right = []string{errorStyle.Render(grid.Truncate("Error: "+b.err.Error(), rightW))}
	case b.ctl.State() == browse.BrowsingList:
		right = []string{dimItemStyle.Render("Select a table and press enter")}
	case b.ctl.State() == browse.ViewingRecord:
		right = b.renderRecord(rightW, ctx.Height)
	default:
		right = b.renderRows(rightW)
	}

	sep := separatorStyle.Render(" │ ")
	lines := make([]string, ctx.Height)
	for i := range lines {
		var l, r string
		if i < len(left) {
			l = left[i]
		} else {
			l = strings.Repeat(" ", listW)
		}
		if i < len(right) {
			r = right[i]
		}
		lines[i] = l + sep + r
	}
	return strings.Join(lines, "\n")
}

// renderList draws the table names, scrolled so the selection is visible.
func (b *browser) renderList(width, height int) []string {
	if len(b.tables) == 0 {
		return []string{dimItemStyle.Render(grid.Fit("(no tables)", width))}
	}
	sel := b.ctl.SelectedTable()
	start := 0
	if sel >= height {
		start = sel - height + 1
	}
	end := min(len(b.tables), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		name := b.tables[i]
		switch {
		case i == sel && b.ctl.State() == browse.BrowsingList:
			lines = append(lines, selectedItemStyle.Render(grid.Fit(gutter+name, width)))
		case i == sel:
			lines = append(lines, normalItemStyle.Render(grid.Fit(gutter+name, width)))
		default:
			lines = append(lines, dimItemStyle.Render(grid.Fit("  "+name, width)))
		}
	}
	return lines
}

func (b *browser) renderRows(width int) []string {
	if b.result == nil {
		return nil
	}
	pager := b.ctl.Pager()
	start, end := pager.Bounds()
	page := b.result.Rows[start:end]

	frame := grid.Table(b.result.Columns, page, width-len(gutter), grid.BoxStyle)

	var lines []string
	if !frame.Plain {
		lines = append(lines,
			"  "+tableHeaderStyle.Render(frame.Header),
			"  "+separatorStyle.Render(frame.Separator))
	}
	if len(page) == 0 {
		lines = append(lines, dimItemStyle.Render("  (no rows)"))
	}
	for i, l := range frame.Lines {
		if i == pager.Cursor() {
			lines = append(lines, selectedItemStyle.Render(gutter)+tableSelectedRowStyle.Render(l))
		} else {
			lines = append(lines, "  "+l)
		}
	}

	footer := fmt.Sprintf("Page %d/%d (%d rows)", pager.Page()+1, pager.PageCount(), pager.Total())
	lines = append(lines, dimItemStyle.Render(grid.Truncate(footer, width)))
	if frame.Hidden > 0 {
		note := fmt.Sprintf("+%d columns hidden; enter shows every field", frame.Hidden)
		lines = append(lines, dimItemStyle.Render(grid.Truncate(note, width)))
	}

	if pager.PageCount() > 1 && pager.PageCount() <= width/2 {
		dots := b.dots
		dots.PerPage = pager.PageSize()
		dots.SetTotalPages(pager.Total())
		dots.Page = pager.Page()
		lines = append(lines, dots.View())
	}
	return lines
}

// minRecordColumn is the narrowest a column of "name: value" fields gets
// before the record view stops adding columns.
const minRecordColumn = 24

// renderRecord shows every field of one row. Fields are "name (type):" over
// an indented value while that fits the height, then one line each, then
// one line each across several columns. Fields that still do not fit are
// counted in a closing line.
func (b *browser) renderRecord(width, height int) []string {
	row := b.resultRow(b.ctl.RecordIndex())
	if row == nil {
		return []string{dimItemStyle.Render("(record not available)")}
	}

	types := make(map[string]string, len(b.columns))
	for _, c := range b.columns {
		types[c.Name] = c.Type
	}

	title := fmt.Sprintf("Record %d of %d", b.ctl.RecordIndex()+1, len(b.result.Rows))
	lines := []string{titleStyle.UnsetMarginBottom().Render(title), ""}

	fields := make([][2]string, len(b.result.Columns))
	for i, name := range b.result.Columns {
		var v any
		if i < len(row) {
			v = row[i]
		}
		label := name
		if t := types[name]; t != "" {
			label = fmt.Sprintf("%s (%s)", name, t)
		}
		fields[i] = [2]string{label, grid.Text(v)}
	}

	room := max(1, height-len(lines))
	if 2*len(fields) <= room {
		for _, f := range fields {
			lines = append(lines,
				labelStyle.Render(grid.Truncate(f[0]+":", width)),
				"  "+grid.Truncate(f[1], width-2))
		}
		return lines
	}
	return append(lines, recordColumns(fields, width, room)...)
}

// recordColumns lays fields out one per line, column-major, using as many
// columns as needed and the width allows.
func recordColumns(fields [][2]string, width, room int) []string {
	const gap = "  "
	cols := (len(fields) + room - 1) / room
	maxCols := max(1, (width+len(gap))/(minRecordColumn+len(gap)))
	perCol := room
	shown := len(fields)
	if cols > maxCols {
		cols = maxCols
		// Keep the last line for the overflow count.
		perCol = max(1, room-1)
		shown = min(len(fields), cols*perCol)
	}
	if cols == 1 {
		perCol = shown
	}
	colW := (width - (cols-1)*len(gap)) / cols

	lines := make([]string, perCol)
	for c := 0; c < cols; c++ {
		for r := 0; r < perCol; r++ {
			i := c*perCol + r
			var cell string
			if i < shown {
				f := fields[i]
				label := grid.Truncate(f[0]+": ", colW)
				value := grid.Truncate(f[1], colW-grid.Width(label))
				cell = labelStyle.Render(label) + value + strings.Repeat(" ", max(0, colW-grid.Width(label)-grid.Width(value)))
			} else {
				cell = strings.Repeat(" ", colW)
			}
			if c > 0 {
				lines[r] += gap
			}
			lines[r] += cell
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if hidden := len(fields) - shown; hidden > 0 {
		note := fmt.Sprintf("+%d more fields; enlarge the terminal or use 'record' in line mode", hidden)
		lines = append(lines, dimItemStyle.Render(grid.Truncate(note, width)))
	}
	return lines
}

func (b *browser) resultRow(i int) []any {
	if b.result == nil || i < 0 || i >= len(b.result.Rows) {
		return nil
	}
	return b.result.Rows[i]
}
