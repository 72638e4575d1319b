package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
)

const readmeText = `# SQLite Viewer

Browse and edit SQLite databases from the terminal.

## Getting started

1. Choose **Connect to Database** and pick a saved database, or add a new
   one by typing the path to a ` + "`.db`, `.sqlite`, `.sqlite3` or `.db3`" + ` file.
2. Give it a name and a color. The color is used for the title bar so
   different databases are easy to tell apart.
3. The last database is opened again the next time the program starts.

## Browsing

- **↑/↓** move through tables and rows.
- **enter** opens a table, then shows the highlighted row as a record.
- **←/→** or **pgup/pgdn** change page.
- **y** copies the highlighted row to the clipboard, tab separated.
- **r** reloads the table list and rows.
- **esc** goes back.

Columns that do not fit the terminal are hidden from the grid; open the
record view to see every value.

## Execute SQL

Statements run against the connected database. Results that return rows
are shown as a table; other statements report how many rows changed.
Use **↑/↓** to recall earlier statements.

## Tools

Insert, update and delete records, create and drop tables, and inspect a
table's columns, indexes and foreign keys. Updates and deletes address
rows by their rowid; run ` + "`SELECT rowid, * FROM table`" + ` in Execute SQL
to look them up.

When inserting, a blank field leaves the column to its default. Typing
` + "`null`" + ` stores NULL, and numbers typed into numeric columns are stored
as numbers.

## Line mode

When the terminal cannot show the full-screen interface, a line-based
prompt is used instead. Type ` + "`help`" + ` there for the command list.
`

// textView shows a long block of text in a scrollable viewport.
type textView struct {
	title  string
	render func(width int) string

	vp    viewport.Model
	width int
	ready bool
}

func newTextView(title string, render func(width int) string) *textView {
	return &textView{title: title, render: render}
}

func newReadme() *textView {
	return newTextView("Read Me", renderMarkdown)
}

func renderMarkdown(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		log.Warn("markdown renderer unavailable", "err", err)
		return readmeText
	}
	out, err := r.Render(readmeText)
	if err != nil {
		log.Warn("markdown render failed", "err", err)
		return readmeText
	}
	return strings.TrimRight(out, "\n")
}

func (t *textView) Title() string { return t.title }

func (t *textView) Help(keys KeyMap) []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.PageUp, keys.PageDown, keys.Back}
}

// layout creates the viewport on first use and re-renders the content when
// the width changes.
func (t *textView) layout(ctx *Context) {
	if !t.ready {
		t.vp = viewport.New(ctx.Width, ctx.Height)
		t.ready = true
	}
	t.vp.Height = ctx.Height
	if t.width != ctx.Width {
		t.width = ctx.Width
		t.vp.Width = ctx.Width
		t.vp.SetContent(t.render(ctx.Width))
	}
}

func (t *textView) Update(ctx *Context, msg tea.Msg) Action {
	t.layout(ctx)
	if km, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(km, ctx.Keys.Back) || key.Matches(km, ctx.Keys.Quit) {
			return Pop()
		}
	}
	var cmd tea.Cmd
	t.vp, cmd = t.vp.Update(msg)
	return StayCmd(cmd)
}

func (t *textView) View(ctx *Context) string {
	t.layout(ctx)
	return t.vp.View()
}
