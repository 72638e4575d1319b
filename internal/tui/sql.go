package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/grid"
)

const (
	maxQueryHistory = 100

	// input, blank line, header, separator and summary
	sqlChrome = 5
)

// sqlScreen runs ad-hoc statements. Up and down walk the query history;
// page keys move through the result.
type sqlScreen struct {
	input textinput.Model

	history      []string // most recent first
	historyIdx   int      // -1 = current input, 0+ = history index
	historyDraft string   // saves current input when navigating history

	result *database.QueryResult
	err    error
	pager  *grid.Pager
}

func newSQLScreen(ctx *Context) *sqlScreen {
	in := textinput.New()
	in.Prompt = "SQL> "
	in.PromptStyle = promptStyle
	in.Placeholder = "SELECT * FROM ..."
	in.CharLimit = 0
	in.Focus()

	return &sqlScreen{
		input:      in,
		history:    ctx.Session.RecentQueries(maxQueryHistory),
		historyIdx: -1,
		pager:      grid.NewPager(sqlPageSize(ctx)),
	}
}

func sqlPageSize(ctx *Context) int {
	return max(1, ctx.Height-sqlChrome)
}

func (s *sqlScreen) Init() tea.Cmd { return textinput.Blink }

func (s *sqlScreen) Title() string { return "Execute SQL" }

func (s *sqlScreen) Help(keys KeyMap) []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history")),
		keys.PageUp, keys.PageDown, keys.Back,
	}
}

func (s *sqlScreen) Update(ctx *Context, msg tea.Msg) Action {
	s.input.Width = max(10, ctx.Width-len(s.input.Prompt)-1)
	s.pager.SetPageSize(sqlPageSize(ctx))

	km, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case km.Type == tea.KeyEsc:
			return Pop()
		case km.Type == tea.KeyEnter:
			s.execute(ctx)
			return Stay()
		case km.Type == tea.KeyUp:
			s.older()
			return Stay()
		case km.Type == tea.KeyDown:
			s.newer()
			return Stay()
		case key.Matches(km, ctx.Keys.PageUp):
			s.pager.PrevPage()
			return Stay()
		case key.Matches(km, ctx.Keys.PageDown):
			s.pager.NextPage()
			return Stay()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return StayCmd(cmd)
}

func (s *sqlScreen) execute(ctx *Context) {
	query := strings.TrimSpace(s.input.Value())
	if query == "" {
		return
	}
	if len(s.history) == 0 || s.history[0] != query {
		s.history = append([]string{query}, s.history...)
		if len(s.history) > maxQueryHistory {
			s.history = s.history[:maxQueryHistory]
		}
	}
	s.historyIdx = -1
	s.historyDraft = ""

	s.result, s.err = ctx.Session.Execute(query)
	s.pager.Reset()
	s.pager.SetTotal(0)
	if s.err == nil && s.result != nil && s.result.IsSelect {
		s.pager.SetTotal(len(s.result.Rows))
	}
	s.input.SetValue("")
}

// older navigates to an older query in history.
func (s *sqlScreen) older() {
	if len(s.history) == 0 || s.historyIdx >= len(s.history)-1 {
		return
	}
	if s.historyIdx == -1 {
		s.historyDraft = s.input.Value()
	}
	s.historyIdx++
	s.input.SetValue(s.history[s.historyIdx])
	s.input.CursorEnd()
}

// newer navigates back toward the draft that was being typed.
func (s *sqlScreen) newer() {
	if s.historyIdx < 0 {
		return
	}
	s.historyIdx--
	if s.historyIdx == -1 {
		s.input.SetValue(s.historyDraft)
	} else {
		s.input.SetValue(s.history[s.historyIdx])
	}
	s.input.CursorEnd()
}

func (s *sqlScreen) View(ctx *Context) string {
	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.err != nil:
		b.WriteString(errorStyle.Render(grid.Truncate("Error: "+s.err.Error(), ctx.Width)))
	case s.result == nil:
		b.WriteString(dimItemStyle.Render("Type a statement and press enter."))
	case !s.result.IsSelect:
		b.WriteString(successStyle.Render(s.result.Summary()))
	default:
		b.WriteString(s.renderResult(ctx.Width))
	}
	return b.String()
}

func (s *sqlScreen) renderResult(width int) string {
	start, end := s.pager.Bounds()
	frame := grid.Table(s.result.Columns, s.result.Rows[start:end], width, grid.BoxStyle)

	var lines []string
	if !frame.Plain && frame.Header != "" {
		lines = append(lines, tableHeaderStyle.Render(frame.Header), separatorStyle.Render(frame.Separator))
	}
	lines = append(lines, frame.Lines...)

	summary := s.result.Summary()
	if s.pager.PageCount() > 1 {
		summary += fmt.Sprintf("  page %d/%d", s.pager.Page()+1, s.pager.PageCount())
	}
	if frame.Hidden > 0 {
		summary += fmt.Sprintf("  +%d columns hidden", frame.Hidden)
	}
	lines = append(lines, dimItemStyle.Render(grid.Truncate(summary, width)))
	return strings.Join(lines, "\n")
}
