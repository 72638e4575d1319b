package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label string
	hint  string
	// swatch, when set, is drawn in front of the label.
	swatch lipgloss.Color
	run    func(ctx *Context) Action
}

// menu is a vertical list of choices. Up and down wrap around; digits pick
// an item directly.
type menu struct {
	title  string
	header string
	items  []menuItem
	cursor int
	root   bool
	empty  string

	// onKey handles extra keys for the highlighted item. It returns false
	// when it did not consume the key.
	onKey func(ctx *Context, msg tea.KeyMsg, i int) (Action, bool)
}

func newMenu(title string, items []menuItem) *menu {
	return &menu{title: title, items: items}
}

func (m *menu) Title() string { return m.title }

func (m *menu) Help(keys KeyMap) []key.Binding {
	back := keys.Back
	if m.root {
		back = keys.Quit
	}
	return []key.Binding{keys.Up, keys.Down, keys.Select, back}
}

func (m *menu) Update(ctx *Context, msg tea.Msg) Action {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return Stay()
	}
	keys := ctx.Keys

	switch {
	case key.Matches(km, keys.Up):
		if n := len(m.items); n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case key.Matches(km, keys.Down):
		if n := len(m.items); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case key.Matches(km, keys.Select):
		if m.cursor < len(m.items) {
			return m.items[m.cursor].run(ctx)
		}
	case key.Matches(km, keys.Back), key.Matches(km, keys.Quit):
		if m.root {
			return Quit()
		}
		return Pop()
	default:
		if m.onKey != nil && len(m.items) > 0 {
			if act, done := m.onKey(ctx, km, m.cursor); done {
				return act
			}
		}
		if i, ok := digit(km); ok && i < len(m.items) {
			m.cursor = i
			return m.items[i].run(ctx)
		}
	}
	return Stay()
}

func (m *menu) View(ctx *Context) string {
	var b strings.Builder
	if m.header != "" {
		b.WriteString(m.header)
		b.WriteString("\n\n")
	}
	if len(m.items) == 0 {
		b.WriteString(dimItemStyle.Render(m.empty))
		return b.String()
	}

	for i, item := range m.items {
		label := item.label
		if len(m.items) < 10 {
			label = fmt.Sprintf("%d. %s", i+1, label)
		}
		if item.swatch != "" {
			label = lipgloss.NewStyle().Foreground(item.swatch).Render("●") + " " + label
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(normalItemStyle.Render("  " + label))
		}
		if item.hint != "" {
			b.WriteString("  " + dimItemStyle.Render(item.hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// digit maps the keys 1-9 to item indices.
func digit(km tea.KeyMsg) (int, bool) {
	if km.Type != tea.KeyRunes || len(km.Runes) != 1 {
		return 0, false
	}
	r := km.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

func newMainMenu() *menu {
	m := newMenu("Main Menu", []menuItem{
		{label: "Connect to Database", run: func(ctx *Context) Action {
			return Push(newConnectMenu(ctx))
		}},
		{label: "Browse Tables", run: func(ctx *Context) Action {
			return requireConnection(ctx, func() Action { return Push(newBrowser(ctx)) })
		}},
		{label: "Execute SQL", run: func(ctx *Context) Action {
			return requireConnection(ctx, func() Action { return Push(newSQLScreen(ctx)) })
		}},
		{label: "Tools", run: func(ctx *Context) Action {
			return requireConnection(ctx, func() Action { return Push(newToolsMenu()) })
		}},
		{label: "Read Me", run: func(ctx *Context) Action {
			return Push(newReadme())
		}},
		{label: "Disconnect", run: func(ctx *Context) Action {
			if !ctx.Session.Connected() {
				return StayCmd(status("Not connected"))
			}
			name := ctx.Session.Name()
			ctx.Session.Disconnect()
			return StayCmd(status("Disconnected from " + name))
		}},
		{label: "Quit", run: func(*Context) Action { return Quit() }},
	})
	m.root = true
	return m
}

