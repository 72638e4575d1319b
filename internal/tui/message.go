package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// message shows the outcome of an operation. Any key returns to the
// previous screen.
type message struct {
	title string
	body  string
	err   bool
}

func newMessage(title, body string, isErr bool) *message {
	return &message{title: title, body: body, err: isErr}
}

func errorMessage(title string, err error) *message {
	return newMessage(title, "Error: "+err.Error(), true)
}

func (m *message) Title() string { return m.title }

func (m *message) Help(KeyMap) []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("any key", "continue"))}
}

func (m *message) Update(_ *Context, msg tea.Msg) Action {
	if _, ok := msg.(tea.KeyMsg); ok {
		return Pop()
	}
	return Stay()
}

func (m *message) View(*Context) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	if m.err {
		b.WriteString(errorStyle.Render(m.body))
	} else {
		b.WriteString(successStyle.Render(m.body))
	}
	b.WriteString("\n\n")
	b.WriteString(dimItemStyle.Render("Press any key to continue"))
	return b.String()
}
