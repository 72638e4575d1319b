package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	value       string
	suggestions []string
}

// form collects a few lines of text. Enter moves to the next field and
// submits on the last one; submit errors are shown under the inputs.
type form struct {
	title  string
	note   string
	labels []string
	inputs []textinput.Model
	focus  int
	err    error

	submit func(ctx *Context, values []string) (Action, error)
}

func newForm(title string, fields []field, submit func(ctx *Context, values []string) (Action, error)) *form {
	f := &form{title: title, submit: submit}
	for i, fd := range fields {
		t := textinput.New()
		t.Prompt = "> "
		t.PromptStyle = promptStyle
		t.CharLimit = 1024
		t.Width = 60
		t.Placeholder = fd.placeholder
		t.SetValue(fd.value)
		if len(fd.suggestions) > 0 {
			t.ShowSuggestions = true
			t.SetSuggestions(fd.suggestions)
		}
		if i == 0 {
			t.Focus()
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, t)
	}
	return f
}

func (f *form) Init() tea.Cmd { return textinput.Blink }

func (f *form) Title() string { return f.title }

func (f *form) Help(keys KeyMap) []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "field")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		keys.Back,
	}
}

func (f *form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = in.Value()
	}
	return values
}

func (f *form) Update(ctx *Context, msg tea.Msg) Action {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return Pop()
		case "enter":
			if f.focus < len(f.inputs)-1 {
				return StayCmd(f.move(1))
			}
			act, err := f.submit(ctx, f.Values())
			if err != nil {
				f.err = err
				return Stay()
			}
			return act
		case "up", "shift+tab":
			return StayCmd(f.move(-1))
		case "down":
			return StayCmd(f.move(1))
		}
	}

	if len(f.inputs) == 0 {
		return Stay()
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return StayCmd(cmd)
}

func (f *form) move(delta int) tea.Cmd {
	next := f.focus + delta
	if next < 0 || next >= len(f.inputs) {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = next
	return f.inputs[f.focus].Focus()
}

func (f *form) View(ctx *Context) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(f.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	if f.err != nil {
		b.WriteString(errorStyle.Render("Error: " + f.err.Error()))
		b.WriteString("\n")
	}
	if f.note != "" {
		b.WriteString(dimItemStyle.Render(f.note))
		b.WriteString("\n")
	}
	return b.String()
}
