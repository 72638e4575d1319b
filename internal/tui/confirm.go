package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// confirm asks before a destructive operation. In typed mode the word
// "yes" has to be entered; otherwise a single y is enough. Anything else
// cancels.
type confirm struct {
	title  string
	prompt string
	typed  bool
	input  textinput.Model
	onYes  func(ctx *Context) Action
}

func newConfirm(title, prompt string, onYes func(ctx *Context) Action) *confirm {
	return &confirm{title: title, prompt: prompt, onYes: onYes}
}

func newTypedConfirm(title, prompt string, onYes func(ctx *Context) Action) *confirm {
	c := newConfirm(title, prompt, onYes)
	c.typed = true
	c.input = textinput.New()
	c.input.Prompt = "> "
	c.input.PromptStyle = promptStyle
	c.input.CharLimit = 16
	c.input.Focus()
	return c
}

func (c *confirm) Init() tea.Cmd {
	if c.typed {
		return textinput.Blink
	}
	return nil
}

func (c *confirm) Title() string { return c.title }

func (c *confirm) Help(KeyMap) []key.Binding {
	if c.typed {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("any other key", "cancel")),
	}
}

func (c *confirm) Update(ctx *Context, msg tea.Msg) Action {
	km, ok := msg.(tea.KeyMsg)
	if !c.typed {
		if !ok {
			return Stay()
		}
		if km.String() == "y" || km.String() == "Y" {
			return c.onYes(ctx)
		}
		return Pop().WithCmd(status("Cancelled"))
	}

	if ok {
		switch km.Type {
		case tea.KeyEsc:
			return Pop().WithCmd(status("Cancelled"))
		case tea.KeyEnter:
			if strings.EqualFold(strings.TrimSpace(c.input.Value()), "yes") {
				return c.onYes(ctx)
			}
			return Pop().WithCmd(status("Cancelled"))
		}
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return StayCmd(cmd)
}

func (c *confirm) View(*Context) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.title))
	b.WriteString("\n")
	b.WriteString(errorStyle.Render(c.prompt))
	b.WriteString("\n\n")
	if c.typed {
		b.WriteString(c.input.View())
	} else {
		b.WriteString(dimItemStyle.Render("(y/n)"))
	}
	return b.String()
}
