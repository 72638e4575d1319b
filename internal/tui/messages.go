package tui

import tea "github.com/charmbracelet/bubbletea"

// StatusMsg sets the one-line notice above the footer. It is cleared by
// the next key press.
type StatusMsg struct {
	Text  string
	Error bool
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func statusError(err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: err.Error(), Error: true} }
}
