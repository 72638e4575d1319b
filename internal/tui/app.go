// Package tui is the full-screen interface: a stack of screens drawn by a
// single bubbletea model.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/johan-st/sqlite-viewer/internal/config"
	"github.com/johan-st/sqlite-viewer/internal/grid"
	"github.com/johan-st/sqlite-viewer/internal/session"
)

const (
	minWidth  = 40
	minHeight = 10

	// title bar, connection line, status line and footer help
	chromeLines = 4
)

// App is the main TUI application model.
type App struct {
	ctx   *Context
	stack []Screen
	help  help.Model

	width, height int

	status    string
	statusErr bool
}

// NewApp creates the application with the main menu as its root screen.
func NewApp(sess *session.Session, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &App{
		ctx: &Context{
			Session: sess,
			Config:  cfg,
			Keys:    DefaultKeyMap(),
		},
		help: help.New(),
	}
	a.resize(80, 24)
	a.stack = []Screen{newMainMenu()}
	return a
}

// SetStatus shows a notice until the next key press.
func (a *App) SetStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// Top returns the screen currently shown.
func (a *App) Top() Screen {
	return a.stack[len(a.stack)-1]
}

// Depth returns the number of screens on the stack.
func (a *App) Depth() int {
	return len(a.stack)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		a.status = ""
		a.statusErr = false

	case StatusMsg:
		a.SetStatus(msg.Text, msg.Error)
		return a, nil
	}

	act := a.Top().Update(a.ctx, msg)
	return a, a.apply(act)
}

func (a *App) resize(w, h int) {
	a.width = w
	a.height = h
	a.ctx.Width = w
	a.ctx.Height = max(1, h-chromeLines)
	a.help.Width = w
}

// apply performs a screen stack change and returns the command to run.
func (a *App) apply(act Action) tea.Cmd {
	cmd := act.cmd
	switch act.kind {
	case actionPush:
		a.stack = append(a.stack, act.screen)
		log.Debug("screen pushed", "screen", act.screen.Title(), "depth", len(a.stack))
		return tea.Batch(cmd, a.initTop())
	case actionReplace:
		a.stack[len(a.stack)-1] = act.screen
		return tea.Batch(cmd, a.initTop())
	case actionPop:
		if len(a.stack) > 1 {
			a.stack = a.stack[:len(a.stack)-1]
		}
	case actionRoot:
		a.stack = a.stack[:1]
	case actionQuit:
		return tea.Batch(cmd, tea.Quit)
	}
	return cmd
}

func (a *App) initTop() tea.Cmd {
	if s, ok := a.Top().(initer); ok {
		return s.Init()
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width < minWidth || a.height < minHeight {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			errorStyle.Render(fmt.Sprintf("Terminal too small\nMin: %dx%d", minWidth, minHeight)))
	}

	top := a.Top()
	body := fitLines(top.View(a.ctx), a.ctx.Width, a.ctx.Height)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderTitleBar(top),
		a.renderConnection(),
		body,
		a.renderStatus(),
		a.renderHelp(top),
	)
}

func (a *App) renderTitleBar(top Screen) string {
	title := " SQLite Viewer"
	if t := top.Title(); t != "" {
		title += " - " + t
	}
	return titleBarStyle.
		Background(dbColor(a.ctx.Session.Color())).
		Width(a.width).
		Render(grid.Truncate(title, a.width))
}

func (a *App) renderConnection() string {
	sess := a.ctx.Session
	if !sess.Connected() {
		return statusBarStyle.Width(a.width).Render(dimItemStyle.Render(" Not connected"))
	}

	left := statusKeyStyle.Render(" DB: ") + statusValueStyle.Render(sess.Name())
	right := ""
	if sess.ReadOnly() {
		right = readOnlyBadge.Render("read-only")
	}

	room := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 3
	path := dimItemStyle.Render(" " + grid.Truncate(sess.Path(), max(0, room)))
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(path) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(a.width).Render(left + path + strings.Repeat(" ", gap) + right)
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	text := grid.Truncate(a.status, a.width)
	if a.statusErr {
		return errorStyle.Render(text)
	}
	return successStyle.Render(text)
}

func (a *App) renderHelp(top Screen) string {
	bindings := []key.Binding{a.ctx.Keys.Back}
	if h, ok := top.(helper); ok {
		bindings = h.Help(a.ctx.Keys)
	}
	return a.help.ShortHelpView(bindings)
}

// fitLines pads or cuts s to exactly height lines so the footer stays put.
func fitLines(s string, width, height int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}
