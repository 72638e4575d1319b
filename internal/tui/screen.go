package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/johan-st/sqlite-viewer/internal/config"
	"github.com/johan-st/sqlite-viewer/internal/session"
)

// Context is handed to every screen. Width and Height describe the body
// area, excluding the title, status and footer lines drawn by App.
type Context struct {
	Session *session.Session
	Config  *config.Config
	Keys    KeyMap

	Width  int
	Height int
}

// Screen is one page of the UI. Screens live on a stack owned by App.
type Screen interface {
	Title() string
	View(ctx *Context) string
	Update(ctx *Context, msg tea.Msg) Action
}

// initer is implemented by screens that need a command when they are shown,
// such as a cursor blink.
type initer interface {
	Init() tea.Cmd
}

// helper is implemented by screens with their own footer bindings.
type helper interface {
	Help(keys KeyMap) []key.Binding
}

type actionKind int

const (
	actionStay actionKind = iota
	actionPush
	actionReplace
	actionPop
	actionRoot
	actionQuit
)

// Action tells App what to do with the screen stack after an update.
type Action struct {
	kind   actionKind
	screen Screen
	cmd    tea.Cmd
}

func Stay() Action               { return Action{kind: actionStay} }
func Push(s Screen) Action       { return Action{kind: actionPush, screen: s} }
func Replace(s Screen) Action    { return Action{kind: actionReplace, screen: s} }
func Pop() Action                { return Action{kind: actionPop} }
func Root() Action               { return Action{kind: actionRoot} }
func Quit() Action               { return Action{kind: actionQuit} }
func StayCmd(cmd tea.Cmd) Action { return Action{kind: actionStay, cmd: cmd} }

// WithCmd attaches a command to run after the stack change.
func (a Action) WithCmd(cmd tea.Cmd) Action {
	a.cmd = tea.Batch(a.cmd, cmd)
	return a
}

// requireConnection runs open when a database is connected and otherwise
// shows a notice.
func requireConnection(ctx *Context, open func() Action) Action {
	if !ctx.Session.Connected() {
		return Push(newMessage("Not connected", "Connect to a database first.", true))
	}
	return open()
}

// requireWritable is requireConnection for screens that change data.
func requireWritable(ctx *Context, open func() Action) Action {
	return requireConnection(ctx, func() Action {
		if ctx.Session.ReadOnly() {
			return Push(newMessage("Read-only", "The database was opened read-only.", true))
		}
		return open()
	})
}
