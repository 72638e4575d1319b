package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/store"
)

// maxSuggestions caps how many discovered files are listed under the path
// input.
const maxSuggestions = 8

func newConnectMenu(ctx *Context) *menu {
	items := []menuItem{
		{label: "Saved Databases", run: func(ctx *Context) Action {
			return Push(newSavedList(ctx))
		}},
		{label: "New Database", run: func(ctx *Context) Action {
			return Push(newConnectForm())
		}},
	}
	if ctx.Session.Connected() {
		items = append(items, menuItem{label: "Change Color", run: func(ctx *Context) Action {
			return Push(newColorPicker("Change Color", func(ctx *Context, c store.Color) Action {
				if err := ctx.Session.SetColor(c); err != nil {
					return Replace(errorMessage("Change Color", err))
				}
				return Pop().WithCmd(status("Color set to " + c.String()))
			}))
		}})
	}
	items = append(items, menuItem{label: "Back", run: func(*Context) Action { return Pop() }})
	return newMenu("Connect", items)
}

// newSavedList lists the saved databases. Enter connects; d forgets the
// highlighted entry.
func newSavedList(ctx *Context) *menu {
	m := newMenu("Saved Databases", nil)
	m.empty = "No saved databases. Use New Database to add one."
	m.header = dimItemStyle.Render("enter: connect   d: remove from list")
	fillSaved(m, ctx.Session.Store())

	del := ctx.Keys.Delete
	m.onKey = func(ctx *Context, km tea.KeyMsg, i int) (Action, bool) {
		if !key.Matches(km, del) {
			return Stay(), false
		}
		st := ctx.Session.Store()
		entries := st.List()
		if i >= len(entries) {
			return Stay(), true
		}
		e := entries[i]
		if err := st.Remove(e.Path); err != nil {
			return StayCmd(statusError(err)), true
		}
		log.Info("forgot database", "path", e.Path)
		fillSaved(m, st)
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		return StayCmd(status("Removed " + e.Name)), true
	}
	return m
}

func fillSaved(m *menu, st *store.Store) {
	m.items = m.items[:0]
	for _, e := range st.List() {
		m.items = append(m.items, menuItem{
			label:  e.Name,
			hint:   e.Path,
			swatch: dbColor(e.Color),
			run: func(ctx *Context) Action {
				return connect(ctx, e.Path, e.Name, e.Color)
			},
		})
	}
}

// connect opens a database and returns to the main menu.
func connect(ctx *Context, path, name string, color store.Color) Action {
	if err := ctx.Session.Connect(path, name, color); err != nil {
		return Push(errorMessage("Connect", err))
	}
	return Root().WithCmd(status(fmt.Sprintf("Connected to %s", ctx.Session.Name())))
}

// newConnectForm asks for a path and a display name, then a color.
func newConnectForm() *form {
	found := discoverLocal()
	var paths []string
	for _, d := range found {
		paths = append(paths, d.Path)
	}

	f := newForm("New Database", []field{
		{label: "Path to database file", placeholder: "data/app.db", suggestions: paths},
		{label: "Name (blank for the file name)", placeholder: "app"},
	}, func(ctx *Context, values []string) (Action, error) {
		path := strings.TrimSpace(values[0])
		if path == "" {
			return Stay(), fmt.Errorf("a path is required")
		}
		if _, err := os.Stat(path); err != nil {
			return Stay(), fmt.Errorf("cannot open %s: %w", path, err)
		}
		name := strings.TrimSpace(values[1])
		if name == "" {
			name = database.DefaultName(path)
		}
		return Replace(newColorPicker("Pick a color for "+name, func(ctx *Context, c store.Color) Action {
			return connect(ctx, path, name, c)
		})), nil
	})

	if len(found) > 0 {
		var b strings.Builder
		b.WriteString("Found in this directory:\n")
		for i, d := range found {
			if i == maxSuggestions {
				fmt.Fprintf(&b, "  ... and %d more\n", len(found)-maxSuggestions)
				break
			}
			fmt.Fprintf(&b, "  %s\n", d.Path)
		}
		f.note = strings.TrimRight(b.String(), "\n")
	}
	return f
}

func discoverLocal() []database.DiscoveredDatabase {
	found, err := database.Discover(".")
	if err != nil {
		log.Debug("database discovery failed", "err", err)
		return nil
	}
	return found
}

// newColorPicker lists the palette; picking a color hands it to onPick.
func newColorPicker(title string, onPick func(ctx *Context, c store.Color) Action) *menu {
	var items []menuItem
	for _, opt := range store.Palette {
		items = append(items, menuItem{
			label:  opt.Name,
			swatch: dbColor(opt.Color),
			run: func(ctx *Context) Action {
				return onPick(ctx, opt.Color)
			},
		})
	}
	return newMenu(title, items)
}
