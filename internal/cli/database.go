package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/store"
)

// cmdConnect opens a database file and remembers it.
func (h *Handler) cmdConnect(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("connect <path> [name] [--color=N]")
		return
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		ctx.Fail(fmt.Errorf("cannot open %s: %w", path, err))
		return
	}

	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	color := store.DefaultColor
	if saved, ok := h.sess.Store().Get(absPath(path)); ok {
		color = saved.Color
		if name == "" {
			name = saved.Name
		}
	}
	if v := ctx.GetFlag("color"); v != "" {
		c, err := store.ParseColor(v)
		if err != nil {
			ctx.Fail(err)
			return
		}
		color = c
	}

	if err := h.sess.Connect(path, name, color); err != nil {
		ctx.Fail(err)
		return
	}
	fmt.Fprintf(ctx.Out, "Connected to %s (%s)\n", h.sess.Name(), h.sess.Path())
}

// cmdDisconnect closes the current database.
func (h *Handler) cmdDisconnect(ctx *CommandContext) {
	if !h.sess.Connected() {
		fmt.Fprintln(ctx.Out, "Not connected")
		return
	}
	name := h.sess.Name()
	h.sess.Disconnect()
	fmt.Fprintf(ctx.Out, "Disconnected from %s\n", name)
}

// cmdSaved lists remembered databases.
func (h *Handler) cmdSaved(ctx *CommandContext) {
	saved := h.sess.Store().List()

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, saved)
		return
	}

	if len(saved) == 0 {
		fmt.Fprintln(ctx.Out, "No saved databases.")
		return
	}

	last, _ := h.sess.Store().Last()
	fmt.Fprintln(ctx.Out, "NAME\tCOLOR\tSIZE\tPATH")
	for _, e := range saved {
		size := "missing"
		if info, err := os.Stat(e.Path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		marker := ""
		if e.Path == last.Path {
			marker = " *"
		}
		fmt.Fprintf(ctx.Out, "%s%s\t%s\t%s\t%s\n", e.Name, marker, e.Color, size, e.Path)
	}
}

// cmdForget removes a saved database by path or name.
func (h *Handler) cmdForget(ctx *CommandContext) {
	args := ctx.GetPositionalArgs()
	if len(args) < 1 {
		ctx.Usage("forget <path|name>")
		return
	}

	entry, ok := h.findSaved(args[0])
	if !ok {
		ctx.Fail(fmt.Errorf("no saved database %q", args[0]))
		return
	}
	if err := h.sess.Store().Remove(entry.Path); err != nil {
		ctx.Fail(err)
		return
	}
	fmt.Fprintf(ctx.Out, "Forgot %s (%s)\n", entry.Name, entry.Path)
}

// cmdColor shows or changes the current database's color.
func (h *Handler) cmdColor(ctx *CommandContext) {
	if !h.requireConnection(ctx) {
		return
	}

	args := ctx.GetPositionalArgs()
	if len(args) == 0 {
		fmt.Fprintf(ctx.Out, "Color: %s\n", h.sess.Color())
		for _, o := range store.Palette {
			fmt.Fprintf(ctx.Out, "  %d\t%s\n", int(o.Color), o.Name)
		}
		return
	}

	c, err := store.ParseColor(args[0])
	if err != nil {
		ctx.Fail(err)
		return
	}
	if err := h.sess.SetColor(c); err != nil {
		ctx.Fail(err)
		return
	}
	fmt.Fprintf(ctx.Out, "Color for %s set to %s\n", h.sess.Name(), c)
}

// cmdInfo shows information about the open database.
func (h *Handler) cmdInfo(ctx *CommandContext) {
	if !h.requireConnection(ctx) {
		return
	}

	size, err := h.sess.FileSize()
	if err != nil {
		ctx.Fail(err)
		return
	}
	tables, err := h.sess.ListTables()
	if err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, map[string]any{
			"name":      h.sess.Name(),
			"path":      h.sess.Path(),
			"size":      size,
			"color":     h.sess.Color().String(),
			"read_only": h.sess.ReadOnly(),
			"tables":    len(tables),
		})
		return
	}

	fmt.Fprintf(ctx.Out, "Name:\t%s\n", h.sess.Name())
	fmt.Fprintf(ctx.Out, "Path:\t%s\n", h.sess.Path())
	fmt.Fprintf(ctx.Out, "Size:\t%s\n", humanize.Bytes(uint64(size)))
	fmt.Fprintf(ctx.Out, "Color:\t%s\n", h.sess.Color())
	fmt.Fprintf(ctx.Out, "Read-only:\t%v\n", h.sess.ReadOnly())
	fmt.Fprintf(ctx.Out, "Tables:\t%d\n", len(tables))
}

// cmdFind searches for database files.
func (h *Handler) cmdFind(ctx *CommandContext) {
	pattern := "."
	if args := ctx.GetPositionalArgs(); len(args) > 0 {
		pattern = args[0]
	}

	found, err := database.Discover(pattern)
	if err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		printJSON(ctx.Out, found)
		return
	}

	if len(found) == 0 {
		fmt.Fprintln(ctx.Out, "No database files found.")
		return
	}
	for _, db := range found {
		fmt.Fprintf(ctx.Out, "%s\t%s\t%s\n",
			db.Path,
			humanize.Bytes(uint64(db.Size)),
			humanize.Time(db.ModTime))
	}
}

// cmdTables lists tables in the open database.
func (h *Handler) cmdTables(ctx *CommandContext) {
	if !h.requireConnection(ctx) {
		return
	}

	tables, err := h.sess.ListTables()
	if err != nil {
		ctx.Fail(err)
		return
	}

	if ctx.GetFlag("format") == "json" {
		if tables == nil {
			tables = []string{}
		}
		printJSON(ctx.Out, tables)
		return
	}

	if len(tables) == 0 {
		fmt.Fprintln(ctx.Out, "No tables.")
		return
	}
	for _, t := range tables {
		fmt.Fprintln(ctx.Out, t)
	}
}

// findSaved looks a saved database up by path first, then by name.
func (h *Handler) findSaved(key string) (store.Entry, bool) {
	st := h.sess.Store()
	if e, ok := st.Get(absPath(key)); ok {
		return e, true
	}
	for _, e := range st.List() {
		if e.Name == key {
			return e, true
		}
	}
	return store.Entry{}, false
}
