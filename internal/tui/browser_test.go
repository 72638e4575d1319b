package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-st/sqlite-viewer/internal/browse"
	"github.com/johan-st/sqlite-viewer/internal/config"
	"github.com/johan-st/sqlite-viewer/internal/session"
	"github.com/johan-st/sqlite-viewer/internal/store"
	"github.com/johan-st/sqlite-viewer/internal/testutil"
)

func openBrowser(t *testing.T, app *App) *browser {
	t.Helper()
	press(app, "2")
	b, ok := app.Top().(*browser)
	require.True(t, ok, "top screen is %T", app.Top())
	return b
}

func TestBrowser_ListRowsRecord(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")
	b := openBrowser(t, app)

	view := app.View()
	assert.Contains(t, view, "> posts")
	assert.Contains(t, view, "users")

	press(app, "down", "enter")
	assert.Equal(t, browse.BrowsingRows, b.ctl.State())
	assert.Equal(t, "Browse: users", b.Title())
	view = app.View()
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "Charlie")
	assert.Contains(t, view, "Page 1/1 (3 rows)")

	press(app, "down", "enter")
	assert.Equal(t, browse.ViewingRecord, b.ctl.State())
	assert.Equal(t, 1, b.ctl.RecordIndex())
	view = app.View()
	assert.Contains(t, view, "name (TEXT):")
	assert.Contains(t, view, "Bob")
	assert.Contains(t, view, "age (INTEGER):")
	assert.Contains(t, view, "NULL")

	press(app, "x")
	assert.Equal(t, browse.BrowsingRows, b.ctl.State())
	assert.Equal(t, 1, b.ctl.Pager().Cursor(), "cursor survives the record view")

	press(app, "esc")
	assert.Equal(t, browse.BrowsingList, b.ctl.State())
	press(app, "esc")
	assert.Equal(t, 1, app.Depth())
}

func TestBrowser_Paging(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PageSize = 10
	app, sess := newTestApp(t, session.Options{}, cfg)
	connectFixture(t, sess, "large")
	b := openBrowser(t, app)

	press(app, "enter")
	assert.Contains(t, app.View(), "Page 1/3 (25 rows)")

	press(app, "down", "down", "right")
	assert.Contains(t, app.View(), "Page 2/3 (25 rows)")
	assert.Equal(t, 0, b.ctl.Pager().Cursor(), "changing page resets the cursor")
	assert.Equal(t, 10, b.ctl.Pager().Index())

	press(app, "pgdown", "right")
	assert.Contains(t, app.View(), "Page 3/3 (25 rows)")

	press(app, "left", "left", "left")
	assert.Contains(t, app.View(), "Page 1/3 (25 rows)")
}

func TestBrowser_EmptyTable(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "empty")
	b := openBrowser(t, app)

	press(app, "enter")
	assert.Contains(t, app.View(), "(no rows)")
	assert.Contains(t, app.View(), "Page 1/1 (0 rows)")

	press(app, "enter")
	assert.Equal(t, browse.BrowsingRows, b.ctl.State(), "no record to open on an empty page")
}

func TestBrowser_Refresh(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")
	openBrowser(t, app)
	press(app, "down", "enter")
	assert.Contains(t, app.View(), "(3 rows)")

	_, err := sess.Execute("INSERT INTO users (name, email) VALUES ('Dana', 'dana@example.com')")
	require.NoError(t, err)

	press(app, "r")
	assert.Contains(t, app.View(), "(4 rows)")
	assert.Contains(t, app.View(), "Dana")
}

func TestBrowser_NarrowTerminalHidesColumns(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")
	app.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	openBrowser(t, app)

	press(app, "down", "enter")
	assert.Contains(t, app.View(), "columns hidden")
}

// wideTableDB creates a database with one row in a table of n TEXT columns
// named col00, col01, ...
func wideTableDB(t *testing.T, n int) string {
	t.Helper()
	path := testutil.EmptyDB(t)
	db := testutil.OpenDB(t, path)

	cols := make([]string, n)
	vals := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("col%02d TEXT", i)
		vals[i] = fmt.Sprintf("'v%02d'", i)
	}
	testutil.MustExec(t, db, "CREATE TABLE wide ("+strings.Join(cols, ", ")+")")
	testutil.MustExec(t, db, "INSERT INTO wide VALUES ("+strings.Join(vals, ", ")+")")
	require.NoError(t, db.Close())
	return path
}

func TestBrowser_RecordShowsEveryFieldOfWideTable(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	require.NoError(t, sess.Connect(wideTableDB(t, 30), "wide", store.Green))
	b := openBrowser(t, app)

	press(app, "enter")
	assert.Contains(t, app.View(), "columns hidden; enter shows every field")

	press(app, "enter")
	require.Equal(t, browse.ViewingRecord, b.ctl.State())
	view := app.View()
	for i := 0; i < 30; i++ {
		assert.Contains(t, view, fmt.Sprintf("col%02d (TEXT): v%02d", i, i))
	}
	assert.NotContains(t, view, "more fields")
	assert.LessOrEqual(t, strings.Count(view, "\n")+1, 30)
}

func TestBrowser_RecordCountsFieldsThatDoNotFit(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	require.NoError(t, sess.Connect(wideTableDB(t, 30), "wide", store.Green))
	app.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	openBrowser(t, app)

	press(app, "enter", "enter")
	view := app.View()
	assert.Contains(t, view, "col00 (TEXT): v00")
	assert.NotContains(t, view, "col29")
	assert.Contains(t, view, "+25 more fields")
}
