package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/session"
	"github.com/johan-st/sqlite-viewer/internal/testutil"
)

// Tools menu entries, 1-based.
const (
	toolInsert    = "1"
	toolUpdate    = "2"
	toolDelete    = "3"
	toolCreate    = "4"
	toolDrop      = "5"
	toolStructure = "6"
)

// openTool goes back to the main menu and opens a tool from there.
func openTool(t *testing.T, app *App, tool string) {
	t.Helper()
	for app.Depth() > 1 {
		press(app, "esc")
	}
	press(app, "4", tool)
}

func TestTools_InsertRecord(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "empty")

	openTool(t, app, toolInsert)
	assert.Contains(t, app.View(), "items")
	press(app, "1") // items
	require.IsType(t, &form{}, app.Top())
	assert.Contains(t, app.View(), "name (TEXT)")

	press(app, "enter") // id left to the default
	typeText(app, "Widget")
	press(app, "enter")
	typeText(app, "2.5")
	press(app, "enter")

	require.IsType(t, &message{}, app.Top())
	assert.Contains(t, app.View(), "Inserted row 1 into items")

	res, err := sess.TableRows("items", 0)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Widget", res.Rows[0][1])
	assert.Equal(t, 2.5, res.Rows[0][2])

	press(app, "x")
	assert.Equal(t, "Tools", app.Top().Title())
}

func TestTools_InsertRequiresAValue(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "empty")

	openTool(t, app, toolInsert)
	press(app, "1", "enter", "enter", "enter")
	require.IsType(t, &form{}, app.Top())
	assert.Contains(t, app.View(), "enter at least one value")
}

func TestTools_TableDroppedAfterPick(t *testing.T) {
	for _, tool := range []string{toolInsert, toolUpdate} {
		app, sess := newTestApp(t, session.Options{}, nil)
		connectFixture(t, sess, "users")

		openTool(t, app, tool)
		_, err := sess.Execute("DROP TABLE posts")
		require.NoError(t, err)

		require.NotPanics(t, func() { press(app, "1") }) // posts
		require.IsType(t, &message{}, app.Top())
		assert.Contains(t, app.View(), "no such table")
	}
}

func TestTools_UpdateRecord(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")

	openTool(t, app, toolUpdate)
	press(app, "2") // users
	typeText(app, "2")
	press(app, "enter")
	typeText(app, "age")
	press(app, "enter")
	typeText(app, "41")
	press(app, "enter")
	assert.Contains(t, app.View(), "1 row(s) affected")

	res, err := sess.Execute("SELECT age FROM users WHERE id = 2")
	require.NoError(t, err)
	assert.Equal(t, int64(41), res.Rows[0][0], "numeric input is stored as a number")
}

func TestTools_UpdateRejectsBadInput(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")

	openTool(t, app, toolUpdate)
	press(app, "2")
	typeText(app, "abc")
	press(app, "enter", "enter", "enter")
	assert.Contains(t, app.View(), "rowid must be a whole number")

	press(app, "up", "up")
	f := app.Top().(*form)
	f.inputs[0].SetValue("99")
	f.inputs[1].SetValue("age")
	press(app, "down", "down", "enter")
	require.IsType(t, &message{}, app.Top())
	assert.Contains(t, app.View(), "no row with rowid 99")
}

func TestTools_DeleteRecord(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")

	openTool(t, app, toolDelete)
	press(app, "1") // posts
	typeText(app, "3")
	press(app, "enter")
	require.IsType(t, &confirm{}, app.Top())
	assert.Contains(t, app.View(), "Delete row 3 from posts?")

	press(app, "n")
	assert.Equal(t, "Tools", app.Top().Title(), "anything but y cancels")

	openTool(t, app, toolDelete)
	press(app, "1")
	typeText(app, "3")
	press(app, "enter", "y")
	assert.Contains(t, app.View(), "1 row(s) affected")

	res, err := sess.TableRows("posts", 0)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestTools_CreateAndDropTable(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")

	openTool(t, app, toolCreate)
	typeText(app, "notes")
	press(app, "enter")
	typeText(app, "id INTEGER PRIMARY KEY; DROP TABLE users")
	press(app, "enter")
	assert.Contains(t, app.View(), "may not contain")

	f := app.Top().(*form)
	f.inputs[1].SetValue("id INTEGER PRIMARY KEY, body TEXT")
	press(app, "enter")
	assert.Contains(t, app.View(), "Created table notes")
	press(app, "x")

	tables, err := sess.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "posts", "users"}, tables)

	openTool(t, app, toolDrop)
	press(app, "1") // notes
	require.IsType(t, &confirm{}, app.Top())
	typeText(app, "y")
	press(app, "enter")
	assert.Equal(t, "Tools", app.Top().Title(), "a bare y does not drop")

	openTool(t, app, toolDrop)
	press(app, "1")
	typeText(app, "yes")
	press(app, "enter")
	assert.Contains(t, app.View(), "Executed successfully")

	tables, err = sess.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "users"}, tables)
}

func TestTools_Structure(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")

	openTool(t, app, toolStructure)
	press(app, "1") // posts
	view := app.View()
	assert.Contains(t, view, "Column Name")
	assert.Contains(t, view, "user_id")
	assert.Contains(t, view, "idx_posts_user_id (user_id)")
	assert.Contains(t, view, "user_id -> users(id)")
}

func TestTools_ReadOnly(t *testing.T) {
	app, sess := newTestApp(t, session.Options{ReadOnly: true}, nil)
	connectFixture(t, sess, "users")

	for _, tool := range []string{toolInsert, toolUpdate, toolDelete, toolCreate, toolDrop} {
		openTool(t, app, tool)
		assert.Contains(t, app.View(), "opened read-only")
	}

	openTool(t, app, toolStructure)
	assert.Contains(t, app.View(), "which table?", "structure is available read-only")
}

func TestRenderStructure(t *testing.T) {
	conn, err := database.OpenReadOnly(testutil.TestDB(t, "users"))
	require.NoError(t, err)
	defer conn.Close()

	info, err := database.NewSchema(conn).GetTableInfo("users")
	require.NoError(t, err)

	out := renderStructure(info, 120)
	assert.Contains(t, out, "CURRENT_TIMESTAMP")
	assert.Contains(t, out, "Rows: 3")
	assert.True(t, strings.Contains(out, "(none)"), "users has no foreign keys")
}
