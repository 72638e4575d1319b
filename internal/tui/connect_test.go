package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-st/sqlite-viewer/internal/session"
	"github.com/johan-st/sqlite-viewer/internal/store"
	"github.com/johan-st/sqlite-viewer/internal/testutil"
)

func TestConnect_NewDatabase(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	path := testutil.TestDB(t, "users")

	press(app, "1", "2")
	require.IsType(t, &form{}, app.Top())

	typeText(app, path)
	press(app, "enter", "enter") // blank name
	require.IsType(t, &menu{}, app.Top())
	assert.Contains(t, app.View(), "Pick a color for users")

	press(app, "2") // Blue
	assert.Equal(t, 1, app.Depth(), "connecting returns to the main menu")
	require.True(t, sess.Connected())
	assert.Equal(t, "users", sess.Name())
	assert.Equal(t, store.Blue, sess.Color())

	saved := sess.Store().List()
	require.Len(t, saved, 1)
	assert.Equal(t, store.Blue, saved[0].Color)
}

func TestConnect_MissingFile(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)

	press(app, "1", "2")
	typeText(app, "/no/such/file.db")
	press(app, "enter", "enter")
	require.IsType(t, &form{}, app.Top())
	assert.Contains(t, app.View(), "cannot open")
	assert.False(t, sess.Connected())
}

func TestConnect_SavedList(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	first := testutil.TestDB(t, "users")
	second := testutil.TestDB(t, "empty")
	require.NoError(t, sess.Connect(first, "first", store.Red))
	require.NoError(t, sess.Connect(second, "second", store.Cyan))
	sess.Disconnect()

	press(app, "1", "1")
	view := app.View()
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")

	press(app, "d")
	assert.Len(t, sess.Store().List(), 1)
	assert.NotContains(t, app.View(), "first")

	press(app, "enter")
	require.True(t, sess.Connected())
	assert.Equal(t, "second", sess.Name())
	assert.Equal(t, store.Cyan, sess.Color())
	assert.Equal(t, 1, app.Depth())
}

func TestConnect_SavedListEmpty(t *testing.T) {
	app, _ := newTestApp(t, session.Options{}, nil)
	press(app, "1", "1")
	assert.Contains(t, app.View(), "No saved databases")

	press(app, "enter", "d")
	assert.Equal(t, "Saved Databases", app.Top().Title())
}

func TestConnect_ChangeColor(t *testing.T) {
	app, sess := newTestApp(t, session.Options{}, nil)
	connectFixture(t, sess, "users")

	press(app, "1")
	assert.Contains(t, app.View(), "Change Color")
	press(app, "3", "5") // Cyan
	assert.Equal(t, store.Cyan, sess.Color())

	saved, ok := sess.Store().Get(sess.Path())
	require.True(t, ok)
	assert.Equal(t, store.Cyan, saved.Color)
}
