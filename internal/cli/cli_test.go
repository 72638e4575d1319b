package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan-st/sqlite-viewer/internal/config"
	"github.com/johan-st/sqlite-viewer/internal/history"
	"github.com/johan-st/sqlite-viewer/internal/session"
	"github.com/johan-st/sqlite-viewer/internal/store"
	"github.com/johan-st/sqlite-viewer/internal/testutil"
)

// testEnv is a handler with a saved-database store in a temp directory.
type testEnv struct {
	dbPath  string
	sess    *session.Session
	handler *Handler
}

func newTestEnv(t *testing.T, fixture string, opts session.Options) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "db_config.json"))
	require.NoError(t, err)

	sess := session.New(st, opts)
	t.Cleanup(func() { sess.Close() })

	env := &testEnv{
		sess:    sess,
		handler: NewHandler(sess, config.DefaultConfig(), "test"),
	}

	if fixture != "" {
		env.dbPath = testutil.TestDB(t, fixture)
		require.NoError(t, sess.Connect(env.dbPath, "test", store.Green))
	}
	return env
}

func (e *testEnv) run(args ...string) (stdout, stderr string, exitCode int) {
	var capture testutil.OutputCapture

	ctx := &CommandContext{
		Args: args[1:],
		Out:  &capture.Out,
		Err:  &capture.Err,
	}
	e.handler.routeCommand(args[0], ctx)

	return capture.Stdout(), capture.Stderr(), ctx.exitCode
}

// --- Read-only sessions ---

func TestCLI_ReadOnly_RejectsWrites(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{ReadOnly: true})

	cases := [][]string{
		{"insert", "users", "name=Mallory", "email=m@example.com"},
		{"update", "users", "1", "name", "Mallory"},
		{"delete", "users", "1", "--confirm"},
		{"drop-table", "users", "--confirm"},
		{"create-table", "notes", "id INTEGER"},
	}
	for _, args := range cases {
		t.Run(args[0], func(t *testing.T) {
			_, stderr, code := env.run(args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "read-only")
		})
	}

	stdout, _, _ := env.run("count", "users")
	assert.Equal(t, "3", strings.TrimSpace(stdout), "rows untouched")
}

func TestCLI_ReadOnly_CanSelect(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{ReadOnly: true})

	stdout, stderr, _ := env.run("browse", "users")
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Alice")
}

// --- Safety guards ---

func TestCLI_Delete_RequiresConfirm(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	_, stderr, code := env.run("delete", "users", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--confirm")
}

func TestCLI_DropTable_RequiresConfirm(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	_, stderr, _ := env.run("drop-table", "users")
	assert.Contains(t, stderr, "--confirm")

	tables, _ := env.sess.ListTables()
	assert.Len(t, tables, 2, "users survives")
}

func TestCLI_RequiresConnection(t *testing.T) {
	env := newTestEnv(t, "", session.Options{})

	for _, cmd := range []string{"tables", "info", "browse", "sql"} {
		args := []string{cmd}
		if cmd == "browse" || cmd == "sql" {
			args = append(args, "users")
		}
		_, stderr, code := env.run(args...)
		assert.Equal(t, 1, code, cmd)
		assert.Contains(t, stderr, "not connected", cmd)
	}
}

func TestCLI_UnknownCommand(t *testing.T) {
	env := newTestEnv(t, "", session.Options{})

	_, stderr, code := env.run("frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Unknown command: frobnicate")
}

// --- Command output ---

func TestCLI_Tables_ListsTables(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	stdout, stderr, _ := env.run("tables")
	assert.Empty(t, stderr)
	assert.Equal(t, "posts\nusers\n", stdout)
}

func TestCLI_Tables_EmptyDatabase(t *testing.T) {
	env := newTestEnv(t, "", session.Options{})
	require.NoError(t, env.sess.Connect(testutil.EmptyDB(t), "", store.Blue))

	stdout, _, _ := env.run("tables")
	assert.Equal(t, "No tables.\n", stdout)

	stdout, _, _ = env.run("tables", "--format=json")
	assert.Equal(t, "[]", strings.TrimSpace(stdout))
}

func TestCLI_Schema_ShowsSchema(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	stdout, stderr, _ := env.run("schema", "posts")
	assert.Empty(t, stderr)
	for _, want := range []string{
		"Column Name | Type",
		"Primary Key",
		"user_id",
		"idx_posts_user_id (user_id)",
		"user_id -> users(id)",
		"Rows: 3",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestCLI_Browse_Pages(t *testing.T) {
	env := newTestEnv(t, "large", session.Options{})

	stdout, _, _ := env.run("browse", "numbers", "--page-size=10")
	assert.Contains(t, stdout, "Page 1/3 (25 rows)")

	stdout, _, _ = env.run("browse", "numbers", "--page-size=10", "--page=9")
	assert.Contains(t, stdout, "Page 3/3 (25 rows)", "page clamps to the last one")
	// Header, separator, 5 rows, table line and footer.
	assert.Equal(t, 9, strings.Count(stdout, "\n"), stdout)

	_, stderr, code := env.run("browse", "numbers", "--page=x")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--page must be a number")
}

func TestCLI_Browse_EmptyTable(t *testing.T) {
	env := newTestEnv(t, "empty", session.Options{})

	stdout, stderr, _ := env.run("browse", "items")
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "(no rows)")
}

func TestCLI_Record(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	stdout, stderr, _ := env.run("record", "users", "2")
	assert.Empty(t, stderr)
	for _, want := range []string{"Record 2 of 3", "name (TEXT):\n  Bob", "age (INTEGER):\n  NULL"} {
		assert.Contains(t, stdout, want)
	}

	_, stderr, code := env.run("record", "users", "4")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "out of range")
}

func TestCLI_SQL_Formats(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	stdout, _, _ := env.run("sql", "SELECT id, name FROM users WHERE id = 1")
	assert.Contains(t, stdout, "id | name")
	assert.Contains(t, stdout, "1 row(s)")

	stdout, _, _ = env.run("sql", "SELECT name, age FROM users ORDER BY id", "--format=csv")
	assert.Equal(t, "name,age\nAlice,34\nBob,\nCharlie,27\n", stdout)

	stdout, _, _ = env.run("sql", "SELECT name FROM users WHERE id = 3", "--format=json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows), stdout)
	require.Len(t, rows, 1)
	assert.Equal(t, "Charlie", rows[0]["name"])

	stdout, _, _ = env.run("sql", "UPDATE users SET age = 1")
	assert.Contains(t, stdout, "Executed successfully: 3 row(s) affected")

	_, stderr, code := env.run("sql", "SELECT * FROM nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no such table")
}

func TestCLI_InsertUpdateDelete(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	stdout, stderr, _ := env.run("insert", "users", "name=Dana", "email=dana@example.com", "age=29")
	require.Empty(t, stderr)
	assert.Contains(t, stdout, "Inserted row 4 into users")

	stdout, _, _ = env.run("update", "users", "4", "age", "30")
	assert.Contains(t, stdout, "1 row(s) affected")

	db := testutil.OpenDB(t, env.dbPath)
	var ageType string
	testutil.MustQueryRow(t, db, "SELECT typeof(age) FROM users WHERE id = 4", &ageType)
	assert.Equal(t, "integer", ageType, "numeric input is stored as a number")

	_, stderr, _ = env.run("update", "users", "x", "age", "30")
	assert.Contains(t, stderr, "rowid must be a whole number")

	_, stderr, _ = env.run("insert", "users", "nickname=x")
	assert.Contains(t, stderr, `no column "nickname"`)

	stdout, _, _ = env.run("delete", "users", "4", "--confirm")
	assert.Contains(t, stdout, "1 row(s) affected")

	_, stderr, _ = env.run("delete", "users", "99", "--confirm")
	assert.Contains(t, stderr, "no row with rowid 99")
}

func TestCLI_CreateAndDropTable(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	_, stderr, _ := env.run("create-table", "notes", "id INTEGER; DROP TABLE users")
	assert.Contains(t, stderr, "may not contain")

	stdout, stderr, _ := env.run("create-table", "notes", "id INTEGER PRIMARY KEY, body TEXT")
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Created table notes")

	stdout, _, _ = env.run("drop-table", "notes", "--confirm")
	assert.Contains(t, stdout, "Dropped table notes")
}

func TestCLI_Export(t *testing.T) {
	hist, err := history.NewStore(t.TempDir(), 100)
	require.NoError(t, err)
	env := newTestEnv(t, "large", session.Options{RowLimit: 5, History: hist})

	stdout, _, _ := env.run("export", "numbers")
	assert.Equal(t, 26, strings.Count(stdout, "\n"), "header and 25 rows regardless of the row limit")

	entries, err := hist.ListAuditLog(env.sess.Path(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ActionExport, entries[0].Action)

	_, stderr, _ := env.run("export", "numbers", "--format=xml")
	assert.Contains(t, stderr, "unknown format")
}

func TestCLI_History(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})
	_, stderr, _ := env.run("history")
	assert.Contains(t, stderr, "history is disabled")

	hist, err := history.NewStore(t.TempDir(), 100)
	require.NoError(t, err)
	env = newTestEnv(t, "users", session.Options{History: hist})
	env.run("sql", "SELECT count(*) FROM posts")
	env.run("sql", "SELECT * FROM nope")

	stdout, _, _ := env.run("history", "--limit=10")
	assert.Contains(t, stdout, "SELECT count(*) FROM posts")
	assert.Contains(t, stdout, "error")

	stdout, _, _ = env.run("history", "--limit=1")
	assert.NotContains(t, stdout, "count(*)", "only the newest entry")
}

// --- Connections ---

func TestCLI_ConnectSavedForget(t *testing.T) {
	env := newTestEnv(t, "", session.Options{})
	path := testutil.TestDB(t, "users")

	_, stderr, _ := env.run("connect", "/no/such/file.db")
	assert.Contains(t, stderr, "cannot open")

	stdout, stderr, _ := env.run("connect", path, "--color=red")
	require.Empty(t, stderr)
	assert.Contains(t, stdout, "Connected to users")
	assert.Equal(t, store.Red, env.sess.Color())

	stdout, _, _ = env.run("color", "6")
	assert.Contains(t, stdout, "set to Cyan")

	env.run("disconnect")
	stdout, _, _ = env.run("saved")
	assert.Contains(t, stdout, "users")
	assert.Contains(t, stdout, "Cyan")

	env.run("connect", path)
	assert.Equal(t, store.Cyan, env.sess.Color(), "reconnecting keeps the saved color")

	stdout, _, _ = env.run("forget", "users")
	assert.Contains(t, stdout, "Forgot users")
	stdout, _, _ = env.run("saved")
	assert.Contains(t, stdout, "No saved databases")
}

func TestCLI_Info(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	stdout, _, _ := env.run("info")
	for _, want := range []string{"Name:\ttest", "Tables:\t2", "Read-only:\tfalse"} {
		assert.Contains(t, stdout, want)
	}
}

func TestCLI_Find(t *testing.T) {
	env := newTestEnv(t, "", session.Options{})
	path := testutil.TestDB(t, "users")

	stdout, _, _ := env.run("find", filepath.Dir(path))
	assert.Contains(t, stdout, path)
}

// --- Prompt and one-shot mode ---

func TestLoop_RunsUntilQuit(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})

	input := strings.Join([]string{
		"# comments are ignored",
		"",
		"SELECT name FROM users WHERE name = 'Bob'",
		`sql "SELECT count(*) AS n FROM posts" --format=json`,
		"bogus",
		"quit",
		"tables",
	}, "\n")

	var out, errOut bytes.Buffer
	require.NoError(t, env.handler.Loop(context.Background(), strings.NewReader(input), &out, &errOut))

	stdout := out.String()
	assert.Contains(t, stdout, "Connected to test")
	assert.Contains(t, stdout, "Bob", "bare SELECT runs")
	assert.Contains(t, stdout, `"n": 3`)
	assert.Contains(t, errOut.String(), "Unknown command: bogus")
	assert.NotContains(t, stdout, "posts\nusers", "loop stops at quit")
}

func TestLoop_Reconnects(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})
	env.sess.Disconnect()

	var out, errOut bytes.Buffer
	require.NoError(t, env.handler.Loop(context.Background(), strings.NewReader(""), &out, &errOut))
	assert.True(t, env.sess.Connected(), "last database reopened")
}

func TestRun_ExitStatus(t *testing.T) {
	env := newTestEnv(t, "users", session.Options{})
	var out, errOut bytes.Buffer

	require.NoError(t, env.handler.Run([]string{"count", "users"}, &out, &errOut))
	assert.Equal(t, "3", strings.TrimSpace(out.String()))

	err := env.handler.Run([]string{"sql", "SELECT * FROM nope"}, &out, &errOut)
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, 1, strings.Count(errOut.String(), "Error:"), "the failure is reported once")
}

func TestSQLArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"SELECT * FROM t WHERE a = 'x  y'", []string{"sql", "SELECT * FROM t WHERE a = 'x  y'"}},
		{`"SELECT 1" --format=csv`, []string{"sql", "SELECT 1", "--format=csv"}},
		{"--format=json SELECT 1", []string{"sql", "SELECT 1", "--format=json"}},
		{"SELECT 'a' || 'b'", []string{"sql", "SELECT 'a' || 'b'"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlArgs(tt.in))
		})
	}
}

func TestGetPositionalArgs(t *testing.T) {
	ctx := &CommandContext{Args: []string{"users", "--page=2", "-1", "-v", "x"}}

	assert.Equal(t, []string{"users", "-1", "x"}, ctx.GetPositionalArgs())
	assert.Equal(t, "2", ctx.GetFlag("page"))
}
