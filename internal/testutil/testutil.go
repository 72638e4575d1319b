// Package testutil provides test helpers for sqlite-viewer tests.
package testutil

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// TestDB builds a database from testdata/fixtures/<fixture>.sql in a
// temporary directory and returns its path.
func TestDB(t *testing.T, fixture string) string {
	t.Helper()

	script, err := os.ReadFile(filepath.Join(FindFixturesDir(t), fixture+".sql"))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", fixture, err)
	}

	path := filepath.Join(t.TempDir(), fixture+".db")
	db := open(t, path)
	defer db.Close()

	MustExec(t, db, string(script))
	return path
}

// EmptyDB creates a database file with no tables.
func EmptyDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "empty.db")
	db := open(t, path)
	defer db.Close()

	// Force the file to be written.
	MustExec(t, db, "PRAGMA user_version = 1")
	return path
}

// OpenDB opens path directly, bypassing the package under test.
func OpenDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db := open(t, path)
	t.Cleanup(func() { db.Close() })
	return db
}

func open(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	return db
}

// FindFixturesDir locates the testdata/fixtures directory.
func FindFixturesDir(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for i := 0; i < 10; i++ {
		fixturesDir := filepath.Join(dir, "testdata", "fixtures")
		if info, err := os.Stat(fixturesDir); err == nil && info.IsDir() {
			return fixturesDir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	t.Fatalf("could not find testdata/fixtures directory")
	return ""
}

// MustExec executes SQL or fails the test.
func MustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("MustExec failed: %v\nQuery: %s", err, query)
	}
}

// MustQueryRow executes a query and scans the first row into dest.
func MustQueryRow(t *testing.T, db *sql.DB, query string, dest ...any) {
	t.Helper()
	if err := db.QueryRow(query).Scan(dest...); err != nil {
		t.Fatalf("MustQueryRow failed: %v\nQuery: %s", err, query)
	}
}

// OutputCapture collects what a command writes to stdout and stderr.
type OutputCapture struct {
	Out bytes.Buffer
	Err bytes.Buffer
}

// Stdout returns captured stdout as string.
func (c *OutputCapture) Stdout() string {
	return c.Out.String()
}

// Stderr returns captured stderr as string.
func (c *OutputCapture) Stderr() string {
	return c.Err.String()
}
