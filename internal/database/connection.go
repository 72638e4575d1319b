// Package database handles SQLite connections, schema introspection and
// the row-level operations behind the browser and the tools menu.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Connection wraps a database connection with metadata.
type Connection struct {
	DB       *sql.DB
	Path     string
	ReadOnly bool
	mu       sync.Mutex
}

// OpenOptions configures how a database connection is opened.
type OpenOptions struct {
	ReadOnly    bool
	BusyTimeout int // milliseconds

	// MustExist refuses to create a new database file.
	MustExist bool
}

// DefaultOpenOptions returns sensible defaults for opening a database.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		ReadOnly:    false,
		BusyTimeout: 5000, // 5 seconds
		MustExist:   true,
	}
}

// Open opens a database connection and checks that the file really is a
// SQLite database. The handle is closed again on every error path.
func Open(path string, opts OpenOptions) (*Connection, error) {
	if opts.MustExist {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("database file %s does not exist", path)
			}
			return nil, fmt.Errorf("failed to stat database: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
	}

	mode := "rwc"
	if opts.ReadOnly {
		mode = "ro"
	} else if opts.MustExist {
		mode = "rw"
	}

	dsn := fmt.Sprintf("file:%s?mode=%s&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path, mode, opts.BusyTimeout)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only reports a non-database file on first read.
	var n int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: the session owns it exclusively.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &Connection{
		DB:       db,
		Path:     path,
		ReadOnly: opts.ReadOnly,
	}, nil
}

// OpenReadOnly opens an existing database in read-only mode.
func OpenReadOnly(path string) (*Connection, error) {
	opts := DefaultOpenOptions()
	opts.ReadOnly = true
	return Open(path, opts)
}

// OpenReadWrite opens an existing database in read-write mode.
func OpenReadWrite(path string) (*Connection, error) {
	return Open(path, DefaultOpenOptions())
}

// Close closes the database connection.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.DB != nil {
		err := c.DB.Close()
		c.DB = nil
		return err
	}
	return nil
}

// Execute runs a statement that doesn't return rows.
func (c *Connection) Execute(query string, args ...any) (sql.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.DB == nil {
		return nil, ErrNotConnected
	}
	return c.DB.Exec(query, args...)
}

// Query runs a query that returns rows.
func (c *Connection) Query(query string, args ...any) (*sql.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.DB == nil {
		return nil, ErrNotConnected
	}
	return c.DB.Query(query, args...)
}

// QueryRow runs a query that returns at most one row.
func (c *Connection) QueryRow(query string, args ...any) *sql.Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.DB.QueryRow(query, args...)
}

// FileSize returns the size of the database file in bytes.
func (c *Connection) FileSize() (int64, error) {
	info, err := os.Stat(c.Path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
