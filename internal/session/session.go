// Package session holds the state shared by every screen and command: the
// open database, the saved-database store, the display color and the
// query history.
package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/history"
	"github.com/johan-st/sqlite-viewer/internal/store"
)

// Options configures a Session.
type Options struct {
	ReadOnly bool
	RowLimit int

	// History may be nil to disable recording.
	History *history.Store
}

// Session owns at most one database connection at a time. It is not safe
// for concurrent use; the UI loop and the line-mode loop are both single
// threaded.
type Session struct {
	store   *store.Store
	history *history.Store
	opts    Options

	conn  *database.Connection
	entry store.Entry
}

// New creates a disconnected session.
func New(st *store.Store, opts Options) *Session {
	if opts.RowLimit <= 0 {
		opts.RowLimit = database.DefaultRowLimit
	}
	return &Session{
		store:   st,
		history: opts.History,
		opts:    opts,
	}
}

// Store returns the saved-database store.
func (s *Session) Store() *store.Store { return s.store }

// History returns the history store, or nil.
func (s *Session) History() *history.Store { return s.history }

func (s *Session) Connected() bool { return s.conn != nil }
func (s *Session) ReadOnly() bool  { return s.opts.ReadOnly }
func (s *Session) RowLimit() int   { return s.opts.RowLimit }
func (s *Session) Name() string    { return s.entry.Name }
func (s *Session) Path() string    { return s.entry.Path }

// Color returns the display color of the current database.
func (s *Session) Color() store.Color {
	if !s.Connected() {
		return store.DefaultColor
	}
	return s.entry.Color.OrDefault()
}

// Connect opens path and makes it the current database, closing any
// previous one first. On failure the session is left disconnected. An empty
// name defaults to the file name without extension.
func (s *Session) Connect(path, name string, color store.Color) error {
	s.Disconnect()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if name == "" {
		name = database.DefaultName(abs)
	}

	opts := database.DefaultOpenOptions()
	opts.ReadOnly = s.opts.ReadOnly
	conn, err := database.Open(abs, opts)
	if err != nil {
		log.Warn("connect failed", "path", abs, "err", err)
		return err
	}

	s.conn = conn
	s.entry = store.Entry{Path: abs, Name: name, Color: color.OrDefault()}
	log.Info("connected", "path", abs, "name", name, "read_only", s.opts.ReadOnly)

	if err := s.store.Add(s.entry); err != nil {
		log.Warn("failed to save database entry", "err", err)
	}
	if err := s.store.SetLast(s.entry); err != nil {
		log.Warn("failed to record last database", "err", err)
	}
	return nil
}

// Reconnect opens the last connected database, if there is one. It reports
// whether a database was opened.
func (s *Session) Reconnect() (bool, error) {
	last, ok := s.store.Last()
	if !ok {
		return false, nil
	}
	if err := s.Connect(last.Path, last.Name, last.Color); err != nil {
		return false, err
	}
	return true, nil
}

// Disconnect closes the current database. It is a no-op when disconnected.
func (s *Session) Disconnect() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		log.Warn("error closing database", "path", s.entry.Path, "err", err)
	}
	log.Info("disconnected", "path", s.entry.Path)
	s.conn = nil
	s.entry = store.Entry{}
}

// Close releases the connection and the history store.
func (s *Session) Close() error {
	s.Disconnect()
	if s.history != nil {
		err := s.history.Close()
		s.history = nil
		return err
	}
	return nil
}

// SetColor changes the current database's color and saves it.
func (s *Session) SetColor(c store.Color) error {
	if !s.Connected() {
		return database.ErrNotConnected
	}
	s.entry.Color = c.OrDefault()
	if err := s.store.Add(s.entry); err != nil {
		return err
	}
	return s.store.SetLast(s.entry)
}

// FileSize returns the size of the open database file.
func (s *Session) FileSize() (int64, error) {
	if s.conn == nil {
		return 0, database.ErrNotConnected
	}
	return s.conn.FileSize()
}

func (s *Session) connection() (*database.Connection, error) {
	if s.conn == nil {
		return nil, database.ErrNotConnected
	}
	return s.conn, nil
}

func (s *Session) writable() (*database.Connection, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	if conn.ReadOnly {
		return nil, database.ErrReadOnly
	}
	return conn, nil
}

// recordQuery adds an executed statement to the history.
func (s *Session) recordQuery(query string, res *database.QueryResult, err error, took time.Duration) {
	if s.history == nil {
		return
	}
	rec := &history.QueryRecord{
		DatabasePath:    s.entry.Path,
		Query:           query,
		ExecutionTimeMs: took.Milliseconds(),
	}
	if res != nil {
		rec.RowsAffected = res.RowsAffected
		if res.IsSelect {
			rec.RowsAffected = int64(len(res.Rows))
		}
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if herr := s.history.RecordQuery(rec); herr != nil {
		log.Warn("failed to record query", "err", herr)
	}
}

func (s *Session) audit(action, table string, details map[string]any) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordAudit(action, s.entry.Path, table, details); err != nil {
		log.Warn("failed to record audit entry", "action", action, "err", err)
	}
}
