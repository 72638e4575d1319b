// Package history records executed SQL and data changes in a small SQLite
// database of its own.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Actions written to the audit log.
const (
	ActionInsert      = "insert"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionCreateTable = "create_table"
	ActionDropTable   = "drop_table"
	ActionExport      = "export"
)

// QueryRecord is one executed statement.
type QueryRecord struct {
	ID              int64
	SessionID       string
	DatabasePath    string
	Query           string
	ExecutionTimeMs int64
	RowsAffected    int64
	Error           string
	CreatedAt       time.Time
}

// AuditRecord is one data-changing action made through the tools.
type AuditRecord struct {
	ID           int64
	SessionID    string
	Action       string
	DatabasePath string
	TableName    string
	Details      string // JSON
	CreatedAt    time.Time
}

// Store manages the history database. A Store belongs to one process run,
// identified by SessionID.
type Store struct {
	db         *sql.DB
	sessionID  string
	maxEntries int
}

// NewStore opens (or creates) history.db in dataDir. maxEntries bounds the
// number of kept query records; 0 keeps everything.
func NewStore(dataDir string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{
		db:         db,
		sessionID:  uuid.NewString(),
		maxEntries: maxEntries,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO sessions (id, started_at) VALUES (?, ?)`, s.sessionID, time.Now()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at DATETIME,
		ended_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS query_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT REFERENCES sessions(id),
		database_path TEXT,
		query TEXT,
		execution_time_ms INTEGER,
		rows_affected INTEGER,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_query_history_database_path ON query_history(database_path);
	CREATE INDEX IF NOT EXISTS idx_query_history_created_at ON query_history(created_at);

	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT REFERENCES sessions(id),
		action TEXT,
		database_path TEXT,
		table_name TEXT,
		details TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_database_path ON audit_log(database_path);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SessionID identifies this process run.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Close marks the session as ended and closes the store.
func (s *Store) Close() error {
	_, _ = s.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now(), s.sessionID)
	return s.db.Close()
}

// RecordQuery records a statement execution and trims old entries.
func (s *Store) RecordQuery(record *QueryRecord) error {
	if record.SessionID == "" {
		record.SessionID = s.sessionID
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO query_history (session_id, database_path, query, execution_time_ms, rows_affected, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.SessionID, record.DatabasePath, record.Query, record.ExecutionTimeMs,
		record.RowsAffected, nullString(record.Error), record.CreatedAt)
	if err != nil {
		return err
	}
	record.ID, _ = res.LastInsertId()

	if s.maxEntries > 0 {
		_, err = s.db.Exec(`
			DELETE FROM query_history WHERE id NOT IN (
				SELECT id FROM query_history ORDER BY id DESC LIMIT ?
			)
		`, s.maxEntries)
	}
	return err
}

// ListQueryHistory returns the newest records first. An empty databasePath
// matches every database.
func (s *Store) ListQueryHistory(databasePath string, limit int) ([]*QueryRecord, error) {
	query := "SELECT id, session_id, database_path, query, execution_time_ms, rows_affected, error, created_at FROM query_history"
	args := make([]any, 0)

	if databasePath != "" {
		query += " WHERE database_path = ?"
		args = append(args, databasePath)
	}

	query += " ORDER BY id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*QueryRecord
	for rows.Next() {
		var record QueryRecord
		var errStr sql.NullString

		err := rows.Scan(&record.ID, &record.SessionID, &record.DatabasePath, &record.Query,
			&record.ExecutionTimeMs, &record.RowsAffected, &errStr, &record.CreatedAt)
		if err != nil {
			return nil, err
		}

		record.Error = errStr.String
		records = append(records, &record)
	}

	return records, rows.Err()
}

// RecentQueries returns distinct statements, newest first, for recall in
// the SQL prompt.
func (s *Store) RecentQueries(databasePath string, limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT query FROM query_history
		WHERE database_path = ?
		GROUP BY query
		ORDER BY MAX(id) DESC
		LIMIT ?
	`, databasePath, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// RecordAudit records an audit log entry. details is stored as JSON.
func (s *Store) RecordAudit(action, dbPath, tableName string, details map[string]any) error {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err == nil {
			detailsJSON = string(data)
		}
	}

	_, err := s.db.Exec(`
		INSERT INTO audit_log (session_id, action, database_path, table_name, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.sessionID, action, dbPath, nullString(tableName), nullString(detailsJSON), time.Now())
	return err
}

// ListAuditLog returns audit entries, newest first.
func (s *Store) ListAuditLog(databasePath string, limit int) ([]*AuditRecord, error) {
	query := "SELECT id, session_id, action, database_path, table_name, details, created_at FROM audit_log"
	args := make([]any, 0)

	if databasePath != "" {
		query += " WHERE database_path = ?"
		args = append(args, databasePath)
	}

	query += " ORDER BY id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*AuditRecord
	for rows.Next() {
		var record AuditRecord
		var tableName, details sql.NullString

		err := rows.Scan(&record.ID, &record.SessionID, &record.Action, &record.DatabasePath,
			&tableName, &details, &record.CreatedAt)
		if err != nil {
			return nil, err
		}

		record.TableName = tableName.String
		record.Details = details.String
		records = append(records, &record)
	}

	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
