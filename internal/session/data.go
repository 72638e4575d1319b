package session

import (
	"fmt"
	"time"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/history"
)

// ListTables returns the user tables of the open database.
func (s *Session) ListTables() ([]string, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	return database.NewSchema(conn).ListTables()
}

// TableSchema returns the columns of table. A table that has gone away
// since it was listed is reported as database.ErrNoSuchTable.
func (s *Session) TableSchema(table string) ([]database.ColumnInfo, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	cols, err := database.NewSchema(conn).GetColumns(table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", database.ErrNoSuchTable, table)
	}
	return cols, nil
}

// TableStructure returns columns, indexes, foreign keys and row count.
func (s *Session) TableStructure(table string) (*database.TableInfo, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	return database.NewSchema(conn).GetTableInfo(table)
}

// TableRows reads up to limit rows of table. A limit of 0 uses the
// session's row limit.
func (s *Session) TableRows(table string, limit int) (*database.QueryResult, error) {
	return s.selectRows(table, limit, false)
}

// TableRowsWithRowID is TableRows with the rowid as the first column, for
// choosing a record to change.
func (s *Session) TableRowsWithRowID(table string, limit int) (*database.QueryResult, error) {
	return s.selectRows(table, limit, true)
}

// AllRows reads every row of table, ignoring the row limit.
func (s *Session) AllRows(table string) (*database.QueryResult, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	return database.Select(conn, table, database.SelectOptions{})
}

// CountRows returns the number of rows in table.
func (s *Session) CountRows(table string) (int64, error) {
	conn, err := s.connection()
	if err != nil {
		return 0, err
	}
	return database.NewSchema(conn).GetRowCount(table)
}

func (s *Session) selectRows(table string, limit int, withRowID bool) (*database.QueryResult, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.RowLimit
	}
	opts := database.SelectOptions{Limit: limit, WithRowID: withRowID}
	return database.Select(conn, table, opts)
}

// Execute runs ad-hoc SQL and records it in the history.
func (s *Session) Execute(query string, args ...any) (*database.QueryResult, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := database.Query(conn, query, args...)
	s.recordQuery(query, res, err, time.Since(start))
	if err != nil {
		return res, describe(err)
	}
	return res, nil
}

// InsertRow inserts values (already coerced) into the named columns.
func (s *Session) InsertRow(table string, columns []string, values []any) (*database.QueryResult, error) {
	conn, err := s.writable()
	if err != nil {
		return nil, err
	}
	res, err := database.Insert(conn, table, columns, values)
	if err != nil {
		return res, describe(err)
	}
	details := make(map[string]any, len(columns))
	for i, c := range columns {
		details[c] = values[i]
	}
	s.audit(history.ActionInsert, table, details)
	return res, nil
}

// UpdateCell sets column of the row with rowID.
func (s *Session) UpdateCell(table string, rowID int64, column string, value any) (*database.QueryResult, error) {
	conn, err := s.writable()
	if err != nil {
		return nil, err
	}
	res, err := database.UpdateCell(conn, table, rowID, column, value)
	if err != nil {
		return res, describe(err)
	}
	if res.RowsAffected == 0 {
		return res, fmt.Errorf("no row with rowid %d in %s", rowID, table)
	}
	s.audit(history.ActionUpdate, table, map[string]any{"rowid": rowID, "column": column, "value": value})
	return res, nil
}

// DeleteRow deletes the row with rowID.
func (s *Session) DeleteRow(table string, rowID int64) (*database.QueryResult, error) {
	conn, err := s.writable()
	if err != nil {
		return nil, err
	}
	res, err := database.DeleteRow(conn, table, rowID)
	if err != nil {
		return res, describe(err)
	}
	if res.RowsAffected == 0 {
		return res, fmt.Errorf("no row with rowid %d in %s", rowID, table)
	}
	s.audit(history.ActionDelete, table, map[string]any{"rowid": rowID})
	return res, nil
}

// CreateTable creates a table from column definitions.
func (s *Session) CreateTable(table, definitions string) (*database.QueryResult, error) {
	conn, err := s.writable()
	if err != nil {
		return nil, err
	}
	res, err := database.CreateTable(conn, table, definitions)
	if err != nil {
		return res, describe(err)
	}
	s.audit(history.ActionCreateTable, table, map[string]any{"definitions": definitions})
	return res, nil
}

// DropTable drops table.
func (s *Session) DropTable(table string) (*database.QueryResult, error) {
	conn, err := s.writable()
	if err != nil {
		return nil, err
	}
	res, err := database.DropTable(conn, table)
	if err != nil {
		return res, describe(err)
	}
	s.audit(history.ActionDropTable, table, nil)
	return res, nil
}

// RecordExport notes that table was exported.
func (s *Session) RecordExport(table, format string, rows int) {
	s.audit(history.ActionExport, table, map[string]any{"format": format, "rows": rows})
}

// RecentQueries returns previously run statements for this database.
func (s *Session) RecentQueries(limit int) []string {
	if s.history == nil || !s.Connected() {
		return nil
	}
	queries, err := s.history.RecentQueries(s.entry.Path, limit)
	if err != nil {
		return nil
	}
	return queries
}

// describe adds a hint to errors caused by another process locking the file.
func describe(err error) error {
	if database.IsLockedError(err) {
		return fmt.Errorf("%w (another program is using the database; try again)", err)
	}
	return err
}
