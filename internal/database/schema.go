package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// TableInfo contains information about a database table.
type TableInfo struct {
	Name        string
	SQL         string
	Columns     []ColumnInfo
	Indexes     []IndexInfo
	ForeignKeys []ForeignKeyInfo
	RowCount    int64
	PrimaryKey  []string
}

// ColumnInfo contains information about a table column.
type ColumnInfo struct {
	CID          int
	Name         string
	Type         string
	NotNull      bool
	DefaultValue sql.NullString
	PrimaryKey   int // 0 if not PK, otherwise position in composite PK
}

// IsPrimaryKey reports whether the column is part of the primary key.
func (c ColumnInfo) IsPrimaryKey() bool {
	return c.PrimaryKey > 0
}

// Default returns the declared default, or "" when there is none.
func (c ColumnInfo) Default() string {
	if c.DefaultValue.Valid {
		return c.DefaultValue.String
	}
	return ""
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []ColumnInfo) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// IndexInfo contains information about an index.
type IndexInfo struct {
	Name    string
	Unique  bool
	Columns []string
}

// ForeignKeyInfo contains information about a foreign key.
type ForeignKeyInfo struct {
	ID       int
	Table    string
	From     string
	To       string
	OnUpdate string
	OnDelete string
}

// Schema reads table metadata from sqlite_master and the table PRAGMAs.
type Schema struct {
	conn *Connection
}

// NewSchema returns a Schema reading through conn.
func NewSchema(conn *Connection) *Schema {
	return &Schema{conn: conn}
}

// ListTables returns the user tables, sorted by name. SQLite's internal
// tables are left out.
func (s *Schema) ListTables() ([]string, error) {
	var tables []string
	err := s.each("list tables", func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
		return nil
	}, `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	return tables, err
}

// GetTableInfo gathers everything the structure view shows for one table.
func (s *Schema) GetTableInfo(tableName string) (*TableInfo, error) {
	createSQL, err := s.createStatement(tableName)
	if err != nil {
		return nil, err
	}

	info := &TableInfo{Name: tableName, SQL: createSQL}
	if info.Columns, err = s.GetColumns(tableName); err != nil {
		return nil, err
	}
	for _, col := range info.Columns {
		if col.IsPrimaryKey() {
			info.PrimaryKey = append(info.PrimaryKey, col.Name)
		}
	}
	if info.RowCount, err = s.GetRowCount(tableName); err != nil {
		return nil, err
	}
	if info.Indexes, err = s.GetIndexes(tableName); err != nil {
		return nil, err
	}
	if info.ForeignKeys, err = s.GetForeignKeys(tableName); err != nil {
		return nil, err
	}
	return info, nil
}

// GetColumns returns the declared columns of a table in order.
func (s *Schema) GetColumns(tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	err := s.pragma("table_info", tableName, func(rows *sql.Rows) error {
		var col ColumnInfo
		if err := rows.Scan(&col.CID, &col.Name, &col.Type, &col.NotNull, &col.DefaultValue, &col.PrimaryKey); err != nil {
			return err
		}
		columns = append(columns, col)
		return nil
	})
	return columns, err
}

// GetIndexes returns the indexes on a table with their columns.
func (s *Schema) GetIndexes(tableName string) ([]IndexInfo, error) {
	// index_list has to be drained before index_info runs: the pool holds a
	// single connection.
	var indexes []IndexInfo
	err := s.pragma("index_list", tableName, func(rows *sql.Rows) error {
		var (
			seq, unique, partial int
			name, origin         string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return err
		}
		indexes = append(indexes, IndexInfo{Name: name, Unique: unique == 1})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range indexes {
		idx := &indexes[i]
		err := s.pragma("index_info", idx.Name, func(rows *sql.Rows) error {
			var seqno, cid int
			var column sql.NullString
			if err := rows.Scan(&seqno, &cid, &column); err != nil {
				return err
			}
			// Expression indexes have no column name.
			name := column.String
			if !column.Valid {
				name = "<expr>"
			}
			idx.Columns = append(idx.Columns, name)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return indexes, nil
}

// GetForeignKeys returns the foreign keys declared on a table.
func (s *Schema) GetForeignKeys(tableName string) ([]ForeignKeyInfo, error) {
	var fks []ForeignKeyInfo
	err := s.pragma("foreign_key_list", tableName, func(rows *sql.Rows) error {
		var (
			fk    ForeignKeyInfo
			seq   int
			match string
			to    sql.NullString
		)
		if err := rows.Scan(&fk.ID, &seq, &fk.Table, &fk.From, &to, &fk.OnUpdate, &fk.OnDelete, &match); err != nil {
			return err
		}
		// A NULL target means the parent's primary key.
		fk.To = to.String
		fks = append(fks, fk)
		return nil
	})
	return fks, err
}

// GetRowCount counts the rows of a table.
func (s *Schema) GetRowCount(tableName string) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM " + quoteIdentifier(tableName)
	if err := s.conn.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", tableName, err)
	}
	return count, nil
}

// TableExists reports whether a user or system table of that name exists.
func (s *Schema) TableExists(tableName string) (bool, error) {
	_, err := s.createStatement(tableName)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoSuchTable):
		return false, nil
	default:
		return false, err
	}
}

// createStatement returns the CREATE TABLE text stored for a table.
func (s *Schema) createStatement(tableName string) (string, error) {
	var stmt sql.NullString
	err := s.conn.QueryRow(
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`,
		tableName,
	).Scan(&stmt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoSuchTable, tableName)
	}
	if err != nil {
		return "", fmt.Errorf("read definition of %s: %w", tableName, err)
	}
	return stmt.String, nil
}

// pragma runs a table-valued PRAGMA on one object and hands every row to fn.
func (s *Schema) pragma(name, object string, fn func(*sql.Rows) error) error {
	query := fmt.Sprintf("PRAGMA %s(%s)", name, quoteIdentifier(object))
	return s.each(name+" "+object, fn, query)
}

// each runs query and calls fn per row, closing the rows before returning.
func (s *Schema) each(what string, fn func(*sql.Rows) error, query string, args ...any) error {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// maxIdentifierLength bounds user supplied table and column names.
const maxIdentifierLength = 128

// ValidateIdentifier checks a user supplied table or column name. Names are
// always quoted when spliced into SQL, so only names that cannot be quoted
// or are clearly unintended are rejected.
func ValidateIdentifier(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidIdentifier)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name contains a NUL byte", ErrInvalidIdentifier)
	case len(name) > maxIdentifierLength:
		return fmt.Errorf("%w: name longer than %d bytes", ErrInvalidIdentifier, maxIdentifierLength)
	case strings.HasPrefix(strings.ToLower(name), "sqlite_"):
		return fmt.Errorf("%w: names starting with sqlite_ are reserved", ErrInvalidIdentifier)
	}
	return nil
}

// QuoteIdentifier quotes a SQL identifier, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return quoteIdentifier(name)
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
