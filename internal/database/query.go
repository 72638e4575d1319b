package database

import (
	"fmt"
	"strings"
	"time"
)

// QueryResult holds the results of a query execution.
type QueryResult struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
	LastInsertID int64
	Duration     time.Duration
	IsSelect     bool
	Error        string
}

// Summary is a one-line description of the result.
func (r *QueryResult) Summary() string {
	if r.Error != "" {
		return "Error: " + r.Error
	}
	if r.IsSelect {
		return fmt.Sprintf("%d row(s) in %s", len(r.Rows), r.Duration.Round(time.Microsecond))
	}
	return fmt.Sprintf("Executed successfully: %d row(s) affected", r.RowsAffected)
}

// returnsRows guesses whether a statement produces a result set from its
// leading keyword.
func returnsRows(query string) bool {
	trimmed := strings.ToUpper(stripLeadingComments(query))
	for _, kw := range []string{"SELECT", "PRAGMA", "EXPLAIN", "WITH", "VALUES"} {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}

func stripLeadingComments(query string) string {
	s := strings.TrimSpace(query)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = strings.TrimSpace(s[i+1:])
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = strings.TrimSpace(s[i+2:])
		default:
			return s
		}
	}
}

// Query executes a statement and returns structured results. Statements
// that produce rows are read fully; others report rows affected.
func Query(conn *Connection, query string, args ...any) (*QueryResult, error) {
	start := time.Now()
	if returnsRows(query) {
		return executeSelect(conn, query, args, start)
	}
	if conn.ReadOnly {
		return &QueryResult{Error: ErrReadOnly.Error()}, ErrReadOnly
	}
	return executeExec(conn, query, args, start)
}

func executeSelect(conn *Connection, query string, args []any, start time.Time) (*QueryResult, error) {
	rows, err := conn.Query(query, args...)
	if err != nil {
		return &QueryResult{
			Duration: time.Since(start),
			IsSelect: true,
			Error:    err.Error(),
		}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &QueryResult{
		Columns:  columns,
		Rows:     make([][]any, 0),
		IsSelect: true,
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	result.Duration = time.Since(start)
	if err := rows.Err(); err != nil {
		result.Error = err.Error()
		return result, err
	}
	return result, nil
}

func executeExec(conn *Connection, query string, args []any, start time.Time) (*QueryResult, error) {
	res, err := conn.Execute(query, args...)
	if err != nil {
		return &QueryResult{
			Duration: time.Since(start),
			Error:    err.Error(),
		}, err
	}

	result := &QueryResult{Duration: time.Since(start)}
	result.RowsAffected, _ = res.RowsAffected()
	result.LastInsertID, _ = res.LastInsertId()
	return result, nil
}

// SelectOptions configures a table read.
type SelectOptions struct {
	Limit  int
	Offset int

	// WithRowID prepends the rowid as the first column.
	WithRowID bool
}

// DefaultRowLimit is how many rows the browser loads per table.
const DefaultRowLimit = 1000

// DefaultSelectOptions returns default options for browsing.
func DefaultSelectOptions() SelectOptions {
	return SelectOptions{Limit: DefaultRowLimit}
}

// Select reads rows from a table.
func Select(conn *Connection, tableName string, opts SelectOptions) (*QueryResult, error) {
	cols := "*"
	if opts.WithRowID {
		cols = `rowid AS "rowid", *`
	}

	query := fmt.Sprintf("SELECT %s FROM %s", cols, quoteIdentifier(tableName))
	var args []any
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	return Query(conn, query, args...)
}

// Insert adds one row. columns and values are matched by position; values
// are always bound as parameters.
func Insert(conn *Connection, tableName string, columns []string, values []any) (*QueryResult, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no data to insert")
	}
	if len(columns) != len(values) {
		return nil, fmt.Errorf("insert: %d columns but %d values", len(columns), len(values))
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdentifier(c)
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(tableName),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))

	return Query(conn, query, values...)
}

// UpdateCell sets one column of the row with the given rowid.
func UpdateCell(conn *Connection, tableName string, rowID int64, column string, value any) (*QueryResult, error) {
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE rowid = ?",
		quoteIdentifier(tableName), quoteIdentifier(column))
	return Query(conn, query, value, rowID)
}

// DeleteRow removes the row with the given rowid.
func DeleteRow(conn *Connection, tableName string, rowID int64) (*QueryResult, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE rowid = ?", quoteIdentifier(tableName))
	return Query(conn, query, rowID)
}

// CreateTable creates a table from a name and a column definition list such
// as "id INTEGER PRIMARY KEY, name TEXT NOT NULL". The name is validated and
// quoted; the definitions cannot be parameterized, so anything that could
// end the statement or hide text in a comment is rejected.
func CreateTable(conn *Connection, tableName, definitions string) (*QueryResult, error) {
	if err := ValidateIdentifier(tableName); err != nil {
		return nil, err
	}
	defs := strings.TrimSpace(definitions)
	if defs == "" {
		return nil, fmt.Errorf("no column definitions given")
	}
	for _, bad := range []string{";", "--", "/*"} {
		if strings.Contains(defs, bad) {
			return nil, fmt.Errorf("column definitions may not contain %q", bad)
		}
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(tableName), defs)
	return Query(conn, query)
}

// DropTable drops a table.
func DropTable(conn *Connection, tableName string) (*QueryResult, error) {
	if err := ValidateIdentifier(tableName); err != nil {
		return nil, err
	}
	return Query(conn, fmt.Sprintf("DROP TABLE %s", quoteIdentifier(tableName)))
}
