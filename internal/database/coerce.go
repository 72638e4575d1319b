package database

import (
	"strconv"
	"strings"
)

// Coerce converts text typed by the user into a value for a column with the
// given declared type. Empty input and "null" become NULL. Columns with
// numeric affinity get an int64 or float64 when the text parses as one;
// anything else is kept as text and left to SQLite.
func Coerce(input, declaredType string) any {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	if !numericAffinity(declaredType) {
		return input
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return input
}

// numericAffinity follows SQLite's affinity rules closely enough to decide
// whether a number is expected.
func numericAffinity(declaredType string) bool {
	t := strings.ToUpper(declaredType)
	if strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") || strings.Contains(t, "TEXT") {
		return false
	}
	for _, kw := range []string{"INT", "REAL", "FLOA", "DOUB", "NUMERIC", "DECIMAL", "BOOL"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
