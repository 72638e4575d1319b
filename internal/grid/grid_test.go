package grid

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "hello"},
		{"bytes", []byte("blob"), "blob"},
		{"int64", int64(42), "42"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"null string invalid", sql.NullString{}, "NULL"},
		{"null int valid", sql.NullInt64{Int64: 7, Valid: true}, "7"},
		{"null bool valid", sql.NullBool{Bool: false, Valid: true}, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		width int
		want  string
	}{
		{"pads short values", "ab", 5, "ab   "},
		{"null marker", nil, 6, "NULL  "},
		{"exact fit", "abcde", 5, "abcde"},
		{"ellipsis", strings.Repeat("x", 50), 10, "xxxxxxx..."},
		{"width four keeps ellipsis", "abcdef", 4, "a..."},
		{"narrow column cuts without ellipsis", "abcdef", 3, "abc"},
		{"width one", "abcdef", 1, "a"},
		{"zero width", "abc", 0, ""},
		{"negative width", "abc", -2, ""},
		{"newlines flattened", "a\nb", 3, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cell(tt.in, tt.width))
		})
	}
}

func TestCell_AlwaysExactWidth(t *testing.T) {
	values := []any{int64(1), "", "Alice", strings.Repeat("long", 30), 3.14159, "héllo wörld", "日本語のテキスト", true}
	for _, v := range values {
		for w := 4; w <= 30; w++ {
			got := Cell(v, w)
			assert.Equal(t, w, Width(got), "Cell(%v, %d) = %q", v, w, got)
		}
	}
}

func TestAllocate_Scenario(t *testing.T) {
	headers := []string{"id", "name"}
	rows := [][]any{{int64(1), "Alice"}, {int64(2), nil}}

	widths, ok := Allocate(headers, rows, 40)
	require.True(t, ok)
	require.Len(t, widths, 2)
	assert.GreaterOrEqual(t, widths[0], len("id"))
	assert.GreaterOrEqual(t, widths[1], len("name"))

	frame := Render(headers, rows, widths, ASCIIStyle)
	assert.Equal(t, "id | name ", frame.Header)
	assert.Equal(t, "---+------", frame.Separator)
	require.Len(t, frame.Lines, 2)
	assert.Equal(t, "1  | Alice", frame.Lines[0])
	assert.Equal(t, "2  | NULL ", frame.Lines[1])
	assert.Zero(t, frame.Hidden)
}

func TestAllocate_Empty(t *testing.T) {
	_, ok := Allocate(nil, [][]any{{1}}, 80)
	assert.False(t, ok)

	_, ok = Allocate([]string{"a"}, nil, 80)
	assert.False(t, ok)

	frame := Table([]string{"a"}, nil, 80, BoxStyle)
	assert.True(t, frame.Empty())
	assert.Empty(t, frame.Lines)
}

func TestAllocate_CapsAtMaxWidth(t *testing.T) {
	widths, ok := Allocate([]string{"v"}, [][]any{{strings.Repeat("z", 100)}}, 200)
	require.True(t, ok)
	assert.Equal(t, []int{MaxColumnWidth}, widths)
}

func TestAllocate_ScalesDown(t *testing.T) {
	headers := []string{"aaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbb", "cccccccccccccccccccc"}
	rows := [][]any{{"x", "y", "z"}}

	widths, ok := Allocate(headers, rows, 50)
	require.True(t, ok)
	require.Len(t, widths, 3)
	for _, w := range widths {
		assert.Less(t, w, MaxColumnWidth)
		assert.GreaterOrEqual(t, w, MinColumnWidth)
	}
	assert.LessOrEqual(t, LineWidth(widths), 50)
}

func TestAllocate_ClipsColumnsThatCannotFit(t *testing.T) {
	headers := make([]string, 12)
	row := make([]any, 12)
	for i := range headers {
		headers[i] = fmt.Sprintf("column_%d", i)
		row[i] = "value"
	}

	frame := Table(headers, [][]any{row}, 30, BoxStyle)
	assert.Positive(t, frame.Hidden)
	assert.LessOrEqual(t, Width(frame.Header), 30)
}

func TestTable_WidthBudget(t *testing.T) {
	long := strings.Repeat("w", 40)
	for cols := 1; cols <= 15; cols++ {
		headers := make([]string, cols)
		row := make([]any, cols)
		for i := range headers {
			headers[i] = fmt.Sprintf("c%d", i)
			row[i] = long
		}
		rows := [][]any{row, {nil}}
		for avail := 20; avail <= 120; avail += 7 {
			frame := Table(headers, rows, avail, BoxStyle)
			lines := append([]string{frame.Header, frame.Separator}, frame.Lines...)
			for _, line := range lines {
				assert.LessOrEqual(t, Width(line), avail, "cols=%d avail=%d line=%q", cols, avail, line)
			}
		}
	}
}

func TestRender_ShapeMismatch(t *testing.T) {
	headers := []string{"a", "b", "c"}
	rows := [][]any{
		{"1"},
		{"1", "2", "3", "4", "5"},
	}
	frame := Render(headers, rows, []int{2, 2, 2}, ASCIIStyle)
	require.Len(t, frame.Lines, 2)
	assert.Equal(t, "1  |    |   ", frame.Lines[0])
	assert.Equal(t, "1  | 2  | 3 ", frame.Lines[1])
}

func TestRender_Idempotent(t *testing.T) {
	headers := []string{"id", "name", "email"}
	rows := [][]any{{int64(1), "Alice", "alice@example.com"}, {int64(2), "Bob", nil}}

	first := Table(headers, rows, 60, BoxStyle)
	second := Table(headers, rows, 60, BoxStyle)
	assert.Equal(t, first, second)
}

func TestTable_FallsBackToPlainOnFailure(t *testing.T) {
	orig := layout
	t.Cleanup(func() { layout = orig })
	layout = func([]string, [][]any, int, Style) Frame {
		panic("index out of range")
	}

	rows := [][]any{{int64(1), "Alice", nil}, {int64(2), "Bob", 3.5}}
	var frame Frame
	require.NotPanics(t, func() {
		frame = Table([]string{"id", "name", "age"}, rows, 80, BoxStyle)
	})
	assert.True(t, frame.Plain)
	assert.Equal(t, []string{"1 | Alice | NULL", "2 | Bob | 3.5"}, frame.Lines)
}

func TestPlain(t *testing.T) {
	frame := Plain([][]any{{int64(1), "Alice", nil}}, 80)
	assert.True(t, frame.Plain)
	assert.Equal(t, []string{"1 | Alice | NULL"}, frame.Lines)

	frame = Plain([][]any{{strings.Repeat("a", 30)}}, 10)
	assert.Equal(t, "aaaaaaa...", frame.Lines[0])
}
