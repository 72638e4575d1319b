package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ListWrapsAround(t *testing.T) {
	c := New(10)
	c.SetTables(3)
	require.Equal(t, BrowsingList, c.State())

	assert.Equal(t, EventMoved, c.HandleKey(KeyUp))
	assert.Equal(t, 2, c.SelectedTable())
	c.HandleKey(KeyDown)
	assert.Equal(t, 0, c.SelectedTable())
	c.HandleKey(KeyDown)
	c.HandleKey(KeyDown)
	c.HandleKey(KeyDown)
	assert.Equal(t, 0, c.SelectedTable())

	assert.Equal(t, EventNone, c.HandleKey(KeyLeft))
	assert.Equal(t, EventExit, c.HandleKey(KeyEscape))
}

func TestController_NoTables(t *testing.T) {
	c := New(10)
	assert.Equal(t, EventNone, c.HandleKey(KeyDown))
	assert.Equal(t, EventNone, c.HandleKey(KeyEnter))
	assert.Equal(t, BrowsingList, c.State())
}

func TestController_RowsPagingAndRecord(t *testing.T) {
	c := New(10)
	c.SetTables(2)
	c.HandleKey(KeyDown)

	require.Equal(t, EventOpenTable, c.HandleKey(KeyEnter))
	assert.Equal(t, BrowsingRows, c.State())
	assert.Equal(t, 1, c.SelectedTable())
	c.SetRowCount(25)

	c.HandleKey(KeyDown)
	c.HandleKey(KeyDown)
	assert.Equal(t, 2, c.Pager().Cursor())

	assert.Equal(t, EventMoved, c.HandleKey(KeyRight))
	assert.Equal(t, 1, c.Pager().Page())
	assert.Equal(t, 0, c.Pager().Cursor(), "page change resets cursor")

	c.HandleKey(KeyRight)
	assert.Equal(t, EventNone, c.HandleKey(KeyRight), "clamped at last page")
	assert.Equal(t, 2, c.Pager().Page())

	c.HandleKey(KeyDown)
	require.Equal(t, EventOpenRecord, c.HandleKey(KeyEnter))
	assert.Equal(t, ViewingRecord, c.State())
	assert.Equal(t, 21, c.RecordIndex())

	assert.Equal(t, EventCloseRecord, c.HandleKey(KeyOther))
	assert.Equal(t, BrowsingRows, c.State())
	assert.Equal(t, 2, c.Pager().Page(), "page preserved")
	assert.Equal(t, 1, c.Pager().Cursor(), "cursor preserved")

	assert.Equal(t, EventCloseTable, c.HandleKey(KeyEscape))
	assert.Equal(t, BrowsingList, c.State())
	assert.Equal(t, 1, c.SelectedTable())
}

func TestController_EnterOnEmptyTable(t *testing.T) {
	c := New(10)
	c.SetTables(1)
	c.HandleKey(KeyEnter)
	c.SetRowCount(0)

	assert.Equal(t, EventNone, c.HandleKey(KeyEnter))
	assert.Equal(t, BrowsingRows, c.State())
	assert.Equal(t, 1, c.Pager().PageCount())
}

func TestController_ReopenResetsPosition(t *testing.T) {
	c := New(5)
	c.SetTables(2)
	c.HandleKey(KeyEnter)
	c.SetRowCount(20)
	c.HandleKey(KeyRight)
	c.HandleKey(KeyDown)
	c.HandleKey(KeyEscape)

	c.HandleKey(KeyEnter)
	c.SetRowCount(20)
	assert.Equal(t, 0, c.Pager().Page())
	assert.Equal(t, 0, c.Pager().Cursor())
}

func TestController_SetTablesClampsSelection(t *testing.T) {
	c := New(5)
	c.SetTables(4)
	c.Select(3)
	c.SetTables(2)
	assert.Equal(t, 0, c.SelectedTable())

	c.Select(7)
	assert.Equal(t, 0, c.SelectedTable())
}
