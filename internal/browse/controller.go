// Package browse implements the keyboard state machine for the table browser.
//
// The controller only tracks indices: which table is selected, which page
// is shown and which row is highlighted. Whoever owns the controller fetches
// the rows when it is told to (EventOpenTable) and reports how many there
// are with SetRowCount.
package browse

import "github.com/johan-st/sqlite-viewer/internal/grid"

// State is the browser's current mode.
type State int

const (
	BrowsingList State = iota
	BrowsingRows
	ViewingRecord
)

func (s State) String() string {
	switch s {
	case BrowsingList:
		return "browsing-list"
	case BrowsingRows:
		return "browsing-rows"
	case ViewingRecord:
		return "viewing-record"
	default:
		return "unknown"
	}
}

// Key is a navigation input.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
)

// Event tells the owner what a key press caused.
type Event int

const (
	EventNone Event = iota
	// EventMoved means indices changed within the current state.
	EventMoved
	// EventOpenTable asks the owner to load rows for SelectedTable.
	EventOpenTable
	// EventCloseTable means the browser went back to the table list.
	EventCloseTable
	// EventOpenRecord means RecordIndex should be shown in full.
	EventOpenRecord
	// EventCloseRecord means the record view was dismissed.
	EventCloseRecord
	// EventExit means the user left the browser.
	EventExit
)

// Controller is the browser state machine.
type Controller struct {
	state  State
	tables int
	table  int
	record int
	pager  *grid.Pager
}

// New returns a controller in the BrowsingList state.
func New(pageSize int) *Controller {
	return &Controller{
		state:  BrowsingList,
		pager:  grid.NewPager(pageSize),
		record: -1,
	}
}

func (c *Controller) State() State       { return c.state }
func (c *Controller) SelectedTable() int { return c.table }
func (c *Controller) Pager() *grid.Pager { return c.pager }
func (c *Controller) RecordIndex() int   { return c.record }
func (c *Controller) TableCount() int    { return c.tables }
func (c *Controller) SetPageSize(n int)  { c.pager.SetPageSize(n) }
func (c *Controller) SetRowCount(n int)  { c.pager.SetTotal(n) }

// SetTables records the number of tables and keeps the selection in range.
func (c *Controller) SetTables(n int) {
	if n < 0 {
		n = 0
	}
	c.tables = n
	if c.table >= n {
		c.table = 0
	}
}

// Select moves the table selection to i when it is in range.
func (c *Controller) Select(i int) {
	if i >= 0 && i < c.tables {
		c.table = i
	}
}

// HandleKey applies one key press.
func (c *Controller) HandleKey(k Key) Event {
	switch c.state {
	case BrowsingList:
		return c.handleList(k)
	case BrowsingRows:
		return c.handleRows(k)
	case ViewingRecord:
		c.state = BrowsingRows
		c.record = -1
		return EventCloseRecord
	}
	return EventNone
}

func (c *Controller) handleList(k Key) Event {
	switch k {
	case KeyUp:
		if c.tables == 0 {
			return EventNone
		}
		c.table = (c.table - 1 + c.tables) % c.tables
		return EventMoved
	case KeyDown:
		if c.tables == 0 {
			return EventNone
		}
		c.table = (c.table + 1) % c.tables
		return EventMoved
	case KeyEnter:
		if c.tables == 0 {
			return EventNone
		}
		c.state = BrowsingRows
		c.pager.SetTotal(0)
		c.pager.Reset()
		return EventOpenTable
	case KeyEscape:
		return EventExit
	}
	return EventNone
}

func (c *Controller) handleRows(k Key) Event {
	switch k {
	case KeyUp:
		c.pager.Up()
		return EventMoved
	case KeyDown:
		c.pager.Down()
		return EventMoved
	case KeyLeft:
		if c.pager.PrevPage() {
			return EventMoved
		}
	case KeyRight:
		if c.pager.NextPage() {
			return EventMoved
		}
	case KeyEnter:
		idx := c.pager.Index()
		if idx < 0 {
			return EventNone
		}
		c.state = ViewingRecord
		c.record = idx
		return EventOpenRecord
	case KeyEscape:
		c.state = BrowsingList
		return EventCloseTable
	}
	return EventNone
}
