package grid

// PageCount returns the number of pages needed for total rows. It is never
// less than one, so an empty result is "page 1 of 1".
func PageCount(total, size int) int {
	if size < 1 {
		size = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage returns page limited to the valid range for total rows.
func ClampPage(page, total, size int) int {
	last := PageCount(total, size) - 1
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Slice returns the rows on the given page. Out of range pages are clamped.
func Slice[T any](rows []T, page, size int) []T {
	if size < 1 {
		size = 1
	}
	page = ClampPage(page, len(rows), size)
	start := page * size
	if start > len(rows) {
		start = len(rows)
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Pager tracks the current page and the highlighted row within it.
// The zero value is not usable; create one with NewPager.
type Pager struct {
	size   int
	total  int
	page   int
	cursor int
}

// NewPager returns a pager showing size rows per page.
func NewPager(size int) *Pager {
	if size < 1 {
		size = 1
	}
	return &Pager{size: size}
}

// SetTotal updates the row count and re-clamps page and cursor.
func (p *Pager) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
	p.clamp()
}

// SetPageSize changes the rows per page. The page index is re-clamped; the
// previously highlighted row may scroll out of view.
func (p *Pager) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	p.size = n
	p.clamp()
}

// Reset moves back to the first row of the first page.
func (p *Pager) Reset() {
	p.page = 0
	p.cursor = 0
}

func (p *Pager) Total() int     { return p.total }
func (p *Pager) PageSize() int  { return p.size }
func (p *Pager) Page() int      { return p.page }
func (p *Pager) Cursor() int    { return p.cursor }
func (p *Pager) PageCount() int { return PageCount(p.total, p.size) }

// Bounds returns the half-open row range of the current page.
func (p *Pager) Bounds() (start, end int) {
	start = p.page * p.size
	if start > p.total {
		start = p.total
	}
	end = start + p.size
	if end > p.total {
		end = p.total
	}
	return start, end
}

// RowsOnPage returns how many rows the current page shows.
func (p *Pager) RowsOnPage() int {
	start, end := p.Bounds()
	return end - start
}

// Index returns the absolute index of the highlighted row, or -1 when the
// page is empty.
func (p *Pager) Index() int {
	if p.RowsOnPage() == 0 {
		return -1
	}
	start, _ := p.Bounds()
	return start + p.cursor
}

// SetPage jumps to page i, clamped to the valid range.
func (p *Pager) SetPage(i int) {
	p.page = i
	p.clamp()
}

// NextPage advances one page and reports whether the page changed. The
// cursor returns to the top row when it does.
func (p *Pager) NextPage() bool {
	return p.move(1)
}

// PrevPage goes back one page and reports whether the page changed.
func (p *Pager) PrevPage() bool {
	return p.move(-1)
}

func (p *Pager) move(delta int) bool {
	next := ClampPage(p.page+delta, p.total, p.size)
	if next == p.page {
		return false
	}
	p.page = next
	p.cursor = 0
	return true
}

// Up moves the cursor one row up without leaving the page.
func (p *Pager) Up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Down moves the cursor one row down without leaving the page.
func (p *Pager) Down() {
	if p.cursor < p.RowsOnPage()-1 {
		p.cursor++
	}
}

func (p *Pager) clamp() {
	p.page = ClampPage(p.page, p.total, p.size)
	if p.cursor >= p.RowsOnPage() || p.cursor < 0 {
		p.cursor = 0
	}
}
