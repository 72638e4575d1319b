package grid

const (
	// MaxColumnWidth caps the natural width of a column so one long value
	// cannot take over the layout.
	MaxColumnWidth = 20

	// MinColumnWidth is the floor applied when widths are scaled down.
	MinColumnWidth = 5

	columnGap = 3 // " │ " between columns
	margin    = 1 // leading margin
	reserve   = 4 // cursor gutter and border
)

// Allocate computes display widths for the columns named by headers, based
// on the visible rows only. It returns ok == false when there is nothing to
// render (no columns or no rows).
//
// When the natural widths do not fit into available, every width is scaled
// by the same ratio with a floor of MinColumnWidth. If the floors alone are
// still too wide, trailing columns are dropped, so len(widths) may be less
// than len(headers).
func Allocate(headers []string, rows [][]any, available int) (widths []int, ok bool) {
	if len(headers) == 0 || len(rows) == 0 {
		return nil, false
	}

	widths = make([]int, len(headers))
	for i, h := range headers {
		widths[i] = Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := Width(Text(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sum := 0
	for i, w := range widths {
		if w > MaxColumnWidth {
			w = MaxColumnWidth
		}
		if w < 1 {
			w = 1
		}
		widths[i] = w
		sum += w
	}

	budget := available - reserve
	if total(sum, len(widths)) > budget {
		ratio := float64(budget-columnGap*len(widths)-margin) / float64(sum)
		for i, w := range widths {
			scaled := int(float64(w) * ratio)
			if scaled < MinColumnWidth {
				scaled = MinColumnWidth
			}
			widths[i] = scaled
		}
	}

	return clip(widths, budget), true
}

// LineWidth is the display width of a line rendered with widths.
func LineWidth(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	sum := 0
	for _, w := range widths {
		sum += w
	}
	return sum + columnGap*(len(widths)-1)
}

func total(sum, n int) int {
	return sum + columnGap*n + margin
}

// clip drops trailing columns until the layout fits budget. A single
// remaining column is narrowed instead.
func clip(widths []int, budget int) []int {
	sum := 0
	for _, w := range widths {
		sum += w
	}
	for len(widths) > 1 && total(sum, len(widths)) > budget {
		sum -= widths[len(widths)-1]
		widths = widths[:len(widths)-1]
	}
	if len(widths) == 1 && total(sum, 1) > budget {
		w := budget - columnGap - margin
		if w < 1 {
			w = 1
		}
		widths[0] = w
	}
	return widths
}
