package gallery

// Column breakpoints by viewport width in CSS pixels.
var breakpoints = []struct {
	maxWidth int
	columns  int
}{
	{600, 1},
	{1024, 2},
	{1440, 3},
	{1920, 4},
}

const maxColumns = 5

// ColumnCount returns the number of masonry columns for a viewport width.
func ColumnCount(width int) int {
	for _, bp := range breakpoints {
		if width <= bp.maxWidth {
			return bp.columns
		}
	}
	return maxColumns
}

// Assign distributes items over k columns, placing each in turn into the
// column with the smallest running sum of aspect ratios (lowest index wins a
// tie). This approximates true masonry: column widths are equal, so the sum of
// height/width ratios tracks rendered column height.
func Assign(ratios []float64, k int) [][]int {
	if k < 1 {
		k = 1
	}
	cols := make([][]int, k)
	heights := make([]float64, k)
	for i, r := range ratios {
		best := 0
		for c := 1; c < k; c++ {
			if heights[c] < heights[best] {
				best = c
			}
		}
		cols[best] = append(cols[best], i)
		heights[best] += r
	}
	return cols
}

// Heights returns the running column sums Assign would end with.
func Heights(ratios []float64, cols [][]int) []float64 {
	out := make([]float64, len(cols))
	for c, idx := range cols {
		for _, i := range idx {
			out[c] += ratios[i]
		}
	}
	return out
}

// Ratios extracts the aspect ratios of photos in order.
func Ratios(photos []Photo) []float64 {
	out := make([]float64, len(photos))
	for i, p := range photos {
		out[i] = p.AspectRatio
	}
	return out
}

// Columns arranges photos for a viewport width.
func Columns(photos []Photo, width int) [][]Photo {
	assigned := Assign(Ratios(photos), ColumnCount(width))
	out := make([][]Photo, len(assigned))
	for c, idx := range assigned {
		out[c] = make([]Photo, 0, len(idx))
		for _, i := range idx {
			out[c] = append(out[c], photos[i])
		}
	}
	return out
}

// Layout tracks the column assignment for a fixed set of items and only
// recomputes it when a resize crosses a breakpoint.
type Layout struct {
	ratios  []float64
	columns int
	assign  [][]int
}

func NewLayout(ratios []float64, width int) *Layout {
	l := &Layout{ratios: ratios, columns: ColumnCount(width)}
	l.assign = Assign(ratios, l.columns)
	return l
}

// Resize reports whether the column count changed and the assignment was
// recomputed.
func (l *Layout) Resize(width int) bool {
	k := ColumnCount(width)
	if k == l.columns {
		return false
	}
	l.columns = k
	l.assign = Assign(l.ratios, k)
	return true
}

func (l *Layout) ColumnCount() int {
	return l.columns
}

func (l *Layout) Columns() [][]int {
	return l.assign
}
