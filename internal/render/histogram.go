package render

import (
	"fmt"
	"strconv"
)

// MissingGroup labels rows whose group cell is empty.
const MissingGroup = "(missing)"

// HistogramData is articles per calendar year, one bin per year of an
// inclusive range, optionally split by a categorical group.
type HistogramData struct {
	Start  int       `json:"start"`
	End    int       `json:"end"`
	Years  []int     `json:"years"`
	Totals []int64   `json:"totals"`
	Groups []string  `json:"groups,omitempty"`
	Counts [][]int64 `json:"counts,omitempty"` // Counts[bin][group]
}

// Grouped reports whether the bins are split by a group column.
func (h HistogramData) Grouped() bool { return len(h.Groups) > 0 }

// Total is the number of binned rows.
func (h HistogramData) Total() int64 {
	var sum int64
	for _, n := range h.Totals {
		sum += n
	}
	return sum
}

// BinYears counts years into end-start+1 bins. groups is either nil or
// parallel to years; group order follows first encounter. Years outside the
// range are ignored and start > end yields no bins.
func BinYears(years []int64, groups []string, start, end int) (HistogramData, error) {
	if groups != nil && len(groups) != len(years) {
		return HistogramData{}, fmt.Errorf("bin years: %d groups for %d years", len(groups), len(years))
	}
	h := HistogramData{Start: start, End: end}
	if start > end {
		return h, nil
	}
	bins := end - start + 1
	h.Years = make([]int, bins)
	h.Totals = make([]int64, bins)
	for i := range h.Years {
		h.Years[i] = start + i
	}

	grouped := groups != nil
	groupIndex := map[string]int{}
	if grouped {
		h.Counts = make([][]int64, bins)
	}

	for i, y := range years {
		if y < int64(start) || y > int64(end) {
			continue
		}
		bin := int(y) - start
		h.Totals[bin]++
		if !grouped {
			continue
		}
		g := groups[i]
		if g == "" {
			g = MissingGroup
		}
		gi, ok := groupIndex[g]
		if !ok {
			gi = len(h.Groups)
			groupIndex[g] = gi
			h.Groups = append(h.Groups, g)
			for b := range h.Counts {
				h.Counts[b] = append(h.Counts[b], 0)
			}
		}
		h.Counts[bin][gi]++
	}
	return h, nil
}

// Histogram renders HistogramData. Ungrouped data is a plain bar per year.
// Grouped data stacks each group's absolute count per year, with the year
// total printed above the stack.
func Histogram(h HistogramData, l Labels, size Size) (*Artifact, error) {
	if len(h.Years) == 0 || h.Total() == 0 {
		return Blank(l.Title, emptyMessage, size)
	}

	labels := make([]string, len(h.Years))
	for i, y := range h.Years {
		labels[i] = strconv.Itoa(y)
	}

	if !h.Grouped() {
		values := make([]float64, len(h.Totals))
		for i, n := range h.Totals {
			values[i] = float64(n)
		}
		return Bar(labels, values, l, size)
	}
	return stackedBars(h, labels, l, size)
}
