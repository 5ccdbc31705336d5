// Package frequency turns filtered tables into per-key totals and ranks them.
package frequency

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrAggregation is returned when a summed column holds a value that is not
// an integer, including missing cells.
var ErrAggregation = errors.New("aggregation failed")

// AggregationError points at the cell that could not be summed.
type AggregationError struct {
	Column string
	Row    int // 1-based data row
	Value  string
}

// Error returns a formatted error message for the bad cell.
func (e *AggregationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("aggregate %s: row %d is missing a value", e.Column, e.Row)
	}
	return fmt.Sprintf("aggregate %s: row %d value %q is not an integer", e.Column, e.Row, e.Value)
}

// Is makes every AggregationError match ErrAggregation.
func (e *AggregationError) Is(target error) bool {
	return target == ErrAggregation
}

// Entry is one key and its total.
type Entry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Table maps unique keys to totals and remembers first-encounter order.
type Table struct {
	entries []Entry
	index   map[string]int
}

// New builds a table from entries; repeated keys are summed in place.
func New(entries ...Entry) *Table {
	ft := &Table{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		ft.add(e.Key, e.Count)
	}
	return ft
}

func (ft *Table) add(key string, n int64) {
	if i, ok := ft.index[key]; ok {
		ft.entries[i].Count += n
		return
	}
	ft.index[key] = len(ft.entries)
	ft.entries = append(ft.entries, Entry{Key: key, Count: n})
}

// Len returns the number of keys.
func (ft *Table) Len() int { return len(ft.entries) }

// Get returns the total for key.
func (ft *Table) Get(key string) (int64, bool) {
	i, ok := ft.index[key]
	if !ok {
		return 0, false
	}
	return ft.entries[i].Count, true
}

// Entries returns a copy of the entries in first-encounter order.
func (ft *Table) Entries() []Entry {
	out := make([]Entry, len(ft.entries))
	copy(out, ft.entries)
	return out
}

// Map returns the totals as a plain map.
func (ft *Table) Map() map[string]int64 {
	out := make(map[string]int64, len(ft.entries))
	for _, e := range ft.entries {
		out[e.Key] = e.Count
	}
	return out
}

// Total returns the sum of all counts.
func (ft *Table) Total() int64 {
	var sum int64
	for _, e := range ft.entries {
		sum += e.Count
	}
	return sum
}

// Rank sorts entries by count descending and keeps the first topN. Ties keep
// first-encounter order. topN <= 0 keeps everything; the result is never padded.
func Rank(ft *Table, topN int) []Entry {
	ranked := ft.Entries()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// parseCount reads an integer cell. Integral floats such as "5.0" are accepted
// because spreadsheet exports often widen integer columns.
func parseCount(v string) (int64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
