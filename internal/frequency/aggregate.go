package frequency

import (
	"fmt"

	"mediadash/internal/dataset"
)

// Aggregate groups rows of t by groupBy, sums sumColumn per group and drops
// groups whose sum is below minCount. Any cell of sumColumn that is missing or
// not an integer fails the whole aggregation.
func Aggregate(t *dataset.Table, groupBy, sumColumn string, minCount int64) (*Table, error) {
	keyCol, err := t.ColumnIndex(groupBy)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	sumCol, err := t.ColumnIndex(sumColumn)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	all := New()
	for r := 0; r < t.Len(); r++ {
		raw := t.Cell(r, sumCol)
		n, ok := parseCount(raw)
		if !ok {
			return nil, &AggregationError{Column: sumColumn, Row: r + 1, Value: raw}
		}
		all.add(t.Cell(r, keyCol), n)
	}

	kept := New()
	for _, e := range all.entries {
		if e.Count >= minCount {
			kept.add(e.Key, e.Count)
		}
	}
	return kept, nil
}

// SumColumns totals each named column over every row, keyed by column name in
// the order given.
func SumColumns(t *dataset.Table, columns ...string) (*Table, error) {
	out := New()
	for _, name := range columns {
		col, err := t.ColumnIndex(name)
		if err != nil {
			return nil, fmt.Errorf("sum columns: %w", err)
		}
		var sum int64
		for r := 0; r < t.Len(); r++ {
			raw := t.Cell(r, col)
			n, ok := parseCount(raw)
			if !ok {
				return nil, &AggregationError{Column: name, Row: r + 1, Value: raw}
			}
			sum += n
		}
		out.add(name, sum)
	}
	return out, nil
}

// Counts reads every cell of column as a count, with the same rules as
// Aggregate. A missing or non-integer cell is an *AggregationError.
func Counts(t *dataset.Table, column string) ([]int64, error) {
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	out := make([]int64, t.Len())
	for r := range out {
		raw := t.Cell(r, col)
		n, ok := parseCount(raw)
		if !ok {
			return nil, &AggregationError{Column: column, Row: r + 1, Value: raw}
		}
		out[r] = n
	}
	return out, nil
}
