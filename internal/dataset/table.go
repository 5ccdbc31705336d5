// Package dataset loads CSV files into immutable in-memory tables and narrows
// them with composable row predicates.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

// Column kinds, from most to least specific.
const (
	KindInt Kind = iota
	KindFloat
	KindString
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Column is a named, typed column of a Table.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Table is a row-oriented, read-only view over parsed CSV data.
// Tables returned by Filter share row storage with their source; rows are
// never modified after load.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    [][]string
}

// NewTable builds a table from a header and rows, inferring column kinds.
// Every row must have exactly len(header) cells.
func NewTable(name string, header []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(header))
	columns := make([]Column, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if _, dup := index[h]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		index[h] = i
		columns[i] = Column{Name: h}
	}
	for r, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", r+1, len(row), len(header))
		}
	}
	for i := range columns {
		columns[i].Kind = inferKind(rows, i)
	}
	return &Table{name: name, columns: columns, index: index, rows: rows}, nil
}

// inferKind picks the narrowest kind every non-empty cell of column col parses as.
// A column with no values at all is a string column.
func inferKind(rows [][]string, col int) Kind {
	kind := KindInt
	seen := false
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		seen = true
		if kind == KindInt {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return KindString
		}
	}
	if !seen {
		return KindString
	}
	return kind
}

// Name returns the name the table was loaded under (usually its path).
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns a copy of the column list.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in file order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// ColumnIndex returns the position of a column or an ErrUnknownColumn error.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", ErrUnknownColumn, name, t.name)
	}
	return i, nil
}

// Cell returns the trimmed cell at row, col.
func (t *Table) Cell(row, col int) string {
	return strings.TrimSpace(t.rows[row][col])
}

// Row returns a copy of a row's raw cells.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Ints returns the integer values of a column, failing on missing or
// non-integer cells.
func (t *Table) Ints(name string) ([]int64, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(t.rows))
	for r := range t.rows {
		v := t.Cell(r, col)
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d value %q is not an integer", ErrColumnKind, name, r+1, v)
		}
		out[r] = n
	}
	return out, nil
}

// Strings returns the trimmed values of a column.
func (t *Table) Strings(name string) ([]string, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for r := range t.rows {
		out[r] = t.Cell(r, col)
	}
	return out, nil
}

// subset returns a table with the same columns over the given row positions.
func (t *Table) subset(keep []int) *Table {
	rows := make([][]string, len(keep))
	for i, r := range keep {
		rows[i] = t.rows[r]
	}
	return &Table{name: t.name, columns: t.columns, index: t.index, rows: rows}
}
