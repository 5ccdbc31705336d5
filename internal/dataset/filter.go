package dataset

import (
	"fmt"
	"strconv"
)

// Predicate selects rows of a table. Predicates are bound to a table's
// columns before evaluation so that column errors surface once, up front.
type Predicate interface {
	bind(t *Table) (func(row int) bool, error)
	String() string
}

// Filter returns a new table holding the rows of t that satisfy p, in their
// original order. t is not modified. An empty result is not an error.
func Filter(t *Table, p Predicate) (*Table, error) {
	match, err := p.bind(t)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", p, err)
	}
	keep := make([]int, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		if match(r) {
			keep = append(keep, r)
		}
	}
	return t.subset(keep), nil
}

type eqPredicate struct {
	column  string
	literal string
}

// Eq matches rows whose trimmed cell in column equals literal.
func Eq(column, literal string) Predicate {
	return eqPredicate{column: column, literal: literal}
}

func (p eqPredicate) bind(t *Table) (func(int) bool, error) {
	col, err := t.ColumnIndex(p.column)
	if err != nil {
		return nil, err
	}
	return func(r int) bool { return t.Cell(r, col) == p.literal }, nil
}

func (p eqPredicate) String() string {
	return fmt.Sprintf("%s == %q", p.column, p.literal)
}

type betweenPredicate struct {
	column string
	lo, hi int64
}

// Between matches rows whose integer cell in column lies in [lo, hi].
// Missing cells never match, and lo > hi matches nothing.
func Between(column string, lo, hi int64) Predicate {
	return betweenPredicate{column: column, lo: lo, hi: hi}
}

func (p betweenPredicate) bind(t *Table) (func(int) bool, error) {
	col, err := t.ColumnIndex(p.column)
	if err != nil {
		return nil, err
	}
	// An all-empty column infers as string but holds no values to compare.
	if k := t.columns[col].Kind; k != KindInt && t.Len() > 0 && !emptyColumn(t, col) {
		return nil, fmt.Errorf("%w: %s is %s, want int", ErrColumnKind, p.column, k)
	}
	if p.lo > p.hi {
		return func(int) bool { return false }, nil
	}
	return func(r int) bool {
		n, err := strconv.ParseInt(t.Cell(r, col), 10, 64)
		if err != nil {
			return false
		}
		return n >= p.lo && n <= p.hi
	}, nil
}

func (p betweenPredicate) String() string {
	return fmt.Sprintf("%d <= %s <= %d", p.lo, p.column, p.hi)
}

func emptyColumn(t *Table, col int) bool {
	for r := 0; r < t.Len(); r++ {
		if t.Cell(r, col) != "" {
			return false
		}
	}
	return true
}

type andPredicate []Predicate

// And matches rows satisfying every predicate. And() matches every row.
func And(ps ...Predicate) Predicate {
	return andPredicate(ps)
}

func (ps andPredicate) bind(t *Table) (func(int) bool, error) {
	bound := make([]func(int) bool, 0, len(ps))
	for _, p := range ps {
		m, err := p.bind(t)
		if err != nil {
			return nil, err
		}
		bound = append(bound, m)
	}
	return func(r int) bool {
		for _, m := range bound {
			if !m(r) {
				return false
			}
		}
		return true
	}, nil
}

func (ps andPredicate) String() string {
	s := "all("
	for i, p := range ps {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}
