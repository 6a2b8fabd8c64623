package table

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRowMismatch     = errors.New("column lengths differ")
	ErrColumnNotFound  = errors.New("column not found")
)

// Table is an ordered set of equally long, uniquely named columns. A Table
// is never modified after construction; operations build new tables that
// share untouched columns with their source.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a table from columns, validating names and lengths.
func New(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:  make([]*Column, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrRowMismatch, c.name, c.Len(), t.rows)
		}
		t.index[c.name] = i
		t.cols[i] = c
	}
	return t, nil
}

func (t *Table) NumRows() int { return t.rows }
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}
	return out
}

// Columns returns the columns in table order. The slice is a copy; the
// columns themselves are immutable.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a copy of the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	out := make([]Cell, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.cells[i]
	}
	return out
}

// MissingCount is the total number of missing cells.
func (t *Table) MissingCount() int {
	n := 0
	for _, c := range t.cols {
		n += c.missing
	}
	return n
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n >= t.rows {
		return t
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Take(rows)
}

// Take returns a table with the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(rows)
	}
	return &Table{cols: cols, index: t.index, rows: len(rows)}
}

// Filter keeps the rows for which keep returns true and reports how many
// rows were dropped. When nothing is dropped the receiver is returned.
func (t *Table) Filter(keep func(row int) bool) (*Table, int) {
	rows := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	removed := t.rows - len(rows)
	if removed == 0 {
		return t, 0
	}
	return t.Take(rows), removed
}

// Replace swaps in columns by name, keeping position. Columns not named
// are shared with the receiver.
func (t *Table) Replace(cols ...*Column) (*Table, error) {
	next := make([]*Column, len(t.cols))
	copy(next, t.cols)
	for _, c := range cols {
		i, ok := t.index[c.name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, c.name)
		}
		if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrRowMismatch, c.name, c.Len(), t.rows)
		}
		next[i] = c
	}
	return &Table{cols: next, index: t.index, rows: t.rows}, nil
}

// Equal reports whether both tables hold the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for i := range t.cols {
		if !t.cols[i].Equal(o.cols[i]) {
			return false
		}
	}
	return true
}
