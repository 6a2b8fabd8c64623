package table

// Column is an immutable named sequence of cells. Every method that would
// change a column returns a new one, so columns can be shared between tables.
type Column struct {
	name    string
	kind    Kind
	cells   []Cell
	missing int
}

// NewColumn copies cells into a new column.
func NewColumn(name string, kind Kind, cells []Cell) *Column {
	cp := make([]Cell, len(cells))
	copy(cp, cells)
	return newOwnedColumn(name, kind, cp)
}

// NumericColumn is a convenience constructor for tests and fixtures.
func NumericColumn(name string, vals ...Cell) *Column { return NewColumn(name, KindNumeric, vals) }

// TextColumn builds a text column from strings; an empty string is missing.
func TextColumn(name string, vals ...string) *Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		if v != "" {
			cells[i] = Text(v)
		}
	}
	return newOwnedColumn(name, KindText, cells)
}

func newOwnedColumn(name string, kind Kind, cells []Cell) *Column {
	c := &Column{name: name, kind: kind, cells: cells}
	for _, v := range cells {
		if v.IsMissing() {
			c.missing++
		}
	}
	return c
}

func (c *Column) Name() string      { return c.name }
func (c *Column) Kind() Kind        { return c.kind }
func (c *Column) Len() int          { return len(c.cells) }
func (c *Column) Cell(i int) Cell   { return c.cells[i] }
func (c *Column) MissingCount() int { return c.missing }
func (c *Column) HasMissing() bool  { return c.missing > 0 }
func (c *Column) IsNumeric() bool   { return c.kind == KindNumeric }

// Cells returns a copy of the column's cells.
func (c *Column) Cells() []Cell {
	cp := make([]Cell, len(c.cells))
	copy(cp, c.cells)
	return cp
}

// Floats returns the numeric values of present cells in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.cells)-c.missing)
	for _, v := range c.cells {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Map returns a new column whose cells are fn applied to each cell.
// The kind is carried over unchanged; use WithKind to change it.
func (c *Column) Map(fn func(row int, v Cell) Cell) *Column {
	cells := make([]Cell, len(c.cells))
	for i, v := range c.cells {
		cells[i] = fn(i, v)
	}
	return newOwnedColumn(c.name, c.kind, cells)
}

// WithKind returns a column sharing c's cells under a different kind.
func (c *Column) WithKind(k Kind) *Column {
	if k == c.kind {
		return c
	}
	cp := *c
	cp.kind = k
	return &cp
}

func (c *Column) take(rows []int) *Column {
	cells := make([]Cell, len(rows))
	for i, r := range rows {
		cells[i] = c.cells[r]
	}
	return newOwnedColumn(c.name, c.kind, cells)
}

// Equal reports whether two columns have the same name, kind and cells.
func (c *Column) Equal(o *Column) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil || c.name != o.name || c.kind != o.kind || len(c.cells) != len(o.cells) {
		return false
	}
	for i := range c.cells {
		if c.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
