package table

import (
	"math"
	"strconv"
)

type cellKind uint8

const (
	cellMissing cellKind = iota
	cellNumber
	cellText
)

// Cell is a single table value. The zero Cell is the missing sentinel.
// Cells are comparable with == and usable as map keys.
type Cell struct {
	kind cellKind
	num  float64
	text string
}

// Missing returns the missing sentinel.
func Missing() Cell { return Cell{} }

// Number returns a numeric cell. NaN maps to the missing sentinel and
// negative zero is stored as zero.
func Number(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	if f == 0 {
		f = 0
	}
	return Cell{kind: cellNumber, num: f}
}

// Text returns a text cell holding s verbatim.
func Text(s string) Cell { return Cell{kind: cellText, text: s} }

func (c Cell) IsMissing() bool { return c.kind == cellMissing }
func (c Cell) IsNumber() bool  { return c.kind == cellNumber }
func (c Cell) IsText() bool    { return c.kind == cellText }

// Float returns the numeric value and whether the cell holds a number.
func (c Cell) Float() (float64, bool) {
	if c.kind != cellNumber {
		return 0, false
	}
	return c.num, true
}

// String renders numbers in shortest round-trip form, text verbatim and
// missing cells as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case cellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case cellText:
		return c.text
	default:
		return ""
	}
}

// Key returns a string that is equal for two cells iff the cells are equal.
// Numbers and text never collide even when they print the same.
func (c Cell) Key() string {
	switch c.kind {
	case cellNumber:
		return "n:" + strconv.FormatFloat(c.num, 'g', -1, 64)
	case cellText:
		return "t:" + c.text
	default:
		return "~"
	}
}

// Interface returns the cell as a JSON-friendly value: float64, string or nil.
func (c Cell) Interface() any {
	switch c.kind {
	case cellNumber:
		return c.num
	case cellText:
		return c.text
	default:
		return nil
	}
}
