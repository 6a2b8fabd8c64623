// Package selector turns a user's "all columns" or "these columns" choice
// into a concrete, validated list of column names for a given table.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// ErrEmptySelection is matched by every *SelectionError.
var ErrEmptySelection = errors.New("empty column selection")

// Selection is either all columns or an explicit list of names.
type Selection struct {
	All     bool     `json:"all,omitempty" yaml:"all,omitempty"`
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

func All() Selection { return Selection{All: true} }

func Columns(names ...string) Selection {
	return Selection{Columns: append([]string(nil), names...)}
}

func (s Selection) String() string {
	if s.All {
		return "all columns"
	}
	if len(s.Columns) == 0 {
		return "(none)"
	}
	return strings.Join(s.Columns, ", ")
}

// KindFilter narrows a selection to columns of a given kind.
type KindFilter int

const (
	AnyKind KindFilter = iota
	NumericOnly
	NonNumericOnly
	TextOnly
)

func (f KindFilter) String() string {
	switch f {
	case NumericOnly:
		return "numeric"
	case NonNumericOnly:
		return "non-numeric"
	case TextOnly:
		return "text"
	default:
		return "any"
	}
}

func (f KindFilter) matches(k table.Kind) bool {
	switch f {
	case NumericOnly:
		return k == table.KindNumeric
	case NonNumericOnly:
		return k != table.KindNumeric
	case TextOnly:
		return k == table.KindText
	default:
		return true
	}
}

// Options controls how a selection is narrowed.
type Options struct {
	Kind KindFilter
	// MissingOnly keeps only columns that currently contain a missing cell.
	MissingOnly bool
}

// SelectionError reports a selection that resolved to no columns. It is a
// user-correctable condition, not a failure of the table.
type SelectionError struct {
	Reason  string
	Unknown []string
}

func (e *SelectionError) Error() string {
	if len(e.Unknown) > 0 {
		return fmt.Sprintf("%s: %s (unknown columns: %s)", ErrEmptySelection, e.Reason, strings.Join(e.Unknown, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrEmptySelection, e.Reason)
}

func (e *SelectionError) Is(target error) bool { return target == ErrEmptySelection }

// Resolve validates sel against t and returns the matching column names in
// table order. An explicit name the table does not have fails the whole
// selection; so does a selection that narrows to nothing. Either way the
// *SelectionError explains why.
func Resolve(sel Selection, t *table.Table, opt Options) ([]string, error) {
	if !sel.All && len(sel.Columns) == 0 {
		return nil, &SelectionError{Reason: "select all columns or at least one column"}
	}

	wanted := map[string]bool{}
	var unknown []string
	if !sel.All {
		for _, name := range sel.Columns {
			if _, dup := wanted[name]; dup {
				continue
			}
			wanted[name] = t.Has(name)
			if !wanted[name] {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			return nil, &SelectionError{Reason: unknownReason(len(wanted) - len(unknown)), Unknown: unknown}
		}
	}

	var out []string
	for _, c := range t.Columns() {
		if !sel.All && !wanted[c.Name()] {
			continue
		}
		if !opt.Kind.matches(c.Kind()) {
			continue
		}
		if opt.MissingOnly && !c.HasMissing() {
			continue
		}
		out = append(out, c.Name())
	}
	if len(out) > 0 {
		return out, nil
	}
	return nil, &SelectionError{Reason: emptyReason(sel, opt)}
}

func unknownReason(known int) string {
	if known == 0 {
		return "none of the selected columns exist"
	}
	return "some of the selected columns do not exist"
}

func emptyReason(sel Selection, opt Options) string {
	target := "columns"
	if opt.Kind != AnyKind {
		target = opt.Kind.String() + " columns"
	}
	if opt.MissingOnly {
		target += " with missing values"
	}
	switch {
	case sel.All:
		return "the table has no " + target
	default:
		return "the selection contains no " + target
	}
}
