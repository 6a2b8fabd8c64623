package table

import (
	"fmt"
	"strings"
)

// Kind is the declared type of a column.
type Kind int

const (
	// KindOther covers datetimes, mixed columns and anything that is neither
	// purely numeric nor plain text.
	KindOther Kind = iota
	KindNumeric
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// ParseKind accepts the String form plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "float", "int":
		return KindNumeric, nil
	case "text", "categorical", "string", "object":
		return KindText, nil
	case "other", "datetime", "mixed":
		return KindOther, nil
	}
	return KindOther, fmt.Errorf("unknown column kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// InferKind derives a column kind from its cells. Columns with only numbers
// are numeric; columns with only text keep a non-numeric fallback or become
// text; mixed columns are other. A column without any present cell keeps
// the fallback.
func InferKind(cells []Cell, fallback Kind) Kind {
	var nums, texts int
	for _, c := range cells {
		switch c.kind {
		case cellNumber:
			nums++
		case cellText:
			texts++
		}
	}
	switch {
	case nums == 0 && texts == 0:
		return fallback
	case texts == 0:
		return KindNumeric
	case nums == 0:
		if fallback == KindNumeric {
			return KindText
		}
		return fallback
	default:
		return KindOther
	}
}
