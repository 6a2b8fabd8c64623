// Package clean applies cleaning and transform actions to tables. Every
// operation is pure: it returns a new table and never modifies its input.
package clean

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/selector"
)

// Kind names an action.
type Kind string

const (
	KindDropRows        Kind = "drop_rows"
	KindFillNumeric     Kind = "fill_numeric"
	KindFillCategorical Kind = "fill_categorical"
	KindFillManual      Kind = "fill_manual"
	KindDropDuplicates  Kind = "drop_duplicates"
	KindEncodeLabels    Kind = "encode_labels"
	KindToText          Kind = "to_text"
)

// Kinds lists every supported action kind.
func Kinds() []Kind {
	return []Kind{
		KindDropRows, KindFillNumeric, KindFillCategorical, KindFillManual,
		KindDropDuplicates, KindEncodeLabels, KindToText,
	}
}

// Strategy is the statistic used by FillNumeric.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyZero   Strategy = "zero"
)

// ParseStrategy accepts mean, median or zero in any case.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyMedian, StrategyZero:
		return st, nil
	}
	return "", invalid(KindFillNumeric, "unknown strategy %q (use mean, median or zero)", s)
}

// Action is one step of a cleaning pipeline.
type Action struct {
	Kind      Kind               `json:"kind" yaml:"kind"`
	Selection selector.Selection `json:"selection" yaml:"selection"`
	Strategy  Strategy           `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Value     string             `json:"value,omitempty" yaml:"value,omitempty"`
}

func DropRows(sel selector.Selection) Action {
	return Action{Kind: KindDropRows, Selection: sel}
}

func FillNumeric(sel selector.Selection, st Strategy) Action {
	return Action{Kind: KindFillNumeric, Selection: sel, Strategy: st}
}

func FillCategorical(sel selector.Selection) Action {
	return Action{Kind: KindFillCategorical, Selection: sel}
}

func FillManual(sel selector.Selection, value string) Action {
	return Action{Kind: KindFillManual, Selection: sel, Value: value}
}

func DropDuplicates(sel selector.Selection) Action {
	return Action{Kind: KindDropDuplicates, Selection: sel}
}

func EncodeLabels(sel selector.Selection) Action {
	return Action{Kind: KindEncodeLabels, Selection: sel}
}

func ToText(sel selector.Selection) Action {
	return Action{Kind: KindToText, Selection: sel}
}

// Validate checks the action without looking at any table.
func (a Action) Validate() error {
	switch a.Kind {
	case KindDropRows, KindFillCategorical, KindDropDuplicates, KindEncodeLabels, KindToText:
		return nil
	case KindFillNumeric:
		switch a.Strategy {
		case StrategyMean, StrategyMedian, StrategyZero:
			return nil
		}
		return invalid(a.Kind, "unknown strategy %q (use mean, median or zero)", a.Strategy)
	case KindFillManual:
		if a.Value == "" {
			return &OperationError{Code: CodeEmptyValue, Action: a.Kind, Reason: "enter a value to fill with"}
		}
		return nil
	case "":
		return invalid(a.Kind, "missing action kind")
	default:
		return invalid(a.Kind, "unknown action kind")
	}
}

func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Kind))
	switch a.Kind {
	case KindFillNumeric:
		fmt.Fprintf(&b, "(%s)", a.Strategy)
	case KindFillManual:
		fmt.Fprintf(&b, "(%q)", a.Value)
	}
	b.WriteString(" on ")
	b.WriteString(a.Selection.String())
	return b.String()
}
