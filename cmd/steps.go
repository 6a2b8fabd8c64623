package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
)

const stepSyntax = "kind[@col1,col2][=arg] e.g. fill_numeric@age=median, fill_manual@email=n/a or drop_duplicates"

// parseStep reads one --do value. Columns written between the kind and '='
// leave the argument verbatim, so a value may contain '@'. The older
// trailing form kind=arg@cols is still read by splitting at the last '@'.
// No columns, or '*', selects all columns.
func parseStep(raw string) (clean.Action, error) {
	raw = strings.TrimSpace(raw)
	head, arg, hasArg := strings.Cut(raw, "=")
	kind, cols, hasCols := strings.Cut(head, "@")
	if !hasCols && hasArg {
		if i := strings.LastIndex(arg, "@"); i >= 0 {
			arg, cols, hasCols = arg[:i], arg[i+1:], true
		}
	}
	sel := selector.All()
	if hasCols {
		names := splitList(cols)
		if len(names) == 0 {
			return clean.Action{}, fmt.Errorf("step %q: no columns after '@'", raw)
		}
		if len(names) > 1 || names[0] != "*" {
			sel = selector.Columns(names...)
		}
	}
	kind = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(kind)), "-", "_")

	var a clean.Action
	switch clean.Kind(kind) {
	case clean.KindDropRows:
		a = clean.DropRows(sel)
	case clean.KindFillNumeric:
		if !hasArg {
			return a, fmt.Errorf("step %q: fill_numeric needs a strategy (mean, median or zero)", raw)
		}
		st, err := clean.ParseStrategy(arg)
		if err != nil {
			return a, err
		}
		a = clean.FillNumeric(sel, st)
	case clean.KindFillCategorical:
		a = clean.FillCategorical(sel)
	case clean.KindFillManual:
		a = clean.FillManual(sel, arg)
	case clean.KindDropDuplicates:
		a = clean.DropDuplicates(sel)
	case clean.KindEncodeLabels:
		a = clean.EncodeLabels(sel)
	case clean.KindToText:
		a = clean.ToText(sel)
	default:
		return a, fmt.Errorf("unknown step %q (use %s)", kind, stepSyntax)
	}
	if hasArg && a.Kind != clean.KindFillNumeric && a.Kind != clean.KindFillManual {
		return a, fmt.Errorf("step %q takes no argument", kind)
	}
	return a, a.Validate()
}

func parseSteps(specs []string) ([]clean.Action, error) {
	out := make([]clean.Action, 0, len(specs))
	for _, s := range specs {
		a, err := parseStep(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
