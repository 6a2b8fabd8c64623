package clean

import (
	"github.com/KaramelBytes/insightbox-cli/internal/analysis"
	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// Apply runs a against t and returns the resulting table with a summary of
// the change. t is never modified. On error the returned table is nil and
// the caller keeps using t.
func Apply(t *table.Table, a Action) (*table.Table, Effect, error) {
	if err := a.Validate(); err != nil {
		return nil, Effect{}, err
	}
	eff := Effect{Action: a.Kind, Strategy: a.Strategy, Columns: []string{}, RowsBefore: t.NumRows()}
	var (
		next *table.Table
		err  error
	)
	switch a.Kind {
	case KindDropRows:
		next, err = dropRows(t, a, &eff)
	case KindFillNumeric:
		next, err = fillNumeric(t, a, &eff)
	case KindFillCategorical:
		next, err = fillCategorical(t, a, &eff)
	case KindFillManual:
		next, err = fillManual(t, a, &eff)
	case KindDropDuplicates:
		next, err = dropDuplicates(t, a, &eff)
	case KindEncodeLabels:
		next, err = encodeLabels(t, a, &eff)
	case KindToText:
		next, err = toText(t, a, &eff)
	default:
		err = invalid(a.Kind, "unknown action kind")
	}
	if err != nil {
		return nil, Effect{}, err
	}
	eff.RowsAfter = next.NumRows()
	eff.RowsRemoved = eff.RowsBefore - eff.RowsAfter
	return next, eff, nil
}

func resolve(t *table.Table, a Action, opt selector.Options) ([]*table.Column, error) {
	names, err := selector.Resolve(a.Selection, t, opt)
	if err != nil {
		return nil, &OperationError{Code: CodeNoTarget, Action: a.Kind, Err: err}
	}
	cols := make([]*table.Column, len(names))
	for i, n := range names {
		cols[i], _ = t.Column(n)
	}
	return cols, nil
}

func dropRows(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	cols, err := resolve(t, a, selector.Options{})
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		eff.Columns = append(eff.Columns, c.Name())
	}
	next, _ := t.Filter(func(row int) bool {
		for _, c := range cols {
			if c.Cell(row).IsMissing() {
				return false
			}
		}
		return true
	})
	return next, nil
}

func dropDuplicates(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	rep, err := quality.ScanDuplicates(t, a.Selection)
	if err != nil {
		return nil, &OperationError{Code: CodeNoTarget, Action: a.Kind, Err: err}
	}
	eff.Columns = append(eff.Columns, rep.Columns...)
	dup := rep.Set()
	next, _ := t.Filter(func(row int) bool { return !dup[row] })
	return next, nil
}

// fillMissing writes v into every missing cell of c and records the fill.
func fillMissing(c *table.Column, v table.Cell, eff *Effect) *table.Column {
	filled := c.Map(func(_ int, cell table.Cell) table.Cell {
		if cell.IsMissing() {
			return v
		}
		return cell
	})
	eff.Columns = append(eff.Columns, c.Name())
	eff.Fills = append(eff.Fills, ColumnFill{Column: c.Name(), Value: v.String(), Cells: c.MissingCount()})
	eff.CellsFilled += c.MissingCount()
	return filled
}

func fillNumeric(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	cols, err := resolve(t, a, selector.Options{Kind: selector.NumericOnly, MissingOnly: true})
	if err != nil {
		return nil, err
	}
	var out []*table.Column
	for _, c := range cols {
		// Statistics come from the column's own present cells only.
		var (
			v  float64
			ok = true
		)
		switch a.Strategy {
		case StrategyMean:
			v, ok = analysis.Mean(c.Floats())
		case StrategyMedian:
			v, ok = analysis.Median(c.Floats())
		case StrategyZero:
			v = 0
		}
		if !ok {
			eff.Skipped = append(eff.Skipped, Skipped{Column: c.Name(), Reason: ReasonNoValues})
			continue
		}
		out = append(out, fillMissing(c, table.Number(v), eff))
	}
	return t.Replace(out...)
}

func fillCategorical(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	cols, err := resolve(t, a, selector.Options{Kind: selector.NonNumericOnly, MissingOnly: true})
	if err != nil {
		return nil, err
	}
	var out []*table.Column
	for _, c := range cols {
		mode, ok := analysis.Mode(c)
		if !ok {
			eff.Skipped = append(eff.Skipped, Skipped{Column: c.Name(), Reason: ReasonNoValues})
			continue
		}
		out = append(out, fillMissing(c, mode, eff))
	}
	return t.Replace(out...)
}

func fillManual(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	cols, err := resolve(t, a, selector.Options{})
	if err != nil {
		return nil, err
	}
	v := table.Text(a.Value)
	var out []*table.Column
	for _, c := range cols {
		if !c.HasMissing() {
			eff.Skipped = append(eff.Skipped, Skipped{Column: c.Name(), Reason: ReasonComplete})
			continue
		}
		filled := fillMissing(c, v, eff)
		// The literal is written as text; a numeric column that receives it
		// is no longer purely numeric.
		out = append(out, filled.WithKind(table.InferKind(filled.Cells(), c.Kind())))
	}
	return t.Replace(out...)
}
