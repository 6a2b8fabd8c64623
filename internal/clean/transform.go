package clean

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// encodeLabels replaces text values by their index among the column's
// sorted distinct values. Missing cells stay missing.
func encodeLabels(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	cols, err := resolve(t, a, selector.Options{Kind: selector.TextOnly})
	if err != nil {
		return nil, err
	}
	eff.Categories = map[string][]string{}
	out := make([]*table.Column, 0, len(cols))
	for _, c := range cols {
		codes := map[string]int{}
		for i := 0; i < c.Len(); i++ {
			if v := c.Cell(i); !v.IsMissing() {
				codes[v.String()] = 0
			}
		}
		cats := make([]string, 0, len(codes))
		for k := range codes {
			cats = append(cats, k)
		}
		sort.Strings(cats)
		for i, k := range cats {
			codes[k] = i
		}
		encoded := c.Map(func(_ int, v table.Cell) table.Cell {
			if v.IsMissing() {
				return v
			}
			return table.Number(float64(codes[v.String()]))
		})
		out = append(out, encoded.WithKind(table.KindNumeric))
		eff.Columns = append(eff.Columns, c.Name())
		eff.Categories[c.Name()] = cats
	}
	return t.Replace(out...)
}

// toText renders numeric columns as text. Missing cells stay missing.
func toText(t *table.Table, a Action, eff *Effect) (*table.Table, error) {
	cols, err := resolve(t, a, selector.Options{Kind: selector.NumericOnly})
	if err != nil {
		return nil, err
	}
	out := make([]*table.Column, 0, len(cols))
	for _, c := range cols {
		converted := c.Map(func(_ int, v table.Cell) table.Cell {
			f, ok := v.Float()
			if !ok {
				return v
			}
			return table.Text(cast.ToString(f))
		})
		out = append(out, converted.WithKind(table.KindText))
		eff.Columns = append(eff.Columns, c.Name())
	}
	return t.Replace(out...)
}
