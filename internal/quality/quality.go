// Package quality scans a table for missing cells and duplicate rows.
package quality

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// MissingEntry is the missing-cell count of one column.
type MissingEntry struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// MissingReport lists columns with at least one missing cell, in table order.
type MissingReport struct {
	Columns []MissingEntry `json:"columns"`
	Total   int            `json:"total"`
}

func (r MissingReport) Empty() bool { return len(r.Columns) == 0 }

// Count returns the missing count for col, 0 when absent from the report.
func (r MissingReport) Count(col string) int {
	for _, e := range r.Columns {
		if e.Column == col {
			return e.Count
		}
	}
	return 0
}

// ScanMissing counts missing cells per column.
func ScanMissing(t *table.Table) MissingReport {
	rep := MissingReport{Columns: []MissingEntry{}}
	for _, c := range t.Columns() {
		if n := c.MissingCount(); n > 0 {
			rep.Columns = append(rep.Columns, MissingEntry{Column: c.Name(), Count: n})
			rep.Total += n
		}
	}
	return rep
}

// DuplicateReport holds the rows that repeat an earlier row over Columns.
// The first occurrence of each value tuple is never listed.
type DuplicateReport struct {
	All     bool     `json:"all"`
	Columns []string `json:"columns"`
	Rows    []int    `json:"rows"`
	Count   int      `json:"count"`
}

// Set returns the duplicate row indices as a lookup set.
func (r DuplicateReport) Set() map[int]bool {
	out := make(map[int]bool, len(r.Rows))
	for _, i := range r.Rows {
		out[i] = true
	}
	return out
}

// ScanDuplicates finds duplicate rows. With an all-columns selection every
// cell must match; otherwise only the selected columns are compared.
// Missing cells compare equal to each other.
func ScanDuplicates(t *table.Table, sel selector.Selection) (DuplicateReport, error) {
	cols, err := selector.Resolve(sel, t, selector.Options{})
	if err != nil {
		return DuplicateReport{}, err
	}
	keyCols := make([]*table.Column, len(cols))
	for i, name := range cols {
		keyCols[i], _ = t.Column(name)
	}
	rep := DuplicateReport{All: sel.All, Columns: cols, Rows: []int{}}
	seen := make(map[string]struct{}, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		k := rowKey(keyCols, row)
		if _, dup := seen[k]; dup {
			rep.Rows = append(rep.Rows, row)
			continue
		}
		seen[k] = struct{}{}
	}
	rep.Count = len(rep.Rows)
	return rep, nil
}

// rowKey length-prefixes each cell key so that no two distinct tuples
// produce the same string.
func rowKey(cols []*table.Column, row int) string {
	var b strings.Builder
	for _, c := range cols {
		k := c.Cell(row).Key()
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}
