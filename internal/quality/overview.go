package quality

import (
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// ColumnInfo describes one column for the explore view.
type ColumnInfo struct {
	Name    string     `json:"name"`
	Kind    table.Kind `json:"kind"`
	Missing int        `json:"missing"`
}

// Overview is the shape-and-health summary shown before cleaning.
type Overview struct {
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	MissingCells  int          `json:"missing_cells"`
	DuplicateRows int          `json:"duplicate_rows"`
	Columns       []ColumnInfo `json:"columns"`
}

func Summarize(t *table.Table) Overview {
	ov := Overview{
		Rows:         t.NumRows(),
		Cols:         t.NumCols(),
		MissingCells: t.MissingCount(),
		Columns:      make([]ColumnInfo, 0, t.NumCols()),
	}
	for _, c := range t.Columns() {
		ov.Columns = append(ov.Columns, ColumnInfo{Name: c.Name(), Kind: c.Kind(), Missing: c.MissingCount()})
	}
	if t.NumCols() > 0 {
		if dup, err := ScanDuplicates(t, selector.All()); err == nil {
			ov.DuplicateRows = dup.Count
		}
	}
	return ov
}
