package clean

// Skip reasons reported in Effect.Skipped.
const (
	ReasonNoValues = "no value to fill from"
	ReasonComplete = "no missing values"
)

// Skipped is a targeted column the action left alone.
type Skipped struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// ColumnFill records the value written into one column.
type ColumnFill struct {
	Column string `json:"column"`
	Value  string `json:"value"`
	Cells  int    `json:"cells"`
}

// Effect is a structured summary of what an action changed.
type Effect struct {
	Action      Kind                `json:"action"`
	Strategy    Strategy            `json:"strategy,omitempty"`
	Columns     []string            `json:"columns"`
	Fills       []ColumnFill        `json:"fills,omitempty"`
	Categories  map[string][]string `json:"categories,omitempty"`
	RowsBefore  int                 `json:"rows_before"`
	RowsAfter   int                 `json:"rows_after"`
	RowsRemoved int                 `json:"rows_removed"`
	CellsFilled int                 `json:"cells_filled"`
	Skipped     []Skipped           `json:"skipped,omitempty"`
}

// Changed reports whether the action altered the table.
func (e Effect) Changed() bool {
	switch e.Action {
	case KindEncodeLabels, KindToText:
		return len(e.Columns) > 0
	}
	return e.RowsRemoved > 0 || e.CellsFilled > 0
}
