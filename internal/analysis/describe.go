package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// Options tunes Describe.
type Options struct {
	// SampleRows is the number of leading rows copied into the report.
	SampleRows int
	// TopValues caps the category counts listed per non-numeric column.
	TopValues int
	// Correlations adds a Pearson matrix over the numeric columns.
	Correlations bool
	// Outliers counts values whose MAD z-score exceeds OutlierThreshold.
	Outliers         bool
	OutlierThreshold float64
}

func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		TopValues:        8,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report describes a table column by column.
type Report struct {
	Name     string          `json:"name"`
	Rows     int             `json:"rows"`
	Cols     []ColumnSummary `json:"columns"`
	Samples  [][]string      `json:"samples,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
	Corr     *CorrMatrix     `json:"correlations,omitempty"`
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name             string          `json:"name"`
	Kind             table.Kind      `json:"kind"`
	NonNull          int             `json:"non_null"`
	Missing          int             `json:"missing"`
	Unique           int             `json:"unique"`
	Numeric          *NumStats       `json:"numeric,omitempty"`
	OutliersCount    int             `json:"outliers_count,omitempty"`
	OutliersMaxAbsZ  float64         `json:"outliers_max_abs_z,omitempty"`
	OutlierThreshold float64         `json:"outlier_threshold,omitempty"`
	TopValues        []CategoryCount `json:"top_values,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CorrMatrix is a symmetric Pearson matrix over the numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// Describe summarizes every column of t.
func Describe(name string, t *table.Table, opt Options) *Report {
	rep := &Report{Name: name, Rows: t.NumRows()}
	n := opt.SampleRows
	if n <= 0 {
		n = DefaultOptions().SampleRows
	}
	for i := 0; i < t.NumRows() && i < n; i++ {
		row := t.Row(i)
		out := make([]string, len(row))
		for j, c := range row {
			out[j] = c.String()
		}
		rep.Samples = append(rep.Samples, out)
	}

	var numeric []*table.Column
	for _, c := range t.Columns() {
		s := ColumnSummary{
			Name:    c.Name(),
			Kind:    c.Kind(),
			NonNull: c.Len() - c.MissingCount(),
			Missing: c.MissingCount(),
			Unique:  countUnique(c),
		}
		if c.IsNumeric() {
			vals := c.Floats()
			if ns, ok := DescribeValues(vals); ok {
				s.Numeric = &ns
				numeric = append(numeric, c)
			}
			if opt.Outliers && len(vals) >= 8 {
				s.OutliersCount, s.OutliersMaxAbsZ, s.OutlierThreshold = outliers(vals, opt.OutlierThreshold)
			}
		} else {
			s.TopValues = ValueCounts(c, opt.TopValues)
		}
		if s.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", safeName(c.Name())))
		}
		rep.Cols = append(rep.Cols, s)
	}

	if opt.Correlations && len(numeric) >= 2 {
		rep.Corr = correlations(numeric)
	}
	return rep
}

func countUnique(c *table.Column) int {
	seen := make(map[table.Cell]struct{})
	for i := 0; i < c.Len(); i++ {
		if v := c.Cell(i); !v.IsMissing() {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func outliers(vals []float64, thr float64) (int, float64, float64) {
	if thr <= 0 {
		thr = 3.5
	}
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0, thr
	}
	var count int
	var worst float64
	for _, v := range vals {
		z := math.Abs(0.6745 * (v - median) / mad)
		if z > thr {
			count++
		}
		worst = math.Max(worst, z)
	}
	return count, worst, thr
}

func correlations(cols []*table.Column) *CorrMatrix {
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i := range cols {
		m.Columns[i] = cols[i].Name()
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		m.Values[a][a] = 1
		for b := a + 1; b < n; b++ {
			r, _ := pairwiseCorr(cols[a], cols[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// Markdown renders the report as plain sections a terminal or a markdown
// viewer can show.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\nColumns: %d\n\n[COLUMNS]\n", r.Rows, len(r.Cols))
	for _, c := range r.Cols {
		writeColumn(&b, c)
	}
	if pairs := r.Corr.topPairs(10); len(pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f\n", p.a, p.b, p.r)
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[PREVIEW]\n")
		b.WriteString(MarkdownRows(r.columnNames(), r.Samples))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func writeColumn(b *strings.Builder, c ColumnSummary) {
	var pct float64
	if n := c.NonNull + c.Missing; n > 0 {
		pct = 100 * float64(c.Missing) / float64(n)
	}
	fmt.Fprintf(b, "- %s: %s (non-null %d, missing %.1f%%, unique %d)", safeName(c.Name), c.Kind, c.NonNull, pct, c.Unique)
	switch ns := c.Numeric; {
	case ns != nil:
		fmt.Fprintf(b, "; mean %.4g, std %.4g, min %.4g, 25%% %.4g, 50%% %.4g, 75%% %.4g, max %.4g",
			ns.Mean, ns.Std, ns.Min, ns.Q1, ns.Median, ns.Q3, ns.Max)
		if c.OutlierThreshold > 0 {
			fmt.Fprintf(b, "; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold)
			if c.OutliersMaxAbsZ > 0 {
				fmt.Fprintf(b, " (max |z| %.2f)", c.OutliersMaxAbsZ)
			}
		}
	case len(c.TopValues) > 0:
		top := make([]string, len(c.TopValues))
		for i, kv := range c.TopValues {
			top[i] = fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count)
		}
		b.WriteString("; top: " + strings.Join(top, ", "))
	}
	b.WriteByte('\n')
}

type corrPair struct {
	a, b string
	r    float64
}

// topPairs returns the n strongest off-diagonal pairs by |r|.
func (m *CorrMatrix) topPairs(n int) []corrPair {
	if m == nil || len(m.Columns) < 2 {
		return nil
	}
	var pairs []corrPair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, corrPair{m.Columns[i], m.Columns[j], m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].r) > math.Abs(pairs[j].r) })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func (r *Report) columnNames() []string {
	out := make([]string, len(r.Cols))
	for i, c := range r.Cols {
		out[i] = c.Name
	}
	return out
}

const maxCellWidth = 80

// MarkdownRows renders a header and rows as a markdown table.
func MarkdownRows(header []string, rows [][]string) string {
	var b strings.Builder
	line := func(cells []string) {
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	names := make([]string, len(header))
	rule := make([]string, len(header))
	for i, h := range header {
		names[i], rule[i] = safeName(h), "---"
	}
	line(names)
	line(rule)
	for _, row := range rows {
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(row) {
				cells[i] = clip(safeVal(row[i]))
			}
		}
		line(cells)
	}
	return b.String()
}

// PreviewMarkdown renders the first n rows of t.
func PreviewMarkdown(t *table.Table, n int) string {
	head := t.Head(n)
	rows := make([][]string, head.NumRows())
	for i := range rows {
		for _, c := range head.Row(i) {
			rows[i] = append(rows[i], c.String())
		}
	}
	return MarkdownRows(t.Names(), rows)
}

func clip(s string) string {
	if len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}

func safeName(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "(unnamed)"
}

func safeVal(s string) string { return strings.NewReplacer("\n", " ", "|", "/").Replace(s) }
