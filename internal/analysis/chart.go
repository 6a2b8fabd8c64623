package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// ErrNoValues is returned when a column has nothing to plot.
var ErrNoValues = errors.New("column has no values")

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 20

// Bin is one equal-width histogram bucket. Lo is inclusive; Hi is exclusive
// except for the last bin.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets the numeric values of c into bins equal-width bins.
func Histogram(c *table.Column, bins int) ([]Bin, error) {
	if !c.IsNumeric() {
		return nil, fmt.Errorf("histogram needs a numeric column, %s is %s", c.Name(), c.Kind())
	}
	vals := c.Floats()
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValues, c.Name())
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}, nil
	}
	// Work on halves so hi-lo cannot overflow for values near ±MaxFloat64.
	half := hi/2 - lo/2
	edge := func(i int) float64 { return 2 * (lo/2 + half*float64(i)/float64(bins)) }
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo, out[i].Hi = edge(i), edge(i+1)
	}
	out[bins-1].Hi = hi
	for _, v := range vals {
		out[binIndex((v/2-lo/2)/half, bins)].Count++
	}
	return out, nil
}

// binIndex maps a position in [0,1] to a bin, clamping stray values.
func binIndex(pos float64, bins int) int {
	switch {
	case !(pos > 0):
		return 0
	case pos >= 1:
		return bins - 1
	}
	return min(int(pos*float64(bins)), bins-1)
}

// ValueCounts returns present values by descending frequency, ties by value.
// limit <= 0 returns every value.
func ValueCounts(c *table.Column, limit int) []CategoryCount {
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if v := c.Cell(i); !v.IsMissing() {
			counts[v.String()]++
		}
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if limit > 0 && len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

// Chart is the plottable data behind a single-column chart: a histogram for
// numeric columns, value counts otherwise.
type Chart struct {
	Column string          `json:"column"`
	Kind   table.Kind      `json:"kind"`
	Bins   []Bin           `json:"bins,omitempty"`
	Counts []CategoryCount `json:"counts,omitempty"`
}

func ChartFor(c *table.Column, bins, limit int) (*Chart, error) {
	ch := &Chart{Column: c.Name(), Kind: c.Kind()}
	if c.IsNumeric() {
		hist, err := Histogram(c, bins)
		if err != nil {
			return nil, err
		}
		ch.Bins = hist
		return ch, nil
	}
	ch.Counts = ValueCounts(c, limit)
	if len(ch.Counts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValues, c.Name())
	}
	return ch, nil
}

// Text renders the chart as horizontal bars no wider than width.
func (ch *Chart) Text(width int) string {
	if width <= 0 {
		width = 40
	}
	type bar struct {
		label string
		n     int
	}
	var bars []bar
	for _, b := range ch.Bins {
		bars = append(bars, bar{fmt.Sprintf("[%.4g, %.4g)", b.Lo, b.Hi), b.Count})
	}
	for _, c := range ch.Counts {
		bars = append(bars, bar{safeVal(c.Value), c.Count})
	}
	maxN, maxLabel := 0, 0
	for _, b := range bars {
		maxN = max(maxN, b.n)
		maxLabel = max(maxLabel, len(b.label))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)\n", ch.Column, ch.Kind))
	for _, b := range bars {
		n := 0
		if maxN > 0 {
			n = b.n * width / maxN
		}
		sb.WriteString(fmt.Sprintf("%-*s │%s %d\n", maxLabel, b.label, strings.Repeat("█", n), b.n))
	}
	return sb.String()
}
