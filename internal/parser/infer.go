package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// build turns a header and raw string rows into typed columns. Short rows
// are padded with missing cells.
func build(header []string, rows [][]string, opt Options) (*table.Table, error) {
	names := normalizeHeader(header)
	na := opt.naSet()
	cols := make([]*table.Column, len(names))
	raw := make([]string, len(rows))
	for j, name := range names {
		for i, r := range rows {
			if j < len(r) {
				raw[i] = r[j]
			} else {
				raw[i] = ""
			}
		}
		cols[j] = inferColumn(name, raw, na, opt)
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("assemble table: %w", err)
	}
	return t, nil
}

// normalizeHeader names blank headers "Unnamed: <i>" and suffixes repeats
// with ".1", ".2" and so on.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for k := 1; seen[name]; k++ {
				name = fmt.Sprintf("%s.%d", base, k)
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// inferColumn reads a column as numeric when every present value parses as
// a number, as other when every present value is a date, and as text
// otherwise. A column with rows but no present value is numeric.
func inferColumn(name string, raw []string, na map[string]struct{}, opt Options) *table.Column {
	cells := make([]table.Cell, len(raw))
	present := make([]bool, len(raw))
	var nPresent, nNum, nTime int
	nums := make([]float64, len(raw))
	for i, s := range raw {
		v := strings.TrimSpace(s)
		if isNA(v, na) {
			continue
		}
		present[i] = true
		nPresent++
		if f, ok := parseNumeric(v, opt); ok {
			nums[i] = f
			nNum++
			continue
		}
		if _, ok := parseTimeMaybe(v); ok {
			nTime++
		}
	}

	kind := table.KindText
	switch {
	case nPresent == 0 && len(raw) > 0:
		kind = table.KindNumeric
	case nPresent > 0 && nNum == nPresent:
		kind = table.KindNumeric
	case nPresent > 0 && nTime == nPresent:
		kind = table.KindOther
	}
	for i, s := range raw {
		if !present[i] {
			continue
		}
		if kind == table.KindNumeric {
			cells[i] = table.Number(nums[i])
		} else {
			cells[i] = table.Text(strings.TrimSpace(s))
		}
	}
	return table.NewColumn(name, kind, cells)
}

func isNA(v string, na map[string]struct{}) bool {
	if v == "" {
		return true
	}
	_, ok := na[v]
	return ok
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumeric accepts plain, percent and locale formatted numbers such as
// "1.234,5" or "12%". Non-finite results are rejected.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
