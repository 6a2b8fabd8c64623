package parser

// DefaultNAValues are the tokens read as missing when none are configured.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A", "<NA>"}

// Options tunes ingestion.
type Options struct {
	// Delimiter for delimited text; 0 picks by extension (tab for .tsv).
	Delimiter rune
	// NAValues are cell tokens read as missing. Blank cells are always missing.
	NAValues []string
	// SheetName selects a workbook sheet; SheetIndex (1-based) is used otherwise.
	SheetName  string
	SheetIndex int
	// DecimalSeparator and ThousandsSeparator override number detection.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultOptions returns options with the default NA tokens and the first sheet.
func DefaultOptions() Options {
	return Options{NAValues: DefaultNAValues, SheetIndex: 1}
}

func (o Options) withDefaults() Options {
	if o.NAValues == nil {
		o.NAValues = DefaultNAValues
	}
	if o.SheetIndex <= 0 {
		o.SheetIndex = 1
	}
	return o
}

func (o Options) naSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.NAValues))
	for _, v := range o.NAValues {
		set[v] = struct{}{}
	}
	return set
}
