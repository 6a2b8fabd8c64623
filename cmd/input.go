package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightbox-cli/internal/parser"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

// Ingestion flags shared by every command that reads a file.
var (
	inDelimiter  string
	inSheetName  string
	inSheetIndex int
	inDecimal    string
	inThousands  string
	inNAValues   []string
)

func addInputFlags(c *cobra.Command) {
	f := c.PersistentFlags()
	f.StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (auto-detect if omitted)")
	f.StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to read")
	f.IntVar(&inSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	f.StringVar(&inDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	f.StringVar(&inThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	f.StringSliceVar(&inNAValues, "na", nil, "tokens read as missing (replaces the configured list)")
}

// parseOptions merges configuration with the ingestion flags.
func parseOptions() (parser.Options, error) {
	opt := parser.DefaultOptions()
	if cfg != nil {
		if cfg.NAValues != nil {
			opt.NAValues = cfg.NAValues
		}
		opt.Delimiter = cfg.DelimiterRune()
		opt.SheetName = cfg.SheetName
		if cfg.SheetIndex > 0 {
			opt.SheetIndex = cfg.SheetIndex
		}
	}
	if len(inNAValues) > 0 {
		opt.NAValues = inNAValues
	}
	switch inDelimiter {
	case "":
	case ",", ";", "|":
		opt.Delimiter = rune(inDelimiter[0])
	case "\t", "tab", `\t`:
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", inDelimiter)
	}
	if inSheetName != "" {
		opt.SheetName = inSheetName
	}
	if inSheetIndex > 0 {
		opt.SheetIndex = inSheetIndex
	}
	switch strings.ToLower(strings.TrimSpace(inDecimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", inDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(inThousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", inThousands)
	}
	return opt, nil
}

func loadTable(path string) (*table.Table, error) {
	opt, err := parseOptions()
	if err != nil {
		return nil, err
	}
	return parser.LoadFile(path, opt)
}

// openSession loads path into a fresh session.
func openSession(path string) (*session.Session, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	s := session.New(session.WithLogger(logger))
	if err := s.Load(t, path); err != nil {
		return nil, err
	}
	return s, nil
}

// expandInputs resolves globs and literal paths, deduplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// writeOutput writes text to path, or prints it when path is empty.
func writeOutput(path, text string) error {
	if path == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}
