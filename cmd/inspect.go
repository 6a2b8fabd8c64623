package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightbox-cli/internal/analysis"
	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/table"
)

var (
	inspHead       int
	inspDupColumns []string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show shape, missing values and duplicate rows of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		sel := selector.All()
		if len(inspDupColumns) > 0 {
			sel = selector.Columns(inspDupColumns...)
		}
		out, err := inspectReport(t, sel, inspHead)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func inspectReport(t *table.Table, sel selector.Selection, head int) (string, error) {
	ov := quality.Summarize(t)
	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d, Columns: %d\n", ov.Rows, ov.Cols)
	for _, c := range ov.Columns {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Kind)
	}
	b.WriteString("\n")

	miss := quality.ScanMissing(t)
	if miss.Empty() {
		b.WriteString("✓ No missing values\n")
	} else {
		fmt.Fprintf(&b, "⚠ %d missing values\n", miss.Total)
		for _, e := range miss.Columns {
			fmt.Fprintf(&b, "  %s: %d\n", e.Column, e.Count)
		}
	}

	dup, err := quality.ScanDuplicates(t, sel)
	if err != nil {
		return "", err
	}
	if dup.Count == 0 {
		fmt.Fprintf(&b, "✓ No duplicate rows (compared on %s)\n", sel)
	} else {
		fmt.Fprintf(&b, "⚠ %d duplicate rows (compared on %s)\n", dup.Count, sel)
	}
	if head > 0 && t.NumRows() > 0 {
		b.WriteString("\n")
		b.WriteString(analysis.PreviewMarkdown(t, head))
	}
	return b.String(), nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspHead, "head", 5, "number of leading rows to preview (0 to hide)")
	inspectCmd.Flags().StringSliceVar(&inspDupColumns, "dup-columns", nil, "columns to compare when looking for duplicates (default all)")
}
