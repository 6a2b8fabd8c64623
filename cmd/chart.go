package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightbox-cli/internal/analysis"
)

var (
	chBins  int
	chTop   int
	chWidth int
)

var chartCmd = &cobra.Command{
	Use:   "chart <file> <column>",
	Short: "Plot a histogram (numeric) or value counts (other) as text bars",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		col, ok := t.Column(args[1])
		if !ok {
			return fmt.Errorf("column %q not found (columns: %v)", args[1], t.Names())
		}
		bins := chBins
		if !cmd.Flags().Changed("bins") && cfg != nil && cfg.HistogramBins > 0 {
			bins = cfg.HistogramBins
		}
		ch, err := analysis.ChartFor(col, bins, chTop)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", col.Name(), col.Kind())
		fmt.Print(ch.Text(chWidth))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().IntVar(&chBins, "bins", analysis.DefaultBins, "histogram bins for numeric columns")
	chartCmd.Flags().IntVar(&chTop, "top", 20, "values shown for non-numeric columns (0 = all)")
	chartCmd.Flags().IntVar(&chWidth, "width", 40, "maximum bar width in characters")
}
