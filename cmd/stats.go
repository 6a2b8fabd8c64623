package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/insightbox-cli/internal/analysis"
)

var (
	stOutputPath string
	stSampleRows int
	stTopValues  int
	stCorr       bool
	stOutliers   bool
	stOutlierThr float64
	stQuiet      bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <files...>",
	Short: "Describe one or more CSV/TSV/XLSX files as a Markdown report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt := analysisOptions(cmd)

		var out []string
		for i, f := range files {
			if !stQuiet && len(files) > 1 {
				fmt.Printf("[%d/%d] %s\n", i+1, len(files), f)
			}
			t, err := loadTable(f)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			rep := analysis.Describe(filepath.Base(f), t, opt)
			logger.Debug("described file",
				zap.String("file", f), zap.Int("rows", t.NumRows()), zap.Int("cols", t.NumCols()))
			out = append(out, rep.Markdown())
		}
		return writeOutput(stOutputPath, strings.Join(out, "\n"))
	},
}

func analysisOptions(cmd *cobra.Command) analysis.Options {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		if cfg.SampleRows > 0 {
			opt.SampleRows = cfg.SampleRows
		}
		if cfg.TopValues > 0 {
			opt.TopValues = cfg.TopValues
		}
		if cfg.OutlierThreshold > 0 {
			opt.OutlierThreshold = cfg.OutlierThreshold
		}
	}
	f := cmd.Flags()
	if f.Changed("sample-rows") {
		opt.SampleRows = stSampleRows
	}
	if f.Changed("top") && stTopValues > 0 {
		opt.TopValues = stTopValues
	}
	if f.Changed("outliers") {
		opt.Outliers = stOutliers
	}
	if f.Changed("outlier-threshold") && stOutlierThr > 0 {
		opt.OutlierThreshold = stOutlierThr
	}
	opt.Correlations = stCorr
	return opt
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&stOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	statsCmd.Flags().IntVar(&stSampleRows, "sample-rows", 5, "number of sample rows to include")
	statsCmd.Flags().IntVar(&stTopValues, "top", 8, "top values listed per non-numeric column")
	statsCmd.Flags().BoolVar(&stCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	statsCmd.Flags().BoolVar(&stOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	statsCmd.Flags().Float64Var(&stOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	statsCmd.Flags().BoolVarP(&stQuiet, "quiet", "q", false, "suppress progress lines")
}
