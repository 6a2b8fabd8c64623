package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/parser"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
)

var (
	trEncode []string
	trToText []string
	trOutput string
)

var transformCmd = &cobra.Command{
	Use:   "transform <file>",
	Short: "Label-encode text columns or turn numeric columns into text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(trEncode) == 0 && len(trToText) == 0 {
			return fmt.Errorf("specify --encode and/or --to-text")
		}
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		var actions []clean.Action
		if len(trEncode) > 0 {
			actions = append(actions, clean.EncodeLabels(columnsOrAll(trEncode)))
		}
		if len(trToText) > 0 {
			actions = append(actions, clean.ToText(columnsOrAll(trToText)))
		}
		for _, a := range actions {
			eff, err := s.Apply(a)
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s: %s\n", a, effectSummary(eff))
			names := make([]string, 0, len(eff.Categories))
			for n := range eff.Categories {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				var codes []string
				for i, c := range eff.Categories[n] {
					codes = append(codes, fmt.Sprintf("%d=%s", i, c))
				}
				fmt.Printf("  %s: %s\n", n, strings.Join(codes, ", "))
			}
		}
		if trOutput == "" {
			fmt.Println("⚠ No --output given; the transformed table was not written")
			return nil
		}
		if err := parser.ExportFile(trOutput, s.Current()); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote transformed data to %s\n", trOutput)
		return nil
	},
}

// columnsOrAll treats a lone "all" as every column.
func columnsOrAll(cols []string) selector.Selection {
	if len(cols) == 1 && strings.EqualFold(cols[0], "all") {
		return selector.All()
	}
	return selector.Columns(cols...)
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringSliceVar(&trEncode, "encode", nil, "text columns to label-encode ('all' for every text column)")
	transformCmd.Flags().StringSliceVar(&trToText, "to-text", nil, "numeric columns to convert to text ('all' for every numeric column)")
	transformCmd.Flags().StringVarP(&trOutput, "output", "o", "", "path to write the transformed table (.csv, .tsv or .xlsx)")
}
