package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/parser"
	"github.com/KaramelBytes/insightbox-cli/internal/quality"
	"github.com/KaramelBytes/insightbox-cli/internal/recipe"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
)

var (
	clSteps      []string
	clRecipe     string
	clOutput     string
	clSaveRecipe string
	clDesc       string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Apply cleaning steps in order and export the result",
	Long: `Apply cleaning steps to a file one at a time. Steps come from repeated --do
flags (` + stepSyntax + `) or from a saved recipe. A failing step stops the run
and leaves the earlier steps applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(clSteps) == 0) == (clRecipe == "") {
			return fmt.Errorf("specify exactly one of --do or --recipe")
		}
		var r *recipe.Recipe
		if clRecipe != "" {
			loaded, err := recipe.Load(recipe.Path(recipesDir(), clRecipe))
			if err != nil {
				return err
			}
			r = loaded
		} else {
			steps, err := parseSteps(clSteps)
			if err != nil {
				return err
			}
			r = recipe.New("", "", steps)
		}

		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		before := s.Current().NumRows()
		if err := runRecipe(s, r); err != nil {
			return err
		}
		after := quality.Summarize(s.Current())
		fmt.Printf("Rows: %d → %d, missing cells left: %d\n", before, after.Rows, after.MissingCells)

		if clSaveRecipe != "" {
			saved := recipe.FromSession(clSaveRecipe, clDesc, s)
			path := recipe.Path(recipesDir(), clSaveRecipe)
			if err := saved.Save(path); err != nil {
				return err
			}
			fmt.Printf("✓ Saved recipe '%s' to %s\n", saved.Name, path)
		}
		if clOutput == "" {
			fmt.Println("⚠ No --output given; the cleaned table was not written")
			return nil
		}
		if err := parser.ExportFile(clOutput, s.Current()); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote cleaned data to %s\n", clOutput)
		return nil
	},
}

// runRecipe replays r on s, printing one line per step.
func runRecipe(s *session.Session, r *recipe.Recipe) error {
	effects, err := r.Replay(s)
	for i, eff := range effects {
		fmt.Printf("✓ %d. %s: %s\n", i+1, r.Steps[i], effectSummary(eff))
	}
	if err != nil {
		var se *recipe.StepError
		if errors.As(err, &se) {
			fmt.Printf("✗ %d. %s\n", se.Index, se.Action)
		}
		return err
	}
	return nil
}

func effectSummary(e clean.Effect) string {
	var parts []string
	switch e.Action {
	case clean.KindDropRows, clean.KindDropDuplicates:
		parts = append(parts, fmt.Sprintf("removed %d rows", e.RowsRemoved))
	case clean.KindEncodeLabels, clean.KindToText:
		parts = append(parts, fmt.Sprintf("converted %s", strings.Join(e.Columns, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("filled %d cells", e.CellsFilled))
		for _, f := range e.Fills {
			parts = append(parts, fmt.Sprintf("%s=%s", f.Column, f.Value))
		}
	}
	for _, sk := range e.Skipped {
		parts = append(parts, fmt.Sprintf("skipped %s (%s)", sk.Column, sk.Reason))
	}
	return strings.Join(parts, "; ")
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringArrayVar(&clSteps, "do", nil, "cleaning step ("+stepSyntax+"), repeatable")
	cleanCmd.Flags().StringVarP(&clRecipe, "recipe", "r", "", "replay a saved recipe (name or path)")
	cleanCmd.Flags().StringVarP(&clOutput, "output", "o", "", "path to write the cleaned table (.csv, .tsv or .xlsx)")
	cleanCmd.Flags().StringVar(&clSaveRecipe, "save-recipe", "", "save the applied steps as a recipe with this name")
	cleanCmd.Flags().StringVar(&clDesc, "desc", "", "description for --save-recipe")
}
