package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/insightbox-cli/internal/config"
	"github.com/KaramelBytes/insightbox-cli/internal/parser"
	"github.com/KaramelBytes/insightbox-cli/internal/recipe"
)

var (
	rcSteps  []string
	rcDesc   string
	rcOutput string
	rcForce  bool
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Create, list, show and apply cleaning recipes",
}

var recipeNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a recipe from --do steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(rcSteps) == 0 {
			return fmt.Errorf("at least one --do step is required")
		}
		steps, err := parseSteps(rcSteps)
		if err != nil {
			return err
		}
		path := recipe.Path(recipesDir(), args[0])
		if !rcForce {
			if _, err := recipe.Load(path); err == nil {
				return fmt.Errorf("recipe already exists at %s (use --force to overwrite)", path)
			}
		}
		r := recipe.New(args[0], rcDesc, steps)
		if err := r.Save(path); err != nil {
			return err
		}
		fmt.Printf("✓ Recipe saved: %s\n", path)
		return nil
	},
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := recipe.List(recipesDir())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("(no recipes)")
			return nil
		}
		for _, r := range list {
			fmt.Printf("- %s: %d steps", r.Name, len(r.Steps))
			if r.Description != "" {
				fmt.Printf(" (%s)", r.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the steps of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recipe.Load(recipe.Path(recipesDir(), args[0]))
		if err != nil {
			return err
		}
		fmt.Print(r.Markdown())
		return nil
	},
}

var recipeApplyCmd = &cobra.Command{
	Use:   "apply <name> <file>",
	Short: "Replay a recipe on a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recipe.Load(recipe.Path(recipesDir(), args[0]))
		if err != nil {
			return err
		}
		s, err := openSession(args[1])
		if err != nil {
			return err
		}
		if err := runRecipe(s, r); err != nil {
			return err
		}
		if rcOutput == "" {
			fmt.Println("⚠ No --output given; the cleaned table was not written")
			return nil
		}
		if err := parser.ExportFile(rcOutput, s.Current()); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote cleaned data to %s\n", rcOutput)
		return nil
	},
}

func recipesDir() string {
	if cfg != nil && cfg.RecipesDir != "" {
		return cfg.RecipesDir
	}
	if dir, err := cfgpkg.DefaultDir(); err == nil {
		return filepath.Join(dir, "recipes")
	}
	return "recipes"
}

func init() {
	rootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipeNewCmd, recipeListCmd, recipeShowCmd, recipeApplyCmd)

	recipeNewCmd.Flags().StringArrayVar(&rcSteps, "do", nil, "cleaning step ("+stepSyntax+"), repeatable")
	recipeNewCmd.Flags().StringVar(&rcDesc, "desc", "", "recipe description")
	recipeNewCmd.Flags().BoolVar(&rcForce, "force", false, "overwrite an existing recipe")
	recipeApplyCmd.Flags().StringVarP(&rcOutput, "output", "o", "", "path to write the cleaned table (.csv, .tsv or .xlsx)")
}
