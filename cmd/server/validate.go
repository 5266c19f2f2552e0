package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeline/craft-api/internal/catalog"
)

var validateCatalogPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a catalog file without starting the server",
	Long:  `Load and validate a catalog JSON file, reporting cycles, dangling references, and malformed thresholds.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateCatalogPath, "catalog", "catalog.json", "Path to the catalog JSON file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	source, err := catalog.NewFileSource(validateCatalogPath)
	if err != nil {
		return err
	}

	store, err := catalog.New(cmd.Context(), &catalog.Config{Source: source})
	if err != nil {
		return fmt.Errorf("catalog %s is invalid: %w", validateCatalogPath, err)
	}

	snap := store.Snapshot()
	fmt.Printf("catalog %s is valid: %d recipes, %d resources, %d specialties\n",
		validateCatalogPath, len(snap.RecipeIDs()), len(snap.ResourceIDs()), len(snap.SpecialtyIDs()))
	return nil
}
