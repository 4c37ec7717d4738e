package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/application/handlers"
	"github.com/ersonp/kin-core/internal/domain/services"
)

func newImportCmd() *cobra.Command {
	var (
		format     string
		dryRun     bool
		onConflict string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import persons from a file",
		Long: `Imports person rows from a JSON or CSV file. Rows may reference
parents and spouses by name; all rows are created first and linked
afterwards, so forward references work.

Conflict strategies for rows whose name already exists in the tree:
  skip     keep the existing person (default)
  create   import the row as a distinct person

Examples:
  kin import family.csv
  kin import family.json --dry-run
  kin import family.csv --on-conflict create`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], format, dryRun, onConflict)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Input format (json, csv, auto)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "skip", "Conflict strategy (skip, create)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath, format string, dryRun bool, onConflict string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}

	strategy := services.ConflictStrategy(onConflict)
	if strategy != services.ConflictSkip && strategy != services.ConflictCreate {
		return fmt.Errorf("invalid conflict strategy %q (valid: skip, create)", onConflict)
	}

	return withDeps(func(d *Deps) error {
		result, err := d.Imports.Handle(ctx, globalTree, userID, filePath, handlers.ImportOptions{
			Format:     format,
			DryRun:     dryRun,
			OnConflict: strategy,
		})
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		if dryRun {
			fmt.Println("Dry run, nothing saved.")
		}
		fmt.Printf("Imported: %d  Skipped: %d  Linked: %d\n", result.Imported, result.Skipped, result.Linked)

		if len(result.Errors) > 0 {
			fmt.Printf("\n%d row error(s):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e.Error())
			}
		}
		return nil
	})
}
