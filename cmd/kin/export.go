package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type exportFlags struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your family tree to a file",
		Long: `Exports your subgraph as a nested JSON tree or a flat CSV of
person rows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		out, err := d.TreeViews.HandleExport(ctx, globalTree, userID, flags.format)
		if err != nil {
			return fmt.Errorf("exporting tree: %w", err)
		}

		if flags.output == "" {
			fmt.Print(out)
			return nil
		}

		if err := os.WriteFile(flags.output, []byte(out), 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}

		fmt.Printf("Exported tree to %s\n", flags.output)
		return nil
	})
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
