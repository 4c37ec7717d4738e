package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Repair graph consistency",
	}

	cmd.AddCommand(
		newRepairPersonCmd(),
		newRepairSpousesCmd(),
	)

	return cmd
}

func newRepairPersonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "person <person-id>",
		Short: "Clear self-references on one person",
		Long: `Clears a person's parent, spouse or children entries that point
back at the person itself.`,
		Args: cobra.ExactArgs(1),
		RunE: runRepairPerson,
	}
}

func runRepairPerson(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	return withDeps(func(d *Deps) error {
		repaired, err := d.Repairs.HandlePerson(ctx, id)
		if err != nil {
			return fmt.Errorf("repairing person: %w", err)
		}

		if repaired {
			fmt.Printf("Repaired person %s\n", id)
		} else {
			fmt.Printf("Person %s is consistent, nothing to repair\n", id)
		}
		return nil
	})
}

func newRepairSpousesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spouses",
		Short: "Restore spouse symmetry across the tree",
		Long: `Scans the whole tree for one-sided spouse links and writes the
missing back-references.`,
		RunE: runRepairSpouses,
	}
}

func runRepairSpouses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		fixed, err := d.Repairs.HandleSpouseLinks(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("repairing spouse links: %w", err)
		}

		if fixed == 0 {
			fmt.Println("All spouse links are symmetric.")
		} else {
			fmt.Printf("Fixed %d one-sided spouse link(s)\n", fixed)
		}
		return nil
	})
}
