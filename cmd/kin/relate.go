package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/application/handlers"
)

func newRelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate <kind> <person-id> <person-id>",
		Short: "Link two persons",
		Long: `Links two persons with a relationship of the given kind.

Valid kinds:
  parent-child   first id is the parent, second is the child
  spouse         symmetric, order does not matter

Second-parent links take three persons; use 'kin second-parent'.

Examples:
  kin relate parent-child <alice-id> <bob-id>
  kin relate spouse <alice-id> <carol-id>`,
		Args: cobra.ExactArgs(3),
		RunE: runRelate,
	}

	cmd.AddCommand(newRelateRemoveCmd())

	return cmd
}

func runRelate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, id1, id2 := args[0], args[1], args[2]

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		if err := d.Relationships.HandleSet(ctx, userID, kind, id1, id2); err != nil {
			return fmt.Errorf("setting relationship: %w", err)
		}

		fmt.Printf("Linked %s -[%s]-> %s\n", id1, kind, id2)
		return nil
	})
}

func newRelateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <kind> <person-id> <person-id>",
		Short: "Remove a relationship",
		Long: `Removes a relationship of the given kind between two persons.
Removing a link that does not exist is not an error.

Valid kinds: ` + fmt.Sprint(handlers.ValidRelationKinds),
		Args: cobra.ExactArgs(3),
		RunE: runRelateRemove,
	}
}

func runRelateRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, id1, id2 := args[0], args[1], args[2]

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		if err := d.Relationships.HandleRemove(ctx, userID, kind, id1, id2); err != nil {
			return fmt.Errorf("removing relationship: %w", err)
		}

		fmt.Printf("Removed %s link between %s and %s\n", kind, id1, id2)
		return nil
	})
}

func newSecondParentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "second-parent <child-id> <parent-id> <second-parent-id>",
		Short: "Add a second parent to a child",
		Long: `Records a second parent for a child whose first parent is already
set. The child is added to the second parent's children and the two
parents are linked as spouses; the child's own parent field is left
pointing at the first parent.`,
		Args: cobra.ExactArgs(3),
		RunE: runSecondParent,
	}
}

func runSecondParent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	childID, parentID, secondParentID := args[0], args[1], args[2]

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		if err := d.Relationships.HandleAddSecondParent(ctx, userID, childID, parentID, secondParentID); err != nil {
			return fmt.Errorf("adding second parent: %w", err)
		}

		fmt.Printf("Added %s as second parent of %s\n", secondParentID, childID)
		return nil
	})
}
