package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Display your family tree",
		Long: `Renders the nested family tree for the persons reachable from
the ones you created.`,
		RunE: runTree,
	}

	cmd.AddCommand(newTreeViewCmd())

	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		root, err := d.TreeViews.HandleTree(ctx, globalTree, userID)
		if err != nil {
			return fmt.Errorf("building tree: %w", err)
		}

		if root == nil {
			fmt.Println("No persons in your tree yet.")
			fmt.Println("Use 'kin person add NAME' to add the first one.")
			return nil
		}

		displayTreeNode(root, 0)
		return nil
	})
}

func displayTreeNode(node *entities.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)

	line := indent + node.Name
	if node.BirthDate != "" || node.DeathDate != "" {
		line += fmt.Sprintf(" (%s-%s)", node.BirthDate, node.DeathDate)
	}
	if node.Spouse != nil {
		line += " + " + node.Spouse.Name
	}
	fmt.Println(line)

	for _, child := range node.Children {
		displayTreeNode(child, depth+1)
	}
}

func newTreeViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <person-id>",
		Short: "Show one person's resolved relationships",
		Long: `Resolves the display relationships of one person within your
subgraph: parent, second parent, spouse, children and siblings.`,
		Args: cobra.ExactArgs(1),
		RunE: runTreeView,
	}
}

func runTreeView(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	personID := args[0]

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		view, err := d.TreeViews.HandleView(ctx, globalTree, userID, personID)
		if err != nil {
			return fmt.Errorf("resolving relationships: %w", err)
		}

		displayView(view)
		return nil
	})
}

func displayView(view *entities.RelationshipView) {
	if view.Parent != nil {
		fmt.Printf("Parent: %s (%s)\n", view.Parent.Name, view.Parent.ID)
	}
	if view.SecondParent != nil {
		fmt.Printf("Second parent: %s (%s)\n", view.SecondParent.Name, view.SecondParent.ID)
	}
	if view.Spouse != nil {
		fmt.Printf("Spouse: %s (%s)\n", view.Spouse.Name, view.Spouse.ID)
	}

	fmt.Printf("Children: %d\n", len(view.Children))
	for _, c := range view.Children {
		fmt.Printf("  %s (%s)\n", c.Name, c.ID)
	}

	fmt.Printf("Siblings: %d\n", len(view.Siblings))
	for _, s := range view.Siblings {
		fmt.Printf("  %s (%s)\n", s.Name, s.ID)
	}

	if len(view.SecondParentCandidates) > 0 {
		fmt.Println("Possible second parents:")
		for _, c := range view.SecondParentCandidates {
			fmt.Printf("  %s (%s)\n", c.Name, c.ID)
		}
	}
}
