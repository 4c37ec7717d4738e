package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/application/handlers"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over person bios",
		Long: `Searches indexed person bios by meaning rather than exact words.
Run 'kin search index' first to (re)build the index for a tree.

Examples:
  kin search "fought in the war"
  kin search "moved to the city for work" --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultBioSearchLimit, "Maximum number of results")

	cmd.AddCommand(newSearchIndexCmd())

	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()

	return withSearchDeps(func(handler *handlers.SearchHandler) error {
		docs, err := handler.HandleSearch(ctx, query, limit)
		if err != nil {
			return fmt.Errorf("searching bios: %w", err)
		}

		if len(docs) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for _, doc := range docs {
			fmt.Printf("%.3f  %s (%s)\n", doc.Score, doc.Name, doc.PersonID)
			if doc.Bio != "" {
				fmt.Printf("       %s\n", doc.Bio)
			}
		}
		return nil
	})
}

func newSearchIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the bio search index for the tree",
		RunE:  runSearchIndex,
	}
}

func runSearchIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withSearchDeps(func(handler *handlers.SearchHandler) error {
		indexed, err := handler.HandleIndex(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("indexing tree: %w", err)
		}

		fmt.Printf("Indexed %d person(s)\n", indexed)
		return nil
	})
}
