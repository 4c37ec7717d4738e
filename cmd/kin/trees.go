package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/infrastructure/config"
	embedder "github.com/ersonp/kin-core/internal/infrastructure/embedder/openai"
	"github.com/ersonp/kin-core/internal/infrastructure/personstore/sqlite"
	"github.com/ersonp/kin-core/internal/infrastructure/vectordb/qdrant"
)

// treeManager handles qdrant collection operations for trees.
type treeManager struct {
	cfg *config.Config
}

func newTreesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage family trees",
		RunE:  runTreesList,
	}

	cmd.AddCommand(
		newTreesListCmd(),
		newTreesCreateCmd(),
		newTreesDeleteCmd(),
	)

	return cmd
}

func newTreesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trees",
		RunE:  runTreesList,
	}
}

func runTreesList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if len(trees.Trees) == 0 {
		fmt.Println("No trees configured.")
		fmt.Println("Use 'kin trees create NAME' to create a tree.")
		return nil
	}

	fmt.Printf("%-20s %-25s %s\n", "NAME", "COLLECTION", "DESCRIPTION")
	fmt.Printf("%-20s %-25s %s\n", "----", "----------", "-----------")

	for name, tree := range trees.Trees {
		fmt.Printf("%-20s %-25s %s\n", name, tree.Collection, tree.Description)
	}

	return nil
}

func newTreesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesCreate(cmd, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Tree description")

	return cmd
}

func runTreesCreate(cmd *cobra.Command, name string, description string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if trees.Exists(name) {
		return fmt.Errorf("tree %q already exists", name)
	}

	collection := config.GenerateCollectionName(name)

	if err := os.MkdirAll(config.TreeDir(cwd, name), 0755); err != nil {
		return fmt.Errorf("creating tree directory: %w", err)
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.SQLitePathForTree(cwd, name)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	trees.Add(name, config.TreeEntry{
		Collection:  collection,
		Description: description,
	})
	if err := trees.Save(cwd); err != nil {
		return fmt.Errorf("saving trees: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Semantic search works without a running Qdrant until first use,
	// so a missing instance only warrants a warning here.
	mgr := &treeManager{cfg: cfg}
	if err := mgr.createCollection(ctx, collection); err != nil {
		fmt.Printf("Warning: could not create qdrant collection %q: %v\n", collection, err)
	}

	fmt.Printf("Created tree %q with collection %q\n", name, collection)

	return nil
}

func newTreesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if the tree contains persons")

	return cmd
}

func runTreesDelete(cmd *cobra.Command, name string, force bool) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	entry, err := trees.Get(name)
	if err != nil {
		return err
	}

	if !force {
		count, err := countPersons(ctx, cwd, name)
		if err == nil && count > 0 {
			return fmt.Errorf("tree %q contains %d person(s), use --force to delete", name, count)
		}
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mgr := &treeManager{cfg: cfg}
	if err := mgr.deleteCollection(ctx, entry.Collection); err != nil {
		fmt.Printf("Warning: could not delete collection %q: %v\n", entry.Collection, err)
	}

	if err := os.RemoveAll(config.TreeDir(cwd, name)); err != nil {
		return fmt.Errorf("removing tree directory: %w", err)
	}

	trees.Remove(name)
	if err := trees.Save(cwd); err != nil {
		return fmt.Errorf("saving trees: %w", err)
	}

	fmt.Printf("Deleted tree %q\n", name)

	return nil
}

func countPersons(ctx context.Context, basePath, treeName string) (int, error) {
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.SQLitePathForTree(basePath, treeName)})
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.CountPersons(ctx, treeName)
}

func (m *treeManager) createCollection(ctx context.Context, collection string) error {
	qdrantCfg := m.cfg.Qdrant
	qdrantCfg.Collection = collection

	repo, err := qdrant.NewRepository(qdrantCfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.EnsureCollection(ctx, embedder.VectorSize)
}

func (m *treeManager) deleteCollection(ctx context.Context, collection string) error {
	qdrantCfg := m.cfg.Qdrant
	qdrantCfg.Collection = collection

	repo, err := qdrant.NewRepository(qdrantCfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.DeleteCollection(ctx)
}
