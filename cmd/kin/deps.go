package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ersonp/kin-core/internal/application/handlers"
	"github.com/ersonp/kin-core/internal/domain/ports"
	"github.com/ersonp/kin-core/internal/domain/services"
	"github.com/ersonp/kin-core/internal/infrastructure/config"
	embedder "github.com/ersonp/kin-core/internal/infrastructure/embedder/openai"
	"github.com/ersonp/kin-core/internal/infrastructure/personstore/sqlite"
	"github.com/ersonp/kin-core/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config        *config.Config
	Trees         *config.TreesConfig
	Persons       *handlers.PersonHandler
	Relationships *handlers.RelationshipHandler
	Repairs       *handlers.RepairHandler
	TreeViews     *handlers.TreeHandler
	Imports       *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store   *sqlite.Repository
	persons *services.PersonService
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if globalTree == "" {
		return errors.New("tree is required (use --tree flag)")
	}

	if _, err := trees.Get(globalTree); err != nil {
		return err
	}

	if err := os.MkdirAll(config.TreeDir(cwd, globalTree), 0755); err != nil {
		return fmt.Errorf("creating tree directory: %w", err)
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.SQLitePathForTree(cwd, globalTree)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	personService := services.NewPersonService(store)
	relationshipService := services.NewRelationshipService(store, ports.AllowAll{})
	repairService := services.NewRepairService(store)
	subgraphService := services.NewSubgraphService(store)
	importService := services.NewImportService(personService, relationshipService)

	deps := &internalDeps{
		Deps: Deps{
			Config:        cfg,
			Trees:         trees,
			Persons:       handlers.NewPersonHandler(personService),
			Relationships: handlers.NewRelationshipHandler(relationshipService),
			Repairs:       handlers.NewRepairHandler(repairService),
			TreeViews:     handlers.NewTreeHandler(subgraphService),
			Imports:       handlers.NewImportHandler(importService),
		},
		store:   store,
		persons: personService,
	}

	return fn(deps)
}

// withSearchDeps builds the semantic search stack on top of the base
// dependencies. Requires a configured embedder API key and a reachable
// Qdrant instance, so only the search commands pay that cost.
func withSearchDeps(fn func(*handlers.SearchHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		collection, err := d.Trees.GetCollection(globalTree)
		if err != nil {
			return err
		}

		qdrantCfg := d.Config.Qdrant
		qdrantCfg.Collection = collection

		repo, err := qdrant.NewRepository(qdrantCfg)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer repo.Close()

		emb, err := embedder.NewEmbedder(d.Config.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		ctx := context.Background()
		if err := repo.EnsureCollection(ctx, embedder.VectorSize); err != nil {
			return fmt.Errorf("ensuring qdrant collection: %w", err)
		}

		searchService := services.NewBioSearchService(d.store, emb, repo)
		return fn(handlers.NewSearchHandler(searchService))
	})
}

// requireUser validates that an acting user id was supplied.
func requireUser() (string, error) {
	if globalUser == "" {
		return "", errors.New("user is required (use --user flag or set KIN_USER)")
	}
	return globalUser, nil
}
