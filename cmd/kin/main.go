// Package main provides the entry point for the kin CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0-dev"
	globalTree string
	globalUser string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "kin",
		Short:   "A family tree engine with relationship consistency and semantic bio search",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalTree, "tree", "t", "", "Tree to operate on (required)")
	rootCmd.PersistentFlags().StringVarP(&globalUser, "user", "u", os.Getenv("KIN_USER"), "Acting user id (or set KIN_USER)")

	rootCmd.AddCommand(
		newPersonCmd(),
		newRelateCmd(),
		newSecondParentCmd(),
		newRepairCmd(),
		newTreeCmd(),
		newExportCmd(),
		newImportCmd(),
		newSearchCmd(),
		newTreesCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
