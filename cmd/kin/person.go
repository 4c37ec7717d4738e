package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/application/handlers"
	"github.com/ersonp/kin-core/internal/domain/entities"
)

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage person records",
	}

	cmd.AddCommand(
		newPersonAddCmd(),
		newPersonGetCmd(),
		newPersonListCmd(),
		newPersonSearchCmd(),
		newPersonDeleteCmd(),
		newPersonHistoryCmd(),
		newPersonLogCmd(),
	)

	return cmd
}

func newPersonAddCmd() *cobra.Command {
	var opts handlers.CreateOptions

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a person to the tree",
		Long: `Adds a person record to the tree. The first person a user adds
becomes the root of their subgraph.

Examples:
  kin person add "Alice Smith" --gender female --birth 1960-04-12
  kin person add Bob --bio "Worked the family farm for forty years"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Gender, "gender", "", "Gender (male, female, other)")
	cmd.Flags().StringVar(&opts.BirthDate, "birth", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DeathDate, "death", "", "Death date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Bio, "bio", "", "Short biography")
	cmd.Flags().StringVar(&opts.PhotoURL, "photo", "", "Photo URL")

	return cmd
}

func runPersonAdd(cmd *cobra.Command, name string, opts handlers.CreateOptions) error {
	ctx := cmd.Context()

	userID, err := requireUser()
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		person, err := d.Persons.HandleCreate(ctx, globalTree, userID, name, opts)
		if err != nil {
			return fmt.Errorf("creating person: %w", err)
		}

		fmt.Printf("Created person: %s\n", person.ID)
		displayPerson(person)
		return nil
	})
}

func newPersonGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <person-id>",
		Short: "Show a person record",
		Args:  cobra.ExactArgs(1),
		RunE:  runPersonGet,
	}
}

func runPersonGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		person, err := d.Persons.HandleGet(ctx, args[0])
		if err != nil {
			return fmt.Errorf("getting person: %w", err)
		}

		displayPerson(person)
		return nil
	})
}

func newPersonListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all persons in the tree",
		RunE:  runPersonList,
	}
}

func runPersonList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		persons, err := d.Persons.HandleList(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("listing persons: %w", err)
		}

		if len(persons) == 0 {
			fmt.Println("No persons found.")
			return nil
		}

		count, _ := d.Persons.HandleCount(ctx, globalTree)
		fmt.Printf("Showing %d of %d persons:\n\n", len(persons), count)
		for _, p := range persons {
			displayPerson(p)
		}
		return nil
	})
}

func newPersonSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search persons by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonSearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultNameSearchLimit, "Maximum number of results")

	return cmd
}

func runPersonSearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		persons, err := d.Persons.HandleSearch(ctx, globalTree, query, limit)
		if err != nil {
			return fmt.Errorf("searching persons: %w", err)
		}

		if len(persons) == 0 {
			fmt.Println("No matching persons.")
			return nil
		}

		for _, p := range persons {
			displayPerson(p)
		}
		return nil
	})
}

func newPersonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <person-id>",
		Short: "Delete a person",
		Long: `Deletes a person record. Other persons still pointing at the
deleted id keep their references; the next repair pass clears them.`,
		Args: cobra.ExactArgs(1),
		RunE: runPersonDelete,
	}
}

func runPersonDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	return withDeps(func(d *Deps) error {
		referencing, err := d.Persons.HandleDelete(ctx, globalTree, id)
		if err != nil {
			return fmt.Errorf("deleting person: %w", err)
		}

		fmt.Printf("Deleted person: %s\n", id)
		if len(referencing) > 0 {
			fmt.Printf("Still referenced by %d person(s): %v\n", len(referencing), referencing)
			fmt.Println("Run 'kin repair person <id>' on each to clear dangling links.")
		}
		return nil
	})
}

func newPersonHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <person-id>",
		Short: "Show a person's change history",
		Args:  cobra.ExactArgs(1),
		RunE:  runPersonHistory,
	}
}

func runPersonHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		versions, err := d.Persons.HandleHistory(ctx, args[0])
		if err != nil {
			return fmt.Errorf("getting history: %w", err)
		}

		if len(versions) == 0 {
			fmt.Println("No history recorded.")
			return nil
		}

		for _, v := range versions {
			fmt.Printf("v%d  %s  %s", v.Version, v.CreatedAt.Format("2006-01-02 15:04"), v.ChangeType)
			if v.Reason != "" {
				fmt.Printf("  (%s)", v.Reason)
			}
			fmt.Println()
		}
		return nil
	})
}

func newPersonLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <person-id>",
		Short: "Show audit entries mentioning a person",
		Args:  cobra.ExactArgs(1),
		RunE:  runPersonLog,
	}
}

func runPersonLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		entries, err := d.Persons.HandleAuditLog(ctx, args[0])
		if err != nil {
			return fmt.Errorf("getting audit log: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No audit entries.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Action)
			if len(e.Details) > 0 {
				fmt.Printf("  %v", e.Details)
			}
			fmt.Println()
		}
		return nil
	})
}

func displayPerson(p *entities.Person) {
	fmt.Printf("ID: %s\n", p.ID)
	fmt.Printf("  Name: %s\n", p.Name)
	if p.Gender != "" {
		fmt.Printf("  Gender: %s\n", p.Gender)
	}
	if p.BirthDate != "" {
		fmt.Printf("  Born: %s\n", p.BirthDate)
	}
	if p.DeathDate != "" {
		fmt.Printf("  Died: %s\n", p.DeathDate)
	}
	if p.Bio != "" {
		fmt.Printf("  Bio: %s\n", p.Bio)
	}
	if p.ParentID != "" {
		fmt.Printf("  Parent: %s\n", p.ParentID)
	}
	if p.SpouseID != "" {
		fmt.Printf("  Spouse: %s\n", p.SpouseID)
	}
	if len(p.Children) > 0 {
		fmt.Printf("  Children: %v\n", p.Children)
	}
	if p.IsRoot {
		fmt.Println("  Root: yes")
	}
	fmt.Println()
}
