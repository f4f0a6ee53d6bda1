package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperledger/bankstat/internal/storage"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
		Long:  `Categories are created on demand when imports reference them; this command lists and pre-creates them.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Categories listing needs the concrete store; the service
			// interface only carries what the import core uses.
			sqlStore, ok := store.(*storage.SQLiteStorage)
			if !ok {
				return fmt.Errorf("unexpected storage type %T", store)
			}

			categories, err := sqlStore.Categories(ctx, currentUser())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println("No categories yet. They are created when you confirm an import.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tNAME\tCREATED")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format(time.DateOnly))
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category ahead of time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := store.GetOrCreateCategory(ctx, currentUser(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Printf("Category %q ready (id %d)\n", category.Name, category.ID)
			return nil
		},
	}
}
