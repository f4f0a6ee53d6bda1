package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/paperledger/bankstat/internal/engine"
	"github.com/paperledger/bankstat/internal/match"
	"github.com/paperledger/bankstat/internal/mcc"
	"github.com/paperledger/bankstat/internal/merchant"
	"github.com/paperledger/bankstat/internal/model"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage learned categorization patterns",
		Long: `Patterns are learned from your confirmations: when you correct a
suggested category, the normalized description is remembered and wins
over every other categorization tier on the next import.`,
	}

	cmd.AddCommand(listPatternsCmd())
	cmd.AddCommand(learnPatternCmd())
	cmd.AddCommand(suggestCmd())

	return cmd
}

func listPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learned patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			patterns, err := store.Patterns(ctx, currentUser())
			if err != nil {
				return fmt.Errorf("failed to get patterns: %w", err)
			}

			if len(patterns) == 0 {
				fmt.Println("No patterns learned yet. Confirm an import to start learning.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "KEY\tCATEGORY\tHITS\tLAST USED")
			for _, p := range patterns {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					p.Key, p.Category, p.HitCount, p.LastUsedAt.Format(time.DateOnly))
			}

			return nil
		},
	}
}

func learnPatternCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn <description> <category>",
		Short: "Teach a description-to-category association directly",
		Long: `Create or reinforce a pattern without going through an import. The
description is normalized the same way statement rows are, so casing and
punctuation don't matter.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			key := match.Normalize(args[0])
			if key == "" {
				return fmt.Errorf("description normalizes to nothing")
			}

			p, err := store.UpsertPattern(ctx, currentUser(), key, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to learn pattern: %w", err)
			}

			fmt.Printf("Learned %q -> %s (hit count %d)\n", p.Key, p.Category, p.HitCount)
			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <description>",
		Short: "Show what category a description would get",
		Long: `Run a single description through the full categorization cascade and
print the winning tier. Useful for checking what an import would do
before running one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user := currentUser()

			patterns, err := store.Patterns(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to get patterns: %w", err)
			}

			history, err := store.RecentTransactions(ctx, user, 500)
			if err != nil {
				return fmt.Errorf("failed to get history: %w", err)
			}

			eng := engine.New(mcc.Default(), merchant.Default(), nil, engine.DefaultConfig())

			result := eng.Categorize(model.RawRow{
				OccurredAt:     time.Now(),
				RawDescription: args[0],
				Direction:      model.DirectionExpense,
				Amount:         decimal.NewFromInt(1), // amount is not used by the cascade
			}, engine.Snapshot{Patterns: patterns, History: history})

			fmt.Printf("%s (tier %s, source %s, score %.2f)\n",
				result.Category, result.Tier, result.Source, result.Score)
			return nil
		},
	}
}
