package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperledger/bankstat/internal/importer"
)

func confirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm <reviewed.json>",
		Short: "Commit reviewed rows to the ledger",
		Long: `Commit the rows of an edited preview to the ledger in a single
transaction. The input is a confirm request JSON: the preview rows with
your category edits, Include flags, and duplicate decisions. Pass "-" to
read from stdin.

Rows with include=false are skipped, as are rows still flagged as
duplicates unless --allow-duplicates is set. Any failure rolls back the
whole batch.`,
		Args: cobra.ExactArgs(1),
		RunE: runConfirm,
	}

	cmd.Flags().Bool("allow-duplicates", false, "import rows flagged as duplicates anyway")
	cmd.Flags().String("source", "", "ledger source label (default import_csv)")

	return cmd
}

func runConfirm(cmd *cobra.Command, args []string) error {
	allowDuplicates, _ := cmd.Flags().GetBool("allow-duplicates")
	source, _ := cmd.Flags().GetString("source")

	var (
		content []byte
		err     error
	)
	if args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read confirm request: %w", err)
	}

	var req importer.ConfirmRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return fmt.Errorf("failed to parse confirm request: %w", err)
	}

	if allowDuplicates {
		req.AllowDuplicates = true
	}
	if source != "" {
		req.Source = source
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pipeline, err := buildPipeline(store)
	if err != nil {
		return err
	}

	result, err := pipeline.Confirm(ctx, currentUser(), req)
	if err != nil {
		return err
	}

	slog.Info("Import committed",
		"imported", result.ImportedCount,
		"patterns_learned", result.PatternsLearned)

	return nil
}
