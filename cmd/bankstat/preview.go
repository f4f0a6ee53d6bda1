package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperledger/bankstat/internal/importer"
	"github.com/paperledger/bankstat/internal/model"
)

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Parse a statement and preview categorization without saving",
		Long: `Parse a bank statement export, detect the issuing bank, and print every
row with its category suggestion and duplicate flag. Nothing is written;
run preview as many times as you like.

Examples:
  # Auto-detect the bank
  bankstat preview ~/Downloads/statement.csv

  # Force a specific adapter
  bankstat preview --bank tinkoff ~/Downloads/operations.csv

  # Save the preview for later editing and confirm
  bankstat preview statement.csv --output preview.json`,
		Args: cobra.ExactArgs(1),
		RunE: runPreview,
	}

	cmd.Flags().String("bank", "", "bank adapter to use (tinkoff, sber, alfa, ofx, pdf, generic); auto-detect when empty")
	cmd.Flags().StringP("output", "o", "", "write the preview JSON to a file instead of stdout")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	bank, _ := cmd.Flags().GetString("bank")
	output, _ := cmd.Flags().GetString("output")

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
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

	result, err := pipeline.Preview(ctx, currentUser(), content, bank)
	if err != nil {
		return err
	}

	slog.Info("Preview complete",
		"bank", result.DetectedBank.BankID,
		"confidence", result.DetectedBank.DetectionConfidence,
		"rows", result.Summary.Total,
		"duplicates", result.Summary.Duplicates)

	out := os.Stdout
	if output != "" {
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// confirmRequestFromPreview converts a preview into a confirm request with
// every row included and the engine's suggestion accepted as-is.
func confirmRequestFromPreview(result *importer.PreviewResult, source string) importer.ConfirmRequest {
	rows := make([]importer.ConfirmRow, 0, len(result.Rows))

	for _, row := range result.Rows {
		rows = append(rows, importer.ConfirmRow{
			Row:               row.Row,
			Category:          row.Categorization.Category,
			SuggestedCategory: row.Categorization.Category,
			Source:            row.Categorization.Source,
			Include:           true,
			IsDuplicate:       row.Duplicate.IsDuplicate,
		})
	}

	if source == "" {
		source = model.SourceImportCSV
	}

	return importer.ConfirmRequest{Rows: rows, Source: source}
}
