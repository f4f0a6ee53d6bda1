package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperledger/bankstat/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Preview and commit statements in one step",
		Long: `Run the preview and immediately commit every non-duplicate row with its
suggested category. This is the hands-off path; use preview + confirm
when you want to review or edit rows first.

Examples:
  # Import a single statement
  bankstat import ~/Downloads/statement.csv

  # Import several exports at once
  bankstat import ~/Downloads/*.csv

  # Keep rows that look like re-imports
  bankstat import --allow-duplicates statement.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("bank", "", "bank adapter to use; auto-detect when empty")
	cmd.Flags().Bool("allow-duplicates", false, "import rows flagged as duplicates anyway")
	cmd.Flags().BoolP("dry-run", "d", false, "preview only, commit nothing")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	bank, _ := cmd.Flags().GetString("bank")
	allowDuplicates, _ := cmd.Flags().GetBool("allow-duplicates")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
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

	user := currentUser()
	totalImported := 0
	totalLearned := 0

	for _, filePath := range allFiles {
		slog.Info("Processing file", "file", filepath.Base(filePath))

		content, readErr := os.ReadFile(filePath)
		if readErr != nil {
			slog.Error("Failed to read file", "file", filePath, "error", readErr)
			continue
		}

		preview, previewErr := pipeline.Preview(ctx, user, content, bank)
		if previewErr != nil {
			slog.Error("Failed to preview file", "file", filePath, "error", previewErr)
			continue
		}

		for _, warning := range preview.Warnings {
			slog.Warn("Row skipped", "file", filepath.Base(filePath),
				"line", warning.Line, "reason", warning.Reason)
		}

		if dryRun {
			slog.Info("Dry run, skipping commit",
				"file", filepath.Base(filePath),
				"rows", preview.Summary.Total,
				"duplicates", preview.Summary.Duplicates)
			continue
		}

		req := confirmRequestFromPreview(preview, sourceForFile(filePath))
		req.AllowDuplicates = allowDuplicates

		result, confirmErr := pipeline.Confirm(ctx, user, req)
		if confirmErr != nil {
			slog.Error("Failed to commit file", "file", filePath, "error", confirmErr)
			continue
		}

		totalImported += result.ImportedCount
		totalLearned += result.PatternsLearned
	}

	slog.Info("Import finished",
		"files", len(allFiles),
		"imported", totalImported,
		"patterns_learned", totalLearned)

	return nil
}

func sourceForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return model.SourceImportOFX
	case ".pdf":
		return model.SourceImportPDF
	default:
		return model.SourceImportCSV
	}
}
