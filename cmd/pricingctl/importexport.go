package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

var (
	snapshotFormat bool
	snapshotStart  string
	snapshotEnd    string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import pricing rules from a CSV file",
	Long: `Parse pricing rules from a CSV file and persist them as one batch.
A malformed header aborts the import; malformed rows are skipped and reported.`,
	Example: `  pricingctl import rules.csv`,
	Args:    cobra.ExactArgs(1),
	RunE:    runImport,
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pricing rules as CSV to stdout",
	Long: `Write all stored pricing rules to stdout in the import template
format, or with --snapshot the resolved price per (room type, date) over a
date range.`,
	Example: `  pricingctl export > rules.csv
  pricingctl export --snapshot --start 2026-09-01 --end 2026-09-30`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&snapshotFormat, "snapshot", false, "export resolved prices instead of stored rules")
	exportCmd.Flags().StringVar(&snapshotStart, "start", "", "snapshot range start (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&snapshotEnd, "end", "", "snapshot range end (YYYY-MM-DD)")
}

func runImport(cmd *cobra.Command, args []string) error {
	defer closeStore()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	summary, err := service.ImportRules(context.Background(), file)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d rules, skipped %d rows\n", summary.Imported, summary.Skipped)
	for _, rowErr := range summary.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", rowErr.Error())
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	defer closeStore()
	ctx := context.Background()

	if !snapshotFormat {
		return service.ExportRules(ctx, os.Stdout)
	}

	start, err := domain.ParseDate(snapshotStart)
	if err != nil {
		return fmt.Errorf("invalid --start date: %w", err)
	}
	end, err := domain.ParseDate(snapshotEnd)
	if err != nil {
		return fmt.Errorf("invalid --end date: %w", err)
	}
	return service.ExportSnapshot(ctx, os.Stdout, start, end)
}
