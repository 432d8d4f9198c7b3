package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marc/gazelle-sync/internal/config"
	"github.com/marc/gazelle-sync/internal/db"
	"github.com/marc/gazelle-sync/internal/gazelle"
	"github.com/marc/gazelle-sync/internal/matching"
	"github.com/marc/gazelle-sync/internal/observability"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Link stored requests to Gazelle appointments",
	Long: `Scan unlinked tuning requests over a date window, score each against
its same-day Gazelle appointments, and record confident matches.`,
	RunE: runReconcile,
}

var (
	reconcileDays int
	reconcileJSON bool
)

func init() {
	reconcileCmd.Flags().IntVar(&reconcileDays, "days", 30, "Days forward from today to scan")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.GazelleBaseURL == "" || cfg.GazelleAPIKey == "" {
		return fmt.Errorf("GAZELLE_BASE_URL and GAZELLE_API_KEY are required")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	crm, err := gazelle.NewClient(cfg.GazelleBaseURL, cfg.GazelleAPIKey, nil)
	if err != nil {
		return fmt.Errorf("failed to create gazelle client: %w", err)
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, reconcileDays)

	reconciler := matching.NewReconciler(database, crm, cfg.Institution)
	report, err := reconciler.Run(ctx, from, to)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if reconcileJSON {
		jsonBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintReport(report)
	return nil
}
