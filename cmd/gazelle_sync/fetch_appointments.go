package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marc/gazelle-sync/internal/config"
	"github.com/marc/gazelle-sync/internal/gazelle"
)

var fetchAppointmentsCmd = &cobra.Command{
	Use:   "fetch-appointments",
	Short: "Fetch Gazelle calendar appointments for a date window",
	Long:  "Fetch appointments from the Gazelle CRM for inspection, without touching the database.",
	RunE:  runFetchAppointments,
}

var (
	fetchFrom string
	fetchTo   string
)

func init() {
	fetchAppointmentsCmd.Flags().StringVar(&fetchFrom, "from", "", "Window start (YYYY-MM-DD, default today)")
	fetchAppointmentsCmd.Flags().StringVar(&fetchTo, "to", "", "Window end (YYYY-MM-DD, default from+30d)")
	rootCmd.AddCommand(fetchAppointmentsCmd)
}

func runFetchAppointments(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.GazelleBaseURL == "" || cfg.GazelleAPIKey == "" {
		return fmt.Errorf("GAZELLE_BASE_URL and GAZELLE_API_KEY are required")
	}

	from := time.Now().Truncate(24 * time.Hour)
	if fetchFrom != "" {
		from, err = time.Parse("2006-01-02", fetchFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
	}
	to := from.AddDate(0, 0, 30)
	if fetchTo != "" {
		to, err = time.Parse("2006-01-02", fetchTo)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
	}

	crm, err := gazelle.NewClient(cfg.GazelleBaseURL, cfg.GazelleAPIKey, nil)
	if err != nil {
		return fmt.Errorf("failed to create gazelle client: %w", err)
	}

	appointments, err := crm.ListAppointments(context.Background(), from, to)
	if err != nil {
		return fmt.Errorf("failed to fetch appointments: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(appointments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
