package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marc/gazelle-sync/internal/alerts"
	"github.com/marc/gazelle-sync/internal/config"
	"github.com/marc/gazelle-sync/internal/ingestion"
	"github.com/marc/gazelle-sync/internal/matching"
	"github.com/marc/gazelle-sync/internal/observability"
	"github.com/marc/gazelle-sync/internal/parsing"
	"github.com/marc/gazelle-sync/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse request text into structured tuning requests",
	Long: `Parse free-text scheduling requests from a file (or stdin when no file
is given) and print the extracted and merged requests. Accepts plain text,
spreadsheet pastes and HTML email bodies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var (
	parseAsHTML  bool
	parseAsJSON  bool
	parseVerbose bool
)

func init() {
	parseCmd.Flags().BoolVar(&parseAsHTML, "html", false, "Treat input as an HTML email body")
	parseCmd.Flags().BoolVar(&parseAsJSON, "json", false, "Print the full result as JSON")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print formatted summaries of each stage")
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var raw []byte
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	text := string(raw)
	if parseAsHTML || ingestion.IsHTML(text) {
		text, err = ingestion.ExtractEmailText(text)
		if err != nil {
			return fmt.Errorf("failed to extract email text: %w", err)
		}
	} else {
		text = ingestion.CleanText(text)
	}

	window := parsing.YearWindow{
		PastDays:   cfg.YearWindowPastDays,
		FutureDays: cfg.YearWindowFutureDays,
	}
	requests := parsing.Parse(text, &parsing.Options{Window: window})
	result := types.ParsePreviewResponse{
		Requests: requests,
		Merged:   matching.Merge(requests),
		Alerts:   alerts.Scan(text, cfg.AlertKeywords),
	}

	if parseAsJSON {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	if parseVerbose {
		printer.PrintRequests(result.Requests)
	}
	printer.PrintMerged(result.Merged)
	printer.PrintAlerts(result.Alerts)
	return nil
}
