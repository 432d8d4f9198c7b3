// Package main provides the entry point for the gazelle-sync CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gazelle_sync",
	Short: "Piano tuning request parser and Gazelle CRM reconciler",
	Long:  "gazelle_sync extracts structured tuning requests from free-text institution emails, merges duplicates, and reconciles them against Gazelle calendar appointments.",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
