// Package main provides the entry point for the deck generation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deck_agent",
	Short: "Campaign deck generation pipeline",
	Long:  "deck_agent turns a campaign content brief into a validated, structured slide deck artifact via a staged generative pipeline with quality scoring and graceful degradation.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
