// Package main provides the entry point for the tax report service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taxdoc",
	Short: "Tax report generation service",
	Long:  "taxdoc fills the practice's DOCX report template from questionnaire submissions, converts the result to PDF when a conversion credential is configured, and serves it over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
