// Package main provides the entry point for the CRM pipeline board server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crmboard",
	Short: "CRM Sales Pipeline Board Server",
	Long:  "crmboard serves a drag-and-drop sales pipeline board: stages, deals, companies and contacts over a REST API with live board updates.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
