package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmendez/crmboard/internal/board"
	"github.com/jmendez/crmboard/internal/db"
	"github.com/jmendez/crmboard/internal/observability"
)

var (
	boardDatabaseURL string
	boardWindowDays  int
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the current pipeline board",
	Long:  `Load stages and deals from the database and print the board grouped by column, with per-column deal counts and value totals.`,
	RunE:  runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&boardDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	boardCmd.Flags().IntVar(&boardWindowDays, "window-days", 30, "Only include deals created in the last N days")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := boardDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	stages := board.NewStageStore(database)
	deals := board.NewDealStore(database, time.Duration(boardWindowDays)*24*time.Hour)
	b := board.New(stages, deals)
	if err := b.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintPipelineView(b.View())
	return nil
}
