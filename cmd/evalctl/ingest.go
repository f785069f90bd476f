package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hackeval/idea-evaluator/internal/config"
)

var (
	ingestFile string
	ingestTeam string
	ingestWeek int
)

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Path to the deck PDF")
	ingestCmd.Flags().StringVar(&ingestTeam, "team", "", "Team name")
	ingestCmd.Flags().IntVar(&ingestWeek, "week", 0, "Submission week")
	ingestCmd.MarkFlagRequired("file")
	ingestCmd.MarkFlagRequired("team")
	ingestCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Classify a deck into section chunks and index them",
	Long: `Extract per-page text from a deck PDF, classify pages into the five
section categories, and index the chunks for similarity search.
Chunks already indexed for the same submission and week are skipped.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestWeek <= 0 {
		exitWithError(ExitInputError, "week must be a positive integer")
	}
	if _, err := os.Stat(ingestFile); err != nil {
		exitWithError(ExitInputError, fmt.Sprintf("file not found: %s", ingestFile))
	}

	cfg := config.Load()
	c, err := buildCore(cfg)
	if err != nil {
		exitWithError(ExitError, err.Error())
	}

	result, err := c.pipeline.Ingest(context.Background(), ingestFile, ingestTeam, ingestWeek)
	if err != nil {
		exitWithError(ExitDataError, fmt.Sprintf("ingestion failed: %v", err))
	}

	return outputJSON(result)
}
