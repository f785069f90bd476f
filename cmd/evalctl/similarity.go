package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hackeval/idea-evaluator/internal/config"
)

var (
	similarityFile string
	similarityTeam string
	similarityWeek int
)

func init() {
	similarityCmd.Flags().StringVar(&similarityFile, "file", "", "Path to the deck PDF")
	similarityCmd.Flags().StringVar(&similarityTeam, "team", "", "Team name")
	similarityCmd.Flags().IntVar(&similarityWeek, "week", 0, "Submission week")
	similarityCmd.MarkFlagRequired("file")
	similarityCmd.MarkFlagRequired("team")
	similarityCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(similarityCmd)
}

var similarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Read-only similarity check for a not-yet-ingested deck",
	Long: `Classify a deck and compare its idea_problem section against the
historical corpus without writing anything to the index. A deck with no
recognizable idea section yields the all-zero result.`,
	RunE: runSimilarity,
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	if similarityWeek <= 0 {
		exitWithError(ExitInputError, "week must be a positive integer")
	}
	if _, err := os.Stat(similarityFile); err != nil {
		exitWithError(ExitInputError, fmt.Sprintf("file not found: %s", similarityFile))
	}

	cfg := config.Load()
	c, err := buildCore(cfg)
	if err != nil {
		exitWithError(ExitError, err.Error())
	}

	result, err := c.pipeline.SimilarityCheck(context.Background(), similarityFile, similarityTeam, similarityWeek)
	if err != nil {
		exitWithError(ExitDataError, fmt.Sprintf("similarity check failed: %v", err))
	}

	return outputJSON(result)
}
