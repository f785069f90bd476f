package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hackeval/idea-evaluator/internal/config"
	"hackeval/idea-evaluator/internal/repositories"
	"hackeval/idea-evaluator/internal/services"
)

var (
	rankOut string
	rankTop int
)

func init() {
	rankCmd.Flags().StringVar(&rankOut, "out", "ranked_results.csv", "Output CSV path")
	rankCmd.Flags().IntVar(&rankTop, "top", 300, "Keep only the top N results (0 = all)")
	rootCmd.AddCommand(rankCmd)
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Export ranked evaluation results as CSV",
	Long: `Load completed evaluations from the database, dedupe by submission id,
sort by total score descending, and write the top N as CSV.`,
	RunE: runRank,
}

// RankSummary is the JSON response for the rank command.
type RankSummary struct {
	Written int    `json:"written"`
	Path    string `json:"path"`
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		exitWithError(ExitError, fmt.Sprintf("database unavailable: %v", err))
	}

	rankingService := services.NewRankingService(repositories.NewEvaluationRepository(db))

	rows, err := rankingService.Rank(rankTop)
	if err != nil {
		exitWithError(ExitError, fmt.Sprintf("ranking failed: %v", err))
	}

	f, err := os.Create(rankOut)
	if err != nil {
		exitWithError(ExitInputError, fmt.Sprintf("cannot create output file: %v", err))
	}
	defer f.Close()

	if err := rankingService.WriteCSV(f, rows); err != nil {
		exitWithError(ExitError, fmt.Sprintf("writing CSV failed: %v", err))
	}

	return outputJSON(RankSummary{Written: len(rows), Path: rankOut})
}
