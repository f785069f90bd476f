package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hackeval/idea-evaluator/internal/config"
	"hackeval/idea-evaluator/internal/services"
)

var evaluateID string

func init() {
	evaluateCmd.Flags().StringVar(&evaluateID, "id", "", "Submission id to evaluate (must be ingested)")
	evaluateCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(evaluateCmd)
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an ingested submission against the rubric",
	Long: `Fetch the submission's persisted section chunks, score each rubric
criterion with the inference service, compute the similarity-adjusted
novelty score, and print the full evaluation report.

Fails if any of the five sections is missing; inference failures
degrade individual criteria to a neutral default instead of aborting.`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	c, err := buildCore(cfg)
	if err != nil {
		exitWithError(ExitError, err.Error())
	}

	report, err := c.evaluator.Evaluate(context.Background(), evaluateID)
	if err != nil {
		var missingErr *services.MissingSectionsError
		if errors.As(err, &missingErr) {
			exitWithError(ExitDataError, missingErr.Error())
		}
		exitWithError(ExitError, fmt.Sprintf("evaluation failed: %v", err))
	}

	return outputJSON(report)
}
