// Package main provides the evalctl CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hackeval/idea-evaluator/internal/config"
	"hackeval/idea-evaluator/internal/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "evalctl",
	Short: "Pitch-deck ingestion and rubric evaluation CLI",
	Long: `evalctl ingests pitch-deck PDFs, checks idea similarity against the
historical corpus, and scores ingested submissions with an LLM-backed
rubric.

Core commands:
  - ingest:     classify a deck into section chunks and index them
  - evaluate:   score an ingested submission against the rubric
  - similarity: read-only similarity check for a new deck
  - rank:       export ranked evaluation results as CSV

All commands output JSON for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}

// core bundles the services shared by the ingest, evaluate, and
// similarity commands. The relational database is not needed here; it
// only backs the HTTP API's job tracking and rankings.
type core struct {
	pipeline  services.PipelineService
	evaluator services.RubricEvaluatorService
}

func buildCore(cfg *config.Config) (*core, error) {
	taxonomy := services.DefaultTaxonomy()
	if cfg.Evaluator.TaxonomyPath != "" {
		var err error
		taxonomy, err = services.LoadTaxonomy(cfg.Evaluator.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("loading taxonomy: %w", err)
		}
	}

	classifier, err := services.NewSectionClassifier(taxonomy)
	if err != nil {
		return nil, fmt.Errorf("building classifier: %w", err)
	}

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Evaluator.MaxRetries,
		cfg.Evaluator.RequestTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("initializing gemini: %w", err)
	}

	indexService, err := services.NewQdrantIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		return nil, fmt.Errorf("initializing qdrant: %w", err)
	}

	if err := indexService.InitCollection(); err != nil {
		return nil, fmt.Errorf("initializing collection: %w", err)
	}

	engine := services.NewSimilarityEngine(geminiService, indexService)

	return &core{
		pipeline: services.NewPipelineService(
			services.NewPDFParserService(),
			classifier,
			services.NewChunkValidator(),
			engine,
			indexService,
		),
		evaluator: services.NewRubricEvaluatorService(geminiService, indexService, engine),
	}, nil
}
