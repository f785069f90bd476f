package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hackeval/idea-evaluator/internal/config"
	"hackeval/idea-evaluator/internal/services"
)

// Batch-ingests every deck PDF in a folder for one team/week. Decks
// already indexed are skipped chunk-by-chunk.
func main() {
	dir := flag.String("dir", "./decks", "Folder containing deck PDFs")
	team := flag.String("team", "", "Team name")
	week := flag.Int("week", 0, "Submission week")
	flag.Parse()

	if *team == "" || *week <= 0 {
		log.Fatal("❌ --team and a positive --week are required")
	}

	log.Println("🚀 Starting deck ingestion...")

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Evaluator.MaxRetries,
		cfg.Evaluator.RequestTimeout,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	indexService, err := services.NewQdrantIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := indexService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	taxonomy := services.DefaultTaxonomy()
	if cfg.Evaluator.TaxonomyPath != "" {
		taxonomy, err = services.LoadTaxonomy(cfg.Evaluator.TaxonomyPath)
		if err != nil {
			log.Fatalf("❌ Failed to load taxonomy: %v", err)
		}
	}

	classifier, err := services.NewSectionClassifier(taxonomy)
	if err != nil {
		log.Fatalf("❌ Failed to build classifier: %v", err)
	}

	engine := services.NewSimilarityEngine(geminiService, indexService)
	pipeline := services.NewPipelineService(
		services.NewPDFParserService(),
		classifier,
		services.NewChunkValidator(),
		engine,
		indexService,
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read folder: %v", err)
	}

	var decks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			decks = append(decks, filepath.Join(*dir, entry.Name()))
		}
	}

	if len(decks) == 0 {
		log.Fatalf("❌ No PDF files found in %s", *dir)
	}

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for _, deck := range decks {
		log.Printf("\n📄 Processing: %s", deck)

		result, err := pipeline.Ingest(ctx, deck, *team, *week)
		if err != nil {
			log.Printf("   ❌ Failed to ingest: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ %s: %d chunks (%d new)", result.SubmissionID, result.TotalChunks, result.NewChunks)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d decks", successCount)
	log.Printf("   ❌ Failed: %d decks", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some decks failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All decks ingested successfully!")
}
