package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"hackeval/idea-evaluator/internal/models"
)

// PipelineService sequences extraction, classification, and validation,
// and drives ingestion and read-only similarity checks.
type PipelineService interface {
	ProcessDocument(path, teamName string, week int) ([]models.SectionChunk, error)
	Ingest(ctx context.Context, path, teamName string, week int) (*models.IngestResponse, error)
	SimilarityCheck(ctx context.Context, path, teamName string, week int) (*models.SimilarityResult, error)
}

type pipelineService struct {
	pdfParser  PDFParserService
	classifier SectionClassifier
	validator  ChunkValidator
	engine     SimilarityEngine
	index      VectorIndexService
}

func NewPipelineService(
	pdfParser PDFParserService,
	classifier SectionClassifier,
	validator ChunkValidator,
	engine SimilarityEngine,
	index VectorIndexService,
) PipelineService {
	return &pipelineService{
		pdfParser:  pdfParser,
		classifier: classifier,
		validator:  validator,
		engine:     engine,
		index:      index,
	}
}

// ProcessDocument implements PipelineService. The submission id is the
// deck's filename stem.
func (p *pipelineService) ProcessDocument(path, teamName string, week int) ([]models.SectionChunk, error) {
	pages, err := p.pdfParser.ExtractPages(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract pages: %w", err)
	}

	submissionID := SubmissionIDFromPath(path)
	chunks := p.classifier.BuildChunks(pages, submissionID, teamName, week)

	for i := range chunks {
		if err := p.validator.Validate(&chunks[i]); err != nil {
			return nil, fmt.Errorf("chunk validation failed for section %s: %w", chunks[i].Section, err)
		}
	}

	return chunks, nil
}

// Ingest implements PipelineService. Chunks already present in the
// index (same submission, section, and week) are skipped, so ingesting
// the same deck twice embeds nothing on the second run.
func (p *pipelineService) Ingest(ctx context.Context, path, teamName string, week int) (*models.IngestResponse, error) {
	chunks, err := p.ProcessDocument(path, teamName, week)
	if err != nil {
		return nil, err
	}

	existing, err := p.index.ExistingPointKeys(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing chunks: %w", err)
	}

	var newChunks []models.SectionChunk
	for _, chunk := range chunks {
		if !existing[chunk.PointKey()] {
			newChunks = append(newChunks, chunk)
		}
	}

	resp := &models.IngestResponse{
		SubmissionID: chunks[0].SubmissionID,
		TeamName:     teamName,
		Week:         week,
		TotalChunks:  len(chunks),
		NewChunks:    len(newChunks),
	}

	if len(newChunks) == 0 {
		log.Printf("✅ All chunks for %s already indexed, skipping\n", resp.SubmissionID)
		return resp, nil
	}

	texts := make([]string, len(newChunks))
	for i, chunk := range newChunks {
		texts[i] = chunk.Text
	}

	log.Printf("🔄 Embedding %d new chunks for %s...\n", len(newChunks), resp.SubmissionID)
	embeddings, err := p.engine.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	if err := p.engine.UpsertChunks(ctx, newChunks, embeddings); err != nil {
		return nil, fmt.Errorf("failed to upsert chunks: %w", err)
	}

	log.Printf("✅ Stored %d chunks for %s\n", len(newChunks), resp.SubmissionID)
	return resp, nil
}

// SimilarityCheck implements PipelineService. Read-only: the deck is
// classified and its idea embedded, but nothing is written to the index.
func (p *pipelineService) SimilarityCheck(ctx context.Context, path, teamName string, week int) (*models.SimilarityResult, error) {
	chunks, err := p.ProcessDocument(path, teamName, week)
	if err != nil {
		return nil, err
	}

	var ideaChunk *models.SectionChunk
	for i := range chunks {
		if chunks[i].Section == models.SectionIdeaProblem {
			ideaChunk = &chunks[i]
			break
		}
	}

	if ideaChunk == nil || strings.TrimSpace(ideaChunk.Text) == "" || ideaChunk.Text == models.PlaceholderText {
		return models.ZeroSimilarityResult(), nil
	}

	embeddings, err := p.engine.Embed(ctx, []string{ideaChunk.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed idea text: %w", err)
	}
	if len(embeddings) == 0 {
		return models.ZeroSimilarityResult(), nil
	}

	return p.engine.ComputeInternalSimilarity(ctx, embeddings[0], ideaChunk.SubmissionID), nil
}

// SubmissionIDFromPath derives the submission id from a deck path: the
// base filename without its extension.
func SubmissionIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
