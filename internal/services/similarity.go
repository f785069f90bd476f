package services

import (
	"context"
	"log"
	"sort"

	"hackeval/idea-evaluator/internal/models"
)

type SimilarityEngine interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	UpsertChunks(ctx context.Context, chunks []models.SectionChunk, embeddings [][]float32) error
	ComputeInternalSimilarity(ctx context.Context, embedding []float32, excludeSubmissionID string) *models.SimilarityResult
}

type similarityEngine struct {
	gemini GeminiService
	index  VectorIndexService
}

func NewSimilarityEngine(gemini GeminiService, index VectorIndexService) SimilarityEngine {
	return &similarityEngine{
		gemini: gemini,
		index:  index,
	}
}

// Embed implements SimilarityEngine.
func (e *similarityEngine) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.gemini.GenerateEmbeddings(ctx, texts)
}

// UpsertChunks implements SimilarityEngine.
func (e *similarityEngine) UpsertChunks(ctx context.Context, chunks []models.SectionChunk, embeddings [][]float32) error {
	return e.index.UpsertChunks(ctx, chunks, embeddings)
}

// ComputeInternalSimilarity implements SimilarityEngine. It compares
// the embedding against historical idea_problem chunks of other
// submissions and reduces the neighbor distances to a bounded penalty.
// Any index failure, including an index with no data yet, yields the
// all-zero result: downstream scoring must always receive a well-formed
// result.
func (e *similarityEngine) ComputeInternalSimilarity(ctx context.Context, embedding []float32, excludeSubmissionID string) *models.SimilarityResult {
	if len(embedding) == 0 {
		return models.ZeroSimilarityResult()
	}

	neighbors, err := e.index.QueryNearest(ctx, embedding, 10, models.SectionIdeaProblem, excludeSubmissionID)
	if err != nil {
		log.Printf("⚠️ Similarity query failed, returning zero result: %v\n", err)
		return models.ZeroSimilarityResult()
	}

	if len(neighbors) == 0 {
		return models.ZeroSimilarityResult()
	}

	similarities := make([]float64, 0, len(neighbors))
	similarIDs := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		similarities = append(similarities, clamp01(1.0-n.Distance))
		// Keep the index's return order, do not re-sort.
		similarIDs = append(similarIDs, n.SubmissionID)
	}

	maxSim := similarities[0]
	for _, s := range similarities[1:] {
		if s > maxSim {
			maxSim = s
		}
	}

	sorted := append([]float64(nil), similarities...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	top5 := sorted
	if len(top5) > 5 {
		top5 = top5[:5]
	}

	var sum float64
	for _, s := range top5 {
		sum += s
	}
	avgTop5 := sum / float64(len(top5))

	return &models.SimilarityResult{
		MaxSimilarity:     maxSim,
		AvgTop5Similarity: avgTop5,
		Penalty:           similarityPenalty(maxSim),
		SimilarIDs:        similarIDs,
	}
}

// similarityPenalty maps maximum observed similarity to its discrete
// penalty tier. Boundaries are inclusive: 0.85 and 0.70 land in the
// higher tier.
func similarityPenalty(maxSim float64) float64 {
	switch {
	case maxSim >= 0.85:
		return 0.25
	case maxSim >= 0.70:
		return 0.15
	default:
		return 0.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
