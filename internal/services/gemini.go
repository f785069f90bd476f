package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"google.golang.org/genai"
)

// CriterionResponse is the structured payload expected from a rubric
// scoring request.
type CriterionResponse struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// NoveltyResponse is the structured payload expected from a novelty
// judgment request.
type NoveltyResponse struct {
	NoveltyCategory string `json:"novelty_category"`
	ScoreAdjustment int    `json:"score_adjustment"`
	Reason          string `json:"reason"`
}

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	ScoreCriterion(ctx context.Context, prompt string) (*CriterionResponse, error)
	JudgeNovelty(ctx context.Context, prompt string) (*NoveltyResponse, error)
}

type geminiService struct {
	client         *genai.Client
	modelName      string
	embedModel     string
	maxRetries     int
	requestTimeout time.Duration
}

func NewGeminiService(apiKey, model, embedModel string, maxRetries int, requestTimeout time.Duration) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:         client,
		modelName:      model,
		embedModel:     embedModel,
		maxRetries:     maxRetries,
		requestTimeout: requestTimeout,
	}, nil
}

var criterionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":  {Type: genai.TypeInteger},
		"reason": {Type: genai.TypeString},
	},
	Required: []string{"score", "reason"},
}

var noveltySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"novelty_category": {Type: genai.TypeString, Enum: []string{"a", "b", "c", "d"}},
		"score_adjustment": {Type: genai.TypeInteger},
		"reason":           {Type: genai.TypeString},
	},
	Required: []string{"novelty_category", "score_adjustment", "reason"},
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return normalizeVector(result.Embeddings[0].Values), nil
}

// GenerateEmbeddings implements GeminiService. Order-preserving; an
// empty input yields an empty output without any API call.
func (g *geminiService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		embedding, err := g.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		embeddings = append(embeddings, embedding)
	}

	return embeddings, nil
}

// ScoreCriterion implements GeminiService.
func (g *geminiService) ScoreCriterion(ctx context.Context, prompt string) (*CriterionResponse, error) {
	var result CriterionResponse
	if err := g.generateStructuredWithRetry(ctx, prompt, criterionSchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// JudgeNovelty implements GeminiService.
func (g *geminiService) JudgeNovelty(ctx context.Context, prompt string) (*NoveltyResponse, error) {
	var result NoveltyResponse
	if err := g.generateStructuredWithRetry(ctx, prompt, noveltySchema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// generateStructuredWithRetry issues a structured-output request with a
// bounded number of attempts. Each attempt carries its own timeout; an
// HTTP failure, empty response, or non-JSON payload discards the
// attempt and retries.
func (g *geminiService) generateStructuredWithRetry(ctx context.Context, prompt string, schema *genai.Schema, target interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		err := g.generateStructured(ctx, prompt, schema, target)
		if err == nil {
			return nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *geminiService) generateStructured(ctx context.Context, prompt string, schema *genai.Schema, target interface{}) error {
	attemptCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	temperature := float32(0.1)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  2048,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := g.client.Models.GenerateContent(attemptCtx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return fmt.Errorf("no text content in response")
	}

	if err := json.Unmarshal([]byte(extractJSON(text)), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON strips markdown fences and surrounding prose a model may
// wrap around a JSON object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// normalizeVector rescales an embedding to unit L2 norm so cosine
// similarity reduces to a dot product.
func normalizeVector(values []float32) []float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		return values
	}

	normalized := make([]float32, len(values))
	for i, v := range values {
		normalized[i] = float32(float64(v) / norm)
	}
	return normalized
}
