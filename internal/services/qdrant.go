package services

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"hackeval/idea-evaluator/internal/models"
)

// Neighbor is one nearest-neighbor hit. Distance is cosine distance
// (1 - cosine similarity), matching the engine's conversion contract.
type Neighbor struct {
	SubmissionID string
	Distance     float64
	Text         string
}

// StoredChunk is a section chunk read back from the index together with
// its payload metadata.
type StoredChunk struct {
	SubmissionID string
	TeamName     string
	Week         int
	Section      models.Section
	PageRange    string
	Text         string
}

type VectorIndexService interface {
	InitCollection() error
	UpsertChunks(ctx context.Context, chunks []models.SectionChunk, embeddings [][]float32) error
	QueryNearest(ctx context.Context, embedding []float32, limit int, section models.Section, excludeSubmissionID string) ([]Neighbor, error)
	GetChunksBySubmission(ctx context.Context, submissionID string) ([]StoredChunk, error)
	GetIdeaTexts(ctx context.Context, submissionIDs []string) ([]string, error)
	ExistingPointKeys(ctx context.Context, chunks []models.SectionChunk) (map[string]bool, error)
}

type qdrantIndexService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantIndexService(urlStr, apiKey, collectionName string) (VectorIndexService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndexService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements VectorIndexService.
func (q *qdrantIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertChunks implements VectorIndexService. Point IDs are derived
// deterministically from (submission_id, section, week), so re-upserting
// the same chunk overwrites rather than duplicates. No-op on empty input.
func (q *qdrantIndexService) UpsertChunks(ctx context.Context, chunks []models.SectionChunk, embeddings [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}

	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		pageRange := ""
		if chunk.PageRange != nil {
			pageRange = *chunk.PageRange
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(pointIDNum(chunk.PointKey())),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"submission_id": chunk.SubmissionID,
				"team_name":     chunk.TeamName,
				"section":       string(chunk.Section),
				"week":          chunk.Week,
				"page_range":    pageRange,
				"text":          chunk.Text,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// QueryNearest implements VectorIndexService. Results come back in
// qdrant's order, which is descending by similarity.
func (q *qdrantIndexService) QueryNearest(ctx context.Context, embedding []float32, limit int, section models.Section, excludeSubmissionID string) ([]Neighbor, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("section", string(section)),
		},
		MustNot: []*qdrant.Condition{
			qdrant.NewMatch("submission_id", excludeSubmissionID),
		},
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	neighbors := make([]Neighbor, 0, len(searchResult))
	for _, point := range searchResult {
		neighbors = append(neighbors, Neighbor{
			SubmissionID: payloadString(point.Payload, "submission_id"),
			Distance:     1.0 - float64(point.Score),
			Text:         payloadString(point.Payload, "text"),
		})
	}

	return neighbors, nil
}

// GetChunksBySubmission implements VectorIndexService.
func (q *qdrantIndexService) GetChunksBySubmission(ctx context.Context, submissionID string) ([]StoredChunk, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("submission_id", submissionID),
		},
	}

	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.collectionName,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(64)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chunks: %w", err)
	}

	chunks := make([]StoredChunk, 0, len(points))
	for _, point := range points {
		chunks = append(chunks, storedChunkFromPayload(point.Payload))
	}

	return chunks, nil
}

// GetIdeaTexts implements VectorIndexService. Batch lookup of the
// idea_problem texts of the given submissions.
func (q *qdrantIndexService) GetIdeaTexts(ctx context.Context, submissionIDs []string) ([]string, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("section", string(models.SectionIdeaProblem)),
			qdrant.NewMatchKeywords("submission_id", submissionIDs...),
		},
	}

	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.collectionName,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(len(submissionIDs))),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch idea texts: %w", err)
	}

	texts := make([]string, 0, len(points))
	for _, point := range points {
		if text := payloadString(point.Payload, "text"); text != "" {
			texts = append(texts, text)
		}
	}

	return texts, nil
}

// ExistingPointKeys implements VectorIndexService. Returns the set of
// identity keys among the given chunks that are already indexed.
func (q *qdrantIndexService) ExistingPointKeys(ctx context.Context, chunks []models.SectionChunk) (map[string]bool, error) {
	if len(chunks) == 0 {
		return map[string]bool{}, nil
	}

	keyByNum := make(map[uint64]string, len(chunks))
	ids := make([]*qdrant.PointId, 0, len(chunks))
	for _, chunk := range chunks {
		key := chunk.PointKey()
		num := pointIDNum(key)
		keyByNum[num] = key
		ids = append(ids, qdrant.NewIDNum(num))
	}

	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collectionName,
		Ids:            ids,
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing points: %w", err)
	}

	existing := make(map[string]bool, len(points))
	for _, point := range points {
		if key, ok := keyByNum[point.Id.GetNum()]; ok {
			existing[key] = true
		}
	}

	return existing, nil
}

// pointIDNum derives a stable numeric point ID from a chunk identity key.
func pointIDNum(key string) uint64 {
	sum := sha1.Sum([]byte(key))
	return binary.BigEndian.Uint64(sum[:8])
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if value, ok := payload[key]; ok {
		if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}

func payloadInt(payload map[string]*qdrant.Value, key string) int {
	if value, ok := payload[key]; ok {
		if val, ok := value.GetKind().(*qdrant.Value_IntegerValue); ok {
			return int(val.IntegerValue)
		}
	}
	return 0
}

func storedChunkFromPayload(payload map[string]*qdrant.Value) StoredChunk {
	return StoredChunk{
		SubmissionID: payloadString(payload, "submission_id"),
		TeamName:     payloadString(payload, "team_name"),
		Week:         payloadInt(payload, "week"),
		Section:      models.Section(payloadString(payload, "section")),
		PageRange:    payloadString(payload, "page_range"),
		Text:         payloadString(payload, "text"),
	}
}
