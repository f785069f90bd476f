package services

import (
	"context"
	"fmt"

	"hackeval/idea-evaluator/internal/models"
)

// fakeGemini implements GeminiService for tests.
type fakeGemini struct {
	embedVec    []float32
	embedErr    error
	embedCalls  int
	scoreResp   *CriterionResponse
	scoreErr    error
	scoreCalls  int
	noveltyResp *NoveltyResponse
	noveltyErr  error
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedVec, nil
}

func (f *fakeGemini) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	out := make([][]float32, 0, len(texts))
	for range texts {
		vec, err := f.GenerateEmbedding(ctx, "")
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (f *fakeGemini) ScoreCriterion(ctx context.Context, prompt string) (*CriterionResponse, error) {
	f.scoreCalls++
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return f.scoreResp, nil
}

func (f *fakeGemini) JudgeNovelty(ctx context.Context, prompt string) (*NoveltyResponse, error) {
	if f.noveltyErr != nil {
		return nil, f.noveltyErr
	}
	return f.noveltyResp, nil
}

// fakeIndex implements VectorIndexService for tests. Upserted chunk
// keys become "existing", which lets ingestion idempotency be observed.
type fakeIndex struct {
	neighbors    []Neighbor
	queryErr     error
	chunks       []StoredChunk
	getErr       error
	ideaTexts    []string
	ideaErr      error
	ideaArgs     []string
	existing     map[string]bool
	existingErr  error
	upsertErr    error
	upsertedSets [][]models.SectionChunk
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{existing: map[string]bool{}}
}

func (f *fakeIndex) InitCollection() error { return nil }

func (f *fakeIndex) UpsertChunks(ctx context.Context, chunks []models.SectionChunk, embeddings [][]float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	f.upsertedSets = append(f.upsertedSets, chunks)
	for _, chunk := range chunks {
		f.existing[chunk.PointKey()] = true
	}
	return nil
}

func (f *fakeIndex) QueryNearest(ctx context.Context, embedding []float32, limit int, section models.Section, excludeSubmissionID string) ([]Neighbor, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.neighbors, nil
}

func (f *fakeIndex) GetChunksBySubmission(ctx context.Context, submissionID string) ([]StoredChunk, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.chunks, nil
}

func (f *fakeIndex) GetIdeaTexts(ctx context.Context, submissionIDs []string) ([]string, error) {
	f.ideaArgs = submissionIDs
	if f.ideaErr != nil {
		return nil, f.ideaErr
	}
	return f.ideaTexts, nil
}

func (f *fakeIndex) ExistingPointKeys(ctx context.Context, chunks []models.SectionChunk) (map[string]bool, error) {
	if f.existingErr != nil {
		return nil, f.existingErr
	}
	out := make(map[string]bool, len(chunks))
	for _, chunk := range chunks {
		if f.existing[chunk.PointKey()] {
			out[chunk.PointKey()] = true
		}
	}
	return out, nil
}

// fakePDFParser implements PDFParserService for tests.
type fakePDFParser struct {
	pages []models.PageText
	err   error
}

func (f *fakePDFParser) ExtractPages(filepath string) ([]models.PageText, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

// storedChunksForAllSections builds one StoredChunk per section with
// placeholder-free text, for evaluator tests.
func storedChunksForAllSections(submissionID, teamName string, week int) []StoredChunk {
	chunks := make([]StoredChunk, 0, len(models.AllSections))
	for _, section := range models.AllSections {
		chunks = append(chunks, StoredChunk{
			SubmissionID: submissionID,
			TeamName:     teamName,
			Week:         week,
			Section:      section,
			PageRange:    "1",
			Text:         fmt.Sprintf("%s content", section),
		})
	}
	return chunks
}
