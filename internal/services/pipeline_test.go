package services

import (
	"context"
	"strings"
	"testing"

	"hackeval/idea-evaluator/internal/models"
)

func deckPages() []models.PageText {
	return []models.PageText{
		{PageNumber: 1, Text: "Problem Statement: farmers cannot reach buyers"},
		{PageNumber: 2, Text: "Our solution connects them through a shared market board"},
		{PageNumber: 3, Text: "Unlike existing apps we work fully offline"},
		{PageNumber: 4, Text: "Tech Stack: Go, Postgres, Qdrant"},
		{PageNumber: 5, Text: "Our team has shipped two marketplaces before"},
	}
}

func newPipelineFixture(t *testing.T, parser PDFParserService, gemini *fakeGemini, index *fakeIndex) PipelineService {
	t.Helper()
	classifier := mustClassifier(t)
	engine := NewSimilarityEngine(gemini, index)
	return NewPipelineService(parser, classifier, NewChunkValidator(), engine, index)
}

func TestIngestIsIdempotent(t *testing.T) {
	parser := &fakePDFParser{pages: deckPages()}
	gemini := &fakeGemini{embedVec: []float32{0.1, 0.2}}
	index := newFakeIndex()
	pipeline := newPipelineFixture(t, parser, gemini, index)

	ctx := context.Background()

	first, err := pipeline.Ingest(ctx, "/decks/team_alpha_week1.pdf", "alpha", 1)
	if err != nil {
		t.Fatalf("first Ingest() error = %v", err)
	}
	if first.SubmissionID != "team_alpha_week1" {
		t.Errorf("submission id = %s, want team_alpha_week1", first.SubmissionID)
	}
	if first.TotalChunks != 5 || first.NewChunks != 5 {
		t.Errorf("first run chunks = %d total / %d new, want 5/5", first.TotalChunks, first.NewChunks)
	}
	if gemini.embedCalls != 5 {
		t.Errorf("embed calls after first run = %d, want 5", gemini.embedCalls)
	}

	second, err := pipeline.Ingest(ctx, "/decks/team_alpha_week1.pdf", "alpha", 1)
	if err != nil {
		t.Fatalf("second Ingest() error = %v", err)
	}
	if second.TotalChunks != 5 || second.NewChunks != 0 {
		t.Errorf("second run chunks = %d total / %d new, want 5/0", second.TotalChunks, second.NewChunks)
	}
	if gemini.embedCalls != 5 {
		t.Errorf("embed calls after second run = %d, want no new embeddings", gemini.embedCalls)
	}
	if len(index.upsertedSets) != 1 {
		t.Errorf("upsert batches = %d, want 1", len(index.upsertedSets))
	}
}

func TestIngestSameDeckNewWeekIsNew(t *testing.T) {
	parser := &fakePDFParser{pages: deckPages()}
	gemini := &fakeGemini{embedVec: []float32{0.1}}
	index := newFakeIndex()
	pipeline := newPipelineFixture(t, parser, gemini, index)

	ctx := context.Background()

	if _, err := pipeline.Ingest(ctx, "/decks/deck.pdf", "alpha", 1); err != nil {
		t.Fatalf("week 1 Ingest() error = %v", err)
	}

	resp, err := pipeline.Ingest(ctx, "/decks/deck.pdf", "alpha", 2)
	if err != nil {
		t.Fatalf("week 2 Ingest() error = %v", err)
	}
	if resp.NewChunks != 5 {
		t.Errorf("week 2 new chunks = %d, want 5 (week is part of the chunk key)", resp.NewChunks)
	}
}

func TestProcessDocumentValidationFailure(t *testing.T) {
	parser := &fakePDFParser{pages: deckPages()}
	pipeline := newPipelineFixture(t, parser, &fakeGemini{}, newFakeIndex())

	_, err := pipeline.ProcessDocument("/decks/deck.pdf", "", 1)
	if err == nil {
		t.Fatal("ProcessDocument() = nil error, want validation failure")
	}
	if !strings.Contains(err.Error(), "team_name") {
		t.Errorf("error %q does not name team_name", err.Error())
	}
}

func TestSimilarityCheckWithoutIdeaSection(t *testing.T) {
	parser := &fakePDFParser{pages: []models.PageText{
		{PageNumber: 1, Text: "Our team and our solution, nothing about the actual concept"},
	}}
	gemini := &fakeGemini{embedVec: []float32{0.1}}
	index := newFakeIndex()
	index.neighbors = []Neighbor{{SubmissionID: "other", Distance: 0.1}}
	pipeline := newPipelineFixture(t, parser, gemini, index)

	result, err := pipeline.SimilarityCheck(context.Background(), "/decks/deck.pdf", "alpha", 1)
	if err != nil {
		t.Fatalf("SimilarityCheck() error = %v", err)
	}

	assertZeroResult(t, result)
	if gemini.embedCalls != 0 {
		t.Errorf("embed calls = %d, want 0 for a deck without an idea section", gemini.embedCalls)
	}
}

func TestSimilarityCheckDoesNotWrite(t *testing.T) {
	parser := &fakePDFParser{pages: deckPages()}
	gemini := &fakeGemini{embedVec: []float32{0.1, 0.2}}
	index := newFakeIndex()
	index.neighbors = []Neighbor{{SubmissionID: "other", Distance: 0.2}}
	pipeline := newPipelineFixture(t, parser, gemini, index)

	result, err := pipeline.SimilarityCheck(context.Background(), "/decks/deck.pdf", "alpha", 1)
	if err != nil {
		t.Fatalf("SimilarityCheck() error = %v", err)
	}

	if !approx(result.MaxSimilarity, 0.8) {
		t.Errorf("max similarity = %v, want 0.8", result.MaxSimilarity)
	}
	if len(index.upsertedSets) != 0 {
		t.Errorf("upsert batches = %d, want 0 for a read-only check", len(index.upsertedSets))
	}
}

func TestSubmissionIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/decks/team_alpha_week1.pdf", "team_alpha_week1"},
		{"deck.pdf", "deck"},
		{"/a/b/idea.v2.pdf", "idea.v2"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		if got := SubmissionIDFromPath(tt.path); got != tt.want {
			t.Errorf("SubmissionIDFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
