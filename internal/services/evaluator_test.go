package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"hackeval/idea-evaluator/internal/models"
)

func newEvaluatorFixture(gemini *fakeGemini, index *fakeIndex) RubricEvaluatorService {
	engine := NewSimilarityEngine(gemini, index)
	return NewRubricEvaluatorService(gemini, index, engine)
}

func TestEvaluateFullReport(t *testing.T) {
	gemini := &fakeGemini{
		embedVec:    []float32{0.1, 0.2, 0.3},
		scoreResp:   &CriterionResponse{Score: 10, Reason: "strong"},
		noveltyResp: &NoveltyResponse{NoveltyCategory: "d", ScoreAdjustment: 0, Reason: "novel"},
	}
	index := newFakeIndex()
	index.chunks = storedChunksForAllSections("deck1", "alpha", 1)

	report, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if report.SubmissionID != "deck1" || report.TeamName != "alpha" || report.Week != 1 {
		t.Errorf("report identity = %s/%s/%d, want deck1/alpha/1",
			report.SubmissionID, report.TeamName, report.Week)
	}

	// Raw 10s clamp to the per-criterion maxima; no neighbors means
	// max similarity 0, so novelty is the full base of 8.0.
	wantScores := map[string]float64{
		"problem_clarity":       8.0,
		"solution_quality":      8.0,
		"technical_feasibility": 8.0,
		"team_capability":       7.0,
		"novelty":               8.0,
	}
	if !reflect.DeepEqual(report.Scores, wantScores) {
		t.Errorf("scores = %v, want %v", report.Scores, wantScores)
	}

	if report.TotalScore != 79.0 {
		t.Errorf("total score = %v, want 79.0", report.TotalScore)
	}

	if gemini.scoreCalls != len(rubricCriteria) {
		t.Errorf("criterion calls = %d, want %d", gemini.scoreCalls, len(rubricCriteria))
	}
	if report.Explanation["novelty"] != "novel" {
		t.Errorf("novelty explanation = %q, want %q", report.Explanation["novelty"], "novel")
	}
}

func TestEvaluateMissingSectionFails(t *testing.T) {
	gemini := &fakeGemini{
		embedVec:    []float32{0.1},
		scoreResp:   &CriterionResponse{Score: 5},
		noveltyResp: &NoveltyResponse{},
	}
	index := newFakeIndex()
	for _, chunk := range storedChunksForAllSections("deck1", "alpha", 1) {
		if chunk.Section == models.SectionTeamCapability {
			continue
		}
		index.chunks = append(index.chunks, chunk)
	}

	_, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1")
	if err == nil {
		t.Fatal("Evaluate() = nil error, want missing-section failure")
	}

	var missingErr *MissingSectionsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("error type = %T, want *MissingSectionsError", err)
	}
	if len(missingErr.Missing) != 1 || missingErr.Missing[0] != models.SectionTeamCapability {
		t.Errorf("missing = %v, want [team_capability]", missingErr.Missing)
	}
	if !strings.Contains(err.Error(), "team_capability") {
		t.Errorf("error %q does not name the missing section", err.Error())
	}

	// Precondition failure must happen before any inference call.
	if gemini.scoreCalls != 0 {
		t.Errorf("criterion calls = %d, want 0", gemini.scoreCalls)
	}
}

func TestEvaluateDegradesOnInferenceFailure(t *testing.T) {
	gemini := &fakeGemini{
		embedVec:   []float32{0.1, 0.2},
		scoreErr:   errors.New("quota exhausted"),
		noveltyErr: errors.New("quota exhausted"),
	}
	index := newFakeIndex()
	index.chunks = storedChunksForAllSections("deck1", "alpha", 1)

	report, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1")
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want degraded report", err)
	}

	for _, key := range []string{"problem_clarity", "solution_quality", "technical_feasibility", "team_capability"} {
		if report.Scores[key] != 0 {
			t.Errorf("score[%s] = %v, want 0", key, report.Scores[key])
		}
		if report.Explanation[key] != evaluatorFailReason {
			t.Errorf("explanation[%s] = %q, want %q", key, report.Explanation[key], evaluatorFailReason)
		}
	}

	// Novelty keeps its similarity-derived base with a zero adjustment.
	if report.Scores["novelty"] != 8.0 {
		t.Errorf("novelty = %v, want 8.0", report.Scores["novelty"])
	}
	if report.Explanation["novelty"] != evaluatorFailReason {
		t.Errorf("novelty explanation = %q, want %q", report.Explanation["novelty"], evaluatorFailReason)
	}
	if report.TotalScore != 32.0 {
		t.Errorf("total score = %v, want 32.0", report.TotalScore)
	}
}

func TestEvaluateNoveltyAdjustmentClamped(t *testing.T) {
	tests := []struct {
		name       string
		adjustment int
		want       float64
	}{
		{"positive overshoot clamps to +2", 5, 6.0},
		{"negative overshoot clamps to -2", -9, 2.0},
		{"in-range passes through", 1, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gemini := &fakeGemini{
				embedVec:    []float32{0.1, 0.2},
				scoreResp:   &CriterionResponse{Score: 5, Reason: "ok"},
				noveltyResp: &NoveltyResponse{ScoreAdjustment: tt.adjustment, Reason: "judged"},
			}
			index := newFakeIndex()
			index.chunks = storedChunksForAllSections("deck1", "alpha", 1)
			// Max similarity 0.5 gives a novelty base of 4.0.
			index.neighbors = []Neighbor{{SubmissionID: "other", Distance: 0.5}}
			index.ideaTexts = []string{"an older idea"}

			report, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1")
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}

			if report.Scores["novelty"] != tt.want {
				t.Errorf("novelty = %v, want %v", report.Scores["novelty"], tt.want)
			}
		})
	}
}

func TestEvaluateNoveltyCappedAtTen(t *testing.T) {
	gemini := &fakeGemini{
		embedVec:    []float32{0.1},
		scoreResp:   &CriterionResponse{Score: 5},
		noveltyResp: &NoveltyResponse{ScoreAdjustment: 2},
	}
	index := newFakeIndex()
	index.chunks = storedChunksForAllSections("deck1", "alpha", 1)

	report, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// Base 8.0 plus adjustment +2 would be 10.0 exactly, the ceiling.
	if report.Scores["novelty"] != 10.0 {
		t.Errorf("novelty = %v, want 10.0", report.Scores["novelty"])
	}
}

func TestEvaluateSimilarContextLimitedToThree(t *testing.T) {
	gemini := &fakeGemini{
		embedVec:    []float32{0.1},
		scoreResp:   &CriterionResponse{Score: 5},
		noveltyResp: &NoveltyResponse{ScoreAdjustment: 0},
	}
	index := newFakeIndex()
	index.chunks = storedChunksForAllSections("deck1", "alpha", 1)
	index.neighbors = []Neighbor{
		{SubmissionID: "n1", Distance: 0.1},
		{SubmissionID: "n2", Distance: 0.2},
		{SubmissionID: "n3", Distance: 0.3},
		{SubmissionID: "n4", Distance: 0.4},
		{SubmissionID: "n5", Distance: 0.5},
	}
	index.ideaTexts = []string{"a", "b", "c"}

	if _, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1"); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	wantIDs := []string{"n1", "n2", "n3"}
	if !reflect.DeepEqual(index.ideaArgs, wantIDs) {
		t.Errorf("idea text lookup ids = %v, want %v", index.ideaArgs, wantIDs)
	}
}

func TestEvaluateEmbedFailureYieldsZeroSimilarity(t *testing.T) {
	gemini := &fakeGemini{
		embedErr:    errors.New("embedding service down"),
		scoreResp:   &CriterionResponse{Score: 5},
		noveltyResp: &NoveltyResponse{ScoreAdjustment: 0},
	}
	index := newFakeIndex()
	index.chunks = storedChunksForAllSections("deck1", "alpha", 1)
	index.neighbors = []Neighbor{{SubmissionID: "other", Distance: 0.1}}

	report, err := newEvaluatorFixture(gemini, index).Evaluate(context.Background(), "deck1")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// Without an embedding the similarity stats fall back to zero, so
	// the neighbor above never influences the base.
	if report.Scores["novelty"] != 8.0 {
		t.Errorf("novelty = %v, want 8.0", report.Scores["novelty"])
	}
}
