package services

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"hackeval/idea-evaluator/internal/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertZeroResult(t *testing.T, result *models.SimilarityResult) {
	t.Helper()
	if result.MaxSimilarity != 0 || result.AvgTop5Similarity != 0 || result.Penalty != 0 {
		t.Errorf("result = %+v, want all-zero", result)
	}
	if len(result.SimilarIDs) != 0 {
		t.Errorf("similar ids = %v, want empty", result.SimilarIDs)
	}
}

func TestSimilarityPenaltyTiers(t *testing.T) {
	tests := []struct {
		maxSim float64
		want   float64
	}{
		{1.0, 0.25},
		{0.86, 0.25},
		{0.85, 0.25}, // boundary is inclusive
		{0.8499, 0.15},
		{0.70, 0.15}, // boundary is inclusive
		{0.6999, 0.0},
		{0.5, 0.0},
		{0.0, 0.0},
	}

	for _, tt := range tests {
		if got := similarityPenalty(tt.maxSim); got != tt.want {
			t.Errorf("similarityPenalty(%v) = %v, want %v", tt.maxSim, got, tt.want)
		}
	}
}

func TestComputeInternalSimilarityEmptyEmbedding(t *testing.T) {
	index := newFakeIndex()
	index.neighbors = []Neighbor{{SubmissionID: "other", Distance: 0.1}}
	engine := NewSimilarityEngine(&fakeGemini{}, index)

	result := engine.ComputeInternalSimilarity(context.Background(), nil, "deck1")
	assertZeroResult(t, result)
}

func TestComputeInternalSimilarityQueryErrorSwallowed(t *testing.T) {
	index := newFakeIndex()
	index.queryErr = errors.New("collection not found")
	engine := NewSimilarityEngine(&fakeGemini{}, index)

	result := engine.ComputeInternalSimilarity(context.Background(), []float32{0.1, 0.2}, "deck1")
	assertZeroResult(t, result)
}

func TestComputeInternalSimilarityNoNeighbors(t *testing.T) {
	engine := NewSimilarityEngine(&fakeGemini{}, newFakeIndex())

	result := engine.ComputeInternalSimilarity(context.Background(), []float32{0.1, 0.2}, "deck1")
	assertZeroResult(t, result)
}

func TestComputeInternalSimilarityStats(t *testing.T) {
	index := newFakeIndex()
	index.neighbors = []Neighbor{
		{SubmissionID: "n1", Distance: 0.1}, // sim 0.9
		{SubmissionID: "n2", Distance: 0.2}, // sim 0.8
		{SubmissionID: "n3", Distance: 0.4}, // sim 0.6
		{SubmissionID: "n4", Distance: 0.5}, // sim 0.5
		{SubmissionID: "n5", Distance: 0.6}, // sim 0.4
		{SubmissionID: "n6", Distance: 0.7}, // sim 0.3
		{SubmissionID: "n7", Distance: 0.9}, // sim 0.1
	}
	engine := NewSimilarityEngine(&fakeGemini{}, index)

	result := engine.ComputeInternalSimilarity(context.Background(), []float32{0.1, 0.2}, "deck1")

	if !approx(result.MaxSimilarity, 0.9) {
		t.Errorf("max similarity = %v, want 0.9", result.MaxSimilarity)
	}
	// Top-5 of {0.9 0.8 0.6 0.5 0.4 0.3 0.1}.
	if want := (0.9 + 0.8 + 0.6 + 0.5 + 0.4) / 5; !approx(result.AvgTop5Similarity, want) {
		t.Errorf("avg top-5 = %v, want %v", result.AvgTop5Similarity, want)
	}
	if result.Penalty != 0.25 {
		t.Errorf("penalty = %v, want 0.25", result.Penalty)
	}
	wantIDs := []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7"}
	if !reflect.DeepEqual(result.SimilarIDs, wantIDs) {
		t.Errorf("similar ids = %v, want index order %v", result.SimilarIDs, wantIDs)
	}
}

func TestComputeInternalSimilarityFewerThanFiveNeighbors(t *testing.T) {
	index := newFakeIndex()
	index.neighbors = []Neighbor{
		{SubmissionID: "n1", Distance: 0.25}, // sim 0.75
		{SubmissionID: "n2", Distance: 0.5},  // sim 0.5
	}
	engine := NewSimilarityEngine(&fakeGemini{}, index)

	result := engine.ComputeInternalSimilarity(context.Background(), []float32{0.1, 0.2}, "deck1")

	if want := (0.75 + 0.5) / 2; !approx(result.AvgTop5Similarity, want) {
		t.Errorf("avg top-5 = %v, want %v", result.AvgTop5Similarity, want)
	}
	if result.Penalty != 0.15 {
		t.Errorf("penalty = %v, want 0.15", result.Penalty)
	}
}

func TestComputeInternalSimilarityClampsSimilarity(t *testing.T) {
	index := newFakeIndex()
	index.neighbors = []Neighbor{
		{SubmissionID: "n1", Distance: -0.5}, // clamped to sim 1.0
		{SubmissionID: "n2", Distance: 2.0},  // clamped to sim 0.0
	}
	engine := NewSimilarityEngine(&fakeGemini{}, index)

	result := engine.ComputeInternalSimilarity(context.Background(), []float32{0.1, 0.2}, "deck1")

	if result.MaxSimilarity != 1.0 {
		t.Errorf("max similarity = %v, want 1.0", result.MaxSimilarity)
	}
	if !approx(result.AvgTop5Similarity, 0.5) {
		t.Errorf("avg top-5 = %v, want 0.5", result.AvgTop5Similarity)
	}
}
