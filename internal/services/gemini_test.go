package services

import (
	"math"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare object",
			`{"score": 7, "reason": "ok"}`,
			`{"score": 7, "reason": "ok"}`,
		},
		{
			"fenced object",
			"```json\n{\"score\": 7}\n```",
			`{"score": 7}`,
		},
		{
			"surrounding prose",
			`Sure, here is the result: {"score": 7} Hope this helps!`,
			`{"score": 7}`,
		},
		{
			"no object at all",
			"plain text",
			"plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeVector(t *testing.T) {
	normalized := normalizeVector([]float32{3, 4})

	var sum float64
	for _, v := range normalized {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-6 {
		t.Errorf("norm = %v, want 1.0", math.Sqrt(sum))
	}
	if math.Abs(float64(normalized[0])-0.6) > 1e-6 || math.Abs(float64(normalized[1])-0.8) > 1e-6 {
		t.Errorf("normalized = %v, want [0.6 0.8]", normalized)
	}
}

func TestNormalizeVectorZeroVector(t *testing.T) {
	in := []float32{0, 0, 0}
	out := normalizeVector(in)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, v)
		}
	}
}
