package models

// SimilarityResult summarizes how close a submission's idea is to the
// historical corpus. Computed fresh on every call, never cached.
type SimilarityResult struct {
	MaxSimilarity     float64  `json:"max_similarity"`
	AvgTop5Similarity float64  `json:"avg_top5_similarity"`
	Penalty           float64  `json:"penalty"`
	SimilarIDs        []string `json:"similar_submission_ids"`
}

// ZeroSimilarityResult is returned for degenerate input or any index
// failure so downstream scoring always receives a well-formed result.
func ZeroSimilarityResult() *SimilarityResult {
	return &SimilarityResult{SimilarIDs: []string{}}
}

// EvaluationReport is the terminal output of one evaluation.
type EvaluationReport struct {
	SubmissionID string             `json:"submission_id"`
	TeamName     string             `json:"team_name"`
	Week         int                `json:"week"`
	Scores       map[string]float64 `json:"scores"`
	TotalScore   float64            `json:"total_score"`
	Explanation  map[string]string  `json:"explanation"`
}
