package models

type IngestResponse struct {
	SubmissionID string `json:"submission_id"`
	TeamName     string `json:"team_name"`
	Week         int    `json:"week"`
	TotalChunks  int    `json:"total_chunks"`
	NewChunks    int    `json:"new_chunks"`
}

type EvaluateRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	SubmissionID string            `json:"submission_id"`
	Status       string            `json:"status"`
	Result       *EvaluationReport `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}

type RankedResult struct {
	Rank         int     `json:"rank"`
	SubmissionID string  `json:"submission_id"`
	TotalScore   float64 `json:"total_score"`
}
