package services

import "hackeval/idea-evaluator/internal/models"

type ChunkValidator interface {
	Validate(chunk *models.SectionChunk) error
}

type chunkValidator struct{}

func NewChunkValidator() ChunkValidator {
	return &chunkValidator{}
}

// Validate checks presence of the required chunk metadata fields. It is
// a pure presence check: no type or semantic validation. PageRange is a
// pointer and may legitimately be nil (no pages matched), so it is not
// checked here.
func (v *chunkValidator) Validate(chunk *models.SectionChunk) error {
	if chunk.SubmissionID == "" {
		return &ValidationError{Field: "submission_id"}
	}
	if chunk.TeamName == "" {
		return &ValidationError{Field: "team_name"}
	}
	if chunk.Week == 0 {
		return &ValidationError{Field: "week"}
	}
	if chunk.Section == "" {
		return &ValidationError{Field: "section"}
	}
	if chunk.Text == "" {
		return &ValidationError{Field: "text"}
	}
	return nil
}
