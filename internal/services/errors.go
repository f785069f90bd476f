package services

import (
	"fmt"
	"strings"

	"hackeval/idea-evaluator/internal/models"
)

// ValidationError reports a chunk that is missing a required metadata
// field. Raised at chunk creation time, before anything is persisted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing metadata field: %s", e.Field)
}

// MissingSectionsError reports an evaluation attempted on a submission
// that does not have all five sections persisted. This is the only
// fatal condition during evaluation.
type MissingSectionsError struct {
	SubmissionID string
	Missing      []models.Section
}

func (e *MissingSectionsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, s := range e.Missing {
		names[i] = string(s)
	}
	return fmt.Sprintf("missing sections for %s: [%s]", e.SubmissionID, strings.Join(names, ", "))
}
