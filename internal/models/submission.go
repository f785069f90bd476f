package models

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SubmissionID     string    `gorm:"type:text;uniqueIndex:idx_submission_week" json:"submission_id"`
	TeamName         string    `gorm:"type:text" json:"team_name"`
	Week             int       `gorm:"not null;uniqueIndex:idx_submission_week" json:"week"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (s *Submission) TableName() string {
	return "submissions"
}
