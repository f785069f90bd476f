package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hackeval/idea-evaluator/internal/models"
)

type SubmissionRepository interface {
	Upsert(submission *models.Submission) error
	FindBySubmissionID(submissionID string) (*models.Submission, error)
	FindAll() ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Upsert implements SubmissionRepository. Re-ingesting the same deck
// for the same week updates the existing row.
func (r *submissionRepository) Upsert(submission *models.Submission) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "submission_id"}, {Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"team_name", "filename", "original_file_name", "file_path", "updated_at",
		}),
	}).Create(submission).Error

	if err != nil {
		return fmt.Errorf("failed to upsert submission: %w", err)
	}

	return nil
}

// FindBySubmissionID implements SubmissionRepository.
func (r *submissionRepository) FindBySubmissionID(submissionID string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("submission not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return &submission, nil
}

// FindAll implements SubmissionRepository.
func (r *submissionRepository) FindAll() ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.Order("created_at ASC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, nil
}
