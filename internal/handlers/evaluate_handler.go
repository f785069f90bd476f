package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hackeval/idea-evaluator/internal/models"
	"hackeval/idea-evaluator/internal/repositories"
	"hackeval/idea-evaluator/internal/services"
)

type EvaluationHandler struct {
	evalRepo       repositories.EvaluationRepository
	submissionRepo repositories.SubmissionRepository
	worker         services.Worker
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	submissionRepo repositories.SubmissionRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo:       evalRepo,
		submissionRepo: submissionRepo,
		worker:         worker,
	}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.SubmissionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "submission_id is required",
		})
	}

	// Verify the submission was ingested
	if _, err := h.submissionRepo.FindBySubmissionID(req.SubmissionID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found. Ingest the deck first.",
		})
	}

	evaluation := &models.Evaluation{
		ID:           uuid.New(),
		SubmissionID: req.SubmissionID,
		Status:       models.StatusQueued,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	// Enqueue job to worker
	h.worker.EnqueueJob(evaluation.ID)

	// Return job ID immediately
	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}
