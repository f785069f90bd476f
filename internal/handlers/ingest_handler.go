package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hackeval/idea-evaluator/internal/models"
	"hackeval/idea-evaluator/internal/repositories"
	"hackeval/idea-evaluator/internal/services"
)

type IngestHandler struct {
	submissionRepo repositories.SubmissionRepository
	storageService services.StorageService
	pipeline       services.PipelineService
	maxFileSize    int64
}

func NewIngestHandler(
	submissionRepo repositories.SubmissionRepository,
	storageService services.StorageService,
	pipeline services.PipelineService,
	maxFileSize int64,
) *IngestHandler {
	return &IngestHandler{
		submissionRepo: submissionRepo,
		storageService: storageService,
		pipeline:       pipeline,
		maxFileSize:    maxFileSize,
	}
}

// HandleIngest handles POST /ingest: stores the uploaded deck,
// classifies it into section chunks, and indexes the new chunks.
func (h *IngestHandler) HandleIngest(c *fiber.Ctx) error {
	deckFile, err := c.FormFile("deck")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "deck file is required",
		})
	}

	teamName := c.FormValue("team_name")
	if teamName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "team_name is required",
		})
	}

	week, err := strconv.Atoi(c.FormValue("week"))
	if err != nil || week <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "week must be a positive integer",
		})
	}

	if deckFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Deck file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveDeck(deckFile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save deck file: %v", err),
		})
	}

	result, err := h.pipeline.Ingest(c.Context(), filePath, teamName, week)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("ingestion failed: %v", err),
		})
	}

	submission := &models.Submission{
		ID:               uuid.New(),
		SubmissionID:     result.SubmissionID,
		TeamName:         teamName,
		Week:             week,
		Filename:         filename,
		OriginalFileName: deckFile.Filename,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.submissionRepo.Upsert(submission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save submission record: %v", err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
