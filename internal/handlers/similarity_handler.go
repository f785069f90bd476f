package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hackeval/idea-evaluator/internal/services"
)

type SimilarityHandler struct {
	storageService services.StorageService
	pipeline       services.PipelineService
	maxFileSize    int64
}

func NewSimilarityHandler(
	storageService services.StorageService,
	pipeline services.PipelineService,
	maxFileSize int64,
) *SimilarityHandler {
	return &SimilarityHandler{
		storageService: storageService,
		pipeline:       pipeline,
		maxFileSize:    maxFileSize,
	}
}

// HandleSimilarity handles POST /similarity: a read-only similarity
// check for a deck that has not been ingested. Nothing is written to
// the index or the database.
func (h *SimilarityHandler) HandleSimilarity(c *fiber.Ctx) error {
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
	// Read-only check: the stored copy is temporary
	defer h.storageService.DeleteFile(filename)

	result, err := h.pipeline.SimilarityCheck(c.Context(), filePath, teamName, week)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("similarity check failed: %v", err),
		})
	}

	return c.JSON(result)
}
