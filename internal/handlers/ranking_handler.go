package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hackeval/idea-evaluator/internal/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rankingService services.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// HandleGetRankings handles GET /rankings?limit=N
func (h *RankingHandler) HandleGetRankings(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a non-negative integer",
			})
		}
		limit = parsed
	}

	rows, err := h.rankingService.Rank(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute rankings",
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(rows),
		"rankings": rows,
	})
}
