package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"hackeval/idea-evaluator/internal/models"
	"hackeval/idea-evaluator/internal/repositories"
)

type RankingService interface {
	Rank(limit int) ([]models.RankedResult, error)
	WriteCSV(w io.Writer, rows []models.RankedResult) error
}

type rankingService struct {
	evalRepo repositories.EvaluationRepository
}

func NewRankingService(evalRepo repositories.EvaluationRepository) RankingService {
	return &rankingService{evalRepo: evalRepo}
}

// Rank implements RankingService. Completed evaluations are deduped by
// submission id (keeping the highest total), sorted descending, and
// capped at limit when limit > 0.
func (r *rankingService) Rank(limit int) ([]models.RankedResult, error) {
	evals, err := r.evalRepo.FindCompleted()
	if err != nil {
		return nil, fmt.Errorf("failed to load completed evaluations: %w", err)
	}

	best := make(map[string]float64, len(evals))
	for _, eval := range evals {
		if eval.TotalScore == nil {
			continue
		}
		if score, ok := best[eval.SubmissionID]; !ok || *eval.TotalScore > score {
			best[eval.SubmissionID] = *eval.TotalScore
		}
	}

	rows := make([]models.RankedResult, 0, len(best))
	for id, score := range best {
		rows = append(rows, models.RankedResult{SubmissionID: id, TotalScore: score})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].SubmissionID < rows[j].SubmissionID
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, nil
}

// WriteCSV implements RankingService.
func (r *rankingService) WriteCSV(w io.Writer, rows []models.RankedResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"rank", "id", "score"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.SubmissionID,
			strconv.FormatFloat(row.TotalScore, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
