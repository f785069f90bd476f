package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"hackeval/idea-evaluator/internal/models"
)

// evaluatorFailReason is stored as the explanation for criteria whose
// inference calls exhausted all retries.
const evaluatorFailReason = "Evaluator unavailable (LLM error)"

// Aggregation weights, fixed by design:
// novelty 40%, clarity 20%, solution 15%, feasibility 15%, team 10%.
const (
	weightNovelty     = 4.0
	weightClarity     = 2.0
	weightSolution    = 1.5
	weightFeasibility = 1.5
	weightTeam        = 1.0
)

type rubricCriterion struct {
	Key         string
	Section     models.Section
	Description string
	MaxScore    float64
}

var rubricCriteria = []rubricCriterion{
	{"problem_clarity", models.SectionIdeaProblem, ClarityCriterion, 8.0},
	{"solution_quality", models.SectionSolutionApproach, "Assess solution logic, depth, and feasibility.", 8.0},
	{"technical_feasibility", models.SectionTechStack, "Assess technical feasibility and stack realism.", 8.0},
	{"team_capability", models.SectionTeamCapability, "Assess team skills to execute the idea.", 7.0},
}

type RubricEvaluatorService interface {
	Evaluate(ctx context.Context, submissionID string) (*models.EvaluationReport, error)
}

type rubricEvaluatorService struct {
	gemini        GeminiService
	index         VectorIndexService
	engine        SimilarityEngine
	promptBuilder *PromptBuilder
}

func NewRubricEvaluatorService(
	gemini GeminiService,
	index VectorIndexService,
	engine SimilarityEngine,
) RubricEvaluatorService {
	return &rubricEvaluatorService{
		gemini:        gemini,
		index:         index,
		engine:        engine,
		promptBuilder: NewPromptBuilder(),
	}
}

// Evaluate implements RubricEvaluatorService. A submission missing any
// of the five sections fails with MissingSectionsError before any
// inference call; every inference failure afterwards degrades to a
// neutral default so a complete report is always produced.
func (e *rubricEvaluatorService) Evaluate(ctx context.Context, submissionID string) (*models.EvaluationReport, error) {
	// Step 1: Retrieve persisted chunks
	stored, err := e.index.GetChunksBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chunks for %s: %w", submissionID, err)
	}

	chunks := make(map[models.Section]StoredChunk, len(stored))
	for _, chunk := range stored {
		chunks[chunk.Section] = chunk
	}

	var missing []models.Section
	for _, section := range models.AllSections {
		if _, ok := chunks[section]; !ok {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingSectionsError{SubmissionID: submissionID, Missing: missing}
	}

	scores := make(map[string]float64, len(rubricCriteria)+1)
	explanations := make(map[string]string, len(rubricCriteria)+1)

	// Step 2: Per-criterion scoring
	for _, criterion := range rubricCriteria {
		prompt := e.promptBuilder.BuildCriterionPrompt(chunks[criterion.Section].Text, criterion.Description)

		resp, err := e.gemini.ScoreCriterion(ctx, prompt)
		if err != nil {
			log.Printf("⚠️ Criterion %s degraded to fallback: %v\n", criterion.Key, err)
			resp = &CriterionResponse{Score: 0, Reason: evaluatorFailReason}
		}

		scores[criterion.Key] = math.Min(float64(resp.Score), criterion.MaxScore)
		explanations[criterion.Key] = resp.Reason
	}

	// Step 3: Novelty scoring
	ideaChunk := chunks[models.SectionIdeaProblem]
	novelty, noveltyReason := e.scoreNovelty(ctx, submissionID, ideaChunk.Text, chunks[models.SectionUniquenessClaim].Text)
	scores["novelty"] = novelty
	explanations["novelty"] = noveltyReason

	// Step 4: Aggregation (fixed weights)
	total := scores["novelty"]*weightNovelty +
		scores["problem_clarity"]*weightClarity +
		scores["solution_quality"]*weightSolution +
		scores["technical_feasibility"]*weightFeasibility +
		scores["team_capability"]*weightTeam

	return &models.EvaluationReport{
		SubmissionID: submissionID,
		TeamName:     ideaChunk.TeamName,
		Week:         ideaChunk.Week,
		Scores:       scores,
		TotalScore:   round1(total),
		Explanation:  explanations,
	}, nil
}

func (e *rubricEvaluatorService) scoreNovelty(ctx context.Context, submissionID, ideaText, uniquenessText string) (float64, string) {
	simStats := models.ZeroSimilarityResult()

	embeddings, err := e.engine.Embed(ctx, []string{ideaText})
	if err != nil {
		log.Printf("⚠️ Failed to embed idea text: %v\n", err)
	} else if len(embeddings) > 0 {
		simStats = e.engine.ComputeInternalSimilarity(ctx, embeddings[0], submissionID)
	}

	base := math.Max(0.0, (1.0-simStats.MaxSimilarity)*8.0)

	similarText := "No similar ideas found."
	ids := simStats.SimilarIDs
	if len(ids) > 3 {
		ids = ids[:3]
	}
	if len(ids) > 0 {
		if texts, err := e.index.GetIdeaTexts(ctx, ids); err == nil && len(texts) > 0 {
			similarText = strings.Join(texts, "\n---\n")
		}
	}

	prompt := e.promptBuilder.BuildNoveltyPrompt(ideaText+"\n"+uniquenessText, similarText)

	resp, err := e.gemini.JudgeNovelty(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Novelty judgment degraded to fallback: %v\n", err)
		resp = &NoveltyResponse{ScoreAdjustment: 0, Reason: evaluatorFailReason}
	}

	adjustment := clampInt(resp.ScoreAdjustment, -2, 2)
	novelty := round1(clampFloat(base+float64(adjustment), 0.0, 10.0))

	return novelty, resp.Reason
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
