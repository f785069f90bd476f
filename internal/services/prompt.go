package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCriterionPrompt creates the scoring prompt for one rubric
// criterion from the section text and the criterion's description.
func (pb *PromptBuilder) BuildCriterionPrompt(chunkText, criterionDescription string) string {
	return fmt.Sprintf(`You are a hackathon idea evaluator.

You will be given:
1. Extracted content from a single team's submission
2. A scoring criterion

Rules:
- Do NOT assume missing information
- Penalize vague, generic, or marketing-style language
- Be conservative in scoring
- Output STRICT JSON only
- Score from 0 to 10 (integers only)

Context:
%s

Criterion:
%s

Return JSON:
{
  "score": <int>,
  "reason": "<short, factual justification>"
}`, chunkText, criterionDescription)
}

// ClarityCriterion is the full criterion description for the
// problem-clarity dimension.
const ClarityCriterion = `Criterion: Clarity and effort of explanation.

Instructions:
- Penalize generic phrases (e.g. "revolutionary", "cutting-edge")
- Reward concrete constraints, scope, users, or data
- If language is vague or polished without substance, score low
- Do NOT judge grammar or writing style

Score from 0 to 10.`

// BuildNoveltyPrompt creates the novelty-judgment prompt comparing the
// current idea against summaries of similar existing ideas.
func (pb *PromptBuilder) BuildNoveltyPrompt(currentIdea, similarIdeas string) string {
	return fmt.Sprintf(`You are evaluating idea uniqueness.

Inputs:
1. Current team's idea description
2. Summaries of similar existing ideas

Task:
Classify novelty as:
a) Near-duplicate
b) Common hackathon idea
c) Novel variation
d) Highly original

Rules:
- Do NOT penalize common problems
- Focus on solution differentiation
- Do NOT reject ideas

Return JSON:
{
  "novelty_category": "a | b | c | d",
  "score_adjustment": 0,
  "reason": "..."
}

CURRENT IDEA:
%s

SIMILAR IDEAS:
%s`, currentIdea, similarIdeas)
}
