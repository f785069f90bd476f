package models

import "fmt"

// Section is one of the five fixed semantic categories a deck's
// content is classified into.
type Section string

const (
	SectionIdeaProblem      Section = "idea_problem"
	SectionSolutionApproach Section = "solution_approach"
	SectionUniquenessClaim  Section = "uniqueness_claim"
	SectionTechStack        Section = "tech_stack"
	SectionTeamCapability   Section = "team_capability"
)

// AllSections lists every section in taxonomy order. Each ingested
// submission produces exactly one chunk per entry.
var AllSections = []Section{
	SectionIdeaProblem,
	SectionSolutionApproach,
	SectionUniquenessClaim,
	SectionTechStack,
	SectionTeamCapability,
}

// PlaceholderText is stored for sections no page matched.
const PlaceholderText = "[SECTION NOT PROVIDED]"

// PageText is the text of a single document page.
type PageText struct {
	PageNumber int
	Text       string
}

// SectionChunk is the accumulated text plus metadata for one section of
// one submission. PageRange is nil when no page matched.
type SectionChunk struct {
	SubmissionID string
	TeamName     string
	Week         int
	Section      Section
	PageRange    *string
	Text         string
}

// PointKey is the identity key used for persistence:
// (submission_id, section, week).
func (c *SectionChunk) PointKey() string {
	return fmt.Sprintf("%s_%s_%d", c.SubmissionID, c.Section, c.Week)
}
