package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hackeval/idea-evaluator/internal/models"
)

// Taxonomy maps each section to its ordered set of lowercase regex
// patterns. Patterns are matched against lowercased page text, so they
// are effectively case-insensitive.
type Taxonomy map[models.Section][]string

// DefaultTaxonomy returns the built-in section pattern table.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		models.SectionIdeaProblem: {
			`problem statement`,
			`problem we solve`,
			`your idea`,
			`our idea`,
			`idea\s*[:\-]`,
			`title\s*[:\-]`,
		},
		models.SectionSolutionApproach: {
			`the mission`,
			`our solution`,
			`solution approach`,
			`we propose`,
			`how it works`,
			`implementation`,
		},
		models.SectionUniquenessClaim: {
			`unique`,
			`why should we select you`,
			`what makes.*different`,
			`existing apps`,
			`existing systems`,
			`unlike.*apps`,
			`goes beyond`,
			`not just`,
			`different from`,
		},
		models.SectionTechStack: {
			`tech[\s\-]*stack`,
			`tech stack & platforms`,
			`frontend`,
			`backend`,
			`ai\s*&\s*ml stack`,
			`cloud\s*/\s*devops`,
			`blockchain`,
		},
		models.SectionTeamCapability: {
			`by team`,
			`team\s*[:\-]`,
			`team members`,
			`we are a team`,
			`our team`,
		},
	}
}

// LoadTaxonomy reads a section pattern table from a YAML file. The file
// must define patterns for every section; unknown section names are
// rejected.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	known := make(map[models.Section]bool, len(models.AllSections))
	for _, section := range models.AllSections {
		known[section] = true
	}

	tax := make(Taxonomy, len(raw))
	for name, patterns := range raw {
		section := models.Section(name)
		if !known[section] {
			return nil, fmt.Errorf("unknown section in taxonomy file: %s", name)
		}
		if len(patterns) == 0 {
			return nil, fmt.Errorf("no patterns for section: %s", name)
		}
		tax[section] = patterns
	}

	for _, section := range models.AllSections {
		if _, ok := tax[section]; !ok {
			return nil, fmt.Errorf("taxonomy file missing section: %s", section)
		}
	}

	return tax, nil
}
