package services

import (
	"fmt"
	"regexp"
	"strings"

	"hackeval/idea-evaluator/internal/models"
)

type SectionClassifier interface {
	ExtractSections(pages []models.PageText) (map[models.Section]string, map[models.Section]*string)
	BuildChunks(pages []models.PageText, submissionID, teamName string, week int) []models.SectionChunk
}

type sectionClassifier struct {
	patterns map[models.Section][]*regexp.Regexp
}

func NewSectionClassifier(tax Taxonomy) (SectionClassifier, error) {
	compiled := make(map[models.Section][]*regexp.Regexp, len(tax))
	for section, patterns := range tax {
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for section %s: %w", pattern, section, err)
			}
			compiled[section] = append(compiled[section], re)
		}
	}

	return &sectionClassifier{patterns: compiled}, nil
}

// ExtractSections assigns each page to matching sections. A page's text
// is lowercased once; per section the patterns are tried in order and
// the first hit appends the page's original-case text to that section's
// accumulator. A page may match several different sections.
//
// The returned page range per section is the min/max envelope of the
// matched pages ("n" or "min-max", nil when nothing matched). A gap
// inside the range is possible; downstream consumers rely on the
// envelope form.
func (sc *sectionClassifier) ExtractSections(pages []models.PageText) (map[models.Section]string, map[models.Section]*string) {
	sectionTexts := make(map[models.Section]string, len(models.AllSections))
	pageMap := make(map[models.Section][]int, len(models.AllSections))

	for _, section := range models.AllSections {
		sectionTexts[section] = ""
		pageMap[section] = nil
	}

	for _, page := range pages {
		lowered := strings.ToLower(page.Text)

		for _, section := range models.AllSections {
			for _, re := range sc.patterns[section] {
				if re.MatchString(lowered) {
					sectionTexts[section] += page.Text + "\n"
					pageMap[section] = append(pageMap[section], page.PageNumber)
					break
				}
			}
		}
	}

	pageRanges := make(map[models.Section]*string, len(models.AllSections))
	for section, matched := range pageMap {
		pageRanges[section] = formatPageRange(matched)
	}

	return sectionTexts, pageRanges
}

// BuildChunks produces exactly one chunk per section, substituting the
// placeholder sentinel for sections no page matched.
func (sc *sectionClassifier) BuildChunks(pages []models.PageText, submissionID, teamName string, week int) []models.SectionChunk {
	sectionTexts, pageRanges := sc.ExtractSections(pages)

	chunks := make([]models.SectionChunk, 0, len(models.AllSections))
	for _, section := range models.AllSections {
		text := sectionTexts[section]
		if text == "" {
			text = models.PlaceholderText
		}

		chunks = append(chunks, models.SectionChunk{
			SubmissionID: submissionID,
			TeamName:     teamName,
			Week:         week,
			Section:      section,
			PageRange:    pageRanges[section],
			Text:         text,
		})
	}

	return chunks
}

func formatPageRange(pages []int) *string {
	if len(pages) == 0 {
		return nil
	}

	start, end := pages[0], pages[0]
	for _, p := range pages[1:] {
		if p < start {
			start = p
		}
		if p > end {
			end = p
		}
	}

	var r string
	if start == end {
		r = fmt.Sprintf("%d", start)
	} else {
		r = fmt.Sprintf("%d-%d", start, end)
	}
	return &r
}
