package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"hackeval/idea-evaluator/internal/models"
)

type PDFParserService interface {
	ExtractPages(filepath string) ([]models.PageText, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractPages returns the per-page text of a PDF in page order.
// Pages that yield no text are omitted; page numbers are 1-based and
// keep their original position.
func (p *pdfParserService) ExtractPages(filePath string) ([]models.PageText, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []models.PageText
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		text = CleanText(text)
		if text == "" {
			continue
		}

		pages = append(pages, models.PageText{
			PageNumber: pageIndex,
			Text:       text,
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return pages, nil
}

// CleanText normalizes whitespace in extracted page text.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
