package content

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/oshiete/internal/models"
)

// parsePDF extracts the plain text of a PDF into a single article. PDFs carry
// no structured metadata, so the question is derived from the filename.
func parsePDF(raw []byte, path string) (*models.Article, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		buf.WriteString(text)
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}

	answer := strings.TrimSpace(buf.String())
	if answer == "" {
		return nil, fmt.Errorf("PDF has no extractable text")
	}

	return &models.Article{
		Question: questionFromFilename(path),
		Answer:   answer,
	}, nil
}

// questionFromFilename turns "billing-faq_2024.pdf" into "billing faq 2024".
func questionFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}
