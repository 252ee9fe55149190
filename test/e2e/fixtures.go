// This file builds minimal content files for the loader-backed e2e tests.
package e2e

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// SupportedFileExtensions lists the extensions the file-based e2e tests write.
// The loader also reads .pdf; none is generated here because a minimal PDF
// with extractable text is not worth hand-assembling.
var SupportedFileExtensions = []string{".md", ".txt", ".json", ".xlsx"}

// ArticleFileBytes renders one article as a content file of the given
// extension. Markdown, text, and JSON files carry the article's explicit ID;
// spreadsheets have no ID column, so their articles pick up path-derived IDs
// when loaded.
func ArticleFileBytes(ext string, a HelpArticle) ([]byte, error) {
	switch ext {
	case ".md", ".txt":
		return articleMarkdown(a)
	case ".json":
		return articleJSON(a)
	case ".xlsx":
		return articleXlsx(a)
	default:
		return nil, fmt.Errorf("no fixture builder for %q", ext)
	}
}

func articleMarkdown(a HelpArticle) ([]byte, error) {
	meta := struct {
		ID              string   `yaml:"id"`
		Question        string   `yaml:"question"`
		Category        string   `yaml:"category,omitempty"`
		Tags            []string `yaml:"tags,omitempty"`
		HelpfulCount    int      `yaml:"helpful_count"`
		NotHelpfulCount int      `yaml:"not_helpful_count"`
		ViewCount       int      `yaml:"view_count"`
		Pinned          bool     `yaml:"pinned"`
	}{a.ID, a.Question, a.Category, a.Tags, a.Helpful, a.NotHelpful, a.Views, a.Pinned}
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(a.Answer)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func articleJSON(a HelpArticle) ([]byte, error) {
	doc := struct {
		ID              string   `json:"id"`
		Question        string   `json:"question"`
		Answer          string   `json:"answer"`
		Category        string   `json:"category,omitempty"`
		Tags            []string `json:"tags,omitempty"`
		HelpfulCount    int      `json:"helpful_count"`
		NotHelpfulCount int      `json:"not_helpful_count"`
		ViewCount       int      `json:"view_count"`
		Pinned          bool     `json:"pinned"`
	}{a.ID, a.Question, a.Answer, a.Category, a.Tags, a.Helpful, a.NotHelpful, a.Views, a.Pinned}
	return json.MarshalIndent(doc, "", "  ")
}

func articleXlsx(a HelpArticle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	header := []any{"question", "answer", "category", "tags", "views", "helpful", "not_helpful", "pinned"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	row := []any{a.Question, a.Answer, a.Category, strings.Join(a.Tags, ", "), a.Views, a.Helpful, a.NotHelpful, a.Pinned}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		return nil, fmt.Errorf("write data row: %w", err)
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
