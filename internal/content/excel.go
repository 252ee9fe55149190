package content

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/oshiete/internal/models"
)

// excelColumns maps recognized header names to row positions.
type excelColumns struct {
	question   int
	answer     int
	category   int
	tags       int
	helpful    int
	notHelpful int
	views      int
	pinned     int
}

// parseExcel parses a .xlsx workbook where each sheet has a header row naming
// its columns (question, answer, category, tags, helpful, not_helpful, views,
// pinned) and each following row is one article. Sheets without a question or
// answer column are skipped.
func parseExcel(raw []byte) ([]*models.Article, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var articles []*models.Article
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		cols, ok := headerColumns(rows[0])
		if !ok {
			continue
		}
		for _, row := range rows[1:] {
			a := rowArticle(row, cols)
			if a != nil {
				articles = append(articles, a)
			}
		}
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles in workbook")
	}
	return articles, nil
}

// headerColumns resolves column positions from the header row. ok is false
// when the sheet has neither a question nor an answer column.
func headerColumns(header []string) (excelColumns, bool) {
	cols := excelColumns{
		question: -1, answer: -1, category: -1, tags: -1,
		helpful: -1, notHelpful: -1, views: -1, pinned: -1,
	}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question":
			cols.question = i
		case "answer":
			cols.answer = i
		case "category":
			cols.category = i
		case "tags":
			cols.tags = i
		case "helpful", "helpful_count":
			cols.helpful = i
		case "not_helpful", "not_helpful_count":
			cols.notHelpful = i
		case "views", "view_count":
			cols.views = i
		case "pinned":
			cols.pinned = i
		}
	}
	return cols, cols.question >= 0 || cols.answer >= 0
}

// rowArticle builds an article from one data row, or nil when the row has no
// question and no answer.
func rowArticle(row []string, cols excelColumns) *models.Article {
	a := &models.Article{
		Question:        cell(row, cols.question),
		Answer:          cell(row, cols.answer),
		Category:        cell(row, cols.category),
		HelpfulCount:    cellInt(row, cols.helpful),
		NotHelpfulCount: cellInt(row, cols.notHelpful),
		ViewCount:       cellInt(row, cols.views),
		Pinned:          cellBool(row, cols.pinned),
	}
	if a.Question == "" && a.Answer == "" {
		return nil
	}
	if tags := cell(row, cols.tags); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				a.Tags = append(a.Tags, tag)
			}
		}
	}
	return a
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(row []string, i int) int {
	n, err := strconv.Atoi(cell(row, i))
	if err != nil {
		return 0
	}
	return n
}

func cellBool(row []string, i int) bool {
	v, err := strconv.ParseBool(strings.ToLower(cell(row, i)))
	if err != nil {
		return false
	}
	return v
}
