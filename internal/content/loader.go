package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/models"
)

// parseable lists the extensions the loader knows how to parse.
var parseable = map[string]struct{}{
	".md":   {},
	".txt":  {},
	".json": {},
	".pdf":  {},
	".xlsx": {},
}

// Loader reads help articles from content files. One file can yield one
// article (markdown, text, PDF) or many (JSON arrays, spreadsheet rows).
type Loader struct {
	extensions map[string]struct{} // empty means all parseable extensions
	logger     *zap.Logger         // optional; when set, logs skipped files
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a logger for load warnings (unreadable or malformed files).
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// NewLoader creates a loader restricted to the given extensions. An empty
// list allows every parseable extension.
func NewLoader(extensions []string, opts ...LoaderOption) *Loader {
	ld := &Loader{extensions: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		ld.extensions[ext] = struct{}{}
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Supported reports whether the loader will parse the file at path.
func (ld *Loader) Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := parseable[ext]; !ok {
		return false
	}
	if len(ld.extensions) == 0 {
		return true
	}
	_, ok := ld.extensions[ext]
	return ok
}

// LoadFile parses the file at path into articles. Every returned article has
// an ID (from the file's own metadata, or derived from the path) and its
// Source set to the absolute path.
func (ld *Loader) LoadFile(path string) ([]*models.Article, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var articles []*models.Article
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".md", ".txt":
		a, err := parseMarkdown(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", absPath, err)
		}
		articles = []*models.Article{a}
	case ".json":
		articles, err = parseJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", absPath, err)
		}
	case ".pdf":
		a, err := parsePDF(raw, absPath)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", absPath, err)
		}
		articles = []*models.Article{a}
	case ".xlsx":
		articles, err = parseExcel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", absPath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}

	base := ArticleID(absPath)
	for _, a := range articles {
		if a.ID == "" {
			if len(articles) == 1 {
				a.ID = base
			} else {
				// Multi-article files get per-article suffixes. IDs are not
				// stable across reloads, but reloads replace the whole source.
				a.ID = base + "#" + uuid.New().String()[:8]
			}
		}
		a.Source = absPath
	}
	return articles, nil
}

// LoadDirectory walks dir and parses every supported file. Malformed files
// are logged and skipped so one bad file does not sink the whole corpus.
func (ld *Loader) LoadDirectory(dir string, recursive bool) ([]*models.Article, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}

	var articles []*models.Article
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !recursive && path != absDir {
				return fs.SkipDir
			}
			return nil
		}
		if !ld.Supported(path) {
			return nil
		}
		loaded, loadErr := ld.LoadFile(path)
		if loadErr != nil {
			if ld.logger != nil {
				ld.logger.Warn("skipping unloadable file", zap.String("path", path), zap.Error(loadErr))
			}
			return nil
		}
		articles = append(articles, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}
