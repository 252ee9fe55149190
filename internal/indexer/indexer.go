// Package indexer ingests help articles into the store, vector index, and keyword index.
package indexer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/content"
	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/keyword"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/store"
	"github.com/hyperjump/oshiete/internal/vector"
	"github.com/hyperjump/oshiete/pkg/metrics"
	"github.com/hyperjump/oshiete/pkg/utils"
)

// Indexer loads articles from files and keeps the store, vector index, and
// keyword index in sync with each other.
type Indexer struct {
	store        *store.Store
	embedder     embedding.Embedder
	vectorIndex  vector.Index
	keywordIndex keyword.KeywordIndex
	loader       *content.Loader
	logger       *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (file indexed, article removed, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	st *store.Store,
	embedder embedding.Embedder,
	vectorIndex vector.Index,
	keywordIndex keyword.KeywordIndex,
	loader *content.Loader,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		store:        st,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		loader:       loader,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexArticle indexes one article: embed, store, index in vector and keyword.
// An article without an ID gets a generated one.
func (idx *Indexer) IndexArticle(ctx context.Context, a *models.Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Question = content.Preprocess(a.Question)
	a.Answer = content.Preprocess(a.Answer)
	if a.Question == "" && a.Answer == "" {
		return fmt.Errorf("article %s has no question or answer", a.ID)
	}

	emb, err := idx.embedder.Embed(ctx, a.Text())
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}
	a.Embedding = emb

	if err := idx.store.Upsert(a); err != nil {
		return fmt.Errorf("failed to store article: %w", err)
	}
	if err := idx.vectorIndex.Add(ctx, []string{a.ID}, [][]float64{emb}); err != nil {
		return fmt.Errorf("failed to index vector: %w", err)
	}
	if err := idx.keywordIndex.Index(ctx, a); err != nil {
		return fmt.Errorf("failed to index keywords: %w", err)
	}
	idx.updateGauge()
	if idx.logger != nil {
		idx.logger.Debug("indexer article indexed",
			zap.String("id", a.ID),
			zap.String("question", utils.Truncate(a.Question, 80)))
	}
	return nil
}

// IndexFile loads the file at path and indexes every article in it, replacing
// whatever the same file produced before. Returns the number of articles
// indexed. A file that fails to load leaves its previously indexed articles
// untouched.
func (idx *Indexer) IndexFile(ctx context.Context, path string) (int, error) {
	if idx.logger != nil {
		idx.logger.Debug("indexer indexing file", zap.String("path", path))
	}
	articles, err := idx.loader.LoadFile(path)
	if err != nil {
		return 0, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	if _, err := idx.RemoveSource(ctx, absPath); err != nil {
		return 0, err
	}
	for _, a := range articles {
		if err := idx.IndexArticle(ctx, a); err != nil {
			return 0, fmt.Errorf("index %s: %w", path, err)
		}
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer file indexed",
			zap.String("path", absPath), zap.Int("articles", len(articles)))
	}
	return len(articles), nil
}

// IndexDirectory loads every supported file under dir and indexes the
// articles, embedding them in one batch. Returns the number of articles
// indexed.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, recursive bool) (int, error) {
	articles, err := idx.loader.LoadDirectory(dir, recursive)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	sources := make(map[string]struct{})
	texts := make([]string, len(articles))
	for i, a := range articles {
		a.Question = content.Preprocess(a.Question)
		a.Answer = content.Preprocess(a.Answer)
		texts[i] = a.Text()
		sources[a.Source] = struct{}{}
	}
	for source := range sources {
		if _, err := idx.RemoveSource(ctx, source); err != nil {
			return 0, err
		}
	}

	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	ids := make([]string, len(articles))
	for i, a := range articles {
		a.Embedding = embeddings[i]
		if err := idx.store.Upsert(a); err != nil {
			return 0, fmt.Errorf("failed to store article: %w", err)
		}
		ids[i] = a.ID
	}
	if err := idx.vectorIndex.Add(ctx, ids, embeddings); err != nil {
		return 0, fmt.Errorf("failed to index vectors: %w", err)
	}
	for _, a := range articles {
		if err := idx.keywordIndex.Index(ctx, a); err != nil {
			return 0, fmt.Errorf("failed to index keywords: %w", err)
		}
	}
	idx.updateGauge()
	if idx.logger != nil {
		idx.logger.Debug("indexer directory indexed",
			zap.String("dir", dir), zap.Int("articles", len(articles)))
	}
	return len(articles), nil
}

// Remove deletes one article from all indices and the store.
func (idx *Indexer) Remove(ctx context.Context, id string) error {
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	if err := idx.vectorIndex.Remove(ctx, []string{id}); err != nil {
		return fmt.Errorf("failed to delete from vector index: %w", err)
	}
	if err := idx.store.Delete(id); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	idx.updateGauge()
	if idx.logger != nil {
		idx.logger.Debug("indexer article removed", zap.String("id", id))
	}
	return nil
}

// RemoveSource deletes every article that path produced, from all indices and
// the store. Returns the number of articles removed. Removing a source with
// no articles is not an error.
func (idx *Indexer) RemoveSource(ctx context.Context, path string) (int, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	ids := idx.store.RemoveBySource(absPath)
	if len(ids) == 0 {
		return 0, nil
	}
	if err := idx.vectorIndex.Remove(ctx, ids); err != nil {
		return len(ids), fmt.Errorf("failed to delete from vector index: %w", err)
	}
	for _, id := range ids {
		if err := idx.keywordIndex.Delete(ctx, id); err != nil {
			return len(ids), fmt.Errorf("failed to delete from keyword index: %w", err)
		}
	}
	idx.updateGauge()
	if idx.logger != nil {
		idx.logger.Debug("indexer source removed",
			zap.String("path", absPath), zap.Int("articles", len(ids)))
	}
	return len(ids), nil
}

func (idx *Indexer) updateGauge() {
	metrics.ArticlesIndexed.Set(float64(idx.store.Count()))
}
