package embedding

import (
	"context"

	"github.com/hyperjump/oshiete/pkg/metrics"
)

// CachedEmbedder wraps an Embedder with an EmbeddingCache, so repeated
// queries for the same text skip the underlying provider.
type CachedEmbedder struct {
	inner Embedder
	cache *EmbeddingCache
}

// NewCachedEmbedder wraps inner with cache.
func NewCachedEmbedder(inner Embedder, cache *EmbeddingCache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Embed returns the cached embedding for text, or embeds and caches it.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if emb, ok := e.cache.Get(text); ok {
		metrics.EmbeddingCacheHits.Inc()
		return emb, nil
	}
	metrics.EmbeddingCacheMisses.Inc()

	emb, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, emb)
	return emb, nil
}

// EmbedBatch embeds only the texts missing from the cache, in a single
// batch call to the underlying provider, then reassembles results in order.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	embeddings := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if emb, ok := e.cache.Get(text); ok {
			metrics.EmbeddingCacheHits.Inc()
			embeddings[i] = emb
			continue
		}
		metrics.EmbeddingCacheMisses.Inc()
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return embeddings, nil
	}

	fresh, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, emb := range fresh {
		e.cache.Set(missing[j], emb)
		embeddings[missingIdx[j]] = emb
	}
	return embeddings, nil
}

// Dimensions returns the underlying embedder's dimension.
func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Close closes the underlying embedder.
func (e *CachedEmbedder) Close() error {
	return e.inner.Close()
}
