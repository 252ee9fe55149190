package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/pkg/metrics"
)

// DefaultEndpoint is the OpenAI embeddings API. Compatible self-hosted
// servers (llama.cpp, Ollama, LocalAI) expose the same request shape.
const DefaultEndpoint = "https://api.openai.com/v1/embeddings"

// RemoteEmbedder calls an OpenAI-compatible embeddings endpoint. Requests
// flow through a circuit breaker so a dead endpoint fails fast instead of
// stalling every search for the full HTTP timeout.
type RemoteEmbedder struct {
	endpoint   string
	model      string
	apiKey     string
	dimensions int
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker[[][]float64]
	logger     *zap.Logger // optional; when set, logs breaker transitions
}

// RemoteOption configures a RemoteEmbedder.
type RemoteOption func(*RemoteEmbedder)

// WithRemoteLogger sets a logger for circuit breaker state changes.
func WithRemoteLogger(l *zap.Logger) RemoteOption {
	return func(e *RemoteEmbedder) { e.logger = l }
}

// NewRemoteEmbedder creates a remote embedder. An empty endpoint uses the
// OpenAI default; dimensions must match what the model actually returns,
// since every response is validated against it.
func NewRemoteEmbedder(endpoint, model, apiKey string, dimensions int, timeout time.Duration, opts ...RemoteOption) *RemoteEmbedder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	e := &RemoteEmbedder{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		dimensions: dimensions,
		client:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(e)
	}

	cbSettings := gobreaker.Settings{
		Name:        "remote-embedder",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			if e.logger != nil {
				e.logger.Warn("embedding circuit breaker state change",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			}
		},
	}
	e.breaker = gobreaker.NewCircuitBreaker[[][]float64](cbSettings)
	return e
}

// Embed returns the embedding for a single text.
func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds all texts in a single API call. The returned slice is in
// input order (the API reports an index per item, which is honored here).
func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	embeddings, err := e.breaker.Execute(func() ([][]float64, error) {
		return e.requestEmbeddings(ctx, texts)
	})
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, err
	}
	metrics.EmbeddingRequestsTotal.WithLabelValues("openai", "ok").Inc()
	return embeddings, nil
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (e *RemoteEmbedder) requestEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	payload, err := json.Marshal(embeddingRequest{Input: texts, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding endpoint returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(decoded.Data) != len(texts) {
		return nil, fmt.Errorf("embedding endpoint returned %d embeddings for %d inputs", len(decoded.Data), len(texts))
	}

	embeddings := make([][]float64, len(texts))
	for _, item := range decoded.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding endpoint returned out-of-range index %d", item.Index)
		}
		if e.dimensions > 0 && len(item.Embedding) != e.dimensions {
			return nil, fmt.Errorf("embedding dimension mismatch: got %d, expected %d", len(item.Embedding), e.dimensions)
		}
		embeddings[item.Index] = item.Embedding
	}
	for i, emb := range embeddings {
		if emb == nil {
			return nil, fmt.Errorf("embedding endpoint returned no embedding for input %d", i)
		}
	}
	return embeddings, nil
}

// Dimensions returns the configured embedding dimension.
func (e *RemoteEmbedder) Dimensions() int {
	return e.dimensions
}

// Close releases idle HTTP connections.
func (e *RemoteEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
