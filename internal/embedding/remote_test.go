package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func newEmbeddingServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization: got %q", got)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := map[string]interface{}{"data": []map[string]interface{}{}}
		data := make([]map[string]interface{}, len(req.Input))
		for i := range req.Input {
			emb := make([]float64, dims)
			for j := range emb {
				emb[j] = float64(i + 1)
			}
			// Return items in reverse to exercise index-based reordering.
			data[len(req.Input)-1-i] = map[string]interface{}{"index": i, "embedding": emb}
		}
		resp["data"] = data
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func TestRemoteEmbedder_EmbedBatch(t *testing.T) {
	srv := newEmbeddingServer(t, 4)
	defer srv.Close()

	e := NewRemoteEmbedder(srv.URL, "text-embedding-3-small", "test-key", 4, 5*time.Second)
	defer e.Close()

	embeddings, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	// Despite the reversed response order, position 0 must hold input 0's vector.
	if embeddings[0][0] != 1 || embeddings[1][0] != 2 {
		t.Errorf("embeddings not reordered by index: %v / %v", embeddings[0][0], embeddings[1][0])
	}
}

func TestRemoteEmbedder_Embed(t *testing.T) {
	srv := newEmbeddingServer(t, 4)
	defer srv.Close()

	e := NewRemoteEmbedder(srv.URL, "text-embedding-3-small", "test-key", 4, 5*time.Second)
	defer e.Close()

	emb, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(emb) != 4 {
		t.Errorf("expected 4 dimensions, got %d", len(emb))
	}
}

func TestRemoteEmbedder_DimensionMismatch(t *testing.T) {
	srv := newEmbeddingServer(t, 4)
	defer srv.Close()

	e := NewRemoteEmbedder(srv.URL, "text-embedding-3-small", "test-key", 8, 5*time.Second)
	defer e.Close()

	_, err := e.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !strings.Contains(err.Error(), "dimension mismatch") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRemoteEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewRemoteEmbedder(srv.URL, "text-embedding-3-small", "test-key", 4, 5*time.Second)
	defer e.Close()

	_, err := e.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error on 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status in error, got: %v", err)
	}
}

func TestRemoteEmbedder_BreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewRemoteEmbedder(srv.URL, "text-embedding-3-small", "test-key", 4, 5*time.Second)
	defer e.Close()

	ctx := context.Background()
	for i := 0; i < 12; i++ {
		if _, err := e.Embed(ctx, "hello"); err == nil {
			t.Fatal("expected failure")
		}
	}
	// By now the breaker should be rejecting without hitting the server.
	_, err := e.Embed(ctx, "hello")
	if err == nil {
		t.Fatal("expected breaker to reject")
	}
	if !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Errorf("expected open-breaker error, got: %v", err)
	}
}

func TestRemoteEmbedder_EmptyBatch(t *testing.T) {
	e := NewRemoteEmbedder("http://127.0.0.1:1", "m", "", 4, time.Second)
	defer e.Close()

	embeddings, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch(nil): %v", err)
	}
	if embeddings != nil {
		t.Errorf("expected nil result for empty input, got %v", embeddings)
	}
}
