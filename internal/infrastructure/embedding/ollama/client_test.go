package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/resumatch/resumatch/internal/core/domain"
)

type embedRequestPayload struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

func embedServer(t *testing.T, fail *atomic.Bool, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if fail != nil && fail.Load() {
			http.Error(w, "model not found", http.StatusNotFound)
			return
		}
		var req embedRequestPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode embed request: %v", err)
		}
		embeddings := make([][]float32, len(req.Input))
		for i := range embeddings {
			embeddings[i] = []float32{1, 2, 3}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
	}))
}

func TestEncodeLazyInitThenBatch(t *testing.T) {
	var requests atomic.Int64
	server := embedServer(t, nil, &requests)
	defer server.Close()

	provider := New(server.URL, "model-a", "model-b", time.Second)

	if provider.Loaded(domain.BackendBERT) {
		t.Fatalf("backend reported loaded before first use")
	}

	vec, err := provider.Encode(context.Background(), domain.BackendBERT, "hello")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("vector = %v", vec)
	}
	if !provider.Loaded(domain.BackendBERT) {
		t.Fatalf("backend not marked loaded after successful encode")
	}

	// Probe plus the actual request.
	if requests.Load() != 2 {
		t.Fatalf("requests = %d, want probe + encode", requests.Load())
	}

	vectors, err := provider.EncodeBatch(context.Background(), domain.BackendBERT, []string{"a", "b"})
	if err != nil {
		t.Fatalf("EncodeBatch() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("batch = %d vectors, want 2", len(vectors))
	}
	// No re-initialization on subsequent calls.
	if requests.Load() != 3 {
		t.Fatalf("requests = %d, want 3", requests.Load())
	}
}

func TestEncodeBatchEmptyInput(t *testing.T) {
	provider := New("http://unused", "a", "b", time.Second)
	vectors, err := provider.EncodeBatch(context.Background(), domain.BackendBERT, nil)
	if err != nil || vectors != nil {
		t.Fatalf("EncodeBatch(nil) = %v, %v", vectors, err)
	}
}

func TestInitFailureIsSticky(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var requests atomic.Int64
	server := embedServer(t, &fail, &requests)
	defer server.Close()

	provider := New(server.URL, "model-a", "model-b", time.Second)

	_, err := provider.Encode(context.Background(), domain.BackendBERT, "hello")
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable kind", err)
	}

	// Server recovers but the failed probe is never retried.
	fail.Store(false)
	_, err = provider.Encode(context.Background(), domain.BackendBERT, "hello")
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("second error = %v, want sticky failure", err)
	}
	if requests.Load() != 1 {
		t.Fatalf("requests = %d, want single probe", requests.Load())
	}
	if provider.Loaded(domain.BackendBERT) {
		t.Fatalf("failed backend reported loaded")
	}
}

func TestUnknownBackendRejected(t *testing.T) {
	provider := New("http://unused", "a", "b", time.Second)
	_, err := provider.Encode(context.Background(), domain.Backend("minilm"), "x")
	if !domain.IsKind(err, domain.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable kind", err)
	}
}
