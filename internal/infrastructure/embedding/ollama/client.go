// Package ollama provides the embedding backends over an Ollama-compatible
// inference server. Each backend maps to one sentence-embedding model and
// is initialized lazily on first use.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/resumatch/resumatch/internal/core/domain"
)

const initProbeText = "embedding backend warmup"

type Provider struct {
	transport   *transport
	initTimeout time.Duration
	backends    map[domain.Backend]*lazyBackend
}

type lazyBackend struct {
	model  string
	once   sync.Once
	err    error
	loaded atomic.Bool
}

// New wires the two named backends to their models. Nothing is loaded
// until a request asks for a backend.
func New(baseURL, bertModel, robertaModel string, requestTimeout time.Duration) *Provider {
	if requestTimeout <= 0 {
		requestTimeout = 120 * time.Second
	}
	return &Provider{
		transport:   newTransport(strings.TrimRight(baseURL, "/"), requestTimeout),
		initTimeout: requestTimeout,
		backends: map[domain.Backend]*lazyBackend{
			domain.BackendBERT:    {model: bertModel},
			domain.BackendRoBERTa: {model: robertaModel},
		},
	}
}

// WithInitTimeout overrides how long first-use model initialization may
// take. Model pulls can far exceed a single embed request.
func (p *Provider) WithInitTimeout(d time.Duration) *Provider {
	if d > 0 {
		p.initTimeout = d
	}
	return p
}

func (p *Provider) Encode(ctx context.Context, backend domain.Backend, text string) ([]float32, error) {
	vectors, err := p.EncodeBatch(ctx, backend, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("encode %s: empty embedding result", backend)
	}
	return vectors[0], nil
}

func (p *Provider) EncodeBatch(ctx context.Context, backend domain.Backend, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	lb, err := p.ensure(backend)
	if err != nil {
		return nil, err
	}

	vectors, err := p.transport.embed(ctx, lb.model, texts)
	if err != nil {
		return nil, fmt.Errorf("encode batch with %s: %w", backend, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("encode batch with %s: got %d vectors for %d texts", backend, len(vectors), len(texts))
	}
	return vectors, nil
}

// Loaded reports whether the backend initialized successfully, without
// triggering initialization.
func (p *Provider) Loaded(backend domain.Backend) bool {
	lb, ok := p.backends[backend]
	return ok && lb.loaded.Load()
}

// ensure performs the first-use initialization exactly once per backend.
// The probe runs under a process-level timeout so an impatient first
// caller cannot poison the backend for everyone else; an actual probe
// failure is sticky and is never retried.
func (p *Provider) ensure(backend domain.Backend) (*lazyBackend, error) {
	lb, ok := p.backends[backend]
	if !ok {
		return nil, domain.WrapError(domain.ErrBackendUnavailable, "select embedding backend", fmt.Errorf("unknown backend %q", backend))
	}

	lb.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.initTimeout)
		defer cancel()

		vectors, err := p.transport.embed(ctx, lb.model, []string{initProbeText})
		if err != nil {
			lb.err = err
			return
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			lb.err = fmt.Errorf("model %s returned empty probe vector", lb.model)
			return
		}
		lb.loaded.Store(true)
	})

	if lb.err != nil {
		return nil, domain.WrapError(domain.ErrBackendUnavailable, "initialize embedding backend", lb.err)
	}
	return lb, nil
}
