package summary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/resumatch/resumatch/internal/core/domain"
	"github.com/resumatch/resumatch/internal/core/ports"
)

// Guarded wraps a summary provider with a circuit breaker so a
// misbehaving external API is skipped quickly instead of burning the
// per-provider timeout on every request.
type Guarded struct {
	inner   ports.SummaryProvider
	breaker *gobreaker.CircuitBreaker[string]
}

// Guard wraps provider with a breaker. The circuit opens after repeated
// failures and probes again after the cool-down window.
func Guard(provider ports.SummaryProvider, logger *slog.Logger) *Guarded {
	settings := gobreaker.Settings{
		Name:        provider.Name(),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 4 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about provider health.
			if errors.Is(err, context.Canceled) {
				return true
			}
			return err == nil
		},
	}
	if logger != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn("summary_breaker_state_changed",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		}
	}
	return &Guarded{
		inner:   provider,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (g *Guarded) Name() string {
	return g.inner.Name()
}

func (g *Guarded) Generate(ctx context.Context, facts domain.MatchFacts) (string, error) {
	text, err := g.breaker.Execute(func() (string, error) {
		return g.inner.Generate(ctx, facts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", domain.WrapError(domain.ErrTemporary, "generate summary", err)
		}
		return "", err
	}
	return text, nil
}
