package summary

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/resumatch/resumatch/internal/core/domain"
)

type flakyProvider struct {
	name  string
	err   error
	calls int
}

func (f *flakyProvider) Name() string { return f.name }

func (f *flakyProvider) Generate(context.Context, domain.MatchFacts) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "fine", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestGuardPassesThroughSuccess(t *testing.T) {
	guarded := Guard(&flakyProvider{name: "groq"}, testLogger())

	if guarded.Name() != "groq" {
		t.Errorf("Name() = %q", guarded.Name())
	}
	text, err := guarded.Generate(context.Background(), domain.MatchFacts{})
	if err != nil || text != "fine" {
		t.Fatalf("Generate() = %q, %v", text, err)
	}
}

func TestGuardOpensAfterRepeatedFailures(t *testing.T) {
	inner := &flakyProvider{name: "groq", err: errors.New("upstream down")}
	guarded := Guard(inner, testLogger())

	// Trip the breaker, then confirm calls stop reaching the provider.
	for i := 0; i < 6; i++ {
		_, _ = guarded.Generate(context.Background(), domain.MatchFacts{})
	}
	callsWhenOpen := inner.calls
	if callsWhenOpen >= 6 {
		t.Fatalf("breaker never opened, provider saw %d calls", callsWhenOpen)
	}

	_, err := guarded.Generate(context.Background(), domain.MatchFacts{})
	if err == nil {
		t.Fatalf("expected fast failure with open circuit")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Errorf("error = %v, want ErrTemporary kind", err)
	}
	if inner.calls != callsWhenOpen {
		t.Errorf("provider called while circuit open")
	}
}

func TestGuardIgnoresCallerCancellation(t *testing.T) {
	inner := &flakyProvider{name: "openai", err: context.Canceled}
	guarded := Guard(inner, testLogger())

	for i := 0; i < 10; i++ {
		_, _ = guarded.Generate(context.Background(), domain.MatchFacts{})
	}
	if inner.calls != 10 {
		t.Fatalf("cancellations tripped the breaker after %d calls", inner.calls)
	}
}
