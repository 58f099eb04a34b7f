package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resumatch/resumatch/internal/core/domain"
)

func testFacts() domain.MatchFacts {
	return domain.MatchFacts{
		JobTitle:          "Backend Engineer",
		Company:           "Acme",
		CandidateCategory: "INFORMATION-TECHNOLOGY",
		Score:             0.72,
		MatchingSkills:    []string{"go", "sql"},
		MissingSkills:     []string{"kubernetes"},
	}
}

func TestGenerateSendsChatCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "  A compelling fit.  "}},
			},
		})
	}))
	defer server.Close()

	client := New("groq", server.URL, "secret-key", "llama-3.3-70b-versatile")

	text, err := client.Generate(context.Background(), testFacts())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "A compelling fit." {
		t.Errorf("text = %q, want trimmed content", text)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.Model != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "Backend Engineer") {
		t.Errorf("prompt missing job title: %q", gotReq.Messages[1].Content)
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "rate limit"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New("groq", server.URL, "k", "m")

	_, err := client.Generate(context.Background(), testFacts())
	if err == nil {
		t.Fatalf("expected error on 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := New("openai", server.URL, "k", "m")

	if _, err := client.Generate(context.Background(), testFacts()); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}
