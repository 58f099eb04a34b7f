package usecase

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/resumatch/resumatch/internal/core/domain"
	"github.com/resumatch/resumatch/internal/core/ports"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(context.Context, domain.MatchFacts) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestRescaleSimilarity(t *testing.T) {
	cases := []struct {
		raw, want float64
	}{
		{0, 0},
		{0.1, 0.2},
		{0.19, 0.38},
		{0.2, 0.40},
		{0.45, 0.675},
		{0.7, 0.95},
		{0.9, 0.98},
	}
	for _, tc := range cases {
		got := rescaleSimilarity(tc.raw)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("rescaleSimilarity(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestExplainBlendsScoreAndSkills(t *testing.T) {
	explainer := NewExplainer(nil, time.Second, testLogger())
	job := &domain.Job{
		Title:       "Data Engineer",
		Skills:      domain.SkillList{"python", "sql"},
		Description: "Pipelines",
	}
	resume := &domain.Resume{
		ID:     "42",
		Skills: domain.SkillList{"python", "aws"},
	}

	got := explainer.Explain(context.Background(), job, resume, 0.5)

	// scaled = 0.40 + (0.3/0.5)*0.55 = 0.73; final = 0.73*0.7 + 0.5*0.3 = 0.661
	if got.Score != 0.661 {
		t.Errorf("Score = %v, want 0.661", got.Score)
	}
	if got.AlignmentLevel != "Good Match" || got.Recommendation != "Recommended" {
		t.Errorf("tier = %q/%q, want Good Match/Recommended", got.AlignmentLevel, got.Recommendation)
	}
	if !reflect.DeepEqual(got.MatchingSkills, []string{"python"}) {
		t.Errorf("MatchingSkills = %v", got.MatchingSkills)
	}
	if !reflect.DeepEqual(got.MissingSkills, []string{"sql"}) {
		t.Errorf("MissingSkills = %v", got.MissingSkills)
	}
	if !reflect.DeepEqual(got.ExtraSkills, []string{"aws"}) {
		t.Errorf("ExtraSkills = %v", got.ExtraSkills)
	}
	if got.SkillRatio != 0.5 {
		t.Errorf("SkillRatio = %v, want 0.5", got.SkillRatio)
	}
	if got.Gaps != "Missing 1 key skills: sql" {
		t.Errorf("Gaps = %q", got.Gaps)
	}
}

func TestExplainAlignmentTiers(t *testing.T) {
	cases := []struct {
		final         float64
		level, recomm string
	}{
		{0.85, "Excellent Match", "Strongly Recommended"},
		{0.80, "Excellent Match", "Strongly Recommended"},
		{0.70, "Good Match", "Recommended"},
		{0.55, "Moderate Match", "Consider with Training"},
		{0.30, "Weak Match", "Not Recommended"},
	}
	for _, tc := range cases {
		level, recomm := alignmentTier(tc.final)
		if level != tc.level || recomm != tc.recomm {
			t.Errorf("alignmentTier(%v) = %q/%q, want %q/%q", tc.final, level, recomm, tc.level, tc.recomm)
		}
	}
}

func TestNarrativeCascadeFirstSuccessWins(t *testing.T) {
	failing := &stubProvider{name: "groq", err: errors.New("rate limited")}
	working := &stubProvider{name: "openai", text: "A strong fit."}
	skipped := &stubProvider{name: "gemini", text: "never reached"}

	var statuses [][2]string
	explainer := NewExplainer([]ports.SummaryProvider{failing, working, skipped}, time.Second, testLogger())
	explainer.SetObserver(func(provider, status string) {
		statuses = append(statuses, [2]string{provider, status})
	})

	got := explainer.Explain(context.Background(), &domain.Job{Title: "X"}, &domain.Resume{}, 0.5)
	if got.Narrative != "A strong fit." {
		t.Fatalf("Narrative = %q, want the second provider's text", got.Narrative)
	}
	if skipped.calls != 0 {
		t.Errorf("third provider called %d times, want 0", skipped.calls)
	}
	want := [][2]string{{"groq", "error"}, {"openai", "ok"}}
	if !reflect.DeepEqual(statuses, want) {
		t.Errorf("observer saw %v, want %v", statuses, want)
	}
}

func TestNarrativeEmptyTextCountsAsFailure(t *testing.T) {
	blank := &stubProvider{name: "groq", text: "   "}
	explainer := NewExplainer([]ports.SummaryProvider{blank}, time.Second, testLogger())

	got := explainer.Explain(context.Background(), &domain.Job{Title: "Engineer", Skills: domain.SkillList{"python"}}, &domain.Resume{Skills: domain.SkillList{"python"}}, 0.5)
	if got.Narrative == "" || got.Narrative == "   " {
		t.Fatalf("Narrative = %q, want the template fallback", got.Narrative)
	}
}

func TestNarrativeFallsBackToTemplate(t *testing.T) {
	var statuses [][2]string
	explainer := NewExplainer(nil, time.Second, testLogger())
	explainer.SetObserver(func(provider, status string) {
		statuses = append(statuses, [2]string{provider, status})
	})

	job := &domain.Job{Title: "Engineer", Skills: domain.SkillList{"python", "sql"}}
	resume := &domain.Resume{Skills: domain.SkillList{"python"}}

	got := explainer.Explain(context.Background(), job, resume, 0.5)

	wantFacts := domain.MatchFacts{
		JobTitle:       "Engineer",
		Score:          rescaleSimilarity(0.5)*0.7 + 0.5*0.3,
		MatchingSkills: []string{"python"},
		MissingSkills:  []string{"sql"},
	}
	if got.Narrative != TemplateSummary(wantFacts) {
		t.Errorf("Narrative = %q, want template output", got.Narrative)
	}
	want := [][2]string{{"template", "fallback"}}
	if !reflect.DeepEqual(statuses, want) {
		t.Errorf("observer saw %v, want %v", statuses, want)
	}
}

func TestTemplateSummary(t *testing.T) {
	facts := domain.MatchFacts{
		JobTitle:       "Backend Engineer",
		Score:          0.72,
		MatchingSkills: []string{"go", "sql"},
		MissingSkills:  []string{"kubernetes"},
	}
	got := TemplateSummary(facts)
	want := "This candidate shows strong alignment (72.0% similarity) for the Backend Engineer position. " +
		"Key strengths include: go, sql. " +
		"Areas for development: kubernetes."
	if got != want {
		t.Errorf("TemplateSummary() = %q, want %q", got, want)
	}

	noGaps := domain.MatchFacts{JobTitle: "Analyst", Score: 0.4}
	if gotNoGaps := TemplateSummary(noGaps); gotNoGaps != "This candidate shows limited alignment (40.0% similarity) for the Analyst position. No significant skill gaps identified." {
		t.Errorf("no-gaps summary = %q", gotNoGaps)
	}
}
