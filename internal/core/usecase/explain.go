package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/resumatch/resumatch/internal/core/domain"
	"github.com/resumatch/resumatch/internal/core/ports"
)

// Alignment tiers, evaluated high to low against the blended score.
const (
	tierExcellent = 0.80
	tierGood      = 0.65
	tierModerate  = 0.50
)

// Explainer turns a raw (job, resume, similarity) triple into a scored,
// explained match summary. Prose generation is delegated to external
// providers in priority order; everything else is a pure function of the
// inputs, and provider failure can never fail the explanation.
type Explainer struct {
	providers []ports.SummaryProvider
	timeout   time.Duration
	logger    *slog.Logger

	// observe reports provider outcomes for metrics; may be nil.
	observe func(provider, status string)
}

func NewExplainer(providers []ports.SummaryProvider, timeout time.Duration, logger *slog.Logger) *Explainer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Explainer{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// SetObserver installs a provider-outcome callback (status is "ok",
// "error" or "fallback").
func (e *Explainer) SetObserver(fn func(provider, status string)) {
	e.observe = fn
}

// Explain builds the full match summary for one pairing. rawSimilarity is
// the cosine score straight from the ranker.
func (e *Explainer) Explain(ctx context.Context, job *domain.Job, resume *domain.Resume, rawSimilarity float64) domain.MatchSummary {
	jobSkills := job.Skills.Set()
	resumeSkills := resume.Skills.Set()

	matching := sortedIntersection(jobSkills, resumeSkills)
	missing := sortedDifference(jobSkills, resumeSkills)
	extra := sortedDifference(resumeSkills, jobSkills)

	skillRatio := 0.0
	if len(jobSkills) > 0 {
		skillRatio = float64(len(matching)) / float64(len(jobSkills))
	}

	scaled := rescaleSimilarity(rawSimilarity)
	final := scaled*0.7 + skillRatio*0.3

	level, recommendation := alignmentTier(final)

	facts := domain.MatchFacts{
		JobTitle:          job.Title,
		Company:           job.Company,
		JobDescription:    job.Description,
		CandidateID:       string(resume.ID),
		CandidateCategory: resume.Category,
		Score:             final,
		SkillRatio:        skillRatio,
		MatchingSkills:    matching,
		MissingSkills:     missing,
		ExtraSkills:       extra,
	}

	return domain.MatchSummary{
		Score:          round3(final),
		AlignmentLevel: level,
		Recommendation: recommendation,
		WhyFit: fmt.Sprintf(
			"Candidate demonstrates %.1f%% compatibility with the job requirements. Strong skill alignment of %.1f%% indicates relevant experience.",
			final*100, skillRatio*100,
		),
		Gaps:           gapsSentence(missing),
		Narrative:      e.narrative(ctx, facts),
		MatchingSkills: matching,
		MissingSkills:  missing,
		ExtraSkills:    extra,
		SkillRatio:     round3(skillRatio),
	}
}

// rescaleSimilarity maps raw cosine scores to the human-facing range:
// [0, 0.2) stretches over [0, 0.4) and [0.2, 0.7] over [0.40, 0.95],
// extrapolating above and capped at 0.98 so a perfect score is never
// reported. The branch boundary is strictly raw < 0.2.
func rescaleSimilarity(raw float64) float64 {
	var scaled float64
	if raw < 0.2 {
		scaled = raw * 2
	} else {
		scaled = 0.40 + ((raw-0.2)/0.5)*0.55
	}
	if scaled > 0.98 {
		return 0.98
	}
	return scaled
}

func alignmentTier(final float64) (level, recommendation string) {
	switch {
	case final >= tierExcellent:
		return "Excellent Match", "Strongly Recommended"
	case final >= tierGood:
		return "Good Match", "Recommended"
	case final >= tierModerate:
		return "Moderate Match", "Consider with Training"
	default:
		return "Weak Match", "Not Recommended"
	}
}

func gapsSentence(missing []string) string {
	if len(missing) == 0 {
		return "No significant skill gaps identified."
	}
	preview := missing
	if len(preview) > 5 {
		preview = preview[:5]
	}
	return fmt.Sprintf("Missing %d key skills: %s", len(missing), strings.Join(preview, ", "))
}

// narrative walks the provider cascade; the first success wins and any
// failure falls through. The deterministic template closes the cascade
// and cannot fail.
func (e *Explainer) narrative(ctx context.Context, facts domain.MatchFacts) string {
	for _, provider := range e.providers {
		providerCtx, cancel := context.WithTimeout(ctx, e.timeout)
		text, err := provider.Generate(providerCtx, facts)
		cancel()

		if err != nil {
			e.logger.Warn("summary_provider_failed", "provider", provider.Name(), "error", err)
			e.record(provider.Name(), "error")
			continue
		}
		if strings.TrimSpace(text) == "" {
			e.record(provider.Name(), "error")
			continue
		}
		e.record(provider.Name(), "ok")
		return text
	}

	e.record("template", "fallback")
	return TemplateSummary(facts)
}

func (e *Explainer) record(provider, status string) {
	if e.observe != nil {
		e.observe(provider, status)
	}
}

// TemplateSummary is the provider of last resort: a deterministic local
// rendering of the match facts.
func TemplateSummary(facts domain.MatchFacts) string {
	var strength string
	switch {
	case facts.Score >= 0.70:
		strength = "strong"
	case facts.Score >= 0.55:
		strength = "good"
	case facts.Score >= 0.45:
		strength = "moderate"
	default:
		strength = "limited"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This candidate shows %s alignment (%.1f%% similarity) for the %s position. ", strength, facts.Score*100, facts.JobTitle)

	if len(facts.MatchingSkills) > 0 {
		strengths := facts.MatchingSkills
		if len(strengths) > 5 {
			strengths = strengths[:5]
		}
		fmt.Fprintf(&b, "Key strengths include: %s. ", strings.Join(strengths, ", "))
	}

	if len(facts.MissingSkills) > 0 {
		gaps := facts.MissingSkills
		if len(gaps) > 3 {
			gaps = gaps[:3]
		}
		fmt.Fprintf(&b, "Areas for development: %s.", strings.Join(gaps, ", "))
	} else {
		b.WriteString("No significant skill gaps identified.")
	}
	return b.String()
}

func sortedIntersection(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedDifference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
