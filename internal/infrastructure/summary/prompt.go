// Package summary holds the shared pieces of the prose-generation
// provider cascade: the recruiter prompt and the circuit-breaker guard
// wrapped around each external provider.
package summary

import (
	"fmt"
	"strings"

	"github.com/resumatch/resumatch/internal/core/domain"
)

const systemPrompt = "You are a charismatic senior technical recruiter known for insightful, engaging candidate assessments. Write naturally and avoid corporate jargon."

// SystemPrompt is the instruction sent alongside every generation request.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt renders the match facts into the assessment request. Tone
// scales with the match score so weak pairings read honest rather than
// salesy.
func BuildPrompt(facts domain.MatchFacts) string {
	tone, level := toneForScore(facts.Score)

	strengths := "Limited overlap detected"
	if len(facts.MatchingSkills) > 0 {
		strengths = joinLimited(facts.MatchingSkills, 8)
	}
	growth := "None identified"
	if len(facts.MissingSkills) > 0 {
		growth = joinLimited(facts.MissingSkills, 5)
	}

	return fmt.Sprintf(`As an experienced technical recruiter with a %s approach, write a compelling 2-3 sentence match assessment for this %s candidate-job pairing:

**Position:** %s at %s
**Candidate Background:** %s
**Match Score:** %.1f%%
**Key Strengths:** %s
**Growth Areas:** %s

Create an engaging, human-sounding summary that:
- Highlights the candidate's strongest relevant qualifications
- Mentions 2-3 specific technical/domain skills they bring
- If there are gaps, frame them as "development opportunities" or "areas to strengthen"
- Use active, confident language
- Be specific about WHY they're a fit (or not)
- Avoid generic phrases like "shows alignment" - be creative and specific

Write naturally, as if you're explaining this match to a hiring manager over coffee.`,
		tone, level,
		orNA(facts.JobTitle), orNA(facts.Company),
		orNA(facts.CandidateCategory),
		facts.Score*100,
		strengths, growth,
	)
}

func toneForScore(score float64) (tone, level string) {
	switch {
	case score >= 0.75:
		return "highly enthusiastic", "excellent"
	case score >= 0.60:
		return "positive and encouraging", "strong"
	case score >= 0.45:
		return "balanced and constructive", "moderate"
	default:
		return "honest but constructive", "limited"
	}
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
