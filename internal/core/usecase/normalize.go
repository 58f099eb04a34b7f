package usecase

import (
	"regexp"
	"strings"
)

var (
	reHTMLTag    = regexp.MustCompile(`<.*?>`)
	reNonLetter  = regexp.MustCompile(`[^a-z\s]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, strips HTML-like tags and everything that is
// not a lowercase letter or whitespace, and collapses whitespace runs.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = reHTMLTag.ReplaceAllString(text, " ")
	text = reNonLetter.ReplaceAllString(text, " ")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// requirementAnchors mark lines that open the requirements/qualifications
// section of a posting. Matched case-insensitively as substrings.
var requirementAnchors = []string{
	"requirements",
	"qualifications",
	"required qualifications",
	"required skills",
	"must have",
	"required experience",
	"education requirements",
	"bachelor",
	"degree in",
	"years experience",
	"experience with",
	"proficiency in",
	"knowledge of",
	"skills required",
	"we require",
	"you must have",
	"you should have",
	"key responsibilities",
	"responsibilities include",
}

// technicalLineKeywords back the fallback path: when no anchor line is
// found, only lines mentioning one of these survive.
var technicalLineKeywords = []string{
	"react", "vue", "angular", "javascript", "python", "java", "sql", "database",
	"backend", "frontend", "full stack", "engineer", "developer", "programming",
	"computer science", "software", "orm", "api", "aws", "docker", "kubernetes",
}

// ExtractRequirements narrows a raw job posting to its qualifications text.
// It scans line-by-line before normalization to preserve line structure.
// When nothing matches at all, the original text comes back unchanged.
func ExtractRequirements(raw string) string {
	if raw == "" {
		return ""
	}

	lines := strings.Split(raw, "\n")
	anchor := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if containsAny(lower, requirementAnchors) {
			anchor = i
			break
		}
	}

	if anchor >= 0 {
		focused := strings.Join(lines[anchor:], "\n")

		// Walk up to 10 lines back for an "about the role" style heading
		// and keep a bounded window past the anchor when one is found.
		start := anchor - 10
		if start < 0 {
			start = 0
		}
		for i := start; i < anchor; i++ {
			lower := strings.ToLower(lines[i])
			if strings.Contains(lower, "about the role") || strings.Contains(lower, "key responsibilities") {
				end := anchor + 20
				if end > len(lines) {
					end = len(lines)
				}
				focused = strings.Join(lines[i:end], "\n")
				break
			}
		}
		return focused
	}

	var technical []string
	for _, line := range lines {
		if containsAny(strings.ToLower(line), technicalLineKeywords) {
			technical = append(technical, line)
		}
	}
	if len(technical) > 0 {
		return strings.Join(technical, "\n")
	}

	return raw
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
