package usecase

import (
	"sort"
	"strings"
)

const (
	CategoryIT          = "INFORMATION-TECHNOLOGY"
	CategoryEngineering = "ENGINEERING"
)

type categoryEntry struct {
	name     string
	keywords []string
}

// categoryTaxonomy maps each occupational category to its detection
// keywords. Slice order is the tiebreak for equal keyword-hit counts.
var categoryTaxonomy = []categoryEntry{
	{CategoryIT, []string{
		"it", "information technology", "software", "programming", "developer", "coding",
		"python", "java", "javascript", "typescript", "react", "vue", "angular", "angular.io",
		"vue.js", "node", "node.js", "database", "orm", "sql", "api", "backend", "frontend",
		"full stack", "fullstack", "web development", "web developer", "web application",
		"web applications", "website", "stateful", "html", "css", "php", "asp", "net", "c++",
		"event-driven", "testing", "relational database", "web design", "user interface",
		"system administrator", "network", "cybersecurity", "data science",
		"machine learning", "ai", "artificial intelligence", "seo", "server-side",
	}},
	{CategoryEngineering, []string{
		"engineer", "engineering", "software engineer", "mechanical engineer", "electrical engineer",
		"civil engineer", "full stack engineer", "backend engineer", "frontend engineer", "staff engineer",
		"senior engineer", "computer science", "cs", "development",
		"web application", "orm", "software development",
	}},
	{"PUBLIC-RELATIONS", []string{
		"public relations", "pr", "communications", "media relations", "press release",
		"brand management", "marketing communications",
	}},
	{"HR", []string{
		"human resources", "hr", "recruiting", "talent acquisition", "employee relations", "hr administrator",
	}},
	{"FINANCE", []string{
		"finance", "accounting", "financial analyst", "cpa", "audit", "bookkeeping", "tax",
	}},
	{"SALES", []string{
		"sales", "account executive", "business development", "account manager", "sales representative",
	}},
	{"MARKETING", []string{
		"marketing", "digital marketing", "social media", "advertising", "brand", "campaign",
	}},
	{"HEALTHCARE", []string{
		"healthcare", "medical", "nurse", "doctor", "physician", "hospital", "clinical",
	}},
	{"EDUCATION", []string{
		"teacher", "education", "teaching", "professor", "instructor", "curriculum",
	}},
}

// relatedCategories widens a detected category to adjacent fields when
// searching the resume pool. Categories without an entry map to themselves.
var relatedCategories = map[string][]string{
	CategoryEngineering: {CategoryEngineering, CategoryIT},
	CategoryIT:          {CategoryIT, CategoryEngineering},
	"PUBLIC-RELATIONS":  {"PUBLIC-RELATIONS", "MARKETING"},
	"HR":                {"HR"},
	"FINANCE":           {"FINANCE", "ACCOUNTANT"},
	"SALES":             {"SALES", "BUSINESS-DEVELOPMENT"},
	"MARKETING":         {"MARKETING", "PUBLIC-RELATIONS"},
}

// InferCategories scores each taxonomy category by keyword hits over the
// normalized text and returns up to the top 3, ordered by score descending
// with taxonomy order breaking ties.
func InferCategories(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	type scored struct {
		name  string
		score int
	}
	var hits []scored
	for _, entry := range categoryTaxonomy {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{entry.name, score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]string, 0, 3)
	for _, h := range hits {
		out = append(out, h.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// RelevantCategories expands the inferred categories to the set worth
// searching. Tech postings are deliberately narrowed to exactly the two
// technology categories so unrelated fields do not leak in.
func RelevantCategories(text string) map[string]struct{} {
	inferred := InferCategories(text)

	relevant := make(map[string]struct{}, len(inferred))
	for _, cat := range inferred {
		if cat == CategoryEngineering || cat == CategoryIT {
			return map[string]struct{}{
				CategoryEngineering: {},
				CategoryIT:          {},
			}
		}
		relevant[cat] = struct{}{}
	}
	for _, cat := range inferred {
		for _, rel := range relatedCategories[cat] {
			relevant[rel] = struct{}{}
		}
	}
	return relevant
}

// BoostScore adds boost to score when the candidate's category belongs to
// the relevant set, capped at 1.0. Defined for completeness of the
// classifier; the orchestrator uses category filtering, not score
// boosting (the two mechanisms compose independently).
func BoostScore(score float64, candidateCategory string, relevant map[string]struct{}, boost float64) float64 {
	if _, ok := relevant[strings.ToUpper(strings.TrimSpace(candidateCategory))]; !ok {
		return score
	}
	if boosted := score + boost; boosted < 1.0 {
		return boosted
	}
	return 1.0
}
