package usecase

import "strings"

// skillWhitelist is the fixed vocabulary of recognized skill terms.
// Extraction is plain substring containment over normalized text, with
// no stemming or word boundaries. Short terms like "go" and "r" can
// false-positive inside longer words; that is accepted behavior.
var skillWhitelist = []string{
	// Programming languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php", "swift", "kotlin",
	"go", "rust", "scala", "r",

	// Web technologies
	"html", "css", "react", "vue", "angular", "node.js", "nodejs", "express",
	"fastapi", "django", "flask", "spring", "bootstrap", "tailwind",

	// Databases
	"sql", "mysql", "postgresql", "mongodb", "redis", "oracle", "sqlite",

	// Cloud & devops
	"aws", "azure", "gcp", "docker", "kubernetes", "git", "jenkins", "ci/cd",

	// Design tools
	"photoshop", "illustrator", "figma", "sketch", "autocad",

	// Data & analytics
	"excel", "tableau", "powerbi", "pandas", "numpy", "tensorflow", "pytorch",

	// Methodologies
	"agile", "scrum", "rest", "api", "microservices",

	// Soft skills
	"leadership", "management", "communication",
}

// ExtractSkills returns the whitelist terms present in the text. Output
// order follows whitelist order; duplicates are impossible by construction.
func ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var found []string
	for _, term := range skillWhitelist {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}
