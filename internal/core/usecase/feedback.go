package usecase

import (
	"fmt"
	"strings"

	"github.com/resumatch/resumatch/internal/core/domain"
)

// DefaultFeedbackThreshold is the score a candidate must clear before the
// feedback report stops flagging overall alignment.
const DefaultFeedbackThreshold = 0.6

// learningPathHints classify a missing skill; first category whose hint
// matches wins.
var learningPathHints = []struct {
	category string
	hints    []string
}{
	{"technical", []string{"python", "java", "javascript", "sql", "database", "aws", "docker"}},
	{"soft_skills", []string{"leadership", "communication", "project management", "agile", "scrum"}},
	{"domain", []string{"machine learning", "data science", "web development", "mobile development"}},
}

// Feedback builds the candidate-facing coaching report for one pairing:
// which skills are missing, where to focus, and what to change in the
// profile. score is the blended match score in [0,1].
func Feedback(job *domain.Job, resume *domain.Resume, score, threshold float64) domain.CandidateFeedback {
	if threshold <= 0 {
		threshold = DefaultFeedbackThreshold
	}

	jobSkills := job.Skills.Set()
	resumeSkills := resume.Skills.Set()
	matching := sortedIntersection(jobSkills, resumeSkills)
	missing := sortedDifference(jobSkills, resumeSkills)

	skillGap := 1.0
	if len(jobSkills) > 0 {
		skillGap = float64(len(missing)) / float64(len(jobSkills))
	}

	var areas []string
	if score < threshold {
		areas = append(areas, "Overall profile alignment needs improvement")
	}
	if skillGap > 0.3 {
		areas = append(areas, fmt.Sprintf("Missing %d critical skills", len(missing)))
	}
	if len(matching) < 3 {
		areas = append(areas, "Limited overlap with required skills")
	}

	var paths []string
	for _, skill := range missing {
		if len(paths) == 5 {
			break
		}
		paths = append(paths, learningPath(skill))
	}

	var improvements []string
	if score < 0.5 {
		improvements = append(improvements, "Enhance resume keywords to better match job description terminology")
	}
	if len(matching)*2 < len(jobSkills) {
		top := missing
		if len(top) > 5 {
			top = top[:5]
		}
		improvements = append(improvements, fmt.Sprintf("Focus on acquiring top %d missing skills: %s", len(top), strings.Join(top, ", ")))
	}
	improvements = append(improvements,
		"Highlight relevant projects and experiences more prominently",
		"Consider obtaining relevant certifications to strengthen profile",
	)

	return domain.CandidateFeedback{
		CurrentScore:     round3(score),
		Threshold:        threshold,
		MeetsThreshold:   score >= threshold,
		MatchingSkills:   matching,
		MissingSkills:    missing,
		SkillGapPercent:  round1(skillGap * 100),
		ImprovementAreas: areas,
		LearningPaths:    paths,
		Improvements:     improvements,
	}
}

func learningPath(skill string) string {
	category := "technical"
classify:
	for _, entry := range learningPathHints {
		for _, hint := range entry.hints {
			if strings.Contains(strings.ToLower(skill), hint) {
				category = entry.category
				break classify
			}
		}
	}
	switch category {
	case "soft_skills":
		return fmt.Sprintf("%s: Practice through projects, mentorship, or workshops", skill)
	case "domain":
		return fmt.Sprintf("%s: Build portfolio projects and gain hands-on experience", skill)
	default:
		return fmt.Sprintf("%s: Consider online courses or certification programs", skill)
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
