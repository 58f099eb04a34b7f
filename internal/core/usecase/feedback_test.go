package usecase

import (
	"strings"
	"testing"

	"github.com/resumatch/resumatch/internal/core/domain"
)

func TestFeedbackBelowThreshold(t *testing.T) {
	job := &domain.Job{Skills: domain.SkillList{"python", "sql", "docker", "aws"}}
	resume := &domain.Resume{Skills: domain.SkillList{"python"}}

	got := Feedback(job, resume, 0.45, 0)

	if got.Threshold != DefaultFeedbackThreshold {
		t.Errorf("Threshold = %v, want default", got.Threshold)
	}
	if got.MeetsThreshold {
		t.Errorf("MeetsThreshold = true for score below threshold")
	}
	if got.SkillGapPercent != 75.0 {
		t.Errorf("SkillGapPercent = %v, want 75.0", got.SkillGapPercent)
	}
	if len(got.ImprovementAreas) != 3 {
		t.Errorf("ImprovementAreas = %v, want all three flags", got.ImprovementAreas)
	}
	if len(got.LearningPaths) != 3 {
		t.Errorf("LearningPaths = %v, want one per missing skill", got.LearningPaths)
	}

	foundFocus := false
	for _, imp := range got.Improvements {
		if strings.HasPrefix(imp, "Focus on acquiring top") {
			foundFocus = true
		}
	}
	if !foundFocus {
		t.Errorf("Improvements = %v, want a focus entry", got.Improvements)
	}
}

func TestFeedbackAboveThreshold(t *testing.T) {
	job := &domain.Job{Skills: domain.SkillList{"python", "sql", "aws"}}
	resume := &domain.Resume{Skills: domain.SkillList{"python", "sql", "aws", "docker"}}

	got := Feedback(job, resume, 0.85, 0.6)

	if !got.MeetsThreshold {
		t.Errorf("MeetsThreshold = false for score 0.85")
	}
	if got.SkillGapPercent != 0 {
		t.Errorf("SkillGapPercent = %v, want 0", got.SkillGapPercent)
	}
	if len(got.ImprovementAreas) != 0 {
		t.Errorf("ImprovementAreas = %v, want none", got.ImprovementAreas)
	}
	// The two constant suggestions are always present.
	if len(got.Improvements) != 2 {
		t.Errorf("Improvements = %v, want only the constant pair", got.Improvements)
	}
}

func TestFeedbackNoJobSkillsMeansFullGap(t *testing.T) {
	got := Feedback(&domain.Job{}, &domain.Resume{Skills: domain.SkillList{"python"}}, 0.7, 0.6)
	if got.SkillGapPercent != 100.0 {
		t.Errorf("SkillGapPercent = %v, want 100.0", got.SkillGapPercent)
	}
}

func TestFeedbackLearningPathsCapAtFive(t *testing.T) {
	job := &domain.Job{Skills: domain.SkillList{"python", "sql", "docker", "aws", "kubernetes", "react", "vue"}}
	got := Feedback(job, &domain.Resume{}, 0.2, 0.6)
	if len(got.LearningPaths) != 5 {
		t.Errorf("LearningPaths = %d entries, want cap of 5", len(got.LearningPaths))
	}
}

func TestLearningPathClassification(t *testing.T) {
	cases := []struct {
		skill string
		want  string
	}{
		{"python", "python: Consider online courses or certification programs"},
		{"leadership", "leadership: Practice through projects, mentorship, or workshops"},
		{"machine learning", "machine learning: Build portfolio projects and gain hands-on experience"},
		{"figma", "figma: Consider online courses or certification programs"},
	}
	for _, tc := range cases {
		if got := learningPath(tc.skill); got != tc.want {
			t.Errorf("learningPath(%q) = %q, want %q", tc.skill, got, tc.want)
		}
	}
}
