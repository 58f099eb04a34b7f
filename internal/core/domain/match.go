package domain

// MatchRecord pairs a candidate's position in the ranked pool with its raw
// cosine similarity against the query vector.
type MatchRecord struct {
	Index int
	Score float64
}

// JobMatch is one ranked entry of the resume→jobs direction.
type JobMatch struct {
	Rank  int
	Score float64
	Job   *Job
}

// CandidateMatch is one ranked entry of the job→candidates direction.
// Index refers to the resume's position in the full pool, not the
// category-filtered subset.
type CandidateMatch struct {
	Rank   int
	Index  int
	Score  float64
	Resume *Resume
}

// MatchFacts is the structured input handed to summary providers. It
// carries everything a provider needs to write prose about one pairing.
type MatchFacts struct {
	JobTitle          string
	Company           string
	JobDescription    string
	CandidateID       string
	CandidateCategory string
	Score             float64
	SkillRatio        float64
	MatchingSkills    []string
	MissingSkills     []string
	ExtraSkills       []string
}

// MatchSummary is the explained, human-facing view of one match. Score is
// the blended score in [0,1], not the raw cosine similarity.
type MatchSummary struct {
	Score          float64  `json:"similarity_score"`
	AlignmentLevel string   `json:"alignment_level"`
	Recommendation string   `json:"recommendation"`
	WhyFit         string   `json:"why_fit"`
	Gaps           string   `json:"gaps"`
	Narrative      string   `json:"ai_summary"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	ExtraSkills    []string `json:"extra_skills"`
	SkillRatio     float64  `json:"skill_match_ratio"`
}

// CandidateFeedback is the optional coaching report for the candidate side
// of a job→candidates match.
type CandidateFeedback struct {
	CurrentScore     float64  `json:"current_score"`
	Threshold        float64  `json:"threshold"`
	MeetsThreshold   bool     `json:"meets_threshold"`
	MatchingSkills   []string `json:"matching_skills"`
	MissingSkills    []string `json:"missing_skills"`
	SkillGapPercent  float64  `json:"skill_gap_percentage"`
	ImprovementAreas []string `json:"improvement_areas"`
	LearningPaths    []string `json:"learning_paths"`
	Improvements     []string `json:"actionable_improvements"`
}
