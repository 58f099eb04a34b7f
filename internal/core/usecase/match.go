package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/resumatch/resumatch/internal/core/domain"
	"github.com/resumatch/resumatch/internal/core/ports"
)

const (
	// Floors below which a candidate is not considered a match. The
	// job→candidates direction is stricter because the category filter
	// has already raised precision.
	minSimilarityJobs       = 0.2
	minSimilarityCandidates = 0.3

	// Category filtering is a soft narrowing: it is discarded whenever it
	// would leave fewer candidates than this.
	categoryFilterFloor = 5

	// How many inferred categories participate in pool filtering.
	categoryFilterTopN = 2

	// Jobs whose requirements extract normalizes shorter than this fall
	// back to the full cleaned text for embedding.
	minRequirementsChars = 100
)

// FilterOutcome reports what the category pre-filter did for one
// job→candidates request.
type FilterOutcome string

const (
	FilterApplied  FilterOutcome = "applied"
	FilterReverted FilterOutcome = "reverted"
	FilterSkipped  FilterOutcome = "skipped"
)

// Matcher drives both matching directions: embed the query, embed the
// (possibly filtered) pool in one batch, rank by cosine similarity.
type Matcher struct {
	catalog  *Catalog
	embedder ports.Embedder
	logger   *slog.Logger
}

func NewMatcher(catalog *Catalog, embedder ports.Embedder, logger *slog.Logger) *Matcher {
	return &Matcher{
		catalog:  catalog,
		embedder: embedder,
		logger:   logger,
	}
}

// BackendLoaded reports whether the named backend has finished its
// lazy initialization. It never triggers inference itself.
func (m *Matcher) BackendLoaded(backend domain.Backend) bool {
	return m.embedder.Loaded(backend)
}

// ProcessResume derives a query resume from extracted plain text.
func ProcessResume(raw string) *domain.Resume {
	clean := Normalize(raw)
	return &domain.Resume{
		Text:      raw,
		CleanText: clean,
		Skills:    ExtractSkills(clean),
	}
}

// ProcessJob derives a query job from extracted plain text. The
// requirements-focused extract is preferred for embedding and skill
// extraction when it normalizes to a substantial amount of text.
func ProcessJob(raw string) *domain.Job {
	cleanFull := Normalize(raw)
	cleanReq := Normalize(ExtractRequirements(raw))

	matchText := cleanFull
	if len(cleanReq) > minRequirementsChars {
		matchText = cleanReq
	}
	return &domain.Job{
		Description: raw,
		CleanText:   matchText,
		Skills:      ExtractSkills(matchText),
	}
}

// ResumeToJobs ranks the job pool against the query resume.
func (m *Matcher) ResumeToJobs(ctx context.Context, resume *domain.Resume, backend domain.Backend, topN int) ([]domain.JobMatch, error) {
	jobs := m.catalog.Jobs()
	if len(jobs) == 0 {
		return nil, domain.WrapError(domain.ErrPoolUnavailable, "match resume to jobs", errors.New("job pool is empty"))
	}

	queryVector, err := m.embedder.Encode(ctx, backend, resume.CleanText)
	if err != nil {
		return nil, fmt.Errorf("embed query resume: %w", err)
	}

	texts := make([]string, len(jobs))
	for i, job := range jobs {
		job.EnsureDerived(EnrichJob)
		texts[i] = job.CleanText
	}

	vectors, err := m.embedder.EncodeBatch(ctx, backend, texts)
	if err != nil {
		return nil, fmt.Errorf("embed job pool: %w", err)
	}

	records := TopMatches(queryVector, vectors, topN, minSimilarityJobs)
	matches := make([]domain.JobMatch, 0, len(records))
	for rank, record := range records {
		matches = append(matches, domain.JobMatch{
			Rank:  rank + 1,
			Score: round3(record.Score),
			Job:   jobs[record.Index],
		})
	}

	m.logger.Info("resume_to_jobs_ranked",
		"backend", string(backend),
		"pool_size", len(jobs),
		"matches", len(matches),
	)
	return matches, nil
}

// JobToCandidates ranks the resume pool against the query job, narrowing
// the pool to the top inferred categories first when that leaves enough
// candidates to be useful.
func (m *Matcher) JobToCandidates(ctx context.Context, job *domain.Job, backend domain.Backend, topN int) ([]domain.CandidateMatch, FilterOutcome, error) {
	resumes := m.catalog.Resumes()
	if len(resumes) == 0 {
		return nil, FilterSkipped, domain.WrapError(domain.ErrPoolUnavailable, "match job to candidates", errors.New("resume pool is empty"))
	}

	queryVector, err := m.embedder.Encode(ctx, backend, job.CleanText)
	if err != nil {
		return nil, FilterSkipped, fmt.Errorf("embed query job: %w", err)
	}

	pool, indices, outcome := m.filterByCategory(job.CleanText, resumes)

	texts := make([]string, len(pool))
	for i, resume := range pool {
		resume.EnsureDerived(EnrichResume)
		texts[i] = resume.CleanText
	}

	vectors, err := m.embedder.EncodeBatch(ctx, backend, texts)
	if err != nil {
		return nil, outcome, fmt.Errorf("embed resume pool: %w", err)
	}

	records := TopMatches(queryVector, vectors, topN, minSimilarityCandidates)
	matches := make([]domain.CandidateMatch, 0, len(records))
	for rank, record := range records {
		original := indices[record.Index]
		matches = append(matches, domain.CandidateMatch{
			Rank:   rank + 1,
			Index:  original,
			Score:  round3(record.Score),
			Resume: resumes[original],
		})
	}

	m.logger.Info("job_to_candidates_ranked",
		"backend", string(backend),
		"pool_size", len(resumes),
		"filtered_size", len(pool),
		"filter", string(outcome),
		"matches", len(matches),
	)
	return matches, outcome, nil
}

// filterByCategory narrows the resume pool to the top-2 inferred
// categories. The returned index slice maps filtered positions back to
// positions in the full pool.
func (m *Matcher) filterByCategory(jobText string, resumes []*domain.Resume) ([]*domain.Resume, []int, FilterOutcome) {
	identity := func() []int {
		indices := make([]int, len(resumes))
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	inferred := InferCategories(jobText)
	if len(inferred) == 0 {
		return resumes, identity(), FilterSkipped
	}
	if len(inferred) > categoryFilterTopN {
		inferred = inferred[:categoryFilterTopN]
	}

	wanted := make(map[string]struct{}, len(inferred))
	for _, cat := range inferred {
		wanted[strings.ToUpper(cat)] = struct{}{}
	}

	var filtered []*domain.Resume
	var indices []int
	for i, resume := range resumes {
		if _, ok := wanted[strings.ToUpper(resume.Category)]; ok {
			filtered = append(filtered, resume)
			indices = append(indices, i)
		}
	}

	if len(filtered) < categoryFilterFloor {
		m.logger.Debug("category_filter_reverted",
			"categories", inferred,
			"filtered_size", len(filtered),
			"floor", categoryFilterFloor,
		)
		return resumes, identity(), FilterReverted
	}
	return filtered, indices, FilterApplied
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
