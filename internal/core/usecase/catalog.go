package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/resumatch/resumatch/internal/core/domain"
	"github.com/resumatch/resumatch/internal/core/ports"
)

// Catalog owns the in-memory candidate pools. Pools are loaded from the
// source at startup and swapped wholesale on Reload; matching requests
// only ever read snapshots and enrich documents through EnsureDerived.
type Catalog struct {
	source ports.PoolSource
	logger *slog.Logger

	mu      sync.RWMutex
	jobs    []*domain.Job
	resumes []*domain.Resume
}

func NewCatalog(source ports.PoolSource, logger *slog.Logger) *Catalog {
	return &Catalog{source: source, logger: logger}
}

// Reload reads both pools from the source and swaps them in atomically.
// An empty result is valid; the affected matching direction reports
// unavailability per request instead of failing startup.
func (c *Catalog) Reload(ctx context.Context) error {
	jobs, err := c.source.LoadJobs(ctx)
	if err != nil {
		return fmt.Errorf("load jobs pool: %w", err)
	}
	resumes, err := c.source.LoadResumes(ctx)
	if err != nil {
		return fmt.Errorf("load resumes pool: %w", err)
	}

	c.mu.Lock()
	c.jobs = jobs
	c.resumes = resumes
	c.mu.Unlock()

	c.logger.Info("catalog_reloaded", "jobs", len(jobs), "resumes", len(resumes))
	return nil
}

func (c *Catalog) Jobs() []*domain.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jobs
}

func (c *Catalog) Resumes() []*domain.Resume {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resumes
}

func (c *Catalog) JobCount() int    { return len(c.Jobs()) }
func (c *Catalog) ResumeCount() int { return len(c.Resumes()) }

// EnrichJob backfills derived fields missing from the loaded record.
// Pure recomputation: safe to run through Job.EnsureDerived from any
// number of concurrent requests.
func EnrichJob(j *domain.Job) {
	if j.CleanText == "" {
		j.CleanText = Normalize(j.CombinedText())
	}
	if len(j.Skills) == 0 {
		j.Skills = ExtractSkills(j.CleanText)
	}
}

// EnrichResume backfills derived fields missing from the loaded record.
func EnrichResume(r *domain.Resume) {
	if r.CleanText == "" {
		r.CleanText = Normalize(r.Text)
	}
	if len(r.Skills) == 0 {
		r.Skills = ExtractSkills(r.CleanText)
	}
}
