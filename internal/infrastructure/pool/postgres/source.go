// Package postgres loads the job and resume pools from a Postgres
// database. Skills columns are stored as JSONB arrays.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/resumatch/resumatch/internal/core/domain"
)

// Source reads pool documents from the jobs and resumes tables.
type Source struct {
	db *sql.DB
}

func NewSource(db *sql.DB) *Source {
	return &Source{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Source) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026041501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS jobs (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	company TEXT,
	location TEXT,
	description TEXT,
	requirement TEXT,
	required_qual TEXT,
	clean_text TEXT,
	skills JSONB NOT NULL DEFAULT '[]'::jsonb
);

CREATE TABLE IF NOT EXISTS resumes (
	id TEXT PRIMARY KEY,
	category TEXT,
	resume_text TEXT NOT NULL,
	clean_text TEXT,
	skills JSONB NOT NULL DEFAULT '[]'::jsonb
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Source) LoadJobs(ctx context.Context) ([]*domain.Job, error) {
	const query = `
SELECT title, COALESCE(company, ''), COALESCE(location, ''),
	COALESCE(description, ''), COALESCE(requirement, ''), COALESCE(required_qual, ''),
	COALESCE(clean_text, ''), skills
FROM jobs
ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		var (
			job       domain.Job
			rawSkills []byte
		)
		if err := rows.Scan(&job.Title, &job.Company, &job.Location,
			&job.Description, &job.Requirement, &job.RequiredQual,
			&job.CleanText, &rawSkills); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		if err := json.Unmarshal(rawSkills, &job.Skills); err != nil {
			return nil, fmt.Errorf("decode job skills: %w", err)
		}
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func (s *Source) LoadResumes(ctx context.Context) ([]*domain.Resume, error) {
	const query = `
SELECT id, COALESCE(category, ''), resume_text, COALESCE(clean_text, ''), skills
FROM resumes
ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query resumes: %w", err)
	}
	defer rows.Close()

	var resumes []*domain.Resume
	for rows.Next() {
		var (
			resume    domain.Resume
			rawSkills []byte
		)
		if err := rows.Scan(&resume.ID, &resume.Category, &resume.Text,
			&resume.CleanText, &rawSkills); err != nil {
			return nil, fmt.Errorf("scan resume row: %w", err)
		}
		if err := json.Unmarshal(rawSkills, &resume.Skills); err != nil {
			return nil, fmt.Errorf("decode resume skills: %w", err)
		}
		resumes = append(resumes, &resume)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resumes: %w", err)
	}
	return resumes, nil
}
