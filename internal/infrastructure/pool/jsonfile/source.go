// Package jsonfile loads the job and resume pools from JSON files on
// disk. A missing file is treated as an empty pool so the service can
// start before datasets are provisioned.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/resumatch/resumatch/internal/core/domain"
)

// Source reads pool documents from two JSON array files.
type Source struct {
	jobsPath    string
	resumesPath string
	logger      *slog.Logger
}

func New(jobsPath, resumesPath string, logger *slog.Logger) *Source {
	return &Source{jobsPath: jobsPath, resumesPath: resumesPath, logger: logger}
}

func (s *Source) LoadJobs(_ context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	ok, err := s.decodeFile(s.jobsPath, &jobs)
	if err != nil {
		return nil, fmt.Errorf("load jobs pool: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return jobs, nil
}

func (s *Source) LoadResumes(_ context.Context) ([]*domain.Resume, error) {
	var resumes []*domain.Resume
	ok, err := s.decodeFile(s.resumesPath, &resumes)
	if err != nil {
		return nil, fmt.Errorf("load resumes pool: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return resumes, nil
}

// decodeFile reports ok=false without error when the file does not
// exist.
func (s *Source) decodeFile(path string, out any) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.logger != nil {
				s.logger.Warn("pool_file_missing", "path", path)
			}
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
