package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soochol/wfcheck/internal/flow"
	"github.com/soochol/wfcheck/internal/repository"
	"github.com/soochol/wfcheck/internal/validate"
	"golang.org/x/sync/errgroup"
)

// ValidationService validates workflows and keeps a history of the results.
type ValidationService struct {
	validator *validate.Validator
	repo      repository.ReportRepository
}

// NewValidationService creates a ValidationService.
func NewValidationService(validator *validate.Validator, repo repository.ReportRepository) *ValidationService {
	return &ValidationService{validator: validator, repo: repo}
}

// Validate checks wf and records the result.
func (s *ValidationService) Validate(ctx context.Context, wf *flow.WorkflowDefinition) (*flow.ValidationRecord, error) {
	report := s.validator.ValidateDefinition(wf)
	rec := flow.NewValidationRecord(wf.Name, report)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	slog.Info("workflow validated",
		"id", rec.ID, "workflow", wf.Name, "valid", report.Valid,
		"errors", len(report.Errors), "warnings", len(report.Warnings))
	return rec, nil
}

// Get returns a recorded validation.
func (s *ValidationService) Get(ctx context.Context, id string) (*flow.ValidationRecord, error) {
	return s.repo.Get(ctx, id)
}

// List returns recorded validations, newest first.
func (s *ValidationService) List(ctx context.Context, workflowName string, limit int) ([]*flow.ValidationRecord, error) {
	return s.repo.List(ctx, workflowName, limit)
}

// FileResult is the outcome of checking one workflow file. Err is set when
// the file could not be read or parsed; Report is nil in that case.
type FileResult struct {
	Path     string
	Workflow string
	Report   *flow.Report
	Err      error
}

// Failed reports whether the file was unreadable or invalid.
func (r FileResult) Failed() bool {
	return r.Err != nil || r.Report == nil || !r.Report.Valid
}

// CheckFiles loads and validates each file, running up to concurrency
// checks at once. Results are returned in the order of paths. Files are not
// recorded in the history. A cancelled context marks unchecked files with
// the context error.
func (s *ValidationService) CheckFiles(ctx context.Context, paths []string, concurrency int) []FileResult {
	results := make([]FileResult, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = FileResult{Path: path}
			if err := gCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			wf, err := flow.LoadFile(path)
			if err != nil {
				slog.Warn("workflow file unreadable", "path", path, "err", err)
				results[i].Err = err
				return nil
			}
			report := s.validator.ValidateDefinition(wf)
			results[i].Workflow = wf.Name
			results[i].Report = &report
			return nil
		})
	}
	_ = g.Wait() // errors are embedded in results, not returned
	return results
}
