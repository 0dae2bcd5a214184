// Package repository defines storage interfaces for validation records.
package repository

import (
	"context"
	"errors"

	"github.com/soochol/wfcheck/internal/flow"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("validation record not found")

// ReportRepository abstracts persistence of validation records so callers
// don't need to know whether storage is in-memory or PostgreSQL.
type ReportRepository interface {
	Create(ctx context.Context, rec *flow.ValidationRecord) error
	Get(ctx context.Context, id string) (*flow.ValidationRecord, error)
	// List returns records newest first. workflowName filters when non-empty;
	// limit <= 0 means no limit.
	List(ctx context.Context, workflowName string, limit int) ([]*flow.ValidationRecord, error)
}
