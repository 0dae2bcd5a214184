package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/soochol/wfcheck/internal/flow"
	memstore "github.com/soochol/wfcheck/internal/repository/memory"
)

// DefaultMemoryLimit caps the in-memory history.
const DefaultMemoryLimit = 1000

// MemoryReportRepository is a thread-safe in-memory ReportRepository.
type MemoryReportRepository struct {
	store *memstore.Store[*flow.ValidationRecord]
}

// NewMemoryReportRepository creates an empty repository holding at most
// limit records.
func NewMemoryReportRepository(limit int) *MemoryReportRepository {
	return &MemoryReportRepository{
		store: memstore.New(func(r *flow.ValidationRecord) string { return r.ID }, limit),
	}
}

func (r *MemoryReportRepository) Create(ctx context.Context, rec *flow.ValidationRecord) error {
	return r.store.Set(ctx, rec)
}

func (r *MemoryReportRepository) Get(ctx context.Context, id string) (*flow.ValidationRecord, error) {
	rec, err := r.store.Get(ctx, id)
	if errors.Is(err, memstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

func (r *MemoryReportRepository) List(ctx context.Context, workflowName string, limit int) ([]*flow.ValidationRecord, error) {
	var pred func(*flow.ValidationRecord) bool
	if workflowName != "" {
		pred = func(rec *flow.ValidationRecord) bool { return rec.WorkflowName == workflowName }
	}
	return r.store.Newest(ctx, pred, limit), nil
}
