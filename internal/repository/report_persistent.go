package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/soochol/wfcheck/internal/flow"
)

// ReportDB defines the DB-layer methods needed by the persistent report repo.
// *db.DB satisfies this interface.
type ReportDB interface {
	CreateReport(ctx context.Context, rec *flow.ValidationRecord) error
	GetReport(ctx context.Context, id string) (*flow.ValidationRecord, error)
	ListReports(ctx context.Context, workflowName string, limit int) ([]*flow.ValidationRecord, error)
}

// PersistentReportRepository wraps MemoryReportRepository with PostgreSQL.
// Writes go to both; reads prefer memory for single records and the
// database for listings, falling back to memory when the database fails.
type PersistentReportRepository struct {
	mem *MemoryReportRepository
	db  ReportDB
}

func NewPersistentReportRepository(mem *MemoryReportRepository, db ReportDB) *PersistentReportRepository {
	return &PersistentReportRepository{mem: mem, db: db}
}

func (r *PersistentReportRepository) Create(ctx context.Context, rec *flow.ValidationRecord) error {
	_ = r.mem.Create(ctx, rec)
	if err := r.db.CreateReport(ctx, rec); err != nil {
		slog.Warn("db create report failed, in-memory only", "id", rec.ID, "err", err)
	}
	return nil
}

func (r *PersistentReportRepository) Get(ctx context.Context, id string) (*flow.ValidationRecord, error) {
	rec, err := r.mem.Get(ctx, id)
	if err == nil {
		return rec, nil
	}
	rec, dbErr := r.db.GetReport(ctx, id)
	if dbErr != nil {
		if !errors.Is(dbErr, sql.ErrNoRows) {
			slog.Warn("db get report failed, using in-memory result", "id", id, "err", dbErr)
		}
		return nil, err // original ErrNotFound
	}
	_ = r.mem.Create(ctx, rec)
	return rec, nil
}

func (r *PersistentReportRepository) List(ctx context.Context, workflowName string, limit int) ([]*flow.ValidationRecord, error) {
	recs, err := r.db.ListReports(ctx, workflowName, limit)
	if err == nil {
		return recs, nil
	}
	slog.Warn("db list reports failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx, workflowName, limit)
}
