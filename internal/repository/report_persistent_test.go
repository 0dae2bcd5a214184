package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/soochol/wfcheck/internal/flow"
	"github.com/soochol/wfcheck/internal/repository"
)

var errFake = errors.New("fake db error")

// stubReportDB is a fake DB that records calls and returns canned data.
// A missing record is reported the way *db.DB does, wrapping sql.ErrNoRows.
type stubReportDB struct {
	reports   []*flow.ValidationRecord
	createErr error
	getErr    error
	listErr   error
}

func (s *stubReportDB) CreateReport(_ context.Context, rec *flow.ValidationRecord) error {
	s.reports = append(s.reports, rec)
	return s.createErr
}

func (s *stubReportDB) GetReport(_ context.Context, id string) (*flow.ValidationRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, rec := range s.reports {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("report %s: %w", id, sql.ErrNoRows)
}

func (s *stubReportDB) ListReports(_ context.Context, workflowName string, _ int) ([]*flow.ValidationRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*flow.ValidationRecord
	for _, rec := range s.reports {
		if workflowName == "" || rec.WorkflowName == workflowName {
			out = append(out, rec)
		}
	}
	return out, nil
}

func TestPersistentReportRepository_CreateAndGet(t *testing.T) {
	stub := &stubReportDB{}
	repo := repository.NewPersistentReportRepository(repository.NewMemoryReportRepository(0), stub)

	rec := flow.NewValidationRecord("orders", flow.Report{Valid: true})
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("expected %s, got %s", rec.ID, got.ID)
	}
	if len(stub.reports) != 1 {
		t.Errorf("expected 1 report in DB stub, got %d", len(stub.reports))
	}
}

func TestPersistentReportRepository_CreateSurvivesDbFailure(t *testing.T) {
	stub := &stubReportDB{createErr: errFake}
	repo := repository.NewPersistentReportRepository(repository.NewMemoryReportRepository(0), stub)

	rec := flow.NewValidationRecord("orders", flow.Report{Valid: true})
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create should not fail on DB error: %v", err)
	}
	if _, err := repo.Get(context.Background(), rec.ID); err != nil {
		t.Fatalf("Get from memory failed: %v", err)
	}
}

func TestPersistentReportRepository_GetFallsBackToDb(t *testing.T) {
	rec := flow.NewValidationRecord("orders", flow.Report{Valid: true})
	mem := repository.NewMemoryReportRepository(0)
	repo := repository.NewPersistentReportRepository(mem, &stubReportDB{reports: []*flow.ValidationRecord{rec}})

	got, err := repo.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get fallback failed: %v", err)
	}
	if got.WorkflowName != "orders" {
		t.Errorf("expected orders, got %s", got.WorkflowName)
	}
	// Cached in memory after the DB hit.
	if _, err := mem.Get(context.Background(), rec.ID); err != nil {
		t.Errorf("expected record cached in memory: %v", err)
	}
}

func TestPersistentReportRepository_GetMissingIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		stub *stubReportDB
	}{
		{"no rows", &stubReportDB{}},
		{"db failure", &stubReportDB{getErr: errFake}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewPersistentReportRepository(repository.NewMemoryReportRepository(0), tt.stub)
			_, err := repo.Get(context.Background(), "rep-missing")
			if !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestPersistentReportRepository_ListPrefersDb(t *testing.T) {
	a := flow.NewValidationRecord("orders", flow.Report{Valid: true})
	b := flow.NewValidationRecord("billing", flow.Report{Valid: true})
	repo := repository.NewPersistentReportRepository(
		repository.NewMemoryReportRepository(0),
		&stubReportDB{reports: []*flow.ValidationRecord{a, b}},
	)

	list, err := repo.List(context.Background(), "orders", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("expected only %s from DB, got %v", a.ID, list)
	}
}

func TestPersistentReportRepository_ListFallsBackToMemory(t *testing.T) {
	mem := repository.NewMemoryReportRepository(0)
	rec := flow.NewValidationRecord("orders", flow.Report{Valid: true})
	_ = mem.Create(context.Background(), rec)
	repo := repository.NewPersistentReportRepository(mem, &stubReportDB{listErr: errFake})

	list, err := repo.List(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("List memory fallback failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("expected memory fallback with %s, got %v", rec.ID, list)
	}
}
