package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/soochol/wfcheck/internal/flow"
)

// CreateReport stores a validation record.
func (d *DB) CreateReport(ctx context.Context, rec *flow.ValidationRecord) error {
	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = d.Pool.ExecContext(ctx,
		`INSERT INTO validation_reports (id, workflow_name, valid, report, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.WorkflowName, rec.Report.Valid, reportJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport retrieves a validation record by ID. A missing record yields an
// error wrapping sql.ErrNoRows.
func (d *DB) GetReport(ctx context.Context, id string) (*flow.ValidationRecord, error) {
	row := d.Pool.QueryRowContext(ctx,
		`SELECT id, workflow_name, report, created_at FROM validation_reports WHERE id = $1`, id)
	rec, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rec, nil
}

// ListReports returns validation records newest first, optionally filtered
// by workflow name. limit <= 0 means no limit.
func (d *DB) ListReports(ctx context.Context, workflowName string, limit int) ([]*flow.ValidationRecord, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, workflow_name, report, created_at FROM validation_reports`)
	if workflowName != "" {
		args = append(args, workflowName)
		fmt.Fprintf(&query, " WHERE workflow_name = $%d", len(args))
	}
	query.WriteString(" ORDER BY created_at DESC")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}

	rows, err := d.Pool.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var recs []*flow.ValidationRecord
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (*flow.ValidationRecord, error) {
	var (
		rec        flow.ValidationRecord
		reportJSON []byte
	)
	if err := s.Scan(&rec.ID, &rec.WorkflowName, &reportJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportJSON, &rec.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rec, nil
}
