package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/soochol/wfcheck/internal/flow"
	"github.com/soochol/wfcheck/internal/repository"
	"github.com/soochol/wfcheck/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *ValidationService {
	return NewValidationService(validate.Default(), repository.NewMemoryReportRepository(0))
}

func TestValidationService_ValidateRecords(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	wf := &flow.WorkflowDefinition{
		Name:  "hook",
		Nodes: []flow.Node{{ID: "1", Name: "Hook", Type: flow.NodeTypeWebhookTrigger}},
	}
	rec, err := svc.Validate(ctx, wf)
	require.NoError(t, err)
	assert.True(t, rec.Report.Valid)
	assert.Equal(t, "hook", rec.WorkflowName)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = svc.Validate(ctx, &flow.WorkflowDefinition{Name: "empty"})
	require.NoError(t, err)

	recs, err := svc.List(ctx, "hook", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
}

func TestValidationService_CheckFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	good := write("good.yaml", `
name: good
nodes:
  - {id: "1", name: Start, type: manual-trigger}
  - {id: "2", name: Work, type: noop}
connections:
  Start:
    main: [[{node: Work, type: main, index: 0}]]
`)
	cyclic := write("cyclic.json", `{
  "name": "cyclic",
  "nodes": [
    {"id": "1", "name": "Start", "type": "manual-trigger"},
    {"id": "2", "name": "A", "type": "noop"},
    {"id": "3", "name": "B", "type": "noop"}
  ],
  "connections": {
    "Start": {"main": [[{"node": "A", "type": "main", "index": 0}]]},
    "A": {"main": [[{"node": "B", "type": "main", "index": 0}]]},
    "B": {"main": [[{"node": "A", "type": "main", "index": 0}]]}
  }
}`)
	missing := filepath.Join(dir, "missing.yaml")

	results := newTestService().CheckFiles(context.Background(), []string{good, cyclic, missing}, 2)
	require.Len(t, results, 3)

	assert.False(t, results[0].Failed())
	assert.Equal(t, "good", results[0].Workflow)
	assert.Equal(t, []string{"Start", "Work"}, results[0].Report.Order)

	assert.True(t, results[1].Failed())
	require.NotNil(t, results[1].Report)
	assert.Equal(t, flow.CodeCycle, results[1].Report.Errors[0].Code)

	assert.True(t, results[2].Failed())
	assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
}

func TestValidationService_CheckFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := newTestService().CheckFiles(ctx, []string{"a.yaml", "b.yaml"}, 1)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
