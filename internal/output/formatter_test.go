package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/soochol/wfcheck/internal/flow"
	"github.com/soochol/wfcheck/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []services.FileResult {
	ok := flow.NewReport()
	ok.AddWarning(flow.CodeUnreachable, "7", `Node "Parked" is not reachable from any trigger node`)
	ok.Finalize()

	bad := flow.NewReport()
	bad.AddError(flow.CodeCycle, "2", "Cycle detected: A -> B -> A")
	bad.Finalize()

	return []services.FileResult{
		{Path: "ok.yaml", Workflow: "ok", Report: ok},
		{Path: "bad.json", Workflow: "bad", Report: bad},
		{Path: "gone.yaml", Err: errors.New("reading workflow file: no such file")},
	}
}

func TestTextFormatter(t *testing.T) {
	f, err := NewFormatter("text")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResults()))

	want := `ok.yaml (ok): ok
  warning Node "Parked" is not reachable from any trigger node [node 7]
bad.json (bad): invalid
  error   Cycle detected: A -> B -> A [node 2]
gone.yaml: ERROR reading workflow file: no such file
3 file(s) checked, 2 failed
`
	assert.Equal(t, want, buf.String())
}

func TestJSONFormatter(t *testing.T) {
	f, err := NewFormatter("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleResults()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ok.yaml", got[0]["path"])
	assert.NotContains(t, got[2], "report")
	assert.Equal(t, "reading workflow file: no such file", got[2]["error"])
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewFormatter("xml")
	assert.Error(t, err)
}
