// Package output renders validation results for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/soochol/wfcheck/internal/services"
)

// Formatter writes the results of a batch check.
type Formatter interface {
	Format(w io.Writer, results []services.FileResult) error
}

// NewFormatter returns the formatter for name ("text" or "json").
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return TextFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// TextFormatter prints one block per file, one line per issue.
type TextFormatter struct{}

func (TextFormatter) Format(w io.Writer, results []services.FileResult) error {
	var b strings.Builder
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
		switch {
		case r.Err != nil:
			fmt.Fprintf(&b, "%s: ERROR %v\n", r.Path, r.Err)
			continue
		case r.Report.Valid:
			fmt.Fprintf(&b, "%s (%s): ok\n", r.Path, r.Workflow)
		default:
			fmt.Fprintf(&b, "%s (%s): invalid\n", r.Path, r.Workflow)
		}
		for _, is := range r.Report.Errors {
			fmt.Fprintf(&b, "  error   %s%s\n", is.Message, nodeSuffix(is.NodeID))
		}
		for _, is := range r.Report.Warnings {
			fmt.Fprintf(&b, "  warning %s%s\n", is.Message, nodeSuffix(is.NodeID))
		}
	}
	fmt.Fprintf(&b, "%d file(s) checked, %d failed\n", len(results), failed)
	_, err := io.WriteString(w, b.String())
	return err
}

func nodeSuffix(id string) string {
	if id == "" {
		return ""
	}
	return " [node " + id + "]"
}

// JSONFormatter writes a JSON array with one object per file.
type JSONFormatter struct{}

type jsonResult struct {
	Path     string `json:"path"`
	Workflow string `json:"workflow,omitempty"`
	Error    string `json:"error,omitempty"`
	Report   any    `json:"report,omitempty"`
}

func (JSONFormatter) Format(w io.Writer, results []services.FileResult) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{Path: r.Path, Workflow: r.Workflow}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		if r.Report != nil {
			jr.Report = r.Report
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
