package flow

import (
	"time"

	"github.com/google/uuid"
)

// Issue codes.
const (
	CodeMissingWorkflowName = "missing_workflow_name"
	CodeNoNodes             = "no_nodes"
	CodeNoTrigger           = "no_trigger"
	CodeEmptyNodeID         = "empty_node_id"
	CodeEmptyNodeName       = "empty_node_name"
	CodeDuplicateID         = "duplicate_id"
	CodeDuplicateName       = "duplicate_name"
	CodeDisabledNode        = "disabled_node"
	CodeUnknownSource       = "unknown_source"
	CodeUnknownTarget       = "unknown_target"
	CodeSelfLoop            = "self_loop"
	CodeUnreachable         = "unreachable"
	CodeCycle               = "cycle"
	CodeInvalidCron         = "invalid_cron"
	CodeRulePrefix          = "rule:"
)

// Issue is a single validation error or warning.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	NodeID  string `json:"nodeId,omitempty"`
}

// Report is the aggregate result of validating a workflow. Valid is true
// iff Errors is empty; warnings never affect validity.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Issue  `json:"errors"`
	Warnings []Issue  `json:"warnings"`
	Order    []string `json:"order,omitempty"`
}

// NewReport returns an empty report with non-nil issue lists.
func NewReport() *Report {
	return &Report{Errors: []Issue{}, Warnings: []Issue{}}
}

// AddError appends an error.
func (r *Report) AddError(code, nodeID, message string) {
	r.Errors = append(r.Errors, Issue{Code: code, Message: message, NodeID: nodeID})
}

// AddWarning appends a warning.
func (r *Report) AddWarning(code, nodeID, message string) {
	r.Warnings = append(r.Warnings, Issue{Code: code, Message: message, NodeID: nodeID})
}

// Finalize sets Valid from the collected errors.
func (r *Report) Finalize() {
	r.Valid = len(r.Errors) == 0
}

// ValidationRecord is a stored validation result.
type ValidationRecord struct {
	ID           string    `json:"id"`
	WorkflowName string    `json:"workflow_name"`
	Report       Report    `json:"report"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewValidationRecord wraps a report in a record with a fresh ID.
func NewValidationRecord(workflowName string, report Report) *ValidationRecord {
	return &ValidationRecord{
		ID:           GenerateID("rep"),
		WorkflowName: workflowName,
		Report:       report,
		CreatedAt:    time.Now().UTC(),
	}
}

// GenerateID returns prefix-<uuid>.
func GenerateID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
