package api

import (
	"encoding/json"
	"net/http"

	"github.com/soochol/wfcheck/internal/flow"
)

// maxWorkflowBytes bounds the request body of a validation call.
const maxWorkflowBytes = 4 << 20

// validateWorkflow validates the posted workflow and records the result.
// POST /api/validate
func (s *Server) validateWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf flow.WorkflowDefinition
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWorkflowBytes)).Decode(&wf); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.validationSvc.Validate(r.Context(), &wf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}
