package validate

import (
	"fmt"

	"github.com/soochol/wfcheck/internal/flow"
)

// NodeResult holds the outcome of the per-node checks.
type NodeResult struct {
	Errors   []flow.Issue
	Warnings []flow.Issue
}

// ValidateNodes checks every node for a non-empty, unique ID and name, and
// warns about disabled nodes. Names are checked as strictly as IDs because
// connections address nodes by name.
func ValidateNodes(nodes []flow.Node) NodeResult {
	var res NodeResult
	ids := make(map[string]struct{}, len(nodes))
	names := make(map[string]struct{}, len(nodes))

	for i, n := range nodes {
		if n.ID == "" {
			res.Errors = append(res.Errors, flow.Issue{
				Code:    flow.CodeEmptyNodeID,
				Message: fmt.Sprintf("Node at index %d has an empty ID", i),
			})
		}
		if n.Name == "" {
			res.Errors = append(res.Errors, flow.Issue{
				Code:    flow.CodeEmptyNodeName,
				Message: fmt.Sprintf("Node at index %d has an empty name", i),
				NodeID:  n.ID,
			})
		}

		if n.ID != "" {
			if _, dup := ids[n.ID]; dup {
				res.Errors = append(res.Errors, flow.Issue{
					Code:    flow.CodeDuplicateID,
					Message: fmt.Sprintf("Duplicate node ID: %s", n.ID),
					NodeID:  n.ID,
				})
			}
			ids[n.ID] = struct{}{}
		}
		if n.Name != "" {
			if _, dup := names[n.Name]; dup {
				res.Errors = append(res.Errors, flow.Issue{
					Code:    flow.CodeDuplicateName,
					Message: fmt.Sprintf("Duplicate node name: %s", n.Name),
					NodeID:  n.ID,
				})
			}
			names[n.Name] = struct{}{}
		}

		if n.Disabled {
			res.Warnings = append(res.Warnings, flow.Issue{
				Code:    flow.CodeDisabledNode,
				Message: fmt.Sprintf("Node %q is disabled", label(n)),
				NodeID:  n.ID,
			})
		}
	}
	return res
}

// label names a node for messages, preferring its name.
func label(n flow.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
