package validate

import (
	"fmt"

	"github.com/soochol/wfcheck/internal/flow"
)

// ValidateConnections reports connections whose source or target name does
// not belong to a node, and connections from a node to itself. Longer cycles
// are left to DetectCycles.
func ValidateConnections(nodes []flow.Node, conns flow.ConnectionMap) []flow.Issue {
	idByName := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.Name == "" {
			continue
		}
		if _, ok := idByName[n.Name]; !ok {
			idByName[n.Name] = n.ID
		}
	}

	var issues []flow.Issue
	for _, source := range conns.Sources() {
		if _, ok := idByName[source]; !ok {
			issues = append(issues, flow.Issue{
				Code:    flow.CodeUnknownSource,
				Message: fmt.Sprintf("Connection source node not found: %s", source),
			})
		}
	}
	for _, e := range conns.Edges() {
		source, target := e.Source, e.Target.Node
		sourceID := idByName[source]
		if _, ok := idByName[target]; !ok {
			issues = append(issues, flow.Issue{
				Code:    flow.CodeUnknownTarget,
				Message: fmt.Sprintf("Connection target node not found: %s (from %s)", target, source),
				NodeID:  sourceID,
			})
		}
		if target == source {
			issues = append(issues, flow.Issue{
				Code:    flow.CodeSelfLoop,
				Message: fmt.Sprintf("Node %s has a self-referencing connection", source),
				NodeID:  sourceID,
			})
		}
	}
	return issues
}
