// Package validate performs static structural validation of workflow graphs:
// node identity, connection references, reachability from trigger nodes and
// cycle detection, merged into a single report.
package validate

import (
	"fmt"
	"strings"

	"github.com/soochol/wfcheck/internal/dag"
	"github.com/soochol/wfcheck/internal/flow"
)

// Options configures a Validator.
type Options struct {
	// TriggerTypes are the node types that start execution. Defaults to
	// flow.DefaultTriggerTypes.
	TriggerTypes []string
	// ScheduleTypes are the node types whose cron parameter is checked.
	// Defaults to schedule-trigger.
	ScheduleTypes []string
	// UnreachableAsError reports unreachable nodes as errors instead of
	// warnings.
	UnreachableAsError bool
	Rules              []Rule
}

// Validator validates workflows. It holds no mutable state and is safe for
// concurrent use.
type Validator struct {
	triggers           flow.TriggerSet
	schedules          flow.TriggerSet
	unreachableAsError bool
	rules              []compiledRule
}

// New builds a Validator, compiling its rules.
func New(opts Options) (*Validator, error) {
	triggerTypes := opts.TriggerTypes
	if len(triggerTypes) == 0 {
		triggerTypes = flow.DefaultTriggerTypes()
	}
	scheduleTypes := opts.ScheduleTypes
	if len(scheduleTypes) == 0 {
		scheduleTypes = []string{flow.NodeTypeScheduleTrigger}
	}

	v := &Validator{
		triggers:           flow.NewTriggerSet(triggerTypes...),
		schedules:          flow.NewTriggerSet(scheduleTypes...),
		unreachableAsError: opts.UnreachableAsError,
	}
	for _, r := range opts.Rules {
		cr, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		v.rules = append(v.rules, cr)
	}
	return v, nil
}

// Default returns a Validator with the default trigger types and no rules.
func Default() *Validator {
	v, _ := New(Options{})
	return v
}

// ValidateWorkflow validates a workflow with default options.
func ValidateWorkflow(name string, nodes []flow.Node, conns flow.ConnectionMap) flow.Report {
	return Default().Validate(name, nodes, conns)
}

// FindUnreachableNodes returns the IDs of non-trigger nodes that cannot be
// reached from any node whose type is in triggerTypes.
func FindUnreachableNodes(nodes []flow.Node, conns flow.ConnectionMap, triggerTypes []string) []string {
	return dag.Build(nodes, conns).Unreachable(nodes, flow.NewTriggerSet(triggerTypes...))
}

// DetectCycles returns every directed cycle as the ordered node names along
// it. An empty result means the graph is acyclic.
func DetectCycles(nodes []flow.Node, conns flow.ConnectionMap) [][]string {
	return dag.Build(nodes, conns).Cycles()
}

// ValidateDefinition validates a parsed workflow definition.
func (v *Validator) ValidateDefinition(wf *flow.WorkflowDefinition) flow.Report {
	return v.Validate(wf.Name, wf.Nodes, wf.Connections)
}

// Validate runs every check against the workflow and merges the results.
// It never mutates its inputs.
func (v *Validator) Validate(name string, nodes []flow.Node, conns flow.ConnectionMap) flow.Report {
	report := flow.NewReport()

	if strings.TrimSpace(name) == "" {
		report.AddError(flow.CodeMissingWorkflowName, "", "Workflow name is required")
	}
	if len(nodes) == 0 {
		report.AddError(flow.CodeNoNodes, "", "Workflow must contain at least one node")
		report.Finalize()
		return *report
	}
	if !v.hasTrigger(nodes) {
		report.AddError(flow.CodeNoTrigger, "", "Workflow must contain at least one trigger node")
	}

	nodeRes := ValidateNodes(nodes)
	report.Errors = append(report.Errors, nodeRes.Errors...)
	report.Warnings = append(report.Warnings, nodeRes.Warnings...)
	report.Errors = append(report.Errors, ValidateConnections(nodes, conns)...)

	graph := dag.Build(nodes, conns)
	byID := make(map[string]flow.Node, len(nodes))
	byName := make(map[string]flow.Node, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
		if _, ok := byName[n.Name]; !ok {
			byName[n.Name] = n
		}
	}

	for _, id := range graph.Unreachable(nodes, v.triggers) {
		msg := fmt.Sprintf("Node %q is not reachable from any trigger node", label(byID[id]))
		if v.unreachableAsError {
			report.AddError(flow.CodeUnreachable, id, msg)
		} else {
			report.AddWarning(flow.CodeUnreachable, id, msg)
		}
	}

	for _, cycle := range graph.Cycles() {
		path := append(append([]string{}, cycle...), cycle[0])
		report.AddError(flow.CodeCycle, byName[cycle[0]].ID,
			fmt.Sprintf("Cycle detected: %s", strings.Join(path, " -> ")))
	}

	for _, n := range nodes {
		if v.schedules.Contains(n.Type) {
			if issue := checkSchedule(n); issue != nil {
				report.Errors = append(report.Errors, *issue)
			}
		}
		for _, r := range v.rules {
			r.apply(n, report)
		}
	}

	report.Finalize()
	if report.Valid {
		if order, err := graph.TopologicalOrder(graph.Reachable(nodes, v.triggers)); err == nil {
			report.Order = order
		}
	}
	return *report
}

func (v *Validator) hasTrigger(nodes []flow.Node) bool {
	for _, n := range nodes {
		if v.triggers.Contains(n.Type) {
			return true
		}
	}
	return false
}
