package flow

// Default trigger node types. Callers pass their own set through
// configuration; these are only the defaults used when none is given.
const (
	NodeTypeManualTrigger   = "manual-trigger"
	NodeTypeWebhookTrigger  = "webhook-trigger"
	NodeTypeScheduleTrigger = "schedule-trigger"
	NodeTypeEventTrigger    = "event-trigger"
)

// PortMain is the default output port of most nodes.
const PortMain = "main"

// WorkflowDefinition is a workflow as submitted for validation.
type WorkflowDefinition struct {
	Name        string        `json:"name" yaml:"name"`
	Nodes       []Node        `json:"nodes" yaml:"nodes"`
	Connections ConnectionMap `json:"connections" yaml:"connections"`
}

// Node is a unit of work in a workflow. Connections address nodes by Name,
// not by ID.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	Disabled   bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Position   []float64      `json:"position,omitempty" yaml:"position,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Connection is one target of an output port branch.
type Connection struct {
	Node  string `json:"node" yaml:"node"`
	Type  string `json:"type" yaml:"type"`
	Index int    `json:"index" yaml:"index"`
}

// PortConnections maps a port type (e.g. "main") to its ordered branches,
// each branch holding an ordered list of targets.
type PortConnections map[string][][]Connection

// ConnectionMap maps a source node name to its output ports.
type ConnectionMap map[string]PortConnections

// Edge is a single flattened source -> target connection.
type Edge struct {
	Source string
	Port   string
	Branch int
	Target Connection
}

// Edges flattens the map into individual edges. Sources are visited in
// sorted order so the result is deterministic.
func (m ConnectionMap) Edges() []Edge {
	var edges []Edge
	for _, source := range sortedKeys(m) {
		ports := m[source]
		for _, port := range sortedKeys(ports) {
			for b, branch := range ports[port] {
				for _, target := range branch {
					edges = append(edges, Edge{Source: source, Port: port, Branch: b, Target: target})
				}
			}
		}
	}
	return edges
}

// Sources returns the source node names in sorted order.
func (m ConnectionMap) Sources() []string {
	return sortedKeys(m)
}

// TriggerSet is the set of node types that may start execution without an
// incoming connection.
type TriggerSet map[string]struct{}

// NewTriggerSet builds a TriggerSet from a list of node types.
func NewTriggerSet(types ...string) TriggerSet {
	s := make(TriggerSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// DefaultTriggerTypes returns the built-in trigger node types.
func DefaultTriggerTypes() []string {
	return []string{
		NodeTypeManualTrigger,
		NodeTypeWebhookTrigger,
		NodeTypeScheduleTrigger,
		NodeTypeEventTrigger,
	}
}

// Contains reports whether nodeType is a trigger type.
func (s TriggerSet) Contains(nodeType string) bool {
	_, ok := s[nodeType]
	return ok
}
