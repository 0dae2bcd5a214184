// Package dag builds a name-keyed adjacency view of a workflow and runs the
// graph analyses over it: reachability from triggers, cycle detection and
// execution ordering.
package dag

import (
	"fmt"
	"sort"

	"github.com/soochol/wfcheck/internal/flow"
)

// Graph is an adjacency view of a workflow keyed by node name. Names that
// appear only in connections are kept as vertices so callers can still see
// dangling references.
type Graph struct {
	order    []string
	children map[string][]string
}

// Build flattens the port -> branch -> target structure of conns into
// distinct per-node target lists. Vertices are ordered by node list, then
// connection-only names sorted. It never fails.
func Build(nodes []flow.Node, conns flow.ConnectionMap) *Graph {
	g := &Graph{children: make(map[string][]string)}

	declared := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := declared[n.Name]; ok {
			continue
		}
		declared[n.Name] = struct{}{}
		g.order = append(g.order, n.Name)
	}

	extra := make(map[string]struct{})
	seen := make(map[string]struct{})
	for _, e := range conns.Edges() {
		from, to := e.Source, e.Target.Node
		for _, name := range []string{from, to} {
			if _, ok := declared[name]; !ok {
				extra[name] = struct{}{}
			}
		}
		key := from + "->" + to
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		g.children[from] = append(g.children[from], to)
	}
	g.order = append(g.order, sortedNames(extra)...)
	return g
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reachable returns the set of names visited by a forward breadth-first
// traversal seeded with every trigger node.
func (g *Graph) Reachable(nodes []flow.Node, triggers flow.TriggerSet) map[string]bool {
	visited := make(map[string]bool)
	var queue []string
	for _, n := range nodes {
		if triggers.Contains(n.Type) && !visited[n.Name] {
			visited[n.Name] = true
			queue = append(queue, n.Name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, c := range g.children[name] {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	return visited
}

// Unreachable returns the IDs of non-trigger nodes that no trigger reaches.
func (g *Graph) Unreachable(nodes []flow.Node, triggers flow.TriggerSet) []string {
	visited := g.Reachable(nodes, triggers)
	var ids []string
	for _, n := range nodes {
		if triggers.Contains(n.Type) || visited[n.Name] {
			continue
		}
		ids = append(ids, n.ID)
	}
	return ids
}

const (
	white = iota
	gray
	black
)

// Cycles runs a three-colour depth-first search from every vertex and
// returns each cycle found as the ordered names along it; the edge from the
// last name back to the first closes the cycle. Direct self-loops are not
// reported here.
func (g *Graph) Cycles() [][]string {
	color := make(map[string]int, len(g.order))
	pos := make(map[string]int)
	var stack []string
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		pos[name] = len(stack)
		stack = append(stack, name)
		for _, c := range g.children[name] {
			if c == name {
				continue
			}
			switch color[c] {
			case white:
				visit(c)
			case gray:
				cycle := make([]string, len(stack)-pos[c])
				copy(cycle, stack[pos[c]:])
				cycles = append(cycles, cycle)
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, name := range g.order {
		if color[name] == white {
			visit(name)
		}
	}
	return cycles
}

// TopologicalOrder returns the names in include in dependency order, ties
// broken alphabetically. Edges leaving include are ignored.
func (g *Graph) TopologicalOrder(include map[string]bool) ([]string, error) {
	inDegree := make(map[string]int)
	for name := range include {
		inDegree[name] = 0
	}
	for from, children := range g.children {
		if !include[from] {
			continue
		}
		for _, c := range children {
			if include[c] {
				inDegree[c]++
			}
		}
	}
	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)
	var order []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, c := range g.children[name] {
			if !include[c] {
				continue
			}
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
		sort.Strings(queue)
	}
	if len(order) != len(inDegree) {
		return nil, fmt.Errorf("cycle detected in workflow graph")
	}
	return order, nil
}
