package flow

import "slices"

// Node is a named stop in the flow, pinned to a column and a row.
type Node struct {
	Name  string  `json:"name" toml:"name"`
	Value float64 `json:"value" toml:"value"`
	Col   int     `json:"col" toml:"col"`
	Row   int     `json:"row" toml:"row"`
}

// Edge carries Value from the Source node to the Target node.
type Edge struct {
	Source string  `json:"source" toml:"source"`
	Target string  `json:"target" toml:"target"`
	Value  float64 `json:"value" toml:"value"`
}

// Graph is the complete input of a render call.
// Node and edge order is significant only for deterministic iteration.
type Graph struct {
	Nodes []Node `json:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges"`
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Columns returns the distinct column indices in ascending order.
func (g Graph) Columns() []int {
	seen := make(map[int]bool, len(g.Nodes))
	var cols []int
	for _, n := range g.Nodes {
		if !seen[n.Col] {
			seen[n.Col] = true
			cols = append(cols, n.Col)
		}
	}
	slices.Sort(cols)
	return cols
}

// Inflow returns the summed value of all edges ending at name.
func (g Graph) Inflow(name string) float64 {
	var sum float64
	for _, e := range g.Edges {
		if e.Target == name {
			sum += e.Value
		}
	}
	return sum
}

// Outflow returns the summed value of all edges starting at name.
func (g Graph) Outflow(name string) float64 {
	var sum float64
	for _, e := range g.Edges {
		if e.Source == name {
			sum += e.Value
		}
	}
	return sum
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
}
