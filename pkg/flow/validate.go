package flow

import (
	"math"

	"github.com/matzehuels/sankey/pkg/errors"
)

// capacityTolerance absorbs float summation error when comparing edge totals
// against a node's declared value.
const capacityTolerance = 1e-9

// Validate reports the first problem that would make g unrenderable.
// It returns nil for a graph that layout and compositing can process.
func Validate(g Graph) error {
	if len(g.Nodes) == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "graph has no nodes")
	}

	byName := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := validateNode(n); err != nil {
			return err
		}
		if _, dup := byName[n.Name]; dup {
			return errors.New(errors.ErrCodeDuplicateNode, "node %q is declared more than once", n.Name)
		}
		byName[n.Name] = n
	}

	in := make(map[string]float64, len(g.Nodes))
	out := make(map[string]float64, len(g.Nodes))
	for _, e := range g.Edges {
		if !isMagnitude(e.Value) {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: value must be a finite non-negative number, got %v", e.Source, e.Target, e.Value)
		}
		src, ok := byName[e.Source]
		if !ok {
			return errors.New(errors.ErrCodeDanglingEdge, "edge %s->%s: unknown source %q", e.Source, e.Target, e.Source)
		}
		dst, ok := byName[e.Target]
		if !ok {
			return errors.New(errors.ErrCodeDanglingEdge, "edge %s->%s: unknown target %q", e.Source, e.Target, e.Target)
		}
		switch {
		case src.Col == dst.Col:
			return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: both nodes are in column %d", e.Source, e.Target, src.Col)
		case src.Col > dst.Col:
			return errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: flows right-to-left (column %d to %d)", e.Source, e.Target, src.Col, dst.Col)
		}
		out[e.Source] += e.Value
		in[e.Target] += e.Value
	}

	for _, n := range g.Nodes {
		if Exceeds(out[n.Name], n.Value) {
			return errors.New(errors.ErrCodeCapacityOverflow, "node %q: outgoing edges total %v, exceeding its value %v", n.Name, out[n.Name], n.Value)
		}
		if Exceeds(in[n.Name], n.Value) {
			return errors.New(errors.ErrCodeCapacityOverflow, "node %q: incoming edges total %v, exceeding its value %v", n.Name, in[n.Name], n.Value)
		}
	}
	return nil
}

// Exceeds reports whether used is larger than capacity beyond rounding noise.
func Exceeds(used, capacity float64) bool {
	return used > capacity+capacityTolerance*math.Max(1, capacity)
}

func validateNode(n Node) error {
	if err := errors.ValidateNodeName(n.Name); err != nil {
		return err
	}
	if !isMagnitude(n.Value) {
		return errors.New(errors.ErrCodeInvalidInput, "node %q: value must be a finite non-negative number, got %v", n.Name, n.Value)
	}
	if n.Col < 0 || n.Row < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node %q: column and row must be non-negative, got %d/%d", n.Name, n.Col, n.Row)
	}
	return nil
}

func isMagnitude(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
