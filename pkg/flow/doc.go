// Package flow defines the weighted flow graph that a Sankey diagram is drawn
// from.
//
// A [Graph] is a list of named [Node] values, each pinned to a column and a row,
// and a list of [Edge] values carrying a magnitude from a source node to a target
// node in a column further right. Columns and rows are supplied by the caller;
// nothing in this package infers them.
//
// # Validation
//
// [Validate] runs every input check a render call depends on before any pixel is
// written:
//
//   - at least one node (EMPTY_INPUT)
//   - unique, printable node names (DUPLICATE_NODE_NAME, INVALID_INPUT)
//   - finite, non-negative values and non-negative columns/rows (INVALID_INPUT)
//   - edges that reference existing nodes (DANGLING_EDGE_REFERENCE)
//   - edges that flow left-to-right (INVALID_INPUT)
//   - per-node inflow and outflow within the node's value (CAPACITY_OVERFLOW)
//
// Nodes need not balance: pure sources and sinks are valid.
package flow
