// Package io reads and writes flow graphs in JSON, TOML and CSV.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"name": "Wages", "value": 2000, "col": 0, "row": 0},
//	    {"name": "Budget", "value": 2000, "col": 1, "row": 0}
//	  ],
//	  "edges": [
//	    {"source": "Wages", "target": "Budget", "value": 2000}
//	  ]
//	}
//
// # TOML Format
//
// The same fields as arrays of tables:
//
//	[[nodes]]
//	name = "Wages"
//	value = 2000
//	col = 0
//
//	[[edges]]
//	source = "Wages"
//	target = "Budget"
//	value = 2000
//
// # CSV Format
//
// One record per line, tagged by its first field. Lines starting with # are
// comments, the row of a node may be omitted:
//
//	node,Wages,2000,0,0
//	node,Budget,2000,1
//	edge,Wages,Budget,2000
//
// # Import and Export
//
// [Import] and [Export] pick the format from the file extension (.json, .toml,
// .csv, .tsv). The readers only decode; they do not validate the graph, which
// is left to flow.Validate so every input format reports the same errors.
package io
