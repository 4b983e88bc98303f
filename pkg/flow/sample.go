package flow

// SampleBudget returns a household budget flow: two income sources feeding a
// budget node that splits into six spending categories.
func SampleBudget() Graph {
	return Graph{
		Nodes: []Node{
			{Name: "Wages", Value: 2000, Col: 0, Row: 0},
			{Name: "Interest", Value: 25, Col: 0, Row: 1},
			{Name: "Budget", Value: 2025, Col: 1, Row: 0},
			{Name: "Taxes", Value: 500, Col: 2, Row: 0},
			{Name: "Housing", Value: 450, Col: 2, Row: 1},
			{Name: "Food", Value: 310, Col: 2, Row: 2},
			{Name: "Transportation", Value: 205, Col: 2, Row: 3},
			{Name: "Health Care", Value: 400, Col: 2, Row: 4},
			{Name: "Other Necessities", Value: 160, Col: 2, Row: 5},
		},
		Edges: []Edge{
			{Source: "Wages", Target: "Budget", Value: 2000},
			{Source: "Interest", Target: "Budget", Value: 25},
			{Source: "Budget", Target: "Taxes", Value: 500},
			{Source: "Budget", Target: "Housing", Value: 450},
			{Source: "Budget", Target: "Food", Value: 310},
			{Source: "Budget", Target: "Transportation", Value: 205},
			{Source: "Budget", Target: "Health Care", Value: 400},
			{Source: "Budget", Target: "Other Necessities", Value: 160},
		},
	}
}
