package graph

import (
	"strings"
	"testing"

	"github.com/dualsubstrate/web4r-go/internal/models"
)

func TestDOT(t *testing.T) {
	path := []string{"A", "B"}
	steps := []models.WalkStep{{
		From: "A", To: "B",
		Candidates: []models.Candidate{
			{Coord: "B", Score: models.NewScore(0.9)},
			{Coord: "X", Score: models.NewScore(0.4)},
		},
	}}

	g := Build(path, steps, 1, resolverWith(map[string]string{"A": "start \"node\""}))
	dot := g.DOT()

	for _, want := range []string{
		"digraph walk {",
		"rankdir=LR;",
		`fillcolor="#f0fdf4"`,
		`fillcolor="#dbeafe"`, // start node highlight
		`"A" -> "B" [label="chosen"];`,
		`"A" -> "X" [label="0.400", style=dashed];`,
		`\"node\"`,   // quotes escaped inside labels
		`A\n[start`,  // newline escaped for graphviz
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}
