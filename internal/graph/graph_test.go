package graph

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dualsubstrate/web4r-go/internal/models"
)

// unresolved is a DetailResolver for tests that don't care about labels.
func unresolved(string) models.DecodeResult {
	return models.ErrorResult("not found")
}

func resolverWith(summaries map[string]string) DetailResolver {
	return func(coord string) models.DecodeResult {
		summary, ok := summaries[coord]
		if !ok {
			return models.ErrorResult("not found")
		}
		return models.DecodeResult{
			Status:  models.StatusSuccess,
			Content: models.Content{Summary: summary},
		}
	}
}

func edgeStrings(g *Graph) []string {
	out := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		out[i] = fmt.Sprintf("%s->%s %s %s", e.From, e.To, e.Kind, e.Label)
	}
	return out
}

func TestBuild_WalkScenario(t *testing.T) {
	path := []string{"A", "B", "C"}
	steps := []models.WalkStep{
		{
			From: "A", To: "B",
			Candidates: []models.Candidate{
				{Coord: "B", Score: models.NewScore(0.9)},
				{Coord: "X", Score: models.NewScore(0.4)},
			},
		},
		{From: "B", To: "C"},
	}

	g := Build(path, steps, 2, unresolved)

	want := []string{
		"A->B chosen chosen",
		"A->X rejected 0.400",
		"B->C chosen chosen",
	}
	if !reflect.DeepEqual(edgeStrings(g), want) {
		t.Errorf("edges = %v, want %v", edgeStrings(g), want)
	}
	if !reflect.DeepEqual(g.Coherence, []float64{0.9}) {
		t.Errorf("coherence series = %v, want [0.9]", g.Coherence)
	}
}

func TestBuild_NoDuplicateEdges(t *testing.T) {
	// A cycle revisits the A->B transition; only the first edge survives.
	path := []string{"A", "B", "A", "B"}
	steps := []models.WalkStep{
		{From: "A", To: "B"},
		{From: "B", To: "A"},
		{From: "A", To: "B"},
	}

	g := Build(path, steps, 3, unresolved)

	seen := map[string]int{}
	for _, e := range g.Edges {
		seen[e.From+"->"+e.To]++
	}
	for pair, n := range seen {
		if n > 1 {
			t.Errorf("edge %s appears %d times", pair, n)
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("edges = %v, want A->B and B->A only", edgeStrings(g))
	}
}

func TestBuild_RejectedTruncation(t *testing.T) {
	candidates := []models.Candidate{{Coord: "B", Score: models.NewScore(0.99)}}
	for i := 0; i < 7; i++ {
		candidates = append(candidates, models.Candidate{
			Coord: fmt.Sprintf("R%d", i),
			Score: models.NewScore(0.1 * float64(i+1)),
		})
	}
	steps := []models.WalkStep{{From: "A", To: "B", Candidates: candidates}}

	g := Build([]string{"A", "B"}, steps, 1, unresolved)

	var rejected []string
	for _, e := range g.Edges {
		if e.Kind == KindRejected {
			rejected = append(rejected, e.To+":"+e.Label)
		}
	}
	want := []string{"R6:0.700", "R5:0.600", "R4:0.500"}
	if !reflect.DeepEqual(rejected, want) {
		t.Errorf("rejected edges = %v, want top 3 descending %v", rejected, want)
	}
}

func TestBuild_ScorelessRejectedSortLast(t *testing.T) {
	steps := []models.WalkStep{{
		From: "A", To: "B",
		Candidates: []models.Candidate{
			{Coord: "B"},
			{Coord: "N1"},
			{Coord: "S1", Score: models.NewScore(0.2)},
			{Coord: "N2"},
			{Coord: "S2", Score: models.NewScore(0.8)},
		},
	}}

	g := Build([]string{"A", "B"}, steps, 1, unresolved)

	var rejected []string
	for _, e := range g.Edges {
		if e.Kind == KindRejected {
			rejected = append(rejected, e.To+":"+e.Label)
		}
	}
	// Scored first in descending order, then scoreless in original order.
	want := []string{"S2:0.800", "S1:0.200", "N1:rejected"}
	if !reflect.DeepEqual(rejected, want) {
		t.Errorf("rejected edges = %v, want %v", rejected, want)
	}
}

func TestBuild_CoherenceSeriesSkipsScorelessHops(t *testing.T) {
	path := []string{"A", "B", "C", "D"}
	steps := []models.WalkStep{
		{From: "A", To: "B", Candidates: []models.Candidate{{Coord: "B", Score: models.NewScore(0.9)}}},
		{From: "B", To: "C"}, // no candidates, no step score
		{From: "C", To: "D", Score: models.NewScore(0.5)}, // step score stands in
	}

	g := Build(path, steps, 3, unresolved)

	if !reflect.DeepEqual(g.Coherence, []float64{0.9, 0.5}) {
		t.Errorf("coherence series = %v, want [0.9 0.5]", g.Coherence)
	}
}

func TestBuild_ChosenCandidateWithoutScoreContributesNothing(t *testing.T) {
	// The chosen candidate matched but carries no score; the step score is
	// only a fallback for unmatched hops, so the series stays empty.
	steps := []models.WalkStep{{
		From: "A", To: "B",
		Score:      models.NewScore(0.7),
		Candidates: []models.Candidate{{Coord: "B"}},
	}}

	g := Build([]string{"A", "B"}, steps, 1, unresolved)

	if len(g.Coherence) != 0 {
		t.Errorf("coherence series = %v, want empty", g.Coherence)
	}
}

func TestBuild_MaxHopsBoundsAssembly(t *testing.T) {
	path := []string{"A", "B", "C", "D"}
	steps := []models.WalkStep{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "D"},
	}

	g := Build(path, steps, 2, unresolved)

	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2 (one per assembled hop)", len(g.Nodes))
	}
	if len(g.Edges) != 2 {
		t.Errorf("edges = %v, want 2 chosen edges", edgeStrings(g))
	}
}

func TestBuild_NodeLabels(t *testing.T) {
	long := strings.Repeat("x", 40)
	resolve := func(coord string) models.DecodeResult {
		switch coord {
		case "A":
			return models.DecodeResult{
				Status:  models.StatusSuccess,
				Content: models.Content{Summary: "full summary", Claims: []string{long}},
			}
		case "B":
			return models.DecodeResult{
				Status:  models.StatusSuccess,
				Content: models.Content{Summary: "short"},
			}
		default:
			return models.ErrorResult("boom")
		}
	}
	path := []string{"A", "B", "C", "D"}
	steps := []models.WalkStep{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "D"},
	}

	g := Build(path, steps, 3, resolve)

	if len(g.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(g.Nodes))
	}

	first := g.Nodes[0]
	if !first.Highlight {
		t.Errorf("first node not highlighted")
	}
	wantLabel := "A\n[" + strings.Repeat("x", 30) + "...]"
	if first.Label != wantLabel {
		t.Errorf("label = %q, want first claim truncated to 30 chars", first.Label)
	}
	if first.Tooltip != "full summary" {
		t.Errorf("tooltip = %q, want full summary", first.Tooltip)
	}

	second := g.Nodes[1]
	if second.Label != "B\n[short]" || second.Highlight {
		t.Errorf("second node = %+v, want summary label without highlight", second)
	}

	third := g.Nodes[2]
	if third.Label != "C" || third.Tooltip != "Unresolved" {
		t.Errorf("unresolved node = %+v, want bare coordinate and Unresolved tooltip", third)
	}
}

func TestBuild_HopNumbers(t *testing.T) {
	g := Build([]string{"A", "B"}, []models.WalkStep{{From: "A", To: "B"}}, 1,
		resolverWith(map[string]string{"A": "s"}), WithHopNumbers())

	if got := g.Nodes[0].Label; got != "[0] A\n[s]" {
		t.Errorf("label = %q, want hop-number prefix", got)
	}
}

func TestBuild_ObserverSeesEveryHop(t *testing.T) {
	var hops []int
	observer := func(u HopUpdate) { hops = append(hops, u.Hop) }

	path := []string{"A", "B", "C"}
	steps := []models.WalkStep{{From: "A", To: "B"}, {From: "B", To: "C"}}
	Build(path, steps, 2, unresolved, WithObserver(observer))

	if !reflect.DeepEqual(hops, []int{0, 1}) {
		t.Errorf("observer hops = %v, want [0 1]", hops)
	}
}

func TestBuild_ShortPathFallsBackToStepEndpoints(t *testing.T) {
	steps := []models.WalkStep{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
	}

	g := Build([]string{"A"}, steps, 2, unresolved)

	want := []string{"A->B chosen chosen", "B->C chosen chosen"}
	if !reflect.DeepEqual(edgeStrings(g), want) {
		t.Errorf("edges = %v, want step endpoints to stand in for the path", edgeStrings(g))
	}
}
