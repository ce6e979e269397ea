// Package graph assembles a walk's hop path and per-hop candidate data into
// a renderable directed graph: one solid edge per chosen hop, up to three
// dashed score-labeled edges for the rejected alternatives, and a coherence
// series aligned to the path. A graph is built fresh per walk pass and never
// mutated after construction.
package graph

import (
	"fmt"
	"sort"

	"github.com/dualsubstrate/web4r-go/internal/models"
)

// EdgeKind tags an edge as the taken hop or a rejected branch.
type EdgeKind string

const (
	KindChosen   EdgeKind = "chosen"
	KindRejected EdgeKind = "rejected"
)

// maxRejectedEdges caps how many rejected branches render per hop.
const maxRejectedEdges = 3

// labelWidth is how many characters of claim or summary text fit in a node
// label before truncation.
const labelWidth = 30

// Node is one rendered coordinate. The first node of a walk carries the
// highlight flag.
type Node struct {
	ID        string
	Label     string
	Tooltip   string
	Highlight bool
}

// Edge is one directed transition. Rejected edges carry their score as the
// label, or "rejected" when the candidate had none.
type Edge struct {
	From  string
	To    string
	Kind  EdgeKind
	Label string
}

type edgeKey struct {
	from, to string
}

// Graph is the assembled render-only structure. Nodes and Edges keep
// insertion order; that order is the only defined one.
type Graph struct {
	Nodes     []Node
	Edges     []Edge
	Coherence []float64

	seenNodes map[string]bool
	seenEdges map[edgeKey]bool
}

func newGraph() *Graph {
	return &Graph{
		Coherence: []float64{},
		seenNodes: make(map[string]bool),
		seenEdges: make(map[edgeKey]bool),
	}
}

// addNode records a node unless that coordinate was already added.
func (g *Graph) addNode(n Node) {
	if g.seenNodes[n.ID] {
		return
	}
	g.seenNodes[n.ID] = true
	g.Nodes = append(g.Nodes, n)
}

// addEdge records an edge unless the same ordered (from, to) pair exists.
func (g *Graph) addEdge(e Edge) {
	key := edgeKey{from: e.From, to: e.To}
	if g.seenEdges[key] {
		return
	}
	g.seenEdges[key] = true
	g.Edges = append(g.Edges, e)
}

// DetailResolver resolves a coordinate for display. It must be total: a
// failed decode comes back as the error variant, never as a panic or a
// returned error, so one unresolvable hop cannot abort assembly.
type DetailResolver func(coord string) models.DecodeResult

// HopUpdate reports one assembled hop, for incremental rendering.
type HopUpdate struct {
	Hop    int
	Coord  string
	Next   string
	Label  string
	Chosen models.Score
}

type builder struct {
	hopNumbers bool
	observer   func(HopUpdate)
}

// Option configures graph assembly.
type Option func(*builder)

// WithHopNumbers prefixes node labels with their hop index.
func WithHopNumbers() Option {
	return func(b *builder) { b.hopNumbers = true }
}

// WithObserver registers a callback invoked after each hop is assembled.
// The callback runs on the assembling goroutine.
func WithObserver(fn func(HopUpdate)) Option {
	return func(b *builder) { b.observer = fn }
}

// Build assembles the graph from the anchored path and the parsed steps,
// resolving each hop's coordinate for its display label. It stops after
// maxHops hops or when the steps run out, whichever comes first.
func Build(path []string, steps []models.WalkStep, maxHops int, resolve DetailResolver, opts ...Option) *Graph {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	g := newGraph()

	for i := 0; i < maxHops && i < len(steps); i++ {
		step := steps[i]

		current := step.From
		if i < len(path) {
			current = path[i]
		}
		next := step.To
		if i+1 < len(path) {
			next = path[i+1]
		}

		details := resolve(current)
		label, tooltip := nodeDisplay(current, details, i, b.hopNumbers)
		g.addNode(Node{ID: current, Label: label, Tooltip: tooltip, Highlight: i == 0})

		chosen, rejected := splitCandidates(step, next)

		if next != "" {
			g.addEdge(Edge{From: current, To: next, Kind: KindChosen, Label: string(KindChosen)})
		}

		for _, cand := range topRejected(rejected) {
			label := string(KindRejected)
			if v, ok := cand.Score.Float64(); ok {
				label = fmt.Sprintf("%.3f", v)
			}
			g.addEdge(Edge{From: current, To: cand.Coord, Kind: KindRejected, Label: label})
		}

		if v, ok := chosen.Float64(); ok {
			g.Coherence = append(g.Coherence, v)
		}

		if b.observer != nil {
			b.observer(HopUpdate{Hop: i, Coord: current, Next: next, Label: label, Chosen: chosen})
		}
	}

	return g
}

// splitCandidates separates a hop's candidate list into the chosen score and
// the rejected alternatives. The candidate whose coordinate matches the
// path's next element is the chosen one; when none matches, the step's own
// score stands in. The path stays the ground truth for traversal either way.
func splitCandidates(step models.WalkStep, next string) (models.Score, []models.Candidate) {
	chosen := step.Score
	matched := false
	rejected := make([]models.Candidate, 0, len(step.Candidates))

	for _, cand := range step.Candidates {
		if cand.Coord == next {
			if !matched {
				chosen = cand.Score
				matched = true
			}
			continue
		}
		rejected = append(rejected, cand)
	}

	return chosen, rejected
}

// topRejected orders rejected candidates by descending score, scoreless
// candidates last with their original order kept, and caps the result.
func topRejected(rejected []models.Candidate) []models.Candidate {
	sort.SliceStable(rejected, func(i, j int) bool {
		vi, oki := rejected[i].Score.Float64()
		vj, okj := rejected[j].Score.Float64()
		if oki != okj {
			return oki
		}
		return vi > vj
	})
	if len(rejected) > maxRejectedEdges {
		rejected = rejected[:maxRejectedEdges]
	}
	return rejected
}

// nodeDisplay derives a node's label and tooltip from its decode result:
// the coordinate plus a shortened first claim (or summary), with the full
// summary as the tooltip. Unresolved coordinates keep the bare coordinate.
func nodeDisplay(coord string, details models.DecodeResult, hop int, hopNumbers bool) (string, string) {
	label := coord
	tooltip := "Unresolved"

	if details.OK() {
		short := details.Content.Summary
		if len(details.Content.Claims) > 0 {
			short = details.Content.Claims[0]
		}
		label = fmt.Sprintf("%s\n[%s]", coord, truncate(short, labelWidth))
		tooltip = details.Content.Summary
	}

	if hopNumbers {
		label = fmt.Sprintf("[%d] %s", hop, label)
	}
	return label, tooltip
}

// truncate shortens text to width characters, marking the cut with an
// ellipsis. Width is counted in runes so multibyte text does not get split.
func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width]) + "..."
}
