package graph

import (
	"fmt"
	"strings"
)

// DOT renders the graph in Graphviz dot syntax, keeping the resolver's
// traditional styling: left-to-right ranking, filled boxes, a blue highlight
// on the start node, dashed rejected branches.
func (g *Graph) DOT() string {
	var b strings.Builder

	b.WriteString("digraph walk {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fillcolor=\"#f0fdf4\", fontname=\"Courier New\"];\n")

	for _, n := range g.Nodes {
		attrs := fmt.Sprintf("label=%s, tooltip=%s", dotQuote(n.Label), dotQuote(n.Tooltip))
		if n.Highlight {
			attrs += ", fillcolor=\"#dbeafe\""
		}
		fmt.Fprintf(&b, "  %s [%s];\n", dotQuote(n.ID), attrs)
	}

	for _, e := range g.Edges {
		attrs := fmt.Sprintf("label=%s", dotQuote(e.Label))
		if e.Kind == KindRejected {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", dotQuote(e.From), dotQuote(e.To), attrs)
	}

	b.WriteString("}\n")
	return b.String()
}

// dotQuote builds a double-quoted DOT string; newlines become the \n escape
// graphviz interprets as a line break inside labels.
func dotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
