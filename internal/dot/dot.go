// Package dot renders the reaction dependency graph as Graphviz DOT source,
// per spec §4.10: reactions clustered by topological level into rank=same
// subgraphs, with invisible ordering edges between levels, followed by the
// real dependency edges. The same renderer backs both the on-demand export
// and the automatic dump emitted when cycle detection fails.
package dot

import (
	"fmt"
	"strings"
)

// Edge is a directed dependency edge between two reactions, identified by
// fully qualified name.
type Edge struct {
	From string
	To   string
}

func nodeID(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "_")
}

// RenderLeveled renders a graph whose reactions have been successfully
// assigned topological levels. levelFQNs[i] lists the FQNs at level i.
func RenderLeveled(levelFQNs [][]string, edges []Edge) string {
	var b strings.Builder
	b.WriteString("digraph reactions {\n  rankdir=LR;\n  node [shape=box, fontsize=10];\n\n")

	var firstOfLevel []string
	for level, fqns := range levelFQNs {
		fmt.Fprintf(&b, "  subgraph cluster_level_%d {\n    rank=same;\n    label=\"level %d\";\n", level, level)
		for _, fqn := range fqns {
			fmt.Fprintf(&b, "    %q [label=%q];\n", nodeID(fqn), fqn)
		}
		b.WriteString("  }\n")
		if len(fqns) > 0 {
			firstOfLevel = append(firstOfLevel, nodeID(fqns[0]))
		}
	}

	if len(firstOfLevel) > 1 {
		b.WriteString("\n  // invisible edges fixing subgraph order\n")
		for i := 0; i+1 < len(firstOfLevel); i++ {
			fmt.Fprintf(&b, "  %q -> %q [style=invis];\n", firstOfLevel[i], firstOfLevel[i+1])
		}
	}

	writeEdges(&b, edges)
	b.WriteString("}\n")
	return b.String()
}

// RenderFlat renders a graph with no valid leveling (a cycle was detected):
// every node and every edge, with no rank clustering.
func RenderFlat(nodeFQNs []string, edges []Edge) string {
	var b strings.Builder
	b.WriteString("digraph reactions {\n  rankdir=LR;\n  node [shape=box, fontsize=10];\n\n")
	for _, fqn := range nodeFQNs {
		fmt.Fprintf(&b, "  %q [label=%q];\n", nodeID(fqn), fqn)
	}
	writeEdges(&b, edges)
	b.WriteString("}\n")
	return b.String()
}

func writeEdges(b *strings.Builder, edges []Edge) {
	if len(edges) == 0 {
		return
	}
	b.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(b, "  %q -> %q;\n", nodeID(e.From), nodeID(e.To))
	}
}
