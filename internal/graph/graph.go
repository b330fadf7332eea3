// Package graph builds the reaction dependency graph from port bindings and
// per-reactor priority orderings, and computes a topological level for each
// reaction via Kahn's algorithm.
package graph

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/comalice/reactorx/internal/dot"
	"github.com/comalice/reactorx/internal/element"
	"github.com/comalice/reactorx/internal/ports"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/reactor"
)

// CyclePath is the well-known location a cyclic graph is dumped to, mirroring
// the reference runtime's /tmp/reactor_dependency_graph.dot.
var CyclePath = filepath.Join(os.TempDir(), "reactor_dependency_graph.dot")

// Graph is the reaction dependency DAG: an edge X -> Y means "X must
// complete before Y at the same tag."
type Graph struct {
	order    []*reaction.Reaction
	outEdges map[*reaction.Reaction][]*reaction.Reaction
	inDegree map[*reaction.Reaction]int
}

func newGraph() *Graph {
	return &Graph{
		outEdges: make(map[*reaction.Reaction][]*reaction.Reaction),
		inDegree: make(map[*reaction.Reaction]int),
	}
}

func (g *Graph) addNode(r *reaction.Reaction) {
	if _, ok := g.inDegree[r]; ok {
		return
	}
	g.order = append(g.order, r)
	g.inDegree[r] = 0
}

func (g *Graph) addEdge(from, to *reaction.Reaction) {
	g.addNode(from)
	g.addNode(to)
	for _, existing := range g.outEdges[from] {
		if existing == to {
			return
		}
	}
	g.outEdges[from] = append(g.outEdges[from], to)
	g.inDegree[to]++
}

// Build constructs the dependency graph for every reaction reachable from
// roots, the environment's top-level reactors. Two edge kinds are added,
// per spec §4.8:
//
//  1. Binding-induced edges: for each reaction's dependency port, follow its
//     inward-binding chain to the source port, and add an edge from every
//     antidependency reaction on that source port to the dependent reaction
//     (the producer completes before the consumer).
//  2. Priority edges, within each reactor: consecutive reactions sorted by
//     ascending priority get an edge from the higher-priority reaction to
//     the lower-priority one, so higher priority runs first.
func Build(roots ...*reactor.Reactor) *Graph {
	g := newGraph()

	var visitPriorities func(r *reactor.Reactor)
	visitPriorities = func(r *reactor.Reactor) {
		local := append([]*reaction.Reaction(nil), r.Reactions()...)
		sort.Slice(local, func(i, j int) bool { return local[i].Priority() < local[j].Priority() })
		for _, rn := range local {
			g.addNode(rn)
		}
		for i := 0; i+1 < len(local); i++ {
			g.addEdge(local[i+1], local[i])
		}
		for _, c := range r.Children() {
			visitPriorities(c)
		}
	}
	for _, root := range roots {
		visitPriorities(root)
	}

	for _, root := range roots {
		for _, rn := range root.AllReactions() {
			for _, p := range rn.Dependencies() {
				source := rootPort(p)
				for _, antidep := range source.Antidependencies() {
					if producer, ok := antidep.(*reaction.Reaction); ok {
						g.addEdge(producer, rn)
					}
				}
			}
		}
	}

	return g
}

// rootPort follows a port's inward-binding chain to its ultimate source.
func rootPort(p ports.Port) ports.Port {
	for p.InwardBinding() != nil {
		p = p.InwardBinding()
	}
	return p
}

// Levels assigns a non-negative topological level to every reaction via
// Kahn's algorithm: reactions with zero remaining in-degree are assigned
// the current level and removed, repeating until the graph is empty. A
// reaction with no predecessors in this tag's firing set may run
// immediately; one with predecessors must wait for them to complete. If no
// zero in-degree node remains before the graph is empty, the graph
// contains a cycle: a DOT dump is written to CyclePath and a
// ValidationError is returned.
func (g *Graph) Levels() (map[*reaction.Reaction]int, int, error) {
	remaining := make(map[*reaction.Reaction]int, len(g.inDegree))
	for r, d := range g.inDegree {
		remaining[r] = d
	}

	levels := make(map[*reaction.Reaction]int, len(g.order))
	assigned := 0
	level := 0

	for assigned < len(g.order) {
		var ready []*reaction.Reaction
		for _, r := range g.order {
			if _, done := levels[r]; done {
				continue
			}
			if remaining[r] == 0 {
				ready = append(ready, r)
			}
		}
		if len(ready) == 0 {
			path, dumpErr := g.dumpCycle()
			msg := "dependency graph contains a cycle"
			if dumpErr == nil {
				msg += "; graph written to " + path
			}
			return nil, 0, element.NewValidationError("compute indices", msg)
		}
		for _, r := range ready {
			levels[r] = level
			assigned++
		}
		for _, r := range ready {
			for _, to := range g.outEdges[r] {
				remaining[to]--
			}
		}
		level++
	}

	maxLevel := level - 1
	if maxLevel < 0 {
		maxLevel = 0
	}
	return levels, maxLevel, nil
}

func (g *Graph) edgeList() []dot.Edge {
	var edges []dot.Edge
	for _, from := range g.order {
		for _, to := range g.outEdges[from] {
			edges = append(edges, dot.Edge{From: from.FQN(), To: to.FQN()})
		}
	}
	return edges
}

func (g *Graph) dumpCycle() (string, error) {
	var fqns []string
	for _, r := range g.order {
		fqns = append(fqns, r.FQN())
	}
	content := dot.RenderFlat(fqns, g.edgeList())
	if err := os.WriteFile(CyclePath, []byte(content), 0o644); err != nil {
		return "", err
	}
	return CyclePath, nil
}

// Export renders the graph's current topological levels as DOT source. It
// computes the levels itself via Levels, so a cyclic graph returns the same
// ValidationError (and writes the same dump to CyclePath).
func (g *Graph) Export() (string, error) {
	levels, maxLevel, err := g.Levels()
	if err != nil {
		return "", err
	}
	byLevel := make([][]string, maxLevel+1)
	for _, r := range g.order {
		lvl := levels[r]
		byLevel[lvl] = append(byLevel[lvl], r.FQN())
	}
	return dot.RenderLeveled(byLevel, g.edgeList()), nil
}
