package validation

import (
	"fmt"
	"strings"

	"github.com/geotagx/geotagx-validator/internal/dag"
	"github.com/geotagx/geotagx-validator/internal/document"
)

// FlowGraph is a questionnaire flow extracted from a document.
type FlowGraph struct {
	Graph *dag.Graph
	Start string
	paths map[string]Path
	nodes map[string]*document.Node
}

// Path returns the location of the node declaring id.
func (fg *FlowGraph) Path(id string) Path {
	return fg.paths[id]
}

// BuildFlowGraph extracts the graph described by flow from doc. Edges to the
// terminal value or to undeclared nodes are left out. It fails when a node
// lacks a string key or when two nodes share a key, since the graph would
// then be ambiguous.
func BuildFlowGraph(doc *document.Node, flow Flow) (*FlowGraph, error) {
	keyPath := MustParseFieldPath(flow.Key)
	matches := MustParseFieldPath(flow.Nodes).Select(doc)

	fg := &FlowGraph{
		Graph: dag.New(),
		paths: make(map[string]Path),
		nodes: make(map[string]*document.Node),
	}
	keys := make([]string, len(matches))
	for i, m := range matches {
		selected := keyPath.Select(m.Node)
		if len(selected) != 1 {
			return nil, fmt.Errorf("%s: node at %s has no %s", flow.Name, m.Path, flow.Key)
		}
		key, ok := selected[0].Node.Str()
		if !ok {
			return nil, fmt.Errorf("%s: %s at %s is not a string", flow.Name, flow.Key, m.Path)
		}
		if err := fg.Graph.AddNode(key); err != nil {
			return nil, fmt.Errorf("%s: %w", flow.Name, err)
		}
		keys[i] = key
		fg.paths[key] = m.Path
		fg.nodes[key] = m.Node
	}
	if len(keys) > 0 {
		fg.Start = keys[0]
	}

	for i, m := range matches {
		var targets []string
		var defaultEdge []Match
		if flow.Default != "" {
			defaultEdge = MustParseFieldPath(flow.Default).Select(m.Node)
		}
		for _, branch := range flow.Branches {
			for _, sel := range MustParseFieldPath(branch).Select(m.Node) {
				if s, ok := sel.Node.Str(); ok {
					targets = append(targets, s)
				}
			}
		}
		switch {
		case len(defaultEdge) > 0:
			if s, ok := defaultEdge[0].Node.Str(); ok {
				targets = append(targets, s)
			}
		case i+1 < len(keys):
			targets = append(targets, keys[i+1])
		}

		for _, target := range targets {
			if target == flow.Terminal || fg.Graph.GetNode(target) == nil {
				continue
			}
			if err := fg.Graph.AddEdge(keys[i], target); err != nil {
				return nil, fmt.Errorf("%s: %w", flow.Name, err)
			}
		}
	}
	return fg, nil
}

func (r *resolver) checkFlows(kind DocumentKind) {
	doc, schema, ok := r.source(kind)
	if !ok {
		return
	}

	for _, flow := range schema.Flows {
		if r.flowBlocked(kind, doc, flow) {
			continue
		}
		fg, err := BuildFlowGraph(doc, flow)
		if err != nil || fg.Start == "" {
			continue
		}

		for _, cycle := range fg.Graph.Cycles() {
			head := cycle[0]
			r.add(kind, fg.nodes[head], Finding{
				Code:     CodeCircularBranch,
				Message:  fmt.Sprintf("questions form a loop: %s", strings.Join(cycle, " -> ")),
				Expected: fmt.Sprintf("every question to eventually lead to %s", flow.Terminal),
				Actual:   strings.Join(cycle, " -> "),
				Hint:     fmt.Sprintf("Branch to a later question or to '%s'", flow.Terminal),
			}, fg.paths[head])
		}

		for _, id := range fg.Graph.Unreachable(fg.Start) {
			r.add(kind, fg.nodes[id], Finding{
				Severity: SeverityWarning,
				Code:     CodeUnreachableQuestion,
				Message:  fmt.Sprintf("question %q can never be reached from the first question %q", id, fg.Start),
				Hint:     "Add a branch leading to this question or remove it",
			}, fg.paths[id])
		}
	}
}

// flowBlocked reports whether earlier errors make the flow unreliable.
func (r *resolver) flowBlocked(kind DocumentKind, doc *document.Node, flow Flow) bool {
	edgeRoots := []string{fieldRoot(flow.Key)}
	for _, p := range append([]string{flow.Default}, flow.Branches...) {
		if p != "" {
			edgeRoots = append(edgeRoots, fieldRoot(p))
		}
	}

	for _, m := range MustParseFieldPath(flow.Nodes).Select(doc) {
		if r.blocked(kind, m.Path) {
			return true
		}
		for _, root := range edgeRoots {
			if r.errorWithin(kind, m.Path.Child(root)) {
				return true
			}
		}
	}
	return false
}

// errorWithin reports whether an error sits at path or below it.
func (r *resolver) errorWithin(kind DocumentKind, path Path) bool {
	for _, f := range r.prior {
		if f.Document == kind && f.IsError() && f.Path.HasPrefix(path) {
			return true
		}
	}
	return false
}

// fieldRoot returns the first key of a field path pattern.
func fieldRoot(pattern string) string {
	if i := strings.IndexAny(pattern, ".["); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
