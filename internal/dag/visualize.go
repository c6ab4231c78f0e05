package dag

import (
	"fmt"
	"strings"
)

// RenderASCII generates an ASCII representation of the flow: nodes grouped
// by step with their outgoing edges, followed by unreachable nodes.
// Uses portable ASCII characters only (no Unicode).
func (g *Graph) RenderASCII(title string) string {
	if len(g.levels) == 0 {
		return "No levels computed. Run ComputeLevels() first."
	}

	var sb strings.Builder
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	for i, level := range g.levels {
		sb.WriteString(renderLevelHeader(level.Number, len(level.IDs)))
		sb.WriteString(g.renderLevelNodes(level.IDs))

		if i < len(g.levels)-1 {
			sb.WriteString("    |\n    v\n")
		}
	}

	var unreachable []string
	for _, id := range g.order {
		if g.nodes[id].Level < 0 {
			unreachable = append(unreachable, id)
		}
	}
	if len(unreachable) > 0 {
		sb.WriteString("\nUnreachable\n")
		sb.WriteString(g.renderLevelNodes(unreachable))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Summary:\n  Steps: %d\n  Nodes: %d\n  Unreachable: %d\n",
		len(g.levels), g.Size(), len(unreachable)))
	return sb.String()
}

func renderLevelHeader(number, count int) string {
	plural := "s"
	if count == 1 {
		plural = ""
	}
	return fmt.Sprintf("Step %d (%d question%s)\n", number, count, plural)
}

func (g *Graph) renderLevelNodes(ids []string) string {
	var sb strings.Builder
	for i, id := range ids {
		prefix := "  |-"
		if i == len(ids)-1 {
			prefix = "  +-"
		}
		sb.WriteString(fmt.Sprintf("%s [%s]", prefix, id))
		if edges := g.nodes[id].Edges; len(edges) > 0 {
			sb.WriteString(" -> " + strings.Join(edges, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCompact generates a single-line representation.
// Format: [q1] -> [q2, q3] -> [q4]
func (g *Graph) RenderCompact() string {
	if len(g.levels) == 0 {
		return "No levels computed"
	}
	parts := make([]string, len(g.levels))
	for i, level := range g.levels {
		parts[i] = fmt.Sprintf("[%s]", strings.Join(level.IDs, ", "))
	}
	return strings.Join(parts, " -> ")
}
