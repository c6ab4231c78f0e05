package dag

// Level groups the nodes whose shortest distance from the start node is the same.
type Level struct {
	Number int      // Step number, 1 for the start node
	IDs    []string // Nodes first reached at this step, in insertion order
}

// ComputeLevels assigns every node its breadth-first distance from start and
// groups reachable nodes by distance. Nodes that cannot be reached keep level
// -1 and appear in no Level. Cycles are allowed.
func (g *Graph) ComputeLevels(start string) []Level {
	for _, id := range g.order {
		g.nodes[id].Level = -1
	}
	g.levels = nil

	root, ok := g.nodes[start]
	if !ok {
		return nil
	}

	root.Level = 0
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.nodes[id].Edges {
			if n := g.nodes[next]; n.Level < 0 {
				n.Level = g.nodes[id].Level + 1
				queue = append(queue, next)
			}
		}
	}

	byLevel := make(map[int][]string)
	maxLevel := 0
	for _, id := range g.order {
		lvl := g.nodes[id].Level
		if lvl < 0 {
			continue
		}
		byLevel[lvl] = append(byLevel[lvl], id)
		maxLevel = max(maxLevel, lvl)
	}

	for lvl := 0; lvl <= maxLevel; lvl++ {
		g.levels = append(g.levels, Level{Number: lvl + 1, IDs: byLevel[lvl]})
	}
	return g.levels
}

// Levels returns the levels computed by the last ComputeLevels call.
func (g *Graph) Levels() []Level {
	return g.levels
}
