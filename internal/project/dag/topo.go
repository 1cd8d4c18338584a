package dag

import "slices"

type Topo struct {
	Order   []ModuleID   // importers before their imports
	Batches [][]ModuleID // waves of modules with no pending importers
	Cyclic  bool
	Cycles  []ModuleID // узлы, оставшиеся в цикле
}

// ToposortKahn orders the present modules with Kahn's algorithm. Edges
// point from importer to imported, so the first batch holds modules nobody
// imports.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]ModuleID, 0, n)}

	active := 0
	var current []ModuleID
	for i := range n {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toModuleID(i))
		}
	}

	for len(current) > 0 {
		topo.Batches = append(topo.Batches, current)
		var next []ModuleID
		for _, id := range current {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[id] {
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i := range n {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toModuleID(i))
			}
		}
	}
	return topo
}
