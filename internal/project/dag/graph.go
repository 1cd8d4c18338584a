package dag

import (
	"fmt"
	"slices"
	"strings"

	"binder/internal/diag"
	"binder/internal/project"
)

type Graph struct {
	Edges   [][]ModuleID // Edges[from] = imported modules, sorted
	Indeg   []int        // только по присутствующим модулям
	Present []bool       // модуль реально проанализирован, а не только импортирован
}

// ModuleNode is an analysed file and where its diagnostics go.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
}

type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
}

// BuildGraph links nodes into a graph. Imports of unknown modules are
// reported as PRJ5002 warnings and self-imports as PRJ5003; neither adds an
// edge.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	slots := make([]ModuleSlot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}
	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Path]
		if !ok || slots[id].Present {
			continue
		}
		slots[id] = ModuleSlot{Meta: node.Meta, Reporter: node.Reporter, Present: true}
		g.Present[id] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			to, ok := idx.NameToID[dep.Path]
			if !ok {
				continue
			}
			if !g.Present[to] {
				report(slot.Reporter, diag.ProjMissingModule, diag.SevWarning, dep,
					fmt.Sprintf("cannot find module %q imported from %q", dep.Raw, slot.Meta.Path))
				continue
			}
			if toModuleID(from) == to {
				report(slot.Reporter, diag.ProjSelfImport, diag.SevWarning, dep,
					fmt.Sprintf("module %q imports itself", slot.Meta.Path))
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
			g.Indeg[to]++
		}
		slices.Sort(g.Edges[from])
	}
	return g, slots
}

func report(r diag.Reporter, code diag.Code, sev diag.Severity, dep project.ImportMeta, msg string) {
	if r == nil {
		return
	}
	r.Report(code, sev, dep.Span, msg, nil, nil)
}

// ReportCycles tells every module left in a cycle which modules take part.
// Cycles are legal in ES modules, so this is informational.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo *Topo) {
	if topo == nil || !topo.Cyclic {
		return
	}
	names := make([]string, len(topo.Cycles))
	for i, id := range topo.Cycles {
		names[i] = idx.IDToName[id]
	}
	summary := strings.Join(names, ", ")
	for _, id := range topo.Cycles {
		slot := slots[id]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q is in or behind an import cycle among: %s", slot.Meta.Path, summary)
		slot.Reporter.Report(diag.ProjImportCycle, diag.SevInfo, slot.Meta.Span, msg, nil, nil)
	}
}

// Hashes folds each module's dependency hashes into its ModuleHash, leaves
// first along topo.Order reversed. Modules in cycles only hash their
// content.
func Hashes(g Graph, slots []ModuleSlot, topo *Topo) {
	for i := len(topo.Order) - 1; i >= 0; i-- {
		id := topo.Order[i]
		meta := &slots[id].Meta
		deps := make([]project.Digest, 0, len(g.Edges[id]))
		for _, to := range g.Edges[id] {
			deps = append(deps, slots[to].Meta.ModuleHash)
		}
		meta.ModuleHash = project.Combine(meta.ContentHash, deps...)
	}
	for _, id := range topo.Cycles {
		slots[id].Meta.ModuleHash = project.Combine(slots[id].Meta.ContentHash)
	}
}
