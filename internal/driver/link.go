package driver

import (
	"context"
	"fmt"

	"binder/internal/diag"
	"binder/internal/project"
	"binder/internal/project/dag"
	"binder/internal/semantic"
	"binder/internal/source"
	"binder/internal/trace"
)

// ModuleGraph is the import graph of a directory run.
type ModuleGraph struct {
	Index dag.ModuleIndex
	Graph dag.Graph
	Slots []dag.ModuleSlot
	Topo  *dag.Topo
}

// link resolves relative import and re-export sources against the
// analysed files, reports missing modules, self-imports and cycles into the
// importing file's bag, and checks that named imports exist in the target.
// Bare specifiers ("react", "node:fs") are external and ignored.
func link(ctx context.Context, run *Run) *ModuleGraph {
	_, span := trace.Start(ctx, trace.ScopePass, "link")
	defer span.End("")

	exts := project.Default().Check.Extensions
	known := make(map[string]bool, len(run.Files))
	byPath := make(map[string]*FileResult, len(run.Files))
	for _, f := range run.Files {
		if f.Summary != nil {
			known[f.ModulePath] = true
			byPath[f.ModulePath] = f
		}
	}

	metas := make([]project.ModuleMeta, 0, len(byPath))
	nodes := make([]dag.ModuleNode, 0, len(byPath))
	targets := make(map[*FileResult]map[string]string, len(byPath)) // raw specifier -> module path
	for _, f := range run.Files {
		if f.Summary == nil {
			continue
		}
		reporter := &diag.BagReporter{Bag: f.Bag}
		meta := project.ModuleMeta{
			Path:        f.ModulePath,
			Span:        source.Span{File: f.FileID},
			ContentHash: run.FileSet.Get(f.FileID).Hash,
		}
		resolved := make(map[string]string)
		addDep := func(raw string, sp source.Span) {
			if !project.IsRelative(raw) {
				return
			}
			if _, seen := resolved[raw]; seen {
				return
			}
			target, ok, err := project.ResolveImport(f.ModulePath, raw, known, exts)
			if err != nil {
				reporter.Report(diag.ProjMissingModule, diag.SevWarning, sp,
					fmt.Sprintf("cannot resolve %q: %v", raw, err), nil, nil)
				resolved[raw] = ""
				return
			}
			resolved[raw] = target
			meta.Imports = append(meta.Imports, project.ImportMeta{Path: target, Raw: raw, Span: sp, Missing: !ok})
		}
		for _, im := range f.Summary.Imports {
			addDep(im.Source, im.SourceSpan.span(f.FileID))
		}
		for _, ex := range f.Summary.Exports {
			if ex.Source != "" {
				addDep(ex.Source, ex.Span.span(f.FileID))
			}
		}
		targets[f] = resolved
		metas = append(metas, meta)
		nodes = append(nodes, dag.ModuleNode{Meta: meta, Reporter: reporter})
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	dag.Hashes(graph, slots, topo)

	for _, f := range run.Files {
		if f.Summary == nil {
			continue
		}
		checkImportedNames(f, targets[f], byPath)
	}
	span.WithExtra("modules", fmt.Sprint(len(byPath)))
	return &ModuleGraph{Index: idx, Graph: graph, Slots: slots, Topo: topo}
}

// checkImportedNames reports SEM3005 for named and default imports, and
// named re-exports, of names the target module does not export. Targets
// with an `export *` or that failed to parse are not checked.
func checkImportedNames(f *FileResult, targets map[string]string, byPath map[string]*FileResult) {
	exported := func(raw string) (map[string]bool, string, bool) {
		target := byPath[targets[raw]]
		if target == nil || target.ParseFailed() {
			return nil, "", false
		}
		names, open := target.Summary.exportedNames()
		return names, target.ModulePath, !open
	}
	report := func(sp source.Span, name, path string) {
		f.Bag.Add(diag.NewError(diag.SemaMissingExport, sp,
			fmt.Sprintf("module %q has no export named %q", path, name)))
	}

	for _, im := range f.Summary.Imports {
		kind := semantic.ImportKind(im.Kind)
		if im.TypeOnly || (kind != semantic.ImportNamed && kind != semantic.ImportDefault) {
			continue
		}
		if names, path, ok := exported(im.Source); ok && !names[im.Imported] {
			report(im.Span.span(f.FileID), im.Imported, path)
		}
	}
	for _, ex := range f.Summary.Exports {
		if ex.Source == "" || ex.Star || ex.Namespace || ex.TypeOnly || ex.Local == "" {
			continue
		}
		if names, path, ok := exported(ex.Source); ok && !names[ex.Local] {
			report(ex.Span.span(f.FileID), ex.Local, path)
		}
	}
}
