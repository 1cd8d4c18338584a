package dag

import (
	"slices"
	"testing"

	"binder/internal/diag"
	"binder/internal/project"
	"binder/internal/source"
)

func names(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[id]
	}
	return out
}

func imports(paths ...string) []project.ImportMeta {
	out := make([]project.ImportMeta, len(paths))
	for i, p := range paths {
		out[i] = project.ImportMeta{Path: p, Raw: "./" + p}
	}
	return out
}

func TestBuildIndexIncludesImports(t *testing.T) {
	idx := BuildIndex([]project.ModuleMeta{
		{Path: "src/main.js", Imports: imports("src/math.js", "src/util.js")},
		{Path: "src/util.js"},
	})
	want := []string{"src/main.js", "src/math.js", "src/util.js"}
	if !slices.Equal(idx.IDToName, want) {
		t.Fatalf("expected %v, got %v", want, idx.IDToName)
	}
	for i, name := range want {
		if idx.NameToID[name] != ModuleID(i) {
			t.Fatalf("%s: id %d, want %d", name, idx.NameToID[name], i)
		}
	}
}

func TestBuildGraphReportsMissingAndSelf(t *testing.T) {
	app := project.ModuleMeta{Path: "app.js", Imports: imports("core.js", "gone", "app.js", "core.js")}
	core := project.ModuleMeta{Path: "core.js"}
	bag := diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{app, core})
	g, _ := BuildGraph(idx, []ModuleNode{
		{Meta: app, Reporter: &diag.BagReporter{Bag: bag}},
		{Meta: core},
	})

	appID, coreID := idx.NameToID["app.js"], idx.NameToID["core.js"]
	if !slices.Equal(g.Edges[appID], []ModuleID{coreID}) {
		t.Fatalf("app edges = %v, want only core", g.Edges[appID])
	}
	if g.Indeg[coreID] != 1 || g.Present[idx.NameToID["gone"]] {
		t.Fatalf("unexpected indegree or presence: %v %v", g.Indeg, g.Present)
	}
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	if !slices.Equal(codes, []diag.Code{diag.ProjMissingModule, diag.ProjSelfImport}) {
		t.Fatalf("unexpected diagnostics %v", codes)
	}
}

func TestToposortKahnBatches(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "b", Imports: imports("c")},
		{Path: "a"},
		{Path: "c"},
	}
	idx := BuildIndex(metas)
	nodes := make([]ModuleNode, len(metas))
	for i, m := range metas {
		nodes[i] = ModuleNode{Meta: m}
	}
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("expected an acyclic graph")
	}
	if got := names(idx, topo.Order); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if len(topo.Batches) != 2 || !slices.Equal(names(idx, topo.Batches[0]), []string{"a", "b"}) {
		t.Fatalf("unexpected batches %v", topo.Batches)
	}
}

func TestCyclesAreInformational(t *testing.T) {
	a := project.ModuleMeta{Path: "a", Span: source.Span{File: 1}, Imports: imports("b")}
	b := project.ModuleMeta{Path: "b", Span: source.Span{File: 2}, Imports: imports("a")}
	bagA, bagB := diag.NewBag(10), diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{a, b})
	g, slots := BuildGraph(idx, []ModuleNode{
		{Meta: a, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: b, Reporter: &diag.BagReporter{Bag: bagB}},
	})
	topo := ToposortKahn(g)
	if !topo.Cyclic || len(topo.Cycles) != 2 {
		t.Fatalf("expected a two-module cycle, got %+v", topo)
	}
	ReportCycles(idx, slots, topo)
	for _, bag := range []*diag.Bag{bagA, bagB} {
		if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjImportCycle || bag.Items()[0].Severity != diag.SevInfo {
			t.Fatalf("expected one informational cycle note, got %v", bag.Items())
		}
	}
}

func TestHashesDependOnImports(t *testing.T) {
	build := func(leaf byte) []ModuleSlot {
		metas := []project.ModuleMeta{
			{Path: "main", Imports: imports("lib"), ContentHash: project.Digest{1}},
			{Path: "lib", ContentHash: project.Digest{leaf}},
			{Path: "other", ContentHash: project.Digest{3}},
		}
		idx := BuildIndex(metas)
		nodes := make([]ModuleNode, len(metas))
		for i, m := range metas {
			nodes[i] = ModuleNode{Meta: m}
		}
		g, slots := BuildGraph(idx, nodes)
		Hashes(g, slots, ToposortKahn(g))
		return slots
	}
	one, two := build(2), build(9)
	// ids: lib=0 main=1 other=2
	if one[1].Meta.ModuleHash == two[1].Meta.ModuleHash {
		t.Fatalf("importer hash must change with its import")
	}
	if one[2].Meta.ModuleHash != two[2].Meta.ModuleHash {
		t.Fatalf("unrelated module hash must not change")
	}
}
