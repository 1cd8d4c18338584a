package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"binder/internal/driver"
	"binder/internal/project"
	"binder/internal/project/dag"
)

func TestSourceOverridesOnlyChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addSourceFlags(cmd)
	if err := cmd.Flags().Set("script", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("jsx", "true"); err != nil {
		t.Fatal(err)
	}

	got := sourceOverrides(cmd)
	if got.TypeScript != nil || got.Strict != nil {
		t.Fatalf("unset flags must stay nil, got ts=%v strict=%v", got.TypeScript, got.Strict)
	}
	if got.Module == nil || *got.Module {
		t.Fatalf("--script must force module=false, got %v", got.Module)
	}
	if got.JSX == nil || !*got.JSX {
		t.Fatalf("--jsx must force jsx=true, got %v", got.JSX)
	}

	cfg := project.Default()
	cfg.Source = cfg.Source.Merge(got)
	st, ok := cfg.SourceTypeFor("a.mjs")
	if !ok || st.Module || !st.JSX {
		t.Fatalf("merged source type = %+v (known %v)", st, ok)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestGraphOutput(t *testing.T) {
	g := &driver.ModuleGraph{
		Index: dag.ModuleIndex{IDToName: []string{"a.js", "b.js", "c.js"}},
		Graph: dag.Graph{
			Edges:   [][]dag.ModuleID{{1}, {2}, nil},
			Present: []bool{true, true, false},
		},
		Topo: &dag.Topo{Batches: [][]dag.ModuleID{{0}, {1}}},
	}
	out := buildGraphJSON(g, false)
	if len(out.Modules) != 3 || out.Modules[0].Imports[0] != "b.js" || out.Modules[2].Present {
		t.Fatalf("unexpected modules: %+v", out.Modules)
	}

	var buf bytes.Buffer
	writeGraphPretty(&buf, out)
	text := buf.String()
	for _, want := range []string{"a.js\n  -> b.js", "c.js (missing)", "0: [a.js]", "1: [b.js]"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output lacks %q:\n%s", want, text)
		}
	}
}
