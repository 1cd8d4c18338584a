package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"binder/internal/diagfmt"
	"binder/internal/driver"
	"binder/internal/project/dag"
)

var graphCmd = &cobra.Command{
	Use:   "graph [flags] <directory>",
	Short: "Print the import graph of a directory",
	Long: `Graph checks every file below a directory, links relative imports and prints
the resulting module graph: each module with its imports, the topological
batches and the modules caught in import cycles`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	graphCmd.Flags().Int("jobs", 0, "max parallel workers (0 = binder.toml, then GOMAXPROCS)")
	graphCmd.Flags().Bool("hashes", false, "print module hashes")
	addSourceFlags(graphCmd)
}

type graphModuleJSON struct {
	Path    string   `json:"path"`
	Present bool     `json:"present"`
	Imports []string `json:"imports,omitempty"`
	Hash    string   `json:"hash,omitempty"`
}

type graphJSON struct {
	Modules []graphModuleJSON `json:"modules"`
	Batches [][]string        `json:"batches"`
	Cycles  []string          `json:"cycles,omitempty"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	dir := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	hashes, err := cmd.Flags().GetBool("hashes")
	if err != nil {
		return fmt.Errorf("failed to get hashes flag: %w", err)
	}
	mode, err := pathMode(cmd)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd, dir)
	if err != nil {
		return err
	}

	run, err := driver.CheckDir(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}
	if run.Bag.HasErrors() || run.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, run.Bag, run.FileSet, diagfmt.PrettyOpts{
			Color:    useColor(cmd, os.Stderr),
			Context:  1,
			PathMode: mode,
		})
	}

	out := buildGraphJSON(run.Graph, hashes)
	switch format {
	case "pretty":
		writeGraphPretty(cmd.OutOrStdout(), out)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func buildGraphJSON(g *driver.ModuleGraph, hashes bool) graphJSON {
	var out graphJSON
	if g == nil {
		return out
	}
	names := g.Index.IDToName
	for id, name := range names {
		m := graphModuleJSON{Path: name, Present: g.Graph.Present[id]}
		for _, to := range g.Graph.Edges[id] {
			m.Imports = append(m.Imports, names[to])
		}
		if hashes && m.Present {
			m.Hash = g.Slots[id].Meta.ModuleHash.Short()
		}
		out.Modules = append(out.Modules, m)
	}
	if g.Topo != nil {
		for _, batch := range g.Topo.Batches {
			out.Batches = append(out.Batches, moduleNames(names, batch))
		}
		out.Cycles = moduleNames(names, g.Topo.Cycles)
	}
	return out
}

func moduleNames(names []string, ids []dag.ModuleID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, names[id])
	}
	return out
}

func writeGraphPretty(w io.Writer, g graphJSON) {
	for _, m := range g.Modules {
		suffix := ""
		if !m.Present {
			suffix = " (missing)"
		}
		if m.Hash != "" {
			suffix += " " + m.Hash
		}
		fmt.Fprintf(w, "%s%s\n", m.Path, suffix)
		for _, imp := range m.Imports {
			fmt.Fprintf(w, "  -> %s\n", imp)
		}
	}
	if len(g.Batches) > 0 {
		fmt.Fprintln(w, "\nbatches:")
		for i, batch := range g.Batches {
			fmt.Fprintf(w, "  %d: %v\n", i, batch)
		}
	}
	if len(g.Cycles) > 0 {
		fmt.Fprintf(w, "\ncycles: %v\n", g.Cycles)
	}
}
