package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"binder/internal/diag"
	"binder/internal/diagfmt"
	"binder/internal/driver"
	"binder/internal/version"
)

// errSilent fails a command whose diagnostics were already printed.
var errSilent = errors.New("")

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>",
	Short: "Bind a file or every source file in a directory and report problems",
	Long: `Check parses each file, builds its scope tree and symbol table, reports
redeclarations and other binding errors and, for directories, links relative
imports between the checked files. It exits non-zero when any error is reported`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|sarif)")
	f.Int("jobs", 0, "max parallel workers for directory processing (0 = binder.toml, then GOMAXPROCS)")
	f.Bool("cache", false, "reuse per-file results from the disk cache")
	f.String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/binder)")
	f.Bool("clear-cache", false, "drop the disk cache before checking")
	f.String("ui", "auto", "progress UI for directories (auto|on|off)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("suggest", false, "include fix suggestions in output")
	f.Bool("preview", false, "show fix suggestions as before/after lines")
	f.Bool("no-warnings", false, "drop warnings from the output")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("unresolved", false, "report references to undeclared names not listed in check.globals")
	addSourceFlags(checkCmd)
}

type checkFlags struct {
	format           string
	ui               uiMode
	cache            bool
	cacheDir         string
	clearCache       bool
	withNotes        bool
	suggest          bool
	preview          bool
	noWarnings       bool
	warningsAsErrors bool
	unresolved       bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var cf checkFlags
	f := cmd.Flags()
	var err error
	get := func(name string, dst *bool) {
		if err != nil {
			return
		}
		if *dst, err = f.GetBool(name); err != nil {
			err = fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	if cf.format, err = f.GetString("format"); err != nil {
		return cf, fmt.Errorf("failed to get format flag: %w", err)
	}
	if cf.cacheDir, err = f.GetString("cache-dir"); err != nil {
		return cf, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	uiValue, err := f.GetString("ui")
	if err != nil {
		return cf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cf.ui, err = readUIMode(uiValue); err != nil {
		return cf, err
	}
	get("cache", &cf.cache)
	get("clear-cache", &cf.clearCache)
	get("with-notes", &cf.withNotes)
	get("suggest", &cf.suggest)
	get("preview", &cf.preview)
	get("no-warnings", &cf.noWarnings)
	get("warnings-as-errors", &cf.warningsAsErrors)
	get("unresolved", &cf.unresolved)
	if err != nil {
		return cf, err
	}
	if cf.noWarnings && cf.warningsAsErrors {
		return cf, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	switch cf.format {
	case "pretty", "short", "json", "sarif":
	default:
		return cf, fmt.Errorf("unknown format: %s", cf.format)
	}
	return cf, nil
}

// runCheck executes "check": it runs the driver over a file or directory,
// post-processes the merged bag according to the warning flags, prints it
// and fails when errors remain.
func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	mode, err := pathMode(cmd)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd, target)
	if err != nil {
		return err
	}
	opts.ReportUnresolved = cf.unresolved

	if cf.cache || cf.clearCache {
		cache, err := openCache(cf.cacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		if cf.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}
		if cf.cache {
			opts.Cache = cache
		}
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var run *driver.Run
	switch {
	case !st.IsDir():
		run, err = driver.Check(cmd.Context(), target, opts)
	case shouldUseTUI(cf.ui) && cf.format == "pretty" && !quiet(cmd):
		run, err = runCheckDirWithUI(cmd.Context(), "checking", target, opts)
	default:
		run, err = driver.CheckDir(cmd.Context(), target, opts)
	}
	if err != nil && run == nil {
		dumpTraceRing(cmd)
		return err
	}

	bag := run.Bag
	switch {
	case cf.noWarnings:
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	case cf.warningsAsErrors:
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}

	if printErr := printDiagnostics(cmd, run, cf, mode); printErr != nil {
		return printErr
	}
	if err != nil {
		dumpTraceRing(cmd)
		return err
	}
	if !quiet(cmd) && cf.format == "pretty" {
		printCheckSummary(cmd, run)
	}
	if bag.HasErrors() {
		dumpTraceRing(cmd)
		return errSilent
	}
	return nil
}

func openCache(dir string) (*driver.DiskCache, error) {
	if dir != "" {
		return driver.OpenDiskCacheAt(dir)
	}
	return driver.OpenDiskCache("binder")
}

func printDiagnostics(cmd *cobra.Command, run *driver.Run, cf checkFlags, mode diagfmt.PathMode) error {
	out := cmd.OutOrStdout()
	switch cf.format {
	case "pretty":
		diagfmt.Pretty(out, run.Bag, run.FileSet, diagfmt.PrettyOpts{
			Color:       useColor(cmd, os.Stdout),
			Context:     2,
			PathMode:    mode,
			ShowNotes:   cf.withNotes,
			ShowFixes:   cf.suggest || cf.preview,
			ShowPreview: cf.preview,
		})
	case "short":
		diagfmt.Short(out, run.Bag, run.FileSet, cf.withNotes)
	case "json":
		return diagfmt.JSON(out, run.Bag, run.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         mode,
			IncludeNotes:     cf.withNotes,
			IncludeFixes:     cf.suggest || cf.preview,
			IncludePreviews:  cf.preview,
		})
	case "sarif":
		info := version.Collect()
		return diagfmt.Sarif(out, run.Bag, run.FileSet, diagfmt.SarifRunMeta{
			ToolName:       info.Tool,
			ToolVersion:    info.Version,
			InvocationArgs: os.Args[1:],
		})
	}
	return nil
}

func printCheckSummary(cmd *cobra.Command, run *driver.Run) {
	cached, failed := 0, 0
	symbols, refs := 0, 0
	for _, f := range run.Files {
		if f.Cached {
			cached++
		}
		if f.ParseFailed() {
			failed++
		}
		if f.Summary != nil {
			symbols += f.Summary.Symbols
			refs += f.Summary.References
		}
	}
	errs := run.Bag.ErrorCount()
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "checked %d file(s): %d symbol(s), %d reference(s), %d error(s)", len(run.Files), symbols, refs, errs)
	if cached > 0 {
		fmt.Fprintf(w, ", %d cached", cached)
	}
	if failed > 0 {
		fmt.Fprintf(w, ", %d not bound (parse errors)", failed)
	}
	if dropped := run.Bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, ", %d diagnostic(s) dropped", dropped)
	}
	fmt.Fprintln(w)
	if run.Graph != nil && run.Graph.Topo != nil && run.Graph.Topo.Cyclic {
		fmt.Fprintf(w, "import graph has cycles through %d module(s)\n", len(run.Graph.Topo.Cycles))
	}
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
