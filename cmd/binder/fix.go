package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"binder/internal/diag"
	"binder/internal/driver"
	"binder/internal/fix"
	"binder/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory>",
	Short: "Apply suggested fixes to source files",
	Long: `Fix checks the target the same way check does and applies the fixes attached
to its diagnostics. By default only the first fix in source order is applied;
--all applies every fix that does not overlap an earlier one and --id picks a
single fix from the list printed by --list`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	f := fixCmd.Flags()
	f.Bool("all", false, "apply every non-conflicting fix")
	f.String("id", "", "apply only the fix with this id")
	f.Bool("list", false, "list available fixes without applying them")
	f.Bool("dry-run", false, "print the rewritten files instead of writing them")
	f.Int("jobs", 0, "max parallel workers for directory processing (0 = binder.toml, then GOMAXPROCS)")
	addSourceFlags(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]
	f := cmd.Flags()
	all, err := f.GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	id, err := f.GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	list, err := f.GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	dryRun, err := f.GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if all && id != "" {
		return fmt.Errorf("--all and --id cannot be used together")
	}

	opts, err := loadOptions(cmd, target)
	if err != nil {
		return err
	}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	var run *driver.Run
	if st.IsDir() {
		run, err = driver.CheckDir(cmd.Context(), target, opts)
	} else {
		run, err = driver.Check(cmd.Context(), target, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	items := run.Bag.Items()
	if list {
		listFixes(out, run.FileSet, items)
		return nil
	}

	applyOpts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	switch {
	case all:
		applyOpts.Mode = fix.ApplyModeAll
	case id != "":
		applyOpts.Mode = fix.ApplyModeID
		applyOpts.TargetID = id
	}

	res, err := fix.Apply(run.FileSet, items, applyOpts)
	if res != nil {
		printFixResult(out, res, dryRun)
	}
	if errors.Is(err, fix.ErrNoFixes) {
		if !quiet(cmd) {
			fmt.Fprintln(out, "no applicable fixes")
		}
		return nil
	}
	return err
}

// listFixes prints one line per fix: its id, title and diagnostic.
func listFixes(w io.Writer, fs *source.FileSet, items []diag.Diagnostic) {
	n := 0
	for _, d := range items {
		for idx, f := range d.Fixes {
			fmt.Fprintf(w, "%s  %s (%s)\n", color.CyanString(fix.FixID(fs, d, idx)), f.Title, d.Message)
			n++
		}
	}
	if n == 0 {
		fmt.Fprintln(w, "no fixes available")
	}
}

func printFixResult(w io.Writer, res *fix.ApplyResult, dryRun bool) {
	for _, a := range res.Applied {
		fmt.Fprintf(w, "%s %s: %s\n", color.GreenString("fixed"), a.ID, a.Title)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "%s %s: %s\n", color.YellowString("skipped"), s.ID, s.Reason)
	}
	for _, ch := range res.FileChanges {
		if dryRun {
			fmt.Fprintf(w, "--- %s (%d edits)\n%s", ch.Path, ch.EditCount, ch.Content)
			continue
		}
		fmt.Fprintf(w, "wrote %s (%d edits)\n", ch.Path, ch.EditCount)
	}
}
