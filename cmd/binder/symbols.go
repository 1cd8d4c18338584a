package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"binder/internal/diagfmt"
	"binder/internal/driver"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] file.js",
	Short: "Dump the scope tree, symbol table and references of a file",
	Long: `Symbols binds one file and prints every scope with its bindings, every
symbol with its flags and resolved references, and every global reference`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	symbolsCmd.Flags().Bool("unresolved", false, "also report references to undeclared names")
	addSourceFlags(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	unresolved, err := cmd.Flags().GetBool("unresolved")
	if err != nil {
		return fmt.Errorf("failed to get unresolved flag: %w", err)
	}
	mode, err := pathMode(cmd)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd, filePath)
	if err != nil {
		return err
	}
	opts.ReportUnresolved = unresolved

	run, err := driver.Check(cmd.Context(), filePath, opts)
	if err != nil {
		return err
	}
	if run.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, run.Bag, run.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			PathMode:  mode,
			ShowNotes: true,
		})
	}

	res := run.Files[0]
	if res.Semantic == nil {
		// parse errors: the builder never ran
		return errSilent
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatSymbolsPretty(out, res.Semantic, run.FileSet, mode)
	case "json":
		return diagfmt.FormatSymbolsJSON(out, res.Semantic, run.FileSet, mode)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
