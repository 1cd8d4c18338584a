package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"binder/internal/diagfmt"
	"binder/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.js",
	Short: "Parse a source file and summarize its syntax tree",
	Long: `Parse runs the lexer and parser over one file, prints parse diagnostics to
stderr and a summary of the syntax tree to stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	addSourceFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	mode, err := pathMode(cmd)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.Parse(filePath, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:    useColor(cmd, os.Stderr),
			Context:  2,
			PathMode: mode,
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		if !quiet(cmd) {
			fmt.Fprintf(out, "== %s (%s) ==\n", result.File.FormatPath("auto", result.FileSet.BaseDir()), result.Source)
		}
		err = diagfmt.FormatASTPretty(out, result.Builder, result.FileID)
	case "json":
		err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errSilent
	}
	return nil
}
