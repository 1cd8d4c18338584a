package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"binder/internal/diagfmt"
	"binder/internal/driver"
	"binder/internal/project"
)

// addSourceFlags registers the source-type overrides shared by every
// command that parses.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("ts", false, "parse as TypeScript regardless of extension")
	cmd.Flags().Bool("script", false, "parse as a script: import and export are syntax errors")
	cmd.Flags().Bool("jsx", false, "enable JSX")
	cmd.Flags().Bool("strict", false, "parse scripts in strict mode")
	cmd.Flags().String("path-mode", "auto", "file path display (auto|absolute|relative|basename)")
}

// sourceOverrides turns the flags the user actually set into a
// SourceConfig layer.
func sourceOverrides(cmd *cobra.Command) project.SourceConfig {
	var out project.SourceConfig
	flag := func(name string) *bool {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, err := cmd.Flags().GetBool(name)
		if err != nil {
			return nil
		}
		return &v
	}
	out.TypeScript = flag("ts")
	out.JSX = flag("jsx")
	out.Strict = flag("strict")
	if script := flag("script"); script != nil {
		module := !*script
		out.Module = &module
	}
	return out
}

// loadOptions discovers binder.toml for target (or loads --config), applies
// the command-line overrides and returns the driver options.
func loadOptions(cmd *cobra.Command, target string) (driver.Options, error) {
	root := cmd.Root().PersistentFlags()
	configPath, err := root.GetString("config")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}

	var cfg project.Config
	if configPath != "" {
		cfg, err = project.LoadConfig(configPath)
	} else {
		cfg, err = project.Discover(target)
	}
	if err != nil {
		return driver.Options{}, fmt.Errorf("config: %w", err)
	}
	cfg.Source = cfg.Source.Merge(sourceOverrides(cmd))

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Config:         cfg,
		Timings:        timings,
	}
	if cmd.Flags().Lookup("jobs") != nil {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	return opts, nil
}

func pathMode(cmd *cobra.Command) (diagfmt.PathMode, error) {
	value, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return diagfmt.PathModeAuto, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	return diagfmt.ParsePathMode(value)
}
