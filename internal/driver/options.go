package driver

import (
	"fmt"
	"path/filepath"
	"runtime"

	"binder/internal/diag"
	"binder/internal/parser"
	"binder/internal/project"
	"binder/internal/source"
)

// Options control a check run. The zero value checks with project.Default.
type Options struct {
	// MaxDiagnostics bounds every per-file bag; 0 takes the config value.
	MaxDiagnostics int
	// Jobs bounds parallel file analysis; 0 takes the config value, then
	// GOMAXPROCS.
	Jobs   int
	Config project.Config
	Cache  *DiskCache

	// ReportUnresolved emits SEM3003 for globals not listed in
	// Config.Check.Globals.
	ReportUnresolved bool
	Timings          bool
	Progress         ProgressFunc
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return o.Config.Check.MaxDiagnostics
}

func (o *Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = o.Config.Check.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

// prepare fills what an empty Config leaves out. Call it once before the
// options are shared between goroutines.
func (o *Options) prepare() {
	if o.Config.Check.Extensions == nil {
		o.Config.Check.Extensions = project.Default().Check.Extensions
	}
	if o.maxDiagnostics() <= 0 {
		o.MaxDiagnostics = project.Default().Check.MaxDiagnostics
	}
}

// sourceType picks the grammar for path. Unknown extensions fall back to a
// JavaScript module; known is false in that case.
func (o *Options) sourceType(path string) (st parser.SourceType, known bool) {
	st, known = o.Config.SourceTypeFor(path)
	if !known {
		st = parser.SourceType{Module: true}
	}
	return st, known
}

func reportUnknownExtension(bag *diag.Bag, file *source.File) {
	msg := fmt.Sprintf("unknown extension %q, parsing as a JavaScript module", filepath.Ext(file.Path))
	bag.Add(diag.New(diag.SevWarning, diag.ProjUnknownFileExt, source.Span{File: file.ID}, msg))
}
