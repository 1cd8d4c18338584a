package driver

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"binder/internal/ast"
	"binder/internal/diag"
	"binder/internal/observ"
	"binder/internal/parser"
	"binder/internal/semantic"
	"binder/internal/source"
	"binder/internal/trace"
)

// FileResult is the analysis of one file. Builder, ASTFile and Semantic
// are nil/zero for cache hits and for files that failed to parse
// (Semantic only).
type FileResult struct {
	Path       string
	ModulePath string // slash-separated, relative to the run root; empty in single-file runs
	FileID     source.FileID
	Source     parser.SourceType
	Bag        *diag.Bag
	Builder    *ast.Builder
	ASTFile    ast.FileID
	Semantic   *semantic.Result
	Summary    *FileSummary
	Cached     bool
	Timing     *observ.Report
}

// ParseFailed reports whether semantic analysis was skipped.
func (r *FileResult) ParseFailed() bool {
	return r.Summary == nil || r.Summary.ParseFailed
}

// analyzer holds what every file of a run shares. All fields are read-only
// once the goroutines start, except the Timer which is concurrency safe.
type analyzer struct {
	fs    *source.FileSet
	opts  *Options
	timer *observ.Timer // run-wide pass totals, nil without --timings
	done  *atomic.Int64
	total int
}

func (a *analyzer) stage(path string, st Stage) {
	if a.opts.Progress == nil {
		return
	}
	done := 0
	if a.done != nil {
		done = int(a.done.Load())
	}
	a.opts.Progress(ProgressEvent{File: path, Stage: st, Done: done, Total: a.total})
}

// analyze parses and binds one loaded file. Unless parsing produced errors
// the semantic builder and the post-build checks run; both report into the
// file's bag.
func (a *analyzer) analyze(ctx context.Context, id source.FileID) *FileResult {
	file := a.fs.Get(id)
	ctx, span := trace.Start(ctx, trace.ScopeFile, file.Path)
	defer span.End("")

	res := &FileResult{
		Path:   file.Path,
		FileID: id,
		Bag:    diag.NewBag(a.opts.maxDiagnostics()),
	}
	st, known := a.opts.sourceType(file.Path)
	res.Source = st

	cacheKey := CacheKey(file.Content, st, a.opts)
	if a.opts.Cache != nil {
		var sum FileSummary
		ok, err := a.opts.Cache.Get(cacheKey, &sum)
		switch {
		case err != nil:
			res.Bag.Add(cacheWarning(id, err))
		case ok:
			sum.restore(res.Bag, id)
			res.Summary = &sum
			res.Cached = true
			span.WithExtra("cache", "hit")
			return res
		}
	}
	if !known {
		reportUnknownExtension(res.Bag, file)
	}

	var timer *observ.Timer
	if a.opts.Timings {
		timer = observ.NewTimer()
	}
	pass := func(name string, fn func()) {
		_, ps := trace.Start(ctx, trace.ScopePass, name)
		start := time.Now()
		fn()
		d := time.Since(start)
		ps.End("")
		timer.Add(name, d)
		a.timer.Add(name, d)
	}

	var pr parser.Result
	a.stage(file.Path, StageParse)
	pass("parse", func() {
		res.Builder, pr = parseFile(a.fs, file, st, res.Bag)
		res.ASTFile = pr.File
	})

	if !res.Bag.HasErrors() {
		reporter := &diag.CountingReporter{Next: &diag.BagReporter{Bag: res.Bag}}
		a.stage(file.Path, StageBind)
		pass("bind", func() {
			b := semantic.NewBuilder(file, st, pr.Comments, semantic.Options{Reporter: reporter})
			res.Semantic = b.Build(res.Builder, pr.File)
		})
		pass("check", func() {
			semantic.Check(res.Semantic, semantic.CheckOptions{
				Reporter:         reporter,
				ReportUnresolved: a.opts.ReportUnresolved,
				Globals:          a.opts.Config.Check.Globals,
			})
		})
		span.WithExtra("symbols", strconv.Itoa(res.Semantic.Symbols.Len()))
		span.WithExtra("diagnostics", strconv.Itoa(reporter.Total))
	} else {
		span.WithExtra("parse", "failed")
	}

	res.Summary = summarize(res, res.Semantic)
	if timer != nil {
		rep := timer.Report()
		res.Timing = &rep
	}
	if a.opts.Cache != nil {
		if err := a.opts.Cache.Put(cacheKey, res.Summary); err != nil {
			res.Bag.Add(cacheWarning(id, err))
		}
	}
	return res
}

func cacheWarning(id source.FileID, err error) diag.Diagnostic {
	return diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "cache: "+err.Error())
}
