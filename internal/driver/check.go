package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"binder/internal/diag"
	"binder/internal/observ"
	"binder/internal/project"
	"binder/internal/source"
	"binder/internal/trace"
)

// Run is the outcome of Check or CheckDir. Files are in path order.
type Run struct {
	FileSet *source.FileSet
	Root    string
	Files   []*FileResult
	Graph   *ModuleGraph // nil for single-file runs
	// Bag merges every file's diagnostics, in file order, followed by
	// run-wide entries such as timings.
	Bag    *diag.Bag
	Timing *observ.Report
}

// HasErrors reports error diagnostics in any file.
func (r *Run) HasErrors() bool { return r.Bag.HasErrors() }

// Check runs the full pipeline over a single file. Module linking needs
// the importee sources, so it only happens in CheckDir.
func Check(ctx context.Context, path string, opts Options) (*Run, error) {
	opts.prepare()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End(path)

	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	a := analyzer{fs: fs, opts: &opts, total: 1}
	res := a.analyze(ctx, id)
	progress(opts.Progress, res, 1, 1)

	run := &Run{FileSet: fs, Root: filepath.Dir(path), Files: []*FileResult{res}}
	run.collect()
	if res.Timing != nil {
		run.Timing = res.Timing
		appendTimingDiagnostic(run.Bag, timingPayload{Kind: "file", Path: path, TotalMS: totalMS(res.Timing), Phases: res.Timing.Phases})
	}
	return run, nil
}

// CheckDir checks every source file below dir (see Config.CollectFiles)
// in parallel, then links their imports. Cancellation is observed between
// files; the partial run is returned together with ctx.Err().
func CheckDir(ctx context.Context, dir string, opts Options) (*Run, error) {
	opts.prepare()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check_dir")
	defer span.End(dir)

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	collectIdx := begin("collect")
	paths, err := opts.Config.CollectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}
	end(collectIdx, fmt.Sprintf("%d files", len(paths)))

	run := &Run{FileSet: source.NewFileSetWithBase(root), Root: root}
	run.Files = make([]*FileResult, len(paths))

	// FileSet не потокобезопасен: всё загружаем до старта горутин
	loadIdx := begin("load")
	ids := make([]source.FileID, len(paths))
	for i, p := range paths {
		id, err := run.FileSet.Load(p)
		if err != nil {
			run.Files[i] = loadFailure(p, err, opts.maxDiagnostics())
			run.Files[i].ModulePath = modulePath(root, p)
			continue
		}
		ids[i] = id
	}
	end(loadIdx, "")

	var done atomic.Int64
	a := analyzer{fs: run.FileSet, opts: &opts, timer: timer, done: &done, total: len(paths)}
	analyzeIdx := begin("analyze")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(paths)))
	for i := range paths {
		if run.Files[i] != nil {
			progress(opts.Progress, run.Files[i], int(done.Add(1)), len(paths))
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := a.analyze(gctx, ids[i])
			res.ModulePath = modulePath(root, res.Path)
			// индекс i уникален, мьютекс не нужен
			run.Files[i] = res
			progress(opts.Progress, res, int(done.Add(1)), len(paths))
			return nil
		})
	}
	waitErr := g.Wait()
	end(analyzeIdx, fmt.Sprintf("jobs=%d", opts.jobs(len(paths))))
	if waitErr != nil {
		run.Files = compact(run.Files)
		run.collect()
		return run, waitErr
	}

	if opts.Progress != nil {
		opts.Progress(ProgressEvent{Stage: StageLink, Done: len(paths), Total: len(paths)})
	}
	linkIdx := begin("link")
	run.Graph = link(ctx, run)
	end(linkIdx, "")

	run.collect()
	if timer != nil {
		rep := timer.Report()
		run.Timing = &rep
		appendTimingDiagnostic(run.Bag, timingPayload{Kind: "dir", Path: dir, Files: len(paths), TotalMS: rep.TotalMS, Phases: rep.Phases})
	}
	return run, nil
}

func loadFailure(path string, err error, maxDiagnostics int) *FileResult {
	res := &FileResult{Path: path, FileID: source.NoFile, Bag: diag.NewBag(maxDiagnostics)}
	res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: source.NoFile},
		fmt.Sprintf("failed to load %s: %v", path, err)))
	return res
}

func modulePath(root, file string) string {
	p, err := project.NormalizePath(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return p
}

func progress(fn ProgressFunc, res *FileResult, done, total int) {
	if fn == nil {
		return
	}
	stage := StageDone
	if res.Cached {
		stage = StageCached
	}
	fn(ProgressEvent{File: res.Path, Stage: stage, Done: done, Total: total})
}

// collect rebuilds the run bag from the file bags.
func (r *Run) collect() {
	total := 0
	for _, f := range r.Files {
		total += f.Bag.Len()
	}
	r.Bag = diag.NewBag(total)
	for _, f := range r.Files {
		r.Bag.Merge(f.Bag)
	}
}

func compact(files []*FileResult) []*FileResult {
	out := files[:0]
	for _, f := range files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func totalMS(rep *observ.Report) float64 {
	total := 0.0
	for _, p := range rep.Phases {
		total += p.DurationMS
	}
	return total
}
