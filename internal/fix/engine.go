package fix

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"binder/internal/diag"
	"binder/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and whether files are written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes FileChange.Content without touching the disk.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file. Content is the
// rewritten file as it was (or would be, with DryRun) written.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// stagedEdit is an accepted edit with the order it was accepted in, which
// keeps insertions at one offset in acceptance order.
type stagedEdit struct {
	diag.FixEdit
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts
// and rewrites the files they touch.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(fs, diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skips, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = applied
	result.Skipped = append(result.Skipped, skips...)
	result.FileChanges = changes
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// FixID is the identifier `binder fix --id` selects a fix by:
// CODE:path:line:col#index, with index counting the diagnostic's fixes.
func FixID(fs *source.FileSet, d diag.Diagnostic, idx int) string {
	if lookupFile(fs, d.Primary.File) == nil {
		return fmt.Sprintf("%s#%d", d.Code.ID(), idx)
	}
	start, _ := fs.Resolve(d.Primary)
	return fmt.Sprintf("%s:%s:%d:%d#%d", d.Code.ID(), formatFilePath(fs, d.Primary.File), start.Line, start.Col, idx)
}

// gatherCandidates lists every fix with edits. Fixes without edits and fixes
// whose id repeats an earlier one are reported as skipped.
func gatherCandidates(fs *source.FileSet, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := FixID(fs, d, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if seen[id] {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = true
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, primary span, then insertion
// order, so selection is deterministic regardless of how diagnostics were
// merged across workers.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	staged := make(map[source.FileID][]stagedEdit)
	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	order := 0
	for _, cand := range selected {
		if reason := checkEdits(fs, staged, cand.fix.Edits); reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			staged[e.Span.File] = append(staged[e.Span.File], stagedEdit{FixEdit: e, order: order})
			order++
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   len(cand.fix.Edits),
		})
	}
	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	files := make([]source.FileID, 0, len(staged))
	for id := range staged {
		files = append(files, id)
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	changes := make([]FileChange, 0, len(files))
	for _, id := range files {
		file := fs.Get(id)
		buf := restoreEncoding(file, rewrite(file.Content, staged[id]))
		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return applied, skipped, changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			EditCount: len(staged[id]),
			Content:   buf,
		})
	}
	return applied, skipped, changes, nil
}

// checkEdits validates a fix against the file contents and the edits already
// accepted. It returns an empty string when the fix can be applied.
func checkEdits(fs *source.FileSet, staged map[source.FileID][]stagedEdit, edits []diag.FixEdit) string {
	for i, e := range edits {
		file := lookupFile(fs, e.Span.File)
		if file == nil {
			return "target file is unknown"
		}
		if file.Flags&source.FileVirtual != 0 {
			return "target file is virtual"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		if e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
		for _, prev := range staged[e.Span.File] {
			if spansConflict(prev.FixEdit, e) {
				return fmt.Sprintf("conflicts with previously applied edits in %s", formatFilePath(fs, e.Span.File))
			}
		}
		for _, other := range edits[:i] {
			if other.Span.File == e.Span.File && spansConflict(other, e) {
				return "fix contains overlapping edits"
			}
		}
	}
	return ""
}

// rewrite applies non-overlapping edits whose spans refer to content. Edits
// run back to front so earlier offsets stay valid.
func rewrite(content []byte, edits []stagedEdit) []byte {
	sorted := append([]stagedEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start > sorted[j].Span.Start
		}
		return sorted[i].order > sorted[j].order
	})
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		suffix := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), suffix...)
	}
	return out
}

// restoreEncoding undoes the normalization FileSet.Load performed.
func restoreEncoding(file *source.File, buf []byte) []byte {
	if file.Flags&source.FileNormalizedCRLF != 0 {
		buf = bytes.ReplaceAll(buf, []byte("\n"), []byte("\r\n"))
	}
	if file.Flags&source.FileHadBOM != 0 {
		buf = append([]byte{0xEF, 0xBB, 0xBF}, buf...)
	}
	return buf
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open intervals [Start, End). Two zero-length edits never
// conflict. A zero-length edit conflicts with a non-zero span if its position
// is within that span.
func spansConflict(a, b diag.FixEdit) bool {
	if a.Span.File != b.Span.File {
		return false
	}
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func lookupFile(fs *source.FileSet, id source.FileID) *source.File {
	if int(id) >= fs.Len() {
		return nil
	}
	return fs.Get(id)
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := lookupFile(fs, fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("relative", fs.BaseDir())
}
