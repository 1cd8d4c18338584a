package driver

import (
	"os"
	"path/filepath"
	"testing"

	"binder/internal/diag"
	"binder/internal/parser"
	"binder/internal/source"
)

func TestCacheKeyDependsOnSourceAndOptions(t *testing.T) {
	content := []byte("let a;\n")
	module := CacheKey(content, parser.SourceType{Module: true}, nil)
	script := CacheKey(content, parser.SourceType{}, nil)
	if module == script {
		t.Fatalf("source type must change the key")
	}
	opts := testOptions()
	opts.ReportUnresolved = true
	if CacheKey(content, parser.SourceType{Module: true}, &opts) == module {
		t.Fatalf("unresolved reporting must change the key")
	}
	small, large := testOptions(), testOptions()
	small.MaxDiagnostics, large.MaxDiagnostics = 1, 50
	if CacheKey(content, parser.SourceType{Module: true}, &small) == CacheKey(content, parser.SourceType{Module: true}, &large) {
		t.Fatalf("the diagnostic limit must change the key")
	}
	if CacheKey([]byte("let b;\n"), parser.SourceType{Module: true}, nil) == module {
		t.Fatalf("content must change the key")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := CacheKey([]byte("x;"), parser.SourceType{Module: true}, nil)
	sum := &FileSummary{
		Schema: cacheSchemaVersion,
		Source: "js+module",
		Diagnostics: []SummaryDiagnostic{{
			Severity: uint8(diag.SevWarning),
			Code:     uint16(diag.SemaNormalizationCollide),
			Message:  "near miss",
			Primary:  SummaryRange{Start: 0, End: 1},
			Notes:    []SummaryNote{{Range: SummaryRange{Start: 2, End: 3}, Msg: "declared here"}},
			Fixes:    []SummaryFix{{Title: "rename", Edits: []SummaryEdit{{Range: SummaryRange{End: 1}, NewText: "y"}}}},
		}},
		Exports: []SummaryExport{{Name: "x"}, {Star: true, Source: "./m.js"}},
	}
	if err := cache.Put(key, sum); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "files", key.String()+".mp")); err != nil {
		t.Fatalf("expected the summary on disk: %v", err)
	}

	reopened, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got FileSummary
	ok, err := reopened.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	bag := diag.NewBag(10)
	got.restore(bag, source.FileID(3))
	d := bag.Items()[0]
	if d.Primary.File != 3 || d.Notes[0].Span.Start != 2 || d.Fixes[0].Edits[0].NewText != "y" {
		t.Fatalf("unexpected restored diagnostic %+v", d)
	}
	names, open := got.exportedNames()
	if !names["x"] || !open {
		t.Fatalf("unexpected export set %v open=%v", names, open)
	}

	if ok, err := reopened.Get(CacheKey([]byte("other"), parser.SourceType{}, nil), &got); ok || err != nil {
		t.Fatalf("expected a clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := CacheKey([]byte("x;"), parser.SourceType{}, nil)
	if err := cache.Put(key, &FileSummary{Schema: cacheSchemaVersion + 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	reopened, _ := OpenDiskCacheAt(dir)
	var got FileSummary
	if ok, err := reopened.Get(key, &got); ok || err != nil {
		t.Fatalf("a foreign schema must be a miss, got ok=%v err=%v", ok, err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "binder")
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := CacheKey([]byte("x;"), parser.SourceType{}, nil)
	if err := cache.Put(key, &FileSummary{Schema: cacheSchemaVersion}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	var got FileSummary
	if ok, _ := cache.Get(key, &got); ok {
		t.Fatalf("entries must be gone after DropAll")
	}
	if err := cache.Put(key, &FileSummary{Schema: cacheSchemaVersion}); err != nil {
		t.Fatalf("the cache must stay usable after DropAll: %v", err)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *DiskCache
	var got FileSummary
	if ok, err := cache.Get(CacheKey(nil, parser.SourceType{}, nil), &got); ok || err != nil {
		t.Fatalf("nil cache must miss")
	}
	if err := cache.Put(CacheKey(nil, parser.SourceType{}, nil), &FileSummary{}); err != nil {
		t.Fatalf("nil cache put: %v", err)
	}
}
