package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("app.js", []byte("let a = 1;"), 0)
	if id1 != 0 {
		t.Fatalf("first FileID = %d, want 0", id1)
	}
	id2 := fs.Add("app.js", []byte("let b = 2;"), 0)
	if id2 != 1 {
		t.Fatalf("second FileID = %d, want 1", id2)
	}

	latest, ok := fs.Latest("app.js")
	if !ok || latest != id2 {
		t.Fatalf("Latest = (%d, %v), want (%d, true)", latest, ok, id2)
	}
	// старая версия всё ещё доступна
	if got := string(fs.Get(id1).Content); got != "let a = 1;" {
		t.Fatalf("old version content = %q", got)
	}
}

func TestAddVirtualLineIndex(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("a\nb\n"))
	f := fs.Get(id)

	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
	}
	for i := range want {
		if f.LineIdx[i] != want[i] {
			t.Fatalf("LineIdx[%d] = %d, want %d", i, f.LineIdx[i], want[i])
		}
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatal("FileVirtual flag is not set")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("let a;\nfoo(a);\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{4, LineCol{1, 5}},
		{6, LineCol{1, 7}}, // сам '\n'
		{7, LineCol{2, 1}},
		{11, LineCol{2, 5}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.js", []byte("first\nsecond\nthird")))

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := f.Line(n); got != want {
			t.Errorf("Line(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.js")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let a;\r\nlet b;\r\n")...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "let a;\nlet b;\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
}

func TestTextClampsToContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("abc"))
	if got := fs.Text(Span{File: id, Start: 1, End: 10}); got != "bc" {
		t.Fatalf("Text = %q, want %q", got, "bc")
	}
	if got := fs.Text(Span{File: 7, Start: 0, End: 1}); got != "" {
		t.Fatalf("Text on unknown file = %q", got)
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.js")

	got, err := RelativePath(target, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != normalizePath(target) {
		t.Fatalf("RelativePath = %q, want %q", got, normalizePath(target))
	}

	inside := filepath.Join(base, "src", "a.js")
	got, err = RelativePath(inside, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != "src/a.js" {
		t.Fatalf("RelativePath = %q, want src/a.js", got)
	}
}
