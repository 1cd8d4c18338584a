package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every file loaded during one analysis run.
// IDs are dense and start at zero; re-adding a path creates a new version.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> latest id
	baseDir string            // база для относительных путей в выводе
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 8),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet whose relative paths are computed against dir.
func NewFileSetWithBase(dir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = dir
	return fs
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the configured base directory or the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}

// Add registers already normalized content under path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	clean := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    clean,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[clean] = id
	return id
}

// Load reads path from disk and strips a UTF-8 BOM and CRLF line endings.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is supplied by the user on purpose
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	raw, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	raw, crlf := normalizeCRLF(raw)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, raw, flags), nil
}

// AddVirtual registers in-memory content.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id. It panics on ids that were not produced by this set.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Len returns the number of stored file versions.
func (fs *FileSet) Len() int { return len(fs.files) }

// Latest returns the newest id registered for path.
func (fs *FileSet) Latest(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span into line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the raw bytes covered by span, clamped to the file bounds.
func (fs *FileSet) Text(span Span) string {
	if int(span.File) >= len(fs.files) {
		return ""
	}
	content := fs.files[span.File].Content
	start, end := int(span.Start), int(span.End)
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	if end < start {
		return ""
	}
	return string(content[start:end])
}

// Line returns the text of the 1-based line without its terminator.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	total, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	lines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}

	var start uint32
	if n > 1 {
		if n-2 >= lines {
			return ""
		}
		start = f.LineIdx[n-2] + 1
	}
	end := total
	if n-1 < lines {
		end = f.LineIdx[n-1]
	}
	if start > total || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for output.
// mode is one of "absolute", "relative", "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// короткие и относительные пути оставляем как есть
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)
	}
	return f.Path
}
