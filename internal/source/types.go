package source

import "math"

type (
	// FileID identifies a file inside a FileSet.
	FileID uint32
	// FileFlags describes how a file entered the FileSet.
	FileFlags uint8
)

// NoFile marks spans of run-wide diagnostics that point at no file.
const NoFile FileID = math.MaxUint32

const (
	// FileVirtual marks content that did not come from disk (stdin, tests, fuzzing).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds normalized content of a single source file together with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}
