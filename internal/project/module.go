package project

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	"binder/internal/source"
)

// ImportMeta is one module dependency of a file. Path is the resolved
// module path, or the unresolved candidate when Missing is set.
type ImportMeta struct {
	Path    string
	Raw     string // the specifier as written
	Span    source.Span
	Missing bool
}

// ModuleMeta describes one analysed file as a node of the import graph.
type ModuleMeta struct {
	Path        string // slash-separated, relative to the project root
	Span        source.Span
	Imports     []ImportMeta
	ContentHash Digest
	ModuleHash  Digest // content hash combined with the dependencies' hashes
}

var errBadPath = errors.New("invalid module path")

// NormalizePath turns a file path below root into a module path "src/a.js".
func NormalizePath(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errBadPath
	}
	return rel, nil
}

// IsRelative reports specifiers that name a project file ("./a", "../b").
// Bare specifiers ("react", "node:fs") are external packages.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// ResolveImport resolves a relative specifier written in module from against
// the known module paths: the exact path, then each extension, then
// "<path>/index<ext>". ok is false when nothing matches; the returned
// candidate is then the cleaned path without an extension.
func ResolveImport(from, spec string, known map[string]bool, exts []string) (resolved string, ok bool, err error) {
	if !IsRelative(spec) {
		return "", false, errors.New("not a relative import")
	}
	joined := path.Join(path.Dir(from), spec)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false, errors.New("import escapes the project root")
	}
	if known[joined] {
		return joined, true, nil
	}
	for _, ext := range exts {
		if known[joined+ext] {
			return joined + ext, true, nil
		}
	}
	// TS sources import "./a.js" for a.ts
	if base, ext := strings.TrimSuffix(joined, path.Ext(joined)), path.Ext(joined); ext != "" {
		for _, alt := range exts {
			if alt != ext && known[base+alt] {
				return base + alt, true, nil
			}
		}
	}
	for _, ext := range exts {
		if idx := path.Join(joined, "index"+ext); known[idx] {
			return idx, true, nil
		}
	}
	return joined, false, nil
}
