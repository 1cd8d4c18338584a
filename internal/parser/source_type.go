package parser

import (
	"path/filepath"
	"strings"
)

// SourceTypeFromPath derives the default source type from the file
// extension. ok is false for extensions the binder does not handle.
func SourceTypeFromPath(path string) (st SourceType, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs":
		return SourceType{Module: true}, true
	case ".jsx":
		return SourceType{Module: true, JSX: true}, true
	case ".cjs":
		return SourceType{}, true
	case ".ts", ".mts":
		return SourceType{TypeScript: true, Module: true}, true
	case ".tsx":
		return SourceType{TypeScript: true, Module: true, JSX: true}, true
	case ".cts":
		return SourceType{TypeScript: true}, true
	}
	return SourceType{}, false
}

func (st SourceType) String() string {
	var parts []string
	if st.TypeScript {
		parts = append(parts, "ts")
	} else {
		parts = append(parts, "js")
	}
	if st.Module {
		parts = append(parts, "module")
	} else {
		parts = append(parts, "script")
	}
	if st.JSX {
		parts = append(parts, "jsx")
	}
	if st.AlwaysStrict {
		parts = append(parts, "strict")
	}
	return strings.Join(parts, "+")
}
