package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"binder/internal/project"
)

type ModuleID uint32

// ModuleIndex assigns dense ids to module paths in sorted order, so ids
// are stable across runs over the same files.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex collects every module path, including import targets that
// were never analysed.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep.Path != "" {
				uniq[dep.Path] = struct{}{}
			}
		}
	}
	paths := make([]string, 0, len(uniq))
	for p := range uniq {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	nameToID := make(map[string]ModuleID, len(paths))
	for i, p := range paths {
		nameToID[p] = toModuleID(i)
	}
	return ModuleIndex{NameToID: nameToID, IDToName: paths}
}

func toModuleID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}
