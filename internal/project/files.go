package project

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// CollectFiles lists the source files under dir whose extension is in
// c.Check.Extensions, skipping excluded and hidden directories. Paths are
// sorted so every run sees the same order.
func (c *Config) CollectFiles(dir string) ([]string, error) {
	exts := c.Check.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && c.excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) && !strings.HasSuffix(path, ".d.ts") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func (c *Config) excluded(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, pat := range c.Check.Exclude {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}
