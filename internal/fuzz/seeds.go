package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
)

// seedExts are the file extensions picked up from testdata/seeds.
var seedExts = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
}

// bindingSeeds cover the declaration forms and scope kinds the binder treats
// specially.
var bindingSeeds = []string{
	"let a = 1; function f() { return a; }",
	"y = 1;",
	"var x; var x; let z; { var z; }",
	"{ { var q; } let q; }",
	"try { } catch (e) { var e; let e2 = e; }",
	"f(); function f() { g(); } function g() {}",
	"class C { static { var s; } m() { return C; } }",
	"for (let i = 0; i < 3; i++) { const i2 = i; }",
	"switch (k) { case 1: let a; break; default: let b; }",
	"import d, { a as b, c } from './m'; export { b }; export default d;",
	"export * from './x'; export const e = 1; export function h() {}",
	"const o = { m() { return this; }, get p() { return 1; } };",
	"label: for (const x of xs) { continue label; }",
}

func addCorpusSeeds(f *testing.F) {
	f.Add([]byte{})
	for _, s := range bindingSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !seedExts[filepath.Ext(path)] {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
