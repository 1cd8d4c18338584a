package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCollectUsesOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version, GitCommit, BuildDate = " 1.2.3 ", "abc123", "2024-01-15T10:30:00Z"
	info := Collect()
	if info.Version != "1.2.3" || info.GitCommit != "abc123" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Tool != "binder" || info.Tagline == "" {
		t.Fatalf("missing tool identity: %+v", info)
	}

	Version = ""
	if got := Collect().Version; got != "dev" {
		t.Fatalf("empty version must fall back to dev, got %q", got)
	}
}

func TestColoredVersion(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	tests := []string{"0.1.0-dev", "1.2.3", "2.0.0+build.7", "weird"}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Fatalf("Colored(%q) without color = %q", v, got)
		}
	}

	color.NoColor = false
	got := Colored("1.2.3-rc.1")
	if got == "1.2.3-rc.1" || got[len(got)-5:] != "-rc.1" {
		t.Fatalf("expected colored numbers and a plain suffix, got %q", got)
	}
}
