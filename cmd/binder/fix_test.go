package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"binder/internal/driver"
	"binder/internal/fix"
)

func TestFixRewritesNormalizationNearMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cafe.js")
	src := "let cafe\u0301 = 1;\nconsole.log(caf\u00e9);\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	run, err := driver.Check(context.Background(), path, driver.Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var list bytes.Buffer
	listFixes(&list, run.FileSet, run.Bag.Items())
	if !strings.Contains(list.String(), "SEM3004:") || !strings.Contains(list.String(), "use the declared spelling") {
		t.Fatalf("fix list = %q", list.String())
	}

	res, err := fix.Apply(run.FileSet, run.Bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	var out bytes.Buffer
	printFixResult(&out, res, false)
	if !strings.Contains(out.String(), "wrote cafe.js (1 edits)") {
		t.Fatalf("summary = %q", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "let cafe\u0301 = 1;\nconsole.log(cafe\u0301);\n"; string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}
}
