package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()

	a := in.Intern("foo")
	b := in.Intern("bar")
	c := in.Intern("foo")
	if a != c {
		t.Fatalf("same string interned twice: %d != %d", a, c)
	}
	if a == b {
		t.Fatal("different strings got the same id")
	}
	if in.Len() != 3 {
		t.Fatalf("Len = %d, want 3", in.Len())
	}
	if got := in.MustLookup(b); got != "bar" {
		t.Fatalf("Lookup = %q", got)
	}
}

func TestInternerEmptyString(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string id = %d, want NoStringID", id)
	}
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatal("Lookup of unknown id succeeded")
	}
	if _, ok := in.Find("missing"); ok {
		t.Fatal("Find interned a string")
	}
	if in.Len() != 1 {
		t.Fatalf("Find must not grow the interner, Len = %d", in.Len())
	}
}

func TestInternerCopiesInput(t *testing.T) {
	in := NewInterner()
	buf := []byte("name")
	id := in.Intern(string(buf))
	buf[0] = 'g'
	if got := in.MustLookup(id); got != "name" {
		t.Fatalf("interned value changed with buffer: %q", got)
	}
}
