package parser

import "testing"

func TestSourceTypeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"a.js", "js+module", true},
		{"a.mjs", "js+module", true},
		{"a.cjs", "js+script", true},
		{"a.jsx", "js+module+jsx", true},
		{"dir/A.TS", "ts+module", true},
		{"a.mts", "ts+module", true},
		{"a.cts", "ts+script", true},
		{"a.tsx", "ts+module+jsx", true},
		{"a.css", "", false},
	}
	for _, tt := range tests {
		st, ok := SourceTypeFromPath(tt.path)
		if ok != tt.ok || (ok && st.String() != tt.want) {
			t.Fatalf("%s: got %s ok=%v, want %s ok=%v", tt.path, st, ok, tt.want, tt.ok)
		}
	}
}
