//go:build !binder_debug

package symbols

func debugScopeMismatch(ScopeID, ScopeID) {}
