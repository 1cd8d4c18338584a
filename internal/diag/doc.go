// Package diag defines the diagnostic model shared by the lexer, parser,
// binder and driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (LEX1xxx,
//     SYN2xxx, SEM3xxx, IO4xxx, PRJ5xxx, OBS6xxx).
//   - Message: short human text.
//   - Primary: the source.Span the diagnostic is about.
//   - Notes: secondary spans, e.g. "previous declaration here".
//   - Fixes: optional text edits.
//
// # Emitting diagnostics
//
// Phases never store diagnostics themselves. They receive a Reporter and
// either call Report directly or go through ReportBuilder:
//
//	diag.ReportError(r, diag.SemaDuplicateDeclaration, span, msg).
//		WithNote(prev, "previous declaration here").
//		Emit()
//
// BagReporter collects into a bounded Bag that supports sorting, filtering
// and deduplication. Rendering lives in internal/diagfmt.
package diag
