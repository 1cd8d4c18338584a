// Package trace records what the binder driver is doing: commands, passes
// and per-file work, as begin/end spans and instant points.
//
// Enable it from the command line:
//
//	binder check --trace=- --trace-level=file ./src
//
// Tracers: Nop (disabled), StreamTracer (writes immediately), RingTracer
// (keeps the last N events for a dump after a failure) and MultiTracer.
//
// Levels map to scopes: phase shows ScopeDriver and ScopePass, file adds
// ScopeFile, debug shows everything including ScopeNode.
//
// Tracers travel through the pipeline on a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "bind", parent)
//	defer span.End("")
package trace
