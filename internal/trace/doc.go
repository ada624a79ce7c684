// Package trace records what the driver, the basket and the transformer
// are doing, at a granularity chosen by Level.
//
// A Tracer travels through context, together with the active span and the
// document being worked on:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithDoc(ctx, "rrc/pdu.asn")
//	ctx, span := trace.Start(ctx, trace.ScopeDocument, "driver.lower_file")
//	defer span.End("")
//
// Code without a context opens spans with Begin and adds instant events
// with (*Span).Point.
//
// Scopes, coarse to fine: ScopeDriver (a command), ScopeWorkspace (a pass
// over a basket), ScopeDocument (one item update or transform), ScopeDecl
// (one assignment). LevelPhase emits up to ScopeWorkspace, LevelDetail up
// to ScopeDocument and LevelDebug everything. LevelError keeps documents
// in a ring that the CLI dumps when a command fails.
package trace
