// Package diag defines the diagnostic model shared by signature validation
// and call resolution.
//
// Diagnostic is the central record: a Severity, a stable numeric Code, a
// short message, a primary source.Span, and optional Notes pointing at
// secondary locations (the offending parameter, the competing constructor
// candidates, and so on). Fixes carry structured edit suggestions that a
// host tool may materialise.
//
// The package performs no formatting or IO. Rendering lives in
// internal/diagfmt; collection and transport live in internal/driver.
// Producers emit through a Reporter so storage stays decoupled; BagReporter
// aggregates into a Bag, which supports sorting, merging, and deduplication
// for deterministic output.
package diag
