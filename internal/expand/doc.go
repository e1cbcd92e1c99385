// Package expand implements resolution of expanded parameters: parameters
// whose value may be supplied either directly or through an implicit
// constructor call assembled from the leading call arguments.
//
// The package has two entry points. ValidateSignature runs once per
// declared callable and checks the static legality rules (placement,
// uniqueness, overload exclusivity, type kind, mutability, default-argument
// adjacency). Resolve runs once per call expression: it segments the
// argument list into the expansion span and the remainder, matches the span
// against the constructor catalog frozen at the signature's declaration
// point, and produces a tagged Resolution the host substitutes back into
// the elaborated call.
//
// Everything here is a pure computation over immutable inputs; independent
// signatures and call sites may be processed in parallel. The only shared
// state is the catalog cache, which is insert-once-per-key.
package expand
