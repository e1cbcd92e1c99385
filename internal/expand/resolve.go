package expand

import (
	"fmt"

	"expandc/internal/catalog"
	"expandc/internal/diag"
	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

// ResolutionKind discriminates the outcome of Resolve.
type ResolutionKind uint8

const (
	// ResolutionNotApplicable: the signature has no expanded parameter;
	// the host proceeds with ordinary resolution.
	ResolutionNotApplicable ResolutionKind = iota
	// ResolutionDirect: the expanded parameter receives an expression of
	// its declared type, unexpanded.
	ResolutionDirect
	// ResolutionDefaulted: the parameter's declared default is used.
	ResolutionDefaulted
	// ResolutionConstructed: an implicit constructor invocation is
	// synthesized from the expansion span.
	ResolutionConstructed
	// ResolutionFailed: resolution failed, Err holds the code. The same
	// code has already been reported through the options' Reporter.
	ResolutionFailed
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionNotApplicable:
		return "not-applicable"
	case ResolutionDirect:
		return "direct"
	case ResolutionDefaulted:
		return "defaulted"
	case ResolutionConstructed:
		return "constructed"
	case ResolutionFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Resolution is the tagged result of resolving one call site.
type Resolution struct {
	Kind      ResolutionKind
	Direct    *Arg               // ResolutionDirect
	Candidate *catalog.Candidate // ResolutionConstructed
	Span      []Arg              // ResolutionConstructed: the ctor argument list
	Remainder []Arg
	Err       diag.Code // ResolutionFailed
}

// Options wire the engine to its collaborators. Catalogs may be nil, in
// which case every resolution builds its catalog from scratch.
type Options struct {
	Types    *types.Interner
	Table    *symbols.Table
	Catalogs *catalog.Cache
	Oracle   Oracle
	Reporter diag.Reporter
}

func (o *Options) oracle() Oracle {
	if o.Oracle != nil {
		return o.Oracle
	}
	return ExactOracle{Types: o.Types}
}

func (o *Options) report(d diag.Diagnostic) {
	if o.Reporter != nil {
		o.Reporter.Report(d)
	}
}

// Resolve decides how the call supplies the signature's expanded
// parameter. It is pure: resolving the same inputs twice yields the same
// Resolution.
func Resolve(sig *Signature, args []Arg, callSite symbols.Context, opts Options) Resolution {
	seg := Segment(sig, args)
	switch seg.Kind {
	case SegmentNotApplicable:
		return Resolution{Kind: ResolutionNotApplicable, Remainder: args}
	case SegmentDirect:
		return Resolution{Kind: ResolutionDirect, Direct: seg.Direct, Remainder: seg.Remainder}
	case SegmentDefaulted:
		return Resolution{Kind: ResolutionDefaulted, Remainder: seg.Remainder}
	case SegmentFailed:
		opts.report(diag.NewError(seg.Err, seg.ErrSpan, segmentFailureMessage(seg.Err)))
		return Resolution{Kind: ResolutionFailed, Err: seg.Err}
	}

	idx, _ := sig.Expanded()
	cands := lookupCatalog(sig, sig.Params[idx].Type, opts)
	return resolveSpan(sig, seg, cands, callSite, opts)
}

func segmentFailureMessage(code diag.Code) string {
	if code == diag.ResTrailingClosureNotAllowed {
		return "trailing closure cannot participate in an expanded argument span"
	}
	return "no arguments supplied for expanded parameter without a default"
}

// lookupCatalog fetches the constructor catalog frozen at the signature's
// declaration site, through the cache when one is configured.
func lookupCatalog(sig *Signature, declared types.TypeID, opts Options) []catalog.Candidate {
	builder := &catalog.Builder{Table: opts.Table, Types: opts.Types}
	owner := builder.Owner(declared)
	key := catalog.Key{Owner: owner, Ctx: sig.Decl, AsOf: sig.AsOf}
	if opts.Catalogs != nil {
		return opts.Catalogs.Get(key)
	}
	return builder.Build(owner, sig.Decl, sig.AsOf)
}

func resolveSpan(sig *Signature, seg Segmentation, cands []catalog.Candidate, callSite symbols.Context, opts Options) Resolution {
	span := seg.Span
	primary := span[0].Span
	for _, a := range span[1:] {
		primary = primary.Cover(a.Span)
	}

	// Labels are syntactically available before any type inference, so
	// the label-shape filter runs first.
	shaped := filterByLabels(cands, span)
	if len(shaped) == 0 {
		opts.report(diag.NewError(diag.ResNoMatchingInitializer, primary,
			fmt.Sprintf("no initializer of %s matches the labels of these %d argument(s)",
				ownerLabel(opts.Types, cands, sig), len(span))))
		return Resolution{Kind: ResolutionFailed, Err: diag.ResNoMatchingInitializer}
	}

	oracle := opts.oracle()
	if len(shaped) == 1 {
		cand := shaped[0]
		if at, ok := typeCheckSpan(oracle, span, cand); !ok {
			// Forwarded to the host's ordinary type-checking channel, not
			// treated as a resolution failure of this component.
			opts.report(diag.NewError(diag.ResArgumentTypeMismatch, span[at].Span,
				fmt.Sprintf("argument %d does not type-check against %s",
					at, types.Label(opts.Types, cand.Params[at]))).
				WithNote(cand.Span, "initializer declared here"))
			return Resolution{Kind: ResolutionFailed, Err: diag.ResArgumentTypeMismatch}
		}
		return finishConstructed(seg, cand, primary, callSite, opts)
	}

	// Several candidates share the label shape; the oracle disambiguates.
	var passing []catalog.Candidate
	for _, cand := range shaped {
		if _, ok := typeCheckSpan(oracle, span, cand); ok {
			passing = append(passing, cand)
		}
	}
	switch len(passing) {
	case 0:
		opts.report(diag.NewError(diag.ResNoMatchingInitializer, primary,
			fmt.Sprintf("%d initializer(s) match these labels but none accepts the argument types", len(shaped))))
		return Resolution{Kind: ResolutionFailed, Err: diag.ResNoMatchingInitializer}
	case 1:
		return finishConstructed(seg, passing[0], primary, callSite, opts)
	default:
		// Identical label shapes and several type-correct candidates:
		// fail closed rather than guess by arity.
		d := diag.NewError(diag.ResAmbiguousInitializer, primary,
			fmt.Sprintf("%d initializers accept these arguments", len(passing)))
		for _, cand := range passing {
			d = d.WithNote(cand.Span, "candidate declared here")
		}
		opts.report(d)
		return Resolution{Kind: ResolutionFailed, Err: diag.ResAmbiguousInitializer}
	}
}

// finishConstructed re-checks visibility at the call site. Admission into
// the catalog already proved the declaration-site half; access scopes can
// differ between the two sites, so the call-site half is checked here.
func finishConstructed(seg Segmentation, cand catalog.Candidate, primary source.Span, callSite symbols.Context, opts Options) Resolution {
	if opts.Table != nil {
		ctor := opts.Table.Ctor(cand.Ctor)
		if ctor == nil || !opts.Table.Visible(ctor, callSite) {
			opts.report(diag.NewError(diag.ResInaccessibleInitializer, primary,
				fmt.Sprintf("initializer of %s is not accessible from this call site",
					types.Label(opts.Types, cand.Owner))).
				WithNote(cand.Span, "initializer declared here"))
			return Resolution{Kind: ResolutionFailed, Err: diag.ResInaccessibleInitializer}
		}
	}
	c := cand
	return Resolution{
		Kind:      ResolutionConstructed,
		Candidate: &c,
		Span:      seg.Span,
		Remainder: seg.Remainder,
	}
}

// filterByLabels keeps candidates whose label sequence equals the span's,
// position by position; NoStringID matches an unlabeled argument.
func filterByLabels(cands []catalog.Candidate, span []Arg) []catalog.Candidate {
	var out []catalog.Candidate
	for _, cand := range cands {
		if len(cand.Labels) != len(span) {
			continue
		}
		match := true
		for i := range span {
			if cand.Labels[i] != span[i].Label {
				match = false
				break
			}
		}
		if match {
			out = append(out, cand)
		}
	}
	return out
}

// typeCheckSpan checks every span expression against the candidate's
// parameter types positionally. Returns the first failing index.
func typeCheckSpan(oracle Oracle, span []Arg, cand catalog.Candidate) (int, bool) {
	for i := range span {
		if !oracle.TypeChecks(span[i].Value, cand.Params[i]) {
			return i, false
		}
	}
	return 0, true
}

func ownerLabel(tin *types.Interner, cands []catalog.Candidate, sig *Signature) string {
	if len(cands) > 0 {
		return types.Label(tin, cands[0].Owner)
	}
	if idx, ok := sig.Expanded(); ok {
		return types.Label(tin, sig.Params[idx].Type)
	}
	return "?"
}
