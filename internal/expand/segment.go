package expand

import (
	"expandc/internal/diag"
	"expandc/internal/source"
)

// SegmentKind discriminates the outcome of argument segmentation.
type SegmentKind uint8

const (
	// SegmentNotApplicable: the signature has no expanded parameter.
	SegmentNotApplicable SegmentKind = iota
	// SegmentDirect: the first argument supplies the parameter's value
	// unexpanded.
	SegmentDirect
	// SegmentSpan: a non-empty run of leading arguments forms the
	// expansion span.
	SegmentSpan
	// SegmentDefaulted: the span is empty and the expanded parameter's
	// default value is used; no constructor call is synthesized.
	SegmentDefaulted
	// SegmentFailed: segmentation is illegal, Err holds the code.
	SegmentFailed
)

// Segmentation is the result of splitting a call's arguments around an
// expanded parameter.
type Segmentation struct {
	Kind      SegmentKind
	Direct    *Arg  // set for SegmentDirect
	Span      []Arg // set for SegmentSpan
	Remainder []Arg
	Err       diag.Code
	ErrSpan   source.Span
}

// Segment determines which contiguous run of call arguments belongs to the
// expanded parameter. The remainder is matched against the rest of the
// signature by the host's ordinary argument matching.
func Segment(sig *Signature, args []Arg) Segmentation {
	if sig == nil {
		return Segmentation{Kind: SegmentNotApplicable}
	}
	idx, ok := sig.Expanded()
	if !ok {
		return Segmentation{Kind: SegmentNotApplicable}
	}
	expanded := sig.Params[idx]

	// A first argument labeled with the parameter's own label supplies the
	// value directly, regardless of catalog contents. Unlabeled expanded
	// parameters have no direct form: an unlabeled first argument is
	// indistinguishable from an unlabeled constructor argument, so it
	// joins the span.
	if expanded.Label != source.NoStringID && len(args) > 0 && args[0].Label == expanded.Label {
		return Segmentation{
			Kind:      SegmentDirect,
			Direct:    &args[0],
			Remainder: args[1:],
		}
	}

	boundary := source.NoStringID
	if idx+1 < len(sig.Params) {
		boundary = sig.Params[idx+1].Label
	}

	span := make([]Arg, 0, len(args))
	rest := args[len(args):]
	for i := range args {
		if boundary != source.NoStringID && args[i].Label == boundary {
			rest = args[i:]
			break
		}
		if args[i].TrailingClosure {
			return Segmentation{
				Kind:    SegmentFailed,
				Err:     diag.ResTrailingClosureNotAllowed,
				ErrSpan: args[i].Span,
			}
		}
		span = append(span, args[i])
	}

	if len(span) == 0 {
		if expanded.HasDefault {
			return Segmentation{Kind: SegmentDefaulted, Remainder: rest}
		}
		return Segmentation{
			Kind:    SegmentFailed,
			Err:     diag.ResNoMatchingInitializer,
			ErrSpan: segmentErrSpan(sig, args),
		}
	}
	return Segmentation{Kind: SegmentSpan, Span: span, Remainder: rest}
}

func segmentErrSpan(sig *Signature, args []Arg) source.Span {
	if len(args) > 0 {
		return args[0].Span
	}
	return sig.Span
}
