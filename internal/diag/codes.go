package diag

import (
	"fmt"
)

// Code is a stable numeric identifier for a diagnostic.
// 1000-1999 are signature-legality codes, reported once per declaration;
// 2000-2999 are call-resolution codes, reported once per call site;
// 4000-4999 are infrastructure codes (workspace loading, caching).
type Code uint16

const (
	UnknownCode Code = 0

	// Signature legality (declaration-time, see ValidateSignature).
	SigInfo                      Code = 1000
	SigInvalidExpandedPlacement  Code = 1001
	SigMultipleExpandedParams    Code = 1002
	SigOverloadConflict          Code = 1003
	SigNonNominalExpandedType    Code = 1004
	SigAbstractTypeNotExpandable Code = 1005
	SigByRefExpandedConflict     Code = 1006
	SigDefaultArgAdjacency       Code = 1007

	// Call resolution (per call site, see Resolve).
	ResInfo                      Code = 2000
	ResNoMatchingInitializer     Code = 2001
	ResAmbiguousInitializer      Code = 2002
	ResInaccessibleInitializer   Code = 2003
	ResTrailingClosureNotAllowed Code = 2004
	// ResArgumentTypeMismatch is forwarded to the host's ordinary
	// type-checking failure channel, not treated as a resolution failure.
	ResArgumentTypeMismatch Code = 2005

	// Workspace / infrastructure.
	IOInfo              Code = 4000
	IOWorkspaceInvalid  Code = 4001
	IOUnknownType       Code = 4002
	IOUnknownSignature  Code = 4003
	IODuplicateDecl     Code = 4004
	IOCacheUnavailable  Code = 4005
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	SigInfo:                      "signature info",
	SigInvalidExpandedPlacement:  "expanded parameter must be the first parameter",
	SigMultipleExpandedParams:    "at most one parameter may be expanded",
	SigOverloadConflict:          "a function with an expanded parameter cannot be overloaded",
	SigNonNominalExpandedType:    "expanded parameter type must be a nominal type",
	SigAbstractTypeNotExpandable: "expanded parameter type must not be an abstract type",
	SigByRefExpandedConflict:     "expanded parameter cannot be passed by mutable reference",
	SigDefaultArgAdjacency:       "defaulted parameter after an expanded parameter must be last",

	ResInfo:                      "resolution info",
	ResNoMatchingInitializer:     "no matching initializer for expanded arguments",
	ResAmbiguousInitializer:      "ambiguous initializer for expanded arguments",
	ResInaccessibleInitializer:   "initializer is not accessible from the call site",
	ResTrailingClosureNotAllowed: "trailing closure is not allowed in an expanded argument span",
	ResArgumentTypeMismatch:      "argument type mismatch in expanded initializer call",

	IOInfo:             "workspace info",
	IOWorkspaceInvalid: "workspace manifest is invalid",
	IOUnknownType:      "workspace references an unknown type",
	IOUnknownSignature: "workspace references an unknown signature",
	IODuplicateDecl:    "duplicate declaration in workspace",
	IOCacheUnavailable: "catalog cache is unavailable",
}

// ID returns the stable short identifier, e.g. "SIG1001" or "RES2002".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SIG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Title returns the human-readable summary for the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
