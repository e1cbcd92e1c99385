package expand

import (
	"testing"

	"expandc/internal/catalog"
	"expandc/internal/diag"
	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

func TestResolveConstructedPicksCtorByLabel(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	boolTy := f.types.Builtins().Bool

	ctorA := f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	ctorB := f.addCtor(logger, []string{"b"}, []types.TypeID{boolTy})
	sig := f.expandedSig(logger, Param{Label: f.label("y"), Type: intTy})

	// f(a: 1, y: 2) selects the (a: int) constructor.
	res := Resolve(sig, []Arg{f.arg("a", intTy), f.arg("y", intTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	if res.Kind != ResolutionConstructed || !sameCtor(res, ctorA) {
		t.Fatalf("res = %+v, want constructed via ctor %d", res, ctorA)
	}
	if len(res.Span) != 1 || len(res.Remainder) != 1 || res.Remainder[0].Label != f.label("y") {
		t.Fatalf("span/remainder = %+v / %+v", res.Span, res.Remainder)
	}

	// f(b: true, y: 2) selects the (b: bool) constructor.
	res = Resolve(sig, []Arg{f.arg("b", boolTy), f.arg("y", intTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	if res.Kind != ResolutionConstructed || !sameCtor(res, ctorB) {
		t.Fatalf("res = %+v, want constructed via ctor %d", res, ctorB)
	}
}

func TestResolveDirectWinsRegardlessOfCatalog(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	// Catalog is deliberately empty.
	sig := f.expandedSig(logger, Param{Label: f.label("y"), Type: intTy})

	res := Resolve(sig, []Arg{f.arg("x", logger), f.arg("y", intTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	if res.Kind != ResolutionDirect {
		t.Fatalf("res = %+v, want direct", res)
	}
}

func TestResolveDisambiguatesByType(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	strTy := f.types.Builtins().String

	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	want := f.addCtor(logger, []string{"a"}, []types.TypeID{strTy})
	sig := f.expandedSig(logger, Param{Label: f.label("y"), Type: intTy})

	// f(a: "x", y: 1): both candidates share the label shape, only the
	// string one type-checks.
	res := Resolve(sig, []Arg{f.arg("a", strTy), f.arg("y", intTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	if res.Kind != ResolutionConstructed || !sameCtor(res, want) {
		t.Fatalf("res = %+v, want the string-typed ctor %d", res, want)
	}
}

func TestResolveAmbiguousFailsClosed(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	aliasInt := f.types.RegisterAlias(f.strs.Intern("Count"), source.Span{}, intTy)

	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	f.addCtor(logger, []string{"a"}, []types.TypeID{aliasInt})
	sig := f.expandedSig(logger)

	bag := diag.NewBag(4)
	res := Resolve(sig, []Arg{f.arg("a", intTy)}, symbols.Context{Module: f.main}, f.opts(bag))
	requireFailure(t, res, diag.ResAmbiguousInitializer)
	if bag.Len() != 1 {
		t.Fatalf("reported %d diagnostics, want 1", bag.Len())
	}
	if notes := bag.Items()[0].Notes; len(notes) != 2 {
		t.Fatalf("ambiguity report carries %d notes, want both candidates", len(notes))
	}
}

func TestResolveNoLabelShapeMatch(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	sig := f.expandedSig(logger)

	bag := diag.NewBag(4)
	res := Resolve(sig, []Arg{f.arg("nope", intTy)}, symbols.Context{Module: f.main}, f.opts(bag))
	requireFailure(t, res, diag.ResNoMatchingInitializer)
}

func TestResolveSharedShapeNoneTypeChecks(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	boolTy := f.types.Builtins().Bool
	strTy := f.types.Builtins().String

	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	f.addCtor(logger, []string{"a"}, []types.TypeID{boolTy})
	sig := f.expandedSig(logger)

	res := Resolve(sig, []Arg{f.arg("a", strTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	requireFailure(t, res, diag.ResNoMatchingInitializer)
}

func TestResolveSoleCandidateTypeMismatchForwarded(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	strTy := f.types.Builtins().String

	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	sig := f.expandedSig(logger)

	bag := diag.NewBag(4)
	res := Resolve(sig, []Arg{f.arg("a", strTy)}, symbols.Context{Module: f.main}, f.opts(bag))
	requireFailure(t, res, diag.ResArgumentTypeMismatch)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ResArgumentTypeMismatch {
		t.Fatalf("diagnostics = %v", diagCodes(bag.Items()))
	}
}

func TestResolveInaccessibleAtCallSite(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int

	// Module-private ctor: admitted into the catalog at the declaration
	// site (module app), but the call comes from module main.
	f.table.AddCtor(symbols.Ctor{
		Owner:      logger,
		Labels:     []source.StringID{f.label("a")},
		Params:     []types.TypeID{intTy},
		Visibility: symbols.VisModule,
		Module:     f.app,
	})
	sig := f.expandedSig(logger)

	bag := diag.NewBag(4)
	res := Resolve(sig, []Arg{f.arg("a", intTy)}, symbols.Context{Module: f.main}, f.opts(bag))
	requireFailure(t, res, diag.ResInaccessibleInitializer)

	// From inside the declaring module the same call succeeds.
	res = Resolve(sig, []Arg{f.arg("a", intTy)}, symbols.Context{Module: f.app}, f.opts(nil))
	if res.Kind != ResolutionConstructed {
		t.Fatalf("res = %+v, want constructed inside the module", res)
	}
}

func TestResolveDeclarationLockExcludesLaterCtors(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int

	sig := f.expandedSig(logger) // freezes the (empty) catalog now
	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})

	res := Resolve(sig, []Arg{f.arg("a", intTy)}, symbols.Context{Module: f.app}, f.opts(nil))
	requireFailure(t, res, diag.ResNoMatchingInitializer)
}

func TestResolveOptionalWrapperYieldsNoInitializer(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})

	opt := f.types.Intern(types.MakeOptional(logger))
	sig := f.expandedSig(opt)

	// The catalog is built for the wrapper type, which exposes none of the
	// wrapped type's constructors. Documented limitation.
	res := Resolve(sig, []Arg{f.arg("a", intTy)}, symbols.Context{Module: f.app}, f.opts(nil))
	requireFailure(t, res, diag.ResNoMatchingInitializer)
}

func TestResolveDefaultedExpandedParam(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	sig := f.expandedSig(logger, Param{Label: f.label("y"), Type: intTy})
	sig.Params[0].HasDefault = true

	res := Resolve(sig, []Arg{f.arg("y", intTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	if res.Kind != ResolutionDefaulted {
		t.Fatalf("res = %+v, want defaulted", res)
	}
}

func TestResolveNotApplicableWithoutExpandedParam(t *testing.T) {
	f := newCheckerFixture()
	intTy := f.types.Builtins().Int
	sig := &Signature{Params: []Param{{Label: f.label("y"), Type: intTy}}}
	res := Resolve(sig, []Arg{f.arg("y", intTy)}, symbols.Context{Module: f.main}, f.opts(nil))
	if res.Kind != ResolutionNotApplicable {
		t.Fatalf("res = %+v", res)
	}
}

func TestResolveIdempotent(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	ctor := f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	sig := f.expandedSig(logger, Param{Label: f.label("y"), Type: intTy})
	args := []Arg{f.arg("a", intTy), f.arg("y", intTy)}

	first := Resolve(sig, args, symbols.Context{Module: f.main}, f.opts(nil))
	second := Resolve(sig, args, symbols.Context{Module: f.main}, f.opts(nil))
	if first.Kind != second.Kind || !sameCtor(first, ctor) || !sameCtor(second, ctor) {
		t.Fatalf("resolution not idempotent: %+v vs %+v", first, second)
	}
}

func TestResolveThroughCatalogCache(t *testing.T) {
	f := newCheckerFixture()
	logger := f.declareStruct("Logger")
	intTy := f.types.Builtins().Int
	f.addCtor(logger, []string{"a"}, []types.TypeID{intTy})
	sig := f.expandedSig(logger)

	opts := f.opts(nil)
	opts.Catalogs = catalog.NewCache(&catalog.Builder{Table: f.table, Types: f.types})

	for i := 0; i < 3; i++ {
		res := Resolve(sig, []Arg{f.arg("a", intTy)}, symbols.Context{Module: f.app}, opts)
		if res.Kind != ResolutionConstructed {
			t.Fatalf("iteration %d: res = %+v", i, res)
		}
	}
	if opts.Catalogs.Len() != 1 {
		t.Fatalf("cache holds %d catalogs, want 1", opts.Catalogs.Len())
	}
}
