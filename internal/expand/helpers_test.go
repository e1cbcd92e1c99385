package expand

import (
	"testing"

	"expandc/internal/diag"
	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

// checkerFixture wires a small world: module "app" declares type T with a
// couple of constructors, module "main" holds the call sites.
type checkerFixture struct {
	strs  *source.Interner
	types *types.Interner
	table *symbols.Table
	app   symbols.ModuleID
	main  symbols.ModuleID
}

func newCheckerFixture() *checkerFixture {
	strs := source.NewInterner()
	table := symbols.NewTable()
	return &checkerFixture{
		strs:  strs,
		types: types.NewInterner(strs),
		table: table,
		app:   table.AddModule("app"),
		main:  table.AddModule("main"),
	}
}

func (f *checkerFixture) declareStruct(name string) types.TypeID {
	return f.types.RegisterStruct(f.strs.Intern(name), source.Span{})
}

func (f *checkerFixture) label(s string) source.StringID {
	if s == "" {
		return source.NoStringID
	}
	return f.strs.Intern(s)
}

// addCtor registers a public constructor on owner with label/type pairs.
func (f *checkerFixture) addCtor(owner types.TypeID, labels []string, params []types.TypeID) symbols.CtorID {
	ids := make([]source.StringID, len(labels))
	for i, l := range labels {
		ids[i] = f.label(l)
	}
	return f.table.AddCtor(symbols.Ctor{
		Owner:      owner,
		Labels:     ids,
		Params:     params,
		Visibility: symbols.VisPublic,
		Module:     f.app,
	})
}

// expandedSig builds f(x: @expanded T, rest...) declared in module "app".
func (f *checkerFixture) expandedSig(owner types.TypeID, rest ...Param) *Signature {
	params := append([]Param{{
		Label:    f.label("x"),
		Type:     owner,
		Expanded: true,
	}}, rest...)
	return &Signature{
		Name:   f.strs.Intern("f"),
		Params: params,
		Decl:   symbols.Context{Module: f.app},
		AsOf:   f.table.Tick(),
	}
}

func (f *checkerFixture) opts(bag *diag.Bag) Options {
	o := Options{
		Types: f.types,
		Table: f.table,
	}
	if bag != nil {
		o.Reporter = diag.BagReporter{Bag: bag}
	}
	return o
}

func (f *checkerFixture) arg(label string, ty types.TypeID) Arg {
	return Arg{Label: f.label(label), Value: Expr{Type: ty}}
}

func requireFailure(t *testing.T, res Resolution, code diag.Code) {
	t.Helper()
	if res.Kind != ResolutionFailed {
		t.Fatalf("resolution kind = %v, want failed", res.Kind)
	}
	if res.Err != code {
		t.Fatalf("resolution error = %v, want %v", res.Err, code)
	}
}

func requireCodes(t *testing.T, diags []diag.Diagnostic, want ...diag.Code) {
	t.Helper()
	if len(diags) != len(want) {
		t.Fatalf("got %d diagnostics %v, want %d", len(diags), diagCodes(diags), len(want))
	}
	for i, code := range want {
		if diags[i].Code != code {
			t.Fatalf("diagnostic %d = %v, want %v", i, diags[i].Code, code)
		}
	}
}

func diagCodes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i := range diags {
		out[i] = diags[i].Code
	}
	return out
}

func sameCtor(res Resolution, id symbols.CtorID) bool {
	return res.Candidate != nil && res.Candidate.Ctor == id
}
