package project

import (
	"fmt"
	"strings"

	"expandc/internal/diag"
	"expandc/internal/expand"
	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

// NamedSignature pairs a declared callable with its name for reporting.
type NamedSignature struct {
	Name string
	Sig  *expand.Signature
}

// Call is one call site ready for resolution.
type Call struct {
	Fn   string
	Args []expand.Arg
	Site symbols.Context
	Span source.Span
}

// Workspace is the fully loaded analysis world: interned strings and
// types, the constructor table, plus signatures and call sites in
// declaration order. After Build returns, the workspace is immutable.
type Workspace struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	Strings *source.Interner
	Types   *types.Interner
	Table   *symbols.Table

	Signatures []NamedSignature
	Calls      []Call
	// TypesByName indexes declared (not builtin) types for lookups by
	// the CLI and tests.
	TypesByName map[string]types.TypeID

	// Digest of the manifest bytes, used as the disk-cache key.
	Digest [32]byte
}

// LoadWorkspace reads and builds a workspace from a manifest file.
// Structural manifest problems come back as an error; reference problems
// (unknown types, duplicate functions) land in the bag as IO diagnostics.
func LoadWorkspace(path string, bag *diag.Bag) (*Workspace, error) {
	fileSet := source.NewFileSet()
	fid, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(fid)
	m, err := ParseManifest(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ws, err := BuildWorkspace(m, fileSet, fid, bag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ws.Path = path
	return ws, nil
}

// BuildWorkspace assembles a workspace from a decoded manifest.
// Spans are synthetic: declaration order stands in for byte offsets so
// diagnostic sorting stays deterministic.
func BuildWorkspace(m *Manifest, fileSet *source.FileSet, fid source.FileID, bag *diag.Bag) (*Workspace, error) {
	strs := source.NewInterner()
	ws := &Workspace{
		FileSet: fileSet,
		FileID:  fid,
		Strings: strs,
		Types:   types.NewInterner(strs),
		Table:   symbols.NewTable(),
	}
	if f := fileSet.Get(fid); f != nil {
		ws.Digest = f.Hash
	}
	b := &builder{ws: ws, m: m, bag: bag}
	b.declareTypes()
	b.declareCtors(false)
	b.declareFns()
	b.declareCtors(true) // extension ctors land outside every frozen catalog
	b.declareCalls()
	ws.TypesByName = b.named
	return ws, nil
}

type builder struct {
	ws    *Workspace
	m     *Manifest
	bag   *diag.Bag
	named map[string]types.TypeID
	fns   map[string]int
	order uint32
}

func (b *builder) report(code diag.Code, msg string) {
	if b.bag != nil {
		b.bag.Add(diag.NewError(code, b.nextSpan(), msg))
	}
}

// nextSpan allocates the next synthetic declaration-order span.
func (b *builder) nextSpan() source.Span {
	b.order++
	return source.Span{File: b.ws.FileID, Start: b.order, End: b.order}
}

func (b *builder) declareTypes() {
	b.named = make(map[string]types.TypeID, len(b.m.Types))
	// Two passes so supertypes and alias targets may be declared in any
	// order.
	for _, td := range b.m.Types {
		if _, dup := b.named[td.Name]; dup {
			b.report(diag.IODuplicateDecl, fmt.Sprintf("type %q declared twice", td.Name))
			continue
		}
		name := b.ws.Strings.Intern(td.Name)
		span := b.nextSpan()
		switch td.Kind {
		case "", "struct":
			b.named[td.Name] = b.ws.Types.RegisterStruct(name, span)
		case "interface":
			b.named[td.Name] = b.ws.Types.RegisterIface(name, span)
		case "alias":
			// Target wired in the second pass.
			b.named[td.Name] = b.ws.Types.RegisterAlias(name, span, types.NoTypeID)
		default:
			b.report(diag.IOWorkspaceInvalid, fmt.Sprintf("type %q has unknown kind %q", td.Name, td.Kind))
		}
	}
	for _, td := range b.m.Types {
		id, ok := b.named[td.Name]
		if !ok {
			continue
		}
		if td.Super != "" {
			if super, ok := b.named[td.Super]; ok {
				b.ws.Types.SetStructSuper(id, super)
			} else {
				b.report(diag.IOUnknownType, fmt.Sprintf("type %q names unknown supertype %q", td.Name, td.Super))
			}
		}
		if td.Kind == "alias" {
			target, ok := b.resolveTypeRef(td.Target)
			if !ok {
				b.report(diag.IOUnknownType, fmt.Sprintf("alias %q targets unknown type %q", td.Name, td.Target))
				continue
			}
			if info, ok := b.ws.Types.AliasInfo(id); ok {
				info.Target = target
			}
		}
	}
}

// resolveTypeRef resolves a manifest type reference: a builtin name, a
// declared type name, or either with a trailing "?" for an optional
// wrapper.
func (b *builder) resolveTypeRef(ref string) (types.TypeID, bool) {
	ref = strings.TrimSpace(ref)
	if inner, ok := strings.CutSuffix(ref, "?"); ok {
		elem, found := b.resolveTypeRef(inner)
		if !found {
			return types.NoTypeID, false
		}
		return b.ws.Types.Intern(types.MakeOptional(elem)), true
	}
	builtins := b.ws.Types.Builtins()
	switch ref {
	case "unit":
		return builtins.Unit, true
	case "bool":
		return builtins.Bool, true
	case "int":
		return builtins.Int, true
	case "float":
		return builtins.Float, true
	case "string":
		return builtins.String, true
	}
	id, ok := b.named[ref]
	return id, ok
}

func parseVisibility(s string) (symbols.Visibility, bool) {
	switch s {
	case "", "public":
		return symbols.VisPublic, true
	case "module":
		return symbols.VisModule, true
	case "file":
		return symbols.VisFile, true
	}
	return symbols.VisPublic, false
}

func (b *builder) fileID(name string) source.FileID {
	if name == "" {
		return b.ws.FileID
	}
	// Virtual per-declaration files let fixtures model file-private
	// visibility without real files on disk.
	for id := source.FileID(0); int(id) < b.ws.FileSet.Len(); id++ {
		if b.ws.FileSet.PathOf(id) == name {
			return id
		}
	}
	return b.ws.FileSet.Add(name, nil, source.FileVirtual)
}

func (b *builder) declareCtors(extension bool) {
	for _, cd := range b.m.Ctors {
		if cd.Extension != extension {
			continue
		}
		owner, ok := b.named[cd.Type]
		if !ok {
			b.report(diag.IOUnknownType, fmt.Sprintf("constructor declared on unknown type %q", cd.Type))
			continue
		}
		if len(cd.Labels) != len(cd.Params) {
			b.report(diag.IOWorkspaceInvalid,
				fmt.Sprintf("constructor of %q has %d labels but %d params", cd.Type, len(cd.Labels), len(cd.Params)))
			continue
		}
		vis, ok := parseVisibility(cd.Visibility)
		if !ok {
			b.report(diag.IOWorkspaceInvalid, fmt.Sprintf("constructor of %q has unknown visibility %q", cd.Type, cd.Visibility))
			continue
		}
		labels := make([]source.StringID, len(cd.Labels))
		for i, l := range cd.Labels {
			if l != "" && l != "_" {
				labels[i] = b.ws.Strings.Intern(l)
			}
		}
		params := make([]types.TypeID, len(cd.Params))
		bad := false
		for i, p := range cd.Params {
			id, ok := b.resolveTypeRef(p)
			if !ok {
				b.report(diag.IOUnknownType, fmt.Sprintf("constructor of %q uses unknown type %q", cd.Type, p))
				bad = true
				break
			}
			params[i] = id
		}
		if bad {
			continue
		}
		b.ws.Table.AddCtor(symbols.Ctor{
			Owner:      owner,
			Labels:     labels,
			Params:     params,
			Visibility: vis,
			Module:     b.ws.Table.AddModule(cd.Module),
			File:       b.fileID(cd.File),
			Span:       b.nextSpan(),
		})
	}
}

func (b *builder) declareFns() {
	b.fns = make(map[string]int, len(b.m.Fns))
	for _, fd := range b.m.Fns {
		if _, dup := b.fns[fd.Name]; dup {
			b.report(diag.IODuplicateDecl, fmt.Sprintf("function %q declared twice", fd.Name))
			continue
		}
		params := make([]expand.Param, 0, len(fd.Params))
		ok := true
		for _, pd := range fd.Params {
			ty, found := b.resolveTypeRef(pd.Type)
			if !found {
				b.report(diag.IOUnknownType, fmt.Sprintf("function %q uses unknown type %q", fd.Name, pd.Type))
				ok = false
				break
			}
			label := source.NoStringID
			if pd.Label != "" && pd.Label != "_" {
				label = b.ws.Strings.Intern(pd.Label)
			}
			params = append(params, expand.Param{
				Label:      label,
				Type:       ty,
				Expanded:   pd.Expanded,
				HasDefault: pd.Default,
				ByRef:      pd.ByRef,
				Span:       b.nextSpan(),
			})
		}
		if !ok {
			continue
		}
		sig := &expand.Signature{
			Name:                b.ws.Strings.Intern(fd.Name),
			Params:              params,
			HasSiblingOverloads: fd.Overloaded,
			Decl: symbols.Context{
				Module: b.ws.Table.AddModule(fd.Module),
				File:   b.fileID(fd.File),
			},
			AsOf: b.ws.Table.Tick(),
			Span: b.nextSpan(),
		}
		b.fns[fd.Name] = len(b.ws.Signatures)
		b.ws.Signatures = append(b.ws.Signatures, NamedSignature{Name: fd.Name, Sig: sig})
	}
}

func (b *builder) declareCalls() {
	for _, cd := range b.m.Calls {
		if _, ok := b.fns[cd.Fn]; !ok {
			b.report(diag.IOUnknownSignature, fmt.Sprintf("call targets unknown function %q", cd.Fn))
			continue
		}
		args := make([]expand.Arg, 0, len(cd.Args))
		ok := true
		for _, ad := range cd.Args {
			ty, found := b.resolveTypeRef(ad.Type)
			if !found {
				b.report(diag.IOUnknownType, fmt.Sprintf("call to %q uses unknown type %q", cd.Fn, ad.Type))
				ok = false
				break
			}
			label := source.NoStringID
			if ad.Label != "" && ad.Label != "_" {
				label = b.ws.Strings.Intern(ad.Label)
			}
			span := b.nextSpan()
			args = append(args, expand.Arg{
				Label:           label,
				Value:           expand.Expr{Span: span, Type: ty, Literal: ad.Literal},
				TrailingClosure: ad.Trailing,
				Span:            span,
			})
		}
		if !ok {
			continue
		}
		b.ws.Calls = append(b.ws.Calls, Call{
			Fn:   cd.Fn,
			Args: args,
			Site: symbols.Context{
				Module: b.ws.Table.AddModule(cd.Module),
				File:   b.fileID(cd.File),
			},
			Span: b.nextSpan(),
		})
	}
}

// SignatureByName returns the signature declared under name.
func (ws *Workspace) SignatureByName(name string) (*expand.Signature, bool) {
	for i := range ws.Signatures {
		if ws.Signatures[i].Name == name {
			return ws.Signatures[i].Sig, true
		}
	}
	return nil, false
}
