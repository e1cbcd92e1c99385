package catalog

import (
	"sync"
	"testing"

	"expandc/internal/source"
	"expandc/internal/symbols"
	"expandc/internal/types"
)

type fixture struct {
	strs  *source.Interner
	types *types.Interner
	table *symbols.Table
}

func newFixture() *fixture {
	strs := source.NewInterner()
	return &fixture{
		strs:  strs,
		types: types.NewInterner(strs),
		table: symbols.NewTable(),
	}
}

func (f *fixture) builder() *Builder {
	return &Builder{Table: f.table, Types: f.types}
}

func TestBuildFiltersByVisibility(t *testing.T) {
	f := newFixture()
	logger := f.types.RegisterStruct(f.strs.Intern("Logger"), source.Span{})
	app := f.table.AddModule("app")
	other := f.table.AddModule("other")

	pub := f.table.AddCtor(symbols.Ctor{Owner: logger, Visibility: symbols.VisPublic, Module: app})
	f.table.AddCtor(symbols.Ctor{Owner: logger, Visibility: symbols.VisModule, Module: app})

	got := f.builder().Build(logger, symbols.Context{Module: other}, f.table.Tick())
	if len(got) != 1 || got[0].Ctor != pub {
		t.Fatalf("catalog from foreign module = %+v, want only the public ctor", got)
	}

	inside := f.builder().Build(logger, symbols.Context{Module: app}, f.table.Tick())
	if len(inside) != 2 {
		t.Fatalf("catalog inside module has %d candidates, want 2", len(inside))
	}
}

func TestBuildHonorsDeclarationLock(t *testing.T) {
	f := newFixture()
	logger := f.types.RegisterStruct(f.strs.Intern("Logger"), source.Span{})
	app := f.table.AddModule("app")

	early := f.table.AddCtor(symbols.Ctor{Owner: logger, Visibility: symbols.VisPublic, Module: app})
	frozen := f.table.Tick()
	// A later extension adds a constructor; the frozen catalog must not see it.
	f.table.AddCtor(symbols.Ctor{Owner: logger, Visibility: symbols.VisPublic, Module: app})

	got := f.builder().Build(logger, symbols.Context{Module: app}, frozen)
	if len(got) != 1 || got[0].Ctor != early {
		t.Fatalf("frozen catalog = %+v, want only ctor %d", got, early)
	}
}

func TestBuildExcludesSupertypeCtors(t *testing.T) {
	f := newFixture()
	base := f.types.RegisterStruct(f.strs.Intern("Base"), source.Span{})
	sub := f.types.RegisterStruct(f.strs.Intern("Sub"), source.Span{})
	f.types.SetStructSuper(sub, base)
	app := f.table.AddModule("app")

	f.table.AddCtor(symbols.Ctor{Owner: base, Visibility: symbols.VisPublic, Module: app})
	own := f.table.AddCtor(symbols.Ctor{Owner: sub, Visibility: symbols.VisPublic, Module: app})

	got := f.builder().Build(sub, symbols.Context{Module: app}, f.table.Tick())
	if len(got) != 1 || got[0].Ctor != own {
		t.Fatalf("subtype catalog = %+v, want only its direct ctor %d", got, own)
	}
}

func TestOwnerResolvesAliasButNotOptional(t *testing.T) {
	f := newFixture()
	logger := f.types.RegisterStruct(f.strs.Intern("Logger"), source.Span{})
	alias := f.types.RegisterAlias(f.strs.Intern("Log"), source.Span{}, logger)
	opt := f.types.Intern(types.MakeOptional(logger))

	b := f.builder()
	if got := b.Owner(alias); got != logger {
		t.Fatalf("alias owner = %d, want %d", got, logger)
	}
	// The optional wrapper keeps its own (empty) constructor set.
	if got := b.Owner(opt); got != opt {
		t.Fatalf("optional owner = %d, want the wrapper %d", got, opt)
	}
	if cands := b.Build(opt, symbols.Context{}, f.table.Tick()); len(cands) != 0 {
		t.Fatalf("optional wrapper catalog = %+v, want empty", cands)
	}
}

func TestCacheInsertOnce(t *testing.T) {
	f := newFixture()
	logger := f.types.RegisterStruct(f.strs.Intern("Logger"), source.Span{})
	app := f.table.AddModule("app")
	f.table.AddCtor(symbols.Ctor{Owner: logger, Visibility: symbols.VisPublic, Module: app})

	cache := NewCache(f.builder())
	key := Key{Owner: logger, Ctx: symbols.Context{Module: app}, AsOf: f.table.Tick()}

	var wg sync.WaitGroup
	results := make([][]Candidate, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(key)
		}(i)
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", cache.Len())
	}
	for i, r := range results {
		if len(r) != 1 {
			t.Fatalf("goroutine %d saw %d candidates", i, len(r))
		}
	}
}

func TestCacheInvalidate(t *testing.T) {
	f := newFixture()
	logger := f.types.RegisterStruct(f.strs.Intern("Logger"), source.Span{})
	filter := f.types.RegisterStruct(f.strs.Intern("Filter"), source.Span{})
	app := f.table.AddModule("app")
	f.table.AddCtor(symbols.Ctor{Owner: logger, Visibility: symbols.VisPublic, Module: app})
	f.table.AddCtor(symbols.Ctor{Owner: filter, Visibility: symbols.VisPublic, Module: app})

	cache := NewCache(f.builder())
	ctx := symbols.Context{Module: app}
	cache.Get(Key{Owner: logger, Ctx: ctx, AsOf: f.table.Tick()})
	cache.Get(Key{Owner: filter, Ctx: ctx, AsOf: f.table.Tick()})

	cache.Invalidate(logger)
	if cache.Len() != 1 {
		t.Fatalf("cache holds %d entries after invalidate, want 1", cache.Len())
	}
}
