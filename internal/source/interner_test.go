package source

import "testing"

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("level")
	b := in.Intern("sink")
	if a == b {
		t.Fatalf("distinct strings share an ID: %d", a)
	}
	if got := in.Intern("level"); got != a {
		t.Fatalf("re-interning returned %d, want %d", got, a)
	}
	if s := in.MustLookup(b); s != "sink" {
		t.Fatalf("lookup returned %q", s)
	}
}

func TestInternerEmptyIsNoStringID(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(""); got != NoStringID {
		t.Fatalf("empty string interned as %d, want NoStringID", got)
	}
	if in.Len() != 1 {
		t.Fatalf("fresh interner has %d entries, want 1", in.Len())
	}
}

func TestInternerLookupInvalid(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatal("lookup of unknown ID succeeded")
	}
}
