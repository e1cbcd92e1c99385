package diagfmt

import (
	"strings"
	"testing"

	"expandc/internal/diag"
	"expandc/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.Add("sample.toml", []byte("alpha\nbeta gamma\n"), source.FileVirtual)

	bag := diag.NewBag(8)
	d := diag.NewError(diag.ResNoMatchingInitializer,
		source.Span{File: fid, Start: 6, End: 10}, // "beta" on line 2
		"no constructor of Logger matches the supplied arguments")
	d = d.WithNote(source.Span{File: fid, Start: 0, End: 5}, "call appears here")
	d = d.WithFix("supply the value directly")
	bag.Add(d)
	return bag, fs
}

func TestPrettyHeadingAndPreview(t *testing.T) {
	bag, fs := testBag(t)
	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowPreview: true, ShowNotes: true, ShowFixes: true})
	out := sb.String()

	if !strings.Contains(out, "sample.toml:2:1: ERROR RES2001:") {
		t.Fatalf("heading missing:\n%s", out)
	}
	if !strings.Contains(out, "beta gamma") {
		t.Fatalf("source preview missing:\n%s", out)
	}
	if !strings.Contains(out, "^~~~") {
		t.Fatalf("span underline missing:\n%s", out)
	}
	if !strings.Contains(out, "note: sample.toml:1:1: call appears here") {
		t.Fatalf("note missing:\n%s", out)
	}
	if !strings.Contains(out, "fix: supply the value directly") {
		t.Fatalf("fix missing:\n%s", out)
	}
}

func TestPrettyBasenameAndWidth(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.Add("dir/sub/sample.toml", []byte("x\n"), source.FileVirtual)
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.ResAmbiguousInitializer,
		source.Span{File: fid, Start: 0, End: 1},
		"multiple constructors of Logger match the supplied arguments equally well"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 40})
	out := sb.String()
	if strings.Contains(out, "dir/sub/") {
		t.Fatalf("path not reduced to basename:\n%s", out)
	}
	line := strings.TrimRight(out, "\n")
	if !strings.HasSuffix(line, "…") {
		t.Fatalf("long heading not truncated:\n%q", line)
	}
}
