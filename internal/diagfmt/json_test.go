package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"expandc/internal/diag"
	"expandc/internal/source"
)

func TestJSONOutputShape(t *testing.T) {
	bag, fs := testBag(t)
	var sb strings.Builder
	err := JSON(&sb, bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "RES2001" || d.Severity != "ERROR" {
		t.Fatalf("code/severity = %q/%q", d.Code, d.Severity)
	}
	if d.Location.File != "sample.toml" || d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "call appears here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "supply the value directly" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
}

func TestJSONMaxTruncatesOutputOnly(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.Add("sample.toml", []byte("x\n"), source.FileVirtual)
	bag := diag.NewBag(8)
	for i := 0; i < 3; i++ {
		bag.Add(diag.NewError(diag.ResNoMatchingInitializer,
			source.Span{File: fid, Start: uint32(i), End: uint32(i) + 1}, "miss"))
	}

	var sb strings.Builder
	if err := JSON(&sb, bag, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	if bag.Len() != 3 {
		t.Fatalf("bag trimmed to %d, Max must not touch the bag", bag.Len())
	}
}
