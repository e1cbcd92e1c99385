package project

import (
	"strings"
	"testing"

	"expandc/internal/diag"
	"expandc/internal/source"
)

const sampleManifest = `
schema = 1

[[types]]
name = "Logger"
kind = "struct"
module = "app"

[[types]]
name = "Log"
kind = "alias"
module = "app"
target = "Logger"

[[constructors]]
type = "Logger"
module = "app"
visibility = "public"
labels = ["level"]
params = ["int"]

[[constructors]]
type = "Logger"
module = "app"
visibility = "public"
labels = ["tag"]
params = ["string"]
extension = true

[[functions]]
name = "log"
module = "app"

  [[functions.params]]
  label = "x"
  type = "Logger"
  expanded = true

  [[functions.params]]
  label = "y"
  type = "int"

[[calls]]
fn = "log"
module = "main"

  [[calls.args]]
  label = "level"
  type = "int"
  literal = true

  [[calls.args]]
  label = "y"
  type = "int"
`

func loadSample(t *testing.T, text string) (*Workspace, *diag.Bag) {
	t.Helper()
	m, err := ParseManifest([]byte(text))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	fileSet := source.NewFileSet()
	fid := fileSet.Add("workspace.toml", []byte(text), source.FileVirtual)
	bag := diag.NewBag(16)
	ws, err := BuildWorkspace(m, fileSet, fid, bag)
	if err != nil {
		t.Fatalf("build workspace: %v", err)
	}
	return ws, bag
}

func TestLoadWorkspaceBuildsModels(t *testing.T) {
	ws, bag := loadSample(t, sampleManifest)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	sig, ok := ws.SignatureByName("log")
	if !ok {
		t.Fatal("signature log missing")
	}
	if idx, ok := sig.Expanded(); !ok || idx != 0 {
		t.Fatalf("expanded index = %d, ok=%v", idx, ok)
	}
	if len(ws.Calls) != 1 || len(ws.Calls[0].Args) != 2 {
		t.Fatalf("calls = %+v", ws.Calls)
	}
	if ws.Digest == ([32]byte{}) {
		t.Fatal("digest not computed")
	}
}

func TestExtensionCtorsLandOutsideFrozenCatalogs(t *testing.T) {
	ws, _ := loadSample(t, sampleManifest)
	sig, _ := ws.SignatureByName("log")

	owner := sig.Params[0].Type
	visible := 0
	for _, id := range ws.Table.CtorsOf(owner) {
		if ws.Table.Ctor(id).Seq() < sig.AsOf {
			visible++
		}
	}
	if visible != 1 {
		t.Fatalf("%d constructors inside the freeze, want 1 (the extension one must be outside)", visible)
	}
	if total := len(ws.Table.CtorsOf(owner)); total != 2 {
		t.Fatalf("table indexes %d ctors, want 2", total)
	}
}

func TestAliasTargetWiredAcrossDeclarationOrder(t *testing.T) {
	ws, _ := loadSample(t, sampleManifest)
	alias, ok := ws.TypesByName["Log"]
	if !ok {
		t.Fatal("alias Log missing from workspace")
	}
	logger := ws.TypesByName["Logger"]
	if got := ws.Types.ResolveAlias(alias); got != logger {
		t.Fatalf("alias resolves to %d, want %d", got, logger)
	}
}

func TestManifestErrors(t *testing.T) {
	if _, err := ParseManifest([]byte("schema = 99\n[[types]]\nname = \"T\"")); err == nil {
		t.Fatal("unsupported schema accepted")
	}
	if _, err := ParseManifest([]byte("schema = 1")); err == nil {
		t.Fatal("empty manifest accepted")
	}
	if _, err := ParseManifest([]byte("schema = [")); err == nil {
		t.Fatal("malformed TOML accepted")
	}
}

func TestUnknownReferencesAreReported(t *testing.T) {
	text := strings.Replace(sampleManifest, `type = "Logger"
module = "app"
visibility = "public"
labels = ["level"]`, `type = "Missing"
module = "app"
visibility = "public"
labels = ["level"]`, 1)
	_, bag := loadSample(t, text)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.IOUnknownType {
			found = true
		}
	}
	if !found {
		t.Fatalf("no IOUnknownType in %v", bag.Items())
	}
}
