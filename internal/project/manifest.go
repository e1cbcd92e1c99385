// Package project loads workspace manifests: TOML files declaring the
// types, constructors, signatures, and call sites the analyzer works on.
// The manifest stands in for the host compiler's parsed declarations.
package project

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Supported manifest schema version.
const SchemaVersion = 1

var (
	// ErrSchemaVersion indicates an unsupported schema = N value.
	ErrSchemaVersion = errors.New("unsupported workspace schema version")
	// ErrNoDeclarations indicates a manifest without types or functions.
	ErrNoDeclarations = errors.New("workspace declares nothing to analyze")
)

// Manifest mirrors the TOML layout of a workspace file.
type Manifest struct {
	Schema int            `toml:"schema"`
	Types  []TypeDecl     `toml:"types"`
	Ctors  []CtorDecl     `toml:"constructors"`
	Fns    []FnDecl       `toml:"functions"`
	Calls  []CallDecl     `toml:"calls"`
}

// TypeDecl declares a nominal type.
type TypeDecl struct {
	Name   string `toml:"name"`
	Kind   string `toml:"kind"` // struct | interface | alias
	Module string `toml:"module"`
	Super  string `toml:"super"`  // structs only, optional
	Target string `toml:"target"` // aliases only
}

// CtorDecl declares one constructor of a previously declared type.
// Extension constructors are registered after every function signature,
// which keeps them outside all frozen catalogs.
type CtorDecl struct {
	Type       string   `toml:"type"`
	Module     string   `toml:"module"`
	File       string   `toml:"file"`
	Visibility string   `toml:"visibility"` // public | module | file
	Labels     []string `toml:"labels"`
	Params     []string `toml:"params"`
	Extension  bool     `toml:"extension"`
}

// FnDecl declares a callable with its parameter list.
type FnDecl struct {
	Name       string      `toml:"name"`
	Module     string      `toml:"module"`
	File       string      `toml:"file"`
	Overloaded bool        `toml:"overloaded"`
	Params     []ParamDecl `toml:"params"`
}

// ParamDecl is one parameter of a FnDecl.
type ParamDecl struct {
	Label    string `toml:"label"`
	Type     string `toml:"type"`
	Expanded bool   `toml:"expanded"`
	Default  bool   `toml:"default"`
	ByRef    bool   `toml:"byref"`
}

// CallDecl is one call expression to resolve.
type CallDecl struct {
	Fn     string    `toml:"fn"`
	Module string    `toml:"module"`
	File   string    `toml:"file"`
	Args   []ArgDecl `toml:"args"`
}

// ArgDecl is one call argument: a label plus the type the host inferred
// for its expression.
type ArgDecl struct {
	Label    string `toml:"label"`
	Type     string `toml:"type"`
	Literal  bool   `toml:"literal"`
	Trailing bool   `toml:"trailing"`
}

// ParseManifest decodes manifest TOML from memory.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if m.Schema == 0 {
		m.Schema = SchemaVersion
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchemaVersion, m.Schema)
	}
	if len(m.Types) == 0 && len(m.Fns) == 0 {
		return nil, ErrNoDeclarations
	}
	return &m, nil
}
