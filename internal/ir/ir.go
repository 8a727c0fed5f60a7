// Package ir is the language-neutral model of type definitions. The extractor
// produces per-file forests of unresolved definitions; reconciliation merges
// them into one immutable Graph that generators read and never mutate.
package ir

import (
	"github.com/typebridge/typebridge/internal/casing"
	"github.com/typebridge/typebridge/internal/diag"
)

// DefKind identifies the category of a type definition.
type DefKind string

const (
	DefStruct        DefKind = "STRUCT"
	DefAlgebraicEnum DefKind = "ALGEBRAIC_ENUM"
	DefUnitEnum      DefKind = "UNIT_ENUM"
	DefTypeAlias     DefKind = "TYPE_ALIAS"
	DefConst         DefKind = "CONST"
)

// TypeDefinition is one marked type declaration.
type TypeDefinition struct {
	Name          QualifiedName
	Kind          DefKind
	Doc           []string // verbatim doc comment lines, trimmed
	GenericParams []string // ordered, unique within the definition

	// Serialization attributes.
	RenameAll casing.Style // applies to fields/variants without an override
	Tag       string       // discriminant field name for algebraic enums
	Content   string       // payload field name for algebraic enums

	Fields   []Field    // DefStruct
	Variants []Variant  // DefAlgebraicEnum, DefUnitEnum
	Alias    TypeRef    // DefTypeAlias
	Const    *ConstExpr // DefConst

	Pos diag.Position
}

// Field is one struct field in declaration order.
type Field struct {
	Name       string
	Rename     string // explicit output name; always wins over RenameAll
	Type       TypeRef
	Doc        []string
	Optional   bool // nullable vs required
	HasDefault bool // present-by-default flag (omitempty)
	Pos        diag.Position
}

// OutputName returns the name the field takes in generated output under the
// given rename_all style.
func (f Field) OutputName(renameAll casing.Style) string {
	if f.Rename != "" {
		return f.Rename
	}
	return casing.Convert(f.Name, renameAll)
}

// Variant is one enum case in declaration order. Payload is nil for a bare
// case; mixed payload and bare cases within one enum are legal.
type Variant struct {
	Name    string
	Rename  string // explicit output name; always wins over RenameAll
	Payload TypeRef
	Doc     []string
	Pos     diag.Position
}

// OutputName returns the discriminant value / case name the variant takes in
// generated output under the given rename_all style.
func (v Variant) OutputName(renameAll casing.Style) string {
	if v.Rename != "" {
		return v.Rename
	}
	return casing.Convert(v.Name, renameAll)
}

// ConstExpr is the value of a constant definition.
type ConstExpr struct {
	Type     TypeRef
	IntVal   int64
	StrVal   string
	IsString bool
}

// ImportBinding maps a local package name or alias to a module path.
type ImportBinding struct {
	Alias  string // local name used in references
	Module string // module path it resolves to
}

// Forest is the unresolved output of extracting one source file. It is
// immutable once produced.
type Forest struct {
	File    string
	Defs    []*TypeDefinition
	Imports []ImportBinding
}

// Graph is the resolved global type graph: an arena keyed by qualified name,
// preserving discovery order. All inter-definition references go through
// Lookup by qualified name, never by direct ownership, so mutually recursive
// types need no special handling.
type Graph struct {
	order []QualifiedName
	defs  map[QualifiedName]*TypeDefinition
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{defs: make(map[QualifiedName]*TypeDefinition)}
}

// Add registers a definition. It returns false if the qualified name is
// already taken.
func (g *Graph) Add(def *TypeDefinition) bool {
	if _, exists := g.defs[def.Name]; exists {
		return false
	}
	g.defs[def.Name] = def
	g.order = append(g.order, def.Name)
	return true
}

// Lookup resolves a qualified name to its definition.
func (g *Graph) Lookup(name QualifiedName) (*TypeDefinition, bool) {
	def, ok := g.defs[name]
	return def, ok
}

// Definitions returns all definitions in discovery order. Callers must not
// mutate the result.
func (g *Graph) Definitions() []*TypeDefinition {
	out := make([]*TypeDefinition, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.defs[name])
	}
	return out
}

// Len returns the number of definitions in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}
