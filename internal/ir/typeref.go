package ir

import (
	"strings"

	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
)

// RefKind identifies the category of a type reference.
type RefKind int

const (
	KindPrimitive    RefKind = iota // built-in scalar
	KindContainer                   // parameterized built-in (optional, sequence, ...)
	KindDefined                     // reference to a definition in the graph
	KindGenericParam                // generic parameter of the enclosing definition
	KindUnresolved                  // syntactic name, pre-reconciliation only
)

// TypeRef is the closed variant set of type references. Only types in this
// package implement it.
type TypeRef interface {
	Kind() RefKind
	sealed()
}

// PrimitiveRef references a built-in scalar kind.
type PrimitiveRef struct {
	Primitive catalog.Primitive
}

func (PrimitiveRef) Kind() RefKind { return KindPrimitive }
func (PrimitiveRef) sealed()       {}

// ContainerRef references a built-in container with its ordered arguments.
type ContainerRef struct {
	Container catalog.Container
	Args      []TypeRef
}

func (ContainerRef) Kind() RefKind { return KindContainer }
func (ContainerRef) sealed()       {}

// DefinedRef references another definition by qualified name, with the
// generic arguments bound at the use site in order.
type DefinedRef struct {
	Name QualifiedName
	Args []TypeRef
}

func (DefinedRef) Kind() RefKind { return KindDefined }
func (DefinedRef) sealed()       {}

// GenericParamRef references a generic parameter of the enclosing definition.
type GenericParamRef struct {
	Name string
}

func (GenericParamRef) Kind() RefKind { return KindGenericParam }
func (GenericParamRef) sealed()       {}

// UnresolvedRef is a syntactic name left by the extractor. Reconciliation
// rewrites every UnresolvedRef; an accepted graph never contains one.
type UnresolvedRef struct {
	// Name is the syntactic reference as written, either "Name" or
	// "pkg.Name" for an imported type.
	Name string
	Args []TypeRef
	Pos  diag.Position
}

func (UnresolvedRef) Kind() RefKind { return KindUnresolved }
func (UnresolvedRef) sealed()       {}

// QualifiedName identifies a definition by its module path and local name.
type QualifiedName struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

func (q QualifiedName) String() string {
	if q.Module == "" {
		return q.Name
	}
	return q.Module + "." + q.Name
}

// ModuleBase returns the last segment of the module path.
func (q QualifiedName) ModuleBase() string {
	if i := strings.LastIndexByte(q.Module, '/'); i >= 0 {
		return q.Module[i+1:]
	}
	return q.Module
}
