package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
)

func structDef(module, name string, fields ...ir.Field) *ir.TypeDefinition {
	return &ir.TypeDefinition{
		Name:   ir.QualifiedName{Module: module, Name: name},
		Kind:   ir.DefStruct,
		Fields: fields,
	}
}

func unresolved(name string, args ...ir.TypeRef) ir.UnresolvedRef {
	return ir.UnresolvedRef{Name: name, Args: args}
}

func TestReconcileResolvesReferences(t *testing.T) {
	forests := []ir.Forest{
		{
			File: "a.go",
			Defs: []*ir.TypeDefinition{
				structDef("models", "Point",
					ir.Field{Name: "X", Type: unresolved("int32")},
					ir.Field{Name: "Y", Type: unresolved("int32")},
				),
				structDef("models", "Line",
					ir.Field{Name: "Start", Type: unresolved("Point")},
					ir.Field{Name: "End", Type: unresolved("Point")},
				),
			},
		},
	}

	graph, diags := Reconcile(forests)
	require.Empty(t, diags)
	require.NotNil(t, graph)

	line, ok := graph.Lookup(ir.QualifiedName{Module: "models", Name: "Line"})
	require.True(t, ok)

	wantStart := ir.DefinedRef{Name: ir.QualifiedName{Module: "models", Name: "Point"}, Args: []ir.TypeRef{}}
	if diff := cmp.Diff(wantStart, line.Fields[0].Type); diff != "" {
		t.Errorf("Start reference mismatch (-want +got):\n%s", diff)
	}

	point, _ := graph.Lookup(ir.QualifiedName{Module: "models", Name: "Point"})
	assert.Equal(t, ir.PrimitiveRef{Primitive: catalog.I32}, point.Fields[0].Type)
}

func TestReconcileCrossModuleImports(t *testing.T) {
	forests := []ir.Forest{
		{
			File: "api/request.go",
			Defs: []*ir.TypeDefinition{
				structDef("corp/api", "Request",
					ir.Field{Name: "Body", Type: unresolved("models.Payload")},
					ir.Field{Name: "Meta", Type: unresolved("alt.Meta")},
				),
			},
			Imports: []ir.ImportBinding{
				{Alias: "models", Module: "corp/models"},
				{Alias: "alt", Module: "corp/shared/meta"},
			},
		},
		{
			File: "models/payload.go",
			Defs: []*ir.TypeDefinition{structDef("corp/models", "Payload")},
		},
		{
			File: "shared/meta/meta.go",
			Defs: []*ir.TypeDefinition{structDef("corp/shared/meta", "Meta")},
		},
	}

	graph, diags := Reconcile(forests)
	require.Empty(t, diags)

	req, _ := graph.Lookup(ir.QualifiedName{Module: "corp/api", Name: "Request"})
	body := req.Fields[0].Type.(ir.DefinedRef)
	assert.Equal(t, ir.QualifiedName{Module: "corp/models", Name: "Payload"}, body.Name)
	meta := req.Fields[1].Type.(ir.DefinedRef)
	assert.Equal(t, ir.QualifiedName{Module: "corp/shared/meta", Name: "Meta"}, meta.Name)
}

func TestReconcileDuplicateDefinition(t *testing.T) {
	forests := []ir.Forest{
		{File: "a.go", Defs: []*ir.TypeDefinition{structDef("models", "Config")}},
		{File: "b.go", Defs: []*ir.TypeDefinition{structDef("models", "Config")}},
	}

	graph, diags := Reconcile(forests)
	assert.Nil(t, graph, "a rejected graph must be nil, never partial")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindDuplicateDefinition, diags[0].Kind)
}

func TestReconcileSameNameDifferentModules(t *testing.T) {
	forests := []ir.Forest{
		{File: "a.go", Defs: []*ir.TypeDefinition{structDef("corp/models", "Config")}},
		{File: "b.go", Defs: []*ir.TypeDefinition{structDef("corp/api", "Config")}},
	}

	graph, diags := Reconcile(forests)
	require.Empty(t, diags, "the same local name under distinct modules is not a collision")
	assert.Equal(t, 2, graph.Len())
}

func TestReconcileUnresolvedType(t *testing.T) {
	forests := []ir.Forest{
		{
			File: "a.go",
			Defs: []*ir.TypeDefinition{
				structDef("models", "Holder", ir.Field{Name: "V", Type: unresolved("Missing")}),
			},
		},
	}

	graph, diags := Reconcile(forests)
	assert.Nil(t, graph)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindUnresolvedType, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "Missing")
}

func TestReconcileUnboundImport(t *testing.T) {
	forests := []ir.Forest{
		{
			File: "a.go",
			Defs: []*ir.TypeDefinition{
				structDef("models", "Holder", ir.Field{Name: "V", Type: unresolved("other.Thing")}),
			},
		},
	}

	_, diags := Reconcile(forests)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindUnresolvedType, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "not imported")
}

func TestReconcileGenericArity(t *testing.T) {
	wrapper := &ir.TypeDefinition{
		Name:          ir.QualifiedName{Module: "models", Name: "Wrapper"},
		Kind:          ir.DefStruct,
		GenericParams: []string{"T"},
		Fields:        []ir.Field{{Name: "Value", Type: unresolved("T")}},
	}

	tests := []struct {
		name string
		ref  ir.TypeRef
		want int // diagnostics
	}{
		{"exact arity", unresolved("Wrapper", unresolved("int32")), 0},
		{"too few", unresolved("Wrapper"), 1},
		{"too many", unresolved("Wrapper", unresolved("int32"), unresolved("string")), 1},
		{"args on primitive", unresolved("int32", unresolved("string")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forests := []ir.Forest{
				{
					File: "a.go",
					Defs: []*ir.TypeDefinition{
						wrapperClone(wrapper),
						structDef("models", "Holder", ir.Field{Name: "V", Type: tt.ref}),
					},
				},
			}
			_, diags := Reconcile(forests)
			require.Len(t, diags, tt.want)
			if tt.want > 0 {
				assert.Equal(t, diag.KindGenericArityMismatch, diags[0].Kind)
			}
		})
	}
}

// wrapperClone copies a definition so table cases do not share resolved state.
func wrapperClone(def *ir.TypeDefinition) *ir.TypeDefinition {
	c := *def
	c.Fields = make([]ir.Field, len(def.Fields))
	copy(c.Fields, def.Fields)
	return &c
}

func TestReconcileUnusedGenericParamWarns(t *testing.T) {
	forests := []ir.Forest{
		{
			File: "a.go",
			Defs: []*ir.TypeDefinition{
				{
					Name:          ir.QualifiedName{Module: "models", Name: "Phantom"},
					Kind:          ir.DefStruct,
					GenericParams: []string{"T"},
					Fields:        []ir.Field{{Name: "N", Type: unresolved("int32")}},
				},
			},
		},
	}

	graph, diags := Reconcile(forests)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.NotNil(t, graph, "warnings must not block acceptance")
}

func TestReconcileRecursiveTypes(t *testing.T) {
	forests := []ir.Forest{
		{
			File: "a.go",
			Defs: []*ir.TypeDefinition{
				structDef("models", "Tree",
					ir.Field{Name: "Value", Type: unresolved("int32")},
					ir.Field{
						Name: "Children",
						Type: ir.ContainerRef{Container: catalog.Sequence, Args: []ir.TypeRef{unresolved("Tree")}},
					},
				),
			},
		},
	}

	graph, diags := Reconcile(forests)
	require.Empty(t, diags, "self-reference needs no special handling")
	require.NotNil(t, graph)

	tree, _ := graph.Lookup(ir.QualifiedName{Module: "models", Name: "Tree"})
	children := tree.Fields[1].Type.(ir.ContainerRef)
	child := children.Args[0].(ir.DefinedRef)
	assert.Equal(t, tree.Name, child.Name)
}

// Graph order must depend only on file names and declaration order, not on
// the order forests arrive in.
func TestReconcileDeterministicOrder(t *testing.T) {
	build := func() []ir.Forest {
		return []ir.Forest{
			{File: "b.go", Defs: []*ir.TypeDefinition{structDef("models", "Beta")}},
			{File: "a.go", Defs: []*ir.TypeDefinition{
				structDef("models", "Zulu"),
				structDef("models", "Alpha"),
			}},
		}
	}

	forward := build()
	reversed := build()
	reversed[0], reversed[1] = reversed[1], reversed[0]

	g1, _ := Reconcile(forward)
	g2, _ := Reconcile(reversed)

	names := func(g *ir.Graph) []string {
		var out []string
		for _, def := range g.Definitions() {
			out = append(out, def.Name.Name)
		}
		return out
	}

	want := []string{"Zulu", "Alpha", "Beta"}
	assert.Equal(t, want, names(g1))
	assert.Equal(t, want, names(g2))
}
