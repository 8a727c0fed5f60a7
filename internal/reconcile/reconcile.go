// Package reconcile merges per-file IR forests into one global type graph.
// It registers every qualified name, resolves every syntactic reference in
// the order catalog -> enclosing generic parameters -> symbol table, and
// validates generic arity at every use site. The result is independent of
// the order forests arrive in.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
)

// Reconcile builds the global type graph from all local forests. When any
// error-severity diagnostic is produced the graph is rejected and nil is
// returned: generators assume a fully resolved graph and never see a partial
// one. Warning-severity diagnostics do not block acceptance.
func Reconcile(forests []ir.Forest) (*ir.Graph, diag.List) {
	// Order forests by file name, then keep declaration order within each
	// file, so the graph (and everything generated from it) is identical
	// regardless of how files were traversed.
	sorted := make([]ir.Forest, len(forests))
	copy(sorted, forests)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })

	var diags diag.List
	graph := ir.NewGraph()

	// Phase 1: register every qualified name.
	for _, forest := range sorted {
		for _, def := range forest.Defs {
			if !graph.Add(def) {
				prev, _ := graph.Lookup(def.Name)
				diags = append(diags, diag.Errorf(diag.KindDuplicateDefinition, def.Pos,
					"%s is already defined at %s", def.Name, prev.Pos))
			}
		}
	}

	// Phase 2: resolve references and validate arity per definition.
	for _, forest := range sorted {
		res := resolver{
			graph:   graph,
			imports: importTable(forest.Imports),
		}
		for _, def := range forest.Defs {
			diags = append(diags, res.resolveDefinition(def)...)
		}
	}

	diags.Sort()
	if diags.HasErrors() {
		return nil, diags
	}
	return graph, diags
}

func importTable(bindings []ir.ImportBinding) map[string]string {
	table := make(map[string]string, len(bindings))
	for _, b := range bindings {
		table[b.Alias] = b.Module
	}
	return table
}

type resolver struct {
	graph   *ir.Graph
	imports map[string]string
}

// resolveDefinition rewrites every reference inside def in place and lints
// its generic parameters.
func (r *resolver) resolveDefinition(def *ir.TypeDefinition) diag.List {
	var diags diag.List
	used := make(map[string]bool, len(def.GenericParams))

	resolve := func(ref ir.TypeRef) ir.TypeRef {
		out, ds := r.resolveRef(ref, def, used)
		diags = append(diags, ds...)
		return out
	}

	for i := range def.Fields {
		def.Fields[i].Type = resolve(def.Fields[i].Type)
	}
	for i := range def.Variants {
		if def.Variants[i].Payload != nil {
			def.Variants[i].Payload = resolve(def.Variants[i].Payload)
		}
	}
	if def.Alias != nil {
		def.Alias = resolve(def.Alias)
	}
	if def.Const != nil && def.Const.Type != nil {
		def.Const.Type = resolve(def.Const.Type)
	}

	for _, param := range def.GenericParams {
		if !used[param] {
			diags = append(diags, diag.Warnf(diag.KindUnresolvedType, def.Pos,
				"%s: generic parameter %s is never used", def.Name, param))
		}
	}
	return diags
}

// resolveRef rewrites one reference tree. Resolution order for unresolved
// names: catalog primitive, enclosing generic parameter, then symbol table
// through the file's import bindings.
func (r *resolver) resolveRef(ref ir.TypeRef, def *ir.TypeDefinition, used map[string]bool) (ir.TypeRef, diag.List) {
	var diags diag.List
	switch t := ref.(type) {
	case ir.PrimitiveRef:
		return t, nil
	case ir.GenericParamRef:
		used[t.Name] = true
		return t, nil
	case ir.ContainerRef:
		args := make([]ir.TypeRef, len(t.Args))
		for i, arg := range t.Args {
			out, ds := r.resolveRef(arg, def, used)
			args[i] = out
			diags = append(diags, ds...)
		}
		return ir.ContainerRef{Container: t.Container, Args: args}, diags
	case ir.DefinedRef:
		args := make([]ir.TypeRef, len(t.Args))
		for i, arg := range t.Args {
			out, ds := r.resolveRef(arg, def, used)
			args[i] = out
			diags = append(diags, ds...)
		}
		resolved := ir.DefinedRef{Name: t.Name, Args: args}
		diags = append(diags, r.checkArity(resolved, def.Pos)...)
		return resolved, diags
	case ir.UnresolvedRef:
		args := make([]ir.TypeRef, len(t.Args))
		for i, arg := range t.Args {
			out, ds := r.resolveRef(arg, def, used)
			args[i] = out
			diags = append(diags, ds...)
		}
		out, ds := r.resolveName(t, args, def, used)
		return out, append(diags, ds...)
	}
	return ref, nil
}

func (r *resolver) resolveName(t ir.UnresolvedRef, args []ir.TypeRef, def *ir.TypeDefinition, used map[string]bool) (ir.TypeRef, diag.List) {
	// 1. Catalog primitive.
	if prim, ok := catalog.PrimitiveFromGo(t.Name); ok {
		if len(args) > 0 {
			return t, diag.List{diag.Errorf(diag.KindGenericArityMismatch, t.Pos,
				"primitive %s takes no type arguments", t.Name)}
		}
		return ir.PrimitiveRef{Primitive: prim}, nil
	}

	// 2. Generic parameter of the enclosing definition.
	for _, param := range def.GenericParams {
		if t.Name == param {
			used[param] = true
			if len(args) > 0 {
				return t, diag.List{diag.Errorf(diag.KindGenericArityMismatch, t.Pos,
					"generic parameter %s cannot take type arguments", t.Name)}
			}
			return ir.GenericParamRef{Name: param}, nil
		}
	}

	// 3. Symbol table, qualifying imported names through the bindings.
	qname, err := r.qualify(t.Name, def.Name.Module)
	if err != nil {
		return t, diag.List{diag.Errorf(diag.KindUnresolvedType, t.Pos, "%v", err)}
	}
	if _, ok := r.graph.Lookup(qname); !ok {
		return t, diag.List{diag.Errorf(diag.KindUnresolvedType, t.Pos,
			"unresolved type %s (looked up as %s)", t.Name, qname)}
	}
	resolved := ir.DefinedRef{Name: qname, Args: args}
	return resolved, r.checkArity(resolved, t.Pos)
}

func (r *resolver) qualify(name, currentModule string) (ir.QualifiedName, error) {
	if pkg, local, ok := cutDot(name); ok {
		module, bound := r.imports[pkg]
		if !bound {
			return ir.QualifiedName{}, fmt.Errorf("reference %s uses package %s which is not imported", name, pkg)
		}
		return ir.QualifiedName{Module: module, Name: local}, nil
	}
	return ir.QualifiedName{Module: currentModule, Name: name}, nil
}

func cutDot(name string) (before, after string, found bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:], true
		}
	}
	return name, "", false
}

// checkArity validates that a use site binds exactly as many arguments as the
// referenced definition declares parameters.
func (r *resolver) checkArity(ref ir.DefinedRef, pos diag.Position) diag.List {
	target, ok := r.graph.Lookup(ref.Name)
	if !ok {
		return nil
	}
	if len(ref.Args) != len(target.GenericParams) {
		return diag.List{diag.Errorf(diag.KindGenericArityMismatch, pos,
			"%s expects %d type argument(s), got %d", ref.Name, len(target.GenericParams), len(ref.Args))}
	}
	return nil
}
