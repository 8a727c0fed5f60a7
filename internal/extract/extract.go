// Package extract lowers parsed Go files into local, unresolved IR forests.
// Parsing itself is the job of go/parser; this package only interprets the
// subset of syntax relevant to marked type definitions and their attributes.
// Extraction is per-file and embarrassingly parallel: no shared mutable state.
package extract

import (
	"context"
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
)

// Predicate decides whether an item's doc comment marks it for generation.
// The core treats this as opaque; the CLI wires a directive-based one.
type Predicate func(doc *ast.CommentGroup) bool

// MarkerPredicate returns the default predicate recognizing the
// typebridge:generate directive.
func MarkerPredicate() Predicate {
	return func(doc *ast.CommentGroup) bool {
		return hasDirective(doc, "generate")
	}
}

// FileInput is one parsed source file handed to the extractor.
type FileInput struct {
	Path   string         // file path, used in diagnostics
	Module string         // module path qualifying the file's definitions
	Fset   *token.FileSet // fileset the AST was parsed with
	AST    *ast.File
}

// Files extracts all inputs in parallel. Diagnostics on one file never abort
// extraction of the others; the returned forests are in input order.
func Files(ctx context.Context, inputs []FileInput, marked Predicate) ([]ir.Forest, diag.List) {
	forests := make([]ir.Forest, len(inputs))
	fileDiags := make([]diag.List, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			forests[i], fileDiags[i] = File(in, marked)
			return nil
		})
	}
	// Extraction itself never returns an error; only cancellation does.
	if err := g.Wait(); err != nil {
		return nil, diag.List{diag.Errorf(diag.KindInvalidConfiguration, diag.Position{}, "extraction canceled: %v", err)}
	}

	var diags diag.List
	for _, d := range fileDiags {
		diags = append(diags, d...)
	}
	return forests, diags
}

// File extracts one parsed file into a local forest. All type references are
// left as syntactic names; resolution happens during reconciliation.
func File(in FileInput, marked Predicate) (ir.Forest, diag.List) {
	e := &extractor{
		fset:   in.Fset,
		module: in.Module,
		file:   in.Path,
		marked: marked,
	}
	forest := ir.Forest{
		File:    in.Path,
		Imports: importBindings(in.AST),
	}

	// Pass 1: marked type declarations, in declaration order.
	stringEnums := make(map[string]*ir.TypeDefinition)
	for _, decl := range in.AST.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := specDoc(gd, ts)
			if !e.marked(doc) {
				continue
			}
			def := e.typeDefinition(gd, ts, doc)
			if def == nil {
				continue
			}
			forest.Defs = append(forest.Defs, def)
			if def.Kind == ir.DefUnitEnum {
				stringEnums[def.Name.Name] = def
			}
		}
	}

	// Pass 2: const declarations. Same-file consts typed by a marked string
	// enum become its cases; marked standalone consts become Const defs.
	for _, decl := range in.AST.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.CONST {
			continue
		}
		if def := e.constDecl(gd, stringEnums); def != nil {
			forest.Defs = append(forest.Defs, def)
		}
	}

	// A marked string type with no same-file cases is an alias, not an enum.
	for _, def := range forest.Defs {
		if def.Kind == ir.DefUnitEnum && len(def.Variants) == 0 {
			def.Kind = ir.DefTypeAlias
			def.Alias = ir.PrimitiveRef{Primitive: catalog.String}
		}
	}

	return forest, e.diags
}

type extractor struct {
	fset   *token.FileSet
	module string
	file   string
	marked Predicate
	diags  diag.List
}

func (e *extractor) pos(n ast.Node) diag.Position {
	p := e.fset.Position(n.Pos())
	return diag.Position{File: e.file, Line: p.Line, Column: p.Column}
}

func (e *extractor) errorf(n ast.Node, format string, args ...any) {
	e.diags = append(e.diags, diag.Errorf(diag.KindMalformedAttribute, e.pos(n), format, args...))
}

// specDoc returns the doc comment governing a type spec: the spec's own doc,
// or the declaration's doc for an ungrouped declaration.
func specDoc(gd *ast.GenDecl, ts *ast.TypeSpec) *ast.CommentGroup {
	if ts.Doc != nil {
		return ts.Doc
	}
	if len(gd.Specs) == 1 {
		return gd.Doc
	}
	return nil
}

func importBindings(file *ast.File) []ir.ImportBinding {
	var out []ir.ImportBinding
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		alias := path
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			alias = path[i+1:]
		}
		if imp.Name != nil {
			alias = imp.Name.Name
		}
		out = append(out, ir.ImportBinding{Alias: alias, Module: path})
	}
	return out
}

// typeDefinition lowers one marked type spec. It returns nil when the item's
// shape is unusable; a diagnostic has been recorded in that case.
func (e *extractor) typeDefinition(gd *ast.GenDecl, ts *ast.TypeSpec, doc *ast.CommentGroup) *ir.TypeDefinition {
	attrs, diags := parseAttrs(doc, e.pos(ts))
	e.diags = append(e.diags, diags...)

	def := &ir.TypeDefinition{
		Name:          ir.QualifiedName{Module: e.module, Name: ts.Name.Name},
		Doc:           docLines(doc),
		GenericParams: typeParams(ts),
		RenameAll:     attrs.renameAll,
		Tag:           attrs.tag,
		Content:       attrs.content,
		Pos:           e.pos(ts),
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		def.Kind = ir.DefStruct
		def.Fields = e.structFields(t)
	case *ast.InterfaceType:
		def.Kind = ir.DefAlgebraicEnum
		def.Variants = e.enumVariants(t)
	case *ast.Ident:
		if t.Name == "string" && ts.Assign == token.NoPos {
			// Tentatively a unit enum; demoted to an alias if no cases follow.
			def.Kind = ir.DefUnitEnum
			return def
		}
		def.Kind = ir.DefTypeAlias
		def.Alias = e.typeRef(ts.Type)
	default:
		def.Kind = ir.DefTypeAlias
		def.Alias = e.typeRef(ts.Type)
	}
	return def
}

func typeParams(ts *ast.TypeSpec) []string {
	if ts.TypeParams == nil {
		return nil
	}
	var params []string
	for _, field := range ts.TypeParams.List {
		for _, name := range field.Names {
			params = append(params, name.Name)
		}
	}
	return params
}

// structFields lowers struct fields in declaration order. A struct with zero
// fields is legal and represents a marker type.
func (e *extractor) structFields(st *ast.StructType) []ir.Field {
	var fields []ir.Field
	for _, f := range st.Fields.List {
		attrs, diags := parseAttrs(f.Doc, e.pos(f))
		e.diags = append(e.diags, diags...)

		tagName, omitempty, tagSkip := jsonTag(f.Tag)
		if attrs.skip || tagSkip {
			continue
		}

		typ := f.Type
		optional := false
		if star, ok := typ.(*ast.StarExpr); ok {
			optional = true
			typ = star.X
		}

		rename := attrs.rename
		if rename == "" {
			rename = tagName
		}

		names := fieldNames(f)
		for _, name := range names {
			fields = append(fields, ir.Field{
				Name:       name,
				Rename:     rename,
				Type:       e.typeRef(typ),
				Doc:        docLines(f.Doc),
				Optional:   optional,
				HasDefault: omitempty,
				Pos:        e.pos(f),
			})
		}
	}
	return fields
}

// fieldNames returns the declared names of a struct field entry; an embedded
// field is named after its type.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) > 0 {
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}
		return names
	}
	switch t := unwrapStar(f.Type).(type) {
	case *ast.Ident:
		return []string{t.Name}
	case *ast.SelectorExpr:
		return []string{t.Sel.Name}
	}
	return nil
}

func unwrapStar(expr ast.Expr) ast.Expr {
	if star, ok := expr.(*ast.StarExpr); ok {
		return star.X
	}
	return expr
}

// enumVariants lowers interface methods into enum variants in declared order.
// A method with no parameter is a bare case; one parameter is the payload.
// Mixing bare and payload cases within one enum is legal.
func (e *extractor) enumVariants(it *ast.InterfaceType) []ir.Variant {
	var variants []ir.Variant
	for _, m := range it.Methods.List {
		if len(m.Names) == 0 {
			// Embedded interface: not a variant.
			continue
		}
		ft, ok := m.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		attrs, diags := parseAttrs(m.Doc, e.pos(m))
		e.diags = append(e.diags, diags...)
		if attrs.skip {
			continue
		}

		var payload ir.TypeRef
		if ft.Params != nil && len(ft.Params.List) > 0 {
			if len(ft.Params.List) > 1 || len(ft.Params.List[0].Names) > 1 {
				e.errorf(m, "variant %s: a variant carries at most one payload type", m.Names[0].Name)
				continue
			}
			payload = e.typeRef(ft.Params.List[0].Type)
		}

		variants = append(variants, ir.Variant{
			Name:    m.Names[0].Name,
			Rename:  attrs.rename,
			Payload: payload,
			Doc:     docLines(m.Doc),
			Pos:     e.pos(m),
		})
	}
	return variants
}

// constDecl handles one const declaration: cases of a marked string enum, or
// a marked standalone constant.
func (e *extractor) constDecl(gd *ast.GenDecl, stringEnums map[string]*ir.TypeDefinition) *ir.TypeDefinition {
	var enum *ir.TypeDefinition // enum type carried through the block
	for _, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)

		switch typed := vs.Type.(type) {
		case *ast.Ident:
			enum = stringEnums[typed.Name]
		case nil:
			// Untyped spec: the carried enum type still applies.
		default:
			enum = nil
		}

		if enum != nil {
			e.enumCase(enum, vs)
			continue
		}

		doc := vs.Doc
		if doc == nil && len(gd.Specs) == 1 {
			doc = gd.Doc
		}
		if e.marked(doc) {
			return e.constDefinition(gd, vs, doc)
		}
	}
	return nil
}

// enumCase appends one unit-enum case; the string literal is its wire value
// and acts as an explicit rename.
func (e *extractor) enumCase(enum *ir.TypeDefinition, vs *ast.ValueSpec) {
	if len(vs.Names) != 1 || len(vs.Values) != 1 {
		e.errorf(vs, "enum case for %s must bind one name to one string literal", enum.Name.Name)
		return
	}
	lit, ok := vs.Values[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		e.errorf(vs, "enum case %s must be a string literal", vs.Names[0].Name)
		return
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		e.errorf(vs, "enum case %s: %v", vs.Names[0].Name, err)
		return
	}
	enum.Variants = append(enum.Variants, ir.Variant{
		Name:   vs.Names[0].Name,
		Rename: value,
		Doc:    docLines(vs.Doc),
		Pos:    e.pos(vs),
	})
}

// constDefinition lowers a marked standalone constant with an integer or
// string literal value.
func (e *extractor) constDefinition(gd *ast.GenDecl, vs *ast.ValueSpec, doc *ast.CommentGroup) *ir.TypeDefinition {
	if len(vs.Names) != 1 || len(vs.Values) != 1 {
		e.errorf(vs, "marked constant must bind one name to one literal value")
		return nil
	}
	lit, ok := vs.Values[0].(*ast.BasicLit)
	if !ok {
		e.errorf(vs, "marked constant %s must have a literal value", vs.Names[0].Name)
		return nil
	}

	expr := &ir.ConstExpr{}
	switch lit.Kind {
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			e.errorf(vs, "constant %s: %v", vs.Names[0].Name, err)
			return nil
		}
		expr.IntVal = n
		expr.Type = ir.PrimitiveRef{Primitive: catalog.I64}
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			e.errorf(vs, "constant %s: %v", vs.Names[0].Name, err)
			return nil
		}
		expr.StrVal = s
		expr.IsString = true
		expr.Type = ir.PrimitiveRef{Primitive: catalog.String}
	default:
		e.errorf(vs, "constant %s: only integer and string constants are supported", vs.Names[0].Name)
		return nil
	}
	if vs.Type != nil {
		expr.Type = e.typeRef(vs.Type)
	}

	return &ir.TypeDefinition{
		Name:  ir.QualifiedName{Module: e.module, Name: vs.Names[0].Name},
		Kind:  ir.DefConst,
		Doc:   docLines(doc),
		Const: expr,
		Pos:   e.pos(vs),
	}
}

// typeRef lowers a type expression. Container shapes are syntactic in Go and
// recognized here; all plain names are left unresolved for the reconciler,
// which applies the catalog -> generic param -> symbol table order.
func (e *extractor) typeRef(expr ast.Expr) ir.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		return ir.UnresolvedRef{Name: t.Name, Pos: e.pos(t)}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			return ir.UnresolvedRef{Name: pkg.Name + "." + t.Sel.Name, Pos: e.pos(t)}
		}
		e.errorf(t, "unsupported qualified type expression")
		return ir.UnresolvedRef{Name: t.Sel.Name, Pos: e.pos(t)}
	case *ast.StarExpr:
		return ir.ContainerRef{Container: catalog.Optional, Args: []ir.TypeRef{e.typeRef(t.X)}}
	case *ast.ArrayType:
		elem := e.typeRef(t.Elt)
		if t.Len == nil {
			return ir.ContainerRef{Container: catalog.Sequence, Args: []ir.TypeRef{elem}}
		}
		// A fixed-size array is a homogeneous tuple.
		if lit, ok := t.Len.(*ast.BasicLit); ok && lit.Kind == token.INT {
			n, err := strconv.Atoi(lit.Value)
			if err == nil && n >= 0 {
				args := make([]ir.TypeRef, n)
				for i := range args {
					args[i] = elem
				}
				return ir.ContainerRef{Container: catalog.Tuple, Args: args}
			}
		}
		e.errorf(t, "array length must be an integer literal")
		return ir.ContainerRef{Container: catalog.Sequence, Args: []ir.TypeRef{elem}}
	case *ast.MapType:
		// map[K]struct{} is the conventional set encoding.
		if isEmptyStruct(t.Value) {
			return ir.ContainerRef{Container: catalog.Set, Args: []ir.TypeRef{e.typeRef(t.Key)}}
		}
		return ir.ContainerRef{Container: catalog.Map, Args: []ir.TypeRef{e.typeRef(t.Key), e.typeRef(t.Value)}}
	case *ast.StructType:
		if len(t.Fields.List) == 0 {
			return ir.PrimitiveRef{Primitive: catalog.Unit}
		}
		e.errorf(t, "anonymous struct types are not supported; declare a named type")
		return ir.PrimitiveRef{Primitive: catalog.Unit}
	case *ast.IndexExpr:
		return e.instantiation(t.X, []ast.Expr{t.Index})
	case *ast.IndexListExpr:
		return e.instantiation(t.X, t.Indices)
	}
	e.errorf(expr, "unsupported type expression")
	return ir.UnresolvedRef{Name: "<unsupported>", Pos: e.pos(expr)}
}

// instantiation lowers a generic use site like Wrapper[T] or pkg.Pair[A, B].
func (e *extractor) instantiation(base ast.Expr, indices []ast.Expr) ir.TypeRef {
	args := make([]ir.TypeRef, len(indices))
	for i, idx := range indices {
		args[i] = e.typeRef(idx)
	}
	switch b := base.(type) {
	case *ast.Ident:
		return ir.UnresolvedRef{Name: b.Name, Args: args, Pos: e.pos(base)}
	case *ast.SelectorExpr:
		if pkg, ok := b.X.(*ast.Ident); ok {
			return ir.UnresolvedRef{Name: pkg.Name + "." + b.Sel.Name, Args: args, Pos: e.pos(base)}
		}
	}
	e.errorf(base, "unsupported generic instantiation")
	return ir.UnresolvedRef{Name: "<unsupported>", Args: args, Pos: e.pos(base)}
}

func isEmptyStruct(expr ast.Expr) bool {
	st, ok := expr.(*ast.StructType)
	return ok && len(st.Fields.List) == 0
}

// jsonTag reads the json struct tag: output name, omitempty, and skip.
func jsonTag(tag *ast.BasicLit) (name string, omitempty, skip bool) {
	if tag == nil {
		return "", false, false
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return "", false, false
	}
	value, ok := reflect.StructTag(raw).Lookup("json")
	if !ok {
		return "", false, false
	}
	parts := strings.Split(value, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	name = parts[0]
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, false
}
