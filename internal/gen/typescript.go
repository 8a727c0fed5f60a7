package gen

import (
	"fmt"
	"strings"

	"github.com/typebridge/typebridge/internal/casing"
	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
)

// typescript lowers the graph to TypeScript declarations. TypeScript has no
// nominal sum types, so algebraic enums use the emulated strategy: a union of
// object literal shapes discriminated by the tag field.
type typescript struct{}

func (*typescript) Target() Target { return TargetTypeScript }

func (*typescript) Capabilities() Capabilities {
	return Capabilities{NativeSumTypes: false, Generics: true}
}

// tsPrimitives is the TypeScript rendering table. 64-bit integers are
// rendered as string: the native number type is an IEEE-754 double and loses
// integer precision above 2^53, so values round-trip through their decimal
// string form instead.
var tsPrimitives = map[catalog.Primitive]string{
	catalog.Bool:   "boolean",
	catalog.I8:     "number",
	catalog.I16:    "number",
	catalog.I32:    "number",
	catalog.I64:    "string",
	catalog.U8:     "number",
	catalog.U16:    "number",
	catalog.U32:    "number",
	catalog.U64:    "string",
	catalog.F32:    "number",
	catalog.F64:    "number",
	catalog.String: "string",
	catalog.Char:   "string",
	catalog.Unit:   "null",
}

func (t *typescript) Generate(graph *ir.Graph, cfg Config) (string, diag.List) {
	w := &tsWriter{cfg: cfg, generics: !cfg.DisableGenerics}

	var blocks []string
	if !cfg.NoVersionHeader {
		blocks = append(blocks, headerComment("/*", " * ", " */"))
	}
	for _, def := range graph.Definitions() {
		if block, ok := w.definition(def); ok {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n"), w.diags
}

type tsWriter struct {
	cfg      Config
	generics bool
	diags    diag.List
}

func (w *tsWriter) definition(def *ir.TypeDefinition) (string, bool) {
	if len(def.GenericParams) > 0 && !w.generics {
		w.diags = append(w.diags, notRepresentable(def, TargetTypeScript,
			"generic definitions are disabled for this target"))
		return "", false
	}

	var b strings.Builder
	w.comments(&b, "", def.Doc)

	switch def.Kind {
	case ir.DefStruct:
		w.writeStruct(&b, def)
	case ir.DefUnitEnum:
		w.writeUnitEnum(&b, def)
	case ir.DefAlgebraicEnum:
		w.writeAlgebraicEnum(&b, def)
	case ir.DefTypeAlias:
		fmt.Fprintf(&b, "export type %s%s = %s;\n",
			typeName(def.Name, w.cfg), w.typeParams(def), w.typeRef(def.Alias))
	case ir.DefConst:
		w.writeConst(&b, def)
	}
	return b.String(), true
}

func (w *tsWriter) writeStruct(b *strings.Builder, def *ir.TypeDefinition) {
	fmt.Fprintf(b, "export interface %s%s {\n", typeName(def.Name, w.cfg), w.typeParams(def))
	for _, f := range def.Fields {
		w.comments(b, "\t", f.Doc)
		name := tsProperty(f.OutputName(def.RenameAll))
		opt := ""
		if f.Optional || f.HasDefault {
			opt = "?"
		}
		fmt.Fprintf(b, "\t%s%s: %s;\n", name, opt, w.typeRef(f.Type))
	}
	b.WriteString("}\n")
}

func (w *tsWriter) writeUnitEnum(b *strings.Builder, def *ir.TypeDefinition) {
	fmt.Fprintf(b, "export enum %s {\n", typeName(def.Name, w.cfg))
	for _, v := range def.Variants {
		w.comments(b, "\t", v.Doc)
		member := casing.Convert(v.Name, casing.StylePascal)
		fmt.Fprintf(b, "\t%s = %q,\n", member, v.OutputName(def.RenameAll))
	}
	b.WriteString("}\n")
}

// writeAlgebraicEnum emits the emulated strategy: one object literal shape
// per variant, mutually exclusive on the discriminant value, in declared
// order. A payload-less variant omits the content field entirely.
func (w *tsWriter) writeAlgebraicEnum(b *strings.Builder, def *ir.TypeDefinition) {
	tag := tsProperty(tagName(def, w.cfg))
	content := tsProperty(contentName(def, w.cfg))

	fmt.Fprintf(b, "export type %s%s =", typeName(def.Name, w.cfg), w.typeParams(def))
	for _, v := range def.Variants {
		b.WriteString("\n")
		w.comments(b, "\t", v.Doc)
		if v.Payload == nil {
			fmt.Fprintf(b, "\t| { %s: %q }", tag, v.OutputName(def.RenameAll))
		} else {
			fmt.Fprintf(b, "\t| { %s: %q, %s: %s }", tag, v.OutputName(def.RenameAll), content, w.typeRef(v.Payload))
		}
	}
	b.WriteString(";\n")
}

func (w *tsWriter) writeConst(b *strings.Builder, def *ir.TypeDefinition) {
	name := casing.Convert(typeName(def.Name, w.cfg), casing.StyleScreamingSnake)
	if def.Const.IsString {
		fmt.Fprintf(b, "export const %s: string = %q;\n", name, def.Const.StrVal)
		return
	}
	fmt.Fprintf(b, "export const %s: number = %d;\n", name, def.Const.IntVal)
}

func (w *tsWriter) typeParams(def *ir.TypeDefinition) string {
	if len(def.GenericParams) == 0 {
		return ""
	}
	return "<" + strings.Join(def.GenericParams, ", ") + ">"
}

func (w *tsWriter) typeRef(ref ir.TypeRef) string {
	switch t := ref.(type) {
	case ir.PrimitiveRef:
		return tsPrimitives[t.Primitive]
	case ir.GenericParamRef:
		return t.Name
	case ir.DefinedRef:
		name := typeName(t.Name, w.cfg)
		if len(t.Args) == 0 {
			return name
		}
		return name + "<" + w.typeRefs(t.Args, ", ") + ">"
	case ir.ContainerRef:
		switch t.Container {
		case catalog.Optional:
			return "(" + w.typeRef(t.Args[0]) + " | null)"
		case catalog.Sequence, catalog.Set:
			elem := w.typeRef(t.Args[0])
			if strings.ContainsAny(elem, " |") {
				elem = "(" + elem + ")"
			}
			return elem + "[]"
		case catalog.Map:
			return "Record<" + w.typeRef(t.Args[0]) + ", " + w.typeRef(t.Args[1]) + ">"
		case catalog.Tuple:
			return "[" + w.typeRefs(t.Args, ", ") + "]"
		}
	}
	return "unknown"
}

func (w *tsWriter) typeRefs(refs []ir.TypeRef, sep string) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = w.typeRef(r)
	}
	return strings.Join(parts, sep)
}

// comments writes a doc comment block at the given indent.
func (w *tsWriter) comments(b *strings.Builder, indent string, lines []string) {
	if len(lines) == 0 {
		return
	}
	if len(lines) == 1 {
		fmt.Fprintf(b, "%s/** %s */\n", indent, lines[0])
		return
	}
	fmt.Fprintf(b, "%s/**\n", indent)
	for _, line := range lines {
		fmt.Fprintf(b, "%s * %s\n", indent, line)
	}
	fmt.Fprintf(b, "%s */\n", indent)
}

// tsProperty quotes a property name that is not a plain identifier.
func tsProperty(name string) string {
	if isIdent(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
