package gen

import (
	"fmt"
	"strings"

	"github.com/typebridge/typebridge/internal/casing"
	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
)

// kotlin lowers the graph to Kotlin declarations annotated for
// kotlinx.serialization. Kotlin has sealed hierarchies, so algebraic enums
// use the native strategy: one case class or object per variant, in declared
// order, discriminated by @SerialName.
type kotlin struct{}

func (*kotlin) Target() Target { return TargetKotlin }

func (*kotlin) Capabilities() Capabilities {
	return Capabilities{NativeSumTypes: true, Generics: true, MaxTupleArity: 3}
}

// Kotlin has unsigned and 64-bit integer types, so every primitive maps
// losslessly.
var kotlinPrimitives = map[catalog.Primitive]string{
	catalog.Bool:   "Boolean",
	catalog.I8:     "Byte",
	catalog.I16:    "Short",
	catalog.I32:    "Int",
	catalog.I64:    "Long",
	catalog.U8:     "UByte",
	catalog.U16:    "UShort",
	catalog.U32:    "UInt",
	catalog.U64:    "ULong",
	catalog.F32:    "Float",
	catalog.F64:    "Double",
	catalog.String: "String",
	catalog.Char:   "Char",
	catalog.Unit:   "Unit",
}

// Kotlin hard keywords that need backtick escaping when used as identifiers.
var kotlinKeywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true,
	"else": true, "false": true, "for": true, "fun": true, "if": true,
	"in": true, "interface": true, "is": true, "null": true, "object": true,
	"package": true, "return": true, "super": true, "this": true,
	"throw": true, "true": true, "try": true, "typealias": true,
	"typeof": true, "val": true, "var": true, "when": true, "while": true,
}

func (k *kotlin) Generate(graph *ir.Graph, cfg Config) (string, diag.List) {
	w := &ktWriter{cfg: cfg, generics: !cfg.DisableGenerics}

	var blocks []string
	if !cfg.NoVersionHeader {
		blocks = append(blocks, headerComment("/*", " * ", " */"))
	}
	var prelude strings.Builder
	if cfg.PackageName != "" {
		fmt.Fprintf(&prelude, "package %s\n\n", cfg.PackageName)
	}
	prelude.WriteString("import kotlinx.serialization.SerialName\nimport kotlinx.serialization.Serializable\n")
	blocks = append(blocks, prelude.String())

	for _, def := range graph.Definitions() {
		if block, ok := w.definition(def); ok {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n"), w.diags
}

type ktWriter struct {
	cfg      Config
	generics bool
	diags    diag.List
}

func (w *ktWriter) definition(def *ir.TypeDefinition) (string, bool) {
	if len(def.GenericParams) > 0 && !w.generics {
		w.diags = append(w.diags, notRepresentable(def, TargetKotlin,
			"generic definitions are disabled for this target"))
		return "", false
	}

	// Resolve every reference up front so an unrepresentable tuple rejects
	// the whole definition instead of leaving a half-written block.
	var b strings.Builder
	before := len(w.diags)
	w.comments(&b, "", def.Doc)

	switch def.Kind {
	case ir.DefStruct:
		w.writeStruct(&b, def)
	case ir.DefUnitEnum:
		w.writeUnitEnum(&b, def)
	case ir.DefAlgebraicEnum:
		w.writeAlgebraicEnum(&b, def)
	case ir.DefTypeAlias:
		fmt.Fprintf(&b, "typealias %s%s = %s\n",
			typeName(def.Name, w.cfg), w.typeParams(def), w.typeRef(def.Alias, def))
	case ir.DefConst:
		w.writeConst(&b, def)
	}
	if len(w.diags) > before {
		return "", false
	}
	return b.String(), true
}

func (w *ktWriter) writeStruct(b *strings.Builder, def *ir.TypeDefinition) {
	name := typeName(def.Name, w.cfg)
	if len(def.Fields) == 0 {
		fmt.Fprintf(b, "@Serializable\nobject %s\n", name)
		return
	}
	fmt.Fprintf(b, "@Serializable\ndata class %s%s(\n", name, w.typeParams(def))
	for i, f := range def.Fields {
		w.comments(b, "\t", f.Doc)
		output := f.OutputName(def.RenameAll)
		if output != f.Name {
			fmt.Fprintf(b, "\t@SerialName(%q)\n", output)
		}
		typ := w.typeRef(f.Type, def)
		if f.Optional {
			typ += "? = null"
		}
		comma := ","
		if i == len(def.Fields)-1 {
			comma = ""
		}
		fmt.Fprintf(b, "\tval %s: %s%s\n", ktIdent(f.Name), typ, comma)
	}
	b.WriteString(")\n")
}

func (w *ktWriter) writeUnitEnum(b *strings.Builder, def *ir.TypeDefinition) {
	fmt.Fprintf(b, "@Serializable\nenum class %s(val serialName: String) {\n", typeName(def.Name, w.cfg))
	for _, v := range def.Variants {
		w.comments(b, "\t", v.Doc)
		wire := v.OutputName(def.RenameAll)
		member := casing.Convert(v.Name, casing.StyleScreamingSnake)
		fmt.Fprintf(b, "\t@SerialName(%q)\n\t%s(%q),\n", wire, member, wire)
	}
	b.WriteString("}\n")
}

// writeAlgebraicEnum emits the native strategy: a sealed class with one
// nested case per variant in declared order. @SerialName carries the
// discriminant value, so the cases stay mutually exclusive on the wire.
// Nested non-inner classes cannot see the outer class's type parameters, so
// every case of a generic enum declares the parameters itself; payload-less
// cases become classes rather than objects for the same reason.
func (w *ktWriter) writeAlgebraicEnum(b *strings.Builder, def *ir.TypeDefinition) {
	name := typeName(def.Name, w.cfg)
	params := w.typeParams(def)
	fmt.Fprintf(b, "@Serializable\nsealed class %s%s {\n", name, params)
	parent := name + params
	content := contentName(def, w.cfg)
	for i, v := range def.Variants {
		if i > 0 {
			b.WriteString("\n")
		}
		w.comments(b, "\t", v.Doc)
		caseName := casing.Convert(v.Name, casing.StylePascal)
		fmt.Fprintf(b, "\t@Serializable\n\t@SerialName(%q)\n", v.OutputName(def.RenameAll))
		if v.Payload == nil {
			if params == "" {
				fmt.Fprintf(b, "\tobject %s : %s()\n", caseName, parent)
			} else {
				fmt.Fprintf(b, "\tclass %s%s : %s()\n", caseName, params, parent)
			}
		} else {
			fmt.Fprintf(b, "\tdata class %s%s(val %s: %s) : %s()\n",
				caseName, params, ktIdent(content), w.typeRef(v.Payload, def), parent)
		}
	}
	b.WriteString("}\n")
}

func (w *ktWriter) writeConst(b *strings.Builder, def *ir.TypeDefinition) {
	name := casing.Convert(typeName(def.Name, w.cfg), casing.StyleScreamingSnake)
	if def.Const.IsString {
		fmt.Fprintf(b, "const val %s: String = %q\n", name, def.Const.StrVal)
		return
	}
	fmt.Fprintf(b, "const val %s: %s = %d\n", name, w.typeRef(def.Const.Type, def), def.Const.IntVal)
}

func (w *ktWriter) typeParams(def *ir.TypeDefinition) string {
	if len(def.GenericParams) == 0 {
		return ""
	}
	return "<" + strings.Join(def.GenericParams, ", ") + ">"
}

func (w *ktWriter) typeRef(ref ir.TypeRef, def *ir.TypeDefinition) string {
	switch t := ref.(type) {
	case ir.PrimitiveRef:
		return kotlinPrimitives[t.Primitive]
	case ir.GenericParamRef:
		return t.Name
	case ir.DefinedRef:
		name := typeName(t.Name, w.cfg)
		if len(t.Args) == 0 {
			return name
		}
		return name + "<" + w.typeRefs(t.Args, def) + ">"
	case ir.ContainerRef:
		switch t.Container {
		case catalog.Optional:
			return w.typeRef(t.Args[0], def) + "?"
		case catalog.Sequence:
			return "List<" + w.typeRef(t.Args[0], def) + ">"
		case catalog.Set:
			return "Set<" + w.typeRef(t.Args[0], def) + ">"
		case catalog.Map:
			return "LinkedHashMap<" + w.typeRefs(t.Args, def) + ">"
		case catalog.Tuple:
			switch len(t.Args) {
			case 2:
				return "Pair<" + w.typeRefs(t.Args, def) + ">"
			case 3:
				return "Triple<" + w.typeRefs(t.Args, def) + ">"
			default:
				w.diags = append(w.diags, notRepresentable(def, TargetKotlin,
					"tuples of arity %d have no Kotlin equivalent (only Pair and Triple exist)", len(t.Args)))
				return "Nothing"
			}
		}
	}
	return "Nothing"
}

func (w *ktWriter) typeRefs(refs []ir.TypeRef, def *ir.TypeDefinition) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = w.typeRef(r, def)
	}
	return strings.Join(parts, ", ")
}

func (w *ktWriter) comments(b *strings.Builder, indent string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s/**\n", indent)
	for _, line := range lines {
		fmt.Fprintf(b, "%s * %s\n", indent, line)
	}
	fmt.Fprintf(b, "%s */\n", indent)
}

// ktIdent escapes Kotlin keywords with backticks.
func ktIdent(name string) string {
	if kotlinKeywords[name] || !isIdent(name) {
		return "`" + name + "`"
	}
	return name
}
