package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typebridge/typebridge/internal/casing"
	"github.com/typebridge/typebridge/internal/catalog"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
	"github.com/typebridge/typebridge/internal/version"
)

// python lowers the graph to Python declarations built on dataclasses and
// typing. Python has no sum types, so algebraic enums use the emulated
// strategy: one dataclass per variant whose discriminant is a defaulted
// Literal field, unioned under the enum's name.
type python struct{}

func (*python) Target() Target { return TargetPython }

func (*python) Capabilities() Capabilities {
	return Capabilities{NativeSumTypes: false, Generics: true}
}

// Python ints are arbitrary precision, so all integer kinds map to int with
// no 64-bit caveat. char has no scalar type and maps to a one-character str.
var pyPrimitives = map[catalog.Primitive]string{
	catalog.Bool:   "bool",
	catalog.I8:     "int",
	catalog.I16:    "int",
	catalog.I32:    "int",
	catalog.I64:    "int",
	catalog.U8:     "int",
	catalog.U16:    "int",
	catalog.U32:    "int",
	catalog.U64:    "int",
	catalog.F32:    "float",
	catalog.F64:    "float",
	catalog.String: "str",
	catalog.Char:   "str",
	catalog.Unit:   "None",
}

var pyKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true,
	"yield": true,
}

func (p *python) Generate(graph *ir.Graph, cfg Config) (string, diag.List) {
	w := &pyWriter{
		cfg:      cfg,
		generics: !cfg.DisableGenerics,
		typing:   make(map[string]bool),
		typeVars: make(map[string]bool),
	}

	// Bodies first: they record which typing names and TypeVars the prelude
	// must declare.
	var blocks []string
	for _, def := range graph.Definitions() {
		if block, ok := w.definition(def); ok {
			blocks = append(blocks, block)
		}
	}

	var out strings.Builder
	if !cfg.NoVersionHeader {
		out.WriteString("\"\"\"\nGenerated by typebridge ")
		out.WriteString(version.Version())
		out.WriteString("\n\"\"\"\n\n")
	}
	out.WriteString(w.prelude())
	out.WriteString(strings.Join(blocks, "\n\n"))
	return out.String(), w.diags
}

type pyWriter struct {
	cfg       Config
	generics  bool
	diags     diag.List
	dataclass bool
	enum      bool
	typing    map[string]bool
	typeVars  map[string]bool
}

// prelude renders the import block and TypeVar declarations implied by the
// generated bodies, in sorted order for determinism.
func (w *pyWriter) prelude() string {
	var b strings.Builder
	if w.dataclass {
		b.WriteString("from dataclasses import dataclass\n")
	}
	if w.enum {
		b.WriteString("from enum import Enum\n")
	}
	if len(w.typing) > 0 {
		names := make([]string, 0, len(w.typing))
		for name := range w.typing {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "from typing import %s\n", strings.Join(names, ", "))
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	if len(w.typeVars) > 0 {
		names := make([]string, 0, len(w.typeVars))
		for name := range w.typeVars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "%s = TypeVar(%q)\n", name, name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (w *pyWriter) definition(def *ir.TypeDefinition) (string, bool) {
	if len(def.GenericParams) > 0 && !w.generics {
		w.diags = append(w.diags, notRepresentable(def, TargetPython,
			"generic definitions are disabled for this target"))
		return "", false
	}
	for _, param := range def.GenericParams {
		w.typing["TypeVar"] = true
		w.typeVars[param] = true
	}

	var b strings.Builder
	switch def.Kind {
	case ir.DefStruct:
		w.writeStruct(&b, def)
	case ir.DefUnitEnum:
		w.writeUnitEnum(&b, def)
	case ir.DefAlgebraicEnum:
		w.writeAlgebraicEnum(&b, def)
	case ir.DefTypeAlias:
		w.docComment(&b, def.Doc)
		fmt.Fprintf(&b, "%s = %s\n", typeName(def.Name, w.cfg), w.typeRef(def.Alias))
	case ir.DefConst:
		w.docComment(&b, def.Doc)
		name := casing.Convert(typeName(def.Name, w.cfg), casing.StyleScreamingSnake)
		if def.Const.IsString {
			fmt.Fprintf(&b, "%s: str = %q\n", name, def.Const.StrVal)
		} else {
			fmt.Fprintf(&b, "%s: int = %d\n", name, def.Const.IntVal)
		}
	}
	return b.String(), true
}

func (w *pyWriter) writeStruct(b *strings.Builder, def *ir.TypeDefinition) {
	w.dataclass = true
	b.WriteString("@dataclass\n")
	fmt.Fprintf(b, "class %s%s:\n", typeName(def.Name, w.cfg), w.generic(def))
	w.docstring(b, def.Doc)

	if len(def.Fields) == 0 {
		if len(def.Doc) == 0 {
			b.WriteString("    pass\n")
		}
		return
	}

	// Declared order is observable and preserved, and dataclasses reject a
	// defaulted field ahead of a required one, so = None only applies to the
	// trailing run of optional fields.
	lastRequired := -1
	for i, f := range def.Fields {
		if !f.Optional {
			lastRequired = i
		}
	}
	for i, f := range def.Fields {
		w.fieldComment(b, f.Doc)
		typ := w.typeRef(f.Type)
		suffix := ""
		if f.Optional {
			w.typing["Optional"] = true
			typ = "Optional[" + typ + "]"
			if i > lastRequired {
				suffix = " = None"
			}
		}
		fmt.Fprintf(b, "    %s: %s%s\n", pyIdent(f.OutputName(def.RenameAll)), typ, suffix)
	}
}

func (w *pyWriter) writeUnitEnum(b *strings.Builder, def *ir.TypeDefinition) {
	w.enum = true
	fmt.Fprintf(b, "class %s(str, Enum):\n", typeName(def.Name, w.cfg))
	w.docstring(b, def.Doc)
	for _, v := range def.Variants {
		w.fieldComment(b, v.Doc)
		member := casing.Convert(v.Name, casing.StyleScreamingSnake)
		fmt.Fprintf(b, "    %s = %q\n", member, v.OutputName(def.RenameAll))
	}
}

// writeAlgebraicEnum emits one dataclass per variant with a Literal
// discriminant defaulted to the case-converted variant name, then a Union of
// all cases under the enum's name. Matching on the discriminant alone
// distinguishes every case.
func (w *pyWriter) writeAlgebraicEnum(b *strings.Builder, def *ir.TypeDefinition) {
	w.dataclass = true
	w.typing["Literal"] = true
	w.typing["Union"] = true

	name := typeName(def.Name, w.cfg)
	tag := pyIdent(tagName(def, w.cfg))
	content := pyIdent(contentName(def, w.cfg))

	var caseNames []string
	for i, v := range def.Variants {
		if i > 0 {
			b.WriteString("\n\n")
		}
		caseName := name + casing.Convert(v.Name, casing.StylePascal)
		caseNames = append(caseNames, caseName+w.subscript(def))
		wire := v.OutputName(def.RenameAll)

		b.WriteString("@dataclass\n")
		fmt.Fprintf(b, "class %s%s:\n", caseName, w.generic(def))
		w.docstring(b, v.Doc)
		if v.Payload != nil {
			fmt.Fprintf(b, "    %s: %s\n", content, w.typeRef(v.Payload))
		}
		fmt.Fprintf(b, "    %s: Literal[%q] = %q\n", tag, wire, wire)
	}

	b.WriteString("\n\n")
	w.docComment(b, def.Doc)
	fmt.Fprintf(b, "%s = Union[%s]\n", name, strings.Join(caseNames, ", "))
}

// generic renders the Generic base-class clause for a class declaration.
func (w *pyWriter) generic(def *ir.TypeDefinition) string {
	if len(def.GenericParams) == 0 {
		return ""
	}
	w.typing["Generic"] = true
	return "(Generic[" + strings.Join(def.GenericParams, ", ") + "])"
}

// subscript renders the parameter subscript used when a generic class is
// referenced as a type, e.g. inside a Union.
func (w *pyWriter) subscript(def *ir.TypeDefinition) string {
	if len(def.GenericParams) == 0 {
		return ""
	}
	return "[" + strings.Join(def.GenericParams, ", ") + "]"
}

func (w *pyWriter) typeRef(ref ir.TypeRef) string {
	switch t := ref.(type) {
	case ir.PrimitiveRef:
		return pyPrimitives[t.Primitive]
	case ir.GenericParamRef:
		return t.Name
	case ir.DefinedRef:
		// Forward references are legal and expected, so every reference is
		// quoted rather than tracking declaration order.
		name := typeName(t.Name, w.cfg)
		if len(t.Args) == 0 {
			return fmt.Sprintf("%q", name)
		}
		return fmt.Sprintf("%q", name+"["+w.bareTypeRefs(t.Args)+"]")
	case ir.ContainerRef:
		switch t.Container {
		case catalog.Optional:
			w.typing["Optional"] = true
			return "Optional[" + w.typeRef(t.Args[0]) + "]"
		case catalog.Sequence:
			w.typing["List"] = true
			return "List[" + w.typeRef(t.Args[0]) + "]"
		case catalog.Set:
			w.typing["Set"] = true
			return "Set[" + w.typeRef(t.Args[0]) + "]"
		case catalog.Map:
			w.typing["Dict"] = true
			return "Dict[" + w.typeRef(t.Args[0]) + ", " + w.typeRef(t.Args[1]) + "]"
		case catalog.Tuple:
			w.typing["Tuple"] = true
			parts := make([]string, len(t.Args))
			for i, a := range t.Args {
				parts[i] = w.typeRef(a)
			}
			return "Tuple[" + strings.Join(parts, ", ") + "]"
		}
	}
	return "None"
}

// bareTypeRefs renders nested references without their own quoting, for use
// inside an already-quoted forward reference.
func (w *pyWriter) bareTypeRefs(refs []ir.TypeRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = strings.Trim(w.typeRef(r), "\"")
	}
	return strings.Join(parts, ", ")
}

// docstring writes a class-level docstring at one indent level.
func (w *pyWriter) docstring(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		return
	}
	if len(lines) == 1 {
		fmt.Fprintf(b, "    \"\"\"%s\"\"\"\n", lines[0])
		return
	}
	b.WriteString("    \"\"\"\n")
	for _, line := range lines {
		fmt.Fprintf(b, "    %s\n", line)
	}
	b.WriteString("    \"\"\"\n")
}

// docComment writes module-level comments for constructs without docstrings.
func (w *pyWriter) docComment(b *strings.Builder, lines []string) {
	for _, line := range lines {
		fmt.Fprintf(b, "# %s\n", line)
	}
}

// fieldComment writes field documentation as leading comments.
func (w *pyWriter) fieldComment(b *strings.Builder, lines []string) {
	for _, line := range lines {
		fmt.Fprintf(b, "    # %s\n", line)
	}
}

// pyIdent appends an underscore to names that collide with Python keywords.
func pyIdent(name string) string {
	if pyKeywords[name] {
		return name + "_"
	}
	return name
}
