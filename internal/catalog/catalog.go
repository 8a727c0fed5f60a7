// Package catalog enumerates the built-in primitive and container kinds the
// type model supports. The sets are closed: generators carry one rendering
// table per kind, and adding a target language never changes this package.
package catalog

// Primitive is a built-in scalar kind.
type Primitive string

const (
	Bool   Primitive = "bool"
	I8     Primitive = "i8"
	I16    Primitive = "i16"
	I32    Primitive = "i32"
	I64    Primitive = "i64"
	U8     Primitive = "u8"
	U16    Primitive = "u16"
	U32    Primitive = "u32"
	U64    Primitive = "u64"
	F32    Primitive = "f32"
	F64    Primitive = "f64"
	String Primitive = "string"
	Char   Primitive = "char"
	Unit   Primitive = "unit"
)

// Container is a built-in parameterized kind.
type Container string

const (
	Optional Container = "optional"
	Sequence Container = "sequence"
	Set      Container = "set"
	Map      Container = "map" // ordered key-value mapping
	Tuple    Container = "tuple"
)

// goPrimitives maps Go type names to catalog primitives. Plain int and uint
// are mapped to the 64-bit kinds since that is their width on every platform
// the generated code targets.
var goPrimitives = map[string]Primitive{
	"bool":    Bool,
	"int8":    I8,
	"int16":   I16,
	"int32":   I32,
	"int64":   I64,
	"int":     I64,
	"uint8":   U8,
	"byte":    U8,
	"uint16":  U16,
	"uint32":  U32,
	"uint64":  U64,
	"uint":    U64,
	"float32": F32,
	"float64": F64,
	"string":  String,
	"rune":    Char,
}

// PrimitiveFromGo resolves a Go type name to a primitive kind.
func PrimitiveFromGo(name string) (Primitive, bool) {
	p, ok := goPrimitives[name]
	return p, ok
}

// Is64BitInteger reports whether the primitive is an integer kind that cannot
// be held losslessly by an IEEE-754 double (values above 2^53 lose
// precision). Targets whose native number type is a double must use their
// documented fallback representation for these kinds.
func (p Primitive) Is64BitInteger() bool {
	return p == I64 || p == U64
}

// IsInteger reports whether the primitive is any integer kind.
func (p Primitive) IsInteger() bool {
	switch p {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// Arity returns the number of type arguments a container takes, or -1 for
// containers with a variable argument count.
func (c Container) Arity() int {
	switch c {
	case Optional, Sequence, Set:
		return 1
	case Map:
		return 2
	case Tuple:
		return -1
	}
	return 0
}
