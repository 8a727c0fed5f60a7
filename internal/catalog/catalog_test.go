package catalog

import "testing"

func TestPrimitiveFromGo(t *testing.T) {
	tests := []struct {
		goName string
		want   Primitive
	}{
		{"bool", Bool},
		{"int8", I8},
		{"int16", I16},
		{"int32", I32},
		{"int64", I64},
		{"int", I64},
		{"uint8", U8},
		{"byte", U8},
		{"uint16", U16},
		{"uint32", U32},
		{"uint64", U64},
		{"uint", U64},
		{"float32", F32},
		{"float64", F64},
		{"string", String},
		{"rune", Char},
	}
	for _, tt := range tests {
		got, ok := PrimitiveFromGo(tt.goName)
		if !ok {
			t.Errorf("PrimitiveFromGo(%q) not found", tt.goName)
			continue
		}
		if got != tt.want {
			t.Errorf("PrimitiveFromGo(%q) = %s, want %s", tt.goName, got, tt.want)
		}
	}

	for _, unknown := range []string{"uintptr", "complex64", "error", "any", "Point"} {
		if _, ok := PrimitiveFromGo(unknown); ok {
			t.Errorf("PrimitiveFromGo(%q) should not resolve", unknown)
		}
	}
}

func TestIs64BitInteger(t *testing.T) {
	for _, p := range []Primitive{I64, U64} {
		if !p.Is64BitInteger() {
			t.Errorf("%s should be flagged as 64-bit", p)
		}
	}
	for _, p := range []Primitive{Bool, I8, I32, U32, F64, String, Char, Unit} {
		if p.Is64BitInteger() {
			t.Errorf("%s should not be flagged as 64-bit", p)
		}
	}
}

func TestContainerArity(t *testing.T) {
	tests := []struct {
		c    Container
		want int
	}{
		{Optional, 1},
		{Sequence, 1},
		{Set, 1},
		{Map, 2},
		{Tuple, -1},
	}
	for _, tt := range tests {
		if got := tt.c.Arity(); got != tt.want {
			t.Errorf("%s.Arity() = %d, want %d", tt.c, got, tt.want)
		}
	}
}
