package diag

import "testing"

func TestListHasErrors(t *testing.T) {
	var empty List
	if empty.HasErrors() {
		t.Error("empty list should have no errors")
	}

	warnings := List{Warnf(KindUnresolvedType, Position{}, "lint")}
	if warnings.HasErrors() {
		t.Error("warnings alone should not count as errors")
	}

	mixed := append(warnings, Errorf(KindDuplicateDefinition, Position{}, "dup"))
	if !mixed.HasErrors() {
		t.Error("list with an error should report errors")
	}
	if got := len(mixed.Errors()); got != 1 {
		t.Errorf("Errors() returned %d diagnostics, want 1", got)
	}
}

func TestListSort(t *testing.T) {
	l := List{
		Errorf(KindUnresolvedType, Position{File: "b.go", Line: 3, Column: 1}, "third"),
		Errorf(KindUnresolvedType, Position{File: "a.go", Line: 9, Column: 1}, "second"),
		Errorf(KindDuplicateDefinition, Position{File: "a.go", Line: 2, Column: 5}, "first"),
	}
	l.Sort()

	want := []string{"first", "second", "third"}
	for i, msg := range want {
		if l[i].Message != msg {
			t.Errorf("after Sort, position %d = %q, want %q", i, l[i].Message, msg)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Errorf(KindGenericArityMismatch, Position{File: "x.go", Line: 4, Column: 2}, "wrong arity")
	want := "ERROR GenericArityMismatch: x.go:4:2: wrong arity"
	if d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}

	noPos := Warnf(KindMalformedAttribute, Position{}, "oops")
	want = "WARNING MalformedAttribute: oops"
	if noPos.String() != want {
		t.Errorf("String() = %q, want %q", noPos.String(), want)
	}
}

func TestListErr(t *testing.T) {
	var none List
	if none.Err() != nil {
		t.Error("empty list should produce nil error")
	}

	l := List{
		Errorf(KindUnresolvedType, Position{}, "one"),
		Errorf(KindUnresolvedType, Position{}, "two"),
	}
	err := l.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
}
