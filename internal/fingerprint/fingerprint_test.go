package fingerprint

import "testing"

func TestComputeDeterministic(t *testing.T) {
	a := Compute("export interface Point {}\n")
	b := Compute("export interface Point {}\n")
	if !a.Matches(b) {
		t.Error("identical content must produce matching fingerprints")
	}

	other := Compute("export interface Point { x: number }\n")
	if a.Matches(other) {
		t.Error("different content must not match")
	}
}

func TestComputeHashShape(t *testing.T) {
	f := Compute("")
	if len(f.Hash) != 64 {
		t.Errorf("Hash length = %d, want 64 hex characters", len(f.Hash))
	}
	if f.String() != f.Hash[:8] {
		t.Errorf("String() = %q, want the first 8 characters of the hash", f.String())
	}
}
