// Package fingerprint identifies generated outputs by content hash, so drift
// checks can compare a file on disk against a fresh run without diffing
// first.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
)

// Fingerprint is the identity of one generated output.
type Fingerprint struct {
	Hash string `json:"hash"` // SHA-256 of the output bytes, hex encoded
}

// Compute fingerprints a generated output blob.
func Compute(output string) Fingerprint {
	hash := sha256.Sum256([]byte(output))
	return Fingerprint{Hash: fmt.Sprintf("%x", hash)}
}

// Matches reports whether two fingerprints identify the same content.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.Hash == other.Hash
}

// String returns a short human-readable form.
func (f Fingerprint) String() string {
	if len(f.Hash) >= 8 {
		return f.Hash[:8]
	}
	return f.Hash
}
