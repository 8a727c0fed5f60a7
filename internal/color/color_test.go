package color

import (
	"strings"
	"testing"

	"github.com/typebridge/typebridge/internal/diag"
)

func TestDisabledPassthrough(t *testing.T) {
	c := New(false)
	if c.Add("x") != "x" || c.Remove("x") != "x" || c.Bold("x") != "x" || c.Header("x") != "x" {
		t.Error("disabled colorizer must return text unchanged")
	}

	d := diag.Errorf(diag.KindUnresolvedType, diag.Position{}, "boom")
	if c.Diagnostic(d) != d.String() {
		t.Error("disabled colorizer must not decorate diagnostics")
	}
}

func TestEnabledWrapsWithANSI(t *testing.T) {
	c := &Color{enabled: true}

	if got := c.Add("x"); !strings.HasPrefix(got, "\033[32m") || !strings.HasSuffix(got, "\033[0m") {
		t.Errorf("Add = %q, want green-wrapped", got)
	}
	if got := c.Remove("x"); !strings.HasPrefix(got, "\033[31m") {
		t.Errorf("Remove = %q, want red-wrapped", got)
	}

	err := diag.Errorf(diag.KindUnresolvedType, diag.Position{}, "boom")
	if got := c.Diagnostic(err); !strings.HasPrefix(got, "\033[31m") {
		t.Errorf("error diagnostic = %q, want red-wrapped", got)
	}
	warn := diag.Warnf(diag.KindUnresolvedType, diag.Position{}, "hmm")
	if got := c.Diagnostic(warn); !strings.HasPrefix(got, "\033[33m") {
		t.Errorf("warning diagnostic = %q, want yellow-wrapped", got)
	}
}
