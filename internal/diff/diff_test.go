package diff

import (
	"strings"
	"testing"

	"github.com/typebridge/typebridge/internal/color"
)

func TestRenderEqual(t *testing.T) {
	c := color.New(false)
	if got := Render("a\nb\n", "a\nb\n", c); got != "" {
		t.Errorf("Render of equal inputs = %q, want empty", got)
	}
}

func TestRenderChange(t *testing.T) {
	c := color.New(false)
	got := Render("a\nb\nc\n", "a\nx\nc\n", c)
	want := "  a\n- b\n+ x\n  c\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderAddition(t *testing.T) {
	c := color.New(false)
	got := Render("a\nb\n", "a\nb\nc\n", c)
	if !strings.Contains(got, "+ c") {
		t.Errorf("Render should mark the added line, got %q", got)
	}
	if strings.Contains(got, "- ") {
		t.Errorf("pure addition should have no removals, got %q", got)
	}
}

func TestRenderElidesLongEqualRuns(t *testing.T) {
	var oldLines, newLines []string
	for _, l := range []string{"l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9", "l10", "l11", "l12"} {
		oldLines = append(oldLines, l)
		newLines = append(newLines, l)
	}
	newLines[5] = "changed"

	c := color.New(false)
	got := Render(strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n", c)

	if !strings.Contains(got, "- l6") || !strings.Contains(got, "+ changed") {
		t.Fatalf("Render missed the change, got %q", got)
	}
	if !strings.Contains(got, "  ...") {
		t.Errorf("long unchanged runs should be elided, got %q", got)
	}
	if strings.Contains(got, "l1\n") || strings.Contains(got, "l12") {
		t.Errorf("lines far from the change should be elided, got %q", got)
	}
	// Three lines of context on each side of the change survive.
	for _, keep := range []string{"  l3", "  l4", "  l5", "  l7", "  l8", "  l9"} {
		if !strings.Contains(got, keep) {
			t.Errorf("context line %q missing from %q", keep, got)
		}
	}
}
