package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIgnoreFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing ignore file should not error: %v", err)
	}
	if cfg != nil {
		t.Error("missing ignore file should yield a nil config")
	}
}

func TestLoad(t *testing.T) {
	dir := writeIgnoreFile(t, `
[paths]
patterns = ["internal/scratch/*", "*_gen.go"]

[types]
patterns = ["*Internal", "Deprecated*"]
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	pathTests := []struct {
		rel  string
		want bool
	}{
		{"internal/scratch/tmp.go", true},
		{"internal/keep/tmp.go", false},
		{"models/types_gen.go", true},
		{"models/types.go", false},
	}
	for _, tt := range pathTests {
		if got := cfg.MatchPath(tt.rel); got != tt.want {
			t.Errorf("MatchPath(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}

	typeTests := []struct {
		name string
		want bool
	}{
		{"ConfigInternal", true},
		{"DeprecatedUser", true},
		{"Config", false},
	}
	for _, tt := range typeTests {
		if got := cfg.MatchType(tt.name); got != tt.want {
			t.Errorf("MatchType(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	dir := writeIgnoreFile(t, "[paths\npatterns = [")
	if _, err := Load(dir); err == nil {
		t.Error("malformed TOML should error")
	}
}

func TestLoadRejectsBadPattern(t *testing.T) {
	dir := writeIgnoreFile(t, `
[types]
patterns = ["[unclosed"]
`)
	if _, err := Load(dir); err == nil {
		t.Error("malformed glob patterns should error at load time")
	}
}

func TestNilConfigNeverMatches(t *testing.T) {
	var cfg *Config
	if cfg.MatchPath("anything.go") || cfg.MatchType("Anything") {
		t.Error("a nil config must not filter anything")
	}
}
