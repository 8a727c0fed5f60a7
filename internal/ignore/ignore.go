// Package ignore loads the optional .typebridgeignore file, which excludes
// source paths from scanning and marked type names from extraction.
package ignore

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the default name of the ignore file, looked up in the source
// root.
const FileName = ".typebridgeignore"

// Config holds the compiled ignore patterns.
type Config struct {
	// Paths are glob patterns matched against slash-separated paths relative
	// to the source root, and against file base names.
	Paths []string
	// Types are glob patterns matched against local definition names.
	Types []string
}

// tomlConfig is the on-disk TOML structure of the ignore file.
type tomlConfig struct {
	Paths patternSection `toml:"paths,omitempty"`
	Types patternSection `toml:"types,omitempty"`
}

type patternSection struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// Load reads the ignore file from the source root. A missing file is not an
// error: it returns nil and nothing is filtered.
func Load(sourceDir string) (*Config, error) {
	return LoadPath(filepath.Join(sourceDir, FileName))
}

// LoadPath reads an ignore file from an explicit path.
func LoadPath(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var raw tomlConfig
	if _, err := toml.DecodeFile(filePath, &raw); err != nil {
		return nil, fmt.Errorf("invalid ignore file %s: %w", filePath, err)
	}
	cfg := &Config{Paths: raw.Paths.Patterns, Types: raw.Types.Patterns}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid ignore file %s: %w", filePath, err)
	}
	return cfg, nil
}

// validate rejects malformed glob patterns eagerly instead of at match time.
func (c *Config) validate() error {
	for _, p := range append(append([]string{}, c.Paths...), c.Types...) {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}
	}
	return nil
}

// MatchPath reports whether a slash-separated path relative to the source
// root is excluded. A pattern matches the full relative path or the base
// name. A nil config never matches.
func (c *Config) MatchPath(rel string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Paths {
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
		if ok, _ := path.Match(p, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

// MatchType reports whether a local definition name is excluded.
func (c *Config) MatchType(name string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Types {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
