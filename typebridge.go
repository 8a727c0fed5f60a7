// Package typebridge provides a programmatic API for generating target
// language type declarations from annotated Go type definitions. One run
// extracts marked definitions from a source tree, reconciles them into a
// global type graph, and lowers the graph for every configured target.
package typebridge

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/extract"
	"github.com/typebridge/typebridge/internal/gen"
	"github.com/typebridge/typebridge/internal/ignore"
	"github.com/typebridge/typebridge/internal/ir"
	"github.com/typebridge/typebridge/internal/logger"
	"github.com/typebridge/typebridge/internal/reconcile"
)

// Options configures one generation run.
type Options struct {
	// SourceDir is the root of the Go source tree to scan. Vendor, hidden
	// directories, and _test.go files are skipped.
	SourceDir string
	// Module is the module path qualifying definitions found directly under
	// SourceDir; subdirectories extend it with their relative path.
	Module string
	// Targets maps each requested target language to its options. At least
	// one target is required.
	Targets map[gen.Target]gen.Config
}

// Result is the outcome of one run.
type Result struct {
	// Outputs holds the per-target success/failure map. A target's output is
	// usable only when its result reports OK.
	Outputs map[gen.Target]gen.Result
	// Diagnostics are the extraction and reconciliation findings. When it
	// contains errors, Outputs is nil: no graph was accepted.
	Diagnostics diag.List
}

// OK reports whether the graph was accepted and every target generated.
func (r *Result) OK() bool {
	if r.Diagnostics.HasErrors() {
		return false
	}
	for _, out := range r.Outputs {
		if !out.OK() {
			return false
		}
	}
	return true
}

// Run executes the full pipeline: discover and parse source files, extract
// local forests in parallel, reconcile them into the global type graph, and
// generate every configured target concurrently.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Targets) == 0 {
		return nil, fmt.Errorf("no target languages configured")
	}
	log := logger.Get()

	ignored, err := ignore.Load(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	inputs, err := parseTree(fset, opts.SourceDir, opts.Module, ignored)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source tree: %w", err)
	}
	log.Debug("parsed source tree", "dir", opts.SourceDir, "files", len(inputs))

	forests, diags := extract.Files(ctx, inputs, extract.MarkerPredicate())
	forests = dropIgnoredTypes(forests, ignored)

	graph, reconcileDiags := reconcile.Reconcile(forests)
	diags = append(diags, reconcileDiags...)
	diags.Sort()
	if graph == nil || diags.HasErrors() {
		return &Result{Diagnostics: diags}, nil
	}
	log.Debug("reconciled type graph", "definitions", graph.Len())

	return &Result{
		Outputs:     gen.Run(ctx, graph, opts.Targets),
		Diagnostics: diags,
	}, nil
}

// parseTree walks the source root and parses every non-test Go file. Files
// that fail to parse abort the run: the core only interprets syntax trees,
// it never recovers from host-language syntax errors.
func parseTree(fset *token.FileSet, root, module string, ignored *ignore.Config) ([]extract.FileInput, error) {
	var inputs []extract.FileInput
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "vendor" || strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if rel != "." && ignored.MatchPath(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if ignored.MatchPath(filepath.ToSlash(rel)) {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		filePkg := module
		if dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." {
			filePkg = module + "/" + dir
		}

		inputs = append(inputs, extract.FileInput{
			Path:   path,
			Module: filePkg,
			Fset:   fset,
			AST:    file,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// dropIgnoredTypes filters excluded definition names out of the forests.
// References to a dropped definition surface later as unresolved types, which
// is deliberate: an exclusion that breaks the graph should be loud.
func dropIgnoredTypes(forests []ir.Forest, ignored *ignore.Config) []ir.Forest {
	if ignored == nil || len(ignored.Types) == 0 {
		return forests
	}
	for i := range forests {
		kept := forests[i].Defs[:0]
		for _, def := range forests[i].Defs {
			if !ignored.MatchType(def.Name.Name) {
				kept = append(kept, def)
			}
		}
		forests[i].Defs = kept
	}
	return forests
}
