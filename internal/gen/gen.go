// Package gen lowers the resolved global type graph into per-language type
// declarations. The target set is fixed and closed: one Language
// implementation per supported target, dispatched by tag, with no runtime
// plugin surface. Generators only read the graph and produce text; writing
// files and running formatters are the caller's concern.
package gen

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/typebridge/typebridge/internal/casing"
	"github.com/typebridge/typebridge/internal/diag"
	"github.com/typebridge/typebridge/internal/ir"
	"github.com/typebridge/typebridge/internal/version"
)

// Target identifies a supported output language.
type Target string

const (
	TargetTypeScript Target = "typescript"
	TargetKotlin     Target = "kotlin"
	TargetPython     Target = "python"
)

// Targets returns all supported targets in stable order.
func Targets() []Target {
	return []Target{TargetKotlin, TargetPython, TargetTypeScript}
}

// ParseTarget validates a target language identifier.
func ParseTarget(s string) (Target, bool) {
	switch Target(s) {
	case TargetTypeScript, TargetKotlin, TargetPython:
		return Target(s), true
	}
	return "", false
}

// Default discriminant and payload field names for emulated sum types.
const (
	DefaultTag     = "type"
	DefaultContent = "content"
)

// Config carries the recognized per-target options.
type Config struct {
	// PackageName is the namespace of the generated output (Kotlin package
	// line; unused by targets without namespaces).
	PackageName string
	// OutputModulePrefix, when set, names the root module: definitions from
	// any other module get a module-derived prefix on their emitted type
	// name, disambiguating local-name collisions across modules.
	OutputModulePrefix string
	// Tag and Content override the default discriminant/payload field names
	// for every algebraic enum that does not set its own.
	Tag     string
	Content string
	// NoVersionHeader suppresses the generated-by header, e.g. for snapshot
	// tests.
	NoVersionHeader bool
	// TypeMappings overrides the emitted name for specific definitions,
	// keyed by qualified name ("module.Name") or bare local name.
	TypeMappings map[string]string
	// DisableGenerics turns off generic lowering; generic definitions are
	// then rejected as not representable instead of silently flattened.
	DisableGenerics bool
}

// Capabilities describes what a target can express natively.
type Capabilities struct {
	NativeSumTypes bool
	Generics       bool
	MaxTupleArity  int // 0 means unlimited
}

// Language is the common contract of all code generators. Generate consumes
// the resolved graph and emits one ordered text blob: one block per
// definition, in discovery order, never reordered. A definition the target
// cannot express yields a NotRepresentable diagnostic and is omitted; the
// remaining definitions still generate.
type Language interface {
	Target() Target
	Capabilities() Capabilities
	Generate(graph *ir.Graph, cfg Config) (string, diag.List)
}

// New returns the generator for a target.
func New(target Target) (Language, bool) {
	switch target {
	case TargetTypeScript:
		return &typescript{}, true
	case TargetKotlin:
		return &kotlin{}, true
	case TargetPython:
		return &python{}, true
	}
	return nil, false
}

// Result is the outcome of one target's generation.
type Result struct {
	Output      string
	Diagnostics diag.List
}

// OK reports whether the target generated without error-severity
// diagnostics.
func (r Result) OK() bool {
	return !r.Diagnostics.HasErrors()
}

// Run generates all requested targets concurrently against the immutable
// graph and returns a per-target success/failure map. One target failing
// never affects the others.
func Run(ctx context.Context, graph *ir.Graph, configs map[Target]Config) map[Target]Result {
	results := make(map[Target]Result, len(configs))
	order := make([]Target, 0, len(configs))
	for _, t := range Targets() {
		if _, ok := configs[t]; ok {
			order = append(order, t)
		}
	}

	slots := make([]Result, len(order))
	g, _ := errgroup.WithContext(ctx)
	for i, target := range order {
		i, target := i, target
		g.Go(func() error {
			lang, _ := New(target)
			out, diags := lang.Generate(graph, configs[target])
			diags.Sort()
			slots[i] = Result{Output: out, Diagnostics: diags}
			return nil
		})
	}
	_ = g.Wait()

	for i, target := range order {
		results[target] = slots[i]
	}
	return results
}

// headerComment renders the generated-by header with the given line comment
// leader, matching the shape every backend shares.
func headerComment(open, line, close string) string {
	var b strings.Builder
	b.WriteString(open)
	b.WriteString("\n")
	b.WriteString(line)
	b.WriteString("Generated by typebridge ")
	b.WriteString(version.Version())
	b.WriteString("\n")
	b.WriteString(close)
	b.WriteString("\n")
	return b.String()
}

// typeName resolves the emitted name of a definition: an explicit mapping
// always wins, then the module prefix rule, then the declared name.
func typeName(q ir.QualifiedName, cfg Config) string {
	if mapped, ok := cfg.TypeMappings[q.String()]; ok {
		return mapped
	}
	if mapped, ok := cfg.TypeMappings[q.Name]; ok {
		return mapped
	}
	if cfg.OutputModulePrefix != "" && q.Module != cfg.OutputModulePrefix {
		return casing.Convert(q.ModuleBase(), casing.StylePascal) + q.Name
	}
	return q.Name
}

// tagName returns the discriminant field name for an algebraic enum: the
// enum's own attribute, the run-level override, or the default.
func tagName(def *ir.TypeDefinition, cfg Config) string {
	if def.Tag != "" {
		return def.Tag
	}
	if cfg.Tag != "" {
		return cfg.Tag
	}
	return DefaultTag
}

// contentName returns the payload field name for an algebraic enum.
func contentName(def *ir.TypeDefinition, cfg Config) string {
	if def.Content != "" {
		return def.Content
	}
	if cfg.Content != "" {
		return cfg.Content
	}
	return DefaultContent
}

// notRepresentable is the uniform rejection for constructs a target cannot
// express; generation of other definitions continues.
func notRepresentable(def *ir.TypeDefinition, target Target, format string, args ...any) diag.Diagnostic {
	return diag.Errorf(diag.KindNotRepresentable, def.Pos,
		"%s: %s: %s", target, def.Name, fmt.Sprintf(format, args...))
}
