package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/typebridge/typebridge"
	"github.com/typebridge/typebridge/internal/color"
	"github.com/typebridge/typebridge/internal/config"
	"github.com/typebridge/typebridge/internal/diff"
	"github.com/typebridge/typebridge/internal/fingerprint"
	"github.com/typebridge/typebridge/internal/gen"
	"github.com/typebridge/typebridge/internal/logger"
)

var (
	configPath string
	sourceDir  string
	module     string
	check      bool
	noColor    bool
)

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate type declarations for the configured targets",
	Long: `Generate reads the project configuration, scans the source tree for
marked type definitions, and writes one declaration file per configured
target language.

With --check, nothing is written: each target's output is compared against
the file on disk and the command fails when they differ, which makes drift
visible in CI.`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVar(&configPath, "config", "typebridge.yaml", "Path to the project configuration file")
	GenerateCmd.Flags().StringVar(&sourceDir, "source", ".", "Root of the Go source tree to scan")
	GenerateCmd.Flags().StringVar(&module, "module", "", "Module path qualifying extracted definitions (overrides config)")
	GenerateCmd.Flags().BoolVar(&check, "check", false, "Verify that generated files are up to date instead of writing them")
	GenerateCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.Get()
	c := color.New(!noColor)

	// Configuration problems are fatal before any source file is read.
	project, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if module == "" {
		module = project.Module
	}

	result, err := typebridge.Run(context.Background(), typebridge.Options{
		SourceDir: sourceDir,
		Module:    module,
		Targets:   project.GenConfigs(),
	})
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, c.Diagnostic(d))
	}
	if result.Diagnostics.HasErrors() {
		return fmt.Errorf("generation aborted: %w", result.Diagnostics.Err())
	}

	failed := 0
	drifted := 0
	for _, target := range orderedTargets(project) {
		opts := project.Targets[string(target)]
		out := result.Outputs[target]
		for _, d := range out.Diagnostics {
			fmt.Fprintln(os.Stderr, c.Diagnostic(d))
		}
		if !out.OK() {
			failed++
			log.Error("target failed", "target", target)
			continue
		}
		if check {
			upToDate, err := checkOutput(target, opts.Output, out.Output, c)
			if err != nil {
				return err
			}
			if !upToDate {
				drifted++
			}
			continue
		}
		if err := writeOutput(opts.Output, out.Output); err != nil {
			return fmt.Errorf("failed to write %s output: %w", target, err)
		}
		log.Info("generated", "target", target, "output", outputName(opts.Output))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d targets failed", failed, len(project.Targets))
	}
	if drifted > 0 {
		return fmt.Errorf("%d of %d generated files are out of date; run typebridge generate", drifted, len(project.Targets))
	}
	return nil
}

// orderedTargets lists the configured targets in the generator's stable
// order, so per-target logging and diff output never depend on map
// iteration.
func orderedTargets(project *config.Project) []gen.Target {
	var order []gen.Target
	for _, target := range gen.Targets() {
		if _, ok := project.Targets[string(target)]; ok {
			order = append(order, target)
		}
	}
	return order
}

// checkOutput compares a target's fresh output with the file on disk. A
// missing file counts as drift.
func checkOutput(target gen.Target, path, blob string, c *color.Color) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("target %s has no output path configured; --check needs one", target)
	}
	onDisk, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "%s: %s does not exist\n", target, c.Bold(path))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s output: %w", target, err)
	}

	if fingerprint.Compute(string(onDisk)).Matches(fingerprint.Compute(blob)) {
		return true, nil
	}
	fmt.Fprintf(os.Stderr, "%s: %s is out of date\n", target, c.Bold(path))
	fmt.Fprint(os.Stderr, diff.Render(string(onDisk), blob, c))
	return false, nil
}

// writeOutput writes a target's blob to its file, or stdout when no path is
// configured. Running an external formatter over the file is left to the
// caller's build tooling.
func writeOutput(path, blob string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(blob)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(blob), 0o644)
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
