package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/termmap/pkg/pipeline"
)

// mapCommand creates the map command for compiling a term into a term map.
func (c *CLI) mapCommand() *cobra.Command {
	var f termFlags

	cmd := &cobra.Command{
		Use:   "map [term...]",
		Short: "Compile a term into a term map",
		Long: `Compile a lambda term into a term map.

Every variable occurrence is connected to the abstraction that binds it, free
variables get nodes of their own, and each beta-redex becomes a group of nodes
and edges named beta-N that can be coloured with --highlight.

Terms use \ or λ for abstraction, for example '(\x. x x) (\y. y)'. Names of
stored macros and of the builtins (I, K, S, Y, Omega, c0..c3, succ, plus,
true, false) are expanded.`,
		Example: `  termmap map '(\x. x) y'
  termmap map -f json '\f x. f (f x)' > twice.json
  termmap map -f svg,png -o omega --highlight beta-0 Omega`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := f.readTerm(cmd, args)
			if err != nil {
				return err
			}
			opts := f.options(c, cmd, pipeline.VizTypeMap, src)
			opts.Formats = parseFormats(f.formats)
			return c.runTerm(cmd.Context(), opts, &f)
		},
	}

	f.register(cmd, false)
	f.registerOutput(cmd)
	return cmd
}

// runTerm executes the pipeline for opts, writes the artifacts and prints
// a summary.
func (c *CLI) runTerm(ctx context.Context, opts pipeline.Options, f *termFlags) error {
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Macros = c.loadMacros(ctx)

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Building %s...", opts.VizType))
	spin.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.Fail("Build failed")
		return err
	}
	spin.Stop()

	params := artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    f.output,
		cacheHit:  result.CacheInfo.LayoutHit,
	}
	if params.toStdout() {
		return writeArtifacts(params)
	}

	printSuccess("Built %s of %s", opts.VizType, StyleHighlight.Render(truncate(opts.Source, 60)))
	if err := writeArtifacts(params); err != nil {
		return err
	}
	printSummary(buildSummary{
		nodes:     result.Stats.NodeCount,
		edges:     result.Stats.EdgeCount,
		redexes:   len(result.Layout.Redexes),
		cached:    result.CacheInfo.LayoutHit,
		truncated: result.Truncated,
	})

	if !opts.IsReduction() {
		for _, r := range result.Layout.Redexes {
			printDetail("%s  %s", r.ID, r.Label)
		}
		return nil
	}
	if s := result.Layout.ReductionStats; s != nil {
		printDetail("paths %d · mean %s · median %s", len(s.Paths), s.FormatMean(), s.FormatMedian())
	}
	if result.Truncated {
		printWarning("Reduction graph truncated; raise --max-vertices, --max-edges or --max-level")
	}
	return nil
}

// truncate shortens s to n runes for display.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
