package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/pipeline"
	"github.com/matzehuels/termmap/pkg/reduction"
)

// statsReport is the --json output of the stats command.
type statsReport struct {
	Term      string          `json:"term"`
	Structure lambda.Stats    `json:"structure"`
	Reduction reduction.Stats `json:"reduction"`
	Truncated bool            `json:"truncated"`
}

// statsCommand creates the stats command for reduction path statistics.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		f      termFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats [term...]",
		Short: "Print structure and reduction path statistics of a term",
		Long: `Print structural counts of a term and statistics over the lengths of all
reduction paths from the term to its normal forms: minimum, maximum, mean,
median and mode. Statistics are undefined when no normal form is reached.`,
		Example: `  termmap stats '(\x. \y. y) ((\z. z) w)'
  termmap stats --json 'succ (succ c0)'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := f.readTerm(cmd, args)
			if err != nil {
				return err
			}
			opts := f.options(c, cmd, pipeline.VizTypeReduction, src)
			opts.Formats = []string{pipeline.FormatJSON}
			report, err := c.runStats(cmd.Context(), opts, &f)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printStatsReport(report)
			return nil
		},
	}

	f.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) runStats(ctx context.Context, opts pipeline.Options, f *termFlags) (statsReport, error) {
	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return statsReport{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Macros = c.loadMacros(ctx)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return statsReport{}, err
	}

	report := statsReport{
		Term:      lambda.Print(result.Term, result.Context),
		Structure: lambda.Measure(result.Term),
		Truncated: result.Truncated,
	}
	if s := result.Layout.ReductionStats; s != nil {
		report.Reduction = *s
	}
	return report, nil
}

func printStatsReport(r statsReport) {
	s, red := r.Structure, r.Reduction
	printKeyValue("term", r.Term)
	printKeyValue("size", strconv.Itoa(s.Abstractions+s.Applications+s.Variables))
	printKeyValue("redexes", strconv.Itoa(s.BetaRedexes))
	printKeyValue("free", strconv.Itoa(s.DistinctFree))
	printKeyValue("depth", strconv.Itoa(s.Depth))
	printNewline()
	printKeyValue("vertices", strconv.Itoa(red.Vertices))
	printKeyValue("edges", strconv.Itoa(red.Edges))
	paths := strconv.Itoa(len(red.Paths))
	if red.PathsTruncated {
		paths += "+"
	}
	printKeyValue("paths", paths)
	if red.Defined {
		printKeyValue("min", strconv.Itoa(red.Min))
		printKeyValue("max", strconv.Itoa(red.Max))
		printKeyValue("mode", strconv.Itoa(red.Mode))
	}
	printKeyValue("mean", red.FormatMean())
	printKeyValue("median", red.FormatMedian())
	if r.Truncated {
		printNewline()
		printWarning("Reduction graph truncated; statistics cover the explored part only")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
