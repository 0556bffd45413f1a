package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/termmap/pkg/pipeline"
)

// reduceCommand creates the reduce command for drawing reduction graphs.
func (c *CLI) reduceCommand() *cobra.Command {
	var f termFlags

	cmd := &cobra.Command{
		Use:   "reduce [term...]",
		Short: "Draw the graph of all beta-reductions of a term",
		Long: `Draw the reduction graph of a lambda term.

Vertices are the distinct terms reachable by beta-reduction, edges are single
reduction steps labelled by the contracted redex. Vertices are banded by their
distance from the input term; normal forms are drawn with a double border.

Terms without a normal form have infinite graphs. Exploration stops at the
configured budgets and the partial graph is drawn and marked truncated.`,
		Example: `  termmap reduce '(\x. x) ((\y. y) z)'
  termmap reduce --max-level 4 -f svg -o y Y
  termmap reduce -f json --detailed 'plus c1 c1'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := f.readTerm(cmd, args)
			if err != nil {
				return err
			}
			opts := f.options(c, cmd, pipeline.VizTypeReduction, src)
			opts.Formats = parseFormats(f.formats)
			return c.runTerm(cmd.Context(), opts, &f)
		},
	}

	f.register(cmd, true)
	f.registerOutput(cmd)
	return cmd
}
