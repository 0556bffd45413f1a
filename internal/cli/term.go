package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/pipeline"
)

// termFlags holds the flags shared by commands that take a term.
// Zero values defer to the configuration.
type termFlags struct {
	file      string   // read the term from a file
	free      []string // free variable names in placement order
	output    string   // output file or base path
	formats   string   // comma-separated output formats
	noCache   bool     // disable the file cache
	refresh   bool     // bypass cached layouts and artifacts
	highlight []string // redex ids coloured in static renders
	detailed  bool     // print redex labels on reduction edges

	dx, dy      float64
	maxVertices int
	maxEdges    int
	maxLevel    int
	maxPaths    int
}

// register adds the flags to cmd. Reduction budgets are only added when
// reduction is true.
func (f *termFlags) register(cmd *cobra.Command, reduction bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.file, "file", "", "read the term from a file (- for stdin)")
	flags.StringSliceVar(&f.free, "free", nil, "free variable names, outermost first (comma-separated)")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute cached results")

	if reduction {
		flags.IntVar(&f.maxVertices, "max-vertices", 0, "stop after this many distinct terms")
		flags.IntVar(&f.maxEdges, "max-edges", 0, "stop after this many reduction steps")
		flags.IntVar(&f.maxLevel, "max-level", 0, "deepest level expanded (0 = unlimited)")
		flags.IntVar(&f.maxPaths, "max-paths", 0, "bound on enumerated root-to-normal-form paths")
	} else {
		flags.Float64Var(&f.dx, "dx", 0, "horizontal node distance")
		flags.Float64Var(&f.dy, "dy", 0, "vertical node distance")
	}
}

// registerOutput adds output flags to cmd.
func (f *termFlags) registerOutput(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	flags.StringSliceVar(&f.highlight, "highlight", nil, "redex ids to colour, e.g. beta-0 (comma-separated)")
	flags.BoolVar(&f.detailed, "detailed", false, "label reduction edges with the contracted redex")
}

// options builds pipeline options from the configuration and the flags
// that were set on cmd.
func (f *termFlags) options(c *CLI, cmd *cobra.Command, vizType, source string) pipeline.Options {
	opts := c.baseOptions(vizType)
	opts.Source = source
	opts.Free = f.free
	opts.Refresh = f.refresh
	opts.Highlight = f.highlight
	opts.Detailed = f.detailed

	changed := cmd.Flags().Changed
	if changed("dx") {
		opts.DistanceX = f.dx
	}
	if changed("dy") {
		opts.DistanceY = f.dy
	}
	if changed("max-vertices") {
		opts.MaxVertices = f.maxVertices
	}
	if changed("max-edges") {
		opts.MaxEdges = f.maxEdges
	}
	if changed("max-level") {
		opts.MaxLevel = f.maxLevel
	}
	if changed("max-paths") {
		opts.MaxPaths = f.maxPaths
	}
	return opts
}

// readTerm returns the term source from --file, from stdin for "-", or
// from the joined arguments.
func (f *termFlags) readTerm(cmd *cobra.Command, args []string) (string, error) {
	var src string
	switch {
	case f.file == "-" || (f.file == "" && len(args) == 1 && args[0] == "-"):
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), terrors.MaxTermLength+1))
		if err != nil {
			return "", err
		}
		src = string(data)
	case f.file != "":
		if err := terrors.ValidatePath(f.file); err != nil {
			return "", err
		}
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", terrors.Wrap(terrors.ErrCodeFileNotFound, err, "read term")
		}
		src = string(data)
	default:
		src = strings.Join(args, " ")
	}

	src = strings.TrimSpace(src)
	if src == "" {
		return "", terrors.New(terrors.ErrCodeInvalidInput, "no term given (pass it as arguments, --file or -)")
	}
	return src, nil
}
