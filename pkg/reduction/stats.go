package reduction

import (
	"fmt"
	"slices"
)

// DefaultMaxPaths bounds path enumeration in [Summarize].
const DefaultMaxPaths = 100000

// stepsPerPath scales maxPaths into the number of vertex visits the search
// may spend, so dead ends count against the limit too.
const stepsPerPath = 64

// Stats aggregates the lengths of the paths from the root to normal forms.
// Min, Max, Mean, Median and Mode are meaningful only when Defined is true;
// a graph whose explored paths never reach a normal form has no paths.
type Stats struct {
	Paths          []int   `json:"paths,omitempty"`
	Min            int     `json:"min"`
	Max            int     `json:"max"`
	Mean           float64 `json:"mean"`
	Median         float64 `json:"median"`
	Mode           int     `json:"mode"`
	Defined        bool    `json:"defined"`
	Vertices       int     `json:"vertices"`
	Edges          int     `json:"edges"`
	PathsTruncated bool    `json:"paths_truncated,omitempty"`
}

// PathLengths returns one length per path from the root to a sink, found by
// depth-first search over the edges in discovery order. A path never visits
// a vertex twice. At most maxPaths lengths are returned (0 means
// [DefaultMaxPaths]) and the search visits at most maxPaths*64 vertices;
// the boolean reports whether either limit cut the search short.
func PathLengths(g *Graph, maxPaths int) ([]int, bool) {
	if maxPaths <= 0 {
		maxPaths = DefaultMaxPaths
	}
	if g == nil || g.Root == "" {
		return nil, false
	}

	sinks := make(map[string]bool)
	for _, v := range g.Sinks() {
		sinks[v.Key] = true
	}

	var (
		lengths   []int
		truncated bool
		onPath    = make(map[string]bool)
		steps     = maxPaths * stepsPerPath
	)
	var visit func(key string, depth int)
	visit = func(key string, depth int) {
		if truncated {
			return
		}
		if steps == 0 {
			truncated = true
			return
		}
		steps--
		if sinks[key] {
			if len(lengths) == maxPaths {
				truncated = true
				return
			}
			lengths = append(lengths, depth)
			return
		}
		onPath[key] = true
		for _, i := range g.out[key] {
			next := g.Edges[i].Target
			if !onPath[next] {
				visit(next, depth+1)
			}
		}
		onPath[key] = false
	}
	visit(g.Root, 0)
	return lengths, truncated
}

// Summarize computes the path statistics and sizes of g.
func Summarize(g *Graph, maxPaths int) Stats {
	paths, truncated := PathLengths(g, maxPaths)
	s := Stats{Paths: paths, PathsTruncated: truncated}
	if g != nil {
		s.Vertices, s.Edges = len(g.Vertices), len(g.Edges)
	}
	if len(paths) == 0 {
		return s
	}

	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	n := len(sorted)

	s.Defined = true
	s.Min, s.Max = sorted[0], sorted[n-1]

	sum := 0
	for _, p := range sorted {
		sum += p
	}
	s.Mean = float64(sum) / float64(n)

	if n%2 == 1 {
		s.Median = float64(sorted[n/2])
	} else {
		s.Median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	// Ties go to the smallest length: sorted order visits it first.
	best, run := 0, 0
	for i := range sorted {
		if i > 0 && sorted[i] == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		if run > best {
			best, s.Mode = run, sorted[i]
		}
	}
	return s
}

// FormatMean renders the mean with two decimals, or "undefined".
func (s Stats) FormatMean() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", s.Mean)
}

// FormatMedian renders the median with up to one decimal, or "undefined".
func (s Stats) FormatMedian() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%g", s.Median)
}
