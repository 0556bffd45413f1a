package server

import (
	"testing"

	"github.com/matzehuels/termmap/pkg/pipeline"
)

func TestOptionsCapsBudgets(t *testing.T) {
	tests := []struct {
		name     string
		defaults pipeline.Options
		req      pipeline.Options
		want     [3]int // max vertices, max edges, max level
	}{
		{"defaults fill zero", pipeline.Options{MaxVertices: 50, MaxEdges: 200, MaxLevel: 4}, pipeline.Options{}, [3]int{50, 200, 4}},
		{"smaller request kept", pipeline.Options{MaxVertices: 50, MaxEdges: 200, MaxLevel: 4}, pipeline.Options{MaxVertices: 10, MaxEdges: 20, MaxLevel: 2}, [3]int{10, 20, 2}},
		{"larger request capped", pipeline.Options{MaxVertices: 50, MaxEdges: 200, MaxLevel: 4}, pipeline.Options{MaxVertices: 500, MaxEdges: 900, MaxLevel: 40}, [3]int{50, 200, 4}},
		{"level unbounded by default", pipeline.Options{MaxVertices: 50}, pipeline.Options{MaxLevel: 40}, [3]int{50, 0, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{Defaults: tt.defaults})
			got := s.options(tt.req, pipeline.VizTypeReduction)
			if have := [3]int{got.MaxVertices, got.MaxEdges, got.MaxLevel}; have != tt.want {
				t.Errorf("budgets = %v, want %v", have, tt.want)
			}
			if got.VizType != pipeline.VizTypeReduction {
				t.Errorf("VizType = %q, want %q", got.VizType, pipeline.VizTypeReduction)
			}
		})
	}
}
