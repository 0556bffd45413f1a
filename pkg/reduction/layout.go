package reduction

import "github.com/matzehuels/termmap/pkg/termmap"

// Default banding of reduction graph vertices.
const (
	DefaultBandDistanceX = 2000
	DefaultBandDistanceY = 2000
	DefaultVertexWidth   = 150
)

// LayoutOptions configures [Place]. The zero value selects the defaults.
type LayoutOptions struct {
	DistanceX   float64 // Gap between vertices of one level
	DistanceY   float64 // Distance between levels
	VertexWidth float64
}

// SetDefaults fills in zero-valued fields.
func (o *LayoutOptions) SetDefaults() {
	if o.DistanceX <= 0 {
		o.DistanceX = DefaultBandDistanceX
	}
	if o.DistanceY <= 0 {
		o.DistanceY = DefaultBandDistanceY
	}
	if o.VertexWidth <= 0 {
		o.VertexWidth = DefaultVertexWidth
	}
}

// Place assigns every vertex a position in a horizontal band per level:
// level i sits at y = i*DistanceY and its vertices are centered around x = 0
// in discovery order. It returns the horizontal extent of the placement.
func Place(g *Graph, opts LayoutOptions) (width float64) {
	opts.SetDefaults()
	x, w := opts.DistanceX, opts.VertexWidth

	var left, right float64
	placed := false
	for level, vs := range g.Levels() {
		c := len(vs) / 2
		for j, v := range vs {
			var posX float64
			if len(vs)%2 == 0 {
				posX = 0.5*x + float64(j-c)*(w+x)
			} else {
				posX = -0.5*w + float64(j-c)*(w+x)
			}
			if !placed {
				left, right, placed = posX, posX, true
			}
			left, right = min(left, posX), max(right, posX)
			v.Position = termmap.Point{X: posX, Y: float64(level) * opts.DistanceY}
		}
	}
	return right - left
}
