package reduction

import "testing"

func TestPlace(t *testing.T) {
	g, err := mustBuild(t, `(\x. x) a ((\y. y) b)`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	width := Place(g, LayoutOptions{})

	levels := g.Levels()
	tests := []struct {
		level, j int
		x, y     float64
	}{
		{0, 0, -75, 0},
		{1, 0, -1150, 2000},
		{1, 1, 1000, 2000},
		{2, 0, -75, 4000},
	}
	for _, tt := range tests {
		p := levels[tt.level][tt.j].Position
		if p.X != tt.x || p.Y != tt.y {
			t.Errorf("level %d vertex %d at (%v, %v), want (%v, %v)", tt.level, tt.j, p.X, p.Y, tt.x, tt.y)
		}
	}
	if width != 2150 {
		t.Errorf("width = %v, want 2150", width)
	}
}

func TestPlaceCustomDistances(t *testing.T) {
	g, err := mustBuild(t, `(\x. x) y`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	Place(g, LayoutOptions{DistanceX: 10, DistanceY: 5, VertexWidth: 2})
	if p := g.Vertices[1].Position; p.X != -1 || p.Y != 5 {
		t.Errorf("position = %+v, want (-1, 5)", p)
	}
}
