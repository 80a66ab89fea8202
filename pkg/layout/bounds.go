package layout

import (
	"math"

	"github.com/matzehuels/mindgraft/pkg/graph"
)

// Rect is an axis-aligned box in screen space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the smallest box enclosing every card. Zero sizes count as
// the default card size. An empty slice yields the zero Rect.
func Bounds(nodes []graph.Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		s := n.Size.OrDefault()
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+s.Width)
		maxY = math.Max(maxY, n.Position.Y+s.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
