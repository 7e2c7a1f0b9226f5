// Package geom - planar geometry primitives shared by the spatial index,
// the tour representation and the search drivers.
//
// A Point is a pure value: an integer identity plus two coordinates.
// Identity (ID) is what tours are permutations of; coordinates are payload
// used only for distance computations. Algorithm state (e.g. "active"
// markers) never lives on a Point.
//
// Design:
//   - No allocations, no errors: every helper is O(1) arithmetic.
//   - DistanceSquared is provided for comparisons that do not need the
//     square root (spatial pruning, k-nearest ordering).
package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point is an immutable planar point with a unique integer identity.
type Point struct {
	ID int     // unique identity inside one instance
	X  float64 // first coordinate (split axis at even kd-tree depth)
	Y  float64 // second coordinate (split axis at odd kd-tree depth)
}

// Coord returns the coordinate selected by axis (0 → X, 1 → Y).
func (p Point) Coord(axis int) float64 {
	if axis == 0 {
		return p.X
	}

	return p.Y
}

// Orb converts p into an orb.Point (X, Y) for export and projection helpers.
func (p Point) Orb() orb.Point { return orb.Point{p.X, p.Y} }

// String renders p as "#id(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("#%d(%.6f, %.6f)", p.ID, p.X, p.Y)
}

// Distance returns the Euclidean distance between a and b.
//
// Complexity: O(1).
func Distance(a, b Point) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared returns the squared Euclidean distance between a and b.
//
// Complexity: O(1).
func DistanceSquared(a, b Point) float64 {
	var (
		dx = a.X - b.X
		dy = a.Y - b.Y
	)

	return dx*dx + dy*dy
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoundsOf returns the bounding box of pts and false when pts is empty.
//
// Complexity: O(n).
func BoundsOf(pts []Point) (Bounds, bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}

	var i int
	for i = 1; i < len(pts); i++ {
		b.MinX = math.Min(b.MinX, pts[i].X)
		b.MinY = math.Min(b.MinY, pts[i].Y)
		b.MaxX = math.Max(b.MaxX, pts[i].X)
		b.MaxY = math.Max(b.MaxY, pts[i].Y)
	}

	return b, true
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	return math.Hypot(b.MaxX-b.MinX, b.MaxY-b.MinY)
}
