// Package core provides fundamental types and utilities shared by the
// simulation and its hosts. It contains no external dependencies (especially
// no Bubble Tea) to keep game logic pure and testable.
package core

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at angle a (radians).
func FromAngle(a float64) Vec2 {
	return Vec2{X: math.Cos(a), Y: math.Sin(a)}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// ClampLen shortens v to at most max length, keeping its direction.
func (v Vec2) ClampLen(max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// Rect represents an axis-aligned bounding box used for collision detection.
type Rect struct {
	X float64 `json:"x" yaml:"x"` // Top-left corner
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ClosestPoint returns the point of r nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{ClampF(p.X, r.X, r.Right()), ClampF(p.Y, r.Y, r.Bottom())}
}

// ResolveCircleRect pushes a circle out of an AABB along the shortest
// separating direction. Returns the corrected center and whether the
// circle overlapped the rectangle.
func ResolveCircleRect(center Vec2, radius float64, r Rect) (Vec2, bool) {
	closest := r.ClosestPoint(center)
	delta := center.Sub(closest)
	distSq := delta.LenSq()

	if distSq > 0 {
		if distSq >= radius*radius {
			return center, false
		}
		dist := math.Sqrt(distSq)
		return closest.Add(delta.Scale(radius / dist)), true
	}

	// Center is inside the rectangle: exit through the nearest edge.
	left := center.X - r.X
	right := r.Right() - center.X
	top := center.Y - r.Y
	bottom := r.Bottom() - center.Y

	out := center
	switch m := math.Min(math.Min(left, right), math.Min(top, bottom)); m {
	case left:
		out.X = r.X - radius
	case right:
		out.X = r.Right() + radius
	case top:
		out.Y = r.Y - radius
	default:
		out.Y = r.Bottom() + radius
	}
	return out, true
}

// ResolveCircleRects applies ResolveCircleRect against each rectangle in
// order, repeating up to passes times while any push-out happened.
func ResolveCircleRects(center Vec2, radius float64, rects []Rect, passes int) Vec2 {
	if passes < 1 {
		passes = 1
	}
	for i := 0; i < passes; i++ {
		moved := false
		for _, r := range rects {
			var hit bool
			center, hit = ResolveCircleRect(center, radius, r)
			moved = moved || hit
		}
		if !moved {
			break
		}
	}
	return center
}

// SegmentRect intersects the segment a→b with r using the slab method.
// It returns the entry parameter t in [0, 1] of the first contact.
// A segment starting inside r hits at t = 0.
func SegmentRect(a, b Vec2, r Rect) (float64, bool) {
	d := b.Sub(a)
	tMin, tMax := 0.0, 1.0

	axes := [2]struct{ origin, dir, lo, hi float64 }{
		{a.X, d.X, r.X, r.Right()},
		{a.Y, d.Y, r.Y, r.Bottom()},
	}
	for _, ax := range axes {
		if ax.dir == 0 {
			if ax.origin < ax.lo || ax.origin > ax.hi {
				return 0, false
			}
			continue
		}
		t1 := (ax.lo - ax.origin) / ax.dir
		t2 := (ax.hi - ax.origin) / ax.dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// SegmentBlocked reports whether any rectangle intersects the segment a→b.
func SegmentBlocked(a, b Vec2, rects []Rect) bool {
	for _, r := range rects {
		if _, hit := SegmentRect(a, b, r); hit {
			return true
		}
	}
	return false
}

// SegmentCircle intersects the segment a→b with the circle (c, radius).
// It returns the entry parameter t in [0, 1]; a segment that starts inside
// the circle hits at t = 0.
func SegmentCircle(a, b, c Vec2, radius float64) (float64, bool) {
	f := a.Sub(c)
	if f.LenSq() <= radius*radius {
		return 0, true
	}
	d := b.Sub(a)
	qa := d.LenSq()
	if qa == 0 {
		return 0, false
	}
	qb := 2 * f.Dot(d)
	qc := f.LenSq() - radius*radius
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, false
	}
	t := (-qb - math.Sqrt(disc)) / (2 * qa)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// ClampCircle keeps a circle of the given radius fully inside [0,w]x[0,h].
func ClampCircle(center Vec2, radius, w, h float64) Vec2 {
	return Vec2{
		X: ClampF(center.X, radius, w-radius),
		Y: ClampF(center.Y, radius, h-radius),
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
