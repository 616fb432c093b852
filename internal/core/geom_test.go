package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"non-overlapping vertical", NewRect(0, 0, 10, 10), NewRect(0, 15, 10, 10), false},
		{"adjacent horizontal (no overlap)", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), false},
		{"contained rect", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		p        Vec2
		expected bool
	}{
		{"inside", V(15, 15), true},
		{"top-left corner", V(10, 10), true},
		{"bottom-right corner", V(30, 25), true},
		{"outside left", V(5, 15), false},
		{"outside bottom", V(15, 30), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestVecNormalize(t *testing.T) {
	n := V(3, 4).Normalize()
	if !approx(n.X, 0.6) || !approx(n.Y, 0.8) {
		t.Errorf("Normalize() = %v, expected (0.6, 0.8)", n)
	}
	if z := (Vec2{}).Normalize(); !z.IsZero() {
		t.Errorf("Normalize() of zero = %v, expected zero", z)
	}
	if l := V(10, 0).ClampLen(2).Len(); !approx(l, 2) {
		t.Errorf("ClampLen(2).Len() = %f, expected 2", l)
	}
}

func TestResolveCircleRect(t *testing.T) {
	wall := NewRect(100, 100, 50, 50)

	tests := []struct {
		name    string
		center  Vec2
		radius  float64
		hit     bool
		checkFn func(Vec2) bool
	}{
		{
			name:   "clear of rect",
			center: V(50, 50), radius: 10, hit: false,
			checkFn: func(p Vec2) bool { return p == V(50, 50) },
		},
		{
			name:   "overlapping left edge",
			center: V(95, 125), radius: 10, hit: true,
			checkFn: func(p Vec2) bool { return approx(p.X, 90) && approx(p.Y, 125) },
		},
		{
			name:   "overlapping corner",
			center: V(155, 155), radius: 10, hit: true,
			checkFn: func(p Vec2) bool { return approx(p.Sub(V(150, 150)).Len(), 10) },
		},
		{
			name:   "center inside near top",
			center: V(125, 102), radius: 10, hit: true,
			checkFn: func(p Vec2) bool { return approx(p.Y, 90) && approx(p.X, 125) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := ResolveCircleRect(tc.center, tc.radius, wall)
			if hit != tc.hit {
				t.Errorf("ResolveCircleRect() hit = %v, expected %v", hit, tc.hit)
			}
			if !tc.checkFn(got) {
				t.Errorf("ResolveCircleRect() = %v, unexpected position", got)
			}
		})
	}
}

func TestResolveCircleRectsLeavesNoOverlap(t *testing.T) {
	rects := []Rect{NewRect(0, 0, 40, 40), NewRect(40, 0, 40, 40)}
	p := ResolveCircleRects(V(40, 45), 12, rects, 4)
	for _, r := range rects {
		c := r.ClosestPoint(p)
		if c.Dist(p) < 12-eps {
			t.Errorf("circle at %v still overlaps %v", p, r)
		}
	}
}

func TestSegmentRect(t *testing.T) {
	r := NewRect(10, -5, 10, 10)

	tests := []struct {
		name  string
		a, b  Vec2
		hit   bool
		tWant float64
	}{
		{"straight through", V(0, 0), V(40, 0), true, 0.25},
		{"stops short", V(0, 0), V(5, 0), false, 0},
		{"passes above", V(0, -10), V(40, -10), false, 0},
		{"starts inside", V(15, 0), V(40, 0), true, 0},
		{"diagonal", V(0, -20), V(30, 10), true, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt, hit := SegmentRect(tc.a, tc.b, r)
			if hit != tc.hit {
				t.Fatalf("SegmentRect() hit = %v, expected %v", hit, tc.hit)
			}
			if hit && !approx(tt, tc.tWant) {
				t.Errorf("SegmentRect() t = %f, expected %f", tt, tc.tWant)
			}
		})
	}
}

func TestSegmentCircle(t *testing.T) {
	tt, hit := SegmentCircle(V(0, 0), V(100, 0), V(50, 0), 10)
	if !hit || !approx(tt, 0.4) {
		t.Errorf("SegmentCircle() = (%f, %v), expected (0.4, true)", tt, hit)
	}
	if _, hit := SegmentCircle(V(0, 20), V(100, 20), V(50, 0), 10); hit {
		t.Error("SegmentCircle() should miss a parallel offset segment")
	}
	if _, hit := SegmentCircle(V(0, 0), V(30, 0), V(50, 0), 10); hit {
		t.Error("SegmentCircle() should miss when segment ends before circle")
	}
	if tt, hit := SegmentCircle(V(50, 5), V(100, 5), V(50, 0), 10); !hit || tt != 0 {
		t.Errorf("SegmentCircle() from inside = (%f, %v), expected (0, true)", tt, hit)
	}
}

func TestClampCircle(t *testing.T) {
	p := ClampCircle(V(-5, 300), 10, 200, 200)
	if p != V(10, 190) {
		t.Errorf("ClampCircle() = %v, expected (10, 190)", p)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}
