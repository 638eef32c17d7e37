package game

import "math"

// Vec2 is a point or displacement in world space. Y grows downward.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.W/2, r.Y + r.H/2} }

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// ContainsOpen reports whether p lies strictly inside r. Points on the edge
// are outside, which keeps a projectile grazing a wall face from registering.
func (r Rect) ContainsOpen(p Vec2) bool {
	return p.X > r.X && p.X < r.Right() && p.Y > r.Y && p.Y < r.Bottom()
}

// Clamp returns the point of r closest to p.
func (r Rect) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: clamp(p.X, r.X, r.Right()),
		Y: clamp(p.Y, r.Y, r.Bottom()),
	}
}

// Circle is a projectile's collision shape.
type Circle struct {
	Center Vec2
	Radius float64
}

// PointInRect reports whether p lies inside r, edges included.
func PointInRect(p Vec2, r Rect) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// CircleRectIntersect uses the closest-point test. A nil rect never collides:
// the opposing tank may already be gone.
func CircleRectIntersect(c Circle, r *Rect) bool {
	if r == nil {
		return false
	}
	closest := r.Clamp(c.Center)
	dx := c.Center.X - closest.X
	dy := c.Center.Y - closest.Y
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// segmentRectHitT returns the first segment parameter t in [0,1] where the
// segment a->b enters r. The bool is false when no hit exists.
func segmentRectHitT(a, b Vec2, r Rect) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if a.X < r.X || a.X > r.Right() {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (r.X - a.X) * invD
		t2 := (r.Right() - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if a.Y < r.Y || a.Y > r.Bottom() {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (r.Y - a.Y) * invD
		t2 := (r.Bottom() - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

// segmentHitsRect reports whether the segment a->b touches r.
func segmentHitsRect(a, b Vec2, r Rect) bool {
	_, hit := segmentRectHitT(a, b, r)
	return hit
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
