package game

import (
	"math"
	"math/rand"
	"sort"
)

// TerrainPoint is one vertex of the ground polyline.
type TerrainPoint struct {
	X, Y float64
}

// Terrain is a height field stored as a polyline with strictly increasing X
// spanning [0, Width]. Larger Y means lower ground.
type Terrain struct {
	Points []TerrainPoint
	Width  float64
	Height float64

	// floor is the deepest Y a crater may reach.
	floor float64
}

// GenerateTerrain builds a gently rolling profile: a small random walk,
// exponentially smoothed and clamped into the configured height band.
func GenerateTerrain(width, height float64, cfg Config, rng *rand.Rand) *Terrain {
	res := cfg.TerrainResolution
	if res <= 0 {
		res = 8
	}
	segments := int(math.Ceil(width / res))
	if segments < 1 {
		segments = 1
	}

	lo := height * cfg.TerrainClampMin
	hi := height * cfg.TerrainClampMax
	maxTotal := height * cfg.TerrainVariation
	s := cfg.TerrainSmoothness

	cur := height * (cfg.TerrainStartMin + rng.Float64()*(cfg.TerrainStartMax-cfg.TerrainStartMin))
	cur = clamp(cur, lo, hi)

	pts := make([]TerrainPoint, 0, segments+2)
	pts = append(pts, TerrainPoint{X: 0, Y: cur})
	for i := 1; i <= segments; i++ {
		x := math.Min(float64(i)*res, width)
		dy := (rng.Float64() - 0.5) * (maxTotal / float64(segments)) * 5
		next := clamp(cur+dy, lo, hi)
		cur = cur*s + next*(1-s)
		if x <= pts[len(pts)-1].X {
			continue
		}
		pts = append(pts, TerrainPoint{X: x, Y: cur})
	}
	if last := pts[len(pts)-1]; last.X < width {
		pts = append(pts, TerrainPoint{X: width, Y: cur})
	}

	return &Terrain{Points: pts, Width: width, Height: height, floor: height + cfg.CraterMargin}
}

// FlatTerrain returns a level profile at height y. Used by tests and by the
// headless tools when a reproducible board is needed.
func FlatTerrain(width, height, y float64, cfg Config) *Terrain {
	res := cfg.TerrainResolution
	if res <= 0 {
		res = 8
	}
	n := int(math.Ceil(width / res))
	if n < 1 {
		n = 1
	}
	pts := make([]TerrainPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, TerrainPoint{X: math.Min(float64(i)*res, width), Y: y})
	}
	return &Terrain{Points: pts, Width: width, Height: height, floor: height + cfg.CraterMargin}
}

// HeightAt interpolates the ground height at x. Outside the polyline the
// nearest edge height is returned.
func (t *Terrain) HeightAt(x float64) float64 {
	n := len(t.Points)
	if n == 0 {
		return t.Height
	}
	if n == 1 || x <= t.Points[0].X {
		return t.Points[0].Y
	}
	if x >= t.Points[n-1].X {
		return t.Points[n-1].Y
	}
	// First index whose X is >= x; i >= 1 here.
	i := sort.Search(n, func(i int) bool { return t.Points[i].X >= x })
	p1, p2 := t.Points[i-1], t.Points[i]
	if p2.X == p1.X {
		return p1.Y
	}
	ratio := (x - p1.X) / (p2.X - p1.X)
	return p1.Y + ratio*(p2.Y-p1.Y)
}

// Destroy carves a crater with a cosine falloff around (cx, cy). Points well
// above the blast are left alone. Ground only ever sinks. It returns the
// number of points that moved.
func (t *Terrain) Destroy(cx, cy, radius float64, depthFrac float64) int {
	if radius <= 0 {
		return 0
	}
	changed := 0
	r2 := radius * radius
	for i := range t.Points {
		p := &t.Points[i]
		if p.Y < cy-radius*0.5 {
			continue
		}
		dx := p.X - cx
		dy := p.Y - cy
		d2 := dx*dx + dy*dy
		if d2 >= r2 {
			continue
		}
		dist := math.Sqrt(d2)
		depth := radius * depthFrac * math.Cos(dist/radius*math.Pi/2)
		ny := math.Min(p.Y+depth, t.floor)
		if ny > p.Y {
			p.Y = ny
			changed++
		}
	}
	return changed
}

// Bounds returns the minimum and maximum point heights.
func (t *Terrain) Bounds() (lo, hi float64) {
	if len(t.Points) == 0 {
		return t.Height, t.Height
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range t.Points {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi
}

// SlopeBetween is |Δheight|/|Δx| between two abscissae. ok is false for a
// zero-width interval.
func (t *Terrain) SlopeBetween(x0, x1 float64) (slope float64, ok bool) {
	dx := math.Abs(x1 - x0)
	if dx < 1e-9 {
		return 0, false
	}
	return math.Abs(t.HeightAt(x1)-t.HeightAt(x0)) / dx, true
}

// Clone returns a deep copy for snapshots.
func (t *Terrain) Clone() *Terrain {
	cp := *t
	cp.Points = append([]TerrainPoint(nil), t.Points...)
	return &cp
}
