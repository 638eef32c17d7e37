package game

// HitKind tags a CollisionOutcome.
type HitKind int

const (
	NoHit HitKind = iota
	HitWall
	HitTerrain
	HitTank
	OutOfBounds
)

func (k HitKind) String() string {
	switch k {
	case NoHit:
		return "none"
	case HitWall:
		return "wall"
	case HitTerrain:
		return "terrain"
	case HitTank:
		return "tank"
	case OutOfBounds:
		return "out_of_bounds"
	default:
		return "?"
	}
}

// CollisionOutcome is the single result of one projectile step.
// Tank is set only for HitTank; Wall only for HitWall.
type CollisionOutcome struct {
	Kind  HitKind
	Point Vec2
	Tank  *Tank
	Wall  int
}

// Hit reports whether the projectile is finished.
func (o CollisionOutcome) Hit() bool { return o.Kind != NoHit }

// Projectile is a shell in flight.
type Projectile struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Ammo   AmmoSpec
	Owner  *Tank
	Ticks  int

	trail    []Vec2
	trailCap int
}

// NewProjectile launches a shell from the owner's muzzle using its current
// angle and power.
func NewProjectile(owner *Tank, ammo AmmoSpec, cfg Config) *Projectile {
	dir := owner.FireDirection()
	v := cfg.MuzzleSpeed(owner.Power)
	return &Projectile{
		Pos:      owner.Muzzle(cfg.BarrelLength, cfg.BarrelPivotFrac),
		Vel:      Vec2{dir.X * v, dir.Y * v},
		Radius:   cfg.ProjectileRadius,
		Ammo:     ammo,
		Owner:    owner,
		trailCap: cfg.TrailLength,
	}
}

// Trail returns recent positions, oldest first.
func (p *Projectile) Trail() []Vec2 { return p.trail }

// World is what a projectile collides with.
type World struct {
	Terrain *Terrain
	Walls   []Wall
	Wind    float64
	Gravity float64
	// Target is the tank the projectile can damage; nil means none.
	Target *Tank
}

// WindAccel converts a wind value into horizontal acceleration per tick.
func WindAccel(wind float64) float64 { return wind / 60 }

// Integrate advances one Euler step without any collision test.
func (p *Projectile) Integrate(wind, gravity float64) {
	p.Pos.X += p.Vel.X
	p.Pos.Y += p.Vel.Y
	p.Vel.X += WindAccel(wind)
	p.Vel.Y += gravity
	p.Ticks++

	if p.trailCap > 0 {
		p.trail = append(p.trail, p.Pos)
		if len(p.trail) > p.trailCap {
			p.trail = p.trail[1:]
		}
	}
}

// Step integrates one tick and resolves collisions in priority order:
// walls, terrain, opposing tank, bounds.
func (p *Projectile) Step(w World) CollisionOutcome {
	p.Integrate(w.Wind, w.Gravity)
	return p.Collide(w)
}

// Collide tests the current position against the world.
func (p *Projectile) Collide(w World) CollisionOutcome {
	for i, wall := range w.Walls {
		if wall.Inflate(p.Radius).ContainsOpen(p.Pos) {
			return CollisionOutcome{Kind: HitWall, Point: wall.Clamp(p.Pos), Wall: i}
		}
	}

	if w.Terrain != nil {
		ty := w.Terrain.HeightAt(p.Pos.X)
		if p.Pos.Y >= ty {
			return CollisionOutcome{Kind: HitTerrain, Point: Vec2{p.Pos.X, ty}}
		}
	}

	if w.Target != nil && w.Target != p.Owner {
		b := w.Target.Bounds()
		if CircleRectIntersect(Circle{Center: p.Pos, Radius: p.Radius}, &b) {
			return CollisionOutcome{Kind: HitTank, Point: p.Pos, Tank: w.Target}
		}
	}

	width, height := 0.0, 0.0
	if w.Terrain != nil {
		width, height = w.Terrain.Width, w.Terrain.Height
	}
	if p.Pos.X < -p.Radius || p.Pos.X > width+p.Radius ||
		p.Pos.Y > height+p.Radius || p.Pos.Y < -height*2 {
		return CollisionOutcome{Kind: OutOfBounds, Point: p.Pos}
	}

	return CollisionOutcome{Kind: NoHit}
}
