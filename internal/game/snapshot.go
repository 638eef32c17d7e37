package game

import "time"

// TankView is a read-only copy of a tank for renderers.
type TankView struct {
	Side      Side
	Name      string
	X         float64
	GroundY   float64
	Width     float64
	Height    float64
	Angle     float64
	Elevation float64
	Power     float64
	Health    float64
	MaxHealth float64
	Pivot     Vec2
	Muzzle    Vec2
	Bounds    Rect
}

// ProjectileView is a read-only copy of a live shell.
type ProjectileView struct {
	Pos    Vec2
	Radius float64
	Trail  []Vec2
	Ammo   string
	Owner  Side
}

// ExplosionView is a read-only copy of an explosion.
type ExplosionView struct {
	Pos      Vec2
	Radius   float64
	Progress float64
	Frame    int
}

// Snapshot is everything a frontend draws for one frame. It shares no
// memory with the session.
type Snapshot struct {
	Tick       int
	Now        time.Duration
	Width      float64
	Height     float64
	Level      int
	Levels     int
	Score      int
	HighScore  int
	Wind       float64
	MaxWind    float64
	Turn       Side
	Phase      Phase
	Outcome    Outcome
	AIThinking bool
	Ammo       AmmoSpec
	Message    string

	Terrain     []TerrainPoint
	Walls       []Rect
	Human       TankView
	AI          TankView
	Projectiles []ProjectileView
	Explosions  []ExplosionView
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	now := s.sched.Now()
	snap := Snapshot{
		Tick:       s.tick,
		Now:        now,
		Width:      s.width,
		Height:     s.height,
		Level:      s.level,
		Levels:     len(s.levels),
		Score:      s.score,
		HighScore:  s.highScore,
		Wind:       s.wind,
		MaxWind:    s.cfg.MaxWindDisplay,
		Turn:       s.turn,
		Phase:      s.phase,
		Outcome:    s.outcome,
		AIThinking: s.pending[SideAI],
		Ammo:       s.ammo.At(s.ammoIdx),
		Message:    s.lastMessage,
		Terrain:    append([]TerrainPoint(nil), s.terrain.Points...),
		Human:      s.tankView(s.tanks[SideHuman]),
		AI:         s.tankView(s.tanks[SideAI]),
	}
	for _, w := range s.walls {
		snap.Walls = append(snap.Walls, w.Rect)
	}
	for _, p := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			Pos:    p.Pos,
			Radius: p.Radius,
			Trail:  append([]Vec2(nil), p.Trail()...),
			Ammo:   p.Ammo.Key,
			Owner:  p.Owner.Side,
		})
	}
	for _, e := range s.explosions {
		snap.Explosions = append(snap.Explosions, ExplosionView{
			Pos:      e.Pos,
			Radius:   e.Radius,
			Progress: e.Progress(now),
			Frame:    e.Frame,
		})
	}
	return snap
}

func (s *Session) tankView(tk *Tank) TankView {
	return TankView{
		Side:      tk.Side,
		Name:      tk.Config.Name,
		X:         tk.X,
		GroundY:   tk.GroundY,
		Width:     tk.Width,
		Height:    tk.Height,
		Angle:     tk.Angle,
		Elevation: tk.Config.Elevation(tk.Angle),
		Power:     tk.Power,
		Health:    tk.Health,
		MaxHealth: tk.MaxHP,
		Pivot:     tk.Pivot(s.cfg.BarrelPivotFrac),
		Muzzle:    tk.Muzzle(s.cfg.BarrelLength, s.cfg.BarrelPivotFrac),
		Bounds:    tk.Bounds(),
	}
}

// GroundAt interpolates the snapshot's terrain at x.
func (s Snapshot) GroundAt(x float64) float64 {
	t := Terrain{Points: s.Terrain, Width: s.Width, Height: s.Height}
	return t.HeightAt(x)
}

// Status is the one-line turn indicator shown under the HUD.
func (s Snapshot) Status() string {
	switch {
	case s.Phase == PhaseAwaitingHuman:
		return "Your turn"
	case s.AIThinking:
		return "Enemy is aiming..."
	case s.Phase == PhaseShotInFlight:
		return "Shot in flight"
	}
	return ""
}
