package game

import (
	"math/rand"
)

// TestDuel is a headless harness around Session used by tests and the
// headless report. It has no Ebiten dependency, seeds deterministically and
// can pin the board (flat ground, fixed wind, walls, tank positions) so
// ballistics are predictable.
type TestDuel struct {
	Session *Session
	Log     *MatchLog
	Store   *MemoryStore

	width, height float64
	seed          int64
	verbose       bool
	sessionOpts   []SessionOption

	flatY    *float64
	wind     *float64
	walls    []Wall
	wallsSet bool
	tankX    [2]*float64
	health   [2]*float64
	score    *int
}

// duelOptionKind controls the pass in which an option is applied.
type duelOptionKind int

const (
	duelOptInfra   duelOptionKind = iota // world size, seed, config, levels; applied first
	duelOptBoard                         // board overrides, re-applied on every level setup
	duelOptSession                       // state overrides, applied once after construction
)

// DuelOption is a builder function applied to a TestDuel during construction.
type DuelOption struct {
	kind duelOptionKind
	fn   func(*TestDuel)
}

// WithWorldSize sets the playfield dimensions.
func WithWorldSize(w, h float64) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.width = w
		td.height = h
	}}
}

// WithDuelSeed sets the RNG seed for deterministic runs.
func WithDuelSeed(seed int64) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.seed = seed
	}}
}

// WithVerbose enables per-tick projectile logging.
func WithVerbose(v bool) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.verbose = v
	}}
}

// WithDuelConfig replaces the physics constants.
func WithDuelConfig(cfg Config) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.sessionOpts = append(td.sessionOpts, WithConfig(cfg))
	}}
}

// WithDuelLevels supplies the level catalog.
func WithDuelLevels(levels ...LevelConfig) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.sessionOpts = append(td.sessionOpts, WithLevels(levels))
	}}
}

// WithSessionOption passes an option straight to NewSession.
func WithSessionOption(o SessionOption) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.sessionOpts = append(td.sessionOpts, o)
	}}
}

// WithProgress seeds the in-memory store the duel loads from.
func WithProgress(p Progress) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.Store.Progress = p
	}}
}

// WithFlatTerrain replaces generated terrain with level ground at height y.
func WithFlatTerrain(y float64) DuelOption {
	return DuelOption{duelOptInfra, func(td *TestDuel) {
		td.flatY = &y
	}}
}

// WithWind pins the wind for every level.
func WithWind(w float64) DuelOption {
	return DuelOption{duelOptBoard, func(td *TestDuel) {
		td.wind = &w
	}}
}

// WithWall adds a wall. Any WithWall replaces the generated walls.
func WithWall(x, y, w, h float64) DuelOption {
	return DuelOption{duelOptBoard, func(td *TestDuel) {
		td.walls = append(td.walls, Wall{Rect{X: x, Y: y, W: w, H: h}})
		td.wallsSet = true
	}}
}

// WithNoWalls removes generated walls.
func WithNoWalls() DuelOption {
	return DuelOption{duelOptBoard, func(td *TestDuel) {
		td.wallsSet = true
	}}
}

// WithTankX pins a tank's horizontal position.
func WithTankX(side Side, x float64) DuelOption {
	return DuelOption{duelOptBoard, func(td *TestDuel) {
		td.tankX[side] = &x
	}}
}

// WithHealth pins a tank's starting health.
func WithHealth(side Side, hp float64) DuelOption {
	return DuelOption{duelOptBoard, func(td *TestDuel) {
		td.health[side] = &hp
	}}
}

// WithScore sets the starting score.
func WithScore(score int) DuelOption {
	return DuelOption{duelOptSession, func(td *TestDuel) {
		td.score = &score
	}}
}

// NewTestDuel constructs a TestDuel from the given options in ordered passes:
//  1. Infrastructure (size, seed, config, levels, terrain shape)
//  2. Board overrides, installed as a level hook
//  3. Session state overrides
func NewTestDuel(opts ...DuelOption) *TestDuel {
	td := &TestDuel{
		width:  800,
		height: 600,
		seed:   1,
		Store:  &MemoryStore{},
	}
	for _, o := range opts {
		if o.kind == duelOptInfra {
			o.fn(td)
		}
	}
	for _, o := range opts {
		if o.kind == duelOptBoard {
			o.fn(td)
		}
	}
	for _, o := range opts {
		if o.kind == duelOptSession {
			o.fn(td)
		}
	}

	td.Log = NewMatchLog(td.verbose)
	sopts := []SessionOption{
		WithSeed(td.seed),
		WithMatchLog(td.Log),
		WithProgressStore(td.Store),
		WithMatchRecorder(td.Store),
	}
	sopts = append(sopts, td.sessionOpts...)
	sopts = append(sopts, func(s *Session) {
		if td.flatY != nil {
			y := *td.flatY
			s.terrainFn = func(w, h float64, cfg Config, _ *rand.Rand) *Terrain {
				return FlatTerrain(w, h, y, cfg)
			}
		}
		s.levelHook = td.applyBoard
	})
	td.Session = NewSession(td.width, td.height, sopts...)

	if td.score != nil {
		td.Session.score = *td.score
	}
	return td
}

// applyBoard re-pins the board after every level setup or resize.
func (td *TestDuel) applyBoard(s *Session) {
	if td.wind != nil {
		s.wind = *td.wind
	}
	for side, x := range td.tankX {
		if x != nil {
			s.tanks[side].X = *x
			s.tanks[side].FollowTerrain(s.terrain)
		}
	}
	for side, hp := range td.health {
		if hp != nil {
			s.tanks[side].Health = *hp
			s.tanks[side].MaxHP = *hp
		}
	}
	if td.wallsSet {
		s.walls = append([]Wall(nil), td.walls...)
	}
}

// Human returns the human tank.
func (td *TestDuel) Human() *Tank { return td.Session.tanks[SideHuman] }

// AI returns the AI tank.
func (td *TestDuel) AI() *Tank { return td.Session.tanks[SideAI] }

// RunTicks advances the duel n ticks.
func (td *TestDuel) RunTicks(n int) {
	for i := 0; i < n; i++ {
		td.Session.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns
// true. Returns the tick at which the predicate was satisfied, or -1.
func (td *TestDuel) RunUntil(predicate func(*TestDuel) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		td.Session.Tick()
		if predicate(td) {
			return td.Session.tick
		}
	}
	return -1
}

// RunUntilPhase runs until the session enters phase p.
func (td *TestDuel) RunUntilPhase(p Phase, maxTicks int) int {
	return td.RunUntil(func(d *TestDuel) bool { return d.Session.phase == p }, maxTicks)
}

// CurrentTick returns the current simulation tick.
func (td *TestDuel) CurrentTick() int {
	return td.Session.tick
}
