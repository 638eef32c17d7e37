package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is the turn controller state. Exactly one holds at any time.
type Phase int

const (
	PhaseAwaitingHuman Phase = iota
	PhaseShotInFlight
	PhaseAwaitingAI
	PhaseTurnTransition
	PhaseRoundOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingHuman:
		return "awaiting_human"
	case PhaseShotInFlight:
		return "shot_in_flight"
	case PhaseAwaitingAI:
		return "awaiting_ai"
	case PhaseTurnTransition:
		return "turn_transition"
	case PhaseRoundOver:
		return "round_over"
	default:
		return "?"
	}
}

// Outcome is how the current round ended, if it has.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeLevelCleared
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeLevelCleared:
		return "level_cleared"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "?"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range []Outcome{OutcomePending, OutcomeLevelCleared, OutcomeVictory, OutcomeDefeat} {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomePending, fmt.Errorf("unknown outcome %q", s)
}

// GameOver reports whether the campaign has ended.
func (o Outcome) GameOver() bool { return o == OutcomeVictory || o == OutcomeDefeat }

// Rejected input. Frontends may ignore these.
var (
	ErrNotYourTurn       = errors.New("not the human's turn")
	ErrShotInFlight      = errors.New("shot in flight")
	ErrRoundOver         = errors.New("round is over")
	ErrInsufficientScore = errors.New("score too low for selected ammo")
	ErrAIPending         = errors.New("decision already pending")
)

const (
	timerTurnFlip  = "turn_flip"
	timerRoundEnd  = "round_end"
	timerPilotFire = "pilot_fire"
)

const (
	minWorldW = 320
	minWorldH = 240
)

// Session owns one campaign: the level in play, both tanks, every live
// projectile and explosion, the turn state and the timer queue. It is not
// safe for concurrent use; a frontend drives it from one goroutine.
type Session struct {
	cfg    Config
	levels []LevelConfig
	ammo   AmmoCatalog
	sides  [2]SideConfig

	rng      *rand.Rand
	seed     int64
	logger   *log.Logger
	ctx      context.Context
	store    ProgressStore
	recorder MatchRecorder
	mlog     *MatchLog
	feed     *BattleFeed

	terrainFn func(w, h float64, cfg Config, rng *rand.Rand) *Terrain
	levelHook func(*Session)

	sched Scheduler
	gen   uint64
	tick  int

	width, height float64
	level         int
	score         int
	highScore     int

	terrain     *Terrain
	walls       []Wall
	tanks       [2]*Tank
	projectiles []*Projectile
	explosions  []*Explosion
	wind        float64

	turn    Side
	phase   Phase
	outcome Outcome
	ammoIdx int

	// pending marks a side whose aim has been computed and whose shot is
	// waiting on the think timer.
	pending   [2]bool
	autopilot bool
	pilotAcc  float64
	lastAim   [2]AimSolution

	stats       matchStats
	lastMessage string
}

type matchStats struct {
	startTick int
	startTime time.Duration
	shots     [2]int
	hits      [2]int
}

// SessionOption configures a Session at construction.
type SessionOption func(*Session)

// WithConfig replaces the physics and pacing constants.
func WithConfig(cfg Config) SessionOption {
	return func(s *Session) { s.cfg = cfg }
}

// WithLevels supplies the level catalog.
func WithLevels(levels []LevelConfig) SessionOption {
	return func(s *Session) {
		if len(levels) > 0 {
			s.levels = append([]LevelConfig(nil), levels...)
		}
	}
}

// WithAmmo replaces the ammo catalog.
func WithAmmo(c AmmoCatalog) SessionOption {
	return func(s *Session) {
		if len(c) > 0 {
			s.ammo = c
		}
	}
}

// WithSeed makes terrain, placement, wind, damage jitter and AI noise
// reproducible.
func WithSeed(seed int64) SessionOption {
	return func(s *Session) {
		s.seed = seed
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithContext sets the context passed to persistence calls.
func WithContext(ctx context.Context) SessionOption {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithProgressStore loads progress at start and saves it on level clear and
// on a new high score.
func WithProgressStore(ps ProgressStore) SessionOption {
	return func(s *Session) { s.store = ps }
}

// WithMatchRecorder records a MatchResult whenever a level attempt ends.
func WithMatchRecorder(mr MatchRecorder) SessionOption {
	return func(s *Session) { s.recorder = mr }
}

// WithMatchLog attaches a structured event log.
func WithMatchLog(ml *MatchLog) SessionOption {
	return func(s *Session) {
		if ml != nil {
			s.mlog = ml
		}
	}
}

// WithAutopilot lets the aim solver drive the human tank at the given
// accuracy. Used by the headless report and the demo mode.
func WithAutopilot(accuracy float64) SessionOption {
	return func(s *Session) {
		s.autopilot = true
		s.pilotAcc = accuracy
	}
}

// WithSides overrides the per-side aiming domains.
func WithSides(human, ai SideConfig) SessionOption {
	return func(s *Session) { s.sides = [2]SideConfig{human, ai} }
}

// NewSession builds a session sized width x height and sets up the level
// loaded from the progress store (level 1 if none).
func NewSession(width, height float64, opts ...SessionOption) *Session {
	s := &Session{
		cfg:       DefaultConfig(),
		levels:    DefaultLevels(),
		ammo:      DefaultAmmo(),
		sides:     [2]SideConfig{HumanSide(), AISide()},
		logger:    log.New(io.Discard),
		ctx:       context.Background(),
		mlog:      NewMatchLog(false),
		feed:      NewBattleFeed(),
		terrainFn: GenerateTerrain,
		level:     1,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.seed = time.Now().UnixNano()
		s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- game only
	}
	s.width, s.height = clampWorld(width, height)
	s.loadProgress()
	s.setupLevel(s.level)
	return s
}

func clampWorld(w, h float64) (float64, float64) {
	return math.Max(minWorldW, math.Floor(w)), math.Max(minWorldH, math.Floor(h))
}

// FitAspect returns the largest 4:3 world that fits in availW x availH,
// never smaller than 320x240.
func FitAspect(availW, availH float64) (float64, float64) {
	w := availW
	h := w * 3 / 4
	if h > availH {
		h = availH
		w = h * 4 / 3
	}
	w = math.Min(w, availW)
	return clampWorld(w, h)
}

func (s *Session) loadProgress() {
	if s.store == nil {
		return
	}
	p, err := s.store.LoadProgress(s.ctx)
	if err != nil {
		s.logger.Warn("load progress failed, starting fresh", "err", err)
		return
	}
	s.highScore = max(p.HighScore, 0)
	s.level = p.Level
	s.logger.Info("progress loaded", "high_score", s.highScore, "level", s.level)
}

func (s *Session) saveProgress() {
	if s.store == nil {
		return
	}
	lvl := min(max(s.level, 1), len(s.levels))
	if err := s.store.SaveProgress(s.ctx, Progress{HighScore: s.highScore, Level: lvl}); err != nil {
		s.logger.Warn("save progress failed", "err", err)
		return
	}
	s.logger.Debug("progress saved", "high_score", s.highScore, "level", lvl)
}

// setupLevel rebuilds the world for level n. Bumping gen invalidates every
// timer scheduled for the previous layout.
func (s *Session) setupLevel(n int) {
	n = min(max(n, 1), len(s.levels))
	s.level = n
	s.gen++
	lc := s.levels[n-1]

	s.buildBoard(lc)

	s.wind = rollWind(lc.WindRange, s.rng)

	s.turn = SideHuman
	s.phase = PhaseAwaitingHuman
	s.outcome = OutcomePending
	s.pending = [2]bool{}
	s.projectiles = nil
	s.explosions = nil
	s.lastMessage = ""
	s.stats = matchStats{startTick: s.tick, startTime: s.sched.Now()}

	if s.levelHook != nil {
		s.levelHook(s)
	}

	s.logger.Info("level ready", "level", n, "wind", fmt.Sprintf("%.2f", s.wind), "walls", len(s.walls), "enemy_hp", lc.EnemyHealth)
	s.mlog.Add(s.tick, "--", "level", "start", fmt.Sprintf("level %d wind %.2f walls %d", n, s.wind, len(s.walls)), float64(n))
	s.feed.Add(s.tick, SideHuman, true, fmt.Sprintf("Level %d  wind %+.1f", n, s.wind))
}

// buildBoard generates terrain, tanks and walls for the current size.
func (s *Session) buildBoard(lc LevelConfig) {
	s.terrain = s.terrainFn(s.width, s.height, s.cfg, s.rng)

	hx, ok := placeTankX(s.width*lc.PlayerStartX, s.terrain, s.cfg)
	if !ok {
		s.logger.Warn("no flat spot for tank, using nominal x", "side", SideHuman, "x", hx)
	}
	ax, ok := placeTankX(s.width*lc.EnemyStartX, s.terrain, s.cfg)
	if !ok {
		s.logger.Warn("no flat spot for tank, using nominal x", "side", SideAI, "x", ax)
	}
	s.tanks[SideHuman] = NewTank(SideHuman, s.sides[SideHuman], hx, s.cfg.PlayerHealth, s.cfg, s.terrain)
	s.tanks[SideAI] = NewTank(SideAI, s.sides[SideAI], ax, lc.EnemyHealth, s.cfg, s.terrain)

	walls, skipped := placeWalls(lc.WallCount, s.terrain, s.tanks[:], s.cfg, s.rng)
	if skipped > 0 {
		s.logger.Warn("walls skipped, no valid spot", "skipped", skipped, "wanted", lc.WallCount)
	}
	s.walls = walls
}

// Resize regenerates terrain and placement for a new world size. Health,
// aim, wind, turn, phase and any pending decision survive. A shot in flight
// is dropped and the turn then proceeds as if it had landed.
func (s *Session) Resize(width, height float64) {
	w, h := clampWorld(width, height)
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	if s.phase == PhaseRoundOver {
		// The next setupLevel picks the new size up.
		return
	}

	type kept struct{ health, maxHP, angle, power float64 }
	var prev [2]kept
	for i, tk := range s.tanks {
		prev[i] = kept{tk.Health, tk.MaxHP, tk.Angle, tk.Power}
	}

	s.buildBoard(s.levels[s.level-1])
	for i, tk := range s.tanks {
		tk.Health, tk.MaxHP, tk.Angle, tk.Power = prev[i].health, prev[i].maxHP, prev[i].angle, prev[i].power
	}
	s.projectiles = nil
	s.explosions = nil
	if s.levelHook != nil {
		s.levelHook(s)
	}

	s.logger.Debug("resized", "w", w, "h", h, "phase", s.phase)
	s.mlog.Add(s.tick, "--", "level", "resize", fmt.Sprintf("%.0fx%.0f", w, h), w)
}

// Restart starts a new campaign from the persisted level with score 0.
func (s *Session) Restart() {
	s.score = 0
	s.ammoIdx = 0
	s.level = 1
	s.loadProgress()
	s.setupLevel(s.level)
	s.logger.Info("restart", "level", s.level)
}

// Feed returns the HUD event feed.
func (s *Session) Feed() *BattleFeed { return s.feed }

// Log returns the structured match log.
func (s *Session) Log() *MatchLog { return s.mlog }

// Phase returns the turn controller state.
func (s *Session) Phase() Phase { return s.phase }

// Outcome returns how the round ended, if it has.
func (s *Session) Outcome() Outcome { return s.outcome }

// Score returns the human's current score.
func (s *Session) Score() int { return s.score }

// Level returns the 1-based level number.
func (s *Session) Level() int { return s.level }

// Seed returns the RNG seed the session was built with.
func (s *Session) Seed() int64 { return s.seed }

// Config returns the session's constants.
func (s *Session) Config() Config { return s.cfg }
