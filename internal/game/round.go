package game

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Tick advances the duel by one fixed step: due timers, terrain follow,
// projectiles, pilot decisions, then explosions.
func (s *Session) Tick() {
	s.tick++
	s.sched.Advance(s.cfg.TickDuration())
	s.runTimers()

	if s.phase != PhaseRoundOver {
		for _, tk := range s.tanks {
			tk.FollowTerrain(s.terrain)
		}
		s.stepProjectiles()
	}
	if s.phase != PhaseRoundOver {
		s.runPilots()
	}
	s.advanceExplosions()
}

// CurrentTick returns the number of ticks run so far.
func (s *Session) CurrentTick() int { return s.tick }

// Now returns the simulated clock.
func (s *Session) Now() time.Duration { return s.sched.Now() }

func (s *Session) runTimers() {
	for {
		ev, ok := s.sched.PopDue()
		if !ok {
			return
		}
		if ev.gen != s.gen {
			s.logger.Debug("stale timer dropped", "timer", ev.name, "gen", ev.gen, "current", s.gen)
			s.mlog.Add(s.tick, "--", "timer", "stale", ev.name, float64(ev.gen))
			continue
		}
		ev.fn()
	}
}

func (s *Session) opponent(owner *Tank) *Tank {
	if owner == nil {
		return nil
	}
	t := s.tanks[owner.Side.Other()]
	if t == nil || t.Destroyed() {
		return nil
	}
	return t
}

func (s *Session) stepProjectiles() {
	for i := 0; i < len(s.projectiles); {
		p := s.projectiles[i]
		out := p.Step(World{
			Terrain: s.terrain,
			Walls:   s.walls,
			Wind:    s.wind,
			Gravity: s.cfg.Gravity,
			Target:  s.opponent(p.Owner),
		})
		s.mlog.AddVerbose(s.tick, p.Owner.Side.String(), "projectile", "pos",
			fmt.Sprintf("%.1f,%.1f", p.Pos.X, p.Pos.Y), p.Pos.Y)
		if !out.Hit() {
			i++
			continue
		}
		s.projectiles = append(s.projectiles[:i], s.projectiles[i+1:]...)
		if s.resolveImpact(p, out) {
			return
		}
	}
	if s.phase == PhaseShotInFlight && len(s.projectiles) == 0 {
		s.beginTurnTransition()
	}
}

// resolveImpact applies explosion, cratering, damage and score for one
// finished projectile. It reports whether the round ended.
func (s *Session) resolveImpact(p *Projectile, out CollisionOutcome) bool {
	side := p.Owner.Side
	ammo := p.Ammo

	switch out.Kind {
	case HitWall:
		s.spawnExplosion(out.Point, s.cfg.WallPuffRadius)
	case HitTerrain, HitTank:
		s.spawnExplosion(out.Point, ammo.ExplosionRadius)
		n := s.terrain.Destroy(out.Point.X, out.Point.Y, ammo.ExplosionRadius, s.cfg.CraterDepth)
		s.mlog.Add(s.tick, side.String(), "explosion", "crater", fmt.Sprintf("%d points at %.0f", n, out.Point.X), float64(n))
	}
	s.mlog.Add(s.tick, side.String(), "hit", out.Kind.String(),
		fmt.Sprintf("%s at %.1f,%.1f after %d ticks", ammo.Key, out.Point.X, out.Point.Y, p.Ticks), out.Point.X)
	s.logger.Debug("projectile resolved", "owner", side, "kind", out.Kind, "x", out.Point.X, "y", out.Point.Y)

	if out.Kind != HitTank || out.Tank == nil {
		if out.Kind == OutOfBounds {
			s.feed.Add(s.tick, side, false, "Shot flew off screen")
		}
		return false
	}

	target := out.Tank
	dmg := ammo.Damage + (s.rng.Float64()-0.5)*s.cfg.DamageJitter
	killed := target.ApplyDamage(dmg)
	s.stats.hits[side]++
	s.mlog.Add(s.tick, side.String(), "hit", "damage",
		fmt.Sprintf("%s -%.1fhp -> %.1f", target.Side, dmg, target.Health), dmg)
	s.feed.Add(s.tick, side, false, fmt.Sprintf("Hit %s for %.0f", target.Config.Name, dmg))

	if side == SideHuman && target.Side == SideAI {
		s.addScore(int(math.Round(dmg)), "damage")
	}
	if !killed {
		return false
	}
	if side == SideHuman {
		s.addScore(s.cfg.KillBonus, "kill_bonus")
	}
	s.endRound(side == SideHuman)
	return true
}

func (s *Session) addScore(delta int, reason string) {
	s.score += delta
	s.mlog.Add(s.tick, SideHuman.String(), "score", reason, fmt.Sprintf("%+d -> %d", delta, s.score), float64(s.score))
}

func (s *Session) spawnExplosion(at Vec2, radius float64) {
	s.explosions = append(s.explosions, newExplosion(at, radius, s.sched.Now(), s.cfg))
}

func (s *Session) advanceExplosions() {
	now := s.sched.Now()
	live := s.explosions[:0]
	for _, e := range s.explosions {
		e.Advance(now)
		if e.Active {
			live = append(live, e)
		}
	}
	s.explosions = live
}

// endRound freezes the board and schedules the level result after a short
// delay so the final explosion can play.
func (s *Session) endRound(humanWon bool) {
	s.phase = PhaseRoundOver
	s.projectiles = nil
	s.pending = [2]bool{}
	if humanWon {
		s.lastMessage = "Enemy destroyed!"
	} else {
		s.lastMessage = "You were destroyed!"
	}
	s.mlog.Add(s.tick, "--", "turn", "round_over", s.lastMessage, 0)
	s.feed.Add(s.tick, SideHuman, true, s.lastMessage)
	s.logger.Info("round over", "human_won", humanWon, "score", s.score, "level", s.level)
	s.sched.After(s.cfg.KillResolveDelay, s.gen, timerRoundEnd, func() { s.resolveRound(humanWon) })
}

func (s *Session) resolveRound(humanWon bool) {
	if s.outcome.GameOver() {
		return
	}
	if !humanWon {
		s.finish(OutcomeDefeat)
		return
	}
	if s.level >= len(s.levels) {
		s.finish(OutcomeVictory)
		return
	}
	s.recordMatch(OutcomeLevelCleared)
	s.mlog.Add(s.tick, "--", "level", "cleared", fmt.Sprintf("level %d score %d", s.level, s.score), float64(s.level))
	s.level++
	s.saveProgress()
	s.setupLevel(s.level)
}

func (s *Session) finish(o Outcome) {
	s.phase = PhaseRoundOver
	s.outcome = o
	switch o {
	case OutcomeVictory:
		s.lastMessage = fmt.Sprintf("All levels cleared! Score: %d", s.score)
		if s.score > s.highScore {
			s.highScore = s.score
			s.mlog.Add(s.tick, "--", "score", "high_score", fmt.Sprintf("%d", s.score), float64(s.score))
			s.saveProgress()
		}
	case OutcomeDefeat:
		s.lastMessage = "Defeat!"
	}
	s.mlog.Add(s.tick, "--", "level", o.String(), s.lastMessage, float64(s.score))
	s.feed.Add(s.tick, SideHuman, true, s.lastMessage)
	s.logger.Info("game over", "outcome", o, "score", s.score, "high_score", s.highScore)
	s.recordMatch(o)
}

func (s *Session) recordMatch(o Outcome) {
	if s.recorder == nil {
		return
	}
	r := MatchResult{
		ID:         uuid.New().String(),
		Level:      s.level,
		Outcome:    o,
		Score:      s.score,
		Shots:      s.stats.shots[SideHuman],
		Hits:       s.stats.hits[SideHuman],
		AIShots:    s.stats.shots[SideAI],
		AIHits:     s.stats.hits[SideAI],
		Ticks:      s.tick - s.stats.startTick,
		Duration:   s.sched.Now() - s.stats.startTime,
		FinishedAt: time.Now().UTC(),
	}
	if err := s.recorder.RecordMatch(s.ctx, r); err != nil {
		s.logger.Warn("record match failed", "err", err, "id", r.ID)
	}
}

func (s *Session) beginTurnTransition() {
	s.phase = PhaseTurnTransition
	from := s.turn
	s.mlog.Add(s.tick, from.String(), "turn", "transition", "waiting to flip", 0)
	s.sched.After(s.cfg.TurnFlipDelay, s.gen, timerTurnFlip, func() { s.flipTurn(from) })
}

// flipTurn hands the turn to the other side. It refuses when the state it
// was scheduled for no longer holds.
func (s *Session) flipTurn(from Side) bool {
	if s.phase != PhaseTurnTransition || s.turn != from {
		s.logger.Debug("turn flip skipped", "phase", s.phase, "turn", s.turn, "expected", from)
		s.mlog.Add(s.tick, "--", "timer", "flip_skipped", s.phase.String(), 0)
		return false
	}
	if len(s.projectiles) > 0 {
		s.logger.Warn("turn flip with projectiles in flight", "count", len(s.projectiles))
		return false
	}
	s.turn = from.Other()
	s.pending[s.turn] = false
	if s.turn == SideHuman {
		s.phase = PhaseAwaitingHuman
	} else {
		s.phase = PhaseAwaitingAI
	}
	s.mlog.Add(s.tick, s.turn.String(), "turn", "start", s.phase.String(), 0)
	return true
}

func (s *Session) runPilots() {
	switch {
	case s.phase == PhaseAwaitingAI && !s.pending[SideAI]:
		_ = s.beginDecision(SideAI)
	case s.phase == PhaseAwaitingHuman && s.autopilot && !s.pending[SideHuman]:
		_ = s.beginDecision(SideHuman)
	}
}

func awaitingPhase(side Side) Phase {
	if side == SideHuman {
		return PhaseAwaitingHuman
	}
	return PhaseAwaitingAI
}

// beginDecision runs the aim search for side, writes the result onto its
// tank and schedules the shot after a think delay.
func (s *Session) beginDecision(side Side) error {
	if s.pending[side] {
		return ErrAIPending
	}
	if s.phase == PhaseRoundOver {
		return ErrRoundOver
	}
	if s.phase != awaitingPhase(side) || s.turn != side {
		return ErrNotYourTurn
	}

	acc := s.pilotAcc
	if side == SideAI {
		acc = s.levels[s.level-1].EnemyAccuracy
	}
	tk := s.tanks[side]
	sol := SolveAim(AimInput{
		Shooter:  tk,
		Target:   s.tanks[side.Other()],
		Terrain:  s.terrain,
		Walls:    s.walls,
		Wind:     s.wind,
		Accuracy: acc,
	}, s.cfg, s.rng)
	tk.Angle, tk.Power = sol.Angle, sol.Power
	s.lastAim[side] = sol
	s.pending[side] = true

	think := s.cfg.AIThinkMin + time.Duration(s.rng.Float64()*float64(s.cfg.AIThinkJitter))
	s.sched.After(think, s.gen, timerPilotFire, func() { s.pilotFire(side) })

	s.logger.Debug("aim chosen", "side", side, "angle", fmt.Sprintf("%.1f", sol.Angle),
		"power", fmt.Sprintf("%.1f", sol.Power), "miss", fmt.Sprintf("%.1f", sol.Error), "think", think)
	s.mlog.Add(s.tick, side.String(), "ai", "aim",
		fmt.Sprintf("angle %.1f power %.1f miss %.1f feasible %v", sol.Angle, sol.Power, sol.Error, sol.Feasible), sol.Error)
	return nil
}

func (s *Session) pilotFire(side Side) {
	defer func() { s.pending[side] = false }()
	if s.phase != awaitingPhase(side) || s.turn != side {
		s.logger.Debug("pilot fire aborted", "side", side, "phase", s.phase, "turn", s.turn)
		s.mlog.Add(s.tick, side.String(), "timer", "fire_aborted", s.phase.String(), 0)
		return
	}
	if side == SideAI {
		s.launch(s.tanks[SideAI], s.ammo.Baseline())
		return
	}
	if err := s.Fire(); err != nil {
		s.logger.Debug("autopilot fire rejected", "err", err)
	}
}

func (s *Session) launch(tk *Tank, ammo AmmoSpec) {
	s.projectiles = append(s.projectiles, NewProjectile(tk, ammo, s.cfg))
	s.phase = PhaseShotInFlight
	s.stats.shots[tk.Side]++
	s.mlog.Add(s.tick, tk.Side.String(), "fire", ammo.Key,
		fmt.Sprintf("angle %.1f power %.1f", tk.Angle, tk.Power), tk.Power)
	s.feed.Add(s.tick, tk.Side, false, fmt.Sprintf("%s fires %s (%.0f deg, %.0f)", tk.Config.Name, ammo.Name, tk.Angle, tk.Power))
}
