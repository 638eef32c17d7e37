package game

import "time"

// Explosion is a visual marker. Damage and cratering are applied when it is
// created; afterwards it only counts frames until it expires.
type Explosion struct {
	Pos      Vec2
	Radius   float64
	Start    time.Duration
	Duration time.Duration
	Frames   int
	Frame    int
	Active   bool
}

func newExplosion(pos Vec2, radius float64, now time.Duration, cfg Config) *Explosion {
	return &Explosion{
		Pos:      pos,
		Radius:   radius,
		Start:    now,
		Duration: cfg.ExplosionDuration,
		Frames:   cfg.ExplosionFrames,
		Active:   true,
	}
}

// Advance updates the frame index for time now and clears Active once the
// duration has elapsed.
func (e *Explosion) Advance(now time.Duration) {
	elapsed := now - e.Start
	if elapsed >= e.Duration || e.Duration <= 0 {
		e.Active = false
		return
	}
	f := int(float64(elapsed) / float64(e.Duration) * float64(e.Frames))
	if f > e.Frames-1 {
		f = e.Frames - 1
	}
	if f < 0 {
		f = 0
	}
	e.Frame = f
}

// Progress is elapsed/duration in [0,1].
func (e *Explosion) Progress(now time.Duration) float64 {
	if e.Duration <= 0 {
		return 1
	}
	return clamp(float64(now-e.Start)/float64(e.Duration), 0, 1)
}
