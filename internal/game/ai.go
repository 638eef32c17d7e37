package game

import (
	"math"
	"math/rand"
)

// AimInput is everything the aim search reads. Nothing in it is mutated.
type AimInput struct {
	Shooter  *Tank
	Target   *Tank
	Terrain  *Terrain
	Walls    []Wall
	Wind     float64
	Accuracy float64
}

// AimSolution is the chosen firing solution.
type AimSolution struct {
	Angle float64
	Power float64

	// BestAngle/BestPower are the grid winner before noise.
	BestAngle float64
	BestPower float64
	// Error is the predicted horizontal miss of the grid winner.
	Error float64
	// Feasible means at least one candidate reached the target height with a
	// clear path up to that point. It does not promise a hit.
	Feasible bool

	Tried    int
	Rejected int
}

// SolveAim brute-forces (angle, power) over the shooter's legal domain,
// predicts where each shot crosses the target's centre height, and keeps the
// closest candidate whose path clears walls and terrain. Noise scaled by
// (1-accuracy) is added to the winner.
func SolveAim(in AimInput, cfg Config, rng *rand.Rand) AimSolution {
	sc := in.Shooter.Config
	g := cfg.Gravity
	ax := WindAccel(in.Wind)
	target := in.Target.Center()

	sol := AimSolution{Error: math.Inf(1)}
	sol.BestAngle, sol.BestPower = fallbackAim(sc, cfg)

	powerSteps := max(cfg.AIPowerSteps, 1)
	angleSteps := max(cfg.AIAngleSteps, 1)
	pStep := (cfg.MaxPower - cfg.MinPower) / float64(powerSteps)
	aStep := (sc.MaxAngle - sc.MinAngle) / float64(angleSteps)

	trial := *in.Shooter

	for i := 0; i <= powerSteps; i++ {
		power := cfg.MinPower + float64(i)*pStep
		v := cfg.MuzzleSpeed(power)
		for j := 0; j < angleSteps; j++ {
			angle := sc.MinAngle + float64(j)*aStep
			sol.Tried++

			trial.Angle = angle
			start := trial.Muzzle(cfg.BarrelLength, cfg.BarrelPivotFrac)
			dir := fireDirection(sc, angle)
			vx, vy := dir.X*v, dir.Y*v
			if math.Abs(vx) < 0.01 {
				sol.Rejected++
				continue
			}

			t, ok := timeToHeight(vy, g, target.Y-start.Y)
			if !ok {
				sol.Rejected++
				continue
			}

			px := start.X + vx*t + 0.5*ax*t*t
			miss := math.Abs(px - target.X)
			if miss >= sol.Error {
				continue
			}
			if pathBlocked(start, vx, vy, ax, g, t, in, cfg.AICheckSteps) {
				sol.Rejected++
				continue
			}
			sol.Error = miss
			sol.BestAngle = angle
			sol.BestPower = power
			sol.Feasible = true
		}
	}

	acc := clamp(in.Accuracy, 0, 1)
	angleNoise := (rng.Float64() - 0.5) * (1 - acc) * cfg.AIAngleNoise
	powerNoise := (rng.Float64() - 0.5) * (1 - acc) * cfg.AIPowerNoise
	sol.Angle = sc.ClampAngle(sol.BestAngle + angleNoise)
	sol.Power = clamp(sol.BestPower+powerNoise, cfg.MinPower, cfg.MaxPower)
	return sol
}

// timeToHeight solves y0 + vy*t + g*t²/2 = y0 + dy for t. With two positive
// roots the earlier one wins, otherwise the larger root is used.
func timeToHeight(vy, g, dy float64) (float64, bool) {
	if g == 0 {
		if vy == 0 {
			return 0, false
		}
		t := dy / vy
		return t, t > 0
	}
	disc := vy*vy + 2*g*dy
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-vy + sq) / g
	t2 := (-vy - sq) / g
	var t float64
	if t1 > 0 && t2 > 0 {
		t = math.Min(t1, t2)
	} else {
		t = math.Max(t1, t2)
	}
	if t <= 0 || math.IsNaN(t) {
		return 0, false
	}
	return t, true
}

// pathBlocked samples the analytic path up to time t and reports whether it
// leaves the world, crosses a wall, or dips under the ground first.
func pathBlocked(start Vec2, vx, vy, ax, g, t float64, in AimInput, steps int) bool {
	if steps < 1 {
		steps = 1
	}
	prev := start
	for k := 1; k <= steps; k++ {
		ts := t * float64(k) / float64(steps)
		cur := Vec2{
			X: start.X + vx*ts + 0.5*ax*ts*ts,
			Y: start.Y + vy*ts + 0.5*g*ts*ts,
		}
		if cur.X < 0 || cur.X > in.Terrain.Width {
			return true
		}
		for _, w := range in.Walls {
			if w.ContainsOpen(cur) || segmentHitsRect(prev, cur, w.Rect) {
				return true
			}
		}
		if cur.Y >= in.Terrain.HeightAt(cur.X) {
			return true
		}
		prev = cur
	}
	return false
}

func fallbackAim(sc SideConfig, cfg Config) (angle, power float64) {
	angle = cfg.AIFallbackAng
	if angle < sc.MinAngle || angle > sc.MaxAngle {
		angle = 180 - angle
	}
	return sc.ClampAngle(angle), clamp(cfg.AIFallbackPow, cfg.MinPower, cfg.MaxPower)
}
