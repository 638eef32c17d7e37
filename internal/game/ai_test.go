package game

import (
	"math"
	"math/rand"
	"testing"
)

func aimSetup(walls []Wall) (AimInput, Config) {
	cfg := DefaultConfig()
	tr := FlatTerrain(800, 600, 400, cfg)
	ai := NewTank(SideAI, AISide(), 700, 100, cfg, tr)
	human := NewTank(SideHuman, HumanSide(), 150, 100, cfg, tr)
	return AimInput{Shooter: ai, Target: human, Terrain: tr, Walls: walls, Accuracy: 1}, cfg
}

func TestTimeToHeight_SmallerPositiveRoot(t *testing.T) {
	got, ok := timeToHeight(-5, 0.1, -50)
	if !ok {
		t.Fatal("expected a solution")
	}
	want := (5 - math.Sqrt(15)) / 0.1
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("t = %.4f, want %.4f (rising root)", got, want)
	}
}

func TestTimeToHeight_LargerRootWhenOnlyOnePositive(t *testing.T) {
	got, ok := timeToHeight(-5, 0.1, 0)
	if !ok || math.Abs(got-100) > 1e-9 {
		t.Fatalf("t = %.4f ok=%v, want 100", got, ok)
	}
}

func TestTimeToHeight_Unreachable(t *testing.T) {
	if _, ok := timeToHeight(-1, 0.1, -100); ok {
		t.Fatal("target above apex should be rejected")
	}
}

func TestSolveAim_LegalAcrossAccuracies(t *testing.T) {
	in, cfg := aimSetup(nil)
	rng := rand.New(rand.NewSource(99)) // #nosec G404 -- test
	for i := 0; i <= 20; i++ {
		in.Accuracy = float64(i) / 20
		for k := 0; k < 25; k++ {
			in.Wind = (rng.Float64() - 0.5) * 10
			sol := SolveAim(in, cfg, rng)
			if sol.Angle < 91 || sol.Angle > 179 {
				t.Fatalf("acc %.2f: angle %.3f outside [91,179]", in.Accuracy, sol.Angle)
			}
			if sol.Power < 10 || sol.Power > 100 {
				t.Fatalf("acc %.2f: power %.3f outside [10,100]", in.Accuracy, sol.Power)
			}
		}
	}
}

func TestSolveAim_ExtremeAccuracyValuesClamped(t *testing.T) {
	in, cfg := aimSetup(nil)
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- test
	for _, acc := range []float64{-3, 7} {
		in.Accuracy = acc
		sol := SolveAim(in, cfg, rng)
		if sol.Angle < 91 || sol.Angle > 179 || sol.Power < 10 || sol.Power > 100 {
			t.Fatalf("acc %.1f produced illegal aim %+v", acc, sol)
		}
	}
}

func TestSolveAim_PerfectAccuracyLandsNearTarget(t *testing.T) {
	in, cfg := aimSetup(nil)
	rng := rand.New(rand.NewSource(4)) // #nosec G404 -- test
	sol := SolveAim(in, cfg, rng)
	if !sol.Feasible {
		t.Fatal("expected a feasible solution on open ground")
	}
	if sol.Angle != sol.BestAngle || sol.Power != sol.BestPower {
		t.Fatal("accuracy 1 must not add noise")
	}
	if sol.Error > 30 {
		t.Fatalf("grid winner misses by %.1f px", sol.Error)
	}

	in.Shooter.Angle = sol.Angle
	in.Shooter.Power = sol.Power
	p := NewProjectile(in.Shooter, DefaultAmmo().Baseline(), cfg)
	w := World{Terrain: in.Terrain, Gravity: cfg.Gravity, Target: in.Target}
	for i := 0; i < 5000; i++ {
		out := p.Step(w)
		if !out.Hit() {
			continue
		}
		if out.Kind == OutOfBounds {
			t.Fatalf("shot left the world at %+v", out.Point)
		}
		if d := math.Abs(out.Point.X - in.Target.X); d > 60 {
			t.Fatalf("shot landed %.1f px from target", d)
		}
		return
	}
	t.Fatal("shot never resolved")
}

func TestSolveAim_ShootsTowardTarget(t *testing.T) {
	in, cfg := aimSetup(nil)
	rng := rand.New(rand.NewSource(8)) // #nosec G404 -- test
	sol := SolveAim(in, cfg, rng)
	dir := fireDirection(in.Shooter.Config, sol.Angle)
	if dir.X >= 0 {
		t.Fatalf("right-hand tank fired with vx direction %.3f, want negative", dir.X)
	}
}

func TestSolveAim_UnreachableTargetFallsBack(t *testing.T) {
	in, cfg := aimSetup(nil)
	// Full power gives an apex of (100/6+2)^2/(2*0.1) ~ 1742px; park the
	// target far above that so no candidate ever reaches its height.
	in.Target.GroundY = -3000
	rng := rand.New(rand.NewSource(2)) // #nosec G404 -- test
	sol := SolveAim(in, cfg, rng)
	if sol.Feasible {
		t.Fatalf("target above every apex solved: best=%.1f/%.1f", sol.BestAngle, sol.BestPower)
	}
	if sol.Angle != cfg.AIFallbackAng || sol.Power != cfg.AIFallbackPow {
		t.Fatalf("fallback = %.1f/%.1f, want %.1f/%.1f", sol.Angle, sol.Power, cfg.AIFallbackAng, cfg.AIFallbackPow)
	}
	if sol.Rejected != sol.Tried || sol.Tried == 0 {
		t.Fatalf("rejected %d of %d candidates, want all", sol.Rejected, sol.Tried)
	}
}

func TestSolveAim_DoesNotMutateWorld(t *testing.T) {
	in, cfg := aimSetup(nil)
	before := in.Terrain.Clone()
	angle, power := in.Shooter.Angle, in.Shooter.Power
	SolveAim(in, cfg, rand.New(rand.NewSource(3))) // #nosec G404 -- test
	for i := range before.Points {
		if before.Points[i] != in.Terrain.Points[i] {
			t.Fatal("solver modified terrain")
		}
	}
	if in.Shooter.Angle != angle || in.Shooter.Power != power {
		t.Fatal("solver must leave the tank to its caller")
	}
}

func TestSolveAim_MirroredSideForAutopilot(t *testing.T) {
	in, cfg := aimSetup(nil)
	in.Shooter, in.Target = in.Target, in.Shooter
	rng := rand.New(rand.NewSource(5)) // #nosec G404 -- test
	sol := SolveAim(in, cfg, rng)
	if sol.Angle < 1 || sol.Angle > 90 {
		t.Fatalf("human-side angle %.2f outside [1,90]", sol.Angle)
	}
	if !sol.Feasible {
		t.Fatal("expected a feasible solution for the left tank")
	}
}
