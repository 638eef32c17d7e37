package game

import (
	"math"
	"testing"
)

func flatTank(side Side, x float64) (*Tank, *Terrain, Config) {
	cfg := DefaultConfig()
	tr := FlatTerrain(800, 600, 400, cfg)
	sc := HumanSide()
	if side == SideAI {
		sc = AISide()
	}
	return NewTank(side, sc, x, 100, cfg, tr), tr, cfg
}

func TestTank_AngleClampHuman(t *testing.T) {
	tk, _, _ := flatTank(SideHuman, 100)
	tk.AdjustAngle(500)
	if tk.Angle != 90 {
		t.Fatalf("angle = %.1f, want 90", tk.Angle)
	}
	tk.AdjustAngle(-500)
	if tk.Angle != 1 {
		t.Fatalf("angle = %.1f, want 1", tk.Angle)
	}
}

func TestTank_AngleClampAI(t *testing.T) {
	tk, _, _ := flatTank(SideAI, 700)
	tk.AdjustAngle(-500)
	if tk.Angle != 91 {
		t.Fatalf("angle = %.1f, want 91", tk.Angle)
	}
	tk.AdjustAngle(500)
	if tk.Angle != 179 {
		t.Fatalf("angle = %.1f, want 179", tk.Angle)
	}
}

func TestTank_PowerClamp(t *testing.T) {
	tk, _, cfg := flatTank(SideHuman, 100)
	tk.AdjustPower(1000, cfg.MinPower, cfg.MaxPower)
	if tk.Power != 100 {
		t.Fatalf("power = %.1f, want 100", tk.Power)
	}
	tk.AdjustPower(-1000, cfg.MinPower, cfg.MaxPower)
	if tk.Power != 10 {
		t.Fatalf("power = %.1f, want 10", tk.Power)
	}
}

func TestTank_FollowTerrain(t *testing.T) {
	tk, tr, _ := flatTank(SideHuman, 100)
	if tk.GroundY != 400 {
		t.Fatalf("ground = %.1f, want 400", tk.GroundY)
	}
	tr.Destroy(100, 400, 30, 0.7)
	tk.FollowTerrain(tr)
	if tk.GroundY <= 400 {
		t.Fatal("tank should sink into crater")
	}
}

func TestTank_FollowTerrainClampsToWorld(t *testing.T) {
	tk, tr, _ := flatTank(SideHuman, 100)
	for i := range tr.Points {
		tr.Points[i].Y = 640
	}
	tk.FollowTerrain(tr)
	if tk.GroundY != 600 {
		t.Fatalf("ground = %.1f, want clamped 600", tk.GroundY)
	}
}

func TestTank_MoveFlat(t *testing.T) {
	tk, tr, cfg := flatTank(SideHuman, 100)
	if r := tk.Move(1, cfg.MoveSpeed, cfg.MaxSlope, tr); r != MoveOK {
		t.Fatalf("move = %s", r)
	}
	if tk.X != 101.5 {
		t.Fatalf("x = %.2f, want 101.5", tk.X)
	}
}

func TestTank_MoveRejectsEdge(t *testing.T) {
	tk, tr, cfg := flatTank(SideHuman, 23)
	if r := tk.Move(-1, cfg.MoveSpeed, cfg.MaxSlope, tr); r != MoveOutOfBounds {
		t.Fatalf("move = %s, want out_of_bounds", r)
	}
	if tk.X != 23 {
		t.Fatal("x changed on rejected move")
	}
}

func TestTank_MoveRejectsSteep(t *testing.T) {
	tk, tr, cfg := flatTank(SideHuman, 100)
	// A cliff right next to the tank.
	for i := range tr.Points {
		if tr.Points[i].X > 100 {
			tr.Points[i].Y = 300
		}
	}
	if r := tk.Move(1, cfg.MoveSpeed, cfg.MaxSlope, tr); r != MoveTooSteep {
		t.Fatalf("move = %s, want too_steep", r)
	}
}

func TestTank_MuzzleFacing(t *testing.T) {
	h, _, cfg := flatTank(SideHuman, 100)
	a, _, _ := flatTank(SideAI, 700)
	h.Angle = 45
	a.Angle = 135

	hm := h.Muzzle(cfg.BarrelLength, cfg.BarrelPivotFrac)
	am := a.Muzzle(cfg.BarrelLength, cfg.BarrelPivotFrac)
	if hm.X <= h.X || hm.Y >= h.GroundY-h.Height*cfg.BarrelPivotFrac {
		t.Fatalf("human muzzle %+v should be up and to the right", hm)
	}
	if am.X >= a.X {
		t.Fatalf("ai muzzle %+v should be to the left of %.1f", am, a.X)
	}
	// Mirror images at equal elevation.
	if math.Abs((hm.X-h.X)+(am.X-a.X)) > 1e-9 || math.Abs(hm.Y-am.Y) > 1e-9 {
		t.Fatalf("muzzles not mirrored: %+v vs %+v", hm, am)
	}
}

func TestTank_MuzzleDistance(t *testing.T) {
	tk, _, cfg := flatTank(SideHuman, 100)
	tk.Angle = 30
	m := tk.Muzzle(cfg.BarrelLength, cfg.BarrelPivotFrac)
	if d := m.Dist(tk.Pivot(cfg.BarrelPivotFrac)); math.Abs(d-cfg.BarrelLength) > 1e-9 {
		t.Fatalf("barrel length %.4f, want %.1f", d, cfg.BarrelLength)
	}
}

func TestTank_ApplyDamage(t *testing.T) {
	tk, _, _ := flatTank(SideAI, 700)
	if tk.ApplyDamage(30) {
		t.Fatal("30 damage should not destroy a 100hp tank")
	}
	if !tk.ApplyDamage(200) {
		t.Fatal("expected destruction")
	}
	if tk.Health != 0 {
		t.Fatalf("health = %.1f, want 0", tk.Health)
	}
	if tk.ApplyDamage(10) {
		t.Fatal("an already destroyed tank cannot be destroyed again")
	}
}
