package game

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLevels_Valid(t *testing.T) {
	if err := ValidateLevels(DefaultLevels()); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
}

func TestValidateLevels_Empty(t *testing.T) {
	if err := ValidateLevels(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("err = %v, want ErrEmptyCatalog", err)
	}
}

func TestValidateLevels_ReportsEveryProblem(t *testing.T) {
	bad := []LevelConfig{
		{WindRange: -1, EnemyHealth: 100, EnemyAccuracy: 0.5, PlayerStartX: 0.1, EnemyStartX: 0.9},
		{WindRange: 1, EnemyHealth: 0, EnemyAccuracy: 1.5, PlayerStartX: 0.1, EnemyStartX: 0.9, WallCount: -2},
	}
	err := ValidateLevels(bad)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"level 1: wind_range", "level 2: enemy_health", "level 2: enemy_accuracy", "level 2: wall_count"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing %q", msg, want)
		}
	}
}

func TestLoadLevelCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.json")
	body := `[
  {"wind_range": 2, "enemy_health": 80, "enemy_accuracy": 0.4, "player_start_x": 0.2, "enemy_start_x": 0.8, "wall_count": 1}
]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	levels, err := LoadLevelCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(levels) != 1 || levels[0].EnemyHealth != 80 || levels[0].WallCount != 1 {
		t.Fatalf("levels = %+v", levels)
	}
}

func TestLoadLevelCatalog_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLevelCatalog(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}

	garbled := filepath.Join(dir, "garbled.json")
	_ = os.WriteFile(garbled, []byte("{not json"), 0o600)
	if _, err := LoadLevelCatalog(garbled); err == nil {
		t.Fatal("expected parse error")
	}

	empty := filepath.Join(dir, "empty.json")
	_ = os.WriteFile(empty, []byte("[]"), 0o600)
	if _, err := LoadLevelCatalog(empty); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("empty catalog err = %v", err)
	}
}

func TestPlaceTankX_FlatGroundKeepsNominal(t *testing.T) {
	cfg := DefaultConfig()
	tr := FlatTerrain(800, 600, 400, cfg)
	x, ok := placeTankX(120, tr, cfg)
	if !ok || x != 120 {
		t.Fatalf("placeTankX = %.1f ok=%v, want 120", x, ok)
	}
}

func TestPlaceTankX_NudgesOffSteepSlope(t *testing.T) {
	cfg := DefaultConfig()
	tr := FlatTerrain(800, 600, 400, cfg)
	// A sharp step at x=400 makes any footprint straddling it too steep.
	for i := range tr.Points {
		if tr.Points[i].X >= 400 {
			tr.Points[i].Y = 300
		}
	}
	x, ok := placeTankX(400, tr, cfg)
	if !ok {
		t.Fatal("expected a flat spot to be found")
	}
	if want := 400 + cfg.TankWidth/2; x != want {
		t.Fatalf("placed at %.1f, want first step to the right at %.1f", x, want)
	}
	half := cfg.TankWidth / 2
	slope := math.Abs(tr.HeightAt(x+half)-tr.HeightAt(x-half)) / cfg.TankWidth
	if slope >= cfg.FlatSlope {
		t.Fatalf("placed at %.1f on slope %.2f", x, slope)
	}
}

func TestPlaceTankX_TriesLeftAfterRight(t *testing.T) {
	cfg := DefaultConfig()
	tr := FlatTerrain(800, 600, 400, cfg)
	// Ground climbs steeply everywhere right of 390, so only the left candidate fits.
	for i := range tr.Points {
		if tr.Points[i].X > 390 {
			tr.Points[i].Y = 400 - (tr.Points[i].X-390)*2
		}
	}
	x, ok := placeTankX(400, tr, cfg)
	if !ok {
		t.Fatal("expected a flat spot to the left")
	}
	if want := 400 - cfg.TankWidth/2; x != want {
		t.Fatalf("placed at %.1f, want %.1f", x, want)
	}
}

func TestPlacementOffset_AlternatesAndGrows(t *testing.T) {
	want := []float64{0, 10, -10, 20, -20, 30, -30}
	for k, w := range want {
		if got := placementOffset(k, 10); got != w {
			t.Fatalf("offset(%d) = %.0f, want %.0f", k, got, w)
		}
	}
}

func TestPlaceTankX_GivesUpWithNominal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PlacementTries = 3
	tr := FlatTerrain(800, 600, 400, cfg)
	for i := range tr.Points {
		tr.Points[i].Y = 500 - tr.Points[i].X
	}
	x, ok := placeTankX(400, tr, cfg)
	if ok || x != 400 {
		t.Fatalf("placeTankX = %.1f ok=%v, want nominal 400 and !ok", x, ok)
	}
}

func TestPlaceWalls_Constraints(t *testing.T) {
	cfg := DefaultConfig()
	for seed := int64(1); seed <= 30; seed++ {
		rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- test
		tr := GenerateTerrain(800, 600, cfg, rng)
		tanks := []*Tank{
			NewTank(SideHuman, HumanSide(), 120, 100, cfg, tr),
			NewTank(SideAI, AISide(), 680, 100, cfg, tr),
		}
		walls, skipped := placeWalls(2, tr, tanks, cfg, rng)
		if len(walls)+skipped != 2 {
			t.Fatalf("seed %d: %d walls + %d skipped != 2", seed, len(walls), skipped)
		}
		for _, w := range walls {
			if w.X < 800*cfg.WallSafeZone || w.Right() > 800*(1-cfg.WallSafeZone) {
				t.Fatalf("seed %d: wall %+v outside the middle band", seed, w.Rect)
			}
			if w.Y <= 600*cfg.WallMinTop {
				t.Fatalf("seed %d: wall top %.1f too high", seed, w.Y)
			}
			if w.H < cfg.WallMinHeight || w.H > 600*cfg.WallMaxHeight {
				t.Fatalf("seed %d: wall height %.1f out of range", seed, w.H)
			}
			for _, tk := range tanks {
				if math.Abs(w.Center().X-tk.X) <= tk.Width*cfg.WallTankClear {
					t.Fatalf("seed %d: wall at %.1f crowds tank at %.1f", seed, w.Center().X, tk.X)
				}
			}
		}
	}
}

func TestPlaceWalls_SkipsWhenNoRoom(t *testing.T) {
	cfg := DefaultConfig()
	tr := FlatTerrain(800, 600, 400, cfg)
	// One tank parked mid-field blocks the whole middle band.
	tanks := []*Tank{NewTank(SideHuman, HumanSide(), 400, 100, cfg, tr)}
	cfg.WallTankClear = 10
	rng := rand.New(rand.NewSource(5)) // #nosec G404 -- test
	walls, skipped := placeWalls(1, tr, tanks, cfg, rng)
	if len(walls) != 0 || skipped != 1 {
		t.Fatalf("walls=%d skipped=%d, want 0/1", len(walls), skipped)
	}
}

func TestRollWind_WithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11)) // #nosec G404 -- test
	for i := 0; i < 1000; i++ {
		w := rollWind(3, rng)
		if w < -3 || w > 3 {
			t.Fatalf("wind %.3f outside [-3,3]", w)
		}
	}
	if rollWind(0, rng) != 0 {
		t.Fatal("zero range must give calm")
	}
}
