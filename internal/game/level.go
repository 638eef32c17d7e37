package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// LevelConfig is one entry of the level catalog.
type LevelConfig struct {
	WindRange     float64 `json:"wind_range"`
	EnemyHealth   float64 `json:"enemy_health"`
	EnemyAccuracy float64 `json:"enemy_accuracy"`
	PlayerStartX  float64 `json:"player_start_x"`
	EnemyStartX   float64 `json:"enemy_start_x"`
	WallCount     int     `json:"wall_count"`
}

// DefaultLevels is the built-in four-level campaign.
func DefaultLevels() []LevelConfig {
	return []LevelConfig{
		{WindRange: 1, EnemyHealth: 100, EnemyAccuracy: 0.65, PlayerStartX: 0.15, EnemyStartX: 0.85, WallCount: 0},
		{WindRange: 2, EnemyHealth: 120, EnemyAccuracy: 0.75, PlayerStartX: 0.10, EnemyStartX: 0.90, WallCount: 1},
		{WindRange: 3, EnemyHealth: 150, EnemyAccuracy: 0.85, PlayerStartX: 0.20, EnemyStartX: 0.80, WallCount: 1},
		{WindRange: 4, EnemyHealth: 140, EnemyAccuracy: 0.80, PlayerStartX: 0.15, EnemyStartX: 0.85, WallCount: 2},
	}
}

// ErrEmptyCatalog is returned when a level file holds no levels.
var ErrEmptyCatalog = errors.New("level catalog is empty")

// LoadLevelCatalog reads a JSON array of LevelConfig from path.
func LoadLevelCatalog(path string) ([]LevelConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read level catalog: %w", err)
	}
	var levels []LevelConfig
	if err := json.Unmarshal(data, &levels); err != nil {
		return nil, fmt.Errorf("parse level catalog %s: %w", path, err)
	}
	if err := ValidateLevels(levels); err != nil {
		return nil, fmt.Errorf("level catalog %s: %w", path, err)
	}
	return levels, nil
}

// ValidateLevels checks every entry and reports all problems at once.
func ValidateLevels(levels []LevelConfig) error {
	if len(levels) == 0 {
		return ErrEmptyCatalog
	}
	var errs []error
	for i, l := range levels {
		n := i + 1
		if l.WindRange < 0 {
			errs = append(errs, fmt.Errorf("level %d: wind_range %.2f is negative", n, l.WindRange))
		}
		if l.EnemyHealth <= 0 {
			errs = append(errs, fmt.Errorf("level %d: enemy_health must be positive", n))
		}
		if l.EnemyAccuracy < 0 || l.EnemyAccuracy > 1 {
			errs = append(errs, fmt.Errorf("level %d: enemy_accuracy %.2f outside [0,1]", n, l.EnemyAccuracy))
		}
		if l.PlayerStartX <= 0 || l.PlayerStartX >= 1 {
			errs = append(errs, fmt.Errorf("level %d: player_start_x %.2f outside (0,1)", n, l.PlayerStartX))
		}
		if l.EnemyStartX <= 0 || l.EnemyStartX >= 1 {
			errs = append(errs, fmt.Errorf("level %d: enemy_start_x %.2f outside (0,1)", n, l.EnemyStartX))
		}
		if l.WallCount < 0 {
			errs = append(errs, fmt.Errorf("level %d: wall_count %d is negative", n, l.WallCount))
		}
	}
	return errors.Join(errs...)
}

// placeTankX searches outward from nominal until the footprint is flat
// enough, alternating right and left with a growing step. ok is false when
// the search ran out and the nominal x was returned.
func placeTankX(nominal float64, t *Terrain, cfg Config) (x float64, ok bool) {
	w := cfg.TankWidth
	for k := 0; k < cfg.PlacementTries; k++ {
		x = clamp(nominal+placementOffset(k, w/2), w/2+5, t.Width-w/2-5)
		left := math.Max(0, x-w/2)
		right := math.Min(t.Width, x+w/2)
		if right-left < 1 {
			return x, true
		}
		slope := math.Abs(t.HeightAt(right)-t.HeightAt(left)) / (right - left)
		if slope < cfg.FlatSlope {
			return x, true
		}
	}
	return nominal, false
}

// placementOffset is the k-th candidate offset: 0, +step, -step, +2step, -2step...
func placementOffset(k int, step float64) float64 {
	if k <= 0 {
		return 0
	}
	n := float64((k + 1) / 2)
	if k%2 == 0 {
		return -n * step
	}
	return n * step
}

// placeWalls tries cfg.WallTries random spots per wall and skips walls that
// cannot be placed.
func placeWalls(count int, t *Terrain, tanks []*Tank, cfg Config, rng *rand.Rand) (walls []Wall, skipped int) {
	W, H := t.Width, t.Height
	safe := W * cfg.WallSafeZone
	minH := cfg.WallMinHeight
	maxH := H * cfg.WallMaxHeight
	ww := cfg.WallWidth

	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < cfg.WallTries && !placed; attempt++ {
			x := safe + rng.Float64()*(W-safe*2-ww)
			h := minH + rng.Float64()*(maxH-minH)
			y := t.HeightAt(x+ww/2) - h
			if y <= H*cfg.WallMinTop {
				continue
			}
			clear := true
			for _, tk := range tanks {
				if math.Abs(x+ww/2-tk.X) <= tk.Width*cfg.WallTankClear {
					clear = false
					break
				}
			}
			if !clear {
				continue
			}
			walls = append(walls, Wall{Rect{X: x, Y: y, W: ww, H: h}})
			placed = true
		}
		if !placed {
			skipped++
		}
	}
	return walls, skipped
}

// rollWind draws uniformly from [-r, r].
func rollWind(r float64, rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 2 * r
}
