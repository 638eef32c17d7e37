package game

// AmmoSpec describes one shell type. Specs are immutable values.
type AmmoSpec struct {
	Key             string
	Name            string
	Damage          float64
	ExplosionRadius float64
	Cost            int
}

// AmmoCatalog is the fixed, ordered list the human cycles through. Index 0
// is the baseline shell the AI always fires.
type AmmoCatalog []AmmoSpec

// DefaultAmmo returns the shipped catalog.
func DefaultAmmo() AmmoCatalog {
	return AmmoCatalog{
		{Key: "normal", Name: "Normal", Damage: 30, ExplosionRadius: 30, Cost: 0},
		{Key: "heavy", Name: "Heavy", Damage: 50, ExplosionRadius: 45, Cost: 10},
	}
}

// Baseline returns the first entry.
func (c AmmoCatalog) Baseline() AmmoSpec {
	if len(c) == 0 {
		return DefaultAmmo()[0]
	}
	return c[0]
}

// At returns the ammo at idx, wrapping in both directions.
func (c AmmoCatalog) At(idx int) AmmoSpec {
	if len(c) == 0 {
		return c.Baseline()
	}
	return c[c.wrap(idx)]
}

// Cycle moves idx by dir (+1 next, -1 previous) with wrap-around.
func (c AmmoCatalog) Cycle(idx, dir int) int {
	if len(c) == 0 {
		return 0
	}
	return c.wrap(idx + dir)
}

func (c AmmoCatalog) wrap(i int) int {
	n := len(c)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
