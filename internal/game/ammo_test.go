package game

import "testing"

func TestAmmo_CycleWraps(t *testing.T) {
	c := DefaultAmmo()
	if got := c.Cycle(0, -1); got != 1 {
		t.Fatalf("prev from 0 = %d, want 1", got)
	}
	if got := c.Cycle(1, 1); got != 0 {
		t.Fatalf("next from last = %d, want 0", got)
	}
}

func TestAmmo_BaselineIsFree(t *testing.T) {
	b := DefaultAmmo().Baseline()
	if b.Key != "normal" || b.Cost != 0 || b.Damage != 30 || b.ExplosionRadius != 30 {
		t.Fatalf("unexpected baseline %+v", b)
	}
	h := DefaultAmmo().At(1)
	if h.Key != "heavy" || h.Cost != 10 || h.Damage != 50 || h.ExplosionRadius != 45 {
		t.Fatalf("unexpected heavy %+v", h)
	}
}
