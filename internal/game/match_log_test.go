package game

import (
	"strings"
	"testing"
)

func sampleLog() *MatchLog {
	ml := NewMatchLog(false)
	ml.Add(1, "human", "fire", "normal", "45 deg 30", 30)
	ml.Add(40, "human", "hit", "damage", "ai -30.0hp -> 70.0", 30)
	ml.Add(40, "human", "score", "damage", "+30 -> 30", 30)
	ml.Add(150, "ai", "fire", "normal", "130 deg 55", 55)
	ml.Add(190, "ai", "hit", "terrain", "at 300,410", 0)
	return ml
}

func TestMatchLog_FiltersAndCounts(t *testing.T) {
	ml := sampleLog()
	if got := len(ml.Filter("fire", "")); got != 2 {
		t.Fatalf("fire entries = %d, want 2", got)
	}
	if got := ml.CountCategory("hit", "damage"); got != 1 {
		t.Fatalf("damage hits = %d, want 1", got)
	}
	if got := ml.CountSide("ai", "", ""); got != 2 {
		t.Fatalf("ai entries = %d, want 2", got)
	}
	if got := ml.CountSide("human", "", "damage"); got != 2 {
		t.Fatalf("human damage-keyed entries = %d, want 2", got)
	}
	if got := len(ml.FilterTickRange(40, 150)); got != 3 {
		t.Fatalf("ticks 40..150 = %d entries, want 3", got)
	}
}

func TestMatchLog_LastOfAndHasEntry(t *testing.T) {
	ml := sampleLog()
	e, ok := ml.LastOf("fire", "normal")
	if !ok || e.Tick != 150 || e.Side != "ai" {
		t.Fatalf("LastOf fire = %+v %v", e, ok)
	}
	if _, ok := ml.LastOf("timer", "stale"); ok {
		t.Fatal("LastOf found a missing entry")
	}
	if !ml.HasEntry("hit", "", "300,410") || ml.HasEntry("hit", "damage", "human") {
		t.Fatal("HasEntry mismatch")
	}
}

func TestMatchLog_VerboseGate(t *testing.T) {
	quiet := NewMatchLog(false)
	quiet.AddVerbose(1, "human", "projectile", "step", "", 0)
	loud := NewMatchLog(true)
	loud.AddVerbose(1, "human", "projectile", "step", "", 0)
	if quiet.Len() != 0 || loud.Len() != 1 {
		t.Fatalf("verbose gate: quiet=%d loud=%d", quiet.Len(), loud.Len())
	}
}

func TestMatchLog_FormatRange(t *testing.T) {
	out := sampleLog().FormatRange(100, 200)
	if strings.Count(out, "\n") != 2 || !strings.HasPrefix(out, "[T=0150] ai ") {
		t.Fatalf("FormatRange =\n%s", out)
	}
}
