package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// MatchLogEntry is one recorded event of a duel.
type MatchLogEntry struct {
	Tick     int
	Side     string  // "human", "ai", or "--" for global events
	Category string  // turn, fire, hit, explosion, score, ai, timer, level, input
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0142] ai    hit       tank            human -31.4hp
func (e MatchLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-5s %-9s %-15s %s",
		e.Tick, e.Side, e.Category, e.Key, e.Value)
}

// MatchLog collects structured events. Unlike BattleFeed (HUD ring buffer)
// it is unbounded and machine-readable; tests and the headless report read it.
type MatchLog struct {
	entries []MatchLogEntry
	verbose bool
}

// NewMatchLog creates a MatchLog. Verbose mode also records per-tick
// projectile positions.
func NewMatchLog(verbose bool) *MatchLog {
	return &MatchLog{verbose: verbose}
}

// Add records a new entry.
func (ml *MatchLog) Add(tick int, side, category, key, value string, numVal float64) {
	ml.entries = append(ml.entries, MatchLogEntry{
		Tick:     tick,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (ml *MatchLog) AddVerbose(tick int, side, category, key, value string, numVal float64) {
	if !ml.verbose {
		return
	}
	ml.Add(tick, side, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (ml *MatchLog) Entries() []MatchLogEntry {
	return ml.entries
}

// Len returns the number of entries.
func (ml *MatchLog) Len() int { return len(ml.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (ml *MatchLog) Filter(category, key string) []MatchLogEntry {
	return lo.Filter(ml.entries, func(e MatchLogEntry, _ int) bool {
		return (category == "" || e.Category == category) && (key == "" || e.Key == key)
	})
}

// FilterSide returns entries for one side label.
func (ml *MatchLog) FilterSide(side string) []MatchLogEntry {
	return lo.Filter(ml.entries, func(e MatchLogEntry, _ int) bool { return e.Side == side })
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (ml *MatchLog) FilterTickRange(fromTick, toTick int) []MatchLogEntry {
	return lo.Filter(ml.entries, func(e MatchLogEntry, _ int) bool {
		return e.Tick >= fromTick && e.Tick <= toTick
	})
}

// CountCategory returns how many entries match the given category and key.
func (ml *MatchLog) CountCategory(category, key string) int {
	return len(ml.Filter(category, key))
}

// CountSide counts category/key entries attributed to side.
func (ml *MatchLog) CountSide(side, category, key string) int {
	return lo.CountBy(ml.entries, func(e MatchLogEntry) bool {
		return e.Side == side && (category == "" || e.Category == category) && (key == "" || e.Key == key)
	})
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (ml *MatchLog) LastOf(category, key string) (MatchLogEntry, bool) {
	entries := ml.Filter(category, key)
	if len(entries) == 0 {
		return MatchLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (ml *MatchLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range ml.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (ml *MatchLog) Format() string {
	var sb strings.Builder
	for _, e := range ml.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (ml *MatchLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range ml.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
