package game

import (
	"fmt"
	"strings"
)

// reportTicks is how much of the match log a report carries.
const reportTicks = 600

// MatchReport renders a plain-text summary of the level in play: board,
// both tanks, the last aim each pilot chose and the recent match log.
// The windowed frontend copies it to the clipboard for bug reports.
func MatchReport(s *Session) string {
	toTick := s.tick
	fromTick := max(toTick-reportTicks+1, 0)

	var b strings.Builder
	fmt.Fprintf(&b, "--- Tank Duel match report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d time=%s tick_range=[%d..%d]\n", s.seed, s.tick, s.sched.Now(), fromTick, toTick)
	fmt.Fprintf(&b, "level=%d/%d phase=%s outcome=%s turn=%s\n", s.level, len(s.levels), s.phase, s.outcome, s.turn)
	fmt.Fprintf(&b, "score=%d high=%d ammo=%s\n", s.score, s.highScore, s.ammo.At(s.ammoIdx).Key)
	lo, hi := s.terrain.Bounds()
	fmt.Fprintf(&b, "world=%.0fx%.0f wind=%+.2f terrain_y=[%.0f..%.0f] walls=%d\n\n",
		s.width, s.height, s.wind, lo, hi, len(s.walls))

	b.WriteString("== tanks ==\n")
	for _, tk := range s.tanks {
		fmt.Fprintf(&b, "%-6s %-7s x=%.1f ground=%.1f angle=%.1f power=%.1f hp=%.0f/%.0f\n",
			tk.Side, tk.Config.Name, tk.X, tk.GroundY, tk.Angle, tk.Power, tk.Health, tk.MaxHP)
	}
	for i, w := range s.walls {
		fmt.Fprintf(&b, "wall %d x=%.0f y=%.0f w=%.0f h=%.0f\n", i, w.X, w.Y, w.W, w.H)
	}

	b.WriteString("\n== aim ==\n")
	for side, sol := range s.lastAim {
		if sol.Tried == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-6s best=%.1f/%.1f chosen=%.1f/%.1f miss=%.1f feasible=%v tried=%d rejected=%d\n",
			Side(side), sol.BestAngle, sol.BestPower, sol.Angle, sol.Power, sol.Error, sol.Feasible, sol.Tried, sol.Rejected)
	}

	b.WriteString("\n== shots (this level) ==\n")
	for side := range s.tanks {
		shots, hits := s.stats.shots[side], s.stats.hits[side]
		fmt.Fprintf(&b, "%-6s shots=%d hits=%d accuracy=%s\n", Side(side), shots, hits, percent(hits, shots))
	}

	b.WriteString("\n== log ==\n")
	if s.mlog.Len() == 0 {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(s.mlog.FormatRange(fromTick, toTick))
	}
	return b.String()
}

func percent(n, d int) string {
	if d == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(d)*100)
}
