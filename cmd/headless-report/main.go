package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Tank-Duel/internal/game"
	"github.com/Garsondee/Tank-Duel/internal/store"
)

type runStats struct {
	runIndex int
	seed     int64

	outcome      game.Outcome
	levelReached int
	score        int
	ticks        int
	finished     bool

	humanShots int
	humanHits  int
	aiShots    int
	aiHits     int

	firstHitTick  int
	wallHits      int
	terrainHits   int
	outOfBounds   int
	craters       int
	staleTimers   int
	rejectedInput int

	matches []game.MatchResult
}

type runConfig struct {
	maxTicks int
	accuracy float64
	levels   []game.LevelConfig
	worldW   float64
	worldH   float64
	verbose  bool
}

func main() {
	var runs int
	var maxTicks int
	var seedBase int64
	var seedStep int64
	var accuracy float64
	var parallel int
	var levelPath string
	var dbPath string
	var logLevel string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless duels")
	flag.IntVar(&maxTicks, "max-ticks", 60*60*20, "tick budget per duel")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Float64Var(&accuracy, "accuracy", 0.75, "autopilot accuracy for the player side (0..1)")
	flag.IntVar(&parallel, "parallel", 4, "duels simulated concurrently")
	flag.StringVar(&levelPath, "levels", "", "JSON level catalog (default: built-in campaign)")
	flag.StringVar(&dbPath, "db", "", "record match results into this SQLite file")
	flag.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	flag.BoolVar(&verbose, "verbose", false, "log every projectile step (slow)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "headless"})
	if lvl, err := log.ParseLevel(logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if maxTicks <= 0 {
		fmt.Println("error: -max-ticks must be > 0")
		return
	}
	if accuracy < 0 || accuracy > 1 {
		fmt.Println("error: -accuracy must be within [0,1]")
		return
	}

	rc := runConfig{maxTicks: maxTicks, accuracy: accuracy, levels: game.DefaultLevels(), worldW: 800, worldH: 600, verbose: verbose}
	if levelPath != "" {
		levels, err := game.LoadLevelCatalog(levelPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		rc.levels = levels
	}

	fmt.Printf("=== Headless Duel Report ===\n")
	fmt.Printf("runs=%d max_ticks=%d seed_base=%d seed_step=%d accuracy=%.2f levels=%d\n\n",
		runs, maxTicks, seedBase, seedStep, accuracy, len(rc.levels))

	all, err := runAll(context.Background(), runs, parallel, seedBase, seedStep, rc)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(aggregate(all))

	if dbPath != "" {
		if err := persist(context.Background(), dbPath, all, logger); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// runAll simulates every duel, up to parallel at a time. Each duel owns its
// session, so results only meet in the indexed slice.
func runAll(ctx context.Context, runs, parallel int, seedBase, seedStep int64, rc runConfig) ([]runStats, error) {
	all := make([]runStats, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			all[i] = runDuel(i+1, seed, rc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runDuel(runIndex int, seed int64, rc runConfig) runStats {
	td := game.NewTestDuel(
		game.WithWorldSize(rc.worldW, rc.worldH),
		game.WithDuelSeed(seed),
		game.WithDuelLevels(rc.levels...),
		game.WithVerbose(rc.verbose),
		game.WithSessionOption(game.WithAutopilot(rc.accuracy)),
	)
	end := td.RunUntil(func(d *game.TestDuel) bool {
		return d.Session.Outcome().GameOver()
	}, rc.maxTicks)

	s := td.Session
	lg := td.Log
	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		outcome:       s.Outcome(),
		levelReached:  s.Level(),
		score:         s.Score(),
		ticks:         td.CurrentTick(),
		finished:      end >= 0,
		humanShots:    lg.CountSide("human", "fire", ""),
		humanHits:     lg.CountSide("human", "hit", "damage"),
		aiShots:       lg.CountSide("ai", "fire", ""),
		aiHits:        lg.CountSide("ai", "hit", "damage"),
		firstHitTick:  firstTick(lg.Entries(), "hit", "damage", ""),
		wallHits:      lg.CountCategory("hit", game.HitWall.String()),
		terrainHits:   lg.CountCategory("hit", game.HitTerrain.String()),
		outOfBounds:   lg.CountCategory("hit", game.OutOfBounds.String()),
		craters:       lg.CountCategory("explosion", "crater"),
		staleTimers:   lg.CountCategory("timer", "stale"),
		rejectedInput: lg.CountCategory("input", "rejected"),
		matches:       append([]game.MatchResult(nil), td.Store.Matches...),
	}
	return rs
}

func firstTick(entries []game.MatchLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	status := rs.outcome.String()
	if !rs.finished {
		status = "timeout"
	}
	fmt.Printf("result: %s level=%d score=%d ticks=%d\n", status, rs.levelReached, rs.score, rs.ticks)
	fmt.Printf("shots: human=%d/%d (%s) ai=%d/%d (%s) first_hit=%d\n",
		rs.humanHits, rs.humanShots, pct(rs.humanHits, rs.humanShots),
		rs.aiHits, rs.aiShots, pct(rs.aiHits, rs.aiShots), rs.firstHitTick)
	fmt.Printf("impacts: terrain=%d wall=%d out_of_bounds=%d craters=%d\n",
		rs.terrainHits, rs.wallHits, rs.outOfBounds, rs.craters)
	fmt.Printf("guards: stale_timers=%d rejected_input=%d\n", rs.staleTimers, rs.rejectedInput)
	for _, m := range rs.matches {
		fmt.Printf("  level %d %-13s score=%d shots=%d hits=%d ai_shots=%d ai_hits=%d ticks=%d\n",
			m.Level, m.Outcome, m.Score, m.Shots, m.Hits, m.AIShots, m.AIHits, m.Ticks)
	}
	fmt.Println()
}

type aggregateStats struct {
	runs       int
	victories  int
	defeats    int
	timeouts   int
	avgScore   float64
	avgTicks   float64
	avgLevel   float64
	humanShots int
	humanHits  int
	aiShots    int
	aiHits     int
	// levelDefeats counts defeats per level.
	levelDefeats map[int]int
}

func aggregate(all []runStats) aggregateStats {
	ag := aggregateStats{runs: len(all), levelDefeats: map[int]int{}}
	score, ticks, level := 0, 0, 0
	for _, rs := range all {
		switch {
		case !rs.finished:
			ag.timeouts++
		case rs.outcome == game.OutcomeVictory:
			ag.victories++
		case rs.outcome == game.OutcomeDefeat:
			ag.defeats++
			ag.levelDefeats[rs.levelReached]++
		}
		score += rs.score
		ticks += rs.ticks
		level += rs.levelReached
		ag.humanShots += rs.humanShots
		ag.humanHits += rs.humanHits
		ag.aiShots += rs.aiShots
		ag.aiHits += rs.aiHits
	}
	ag.avgScore = avg(score, len(all))
	ag.avgTicks = avg(ticks, len(all))
	ag.avgLevel = avg(level, len(all))
	return ag
}

func printAggregate(ag aggregateStats) {
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d victories=%d defeats=%d timeouts=%d win_rate=%s\n",
		ag.runs, ag.victories, ag.defeats, ag.timeouts, pct(ag.victories, ag.runs))
	fmt.Printf("avg_score=%.1f avg_ticks=%.1f avg_level=%.2f\n", ag.avgScore, ag.avgTicks, ag.avgLevel)
	fmt.Printf("hit_rate: human=%s ai=%s\n", pct(ag.humanHits, ag.humanShots), pct(ag.aiHits, ag.aiShots))
	if len(ag.levelDefeats) > 0 {
		levels := make([]int, 0, len(ag.levelDefeats))
		for l := range ag.levelDefeats {
			levels = append(levels, l)
		}
		sort.Ints(levels)
		parts := make([]string, 0, len(levels))
		for _, l := range levels {
			parts = append(parts, fmt.Sprintf("L%d=%d", l, ag.levelDefeats[l]))
		}
		fmt.Printf("defeats_by_level: %s\n", strings.Join(parts, " "))
	}
}

// persist writes every run's match records into the SQLite store and prints
// the store-wide summary.
func persist(ctx context.Context, path string, all []runStats, logger *log.Logger) error {
	st, err := store.Open(ctx, path, store.WithLogger(logger))
	if err != nil {
		return err
	}
	defer st.Close()
	n := 0
	for _, rs := range all {
		for _, m := range rs.matches {
			if err := st.RecordMatch(ctx, m); err != nil {
				return err
			}
			n++
		}
	}
	sum, err := st.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nstored %d matches in %s (total=%d victories=%d defeats=%d best=%d)\n",
		n, path, sum.Matches, sum.Victories, sum.Defeats, sum.BestScore)
	return nil
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(n, d int) string {
	if d <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(d)*100)
}
