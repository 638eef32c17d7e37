package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Tank-Duel/internal/game"
	"github.com/Garsondee/Tank-Duel/internal/store"
)

func main() {
	var f flags
	var logLevel string
	flag.StringVar(&f.dbPath, "db", "tankduel.db", "SQLite file for progress and match history (empty disables)")
	flag.StringVar(&f.levelPath, "levels", "", "JSON level catalog (default: built-in campaign)")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = time based)")
	flag.IntVar(&f.width, "width", 1180, "window width")
	flag.IntVar(&f.height, "height", 720, "window height")
	flag.Float64Var(&f.autopilot, "autopilot", -1, "let the AI aim for the player at this accuracy (0..1); negative disables")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "tank-duel",
	})
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		logger.Fatal("bad -log-level", "value", logLevel, "err", err)
	}
	logger.SetLevel(lvl)

	if err := run(context.Background(), logger, f); err != nil {
		logger.Fatal("game exited", "err", err)
	}
}

type flags struct {
	dbPath    string
	levelPath string
	seed      int64
	width     int
	height    int
	autopilot float64
}

func run(ctx context.Context, logger *log.Logger, f flags) error {
	opts := []game.SessionOption{
		game.WithLogger(logger),
		game.WithContext(ctx),
	}
	if f.seed != 0 {
		opts = append(opts, game.WithSeed(f.seed))
	}
	if f.levelPath != "" {
		levels, err := game.LoadLevelCatalog(f.levelPath)
		if err != nil {
			return err
		}
		opts = append(opts, game.WithLevels(levels))
	}
	if f.dbPath != "" {
		st, err := store.Open(ctx, f.dbPath, store.WithLogger(logger.WithPrefix("store")))
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, game.WithProgressStore(st), game.WithMatchRecorder(st))
	}
	if f.autopilot >= 0 {
		opts = append(opts, game.WithAutopilot(f.autopilot))
	}

	sess := game.NewSession(800, 600, opts...)
	logger.Info("starting", "seed", sess.Seed(), "level", sess.Level())

	ebiten.SetWindowTitle("Tank Duel")
	ebiten.SetWindowSize(f.width, f.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(sess.Config().TickRate)
	return ebiten.RunGame(game.New(sess, logger))
}
