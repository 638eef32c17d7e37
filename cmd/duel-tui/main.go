// Command duel-tui plays the tank duel in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Duel/internal/game"
	"github.com/Garsondee/Tank-Duel/internal/store"
)

func main() {
	var (
		dbPath    string
		levelPath string
		logPath   string
		logLevel  string
		seed      int64
	)
	flag.StringVar(&dbPath, "db", "", "SQLite file for progress and match history (empty disables)")
	flag.StringVar(&levelPath, "levels", "", "JSON level catalog (default: built-in campaign)")
	flag.StringVar(&logPath, "log", "", "write logs to this file (the terminal is busy drawing)")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
	flag.Parse()

	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "duel-tui"})
	if lvl, err := log.ParseLevel(logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if err := run(context.Background(), logger, dbPath, levelPath, seed); err != nil {
		logger.Error("exited", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, dbPath, levelPath string, seed int64) error {
	opts := []game.SessionOption{game.WithLogger(logger), game.WithContext(ctx)}
	if seed != 0 {
		opts = append(opts, game.WithSeed(seed))
	}
	if levelPath != "" {
		levels, err := game.LoadLevelCatalog(levelPath)
		if err != nil {
			return err
		}
		opts = append(opts, game.WithLevels(levels))
	}
	if dbPath != "" {
		st, err := store.Open(ctx, dbPath, store.WithLogger(logger.WithPrefix("store")))
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, game.WithProgressStore(st), game.WithMatchRecorder(st))
	}
	sess := game.NewSession(800, 600, opts...)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(styleDefault)
	screen.Clear()

	logger.Info("starting", "seed", sess.Seed(), "level", sess.Level())
	return loop(screen, newConsole(sess))
}

// loop ticks the session at its configured rate and redraws after every
// tick. Input arrives on a channel fed by a PollEvent goroutine.
func loop(screen tcell.Screen, c *console) error {
	ticker := time.NewTicker(c.sess.Config().TickDuration())
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if err := c.handleKey(ev); errors.Is(err, errQuit) {
					return nil
				}
			}
		case <-ticker.C:
			if !c.paused {
				c.sess.Tick()
			}
			c.draw(screen)
		}
	}
}
