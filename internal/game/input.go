package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key repeat for held aim keys, in frames.
const (
	repeatDelay    = 18
	repeatInterval = 3
)

// repeating reports a press on the first frame and then at repeatInterval
// after repeatDelay, like a keyboard's auto-repeat.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d == 1 {
		return true
	}
	return d > repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// handleInput maps keys to session intents. Rejections from the session are
// expected (wrong phase) and ignored.
func (g *Game) handleInput() {
	s := g.sess
	cfg := s.Config()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1), inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.showHelp = !g.showHelp
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyReport()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if s.Outcome().GameOver() {
			s.Restart()
			g.flash("New campaign")
		}
	}
	if g.paused {
		return
	}

	if repeating(ebiten.KeyArrowUp) {
		_ = s.AdjustAngle(cfg.AngleStep)
	}
	if repeating(ebiten.KeyArrowDown) {
		_ = s.AdjustAngle(-cfg.AngleStep)
	}
	if repeating(ebiten.KeyPageUp) || repeating(ebiten.KeyW) {
		_ = s.AdjustPower(cfg.PowerStep)
	}
	if repeating(ebiten.KeyPageDown) || repeating(ebiten.KeyS) {
		_ = s.AdjustPower(-cfg.PowerStep)
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		_, _ = s.Move(-1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		_, _ = s.Move(1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		_ = s.SelectAmmo(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		_ = s.SelectAmmo(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if err := s.Fire(); errors.Is(err, ErrInsufficientScore) {
			g.flash("Not enough score for " + s.SelectedAmmo().Name)
		}
	}
}
