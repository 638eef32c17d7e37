package game

import (
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the battlefield.
const borderWidth = 24

// feedPanelWidth is the battle feed column to the right of the battlefield.
const feedPanelWidth = 260

// noticeTicks is how long a transient HUD notice stays up.
const noticeTicks = 120

// Game adapts a Session to ebiten: it turns key state into Session
// intents, ticks the session once per frame and draws its Snapshot.
type Game struct {
	sess   *Session
	logger *log.Logger
	face   *text.GoXFace

	width  int // window size reported by Layout
	height int
	offX   int // battlefield offset inside the window
	offY   int

	paused   bool
	showHelp bool

	notice      string
	noticeUntil int
}

// New wraps sess for ebiten.RunGame.
func New(sess *Session, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		sess:     sess,
		logger:   logger,
		face:     text.NewGoXFace(basicfont.Face7x13),
		showHelp: true,
	}
}

// Update runs input then one simulation tick.
func (g *Game) Update() error {
	g.handleInput()
	if !g.paused {
		g.sess.Tick()
	}
	return nil
}

// Draw renders the current snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 20, A: 255})
	snap := g.sess.Snapshot()
	g.drawWorld(screen, snap)
	g.drawHUD(screen, snap)
	g.drawFeed(screen)
	if g.showHelp {
		g.drawHelp(screen)
	}
	if snap.Outcome.GameOver() || snap.Phase == PhaseRoundOver {
		g.drawBanner(screen, snap)
	}
}

// Layout fits a 4:3 battlefield into the window and resizes the session
// when the fitted size changes.
func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	if outsideW == g.width && outsideH == g.height {
		return g.width, g.height
	}
	g.width, g.height = outsideW, outsideH

	availW := float64(outsideW - feedPanelWidth - borderWidth*3)
	availH := float64(outsideH - borderWidth*2)
	w, h := FitAspect(availW, availH)
	g.offX = borderWidth
	g.offY = borderWidth + max(0, int(availH-h)/2)
	g.sess.Resize(w, h)
	g.logger.Debug("layout", "window", [2]int{outsideW, outsideH}, "world", [2]float64{w, h})
	return g.width, g.height
}

// copyReport puts MatchReport on the system clipboard.
func (g *Game) copyReport() {
	report := MatchReport(g.sess)
	if err := clipboard.WriteAll(report); err != nil {
		g.logger.Warn("copy report failed", "err", err)
		g.flash("Clipboard unavailable")
		return
	}
	g.logger.Info("match report copied", "bytes", len(report))
	g.flash("Match report copied")
}

func (g *Game) flash(msg string) {
	g.notice = msg
	g.noticeUntil = g.sess.CurrentTick() + noticeTicks
}
