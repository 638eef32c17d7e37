package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Duel/internal/game"
)

var errQuit = errors.New("quit")

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHUD     = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleGround  = styleDefault.Foreground(tcell.ColorOliveDrab)
	styleWall    = styleDefault.Foreground(tcell.ColorGray)
	styleShell   = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTrail   = styleDefault.Foreground(tcell.ColorDarkGray)
	styleBlast   = styleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleNotice  = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleFeed    = styleDefault.Foreground(tcell.ColorSilver)

	sideStyles = [2]tcell.Style{
		styleDefault.Foreground(tcell.ColorLime),
		styleDefault.Foreground(tcell.ColorRed),
	}
)

// Rows reserved above and below the battlefield.
const (
	hudRows    = 2
	footerRows = 1
	noticeTick = 120
)

// console adapts a session to a character grid.
type console struct {
	sess        *game.Session
	paused      bool
	notice      string
	noticeUntil int
}

func newConsole(sess *game.Session) *console {
	return &console{sess: sess}
}

func (c *console) flash(msg string) {
	c.notice = msg
	c.noticeUntil = c.sess.CurrentTick() + noticeTick
}

// handleKey maps a key to a session intent. Rejections outside the player's
// turn are expected and ignored. errQuit asks the loop to exit.
func (c *console) handleKey(ev *tcell.EventKey) error {
	s := c.sess
	cfg := s.Config()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return errQuit
	case tcell.KeyUp:
		_ = s.AdjustAngle(cfg.AngleStep)
	case tcell.KeyDown:
		_ = s.AdjustAngle(-cfg.AngleStep)
	case tcell.KeyLeft:
		_, _ = s.Move(-1)
	case tcell.KeyRight:
		_, _ = s.Move(1)
	case tcell.KeyPgUp:
		_ = s.AdjustPower(cfg.PowerStep)
	case tcell.KeyPgDn:
		_ = s.AdjustPower(-cfg.PowerStep)
	case tcell.KeyEnter:
		c.fire()
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			c.fire()
		case 'w', '+':
			_ = s.AdjustPower(cfg.PowerStep)
		case 's', '-':
			_ = s.AdjustPower(-cfg.PowerStep)
		case 'q':
			_ = s.SelectAmmo(-1)
		case 'e':
			_ = s.SelectAmmo(1)
		case 'p':
			c.paused = !c.paused
		case 'r':
			if s.Outcome().GameOver() {
				s.Restart()
				c.flash("New campaign")
			}
		case 'x':
			return errQuit
		}
	}
	return nil
}

func (c *console) fire() {
	if err := c.sess.Fire(); errors.Is(err, game.ErrInsufficientScore) {
		c.flash("Not enough score for " + c.sess.SelectedAmmo().Name)
	}
}

// grid maps world coordinates onto the battlefield rows of a cols x rows
// screen.
type grid struct {
	cols, rows int
	top        int
	sx, sy     float64
}

func newGrid(snap game.Snapshot, cols, rows int) grid {
	fieldRows := max(rows-hudRows-footerRows, 1)
	g := grid{cols: max(cols, 1), rows: fieldRows, top: hudRows}
	if snap.Width > 0 {
		g.sx = float64(g.cols) / snap.Width
	}
	if snap.Height > 0 {
		g.sy = float64(fieldRows) / snap.Height
	}
	return g
}

// cell returns the screen cell covering world point p.
func (g grid) cell(p game.Vec2) (int, int) {
	return int(math.Floor(p.X * g.sx)), g.top + int(math.Floor(p.Y*g.sy))
}

// worldX returns the world X at the centre of column col.
func (g grid) worldX(col int) float64 {
	if g.sx == 0 {
		return 0
	}
	return (float64(col) + 0.5) / g.sx
}

func (g grid) inField(x, y int) bool {
	return x >= 0 && x < g.cols && y >= g.top && y < g.top+g.rows
}

func (g grid) put(screen tcell.Screen, x, y int, r rune, st tcell.Style) {
	if g.inField(x, y) {
		screen.SetContent(x, y, r, nil, st)
	}
}

func (g grid) fillRect(screen tcell.Screen, r game.Rect, ch rune, st tcell.Style) {
	x0, y0 := g.cell(game.Vec2{X: r.X, Y: r.Y})
	x1, y1 := g.cell(game.Vec2{X: r.Right(), Y: r.Bottom()})
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.put(screen, x, y, ch, st)
		}
	}
}

func drawString(screen tcell.Screen, x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, st)
	}
}

// draw renders one frame.
func (c *console) draw(screen tcell.Screen) {
	screen.Clear()
	cols, rows := screen.Size()
	snap := c.sess.Snapshot()
	g := newGrid(snap, cols, rows)

	for col := 0; col < g.cols; col++ {
		_, top := g.cell(game.Vec2{X: g.worldX(col), Y: snap.GroundAt(g.worldX(col))})
		for y := max(top, g.top); y < g.top+g.rows; y++ {
			g.put(screen, col, y, '█', styleGround)
		}
	}
	for _, w := range snap.Walls {
		g.fillRect(screen, w, '▓', styleWall)
	}
	for _, tv := range []game.TankView{snap.Human, snap.AI} {
		drawTank(screen, g, tv)
	}
	for _, p := range snap.Projectiles {
		for _, pt := range p.Trail {
			x, y := g.cell(pt)
			g.put(screen, x, y, '·', styleTrail)
		}
		x, y := g.cell(p.Pos)
		g.put(screen, x, y, 'o', styleShell)
	}
	for _, e := range snap.Explosions {
		drawBlast(screen, g, e)
	}

	c.drawHUD(screen, snap, cols)
	c.drawFooter(screen, snap, cols, rows)
	screen.Show()
}

func drawTank(screen tcell.Screen, g grid, tv game.TankView) {
	if tv.Health <= 0 {
		return
	}
	st := sideStyles[tv.Side]
	g.fillRect(screen, tv.Bounds, '▄', st)
	x, y := g.cell(tv.Muzzle)
	g.put(screen, x, y, barrelRune(tv.Elevation), st)
}

// barrelRune picks the character closest to the barrel's elevation in
// degrees (0 is right, 90 is up).
func barrelRune(elev float64) rune {
	switch {
	case elev < 22.5:
		return '-'
	case elev < 67.5:
		return '/'
	case elev < 112.5:
		return '|'
	case elev < 157.5:
		return '\\'
	}
	return '-'
}

func drawBlast(screen tcell.Screen, g grid, e game.ExplosionView) {
	r := e.Radius * (0.4 + 0.6*e.Progress)
	x0, y0 := g.cell(game.Vec2{X: e.Pos.X - r, Y: e.Pos.Y - r})
	x1, y1 := g.cell(game.Vec2{X: e.Pos.X + r, Y: e.Pos.Y + r})
	cx, cy := g.cell(e.Pos)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			wx := (float64(x) + 0.5) / g.sx
			wy := (float64(y-g.top) + 0.5) / g.sy
			if math.Hypot(wx-e.Pos.X, wy-e.Pos.Y) <= r {
				g.put(screen, x, y, '*', styleBlast)
			}
		}
	}
	g.put(screen, cx, cy, '#', styleBlast)
}

func (c *console) drawHUD(screen tcell.Screen, snap game.Snapshot, cols int) {
	h := snap.Human
	drawString(screen, 0, 0, fmt.Sprintf("Level %d/%d  Score %d  High %d  HP %.0f vs %.0f",
		snap.Level, snap.Levels, snap.Score, snap.HighScore, h.Health, snap.AI.Health), styleHUD)
	drawString(screen, 0, 1, fmt.Sprintf("Angle %3.0f  Power %3.0f  Ammo %s (cost %d)  %s",
		h.Angle, h.Power, snap.Ammo.Name, snap.Ammo.Cost, snap.Status()), styleHUD)

	wind := fmt.Sprintf("Wind %+.1f %s", snap.Wind, windArrow(snap.Wind, snap.MaxWind))
	drawString(screen, max(cols-len([]rune(wind)), 0), 0, wind, styleHUD)
	if c.paused {
		drawString(screen, max(cols-6, 0), 1, "PAUSED", styleNotice)
	}
}

// windArrow draws up to five chevrons pointing downwind.
func windArrow(wind, maxWind float64) string {
	if maxWind <= 0 {
		maxWind = 1
	}
	n := int(math.Round(math.Min(math.Abs(wind)/maxWind, 1) * 5))
	ch := ">"
	if wind < 0 {
		ch = "<"
	}
	out := ""
	for i := 0; i < n; i++ {
		out += ch
	}
	return out
}

func (c *console) drawFooter(screen tcell.Screen, snap game.Snapshot, cols, rows int) {
	y := rows - 1
	switch {
	case c.notice != "" && snap.Tick < c.noticeUntil:
		drawString(screen, 0, y, c.notice, styleNotice)
	case snap.Message != "":
		msg := snap.Message
		if snap.Outcome.GameOver() {
			msg += "  (r to play again, x to quit)"
		}
		drawString(screen, 0, y, msg, styleNotice)
	default:
		if recent := c.sess.Feed().Recent(1); len(recent) > 0 {
			line := []rune(recent[0].Message)
			if len(line) > cols {
				line = line[:cols]
			}
			drawString(screen, 0, y, string(line), styleFeed)
		}
	}
}
