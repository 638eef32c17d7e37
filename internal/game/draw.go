package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// basicfont.Face7x13 metrics.
const (
	charW = 7
	lineH = 14
)

var (
	skyCol     = color.RGBA{R: 28, G: 36, B: 58, A: 255}
	groundCol  = color.RGBA{R: 74, G: 96, B: 52, A: 255}
	ridgeCol   = color.RGBA{R: 120, G: 150, B: 80, A: 255}
	wallCol    = color.RGBA{R: 110, G: 104, B: 96, A: 255}
	humanCol   = color.RGBA{R: 80, G: 150, B: 230, A: 255}
	aiCol      = color.RGBA{R: 220, G: 80, B: 70, A: 255}
	shellCol   = color.RGBA{R: 250, G: 240, B: 200, A: 255}
	panelCol   = color.RGBA{R: 10, G: 12, B: 16, A: 240}
	panelEdge  = color.RGBA{R: 60, G: 80, B: 110, A: 200}
	textCol    = color.RGBA{R: 220, G: 226, B: 235, A: 255}
	dimTextCol = color.RGBA{R: 140, G: 148, B: 160, A: 255}
)

func sideColor(s Side) color.RGBA {
	if s == SideHuman {
		return humanCol
	}
	return aiCol
}

func (g *Game) drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, g.face, op)
}

// drawWorld renders the battlefield at the layout offset.
func (g *Game) drawWorld(screen *ebiten.Image, snap Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)
	w, h := float32(snap.Width), float32(snap.Height)

	vector.FillRect(screen, ox, oy, w, h, skyCol, false)

	// Terrain as a filled polygon closed along the bottom edge.
	if len(snap.Terrain) > 1 {
		var path vector.Path
		path.MoveTo(ox, oy+h)
		for _, p := range snap.Terrain {
			path.LineTo(ox+float32(p.X), oy+float32(math.Min(p.Y, snap.Height)))
		}
		path.LineTo(ox+w, oy+h)
		path.Close()
		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(groundCol)
		vector.FillPath(screen, &path, &vector.FillOptions{}, op)

		for i := 1; i < len(snap.Terrain); i++ {
			a, b := snap.Terrain[i-1], snap.Terrain[i]
			vector.StrokeLine(screen, ox+float32(a.X), oy+float32(a.Y), ox+float32(b.X), oy+float32(b.Y), 2, ridgeCol, true)
		}
	}

	for _, r := range snap.Walls {
		vector.FillRect(screen, ox+float32(r.X), oy+float32(r.Y), float32(r.W), float32(r.H), wallCol, false)
		vector.StrokeRect(screen, ox+float32(r.X), oy+float32(r.Y), float32(r.W), float32(r.H), 1, color.RGBA{R: 70, G: 66, B: 60, A: 255}, false)
	}

	g.drawTank(screen, snap.Human, snap.Turn == SideHuman && snap.Phase == PhaseAwaitingHuman)
	g.drawTank(screen, snap.AI, false)

	for _, p := range snap.Projectiles {
		n := len(p.Trail)
		for i := 1; i < n; i++ {
			a, b := p.Trail[i-1], p.Trail[i]
			alpha := uint8(40 + 160*i/n)
			vector.StrokeLine(screen, ox+float32(a.X), oy+float32(a.Y), ox+float32(b.X), oy+float32(b.Y), 2,
				color.RGBA{R: 250, G: 220, B: 150, A: alpha}, true)
		}
		vector.FillCircle(screen, ox+float32(p.Pos.X), oy+float32(p.Pos.Y), float32(p.Radius), shellCol, true)
	}

	for _, e := range snap.Explosions {
		r := float32(e.Radius * (0.3 + 0.7*e.Progress))
		fade := 1 - e.Progress
		vector.FillCircle(screen, ox+float32(e.Pos.X), oy+float32(e.Pos.Y), r,
			color.RGBA{R: 255, G: uint8(200 - 120*e.Progress), B: 40, A: uint8(220 * fade)}, true)
		vector.StrokeCircle(screen, ox+float32(e.Pos.X), oy+float32(e.Pos.Y), r, 2,
			color.RGBA{R: 255, G: 240, B: 200, A: uint8(160 * fade)}, true)
	}

	vector.StrokeRect(screen, ox-1, oy-1, w+2, h+2, 2, panelEdge, false)
}

func (g *Game) drawTank(screen *ebiten.Image, tv TankView, active bool) {
	ox, oy := float32(g.offX), float32(g.offY)
	col := sideColor(tv.Side)
	b := tv.Bounds

	vector.StrokeLine(screen, ox+float32(tv.Pivot.X), oy+float32(tv.Pivot.Y),
		ox+float32(tv.Muzzle.X), oy+float32(tv.Muzzle.Y), 4, color.RGBA{R: 40, G: 40, B: 44, A: 255}, true)
	vector.FillRect(screen, ox+float32(b.X), oy+float32(b.Y), float32(b.W), float32(b.H), col, false)
	vector.FillCircle(screen, ox+float32(tv.Pivot.X), oy+float32(tv.Pivot.Y), float32(b.H*0.35), col, true)
	if active {
		vector.StrokeRect(screen, ox+float32(b.X)-2, oy+float32(b.Y)-2, float32(b.W)+4, float32(b.H)+4, 1, textCol, false)
	}

	// Health bar above the hull.
	frac := 0.0
	if tv.MaxHealth > 0 {
		frac = clamp(tv.Health/tv.MaxHealth, 0, 1)
	}
	bx, by := ox+float32(b.X), oy+float32(b.Y)-10
	vector.FillRect(screen, bx, by, float32(b.W), 4, color.RGBA{R: 40, G: 20, B: 20, A: 220}, false)
	vector.FillRect(screen, bx, by, float32(b.W*frac), 4, color.RGBA{R: 90, G: 210, B: 90, A: 255}, false)
}

// drawHUD draws the status strip along the top of the battlefield.
func (g *Game) drawHUD(screen *ebiten.Image, snap Snapshot) {
	x, y := g.offX+8, g.offY+6
	human := snap.Human

	lines := []string{
		fmt.Sprintf("Level %d/%d   Score %d   High %d", snap.Level, snap.Levels, snap.Score, snap.HighScore),
		fmt.Sprintf("Angle %3.0f   Power %3.0f   Ammo %s (cost %d)", human.Angle, human.Power, snap.Ammo.Name, snap.Ammo.Cost),
		snap.Status(),
	}
	for i, l := range lines {
		g.drawText(screen, l, x, y+i*lineH, textCol)
	}

	// Wind arrow, top right.
	cx := float32(g.offX) + float32(snap.Width) - 70
	cy := float32(g.offY) + 14
	g.drawText(screen, fmt.Sprintf("Wind %+.1f", snap.Wind), int(cx)-30, int(cy)+8, textCol)
	maxW := snap.MaxWind
	if maxW <= 0 {
		maxW = 1
	}
	dx := float32(clamp(snap.Wind/maxW, -1, 1) * 40)
	vector.StrokeLine(screen, cx, cy, cx+dx, cy, 2, textCol, true)
	if dx != 0 {
		tip := float32(5)
		if dx < 0 {
			tip = -5
		}
		vector.StrokeLine(screen, cx+dx, cy, cx+dx-tip, cy-4, 2, textCol, true)
		vector.StrokeLine(screen, cx+dx, cy, cx+dx-tip, cy+4, 2, textCol, true)
	}

	if g.notice != "" && snap.Tick < g.noticeUntil {
		g.drawText(screen, g.notice, x, g.offY+int(snap.Height)-lineH-6, color.RGBA{R: 250, G: 220, B: 120, A: 255})
	}
	if g.paused {
		g.drawText(screen, "PAUSED", g.offX+int(snap.Width)/2-3*charW, g.offY+6, color.RGBA{R: 250, G: 220, B: 120, A: 255})
	}
}

// drawFeed renders the battle feed column.
func (g *Game) drawFeed(screen *ebiten.Image) {
	px := float32(g.width - feedPanelWidth)
	ph := float32(g.height)
	vector.FillRect(screen, px, 0, feedPanelWidth, ph, panelCol, false)
	vector.StrokeLine(screen, px, 0, px, ph, 1, panelEdge, false)
	vector.FillRect(screen, px, 0, feedPanelWidth, 20, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	g.drawText(screen, "BATTLE FEED", int(px)+8, 3, textCol)

	maxVisible := max((g.height-28)/lineH, 0)
	entries := g.sess.Feed().Recent(maxVisible)
	maxChars := (feedPanelWidth - 20) / charW
	y := 26
	for i, e := range entries {
		clr := dimTextCol
		if i >= len(entries)-3 {
			clr = textCol
		}
		if !e.Global {
			vector.FillRect(screen, px+5, float32(y+4), 3, 6, sideColor(e.Side), false)
		}
		msg := e.Message
		if len(msg) > maxChars {
			msg = msg[:maxChars-1] + "~"
		}
		g.drawText(screen, msg, int(px)+12, y, clr)
		y += lineH
	}
}

func (g *Game) drawHelp(screen *ebiten.Image) {
	lines := []string{
		"Up/Down  angle    PgUp/PgDn  power",
		"Left/Right  move  Q/E  ammo",
		"Space/Enter  fire",
		"C  copy report    P  pause",
		"R  restart (game over)   H  help",
	}
	boxW := float32(36*charW + 12)
	boxH := float32(len(lines)*lineH + 10)
	bx := float32(g.offX + 8)
	by := float32(g.height-borderWidth) - boxH - 8
	vector.FillRect(screen, bx, by, boxW, boxH, panelCol, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, panelEdge, false)
	for i, l := range lines {
		g.drawText(screen, l, int(bx)+6, int(by)+5+i*lineH, dimTextCol)
	}
}

// drawBanner shows the round or campaign result in the middle of the field.
func (g *Game) drawBanner(screen *ebiten.Image, snap Snapshot) {
	msg := snap.Message
	sub := ""
	if snap.Outcome.GameOver() {
		sub = "Press R to play again"
	}
	if msg == "" {
		return
	}
	wide := max(len(msg), len(sub))
	bw := float32(wide*charW + 40)
	bh := float32(lineH*2 + 24)
	bx := float32(g.offX) + (float32(snap.Width)-bw)/2
	by := float32(g.offY) + float32(snap.Height)*0.3
	vector.FillRect(screen, bx, by, bw, bh, panelCol, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 2, panelEdge, false)
	g.drawText(screen, msg, int(bx)+20, int(by)+10, textCol)
	if sub != "" {
		g.drawText(screen, sub, int(bx)+20, int(by)+10+lineH, dimTextCol)
	}
}
