package gunzone

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/sim"
)

// World units covered by one terminal cell. Cells are roughly twice as
// tall as they are wide.
const (
	cellW   = 12.0
	cellH   = 24.0
	hudRows = 2
	barW    = 24
)

// viewport maps world coordinates onto the map area of the screen.
type viewport struct {
	ox, oy float64
	top    int
	cols   int
	rows   int
}

func newViewport(s *sim.GameState, cols, rows, top int) viewport {
	v := viewport{top: top, cols: cols, rows: rows}
	v.ox = cameraAxis(s.Player.Pos.X, s.Arena.Width, float64(cols)*cellW)
	v.oy = cameraAxis(s.Player.Pos.Y, s.Arena.Height, float64(rows)*cellH)
	return v
}

// cameraAxis centers on the player, clamped to the map. A map smaller than
// the view is centered instead.
func cameraAxis(pos, world, span float64) float64 {
	if world <= span {
		return (world - span) / 2
	}
	return core.ClampF(pos-span/2, 0, world-span)
}

func (v viewport) cell(p core.Vec2) (int, int, bool) {
	x := int(math.Floor((p.X - v.ox) / cellW))
	y := int(math.Floor((p.Y - v.oy) / cellH))
	if x < 0 || y < 0 || x >= v.cols || y >= v.rows {
		return 0, 0, false
	}
	return x, y + v.top, true
}

func (v viewport) plot(dst *core.Screen, p core.Vec2, r rune, c core.Color) {
	if x, y, ok := v.cell(p); ok {
		dst.SetColored(x, y, r, c)
	}
}

func (v viewport) fill(dst *core.Screen, rect core.Rect, r rune, c core.Color) {
	x0 := max(int(math.Floor((rect.X-v.ox)/cellW)), 0)
	y0 := max(int(math.Floor((rect.Y-v.oy)/cellH)), 0)
	x1 := min(int(math.Ceil((rect.Right()-v.ox)/cellW)), v.cols)
	y1 := min(int(math.Ceil((rect.Bottom()-v.oy)/cellH)), v.rows)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	dst.FillRect(x0, y0+v.top, x1-x0, y1-y0, r, c)
}

// Render draws the map, HUD, event feed and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.game == nil {
		return
	}
	s := g.game.State

	feedRows := min(feedSize, max(dst.Height()-hudRows-4, 0))
	rows := dst.Height() - hudRows - feedRows
	if dst.Width() < 40 || rows < 6 {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	v := newViewport(s, dst.Width(), rows, hudRows)
	g.renderWorld(dst, v, s)
	g.renderHUD(dst, s)
	g.renderFeed(dst, dst.Height()-feedRows)

	switch {
	case s.Extracted:
		g.renderOverlay(dst, "EXTRACTED", fmt.Sprintf("Cash $%d  Score %d  -  R to redeploy", s.RunCash, s.Score))
	case s.GameOver:
		g.renderOverlay(dst, "KILLED IN ACTION", fmt.Sprintf("Score %d  Kills %d  -  R to restart", s.Score, s.Kills))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderWorld(dst *core.Screen, v viewport, s *sim.GameState) {
	dst.FillRect(0, v.top, v.cols, v.rows, '▒', core.ColorGray)
	v.fill(dst, core.NewRect(0, 0, s.Arena.Width, s.Arena.Height), ' ', core.ColorDefault)

	if s.Mode == sim.ModeExtraction {
		for _, z := range g.cfg.Extraction.ExtractionZones {
			v.fill(dst, z, '≡', core.ColorGreen)
		}
		for _, c := range g.cfg.Extraction.SupplyCaches {
			if s.Extraction != nil && s.Extraction.OpenedCaches[c.ID] {
				v.plot(dst, c.Pos, '□', core.ColorGray)
				continue
			}
			v.plot(dst, c.Pos, '■', core.ColorYellow)
		}
	}
	for _, r := range s.Obstacles {
		v.fill(dst, r, '█', core.ColorGray)
	}

	for _, c := range s.CashPickups {
		v.plot(dst, c.Pos, '$', core.ColorBrightYellow)
	}
	for _, gr := range s.Grenades {
		r := 'o'
		if gr.Height > 0 {
			r = 'º'
		}
		v.plot(dst, gr.Pos, r, core.ColorBrightGreen)
	}
	for _, e := range s.Enemies {
		v.plot(dst, e.Pos, enemyRune(e), enemyColor(e))
	}
	for _, p := range s.EnemyProjectiles {
		v.plot(dst, p.Pos, '•', core.ColorOrange)
	}
	for _, p := range s.Projectiles {
		v.plot(dst, p.Pos, '·', core.ColorWhite)
	}

	p := s.Player
	v.plot(dst, p.Pos.Add(p.Facing.Scale(cellW*6)), '+', core.ColorGray)
	color := core.ColorCyan
	if p.Invulnerable() {
		color = core.ColorBrightCyan
	}
	v.plot(dst, p.Pos, '@', color)
}

func enemyRune(e *sim.Enemy) rune {
	r := 's'
	if e.Type == sim.EnemyGunner {
		r = 'g'
	}
	if e.AIState == sim.AIActive {
		r -= 'a' - 'A'
	}
	return r
}

func enemyColor(e *sim.Enemy) core.Color {
	switch {
	case e.StunTimer > 0:
		return core.ColorGray
	case e.Type == sim.EnemyGunner:
		return core.ColorMagenta
	default:
		return core.ColorRed
	}
}

func (g *Game) renderHUD(dst *core.Screen, s *sim.GameState) {
	p := s.Player

	var sb strings.Builder
	fmt.Fprintf(&sb, " %s  HP %.0f/%.0f", strings.ToUpper(string(s.Mode)), p.HP, p.MaxHP)
	if p.ArmorMaxHP > 0 {
		fmt.Fprintf(&sb, "  AR %.0f", p.ArmorHP)
	}
	if w := p.ActiveWeapon(); w != nil {
		name := w.Type
		if wc, ok := g.cfg.Weapon(w.Type); ok && wc.Name != "" {
			name = wc.Name
		}
		fmt.Fprintf(&sb, "  %s %d", name, w.Ammo)
		if wc, ok := g.cfg.Weapon(w.Type); ok && s.Mode == sim.ModeExtraction && p.Inventory != nil {
			fmt.Fprintf(&sb, "/%d", p.Inventory.Count(wc.AmmoItem))
		}
	}
	fmt.Fprintf(&sb, "  G %d", p.GrenadeAmmo)
	if s.Mode == sim.ModeArena {
		fmt.Fprintf(&sb, "  B %d/%d", p.SmallBandages, p.LargeBandages)
	} else if p.Inventory != nil {
		fmt.Fprintf(&sb, "  B %d/%d", p.Inventory.Count("bandage_small"), p.Inventory.Count("bandage_large"))
	}
	fmt.Fprintf(&sb, "  Score %d  Kills %d", s.Score, s.Kills)
	if s.Mode == sim.ModeExtraction {
		fmt.Fprintf(&sb, "  $%d", s.RunCash)
	}
	dst.DrawText(0, 0, sb.String())

	switch {
	case p.ReloadTimer > 0 && p.ReloadTime > 0:
		r := g.cfg.Reload
		progress := 1 - float64(p.ReloadTimer)/float64(p.ReloadTime)
		g.renderBar(dst, "RELOAD", progress, r.ActiveStart, r.ActiveEnd, r.PerfectStart, r.PerfectEnd, p.ReloadFumbled)
	case p.Healing && p.HealTime > 0:
		h := g.cfg.Heal
		progress := float64(p.HealTimer) / float64(p.HealTime)
		g.renderBar(dst, "HEAL  ", progress, h.ActiveStart, h.ActiveEnd, h.PerfectStart, h.PerfectEnd, p.HealFumbled)
	case p.DodgeCooldown > 0:
		dst.DrawTextColored(1, 1, "dodge recharging", core.ColorGray)
	case p.Bonus.Ticks > 0:
		dst.DrawTextColored(1, 1, fmt.Sprintf("damage x%.2f", p.Bonus.Multiplier), core.ColorBrightCyan)
	}
}

// renderBar draws a timed-action progress bar with its active and perfect
// windows marked.
func (g *Game) renderBar(dst *core.Screen, label string, progress, aS, aE, pS, pE float64, fumbled bool) {
	dst.DrawText(1, 1, label+" [")
	x0 := len(label) + 3
	filled := int(core.ClampF(progress, 0, 1) * barW)
	for i := range barW {
		at := (float64(i) + 0.5) / barW
		r, c := '─', core.ColorGray
		switch {
		case fumbled:
		case at >= pS && at <= pE:
			r, c = '═', core.ColorBrightCyan
		case at >= aS && at <= aE:
			r, c = '═', core.ColorCyan
		}
		if i < filled {
			r = '█'
		}
		dst.SetColored(x0+i, 1, r, c)
	}
	dst.DrawText(x0+barW, 1, "]")
	if fumbled {
		dst.DrawTextColored(x0+barW+2, 1, "fumbled", core.ColorOrange)
	}
}

func (g *Game) renderFeed(dst *core.Screen, top int) {
	lines := g.feed.Lines()
	for i, l := range lines {
		y := top + i
		if y >= dst.Height() {
			break
		}
		dst.DrawTextColored(1, y, l.Text, l.Color)
	}
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorWhite)
	dst.DrawTextCentered(boxY+1, line1, core.ColorBrightYellow)
	dst.DrawTextCentered(boxY+3, line2, core.ColorDefault)
}
