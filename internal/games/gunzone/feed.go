package gunzone

import (
	"fmt"

	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/sim"
)

const feedSize = 4

// FeedLine is one message in the event log.
type FeedLine struct {
	Tick  uint64
	Text  string
	Color core.Color
}

// Feed keeps the most recent notable events as display lines.
type Feed struct {
	lines []FeedLine
	size  int
}

// NewFeed creates a feed holding at most size lines.
func NewFeed(size int) *Feed {
	return &Feed{size: max(size, 1)}
}

// Record appends a line for every notable event, dropping the oldest.
func (f *Feed) Record(events []sim.GameEvent) {
	for _, ev := range events {
		text, color, ok := Describe(ev)
		if !ok {
			continue
		}
		f.lines = append(f.lines, FeedLine{Tick: ev.Tick, Text: text, Color: color})
	}
	if over := len(f.lines) - f.size; over > 0 {
		f.lines = append(f.lines[:0], f.lines[over:]...)
	}
}

// Lines returns the feed, oldest first.
func (f *Feed) Lines() []FeedLine {
	return f.lines
}

// Describe renders an event as a feed message. Per-shot noise (fire,
// spawns, individual hits) is not reported.
func Describe(ev sim.GameEvent) (string, core.Color, bool) {
	switch d := ev.Data.(type) {
	case sim.EnemyKilled:
		return fmt.Sprintf("%s down +%d", d.Enemy, d.Score), core.ColorBrightGreen, true
	case sim.PlayerHit:
		if d.Absorbed > 0 {
			return fmt.Sprintf("hit -%.0f (armor %.0f)", d.Damage, d.Absorbed), core.ColorBrightRed, true
		}
		return fmt.Sprintf("hit -%.0f", d.Damage), core.ColorBrightRed, true
	case sim.HealComplete:
		return fmt.Sprintf("%s heal +%.0f", d.Quality, d.Restored), qualityColor(d.Quality), true
	case sim.HealInterrupted:
		return "heal interrupted", core.ColorGray, true
	case sim.HealFumbled:
		return "heal fumbled", core.ColorOrange, true
	case sim.ReloadComplete:
		if d.Quality == sim.QualityNormal {
			return "", core.ColorDefault, false
		}
		return fmt.Sprintf("%s reload", d.Quality), qualityColor(d.Quality), true
	case sim.ReloadFumbled:
		return "reload fumbled", core.ColorOrange, true
	case sim.WeaponSwapped:
		return "switched to " + d.Weapon, core.ColorWhite, true
	case sim.GrenadeExploded:
		return fmt.Sprintf("boom x%d", d.Hits), core.ColorOrange, true
	case sim.TriggerActivated:
		return fmt.Sprintf("ambush! %d hostiles", d.Spawned), core.ColorRed, true
	case sim.CashPickedUp:
		return fmt.Sprintf("+$%d", d.Amount), core.ColorBrightYellow, true
	case sim.SupplyCollected:
		return fmt.Sprintf("supplies: %d grenades, %d items", d.Grenades, d.Items), core.ColorYellow, true
	case sim.ExtractionSuccess:
		return fmt.Sprintf("extracted with $%d", d.RunCash), core.ColorBrightGreen, true
	case sim.PlayerDeath:
		return "you died", core.ColorRed, true
	}
	return "", core.ColorDefault, false
}

func qualityColor(q sim.Quality) core.Color {
	switch q {
	case sim.QualityPerfect:
		return core.ColorBrightCyan
	case sim.QualityActive:
		return core.ColorCyan
	default:
		return core.ColorWhite
	}
}
