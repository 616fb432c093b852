package sim

import (
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/gunzone/internal/inventory"
)

const (
	healKeySmall  = "small"
	healKeyLarge  = "large"
	healKeyHotbar = "hotbar:"
)

// classify grades progress against a timing window pair. The perfect window
// wins where the two overlap; bounds are inclusive.
func classify(progress, activeStart, activeEnd, perfectStart, perfectEnd float64) Quality {
	switch {
	case progress >= perfectStart && progress <= perfectEnd:
		return QualityPerfect
	case progress >= activeStart && progress <= activeEnd:
		return QualityActive
	default:
		return QualityNormal
	}
}

func (st *step) updateHeal() {
	p := &st.s.Player
	if !p.Healing {
		st.startHeal()
		return
	}

	p.HealTimer++
	if st.healKeyPressed(p.HealKey) && !p.HealFumbled && p.HealTime > 0 {
		hc := st.cfg.Heal
		progress := float64(p.HealTimer) / float64(p.HealTime)
		q := classify(progress, hc.ActiveStart, hc.ActiveEnd, hc.PerfectStart, hc.PerfectEnd)
		if q != QualityNormal {
			st.completeHeal(q)
			return
		}
		p.HealFumbled = true
		st.emit(HealFumbled{HealType: p.HealType})
	}
	if p.HealTimer > p.HealTime {
		st.completeHeal(QualityNormal)
	}
}

func (st *step) healKeyPressed(key string) bool {
	switch key {
	case healKeySmall:
		return st.in.HealSmall
	case healKeyLarge:
		return st.in.HealLarge
	}
	if st.in.HotbarUse == nil {
		return false
	}
	slot, ok := strings.CutPrefix(key, healKeyHotbar)
	return ok && slot == strconv.Itoa(*st.in.HotbarUse)
}

// startHeal begins a heal from the pressed input. The bandage is used up
// immediately; an interrupted heal does not give it back.
func (st *step) startHeal() {
	p := &st.s.Player
	if p.DodgeTimer > 0 || p.HP <= 0 || p.HP >= p.MaxHP {
		return
	}

	var (
		tierName string
		key      string
		consume  func() bool
	)
	if st.s.Mode == ModeExtraction {
		if st.in.HotbarUse == nil || p.Inventory == nil {
			return
		}
		slot := *st.in.HotbarUse
		def, err := p.Inventory.HotbarItem(st.cfg, slot)
		if err != nil || def.Kind != inventory.KindBandage {
			return
		}
		tierName = def.HealTier
		key = healKeyHotbar + strconv.Itoa(slot)
		consume = func() bool { return p.Inventory.Consume(def.ID, 1) == nil }
	} else {
		switch {
		case st.in.HealSmall && p.SmallBandages > 0:
			tierName, key = "small", healKeySmall
			consume = func() bool { p.SmallBandages--; return true }
		case st.in.HealLarge && p.LargeBandages > 0:
			tierName, key = "large", healKeyLarge
			consume = func() bool { p.LargeBandages--; return true }
		default:
			return
		}
	}

	tier, ok := st.cfg.Heal.Tiers[tierName]
	if !ok || tier.TimeTicks <= 0 || !consume() {
		return
	}

	p.Healing = true
	p.HealTimer = 0
	p.HealTime = tier.TimeTicks
	p.HealType = tierName
	p.HealKey = key
	p.HealFumbled = false
	st.emit(HealStart{HealType: tierName, Ticks: tier.TimeTicks})

	st.cancelReload()
}

func (st *step) completeHeal(q Quality) {
	p := &st.s.Player
	hc := st.cfg.Heal

	mult := 1.0
	switch q {
	case QualityPerfect:
		mult = hc.PerfectMultiplier
	case QualityActive:
		mult = hc.ActiveMultiplier
	}

	before := p.HP
	p.HP = math.Min(p.MaxHP, p.HP+hc.Tiers[p.HealType].Amount*mult)
	st.emit(HealComplete{
		HealType: p.HealType,
		Quality:  q,
		Restored: p.HP - before,
		HP:       p.HP,
	})
	st.resetHeal()
}

func (st *step) interruptHeal() {
	st.emit(HealInterrupted{HealType: st.s.Player.HealType})
	st.resetHeal()
}

func (st *step) resetHeal() {
	p := &st.s.Player
	p.Healing = false
	p.HealTimer = 0
	p.HealTime = 0
	p.HealType = ""
	p.HealKey = ""
	p.HealFumbled = false
}
