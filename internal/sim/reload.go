package sim

import "math"

func (st *step) updateReload() {
	p := &st.s.Player

	if p.Bonus.Ticks > 0 {
		p.Bonus.Ticks--
		if p.Bonus.Ticks == 0 {
			p.Bonus = DamageBonus{}
		}
	}
	if p.WeaponSwapTimer > 0 {
		p.WeaponSwapTimer--
	}
	if st.s.Mode == ModeExtraction {
		st.swapWeapon()
	}

	if p.ReloadTimer <= 0 {
		if st.in.Reload {
			st.startReload()
		}
		return
	}

	// A press during the reload is an active-reload attempt.
	if st.in.Reload && !p.ReloadFumbled && p.ReloadTime > 0 {
		rc := st.cfg.Reload
		progress := 1 - float64(p.ReloadTimer)/float64(p.ReloadTime)
		q := classify(progress, rc.ActiveStart, rc.ActiveEnd, rc.PerfectStart, rc.PerfectEnd)
		if q != QualityNormal {
			st.finishReload(q)
			return
		}
		p.ReloadFumbled = true
		st.emit(ReloadFumbled{Weapon: st.activeWeaponName()})
	}

	p.ReloadTimer--
	if p.ReloadTimer <= 0 {
		st.finishReload(QualityNormal)
	}
}

func (st *step) swapWeapon() {
	p := &st.s.Player
	slot := -1
	switch {
	case st.in.WeaponSlot1:
		slot = 0
	case st.in.WeaponSlot2:
		slot = 1
	}
	if slot < 0 || slot >= len(p.Weapons) || slot == p.ActiveSlot {
		return
	}

	st.cancelReload()
	p.ActiveSlot = slot
	p.WeaponSwapTimer = st.cfg.Player.WeaponSwapTicks
	st.emit(WeaponSwapped{Slot: slot, Weapon: p.Weapons[slot].Type})
}

// reserve is the ammo available to refill the magazine.
func (st *step) reserve(ammoItem string) int {
	if st.s.Mode != ModeExtraction || ammoItem == "" {
		return math.MaxInt
	}
	if st.s.Player.Inventory == nil {
		return 0
	}
	return st.s.Player.Inventory.Count(ammoItem)
}

func (st *step) startReload() {
	p := &st.s.Player
	w := p.ActiveWeapon()
	if w == nil || p.Healing || p.ReloadTimer > 0 {
		return
	}
	wc, ok := st.cfg.Weapon(w.Type)
	if !ok || w.Ammo >= wc.MagazineSize || st.reserve(wc.AmmoItem) == 0 {
		return
	}

	ticks := max(wc.ReloadTicks, 1)
	p.ReloadTimer = ticks
	p.ReloadTime = ticks
	p.ReloadFumbled = false
	st.emit(ReloadStart{Weapon: w.Type, Ticks: ticks})
}

func (st *step) finishReload(q Quality) {
	p := &st.s.Player
	p.ReloadTimer = 0
	p.ReloadTime = 0
	p.ReloadFumbled = false

	w := p.ActiveWeapon()
	if w == nil {
		return
	}
	wc, ok := st.cfg.Weapon(w.Type)
	if !ok {
		return
	}

	need := max(wc.MagazineSize-w.Ammo, 0)
	if st.s.Mode == ModeExtraction && wc.AmmoItem != "" {
		if p.Inventory == nil {
			need = 0
		} else {
			need = p.Inventory.Take(wc.AmmoItem, need)
		}
	}
	w.Ammo += need

	rc := st.cfg.Reload
	switch q {
	case QualityPerfect:
		p.Bonus = DamageBonus{Multiplier: rc.PerfectMultiplier, Ticks: rc.BonusDurationTicks}
	case QualityActive:
		p.Bonus = DamageBonus{Multiplier: rc.ActiveMultiplier, Ticks: rc.BonusDurationTicks}
	}
	st.emit(ReloadComplete{Weapon: w.Type, Quality: q, Ammo: w.Ammo})
}

func (st *step) cancelReload() {
	p := &st.s.Player
	if p.ReloadTimer <= 0 {
		return
	}
	p.ReloadTimer = 0
	p.ReloadTime = 0
	p.ReloadFumbled = false
	st.emit(ReloadCancelled{Weapon: st.activeWeaponName()})
}

func (st *step) activeWeaponName() string {
	if w := st.s.Player.ActiveWeapon(); w != nil {
		return w.Type
	}
	return ""
}
