package sim

import "github.com/vovakirdan/gunzone/internal/core"

// dropCash rolls a kill's cash drop. Amounts are rounded down to the
// denomination but never below one note.
func (st *step) dropCash(e *Enemy) {
	cc := st.cfg.Cash
	rng := &st.s.RNG

	chance, bills := cc.SprinterDropChance, cc.SprinterBills
	if e.Type == EnemyGunner {
		chance, bills = cc.GunnerDropChance, cc.GunnerBills
	}
	if rng.Float64() >= chance {
		return
	}

	lo, hi := bills[0], bills[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	amount := rng.IntRange(lo, hi)
	if den := cc.Denomination; den > 0 {
		amount = max(amount/den*den, den)
	}
	if amount <= 0 {
		return
	}

	pos := e.Pos.Add(rng.InDisc(cc.ScatterRadius))
	pos = core.ClampCircle(pos, 0, st.s.Arena.Width, st.s.Arena.Height)
	c := &CashPickup{ID: st.s.nextID(), Pos: pos, Amount: amount}
	st.s.CashPickups = append(st.s.CashPickups, c)
	st.s.CashSpawned += amount
	st.emit(CashSpawned{PickupID: c.ID, Amount: amount, Pos: pos})
}

func (st *step) collectCash() {
	p := &st.s.Player
	if p.HP <= 0 || len(st.s.CashPickups) == 0 {
		return
	}
	radius := st.cfg.Cash.PickupRadius
	st.s.CashPickups = compact(st.s.CashPickups, func(c *CashPickup) bool {
		if c.Pos.Dist(p.Pos) > radius {
			return true
		}
		st.s.RunCash += c.Amount
		st.emit(CashPickedUp{PickupID: c.ID, Amount: c.Amount, RunCash: st.s.RunCash})
		return false
	})
}

// openSupplyCache opens at most one unopened cache in reach per interact
// press.
func (st *step) openSupplyCache() {
	ex := st.s.Extraction
	p := &st.s.Player
	if !st.in.Interact || ex == nil || p.HP <= 0 {
		return
	}
	if ex.OpenedCaches == nil {
		ex.OpenedCaches = map[string]bool{}
	}

	for _, c := range st.cfg.Extraction.SupplyCaches {
		if ex.OpenedCaches[c.ID] || c.Pos.Dist(p.Pos) > c.Radius+p.Radius {
			continue
		}
		ex.OpenedCaches[c.ID] = true
		p.GrenadeAmmo += c.Grenades

		items := 0
		if p.Inventory != nil {
			for _, g := range c.Items {
				left, _ := p.Inventory.Add(st.cfg, g.Item, g.Count)
				items += g.Count - left
			}
		}
		st.emit(SupplyCollected{CacheID: c.ID, Grenades: c.Grenades, Items: items})
		return
	}
}
