package game

import "math"

// placeTrap throws a trap along the player's facing. Over the cap, under
// cooldown or off-path requests are dropped.
func (w *World) placeTrap(p *Player) bool {
	t := &w.Tuning
	l := &p.Loadout
	if p.Dead || !l.TrapLayer || len(p.Traps) >= l.TrapMax || w.Clock < p.NextTrapAt {
		return false
	}
	r, hp, dmg := t.TrapRadius, t.TrapHP, t.TrapDamage
	switch {
	case l.TrapHuge:
		r, hp, dmg = 22, 200, 40
	case l.TrapBig:
		r, hp, dmg = 16, 120, 30
	}
	flight := max(1, t.TrapFlightTicks)
	step := t.TrapThrow / float64(flight)
	x, y := ClampToMap(p.X+math.Cos(p.Angle)*(p.R+r), p.Y+math.Sin(p.Angle)*(p.R+r), r, t.MapWidth, t.MapHeight)
	p.Traps = append(p.Traps, &Trap{
		ID:      w.newID("t"),
		Owner:   p.ID,
		X:       x,
		Y:       y,
		R:       r,
		HP:      hp,
		MaxHP:   hp,
		Damage:  dmg,
		Sentry:  l.TrapSentry,
		Cluster: l.TrapCluster,
		Flight:  flight,
		VX:      math.Cos(p.Angle) * step,
		VY:      math.Sin(p.Angle) * step,
		Life:    t.TrapLife,
	})
	p.NextTrapAt = w.Clock + t.TrapCooldown
	return true
}

// updateTraps advances traps in flight and expires old ones
func updateTraps(w *World) {
	t := &w.Tuning
	dt := t.TickMs()
	w.EachPlayer(func(p *Player) {
		for _, tr := range p.Traps {
			if tr.HP <= 0 {
				continue
			}
			if tr.Flight > 0 {
				tr.X, tr.Y = ClampToMap(tr.X+tr.VX, tr.Y+tr.VY, tr.R, t.MapWidth, t.MapHeight)
				tr.Flight--
			}
			tr.Life -= dt
			if tr.Life <= 0 {
				tr.HP = 0
			}
		}
	})
}

// fireSentries lets resting sentry traps shoot the nearest enemy in range
func fireSentries(w *World) {
	t := &w.Tuning
	dt := t.TickMs()
	w.rebuildGrid()
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		for _, tr := range p.Traps {
			if tr.HP <= 0 || !tr.Sentry || !tr.Resting() {
				continue
			}
			tr.FireCooldown -= dt
			if tr.FireCooldown > 0 {
				continue
			}
			tx, ty, ok := w.sentryTarget(p, tr)
			if !ok {
				continue
			}
			a := AngleTo(tr.X, tr.Y, tx, ty)
			p.Bullets = append(p.Bullets, &Bullet{
				ID:     w.newID("b"),
				X:      tr.X,
				Y:      tr.Y,
				VX:     math.Cos(a) * 8,
				VY:     math.Sin(a) * 8,
				R:      5,
				Damage: 8,
				Owner:  p.ID,
				Source: KindPlayer,
				Life:   700,
			})
			tr.FireCooldown = t.SentryDelay
		}
	})
}

func (w *World) sentryTarget(owner *Player, tr *Trap) (float64, float64, bool) {
	rng := w.Tuning.SentryRange
	bestD := rng * rng
	var bx, by float64
	found := false
	consider := func(x, y float64) {
		if d := DistSq(tr.X, tr.Y, x, y); d <= bestD {
			bestD, bx, by, found = d, x, y, true
		}
	}
	for _, m := range w.mobsNear(tr.X, tr.Y, rng) {
		consider(m.X, m.Y)
	}
	if w.Boss.Alive() {
		consider(w.Boss.X, w.Boss.Y)
	}
	if w.SuperBoss.Alive() {
		consider(w.SuperBoss.X, w.SuperBoss.Y)
	}
	w.EachPlayer(func(o *Player) {
		if o.ID != owner.ID && !o.Dead {
			consider(o.X, o.Y)
		}
	})
	return bx, by, found
}

// spawnFragments scatters shrapnel from (x,y). The bullets are queued and
// join their owner's list once the current pass is over. The body that
// triggered the burst starts out immune to it.
func (w *World) spawnFragments(x, y float64, owner string, src EntityKind, dmg int, exclude string) {
	t := &w.Tuning
	n := t.FragmentCount
	fd := max(1, int(math.Round(float64(dmg)*t.FragmentFactor)))
	for i := 0; i < n; i++ {
		a := float64(i) * 2 * math.Pi / float64(n)
		w.pending = append(w.pending, &Bullet{
			ID:     w.newID("b"),
			X:      x,
			Y:      y,
			VX:     math.Cos(a) * 6,
			VY:     math.Sin(a) * 6,
			R:      4,
			Damage: fd,
			Owner:  owner,
			Source: src,
			Life:   400,
			Hits:   map[string]float64{exclude: w.Clock + t.HitCooldown},
		})
	}
}
