package game

// snareDuration is how long a snared mob stays slowed, in ms.
const snareDuration = 1500

// resolveContacts applies body-contact damage from drones, traps and bosses.
func resolveContacts(w *World) {
	w.rebuildGrid()
	var buf []hit
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		for _, d := range p.Drones {
			if d.HP <= 0 {
				continue
			}
			buf = w.contactCandidates(p, d.X, d.Y, d.R, true, buf[:0])
			w.droneContact(p, d, buf)
		}
		for _, tr := range p.Traps {
			if tr.HP <= 0 {
				continue
			}
			buf = w.contactCandidates(p, tr.X, tr.Y, tr.R, false, buf[:0])
			w.trapContact(p, tr, buf)
		}
	})
	for _, d := range w.SuperBoss.Drones {
		if d.HP > 0 {
			w.homingContact(d)
		}
	}
	w.bossContact()
	w.flushPending()
}

// contactCandidates lists hostile bodies overlapping the circle, in priority
// order: mobs, bosses, enemy players, then enemy drones.
func (w *World) contactCandidates(owner *Player, x, y, r float64, drones bool, buf []hit) []hit {
	for _, m := range w.mobsNear(x, y, r) {
		if CheckCollision(x, y, r, m.X, m.Y, m.R) {
			buf = append(buf, mobHit(m))
		}
	}
	if w.Boss.Alive() && CheckCollision(x, y, r, w.Boss.X, w.Boss.Y, w.Boss.R) {
		buf = append(buf, w.bossHit())
	}
	if w.SuperBoss.Alive() && CheckCollision(x, y, r, w.SuperBoss.X, w.SuperBoss.Y, w.SuperBoss.R()) {
		buf = append(buf, w.superBossHit())
	}
	w.EachPlayer(func(o *Player) {
		if o.ID != owner.ID && !o.Dead && CheckCollision(x, y, r, o.X, o.Y, o.R) {
			buf = append(buf, playerHit(o))
		}
	})
	if !drones {
		return buf
	}
	w.EachPlayer(func(o *Player) {
		if o.ID == owner.ID {
			return
		}
		for _, d := range o.Drones {
			if d.HP > 0 && CheckCollision(x, y, r, d.X, d.Y, d.R) {
				buf = append(buf, droneHit(d))
			}
		}
	})
	for _, d := range w.SuperBoss.Drones {
		if d.HP > 0 && CheckCollision(x, y, r, d.X, d.Y, d.R) {
			buf = append(buf, droneHit(d))
		}
	}
	return buf
}

// droneContact rams the first ready candidate. Each contact wears the drone down.
func (w *World) droneContact(p *Player, d *Drone, candidates []hit) {
	t := &w.Tuning
	now := w.Clock
	for _, h := range candidates {
		if !cooldownReady(d.Hits, h.id, now) {
			continue
		}
		w.damage(h, d.Damage, p.ID, KindPlayer)
		if h.kind == KindMob && d.Snare {
			h.mob.SlowUntil = now + snareDuration
		}
		setCooldown(&d.Hits, h.id, now+t.ContactCooldown)
		if applyDamage(&d.HP, 1) && d.Explosive {
			w.splash(d.X, d.Y, t.SplashRadius, d.Damage, p.ID, h.id)
		}
		return
	}
}

// trapContact damages the first ready candidate; the trap takes wear in return
func (w *World) trapContact(p *Player, tr *Trap, candidates []hit) {
	t := &w.Tuning
	now := w.Clock
	for _, h := range candidates {
		if h.kind == KindDrone || !cooldownReady(tr.Hits, h.id, now) {
			continue
		}
		w.damage(h, tr.Damage, p.ID, KindPlayer)
		setCooldown(&tr.Hits, h.id, now+t.ContactCooldown)
		wear := t.TrapWear
		if h.kind == KindBoss || h.kind == KindSuperBoss {
			wear = t.BossContactDamage
		}
		if applyDamage(&tr.HP, wear) && tr.Cluster {
			w.spawnFragments(tr.X, tr.Y, p.ID, KindPlayer, tr.Damage, h.id)
		}
		return
	}
}

// homingContact detonates a super boss drone on the first player it touches,
// its own target first.
func (w *World) homingContact(d *Drone) {
	if p, ok := w.Players[d.Target.ID]; ok && d.Target.Kind == KindPlayer && !p.Dead &&
		CheckCollision(d.X, d.Y, d.R, p.X, p.Y, p.R) {
		w.damagePlayer(p, d.Damage, "")
		d.HP = 0
		return
	}
	w.EachPlayer(func(p *Player) {
		if d.HP <= 0 || p.Dead {
			return
		}
		if CheckCollision(d.X, d.Y, d.R, p.X, p.Y, p.R) {
			w.damagePlayer(p, d.Damage, "")
			d.HP = 0
		}
	})
}

// bossContact hurts players touching a boss body, once per cooldown window
func (w *World) bossContact() {
	t := &w.Tuning
	now := w.Clock
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		if b := w.Boss; b.Alive() && CheckCollision(b.X, b.Y, b.R, p.X, p.Y, p.R) &&
			cooldownReady(b.Hits, p.ID, now) {
			setCooldown(&b.Hits, p.ID, now+t.ContactCooldown)
			w.damagePlayer(p, t.BossContactDamage, "")
		}
		if p.Dead {
			return
		}
		if s := w.SuperBoss; s.Alive() && CheckCollision(s.X, s.Y, s.R(), p.X, p.Y, p.R) &&
			cooldownReady(s.Hits, p.ID, now) {
			setCooldown(&s.Hits, p.ID, now+t.ContactCooldown)
			w.damagePlayer(p, t.BossContactDamage, "")
		}
	})
}
