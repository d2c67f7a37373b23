package game

import (
	"math"
	"strconv"

	"go.uber.org/zap"
)

// hit is one resolved candidate body for a bullet or construct.
type hit struct {
	kind   EntityKind
	id     string
	x, y   float64
	r      float64
	player *Player
	mob    *Mob
	drone  *Drone
	trap   *Trap
}

// resolveProjectiles integrates and collides every live bullet. Shrapnel
// spawned along the way is appended only after the pass.
func resolveProjectiles(w *World) {
	w.rebuildGrid()
	w.EachPlayer(func(p *Player) {
		for _, b := range p.Bullets {
			if !b.spent {
				w.stepBullet(b)
			}
		}
	})
	for _, b := range w.Boss.Bullets {
		if !b.spent {
			w.stepBullet(b)
		}
	}
	for _, b := range w.SuperBoss.Bullets {
		if !b.spent {
			w.stepBullet(b)
		}
	}
	w.flushPending()
}

// stepBullet moves one bullet and applies at most one hit.
func (w *World) stepBullet(b *Bullet) {
	t := &w.Tuning
	b.X += b.VX
	b.Y += b.VY
	b.Life -= t.TickMs()
	if b.Life <= 0 || !InsideMap(b.X, b.Y, t.MapWidth, t.MapHeight) {
		b.spent = true
		return
	}
	h, ok := w.bulletTarget(b)
	if !ok {
		return
	}
	w.bulletHit(b, h)
	if b.Pierce > 0 {
		b.Pierce--
		b.markHit(h.id, w.Clock+t.HitCooldown)
		return
	}
	b.spent = true
}

// bulletTarget returns the first overlapping body in priority order:
// bosses, mobs, players, drones, traps.
func (w *World) bulletTarget(b *Bullet) (hit, bool) {
	now := w.Clock
	try := func(h hit) bool {
		return !b.immuneTo(h.id, now) && CheckCollision(b.X, b.Y, b.R, h.x, h.y, h.r)
	}

	if b.Source != KindBoss && w.Boss.Alive() {
		if h := w.bossHit(); try(h) {
			return h, true
		}
	}
	if b.Source != KindSuperBoss && w.SuperBoss.Alive() {
		if h := w.superBossHit(); try(h) {
			return h, true
		}
	}

	for _, m := range w.mobsNear(b.X, b.Y, b.R) {
		if h := mobHit(m); try(h) {
			return h, true
		}
	}

	var found hit
	ok := false
	w.EachPlayer(func(p *Player) {
		if ok || p.Dead || p.ID == b.Owner {
			return
		}
		if h := playerHit(p); try(h) {
			found, ok = h, true
		}
	})
	if ok {
		return found, true
	}

	w.EachPlayer(func(p *Player) {
		if ok || p.ID == b.Owner {
			return
		}
		for _, d := range p.Drones {
			if d.HP <= 0 {
				continue
			}
			if h := droneHit(d); try(h) {
				found, ok = h, true
				return
			}
		}
	})
	if ok {
		return found, true
	}
	if b.Source == KindPlayer {
		for _, d := range w.SuperBoss.Drones {
			if d.HP <= 0 {
				continue
			}
			if h := droneHit(d); try(h) {
				return h, true
			}
		}
	}

	w.EachPlayer(func(p *Player) {
		if ok || p.ID == b.Owner {
			return
		}
		for _, tr := range p.Traps {
			if tr.HP <= 0 {
				continue
			}
			if h := trapHit(tr); try(h) {
				found, ok = h, true
				return
			}
		}
	})
	return found, ok
}

func (w *World) bossHit() hit {
	b := w.Boss
	return hit{kind: KindBoss, id: BossID, x: b.X, y: b.Y, r: b.R}
}

func (w *World) superBossHit() hit {
	s := w.SuperBoss
	return hit{kind: KindSuperBoss, id: SuperBossID, x: s.X, y: s.Y, r: s.R()}
}

func mobHit(m *Mob) hit {
	return hit{kind: KindMob, id: m.ID, x: m.X, y: m.Y, r: m.R, mob: m}
}

func playerHit(p *Player) hit {
	return hit{kind: KindPlayer, id: p.ID, x: p.X, y: p.Y, r: p.R, player: p}
}

func droneHit(d *Drone) hit {
	return hit{kind: KindDrone, id: d.ID, x: d.X, y: d.Y, r: d.R, drone: d}
}

func trapHit(t *Trap) hit {
	return hit{kind: KindTrap, id: t.ID, x: t.X, y: t.Y, r: t.R, trap: t}
}

// bulletHit applies damage and the bullet's on-hit effects.
func (w *World) bulletHit(b *Bullet, h hit) {
	t := &w.Tuning
	w.damage(h, b.Damage, b.Owner, b.Source)
	if b.Explosive {
		w.splash(b.X, b.Y, t.SplashRadius, int(float64(b.Damage)*t.SplashFactor), b.Owner, h.id)
	}
	if b.Fragment {
		w.spawnFragments(b.X, b.Y, b.Owner, b.Source, b.Damage, h.id)
	}
	if b.Knockback {
		w.knockback(h, b.VX, b.VY, t.KnockbackPush)
	}
}

// damage routes damage to the right body. owner is the crediting player
// (empty for hostile sources).
func (w *World) damage(h hit, dmg int, owner string, src EntityKind) {
	switch h.kind {
	case KindMob:
		w.damageMob(h.mob, dmg, owner)
	case KindPlayer:
		w.damagePlayer(h.player, dmg, owner)
	case KindBoss:
		if applyDamage(&w.Boss.HP, dmg) {
			w.defeatBoss(KindBoss, owner)
		}
		w.popup(h.x, h.y, strconv.Itoa(dmg), "#ffaa00")
	case KindSuperBoss:
		if applyDamage(&w.SuperBoss.HP, dmg) {
			w.defeatBoss(KindSuperBoss, owner)
		}
		w.popup(h.x, h.y, strconv.Itoa(dmg), "#ffaa00")
	case KindDrone:
		d := h.drone
		w.popup(h.x, h.y, strconv.Itoa(dmg), "#88ccff")
		if applyDamage(&d.HP, dmg) && d.Explosive {
			w.splash(d.X, d.Y, w.Tuning.SplashRadius, d.Damage, d.Owner, "")
		}
	case KindTrap:
		tr := h.trap
		w.popup(h.x, h.y, strconv.Itoa(dmg), "#88ccff")
		if applyDamage(&tr.HP, dmg) && tr.Cluster {
			w.spawnFragments(tr.X, tr.Y, tr.Owner, KindPlayer, tr.Damage, "")
		}
	}
}

func (w *World) damageMob(m *Mob, dmg int, owner string) {
	if !m.Alive() {
		return
	}
	killed := applyDamage(&m.HP, dmg)
	w.popup(m.X, m.Y, strconv.Itoa(dmg), "#ffffff")
	if !killed {
		return
	}
	if p, ok := w.Players[owner]; ok && !p.Dead {
		AddXP(p, m.XP)
	}
}

func (w *World) damagePlayer(p *Player, dmg int, killer string) {
	if p.Dead {
		return
	}
	killed := applyDamage(&p.HP, dmg)
	w.popup(p.X, p.Y, strconv.Itoa(dmg), "#ff5555")
	if killed {
		w.killPlayer(p, killer)
	}
}

// killPlayer marks p dead and retires everything it owns. A player killer
// is credited max(KillXPMin, level*KillXPPerLevel).
func (w *World) killPlayer(p *Player, killer string) {
	t := &w.Tuning
	p.HP = 0
	p.Dead = true
	p.Killer = killer
	for _, b := range p.Bullets {
		b.spent = true
	}
	for _, d := range p.Drones {
		d.HP = 0
	}
	for _, tr := range p.Traps {
		tr.HP = 0
	}

	xp := 0
	if k, ok := w.Players[killer]; ok && k != p {
		xp = max(t.KillXPMin, p.Level*t.KillXPPerLevel)
		AddXP(k, xp)
		k.Kills++
	}
	w.emit(EventPlayerKilled, killer, p.ID, xp)
	w.log.Debug("player killed", zap.String("victim", p.ID), zap.String("killer", killer), zap.Int("xp", xp))
}

// splash damages mobs around (x,y); only mobs take splash.
func (w *World) splash(x, y, radius float64, dmg int, owner, exclude string) {
	if dmg <= 0 {
		return
	}
	for _, m := range w.mobsNear(x, y, radius) {
		if m.ID == exclude {
			continue
		}
		if CheckCollision(x, y, radius, m.X, m.Y, m.R) {
			w.damageMob(m, dmg, owner)
		}
	}
}

// knockback shoves a body along (vx,vy). Bosses do not budge.
func (w *World) knockback(h hit, vx, vy, push float64) {
	t := &w.Tuning
	n := math.Hypot(vx, vy)
	if n == 0 {
		return
	}
	dx, dy := vx/n*push, vy/n*push
	switch h.kind {
	case KindMob:
		m := h.mob
		m.X, m.Y = ClampToMap(m.X+dx, m.Y+dy, m.R, t.MapWidth, t.MapHeight)
		// the mob may have changed cell; later bullets this tick must see it there
		w.rebuildGrid()
	case KindPlayer:
		p := h.player
		p.X, p.Y = ClampToMap(p.X+dx, p.Y+dy, p.R, t.MapWidth, t.MapHeight)
	case KindDrone:
		d := h.drone
		d.X, d.Y = ClampToMap(d.X+dx, d.Y+dy, d.R, t.MapWidth, t.MapHeight)
	case KindTrap:
		tr := h.trap
		tr.X, tr.Y = ClampToMap(tr.X+dx, tr.Y+dy, tr.R, t.MapWidth, t.MapHeight)
	}
}
