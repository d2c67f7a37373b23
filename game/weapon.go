package game

import "math"

// fireWeapons advances every cadence timer and emits the volleys that are due.
// New bullets land in their owner's list before the projectile pass runs.
func fireWeapons(w *World) {
	dt := w.Tuning.TickMs()
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		p.FireCooldown -= dt
		if p.FireCooldown > 0 {
			return
		}
		emitVolley(w, p)
		p.FireCooldown = p.Loadout.FireDelay
		if p.Loadout.FinalCannon {
			p.FireCooldown = w.Tuning.FinalCannonDelay
		}
	})
	fireDrones(w)
	fireSentries(w)
}

func (w *World) newPlayerBullet(p *Player, x, y, angle float64) *Bullet {
	l := &p.Loadout
	r := l.BulletRadius
	if l.Heavy {
		r *= 1.5
	}
	return &Bullet{
		ID:        w.newID("b"),
		X:         x,
		Y:         y,
		VX:        math.Cos(angle) * l.BulletSpeed,
		VY:        math.Sin(angle) * l.BulletSpeed,
		R:         r,
		Damage:    l.BulletDamage,
		Owner:     p.ID,
		Source:    KindPlayer,
		Life:      l.BulletLife,
		Pierce:    l.Pierce,
		Explosive: l.Explosive,
		Fragment:  l.Fragment,
		Knockback: l.Knockback,
	}
}

// emitVolley fires one round of the player's main gun plus side emitters
func emitVolley(w *World, p *Player) {
	l := &p.Loadout
	if !l.MainGun && !l.FinalCannon {
		return
	}
	p.Volleys++
	mx := p.X + math.Cos(p.Angle)*p.R
	my := p.Y + math.Sin(p.Angle)*p.R

	if l.FinalCannon {
		p.Bullets = append(p.Bullets, w.newPlayerBullet(p, mx, my, p.Angle))
		return
	}

	n := max(1, l.Barrels)
	perpX := math.Cos(p.Angle + math.Pi/2)
	perpY := math.Sin(p.Angle + math.Pi/2)

	switch {
	case l.Wall:
		width := w.Tuning.WallWidth
		for i := 0; i < n; i++ {
			off := 0.0
			if n > 1 {
				off = -width/2 + width*float64(i)/float64(n-1)
			}
			p.Bullets = append(p.Bullets, w.newPlayerBullet(p, mx+perpX*off, my+perpY*off, p.Angle))
		}
	case p.Path == PathBig && n >= 2:
		// twin cannons fire in parallel
		for i := 0; i < n; i++ {
			off := p.R * 0.5 * (float64(i) - float64(n-1)/2) * 2 / float64(n-1)
			p.Bullets = append(p.Bullets, w.newPlayerBullet(p, mx+perpX*off, my+perpY*off, p.Angle))
		}
	default:
		spread := l.Spread
		if l.Precision {
			spread *= 0.6
		}
		start := -spread * float64(n-1) / 2
		if l.Rotary && p.Volleys%2 == 0 {
			start += spread / 2
		}
		for i := 0; i < n; i++ {
			a := p.Angle + start + float64(i)*spread
			p.Bullets = append(p.Bullets, w.newPlayerBullet(p, mx, my, a))
		}
	}

	if l.SideSponsons {
		for _, side := range [2]float64{-math.Pi / 2, math.Pi / 2} {
			a := p.Angle + side
			b := w.newPlayerBullet(p, p.X+math.Cos(a)*p.R, p.Y+math.Sin(a)*p.R, a)
			b.Damage = max(1, b.Damage/2)
			b.Pierce = 0
			p.Bullets = append(p.Bullets, b)
		}
	}
}

// hostileBullet builds a projectile fired by one of the bosses
func (w *World) hostileBullet(src EntityKind, x, y, angle, speed, r float64, dmg int, life float64) *Bullet {
	return &Bullet{
		ID:     w.newID("b"),
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		R:      r,
		Damage: dmg,
		Source: src,
		Life:   life,
	}
}
