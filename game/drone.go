package game

import "math"

func droneMode(l *Loadout) DroneMode {
	switch {
	case l.DroneGuardian:
		return DroneOrbit
	case l.DroneShooter:
		return DroneShoot
	}
	return DroneSeek
}

// moveToward steps (x,y) at most speed toward (gx,gy)
func moveToward(x, y, gx, gy, speed float64) (float64, float64) {
	d := Dist(x, y, gx, gy)
	if d <= speed || d == 0 {
		return gx, gy
	}
	return x + (gx-x)/d*speed, y + (gy-y)/d*speed
}

func (w *World) spawnPlayerDrone(p *Player) {
	t := &w.Tuning
	a := w.rng.Float64() * 2 * math.Pi
	d := &Drone{
		ID:    w.newID("d"),
		Owner: p.ID,
		X:     p.X + math.Cos(a)*(p.R+t.DroneRadius),
		Y:     p.Y + math.Sin(a)*(p.R+t.DroneRadius),
		R:     t.DroneRadius,
		HP:    p.Loadout.DroneHP,
		Orbit: a,
	}
	d.X, d.Y = ClampToMap(d.X, d.Y, d.R, t.MapWidth, t.MapHeight)
	p.Drones = append(p.Drones, d)
}

func (w *World) spawnHomingDrone(s *SuperBoss) {
	t := &w.Tuning
	a := s.RingAngles[0]
	d := &Drone{
		ID:     w.newID("d"),
		Owner:  SuperBossID,
		X:      s.X + math.Cos(a)*s.Rings[0],
		Y:      s.Y + math.Sin(a)*s.Rings[0],
		R:      t.DroneRadius * 1.5,
		HP:     1,
		Damage: t.HomingDroneDmg,
		Mode:   DroneHoming,
		Life:   t.HomingDroneLife,
	}
	d.X, d.Y = ClampToMap(d.X, d.Y, d.R, t.MapWidth, t.MapHeight)
	d.Target, _, _ = w.nearestPlayer(d.X, d.Y, math.Inf(1))
	s.Drones = append(s.Drones, d)
}

// updateDrones spawns player drones on their timers and moves every drone.
func updateDrones(w *World) {
	t := &w.Tuning
	dt := t.TickMs()
	w.rebuildGrid()
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		l := &p.Loadout
		if l.MaxDrones > 0 && len(p.Drones) < l.MaxDrones {
			p.DroneTimer += dt
			if p.DroneTimer >= l.DroneRespawn {
				p.DroneTimer = 0
				w.spawnPlayerDrone(p)
			}
		}
		for _, d := range p.Drones {
			if d.HP > 0 {
				stepPlayerDrone(w, p, d)
			}
		}
	})
	for _, d := range w.SuperBoss.Drones {
		if d.HP > 0 {
			stepHomingDrone(w, d)
		}
	}
}

func stepPlayerDrone(w *World, p *Player, d *Drone) {
	t := &w.Tuning
	l := &p.Loadout
	d.Mode = droneMode(l)
	d.Damage = l.DroneDamage
	d.Snare = l.DroneSnare
	d.Explosive = l.DroneExplosive

	if d.Target.Valid() {
		tx, ty, _, ok := w.resolve(d.Target)
		if !ok || Dist(p.X, p.Y, tx, ty) > t.DroneLeash {
			d.Target = Ref{}
		}
	}
	if d.Mode == DroneOrbit {
		d.Target = Ref{}
	} else if !d.Target.Valid() {
		d.Target = w.droneAcquire(p)
	}

	gx, gy := 0.0, 0.0
	if tx, ty, _, ok := w.resolve(d.Target); ok {
		gx, gy = tx, ty
		if d.Mode == DroneShoot && Dist(d.X, d.Y, tx, ty) <= t.DroneShootRange*0.7 {
			gx, gy = d.X, d.Y
		}
	} else {
		d.Orbit = NormalizeAngle(d.Orbit + 0.05)
		gx = p.X + math.Cos(d.Orbit)*t.DroneOrbit
		gy = p.Y + math.Sin(d.Orbit)*t.DroneOrbit
	}
	d.X, d.Y = moveToward(d.X, d.Y, gx, gy, t.DroneSpeed)
	d.X, d.Y = ClampToMap(d.X, d.Y, d.R, t.MapWidth, t.MapHeight)
}

// droneAcquire picks the closest hostile body within seek range of the owner
func (w *World) droneAcquire(p *Player) Ref {
	t := &w.Tuning
	best := Ref{}
	bestD := t.DroneSeekRange * t.DroneSeekRange
	consider := func(r Ref, x, y float64) {
		if d := DistSq(p.X, p.Y, x, y); d <= bestD {
			best, bestD = r, d
		}
	}
	for _, m := range w.mobsNear(p.X, p.Y, t.DroneSeekRange) {
		consider(Ref{Kind: KindMob, ID: m.ID}, m.X, m.Y)
	}
	if w.Boss.Alive() {
		consider(Ref{Kind: KindBoss, ID: BossID}, w.Boss.X, w.Boss.Y)
	}
	if w.SuperBoss.Alive() {
		consider(Ref{Kind: KindSuperBoss, ID: SuperBossID}, w.SuperBoss.X, w.SuperBoss.Y)
	}
	w.EachPlayer(func(o *Player) {
		if o.ID != p.ID && !o.Dead {
			consider(Ref{Kind: KindPlayer, ID: o.ID}, o.X, o.Y)
		}
	})
	return best
}

func stepHomingDrone(w *World, d *Drone) {
	t := &w.Tuning
	d.Life -= t.TickMs()
	if d.Life <= 0 {
		d.HP = 0
		return
	}
	tx, ty, _, ok := w.resolve(d.Target)
	if !ok {
		d.Target, tx, ty = w.nearestPlayer(d.X, d.Y, math.Inf(1))
		ok = d.Target.Valid()
	}
	if !ok {
		return
	}
	d.X, d.Y = moveToward(d.X, d.Y, tx, ty, t.HomingDroneSpeed)
	d.X, d.Y = ClampToMap(d.X, d.Y, d.R, t.MapWidth, t.MapHeight)
}

// fireDrones lets seek-and-shoot drones fire at their current target
func fireDrones(w *World) {
	t := &w.Tuning
	dt := t.TickMs()
	w.EachPlayer(func(p *Player) {
		if p.Dead || !p.Loadout.DroneShooter {
			return
		}
		for _, d := range p.Drones {
			if d.HP <= 0 {
				continue
			}
			d.FireCooldown -= dt
			if d.FireCooldown > 0 {
				continue
			}
			tx, ty, _, ok := w.resolve(d.Target)
			if !ok || Dist(d.X, d.Y, tx, ty) > t.DroneShootRange {
				continue
			}
			a := AngleTo(d.X, d.Y, tx, ty)
			p.Bullets = append(p.Bullets, &Bullet{
				ID:     w.newID("b"),
				X:      d.X,
				Y:      d.Y,
				VX:     math.Cos(a) * 7,
				VY:     math.Sin(a) * 7,
				R:      4,
				Damage: max(3, p.Loadout.BulletDamage/2),
				Owner:  p.ID,
				Source: KindPlayer,
				Life:   800,
			})
			d.FireCooldown = t.DroneFireDelay
		}
	})
}
