package game

import (
	"math"

	"go.uber.org/zap"
)

// Ring spin rates in radians per tick, bottom to top.
var ringSpin = [3]float64{0.008, -0.013, 0.02}

func (w *World) respawnBoss() {
	t := &w.Tuning
	b := w.Boss
	b.X, b.Y = w.randomPoint(t.BossRadius + 100)
	b.R = t.BossRadius
	b.Speed = t.BossSpeed
	b.MaxHP = t.BossHP
	b.HP = t.BossHP
	b.FireTimer = 0
	b.Target = Ref{}
	b.Hits = nil
}

func (w *World) respawnSuperBoss() {
	t := &w.Tuning
	s := w.SuperBoss
	s.X, s.Y = w.randomPoint(t.SuperBossRings[0] + 100)
	s.Rings = t.SuperBossRings
	s.Speed = t.SuperBossSpeed
	s.MaxHP = t.SuperBossHP
	s.HP = t.SuperBossHP
	s.BurstTimer, s.RadialTimer, s.SnapTimer, s.DroneTimer = 0, 0, 0, 0
	s.Target = Ref{}
	s.Hits = nil
}

// nearestTarget picks the closest valid body among live players, mobs and the
// other boss. Ties keep the first candidate found.
func (w *World) nearestTarget(x, y float64, self EntityKind) (Ref, float64, float64, float64) {
	best := Ref{}
	bestD := math.Inf(1)
	var bx, by, br float64
	consider := func(r Ref, cx, cy, cr float64) {
		if d := DistSq(x, y, cx, cy); d < bestD {
			best, bestD, bx, by, br = r, d, cx, cy, cr
		}
	}
	w.EachPlayer(func(p *Player) {
		if !p.Dead {
			consider(Ref{Kind: KindPlayer, ID: p.ID}, p.X, p.Y, p.R)
		}
	})
	for _, m := range w.Mobs {
		if m.Alive() {
			consider(Ref{Kind: KindMob, ID: m.ID}, m.X, m.Y, m.R)
		}
	}
	if self != KindBoss && w.Boss.Alive() {
		consider(Ref{Kind: KindBoss, ID: BossID}, w.Boss.X, w.Boss.Y, w.Boss.R)
	}
	if self != KindSuperBoss && w.SuperBoss.Alive() {
		consider(Ref{Kind: KindSuperBoss, ID: SuperBossID}, w.SuperBoss.X, w.SuperBoss.Y, w.SuperBoss.R())
	}
	return best, bx, by, br
}

// pursue moves (x,y) toward a target and stops at standoff from its edge.
func pursue(x, y, tx, ty, tr, speed, standoff float64) (float64, float64) {
	d := Dist(x, y, tx, ty)
	if d <= standoff+tr || d == 0 {
		return x, y
	}
	step := math.Min(speed, d-(standoff+tr))
	a := AngleTo(x, y, tx, ty)
	return x + math.Cos(a)*step, y + math.Sin(a)*step
}

// updateBosses runs both boss controllers and their respawn timers.
func updateBosses(w *World) {
	updateBoss(w)
	updateSuperBoss(w)
}

func updateBoss(w *World) {
	t := &w.Tuning
	b := w.Boss
	if !b.Alive() {
		if w.Clock >= b.RespawnAt {
			w.respawnBoss()
			w.log.Info("boss respawned", zap.Float64("x", b.X), zap.Float64("y", b.Y))
		}
		return
	}

	ref, tx, ty, tr := w.nearestTarget(b.X, b.Y, KindBoss)
	b.Target = ref
	if ref.Valid() {
		b.Angle = AngleTo(b.X, b.Y, tx, ty)
		b.X, b.Y = pursue(b.X, b.Y, tx, ty, tr, b.Speed, t.BossStandoff)
	}
	b.X, b.Y = ClampToMap(b.X, b.Y, b.R, t.MapWidth, t.MapHeight)

	b.FireTimer += t.TickMs()
	if b.FireTimer < t.BossFireDelay {
		return
	}
	b.FireTimer = 0
	if !ref.Valid() {
		return
	}
	const spread = 0.15
	n := t.BossVolley
	start := -spread * float64(n-1) / 2
	mx := b.X + math.Cos(b.Angle)*b.R
	my := b.Y + math.Sin(b.Angle)*b.R
	for i := 0; i < n; i++ {
		a := b.Angle + start + float64(i)*spread
		b.Bullets = append(b.Bullets, w.hostileBullet(KindBoss, mx, my, a, 7, 7, 10, 1600))
	}
}

func updateSuperBoss(w *World) {
	t := &w.Tuning
	s := w.SuperBoss
	if !s.Alive() {
		if w.Clock >= s.RespawnAt {
			w.respawnSuperBoss()
			w.log.Info("super boss respawned", zap.Float64("x", s.X), zap.Float64("y", s.Y))
		}
		return
	}
	dt := t.TickMs()

	for i := range s.RingAngles {
		s.RingAngles[i] = NormalizeAngle(s.RingAngles[i] + ringSpin[i])
	}

	ref, tx, ty, tr := w.nearestTarget(s.X, s.Y, KindSuperBoss)
	s.Target = ref
	aim := 0.0
	dist := math.Inf(1)
	if ref.Valid() {
		aim = AngleTo(s.X, s.Y, tx, ty)
		dist = Dist(s.X, s.Y, tx, ty) - tr
		s.X, s.Y = pursue(s.X, s.Y, tx, ty, tr, s.Speed, t.BossStandoff+s.R()-t.BossRadius)
	}
	s.X, s.Y = ClampToMap(s.X, s.Y, s.R(), t.MapWidth, t.MapHeight)

	s.BurstTimer += dt
	s.RadialTimer += dt
	s.SnapTimer += dt
	s.DroneTimer += dt

	if s.BurstTimer >= t.SuperBossBurstDelay {
		s.BurstTimer = 0
		if ref.Valid() {
			const n, spread = 7, 0.1
			r := s.Rings[0]
			for i := 0; i < n; i++ {
				a := aim + (float64(i)-float64(n-1)/2)*spread
				s.Bullets = append(s.Bullets, w.hostileBullet(KindSuperBoss,
					s.X+math.Cos(aim)*r, s.Y+math.Sin(aim)*r, a, 7.5, 7, 12, 1600))
			}
		}
	}

	if s.RadialTimer >= t.SuperBossRadialDelay {
		s.RadialTimer = 0
		const n = 12
		r := s.Rings[1]
		for i := 0; i < n; i++ {
			a := s.RingAngles[1] + float64(i)*2*math.Pi/n
			s.Bullets = append(s.Bullets, w.hostileBullet(KindSuperBoss,
				s.X+math.Cos(a)*r, s.Y+math.Sin(a)*r, a, 6.5, 6, 8, 1500))
		}
	}

	if s.SnapTimer >= t.SuperBossSnapDelay {
		s.SnapTimer = 0
		if ref.Valid() && dist <= t.SuperBossSnapRange {
			r := s.Rings[2]
			s.Bullets = append(s.Bullets, w.hostileBullet(KindSuperBoss,
				s.X+math.Cos(aim)*r, s.Y+math.Sin(aim)*r, aim, 11, 5, 6, 600))
		}
	}

	if s.DroneTimer >= t.SuperBossDroneDelay {
		s.DroneTimer = 0
		if len(s.Drones) < t.HomingDroneMax {
			w.spawnHomingDrone(s)
		}
	}
}

// defeatBoss schedules a respawn and credits the killing player
func (w *World) defeatBoss(kind EntityKind, killer string) {
	t := &w.Tuning
	id, xp := BossID, t.BossKillXP
	if kind == KindSuperBoss {
		id, xp = SuperBossID, t.SuperBossKillXP
		w.SuperBoss.RespawnAt = w.Clock + t.SuperBossRespawn
	} else {
		w.Boss.RespawnAt = w.Clock + t.BossRespawn
	}
	if p, ok := w.Players[killer]; ok {
		AddXP(p, xp)
	} else {
		xp = 0
	}
	w.emit(EventBossDefeated, killer, id, xp)
	w.log.Info("boss defeated", zap.String("boss", id), zap.String("killer", killer))
}
