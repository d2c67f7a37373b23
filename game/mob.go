package game

import "math"

var mobTypes = [...]MobType{MobSquare, MobSquare, MobSquare, MobTriangle, MobTriangle, MobPentagon}

func (w *World) rollRarity() Rarity {
	t := &w.Tuning
	r := w.rng.Float64()
	switch {
	case r < t.EpicChance:
		return RarityEpic
	case r < t.EpicChance+t.RareChance:
		return RarityRare
	}
	return RarityNormal
}

// NewMob builds a mob of the given type and rarity at (x, y)
func NewMob(typ MobType, rarity Rarity, x, y float64) *Mob {
	def := mobTable[typ]
	rd, ok := rarityTable[rarity]
	if !ok {
		rarity, rd = RarityNormal, rarityTable[RarityNormal]
	}
	hp := def.HP * rd.HP
	return &Mob{
		Type:   typ,
		Rarity: rarity,
		X:      x,
		Y:      y,
		R:      def.Radius * rd.Size,
		Speed:  def.Speed,
		HP:     hp,
		MaxHP:  hp,
		XP:     def.XP * rd.XP,
	}
}

func (w *World) spawnMob() *Mob {
	typ := mobTypes[w.rng.Intn(len(mobTypes))]
	x, y := w.randomPoint(60)
	m := NewMob(typ, w.rollRarity(), x, y)
	m.Angle = w.rng.Float64() * 2 * math.Pi
	return w.AddMob(m)
}

// updateMobs runs wander/seek AI and keeps every mob inside the map
func updateMobs(w *World) {
	t := &w.Tuning
	dt := t.TickMs()
	for _, m := range w.Mobs {
		if !m.Alive() {
			continue
		}
		m.AITimer -= dt
		heading := m.Angle
		if m.Type == MobTriangle {
			if ref, tx, ty := w.nearestPlayer(m.X, m.Y, t.MobSeekRange); ref.Valid() {
				heading = AngleTo(m.X, m.Y, tx, ty)
			}
		}
		if m.AITimer <= 0 && heading == m.Angle {
			heading = m.Angle + (w.rng.Float64()-0.5)*math.Pi/2
			m.AITimer = 1500 + w.rng.Float64()*2500
		}
		m.Angle = NormalizeAngle(heading)

		speed := m.Speed
		if w.Clock < m.SlowUntil {
			speed *= 0.4
		}
		m.VX = math.Cos(m.Angle) * speed
		m.VY = math.Sin(m.Angle) * speed
		nx, ny := m.X+m.VX, m.Y+m.VY
		// bounce off the walls
		if nx-m.R < 0 || nx+m.R > t.MapWidth {
			m.Angle = NormalizeAngle(math.Pi - m.Angle)
		}
		if ny-m.R < 0 || ny+m.R > t.MapHeight {
			m.Angle = NormalizeAngle(-m.Angle)
		}
		m.X, m.Y = ClampToMap(nx, ny, m.R, t.MapWidth, t.MapHeight)
	}
}

// nearestPlayer finds the closest live player within maxDist
func (w *World) nearestPlayer(x, y, maxDist float64) (Ref, float64, float64) {
	best := Ref{}
	bestD := maxDist * maxDist
	var bx, by float64
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		if d := DistSq(x, y, p.X, p.Y); d <= bestD {
			best, bestD, bx, by = Ref{Kind: KindPlayer, ID: p.ID}, d, p.X, p.Y
		}
	})
	return best, bx, by
}

// maintainPopulation tops the mob count back up on a fixed interval once it
// has fallen below the floor.
func maintainPopulation(w *World) {
	if !w.populate {
		return
	}
	t := &w.Tuning
	w.popTimer += t.TickMs()
	if w.popTimer < t.PopulationInterval {
		return
	}
	w.popTimer = 0
	n := w.AliveMobs()
	if n >= t.MobFloor {
		return
	}
	for ; n < t.MobTarget; n++ {
		w.spawnMob()
	}
}
