package game

import "math"

// mass factors per body kind; mass is r² times this
var massFactor = map[EntityKind]float64{
	KindPlayer:    1,
	KindMob:       1,
	KindDrone:     0.5,
	KindTrap:      4,
	KindBoss:      50,
	KindSuperBoss: 50,
}

type body struct {
	x, y  *float64
	r     float64
	mass  float64
	kind  EntityKind
	owner string // player id for a player and its constructs
}

func newBody(kind EntityKind, x, y *float64, r float64, owner string) body {
	return body{x: x, y: y, r: r, mass: r * r * massFactor[kind], kind: kind, owner: owner}
}

// construct reports whether b is owned by a player without being one
func (b *body) construct() bool {
	return (b.kind == KindDrone || b.kind == KindTrap) && b.owner != ""
}

func (w *World) collectBodies() []body {
	bodies := make([]body, 0, len(w.Mobs)+len(w.Players)*4+2)
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		bodies = append(bodies, newBody(KindPlayer, &p.X, &p.Y, p.R, p.ID))
		for _, d := range p.Drones {
			if d.HP > 0 {
				bodies = append(bodies, newBody(KindDrone, &d.X, &d.Y, d.R, p.ID))
			}
		}
		for _, tr := range p.Traps {
			if tr.HP > 0 {
				bodies = append(bodies, newBody(KindTrap, &tr.X, &tr.Y, tr.R, p.ID))
			}
		}
	})
	for _, m := range w.Mobs {
		if m.Alive() {
			bodies = append(bodies, newBody(KindMob, &m.X, &m.Y, m.R, ""))
		}
	}
	if b := w.Boss; b.Alive() {
		bodies = append(bodies, newBody(KindBoss, &b.X, &b.Y, b.R, ""))
	}
	if s := w.SuperBoss; s != nil {
		if s.Alive() {
			bodies = append(bodies, newBody(KindSuperBoss, &s.X, &s.Y, s.R(), ""))
		}
		// homing drones outlive their launcher
		for _, d := range s.Drones {
			if d.HP > 0 {
				bodies = append(bodies, newBody(KindDrone, &d.X, &d.Y, d.R, ""))
			}
		}
	}
	return bodies
}

// separate pushes overlapping bodies apart, each by the other's share of the
// combined mass, then re-clamps everything to the map. A player never yields
// to its own drones or traps.
func separate(w *World) {
	t := &w.Tuning
	bodies := w.collectBodies()
	maxR := 0.0
	w.grid.Clear()
	for i := range bodies {
		maxR = math.Max(maxR, bodies[i].r)
		w.grid.Insert(*bodies[i].x, *bodies[i].y, EntityRef{Kind: bodies[i].kind, Idx: i})
	}

	for i := range bodies {
		a := &bodies[i]
		w.queryBuf = w.grid.QueryBuf(*a.x, *a.y, a.r+maxR, w.queryBuf[:0])
		for _, ref := range w.queryBuf {
			if ref.Idx <= i {
				continue
			}
			separatePair(a, &bodies[ref.Idx])
		}
	}

	for i := range bodies {
		b := &bodies[i]
		*b.x, *b.y = ClampToMap(*b.x, *b.y, b.r, t.MapWidth, t.MapHeight)
	}
}

func separatePair(a, b *body) {
	dx := *b.x - *a.x
	dy := *b.y - *a.y
	d := math.Hypot(dx, dy)
	overlap := a.r + b.r - d
	if overlap <= 0 {
		return
	}
	nx, ny := 1.0, 0.0
	if d > 0 {
		nx, ny = dx/d, dy/d
	}

	var moveA, moveB float64
	switch {
	case a.kind == KindPlayer && b.construct() && b.owner == a.owner:
		moveB = overlap
	case b.kind == KindPlayer && a.construct() && a.owner == b.owner:
		moveA = overlap
	default:
		total := a.mass + b.mass
		if total <= 0 {
			return
		}
		moveA = overlap * b.mass / total
		moveB = overlap * a.mass / total
	}
	*a.x -= nx * moveA
	*a.y -= ny * moveA
	*b.x += nx * moveB
	*b.y += ny * moveB
}
