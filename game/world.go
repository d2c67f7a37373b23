package game

import (
	"math"
	"math/rand"
	"strconv"

	"go.uber.org/zap"
)

// World is the complete simulation state. It is owned by exactly one
// goroutine and passed explicitly to every phase.
type World struct {
	Tuning    Tuning
	Players   map[string]*Player
	Mobs      []*Mob
	Boss      *Boss
	SuperBoss *SuperBoss
	Popups    []DamagePopup
	Events    []Event

	Tick  uint64
	Clock float64 // simulated ms since start

	order    []string // player ids in join order, for deterministic iteration
	mobIndex map[string]*Mob
	rng      *rand.Rand
	nextID   uint64
	popTimer float64
	populate bool
	grid     *SpatialGrid
	pending  []*Bullet // bullets spawned during the projectile pass
	queryBuf []EntityRef
	log      *zap.Logger
}

// Option configures a new World
type Option func(*World)

// WithLogger routes world diagnostics to l
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithEmptyArena starts without mobs, with both bosses defeated and never
// respawning, and with population maintenance off. Used for fixtures.
func WithEmptyArena() Option {
	return func(w *World) {
		w.populate = false
	}
}

// NewWorld builds a populated arena. seed drives every random decision.
func NewWorld(t Tuning, seed int64, opts ...Option) *World {
	w := &World{
		Tuning:   t,
		Players:  make(map[string]*Player),
		mobIndex: make(map[string]*Mob),
		rng:      rand.New(rand.NewSource(seed)),
		populate: true,
		grid:     NewSpatialGrid(t.MapWidth, t.MapHeight),
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(w)
	}

	w.Boss = &Boss{R: t.BossRadius, Speed: t.BossSpeed, MaxHP: t.BossHP}
	w.SuperBoss = &SuperBoss{Rings: t.SuperBossRings, Speed: t.SuperBossSpeed, MaxHP: t.SuperBossHP}
	if w.populate {
		w.respawnBoss()
		w.respawnSuperBoss()
		for i := 0; i < t.MobInitial; i++ {
			w.spawnMob()
		}
	} else {
		w.Boss.RespawnAt = math.Inf(1)
		w.SuperBoss.RespawnAt = math.Inf(1)
	}
	return w
}

func (w *World) newID(prefix string) string {
	w.nextID++
	return prefix + strconv.FormatUint(w.nextID, 10)
}

// randomPoint picks a position at least margin away from every edge
func (w *World) randomPoint(margin float64) (float64, float64) {
	x := margin + w.rng.Float64()*(w.Tuning.MapWidth-2*margin)
	y := margin + w.rng.Float64()*(w.Tuning.MapHeight-2*margin)
	return x, y
}

// AddPlayer creates a fresh player at a random spot. An existing id is
// returned unchanged.
func (w *World) AddPlayer(id string) *Player {
	if p, ok := w.Players[id]; ok {
		return p
	}
	p := &Player{ID: id}
	w.resetPlayer(p)
	w.Players[id] = p
	w.order = append(w.order, id)
	return p
}

// resetPlayer restores the default alive state, keeping only the id.
func (w *World) resetPlayer(p *Player) {
	t := &w.Tuning
	x, y := w.randomPoint(200)
	*p = Player{
		ID:    p.ID,
		X:     x,
		Y:     y,
		R:     t.PlayerRadius,
		HP:    t.PlayerMaxHP,
		MaxHP: t.PlayerMaxHP,
		Level: 1,
		Path:  PathNone,
		Input: Input{Mouse: Point{X: x + 1, Y: y}},
	}
	Reconfigure(p, PathNone, t)
}

// RemovePlayer drops a player and everything it owns
func (w *World) RemovePlayer(id string) {
	if _, ok := w.Players[id]; !ok {
		return
	}
	delete(w.Players, id)
	for i, pid := range w.order {
		if pid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Player looks up a player by id
func (w *World) Player(id string) (*Player, bool) {
	p, ok := w.Players[id]
	return p, ok
}

// EachPlayer visits players in join order
func (w *World) EachPlayer(fn func(p *Player)) {
	for _, id := range w.order {
		if p, ok := w.Players[id]; ok {
			fn(p)
		}
	}
}

// Mob looks up a live mob by id
func (w *World) Mob(id string) (*Mob, bool) {
	m, ok := w.mobIndex[id]
	if !ok || !m.Alive() {
		return nil, false
	}
	return m, true
}

// AddMob inserts a mob built by the caller, assigning an id if missing.
func (w *World) AddMob(m *Mob) *Mob {
	if m.ID == "" {
		m.ID = w.newID("m")
	}
	w.Mobs = append(w.Mobs, m)
	w.mobIndex[m.ID] = m
	return m
}

// AliveMobs counts mobs that can still be hit
func (w *World) AliveMobs() int {
	n := 0
	for _, m := range w.Mobs {
		if m.Alive() {
			n++
		}
	}
	return n
}

// drone finds a drone by owner and id. Owner SuperBossID selects the boss's drones.
func (w *World) drone(owner, id string) (*Drone, bool) {
	var list []*Drone
	if owner == SuperBossID {
		if w.SuperBoss == nil {
			return nil, false
		}
		list = w.SuperBoss.Drones
	} else if p, ok := w.Players[owner]; ok {
		list = p.Drones
	}
	for _, d := range list {
		if d.ID == id && d.HP > 0 {
			return d, true
		}
	}
	return nil, false
}

// resolve re-validates a weak reference and returns the referent's position.
func (w *World) resolve(r Ref) (x, y, radius float64, ok bool) {
	switch r.Kind {
	case KindPlayer:
		if p, found := w.Players[r.ID]; found && !p.Dead {
			return p.X, p.Y, p.R, true
		}
	case KindMob:
		if m, found := w.Mob(r.ID); found {
			return m.X, m.Y, m.R, true
		}
	case KindBoss:
		if w.Boss.Alive() {
			return w.Boss.X, w.Boss.Y, w.Boss.R, true
		}
	case KindSuperBoss:
		if w.SuperBoss.Alive() {
			return w.SuperBoss.X, w.SuperBoss.Y, w.SuperBoss.R(), true
		}
	case KindDrone:
		if d, found := w.drone(r.Owner, r.ID); found {
			return d.X, d.Y, d.R, true
		}
	}
	return 0, 0, 0, false
}

// rebuildGrid indexes live mobs for the broad phase
func (w *World) rebuildGrid() {
	w.grid.Clear()
	for i, m := range w.Mobs {
		if m.Alive() {
			w.grid.Insert(m.X, m.Y, EntityRef{Kind: KindMob, Idx: i})
		}
	}
}

// mobsNear returns live mobs whose bodies may overlap a circle at (x,y,r)
func (w *World) mobsNear(x, y, r float64) []*Mob {
	w.queryBuf = w.grid.QueryBuf(x, y, r+maxMobRadius(), w.queryBuf[:0])
	out := make([]*Mob, 0, len(w.queryBuf))
	for _, ref := range w.queryBuf {
		if ref.Idx < len(w.Mobs) && w.Mobs[ref.Idx].Alive() {
			out = append(out, w.Mobs[ref.Idx])
		}
	}
	return out
}

func maxMobRadius() float64 {
	r := 0.0
	for _, d := range mobTable {
		r = math.Max(r, d.Radius)
	}
	s := 0.0
	for _, d := range rarityTable {
		s = math.Max(s, d.Size)
	}
	return r * s
}

// popup queues a floating combat number
func (w *World) popup(x, y float64, text, color string) {
	w.Popups = append(w.Popups, DamagePopup{X: x, Y: y, Text: text, Color: color, Duration: 800})
}

// DrainPopups hands over the popups accumulated since the last call
func (w *World) DrainPopups() []DamagePopup {
	out := w.Popups
	w.Popups = nil
	return out
}

// ClearPrompts discards every pending prompt; called once the snapshot went out.
func (w *World) ClearPrompts() {
	for _, p := range w.Players {
		p.Prompt = nil
	}
}

// sweep removes everything marked dead during the tick
func (w *World) sweep() {
	alive := w.Mobs[:0]
	for _, m := range w.Mobs {
		if m.Alive() {
			alive = append(alive, m)
		} else {
			delete(w.mobIndex, m.ID)
		}
	}
	for i := len(alive); i < len(w.Mobs); i++ {
		w.Mobs[i] = nil
	}
	w.Mobs = alive

	for _, p := range w.Players {
		if p.Dead {
			p.Bullets = p.Bullets[:0]
			p.Drones = p.Drones[:0]
			p.Traps = p.Traps[:0]
			continue
		}
		p.Bullets = sweepBullets(p.Bullets)
		p.Drones = sweepDrones(p.Drones)
		p.Traps = sweepTraps(p.Traps)
	}
	w.Boss.Bullets = sweepBullets(w.Boss.Bullets)
	w.SuperBoss.Bullets = sweepBullets(w.SuperBoss.Bullets)
	w.SuperBoss.Drones = sweepDrones(w.SuperBoss.Drones)
}

func sweepBullets(list []*Bullet) []*Bullet {
	out := list[:0]
	for _, b := range list {
		if !b.spent {
			out = append(out, b)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

func sweepDrones(list []*Drone) []*Drone {
	out := list[:0]
	for _, d := range list {
		if d.HP > 0 {
			out = append(out, d)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

func sweepTraps(list []*Trap) []*Trap {
	out := list[:0]
	for _, t := range list {
		if t.HP > 0 {
			out = append(out, t)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

// flushPending appends bullets spawned mid-pass to their owners
func (w *World) flushPending() {
	for _, b := range w.pending {
		switch b.Source {
		case KindBoss:
			w.Boss.Bullets = append(w.Boss.Bullets, b)
		case KindSuperBoss:
			w.SuperBoss.Bullets = append(w.SuperBoss.Bullets, b)
		default:
			if p, ok := w.Players[b.Owner]; ok && !p.Dead {
				p.Bullets = append(p.Bullets, b)
			}
		}
	}
	w.pending = w.pending[:0]
}
