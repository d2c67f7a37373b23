package game

// BulletView is the public part of a projectile
type BulletView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// DroneView is the public part of a drone
type DroneView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	R    float64 `json:"r"`
	HP   int     `json:"hp"`
	Mode string  `json:"mode"`
}

// TrapView is the public part of a trap
type TrapView struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	R       float64 `json:"r"`
	HP      int     `json:"hp"`
	MaxHP   int     `json:"maxHp"`
	Sentry  bool    `json:"sentry,omitempty"`
	Cluster bool    `json:"cluster,omitempty"`
	Flying  bool    `json:"flying,omitempty"`
}

// PlayerView is what every client sees of a player
type PlayerView struct {
	ID            string       `json:"id"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	R             float64      `json:"r"`
	Angle         float64      `json:"angle"`
	HP            int          `json:"hp"`
	MaxHP         int          `json:"maxHp"`
	XP            int          `json:"xp"`
	Level         int          `json:"level"`
	Dead          bool         `json:"dead"`
	Path          string       `json:"path"`
	Upgrades      []string     `json:"upgrades"`
	UpgradePoints int          `json:"upgradePoints"`
	Kills         int          `json:"kills"`
	MainGun       bool         `json:"mainGunEnabled"`
	Barrels       int          `json:"barrels"`
	SideSponsons  bool         `json:"sideSponsons,omitempty"`
	TrapLayer     bool         `json:"trapLayer,omitempty"`
	TrapMax       int          `json:"trapMax,omitempty"`
	NextTrapIn    float64      `json:"nextTrapIn,omitempty"` // ms until another trap may be laid
	MaxDrones     int          `json:"maxDrones,omitempty"`
	Bullets       []BulletView `json:"bullets"`
	Drones        []DroneView  `json:"drones"`
	Traps         []TrapView   `json:"traps"`
}

// BossView is the public state of the boss
type BossView struct {
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	R       float64      `json:"r"`
	Angle   float64      `json:"angle"`
	HP      int          `json:"hp"`
	MaxHP   int          `json:"maxHp"`
	Alive   bool         `json:"alive"`
	Bullets []BulletView `json:"bullets"`
}

// SuperBossView is the public state of the super boss
type SuperBossView struct {
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	RBottom     float64      `json:"rBottom"`
	RMiddle     float64      `json:"rMiddle"`
	RTop        float64      `json:"rTop"`
	AngleBottom float64      `json:"angleBottom"`
	AngleMiddle float64      `json:"angleMiddle"`
	AngleTop    float64      `json:"angleTop"`
	HP          int          `json:"hp"`
	MaxHP       int          `json:"maxHp"`
	Alive       bool         `json:"alive"`
	Bullets     []BulletView `json:"bullets"`
	Drones      []DroneView  `json:"drones"`
}

// ShapeView is the public state of a mob
type ShapeView struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Variant string  `json:"variant"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	R       float64 `json:"r"`
	Angle   float64 `json:"angle"`
	HP      int     `json:"hp"`
	MaxHP   int     `json:"maxHp"`
}

// Snapshot is the per-tick outward view. The shared part is built once per
// tick; Personalize fills the recipient-specific fields on a copy.
type Snapshot struct {
	MapWidth     float64       `json:"mapWidth"`
	MapHeight    float64       `json:"mapHeight"`
	Tick         uint64        `json:"tick"`
	Players      []PlayerView  `json:"players"`
	Boss         BossView      `json:"boss"`
	SuperBoss    SuperBossView `json:"superBoss"`
	Shapes       []ShapeView   `json:"shapes"`
	DamagePopups []DamagePopup `json:"damagePopups"`
	Prompt       *Prompt       `json:"prompt"`
	GameOver     bool          `json:"gameOver"`
	You          string        `json:"you"`
}

// BuildSnapshot captures the shared world view and drains pending popups.
func BuildSnapshot(w *World) Snapshot {
	s := Snapshot{
		MapWidth:     w.Tuning.MapWidth,
		MapHeight:    w.Tuning.MapHeight,
		Tick:         w.Tick,
		Players:      make([]PlayerView, 0, len(w.Players)),
		Shapes:       make([]ShapeView, 0, len(w.Mobs)),
		DamagePopups: w.DrainPopups(),
	}
	if s.DamagePopups == nil {
		s.DamagePopups = []DamagePopup{}
	}
	w.EachPlayer(func(p *Player) {
		s.Players = append(s.Players, playerView(w, p))
	})
	for _, m := range w.Mobs {
		if !m.Alive() {
			continue
		}
		s.Shapes = append(s.Shapes, ShapeView{
			ID:      m.ID,
			Type:    string(m.Type),
			Variant: string(m.Rarity),
			X:       m.X,
			Y:       m.Y,
			R:       m.R,
			Angle:   m.Angle,
			HP:      m.HP,
			MaxHP:   m.MaxHP,
		})
	}

	b := w.Boss
	s.Boss = BossView{
		X:       b.X,
		Y:       b.Y,
		R:       b.R,
		Angle:   b.Angle,
		HP:      b.HP,
		MaxHP:   b.MaxHP,
		Alive:   b.Alive(),
		Bullets: bulletViews(b.Bullets),
	}
	sb := w.SuperBoss
	s.SuperBoss = SuperBossView{
		X:           sb.X,
		Y:           sb.Y,
		RBottom:     sb.Rings[0],
		RMiddle:     sb.Rings[1],
		RTop:        sb.Rings[2],
		AngleBottom: sb.RingAngles[0],
		AngleMiddle: sb.RingAngles[1],
		AngleTop:    sb.RingAngles[2],
		HP:          sb.HP,
		MaxHP:       sb.MaxHP,
		Alive:       sb.Alive(),
		Bullets:     bulletViews(sb.Bullets),
		Drones:      droneViews(sb.Drones),
	}
	return s
}

// Personalize returns a copy of the shared snapshot addressed to one player.
func (s Snapshot) Personalize(w *World, playerID string) Snapshot {
	s.You = playerID
	s.Prompt = nil
	s.GameOver = false
	if p, ok := w.Players[playerID]; ok {
		s.Prompt = p.Prompt
		s.GameOver = p.Dead
	}
	return s
}

func playerView(w *World, p *Player) PlayerView {
	l := &p.Loadout
	v := PlayerView{
		ID:            p.ID,
		X:             p.X,
		Y:             p.Y,
		R:             p.R,
		Angle:         p.Angle,
		HP:            p.HP,
		MaxHP:         p.MaxHP,
		XP:            p.XP,
		Level:         p.Level,
		Dead:          p.Dead,
		Path:          string(p.Path),
		Upgrades:      make([]string, len(p.Upgrades)),
		UpgradePoints: p.UpgradePoints,
		Kills:         p.Kills,
		MainGun:       l.MainGun || l.FinalCannon,
		Barrels:       l.Barrels,
		SideSponsons:  l.SideSponsons,
		TrapLayer:     l.TrapLayer,
		TrapMax:       l.TrapMax,
		MaxDrones:     l.MaxDrones,
		Bullets:       bulletViews(p.Bullets),
		Drones:        droneViews(p.Drones),
		Traps:         make([]TrapView, 0, len(p.Traps)),
	}
	for i, k := range p.Upgrades {
		v.Upgrades[i] = k.String()
	}
	if l.TrapLayer && p.NextTrapAt > w.Clock {
		v.NextTrapIn = p.NextTrapAt - w.Clock
	}
	for _, tr := range p.Traps {
		if tr.HP <= 0 {
			continue
		}
		v.Traps = append(v.Traps, TrapView{
			X:       tr.X,
			Y:       tr.Y,
			R:       tr.R,
			HP:      tr.HP,
			MaxHP:   tr.MaxHP,
			Sentry:  tr.Sentry,
			Cluster: tr.Cluster,
			Flying:  !tr.Resting(),
		})
	}
	return v
}

func bulletViews(list []*Bullet) []BulletView {
	out := make([]BulletView, 0, len(list))
	for _, b := range list {
		if !b.spent {
			out = append(out, BulletView{X: b.X, Y: b.Y, R: b.R})
		}
	}
	return out
}

func droneViews(list []*Drone) []DroneView {
	out := make([]DroneView, 0, len(list))
	for _, d := range list {
		if d.HP > 0 {
			out = append(out, DroneView{X: d.X, Y: d.Y, R: d.R, HP: d.HP, Mode: d.Mode.String()})
		}
	}
	return out
}
