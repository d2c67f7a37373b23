package game

// EntityKind tags the container an id lives in, so weak references can be
// resolved against the right collection.
type EntityKind uint8

const (
	KindNone EntityKind = iota
	KindPlayer
	KindMob
	KindBoss
	KindSuperBoss
	KindDrone
	KindTrap
)

// Well-known ids of the singleton hostiles.
const (
	BossID      = "boss"
	SuperBossID = "superboss"
)

// Ref is a weak, by-id reference to another entity. It carries no ownership
// and must be resolved through World.resolve before every use.
type Ref struct {
	Kind  EntityKind
	ID    string
	Owner string // owning player for drones and traps
}

// Valid reports whether the reference points at anything at all
func (r Ref) Valid() bool { return r.Kind != KindNone && r.ID != "" }

// Keys is the movement key state sent by the client
type Keys struct {
	W bool `json:"w"`
	A bool `json:"a"`
	S bool `json:"s"`
	D bool `json:"d"`
}

// Point is a 2D coordinate pair
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Input is the last movement/aim state received from a client.
type Input struct {
	Keys   Keys  `json:"keys"`
	Mouse  Point `json:"mouse"`
	Camera Point `json:"camera"`
}

// Prompt types
const (
	PromptPath       = "path"
	PromptSubUpgrade = "subUpgrade"
	PromptFinalForm  = "finalForm"
)

// Prompt is a one-shot choice offered to a player in the next snapshot.
type Prompt struct {
	Type    string   `json:"type"`
	Level   int      `json:"level,omitempty"`
	Options []string `json:"options,omitempty"`
}

// DamagePopup is a floating combat number for the client.
type DamagePopup struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Color    string  `json:"color"`
	Duration int     `json:"duration"`
}

// Loadout is every combat-affecting attribute of a player. Path changes
// replace it wholesale, which is what keeps reconfiguration atomic.
type Loadout struct {
	MainGun      bool
	Barrels      int
	BulletSpeed  float64
	BulletDamage int
	BulletRadius float64
	BulletLife   float64
	FireDelay    float64
	Spread       float64
	MoveSpeed    float64

	Precision    bool
	Scatter      bool
	Wall         bool
	SideSponsons bool
	Rotary       bool
	Heavy        bool
	Pierce       int
	Explosive    bool
	Fragment     bool
	Knockback    bool
	FinalCannon  bool

	MaxDrones      int
	DroneRespawn   float64
	DroneDamage    int
	DroneHP        int
	DroneGuardian  bool
	DroneShooter   bool
	DroneSnare     bool
	DroneExplosive bool

	TrapLayer   bool
	TrapMax     int
	TrapBig     bool
	TrapHuge    bool
	TrapCluster bool
	TrapSentry  bool
}

// Player is a connected client's vessel.
type Player struct {
	ID     string
	X, Y   float64
	R      float64
	Angle  float64
	HP     int
	MaxHP  int
	XP     int
	Level  int
	Dead   bool
	Input  Input
	Path   Path
	Kills  int
	Killer string // who landed the killing blow, empty for hostiles

	Loadout       Loadout
	Upgrades      []UpgradeKey // applied, in order
	UpgradePoints int

	Bullets []*Bullet
	Drones  []*Drone
	Traps   []*Trap

	FireCooldown float64 // ms until the next volley
	Volleys      int
	NextTrapAt   float64 // world clock
	DroneTimer   float64
	Prompt       *Prompt
}

// HasUpgrade reports whether key has been applied since the last reconfiguration
func (p *Player) HasUpgrade(key UpgradeKey) bool {
	for _, k := range p.Upgrades {
		if k == key {
			return true
		}
	}
	return false
}

// Alive is the inverse of Dead, for symmetry with the hostiles
func (p *Player) Alive() bool { return !p.Dead }

// MobType enumerates shape kinds
type MobType string

const (
	MobSquare   MobType = "square"
	MobTriangle MobType = "triangle"
	MobPentagon MobType = "pentagon"
)

// Rarity multiplies a mob's size, hp and xp
type Rarity string

const (
	RarityNormal Rarity = "normal"
	RarityRare   Rarity = "rare"
	RarityEpic   Rarity = "epic"
)

// Mob is a neutral shape roaming the arena.
type Mob struct {
	ID        string
	Type      MobType
	Rarity    Rarity
	X, Y      float64
	VX, VY    float64
	R         float64
	Angle     float64
	Speed     float64
	HP        int
	MaxHP     int
	XP        int
	AITimer   float64 // ms until the next heading change
	SlowUntil float64
}

// Alive reports whether the mob can still be hit
func (m *Mob) Alive() bool { return m.HP > 0 }

// Boss is the single roaming hostile with one spread-volley attack.
type Boss struct {
	X, Y      float64
	R         float64
	Angle     float64
	Speed     float64
	HP        int
	MaxHP     int
	FireTimer float64
	RespawnAt float64
	Target    Ref
	Bullets   []*Bullet
	Hits      map[string]float64 // contact cooldowns per player
}

// Alive reports whether the boss is still acting
func (b *Boss) Alive() bool { return b != nil && b.HP > 0 }

// SuperBoss is the three-ring hostile. Ring 0 is the outermost.
type SuperBoss struct {
	X, Y        float64
	Rings       [3]float64
	RingAngles  [3]float64
	Speed       float64
	HP          int
	MaxHP       int
	BurstTimer  float64
	RadialTimer float64
	SnapTimer   float64
	DroneTimer  float64
	RespawnAt   float64
	Target      Ref
	Bullets     []*Bullet
	Drones      []*Drone
	Hits        map[string]float64
}

// Alive reports whether the super boss is still acting
func (s *SuperBoss) Alive() bool { return s != nil && s.HP > 0 }

// R is the outer hit radius.
func (s *SuperBoss) R() float64 { return s.Rings[0] }

// Bullet is a projectile owned by a player or a boss.
type Bullet struct {
	ID        string
	X, Y      float64
	VX, VY    float64
	R         float64
	Damage    int
	Owner     string     // player id, empty for hostile fire
	Source    EntityKind // KindPlayer, KindBoss or KindSuperBoss
	Life      float64    // ms remaining
	Pierce    int
	Explosive bool
	Fragment  bool
	Knockback bool
	Hits      map[string]float64 // target id -> immune until

	spent bool
}

// immuneTo reports whether target is still inside this bullet's hit cooldown
func (b *Bullet) immuneTo(id string, now float64) bool {
	until, ok := b.Hits[id]
	return ok && now < until
}

func (b *Bullet) markHit(id string, until float64) {
	if b.Hits == nil {
		b.Hits = make(map[string]float64, 2)
	}
	b.Hits[id] = until
}

// DroneMode selects a drone's behaviour
type DroneMode uint8

const (
	DroneOrbit DroneMode = iota
	DroneSeek
	DroneShoot
	DroneHoming
)

func (m DroneMode) String() string {
	switch m {
	case DroneSeek:
		return "seek"
	case DroneShoot:
		return "shoot"
	case DroneHoming:
		return "homing"
	default:
		return "orbit"
	}
}

// Drone is a small autonomous construct owned by a player or the super boss.
type Drone struct {
	ID           string
	Owner        string // player id, or SuperBossID
	X, Y         float64
	R            float64
	HP           int
	Damage       int
	Mode         DroneMode
	Target       Ref
	Orbit        float64 // orbit phase
	FireCooldown float64
	Life         float64 // ms remaining; 0 means unlimited
	Snare        bool
	Explosive    bool
	Hits         map[string]float64
}

// Trap is a stationary construct laid by a trap-path player.
type Trap struct {
	ID           string
	Owner        string
	X, Y         float64
	R            float64
	HP           int
	MaxHP        int
	Damage       int
	Sentry       bool
	Cluster      bool
	Flight       int // ticks left in flight
	VX, VY       float64
	FireCooldown float64
	Life         float64
	Hits         map[string]float64
}

// Resting reports whether the trap has landed
func (t *Trap) Resting() bool { return t.Flight <= 0 }

func cooldownReady(hits map[string]float64, id string, now float64) bool {
	until, ok := hits[id]
	return !ok || now >= until
}

func setCooldown(hits *map[string]float64, id string, until float64) {
	if *hits == nil {
		*hits = make(map[string]float64, 2)
	}
	(*hits)[id] = until
}

// applyDamage clamps at zero and reports whether this hit crossed it.
func applyDamage(hp *int, dmg int) bool {
	if *hp <= 0 || dmg <= 0 {
		return false
	}
	*hp -= dmg
	if *hp <= 0 {
		*hp = 0
		return true
	}
	return false
}
