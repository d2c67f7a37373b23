package game

import (
	"errors"
	"math"
)

// ErrInvalidTransition is returned for path or upgrade requests the player is not eligible for.
var ErrInvalidTransition = errors.New("invalid transition")

// Path is the closed set of progression branches
type Path string

const (
	PathNone      Path = "none"
	PathMulti     Path = "multi"
	PathBig       Path = "big"
	PathDrone     Path = "drone"
	PathTrap      Path = "trap"
	PathFinalForm Path = "finalForm"
)

// OrdinaryPaths are the branches offered at the path milestone, in prompt order.
var OrdinaryPaths = []Path{PathMulti, PathBig, PathDrone, PathTrap}

// ParsePath maps a wire string onto the closed path set
func ParsePath(s string) (Path, bool) {
	switch p := Path(s); p {
	case PathNone, PathMulti, PathBig, PathDrone, PathTrap, PathFinalForm:
		return p, true
	}
	return "", false
}

// Ordinary reports whether p is one of the four selectable branches
func (p Path) Ordinary() bool {
	switch p {
	case PathMulti, PathBig, PathDrone, PathTrap:
		return true
	}
	return false
}

// UpgradeKey is the closed set of sub-upgrades
type UpgradeKey uint8

const (
	UpgradeInvalid UpgradeKey = iota

	// drone
	DroneKamikazeBoost
	DroneGuardian
	DroneShooter
	HiveExpansion
	ArmoredDrones
	SnareDrones
	DroneCommander
	ExplosiveDrones
	HybridDrones

	// multi
	AlternatingFire
	RotaryTurret
	SideSponsons
	Scattershot
	QuadCore
	Artillery
	WallOfLead
	PrecisionBattery

	// multi and big
	PiercingShells

	// big
	DualBig
	MegaBullet
	ImpactExplosive
	ClusterBomb
	SiegeMode
	TitanShell
	TwinSiege
	ShockwaveRound

	// trap
	TrapDoubleLayer
	TrapBig
	TrapQuad
	TrapHuge
	TrapCluster
	TrapSentry

	upgradeCount
)

type upgradeDef struct {
	name  string
	paths []Path
	apply func(l *Loadout)
}

var upgradeTable = [upgradeCount]upgradeDef{
	DroneKamikazeBoost: {"droneKamikazeBoost", []Path{PathDrone}, func(l *Loadout) {
		l.DroneDamage += 4
	}},
	DroneGuardian: {"droneGuardian", []Path{PathDrone}, func(l *Loadout) {
		l.DroneGuardian = true
	}},
	DroneShooter: {"droneShooter", []Path{PathDrone}, func(l *Loadout) {
		l.MaxDrones = max(l.MaxDrones, 8)
		l.DroneRespawn = math.Min(l.DroneRespawn, 2500)
		l.DroneShooter = true
	}},
	HiveExpansion: {"hiveExpansion", []Path{PathDrone}, func(l *Loadout) {
		l.MaxDrones = max(l.MaxDrones, 15)
	}},
	ArmoredDrones: {"armoredDrones", []Path{PathDrone}, func(l *Loadout) {
		l.DroneHP = max(l.DroneHP, 2)
	}},
	SnareDrones: {"snareDrones", []Path{PathDrone}, func(l *Loadout) {
		l.DroneSnare = true
	}},
	DroneCommander: {"droneCommander", []Path{PathDrone}, func(l *Loadout) {
		l.MaxDrones = max(l.MaxDrones, 20)
		l.DroneRespawn = math.Min(l.DroneRespawn, 1800)
	}},
	ExplosiveDrones: {"explosiveDrones", []Path{PathDrone}, func(l *Loadout) {
		l.DroneExplosive = true
	}},
	HybridDrones: {"hybridDrones", []Path{PathDrone}, func(l *Loadout) {
		l.DroneRespawn = math.Min(l.DroneRespawn, 2200)
		l.DroneShooter = true
	}},

	AlternatingFire: {"alternatingFire", []Path{PathMulti}, func(l *Loadout) {
		l.FireDelay = math.Min(l.FireDelay, 200)
	}},
	RotaryTurret: {"rotaryTurret", []Path{PathMulti}, func(l *Loadout) {
		l.Rotary = true
	}},
	SideSponsons: {"sideSponsons", []Path{PathMulti}, func(l *Loadout) {
		l.SideSponsons = true
	}},
	Scattershot: {"scattershot", []Path{PathMulti}, func(l *Loadout) {
		l.Scatter = true
		l.Spread = math.Max(l.Spread, 0.3)
	}},
	QuadCore: {"quadCore", []Path{PathMulti}, func(l *Loadout) {
		l.Barrels++
	}},
	Artillery: {"artillery", []Path{PathMulti}, func(l *Loadout) {
		l.BulletSpeed = math.Max(6, l.BulletSpeed-1)
		l.BulletDamage += 2
	}},
	WallOfLead: {"wallOfLead", []Path{PathMulti}, func(l *Loadout) {
		l.Wall = true
		l.Barrels += 2
		l.BulletDamage = max(4, int(math.Floor(float64(l.BulletDamage)*0.67)))
	}},
	PrecisionBattery: {"precisionBattery", []Path{PathMulti}, func(l *Loadout) {
		l.Precision = true
	}},

	PiercingShells: {"piercingShells", []Path{PathMulti, PathBig}, func(l *Loadout) {
		l.Pierce = max(l.Pierce, 2)
	}},

	DualBig: {"dualBig", []Path{PathBig}, func(l *Loadout) {
		l.Barrels = max(l.Barrels, 2)
	}},
	MegaBullet: {"megaBullet", []Path{PathBig}, func(l *Loadout) {
		l.BulletDamage += 8
		l.Heavy = true
	}},
	ImpactExplosive: {"impactExplosive", []Path{PathBig}, func(l *Loadout) {
		l.Explosive = true
	}},
	ClusterBomb: {"clusterBomb", []Path{PathBig}, func(l *Loadout) {
		l.Fragment = true
	}},
	SiegeMode: {"siegeMode", []Path{PathBig}, func(l *Loadout) {
		l.MoveSpeed = math.Max(2, l.MoveSpeed-1)
		l.BulletDamage += 6
	}},
	TitanShell: {"titanShell", []Path{PathBig}, func(l *Loadout) {
		l.BulletDamage += 12
		l.BulletSpeed = math.Max(5, l.BulletSpeed-1)
		l.Heavy = true
	}},
	TwinSiege: {"twinSiege", []Path{PathBig}, func(l *Loadout) {
		l.Barrels = max(l.Barrels, 2)
		l.BulletDamage += 6
	}},
	ShockwaveRound: {"shockwaveRound", []Path{PathBig}, func(l *Loadout) {
		l.Knockback = true
	}},

	TrapDoubleLayer: {"trapDoubleLayer", []Path{PathTrap}, func(l *Loadout) {
		l.TrapMax = max(l.TrapMax, 7)
	}},
	TrapBig: {"trapBig", []Path{PathTrap}, func(l *Loadout) {
		l.TrapBig = true
	}},
	TrapQuad: {"trapQuad", []Path{PathTrap}, func(l *Loadout) {
		l.TrapMax = max(l.TrapMax, 9)
	}},
	TrapHuge: {"trapHuge", []Path{PathTrap}, func(l *Loadout) {
		l.TrapHuge = true
		l.TrapMax = max(l.TrapMax, 6)
	}},
	TrapCluster: {"trapCluster", []Path{PathTrap}, func(l *Loadout) {
		l.TrapCluster = true
	}},
	TrapSentry: {"trapSentry", []Path{PathTrap}, func(l *Loadout) {
		l.TrapSentry = true
	}},
}

var upgradeByName = func() map[string]UpgradeKey {
	m := make(map[string]UpgradeKey, upgradeCount)
	for k := UpgradeKey(1); k < upgradeCount; k++ {
		m[upgradeTable[k].name] = k
	}
	return m
}()

// ParseUpgradeKey maps a wire string onto the closed upgrade set
func ParseUpgradeKey(s string) (UpgradeKey, bool) {
	k, ok := upgradeByName[s]
	return k, ok
}

func (k UpgradeKey) String() string {
	if k == UpgradeInvalid || k >= upgradeCount {
		return "invalid"
	}
	return upgradeTable[k].name
}

// AllowedOn reports whether the key belongs to path p
func (k UpgradeKey) AllowedOn(p Path) bool {
	if k == UpgradeInvalid || k >= upgradeCount {
		return false
	}
	for _, allowed := range upgradeTable[k].paths {
		if allowed == p {
			return true
		}
	}
	return false
}

// UpgradesFor lists the keys belonging to p in declaration order
func UpgradesFor(p Path) []UpgradeKey {
	var keys []UpgradeKey
	for k := UpgradeKey(1); k < upgradeCount; k++ {
		if k.AllowedOn(p) {
			keys = append(keys, k)
		}
	}
	return keys
}

// baseLoadout is the class default every reconfiguration starts from
func baseLoadout(t *Tuning) Loadout {
	return Loadout{
		MainGun:      true,
		Barrels:      1,
		BulletSpeed:  t.BulletSpeed,
		BulletDamage: t.BulletDamage,
		BulletRadius: t.BulletRadius,
		BulletLife:   t.BulletLife,
		FireDelay:    t.FireDelay,
		Spread:       t.Spread,
		MoveSpeed:    t.PlayerSpeed,
		DroneRespawn: t.DroneRespawn,
		DroneDamage:  t.DroneDamage,
		DroneHP:      1,
	}
}

// Reconfigure resets every combat attribute to class defaults, clears the
// applied upgrades, retires constructs the new path does not allow, then
// applies the path's base stats. Nothing from the previous path survives.
func Reconfigure(p *Player, path Path, t *Tuning) {
	l := baseLoadout(t)
	if st, ok := pathTable[path]; ok {
		if st.Barrels > 0 {
			l.Barrels = st.Barrels
		}
		if st.BulletDamage > 0 {
			l.BulletDamage = st.BulletDamage
		}
		if st.BulletSpeed > 0 {
			l.BulletSpeed = st.BulletSpeed
		}
		if st.BulletRadius > 0 {
			l.BulletRadius = st.BulletRadius
		}
		l.MaxDrones = st.MaxDrones
		l.TrapMax = st.TrapMax
		l.TrapLayer = st.TrapLayer
	}
	if path == PathFinalForm {
		l.FinalCannon = true
		l.Barrels = 1
		l.FireDelay = t.FinalCannonDelay
		l.BulletDamage = t.FinalCannonDamage
		l.BulletSpeed = t.FinalCannonSpeed
		l.BulletRadius = t.FinalCannonRadius
		l.BulletLife = t.BulletLife * 1.5
		l.MoveSpeed = t.FinalSpeed
		l.Pierce = 3
		l.Explosive = true
	}

	p.Path = path
	p.Loadout = l
	p.Upgrades = nil
	p.DroneTimer = 0

	if l.MaxDrones == 0 {
		for _, d := range p.Drones {
			d.HP = 0
		}
		p.Drones = p.Drones[:0]
	} else if len(p.Drones) > l.MaxDrones {
		p.Drones = p.Drones[:l.MaxDrones]
	}
	if !l.TrapLayer {
		p.Traps = p.Traps[:0]
	}
}

// SelectPath applies a player-chosen path change. Ordinary paths may only be
// chosen once, from none, at the path level; final form only from an ordinary
// path at the final-form level.
func SelectPath(p *Player, path Path, t *Tuning) error {
	switch {
	case path.Ordinary():
		if p.Path != PathNone || p.Level < t.PathLevel {
			return ErrInvalidTransition
		}
	case path == PathFinalForm:
		if !p.Path.Ordinary() || p.Level < t.FinalFormLevel {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	Reconfigure(p, path, t)
	if path == PathFinalForm {
		p.MaxHP *= 2
		p.HP = p.MaxHP
	}
	return nil
}

// ApplySubUpgrade applies key if it belongs to the player's path and has not
// been applied yet. It reports whether anything changed.
func ApplySubUpgrade(p *Player, key UpgradeKey, t *Tuning) bool {
	if !key.AllowedOn(p.Path) || p.HasUpgrade(key) {
		return false
	}
	upgradeTable[key].apply(&p.Loadout)
	p.Upgrades = append(p.Upgrades, key)
	return true
}

// pendingUpgrades lists the keys of the player's path not yet applied
func pendingUpgrades(p *Player) []string {
	var out []string
	for _, k := range UpgradesFor(p.Path) {
		if !p.HasUpgrade(k) {
			out = append(out, k.String())
		}
	}
	return out
}
