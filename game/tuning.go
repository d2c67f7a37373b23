package game

// Tuning holds every numeric constant of the simulation. Values differ between
// balance passes, so nothing outside DefaultTuning should hard-code them.
type Tuning struct {
	TickRate  int     `json:"tickRate"`
	MapWidth  float64 `json:"mapWidth"`
	MapHeight float64 `json:"mapHeight"`

	// player defaults
	PlayerRadius float64 `json:"playerRadius"`
	PlayerSpeed  float64 `json:"playerSpeed"`
	PlayerMaxHP  int     `json:"playerMaxHp"`
	HPPerLevel   int     `json:"hpPerLevel"`
	FireDelay    float64 `json:"fireDelay"` // ms
	BulletSpeed  float64 `json:"bulletSpeed"`
	BulletDamage int     `json:"bulletDamage"`
	BulletRadius float64 `json:"bulletRadius"`
	BulletLife   float64 `json:"bulletLife"` // ms
	Spread       float64 `json:"spread"`     // radians between barrels
	WallWidth    float64 `json:"wallWidth"`  // lateral width of a wall volley

	// progression
	LevelThresholds []int `json:"levelThresholds"` // xp needed to leave level i+1
	MaxLevel        int   `json:"maxLevel"`
	PathLevel       int   `json:"pathLevel"`
	UpgradeLevels   []int `json:"upgradeLevels"`
	FinalFormLevel  int   `json:"finalFormLevel"`
	KillXPMin       int   `json:"killXpMin"`
	KillXPPerLevel  int   `json:"killXpPerLevel"`
	BossKillXP      int   `json:"bossKillXp"`
	SuperBossKillXP int   `json:"superBossKillXp"`

	// combat
	HitCooldown     float64 `json:"hitCooldown"`     // ms a pierced target stays immune to the same bullet
	ContactCooldown float64 `json:"contactCooldown"` // ms between contact hits of one construct on one target
	SplashRadius    float64 `json:"splashRadius"`
	SplashFactor    float64 `json:"splashFactor"`
	FragmentCount   int     `json:"fragmentCount"`
	FragmentFactor  float64 `json:"fragmentFactor"`
	KnockbackPush   float64 `json:"knockbackPush"`

	// final form
	FinalCannonDelay  float64 `json:"finalCannonDelay"`
	FinalCannonDamage int     `json:"finalCannonDamage"`
	FinalCannonSpeed  float64 `json:"finalCannonSpeed"`
	FinalCannonRadius float64 `json:"finalCannonRadius"`
	FinalSpeed        float64 `json:"finalSpeed"`

	// drones
	DroneRadius      float64 `json:"droneRadius"`
	DroneSpeed       float64 `json:"droneSpeed"`
	DroneDamage      int     `json:"droneDamage"`
	DroneRespawn     float64 `json:"droneRespawn"` // ms
	DroneOrbit       float64 `json:"droneOrbit"`
	DroneSeekRange   float64 `json:"droneSeekRange"`
	DroneLeash       float64 `json:"droneLeash"`
	DroneFireDelay   float64 `json:"droneFireDelay"`
	DroneShootRange  float64 `json:"droneShootRange"`
	HomingDroneSpeed float64 `json:"homingDroneSpeed"`
	HomingDroneLife  float64 `json:"homingDroneLife"`
	HomingDroneDmg   int     `json:"homingDroneDamage"`
	HomingDroneMax   int     `json:"homingDroneMax"`

	// traps
	TrapCooldown    float64 `json:"trapCooldown"` // ms
	TrapRadius      float64 `json:"trapRadius"`
	TrapHP          int     `json:"trapHp"`
	TrapDamage      int     `json:"trapDamage"`
	TrapLife        float64 `json:"trapLife"`
	TrapFlightTicks int     `json:"trapFlightTicks"`
	TrapThrow       float64 `json:"trapThrow"`
	TrapWear        int     `json:"trapWear"` // hp lost per contact
	SentryRange     float64 `json:"sentryRange"`
	SentryDelay     float64 `json:"sentryDelay"`

	// mobs
	MobInitial         int     `json:"mobInitial"`
	MobFloor           int     `json:"mobFloor"`
	MobTarget          int     `json:"mobTarget"`
	PopulationInterval float64 `json:"populationInterval"`
	MobSeekRange       float64 `json:"mobSeekRange"`
	RareChance         float64 `json:"rareChance"`
	EpicChance         float64 `json:"epicChance"`

	// bosses
	BossRadius           float64    `json:"bossRadius"`
	BossHP               int        `json:"bossHp"`
	BossSpeed            float64    `json:"bossSpeed"`
	BossFireDelay        float64    `json:"bossFireDelay"`
	BossVolley           int        `json:"bossVolley"`
	BossRespawn          float64    `json:"bossRespawn"`
	BossStandoff         float64    `json:"bossStandoff"`
	BossContactDamage    int        `json:"bossContactDamage"`
	SuperBossHP          int        `json:"superBossHp"`
	SuperBossSpeed       float64    `json:"superBossSpeed"`
	SuperBossRings       [3]float64 `json:"superBossRings"` // bottom, middle, top
	SuperBossBurstDelay  float64    `json:"superBossBurstDelay"`
	SuperBossRadialDelay float64    `json:"superBossRadialDelay"`
	SuperBossSnapDelay   float64    `json:"superBossSnapDelay"`
	SuperBossSnapRange   float64    `json:"superBossSnapRange"`
	SuperBossDroneDelay  float64    `json:"superBossDroneDelay"`
	SuperBossRespawn     float64    `json:"superBossRespawn"`
}

// TickMs is the simulated duration of one tick.
func (t Tuning) TickMs() float64 {
	if t.TickRate <= 0 {
		return 1000.0 / 30
	}
	return 1000.0 / float64(t.TickRate)
}

// DefaultTuning returns the shipping balance.
func DefaultTuning() Tuning {
	return Tuning{
		TickRate:  30,
		MapWidth:  7200,
		MapHeight: 5400,

		PlayerRadius: 20,
		PlayerSpeed:  3,
		PlayerMaxHP:  100,
		HPPerLevel:   10,
		FireDelay:    250,
		BulletSpeed:  8,
		BulletDamage: 10,
		BulletRadius: 5,
		BulletLife:   1200,
		Spread:       0.2,
		WallWidth:    48,

		LevelThresholds: []int{100, 250, 500, 900, 1400, 2000, 2700, 3500, 4400, 5400, 6500, 7700, 9000, 10400},
		MaxLevel:        15,
		PathLevel:       3,
		UpgradeLevels:   []int{6, 9, 12},
		FinalFormLevel:  15,
		KillXPMin:       50,
		KillXPPerLevel:  50,
		BossKillXP:      500,
		SuperBossKillXP: 1500,

		HitCooldown:     250,
		ContactCooldown: 500,
		SplashRadius:    80,
		SplashFactor:    0.5,
		FragmentCount:   6,
		FragmentFactor:  0.35,
		KnockbackPush:   30,

		FinalCannonDelay:  600,
		FinalCannonDamage: 60,
		FinalCannonSpeed:  12,
		FinalCannonRadius: 14,
		FinalSpeed:        4.5,

		DroneRadius:      6,
		DroneSpeed:       4,
		DroneDamage:      8,
		DroneRespawn:     3000,
		DroneOrbit:       60,
		DroneSeekRange:   400,
		DroneLeash:       700,
		DroneFireDelay:   600,
		DroneShootRange:  220,
		HomingDroneSpeed: 3.2,
		HomingDroneLife:  15000,
		HomingDroneDmg:   15,
		HomingDroneMax:   6,

		TrapCooldown:    2500,
		TrapRadius:      12,
		TrapHP:          60,
		TrapDamage:      20,
		TrapLife:        30000,
		TrapFlightTicks: 10,
		TrapThrow:       60,
		TrapWear:        10,
		SentryRange:     350,
		SentryDelay:     1000,

		MobInitial:         180,
		MobFloor:           100,
		MobTarget:          120,
		PopulationInterval: 1000,
		MobSeekRange:       300,
		RareChance:         0.05,
		EpicChance:         0.02,

		BossRadius:           80,
		BossHP:               2000,
		BossSpeed:            1.2,
		BossFireDelay:        800,
		BossVolley:           5,
		BossRespawn:          60000,
		BossStandoff:         220,
		BossContactDamage:    30,
		SuperBossHP:          8000,
		SuperBossSpeed:       0.8,
		SuperBossRings:       [3]float64{120, 90, 60},
		SuperBossBurstDelay:  1800,
		SuperBossRadialDelay: 650,
		SuperBossSnapDelay:   250,
		SuperBossSnapRange:   500,
		SuperBossDroneDelay:  4000,
		SuperBossRespawn:     120000,
	}
}

// threshold returns the xp needed to advance past level (1-based).
func (t Tuning) threshold(level int) (int, bool) {
	i := level - 1
	if i < 0 || i >= len(t.LevelThresholds) {
		return 0, false
	}
	return t.LevelThresholds[i], true
}

// pathStats is the base stat set a path applies on top of class defaults.
type pathStats struct {
	Barrels      int
	BulletDamage int
	BulletSpeed  float64
	BulletRadius float64
	MaxDrones    int
	TrapMax      int
	TrapLayer    bool
}

var pathTable = map[Path]pathStats{
	PathMulti: {Barrels: 3, BulletDamage: 6},
	PathBig:   {Barrels: 1, BulletDamage: 24, BulletSpeed: 7, BulletRadius: 9},
	PathDrone: {MaxDrones: 6},
	PathTrap:  {TrapLayer: true, TrapMax: 5},
}

type mobDef struct {
	Radius float64
	HP     int
	XP     int
	Speed  float64
}

var mobTable = map[MobType]mobDef{
	MobSquare:   {Radius: 20, HP: 30, XP: 10, Speed: 0.5},
	MobTriangle: {Radius: 24, HP: 60, XP: 25, Speed: 1.1},
	MobPentagon: {Radius: 28, HP: 120, XP: 130, Speed: 0.3},
}

type rarityDef struct {
	Size float64
	HP   int
	XP   int
}

var rarityTable = map[Rarity]rarityDef{
	RarityNormal: {Size: 1, HP: 1, XP: 1},
	RarityRare:   {Size: 1.3, HP: 3, XP: 4},
	RarityEpic:   {Size: 1.6, HP: 8, XP: 12},
}
