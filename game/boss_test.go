package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBossPursuesNearestTarget(t *testing.T) {
	w := newTestWorld(t)
	near := addTestPlayer(w, "near", 1600, 1000)
	addTestPlayer(w, "far", 5000, 4000)
	w.respawnBoss()
	w.Boss.X, w.Boss.Y = 1000, 1000

	updateBoss(w)

	assert.Equal(t, Ref{Kind: KindPlayer, ID: near.ID}, w.Boss.Target)
	assert.InDelta(t, 1000+w.Tuning.BossSpeed, w.Boss.X, 1e-9)
	assert.InDelta(t, 1000, w.Boss.Y, 1e-9)
	assert.InDelta(t, 0, w.Boss.Angle, 1e-9)
}

func TestBossStopsAtStandoff(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1200, 1000)
	w.respawnBoss()
	w.Boss.X, w.Boss.Y = 1000, 1000

	updateBoss(w)
	assert.Equal(t, 1000.0, w.Boss.X, "already inside standoff range of %s", p.ID)
}

func TestBossTargetsMobsAndOtherBoss(t *testing.T) {
	w := newTestWorld(t)
	m := addTestMob(w, 1300, 1000, 20, 30, 10)
	w.respawnBoss()
	w.Boss.X, w.Boss.Y = 1000, 1000
	w.respawnSuperBoss()
	w.SuperBoss.X, w.SuperBoss.Y = 4000, 4000

	updateBoss(w)
	assert.Equal(t, m.ID, w.Boss.Target.ID)

	m.HP = 0
	updateBoss(w)
	assert.Equal(t, Ref{Kind: KindSuperBoss, ID: SuperBossID}, w.Boss.Target)
}

func TestBossVolley(t *testing.T) {
	w := newTestWorld(t)
	addTestPlayer(w, "p1", 1500, 1000)
	w.respawnBoss()
	w.Boss.X, w.Boss.Y = 1000, 1000
	w.Boss.FireTimer = w.Tuning.BossFireDelay - 1

	updateBoss(w)
	require.Len(t, w.Boss.Bullets, w.Tuning.BossVolley)
	for _, b := range w.Boss.Bullets {
		assert.Equal(t, KindBoss, b.Source)
		assert.Empty(t, b.Owner)
	}
	assert.Zero(t, w.Boss.FireTimer)
}

func TestBossWithoutTargetHoldsFire(t *testing.T) {
	w := newTestWorld(t)
	w.respawnBoss()
	w.Boss.FireTimer = w.Tuning.BossFireDelay

	updateBoss(w)
	assert.Empty(t, w.Boss.Bullets)
	assert.False(t, w.Boss.Target.Valid())
}

func TestBossRespawnsAfterTimer(t *testing.T) {
	w := newTestWorld(t)
	w.respawnBoss()
	w.Boss.HP = 0
	w.Boss.RespawnAt = w.Clock + 100

	updateBoss(w)
	assert.False(t, w.Boss.Alive())

	w.Clock += 100
	updateBoss(w)
	assert.True(t, w.Boss.Alive())
	assert.Equal(t, w.Tuning.BossHP, w.Boss.HP)
}

func TestSuperBossRadialFiresWithoutTarget(t *testing.T) {
	w := newTestWorld(t)
	w.respawnSuperBoss()
	s := w.SuperBoss
	s.RadialTimer = w.Tuning.SuperBossRadialDelay

	updateSuperBoss(w)
	require.Len(t, s.Bullets, 12)
	for _, b := range s.Bullets {
		d := Dist(s.X, s.Y, b.X, b.Y)
		assert.InDelta(t, s.Rings[1], d, 1e-6)
	}
}

func TestSuperBossPatternsShareATick(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1400, 1000)
	w.respawnSuperBoss()
	s := w.SuperBoss
	s.X, s.Y = 1000, 1000
	s.BurstTimer = w.Tuning.SuperBossBurstDelay
	s.RadialTimer = w.Tuning.SuperBossRadialDelay
	s.SnapTimer = w.Tuning.SuperBossSnapDelay
	s.DroneTimer = w.Tuning.SuperBossDroneDelay

	updateSuperBoss(w)
	assert.Len(t, s.Bullets, 7+12+1)
	require.Len(t, s.Drones, 1)
	assert.Equal(t, Ref{Kind: KindPlayer, ID: p.ID}, s.Drones[0].Target)
	assert.Equal(t, DroneHoming, s.Drones[0].Mode)
}

func TestSuperBossSnapNeedsRange(t *testing.T) {
	w := newTestWorld(t)
	addTestPlayer(w, "p1", 3000, 1000)
	w.respawnSuperBoss()
	s := w.SuperBoss
	s.X, s.Y = 1000, 1000
	s.SnapTimer = w.Tuning.SuperBossSnapDelay

	updateSuperBoss(w)
	assert.Empty(t, s.Bullets)
}

func TestSuperBossDroneCap(t *testing.T) {
	w := newTestWorld(t)
	addTestPlayer(w, "p1", 3000, 1000)
	w.respawnSuperBoss()
	s := w.SuperBoss
	for i := 0; i < w.Tuning.HomingDroneMax; i++ {
		w.spawnHomingDrone(s)
	}
	s.DroneTimer = w.Tuning.SuperBossDroneDelay

	updateSuperBoss(w)
	assert.Len(t, s.Drones, w.Tuning.HomingDroneMax)
}

func TestSuperBossRingsRotate(t *testing.T) {
	w := newTestWorld(t)
	w.respawnSuperBoss()
	before := w.SuperBoss.RingAngles

	updateSuperBoss(w)
	for i := range before {
		assert.NotEqual(t, before[i], w.SuperBoss.RingAngles[i])
		assert.LessOrEqual(t, math.Abs(w.SuperBoss.RingAngles[i]), math.Pi)
	}
}

func TestDefeatedSuperBossStopsActing(t *testing.T) {
	w := newTestWorld(t)
	addTestPlayer(w, "p1", 1400, 1000)
	w.respawnSuperBoss()
	s := w.SuperBoss
	s.X, s.Y = 1000, 1000
	s.HP = 0
	s.RespawnAt = math.Inf(1)
	s.RadialTimer = w.Tuning.SuperBossRadialDelay

	updateSuperBoss(w)
	assert.Empty(t, s.Bullets)
	assert.Equal(t, 1000.0, s.X)
}
