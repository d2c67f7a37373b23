package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dronePlayer(w *World, keys ...UpgradeKey) *Player {
	p := addTestPlayer(w, "pilot", 2000, 2000)
	Reconfigure(p, PathDrone, &w.Tuning)
	p.Loadout.MainGun = false
	for _, k := range keys {
		ApplySubUpgrade(p, k, &w.Tuning)
	}
	return p
}

func TestDronesSpawnOnTimerUpToCap(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w)
	p.Loadout.MaxDrones = 2

	ticks := int(w.Tuning.DroneRespawn/w.Tuning.TickMs()) + 2
	for i := 0; i < ticks; i++ {
		updateDrones(w)
	}
	require.Len(t, p.Drones, 1)
	assert.Equal(t, p.ID, p.Drones[0].Owner)

	for i := 0; i < 5*ticks; i++ {
		updateDrones(w)
	}
	assert.Len(t, p.Drones, 2)
}

func TestDroneTargetDestroyedBeforeItsTick(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w)
	m := addTestMob(w, 2100, 2000, 20, 30, 10)
	w.spawnPlayerDrone(p)
	d := p.Drones[0]
	d.Target = Ref{Kind: KindMob, ID: m.ID}

	// another source finishes the mob first
	m.HP = 0
	w.sweep()

	require.NotPanics(t, func() {
		require.NoError(t, Step(w, nil))
	})
	assert.NotEqual(t, m.ID, d.Target.ID)
	_, _, _, ok := w.resolve(d.Target)
	assert.True(t, ok || !d.Target.Valid(), "target is either live or cleared")
}

func TestDroneRetargetsToNearbyMob(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w)
	gone := addTestMob(w, 2100, 2000, 20, 30, 10)
	next := addTestMob(w, 2200, 2000, 20, 30, 10)
	next.Speed = 0
	w.spawnPlayerDrone(p)
	d := p.Drones[0]
	d.Target = Ref{Kind: KindMob, ID: gone.ID}
	gone.HP = 0

	updateDrones(w)
	assert.Equal(t, Ref{Kind: KindMob, ID: next.ID}, d.Target)
}

func TestGuardianDronesOrbit(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w, DroneGuardian)
	addTestMob(w, 2100, 2000, 20, 30, 10)
	w.spawnPlayerDrone(p)
	d := p.Drones[0]

	for i := 0; i < 60; i++ {
		updateDrones(w)
	}
	assert.Equal(t, DroneOrbit, d.Mode)
	assert.False(t, d.Target.Valid())
	assert.InDelta(t, w.Tuning.DroneOrbit, Dist(p.X, p.Y, d.X, d.Y), w.Tuning.DroneSpeed)
}

func TestDroneLeashDropsTarget(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w)
	m := addTestMob(w, 2000+w.Tuning.DroneLeash+50, 2000, 20, 30, 10)
	w.spawnPlayerDrone(p)
	d := p.Drones[0]
	d.Target = Ref{Kind: KindMob, ID: m.ID}

	updateDrones(w)
	assert.NotEqual(t, m.ID, d.Target.ID)
}

func TestDroneContactDamagesAndWears(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w, ArmoredDrones)
	m := addTestMob(w, 2300, 2300, 20, 100, 10)
	w.spawnPlayerDrone(p)
	d := p.Drones[0]
	d.X, d.Y = m.X, m.Y
	require.Equal(t, 2, d.HP)
	d.Damage = p.Loadout.DroneDamage

	resolveContacts(w)
	assert.Equal(t, 92, m.HP)
	assert.Equal(t, 1, d.HP)

	// same target inside the contact cooldown is not hit again
	resolveContacts(w)
	assert.Equal(t, 92, m.HP)
}

func TestSnareDronesSlowMobs(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w, SnareDrones, ArmoredDrones)
	m := addTestMob(w, 2300, 2300, 20, 100, 10)
	w.spawnPlayerDrone(p)
	d := p.Drones[0]
	d.X, d.Y = m.X, m.Y
	d.Snare = true
	d.Damage = 8

	resolveContacts(w)
	assert.Greater(t, m.SlowUntil, w.Clock)
}

func TestShooterDroneFires(t *testing.T) {
	w := newTestWorld(t)
	p := dronePlayer(w, DroneShooter)
	m := addTestMob(w, 2100, 2000, 20, 30, 10)
	w.spawnPlayerDrone(p)
	d := p.Drones[0]
	d.X, d.Y = 2000, 2000
	d.Target = Ref{Kind: KindMob, ID: m.ID}

	fireDrones(w)
	require.Len(t, p.Bullets, 1)
	assert.Equal(t, p.ID, p.Bullets[0].Owner)
	assert.Equal(t, w.Tuning.DroneFireDelay, d.FireCooldown)
}

func TestHomingDroneRetargetsWhenPlayerLeaves(t *testing.T) {
	w := newTestWorld(t)
	a := addTestPlayer(w, "a", 1000, 1000)
	b := addTestPlayer(w, "b", 3000, 3000)
	w.respawnSuperBoss()
	w.SuperBoss.X, w.SuperBoss.Y = 1100, 1100
	w.spawnHomingDrone(w.SuperBoss)
	d := w.SuperBoss.Drones[0]
	require.Equal(t, a.ID, d.Target.ID)

	w.RemovePlayer(a.ID)
	require.NotPanics(t, func() { updateDrones(w) })
	assert.Equal(t, b.ID, d.Target.ID)

	w.RemovePlayer(b.ID)
	x, y := d.X, d.Y
	updateDrones(w)
	assert.False(t, d.Target.Valid())
	assert.Equal(t, x, d.X)
	assert.Equal(t, y, d.Y)
}

func TestHomingDroneDetonatesOnContact(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1000, 1000)
	w.respawnSuperBoss()
	w.SuperBoss.X, w.SuperBoss.Y = 4000, 4000
	w.spawnHomingDrone(w.SuperBoss)
	d := w.SuperBoss.Drones[0]
	d.X, d.Y = 1000, 1000

	resolveContacts(w)
	assert.Equal(t, 100-w.Tuning.HomingDroneDmg, p.HP)
	assert.Zero(t, d.HP)
	w.sweep()
	assert.Empty(t, w.SuperBoss.Drones)
}

func TestHomingDroneExpires(t *testing.T) {
	w := newTestWorld(t)
	w.respawnSuperBoss()
	w.spawnHomingDrone(w.SuperBoss)
	d := w.SuperBoss.Drones[0]
	d.Life = 1

	updateDrones(w)
	assert.Zero(t, d.HP)
}
