package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trapPlayer(w *World, keys ...UpgradeKey) *Player {
	p := addTestPlayer(w, "layer", 2000, 2000)
	Reconfigure(p, PathTrap, &w.Tuning)
	p.Loadout.MainGun = false
	for _, k := range keys {
		ApplySubUpgrade(p, k, &w.Tuning)
	}
	p.Angle = 0
	return p
}

func TestPlaceTrapRequiresTrapPath(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1000, 1000)

	assert.False(t, w.placeTrap(p))
	assert.ErrorIs(t, w.Apply(Command{Type: CmdPlaceTrap, PlayerID: p.ID}), ErrInvalidTransition)
	assert.Empty(t, p.Traps)
}

func TestPlaceTrapCooldownAndCap(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w)

	require.True(t, w.placeTrap(p))
	assert.False(t, w.placeTrap(p), "still cooling down")

	for i := 1; i < p.Loadout.TrapMax; i++ {
		w.Clock += w.Tuning.TrapCooldown
		require.True(t, w.placeTrap(p))
	}
	w.Clock += w.Tuning.TrapCooldown
	assert.False(t, w.placeTrap(p), "at the cap")
	assert.Len(t, p.Traps, p.Loadout.TrapMax)
}

func TestTrapFliesThenRests(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w)
	require.True(t, w.placeTrap(p))
	tr := p.Traps[0]
	x0 := tr.X
	assert.False(t, tr.Resting())

	for i := 0; i < w.Tuning.TrapFlightTicks; i++ {
		updateTraps(w)
	}
	assert.True(t, tr.Resting())
	assert.InDelta(t, x0+w.Tuning.TrapThrow, tr.X, 1e-9)

	updateTraps(w)
	assert.InDelta(t, x0+w.Tuning.TrapThrow, tr.X, 1e-9)
}

func TestTrapSizes(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w, TrapBig)
	require.True(t, w.placeTrap(p))
	assert.Equal(t, 16.0, p.Traps[0].R)
	assert.Equal(t, 120, p.Traps[0].HP)

	ApplySubUpgrade(p, TrapHuge, &w.Tuning)
	w.Clock += w.Tuning.TrapCooldown
	require.True(t, w.placeTrap(p))
	assert.Equal(t, 22.0, p.Traps[1].R)
	assert.Equal(t, 40, p.Traps[1].Damage)
}

func TestTrapExpires(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w)
	require.True(t, w.placeTrap(p))
	p.Traps[0].Life = 1

	updateTraps(w)
	w.sweep()
	assert.Empty(t, p.Traps)
}

func TestSentryTrapFires(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w, TrapSentry)
	require.True(t, w.placeTrap(p))
	tr := p.Traps[0]
	m := addTestMob(w, tr.X+200, tr.Y, 20, 30, 10)

	fireSentries(w)
	assert.Empty(t, p.Bullets, "sentries only fire once resting")

	tr.Flight = 0
	fireSentries(w)
	require.Len(t, p.Bullets, 1)
	b := p.Bullets[0]
	assert.Greater(t, b.VX, 0.0)
	assert.InDelta(t, 0, b.VY, 1e-9)
	assert.Equal(t, w.Tuning.SentryDelay, tr.FireCooldown)

	m.X = tr.X + w.Tuning.SentryRange + 100
	tr.FireCooldown = 0
	fireSentries(w)
	assert.Len(t, p.Bullets, 1, "target out of range")
}

func TestTrapContactWearsAndClusters(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w, TrapCluster)
	require.True(t, w.placeTrap(p))
	tr := p.Traps[0]
	tr.Flight = 0
	tr.HP = w.Tuning.TrapWear
	m := addTestMob(w, tr.X, tr.Y, 20, 100, 10)

	resolveContacts(w)
	assert.Equal(t, 100-w.Tuning.TrapDamage, m.HP)
	assert.Zero(t, tr.HP)

	require.Len(t, p.Bullets, w.Tuning.FragmentCount)
	for _, b := range p.Bullets {
		assert.Equal(t, 7, b.Damage)
		assert.True(t, b.immuneTo(m.ID, w.Clock))
	}
}

func TestTrapsIgnoreDrones(t *testing.T) {
	w := newTestWorld(t)
	p := trapPlayer(w)
	require.True(t, w.placeTrap(p))
	tr := p.Traps[0]

	enemy := dronePlayer(w)
	w.spawnPlayerDrone(enemy)
	d := enemy.Drones[0]
	d.X, d.Y = tr.X, tr.Y
	enemy.X, enemy.Y = 4000, 4000

	resolveContacts(w)
	assert.Equal(t, tr.MaxHP, tr.HP)
}
