package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAndLeaveCommands(t *testing.T) {
	w := newTestWorld(t)

	require.NoError(t, Step(w, []Command{{Type: CmdJoin, PlayerID: "p1"}}))
	p, ok := w.Player("p1")
	require.True(t, ok)
	assert.False(t, p.Dead)

	require.NoError(t, Step(w, []Command{{Type: CmdLeave, PlayerID: "p1"}}))
	_, ok = w.Player("p1")
	assert.False(t, ok)
}

func TestInputCommandPersists(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1000, 1000)

	in := Input{Keys: Keys{D: true}, Mouse: Point{X: 1000, Y: 2000}}
	require.NoError(t, Step(w, []Command{{Type: CmdInput, PlayerID: "p1", Input: in}}))
	x := p.X
	assert.InDelta(t, 1000+w.Tuning.PlayerSpeed, x, 1e-9)

	// the last input keeps applying until replaced
	require.NoError(t, Step(w, nil))
	assert.InDelta(t, x+w.Tuning.PlayerSpeed, p.X, 1e-9)
}

func TestCommandForUnknownPlayer(t *testing.T) {
	w := newTestWorld(t)
	assert.ErrorIs(t, w.Apply(Command{Type: CmdInput, PlayerID: "ghost"}), ErrInvalidTransition)
	assert.NotPanics(t, func() {
		require.NoError(t, Step(w, []Command{{Type: CmdSwitchPath, PlayerID: "ghost", Path: PathMulti}}))
	})
}

func TestSwitchPathCommand(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1000, 1000)

	assert.ErrorIs(t, w.Apply(Command{Type: CmdSwitchPath, PlayerID: "p1", Path: PathDrone}), ErrInvalidTransition)

	p.Level = 3
	require.NoError(t, w.Apply(Command{Type: CmdSwitchPath, PlayerID: "p1", Path: PathDrone}))
	assert.Equal(t, PathDrone, p.Path)
	assert.Equal(t, 6, p.Loadout.MaxDrones)

	events := w.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventPathChosen, events[0].Type)
	assert.Equal(t, "drone", events[0].Subject)
}

func TestRespawnOnlyWhenDead(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1000, 1000)
	p.XP = 300
	p.Level = 3

	assert.ErrorIs(t, w.Apply(Command{Type: CmdRespawn, PlayerID: "p1"}), ErrInvalidTransition)

	w.killPlayer(p, "")
	require.NoError(t, w.Apply(Command{Type: CmdRespawn, PlayerID: "p1"}))

	assert.False(t, p.Dead)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.XP)
	assert.Equal(t, 100, p.HP)
	assert.Equal(t, PathNone, p.Path)
	assert.True(t, InsideMap(p.X, p.Y, w.Tuning.MapWidth, w.Tuning.MapHeight))
}

func TestDeadPlayerCannotUpgrade(t *testing.T) {
	w := newTestWorld(t)
	p := addTestPlayer(w, "p1", 1000, 1000)
	Reconfigure(p, PathMulti, &w.Tuning)
	p.UpgradePoints = 1
	w.killPlayer(p, "")

	assert.ErrorIs(t, w.Apply(Command{Type: CmdApplyUpgrade, PlayerID: "p1", Upgrade: QuadCore}), ErrInvalidTransition)
	assert.Equal(t, 1, p.UpgradePoints)
}
