package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-server/game"
)

func fakeClient(id string, codec Codec) *Client {
	return &Client{playerID: id, codec: codec, send: make(chan []byte, sendBufSize)}
}

// newTestArena returns an arena over an unpopulated world; it is ticked by
// hand, Run is not started.
func newTestArena(maxPlayers int) *Arena {
	a := NewArena("main", game.DefaultTuning(), 1, maxPlayers, nil)
	a.world = game.NewWorld(game.DefaultTuning(), 1, game.WithEmptyArena())
	return a
}

// nextFrame pops one queued frame without blocking
func nextFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case b, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return b
	default:
		t.Fatal("no frame queued")
		return nil
	}
}

func TestArenaJoinWelcomeAndState(t *testing.T) {
	a := newTestArena(4)
	c := fakeClient("p1", CodecJSON)
	require.NoError(t, a.Join(c))
	assert.Equal(t, 1, a.PlayerCount())

	a.tick()
	_, ok := a.world.Player("p1")
	require.True(t, ok)

	var welcome struct {
		T string     `json:"t"`
		D WelcomeMsg `json:"d"`
	}
	require.NoError(t, json.Unmarshal(nextFrame(t, c), &welcome))
	assert.Equal(t, MsgWelcome, welcome.T)
	assert.Equal(t, WelcomeMsg{ID: "p1", Room: "main"}, welcome.D)

	var state struct {
		T string        `json:"t"`
		D game.Snapshot `json:"d"`
	}
	require.NoError(t, json.Unmarshal(nextFrame(t, c), &state))
	assert.Equal(t, MsgState, state.T)
	assert.Equal(t, "p1", state.D.You)
	assert.Equal(t, uint64(1), state.D.Tick)
}

func TestArenaMsgpackFramesAreMarked(t *testing.T) {
	a := newTestArena(4)
	c := fakeClient("p1", CodecMsgpack)
	require.NoError(t, a.Join(c))
	a.tick()

	nextFrame(t, c) // welcome is always json text
	frame := nextFrame(t, c)
	require.Equal(t, byte(0xFF), frame[0])

	var snap game.Snapshot
	require.NoError(t, unmarshalMsgpack(frame[1:], &snap))
	assert.Equal(t, "p1", snap.You)
}

func TestArenaSubmitAppliesNextTick(t *testing.T) {
	a := newTestArena(4)
	c := fakeClient("p1", CodecJSON)
	require.NoError(t, a.Join(c))
	a.tick()

	p, _ := a.world.Player("p1")
	x0 := p.X
	require.True(t, a.Submit(game.Command{
		Type:     game.CmdInput,
		PlayerID: "p1",
		Input:    game.Input{Keys: game.Keys{D: true}, Mouse: game.Point{X: x0 + 100, Y: p.Y}},
	}))
	a.tick()
	p, _ = a.world.Player("p1")
	assert.Greater(t, p.X, x0)
	assert.Equal(t, int64(1), a.metrics.CommandsQueued)
}

func TestArenaJoinBeforeQueuedInput(t *testing.T) {
	a := newTestArena(4)
	// input lands in the inbox before the join reaches the lobby
	require.True(t, a.Submit(game.Command{
		Type:     game.CmdInput,
		PlayerID: "p1",
		Input:    game.Input{Keys: game.Keys{D: true}},
	}))
	require.NoError(t, a.Join(fakeClient("p1", CodecJSON)))
	a.tick()

	p, ok := a.world.Player("p1")
	require.True(t, ok)
	assert.True(t, p.Input.Keys.D)
}

func TestArenaRoomFull(t *testing.T) {
	a := newTestArena(1)
	require.NoError(t, a.Join(fakeClient("p1", CodecJSON)))
	assert.ErrorIs(t, a.Join(fakeClient("p2", CodecJSON)), ErrRoomFull)
}

func TestArenaLeaveClosesSend(t *testing.T) {
	a := newTestArena(4)
	c := fakeClient("p1", CodecJSON)
	require.NoError(t, a.Join(c))
	a.Leave(c)
	assert.Equal(t, 0, a.PlayerCount())

	a.tick()
	_, ok := a.world.Player("p1")
	assert.False(t, ok)

	// welcome was queued before the leave, then the channel is closed
	nextFrame(t, c)
	_, open := <-c.send
	assert.False(t, open)
}

func TestArenaEmptyRoomDrainsPopups(t *testing.T) {
	a := NewArena("main", game.DefaultTuning(), 1, 4, nil)
	for i := 0; i < 30; i++ {
		a.tick()
	}
	assert.Empty(t, a.world.DrainPopups())
}

func TestArenaRunStopsAndClosesClients(t *testing.T) {
	a := NewArena("main", game.DefaultTuning(), 1, 4, nil)
	c := fakeClient("p1", CodecJSON)
	require.NoError(t, a.Join(c))

	go a.Run(context.Background())
	a.Stop()
	a.Stop()

	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("arena did not stop")
	}
	for range c.send {
	}
	assert.ErrorIs(t, a.Join(fakeClient("p2", CodecJSON)), errArenaStopped)
}

func TestArenaManagerReapsEmptyRooms(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewArenaManager(ctx, RoomOptions{
		Tuning:      game.DefaultTuning(),
		Seed:        3,
		MaxPlayers:  2,
		DefaultRoom: "main",
	}, nil)

	c := fakeClient("p1", CodecJSON)
	a, err := m.Join("side", c)
	require.NoError(t, err)
	assert.Equal(t, "side", a.ID)
	assert.Equal(t, []RoomInfo{{ID: "main", Players: 0}, {ID: "side", Players: 1}}, m.List())

	m.Leave(c)
	_, ok := m.Get("side")
	assert.False(t, ok)
	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reaped arena did not stop")
	}

	// the default room is never reaped
	d := fakeClient("p2", CodecJSON)
	_, err = m.Join("", d)
	require.NoError(t, err)
	m.Leave(d)
	_, ok = m.Get("main")
	assert.True(t, ok)

	cancel()
	m.Wait()
}
