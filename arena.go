package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"arena-server/game"
)

const (
	inboxSize   = 1024
	lobbyBuffer = 64
)

var (
	// ErrRoomFull is returned when an arena has no free player slot
	ErrRoomFull     = errors.New("room full")
	errArenaStopped = errors.New("arena stopped")
)

type lobbyEvent struct {
	client *Client
	leave  bool
}

// Arena runs one World on its own goroutine. Everything that touches the
// world happens inside Run; other goroutines talk to it through channels.
type Arena struct {
	ID         string
	maxPlayers int

	world   *game.World
	clients map[string]*Client // playerID -> client, owned by Run

	inbox chan game.Command
	lobby chan lobbyEvent // joins and leaves, in order
	stop  chan struct{}
	done  chan struct{}

	metrics   ArenaMetrics
	analytics *Analytics
	log       *zap.Logger
}

// NewArena creates an arena with a freshly populated world
func NewArena(id string, t game.Tuning, seed int64, maxPlayers int, analytics *Analytics) *Arena {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	l := Log.Desugar().With(zap.String("room", id))
	return &Arena{
		ID:         id,
		maxPlayers: maxPlayers,
		world:      game.NewWorld(t, seed, game.WithLogger(l)),
		clients:    make(map[string]*Client),
		inbox:      make(chan game.Command, inboxSize),
		lobby:      make(chan lobbyEvent, lobbyBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		analytics:  analytics,
		log:        l,
	}
}

// Join reserves a slot for c. The player enters the world at the next tick.
func (a *Arena) Join(c *Client) error {
	select {
	case <-a.done:
		return errArenaStopped
	default:
	}
	if a.metrics.PlayerCount() >= int64(a.maxPlayers) {
		return ErrRoomFull
	}
	a.metrics.AddPlayers(1)
	select {
	case a.lobby <- lobbyEvent{client: c}:
		return nil
	case <-a.done:
		a.metrics.AddPlayers(-1)
		return errArenaStopped
	}
}

// Leave queues the removal of c's player and the close of its send channel
func (a *Arena) Leave(c *Client) {
	a.metrics.AddPlayers(-1)
	select {
	case a.lobby <- lobbyEvent{client: c, leave: true}:
	case <-a.done:
	}
}

// Submit queues a decoded client command. A full inbox drops it.
func (a *Arena) Submit(cmd game.Command) bool {
	select {
	case a.inbox <- cmd:
		a.metrics.IncQueued()
		return true
	default:
		a.metrics.IncDropped()
		return false
	}
}

// PlayerCount is the number of reserved player slots
func (a *Arena) PlayerCount() int {
	return int(a.metrics.PlayerCount())
}

// Metrics exposes the arena counters
func (a *Arena) Metrics() map[string]any {
	return a.metrics.Snapshot()
}

// Stop ends Run; safe to call more than once
func (a *Arena) Stop() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
}

// Done is closed once Run has returned
func (a *Arena) Done() <-chan struct{} {
	return a.done
}

// Run ticks the world at the fixed rate until ctx ends or Stop is called.
func (a *Arena) Run(ctx context.Context) {
	defer close(a.done)
	ticker := time.NewTicker(time.Duration(a.world.Tuning.TickMs() * float64(time.Millisecond)))
	defer ticker.Stop()

	a.log.Info("arena started")
	for {
		select {
		case <-ticker.C:
			a.tick()
		case <-a.stop:
			a.shutdown()
			return
		case <-ctx.Done():
			a.shutdown()
			return
		}
	}
}

// tick drains lobby changes and commands, steps the world once and fans the
// snapshot out to every connected client.
func (a *Arena) tick() {
	start := time.Now()
	cmds := a.drain()

	if err := game.Step(a.world, cmds); err != nil {
		a.metrics.IncPanic()
		a.log.Error("tick failed", zap.Error(err))
	}
	a.broadcast()
	a.world.ClearPrompts()

	for _, e := range a.world.DrainEvents() {
		if a.analytics != nil {
			a.analytics.TrackGameEvent(a.ID, e)
		}
	}
	a.metrics.AddTick(time.Since(start).Nanoseconds())
}

func (a *Arena) drain() []game.Command {
	var cmds []game.Command
	// membership first so input from a client queued this tick finds its player
lobby:
	for {
		select {
		case ev := <-a.lobby:
			c := ev.client
			if ev.leave {
				a.drop(c)
				cmds = append(cmds, game.Command{Type: game.CmdLeave, PlayerID: c.playerID})
				a.log.Debug("player left", zap.String("player", c.playerID))
				continue
			}
			a.clients[c.playerID] = c
			cmds = append(cmds, game.Command{Type: game.CmdJoin, PlayerID: c.playerID})
			c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{ID: c.playerID, Room: a.ID}})
			a.log.Debug("player joined", zap.String("player", c.playerID))
		default:
			break lobby
		}
	}
	for {
		select {
		case cmd := <-a.inbox:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

func (a *Arena) drop(c *Client) {
	if cur, ok := a.clients[c.playerID]; ok && cur == c {
		delete(a.clients, c.playerID)
		close(c.send)
	}
}

func (a *Arena) broadcast() {
	if len(a.clients) == 0 {
		a.world.DrainPopups()
		return
	}
	shared := game.BuildSnapshot(a.world)
	for id, c := range a.clients {
		data, binary, err := EncodeState(c.codec, shared.Personalize(a.world, id))
		if err != nil {
			a.log.Error("encode state", zap.String("player", id), zap.Error(err))
			continue
		}
		var ok bool
		if binary {
			ok = c.SendBinary(data)
		} else {
			ok = c.SendRaw(data)
		}
		if !ok {
			a.metrics.IncSnapshotDropped()
		}
	}
}

// shutdown closes every client still attached, including ones whose join
// was queued but never processed.
func (a *Arena) shutdown() {
loop:
	for {
		select {
		case ev := <-a.lobby:
			if ev.leave {
				a.drop(ev.client)
			} else {
				a.clients[ev.client.playerID] = ev.client
			}
		default:
			break loop
		}
	}
	for _, c := range a.clients {
		close(c.send)
	}
	a.clients = nil
	a.log.Info("arena stopped", zap.Uint64("ticks", a.world.Tick))
}

// Tuning returns the arena's tuning, fixed at construction
func (a *Arena) Tuning() game.Tuning {
	return a.world.Tuning
}
