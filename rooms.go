package main

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sasha-s/go-deadlock"

	"arena-server/game"
)

const maxRooms = 100

var errTooManyRooms = errors.New("too many active rooms")

// RoomOptions configures every arena the manager creates
type RoomOptions struct {
	Tuning      game.Tuning
	Seed        int64
	MaxPlayers  int
	DefaultRoom string
}

// RoomInfo is used in the admin room list
type RoomInfo struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

// ArenaManager creates arenas on first join and stops them once empty. The
// default room lives for the whole process.
type ArenaManager struct {
	mu     deadlock.RWMutex
	arenas map[string]*Arena

	ctx       context.Context
	wg        sync.WaitGroup
	opts      RoomOptions
	analytics *Analytics
}

// NewArenaManager creates the manager and starts the default room. Arenas
// stop when ctx ends.
func NewArenaManager(ctx context.Context, opts RoomOptions, analytics *Analytics) *ArenaManager {
	m := &ArenaManager{
		arenas:    make(map[string]*Arena),
		ctx:       ctx,
		opts:      opts,
		analytics: analytics,
	}
	m.mu.Lock()
	m.startLocked(opts.DefaultRoom)
	m.mu.Unlock()
	return m
}

func (m *ArenaManager) startLocked(id string) *Arena {
	a := NewArena(id, m.opts.Tuning, m.opts.Seed, m.opts.MaxPlayers, m.analytics)
	m.arenas[id] = a
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		a.Run(m.ctx)
	}()
	return a
}

// Join attaches c to the named room, creating it if needed
func (m *ArenaManager) Join(roomID string, c *Client) (*Arena, error) {
	if roomID == "" {
		roomID = m.opts.DefaultRoom
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.arenas[roomID]
	if !ok {
		if len(m.arenas) >= maxRooms {
			return nil, errTooManyRooms
		}
		a = m.startLocked(roomID)
	}
	c.arena = a
	if err := a.Join(c); err != nil {
		c.arena = nil
		m.reapLocked(a)
		return nil, err
	}
	return a, nil
}

// Leave detaches c and stops its room if that left it empty
func (m *ArenaManager) Leave(c *Client) {
	a := c.arena
	if a == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.Leave(c)
	m.reapLocked(a)
}

func (m *ArenaManager) reapLocked(a *Arena) {
	if a.ID == m.opts.DefaultRoom || a.PlayerCount() > 0 {
		return
	}
	if cur, ok := m.arenas[a.ID]; ok && cur == a {
		delete(m.arenas, a.ID)
		a.Stop()
	}
}

// Get returns a running room
func (m *ArenaManager) Get(id string) (*Arena, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.arenas[id]
	return a, ok
}

// List returns every running room, sorted by id
func (m *ArenaManager) List() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]RoomInfo, 0, len(m.arenas))
	for id, a := range m.arenas {
		list = append(list, RoomInfo{ID: id, Players: a.PlayerCount()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Wait blocks until every arena goroutine has returned
func (m *ArenaManager) Wait() {
	m.wg.Wait()
}
