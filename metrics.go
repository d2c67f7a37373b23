package main

import "sync/atomic"

// ArenaMetrics counts what one arena did since it started
type ArenaMetrics struct {
	TickCount        int64
	TotalTickNs      int64
	TickPanics       int64
	CommandsQueued   int64
	CommandsDropped  int64 // inbox full
	MalformedInputs  int64
	SnapshotsDropped int64 // client send buffer full
	Players          int64
}

func (m *ArenaMetrics) IncQueued() { atomic.AddInt64(&m.CommandsQueued, 1) }
func (m *ArenaMetrics) IncDropped() { atomic.AddInt64(&m.CommandsDropped, 1) }
func (m *ArenaMetrics) IncMalformed() { atomic.AddInt64(&m.MalformedInputs, 1) }
func (m *ArenaMetrics) IncSnapshotDropped() { atomic.AddInt64(&m.SnapshotsDropped, 1) }
func (m *ArenaMetrics) IncPanic() { atomic.AddInt64(&m.TickPanics, 1) }
func (m *ArenaMetrics) AddPlayers(n int64) { atomic.AddInt64(&m.Players, n) }
func (m *ArenaMetrics) PlayerCount() int64 { return atomic.LoadInt64(&m.Players) }
func (m *ArenaMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for the admin endpoint
func (m *ArenaMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"tick_panics":       atomic.LoadInt64(&m.TickPanics),
		"commands_queued":   atomic.LoadInt64(&m.CommandsQueued),
		"commands_dropped":  atomic.LoadInt64(&m.CommandsDropped),
		"malformed_inputs":  atomic.LoadInt64(&m.MalformedInputs),
		"snapshots_dropped": atomic.LoadInt64(&m.SnapshotsDropped),
		"players":           atomic.LoadInt64(&m.Players),
		"avg_tick_ms":       avgMs,
	}
}
