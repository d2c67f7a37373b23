package main

import (
	"sync"
	"time"

	"arena-server/game"
)

const (
	analyticsQueue = 1024
	flushBatch     = 50
	flushEvery     = 5 * time.Second
)

// AnalyticsEvent is one gameplay event waiting to be persisted
type AnalyticsEvent struct {
	Room      string
	Event     game.Event
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsQueue),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// TrackGameEvent enqueues an event for async persistence. It never blocks
// the tick: a full queue drops the event.
func (a *Analytics) TrackGameEvent(room string, e game.Event) {
	select {
	case a.events <- AnalyticsEvent{Room: room, Event: e, Timestamp: time.Now().UTC()}:
	default:
		Log.Debugw("analytics queue full, event dropped", "room", room, "type", e.Type)
	}
}

// Stop flushes what is queued and shuts the writer down
func (a *Analytics) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, flushBatch)
	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= flushBatch {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
		drain:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		Log.Errorw("analytics: begin tx", "err", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO game_events (room, event_type, tick, player_id, subject, value, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		Log.Errorw("analytics: prepare", "err", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		e := evt.Event
		if _, err := stmt.Exec(evt.Room, string(e.Type), int64(e.Tick), e.PlayerID, e.Subject, e.Value, evt.Timestamp.Format(time.RFC3339)); err != nil {
			Log.Errorw("analytics: insert", "err", err)
		}
	}
	if err := tx.Commit(); err != nil {
		Log.Errorw("analytics: commit", "err", err)
	}
}

// --- Query methods for the admin API ---

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	result := make(map[string]int)
	if a.db == nil {
		return result, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM game_events
		WHERE created_at >= strftime('%Y-%m-%dT%H:%M:%SZ', 'now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// TopKillers returns the players with the most player kills
func (a *Analytics) TopKillers(limit int) ([]KillerCount, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT player_id, COUNT(*) AS kills FROM game_events
		WHERE event_type = ? AND player_id != ''
		GROUP BY player_id ORDER BY kills DESC, player_id LIMIT ?
	`, string(game.EventPlayerKilled), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []KillerCount
	for rows.Next() {
		var kc KillerCount
		if err := rows.Scan(&kc.PlayerID, &kc.Kills); err != nil {
			return nil, err
		}
		result = append(result, kc)
	}
	return result, rows.Err()
}

// BossDefeats counts defeats per boss kind
func (a *Analytics) BossDefeats() (map[string]int, error) {
	result := make(map[string]int)
	if a.db == nil {
		return result, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT subject, COUNT(*) FROM game_events
		WHERE event_type = ? GROUP BY subject
	`, string(game.EventBossDefeated))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var boss string
		var count int
		if err := rows.Scan(&boss, &count); err != nil {
			return nil, err
		}
		result[boss] = count
	}
	return result, rows.Err()
}

// KillerCount holds the kill total of one player
type KillerCount struct {
	PlayerID string `json:"player_id"`
	Kills    int    `json:"kills"`
}
