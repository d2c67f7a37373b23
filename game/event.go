package game

// EventType names an outward gameplay event
type EventType string

const (
	EventPlayerKilled   EventType = "player_killed"
	EventBossDefeated   EventType = "boss_defeated"
	EventLevelUp        EventType = "level_up"
	EventPathChosen     EventType = "path_chosen"
	EventUpgradeApplied EventType = "upgrade_applied"
	EventRespawn        EventType = "respawn"
)

// Event is a notable gameplay fact surfaced to the host for analytics.
type Event struct {
	Type     EventType
	Tick     uint64
	PlayerID string // the acting or affected player
	Subject  string // victim id, boss id, path or upgrade name
	Value    int    // level or xp awarded
}

func (w *World) emit(typ EventType, playerID, subject string, value int) {
	w.Events = append(w.Events, Event{
		Type:     typ,
		Tick:     w.Tick,
		PlayerID: playerID,
		Subject:  subject,
		Value:    value,
	})
}

// DrainEvents hands over the events accumulated since the last call
func (w *World) DrainEvents() []Event {
	out := w.Events
	w.Events = nil
	return out
}
