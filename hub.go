package main

import "github.com/sasha-s/go-deadlock"

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub owns the rooms and the services shared by every connection
type Hub struct {
	rooms     *ArenaManager
	auth      *Auth
	analytics *Analytics // nil without a database

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     deadlock.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a Hub around an already running room manager
func NewHub(rooms *ArenaManager, auth *Auth, analytics *Analytics) *Hub {
	return &Hub{
		rooms:     rooms,
		auth:      auth,
		analytics: analytics,
		ipConns:   make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	return h.ipConns[ip] < maxConnsPerIP
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
