package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, cfg Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(cfg.ClientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"rooms":  len(hub.rooms.List()),
			"conns":  hub.TotalConns(),
		})
	})

	mux.HandleFunc("/qr.png", func(w http.ResponseWriter, r *http.Request) {
		serveJoinQR(w, r, cfg.PublicURL)
	})

	// WebSocket endpoint: /ws?room=<id>&codec=<msgpack|json>
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		room := q.Get("room")
		if room == "" {
			room = cfg.DefaultRoom
		}
		if !ValidRoomID(room) {
			http.Error(w, "invalid room", http.StatusBadRequest)
			return
		}
		codec, ok := ParseCodec(q.Get("codec"))
		if !ok {
			http.Error(w, "unknown codec", http.StatusBadRequest)
			return
		}

		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnw("upgrade error", "err", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip, codec)
		if _, err := hub.rooms.Join(room, client); err != nil {
			rejectClient(conn, err)
			hub.TrackDisconnect(ip)
			return
		}
		Log.Infow("client connected", "room", room, "player", client.playerID, "codec", codec.String())

		go client.WritePump()
		go client.ReadPump()
	})

	registerAdminRoutes(mux, hub)
	return mux
}

// rejectClient tells the client why it could not join and closes the socket
func rejectClient(conn *websocket.Conn, err error) {
	msg := "could not join room"
	switch {
	case errors.Is(err, ErrRoomFull):
		msg = "room full"
	case errors.Is(err, errTooManyRooms):
		msg = "too many active rooms"
	}
	conn.WriteJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, msg))
	conn.Close()
}
