package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	maxLoginBody  = 1024
	defaultDays   = 7
	topKillersMax = 10
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func registerAdminRoutes(mux *http.ServeMux, hub *Hub) {
	mux.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		token, err := hub.auth.Login(req.Password, extractIP(r))
		switch {
		case errors.Is(err, errRateLimited):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
			return
		case err != nil:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	})

	mux.Handle("/admin/metrics", requireAdmin(hub.auth, func(w http.ResponseWriter, r *http.Request) {
		rooms := make(map[string]map[string]any)
		for _, info := range hub.rooms.List() {
			if a, ok := hub.rooms.Get(info.ID); ok {
				rooms[info.ID] = a.Metrics()
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"rooms": rooms,
			"conns": hub.TotalConns(),
		})
	}))

	mux.Handle("/admin/stats", requireAdmin(hub.auth, func(w http.ResponseWriter, r *http.Request) {
		if hub.analytics == nil {
			http.Error(w, "analytics disabled", http.StatusNotFound)
			return
		}
		days := defaultDays
		if s := r.URL.Query().Get("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				http.Error(w, "invalid days", http.StatusBadRequest)
				return
			}
			days = n
		}
		counts, err := hub.analytics.EventCounts(days)
		if err != nil {
			Log.Errorw("event counts", "err", err)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}
		killers, err := hub.analytics.TopKillers(topKillersMax)
		if err != nil {
			Log.Errorw("top killers", "err", err)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}
		bosses, err := hub.analytics.BossDefeats()
		if err != nil {
			Log.Errorw("boss defeats", "err", err)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"days":        days,
			"events":      counts,
			"topKillers":  killers,
			"bossDefeats": bosses,
			"rooms":       hub.rooms.List(),
		})
	}))

	mux.Handle("/admin/tuning", requireAdmin(hub.auth, func(w http.ResponseWriter, r *http.Request) {
		room := r.URL.Query().Get("room")
		a, ok := hub.rooms.Get(room)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, a.Tuning())
	}))
}

// requireAdmin rejects requests without a valid "Authorization: Bearer" token
func requireAdmin(auth *Auth, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || auth.ValidateToken(tok) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log.Debugw("write response", "err", err)
	}
}
