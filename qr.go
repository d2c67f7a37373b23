package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// joinLink builds the URL a phone should open to join room
func joinLink(publicURL, host, room string) string {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		base = "http://" + host
	}
	return base + "/?room=" + url.QueryEscape(room)
}

// serveJoinQR renders a PNG QR code for /qr.png?room=<id>
func serveJoinQR(w http.ResponseWriter, r *http.Request, publicURL string) {
	room := r.URL.Query().Get("room")
	if !ValidRoomID(room) {
		http.Error(w, "invalid room", http.StatusBadRequest)
		return
	}
	png, err := qrcode.Encode(joinLink(publicURL, r.Host, room), qrcode.Medium, qrSize)
	if err != nil {
		Log.Errorw("qr encode", "room", room, "err", err)
		http.Error(w, "qr failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
