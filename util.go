package main

import (
	"net"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

var roomIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,40}$`)

// GenerateUUID returns a random (v4) UUID string
func GenerateUUID() string {
	return uuid.NewString()
}

// ValidRoomID reports whether s can name a room
func ValidRoomID(s string) bool {
	return roomIDRe.MatchString(s)
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
