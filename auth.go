package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 12 * time.Hour
	jwtIssuer        = "arena-server"
	adminSubject     = "admin"
	bcryptCost       = 12
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
	secretSetting    = "jwt_secret"
)

var (
	// ErrUnauthorized covers bad passwords, bad tokens and a disabled admin
	ErrUnauthorized = errors.New("unauthorized")
	errRateLimited  = errors.New("too many login attempts, try again later")
)

// Auth guards the admin endpoints: one bcrypt-hashed password exchanged
// for a short-lived HS256 token.
type Auth struct {
	passHash  []byte // nil disables admin login
	jwtSecret []byte

	rateMu  deadlock.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth builds the admin authenticator from config. A plain password is
// hashed once at startup; an explicit hash wins. The signing secret comes from
// config, then the settings table, and is generated and stored otherwise.
func NewAuth(cfg Config, db *DB) (*Auth, error) {
	a := &Auth{rateMap: make(map[string]*rateEntry)}
	switch {
	case cfg.AdminPasswordHash != "":
		a.passHash = []byte(cfg.AdminPasswordHash)
	case cfg.AdminPassword != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.passHash = hash
	}

	secret, err := loadOrCreateSecret(cfg.JWTSecret, db)
	if err != nil {
		return nil, err
	}
	a.jwtSecret = secret
	return a, nil
}

// loadOrCreateSecret loads the JWT secret from config or the database, or
// generates and persists a new one if none exists.
func loadOrCreateSecret(configured string, db *DB) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	if db != nil {
		h, err := db.GetSetting(secretSetting)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret: %w", err)
		}
		if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
			return b, nil
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			Log.Warnw("could not persist jwt secret", "err", err)
		}
	}
	return secret, nil
}

// Enabled reports whether an admin password is configured
func (a *Auth) Enabled() bool {
	return len(a.passHash) > 0
}

// Login checks the admin password and returns a signed token
func (a *Auth) Login(password, ip string) (string, error) {
	if !a.Enabled() {
		return "", ErrUnauthorized
	}
	if !a.checkRate(ip) {
		return "", errRateLimited
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(password)); err != nil {
		return "", ErrUnauthorized
	}
	return a.generateToken(time.Now())
}

// ValidateToken accepts only unexpired admin tokens signed with our secret
func (a *Auth) ValidateToken(tokenStr string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject != adminSubject {
		return ErrUnauthorized
	}
	return nil
}

func (a *Auth) generateToken(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    jwtIssuer,
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}
