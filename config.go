package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process configuration. Values come from .env, then ARENA_*
// environment variables, then command-line flags.
type Config struct {
	Addr              string
	ClientDir         string
	LogFile           string
	Debug             bool
	DBPath            string // empty disables analytics
	AdminPassword     string
	AdminPasswordHash string // bcrypt; wins over AdminPassword
	JWTSecret         string
	PublicURL         string
	Seed              int64
	MaxPlayers        int
	DefaultRoom       string
}

// LoadConfig builds the config for the given command-line arguments
// (without the program name). A missing .env file is not an error.
func LoadConfig(args []string) (Config, error) {
	envFile := os.Getenv("ARENA_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		Addr:              envString("ARENA_ADDR", ":8080"),
		ClientDir:         envString("ARENA_CLIENT_DIR", "client"),
		LogFile:           envString("ARENA_LOG_FILE", "arena.log"),
		DBPath:            envString("ARENA_DB", "arena.db"),
		AdminPassword:     os.Getenv("ARENA_ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ARENA_ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("ARENA_JWT_SECRET"),
		PublicURL:         os.Getenv("ARENA_PUBLIC_URL"),
		DefaultRoom:       envString("ARENA_DEFAULT_ROOM", "main"),
	}
	var err error
	if cfg.Debug, err = envBool("ARENA_DEBUG", false); err != nil {
		return Config{}, err
	}
	if cfg.Seed, err = envInt64("ARENA_SEED", 0); err != nil {
		return Config{}, err
	}
	maxPlayers, err := envInt64("ARENA_MAX_PLAYERS", 40)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxPlayers = int(maxPlayers)

	fl := flag.NewFlagSet("arena-server", flag.ContinueOnError)
	fl.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fl.StringVar(&cfg.ClientDir, "client", cfg.ClientDir, "path to the static client directory")
	fl.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file (rotated)")
	fl.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")
	fl.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite path for analytics, empty to disable")
	fl.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "externally reachable base URL for join links")
	fl.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed, 0 picks one from the clock")
	fl.IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "players per room")
	fl.StringVar(&cfg.DefaultRoom, "room", cfg.DefaultRoom, "room used when a client names none")
	if err := fl.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.MaxPlayers <= 0 {
		return Config{}, fmt.Errorf("max-players must be positive, got %d", cfg.MaxPlayers)
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
