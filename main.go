package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"arena-server/game"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	if err := InitLogger(cfg.LogFile, cfg.Debug); err != nil {
		return err
	}
	defer SyncLogger()

	var (
		db        *DB
		analytics *Analytics
	)
	if cfg.DBPath != "" {
		if db, err = OpenDB(cfg.DBPath); err != nil {
			return err
		}
		defer db.Close()
		analytics = NewAnalytics(db)
	}

	auth, err := NewAuth(cfg, db)
	if err != nil {
		return err
	}
	if !auth.Enabled() {
		Log.Info("no admin password configured, admin API disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rooms := NewArenaManager(ctx, RoomOptions{
		Tuning:      game.DefaultTuning(),
		Seed:        cfg.Seed,
		MaxPlayers:  cfg.MaxPlayers,
		DefaultRoom: cfg.DefaultRoom,
	}, analytics)
	hub := NewHub(rooms, auth, analytics)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           SetupRoutes(hub, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		Log.Infow("server starting", "addr", cfg.Addr, "client", cfg.ClientDir, "room", cfg.DefaultRoom)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		Log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(sctx)
		// arenas stop with ctx; a listen failure cancels only gctx
		stop()
		rooms.Wait()
		if analytics != nil {
			analytics.Stop()
		}
		return err
	})
	return g.Wait()
}
