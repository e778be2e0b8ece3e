package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/config"
	"taskmanager/handlers"
	"taskmanager/store"
	"taskmanager/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Println("environment:", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	if len(cfg.SeedCategories) > 0 {
		added, err := store.SeedCategories(ctx, st, cfg.SeedCategories)
		if err != nil {
			log.Fatalf("Failed to seed categories: %v", err)
		}
		log.Printf("Seeded %d categories", added)
	}

	app, err := handlers.New(st, utils.NewSessionManager(cfg.SecretKey, cfg.Production()))
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on %s (%s store)", srv.Addr, cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server failed: %v", err)
		return
	}
	log.Println("Server stopped")
}

// openStore connects the configured backend and returns a func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := utils.OpenDB(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, nil, err
		}
		st := store.NewPostgresStore(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return st, pool.Close, nil

	case config.BackendRedis:
		client, err := utils.OpenRedisPool(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Printf("Closing redis: %v", err)
			}
		}
		return store.NewRedisStore(client), closeClient, nil

	case config.BackendMemory:
		log.Println("Using in-memory store, data is lost on exit")
		return store.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
