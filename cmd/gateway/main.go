package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/storeville/buyer-gateway/internal/backend"
	"github.com/storeville/buyer-gateway/internal/checkout"
	"github.com/storeville/buyer-gateway/internal/config"
	"github.com/storeville/buyer-gateway/internal/events"
	"github.com/storeville/buyer-gateway/internal/httpx"
	"github.com/storeville/buyer-gateway/internal/postgres"
	"github.com/storeville/buyer-gateway/internal/redisx"
	"github.com/storeville/buyer-gateway/internal/session"
	"github.com/storeville/buyer-gateway/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis: snapshot backend default + store profile cache
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Snapshot store per config
	var snaps snapshot.Store
	switch cfg.SnapshotBackend {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := snapshot.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("db schema: %v", err)
		}
		snaps = snapshot.NewPostgres(db)
	case "memory":
		snaps = snapshot.NewMemory()
	default:
		snaps = snapshot.NewRedis(rdb)
	}

	// Async snapshot writer
	writer := snapshot.NewWriter(snaps, 1024)
	writer.Start(ctx)

	// Order events (optional)
	var publisher checkout.Publisher
	var prod *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = events.NewProducer(cfg.KafkaBrokers, cfg.ServiceName, 1024)
		prod.Start(ctx)
		publisher = prod
	}

	// Backend client, sessions, handler
	api := backend.New(cfg.BackendBaseURL, rdb)
	reg := session.NewRegistry(snaps, writer, api, publisher)
	router := httpx.NewRouter()
	h := &httpx.Handler{Sessions: reg, Backend: api}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	writer.Close() // flush sisa snapshot
	writer.WaitClosed()
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
	cancel()
}
