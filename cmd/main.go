// hanapbuhay marketplace-service
//
// Applied-jobs pipeline for the local job marketplace: workers browse and
// filter the jobs they applied to, apply to posts, withdraw applications;
// clients review and approve/reject applicants.
//
// Publishes EVENT_APPLICATION_CREATED / EVENT_APPLICATION_APPROVED to Redis
// for the gateway to forward as user notifications.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/applied"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/config"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/db"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/maintenance"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/notify"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[marketplace] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[marketplace] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[marketplace] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[marketplace] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[marketplace] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[marketplace] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[marketplace] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	svc := applied.NewService(
		store.NewPGApplicationStore(pool),
		store.NewPGPostStore(pool),
		store.NewPGProfileStore(pool),
		store.NewPGReviewStore(pool),
		notify.New(rdb),
	)

	// ── Maintenance cron ─────────────────────────────────────────────────────
	sweeper := maintenance.New(pool, cfg.SweepIntervalHours)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("[marketplace] Sweeper: %v", err)
	}
	defer sweeper.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := applied.NewHandler(svc, cfg.PageSize)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[marketplace] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[marketplace] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[marketplace] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[marketplace] Shutdown error: %v", err)
	}
	log.Println("[marketplace] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "marketplace-service",
		"version": version,
	})
}
