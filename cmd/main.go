// recruitdesk crm-service
//
// Core CRM for a recruiting agency. Exposes a REST API used by the web
// front-end to manage:
//   - clients, contacts, applicants, missions, callbacks (CRUD + filters)
//   - mission/applicant assignments
//   - polymorphic notes on any entity
//   - federated search across all five entity kinds
//   - applicant documents (CV + one extra file) in a blob store
//
// Publishes EVENT_ENTITY_CHANGED on every mutation and EVENT_CALLBACK_DUE
// from the periodic reminder sweep, both on Redis pub/sub when configured.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruitdesk/crm-service/internal/blob"
	"recruitdesk/crm-service/internal/config"
	"recruitdesk/crm-service/internal/crm"
	"recruitdesk/crm-service/internal/db"
	"recruitdesk/crm-service/internal/events"
	"recruitdesk/crm-service/internal/scheduler"
	pgstore "recruitdesk/crm-service/internal/store/postgres"
	sqlitestore "recruitdesk/crm-service/internal/store/sqlite"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[crm-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Store ────────────────────────────────────────────────────────────────
	var store crm.Store
	switch {
	case cfg.DatabaseURL != "":
		log.Println("[crm-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[crm-service] PostgreSQL: %v", err)
		}
		defer pool.Close()
		st := pgstore.New(pool)
		if err := st.Migrate(ctx); err != nil {
			log.Fatalf("[crm-service] Migrate: %v", err)
		}
		store = st
		log.Println("[crm-service] PostgreSQL connected ✓")
	default:
		log.Printf("[crm-service] Opening SQLite at %s…", cfg.SQLitePath)
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("[crm-service] SQLite: %v", err)
		}
		defer sqlDB.Close()
		st := sqlitestore.New(sqlDB)
		if err := st.Migrate(ctx); err != nil {
			log.Fatalf("[crm-service] Migrate: %v", err)
		}
		store = st
		log.Println("[crm-service] SQLite ready ✓")
	}

	// ── Redis (optional) ─────────────────────────────────────────────────────
	var pub events.Publisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		log.Println("[crm-service] Connecting to Redis…")
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[crm-service] Redis: %v", err)
		}
		defer rdb.Close()
		pub = events.NewRedisPublisher(rdb)
		log.Println("[crm-service] Redis connected ✓")
	} else {
		log.Println("[crm-service] REDIS_URL not set, event publishing disabled")
	}

	// ── Document store ───────────────────────────────────────────────────────
	docs, err := blob.OpenStore(ctx, blob.Driver(cfg.BlobDriver), cfg.UploadDir, blob.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		log.Fatalf("[crm-service] Document store: %v", err)
	}
	log.Printf("[crm-service] Document store ready (driver: %s)", docs.Driver())

	// ── Service + HTTP server ────────────────────────────────────────────────
	svc := crm.NewService(store, docs, pub)

	mux := http.NewServeMux()
	h := crm.NewHandler(svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// ── Reminder sweep ───────────────────────────────────────────────────────
	sched := scheduler.New(svc, pub, cfg.ReminderIntervalMinutes)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[crm-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	go func() {
		log.Printf("[crm-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[crm-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[crm-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[crm-service] Shutdown error: %v", err)
	}
	log.Println("[crm-service] Stopped.")
}
