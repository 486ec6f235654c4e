package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-booking/internal/artist"
	artistapi "ms-booking/internal/artist/api"
	artistdb "ms-booking/internal/artist/db"
	"ms-booking/internal/config"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/events"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/notification"
	notificationapi "ms-booking/internal/notification/api"
	"ms-booking/internal/show"
	showapi "ms-booking/internal/show/api"
	showdb "ms-booking/internal/show/db"
	"ms-booking/internal/venue"
	venueapi "ms-booking/internal/venue/api"
	venuedb "ms-booking/internal/venue/db"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	// --- PostgreSQL Setup ---
	sqldb, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("❌ Failed to open Postgres connection: %v", err))
	}
	defer sqldb.Close()

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("❌ Failed to connect to Postgres: %v", err))
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	// Run migrations
	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("❌ Migration failed: %v", err))
	}
	log.Info("DATABASE", "✅ Schema is up to date")

	// --- Redis Setup ---
	log.Info("REDIS", "🔗 Connecting to Redis...")
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable, flash notifications disabled: %v", err))
		redisClient = nil
	}
	flashes := notification.NewStore(redisClient, cfg.Redis.FlashTTL)

	// --- Kafka Setup ---
	var sink kafka.Sink
	switch {
	case !cfg.Kafka.Enabled || cfg.Kafka.MockMode:
		log.Info("KAFKA", "📦 Kafka disabled, using mock producer")
		sink = &kafka.MockProducer{Logger: log}
	default:
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.DirectoryTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic setup failed, using mock producer: %v", err))
			sink = &kafka.MockProducer{Logger: log}
		} else {
			sink = kafka.NewProducer(cfg.Kafka.Brokers, log)
		}
	}
	defer sink.Close()
	publisher := events.NewPublisher(sink)

	// --- Initialize Dependencies ---
	log.Info("BOOT", "📦 Initializing booking directory services...")
	venueService := venue.NewVenueService(&venuedb.DB{Bun: bunDB}, publisher, log)
	artistService := artist.NewArtistService(&artistdb.DB{Bun: bunDB}, publisher, log)
	showService := show.NewShowService(&showdb.DB{Bun: bunDB}, publisher, log)

	venueHandler := venueapi.NewHandler(venueService, flashes, log)
	artistHandler := artistapi.NewHandler(artistService, flashes, log)
	showHandler := showapi.NewHandler(showService, flashes, log)
	notificationHandler := notificationapi.NewHandler(flashes, log)

	// --- Setup Router ---
	r := chi.NewRouter()
	venueHandler.RegisterRoutes(r)
	artistHandler.RegisterRoutes(r)
	showHandler.RegisterRoutes(r)
	notificationHandler.RegisterRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("BOOT", "🚀 Booking directory running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("BOOT", fmt.Sprintf("❌ HTTP server error: %v", err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("BOOT", "📦 Shutdown signal received. Cleaning up...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("BOOT", fmt.Sprintf("❌ Server forced to shutdown: %v", err))
	}

	log.Info("BOOT", "✅ Server exited gracefully")
}
