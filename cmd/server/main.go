package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/config"
	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/http/api"
	"github.com/Obed704/church-portal/internal/ingest"
	"github.com/Obed704/church-portal/internal/mirror"
	"github.com/Obed704/church-portal/internal/redis"
	"github.com/Obed704/church-portal/internal/reminder"
)

const cacheTTL = 60 * time.Second

func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	gin.SetMode(gin.ReleaseMode)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		log.Info().Str("address", cfg.RedisAddress).Msg("Using redis for list cache and delivery locks")
	}
	cache := redis.NewCache(redis.Rdb, cacheTTL)

	files, closeStorage := InitStorage(ctx, cfg)
	defer closeStorage()

	dispatcher, closeNotify := InitNotifiers(cfg)
	defer closeNotify()

	reminders := reminder.NewService(store, dispatcher, redis.NewLocker(redis.Rdb), reminder.Options{
		Lead:  cfg.ReminderLead,
		Grace: cfg.ReminderGrace,
	})
	if err := reminders.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("reminder scheduler")
	}

	var events *mirror.Mirror
	if cfg.FirestoreProject != "" {
		events, err = mirror.New(ctx, cfg.FirestoreProject, cfg.FirestoreCollection, store)
		if err != nil {
			log.Fatal().Err(err).Msg("firestore mirror")
		}
		defer events.Close()
		events.SyncAsync()
	}

	var calendar ingest.Source
	if cfg.IngestURL != "" {
		calendar = ingest.NewCalendarScraper(cfg.IngestURL)
	}

	api.SetupValidation()
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, Services{
		Config:    cfg,
		Store:     store,
		Cache:     cache,
		Files:     files,
		Reminders: reminders,
		Mirror:    events,
		Calendar:  calendar,
	})

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	reminders.Wait()
}
