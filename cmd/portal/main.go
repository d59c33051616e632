// @title        Girumdom Caretaker Portal
// @version      1.0
// @description  Portal for caretakers and family members of Girumdom seniors.
// @BasePath     /
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

	"github.com/common-nighthawk/go-figure"

	"github.com/girumdom/caretaker-portal/internal/api"
	"github.com/girumdom/caretaker-portal/internal/api/handler"
	"github.com/girumdom/caretaker-portal/internal/api/middleware"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
	"github.com/girumdom/caretaker-portal/internal/core/service"
	"github.com/girumdom/caretaker-portal/internal/infrastructure/backend"
	boltstore "github.com/girumdom/caretaker-portal/internal/infrastructure/db/bolt"
	mongostore "github.com/girumdom/caretaker-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/girumdom/caretaker-portal/internal/infrastructure/db/redis"
	"github.com/girumdom/caretaker-portal/internal/infrastructure/queue"
	"github.com/girumdom/caretaker-portal/internal/infrastructure/storage"
	"github.com/girumdom/caretaker-portal/internal/infrastructure/token"
	"github.com/girumdom/caretaker-portal/internal/pkg/config"
	"github.com/girumdom/caretaker-portal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("portal stopped with error")
	}
}

func run() error {
	cfg := config.Load()
	displayAppName(cfg.AppName)

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "caretaker-portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("reminder time zone: %w", err)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()
	log.Info().Str("backend", cfg.Session.Backend).Msg("session storage ready")

	client := backend.NewClient(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, logger.For("backend"))
	tts := backend.NewSynthesizer(backend.TTSConfig{URL: cfg.TTS.URL, Timeout: cfg.TTS.Timeout}, logger.For("tts"))

	// --- Narration workers ---
	narration := service.NewNarrationService(tts, client, store.dedup, logger.For("narration"))
	dispatcher := queue.NewDispatcher(cfg.Narration.Workers, narration, logger.For("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Workspaces ---
	invOpts := service.InvitationOptions{PollInterval: cfg.Invitations.PollInterval, LockTTL: cfg.Invitations.LockTTL}
	if cfg.Invitations.SharedLock {
		invOpts.Lock = store.lock
	}
	registry := service.NewWorkspaceRegistry(ctx, service.WorkspaceDeps{
		Backend: client,
		Decoder: token.NewJWTDecoder(),
		Storage: func(id string) ports.SessionStorage {
			return storage.Namespace(store.base, id)
		},
		Paths:       service.GuardPaths{Login: cfg.LandingPath, Home: "/dashboard"},
		Invitations: invOpts,
		Log:         logger.For("workspace"),
	}, cfg.Session.IdleTTL, cfg.Session.RestoreTimeout)

	janitor, err := service.NewJanitor(registry, cfg.Session.SweepInterval, logger.For("janitor"))
	if err != nil {
		return err
	}
	janitor.Start()

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		AppName:    cfg.AppName,
		Workspaces: registry,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.CookieMaxAge,
		},
		GuardWait: cfg.Session.GuardWait,
		Auth:      service.NewAuthService(client, logger.For("auth")),
		Portal:    service.NewPortalService(client, client, logger.For("portal")),
		Memories:  service.NewMemoryService(client, dispatcher, logger.For("memories")),
		Reminders: service.NewReminderService(client, loc, logger.For("reminders")),
		Checks: map[string]handler.Checker{
			"session_storage": store.ping,
			"backend":         client.Ping,
		},
		Log: log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	janitor.Stop(shutdownCtx)
	registry.CloseAll()
	stopWorkers()
	dispatcher.Wait()

	log.Info().Msg("portal stopped")
	return nil
}

// sessionBackend is the storage selected by SESSION_BACKEND together with the
// extras only some backends provide.
type sessionBackend struct {
	base  ports.SessionStorage
	lock  ports.ActionLock
	dedup service.NarrationDedup
	ping  handler.Checker
	close func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*sessionBackend, error) {
	ttl := cfg.Session.CookieMaxAge

	switch cfg.Session.Backend {
	case config.StorageRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &sessionBackend{
			base:  redisstore.NewSessionStorage(rdb, ttl),
			lock:  redisstore.NewActionLock(rdb),
			dedup: redisstore.NewNarrationDedup(rdb),
			ping:  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			close: func() { _ = rdb.Close() },
		}, nil

	case config.StorageMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  cfg.AppName,
		})
		if err != nil {
			return nil, err
		}
		s := mongostore.NewSessionStorage(db, ttl)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &sessionBackend{
			base:  s,
			ping:  func(ctx context.Context) error { return mongostore.Ping(ctx, db) },
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		s, err := boltstore.Open(cfg.Bolt.Path, "")
		if err != nil {
			return nil, err
		}
		return &sessionBackend{
			base:  s,
			ping:  s.Ping,
			close: func() { _ = s.Close() },
		}, nil
	}
}

func displayAppName(name string) {
	figure.NewFigure(name, "cybermedium", true).Print()
	fmt.Println()
}
