package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/event-registration/internal/certificate"
	"github.com/Shivanand-hulikatti/event-registration/internal/config"
	"github.com/Shivanand-hulikatti/event-registration/internal/database"
	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
	"github.com/Shivanand-hulikatti/event-registration/internal/handler"
	"github.com/Shivanand-hulikatti/event-registration/internal/kv"
	"github.com/Shivanand-hulikatti/event-registration/internal/metrics"
	"github.com/Shivanand-hulikatti/event-registration/internal/notify"
	"github.com/Shivanand-hulikatti/event-registration/internal/repository"
	"github.com/Shivanand-hulikatti/event-registration/internal/service"
	"github.com/Shivanand-hulikatti/event-registration/internal/session"
	"github.com/Shivanand-hulikatti/event-registration/internal/submission"
	"github.com/Shivanand-hulikatti/event-registration/internal/tracing"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// participantStore is what the server needs from the participant backend.
type participantStore interface {
	submission.ParticipantStore
	service.ParticipantLister
	service.FeedbackStore
}

type pgStore struct {
	*repository.ParticipantRepository
	*repository.FeedbackRepository
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// ── 1. Tracing ───────────────────────────────────────────────────────
	tp, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// ── 2. Participant store ─────────────────────────────────────────────
	var store participantStore
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("using in-memory participant store; registrations are lost on restart")
		store = repository.NewMemoryStore()
	default:
		pgCfg := cfg.Database.Postgres()
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(pgCfg); err != nil {
				return fmt.Errorf("database: %w", err)
			}
		}
		pool, err := database.NewPool(ctx, pgCfg, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()
		log.Info("connected to PostgreSQL", "host", pgCfg.Host, "db", pgCfg.DBName)
		store = pgStore{
			ParticipantRepository: repository.NewParticipantRepository(pool, cfg.Database.QueryTimeout),
			FeedbackRepository:    repository.NewFeedbackRepository(pool),
		}
	}

	// ── 3. Draft persistence ─────────────────────────────────────────────
	drafts, closeDrafts, err := openDrafts(ctx, cfg.Drafts)
	if err != nil {
		return fmt.Errorf("drafts: %w", err)
	}
	defer closeDrafts()
	log.Info("draft store ready", "backend", cfg.Drafts.Backend)

	// ── 4. Confirmation transport ────────────────────────────────────────
	var sender submission.ConfirmationSender = notify.LogSender{Logger: log}
	if len(cfg.Confirmations.Brokers) > 0 {
		ks, err := notify.NewKafkaSender(cfg.Confirmations.Brokers, cfg.Confirmations.Topic)
		if err != nil {
			return fmt.Errorf("confirmations: %w", err)
		}
		defer ks.Close()
		sender = ks
	}

	// ── 5. Gate, metrics, sessions ───────────────────────────────────────
	g, err := cfg.Gate.Build()
	if err != nil {
		return err
	}
	monitor := gate.NewMonitor(g, gate.WithPollInterval(cfg.Gate.PollInterval), gate.WithLogger(log))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessions, err := session.NewManager(drafts, store,
		session.WithGate(monitor),
		session.WithSender(sender),
		session.WithMetrics(metrics.New(reg)),
		session.WithLogger(log),
		session.WithNamespace(cfg.Drafts.Namespace),
		session.WithIdleTimeout(cfg.Sessions.IdleTimeout),
	)
	if err != nil {
		return err
	}

	// ── 6. HTTP ──────────────────────────────────────────────────────────
	h, err := handler.New(sessions,
		service.NewSiteService(store, store),
		certificate.NewStore(cfg.Certificates.Dir),
		monitor,
		handler.WithLogger(log),
	)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler.NewRouter(h, handler.RouterConfig{
			WebDir:        cfg.Server.WebDir,
			AllowedOrigin: cfg.Server.AllowedOrigin,
			Gatherer:      reg,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// ── 7. Run until signalled, then drain ───────────────────────────────
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		if err := monitor.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "gate_open", monitor.Open())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return drain(shutdownCtx, sessions, log)
	})

	err = grp.Wait()
	log.Info("server stopped")
	return err
}

// drain waits for in-flight reconciliations so none is cut off mid-write.
func drain(ctx context.Context, sessions *session.Manager, log *slog.Logger) error {
	done := make(chan struct{})
	go func() {
		sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Warn("abandoning in-flight reconciliations")
		return ctx.Err()
	}
}

func openDrafts(ctx context.Context, cfg config.DraftsConfig) (kv.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		client, err := kv.NewRedisClient(ctx, kv.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedis(client, cfg.TTL), func() { _ = client.Close() }, nil
	case "sqlite":
		db, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return kv.NewMemory(cfg.TTL), func() {}, nil
	}
}
