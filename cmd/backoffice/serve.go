package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginternational/backoffice/internal/api"
	"github.com/ginternational/backoffice/internal/config"
	"github.com/ginternational/backoffice/internal/db"
	"github.com/ginternational/backoffice/internal/dbpool"
	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/models"
	"github.com/ginternational/backoffice/internal/service"
	"github.com/ginternational/backoffice/internal/store"
	"github.com/ginternational/backoffice/internal/store/memory"
)

const shutdownTimeout = 15 * time.Second

// seedAdmin describes an administrator created at startup when missing.
type seedAdmin struct {
	name     string
	email    string
	password string
}

func newServeCmd() *cobra.Command {
	var seed seedAdmin

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log, seed)
		},
	}

	cmd.Flags().StringVar(&seed.name, "seed-admin-name", "Administrator", "name of the seeded administrator")
	cmd.Flags().StringVar(&seed.email, "seed-admin-email", "", "create this administrator at startup if absent")
	cmd.Flags().StringVar(&seed.password, "seed-admin-password", "", "password for the seeded administrator")

	return cmd
}

// stores is the persistence selected by STORE_DRIVER.
type stores struct {
	audit service.AuditStore
	users service.UserStore
	probe api.DatabaseProbe
	close func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("using the in-memory store; all data is lost on exit")
		mem := memory.New()

		return &stores{audit: mem, users: mem, close: func() {}}, nil
	}

	if err := db.RunMigrations(ctx, cfg.DatabaseURL.Value(), log, nil); err != nil {
		return nil, err
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), int32(cfg.DBMaxConns)) //nolint:gosec // bounded by config validation.
	if err != nil {
		return nil, err
	}

	base := store.Base{Pool: pool, Log: log}

	return &stores{
		audit: store.NewAuditStore(base),
		users: store.NewUserStore(base),
		probe: pool,
		close: pool.Close,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger, seed seedAdmin) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.close()

	audit := service.NewAuditService(st.audit, log)

	// The worker outlives the HTTP servers so queued entries drain after the
	// last request; it is stopped explicitly once they have shut down.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	var (
		sink   domain.AuditSink = service.NewSyncAuditSink(audit)
		worker *service.AuditWorker
	)
	if cfg.AuditMode == config.AuditAsync {
		worker = service.NewAuditWorker(audit, log, cfg.AuditQueueSize)
		sink = worker
	}

	users := service.NewUserService(st.users, sink, log)

	g, gctx := errgroup.WithContext(ctx)

	if worker != nil {
		g.Go(func() error {
			worker.Run(workerCtx)
			return nil
		})
	}

	if seed.email != "" {
		if err := seedAdministrator(gctx, users, seed, log); err != nil {
			stopWorker()
			_ = g.Wait()

			return err
		}
	}

	router := api.NewRouter(gctx, &api.RouterDeps{
		Log:         log,
		DB:          st.probe,
		Audit:       audit,
		Users:       users,
		Principals:  users,
		JWTSecret:   []byte(cfg.JWTSecret.Value()),
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		AuditMode:   cfg.AuditMode,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error { return listen(srv, log, "api") })
	g.Go(func() error { return listen(metricsSrv, log, "metrics") })

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		err := errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
		stopWorker()

		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("stopped")

	return nil
}

func listen(srv *http.Server, log *logrus.Logger, name string) error {
	log.WithFields(logrus.Fields{"addr": srv.Addr, "listener": name}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listener: %w", name, err)
	}

	return nil
}

// seedAdministrator creates the bootstrap account as a system action. An
// existing account with the same e-mail is left untouched.
func seedAdministrator(ctx context.Context, users *service.UserService, seed seedAdmin, log *logrus.Logger) error {
	if len(seed.password) < 8 {
		return fmt.Errorf("--seed-admin-password must be at least 8 characters")
	}

	role := models.RoleAdmin

	u, err := users.CreateUser(ctx, nil, models.CreateUserRequest{
		Name:     seed.name,
		Email:    seed.email,
		Password: seed.password,
		Role:     &role,
	})
	if errors.Is(err, models.ErrDuplicateKey) {
		log.WithField("email", seed.email).Info("seed administrator already exists")
		return nil
	}

	if err != nil {
		return fmt.Errorf("seeding administrator: %w", err)
	}

	log.WithFields(logrus.Fields{"user_id": u.ID, "admin_id": u.AdminID}).Info("seeded administrator")

	return nil
}
