package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	pg "patient-access-portal/internal/adapters/storage/postgres"
	redisstore "patient-access-portal/internal/adapters/storage/redis"
	"patient-access-portal/internal/domain/session"
	"patient-access-portal/internal/router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var db *sql.DB
			if cfg.Database.DSN != "" {
				db, err = pg.Open(ctx, cfg.Database.DSN, pg.Options{
					MaxOpenConns:    cfg.Database.MaxOpenConns,
					MaxIdleConns:    cfg.Database.MaxIdleConns,
					ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
				})
				if err != nil {
					return err
				}
				defer db.Close()

				if migrate {
					if err := pg.Migrate(ctx, db); err != nil {
						return err
					}
				}
				log.Info("using postgres storage")
			} else {
				log.Info("using in-memory storage")
			}

			var sessions session.Persistence
			if cfg.Redis.Addr != "" {
				rdb, err := redisstore.Open(ctx, redisstore.Config{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				if err != nil {
					return err
				}
				defer rdb.Close()
				sessions = redisstore.NewSessionStore(rdb, cfg.Redis.SessionTTL)
				log.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
			}

			h, err := router.NewRouter(ctx, router.Options{
				Config:   cfg,
				Logger:   log,
				DB:       db,
				Sessions: sessions,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      h,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply the database schema on start (postgres only)")
	return cmd
}
