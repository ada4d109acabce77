package router

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"patient-access-portal/internal/adapters/auth/jwtauth"
	"patient-access-portal/internal/adapters/notify/logsender"
	"patient-access-portal/internal/adapters/notify/sms"
	"patient-access-portal/internal/adapters/notify/webhook"
	mem "patient-access-portal/internal/adapters/storage/memory"
	pg "patient-access-portal/internal/adapters/storage/postgres"
	"patient-access-portal/internal/config"
	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/accesslog"
	"patient-access-portal/internal/domain/directory"
	"patient-access-portal/internal/domain/policy"
	"patient-access-portal/internal/domain/records"
	"patient-access-portal/internal/domain/session"
	"patient-access-portal/internal/middleware"
	"patient-access-portal/internal/platform/metrics"
	"patient-access-portal/internal/ports/notify"

	_ "patient-access-portal/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Options struct {
	Config *config.Config
	Logger *zap.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory con datos demo.
	DB *sql.DB
	// Opcional: sesiones en Redis. Si no, in-memory.
	Sessions session.Persistence
	// Opcional: reemplaza el sender armado desde config (tests).
	Sender  notify.Sender
	Metrics *metrics.Collector
}

func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	mx := opts.Metrics
	if mx == nil {
		mx = metrics.New()
	}

	var (
		dirRepo    directory.Repository
		grantsRepo accessgrants.Repository
		logRepo    accesslog.Repository
		recRepo    records.Repository
	)
	if opts.DB != nil {
		dirRepo = pg.NewDirectoryRepo(opts.DB)
		grantsRepo = pg.NewAccessGrantsRepo(opts.DB)
		logRepo = pg.NewAccessLogRepo(opts.DB)
		recRepo = pg.NewRecordsRepo(opts.DB)
	} else {
		dirRepo = mem.NewDirectoryRepo()
		grantsRepo = mem.NewAccessGrantsRepo()
		logRepo = mem.NewAccessLogRepo()
		recRepo = mem.NewRecordsRepo()
	}

	sessions := opts.Sessions
	if sessions == nil {
		sessions = mem.NewSessionStore()
	}

	if cfg.Seed.Enabled {
		if err := seed(ctx, cfg, opts.DB == nil, dirRepo, logRepo, recRepo); err != nil {
			return nil, err
		}
		log.Info("demo data loaded", zap.Bool("memory", opts.DB == nil))
	}

	sender := opts.Sender
	if sender == nil {
		s, err := newSender(cfg.SMS, log)
		if err != nil {
			return nil, err
		}
		sender = s
	}

	tokens, err := newTokenManager(cfg, sessions, log)
	if err != nil {
		return nil, err
	}

	// Services por módulo
	dirSvc := directory.NewService(dirRepo, log)

	grantOpts := accessgrants.Options{
		CodeTTL:     cfg.Access.CodeTTL,
		MaxAttempts: cfg.Access.MaxAttempts,
		Observer:    mx,
		Logger:      log,
	}
	if cfg.Access.DevCode != "" {
		grantOpts.Generator = accessgrants.FixedCode(cfg.Access.DevCode)
		log.Warn("fixed verification code enabled (development only)")
	}
	grantsSvc := accessgrants.NewService(grantsRepo, dirSvc, sender, grantOpts)
	evaluator := policy.NewEvaluator(grantsSvc, mx)
	logSvc := accesslog.NewService(logRepo)
	recSvc := records.NewService(recRepo)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(mx.HTTPMiddleware)
	r.Use(middleware.AuthContext(tokens, cfg.Auth.DebugHeaders))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", mx.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	session.RegisterRoutes(r, session.Deps{
		Accounts: dirSvc,
		Issuer:   tokens,
		Persist:  sessions,
		Logger:   log,
	})
	directory.RegisterRoutes(r, dirSvc, evaluator, logSvc)
	accessgrants.RegisterRoutes(r, grantsSvc, dirSvc)
	records.RegisterRoutes(r, records.Deps{
		Records:   recSvc,
		Access:    evaluator,
		Directory: dirSvc,
		Log:       logSvc,
		Logger:    log,
	})
	accesslog.RegisterRoutes(r, logSvc)

	return r, nil
}

// seed: el directorio es idempotente; historial y registros solo en memoria.
func seed(ctx context.Context, cfg *config.Config, memory bool, dir directory.Repository, logs accesslog.Repository, recs records.Repository) error {
	if err := directory.Seed(ctx, dir, directory.SeedOptions{Password: cfg.Seed.Password}); err != nil {
		return err
	}
	if !memory {
		return nil
	}
	if err := accesslog.Seed(ctx, logs); err != nil {
		return err
	}
	return records.Seed(ctx, recs)
}

func newSender(cfg config.SMSConfig, log *zap.Logger) (notify.Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "log":
		return logsender.New(log), nil
	case "smsir":
		s, err := sms.New(sms.Config{
			APIKey:     cfg.APIKey,
			SecretKey:  cfg.SecretKey,
			TemplateID: cfg.TemplateID,
			Region:     cfg.DefaultRegion,
		}, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "webhook":
		s, err := webhook.New(webhook.Config{URL: cfg.WebhookURL, Timeout: cfg.Timeout}, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("sms provider %q not supported", cfg.Provider)
	}
}

// newTokenManager: sin secreto en desarrollo se genera uno efímero
// (los tokens no sobreviven un reinicio).
func newTokenManager(cfg *config.Config, sessions session.Persistence, log *zap.Logger) (*jwtauth.Manager, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("auth.jwt_secret is required")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Warn("auth.jwt_secret not set; using an ephemeral secret")
	}

	return jwtauth.New(jwtauth.Config{
		Secret: secret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TokenTTL,
		Sessions: jwtauth.SessionCheckerFunc(func(ctx context.Context, sid, token string) (bool, error) {
			return session.Active(ctx, sessions, sid, token)
		}),
	})
}
