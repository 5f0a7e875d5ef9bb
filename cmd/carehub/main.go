package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"carehub/internal/api"
	"carehub/internal/carehub"
	"carehub/internal/carehub/adapter/badgerstore"
	"carehub/internal/carehub/adapter/inmem"
	"carehub/internal/carehub/adapter/mail"
	"carehub/internal/carehub/adapter/token"
	"carehub/internal/domain"
	"carehub/internal/platform/config"
	"carehub/internal/platform/server"
	"carehub/internal/platform/telemetry"
)

func main() {
	// Optional local .env; missing file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// Logging
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	shutdown, err := telemetry.Setup(context.Background(), "carehub")
	if err != nil {
		slog.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		slog.Error("metrics initialization failed", "error", err)
		os.Exit(1)
	}

	// Storage
	var (
		accounts carehub.AccountStore
		profiles carehub.ProfileStore
	)
	if cfg.DataDir != "" {
		db, err := badgerstore.Open(cfg.DataDir)
		if err != nil {
			slog.Error("opening store", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		defer db.Close()
		accounts = badgerstore.NewStore(db)
		profiles = badgerstore.NewProfileStore(db)
		slog.Info("using badger store", "dir", cfg.DataDir)
	} else {
		accounts = inmem.NewStore()
		profiles = inmem.NewProfileStore()
		slog.Warn("no CAREHUB_DATA_DIR set, using in-memory store")
	}

	// Mail
	var mailer carehub.Mailer
	if cfg.SMTP.Host != "" {
		addr := net.JoinHostPort(cfg.SMTP.Host, strconv.Itoa(cfg.SMTP.Port))
		mailer = mail.NewSMTPMailer(addr, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass)
	} else {
		mailer = mail.NewLogMailer(logger)
		slog.Warn("no SMTP host configured, logging outbound mail")
	}

	// Rate limiters
	globalLimiter := inmem.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst, time.Now)
	loginLimiter := inmem.NewRateLimiter(cfg.LoginLimit.Rate, cfg.LoginLimit.Burst, time.Now)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				globalLimiter.Cleanup()
				loginLimiter.Cleanup()
			}
		}
	}()

	codec := token.NewHMAC([]byte(cfg.JWTSecret), cfg.TokenTTL, time.Now)

	if err := bootstrapAdmin(ctx, accounts, cfg); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(api.Config{
		Accounts:     accounts,
		Profiles:     profiles,
		Tokens:       codec,
		Mailer:       mailer,
		Throttle:     loginLimiter,
		Metrics:      metrics,
		Logger:       logger,
		ResetBaseURL: cfg.ResetBaseURL,
		ResetTTL:     cfg.ResetTTL,
	})

	router := api.NewRouter(api.RouterConfig{
		Handler:       handler,
		Verifier:      codec,
		Accounts:      accounts,
		Metrics:       metrics,
		Logger:        logger,
		GlobalLimiter: globalLimiter,
		LoginLimiter:  loginLimiter,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	})

	srv := server.New(cfg.Addr, router)

	slog.Info("carehub starting", "addr", cfg.Addr, "token_ttl", cfg.TokenTTL)

	if err := srv.Run(ctx); err != nil {
		slog.Error("server error", "error", err)
	}

	if err := shutdown(context.Background()); err != nil {
		slog.Error("telemetry shutdown error", "error", err)
	}
}

// bootstrapAdmin seeds the first admin account on an empty store so a fresh
// deployment is reachable. No-op when accounts already exist or the
// bootstrap credentials are unset.
func bootstrapAdmin(ctx context.Context, accounts carehub.AccountStore, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	count, err := accounts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := accounts.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := domain.Account{
		ID:           "admin-" + now.Format("20060102150405"),
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		FirstName:    "CareHub",
		LastName:     "Admin",
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := accounts.Save(ctx, admin); err != nil {
		return err
	}
	slog.Info("bootstrapped admin account", "email", cfg.AdminEmail)
	return nil
}
