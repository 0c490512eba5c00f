package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/socialgate/internal/cache"
	"github.com/dropDatabas3/socialgate/internal/config"
	"github.com/dropDatabas3/socialgate/internal/email"
	ctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/social"
	mw "github.com/dropDatabas3/socialgate/internal/http/middlewares"
	"github.com/dropDatabas3/socialgate/internal/http/router"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/linker"
	"github.com/dropDatabas3/socialgate/internal/metrics"
	"github.com/dropDatabas3/socialgate/internal/oauth"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/provider"
	"github.com/dropDatabas3/socialgate/internal/rate"
	"github.com/dropDatabas3/socialgate/internal/security/resettoken"
	"github.com/dropDatabas3/socialgate/internal/session"
	"github.com/dropDatabas3/socialgate/internal/store/pg"
)

func main() {
	// .env es opcional; las env del sistema siguen valiendo.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:   "socialgate",
		Short: "Conector de login social (OAuth2) para cuentas de clientes",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path al config YAML")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	var migrateDir string
	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Aplica las migraciones SQL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = strings.ToLower(args[0])
			}
			return migrate(configPath, migrateDir, action)
		},
	}
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "migrations/postgres", "Directorio de migraciones")

	root.AddCommand(serveCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cache compartido (sesiones, estado anti-CSRF).
	cacheClient, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.MustDuration(cfg.Session.TTL, 12*time.Hour),
	})
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cacheClient.Close()

	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer store.Close()

	if err := metrics.Register(nil); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	registry := provider.New(cfg)
	sessions := session.NewStore(cacheClient, config.MustDuration(cfg.Session.TTL, 12*time.Hour))
	states := session.NewStateIssuer(cacheClient, config.MustDuration(cfg.State.TTL, 10*time.Minute))

	var notifier linker.Notifier
	if cfg.SMTP.Host != "" {
		sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		if cfg.SMTP.TLS != "" {
			sender.TLSMode = cfg.SMTP.TLS
		}
		sender.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		notifier = email.NewNotifier(sender, cfg.Server.BaseURL)
	} else {
		log.Warn("smtp not configured, welcome emails disabled")
	}

	resets := resettoken.NewIssuer(cfg.Reset.Secret, config.MustDuration(cfg.Reset.TTL, time.Hour))
	accounts := linker.New(store, notifier, resets)

	oauthClient := oauth.NewClient(nil)
	profiles := oauth.NewFetcher(nil)

	services := svc.Services{
		Connect: svc.NewConnectService(svc.ConnectDeps{
			Registry: registry,
			Sessions: sessions,
			States:   states,
		}),
		Callback: svc.NewCallbackService(svc.CallbackDeps{
			Registry: registry,
			Sessions: sessions,
			States:   states,
			Exchange: oauthClient,
			Profiles: profiles,
		}),
		Finalize: svc.NewFinalizeService(svc.FinalizeDeps{
			Sessions: sessions,
			Linker:   accounts,
		}),
	}

	cookies := mw.CookieOptions{
		Name:     cfg.Session.CookieName,
		Domain:   cfg.Session.Domain,
		Secure:   cfg.Session.Secure,
		SameSite: sameSite(cfg.Session.SameSite),
		MaxAge:   int(config.MustDuration(cfg.Session.TTL, 12*time.Hour).Seconds()),
	}

	controllers := ctrl.NewControllers(services, sessions, cookies, ctrl.Paths{
		Home:  cfg.Server.HomePath,
		Login: cfg.Server.LoginPath,
	})

	connectLimiter, callbackLimiter := buildLimiters(cfg)

	handler := router.New(router.Deps{
		Controllers:     controllers,
		Sessions:        sessions,
		Cookies:         cookies,
		ConnectLimiter:  connectLimiter,
		CallbackLimiter: callbackLimiter,
		Store:           store,
		Cache:           cacheClient,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // los intercambios OAuth toleran hasta 60s
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening",
			logger.String("addr", cfg.Server.Addr),
			logger.Any("providers", registry.Keys()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildLimiters arma los limiters de connect/callback. Sin Redis o con
// rate deshabilitado devuelve noops.
func buildLimiters(cfg *config.Config) (rate.Limiter, rate.Limiter) {
	if !cfg.Rate.Enabled || cfg.Cache.Kind != "redis" {
		return rate.NoopLimiter{}, rate.NoopLimiter{}
	}
	client := rdb.NewClient(&rdb.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	connect := rate.NewRedisLimiter(client, "rl:connect:", cfg.Rate.Connect.Limit,
		config.MustDuration(cfg.Rate.Connect.Window, time.Minute))
	callback := rate.NewRedisLimiter(client, "rl:callback:", cfg.Rate.Callback.Limit,
		config.MustDuration(cfg.Rate.Callback.Window, time.Minute))
	return connect, callback
}

func sameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func migrate(configPath, dir, action string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("pgxpool: %w", err)
	}
	defer pool.Close()

	var suffix string
	switch action {
	case "up":
		suffix = "_up.sql"
	case "down":
		suffix = "_down.sql"
	default:
		return fmt.Errorf("unknown action %q. Use: up | down", action)
	}

	files, err := listSQL(dir, suffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No *%s migrations found. Nothing to do.\n", suffix)
		return nil
	}
	sort.Strings(files)
	if action == "down" {
		reverseInPlace(files)
	}

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		start := time.Now()
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		fmt.Printf("OK %s (%s)\n", filepath.Base(f), time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}

func listSQL(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func reverseInPlace(ss []string) {
	for i, j := 0, len(ss)-1; i < j; i, j = i+1, j-1 {
		ss[i], ss[j] = ss[j], ss[i]
	}
}
