// cmd/web/main.go
//
// Storefront platform – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (conf/global.yaml → conf/.env → STOREFRONT_* env).
//
//  2. Start the daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve vault: secret references when Vault is enabled.
//
//  4. Open the GeoLite2 reader, then the MySQL pool, then apply component
//     migrations when database.migrate is set.
//
//  5. Build the services: merchant and social repositories, slug allocator,
//     registration, activity log, storefront cache, and sessions.
//
//  6. Build the router:
//
//     • request id, access log, request info, security headers, session
//     • storefront host lookup   – tenant.Middleware
//     • storefront page          – “/” on a storefront host
//     • /metrics                 – Prometheus
//     • components               – /auth, /dashboard, /public
//
//  7. Wrap with ForceHTTPS when configured, serve, and shut down gracefully
//     on SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/storefront/components/public"
	"github.com/yanizio/storefront/internal/activity"
	"github.com/yanizio/storefront/internal/component"
	"github.com/yanizio/storefront/internal/config"
	"github.com/yanizio/storefront/internal/database"
	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/middleware"
	"github.com/yanizio/storefront/internal/registration"
	"github.com/yanizio/storefront/internal/requestinfo"
	"github.com/yanizio/storefront/internal/server"
	"github.com/yanizio/storefront/internal/session"
	"github.com/yanizio/storefront/internal/slug"
	"github.com/yanizio/storefront/internal/social"
	"github.com/yanizio/storefront/internal/tenant"
	"github.com/yanizio/storefront/internal/vault"

	_ "github.com/yanizio/storefront/components/auth"
	_ "github.com/yanizio/storefront/components/dashboard"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(logger.Options{
		Root:  cfg.Paths.Root,
		Dir:   cfg.Log.Dir,
		Level: cfg.Log.Level,
		Tee:   runningInTTY(),
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logOut.Fatalw("storefront stopped", "err", err)
	}
	logOut.Info("storefront stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config) error {
	//
	// ── 1.  Secrets ─────────────────────────────────────────────────────
	//
	if cfg.Vault.Enabled {
		vc, err := vault.New(ctx, cfg.Vault.CacheTTL)
		if err != nil {
			return err
		}
		if err := config.ResolveSecrets(ctx, cfg, vc); err != nil {
			return err
		}
	}

	//
	// ── 2.  GeoIP and database ──────────────────────────────────────────
	//
	if err := requestinfo.OpenGeo(cfg.Geo.DBPath); err != nil {
		zap.L().Warn("geoip disabled", zap.Error(err))
	}
	defer requestinfo.CloseGeo()

	db, err := database.OpenWithOptions(ctx, cfg.Database.BuildDSN(), database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Retries:         3,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db, component.Migrations()); err != nil {
			return err
		}
	}

	var active int
	_ = db.GetContext(ctx, &active, `SELECT COUNT(*) FROM merchant WHERE status = 'active'`)
	zap.L().Info("database online", zap.Int("active_merchants", active))

	//
	// ── 3.  Services ────────────────────────────────────────────────────
	//
	merchants := merchant.NewRepository(db)
	links := social.NewRepository(db)
	alloc := slug.NewAllocator(merchants, cfg.Storefront.FallbackSlug, cfg.Storefront.MaxProbes,
		slug.WithMaxLength(merchant.MaxSubdomainLength))

	cache := tenant.New(tenant.StoreLoader{Merchants: merchants, Links: links}, tenant.Options{
		IdleTTL:    cfg.Storefront.CacheIdleTTL,
		MaxEntries: cfg.Storefront.CacheMaxEntries,
	})
	defer cache.Close()

	sessions := session.New(session.Options{
		CookieName: cfg.Session.CookieName,
		Secret:     []byte(cfg.Session.Secret),
		MaxAge:     cfg.Session.MaxAge,
		Secure:     cfg.Session.Secure,
	})

	deps := component.Deps{
		DB:          db,
		Config:      cfg,
		Sessions:    sessions,
		Storefronts: cache,
		Merchants:   merchants,
		Links:       links,
		Activity:    activity.NewRecorder(db),
		Allocator:   alloc,
		Registration: registration.NewService(merchants, alloc,
			registration.WithSuggestions(cfg.Storefront.SuggestionCount)),
	}

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	res := tenant.Resolver{
		BaseDomain:     cfg.Storefront.BaseDomain,
		LocalhostAlias: cfg.Storefront.LocalhostAlias,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(logger.Middleware)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.Security(cfg.HTTP.ForceHTTPS))
	r.Use(sessions.Middleware)
	r.Use(tenant.Middleware(cache, res))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if tenant.FromContext(req.Context()) != nil {
			public.Default.ServeStorefront(w, req)
			return
		}
		component.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	if err := component.Mount(r, deps); err != nil {
		return err
	}

	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(ownHosts(cache, res), r)
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	return server.Run(ctx, server.New(cfg.HTTP, handler), cfg.HTTP.ShutdownTimeout)
}

// ownHosts reports whether host is the platform domain or a live
// storefront.  Unknown subdomains are not redirected.
func ownHosts(cache *tenant.Cache, res tenant.Resolver) middleware.HostChecker {
	return middleware.HostCheckerFunc(func(r *http.Request, host string) bool {
		sub, ok := res.Subdomain(host)
		if !ok {
			return host == res.BaseDomain || host == "www."+res.BaseDomain
		}
		_, err := cache.Get(r.Context(), sub)
		return err == nil
	})
}
