package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/httpx"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/composer"
	"github.com/diewo77/store-admin/internal/config"
	"github.com/diewo77/store-admin/internal/crud"
	"github.com/diewo77/store-admin/internal/handlers"
	"github.com/diewo77/store-admin/internal/metrics"
	"github.com/diewo77/store-admin/internal/middleware"
	"github.com/diewo77/store-admin/internal/policy"
	"github.com/diewo77/store-admin/internal/resources"
	"github.com/diewo77/store-admin/internal/services"
	"github.com/diewo77/store-admin/internal/store"
	"github.com/diewo77/store-admin/view"
)

// profileCacheTTL bounds how long a role change takes to reach live sessions.
const profileCacheTTL = time.Minute

// App is the main application handler that sets up all routes.
type App struct {
	router  chi.Router
	store   *store.Store
	client  *backend.Client
	gates   *policy.AuthGate
	janitor *store.Janitor
	log     *zap.Logger
}

// NewApp wires the store, the backend client and every route.
func NewApp(cfg *config.Config, conn *gorm.DB, log *zap.Logger) (*App, error) {
	st := store.New(conn, cfg.App.Secret())
	mc := metrics.New("store_admin")
	client, err := backend.New(backend.Options{
		BaseURL:  cfg.Backend.URL,
		Timeout:  cfg.Backend.Timeout,
		Logger:   log,
		Observer: mc,
	})
	if err != nil {
		return nil, err
	}
	janitor, err := store.NewJanitor(st, cfg.App.JanitorSchedule, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		router:  chi.NewRouter(),
		store:   st,
		client:  client,
		gates:   policy.NewAuthGate(st, profileCacheTTL),
		janitor: janitor,
		log:     log,
	}
	if cfg.App.Dev {
		view.SetDir("view/templates")
	}
	a.setupView()
	a.setupRoutes(cfg, mc)
	janitor.Start()
	return a, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Close stops the background purge.
func (a *App) Close() {
	a.janitor.Stop()
}

// setupView exposes request state to the templates through resolver callbacks.
func (a *App) setupView() {
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)
	view.SetCanProfileResolver(a.gates.CanString)
	view.SetIsAdminResolver(a.gates.IsAdmin)
	view.SetFlashResolver(func(w http.ResponseWriter, r *http.Request) any {
		if n, ok := middleware.TakeFlash(w, r); ok {
			return &n
		}
		return nil
	})
}

func (a *App) setupRoutes(cfg *config.Config, mc *metrics.Collector) {
	cookies := auth.NewManager(cfg.App.Secret(), a.store)
	cookies.Secure = cfg.App.CookieSecure

	deps := crud.Deps{
		Client:          a.client,
		Inflight:        crud.NewInflight(),
		Intents:         a.store,
		Audit:           a.store,
		Can:             a.gates.Can,
		Log:             a.log,
		DefaultPageSize: cfg.App.DefaultPageSize,
	}

	ah := handlers.NewAuthHandler(a.client, a.store, cookies, cfg.App.SessionTTL, a.log)
	ah.Forget = a.gates.Forget
	dash := handlers.NewDashboardHandler(deps, services.NewDashboardService(services.DefaultTiles, a.log))
	settings := handlers.NewSettingsHandler(deps)
	sales := handlers.NewSalesHandler(deps)
	uploads := handlers.NewUploadHandler(deps, resources.UploadTargets, cfg.Backend.UploadMaxMB)
	audit := handlers.NewAuditHandler(a.store, a.log)
	set := resources.NewSet(deps, sales.Extras())
	items := composer.NewHandler(deps, resources.NewProductSource(), a.store, mc)

	r := a.router
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mc.Middleware)
	r.Use(middleware.RequestLog(a.log))
	r.Use(middleware.Prefs)
	r.Use(cookies.Middleware)
	r.NotFound(handlers.NotFound(a.log))

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	r.Handle("/static/*", view.Static())
	r.Handle("/metrics", mc.Handler())
	r.Get("/healthz", a.health)
	r.Get("/login", ah.LoginPage)
	r.Post("/login", ah.Login)

	// ─────────────────────────────────────────────────────────────────────────
	// Signed-in routes, each guarded by the operator's role profile
	// ─────────────────────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/logout", ah.Logout)
		r.Get("/", dash.Show)
		r.With(a.gates.RequirePermission("settings", gate.ActionView)).Get("/settings", settings.Show)
		r.With(a.gates.RequirePermission("settings", gate.ActionUpdate)).Post("/settings", settings.Save)
		r.With(a.gates.RequireAdmin()).Get("/audit", audit.List)

		set.Mount(r, a.gates.RequirePermission)
		for _, t := range set.Targets {
			items.Mount(r, t, a.gates.RequirePermission)
		}
		uploads.Mount(r, a.gates.RequirePermission)
	})
}

// health reports whether the local store and the backend answer.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	status := map[string]string{"store": "ok", "backend": "ok"}
	code := http.StatusOK
	if err := a.store.Ping(ctx); err != nil {
		status["store"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := a.client.Ping(ctx); err != nil {
		status["backend"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	httpx.JSON(w, code, status)
}
