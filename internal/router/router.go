package router // package router wires handlers and middleware onto an Echo instance

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/handler"
	"github.com/iliyamo/forwarding-portal/internal/middleware"
	"github.com/iliyamo/forwarding-portal/internal/notify"
	"github.com/iliyamo/forwarding-portal/internal/repository"
	"github.com/iliyamo/forwarding-portal/internal/schema"
)

// Deps collects everything the HTTP surface needs.  Only Store is
// required; the rest fall back to permissive or no-op defaults.
type Deps struct {
	Store      repository.Storage
	Notifier   notify.Sender
	Policy     middleware.AdminPolicy
	Cache      *middleware.ResponseCache
	RateLimit  echo.MiddlewareFunc
	DB         handler.Pinger
	Logger     *zap.Logger
	BcryptCost int
}

// New builds the Echo instance with every route registered.
func New(d Deps) (*echo.Echo, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewLogSender(d.Logger)
	}
	if d.Policy == nil {
		d.Policy = middleware.OpenPolicy{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = schema.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Logger))

	auth, err := handler.NewAuthHandler(d.Store, d.Notifier, d.Logger, d.BcryptCost)
	if err != nil {
		return nil, err
	}

	RegisterRoutes(e, d.DB)
	api := e.Group("/api")
	if d.RateLimit != nil {
		api.Use(d.RateLimit)
	}
	RegisterAuth(api.Group("/auth"), auth)
	RegisterPackages(api, handler.NewPackageHandler(d.Store, d.Cache, d.Logger), d.Cache, d.Policy)
	RegisterContacts(api, handler.NewContactHandler(d.Store, d.Logger), d.Policy)
	RegisterUsers(api, handler.NewUserHandler(d.Store, d.Logger), d.Policy)
	return e, nil
}

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers account creation and sign-in.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler) {
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterPackages registers listing, tracking, intake and status changes.
// Tracking lookups go through the response cache; the write paths sit
// behind the admin gate.
func RegisterPackages(g *echo.Group, p *handler.PackageHandler, cache *middleware.ResponseCache, policy middleware.AdminPolicy) {
	admin := middleware.RequireAdmin(policy)

	g.GET("/packages/user/:userId", p.ListByUser)
	g.POST("/packages/user/:userId", p.Create, admin)
	g.GET("/packages/track/:trackingId", p.Track, cache.Middleware(handler.CacheScopeTrack, handler.TrackingParam))
	g.GET("/packages/track/:trackingId/progress", p.Progress, cache.Middleware(handler.CacheScopeProgress, handler.TrackingParam))
	g.PATCH("/packages/:trackingId/status", p.UpdateStatus, admin)
}

// RegisterContacts registers the public contact form and the admin list.
func RegisterContacts(g *echo.Group, h *handler.ContactHandler, policy middleware.AdminPolicy) {
	g.POST("/contact", h.Create)
	g.GET("/contacts", h.List, middleware.RequireAdmin(policy))
}

// RegisterUsers registers the admin user lookup.
func RegisterUsers(g *echo.Group, h *handler.UserHandler, policy middleware.AdminPolicy) {
	g.GET("/users/:id", h.Get, middleware.RequireAdmin(policy))
}
