// Package server assembles the API: dependency registration, middleware
// chain and route groups.
package server

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/bramble/config"
	brandrepo "github.com/Ramsey-B/bramble/internal/repositories/brand"
	materialrepo "github.com/Ramsey-B/bramble/internal/repositories/material"
	certificationrepo "github.com/Ramsey-B/bramble/internal/repositories/materialcertification"
	compositionrepo "github.com/Ramsey-B/bramble/internal/repositories/materialcomposition"
	productrepo "github.com/Ramsey-B/bramble/internal/repositories/product"
	relationrepo "github.com/Ramsey-B/bramble/internal/repositories/relation"
	supplierrepo "github.com/Ramsey-B/bramble/internal/repositories/supplier"
	steprepo "github.com/Ramsey-B/bramble/internal/repositories/supplychainstep"
	tenantrepo "github.com/Ramsey-B/bramble/internal/repositories/tenant"
	variantrepo "github.com/Ramsey-B/bramble/internal/repositories/variant"
	"github.com/Ramsey-B/bramble/pkg/authz"
	"github.com/Ramsey-B/bramble/pkg/database"
	"github.com/Ramsey-B/bramble/pkg/events"
	"github.com/Ramsey-B/bramble/pkg/kafka"
	"github.com/Ramsey-B/bramble/pkg/ledger"
	"github.com/Ramsey-B/bramble/pkg/middleware"
	"github.com/Ramsey-B/bramble/pkg/ownership"
	brandroutes "github.com/Ramsey-B/bramble/pkg/routes/brand"
	healthroutes "github.com/Ramsey-B/bramble/pkg/routes/health"
	materialroutes "github.com/Ramsey-B/bramble/pkg/routes/material"
	productroutes "github.com/Ramsey-B/bramble/pkg/routes/product"
	relationroutes "github.com/Ramsey-B/bramble/pkg/routes/relation"
	supplierroutes "github.com/Ramsey-B/bramble/pkg/routes/supplier"
	variantroutes "github.com/Ramsey-B/bramble/pkg/routes/variant"
)

// Dependencies is everything the API needs that main constructs
type Dependencies struct {
	Config   *config.Config
	Logger   ectologger.Logger
	DB       database.DB
	Producer *kafka.Producer // nil when the event stream is disabled
}

// RegisterDependencies builds the repositories and services and registers
// them on the default DI container so handlers can resolve them from the
// request context.
func RegisterDependencies(deps Dependencies) (*tenantrepo.Repository, error) {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return nil, fmt.Errorf("failed to create DI container: %w", err)
	}

	tenants := tenantrepo.NewRepository(deps.DB, deps.Logger)
	relations := relationrepo.NewRepository(deps.DB, deps.Logger)
	suppliers := supplierrepo.NewRepository(deps.DB, deps.Logger)
	brands := brandrepo.NewRepository(deps.DB, deps.Logger)
	products := productrepo.NewRepository(deps.DB, deps.Logger)
	variants := variantrepo.NewRepository(deps.DB, deps.Logger)
	materials := materialrepo.NewRepository(deps.DB, deps.Logger)
	compositions := compositionrepo.NewRepository(deps.DB, deps.Logger)
	certifications := certificationrepo.NewRepository(deps.DB, deps.Logger)
	steps := steprepo.NewRepository(deps.DB, deps.Logger)

	graph := ownership.NewGraph(products, variants, materials, compositions, certifications, steps)
	gate := authz.NewGate(graph, relations)

	var emitter *events.Emitter
	var ledgerEvents ledger.Events
	if deps.Producer != nil {
		emitter = events.NewEmitter(deps.Producer, deps.Logger)
		ledgerEvents = emitter
	}
	ledgerService := ledger.NewService(relations, suppliers, ledgerEvents, deps.Logger)

	registrations := []func() error{
		func() error { return ectoinject.RegisterInstance[*relationrepo.Repository](container, relations) },
		func() error { return ectoinject.RegisterInstance[*supplierrepo.Repository](container, suppliers) },
		func() error { return ectoinject.RegisterInstance[*brandrepo.Repository](container, brands) },
		func() error { return ectoinject.RegisterInstance[*productrepo.Repository](container, products) },
		func() error { return ectoinject.RegisterInstance[*variantrepo.Repository](container, variants) },
		func() error { return ectoinject.RegisterInstance[*materialrepo.Repository](container, materials) },
		func() error { return ectoinject.RegisterInstance[*compositionrepo.Repository](container, compositions) },
		func() error { return ectoinject.RegisterInstance[*certificationrepo.Repository](container, certifications) },
		func() error { return ectoinject.RegisterInstance[*steprepo.Repository](container, steps) },
		func() error { return ectoinject.RegisterInstance[*ownership.Graph](container, graph) },
		func() error { return ectoinject.RegisterInstance[*authz.Gate](container, gate) },
		func() error { return ectoinject.RegisterInstance[*ledger.Service](container, ledgerService) },
	}
	if emitter != nil {
		registrations = append(registrations, func() error {
			return ectoinject.RegisterInstance[*events.Emitter](container, emitter)
		})
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return nil, fmt.Errorf("failed to register dependency: %w", err)
		}
	}

	return tenants, nil
}

// New builds the echo instance with the full middleware chain and all route
// groups registered. The health checker is returned so main can flip
// readiness once startup completes.
func New(deps Dependencies, tenants *tenantrepo.Repository) (*echo.Echo, *healthroutes.Checker) {
	cfg := deps.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(deps.Logger)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(echomiddleware.Recover())

	checker := healthroutes.NewChecker(deps.DB.Unsafe(), cfg.AppName)
	checker.RegisterRoutes(e)

	api := e.Group("/api")
	api.Use(middleware.Auth(tenants, cfg.APIKeyHeader))

	relationroutes.Register(api.Group("/brand-suppliers"))
	supplierroutes.Register(api.Group("/suppliers"))
	brandroutes.Register(api.Group("/brands"))
	productroutes.Register(api.Group("/products"))
	variantroutes.Register(api.Group("/variants"))
	materialroutes.Register(api.Group("/materials"))

	return e, checker
}
