package handler

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/config"
	"github.com/suar-net/starter-be/internal/service"
)

type Dependencies struct {
	Config      *config.Config
	DB          *sql.DB
	ItemService service.IItemService
	// AuthService guards item writes when set.
	AuthService service.IAuthService
	Logger      *zap.Logger
}

// SetupRouter assembles the full route tree of the service.
func SetupRouter(deps Dependencies) *chi.Mux {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := NewMetrics(cfg.Project.Name)
	docs := NewDocsHandler(cfg.Project, logger)

	var itemOpts []RouterOption
	if deps.AuthService != nil {
		auth := NewAuthMiddleware(deps.AuthService, logger)
		itemOpts = append(itemOpts, WithMiddlewares(auth.RequireForWrites))
	}
	items := NewItemsRouter(deps.ItemService, logger, itemOpts...)
	v1 := NewV1Router(items.Router(), docs, logger)
	mainRouter := NewMainRouter(MainRouterDeps{
		Project: cfg.Project,
		Paths:   cfg.Paths,
		V1:      v1.Router(),
		Health:  NewHealthHandler(deps.DB, logger),
		Metrics: metrics.Handler(),
	}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger.Named("http")))
	r.Use(metrics.Middleware)
	r.Use(RoutingError(logger.Named("RoutingError")))
	r.Use(NewCORS(cfg.CORSWhitelist(), cfg.CORS.Methods).Handler)
	r.Use(middleware.GetHead)
	r.Use(ParseBody)

	r.Mount("/", mainRouter.Router())
	docs.SetRoutes(r)

	return r
}
