// Package buyers provides the buyer lead bounded context module.
// This file defines the module that encapsulates all buyers setup and route
// registration.
package buyers

import (
	"buyerleads_backend/internal/buyers/access"
	"buyerleads_backend/internal/buyers/bulk"
	"buyerleads_backend/internal/buyers/handler"
	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/internal/buyers/schema"
	"buyerleads_backend/internal/buyers/service"
	"buyerleads_backend/internal/events"
	apphttp "buyerleads_backend/internal/http"
	"buyerleads_backend/platform/config"
	"buyerleads_backend/platform/logger"
	"buyerleads_backend/platform/ratelimit"
	"buyerleads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the buyers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	bulk    *bulk.Service
}

// Config combines the config interfaces needed by the buyers module.
type Config interface {
	config.AdminConfig
	config.RateLimitConfig
}

// NewModule creates and initializes the buyers module with all its
// dependencies. cache may be nil when caching is disabled.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, cfg Config, cache service.Cache, log *logger.Logger) *Module {
	repo := repository.New(pool)
	sch := schema.New(val)
	guard := access.NewGuard(cfg.GetAdminEmail())
	limiter := ratelimit.New(cfg.GetRateLimitMaxRequests(), cfg.GetRateLimitWindow(), cfg.GetRateLimitMaxTracked())

	svc := service.New(repo, sch, guard, limiter, bus, cache, log)
	bulkSvc := bulk.New(repo, bus, log)
	h := handler.New(svc, bulkSvc, val)

	return &Module{
		handler: h,
		service: svc,
		bulk:    bulkSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "buyers"
}

// Service returns the buyer service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts buyers routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All buyers routes require authentication
	buyersGroup := ctx.Protected.Group("/buyers")
	m.handler.RegisterRoutes(buyersGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
