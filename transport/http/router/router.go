package router

import (
	"todos/internal/handlers/health"
	"todos/internal/handlers/todo"
	"todos/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "todos/docs" // swagger docs
)

type DomainHandlers struct {
	Todo   todo.Handler
	Health health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	app            middleware.AppMiddleware
	auth           middleware.Auth
}

// SetupRoutes mounts every route at the root; the browser client calls /todos directly.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Recoverer,
		r.app.CORS(),
		r.app.Tracing,
		r.app.RateLimit(),
		r.auth.Auth,
	)

	r.DomainHandlers.Health.Router(router)
	r.DomainHandlers.Todo.Router(router)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
}

// Drain fails health checks ahead of shutdown.
func (r *Router) Drain() {
	r.DomainHandlers.Health.Drain()
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		app:            app,
		auth:           auth,
	}
}
