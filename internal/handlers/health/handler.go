package health

import (
	"net/http"
	"sync/atomic"
	"todos/shared/constant"
	"todos/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// Handler reports liveness until the server starts draining.
type Handler struct {
	draining *atomic.Bool
}

func New() Handler {
	return Handler{
		draining: &atomic.Bool{},
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Drain makes the health check fail so load balancers stop routing new requests here.
func (handler *Handler) Drain() {
	handler.draining.Store(true)
}

// Health reports whether the server accepts traffic.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if handler.draining.Load() {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, constant.ResponseHealthy)
}
