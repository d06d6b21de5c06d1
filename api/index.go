package handler

import (
	"net/http"
	"sync"
	"todos/config"
	"todos/di"
	"todos/shared/logger"
	transport "todos/transport/http"
	"todos/transport/http/response"

	"github.com/rs/zerolog/log"
)

var (
	server  *transport.HTTP
	initErr error
	once    sync.Once
)

// Handler is the serverless entrypoint. The service graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		server, _, initErr = di.InitializeService()
		if initErr != nil {
			log.Error().Err(initErr).Msg("Failed to initialize service")
		}
	})

	if initErr != nil {
		response.WithError(w, initErr)

		return
	}

	server.ServeHTTP(w, r)
}
