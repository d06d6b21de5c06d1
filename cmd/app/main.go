package main

import (
	"todos/config"
	"todos/di"
	"todos/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Todos API
// @version 1.0
// @description Per-user todo items with image attachments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity provider access token, as "Bearer <token>"
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	defer cleanup()

	http.Serve()
}
