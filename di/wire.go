//go:build wireinject
// +build wireinject

package di

import (
	"todos/config"
	"todos/infras/jwt"
	"todos/infras/kafka"
	"todos/infras/redis"
	"todos/infras/s3"
	"todos/internal/domains/todo/attachment"
	healthHandler "todos/internal/handlers/health"
	todoHandler "todos/internal/handlers/todo"
	attachmentReactor "todos/internal/reactors/attachment"
	"todos/permissions"
	"todos/shared/cache"
	"todos/transport/http"
	"todos/transport/http/middleware"
	"todos/transport/http/router"

	todoService "todos/internal/domains/todo/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	ProvideOtel,
	redis.New,
	s3.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var todoDomain = wire.NewSet(
	ProvideTodoRepository,
	attachment.New,
	todoService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	healthHandler.New,
	router.New,
)

var reactors = wire.NewSet(
	kafka.New,
	attachmentReactor.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		todoDomain,
		routing,
		http.New,
	)

	return nil, nil, nil
}

func InitializeReactor() (attachmentReactor.Reactor, func(), error) {
	wire.Build(
		config.Get,
		ProvideOtel,
		ProvideTodoRepository,
		reactors,
	)

	return nil, nil, nil
}
