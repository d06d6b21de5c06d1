package middleware

import (
	"context"
	"errors"
	"net/http"
	"todos/infras/jwt"
	"todos/infras/otel"
	"todos/permissions"
	"todos/shared/constant"
	"todos/shared/failure"
	"todos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Auth verifies the bearer credential and puts the caller's user id on the request context.
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	verifier   jwt.Verifier
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthMiddleware(verifier jwt.Verifier, otel otel.Otel, permissions *permissions.PermissionData) Auth {
	return &authImpl{
		verifier:   verifier,
		otel:       otel,
		permission: permissions,
	}
}

func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		ctx, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		path := routePattern(request)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		if m.permission != nil && (m.permission.Skip || m.permission.FindPermissions(path, request.Method).Skip) {
			next.ServeHTTP(writer, request)

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, failure.Unauthorized(err.Error()))

			return
		}

		claims, err := m.verifier.Verify(ctx, tokenString)
		if err != nil {
			scope.TraceError(err)
			log.Warn().Err(err).Str("path", path).Msg("rejected bearer token")

			response.WithError(writer, failure.Unauthorized(unauthorizedMessage(err)))

			return
		}

		ctx = context.WithValue(request.Context(), constant.ContextKeyUserID, claims.UserID())
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.ID)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	case errors.Is(err, jwt.ErrUnknownKey):
		return "Token signed with an unknown key"
	case errors.Is(err, jwt.ErrKeySetUnavailable):
		return "Token could not be verified"
	default:
		return "Invalid token"
	}
}

// routePattern resolves the registered pattern for the request, e.g. /todos/{todoId}.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path); pattern != "" {
		return pattern
	}

	return request.URL.Path
}

// UserID returns the verified caller stored by Auth.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return userID
}
