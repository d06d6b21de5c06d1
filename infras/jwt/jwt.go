package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"todos/config"
	"todos/infras/otel"
	"todos/shared"
	"todos/shared/cache"
	"todos/shared/constant"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidClaim       = errors.New("invalid token claim")
	ErrUnknownKey         = errors.New("unknown signing key")
	ErrKeySetUnavailable  = errors.New("signing key set unavailable")
	ErrMissingHeader      = errors.New("authorization header is required")
	ErrMalformedHeader    = errors.New("authorization header must start with 'Bearer '")
	errRefreshRateLimited = errors.New("key set refresh rate limited")
	errEmptyKeySet        = errors.New("key set has no keys")
)

const (
	signingAlgorithm = "RS256"
	bearerPrefix     = "bearer "

	refreshLimit   = 60
	maxKeySetBytes = 1 << 20

	cacheKeyJWKS    = "jwks"
	cacheKeyRefresh = "refresh"
)

// Claims carries the verified registered claims; Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID is the stable identity-provider subject.
func (c *Claims) UserID() string {
	return c.Subject
}

// Verifier checks bearer tokens issued by the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

type verifierImpl struct {
	config *config.Config
	cache  cache.RedisCache
	client *http.Client
	otel   otel.Otel

	mu     sync.Mutex
	raw    string
	parsed keyfunc.Keyfunc
}

func New(cfg *config.Config, redisCache cache.RedisCache, otel otel.Otel) Verifier {
	return &verifierImpl{
		config: cfg,
		cache:  redisCache,
		client: &http.Client{Timeout: time.Duration(cfg.Auth.JWKSFetchTimeoutSecond) * time.Second},
		otel:   otel,
	}
}

// Verify validates signature, expiry, issuer and audience, and requires a subject.
func (v *verifierImpl) Verify(ctx context.Context, tokenString string) (claims *Claims, err error) {
	ctx, scope := v.otel.NewScope(ctx, constant.OtelJWKSScopeName, constant.OtelJWKSScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(&err)

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingAlgorithm}),
		jwt.WithExpirationRequired(),
	}

	if v.config.Auth.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.config.Auth.Issuer))
	}

	if v.config.Auth.Audience != "" {
		options = append(options, jwt.WithAudience(v.config.Auth.Audience))
	}

	token, err := jwt.NewParser(options...).ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.key(ctx, token)
	})
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidClaim
	}

	scope.SetAttribute("jwt.kid", token.Header["kid"])

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, ErrUnknownKey):
		return ErrUnknownKey
	case errors.Is(err, ErrKeySetUnavailable):
		return err
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrInvalidClaim
	default:
		return ErrInvalidToken
	}
}

// key resolves the token's kid from the cached key set, refreshing it from the JWKS endpoint on a miss.
func (v *verifierImpl) key(ctx context.Context, token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, ErrUnknownKey
	}

	if set, ok := v.cachedKeySet(ctx); ok {
		key, err := set.KeyfuncCtx(ctx)(token)
		if err == nil {
			return key, nil
		}

		if !errors.Is(err, jwkset.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownKey, err)
		}
	}

	if err := v.allowRefresh(ctx); err != nil {
		log.Warn().Str("kid", kid).Msg("JWKS refresh skipped, rate limit reached")

		return nil, fmt.Errorf("%w: %w", ErrUnknownKey, err)
	}

	raw, set, err := v.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err = v.cache.Save(ctx, v.cacheKey(), raw, v.config.Auth.JWKSCacheTTLSeconds); err != nil {
		log.Warn().Err(err).Msg("failed to cache JWKS")
	}

	key, err := set.KeyfuncCtx(ctx)(token)
	if err != nil {
		log.Warn().Err(err).Str("kid", kid).Msg("signing key not usable from JWKS")

		return nil, fmt.Errorf("%w: %w", ErrUnknownKey, err)
	}

	return key, nil
}

func (v *verifierImpl) cacheKey() string {
	return shared.BuildCacheKey(cacheKeyJWKS, v.config.Auth.JWKSURL)
}

func (v *verifierImpl) cachedKeySet(ctx context.Context) (keyfunc.Keyfunc, bool) {
	var raw string

	err := v.cache.Get(ctx, v.cacheKey(), &raw)
	if err != nil {
		if !errors.Is(err, cache.Nil) {
			log.Warn().Err(err).Msg("failed to read cached JWKS, falling back to the endpoint")
		}

		return nil, false
	}

	set, err := v.parse(ctx, raw)
	if err != nil {
		log.Warn().Err(err).Msg("cached JWKS is unusable, falling back to the endpoint")

		return nil, false
	}

	return set, true
}

// parse reuses the last parsed set while the cached document is unchanged.
func (v *verifierImpl) parse(ctx context.Context, raw string) (keyfunc.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.parsed != nil && v.raw == raw {
		return v.parsed, nil
	}

	set, err := keyfunc.NewJWKSetJSON(json.RawMessage(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	keys, err := set.Storage().KeyReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS keys: %w", err)
	}

	if len(keys) == 0 {
		return nil, errEmptyKeySet
	}

	v.raw, v.parsed = raw, set

	return set, nil
}

// allowRefresh fails open when the counter store is unreachable.
func (v *verifierImpl) allowRefresh(ctx context.Context) error {
	limit := v.config.Auth.JWKSRequestsPerMinute
	if limit <= 0 {
		return nil
	}

	count, err := v.cache.Increment(ctx, shared.BuildCacheKey(cacheKeyJWKS, cacheKeyRefresh, v.config.Auth.JWKSURL), refreshLimit)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count JWKS refreshes")

		return nil
	}

	if count > int64(limit) {
		return errRefreshRateLimited
	}

	return nil
}

func (v *verifierImpl) fetch(ctx context.Context) (raw string, set keyfunc.Keyfunc, err error) {
	ctx, scope := v.otel.NewScope(ctx, constant.OtelJWKSScopeName, constant.OtelJWKSScopeName+".fetch")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("jwks.url", v.config.Auth.JWKSURL)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.Auth.JWKSURL, nil)
	if err != nil {
		return raw, nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	request.Header.Set("Accept", constant.ContentTypeJSON)

	response, err := v.client.Do(request)
	if err != nil {
		log.Error().Err(err).Str("url", v.config.Auth.JWKSURL).Msg("failed to fetch JWKS")

		return raw, nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		log.Error().Int("status", response.StatusCode).Str("url", v.config.Auth.JWKSURL).Msg("unexpected JWKS response")

		return raw, nil, fmt.Errorf("%w: status %d", ErrKeySetUnavailable, response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxKeySetBytes))
	if err != nil {
		log.Error().Err(err).Msg("failed to read JWKS")

		return raw, nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	raw = string(body)

	if set, err = v.parse(ctx, raw); err != nil {
		log.Error().Err(err).Msg("failed to parse JWKS")

		return raw, nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	log.Info().Str("url", v.config.Auth.JWKSURL).Msg("JWKS refreshed")

	return raw, set, nil
}

// ExtractTokenFromHeader extracts the token from an Authorization header, matching the scheme case-insensitively.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMalformedHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrMalformedHeader
	}

	return token, nil
}
