package jwt_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	stdBase64 "encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"todos/config"
	"todos/infras/jwt"
	otelMocks "todos/infras/otel/mocks"
	"todos/shared/cache"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://todos.example.auth0.com/"
	testAudience = "todos-api"
	testKid      = "key-1"
)

type memoryCache struct {
	mu       sync.Mutex
	values   map[string][]byte
	counters map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}, counters: map[string]int64{}}
}

func (c *memoryCache) Save(_ context.Context, key string, value any, _ int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = data

	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, value any) error {
	c.mu.Lock()
	data, ok := c.values[key]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("failed to get cache value: %w", cache.Nil)
	}

	return json.Unmarshal(data, value)
}

func (c *memoryCache) Increment(_ context.Context, key string, _ int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters[key]++

	return c.counters[key], nil
}

type testJWK struct {
	Kid string   `json:"kid"`
	Kty string   `json:"kty"`
	Alg string   `json:"alg,omitempty"`
	Use string   `json:"use,omitempty"`
	N   string   `json:"n,omitempty"`
	E   string   `json:"e,omitempty"`
	X5c []string `json:"x5c,omitempty"`
}

type testJWKS struct {
	Keys []testJWK `json:"keys"`
}

type fixture struct {
	key      *rsa.PrivateKey
	hits     *atomic.Int32
	verifier jwt.Verifier
}

func rsaJWK(kid string, key *rsa.PublicKey) testJWK {
	return testJWK{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   stdBase64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   stdBase64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
}

func newFixture(t *testing.T, perMinute int, keys func(*rsa.PrivateKey) []testJWK) fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	hits := &atomic.Int32{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testJWKS{Keys: keys(key)})
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Auth.JWKSURL = server.URL + "/.well-known/jwks.json"
	cfg.Auth.Issuer = testIssuer
	cfg.Auth.Audience = testAudience
	cfg.Auth.JWKSCacheTTLSeconds = 600
	cfg.Auth.JWKSRequestsPerMinute = perMinute
	cfg.Auth.JWKSFetchTimeoutSecond = 5

	return fixture{
		key:      key,
		hits:     hits,
		verifier: jwt.New(cfg, newMemoryCache(), otelMocks.NewOtel()),
	}
}

func defaultKeys(key *rsa.PrivateKey) []testJWK {
	return []testJWK{rsaJWK(testKid, &key.PublicKey)}
}

func validClaims() gojwt.RegisteredClaims {
	now := time.Now()

	return gojwt.RegisteredClaims{
		Subject:   "auth0|user-1",
		Issuer:    testIssuer,
		Audience:  gojwt.ClaimStrings{testAudience},
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func sign(t *testing.T, key *rsa.PrivateKey, kid string, claims gojwt.RegisteredClaims) string {
	t.Helper()

	token := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}

	signed, err := token.SignedString(key)
	require.NoError(t, err)

	return signed
}

func TestVerifier_Verify(t *testing.T) {
	f := newFixture(t, 10, defaultKeys)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com/"

	wrongAudience := validClaims()
	wrongAudience.Audience = gojwt.ClaimStrings{"another-api"}

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	hmac, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: sign(t, f.key, testKid, validClaims())},
		{name: "expired", token: sign(t, f.key, testKid, expired), wantErr: jwt.ErrExpiredToken},
		{name: "wrong issuer", token: sign(t, f.key, testKid, wrongIssuer), wantErr: jwt.ErrInvalidClaim},
		{name: "wrong audience", token: sign(t, f.key, testKid, wrongAudience), wantErr: jwt.ErrInvalidClaim},
		{name: "missing subject", token: sign(t, f.key, testKid, noSubject), wantErr: jwt.ErrInvalidClaim},
		{name: "missing expiry", token: sign(t, f.key, testKid, noExpiry), wantErr: jwt.ErrInvalidClaim},
		{name: "signed by another key", token: sign(t, otherKey, testKid, validClaims()), wantErr: jwt.ErrInvalidToken},
		{name: "missing kid", token: sign(t, f.key, "", validClaims()), wantErr: jwt.ErrUnknownKey},
		{name: "symmetric algorithm", token: hmac, wantErr: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-jwt", wantErr: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := f.verifier.Verify(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "auth0|user-1", claims.UserID())
		})
	}
}

func TestVerifier_CachesKeySet(t *testing.T) {
	f := newFixture(t, 10, defaultKeys)
	token := sign(t, f.key, testKid, validClaims())

	for range 3 {
		_, err := f.verifier.Verify(context.Background(), token)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), f.hits.Load())
}

func TestVerifier_UnknownKidRefreshIsRateLimited(t *testing.T) {
	f := newFixture(t, 2, defaultKeys)

	for range 5 {
		_, err := f.verifier.Verify(context.Background(), sign(t, f.key, "rotated-key", validClaims()))
		assert.ErrorIs(t, err, jwt.ErrUnknownKey)
	}

	assert.Equal(t, int32(2), f.hits.Load())

	_, err := f.verifier.Verify(context.Background(), sign(t, f.key, testKid, validClaims()))
	assert.NoError(t, err, "known keys keep verifying from the cached set")
}

func TestVerifier_KeySetUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.JWKSURL = server.URL
	cfg.Auth.JWKSRequestsPerMinute = 10
	cfg.Auth.JWKSFetchTimeoutSecond = 1

	verifier := jwt.New(cfg, newMemoryCache(), otelMocks.NewOtel())

	_, err = verifier.Verify(context.Background(), sign(t, key, testKid, validClaims()))
	assert.ErrorIs(t, err, jwt.ErrKeySetUnavailable)
}

func TestVerifier_CertificateKey(t *testing.T) {
	f := newFixture(t, 10, func(key *rsa.PrivateKey) []testJWK {
		template := &x509.Certificate{
			SerialNumber: big.NewInt(1),
			Subject:      pkix.Name{CommonName: "todos.example.auth0.com"},
			NotBefore:    time.Now().Add(-time.Hour),
			NotAfter:     time.Now().Add(time.Hour),
		}

		der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
		if err != nil {
			panic(err)
		}

		jwk := rsaJWK(testKid, &key.PublicKey)
		jwk.X5c = []string{stdBase64.StdEncoding.EncodeToString(der)}

		return []testJWK{jwk}
	})

	claims, err := f.verifier.Verify(context.Background(), sign(t, f.key, testKid, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "auth0|user-1", claims.Subject)
}

func TestVerifier_UnusableKeySet(t *testing.T) {
	tests := []struct {
		name string
		keys func(*rsa.PrivateKey) []testJWK
	}{
		{name: "no keys", keys: func(*rsa.PrivateKey) []testJWK { return nil }},
		{name: "key without material", keys: func(*rsa.PrivateKey) []testJWK {
			return []testJWK{{Kid: testKid, Kty: "RSA", Alg: "RS256", Use: "sig"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10, tt.keys)

			_, err := f.verifier.Verify(context.Background(), sign(t, f.key, testKid, validClaims()))
			assert.ErrorIs(t, err, jwt.ErrKeySetUnavailable)
		})
	}
}

func TestVerifier_RotatedKeyIsPickedUp(t *testing.T) {
	current, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	rotated, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	published := &atomic.Bool{}

	f := newFixture(t, 10, func(*rsa.PrivateKey) []testJWK {
		keys := []testJWK{rsaJWK(testKid, &current.PublicKey)}
		if published.Load() {
			keys = append(keys, rsaJWK("key-2", &rotated.PublicKey))
		}

		return keys
	})

	_, err = f.verifier.Verify(context.Background(), sign(t, current, testKid, validClaims()))
	require.NoError(t, err)

	published.Store(true)

	claims, err := f.verifier.Verify(context.Background(), sign(t, rotated, "key-2", validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "auth0|user-1", claims.UserID())
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
		wantErr  error
	}{
		{name: "canonical", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "uppercase scheme", header: "BEARER abc.def.ghi", expected: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: jwt.ErrMissingHeader},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: jwt.ErrMalformedHeader},
		{name: "scheme only", header: "Bearer ", wantErr: jwt.ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}
