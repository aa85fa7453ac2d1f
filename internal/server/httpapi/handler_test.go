package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spolyakov/passport/internal/logging"
	"github.com/spolyakov/passport/internal/server/config"
	"github.com/spolyakov/passport/internal/server/metrics"
	"github.com/spolyakov/passport/internal/server/password"
	"github.com/spolyakov/passport/internal/server/token"
	"github.com/spolyakov/passport/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*Server, *users.InMemoryRepository) {
	t.Helper()

	cfg := &config.Config{
		EndpointAddr:    ":0",
		SecretKey:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 2 * time.Hour,
	}

	hasher, err := password.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := token.NewCodec(token.Options{Secret: []byte(cfg.SecretKey)})
	require.NoError(t, err)

	repo := users.NewInMemoryRepository()
	service := users.NewService(repo, hasher, codec, cfg)

	return NewServer(cfg, logging.NewJSONLogger(io.Discard), service, metrics.NewMetrics()), repo
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerAlice(t *testing.T, h http.Handler) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/register", registerRequest{
		Email: "a@x.com", Username: "alice", Password: "longpass1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func loginAlice(t *testing.T, h http.Handler) tokenResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/login", loginRequest{
		Email: "a@x.com", Password: "longpass1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	return tok
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()

	t.Run("created", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/register", registerRequest{
			Email: "A@X.com", Username: "alice", Password: "longpass1",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var u userResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "a@x.com", u.Email)
		assert.True(t, u.IsActive)
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/register", registerRequest{
			Email: "a@x.com", Username: "alice2", Password: "longpass1",
		}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/register", registerRequest{
			Email: "b@x.com", Username: "bob", Password: "short",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{broken"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()
	registerAlice(t, h)

	t.Run("success returns pair", func(t *testing.T) {
		tok := loginAlice(t, h)
		assert.NotEmpty(t, tok.AccessToken)
		assert.NotEmpty(t, tok.RefreshToken)
		assert.Equal(t, "bearer", tok.TokenType)
		assert.Equal(t, 3600, tok.ExpiresIn)
	})

	t.Run("wrong password and unknown email are identical", func(t *testing.T) {
		recWrong := doJSON(t, h, http.MethodPost, "/auth/login", loginRequest{
			Email: "a@x.com", Password: "wrongpass1",
		}, nil)
		recGhost := doJSON(t, h, http.MethodPost, "/auth/login", loginRequest{
			Email: "ghost@x.com", Password: "longpass1",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
		assert.Equal(t, http.StatusUnauthorized, recGhost.Code)
		assert.Equal(t, recWrong.Body.String(), recGhost.Body.String())
		assert.Equal(t, "Bearer", recWrong.Header().Get("WWW-Authenticate"))
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()
	registerAlice(t, h)
	tok := loginAlice(t, h)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: tok.RefreshToken}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var renewed tokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renewed))
		assert.NotEmpty(t, renewed.AccessToken)
		assert.NotEmpty(t, renewed.RefreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: tok.AccessToken}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: "garbage"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()
	s, repo := newTestServer(t)
	h := s.Routes()
	registerAlice(t, h)
	tok := loginAlice(t, h)

	t.Run("returns profile", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/auth/me", nil, map[string]string{
			"Authorization": "Bearer " + tok.AccessToken,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var u userResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/auth/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/auth/me", nil, map[string]string{
			"Authorization": "Bearer " + tok.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deactivated account rejected", func(t *testing.T) {
		var u userResponse
		rec := doJSON(t, h, http.MethodGet, "/auth/me", nil, map[string]string{
			"Authorization": "Bearer " + tok.AccessToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))

		require.True(t, repo.SetActive(u.ID, false))

		rec = doJSON(t, h, http.MethodGet, "/auth/me", nil, map[string]string{
			"Authorization": "Bearer " + tok.AccessToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()

	rec := doJSON(t, h, http.MethodPost, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var msg messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "Successfully logged out", msg.Message)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()

	rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, serviceName, health.Service)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()

	// generate one request so the counters exist
	doJSON(t, h, http.MethodGet, "/health", nil, nil)

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "passport_http_requests_total")
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("path=%q", "/health"))
}
