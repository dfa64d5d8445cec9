package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadow-boy/short-uri-project/internal/config"
	"github.com/shadow-boy/short-uri-project/internal/entities"
	"github.com/shadow-boy/short-uri-project/internal/jwt"
	"github.com/shadow-boy/short-uri-project/internal/models"
	"github.com/shadow-boy/short-uri-project/internal/router"
	"github.com/shadow-boy/short-uri-project/internal/service"
	"github.com/shadow-boy/short-uri-project/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testServer struct {
	engine *gin.Engine
	clicks service.ClickService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		BaseURL:       "http://localhost:8080",
		JWTSecret:     "test-secret",
		JWTTTLHours:   1,
		AdminUsername: "admin",
		AdminPassword: "correct-horse",

		// High enough that tests never trip the limiter
		RateLimitRPS:           1000,
		RateLimitBurst:         1000,
		RateLimitAuthRPS:       1000,
		RateLimitAuthBurst:     1000,
		RateLimitRedirectRPS:   1000,
		RateLimitRedirectBurst: 1000,
	}

	st := store.NewMemoryStore()
	log := zerolog.Nop()

	tokens := jwt.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authService, err := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, tokens)
	require.NoError(t, err)
	linkService := service.NewLinkService(st)
	clickService := service.NewClickService(st)
	resolverService := service.NewResolverService(st, clickService, log)

	engine := router.New(cfg, log, router.Services{
		Auth:     authService,
		Links:    linkService,
		Clicks:   clickService,
		Resolver: resolverService,
	})

	return &testServer{engine: engine, clicks: clickService}
}

func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Username: "admin",
		Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Username: "admin",
			Password: "correct-horse",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "admin", resp.User.Username)
		assert.Equal(t, "admin", resp.User.Role)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Username: "admin",
			Password: "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthBoundary(t *testing.T) {
	ts := newTestServer(t)

	expiredTokens := jwt.NewTokenService("test-secret", -time.Minute)
	expired, err := expiredTokens.Generate("admin", "admin", "admin")
	require.NoError(t, err)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/links"},
		{http.MethodGet, "/api/links"},
		{http.MethodGet, "/api/links/some-id"},
		{http.MethodPut, "/api/links/some-id"},
		{http.MethodDelete, "/api/links/some-id"},
		{http.MethodGet, "/api/analytics/some-id/basic"},
		{http.MethodGet, "/api/analytics/some-id/clicks"},
	}

	for _, rt := range routes {
		for name, token := range map[string]string{
			"no token":  "",
			"malformed": "garbage",
			"expired":   expired,
		} {
			t.Run(fmt.Sprintf("%s %s %s", rt.method, rt.path, name), func(t *testing.T) {
				rec := ts.do(rt.method, rt.path, token, nil)
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			})
		}
	}
}

func TestCreateLink(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	t.Run("created", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "Go-Home",
			DestinationURL: "https://example.com",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var link entities.Link
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
		assert.NotEmpty(t, link.ID)
		assert.Equal(t, "go-home", link.Slug)
		assert.Equal(t, "admin", link.OwnerID)
		assert.True(t, link.IsActive)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "go-home",
			DestinationURL: "https://elsewhere.example.com",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid slug", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "has spaces",
			DestinationURL: "https://example.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid destination", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "valid",
			DestinationURL: "ftp://example.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLinkCRUD(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
		Slug:           "crud",
		DestinationURL: "https://example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var link entities.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))

	t.Run("get", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/links/"+link.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got entities.Link
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, link.ID, got.ID)
	})

	t.Run("get missing", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/links/no-such-id", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/links", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var links []entities.Link
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
		assert.Len(t, links, 1)
	})

	t.Run("update", func(t *testing.T) {
		inactive := false
		rec := ts.do(http.MethodPut, "/api/links/"+link.ID, token, models.UpdateLinkRequest{
			IsActive: &inactive,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var got entities.Link
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.False(t, got.IsActive)
		assert.Equal(t, "crud", got.Slug)
	})

	t.Run("update slug conflict", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "other",
			DestinationURL: "https://example.com",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		var other entities.Link
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))

		slug := "crud"
		rec = ts.do(http.MethodPut, "/api/links/"+other.ID, token, models.UpdateLinkRequest{
			Slug: &slug,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rec := ts.do(http.MethodDelete, "/api/links/"+link.ID, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = ts.do(http.MethodDelete, "/api/links/"+link.ID, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRedirect(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	t.Run("not found", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/missing", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("active link redirects", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "active",
			DestinationURL: "https://example.com/target",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(http.MethodGet, "/active", "", nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://example.com/target", rec.Header().Get("Location"))
	})

	t.Run("inactive link is not found", func(t *testing.T) {
		inactive := false
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "inactive",
			DestinationURL: "https://example.com",
			IsActive:       &inactive,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(http.MethodGet, "/inactive", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expired link is gone", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
			Slug:           "expired",
			DestinationURL: "https://example.com",
			ExpiresAt:      &past,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(http.MethodGet, "/expired", "", nil)
		assert.Equal(t, http.StatusGone, rec.Code)
	})
}

// The end-to-end scenario: register, resolve, observe the click, delete,
// resolve again.
func TestLinkLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rec := ts.do(http.MethodPost, "/api/links", token, models.CreateLinkRequest{
		Slug:           "go-home",
		DestinationURL: "https://example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var link entities.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))

	rec = ts.do(http.MethodGet, "/go-home", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Location"))

	// The click lands asynchronously
	require.Eventually(t, func() bool {
		rec := ts.do(http.MethodGet, "/api/analytics/"+link.ID+"/basic", token, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		var resp models.BasicAnalyticsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			return false
		}
		return resp.TotalClicks == 1 && resp.LinkID == link.ID
	}, 2*time.Second, 10*time.Millisecond)

	// Recorded click carries a digest, not the raw IP
	rec = ts.do(http.MethodGet, "/api/analytics/"+link.ID+"/clicks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var clicks []entities.Click
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clicks))
	require.Len(t, clicks, 1)
	assert.Len(t, clicks[0].IPHash, 64)
	assert.Equal(t, link.ID, clicks[0].LinkID)

	rec = ts.do(http.MethodDelete, "/api/links/"+link.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/go-home", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQRCode(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/qrcode/go-home", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}
