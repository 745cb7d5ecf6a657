package bootstrap_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/bootstrap"
	"fit-backend/internal/engine/remote"
	"fit-backend/internal/shared/auth"
	"fit-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:                 "0",
		CORSAllowOrigin:      []string{"http://localhost:3000"},
		LocalStoreDir:        t.TempDir(),
		Env:                  "dev",
		ObjectStoreType:      "local",
		JWTSecret:            "test-secret",
		AnalyzeRatePerMinute: 100,
	}
}

func TestBuildServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if app.Engine != nil {
		t.Fatalf("no engine expected without ENGINE_BASE_URL")
	}

	for _, path := range []string{"/api/v1/health", "/metrics"} {
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestBuildAuthenticatesBearerTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.Env)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	token, err := issuer.Sign("user-42", auth.Claims{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var me struct {
		UserID  string `json:"userId"`
		Email   string `json:"email"`
		IsGuest bool   `json:"isGuest"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.UserID != "user-42" || me.Email != "a@example.com" || me.IsGuest {
		t.Fatalf("unexpected identity %+v", me)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func TestBuildDemoAnalyzeRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fit/analyze",
		strings.NewReader(`{"jobUrl":"https://jobs.example.com/7","demoType":"comparison"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "demo-user")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ResultID string `json:"resultId"`
		Demo     bool   `json:"demo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Demo || created.ResultID == "" {
		t.Fatalf("unexpected response %+v", created)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/fit/"+created.ResultID, nil)
	req.Header.Set("X-Guest-Id", "demo-user")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got struct {
		View struct {
			Score      *float64 `json:"score"`
			Dimensions []struct {
				Name  string  `json:"name"`
				Score float64 `json:"score"`
			} `json:"dimensions"`
		} `json:"view"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if got.View.Score == nil || *got.View.Score != 74 {
		t.Fatalf("expected demo score 74, got %v", got.View.Score)
	}
	if len(got.View.Dimensions) == 0 {
		t.Fatalf("expected mined dimensions")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/fit/"+created.ResultID, nil)
	req.Header.Set("X-Guest-Id", "someone-else")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other caller, got %d", resp.Code)
	}
}

func TestBuildRejectsProductionWithoutDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	if _, err := bootstrap.Build(cfg); err == nil {
		t.Fatalf("expected production build without DATABASE_URL to fail")
	}
}

func TestBuildEngineFailsFastByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Engine.BaseURL = "http://engine.invalid"
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if _, ok := app.Engine.(*remote.Client); !ok {
		t.Fatalf("expected the bare engine client without retries, got %T", app.Engine)
	}

	cfg.Engine.RetryAttempts = 2
	app, err = bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if _, ok := app.Engine.(*remote.Client); ok {
		t.Fatalf("expected a retrying client when retries are configured")
	}
}
