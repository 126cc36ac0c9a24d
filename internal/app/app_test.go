package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsy/skillsy-api/config"
	"github.com/skillsy/skillsy-api/logger"
	"github.com/skillsy/skillsy-api/testutil"
)

const testFrontend = "https://example.com"

// loadConfig runs the real loader with no config or .env file.
func loadConfig(t *testing.T) *Config {
	t.Helper()
	var cfg Config
	require.NoError(t, config.LoadConfig(ServiceName, &cfg,
		config.WithConfigFile(filepath.Join(t.TempDir(), "config.yml")),
		config.WithEnvFile(filepath.Join(t.TempDir(), ".env"))))
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return &cfg
}

func newHandler(t *testing.T, frontendURL string) http.Handler {
	t.Helper()
	cfg := &Config{FrontendURL: frontendURL}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return NewServer(cfg, testutil.Logger()).Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(h, httptest.NewRequest(http.MethodGet, path, nil))
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Custom")
	return testutil.Do(h, req)
}

func TestRoot(t *testing.T) {
	w := get(t, newHandler(t, ""), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"message":"Skillsy API is running"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	w := get(t, newHandler(t, ""), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestResponsesIgnoreQueryAndHeaders(t *testing.T) {
	h := newHandler(t, testFrontend)

	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{"root with query", "/?foo=bar", nil, `{"message":"Skillsy API is running"}`},
		{"health with query", "/health?x=1", nil, `{"status":"healthy"}`},
		{"root accepting html", "/", map[string]string{"Accept": "text/html"}, `{"message":"Skillsy API is running"}`},
		{"root from unlisted origin", "/", map[string]string{"Origin": "https://evil.example"}, `{"message":"Skillsy API is running"}`},
		{"health with arbitrary headers", "/health", map[string]string{
			"X-Custom":      "1",
			"Authorization": "Bearer token",
			"Cookie":        "session=abc",
		}, `{"status":"healthy"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := testutil.Do(h, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}

func TestRoutesAreIdempotent(t *testing.T) {
	h := newHandler(t, "")

	var wg sync.WaitGroup
	bodies := make([]string, 20)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := "/"
			if i%2 == 1 {
				path = "/health"
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			bodies[i] = w.Body.String()
		}(i)
	}
	wg.Wait()

	for i, body := range bodies {
		want := `{"message":"Skillsy API is running"}`
		if i%2 == 1 {
			want = `{"status":"healthy"}`
		}
		assert.JSONEq(t, want, body)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newHandler(t, "")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3000"}, AllowedOrigins(""))
	assert.Equal(t, []string{testFrontend, "http://localhost:3000"}, AllowedOrigins(testFrontend))
}

func TestAllowedOriginsFromEnvironment(t *testing.T) {
	t.Run("unset keeps the duplicate default", func(t *testing.T) {
		testutil.UnsetEnv(t, "FRONTEND_URL")
		cfg := loadConfig(t)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3000"}, AllowedOrigins(cfg.FrontendURL))
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		t.Setenv("FRONTEND_URL", "")
		cfg := loadConfig(t)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3000"}, AllowedOrigins(cfg.FrontendURL))
	})

	t.Run("set", func(t *testing.T) {
		t.Setenv("FRONTEND_URL", testFrontend)
		cfg := loadConfig(t)
		assert.Equal(t, []string{testFrontend, "http://localhost:3000"}, AllowedOrigins(cfg.FrontendURL))
	})

	t.Run("from dotenv file", func(t *testing.T) {
		testutil.UnsetEnv(t, "FRONTEND_URL")
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("FRONTEND_URL="+testFrontend+"\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("FRONTEND_URL") })

		var cfg Config
		require.NoError(t, config.LoadConfig(ServiceName, &cfg,
			config.WithConfigFile(filepath.Join(t.TempDir(), "config.yml")),
			config.WithEnvFile(envFile)))
		assert.Equal(t, []string{testFrontend, "http://localhost:3000"}, AllowedOrigins(cfg.FrontendURL))
	})
}

func TestConfigIgnoresUnrelatedEnvironment(t *testing.T) {
	t.Setenv("DEBUG", "*")
	t.Setenv("SERVER", "nginx")
	t.Setenv("ENVIRONMENT", "prod")
	testutil.UnsetEnv(t, "FRONTEND_URL")

	cfg := loadConfig(t)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{DefaultFrontendURL, DefaultFrontendURL}, AllowedOrigins(cfg.FrontendURL))
}

func TestCORSPolicy(t *testing.T) {
	p := CORSPolicy(testFrontend)
	assert.True(t, p.AllowCredentials)
	assert.Equal(t, []string{"*"}, p.AllowedMethods)
	assert.Equal(t, []string{"*"}, p.AllowedHeaders)
	assert.Equal(t, []string{testFrontend, DefaultFrontendURL}, p.AllowedOrigins)
}

func TestPreflight(t *testing.T) {
	h := newHandler(t, testFrontend)

	for _, origin := range []string{testFrontend, DefaultFrontendURL} {
		w := preflight(h, origin)
		assert.Equal(t, http.StatusOK, w.Code, origin)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Authorization, X-Custom", w.Header().Get("Access-Control-Allow-Headers"))
	}

	w := preflight(h, "https://evil.example")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSimpleCORSRequest(t *testing.T) {
	h := newHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", DefaultFrontendURL)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, DefaultFrontendURL, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", testFrontend)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDocs(t *testing.T) {
	w := get(t, newHandler(t, ""), DocsPath+"doc.json")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Skillsy API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Contains(t, doc.Paths, "/")
	assert.Contains(t, doc.Paths, "/health")
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, ServiceName, cfg.Name)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.False(t, cfg.Observability.Enabled)
	assert.Empty(t, cfg.FrontendURL)
	assert.NoError(t, cfg.Validate())

	info := cfg.ServiceInfo()
	assert.Equal(t, ServiceName, info.Name)
	assert.Equal(t, "development", info.Environment)
}

func TestConfigValidateSections(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Server.Port = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server:")

	cfg = &Config{}
	cfg.ApplyDefaults()
	cfg.Observability.Enabled = true
	cfg.Observability.SampleRate = 2
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "observability:")
}

func TestLifecycleHooks(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	srv := NewServer(cfg, testutil.Logger())

	// Built after the server so its level is the one in effect.
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, ServiceName, &buf)

	onReady, onStop := LifecycleHooks(srv, log)
	require.NoError(t, onReady(context.Background()))
	require.NoError(t, onStop(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "Skillsy API accepting requests")
	assert.Contains(t, out, `"addr":":8000"`)
	assert.Contains(t, out, `"docs":"/docs/"`)
	assert.Contains(t, out, "Skillsy API stopping")
	assert.Contains(t, out, `"uptime"`)
}

func TestConfigFromEnvironment(t *testing.T) {
	testutil.UnsetEnv(t, "SERVER_PORT")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("OBSERVABILITY_ENABLED", "true")
	t.Setenv("LOGGING_LEVEL", "warn")

	var cfg Config
	require.NoError(t, config.LoadConfig(ServiceName, &cfg,
		config.WithConfigFile(filepath.Join(t.TempDir(), "config.yml")),
		config.WithEnvFile(filepath.Join(t.TempDir(), ".env")),
		config.WithEnvAlias("server.port", "PORT")))
	cfg.ApplyDefaults()

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.Observability.Enabled)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
