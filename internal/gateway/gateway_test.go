package gateway

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cms/internal/config"
)

func newTestRouter(t *testing.T, backendURL string) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>cms</html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "assets", "app.js"), []byte("app"), 0644))

	cfg := &config.Config{
		APIBaseURL: backendURL + "/api",
		StaticDir:  staticDir,
	}

	r, err := NewRouter(cfg, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestGateway_ProxiesAPIRequests(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	}))
	defer backend.Close()

	r := newTestRouter(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestGateway_BackendDownReturnsBadGateway(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGateway_ServesSPAWithFallback(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	// Unknown path falls back to index.html for client-side routing.
	req := httptest.NewRequest(http.MethodGet, "/customers/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cms")
}

func TestGateway_CachesAssets(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestGateway_Healthz(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGateway_RejectsInvalidBackendURL(t *testing.T) {
	cfg := &config.Config{APIBaseURL: "://bad", StaticDir: t.TempDir()}
	_, err := NewRouter(cfg, zerolog.Nop())
	require.Error(t, err)
}
