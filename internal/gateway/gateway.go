package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/cms/internal/config"
)

// NewRouter builds the admin UI gateway: the SPA bundle with index.html
// fallback, an /api/ reverse proxy to the customer backend, health, and
// Prometheus metrics.
func NewRouter(cfg *config.Config, logger zerolog.Logger) (chi.Router, error) {
	target, err := url.Parse(strings.TrimSuffix(cfg.APIBaseURL, "/api"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.APIBaseURL, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("backend proxy error")
		w.WriteHeader(http.StatusBadGateway)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(Metrics)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Proxy API requests to the customer backend.
	r.Handle("/api/*", proxy)

	// Serve the SPA with fallback to index.html.
	r.Handle("/*", spaHandler{staticDir: cfg.StaticDir})

	return r, nil
}

type spaHandler struct {
	staticDir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := h.staticDir + r.URL.Path

	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		// Serve index.html for SPA routing.
		http.ServeFile(w, r, h.staticDir+"/index.html")
		return
	}

	// Cache static assets aggressively.
	if strings.Contains(r.URL.Path, "/assets/") {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}

	http.ServeFile(w, r, path)
}
