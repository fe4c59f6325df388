// Package proxy is the HTTP middle tier between browser clients and the
// MarkLogic REST API. It authenticates callers with API keys, injects the
// upstream credentials and forwards /<version>/* unchanged.
package proxy

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/joemfb/ml-common-ng/internal/config"
	"github.com/joemfb/ml-common-ng/internal/health"
	"github.com/joemfb/ml-common-ng/internal/metrics"
	"github.com/joemfb/ml-common-ng/internal/version"
	"github.com/joemfb/ml-common-ng/pkg/mlrest"
)

const readinessTimeout = 5 * time.Second

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// NewRouter builds the proxy handler for cfg.
func NewRouter(cfg config.Config, logger *zap.Logger) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	up, err := newUpstream(cfg)
	if err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}
	checker, err := newHealthService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	if len(cfg.Proxy.CORSOrigins) > 0 {
		// Before auth: preflight requests carry no credentials.
		r.Use(newCORS(cfg.Proxy.CORSOrigins).Handler)
	}
	r.Use(BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.Version})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		report := checker.Check(r.Context())
		status := http.StatusOK
		if report.Status != health.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Handle(up.prefix+"/*", up)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	return r, nil
}

// newCORS allows the REST verbs and the headers the client library sends,
// and exposes Location for document writes.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", "X-HTTP-Method-Override"},
		ExposedHeaders: []string{"Location", "X-Request-ID", "Content-Type"},
		MaxAge:         600,
	})
}

// newHealthService checks the upstream REST instance with the proxy's own
// credentials.
func newHealthService(cfg config.Config, logger *zap.Logger) (*health.Service, error) {
	opts := []mlrest.Option{
		mlrest.WithAPIVersion(cfg.Upstream.APIVersion),
		mlrest.WithHTTPClient(&http.Client{Timeout: readinessTimeout}),
		mlrest.WithLogger(logger.Named("readiness")),
		mlrest.WithPrometheus(prometheus.DefaultRegisterer),
	}
	if cfg.Upstream.User != "" {
		opts = append(opts, mlrest.WithBasicAuth(cfg.Upstream.User, cfg.Upstream.Password))
	}
	client, err := mlrest.New(cfg.Upstream.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("readiness client: %w", err)
	}
	return health.New(map[string]health.Pinger{"upstream": client}, readinessTimeout), nil
}
