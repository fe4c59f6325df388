package mlrest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const defaultAPIVersion = "v1"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	apiVersion string

	user     string
	password string
	headers  http.Header

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithHTTPClient sets the HTTP client used for requests.
// Defaults to a client with a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithAPIVersion sets the REST API version prefixed to endpoints.
// Default: v1.
func WithAPIVersion(version string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiVersion = version
	})
}

// WithBasicAuth sends HTTP basic credentials with every request.
func WithBasicAuth(user, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.user = user
		c.password = password
	})
}

// WithHeader adds a header sent with every request. Per-request headers
// in Settings take precedence.
func WithHeader(key, value string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.headers == nil {
			c.headers = make(http.Header)
		}
		c.headers.Add(key, value)
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
