package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joemfb/ml-common-ng/internal/config"
	logpkg "github.com/joemfb/ml-common-ng/internal/logger"
	"github.com/joemfb/ml-common-ng/internal/metrics"
)

// knownEndpoints bounds the endpoint label of the upstream metrics.
var knownEndpoints = map[string]struct{}{
	"search":       {},
	"suggest":      {},
	"values":       {},
	"documents":    {},
	"graphs":       {},
	"resources":    {},
	"config":       {},
	"qbe":          {},
	"keyvalue":     {},
	"transactions": {},
	"rows":         {},
	"eval":         {},
	"invoke":       {},
	"alert":        {},
	"ping":         {},
}

type endpointKey struct{}

// upstream forwards /<version>/* requests to the MarkLogic REST server.
type upstream struct {
	prefix  string // "/v1"
	allowed []string
	proxy   *httputil.ReverseProxy
}

func newUpstream(cfg config.Config) (*upstream, error) {
	target, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", cfg.Upstream.URL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = time.Duration(cfg.Upstream.TimeoutSec) * time.Second

	user, password := cfg.Upstream.User, cfg.Upstream.Password
	u := &upstream{
		prefix:  "/" + cfg.Upstream.APIVersion,
		allowed: cfg.Proxy.AllowedPrefixes,
	}
	u.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// Caller credentials are for the proxy, never for MarkLogic.
			pr.Out.Header.Del("Authorization")
			if user != "" {
				pr.Out.SetBasicAuth(user, password)
			}
		},
		Transport:      transport,
		ModifyResponse: u.modifyResponse,
		ErrorHandler:   u.errorHandler,
	}
	return u, nil
}

// ServeHTTP rejects non-canonical paths and paths outside the allowed
// prefixes, and proxies the rest.
func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, u.prefix)
	if !isCanonical(rest) {
		metrics.UpstreamRejectedTotal.WithLabelValues("path").Inc()
		writeError(w, http.StatusBadRequest, codeBadPath, "path must not contain dot segments or empty segments")
		return
	}
	if !u.isAllowed(rest) {
		metrics.UpstreamRejectedTotal.WithLabelValues("prefix").Inc()
		writeError(w, http.StatusForbidden, codeForbidden, "path is not allowed")
		return
	}
	endpoint := endpointOf(rest)
	ctx := context.WithValue(r.Context(), endpointKey{}, endpoint)
	ctx = logpkg.WithFields(ctx, zap.String("endpoint", endpoint))
	u.proxy.ServeHTTP(w, r.WithContext(ctx))
}

// isCanonical reports whether rest is already in clean form. r.URL.Path is
// decoded, so "%2e%2e" and "%2F" are caught here as well. A single trailing
// slash is kept by MarkLogic and allowed.
func isCanonical(rest string) bool {
	if rest == "" || rest == "/" {
		return true
	}
	cleaned := path.Clean(rest)
	if strings.HasSuffix(rest, "/") {
		cleaned += "/"
	}
	return cleaned == rest
}

// isAllowed matches rest against the allowed prefixes on segment boundaries,
// so "/search" allows "/search" and "/search/x" but not "/searchable".
func (u *upstream) isAllowed(rest string) bool {
	if len(u.allowed) == 0 {
		return true
	}
	for _, p := range u.allowed {
		p = strings.TrimSuffix(p, "/")
		if p == "" || rest == p || strings.HasPrefix(rest, p+"/") {
			return true
		}
	}
	return false
}

func (u *upstream) modifyResponse(resp *http.Response) error {
	endpoint := endpointFromContext(resp.Request.Context())
	metrics.UpstreamResponsesTotal.WithLabelValues(endpoint, metrics.StatusClass(resp.StatusCode)).Inc()
	return nil
}

func (u *upstream) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	endpoint := endpointFromContext(r.Context())
	if errors.Is(err, context.Canceled) {
		// Client went away; nothing useful to write.
		logpkg.FromContext(r.Context()).Debug("upstream request canceled")
		w.WriteHeader(499)
		return
	}
	metrics.UpstreamErrorsTotal.WithLabelValues(endpoint).Inc()
	logpkg.FromContext(r.Context()).Error("upstream request failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, codeBadGateway, "upstream unavailable")
}

// endpointOf returns the first path segment of rest when it is a known
// REST endpoint, "other" otherwise.
func endpointOf(rest string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(rest, "/"), "/")
	if _, ok := knownEndpoints[seg]; ok {
		return seg
	}
	return "other"
}

func endpointFromContext(ctx context.Context) string {
	if e, ok := ctx.Value(endpointKey{}).(string); ok {
		return e
	}
	return "other"
}
