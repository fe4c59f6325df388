package mlrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second

	headerMethodOverride = "X-HTTP-Method-Override"
	contentTypeJSON      = "application/json"
)

// versionedEndpoint matches endpoints that already carry an API version.
var versionedEndpoint = regexp.MustCompile(`^/v\d+/`)

// Client talks to the MarkLogic REST API. It is safe for concurrent use.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	apiVersion string

	user     string
	password string
	headers  http.Header

	logger *zap.Logger
	obs    *observer
}

// Settings describes a single REST request.
type Settings struct {
	// Method defaults to GET. Methods other than GET, PUT, POST and DELETE
	// are tunneled through POST with an X-HTTP-Method-Override header.
	Method string
	// Params are encoded as the query string.
	Params url.Values
	// Headers are added to the request, overriding client defaults.
	Headers http.Header
	// Data is the request body. []byte, string and io.Reader are sent as
	// is; any other value is JSON-encoded.
	Data any
}

// New creates a Client for the server at baseURL, e.g. http://localhost:8000.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mlrest: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("mlrest: base url %q must use http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("mlrest: base url %q has no host", baseURL)
	}

	cfg := &clientConfig{apiVersion: defaultAPIVersion}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.apiVersion == "" {
		cfg.apiVersion = defaultAPIVersion
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, fmt.Errorf("create observer: %w", err)
	}

	return &Client{
		base:       base,
		httpClient: cfg.httpClient,
		apiVersion: strings.Trim(cfg.apiVersion, "/"),
		user:       cfg.user,
		password:   cfg.password,
		headers:    cfg.headers.Clone(),
		logger:     logger,
		obs:        obs,
	}, nil
}

// Request performs a raw REST request. Endpoints that already start with a
// version segment such as /v1/ are used verbatim; others are prefixed with
// the configured API version.
func (c *Client) Request(ctx context.Context, endpoint string, s Settings) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("request", start, err) }()

	resp, err := c.do(ctx, endpoint, s)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// URL returns the absolute URL for endpoint, resolved like Request does.
func (c *Client) URL(endpoint string, params url.Values) string {
	return c.resolve(endpoint, params).String()
}

func (c *Client) resolve(endpoint string, params url.Values) *url.URL {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if !versionedEndpoint.MatchString(endpoint) {
		endpoint = "/" + c.apiVersion + endpoint
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + endpoint
	u.RawPath = ""
	u.RawQuery = params.Encode()
	return &u
}

func (c *Client) do(ctx context.Context, endpoint string, s Settings) (*Response, error) {
	method := strings.ToUpper(s.Method)
	if method == "" {
		method = http.MethodGet
	}
	headers := c.headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	for k, vs := range s.Headers {
		headers[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if !isSupportedMethod(method) {
		headers.Set(headerMethodOverride, method)
		method = http.MethodPost
	}

	body, isJSON, err := encodeBody(s.Data)
	if err != nil {
		return nil, err
	}
	if isJSON && headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", contentTypeJSON)
	}

	u := c.resolve(endpoint, s.Params)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header = headers
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	c.logger.Debug("sending request",
		zap.String("method", method),
		zap.String("url", u.Redacted()),
	)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			URL:        u.Redacted(),
			StatusCode: httpResp.StatusCode,
			Body:       data,
		}
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

func isSupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete:
		return true
	default:
		return false
	}
}

// encodeBody returns the request body for data and whether it was JSON-encoded.
func encodeBody(data any) (io.Reader, bool, error) {
	switch v := data.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return bytes.NewReader(v), false, nil
	case string:
		return strings.NewReader(v), false, nil
	case io.Reader:
		return v, false, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false, fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(b), true, nil
	}
}

// withParams copies params and applies set on the copy.
func withParams(params url.Values, set func(url.Values)) url.Values {
	out := make(url.Values, len(params)+2)
	for k, vs := range params {
		out[k] = append([]string(nil), vs...)
	}
	if set != nil {
		set(out)
	}
	return out
}

// defaultFormat sets format=json unless a format is already present.
func defaultFormat(v url.Values) {
	if v.Get("format") == "" {
		v.Set("format", "json")
	}
}
