package mlrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joemfb/ml-common-ng/pkg/qb"
)

// SPARQL response formats accepted by Sparql.
const (
	SparqlResultsJSON = "application/sparql-results+json"
	RDFJSON           = "application/rdf+json"
)

// Search runs a search. format defaults to json. When combined is non-nil
// it is POSTed as the request body; otherwise the search is a GET driven by
// params alone (q, structuredQuery, options, ...).
func (c *Client) Search(ctx context.Context, params url.Values, combined *qb.CombinedQuery) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.do(ctx, "/search", withCombined(Settings{
		Params: withParams(params, defaultFormat),
	}, combined))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return resp, nil
}

// Suggest requests search suggestions; the partial query goes in
// params["partial-q"].
func (c *Client) Suggest(ctx context.Context, params url.Values, combined *qb.CombinedQuery) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	resp, err := c.do(ctx, "/suggest", withCombined(Settings{
		Params: withParams(params, nil),
	}, combined))
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return resp, nil
}

// Values lists lexicon values for the named values definition.
func (c *Client) Values(ctx context.Context, name string, params url.Values, combined *qb.CombinedQuery) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("values", start, err) }()

	resp, err := c.do(ctx, "/values/"+name, withCombined(Settings{
		Params: withParams(params, nil),
	}, combined))
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	return resp, nil
}

// Sparql runs a SPARQL query. format is sent as the Accept header: RDFJSON
// for CONSTRUCT and DESCRIBE graphs, anything else falls back to
// SparqlResultsJSON.
func (c *Client) Sparql(ctx context.Context, query, format string, params url.Values) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("sparql", start, err) }()

	resp, err := c.do(ctx, "/graphs/sparql", Settings{
		Params: withParams(params, func(v url.Values) {
			v.Set("query", query)
		}),
		Headers: http.Header{"Accept": {sparqlAccept(format)}},
	})
	if err != nil {
		return nil, fmt.Errorf("sparql: %w", err)
	}
	return resp, nil
}

func sparqlAccept(format string) string {
	if format == RDFJSON {
		return RDFJSON
	}
	return SparqlResultsJSON
}

// QueryConfig fetches the named query options, or one section of them.
func (c *Client) QueryConfig(ctx context.Context, name, section string) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("config.query", start, err) }()

	endpoint := "/config/query/" + name
	if section != "" {
		endpoint += "/" + section
	}
	resp, err := c.do(ctx, endpoint, Settings{
		Params: url.Values{"format": {"json"}},
	})
	if err != nil {
		return nil, fmt.Errorf("query config: %w", err)
	}
	return resp, nil
}

// GetSearchOptions is the old name of QueryConfig.
//
// Deprecated: use QueryConfig.
func (c *Client) GetSearchOptions(ctx context.Context, name string) (*Response, error) {
	return c.QueryConfig(ctx, name, "")
}

// Extension calls the named REST resource extension.
func (c *Client) Extension(ctx context.Context, name string, s Settings) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("extension", start, err) }()

	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	s.Params = withParams(s.Params, nil)
	resp, err := c.do(ctx, "/resources"+name, s)
	if err != nil {
		return nil, fmt.Errorf("extension %s: %w", strings.TrimPrefix(name, "/"), err)
	}
	return resp, nil
}

// CallExtension is the old name of Extension.
//
// Deprecated: use Extension.
func (c *Client) CallExtension(ctx context.Context, name string, s Settings) (*Response, error) {
	return c.Extension(ctx, name, s)
}

func withCombined(s Settings, combined *qb.CombinedQuery) Settings {
	if combined != nil {
		s.Method = http.MethodPost
		s.Data = combined
	}
	return s
}

// Ping checks that the REST instance is up.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if _, err = c.do(ctx, "/ping", Settings{}); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
