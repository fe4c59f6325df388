package mlrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const documentsEndpoint = "/documents"

// GetDocument fetches the document at uri. format defaults to json.
func (c *Client) GetDocument(ctx context.Context, uri string, params url.Values) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("document.get", start, err) }()

	resp, err := c.do(ctx, documentsEndpoint, Settings{
		Params: withParams(params, func(v url.Values) {
			v.Set("uri", uri)
			defaultFormat(v)
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return resp, nil
}

// CreateDocument inserts doc and returns the Location of the new document.
// The target uri, collections and the like are passed in params.
func (c *Client) CreateDocument(ctx context.Context, doc any, params url.Values) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("document.create", start, err) }()

	resp, err := c.do(ctx, documentsEndpoint, Settings{
		Method: http.MethodPost,
		Params: withParams(params, nil),
		Data:   doc,
	})
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return resp.Location(), nil
}

// UpdateDocument writes doc and returns the Location header.
func (c *Client) UpdateDocument(ctx context.Context, doc any, params url.Values) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("document.update", start, err) }()

	resp, err := c.do(ctx, documentsEndpoint, Settings{
		Method: http.MethodPut,
		Params: withParams(params, nil),
		Data:   doc,
	})
	if err != nil {
		return "", fmt.Errorf("update document: %w", err)
	}
	return resp.Location(), nil
}

// PatchDocument applies patch to the document at uri and returns the
// Location header. PATCH is tunneled through POST.
func (c *Client) PatchDocument(ctx context.Context, uri string, patch any) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("document.patch", start, err) }()

	resp, err := c.do(ctx, documentsEndpoint, Settings{
		Method: http.MethodPatch,
		Params: url.Values{"uri": {uri}},
		Data:   patch,
	})
	if err != nil {
		return "", fmt.Errorf("patch document: %w", err)
	}
	return resp.Location(), nil
}

// DeleteDocument removes the document at uri.
func (c *Client) DeleteDocument(ctx context.Context, uri string, params url.Values) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("document.delete", start, err) }()

	_, err = c.do(ctx, documentsEndpoint, Settings{
		Method: http.MethodDelete,
		Params: withParams(params, func(v url.Values) {
			v.Set("uri", uri)
		}),
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Patch is the old name of PatchDocument.
//
// Deprecated: use PatchDocument.
func (c *Client) Patch(ctx context.Context, uri string, patch any) (string, error) {
	return c.PatchDocument(ctx, uri, patch)
}
