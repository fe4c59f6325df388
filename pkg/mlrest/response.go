package mlrest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a successful REST response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Location returns the Location header, set by document writes.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}
