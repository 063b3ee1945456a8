package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// RequestDescriptor holds everything needed to send a request over REST
type RequestDescriptor struct {
	EndpointPath string
	HTTPMethod   string
	QueryParams  map[string]string
	Body         []byte
}

// NewRequestDescriptor validates req (if it implements Validator) and captures its REST form.
// The returned error is the request's *common.ValidationError.
func NewRequestDescriptor(req Request) (*RequestDescriptor, error) {
	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	params := make(map[string]string)
	for k, v := range req.Params() {
		params[k] = v
	}

	var body []byte
	if entity := req.Entity(); entity != nil {
		body = make([]byte, len(entity))
		copy(body, entity)
	}

	return &RequestDescriptor{
		EndpointPath: req.Endpoint(),
		HTTPMethod:   req.Method(),
		QueryParams:  params,
		Body:         body,
	}, nil
}

// URL returns the full request url below baseURL with the query parameters encoded
func (d *RequestDescriptor) URL(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(d.EndpointPath, "/")
	u.RawPath = ""

	query := u.Query()
	for k, v := range d.QueryParams {
		query.Set(k, v)
	}
	u.RawQuery = query.Encode()
	return &u, nil
}

// HTTPRequest builds (but does not send) the http request for the descriptor
func (d *RequestDescriptor) HTTPRequest(ctx context.Context, baseURL string) (*http.Request, error) {
	u, err := d.URL(baseURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, d.HTTPMethod, u.String(), bytes.NewReader(d.Body))
	if err != nil {
		return nil, err
	}
	if len(d.Body) > 0 {
		req.Header.Set("Content-Type", "text/plain; charset=UTF-8")
	}
	return req, nil
}

// String renders the descriptor as "METHOD /path?query (N bytes)"
func (d *RequestDescriptor) String() string {
	query := make(url.Values, len(d.QueryParams))
	for k, v := range d.QueryParams {
		query.Set(k, v)
	}

	path := "/" + strings.TrimPrefix(d.EndpointPath, "/")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return fmt.Sprintf("%s %s (%d bytes)", d.HTTPMethod, path, len(d.Body))
}
