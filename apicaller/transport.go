package apicaller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestSpec describes one attempt's outbound request. It is rebuilt for
// every attempt from the caller configuration and the current backoff state,
// so a grown timeout takes effect on the next try.
type RequestSpec struct {
	// Verb is the HTTP method (GET, POST, DELETE).
	Verb string
	// URL is the fully resolved target URL.
	URL string
	// Headers are request headers, including any auth header.
	Headers map[string]string
	// Query are URL query parameters merged into the URL.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any
	// value that will be JSON-encoded.
	Body any
	// Timeout bounds the whole attempt.
	Timeout time.Duration
}

// TransportResponse is the raw result of one attempt.
type TransportResponse struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// JSON returns the parsed body, or an empty map if the body is not a JSON
// object. It never fails.
func (r *TransportResponse) JSON() map[string]any {
	return decodeBody(r.Body)
}

// Transport performs one HTTP attempt. Implementations return the error from
// the wire unwrapped so classification can recognize timeouts.
type Transport interface {
	RoundTrip(ctx context.Context, spec *RequestSpec) (*TransportResponse, error)
}

// HTTPTransport is the default Transport built on net/http. The per-attempt
// timeout comes from the RequestSpec via the request context, not from the
// http.Client, so a single transport can serve callers with diverging
// timeouts.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with a cloned default net/http
// transport.
func NewHTTPTransport() *HTTPTransport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	return &HTTPTransport{client: &http.Client{Transport: t}}
}

// NewHTTPTransportFromClient wraps an existing http.Client. The client's own
// Timeout should be zero; spec timeouts are applied per attempt.
func NewHTTPTransportFromClient(c *http.Client) *HTTPTransport {
	return &HTTPTransport{client: c}
}

// RoundTrip executes one attempt described by spec.
func (t *HTTPTransport) RoundTrip(ctx context.Context, spec *RequestSpec) (*TransportResponse, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	body, contentType, err := encodeBody(spec.Body)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("encode body: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, spec.Verb, spec.URL, body)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("create request: %v", err)}
	}

	if len(spec.Query) > 0 {
		q := req.URL.Query()
		for k, v := range spec.Query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// Tag each attempt so retries are distinguishable in remote logs.
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       raw,
	}, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
