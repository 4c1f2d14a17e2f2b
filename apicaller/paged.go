package apicaller

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Pagination field names shared by the APIs this library targets.
const (
	// CursorField is the response body key carrying the next-page token.
	CursorField = "nextPageToken"
	// CursorParam is the query parameter carrying the token on the next
	// request.
	CursorParam = "pageToken"
)

// PagedCaller is a GET caller for one page of a paginated endpoint. Its
// success hook extracts the next-page token from the response body; an
// absent or empty token means the last page was reached.
type PagedCaller struct {
	caller  *Caller
	pageURL string

	// NextPageToken is the cursor extracted from the last successful
	// response. Empty means no further pages.
	NextPageToken string
}

// NewPaged creates a caller for one page. The page URL may already carry a
// query string (including a pagination cursor); params are merged into it.
// A query key present both in the URL and in params is ambiguous and
// rejected with a ConfigError before any network interaction.
func NewPaged(pageURL string, params map[string]string, opts ...Option) (*PagedCaller, error) {
	merged, err := mergeQueryParams(pageURL, params)
	if err != nil {
		return nil, err
	}

	p := &PagedCaller{pageURL: merged}
	c, err := New(Config{Verb: http.MethodGet, URL: merged}, opts...)
	if err != nil {
		return nil, err
	}

	// Chain the cursor extraction in front of any user-supplied hook.
	userHook := c.hook
	c.hook = func(payload map[string]any) {
		p.captureToken(payload)
		if userHook != nil {
			userHook(payload)
		}
	}
	p.caller = c
	return p, nil
}

// Execute fetches the page, retrying transient failures like any caller.
func (p *PagedCaller) Execute(ctx context.Context) (map[string]any, error) {
	return p.caller.Execute(ctx)
}

// PageURL returns the resolved URL of this page, with params merged in.
func (p *PagedCaller) PageURL() string {
	return p.pageURL
}

// Response returns the raw response of the last successful attempt.
func (p *PagedCaller) Response() *TransportResponse {
	return p.caller.Response()
}

// captureToken pulls the cursor out of a successful page body. A missing
// field, a null, or a non-string all mean end-of-pages.
func (p *PagedCaller) captureToken(payload map[string]any) {
	if tok, ok := payload[CursorField].(string); ok {
		p.NextPageToken = tok
		return
	}
	p.NextPageToken = ""
}

// mergeQueryParams appends params to rawURL's query string, failing fast on
// a key that already appears there.
func mergeQueryParams(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &ConfigError{Message: fmt.Sprintf("parse page URL %q: %v", rawURL, err)}
	}
	q := u.Query()
	for k, v := range params {
		if q.Has(k) {
			return "", &ConfigError{Message: fmt.Sprintf("duplicate query key %q in page URL and params", k)}
		}
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// cursorURL builds the next page's URL from the base page URL and a token,
// appending with "?" or "&" depending on whether a query string exists.
func cursorURL(baseURL, token string) string {
	if token == "" {
		return baseURL
	}
	sep := "?"
	for _, r := range baseURL {
		if r == '?' {
			sep = "&"
			break
		}
	}
	return baseURL + sep + CursorParam + "=" + url.QueryEscape(token)
}
