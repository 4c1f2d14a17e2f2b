package apicaller

import (
	"context"
	"fmt"
)

// Page is one collected page: the raw response plus the cursor that led out
// of it.
type Page struct {
	// StatusCode is the page response's HTTP status.
	StatusCode int
	// Headers are the page response's headers.
	Headers map[string]string
	// Body is the page's parsed JSON body.
	Body map[string]any
	// NextPageToken is the cursor extracted from Body, empty on the last
	// page.
	NextPageToken string
}

// PagedFactory constructs the caller for one page URL. CollectPagesWith
// invokes it once per page, so each page gets a fresh caller while all of
// them share one backoff state through the caller kind.
type PagedFactory func(pageURL string) (*PagedCaller, error)

// CollectPages fetches every page starting at baseURL, merging params into
// the first request. Pages are collected eagerly and in order; page counts
// are bounded by the remote API and call time dominates cost, so there is
// no need to stream.
//
// A hard error on any page aborts the whole sequence; pages already
// collected are discarded.
func CollectPages(ctx context.Context, baseURL string, params map[string]string, opts ...Option) ([]Page, error) {
	base, err := mergeQueryParams(baseURL, params)
	if err != nil {
		return nil, err
	}
	return CollectPagesWith(ctx, base, func(pageURL string) (*PagedCaller, error) {
		return NewPaged(pageURL, nil, opts...)
	})
}

// CollectPagesWith fetches every page starting at baseURL, constructing
// each page's caller through factory. The next page's URL is the base URL
// with the cursor appended as the pageToken query parameter.
func CollectPagesWith(ctx context.Context, baseURL string, factory PagedFactory) ([]Page, error) {
	var pages []Page
	pageURL := baseURL
	for {
		p, err := factory(pageURL)
		if err != nil {
			return nil, err
		}
		body, err := p.Execute(ctx)
		if err != nil {
			return nil, err
		}

		page := Page{Body: body, NextPageToken: p.NextPageToken}
		if resp := p.Response(); resp != nil {
			page.StatusCode = resp.StatusCode
			page.Headers = resp.Headers
		}
		pages = append(pages, page)

		if p.NextPageToken == "" {
			return pages, nil
		}
		pageURL = cursorURL(baseURL, p.NextPageToken)
	}
}

// ConcatPages extracts the list under dataKey from every page body and
// concatenates them in page order. A page without the key, or with a
// non-list value, fails with a DataShapeError.
func ConcatPages(pages []Page, dataKey string) ([]any, error) {
	var out []any
	for i, page := range pages {
		v, ok := page.Body[dataKey]
		if !ok {
			return nil, &DataShapeError{Key: dataKey, Message: fmt.Sprintf("missing from page %d", i)}
		}
		list, ok := v.([]any)
		if !ok {
			return nil, &DataShapeError{Key: dataKey, Message: fmt.Sprintf("is not a list on page %d", i)}
		}
		out = append(out, list...)
	}
	return out, nil
}
