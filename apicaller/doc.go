// Package apicaller provides a resilient foundation for clients of remote
// HTTP APIs, including paginated endpoints.
//
// A Caller owns one logical API call: it throttles before every attempt,
// performs the request through a pluggable Transport, classifies the
// response, and retries transient failures (429 and timeouts) with adaptive
// backoff. Wait time and timeout live in a BackoffState shared by every
// caller of the same kind, so repeated calls against the same endpoint adapt
// together.
//
// # Basic Usage
//
//	caller, err := apicaller.NewGet("https://api.example.com/v1/items",
//	    apicaller.WithKeyFunc(func(ctx context.Context) (string, error) {
//	        return os.Getenv("EXAMPLE_API_KEY"), nil
//	    }))
//	if err != nil {
//	    return err
//	}
//	body, err := caller.Execute(ctx)
//
// # Pagination
//
//	pages, err := apicaller.CollectPages(ctx, url, map[string]string{
//	    "filter.startsGte": "2025-01-01",
//	})
//	if err != nil {
//	    return err
//	}
//	items, err := apicaller.ConcatPages(pages, "data")
//
// Rate-limited and timed-out attempts are retried indefinitely; the package
// assumes an operator watches long-running processes and intervenes if a
// storm runs too long. Cancel the context to stop a retry loop externally.
package apicaller
