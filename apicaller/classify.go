package apicaller

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
)

// OutcomeKind classifies the result of one call attempt.
type OutcomeKind uint8

const (
	// OutcomeSuccess is a 2xx response with a (possibly empty) body.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeNoContent is a 204 response.
	OutcomeNoContent
	// OutcomeRateLimited is a 429 response; the attempt will be retried.
	OutcomeRateLimited
	// OutcomeTimedOut is a transport-level timeout; the attempt will be retried.
	OutcomeTimedOut
	// OutcomeHardError is any other non-2xx status; never retried.
	OutcomeHardError
	// OutcomeUnknown is any transport error not recognized as a timeout;
	// surfaced to the caller unchanged.
	OutcomeUnknown
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoContent:
		return "no_content"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeHardError:
		return "hard_error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one call attempt.
type Outcome struct {
	// Kind tags which of the remaining fields are meaningful.
	Kind OutcomeKind
	// Payload is the parsed JSON body (OutcomeSuccess, OutcomeNoContent).
	Payload map[string]any
	// StatusCode is the HTTP status (OutcomeHardError).
	StatusCode int
	// Body is the raw response body (OutcomeHardError).
	Body []byte
	// Cause is the transport error (OutcomeTimedOut, OutcomeUnknown).
	Cause error
}

// Classify maps one transport result to an Outcome. It is pure: no state is
// read or mutated, and it never fails. A 2xx body that is not valid JSON
// degrades to an empty payload rather than an error.
func Classify(resp *TransportResponse, err error) Outcome {
	if err != nil {
		if isTimeout(err) {
			return Outcome{Kind: OutcomeTimedOut, Cause: err}
		}
		return Outcome{Kind: OutcomeUnknown, Cause: err}
	}
	switch {
	case resp.StatusCode == http.StatusNoContent:
		return Outcome{Kind: OutcomeNoContent, Payload: map[string]any{}}
	case resp.StatusCode == http.StatusTooManyRequests:
		return Outcome{Kind: OutcomeRateLimited}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Outcome{Kind: OutcomeSuccess, Payload: decodeBody(resp.Body)}
	default:
		return Outcome{Kind: OutcomeHardError, StatusCode: resp.StatusCode, Body: resp.Body}
	}
}

// isTimeout reports whether a transport error is a timeout, covering both
// net-level deadlines and context deadline expiry.
func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}

// decodeBody parses a JSON object body. Anything unparsable, including an
// empty body or a non-object document, yields an empty map.
func decodeBody(body []byte) map[string]any {
	m := map[string]any{}
	if len(body) == 0 {
		return m
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return map[string]any{}
	}
	return m
}
