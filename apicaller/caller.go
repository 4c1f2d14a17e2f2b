package apicaller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/combkit/combkit/logger"
)

// SuccessHook is invoked once per successful (2xx) attempt with the parsed
// body, before the backoff decay is applied. Hooks extract caller-specific
// fields; they must not block.
type SuccessHook func(payload map[string]any)

// Caller performs one logical API call with adaptive retry. Transient
// failures (429, timeouts) are retried indefinitely with the shared backoff
// state of the caller's kind; everything else surfaces immediately.
type Caller struct {
	cfg       Config
	transport Transport
	keyFn     KeyFunc
	hook      SuccessHook
	registry  *Registry
	state     *BackoffState
	log       *logger.Logger

	body  any
	query map[string]string

	result   map[string]any
	lastResp *TransportResponse
}

// Option configures a Caller.
type Option func(*Caller)

// WithTransport injects the transport used for every attempt.
func WithTransport(t Transport) Option {
	return func(c *Caller) { c.transport = t }
}

// WithKeyFunc injects the API-key retrieval callback.
func WithKeyFunc(fn KeyFunc) Option {
	return func(c *Caller) { c.keyFn = fn }
}

// WithSuccessHook sets the hook invoked on each successful attempt.
func WithSuccessHook(hook SuccessHook) Option {
	return func(c *Caller) { c.hook = hook }
}

// WithRegistry uses a private backoff registry instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(c *Caller) { c.registry = r }
}

// WithLogger sets the logger for retry warnings.
func WithLogger(l *logger.Logger) Option {
	return func(c *Caller) { c.log = l }
}

// WithBody sets the request body sent on every attempt.
func WithBody(body any) Option {
	return func(c *Caller) { c.body = body }
}

// WithQuery sets query parameters applied to every attempt.
func WithQuery(params map[string]string) Option {
	return func(c *Caller) { c.query = params }
}

// New creates a caller from a full configuration.
func New(cfg Config, opts ...Option) (*Caller, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Caller{cfg: cfg, registry: DefaultRegistry}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = defaultTransport
	}
	if c.log == nil {
		c.log = logger.WithComponent("apicaller")
	}
	if c.state == nil {
		c.state = c.registry.State(cfg.Kind, cfg)
	}
	return c, nil
}

// NewGet creates a GET caller with read-rate backoff defaults.
func NewGet(url string, opts ...Option) (*Caller, error) {
	return New(Config{Verb: http.MethodGet, URL: url}, opts...)
}

// NewPost creates a POST caller with write-rate backoff defaults.
func NewPost(url string, body any, opts ...Option) (*Caller, error) {
	return New(Config{Verb: http.MethodPost, URL: url}, append(opts, WithBody(body))...)
}

// NewDelete creates a DELETE caller with write-rate backoff defaults.
func NewDelete(url string, opts ...Option) (*Caller, error) {
	return New(Config{Verb: http.MethodDelete, URL: url}, opts...)
}

// defaultTransport is shared by all callers that don't inject their own.
var defaultTransport Transport = NewHTTPTransport()

// Execute runs the call to completion: throttle, attempt, classify,
// dispatch, and loop on transient failure. It returns the parsed body of
// the final successful response (empty map for 204).
//
// The pre-attempt sleep and the transport call both honor ctx; cancelling
// it is the only built-in way to stop a long retry storm.
func (c *Caller) Execute(ctx context.Context) (map[string]any, error) {
	for {
		if err := sleepFn(ctx, c.state.Wait()); err != nil {
			return nil, err
		}

		spec, err := c.buildSpec(ctx)
		if err != nil {
			return nil, err
		}

		resp, rtErr := c.transport.RoundTrip(ctx, spec)
		if ctx.Err() != nil {
			// A cancelled parent context must not be mistaken for a
			// retryable per-attempt timeout.
			return nil, ctx.Err()
		}

		out := Classify(resp, rtErr)
		switch out.Kind {
		case OutcomeSuccess, OutcomeNoContent:
			c.result = out.Payload
			c.lastResp = resp
			if c.hook != nil {
				c.hook(out.Payload)
			}
			c.state.OnSuccess()
			return out.Payload, nil

		case OutcomeRateLimited:
			c.state.OnRateLimited()
			c.log.Warn("rate limited, increasing wait before retry", logger.Fields(
				logger.FieldKind, c.cfg.Kind,
				logger.FieldWait, c.state.Wait().String(),
			))

		case OutcomeTimedOut:
			c.state.OnTimeout()
			c.log.Warn("request timed out, retrying with longer timeout", logger.Fields(
				logger.FieldKind, c.cfg.Kind,
				logger.FieldTimeout, c.state.Timeout().String(),
			))

		case OutcomeHardError:
			return nil, &StatusError{StatusCode: out.StatusCode, Body: out.Body}

		default:
			return nil, fmt.Errorf("apicaller: %s %s: %w", c.cfg.Verb, c.cfg.URL, out.Cause)
		}
	}
}

// Result returns the parsed body of the last successful attempt.
func (c *Caller) Result() map[string]any {
	return c.result
}

// Response returns the raw response of the last successful attempt.
func (c *Caller) Response() *TransportResponse {
	return c.lastResp
}

// Backoff returns the shared backoff state of this caller's kind.
func (c *Caller) Backoff() *BackoffState {
	return c.state
}

// buildSpec assembles the attempt's request from the configuration and the
// current backoff state.
func (c *Caller) buildSpec(ctx context.Context) (*RequestSpec, error) {
	headers := make(map[string]string, len(c.cfg.Headers)+1)
	for k, v := range c.cfg.Headers {
		headers[k] = v
	}
	if c.keyFn != nil {
		key, err := c.keyFn(ctx)
		if err != nil {
			return nil, fmt.Errorf("apicaller: retrieve API key: %w", err)
		}
		c.cfg.Auth.apply(headers, key)
	}
	return &RequestSpec{
		Verb:    c.cfg.Verb,
		URL:     c.cfg.URL,
		Headers: headers,
		Query:   c.query,
		Body:    c.body,
		Timeout: c.state.Timeout(),
	}, nil
}

// sleepFn performs the pre-attempt throttle sleep. A variable so tests can
// substitute an instant sleep.
var sleepFn = sleepCtx

// sleepCtx sleeps for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
