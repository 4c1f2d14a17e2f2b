package apicaller

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/combkit/combkit/logger"
)

func nopLogger() *logger.Logger { return logger.NewNop() }

// scriptedTransport plays back a fixed sequence of results and records the
// spec of every attempt.
type scriptedTransport struct {
	mu    sync.Mutex
	steps []scriptStep
	specs []*RequestSpec
}

type scriptStep struct {
	resp *TransportResponse
	err  error
}

func respond(status int, body string) scriptStep {
	return scriptStep{resp: &TransportResponse{StatusCode: status, Headers: map[string]string{}, Body: []byte(body)}}
}

func fail(err error) scriptStep {
	return scriptStep{err: err}
}

func script(steps ...scriptStep) *scriptedTransport {
	return &scriptedTransport{steps: steps}
}

func (s *scriptedTransport) RoundTrip(_ context.Context, spec *RequestSpec) (*TransportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs = append(s.specs, spec)
	if len(s.steps) == 0 {
		return &TransportResponse{StatusCode: http.StatusOK, Body: []byte("{}")}, nil
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.resp, step.err
}

func (s *scriptedTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.specs)
}

func (s *scriptedTransport) urls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.specs))
	for i, spec := range s.specs {
		out[i] = spec.URL
	}
	return out
}

// fastConfig keeps retry sleeps in the microsecond range so tests stay fast.
func fastConfig(verb, url string) Config {
	return Config{
		Verb:           verb,
		URL:            url,
		Kind:           verb + " " + url,
		MinWait:        time.Microsecond,
		InitialWait:    time.Microsecond,
		Timeout:        time.Second,
		IncreaseScalar: 2.0,
		DecreaseStep:   time.Microsecond,
	}
}

// instantSleep replaces the throttle sleep for the duration of one test, so
// retry loops with realistic wait configs don't slow the suite down.
func instantSleep(t *testing.T) {
	t.Helper()
	orig := sleepFn
	sleepFn = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	t.Cleanup(func() { sleepFn = orig })
}

// testOpts silences logging and isolates backoff state per test.
func testOpts(t *testing.T, st Transport, extra ...Option) []Option {
	t.Helper()
	opts := []Option{
		WithTransport(st),
		WithRegistry(NewRegistry()),
		WithLogger(nopLogger()),
	}
	return append(opts, extra...)
}
