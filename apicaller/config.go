package apicaller

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/combkit/combkit/validation"
)

// Default rate-limit tuning. Reads are throttled less than writes because
// the remote APIs this library grew up against allow roughly twice the read
// rate.
const (
	// DefaultReadMinWait is the wait-time floor for GET callers.
	DefaultReadMinWait = 100 * time.Millisecond
	// DefaultWriteMinWait is the wait-time floor for POST and DELETE callers.
	DefaultWriteMinWait = 200 * time.Millisecond
	// DefaultTimeout is the initial per-attempt timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultIncreaseScalar multiplies wait on 429 and timeout on timeout.
	DefaultIncreaseScalar = 2.0
	// DefaultDecreaseStep is subtracted from wait after each success.
	DefaultDecreaseStep = 600 * time.Millisecond
)

// Config configures one caller kind.
type Config struct {
	// Kind identifies the backoff state this caller shares. Callers with
	// equal kinds adapt together. Defaults to the verb plus the URL
	// stripped of its query string.
	Kind string `yaml:"kind" mapstructure:"kind"`

	// Verb is the HTTP method.
	Verb string `yaml:"verb" mapstructure:"verb" validate:"required,oneof=GET POST DELETE"`

	// URL is the target URL.
	URL string `yaml:"url" mapstructure:"url" validate:"required,url"`

	// MinWait is the floor the pre-attempt wait decays toward. Defaults by
	// verb: DefaultReadMinWait for GET, DefaultWriteMinWait otherwise.
	MinWait time.Duration `yaml:"min_wait" mapstructure:"min_wait" validate:"gt=0"`

	// InitialWait is the starting wait. Defaults to MinWait and is raised
	// to it if configured lower.
	InitialWait time.Duration `yaml:"initial_wait" mapstructure:"initial_wait" validate:"gt=0"`

	// Timeout is the initial per-attempt timeout. It only grows.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// IncreaseScalar multiplies wait/timeout on transient failure. Must
	// exceed 1 or the retry loop would never back off.
	IncreaseScalar float64 `yaml:"increase_scalar" mapstructure:"increase_scalar" validate:"gt=1"`

	// DecreaseStep is subtracted from wait after a success.
	DecreaseStep time.Duration `yaml:"decrease_step" mapstructure:"decrease_step" validate:"gt=0"`

	// Headers are applied to every attempt.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures how the KeyFunc result is applied. Nil means bearer.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with verb-appropriate defaults.
func (c *Config) ApplyDefaults() {
	if c.Verb == "" {
		c.Verb = http.MethodGet
	}
	if c.MinWait <= 0 {
		if c.Verb == http.MethodGet {
			c.MinWait = DefaultReadMinWait
		} else {
			c.MinWait = DefaultWriteMinWait
		}
	}
	if c.InitialWait <= 0 {
		c.InitialWait = c.MinWait
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.IncreaseScalar == 0 {
		c.IncreaseScalar = DefaultIncreaseScalar
	}
	if c.DecreaseStep <= 0 {
		c.DecreaseStep = DefaultDecreaseStep
	}
	if c.Kind == "" {
		c.Kind = kindFor(c.Verb, c.URL)
	}
}

// Validate checks that the configuration is complete and positive.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return &ConfigError{Message: err.Error()}
	}
	return nil
}

// kindFor derives the default caller kind: verb plus URL without its query
// string, so paginated pages of one endpoint share one backoff state.
func kindFor(verb, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Sprintf("%s %s", verb, rawURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return fmt.Sprintf("%s %s", verb, u.String())
}
