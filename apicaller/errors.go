package apicaller

import (
	"errors"
	"fmt"
)

// StatusError reports a non-2xx, non-429 HTTP response. It is never
// retried: statuses outside the transient set indicate the request itself
// is at fault and repeating it cannot succeed.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body is the raw response body (may be empty).
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("apicaller: unexpected status %d: %s", e.StatusCode, truncate(e.Body, 512))
	}
	return fmt.Sprintf("apicaller: unexpected status %d", e.StatusCode)
}

// ConfigError reports invalid caller configuration, such as a duplicate
// query-parameter key or a missing required field. It is raised before any
// network interaction occurs.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "apicaller: config: " + e.Message
}

// DataShapeError reports a paginated response whose body does not have the
// expected shape, such as a missing or non-list data field.
type DataShapeError struct {
	// Key is the data field that was missing or malformed.
	Key string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *DataShapeError) Error() string {
	return fmt.Sprintf("apicaller: data shape: %q %s", e.Key, e.Message)
}

// IsStatus checks if an error is a StatusError.
func IsStatus(err error) bool {
	var e *StatusError
	return errors.As(err, &e)
}

// StatusCode returns the HTTP status carried by a StatusError, or 0 if the
// error is not a StatusError.
func StatusCode(err error) int {
	var e *StatusError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsConfig checks if an error is a ConfigError.
func IsConfig(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsDataShape checks if an error is a DataShapeError.
func IsDataShape(err error) bool {
	var e *DataShapeError
	return errors.As(err, &e)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
