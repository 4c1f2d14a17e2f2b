package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleConfig struct {
	URL     string  `mapstructure:"url" validate:"required,url"`
	Verb    string  `mapstructure:"verb" validate:"required,oneof=GET POST DELETE"`
	Scalar  float64 `mapstructure:"increase_scalar" validate:"gt=1"`
	Retries int     `mapstructure:"retries" validate:"gte=0,lt=100"`
}

func validSample() sampleConfig {
	return sampleConfig{URL: "http://api.test", Verb: "GET", Scalar: 2, Retries: 3}
}

func TestValidateOK(t *testing.T) {
	s := validSample()
	if err := Validate(&s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*sampleConfig)
		wantField   string
		wantMessage string
	}{
		{"required", func(s *sampleConfig) { s.URL = "" }, "url", "is required"},
		{"url", func(s *sampleConfig) { s.URL = "::bad::" }, "url", "must be a valid URL"},
		{"oneof", func(s *sampleConfig) { s.Verb = "PATCH" }, "verb", "must be one of: GET POST DELETE"},
		{"gt", func(s *sampleConfig) { s.Scalar = 1 }, "increase_scalar", "must be greater than 1"},
		{"gte", func(s *sampleConfig) { s.Retries = -1 }, "retries", "must be at least 0"},
		{"lt", func(s *sampleConfig) { s.Retries = 100 }, "retries", "must be less than 100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSample()
			tc.mutate(&s)
			err := Validate(&s)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected one field error, got %v", verr.Fields)
			}
			fe := verr.Fields[0]
			if fe.Field != tc.wantField {
				t.Errorf("field = %q, want %q", fe.Field, tc.wantField)
			}
			if fe.Message != tc.wantMessage {
				t.Errorf("message = %q, want %q", fe.Message, tc.wantMessage)
			}
		})
	}
}

func TestValidateCollectsAllFields(t *testing.T) {
	s := sampleConfig{}
	err := Validate(&s)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) < 3 {
		t.Errorf("expected errors for every invalid field, got %v", verr.Fields)
	}
	msg := verr.Error()
	if !strings.Contains(msg, "url: is required") || !strings.Contains(msg, "; ") {
		t.Errorf("joined message should list fields separated by semicolons: %q", msg)
	}
}

func TestTagNameFallsBackToSnakeCase(t *testing.T) {
	type untagged struct {
		BaseURL string `validate:"required"`
	}
	err := Validate(&untagged{})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if verr.Fields[0].Field != "base_u_r_l" {
		t.Errorf("field = %q", verr.Fields[0].Field)
	}
}
