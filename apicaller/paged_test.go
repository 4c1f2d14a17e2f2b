package apicaller

import (
	"context"
	"strings"
	"testing"
)

func TestPagedTokenCapture(t *testing.T) {
	instantSleep(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"token present", `{"nextPageToken":"abc123"}`, "abc123"},
		{"token null", `{"nextPageToken":null}`, ""},
		{"token absent", `{}`, ""},
		{"token wrong type", `{"nextPageToken":7}`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := script(respond(200, tc.body))
			p, err := NewPaged("https://api.example.com/events", nil, testOpts(t, st)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := p.Execute(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.NextPageToken != tc.want {
				t.Errorf("NextPageToken = %q, want %q", p.NextPageToken, tc.want)
			}
		})
	}
}

func TestPagedTokenResetBetweenPages(t *testing.T) {
	instantSleep(t)
	st := script(respond(200, `{"nextPageToken":"abc"}`))
	p, err := NewPaged("https://api.example.com/events", nil, testOpts(t, st)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NextPageToken != "abc" {
		t.Fatalf("expected token abc, got %q", p.NextPageToken)
	}

	// A later success without a token must clear the field.
	st.steps = append(st.steps, respond(200, `{}`))
	if _, err := p.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NextPageToken != "" {
		t.Errorf("expected token cleared, got %q", p.NextPageToken)
	}
}

func TestPagedParamsMerged(t *testing.T) {
	instantSleep(t)
	st := script(respond(200, "{}"))
	p, err := NewPaged("https://api.example.com/events", map[string]string{"filter": "x"}, testOpts(t, st)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.PageURL(), "filter=x") {
		t.Errorf("params should merge into the page URL, got %q", p.PageURL())
	}
	if _, err := p.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.specs[0].URL; got != p.PageURL() {
		t.Errorf("attempt URL = %q, want %q", got, p.PageURL())
	}
}

func TestPagedParamsPreservedOnExistingQuery(t *testing.T) {
	instantSleep(t)
	st := script(respond(200, "{}"))
	p, err := NewPaged("https://api.example.com/events?status=open", map[string]string{"filter": "x"}, testOpts(t, st)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"status=open", "filter=x"} {
		if !strings.Contains(p.PageURL(), want) {
			t.Errorf("page URL %q should contain %q", p.PageURL(), want)
		}
	}
}

func TestPagedDuplicateParamRejected(t *testing.T) {
	instantSleep(t)
	st := script()
	_, err := NewPaged("https://api.example.com/events?foo=1", map[string]string{"foo": "2"}, testOpts(t, st)...)
	if err == nil {
		t.Fatal("expected a config error")
	}
	if !IsConfig(err) {
		t.Errorf("expected ConfigError, got %T: %v", err, err)
	}
	if st.calls() != 0 {
		t.Errorf("duplicate params must fail before any network interaction, got %d calls", st.calls())
	}
}

func TestPagedUserHookStillRuns(t *testing.T) {
	instantSleep(t)
	var hookRan bool
	st := script(respond(200, `{"nextPageToken":"t"}`))
	p, err := NewPaged("https://api.example.com/events", nil, testOpts(t, st,
		WithSuccessHook(func(map[string]any) { hookRan = true }))...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hookRan {
		t.Error("user hook should run after cursor extraction")
	}
	if p.NextPageToken != "t" {
		t.Errorf("cursor extraction should still happen, got %q", p.NextPageToken)
	}
}

func TestCursorURL(t *testing.T) {
	tests := []struct {
		base  string
		token string
		want  string
	}{
		{"https://x/api", "abc", "https://x/api?pageToken=abc"},
		{"https://x/api?a=1", "abc", "https://x/api?a=1&pageToken=abc"},
		{"https://x/api", "", "https://x/api"},
		{"https://x/api", "a b", "https://x/api?pageToken=a+b"},
	}
	for _, tc := range tests {
		if got := cursorURL(tc.base, tc.token); got != tc.want {
			t.Errorf("cursorURL(%q, %q) = %q, want %q", tc.base, tc.token, got, tc.want)
		}
	}
}
