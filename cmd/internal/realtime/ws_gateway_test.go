package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestOriginHostOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"http://localhost", "localhost"},
		{"http://localhost:3000", "localhost"},
		{"https://Play.Example.COM", "play.example.com"},
		{"play.example.com:8080", "play.example.com"},
		{"play.example.com", "play.example.com"},
		{"  http://127.0.0.1:9000  ", "127.0.0.1"},
		{"://bad", ""},
	}
	for _, tc := range cases {
		if got := originHostOnly(tc.in); got != tc.want {
			t.Fatalf("originHostOnly(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeriveOriginPatterns(t *testing.T) {
	t.Parallel()

	got := deriveOriginPatternsFromAllowedOrigins([]string{
		"http://localhost:3000",
		"https://play.example.com",
		"http://localhost", // same host, deduped
		"*",                // wildcard never becomes a pattern
		"",
	})
	want := []string{"localhost", "play.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("patterns = %v, want %v", got, want)
	}
}

func TestEnforceOrigin(t *testing.T) {
	t.Parallel()

	newReq := func(origin string) *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "http://server/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	cases := []struct {
		name     string
		required bool
		allowed  []string
		origin   string
		wantErr  bool
	}{
		{"missing origin rejected when required", true, []string{"http://localhost"}, "", true},
		{"missing origin ok when optional", false, []string{"http://localhost"}, "", false},
		{"exact match", true, []string{"http://localhost:3000"}, "http://localhost:3000", false},
		{"host match ignores port", true, []string{"http://localhost"}, "http://localhost:5173", false},
		{"unlisted origin rejected", true, []string{"http://localhost"}, "https://evil.example", true},
		{"wildcard honored", true, []string{"*"}, "https://anywhere.example", false},
		{"empty allowlist rejects all", true, nil, "http://localhost", true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := &WSGateway{originRequired: tc.required, allowedOrigins: tc.allowed}
			err := g.enforceOrigin(newReq(tc.origin))
			if (err != nil) != tc.wantErr {
				t.Fatalf("enforceOrigin(%q) err = %v, wantErr = %v", tc.origin, err, tc.wantErr)
			}
		})
	}
}

func TestClassifyReadErr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want readErrKind
	}{
		{"context canceled", context.Canceled, readErrCtxDone},
		{"deadline", context.DeadlineExceeded, readErrCtxDone},
		{"net closed", net.ErrClosed, readErrConnClosed},
		{"eof", io.EOF, readErrConnClosed},
		{"wrapped eof", errors.Join(errors.New("read"), io.EOF), readErrConnClosed},
		{"json tail", errors.New("unexpected end of JSON input"), readErrBadJSON},
		{"json char", errors.New("invalid character 'x' looking for beginning of value"), readErrBadJSON},
		{"something else", errors.New("boom"), readErrUnknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyReadErr(tc.err); got != tc.want {
				t.Fatalf("classifyReadErr(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestGatewaySkipOriginVerifyKnob(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Setenv("GAMBIT_WS_DEV_SKIP_ORIGIN_VERIFY", "")
	g := NewWSGateway(log, NewHub(log, nil, nil, nil))
	if g.skipOriginVerify {
		t.Fatalf("origin verification must be on by default")
	}

	t.Setenv("GAMBIT_WS_DEV_SKIP_ORIGIN_VERIFY", "true")
	g = NewWSGateway(log, NewHub(log, nil, nil, nil))
	if !g.skipOriginVerify {
		t.Fatalf("knob did not disable Accept origin verification")
	}
	// The gateway-level allowlist is independent of the Accept knob.
	if !g.originRequired {
		t.Fatalf("enforceOrigin policy must be unaffected by the knob")
	}
}

func TestGatewayEnvHelpers(t *testing.T) {
	t.Setenv("GAMBIT_TEST_BOOL", "true")
	t.Setenv("GAMBIT_TEST_BOOL_BAD", "yep")
	t.Setenv("GAMBIT_TEST_INT", "42")
	t.Setenv("GAMBIT_TEST_INT_NEG", "-1")
	t.Setenv("GAMBIT_TEST_DUR", "750ms")
	t.Setenv("GAMBIT_TEST_CSV", " a , ,b,")

	if !envBoolWS("GAMBIT_TEST_BOOL", false) {
		t.Fatalf("envBoolWS parse failed")
	}
	if envBoolWS("GAMBIT_TEST_BOOL_BAD", false) {
		t.Fatalf("envBoolWS must fall back on garbage")
	}
	if got := envIntWS("GAMBIT_TEST_INT", 1); got != 42 {
		t.Fatalf("envIntWS = %d", got)
	}
	if got := envIntWS("GAMBIT_TEST_INT_NEG", 7); got != 7 {
		t.Fatalf("envIntWS must reject non-positive values, got %d", got)
	}
	if got := envIntWS("GAMBIT_TEST_MISSING", 9); got != 9 {
		t.Fatalf("envIntWS default = %d", got)
	}
	if got := envDurationWS("GAMBIT_TEST_DUR", time.Second); got != 750*time.Millisecond {
		t.Fatalf("envDurationWS = %v", got)
	}
	if got := envCSVWS("GAMBIT_TEST_CSV", ""); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("envCSVWS = %v", got)
	}
	if got := envCSVWS("GAMBIT_TEST_CSV_MISSING", "x,y"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("envCSVWS default = %v", got)
	}
}
