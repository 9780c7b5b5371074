package probe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func hostPort(t *testing.T, rawURL string) (string, string) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split %q: %v", u.Host, err)
	}
	return host, port
}

// closedPort returns a port that nothing listens on.
func closedPort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, port, _ := net.SplitHostPort(l.Addr().String())
	l.Close()
	return port
}

func TestNewDefaults(t *testing.T) {
	p := New()
	if p.Mode() != ModeHTTP {
		t.Errorf("Mode() = %q, want %q", p.Mode(), ModeHTTP)
	}
	if p.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", p.Timeout(), DefaultTimeout)
	}

	p = New(WithMode("carrier-pigeon"), WithTimeout(-1))
	if p.Mode() != ModeHTTP {
		t.Errorf("unknown mode should fall back to http, got %q", p.Mode())
	}
	if p.Timeout() != DefaultTimeout {
		t.Errorf("non-positive timeout should be ignored, got %v", p.Timeout())
	}

	if New(WithMode(" TCP ")).Mode() != ModeTCP {
		t.Error("mode should be trimmed and case-insensitive")
	}
}

func TestProbeHTTP(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"ok", http.StatusOK, true},
		{"no content", http.StatusNoContent, true},
		{"redirect is not success", http.StatusFound, false},
		{"not found", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusFound {
					w.Header().Set("Location", "/elsewhere")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			host, port := hostPort(t, srv.URL)
			if got := New(WithTimeout(time.Second)).Probe(context.Background(), host, port); got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbeConnectionRefused(t *testing.T) {
	port := closedPort(t)
	for _, mode := range []string{ModeHTTP, ModeTCP} {
		t.Run(mode, func(t *testing.T) {
			p := New(WithMode(mode), WithTimeout(time.Second))
			if p.Probe(context.Background(), "127.0.0.1", port) {
				t.Error("Probe() = true for a closed port")
			}
		})
	}
}

func TestProbeTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	host, port, _ := net.SplitHostPort(l.Addr().String())
	if !New(WithMode(ModeTCP), WithTimeout(time.Second)).Probe(context.Background(), host, port) {
		t.Error("Probe() = false for a listening port")
	}
}

func TestProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	host, port := hostPort(t, srv.URL)
	timeout := 100 * time.Millisecond

	start := time.Now()
	got := New(WithTimeout(timeout)).Probe(context.Background(), host, port)
	elapsed := time.Since(start)

	if got {
		t.Error("Probe() = true for a hanging adapter")
	}
	if elapsed > timeout+time.Second {
		t.Errorf("Probe() took %v, timeout was %v", elapsed, timeout)
	}
}

func TestProbeCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host, port := hostPort(t, srv.URL)
	if New().Probe(ctx, host, port) {
		t.Error("Probe() = true with a cancelled context")
	}
}

func TestProbeIncompleteAddress(t *testing.T) {
	p := New()
	if p.Probe(context.Background(), "", "10000") {
		t.Error("Probe() with empty host should be false")
	}
	if p.Probe(context.Background(), "localhost", "  ") {
		t.Error("Probe() with blank port should be false")
	}
}

func TestFunc(t *testing.T) {
	var gotHost, gotPort string
	var p Prober = Func(func(_ context.Context, host, port string) bool {
		gotHost, gotPort = host, port
		return true
	})
	if !p.Probe(context.Background(), "meshery-istio", "10000") {
		t.Error("Func.Probe() should return the wrapped result")
	}
	if gotHost != "meshery-istio" || gotPort != "10000" {
		t.Errorf("Func got %q:%q", gotHost, gotPort)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), "connection refused (nothing listening on this port)"},
		{errors.New("dial tcp: lookup nope: no such host"), "DNS resolution failed"},
		{context.DeadlineExceeded, "timed out (more than 2s)"},
		{context.Canceled, "cancelled"},
		{errors.New("unexpected EOF"), "connection closed unexpectedly"},
		{errors.New("status 503"), "status 503"},
	}
	for _, tt := range tests {
		if got := Describe(tt.err, 2*time.Second); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

// For any host and port, Probe returns a boolean within its timeout and
// never panics.
func TestPropertyProbeIsBoundedAndTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	timeout := 150 * time.Millisecond
	probers := []*Reachability{
		New(WithMode(ModeHTTP), WithTimeout(timeout)),
		New(WithMode(ModeTCP), WithTimeout(timeout)),
	}

	hostGen := gen.OneGenOf(
		gen.Const("127.0.0.1"),
		gen.Const(""),
		gen.AlphaString().Map(func(s string) string {
			if len(s) > 20 {
				s = s[:20]
			}
			return s + ".invalid"
		}),
	)
	portGen := gen.OneGenOf(
		gen.IntRange(-10, 70000).Map(func(i int) string { return strconv.Itoa(i) }),
		gen.AlphaString(),
	)

	properties.Property("probe is total and bounded", prop.ForAll(
		func(host, port string, which int) bool {
			p := probers[which]
			start := time.Now()
			_ = p.Probe(context.Background(), host, port)
			return time.Since(start) < timeout+2*time.Second
		},
		hostGen,
		portGen,
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}
