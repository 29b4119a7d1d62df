// internal/cep/client_test.go
//
// Unit-tests for the lookup client's retry contract.
//
// Context
// -------
// The four behaviours that matter:
//
//   • malformed code → no network attempt at all
//   • "erro" marker  → exactly one attempt, definitive not-found
//   • transport failures / timeouts → exactly 3 attempts, ≥ wait apart
//   • success → immediate return, normalised code, street fallback
//
// Attempt counting uses a handler-side counter; the backoff interval
// is shrunk so the exhaustion tests stay fast.

package cep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// newTestClient points a Client with a tiny wait at the given handler.
func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second, zap.NewNop().Sugar())
	c.wait = 10 * time.Millisecond
	return c, srv
}

func TestResolve_InvalidCodeSkipsNetwork(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	for _, raw := range []string{"", "1234", "123456789", "abc", "01001-00"} {
		if _, err := c.Resolve(context.Background(), raw); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Resolve(%q) err = %v, want ErrInvalidCode", raw, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("network attempts = %d, want 0", n)
	}
}

func TestResolve_NormalisesAndSucceeds(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/01001000/json/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"cep": "01001-000", "logradouro": "Praça da Sé"}`))
	})

	addr, err := c.Resolve(context.Background(), " 01001-000 ")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if addr.Code != "01001000" || addr.Street != "Praça da Sé" {
		t.Fatalf("unexpected address: %#v", addr)
	}
}

func TestResolve_EmptyStreetFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cep": "01001-000"}`))
	})

	addr, err := c.Resolve(context.Background(), "01001000")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if addr.Street != fallbackStreet {
		t.Fatalf("street = %q, want fallback", addr.Street)
	}
}

func TestResolve_NotFoundStopsImmediately(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		var hits int32
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(body))
		})

		if _, err := c.Resolve(context.Background(), "99999999"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("body %s: err = %v, want ErrNotFound", body, err)
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Fatalf("body %s: attempts = %d, want 1 (not-found is never retried)", body, n)
		}
	}
}

func TestResolve_TransportErrorsExhaustThreeAttempts(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	start := time.Now()
	_, err := c.Resolve(context.Background(), "01001000")
	elapsed := time.Since(start)

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("attempts = %d, want 3", n)
	}
	if elapsed < 2*c.wait {
		t.Fatalf("elapsed %v < two backoff intervals (%v)", elapsed, 2*c.wait)
	}
}

func TestResolve_TimeoutsAreRetried(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(200 * time.Millisecond)
	})
	c.http.Timeout = 20 * time.Millisecond

	if _, err := c.Resolve(context.Background(), "01001000"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("attempts = %d, want 3", n)
	}
}

func TestDigits(t *testing.T) {
	cases := map[string]string{
		"01001-000":   "01001000",
		" 01.001/000": "01001000",
		"abc":         "",
	}
	for in, want := range cases {
		if got := digits(in); got != want {
			t.Errorf("digits(%q) = %q, want %q", in, got, want)
		}
	}
}
