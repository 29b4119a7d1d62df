// internal/cep/client.go
//
// ViaCEP address-lookup client with bounded retry.
//
// Context
// -------
// Given a raw postal code, Resolve returns the normalised 8-digit code
// plus the street resolved by the ViaCEP web service.  The retry
// contract is precise and worth stating up front:
//
//   • A code whose digit-stripped form is not exactly 8 characters
//     fails validation locally — no network call is made.
//   • Timeouts and transport errors are retried, up to 3 attempts in
//     total, separated by a fixed 0.8 s pause (constant, not
//     exponential).
//   • A response carrying ViaCEP's "erro" marker is a definitive
//     negative: the loop stops immediately, nothing further is tried.
//   • Exhausting all attempts reports ErrUnavailable.
//
// Every outcome is written to the audit log with an API_CEP_* category
// tag.
//
// Notes
// -----
// • The backoff policy is cenkalti/backoff's ConstantBackOff capped by
//   WithMaxRetries; the not-found stop is a backoff.Permanent error.
// • Oxford commas, two spaces after periods.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br"

const (
	// DefaultTimeout bounds each individual HTTP attempt.
	DefaultTimeout = 5 * time.Second

	defaultWait     = 800 * time.Millisecond
	defaultAttempts = 3
)

// ErrInvalidCode is returned for codes that do not normalise to exactly
// 8 digits.  No network attempt precedes it.
var ErrInvalidCode = errors.New("postal code must have 8 digits")

// ErrNotFound is returned when ViaCEP answers with its error marker:
// the code is well-formed but maps to no address.  Definitive; never
// retried.
var ErrNotFound = errors.New("postal code not found")

// ErrUnavailable is returned after all attempts failed on timeouts or
// transport errors.
var ErrUnavailable = errors.New("lookup service unavailable")

// fallbackStreet is stored when ViaCEP resolves the code but carries no
// street field (common for city-wide codes).
const fallbackStreet = "Street not provided"

// Address is a successful lookup result: the normalised code and the
// resolved street.
type Address struct {
	Code   string
	Street string
}

// Client talks to one ViaCEP-compatible endpoint.
type Client struct {
	base     string
	http     *http.Client
	log      *zap.SugaredLogger
	wait     time.Duration
	attempts int
}

// New returns a Client against baseURL with the given per-attempt
// timeout.  Pass DefaultBaseURL and DefaultTimeout in production;
// tests point baseURL at an httptest server.
func New(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      log,
		wait:     defaultWait,
		attempts: defaultAttempts,
	}
}

// Resolve normalises raw and looks it up.  See the package header for
// the retry contract.
func (c *Client) Resolve(ctx context.Context, raw string) (Address, error) {
	code := digits(raw)
	if len(code) != 8 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidCode, raw)
	}

	var addr Address
	attempt := 0
	op := func() error {
		attempt++
		a, err := c.fetch(ctx, code, attempt)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		addr = a
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.wait), uint64(c.attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Address{}, err
		}
		c.log.Warnw("lookup attempts exhausted",
			"event", "API_CEP_EXHAUSTED", "code", code, "attempts", attempt, "err", err)
		return Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return addr, nil
}

// viaCEPBody is the subset of the ViaCEP payload the registry uses.
// The "erro" field only appears on not-found responses, and its value
// has shifted between bool and string across service versions — the
// raw presence check covers both.
type viaCEPBody struct {
	Erro       json.RawMessage `json:"erro"`
	Logradouro string          `json:"logradouro"`
}

// fetch performs one HTTP attempt and classifies the outcome.
func (c *Client) fetch(ctx context.Context, code string, attempt int) (Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.base, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Warnw("lookup attempt timed out",
				"event", "API_CEP_TIMEOUT", "code", code, "attempt", attempt)
		} else {
			c.log.Warnw("lookup attempt failed",
				"event", "API_CEP_ERR", "code", code, "attempt", attempt, "err", err)
		}
		return Address{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.log.Warnw("lookup attempt failed",
			"event", "API_CEP_ERR", "code", code, "attempt", attempt, "err", err)
		return Address{}, err
	}

	var body viaCEPBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warnw("lookup attempt failed",
			"event", "API_CEP_ERR", "code", code, "attempt", attempt, "err", err)
		return Address{}, err
	}

	if notFoundMarker(body.Erro) {
		c.log.Infow("postal code not found", "event", "API_CEP_NOT_FOUND", "code", code)
		return Address{}, ErrNotFound
	}

	street := body.Logradouro
	if street == "" {
		street = fallbackStreet
	}
	c.log.Infow("postal code resolved",
		"event", "API_CEP_OK", "code", code, "street", street)
	return Address{Code: code, Street: street}, nil
}

// digits strips every non-digit character from s.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isTimeout reports whether err is a timeout at any wrapping depth.
func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// notFoundMarker reports whether the raw "erro" field signals a
// not-found response.  Absent field → present address; "false" → some
// proxies echo the field explicitly.
func notFoundMarker(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	v := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return v != "" && v != "false"
}
