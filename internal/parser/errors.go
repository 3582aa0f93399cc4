package parser

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultRetryAfter applies when a 429 carries no usable Retry-After header.
const DefaultRetryAfter = time.Minute

const maxErrorBody = 500

// RateLimitError is an HTTP 429 from an extraction provider.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %s: %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// StatusError converts a non-200 provider reply into an error. A 429 yields a
// *RateLimitError whose delay comes from the Retry-After header.
func StatusError(provider string, resp *http.Response, body []byte) error {
	base := fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, Truncate(strings.TrimSpace(string(body)), maxErrorBody))
	if resp.StatusCode != http.StatusTooManyRequests {
		return base
	}
	return &RateLimitError{
		Provider:   provider,
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		Err:        base,
	}
}

// ParseRetryAfter reads a Retry-After value in either delta-seconds or
// HTTP-date form. Missing, malformed or past values give DefaultRetryAfter.
func ParseRetryAfter(val string, now time.Time) time.Duration {
	val = strings.TrimSpace(val)
	if val == "" {
		return DefaultRetryAfter
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs <= 0 {
			return DefaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(val); err == nil {
		if d := at.Sub(now).Round(time.Second); d > 0 {
			return d
		}
	}
	return DefaultRetryAfter
}

// IsRateLimited reports whether err carries a RateLimitError.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// RetryAfter returns the provider-requested delay carried by err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
