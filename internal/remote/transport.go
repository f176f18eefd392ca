package remote

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// maxRateLimitRetries bounds how many times a single request is replayed in
// response to 429s before the response is returned as-is.
const maxRateLimitRetries = 5

// RateLimitedTransport retries requests the remote API rejects with 429,
// honoring the retry-after header. Hosts that hand the Completer an HTTP
// client can wrap its transport with WithRateLimiting.
type RateLimitedTransport struct {
	base http.RoundTripper
}

// WithRateLimiting wraps base with 429 retry handling. A nil base uses
// http.DefaultTransport.
func WithRateLimiting(base http.RoundTripper) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitedTransport{base: base}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Buffer the body once so the request can be replayed.
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to buffer request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRateLimitRetries {
			return resp, nil
		}

		wait := parseRetryAfter(resp.Header.Get("retry-after"))
		if wait <= 0 {
			return resp, nil
		}
		if err := resp.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close rate-limited response body: %w", err)
		}

		log.Printf("Rate limited, waiting %s before retry %d", wait, attempt+1)
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}
}

// parseRetryAfter handles both forms of the header: delay seconds and an
// HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := time.Parse(time.RFC1123, value); err == nil {
		return time.Until(at)
	}
	return 0
}
