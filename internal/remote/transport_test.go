package remote

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	at := time.Now().Add(5 * time.Second).UTC()
	wait := parseRetryAfter(at.Format(time.RFC1123))
	assert.Greater(t, wait, 3*time.Second)
	assert.LessOrEqual(t, wait, 5*time.Second)
}

func TestParseRetryAfterUnparseable(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
}

func TestRateLimitedTransportRetries(t *testing.T) {
	var bodies []string
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		attempts++
		if attempts == 1 {
			w.Header().Set("retry-after", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: WithRateLimiting(nil)}
	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("payload"))
	require.NoError(t, err)

	resp, err := client.Do(req)

	require.NoError(t, err)
	defer resp.Body.Close()
	// A zero retry-after means the 429 is returned without a retry.
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, []string{"payload"}, bodies)
}

func TestRateLimitedTransportReplaysBody(t *testing.T) {
	var bodies []string
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		attempts++
		if attempts == 1 {
			w.Header().Set("retry-after", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: WithRateLimiting(nil)}
	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("payload"))
	require.NoError(t, err)

	resp, err := client.Do(req)

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"payload", "payload"}, bodies)
}

func TestRateLimitedTransportPassesThroughSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: WithRateLimiting(nil)}
	resp, err := client.Get(server.URL)

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
