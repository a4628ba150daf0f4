package openlibrary

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	olerrors "github.com/mathwizard1232/openlibrary-client-2/internal/errors"
	"github.com/mathwizard1232/openlibrary-client-2/internal/ratelimit"
)

// testLimiter is generous enough that tests never block on rate limiting.
func testLimiter() *ratelimit.Limiter {
	return ratelimit.NewWithBurst("test", 1000, 1000)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type flakyDoer struct {
	failures int
	calls    int
}

func (d *flakyDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	if d.calls <= d.failures {
		return nil, &url.Error{Err: timeoutError{}}
	}

	body := io.NopCloser(strings.NewReader(`{"status":"ok"}`))
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       body,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func TestGetJSONRetriesOnTimeout(t *testing.T) {
	doer := &flakyDoer{failures: 1}
	client := NewClient(WithHTTPClient(doer), WithRetryAttempts(2), WithRateLimiter(testLimiter()))

	var payload map[string]string
	err := client.getJSON(context.Background(), "http://example.test/", &payload)
	require.NoError(t, err)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, 2, doer.calls)
}

func TestGetJSONGivesUpAfterAttemptBudget(t *testing.T) {
	doer := &flakyDoer{failures: 10}
	client := NewClient(WithHTTPClient(doer), WithRetryAttempts(2), WithRateLimiter(testLimiter()))

	var payload map[string]string
	err := client.getJSON(context.Background(), "http://example.test/", &payload)
	require.Error(t, err)
	assert.True(t, olerrors.IsUpstreamRequestError(err))
	assert.Equal(t, 2, doer.calls)

	var reqErr *olerrors.UpstreamRequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 2, reqErr.Attempts)
	assert.Equal(t, "http://example.test/", reqErr.URL)
}

func TestGetJSONDoesNotRetryNonRetryableErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer server.Close()

	var calls int
	countingClient := &countingDoer{inner: server.Client(), calls: &calls}
	client := NewClient(WithHTTPClient(countingClient), WithRetryAttempts(3), WithRateLimiter(testLimiter()))

	var payload map[string]any
	err := client.getJSON(context.Background(), server.URL, &payload)
	require.Error(t, err)
	assert.True(t, olerrors.IsUpstreamRequestError(err))
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, 1, calls)
}

type countingDoer struct {
	inner HTTPDoer
	calls *int
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	*d.calls++
	return d.inner.Do(req)
}

func TestIsRetryable(t *testing.T) {
	retryErr := &url.Error{Err: timeoutError{}}
	assert.True(t, isRetryable(retryErr))

	connErr := &url.Error{Err: errors.New("connection reset by peer")}
	assert.True(t, isRetryable(connErr))

	nonRetryErr := &url.Error{Err: errors.New("bad request")}
	assert.False(t, isRetryable(nonRetryErr))
}

func TestBackoffDelayCaps(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoffDelay(1))
	assert.Equal(t, 2*time.Second, backoffDelay(2))
	assert.Equal(t, 10*time.Second, backoffDelay(5))
}
