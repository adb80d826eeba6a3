package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultRetries     = 2
	defaultBackoffBase = 500 * time.Millisecond

	// Response bodies attached to BackendError are truncated to keep
	// error messages bounded.
	maxErrorDetailBytes = 300
)

// Executor performs one logical HTTP call with bounded retries.
//
// Transport failures (timeouts, connection errors) are retried up to
// retries additional attempts with exponential backoff. A non-2xx status
// is surfaced immediately as *BackendError and never retried.
type Executor struct {
	httpClient  *http.Client
	retries     int
	backoffBase time.Duration
}

// NewExecutor creates an Executor with a per-request timeout and the
// given number of retries after the first attempt.
func NewExecutor(timeout time.Duration, retries int) *Executor {
	if retries < 0 {
		retries = defaultRetries
	}
	return &Executor{
		httpClient:  &http.Client{Timeout: timeout},
		retries:     retries,
		backoffBase: defaultBackoffBase,
	}
}

// DoJSON sends payload as JSON and decodes the response body into result
// (when result is non-nil).
func (e *Executor) DoJSON(ctx context.Context, method, reqURL string, header http.Header, payload, result any) error {
	body, err := e.do(ctx, method, reqURL, header, payload)
	if err != nil {
		return err
	}
	defer body.Close()

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(body).Decode(result); err != nil {
		return &BackendError{Status: http.StatusOK, Detail: fmt.Sprintf("malformed response body: %v", err)}
	}
	return nil
}

// DoStream sends payload as JSON and returns the raw response body for
// the caller to consume incrementally. The caller must close it.
func (e *Executor) DoStream(ctx context.Context, method, reqURL string, header http.Header, payload any) (io.ReadCloser, error) {
	return e.do(ctx, method, reqURL, header, payload)
}

func (e *Executor) do(ctx context.Context, method, reqURL string, header http.Header, payload any) (io.ReadCloser, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			if err := e.sleep(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		var bodyReader io.Reader
		if reqBody != nil {
			bodyReader = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			// A cancelled caller context is not a backend failure.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = classifyTransportError(reqURL, err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetailBytes))
			resp.Body.Close()
			return nil, &BackendError{Status: resp.StatusCode, Detail: string(detail)}
		}

		return resp.Body, nil
	}

	return nil, lastErr
}

// sleep waits for the exponential backoff delay before attempt+1, or
// returns early when the context is cancelled.
func (e *Executor) sleep(ctx context.Context, attempt int) error {
	delay := e.backoffBase << attempt
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func classifyTransportError(reqURL string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{URL: reqURL, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: reqURL, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: reqURL, Err: err}
	}
	return &ConnectionError{URL: reqURL, Err: err}
}
