package nlp

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumatch/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const maxBackoff = 30 * time.Second

// retrier repeats retryable remote calls with exponential backoff and jitter
type retrier struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *errors.Logger
}

func newRetrier(maxRetries *int, logger *errors.Logger) retrier {
	retries := 0
	if maxRetries != nil && *maxRetries > 0 {
		retries = *maxRetries
	}
	return retrier{maxRetries: retries, baseDelay: time.Second, logger: logger}
}

// backoff returns the delay before the given retry attempt (1-based)
func (r retrier) backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * r.baseDelay
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if jitterBig, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(jitterBig.Int64())
		}
	}
	return min(baseDelay+jitter, maxBackoff)
}

// executeWithRetry runs fn until it succeeds, returns a non-retryable error, or ctx ends
func executeWithRetry[T any](ctx context.Context, r retrier, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			r.logger.Warn("Retrying remote NLP operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", r.maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(r.backoff(attempt)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				r.logger.Info("Remote NLP operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			r.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	return zero, fmt.Errorf("operation '%s' failed: %w", operation, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// An expired deadline belongs to the caller; retrying cannot help
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.StatusCode)
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if stderrors.As(err, &genaiErr) {
		return isRetryableStatus(genaiErr.Code)
	}
	var genaiErrPtr *genai.APIError
	if stderrors.As(err, &genaiErrPtr) {
		return isRetryableStatus(genaiErrPtr.Code)
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// StatusError is a non-2xx response from an HTTP inference endpoint
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// errMalformedPayload marks a response body that could not be decoded
var errMalformedPayload = stderrors.New("malformed provider payload")

// classifyRemoteError wraps a failed remote call into a RemoteError and names its outcome
func classifyRemoteError(provider, operation string, err error) (*errors.AppError, string) {
	code, outcome := errors.ErrCodeRemoteFailed, OutcomeError

	switch {
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		code, outcome = errors.ErrCodeCircuitOpen, OutcomeCircuitOpen
	case stderrors.Is(err, context.DeadlineExceeded):
		code, outcome = errors.ErrCodeRemoteTimeout, OutcomeTimeout
	case stderrors.Is(err, errMalformedPayload):
		code, outcome = errors.ErrCodeMalformedPayload, OutcomeMalformed
	}

	appErr := errors.NewRemoteError(code, fmt.Sprintf("%s %s call failed", provider, operation), err).
		WithContext("provider", provider).
		WithContext("operation", operation)
	return appErr, outcome
}
