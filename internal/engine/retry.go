package engine

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"fit-backend/internal/shared/telemetry"
)

// Engine calls fail fast unless retries are configured.
const (
	DefaultRetryAttempts = 1
	MaxRetryAttempts     = 3
	DefaultRetryDelay    = 300 * time.Millisecond
)

// RetryPolicy bounds retries of the idempotent stages. Attempts counts the
// first call, so 1 disables retrying.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func (p RetryPolicy) attempts() int {
	switch {
	case p.Attempts < 1:
		return 1
	case p.Attempts > MaxRetryAttempts:
		return MaxRetryAttempts
	}
	return p.Attempts
}

// WithRetry wraps base so that SubmitResume and SubmitJobDescription are
// retried with exponential backoff. ComputeFit and Combined pass through.
func WithRetry(base Client, policy RetryPolicy) Client {
	if base == nil || policy.attempts() == 1 {
		return base
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryDelay
	}
	return &retryingClient{base: base, policy: policy, wait: sleepCtx}
}

type retryingClient struct {
	base   Client
	policy RetryPolicy
	wait   func(ctx context.Context, d time.Duration) error
}

func (r *retryingClient) Combined(ctx context.Context, correlationID, jobURL string, resume Resume) ([]byte, error) {
	return r.base.Combined(ctx, correlationID, jobURL, resume)
}

func (r *retryingClient) ComputeFit(ctx context.Context, correlationID string) ([]byte, error) {
	return r.base.ComputeFit(ctx, correlationID)
}

func (r *retryingClient) SubmitResume(ctx context.Context, correlationID string, resume Resume) error {
	return r.do(ctx, StageResume, correlationID, func() error {
		return r.base.SubmitResume(ctx, correlationID, resume)
	})
}

func (r *retryingClient) SubmitJobDescription(ctx context.Context, correlationID, jobURL string) error {
	return r.do(ctx, StageJD, correlationID, func() error {
		return r.base.SubmitJobDescription(ctx, correlationID, jobURL)
	})
}

func (r *retryingClient) do(ctx context.Context, stage Stage, correlationID string, call func() error) error {
	delay := r.policy.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = call()
		if err == nil || attempt >= r.policy.attempts() || !ShouldRetry(err) {
			return err
		}
		telemetry.Info("engine.stage.retry", map[string]any{
			"stage":          string(stage),
			"correlation_id": correlationID,
			"attempt":        attempt,
			"delay_ms":       delay.Milliseconds(),
			"error":          SanitizeDetail(err.Error()),
		})
		if werr := r.wait(ctx, delay); werr != nil {
			return err
		}
		delay *= 2
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ShouldRetry accepts 5xx responses and transient network failures. Deadline
// expiry and client errors are final.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StageError
	if errors.As(err, &se) && se.StatusCode > 0 {
		return se.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return !netErr.Timeout()
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
