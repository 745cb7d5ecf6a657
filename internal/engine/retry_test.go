package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	resumeErrs []error
	jdErrs     []error
	fitErr     error
	resumeN    int
	jdN        int
	fitN       int
}

func (s *scriptedClient) Combined(ctx context.Context, correlationID, jobURL string, resume Resume) ([]byte, error) {
	return nil, s.fitErr
}

func (s *scriptedClient) SubmitResume(ctx context.Context, correlationID string, resume Resume) error {
	s.resumeN++
	return next(s.resumeErrs, s.resumeN)
}

func (s *scriptedClient) SubmitJobDescription(ctx context.Context, correlationID, jobURL string) error {
	s.jdN++
	return next(s.jdErrs, s.jdN)
}

func (s *scriptedClient) ComputeFit(ctx context.Context, correlationID string) ([]byte, error) {
	s.fitN++
	return nil, s.fitErr
}

func next(errs []error, n int) error {
	if n-1 < len(errs) {
		return errs[n-1]
	}
	return nil
}

func noWait(context.Context, time.Duration) error { return nil }

func newTestRetry(base Client, attempts int) *retryingClient {
	c := WithRetry(base, RetryPolicy{Attempts: attempts, BaseDelay: time.Millisecond}).(*retryingClient)
	c.wait = noWait
	return c
}

func TestRetryRecoversFrom5xxOnIdempotentStages(t *testing.T) {
	base := &scriptedClient{
		resumeErrs: []error{&StageError{Stage: StageResume, StatusCode: 503}},
		jdErrs:     []error{&StageError{Stage: StageJD, StatusCode: 502}},
	}
	c := newTestRetry(base, 2)

	require.NoError(t, c.SubmitResume(context.Background(), "cid", Resume{}))
	require.NoError(t, c.SubmitJobDescription(context.Background(), "cid", "https://example.com/job"))
	assert.Equal(t, 2, base.resumeN)
	assert.Equal(t, 2, base.jdN)
}

func TestRetryStopsAtAttemptLimit(t *testing.T) {
	fail := &StageError{Stage: StageJD, StatusCode: 500}
	base := &scriptedClient{jdErrs: []error{fail, fail, fail, fail}}
	c := newTestRetry(base, 10)

	err := c.SubmitJobDescription(context.Background(), "cid", "u")
	assert.ErrorIs(t, err, fail)
	assert.Equal(t, MaxRetryAttempts, base.jdN)
}

func TestRetrySkipsClientErrorsAndTimeouts(t *testing.T) {
	base := &scriptedClient{resumeErrs: []error{&StageError{Stage: StageResume, StatusCode: 400}}}
	c := newTestRetry(base, 3)
	require.Error(t, c.SubmitResume(context.Background(), "cid", Resume{}))
	assert.Equal(t, 1, base.resumeN)

	base = &scriptedClient{jdErrs: []error{&StageError{Stage: StageJD, Err: context.DeadlineExceeded}}}
	c = newTestRetry(base, 3)
	require.Error(t, c.SubmitJobDescription(context.Background(), "cid", "u"))
	assert.Equal(t, 1, base.jdN)
}

func TestComputeFitIsNeverRetried(t *testing.T) {
	base := &scriptedClient{fitErr: &StageError{Stage: StageFit, StatusCode: 503}}
	c := newTestRetry(base, 3)
	_, err := c.ComputeFit(context.Background(), "cid")
	require.Error(t, err)
	assert.Equal(t, 1, base.fitN)
}

func TestWithRetryDisabled(t *testing.T) {
	base := &scriptedClient{}
	assert.Same(t, Client(base), WithRetry(base, RetryPolicy{Attempts: 1}))
	assert.Nil(t, WithRetry(nil, RetryPolicy{Attempts: 3}))
}

func TestDefaultPolicyFailsFast(t *testing.T) {
	fail := &StageError{Stage: StageJD, StatusCode: 503}
	base := &scriptedClient{jdErrs: []error{fail}}
	c := WithRetry(base, RetryPolicy{Attempts: DefaultRetryAttempts})
	assert.Same(t, Client(base), c)

	err := c.SubmitJobDescription(context.Background(), "cid", "u")
	assert.ErrorIs(t, err, fail)
	assert.Equal(t, 1, base.jdN)
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
	assert.False(t, ShouldRetry(context.Canceled))
	assert.True(t, ShouldRetry(&StageError{StatusCode: 504}))
	assert.False(t, ShouldRetry(&StageError{StatusCode: 404}))
	assert.False(t, ShouldRetry(errors.New("boom")))
}

func TestStageErrorMessage(t *testing.T) {
	err := &StageError{Stage: StageJD, StatusCode: 502, Detail: "bad gateway"}
	assert.Equal(t, "engine stage jd failed: status 502: bad gateway", err.Error())

	wrapped := AsStageError(StageFit, context.DeadlineExceeded)
	assert.True(t, wrapped.Timeout())
	assert.Same(t, err, AsStageError(StageFit, err))
	assert.Nil(t, AsStageError(StageFit, nil))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeStaged, ParseMode(" STAGED "))
	assert.Equal(t, ModeCombined, ParseMode(""))
}

func TestTimeoutsFor(t *testing.T) {
	tt := DefaultTimeouts()
	assert.Equal(t, tt.JD, tt.For(StageJD))
	assert.Equal(t, tt.Combined, tt.For(StageCombined))
	assert.Zero(t, tt.For(Stage("nope")))
}
