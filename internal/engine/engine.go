package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stage names one call to the analysis engine.
type Stage string

const (
	StageResume   Stage = "resume"
	StageJD       Stage = "jd"
	StageFit      Stage = "fit"
	StageCombined Stage = "oneclick"
)

// Idempotent reports whether resubmitting the stage with the same correlation
// id is safe.
func (s Stage) Idempotent() bool {
	return s == StageResume || s == StageJD
}

// Mode selects the call shape used against the engine.
type Mode string

const (
	ModeCombined Mode = "combined"
	ModeStaged   Mode = "staged"
)

// ParseMode defaults to combined for unknown values.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeStaged)) {
		return ModeStaged
	}
	return ModeCombined
}

// Resume is the binary résumé sent to the engine.
type Resume struct {
	FileName string
	MimeType string
	Data     []byte
}

// Client talks to the external analysis engine. Every call carries the
// correlation id shared by one logical analysis run.
type Client interface {
	Combined(ctx context.Context, correlationID, jobURL string, resume Resume) ([]byte, error)
	SubmitResume(ctx context.Context, correlationID string, resume Resume) error
	SubmitJobDescription(ctx context.Context, correlationID, jobURL string) error
	ComputeFit(ctx context.Context, correlationID string) ([]byte, error)
}

// ErrNotConfigured is returned when no engine base URL is set.
var ErrNotConfigured = errors.New("analysis engine not configured")

const maxDetailLen = 500

// StageError reports which stage failed and what the engine said.
type StageError struct {
	Stage      Stage
	StatusCode int
	Detail     string
	Err        error
}

func (e *StageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "engine stage %s failed", e.Stage)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StageError) Unwrap() error { return e.Err }

// Timeout reports whether the stage was cut off by its deadline.
func (e *StageError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// AsStageError wraps err as a StageError for stage unless it already is one.
func AsStageError(stage Stage, err error) *StageError {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return &StageError{Stage: stage, Detail: SanitizeDetail(err.Error()), Err: err}
}

// SanitizeDetail flattens and truncates upstream text for logs and responses.
func SanitizeDetail(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " "))
	if r := []rune(s); len(r) > maxDetailLen {
		s = string(r[:maxDetailLen])
	}
	return s
}

// Timeouts holds the per-stage deadlines.
type Timeouts struct {
	Resume   time.Duration
	JD       time.Duration
	Fit      time.Duration
	Combined time.Duration
}

// DefaultTimeouts mirror what the engine documents for a typical report.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Resume:   30 * time.Second,
		JD:       30 * time.Second,
		Fit:      120 * time.Second,
		Combined: 180 * time.Second,
	}
}

// For returns the deadline for stage; zero means no deadline.
func (t Timeouts) For(stage Stage) time.Duration {
	switch stage {
	case StageResume:
		return t.Resume
	case StageJD:
		return t.JD
	case StageFit:
		return t.Fit
	case StageCombined:
		return t.Combined
	}
	return 0
}
