package fitresults

import (
	"time"

	"fit-backend/internal/fit"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// FitResult is one persisted analysis run. Raw holds the engine body
// verbatim; the other result fields are denormalized from it at write time.
type FitResult struct {
	ID              string
	UserID          string
	JobURL          string
	ResumeFileID    *string
	CorrelationID   string
	Status          string
	Raw             string
	Score           *float64
	Summary         string
	Strengths       []string
	Gaps            []string
	Recommendations []string
	CreatedAt       time.Time
}

// Item returns the normalizer input for a stored result.
func (r FitResult) Item() fit.Item {
	return fit.Item{
		Raw:             r.Raw,
		Score:           r.Score,
		Summary:         r.Summary,
		Strengths:       r.Strengths,
		Gaps:            r.Gaps,
		Recommendations: r.Recommendations,
	}
}
