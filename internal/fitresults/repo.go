package fitresults

import "context"

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Repo persists fit results. Rows are written once and never updated.
type Repo interface {
	Create(ctx context.Context, r FitResult) error
	GetByID(ctx context.Context, userID, id string) (FitResult, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]FitResult, error)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
