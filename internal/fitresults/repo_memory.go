package fitresults

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used in dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]FitResult
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]FitResult)}
}

func (r *MemoryRepo) Create(ctx context.Context, res FitResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[res.ID] = cloneResult(res)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (FitResult, error) {
	if err := ctx.Err(); err != nil {
		return FitResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[id]
	if !ok || res.UserID != userID {
		return FitResult{}, ErrNotFound
	}
	return cloneResult(res), nil
}

// ListByUser returns results newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]FitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	r.mu.RLock()
	var out []FitResult
	for _, res := range r.data {
		if res.UserID == userID {
			out = append(out, cloneResult(res))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []FitResult{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// Len reports the number of stored results.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func cloneResult(res FitResult) FitResult {
	res.Strengths = append([]string(nil), res.Strengths...)
	res.Gaps = append([]string(nil), res.Gaps...)
	res.Recommendations = append([]string(nil), res.Recommendations...)
	if res.Score != nil {
		v := *res.Score
		res.Score = &v
	}
	if res.ResumeFileID != nil {
		v := *res.ResumeFileID
		res.ResumeFileID = &v
	}
	return res
}

var _ Repo = (*MemoryRepo)(nil)
