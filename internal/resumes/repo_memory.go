package resumes

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo used in dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]ResumeFile // userID -> files in insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]ResumeFile)}
}

func (r *MemoryRepo) Create(ctx context.Context, file ResumeFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[file.UserID] = append(r.data[file.UserID], file)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (ResumeFile, error) {
	if err := ctx.Err(); err != nil {
		return ResumeFile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.data[userID] {
		if f.ID == id {
			return f, nil
		}
	}
	return ResumeFile{}, ErrNotFound
}

// GetLatestByUser returns the newest file by CreatedAt; on equal timestamps
// the later insert wins.
func (r *MemoryRepo) GetLatestByUser(ctx context.Context, userID string) (ResumeFile, error) {
	if err := ctx.Err(); err != nil {
		return ResumeFile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	files := r.data[userID]
	if len(files) == 0 {
		return ResumeFile{}, ErrNotFound
	}
	latest := files[0]
	for _, f := range files[1:] {
		if !f.CreatedAt.Before(latest.CreatedAt) {
			latest = f
		}
	}
	return latest, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	files := r.data[userID]
	for i := range files {
		if files[i].ID == id {
			r.data[userID] = append(files[:i:i], files[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
