package resumes

import "context"

// Repo persists résumé file metadata. Objects live in the object store.
type Repo interface {
	Create(ctx context.Context, file ResumeFile) error
	GetByID(ctx context.Context, userID, id string) (ResumeFile, error)
	GetLatestByUser(ctx context.Context, userID string) (ResumeFile, error)
	Delete(ctx context.Context, userID, id string) error
}
