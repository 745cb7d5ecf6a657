package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectResumeFile = `
SELECT id, user_id, original_name, storage_provider, storage_key, mime_type, size_bytes, created_at
FROM resume_files`

func (r *PGRepo) Create(ctx context.Context, file ResumeFile) error {
	const query = `
INSERT INTO resume_files (
    id,
    user_id,
    original_name,
    storage_provider,
    storage_key,
    mime_type,
    size_bytes,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	provider := file.StorageProvider
	if provider == "" {
		provider = "local"
	}
	if _, err := r.DB.ExecContext(ctx, query,
		file.ID,
		file.UserID,
		file.OriginalName,
		provider,
		file.StorageKey,
		file.MimeType,
		file.SizeBytes,
		file.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert resume file: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (ResumeFile, error) {
	const query = selectResumeFile + `
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanResumeFile(r.DB.QueryRowContext(ctx, query, userID, id))
}

// GetLatestByUser orders by created_at then id so concurrent uploads resolve
// to one stable row.
func (r *PGRepo) GetLatestByUser(ctx context.Context, userID string) (ResumeFile, error) {
	const query = selectResumeFile + `
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`
	return scanResumeFile(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM resume_files WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete resume file: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResumeFile(row *sql.Row) (ResumeFile, error) {
	var f ResumeFile
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.OriginalName,
		&f.StorageProvider,
		&f.StorageKey,
		&f.MimeType,
		&f.SizeBytes,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResumeFile{}, ErrNotFound
		}
		return ResumeFile{}, err
	}
	return f, nil
}

var _ Repo = (*PGRepo)(nil)
