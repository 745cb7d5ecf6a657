package fitresults

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectFitResult = `
SELECT id, user_id, job_url, resume_file_id, correlation_id, status, raw, score, summary, strengths, gaps, recommendations, created_at
FROM fit_results`

func (r *PGRepo) Create(ctx context.Context, res FitResult) error {
	const query = `
INSERT INTO fit_results (
    id,
    user_id,
    job_url,
    resume_file_id,
    correlation_id,
    status,
    raw,
    score,
    summary,
    strengths,
    gaps,
    recommendations,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	strengths, err := marshalJSONB(res.Strengths)
	if err != nil {
		return err
	}
	gaps, err := marshalJSONB(res.Gaps)
	if err != nil {
		return err
	}
	recs, err := marshalJSONB(res.Recommendations)
	if err != nil {
		return err
	}

	var resumeFileID any
	if res.ResumeFileID != nil {
		resumeFileID = *res.ResumeFileID
	}
	var score any
	if res.Score != nil {
		score = *res.Score
	}

	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.JobURL,
		resumeFileID,
		res.CorrelationID,
		res.Status,
		res.Raw,
		score,
		res.Summary,
		strengths,
		gaps,
		recs,
		res.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (FitResult, error) {
	const query = selectFitResult + `
WHERE user_id = $1 AND id = $2
LIMIT 1`
	res, err := scanFitResult(r.DB.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return FitResult{}, ErrNotFound
	}
	return res, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]FitResult, error) {
	limit, offset = clampPage(limit, offset)
	const query = selectFitResult + `
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FitResult{}
	for rows.Next() {
		res, err := scanFitResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFitResult(row scanner) (FitResult, error) {
	var res FitResult
	var resumeFileID sql.NullString
	var score sql.NullFloat64
	var strengths, gaps, recs []byte
	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.JobURL,
		&resumeFileID,
		&res.CorrelationID,
		&res.Status,
		&res.Raw,
		&score,
		&res.Summary,
		&strengths,
		&gaps,
		&recs,
		&res.CreatedAt,
	); err != nil {
		return FitResult{}, err
	}
	if resumeFileID.Valid {
		res.ResumeFileID = &resumeFileID.String
	}
	if score.Valid {
		res.Score = &score.Float64
	}
	var err error
	if res.Strengths, err = unmarshalJSONB(strengths); err != nil {
		return FitResult{}, fmt.Errorf("decode strengths: %w", err)
	}
	if res.Gaps, err = unmarshalJSONB(gaps); err != nil {
		return FitResult{}, fmt.Errorf("decode gaps: %w", err)
	}
	if res.Recommendations, err = unmarshalJSONB(recs); err != nil {
		return FitResult{}, fmt.Errorf("decode recommendations: %w", err)
	}
	return res, nil
}

func marshalJSONB(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return b, nil
}

func unmarshalJSONB(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
