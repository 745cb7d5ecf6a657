package resumes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"fit-backend/internal/extract"
	"fit-backend/internal/shared/storage/object"
	"fit-backend/internal/shared/telemetry"
)

// DefaultMaxBytes caps résumé uploads.
const DefaultMaxBytes int64 = 10 << 20

// Service stores résumé binaries and their metadata.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	MaxBytes int64

	now func() time.Time
}

// NewService constructs a Service. maxBytes <= 0 selects DefaultMaxBytes.
func NewService(store object.ObjectStore, repo Repo, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{Store: store, Repo: repo, MaxBytes: maxBytes, now: time.Now}
}

// Upload validates the payload as a PDF, writes it to the object store and
// records a new ResumeFile.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (ResumeFile, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(fileName) == "" || r == nil {
		return ResumeFile{}, ErrInvalidInput
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes()+1))
	if err != nil {
		return ResumeFile{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes() {
		return ResumeFile{}, ErrTooLarge
	}
	info, err := extract.InspectPDF(data)
	if err != nil {
		return ResumeFile{}, err
	}

	key, size, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return ResumeFile{}, fmt.Errorf("save resume object: %w", err)
	}

	file := ResumeFile{
		ID:              uuid.NewString(),
		UserID:          userID,
		OriginalName:    fileName,
		StorageProvider: s.Store.Provider(),
		StorageKey:      key,
		MimeType:        extract.MimePDF,
		SizeBytes:       size,
		CreatedAt:       s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, file); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("resume.orphan_object", map[string]any{"storage_key": key, "error": delErr})
		}
		return ResumeFile{}, fmt.Errorf("record resume file: %w", err)
	}

	telemetry.Info("resume.uploaded", map[string]any{
		"resume_file_id": file.ID,
		"user_id":        userID,
		"size_bytes":     size,
		"pages":          info.Pages,
	})
	return file, nil
}

// Get returns a file owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (ResumeFile, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return ResumeFile{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, strings.TrimSpace(id))
}

// Latest returns the user's newest file.
func (s *Service) Latest(ctx context.Context, userID string) (ResumeFile, error) {
	if strings.TrimSpace(userID) == "" {
		return ResumeFile{}, ErrInvalidInput
	}
	return s.Repo.GetLatestByUser(ctx, userID)
}

// DeleteLatest removes the newest record and then its object. A failed object
// delete is logged; the record is already gone.
func (s *Service) DeleteLatest(ctx context.Context, userID string) (ResumeFile, error) {
	file, err := s.Latest(ctx, userID)
	if err != nil {
		return ResumeFile{}, err
	}
	if err := s.Repo.Delete(ctx, userID, file.ID); err != nil {
		return ResumeFile{}, err
	}
	if err := s.Store.Delete(ctx, file.StorageKey); err != nil {
		telemetry.Warn("resume.object_delete_failed", map[string]any{
			"resume_file_id": file.ID,
			"storage_key":    file.StorageKey,
			"error":          err,
		})
	}
	return file, nil
}

// Load reads the stored bytes of file.
func (s *Service) Load(ctx context.Context, file ResumeFile) ([]byte, error) {
	body, err := s.Store.Open(ctx, file.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open resume object key=%s: %w", file.StorageKey, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("read resume object key=%s: %w", file.StorageKey, err)
	}
	if int64(len(data)) > s.maxBytes() {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return s.MaxBytes
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
