package resumes

import "time"

// ResumeFile is an uploaded résumé binary owned by a user.
type ResumeFile struct {
	ID              string
	UserID          string
	OriginalName    string
	StorageProvider string
	StorageKey      string
	MimeType        string
	SizeBytes       int64
	CreatedAt       time.Time
}
