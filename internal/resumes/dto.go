package resumes

import "time"

// Response is the outward-facing representation of a ResumeFile.
type Response struct {
	ResumeFileID string    `json:"resumeFileId"`
	FileName     string    `json:"fileName"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func ToResponse(f ResumeFile) Response {
	return Response{
		ResumeFileID: f.ID,
		FileName:     f.OriginalName,
		MimeType:     f.MimeType,
		SizeBytes:    f.SizeBytes,
		UploadedAt:   f.CreatedAt,
	}
}
