package resumes

import (
	"errors"

	"fit-backend/internal/extract"
)

var (
	ErrNotFound     = errors.New("resume file not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file too large")
	// ErrNotPDF is shared with the extract package so callers can match either.
	ErrNotPDF = extract.ErrNotPDF
)
