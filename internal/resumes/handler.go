package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/shared/server/middleware"
	"fit-backend/internal/shared/server/respond"
)

// multipart framing allowance on top of the file cap
const formOverhead = 1 << 20

// Handler wires résumé routes to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume", h.upload)
	rg.GET("/resume/latest", h.latest)
	rg.DELETE("/resume/latest", h.deleteLatest)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.maxBytes()+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	created, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.Set(middleware.ResumeFileIDKey, created.ID)
	respond.Created(c, ToResponse(created))
}

func (h *Handler) latest(c *gin.Context) {
	file, err := h.Svc.Latest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.OK(c, ToResponse(file))
}

func (h *Handler) deleteLatest(c *gin.Context) {
	file, err := h.Svc.DeleteLatest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.Set(middleware.ResumeFileIDKey, file.ID)
	respond.OK(c, gin.H{"ok": true, "resumeFileId": file.ID})
}

// WriteError maps service errors to HTTP responses.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotPDF):
		respond.Error(c, http.StatusBadRequest, "validation_error", "pdf only", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "resume storage failed", nil)
	}
}
