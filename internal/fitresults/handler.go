package fitresults

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/engine"
	"fit-backend/internal/fit"
	"fit-backend/internal/resumes"
	"fit-backend/internal/shared/server/middleware"
	"fit-backend/internal/shared/server/respond"
)

const maxAnalyzeBody = 11 << 20

// Handler wires fit routes to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches fit routes. analyzeMW runs only on the analyze route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, analyzeMW ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{}, analyzeMW...)
	rg.POST("/fit/analyze", append(handlers, h.analyze)...)
	rg.GET("/fit/:id", h.get)
	rg.GET("/fit", h.list)
}

type analyzeBody struct {
	JobURL       string `json:"jobUrl" form:"jobUrl"`
	ResumeFileID string `json:"resumeFileId" form:"resumeFileId"`
	DemoType     string `json:"demoType" form:"demoType"`
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAnalyzeBody)

	var body analyzeBody
	req := AnalyzeRequest{UserID: middleware.UserIDFromContext(c)}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&body); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form body", nil)
			return
		}
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
				return
			}
			defer f.Close()
			req.Upload = &Upload{FileName: fh.Filename, Body: f}
		}
	} else if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.JobURL = body.JobURL
	req.ResumeFileID = body.ResumeFileID
	req.DemoType = body.DemoType

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	res, err := h.Svc.Analyze(ctx, req)
	if res.CorrelationID != "" {
		c.Set(middleware.CorrelationIDKey, res.CorrelationID)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set(middleware.ResultIDKey, res.ResultID)
	payload := gin.H{"ok": true, "resultId": res.ResultID, "status": res.Status}
	if res.Demo {
		payload["demo"] = true
	}
	respond.Created(c, payload)
}

func (h *Handler) get(c *gin.Context) {
	rec, view, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ResultIDKey, rec.ID)
	respond.OK(c, ViewResponse{Item: toResponse(rec), View: view})
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ResultResponse, 0, len(items))
	for _, rec := range items {
		out = append(out, toResponse(rec))
	}
	respond.OK(c, gin.H{"items": out})
}

// ResultResponse is the outward-facing representation of a FitResult. Raw is
// included so clients can re-render with their own normalizer.
type ResultResponse struct {
	ID              string    `json:"id"`
	JobURL          string    `json:"jobUrl"`
	ResumeFileID    *string   `json:"resumeFileId,omitempty"`
	Status          string    `json:"status"`
	Score           *float64  `json:"score,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Strengths       []string  `json:"strengths"`
	Gaps            []string  `json:"gaps"`
	Recommendations []string  `json:"recommendations"`
	Raw             string    `json:"raw"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toResponse(rec FitResult) ResultResponse {
	return ResultResponse{
		ID:              rec.ID,
		JobURL:          rec.JobURL,
		ResumeFileID:    rec.ResumeFileID,
		Status:          rec.Status,
		Score:           rec.Score,
		Summary:         rec.Summary,
		Strengths:       nonNil(rec.Strengths),
		Gaps:            nonNil(rec.Gaps),
		Recommendations: nonNil(rec.Recommendations),
		Raw:             rec.Raw,
		CreatedAt:       rec.CreatedAt,
	}
}

// ViewResponse pairs a record with its normalized view.
type ViewResponse struct {
	Item ResultResponse `json:"item"`
	View fit.FitView    `json:"view"`
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func writeError(c *gin.Context, err error) {
	var inputErr *InputError
	var stageErr *engine.StageError
	switch {
	case errors.As(err, &inputErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", inputErr.Error(), nil)
	case errors.As(err, &stageErr):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "analysis engine call failed", gin.H{
			"stage":  string(stageErr.Stage),
			"status": stageErr.StatusCode,
			"detail": stageErr.Detail,
		})
	case errors.Is(err, engine.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "engine_unavailable", "analysis engine not configured", nil)
	case errors.Is(err, resumes.ErrNotPDF):
		respond.Error(c, http.StatusBadRequest, "validation_error", "pdf only", nil)
	case errors.Is(err, resumes.ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, ErrPersist):
		respond.Error(c, http.StatusInternalServerError, "persist_error", "failed to store result", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
	}
}
