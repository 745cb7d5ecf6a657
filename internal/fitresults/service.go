package fitresults

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"fit-backend/internal/engine"
	"fit-backend/internal/fit"
	"fit-backend/internal/resumes"
	"fit-backend/internal/shared/metrics"
	"fit-backend/internal/shared/telemetry"
)

const modeDemo = "demo"

// ResumeSource resolves and loads résumé binaries for a run.
type ResumeSource interface {
	Upload(ctx context.Context, userID, fileName string, r io.Reader) (resumes.ResumeFile, error)
	Get(ctx context.Context, userID, id string) (resumes.ResumeFile, error)
	Latest(ctx context.Context, userID string) (resumes.ResumeFile, error)
	Load(ctx context.Context, file resumes.ResumeFile) ([]byte, error)
}

// Upload is a résumé attached to the analyze request itself.
type Upload struct {
	FileName string
	Body     io.Reader
}

// AnalyzeRequest starts one analysis run. Upload wins over ResumeFileID,
// which wins over the caller's latest file.
type AnalyzeRequest struct {
	UserID       string `validate:"required"`
	JobURL       string `validate:"required,http_url"`
	ResumeFileID string `validate:"omitempty,uuid"`
	DemoType     string `validate:"omitempty,oneof=comparison review"`
	Upload       *Upload
}

// AnalyzeResult identifies the stored record.
type AnalyzeResult struct {
	ResultID      string
	Status        string
	CorrelationID string
	Demo          bool
}

// Options configures a Service.
type Options struct {
	Mode       engine.Mode
	Timeouts   engine.Timeouts
	Normalizer fit.Normalizer
}

// Service drives the engine for a run and persists the normalized outcome.
type Service struct {
	Repo       Repo
	Resumes    ResumeSource
	Engine     engine.Client
	Mode       engine.Mode
	Timeouts   engine.Timeouts
	Normalizer fit.Normalizer

	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs a Service. A nil engine client still serves demo
// runs and reads.
func NewService(repo Repo, source ResumeSource, client engine.Client, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = engine.ModeCombined
	}
	if opts.Timeouts == (engine.Timeouts{}) {
		opts.Timeouts = engine.DefaultTimeouts()
	}
	if opts.Normalizer.Dedup == "" {
		opts.Normalizer.Dedup = fit.DedupAll
	}
	return &Service{
		Repo:       repo,
		Resumes:    source,
		Engine:     client,
		Mode:       opts.Mode,
		Timeouts:   opts.Timeouts,
		Normalizer: opts.Normalizer,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		now:        time.Now,
	}
}

// Analyze runs the engine once for req and stores exactly one completed
// record on success. On any failure nothing is stored.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResult, error) {
	req.JobURL = strings.TrimSpace(req.JobURL)
	req.ResumeFileID = strings.TrimSpace(req.ResumeFileID)
	req.DemoType = strings.ToLower(strings.TrimSpace(req.DemoType))
	if err := s.validateRequest(req); err != nil {
		return AnalyzeResult{}, err
	}

	started := s.clock()
	if raw, ok := demoReport(DemoType(req.DemoType)); ok {
		rec, err := s.persist(ctx, req, nil, "", []byte(raw))
		if err != nil {
			metrics.ObserveAnalysis(modeDemo, "persist_error", s.clock().Sub(started))
			return AnalyzeResult{}, err
		}
		metrics.ObserveAnalysis(modeDemo, "completed", s.clock().Sub(started))
		return AnalyzeResult{ResultID: rec.ID, Status: rec.Status, Demo: true}, nil
	}

	if s.Engine == nil {
		return AnalyzeResult{}, engine.ErrNotConfigured
	}

	file, err := s.resolveResume(ctx, req)
	if err != nil {
		return AnalyzeResult{}, err
	}
	data, err := s.Resumes.Load(ctx, file)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("load resume %s: %w", file.ID, err)
	}

	correlationID := uuid.NewString()
	logFields := map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"user_id":        req.UserID,
		"correlation_id": correlationID,
		"resume_file_id": file.ID,
		"mode":           string(s.Mode),
	}
	telemetry.Info("fit.analyze.start", logFields)

	raw, err := s.run(ctx, correlationID, req.JobURL, engine.Resume{
		FileName: file.OriginalName,
		MimeType: file.MimeType,
		Data:     data,
	})
	if err != nil {
		metrics.ObserveAnalysis(string(s.Mode), "upstream_error", s.clock().Sub(started))
		return AnalyzeResult{}, err
	}

	resumeFileID := file.ID
	rec, err := s.persist(ctx, req, &resumeFileID, correlationID, raw)
	if err != nil {
		metrics.ObserveAnalysis(string(s.Mode), "persist_error", s.clock().Sub(started))
		errFields := copyFields(logFields)
		errFields["error"] = err
		telemetry.Error("fit.analyze.persist_failed", errFields)
		return AnalyzeResult{}, err
	}

	elapsed := s.clock().Sub(started)
	metrics.ObserveAnalysis(string(s.Mode), "completed", elapsed)
	doneFields := copyFields(logFields)
	doneFields["fit_result_id"] = rec.ID
	doneFields["duration_ms"] = elapsed.Milliseconds()
	telemetry.Info("fit.analyze.completed", doneFields)

	return AnalyzeResult{ResultID: rec.ID, Status: rec.Status, CorrelationID: correlationID}, nil
}

// Get returns a stored result with a view normalized from its raw payload.
func (s *Service) Get(ctx context.Context, userID, id string) (FitResult, fit.FitView, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return FitResult{}, fit.FitView{}, ErrNotFound
	}
	rec, err := s.Repo.GetByID(ctx, userID, strings.TrimSpace(id))
	if err != nil {
		return FitResult{}, fit.FitView{}, err
	}
	return rec, s.Normalizer.Normalize(rec.Item()), nil
}

// List returns the caller's results newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]FitResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, inputError("userId", "is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) validateRequest(req AnalyzeRequest) error {
	err := s.validator().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return inputError("", err.Error())
	}
	fe := verrs[0]
	switch fe.Field() {
	case "JobURL":
		if fe.Tag() == "required" {
			return inputError("jobUrl", "is required")
		}
		return inputError("jobUrl", "must be an http(s) URL")
	case "ResumeFileID":
		return inputError("resumeFileId", "must be a uuid")
	case "DemoType":
		return inputError("demoType", "must be comparison or review")
	case "UserID":
		return inputError("userId", "is required")
	}
	return inputError(fe.Field(), fe.Tag())
}

// resolveResume picks the file for the run. The latest file is resolved once
// and pinned by id so a concurrent upload cannot swap it mid-run.
func (s *Service) resolveResume(ctx context.Context, req AnalyzeRequest) (resumes.ResumeFile, error) {
	if s.Resumes == nil {
		return resumes.ResumeFile{}, inputError("resume", "is required")
	}
	switch {
	case req.Upload != nil && req.Upload.Body != nil:
		return s.Resumes.Upload(ctx, req.UserID, req.Upload.FileName, req.Upload.Body)
	case req.ResumeFileID != "":
		file, err := s.Resumes.Get(ctx, req.UserID, req.ResumeFileID)
		if errors.Is(err, resumes.ErrNotFound) {
			return resumes.ResumeFile{}, inputError("resumeFileId", "not found")
		}
		return file, err
	}
	latest, err := s.Resumes.Latest(ctx, req.UserID)
	if errors.Is(err, resumes.ErrNotFound) {
		return resumes.ResumeFile{}, inputError("resume", "is required")
	}
	if err != nil {
		return resumes.ResumeFile{}, err
	}
	return s.Resumes.Get(ctx, req.UserID, latest.ID)
}

// run performs the engine calls for one correlation id. Staged calls are
// strictly sequential and the first failure aborts the rest.
func (s *Service) run(ctx context.Context, correlationID, jobURL string, resume engine.Resume) ([]byte, error) {
	if s.Mode != engine.ModeStaged {
		var raw []byte
		err := s.call(ctx, engine.StageCombined, correlationID, func(ctx context.Context) error {
			var err error
			raw, err = s.Engine.Combined(ctx, correlationID, jobURL, resume)
			return err
		})
		return raw, err
	}

	if err := s.call(ctx, engine.StageResume, correlationID, func(ctx context.Context) error {
		return s.Engine.SubmitResume(ctx, correlationID, resume)
	}); err != nil {
		return nil, err
	}
	if err := s.call(ctx, engine.StageJD, correlationID, func(ctx context.Context) error {
		return s.Engine.SubmitJobDescription(ctx, correlationID, jobURL)
	}); err != nil {
		return nil, err
	}
	var raw []byte
	err := s.call(ctx, engine.StageFit, correlationID, func(ctx context.Context) error {
		var err error
		raw, err = s.Engine.ComputeFit(ctx, correlationID)
		return err
	})
	return raw, err
}

// call runs fn under the stage deadline and reports failures as StageError.
func (s *Service) call(ctx context.Context, stage engine.Stage, correlationID string, fn func(context.Context) error) error {
	stageCtx := ctx
	if timeout := s.Timeouts.For(stage); timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := s.clock()
	err := fn(stageCtx)
	metrics.ObserveStage(string(stage), s.clock().Sub(started))
	if err == nil {
		return nil
	}

	se := engine.AsStageError(stage, err)
	if errors.Is(stageCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		se = &engine.StageError{
			Stage:  stage,
			Detail: fmt.Sprintf("%s request timeout", stage),
			Err:    context.DeadlineExceeded,
		}
	}
	if se.Stage == "" {
		se.Stage = stage
	}

	reason := metrics.FailureTransport
	switch {
	case se.Timeout():
		reason = metrics.FailureTimeout
	case se.StatusCode > 0:
		reason = metrics.FailureStatus
	}
	metrics.IncStageFailure(string(stage), reason)
	telemetry.Warn("engine.stage.fail", map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"stage":          string(stage),
		"correlation_id": correlationID,
		"status":         se.StatusCode,
		"reason":         reason,
		"detail":         se.Detail,
	})
	return se
}

func (s *Service) persist(ctx context.Context, req AnalyzeRequest, resumeFileID *string, correlationID string, raw []byte) (FitResult, error) {
	view := s.Normalizer.Normalize(fit.Item{Raw: string(raw)})
	metrics.IncNormalized(string(view.Kind))

	rec := FitResult{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		JobURL:          req.JobURL,
		ResumeFileID:    resumeFileID,
		CorrelationID:   correlationID,
		Status:          StatusCompleted,
		Raw:             string(raw),
		Score:           view.Score,
		Summary:         view.Summary,
		Strengths:       view.Strengths,
		Gaps:            view.Gaps,
		Recommendations: view.Recommendations,
		CreatedAt:       s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return FitResult{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return rec, nil
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return s.validate
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+2)
	for k, v := range in {
		out[k] = v
	}
	return out
}
