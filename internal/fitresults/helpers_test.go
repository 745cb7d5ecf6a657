package fitresults

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"fit-backend/internal/engine"
	"fit-backend/internal/resumes"
	"fit-backend/internal/shared/storage/object/local"
)

const v11Payload = `{
  "schema_version": "fit.v1.1",
  "axes": [
    {"id": "skills", "name": "직무 기술", "score": 84},
    {"id": "domain", "name": "도메인", "score": 72},
    {"id": "impact", "name": "임팩트", "score": 66},
    {"id": "growth", "name": "성장성", "score": 90},
    {"id": "comm", "name": "커뮤니케이션", "score": 78}
  ],
  "deep_dives": [
    {"id": "d1", "title": "결제 시스템 경험", "score": 80, "overview": "핵심 요구와 일치", "detail_md": "", "next_steps": []}
  ],
  "overall": {"score": 81},
  "summary_short": "백엔드 직무에 적합한 지원자입니다.",
  "strengths": ["Go 운영 경험"],
  "gaps": ["대규모 트래픽 경험 부족"],
  "recommendations": [{"priority": "P1", "action": "트래픽 지표를 추가하세요"}]
}`

type fakeEngine struct {
	mu     sync.Mutex
	calls  []engine.Stage
	ids    []string
	resume engine.Resume

	combined     func(ctx context.Context) ([]byte, error)
	submitResume func(ctx context.Context) error
	submitJD     func(ctx context.Context) error
	computeFit   func(ctx context.Context) ([]byte, error)
}

func (f *fakeEngine) record(stage engine.Stage, correlationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, stage)
	f.ids = append(f.ids, correlationID)
}

func (f *fakeEngine) Combined(ctx context.Context, correlationID, jobURL string, resume engine.Resume) ([]byte, error) {
	f.record(engine.StageCombined, correlationID)
	f.resume = resume
	if f.combined == nil {
		return []byte(v11Payload), nil
	}
	return f.combined(ctx)
}

func (f *fakeEngine) SubmitResume(ctx context.Context, correlationID string, resume engine.Resume) error {
	f.record(engine.StageResume, correlationID)
	f.resume = resume
	if f.submitResume == nil {
		return nil
	}
	return f.submitResume(ctx)
}

func (f *fakeEngine) SubmitJobDescription(ctx context.Context, correlationID, jobURL string) error {
	f.record(engine.StageJD, correlationID)
	if f.submitJD == nil {
		return nil
	}
	return f.submitJD(ctx)
}

func (f *fakeEngine) ComputeFit(ctx context.Context, correlationID string) ([]byte, error) {
	f.record(engine.StageFit, correlationID)
	if f.computeFit == nil {
		return []byte(v11Payload), nil
	}
	return f.computeFit(ctx)
}

func (f *fakeEngine) stages() []engine.Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Stage(nil), f.calls...)
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Create(ctx context.Context, r FitResult) error {
	return fmt.Errorf("connection reset")
}

func samplePDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

type fixture struct {
	svc     *Service
	repo    *MemoryRepo
	resumes *resumes.Service
	engine  *fakeEngine
}

func newFixture(t *testing.T, mode engine.Mode) *fixture {
	t.Helper()
	repo := NewMemoryRepo()
	rs := resumes.NewService(local.New(t.TempDir()), resumes.NewMemoryRepo(), 0)
	fe := &fakeEngine{}
	svc := NewService(repo, rs, fe, Options{Mode: mode})
	return &fixture{svc: svc, repo: repo, resumes: rs, engine: fe}
}

func (f *fixture) upload(t *testing.T, userID, name string) resumes.ResumeFile {
	t.Helper()
	file, err := f.resumes.Upload(context.Background(), userID, name, bytes.NewReader(samplePDF()))
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return file
}
