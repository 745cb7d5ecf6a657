package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Guest-Id", "g-1")
	return req
}

func TestResumeUploadLatestDelete(t *testing.T) {
	router := newTestRouter(newTestService(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "cv.pdf", samplePDF()))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created Response
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ResumeFileID == "" || created.FileName != "cv.pdf" {
		t.Fatalf("unexpected response %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/latest", nil)
	req.Header.Set("X-Guest-Id", "g-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var latest Response
	if err := json.NewDecoder(resp.Body).Decode(&latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if latest.ResumeFileID != created.ResumeFileID {
		t.Fatalf("expected %s, got %s", created.ResumeFileID, latest.ResumeFileID)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/resume/latest", nil)
	req.Header.Set("X-Guest-Id", "g-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/resume/latest", nil)
	req.Header.Set("X-Guest-Id", "g-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestResumeUploadPDFOnly(t *testing.T) {
	router := newTestRouter(newTestService(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "cv.txt", []byte("plain text résumé")))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Message != "pdf only" {
		t.Fatalf("expected pdf only, got %q", body.Error.Message)
	}
}

func TestResumeRequiresIdentity(t *testing.T) {
	router := newTestRouter(newTestService(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume/latest", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
