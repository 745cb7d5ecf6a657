package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"fit-backend/internal/engine"
)

const (
	maxResponseBytes = 8 << 20

	pathCombined = "/oneclick"
	pathResume   = "/resume"
	pathJD       = "/jd"
	pathFit      = "/fit/compute"

	correlationHeader = "X-Correlation-Id"
)

// Client implements engine.Client over the engine's HTTP API. Deadlines come
// from the caller's context; the http.Client timeout is only a backstop.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a client for the engine at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, engine.ErrNotConfigured
	}
	c := &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ engine.Client = (*Client)(nil)

func (c *Client) Combined(ctx context.Context, correlationID, jobURL string, resume engine.Resume) ([]byte, error) {
	body, contentType, err := multipartBody(resume, map[string]string{
		"correlation_id": correlationID,
		"job_url":        jobURL,
	})
	if err != nil {
		return nil, &engine.StageError{Stage: engine.StageCombined, Detail: "encode request", Err: err}
	}
	return c.post(ctx, engine.StageCombined, pathCombined, correlationID, contentType, body)
}

func (c *Client) SubmitResume(ctx context.Context, correlationID string, resume engine.Resume) error {
	body, contentType, err := multipartBody(resume, map[string]string{"correlation_id": correlationID})
	if err != nil {
		return &engine.StageError{Stage: engine.StageResume, Detail: "encode request", Err: err}
	}
	_, err = c.post(ctx, engine.StageResume, pathResume, correlationID, contentType, body)
	return err
}

func (c *Client) SubmitJobDescription(ctx context.Context, correlationID, jobURL string) error {
	body, err := json.Marshal(map[string]string{"correlation_id": correlationID, "job_url": jobURL})
	if err != nil {
		return &engine.StageError{Stage: engine.StageJD, Detail: "encode request", Err: err}
	}
	_, err = c.post(ctx, engine.StageJD, pathJD, correlationID, "application/json", body)
	return err
}

func (c *Client) ComputeFit(ctx context.Context, correlationID string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"correlation_id": correlationID})
	if err != nil {
		return nil, &engine.StageError{Stage: engine.StageFit, Detail: "encode request", Err: err}
	}
	return c.post(ctx, engine.StageFit, pathFit, correlationID, "application/json", body)
}

func (c *Client) post(ctx context.Context, stage engine.Stage, path, correlationID, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &engine.StageError{Stage: stage, Detail: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(correlationHeader, correlationID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		detail := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			detail = fmt.Sprintf("%s request timeout", stage)
		}
		return nil, &engine.StageError{Stage: stage, Detail: engine.SanitizeDetail(detail), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &engine.StageError{Stage: stage, StatusCode: resp.StatusCode, Detail: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := engine.SanitizeDetail(string(data))
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return nil, &engine.StageError{
			Stage:      stage,
			StatusCode: resp.StatusCode,
			Detail:     detail,
			Err:        fmt.Errorf("http status %d", resp.StatusCode),
		}
	}
	return data, nil
}

func multipartBody(resume engine.Resume, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range []string{"correlation_id", "job_url"} {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	name := resume.FileName
	if name == "" {
		name = "resume.pdf"
	}
	mimeType := resume.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(resume.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
