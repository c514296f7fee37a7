// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyzer uploads a paper to the remote scoring service and
// returns the validated analysis result.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/internal/httputil"
	"github.com/pdiddy/veripaper/internal/ingest"
	"github.com/pdiddy/veripaper/pkg/types"
)

// DefaultBaseURL is the hosted scoring service.
const DefaultBaseURL = "https://veripaper.onrender.com/api"

// MaxUploadBytes bounds the size of an uploaded paper.
const MaxUploadBytes = 50 << 20

// acceptedExtensions lists the upload formats the service can read.
var acceptedExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// ErrUnsupportedFile is returned for files the service cannot analyze.
var ErrUnsupportedFile = eris.New("please select a PDF, DOCX, or TXT file")

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = eris.Errorf("file exceeds the %d MB upload limit", MaxUploadBytes>>20)

// ServiceError is a non-2xx response from the scoring service.
type ServiceError struct {
	StatusCode int
	// Detail is the service's error message, or the raw body when it sent none.
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return "analysis service returned HTTP " + http.StatusText(e.StatusCode)
	}
	return "analysis service: " + e.Detail
}

// ResponseError is a 2xx response whose body is not a valid analysis
// result. Err is usually an *ingest.ValidationError.
type ResponseError struct {
	Err error
}

func (e *ResponseError) Error() string {
	return "analysis service returned an invalid result: " + e.Err.Error()
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Client calls the scoring service.
type Client struct {
	HTTP *http.Client
	Cfg  types.AnalyzerConfig
	Log  *zap.Logger
}

// New returns a Client for cfg. A zero Timeout leaves requests bounded only
// by the caller's context; the hosted service can take minutes on large
// papers.
func New(cfg types.AnalyzerConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
		Log:  zap.L().With(zap.String("component", "analyzer")),
	}
}

// CheckFile reports whether path has an accepted extension.
func CheckFile(path string) error {
	if !acceptedExtensions[strings.ToLower(filepath.Ext(path))] {
		return eris.Wrapf(ErrUnsupportedFile, "file %s", filepath.Base(path))
	}
	return nil
}

// Analyze uploads the file at path and returns the service's result.
func (c *Client) Analyze(ctx context.Context, path string) (types.AnalysisResult, error) {
	if err := CheckFile(path); err != nil {
		return types.AnalysisResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return types.AnalysisResult{}, eris.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	return c.AnalyzeReader(ctx, filepath.Base(path), f)
}

// AnalyzeReader uploads the contents of r under the given file name.
func (c *Client) AnalyzeReader(ctx context.Context, name string, r io.Reader) (types.AnalysisResult, error) {
	if err := CheckFile(name); err != nil {
		return types.AnalysisResult{}, err
	}

	body, contentType, err := encodeUpload(name, r)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	url := strings.TrimRight(c.Cfg.BaseURL, "/") + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return types.AnalysisResult{}, eris.Wrap(err, "creating analyze request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.Cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.Cfg.UserAgent)
	}
	if c.Cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.Cfg.APIKey)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Cfg.MaxRetries)
	if err != nil {
		return types.AnalysisResult{}, eris.Wrap(err, "analyze request")
	}
	defer resp.Body.Close()

	c.Log.Info("analysis finished",
		zap.String("file", name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.AnalysisResult{}, serviceError(resp)
	}

	result, err := ingest.Decode(resp.Body)
	if err != nil {
		return types.AnalysisResult{}, &ResponseError{Err: err}
	}
	if result.Filename == "" {
		result.Filename = name
	}
	return result, nil
}

func encodeUpload(name string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, "", eris.Wrap(err, "creating form file")
	}
	n, err := io.Copy(part, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, "", eris.Wrapf(err, "reading %s", name)
	}
	if n > MaxUploadBytes {
		return nil, "", eris.Wrapf(ErrTooLarge, "file %s", name)
	}
	if err := mw.Close(); err != nil {
		return nil, "", eris.Wrap(err, "closing multipart body")
	}
	return &buf, mw.FormDataContentType(), nil
}

// serviceError reads the FastAPI-style {"detail": "..."} error body.
func serviceError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	detail := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && len(body.Detail) > 0 {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			detail = s
		} else {
			detail = string(body.Detail)
		}
	}
	return &ServiceError{StatusCode: resp.StatusCode, Detail: detail}
}
