// Package client speaks the backend's HTTP contract: document status, health,
// multipart upload, and the streamed rag-chat and plain chat replies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/filecheck"
	"github.com/dharsanguruparan/docchat/internal/model"
)

const (
	pathHealth = "health"
	pathStatus = "document-status"
	pathUpload = "upload-document"
	pathChat   = "rag-chat"
	pathDirect = "chat"

	// maxErrorBody bounds how much of a failure body is read for its detail.
	maxErrorBody = 64 << 10
)

// Client is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	model    string
	validate *validator.Validate
	log      *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithModel sets the chat model sent with every rag-chat request.
func WithModel(name string) Option {
	return func(c *Client) { c.model = name }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client for baseURL (for example http://localhost:8000/api).
// The default http.Client has no timeout: a stalled stream only ends when the
// connection fails.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		validate: validator.New(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("component", "client"))
	return c
}

// Health calls GET health and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, pathHealth, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

// DocumentStatus calls GET document-status. An empty listing is a valid
// response, not an error.
func (c *Client) DocumentStatus(ctx context.Context) (*StatusResponse, error) {
	var body StatusResponse
	if err := c.getJSON(ctx, pathStatus, &body); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(body); err != nil {
		c.log.Warn("malformed document status", zap.Error(err))
		return nil, apperr.ServerRejected(http.StatusOK, "")
	}
	return &body, nil
}

// UploadDocument sends file and the credential as a multipart form and waits
// for the single JSON response.
func (c *Client) UploadDocument(ctx context.Context, file model.PendingFile, cred model.Credential) (*UploadResponse, error) {
	body, contentType, err := encodeUpload(file, cred)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, pathUpload, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rejection(resp)
	}
	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Warn("undecodable upload response", zap.Error(err))
		return nil, apperr.ServerRejected(resp.StatusCode, "")
	}
	if !out.Success {
		return nil, apperr.ServerRejected(resp.StatusCode, out.Message)
	}
	if err := c.validate.Struct(out); err != nil {
		c.log.Warn("malformed upload response", zap.Error(err))
		return nil, apperr.ServerRejected(resp.StatusCode, "")
	}
	return &out, nil
}

// Chat posts the user message and returns the raw streamed reply body. The
// caller must close it. A non-2xx status is reported before any streaming.
func (c *Client) Chat(ctx context.Context, message string, cred model.Credential) (io.ReadCloser, error) {
	return c.postStream(ctx, pathChat, ChatRequest{
		UserMessage: message,
		APIKey:      cred.Value(),
		Model:       c.model,
	})
}

// DirectChat posts a message with developer instructions to the plain chat
// endpoint, which answers without any uploaded document. The reply body is
// streamed like Chat's.
func (c *Client) DirectChat(ctx context.Context, developerMessage, message string, cred model.Credential) (io.ReadCloser, error) {
	return c.postStream(ctx, pathDirect, DirectChatRequest{
		DeveloperMessage: developerMessage,
		UserMessage:      message,
		APIKey:           cred.Value(),
		Model:            c.model,
	})
}

func (c *Client) postStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, rejection(resp)
	}
	return resp.Body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejection(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Warn("undecodable response", zap.String("path", path), zap.Error(err))
		return apperr.ServerRejected(resp.StatusCode, "")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do issues req and maps a missing response to a network error.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		c.log.Warn("request failed", append(fields, zap.Error(err))...)
		return nil, apperr.Network(err)
	}
	c.log.Debug("response received", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// rejection reads the {detail} body of a failure response.
func rejection(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		if s, ok := body.Detail.(string); ok {
			detail = s
		}
	}
	return apperr.ServerRejected(resp.StatusCode, detail)
}

func encodeUpload(file model.PendingFile, cred model.Credential) (io.Reader, string, error) {
	if file.Open == nil {
		return nil, "", apperr.Validation(errors.New("pending file has no content"), "Could not read "+file.Name+".")
	}
	src, err := file.Open()
	if err != nil {
		return nil, "", apperr.Validation(fmt.Errorf("open %s: %w", file.Name, err), "Could not read "+file.Name+".")
	}
	defer src.Close()

	// The file may have grown since it was validated.
	kind := filecheck.Validate(file).Kind
	limit := filecheck.LimitFor(kind)
	var content io.Reader = src
	if limit > 0 {
		content = io.LimitReader(src, limit+1)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	n, err := io.Copy(part, content)
	if err != nil {
		return nil, "", apperr.Validation(fmt.Errorf("read %s: %w", file.Name, err), "Could not read "+file.Name+".")
	}
	if limit > 0 && n > limit {
		return nil, "", filecheck.ExceededErr(kind)
	}
	if err := mw.WriteField("api_key", cred.Value()); err != nil {
		return nil, "", fmt.Errorf("write api_key field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
