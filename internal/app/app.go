// Package app wires the docchat components into one container shared by the
// CLI commands.
package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/docchat/internal/chat"
	"github.com/dharsanguruparan/docchat/internal/client"
	"github.com/dharsanguruparan/docchat/internal/config"
	"github.com/dharsanguruparan/docchat/internal/docstate"
	"github.com/dharsanguruparan/docchat/internal/model"
	"github.com/dharsanguruparan/docchat/internal/selection"
	"github.com/dharsanguruparan/docchat/internal/upload"
)

// Container holds one document store, one transcript and the controllers
// that mutate them.
type Container struct {
	Config    *config.Config
	Log       *zap.Logger
	Client    *client.Client
	Documents *docstate.Store
	Selection *selection.Selector
	Session   *chat.Session
	Uploads   *upload.Controller
}

// Option customizes the container.
type Option func(*options)

type options struct {
	observer   chat.Observer
	httpClient *http.Client
}

// WithObserver forwards every transcript change to fn.
func WithObserver(fn chat.Observer) Option {
	return func(o *options) { o.observer = fn }
}

// WithHTTPClient replaces the HTTP client used for the backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// NewContainer builds the container from cfg. log may be nil.
func NewContainer(cfg *config.Config, log *zap.Logger, opts ...Option) *Container {
	if log == nil {
		log = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []client.Option{client.WithLogger(log), client.WithModel(cfg.Model)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	backend := client.New(cfg.BaseURL, clientOpts...)
	documents := docstate.NewStore()

	sessionOpts := []chat.Option{chat.WithLogger(log)}
	if o.observer != nil {
		sessionOpts = append(sessionOpts, chat.WithObserver(o.observer))
	}
	session := chat.NewSession(backend, documents, sessionOpts...)

	return &Container{
		Config:    cfg,
		Log:       log,
		Client:    backend,
		Documents: documents,
		Selection: selection.New(),
		Session:   session,
		Uploads:   upload.New(backend, documents, session, log),
	}
}

// Seed loads the most recent document reported by the backend into the
// store. It reports whether a document was loaded. An empty listing is not
// an error.
func (c *Container) Seed(ctx context.Context) (bool, error) {
	status, err := c.Client.DocumentStatus(ctx)
	if err != nil {
		return false, err
	}
	if !status.HasDocuments || len(status.Documents) == 0 {
		return false, nil
	}
	latest := status.Documents[len(status.Documents)-1].Descriptor()
	if err := c.Documents.Set(latest); err != nil {
		return false, err
	}
	c.Log.Info("seeded document from backend",
		zap.String("document_id", latest.ID),
		zap.String("name", latest.Filename),
	)
	return true, nil
}

// SeedBestEffort calls Seed and only logs a failure.
func (c *Container) SeedBestEffort(ctx context.Context) {
	if _, err := c.Seed(ctx); err != nil {
		c.Log.Warn("could not load document status", zap.Error(err))
	}
}

// UploadPath selects the file at path and uploads it with cred. The
// selection is discarded after a successful upload and kept otherwise.
func (c *Container) UploadPath(ctx context.Context, path string, cred model.Credential) (model.DocumentDescriptor, error) {
	if _, err := c.Selection.Pick(path); err != nil {
		return model.DocumentDescriptor{}, err
	}
	file, err := c.Selection.Accepted()
	if err != nil {
		return model.DocumentDescriptor{}, err
	}
	desc, err := c.Uploads.Upload(ctx, file, cred)
	if err != nil {
		return model.DocumentDescriptor{}, err
	}
	c.Selection.Discard()
	return desc, nil
}

// Credential returns the configured API key.
func (c *Container) Credential() model.Credential {
	return c.Config.APIKey
}
