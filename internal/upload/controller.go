// Package upload runs a single document upload attempt and applies its result
// to the document store and the chat transcript.
package upload

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/client"
	"github.com/dharsanguruparan/docchat/internal/docstate"
	"github.com/dharsanguruparan/docchat/internal/filecheck"
	"github.com/dharsanguruparan/docchat/internal/model"
)

// Uploader sends the multipart transfer.
type Uploader interface {
	UploadDocument(ctx context.Context, file model.PendingFile, cred model.Credential) (*client.UploadResponse, error)
}

// Transcript is cleared after every successful upload.
type Transcript interface {
	Reset()
}

// Controller allows one upload in flight at a time.
type Controller struct {
	uploader   Uploader
	docs       *docstate.Store
	transcript Transcript
	log        *zap.Logger
	inFlight   atomic.Bool
}

// New wires a Controller. log may be nil.
func New(uploader Uploader, docs *docstate.Store, transcript Transcript, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		uploader:   uploader,
		docs:       docs,
		transcript: transcript,
		log:        log.With(zap.String("component", "upload")),
	}
}

// Upload validates file locally, sends it, and on success replaces the
// current document and clears the transcript. Local refusals make no network
// call and leave every store untouched; remote failures keep the prior
// document and record a notice on the store. No retry is attempted.
func (c *Controller) Upload(ctx context.Context, file model.PendingFile, cred model.Credential) (model.DocumentDescriptor, error) {
	verdict := filecheck.Validate(file)
	if err := verdict.Err(); err != nil {
		c.log.Info("upload refused locally", zap.String("file", file.Name), zap.String("reason", string(verdict.Reason)))
		return model.DocumentDescriptor{}, err
	}
	if !cred.Present() {
		return model.DocumentDescriptor{}, apperr.Validation(apperr.ErrMissingCredential, "")
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return model.DocumentDescriptor{}, apperr.Precondition(apperr.ErrAlreadyInProgress)
	}
	defer c.inFlight.Store(false)

	start := time.Now()
	c.docs.BeginUpload(file.Name)
	c.log.Info("upload started",
		zap.String("file", file.Name),
		zap.String("kind", string(verdict.Kind)),
		zap.Int64("bytes", file.SizeBytes))

	resp, err := c.uploader.UploadDocument(ctx, file, cred)
	if err != nil {
		c.docs.FailUpload(apperr.Message(err))
		c.log.Warn("upload failed", zap.String("file", file.Name), zap.Stringer("kind", apperr.KindOf(err)), zap.Error(err))
		return model.DocumentDescriptor{}, err
	}

	desc := resp.Descriptor(file.Name)
	if err := c.docs.Set(desc); err != nil {
		rejected := apperr.ServerRejected(0, "")
		c.docs.FailUpload(apperr.Message(rejected))
		c.log.Warn("upload response incomplete", zap.String("file", file.Name), zap.Error(err))
		return model.DocumentDescriptor{}, rejected
	}
	c.transcript.Reset()
	c.log.Info("upload complete",
		zap.String("document_id", desc.ID),
		zap.Int("case_numbers", len(desc.ExtractedCaseNumbers)),
		zap.Int("dates", len(desc.ExtractedDates)),
		zap.Duration("elapsed", time.Since(start)))
	return desc, nil
}

// InFlight reports whether an upload is pending.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}
