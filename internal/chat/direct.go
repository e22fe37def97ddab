package chat

import (
	"context"
	"io"
	"strings"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
	"github.com/dharsanguruparan/docchat/internal/stream"
)

// DefaultDeveloperMessage is sent when a direct question carries no
// instructions of its own.
const DefaultDeveloperMessage = "You are a helpful assistant."

// DirectStreamer issues a chat request that needs no uploaded document.
type DirectStreamer interface {
	DirectChat(ctx context.Context, developerMessage, message string, cred model.Credential) (io.ReadCloser, error)
}

// Direct asks one question outside any transcript and streams the reply into
// target. Refused questions return a validation error without touching
// target; request and stream failures are reported to target.Fail as well as
// returned.
func Direct(ctx context.Context, streamer DirectStreamer, developerMessage, text string, cred model.Credential, target stream.Target) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.Validation(apperr.ErrEmptyMessage, "")
	}
	if !cred.Present() {
		return apperr.Validation(apperr.ErrMissingCredential, "")
	}
	if strings.TrimSpace(developerMessage) == "" {
		developerMessage = DefaultDeveloperMessage
	}

	body, err := streamer.DirectChat(ctx, developerMessage, text, cred)
	if err != nil {
		target.Fail(err)
		return err
	}
	defer body.Close()
	return stream.Consume(body, target)
}
