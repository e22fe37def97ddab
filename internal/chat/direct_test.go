package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
)

type fakeDirect struct {
	developer []string
	messages  []string
	body      io.ReadCloser
	err       error
}

func (f *fakeDirect) DirectChat(ctx context.Context, developerMessage, message string, cred model.Credential) (io.ReadCloser, error) {
	f.developer = append(f.developer, developerMessage)
	f.messages = append(f.messages, message)
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type replyRecorder struct {
	text     string
	complete bool
	failure  error
}

func (r *replyRecorder) Begin() {}
func (r *replyRecorder) Append(text string) { r.text += text }
func (r *replyRecorder) Complete() { r.complete = true }
func (r *replyRecorder) Fail(err error) { r.failure = err }

func TestDirectStreamsReply(t *testing.T) {
	body := &scriptedBody{chunks: []string{"A rental ", "contract."}}
	f := &fakeDirect{body: body}
	var r replyRecorder

	err := Direct(t.Context(), f, "Answer briefly.", "  What is a lease?  ", "sk-test", &r)
	require.NoError(t, err)
	assert.Equal(t, "A rental contract.", r.text)
	assert.True(t, r.complete)
	assert.True(t, body.closed)
	assert.Equal(t, []string{"Answer briefly."}, f.developer)
	assert.Equal(t, []string{"What is a lease?"}, f.messages)
}

func TestDirectDefaultsDeveloperMessage(t *testing.T) {
	f := &fakeDirect{body: &scriptedBody{chunks: []string{"ok"}}}
	require.NoError(t, Direct(t.Context(), f, " ", "hi", "k", &replyRecorder{}))
	assert.Equal(t, []string{DefaultDeveloperMessage}, f.developer)
}

func TestDirectRefusals(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		cred  model.Credential
		cause error
	}{
		{"empty message", "   ", "k", apperr.ErrEmptyMessage},
		{"missing credential", "hi", "", apperr.ErrMissingCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeDirect{}
			var r replyRecorder
			err := Direct(t.Context(), f, "", tt.text, tt.cred, &r)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.ErrorIs(t, err, tt.cause)
			assert.Empty(t, f.messages)
			assert.NoError(t, r.failure)
		})
	}
}

func TestDirectRequestFailureReachesTarget(t *testing.T) {
	f := &fakeDirect{err: apperr.ServerRejected(500, "invalid api key")}
	var r replyRecorder
	err := Direct(t.Context(), f, "", "hi", "k", &r)
	require.Error(t, err)
	assert.Equal(t, err, r.failure)
	assert.False(t, r.complete)
}

func TestDirectStreamFailureKeepsPartialText(t *testing.T) {
	f := &fakeDirect{body: &scriptedBody{chunks: []string{"A rental "}, err: errors.New("connection reset")}}
	var r replyRecorder
	err := Direct(t.Context(), f, "", "hi", "k", &r)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindStream))
	assert.Equal(t, "A rental ", r.text)
	assert.Error(t, r.failure)
}
