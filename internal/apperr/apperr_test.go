package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("upload: %w", Network(errors.New("dial tcp: refused")))
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.True(t, Is(err, KindNetwork))
	assert.False(t, Is(err, KindServerRejected))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server detail verbatim", ServerRejected(413, "File too large. Maximum size is 4MB."), "File too large. Maximum size is 4MB."},
		{"server without detail", ServerRejected(500, ""), "The server rejected the request. Please try again."},
		{"validation detail", Validation(ErrTooLarge, "too big"), "too big"},
		{"validation cause", Validation(ErrEmptyMessage, ""), "Message is empty."},
		{"in flight", Precondition(ErrAlreadyInProgress), "Please wait for the current request to finish."},
		{"no document", Precondition(ErrNoDocument), "Please upload a document first."},
		{"stream", Stream(errors.New("unexpected EOF")), "The response stream was interrupted. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestUnwrapKeepsSentinel(t *testing.T) {
	err := Precondition(ErrAlreadyInProgress)
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
	assert.Equal(t, "precondition_failed: operation already in progress", err.Error())
}
