package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
)

func TestTranscriptPrinterStreamsDeltas(t *testing.T) {
	var buf bytes.Buffer
	p := newTranscriptPrinter(&buf, false)
	msg := model.ChatMessage{ID: "m1", Role: model.RoleAssistant, Status: model.StatusPending}
	p.observe(model.ChatMessage{ID: "u1", Role: model.RoleUser, Content: "hi", Status: model.StatusComplete})
	p.observe(msg)
	for _, chunk := range []string{"Case ", "12-345", "."} {
		msg.Status = model.StatusStreaming
		msg.Content += chunk
		p.observe(msg)
	}
	msg.Status = model.StatusComplete
	p.observe(msg)
	assert.Equal(t, "assistant> Case 12-345.\n", buf.String())
	assert.Empty(t, p.printed)
}

func TestTranscriptPrinterErrors(t *testing.T) {
	tests := []struct {
		name  string
		steps []model.ChatMessage
		want  string
	}{
		{
			name: "request failure replaces placeholder",
			steps: []model.ChatMessage{
				{ID: "m", Role: model.RoleAssistant, Status: model.StatusPending},
				{ID: "m", Role: model.RoleAssistant, Status: model.StatusErrored, Content: "Network error.", Notice: "Network error."},
			},
			want: "assistant> Network error.\n",
		},
		{
			name: "stream failure keeps prefix",
			steps: []model.ChatMessage{
				{ID: "m", Role: model.RoleAssistant, Status: model.StatusPending},
				{ID: "m", Role: model.RoleAssistant, Status: model.StatusStreaming, Content: "Case "},
				{ID: "m", Role: model.RoleAssistant, Status: model.StatusErrored, Content: "Case ", Notice: "Interrupted."},
			},
			want: "assistant> Case \n[error] Interrupted.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newTranscriptPrinter(&buf, false)
			for _, m := range tt.steps {
				p.observe(m)
			}
			assert.Equal(t, tt.want, buf.String())
			assert.Empty(t, p.printed)
		})
	}
}

func TestReplyPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newReplyPrinter(&buf, false)
	p.Begin()
	p.Append("A rental ")
	p.Fail(apperr.Stream(errors.New("connection reset")))
	assert.Equal(t, "assistant> A rental \n[error] The response stream was interrupted. Please try again.\n", buf.String())

	buf.Reset()
	p = newReplyPrinter(&buf, false)
	p.Fail(apperr.ServerRejected(500, "invalid api key"))
	assert.Equal(t, "[error] invalid api key\n", buf.String())
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Equal(t, "(no messages)\n", buf.String())

	buf.Reset()
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	printHistory(&buf, []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi", Status: model.StatusComplete, CreatedAt: at},
		{Role: model.RoleAssistant, Content: "Ca", Status: model.StatusErrored, Notice: "Interrupted.", CreatedAt: at},
	})
	assert.Equal(t, "09:30:00 user (complete): hi\n09:30:00 assistant (errored): Ca [Interrupted.]\n", buf.String())
}
