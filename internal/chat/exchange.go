package chat

import (
	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
)

// Exchange is one in-flight send.
type Exchange struct {
	// MessageID is the placeholder's ID.
	MessageID string
	done      chan struct{}
	err       error
}

// Done is closed when the exchange resolves.
func (e *Exchange) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the exchange resolves and returns its failure, if any.
// The failure is already recorded in the transcript.
func (e *Exchange) Wait() error {
	<-e.done
	return e.err
}

// placeholderTarget folds the stream into the trailing assistant message.
type placeholderTarget struct {
	session *Session
	gen     uint64
	index   int
}

func (p *placeholderTarget) Begin() {
	p.session.mutate(p.gen, p.index, func(m *model.ChatMessage) {
		m.Status = model.StatusStreaming
	})
}

func (p *placeholderTarget) Append(text string) {
	p.session.mutate(p.gen, p.index, func(m *model.ChatMessage) {
		m.Content += text
	})
}

func (p *placeholderTarget) Complete() {
	p.session.mutate(p.gen, p.index, func(m *model.ChatMessage) {
		m.Status = model.StatusComplete
	})
}

// Fail marks the message errored. Content received before the failure is
// kept; a placeholder that never started streaming carries the description
// instead, as it would for a failed request.
func (p *placeholderTarget) Fail(err error) {
	notice := apperr.Message(err)
	p.session.mutate(p.gen, p.index, func(m *model.ChatMessage) {
		if m.Status == model.StatusPending && m.Content == "" {
			m.Content = notice
		}
		m.Status = model.StatusErrored
		m.Notice = notice
	})
}

// replaceWithError is used when the request failed before any streaming: the
// empty placeholder becomes an errored entry carrying the description.
func (p *placeholderTarget) replaceWithError(err error) {
	notice := apperr.Message(err)
	p.session.mutate(p.gen, p.index, func(m *model.ChatMessage) {
		m.Status = model.StatusErrored
		m.Content = notice
		m.Notice = notice
	})
}
