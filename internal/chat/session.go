// Package chat owns the transcript and runs one question/answer exchange at a
// time against the streamed rag-chat endpoint. Direct covers the document-free
// chat endpoint.
package chat

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
	"github.com/dharsanguruparan/docchat/internal/stream"
)

// Streamer issues the chat request and hands back the reply body.
type Streamer interface {
	Chat(ctx context.Context, message string, cred model.Credential) (io.ReadCloser, error)
}

// DocumentSource reports whether a document is active.
type DocumentSource interface {
	Current() (model.DocumentDescriptor, bool)
}

// Observer is told about every transcript change with a copy of the changed
// message. It runs on the goroutine that made the change and must not block.
type Observer func(msg model.ChatMessage)

// Option customizes a Session.
type Option func(*Session)

// WithObserver registers fn for transcript changes.
func WithObserver(fn Observer) Option {
	return func(s *Session) { s.observe = fn }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is the transcript owner. All writes go through Send, Reset and the
// placeholder of the active exchange.
type Session struct {
	streamer Streamer
	docs     DocumentSource
	observe  Observer
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	messages []model.ChatMessage
	active   bool
	// gen changes on Reset so a stale exchange cannot write into a new
	// transcript.
	gen      uint64
	last     time.Time
}

// NewSession returns an empty session.
func NewSession(streamer Streamer, docs DocumentSource, opts ...Option) *Session {
	s := &Session{
		streamer: streamer,
		docs:     docs,
		observe:  func(model.ChatMessage) {},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "chat"))
	return s
}

// Send appends the user message and a pending assistant placeholder, then
// streams the reply into the placeholder on a new goroutine. A refused send
// returns an error and leaves the transcript untouched. The session never
// cancels an exchange itself; ctx only bounds the underlying request.
func (s *Session) Send(ctx context.Context, text string, cred model.Credential) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation(apperr.ErrEmptyMessage, "")
	}
	if !cred.Present() {
		return nil, apperr.Validation(apperr.ErrMissingCredential, "")
	}
	if _, ok := s.docs.Current(); !ok {
		return nil, apperr.Precondition(apperr.ErrNoDocument)
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil, apperr.Precondition(apperr.ErrAlreadyInProgress)
	}
	s.active = true
	user := s.appendLocked(model.RoleUser, text, model.StatusComplete)
	placeholder := s.appendLocked(model.RoleAssistant, "", model.StatusPending)
	target := &placeholderTarget{session: s, gen: s.gen, index: len(s.messages) - 1}
	s.mu.Unlock()

	s.observe(user)
	s.observe(placeholder)
	s.log.Debug("exchange started", zap.String("message_id", placeholder.ID), zap.Int("chars", len(text)))

	ex := &Exchange{MessageID: placeholder.ID, done: make(chan struct{})}
	go s.run(ctx, ex, target, text, cred)
	return ex, nil
}

func (s *Session) run(ctx context.Context, ex *Exchange, target *placeholderTarget, text string, cred model.Credential) {
	defer close(ex.done)
	defer s.finish(target.gen)

	body, err := s.streamer.Chat(ctx, text, cred)
	if err != nil {
		s.log.Warn("chat request failed", zap.String("message_id", ex.MessageID), zap.Error(err))
		target.replaceWithError(err)
		ex.err = err
		return
	}
	defer body.Close()
	if err := stream.Consume(body, target); err != nil {
		s.log.Warn("chat stream failed", zap.String("message_id", ex.MessageID), zap.Error(err))
		ex.err = err
		return
	}
	s.log.Debug("exchange complete", zap.String("message_id", ex.MessageID))
}

func (s *Session) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.active = false
	}
}

// Reset discards the transcript. An exchange still streaming keeps running
// but its writes are dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.active = false
	s.gen++
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Active reports whether an exchange is unresolved.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) appendLocked(role model.Role, content string, status model.MessageStatus) model.ChatMessage {
	at := s.now().UTC()
	if at.Before(s.last) {
		at = s.last
	}
	s.last = at
	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Status:    status,
		CreatedAt: at,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// mutate applies fn to the placeholder if it still belongs to the current
// transcript and is not terminal, then notifies the observer.
func (s *Session) mutate(gen uint64, index int, fn func(*model.ChatMessage)) {
	s.mu.Lock()
	if s.gen != gen || index >= len(s.messages) || s.messages[index].Status.Terminal() {
		s.mu.Unlock()
		return
	}
	fn(&s.messages[index])
	msg := s.messages[index]
	s.mu.Unlock()
	s.observe(msg)
}
