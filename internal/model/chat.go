package model

import "time"

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageStatus is the lifecycle of a transcript entry. Pending and streaming
// only ever apply to the trailing assistant message.
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusStreaming MessageStatus = "streaming"
	StatusComplete  MessageStatus = "complete"
	StatusErrored   MessageStatus = "errored"
)

// Terminal reports whether no further mutation is allowed.
func (s MessageStatus) Terminal() bool {
	return s == StatusComplete || s == StatusErrored
}

// ChatMessage is one entry in the transcript.
type ChatMessage struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Content   string        `json:"content"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	// Notice is the formatted failure description of an errored message.
	Notice    string        `json:"notice,omitempty"`
}
