// Package model defines data structures for the support platform.
package model

import (
	"time"
)

// Role identifies the author of a message. The set is closed: customers write as
// RoleUser, the knowledge-base responder as RoleBot, and human support staff as
// RoleAgent.
type Role string

const (
	RoleUser  Role = "user"
	RoleBot   Role = "bot"
	RoleAgent Role = "agent"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleBot, RoleAgent:
		return true
	}
	return false
}

// MessageKind distinguishes an ordinary message from a bare file upload.
type MessageKind string

const (
	MessageKindText       MessageKind = "message"
	MessageKindFileUpload MessageKind = "fileupload"
)

// Attachment describes a file referenced by a message. The upload completes
// before the message referencing it is created.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// Message is a single entry in a session's append-only log. Immutable once
// created.
type Message struct {
	ID         string      `json:"id"`
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	Kind       MessageKind `json:"kind"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SendMessageRequest is the request to send a new message into a session.
type SendMessageRequest struct {
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}
