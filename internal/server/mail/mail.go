// Package mail renders and delivers transactional e-mail.
package mail

import (
	"context"
	"errors"
)

// Message is a templated mail. Data feeds the template named by Template.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	ErrUnknownTemplate = errors.New("unknown mail template")
	ErrQueueFull       = errors.New("mail queue is full")
	ErrQueueClosed     = errors.New("mail queue is closed")
)
