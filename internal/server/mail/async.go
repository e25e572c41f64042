package mail

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/accounts/internal/logging"
)

// AsyncSender queues messages for a background worker so that callers never
// wait on delivery. Delivery failures are logged and dropped.
type AsyncSender struct {
	next  Sender
	log   logging.Logger
	queue chan Message

	mu     sync.RWMutex
	closed bool
}

func NewAsyncSender(next Sender, size int, log logging.Logger) *AsyncSender {
	if size <= 0 {
		size = 1
	}
	return &AsyncSender{next: next, log: log, queue: make(chan Message, size)}
}

// Send enqueues msg. It fails with ErrQueueFull instead of blocking.
func (s *AsyncSender) Send(_ context.Context, msg Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrQueueClosed
	}

	select {
	case s.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued messages until ctx is done, then drains what is left
// with a context that is no longer cancelled.
func (s *AsyncSender) Run(ctx context.Context) {
	for {
		select {
		case msg := <-s.queue:
			s.deliver(ctx, msg)
		case <-ctx.Done():
			s.close()
			drainCtx := context.WithoutCancel(ctx)
			for msg := range s.queue {
				s.deliver(drainCtx, msg)
			}
			return
		}
	}
}

func (s *AsyncSender) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
}

func (s *AsyncSender) deliver(ctx context.Context, msg Message) {
	if err := s.next.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "mail delivery failed", "to", msg.To, "template", msg.Template, "error", err)
		return
	}
	s.log.Debug(ctx, "mail delivered", "to", msg.To, "template", msg.Template)
}
