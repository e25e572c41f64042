package mail

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/logging"
)

// LogSender writes messages to the log instead of delivering them. It is
// used when no SMTP relay is configured.
type LogSender struct {
	templates *Templates
	log       logging.Logger
}

func NewLogSender(templates *Templates, log logging.Logger) *LogSender {
	return &LogSender{templates: templates, log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	body, err := s.templates.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	s.log.Info(ctx, "mail not sent, no smtp relay configured",
		"to", msg.To, "subject", msg.Subject, "template", msg.Template)
	s.log.Debug(ctx, "mail body", "to", msg.To, "body", body)
	return nil
}
