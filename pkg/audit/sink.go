package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/slack-go/slack"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/obslogging"
)

// Sink delivers an Event somewhere. A Client fans an Event out to every
// configured Sink and never fails the caller's operation on a Sink error
// (monitoring must degrade, not propagate).
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// LogSink writes events through the structured logger, grounded on
// internal/obslogging's Fields vocabulary.
type LogSink struct {
	logger logr.Logger
}

func NewLogSink(logger logr.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(_ context.Context, event Event) error {
	fields := obslogging.NewFields().
		Component("audit").
		Operation(event.Type).
		Term(event.Term)
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	if event.CorrelationID != "" {
		fields.RequestID(event.CorrelationID)
	}
	s.logger.Info("monitoring event", "category", event.Category, "outcome", event.Outcome,
		"phase", event.Phase, "violations", event.Violations, "fields", fields)
	return nil
}

// SlackSink posts an Event to an ops channel via the Slack Web API.
type SlackSink struct {
	client  *slack.Client
	channel string
}

func NewSlackSink(token, channel string) *SlackSink {
	return &SlackSink{client: slack.New(token), channel: channel}
}

func (s *SlackSink) Emit(ctx context.Context, event Event) error {
	text := fmt.Sprintf("[%s/%s] %s (term=%q, phase=%q, correlation_id=%s)",
		event.Category, event.Outcome, event.Type, event.Term, event.Phase, event.CorrelationID)
	if event.ErrorMessage != "" {
		text += "\n" + event.ErrorMessage
	}
	if len(event.Violations) > 0 {
		text += "\nviolations: " + strings.Join(event.Violations, "; ")
	}

	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting slack audit event: %w", err)
	}
	return nil
}
