package audit

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// Client fans an Event out to every configured Sink, generalized to
// multiple sinks instead of a single datastore-backed audit store.
type Client struct {
	sinks  []Sink
	logger logr.Logger
}

func NewClient(logger logr.Logger, sinks ...Sink) *Client {
	return &Client{sinks: sinks, logger: logger}
}

// RecordGenerationError emits a generation.error.occurred event for a
// failed or degraded phase of the generation pipeline.
func (c *Client) RecordGenerationError(ctx context.Context, req domain.GenerationRequest, phase string, err error) {
	c.emit(ctx, Event{
		Type:          "generation.error.occurred",
		Category:      CategoryGeneration,
		Outcome:       OutcomeFailure,
		Term:          req.Term,
		Phase:         phase,
		CorrelationID: req.ID,
		ErrorMessage:  err.Error(),
		OccurredAt:    time.Now(),
	})
}

// RecordValidationFailure emits a validation.failure event listing every
// violation on a rejected definition.
func (c *Client) RecordValidationFailure(ctx context.Context, def domain.Definition, result domain.ValidationResult) {
	violations := make([]string, len(result.Violations))
	for i, v := range result.Violations {
		violations[i] = v.RuleID + ":" + v.Severity
	}
	c.emit(ctx, Event{
		Type:          "validation.failure",
		Category:      CategoryValidation,
		Outcome:       OutcomeWarning,
		Term:          def.Term,
		CorrelationID: def.ID,
		Violations:    violations,
		OccurredAt:    time.Now(),
	})
}

// emit fans out to every sink; a sink error is logged, never returned,
// so monitoring never blocks or fails the calling phase.
func (c *Client) emit(ctx context.Context, event Event) {
	for _, sink := range c.sinks {
		if err := sink.Emit(ctx, event); err != nil {
			c.logger.Error(err, "audit sink failed to emit event", "type", event.Type)
		}
	}
}
