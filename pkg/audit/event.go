// Package audit emits monitoring events for AI generation errors and
// validation failures to an ops channel and a structured-log sink.
package audit

import "time"

// EventCategory groups events into generation/validation categories.
type EventCategory string

const (
	CategoryGeneration EventCategory = "generation"
	CategoryValidation EventCategory = "validation"
)

// EventOutcome is a failure/warning outcome enum.
type EventOutcome string

const (
	OutcomeFailure EventOutcome = "failure"
	OutcomeWarning EventOutcome = "warning"
)

// Event is one monitoring event, sent to every configured Sink.
type Event struct {
	Type          string
	Category      EventCategory
	Outcome       EventOutcome
	Term          string
	Phase         string
	CorrelationID string
	ErrorMessage  string
	Violations    []string
	OccurredAt    time.Time
}
