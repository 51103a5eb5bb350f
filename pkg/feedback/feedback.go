// Package feedback implements FeedbackEngine: a small
// Postgres-backed table of prior validation failures, surfaced back into
// prompt building as an optional block and otherwise opaque to callers.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// Entry is one row returned by GetFeedbackForRequest.
type Entry struct {
	Type    string `json:"type" db:"feedback_type"`
	Content string `json:"content" db:"content"`
}

// Engine is the Postgres-backed feedback store.
type Engine struct {
	db    *sqlx.DB
	limit int
}

// New constructs an Engine. limit bounds GetFeedbackForRequest's result
// count ("up to N most relevant prior failures").
func New(db *sqlx.DB, limit int) *Engine {
	if limit <= 0 {
		limit = 5
	}
	return &Engine{db: db, limit: limit}
}

// GetFeedbackForRequest returns up to e.limit most recent prior failures
// for term+category, most recent first.
func (e *Engine) GetFeedbackForRequest(ctx context.Context, term string, category domain.OntologicalCategory) ([]Entry, error) {
	var entries []Entry
	err := e.db.SelectContext(ctx, &entries, `
		SELECT feedback_type, content
		FROM definitie_feedback
		WHERE term = $1 AND ontological_category = $2
		ORDER BY created_at DESC
		LIMIT $3`, term, category, e.limit)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	return entries, nil
}

// ProcessValidationFeedback records a new feedback entry when validation
// failed; it is a no-op when the definition was accepted.
func (e *Engine) ProcessValidationFeedback(ctx context.Context, definitionID string, result domain.ValidationResult, req domain.GenerationRequest) error {
	if result.IsAcceptable {
		return nil
	}

	content, err := json.Marshal(map[string]any{
		"definition_id": definitionID,
		"violations":    result.Violations,
		"term":          req.Term,
	})
	if err != nil {
		return fmt.Errorf("marshaling feedback content: %w", err)
	}

	category := domain.CategoryResultaat
	if req.OntologicalCategory != nil {
		category = *req.OntologicalCategory
	}

	_, err = e.db.ExecContext(ctx, `
		INSERT INTO definitie_feedback (term, ontological_category, feedback_type, content, definitie_id, created_at)
		VALUES ($1, $2, 'validation_failure', $3, $4, now())`,
		req.Term, category, string(content), definitionID)
	if err != nil {
		return fmt.Errorf("inserting feedback entry: %w", err)
	}
	return nil
}
