package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/errors"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

var validRatings = map[domain.VoorbeeldRating]bool{
	domain.RatingGoed:   true,
	domain.RatingMatig:  true,
	domain.RatingSlecht: true,
}

// SaveVoorbeeld inserts a new example sentence and deactivates any
// previously active one for the same definition, so a definition has at
// most one active voorbeeld at a time while older ones remain queryable.
func (r *Repository) SaveVoorbeeld(ctx context.Context, v *domain.Voorbeeld) (string, error) {
	if v.Rating != "" && !validRatings[v.Rating] {
		return "", errors.NewValidationError(fmt.Sprintf("invalid voorbeeld rating %q", v.Rating))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning voorbeeld transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE voorbeelden SET active = false
		WHERE definitie_id = $1 AND active = true`, v.DefinitieID); err != nil {
		return "", fmt.Errorf("deactivating previous voorbeeld: %w", err)
	}

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO voorbeelden (definitie_id, text, rating, active, created_at, created_by)
		VALUES ($1, $2, $3, true, now(), $4)
		RETURNING id`, v.DefinitieID, v.Text, nullVoorbeeldRating(v.Rating), v.CreatedBy,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting voorbeeld: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing voorbeeld save: %w", err)
	}

	v.ID = id
	v.Active = true
	return id, nil
}

// GetVoorbeelden returns every voorbeeld for a definition, active first
// then newest first.
func (r *Repository) GetVoorbeelden(ctx context.Context, definitieID string) ([]domain.Voorbeeld, error) {
	var voorbeelden []domain.Voorbeeld
	err := r.db.SelectContext(ctx, &voorbeelden, `
		SELECT id, definitie_id, text, rating, active, reviewed_by, reviewed_at, created_at, created_by
		FROM voorbeelden
		WHERE definitie_id = $1
		ORDER BY active DESC, created_at DESC`, definitieID)
	if err != nil {
		return nil, fmt.Errorf("getting voorbeelden: %w", err)
	}
	return voorbeelden, nil
}

// ReviewVoorbeeld records a rating decision against an existing voorbeeld.
func (r *Repository) ReviewVoorbeeld(ctx context.Context, id string, rating domain.VoorbeeldRating, reviewer string) error {
	if !validRatings[rating] {
		return errors.NewValidationError(fmt.Sprintf("invalid voorbeeld rating %q", rating))
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE voorbeelden SET rating = $1, reviewed_by = $2, reviewed_at = now()
		WHERE id = $3`, rating, reviewer, id)
	if err != nil {
		return fmt.Errorf("reviewing voorbeeld: %w", err)
	}
	return requireRowAffected(result, "voorbeeld")
}

// DeleteVoorbeeld removes an example sentence outright; unlike SaveVoorbeeld
// this is a hard delete, used to purge entries rather than supersede them.
func (r *Repository) DeleteVoorbeeld(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM voorbeelden WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting voorbeeld: %w", err)
	}
	return requireRowAffected(result, "voorbeeld")
}

func requireRowAffected(result sql.Result, resource string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return errors.NewNotFoundError(resource)
	}
	return nil
}

func nullVoorbeeldRating(rating domain.VoorbeeldRating) sql.NullString {
	return sql.NullString{String: string(rating), Valid: rating != ""}
}
