// Package repository implements the durable Definition store:
// save/get/find_by_term/search/find_duplicates/change_status backed by
// Postgres, plus the append-only history table and the voorbeelden
// (example sentences) sub-entity.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/database"
	appErrors "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/errors"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// Repository is the sole writer of Definition state.
type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a new Definition, or appends a new version when
// (term, organizational_context) already has a non-archived row and
// ForceDuplicate is set; otherwise it returns DuplicateDefinitionError.
func (r *Repository) Save(ctx context.Context, def *domain.Definition) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	existingID, err := r.findActiveID(ctx, tx, def.Term, def.OrganizationalContext)
	if err != nil {
		return "", err
	}

	if existingID != "" {
		if !def.Metadata.ForceDuplicate {
			return "", appErrors.NewDuplicateDefinitionError(def.Term, existingID)
		}
		def.PreviousVersionID = existingID
		def.Version, err = r.nextVersion(ctx, tx, existingID)
		if err != nil {
			return "", err
		}
	} else {
		def.Version = 1
	}

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO definities
			(term, text, ontological_category, organizational_context, juridical_context,
			 legal_basis, original_text, valid, status, version, previous_version_id,
			 created_at, updated_at, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, now(), now(), $12)
		RETURNING id`,
		def.Term, def.Text, def.OntologicalCategory,
		def.OrganizationalContext, def.JuridicalContext, def.LegalBasis,
		def.OriginalText, def.Valid, def.Status, def.Version, nullString(def.PreviousVersionID),
		def.CreatedBy,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return "", appErrors.NewDuplicateDefinitionError(def.Term, existingID)
		}
		return "", fmt.Errorf("inserting definition: %w", err)
	}

	if err := insertHistory(ctx, tx, id, "save", def.CreatedBy, ""); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing save: %w", err)
	}

	def.ID = id
	return id, nil
}

func (r *Repository) findActiveID(ctx context.Context, tx *sqlx.Tx, term string, orgContext []string) (string, error) {
	var id string
	err := tx.GetContext(ctx, &id, `
		SELECT id FROM definities
		WHERE term = $1 AND organizational_context = $2 AND status != 'archived'
		ORDER BY version DESC LIMIT 1`, term, pq.Array(orgContext))
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("checking for existing definition: %w", err)
	}
	return id, nil
}

func (r *Repository) nextVersion(ctx context.Context, tx *sqlx.Tx, existingID string) (int, error) {
	var version int
	if err := tx.GetContext(ctx, &version, `SELECT version FROM definities WHERE id = $1`, existingID); err != nil {
		return 0, fmt.Errorf("reading current version: %w", err)
	}
	return version + 1, nil
}

// Get returns a single Definition by id.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Definition, error) {
	var def domain.Definition
	err := r.db.GetContext(ctx, &def, `
		SELECT id, term, text, ontological_category, organizational_context, juridical_context,
		       legal_basis, original_text, valid, status, version, previous_version_id,
		       created_at, updated_at, created_by, approved_by, approved_at
		FROM definities WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFoundError("definition")
	}
	if err != nil {
		return nil, fmt.Errorf("getting definition: %w", err)
	}
	return &def, nil
}

// FindByTerm returns every non-archived version for term, newest first.
func (r *Repository) FindByTerm(ctx context.Context, term string) ([]domain.Definition, error) {
	var defs []domain.Definition
	err := r.db.SelectContext(ctx, &defs, `
		SELECT id, term, text, ontological_category, organizational_context, juridical_context,
		       legal_basis, original_text, valid, status, version, previous_version_id,
		       created_at, updated_at, created_by, approved_by, approved_at
		FROM definities WHERE term = $1 AND status != 'archived'
		ORDER BY version DESC`, term)
	if err != nil {
		return nil, fmt.Errorf("finding definitions by term: %w", err)
	}
	return defs, nil
}

// SearchQuery bundles Search's optional filters.
type SearchQuery struct {
	Query    string
	Category domain.OntologicalCategory
	Org      string
	Status   domain.DefinitionStatus
	Limit    int
}

// Search filters definities by any combination of query/category/org/status.
func (r *Repository) Search(ctx context.Context, q SearchQuery) ([]domain.Definition, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	clauses := []string{"status != 'archived'"}
	args := []any{}
	argN := 1

	if q.Query != "" {
		clauses = append(clauses, fmt.Sprintf("(term ILIKE $%d OR text ILIKE $%d)", argN, argN))
		args = append(args, "%"+q.Query+"%")
		argN++
	}
	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("ontological_category = $%d", argN))
		args = append(args, q.Category)
		argN++
	}
	if q.Org != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(organizational_context)", argN))
		args = append(args, q.Org)
		argN++
	}
	if q.Status != "" {
		clauses[0] = fmt.Sprintf("status = $%d", argN)
		args = append(args, q.Status)
		argN++
	}

	query := fmt.Sprintf(`
		SELECT id, term, text, ontological_category, organizational_context, juridical_context,
		       legal_basis, original_text, valid, status, version, previous_version_id,
		       created_at, updated_at, created_by, approved_by, approved_at
		FROM definities
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT $%d`, strings.Join(clauses, " AND "), argN)
	args = append(args, limit)

	var defs []domain.Definition
	if err := r.db.SelectContext(ctx, &defs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("searching definitions: %w", err)
	}
	return defs, nil
}

// ChangeStatus enforces the forward-only status machine
// and appends a history row.
func (r *Repository) ChangeStatus(ctx context.Context, id string, newStatus domain.DefinitionStatus, actor, notes string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning status-change transaction: %w", err)
	}
	defer tx.Rollback()

	var current domain.DefinitionStatus
	if err := tx.GetContext(ctx, &current, `SELECT status FROM definities WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewNotFoundError("definition")
		}
		return fmt.Errorf("reading current status: %w", err)
	}

	if !domain.CanTransition(current, newStatus) {
		return appErrors.NewConflictError(fmt.Sprintf("illegal status transition %s -> %s", current, newStatus))
	}

	approvedClause := ""
	args := []any{newStatus, id}
	if newStatus == domain.StatusEstablished {
		approvedClause = ", approved_by = $3, approved_at = now()"
		args = []any{newStatus, id, actor}
	}

	query := fmt.Sprintf(`UPDATE definities SET status = $1, updated_at = now()%s WHERE id = $2`, approvedClause)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if err := insertHistory(ctx, tx, id, "change_status:"+string(newStatus), actor, notes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing status change: %w", err)
	}
	return nil
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, definitionID, action, actor, notes string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO definitie_geschiedenis (definitie_id, action, actor, notes, created_at)
		VALUES ($1, $2, $3, $4, now())`, definitionID, action, actor, notes)
	if err != nil {
		return fmt.Errorf("inserting history row: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
