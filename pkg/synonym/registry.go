// Package synonym implements the synonym graph persistence layer
// (SynonymRegistry) and the TTL-cached governance front-end
// (SynonymOrchestrator).
package synonym

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/errors"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// orderByWhitelist is the columns get_synonyms may sort by. Concatenation
// into SQL is only permitted after this check.
var orderByWhitelist = map[string]bool{
	"is_preferred": true,
	"weight":       true,
	"usage_count":  true,
	"term":         true,
	"status":       true,
	"created_at":   true,
	"last_used_at": true,
}

const defaultOrderBy = "is_preferred DESC, weight DESC, usage_count DESC"

// InvalidationCallback is invoked with every term affected by a mutation
// (register_invalidation_callback).
type InvalidationCallback func(term string)

// Registry is the Postgres-backed CRUD layer over the synonym graph.
type Registry struct {
	db          *sqlx.DB
	invalidated []InvalidationCallback
}

func NewRegistry(db *sqlx.DB) *Registry {
	return &Registry{db: db}
}

// RegisterInvalidationCallback appends fn to the set of callbacks invoked
// on every mutation.
func (r *Registry) RegisterInvalidationCallback(fn InvalidationCallback) {
	r.invalidated = append(r.invalidated, fn)
}

func (r *Registry) notify(terms ...string) {
	for _, term := range terms {
		for _, cb := range r.invalidated {
			cb(normalize(term))
		}
	}
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// GetOrCreateGroup is idempotent on canonical_term.
func (r *Registry) GetOrCreateGroup(ctx context.Context, canonicalTerm string, groupDomain string, createdBy string) (*domain.SynonymGroup, error) {
	if strings.TrimSpace(canonicalTerm) == "" {
		return nil, appErrors.NewValidationError("canonical_term mag niet leeg zijn")
	}

	var group domain.SynonymGroup
	err := r.db.GetContext(ctx, &group,
		`SELECT id, canonical_term, domain, created_at, updated_at, created_by
		 FROM synonym_groups WHERE canonical_term = $1`, canonicalTerm)
	if err == nil {
		return &group, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("looking up synonym group: %w", err)
	}

	err = r.db.GetContext(ctx, &group,
		`INSERT INTO synonym_groups (canonical_term, domain, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 RETURNING id, canonical_term, domain, created_at, updated_at, created_by`,
		canonicalTerm, groupDomain, createdBy)
	if err != nil {
		return nil, fmt.Errorf("creating synonym group: %w", err)
	}
	return &group, nil
}

// AddGroupMember is idempotent on (group_id, term, definitie_id); a
// duplicate add returns the existing id without re-triggering invalidation.
func (r *Registry) AddGroupMember(ctx context.Context, groupID, term string, weight float64, status domain.MemberStatus, source domain.MemberSource, contextJSON string, definitieID *string, createdBy string) (string, error) {
	if err := validateMember(term, weight, status, source); err != nil {
		return "", err
	}

	var existingID string
	err := r.db.GetContext(ctx, &existingID,
		`SELECT id FROM synonym_group_members
		 WHERE group_id = $1 AND term = $2 AND definitie_id IS NOT DISTINCT FROM $3`,
		groupID, term, definitieID)
	if err == nil {
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking for existing member: %w", err)
	}

	var newID string
	err = r.db.GetContext(ctx, &newID,
		`INSERT INTO synonym_group_members
		   (group_id, term, weight, is_preferred, status, source, context_json, definitie_id,
		    usage_count, created_at, updated_at)
		 VALUES ($1, $2, $3, false, $4, $5, $6, $7, 0, now(), now())
		 RETURNING id`,
		groupID, term, weight, status, source, contextJSON, definitieID)
	if err != nil {
		return "", fmt.Errorf("inserting synonym group member: %w", err)
	}

	canonical, canonErr := r.canonicalTermFor(ctx, groupID)
	if canonErr == nil {
		r.notify(term, canonical)
	} else {
		r.notify(term)
	}

	return newID, nil
}

func (r *Registry) canonicalTermFor(ctx context.Context, groupID string) (string, error) {
	var canonical string
	err := r.db.GetContext(ctx, &canonical, `SELECT canonical_term FROM synonym_groups WHERE id = $1`, groupID)
	return canonical, err
}

func validateMember(term string, weight float64, status domain.MemberStatus, source domain.MemberSource) error {
	if strings.TrimSpace(term) == "" {
		return appErrors.NewValidationError("term mag niet leeg zijn")
	}
	if weight < 0 || weight > 1 {
		return appErrors.NewValidationError("weight moet tussen 0 en 1 liggen")
	}
	switch status {
	case domain.MemberActive, domain.MemberAIPending, domain.MemberRejectedAuto, domain.MemberDeprecated:
	default:
		return appErrors.NewValidationError("onbekende status: " + string(status))
	}
	switch source {
	case domain.SourceDBSeed, domain.SourceManual, domain.SourceAISuggested, domain.SourceImportedYAML:
	default:
		return appErrors.NewValidationError("onbekende bron: " + string(source))
	}
	return nil
}

// GetSynonyms performs the bidirectional lookup: term
// matches if it equals any member's term in any group, and the query
// returns the other members of that group.
func (r *Registry) GetSynonyms(ctx context.Context, term string, statuses []domain.MemberStatus, minWeight float64, orderBy string, limit int) ([]domain.WeightedSynonym, error) {
	order, err := resolveOrderBy(orderBy)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT m2.term, m2.weight, m2.status, m2.is_preferred, m2.usage_count
		FROM synonym_group_members m1
		JOIN synonym_group_members m2 ON m2.group_id = m1.group_id AND m2.id != m1.id
		WHERE m1.term = $1 AND m2.weight >= $2
		%s
		ORDER BY %s
		LIMIT $3`, statusClause(statuses, 4), order)

	args := []any{term, minWeight, limit}
	for _, s := range statuses {
		args = append(args, s)
	}

	var rows []domain.WeightedSynonym
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying synonyms: %w", err)
	}
	return rows, nil
}

func statusClause(statuses []domain.MemberStatus, firstPlaceholder int) string {
	if len(statuses) == 0 {
		return ""
	}
	placeholders := make([]string, len(statuses))
	for i := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", firstPlaceholder+i)
	}
	return "AND m2.status IN (" + strings.Join(placeholders, ",") + ")"
}

func resolveOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return defaultOrderBy, nil
	}
	column := strings.TrimSuffix(strings.TrimSuffix(orderBy, " DESC"), " ASC")
	if !orderByWhitelist[column] {
		allowed := make([]string, 0, len(orderByWhitelist))
		for k := range orderByWhitelist {
			allowed = append(allowed, k)
		}
		return "", appErrors.NewValidationError(
			fmt.Sprintf("ongeldige order_by kolom %q; toegestaan: %s", column, strings.Join(allowed, ", ")))
	}
	return orderBy, nil
}

// GetGroupMembers returns every member of a group, optionally filtered by
// status.
func (r *Registry) GetGroupMembers(ctx context.Context, groupID string, statuses []domain.MemberStatus, orderBy string) ([]domain.SynonymGroupMember, error) {
	order, err := resolveOrderBy(orderBy)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, group_id, term, weight, is_preferred, status, source, context_json,
		       definitie_id, usage_count, last_used_at, created_at, updated_at, reviewed_by, reviewed_at
		FROM synonym_group_members
		WHERE group_id = $1
		%s
		ORDER BY %s`, statusClause(statuses, 2), order)

	args := []any{groupID}
	for _, s := range statuses {
		args = append(args, s)
	}

	var members []domain.SynonymGroupMember
	if err := r.db.SelectContext(ctx, &members, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying group members: %w", err)
	}
	return members, nil
}

// GetMemberContextJSON fetches one member's raw context_json, for
// ad-hoc jq introspection via QueryContext.
func (r *Registry) GetMemberContextJSON(ctx context.Context, memberID string) (string, error) {
	var contextJSON sql.NullString
	err := r.db.GetContext(ctx, &contextJSON,
		`SELECT context_json FROM synonym_group_members WHERE id = $1`, memberID)
	if err != nil {
		return "", fmt.Errorf("fetching member context: %w", err)
	}
	return contextJSON.String, nil
}

// UpdateMemberStatus records the reviewer and timestamp.
func (r *Registry) UpdateMemberStatus(ctx context.Context, memberID string, newStatus domain.MemberStatus, reviewedBy string) error {
	var term string
	err := r.db.GetContext(ctx, &term,
		`UPDATE synonym_group_members
		 SET status = $1, reviewed_by = $2, reviewed_at = now(), updated_at = now()
		 WHERE id = $3
		 RETURNING term`, newStatus, reviewedBy, memberID)
	if err != nil {
		return fmt.Errorf("updating member status: %w", err)
	}
	r.notify(term)
	return nil
}

// DeleteGroup removes a group; with cascade=false it refuses if members
// exist.
func (r *Registry) DeleteGroup(ctx context.Context, groupID string, cascade bool) error {
	if !cascade {
		var count int
		if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM synonym_group_members WHERE group_id = $1`, groupID); err != nil {
			return fmt.Errorf("counting group members: %w", err)
		}
		if count > 0 {
			return appErrors.NewConflictError("groep heeft nog leden; cascade=false weigert verwijdering")
		}
	}

	var terms []string
	if err := r.db.SelectContext(ctx, &terms, `SELECT term FROM synonym_group_members WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("listing member terms before delete: %w", err)
	}
	var canonical string
	_ = r.db.GetContext(ctx, &canonical, `SELECT canonical_term FROM synonym_groups WHERE id = $1`, groupID)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM synonym_group_members WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("deleting group members: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM synonym_groups WHERE id = $1`, groupID); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	if canonical != "" {
		terms = append(terms, canonical)
	}
	r.notify(terms...)
	return nil
}
