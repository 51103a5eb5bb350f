// Package domain holds the plain-struct data model shared across the
// definition engine's components: GenerationRequest,
// Definition, ValidationResult, the synonym graph types,
// UFOClassificationResult, and PromptModuleOutput. No ORM: struct tags
// cover yaml/json for the HTTP surface and db for sqlx scans.
package domain

import (
	"time"

	"github.com/lib/pq"
)

// OntologicalCategory is the coarse, four-valued generation-context label
// from the Glossary, distinct from the 16-valued UFO/OntoUML category.
type OntologicalCategory string

const (
	CategoryProces    OntologicalCategory = "proces"
	CategoryType      OntologicalCategory = "type"
	CategoryResultaat OntologicalCategory = "resultaat"
	CategoryExemplaar OntologicalCategory = "exemplaar"
)

// GenerationOptions is GenerationRequest.options.
type GenerationOptions struct {
	Temperature    *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens      *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Model          *string  `json:"model,omitempty" yaml:"model,omitempty"`
	ForceDuplicate bool     `json:"force_duplicate,omitempty" yaml:"force_duplicate,omitempty"`
}

// GenerationRequest is created per user invocation, consumed once, and
// never mutated after sanitization.
type GenerationRequest struct {
	ID                    string               `json:"id"`
	Term                  string               `json:"term" validate:"required"`
	OrganizationalContext []string             `json:"organizational_context"`
	JuridicalContext      []string             `json:"juridical_context"`
	LegalBasis            []string             `json:"legal_basis"`
	OntologicalCategory   *OntologicalCategory `json:"ontological_category,omitempty"`
	Actor                 string               `json:"actor" validate:"required"`
	Options               GenerationOptions    `json:"options"`
}

// DefinitionStatus is the Definition status machine:
// draft -> review -> established, any state -> archived, never reverse.
type DefinitionStatus string

const (
	StatusDraft       DefinitionStatus = "draft"
	StatusReview      DefinitionStatus = "review"
	StatusEstablished DefinitionStatus = "established"
	StatusArchived    DefinitionStatus = "archived"
)

// statusRank orders the forward-only transitions; archived has no rank and
// is reachable from any state (see CanTransition).
var statusRank = map[DefinitionStatus]int{
	StatusDraft:       0,
	StatusReview:      1,
	StatusEstablished: 2,
}

// CanTransition reports whether from -> to is a legal status transition:
// forward-only through draft -> review -> established, or to archived from
// any state. Reverse transitions (including archived -> anything) are
// rejected.
func CanTransition(from, to DefinitionStatus) bool {
	if to == StatusArchived {
		return from != StatusArchived
	}
	fromRank, fromOK := statusRank[from]
	toRank, toOK := statusRank[to]
	if !fromOK || !toOK {
		return false
	}
	return toRank > fromRank
}

// Violation is one entry of ValidationResult.violations.
type Violation struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"` // critical|high|medium|low
	Message  string `json:"message"`
	Evidence string `json:"evidence,omitempty"`
}

const SeverityCritical = "critical"

// ValidationResult is an immutable value bound to a single Definition
// snapshot.
type ValidationResult struct {
	IsAcceptable   bool               `json:"is_acceptable"`
	Violations     []Violation        `json:"violations"`
	PassedRules    []string           `json:"passed_rules"`
	DetailedScores map[string]float64 `json:"detailed_scores"`
	Version        int                `json:"version"`
}

// HasCriticalViolation reports whether any violation is severity=critical.
// is_acceptable must always equal !HasCriticalViolation.
func (v ValidationResult) HasCriticalViolation() bool {
	for _, violation := range v.Violations {
		if violation.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Provenance is one external-evidence item contributing to prompt context.
type Provenance struct {
	Provider     string    `json:"provider"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	Snippet      string    `json:"snippet"`
	Score        float64   `json:"score"`
	UsedInPrompt bool      `json:"used_in_prompt"`
	RetrievedAt  time.Time `json:"retrieved_at,omitempty"`
	DocID        string    `json:"doc_id,omitempty"`
	SourceLabel  string    `json:"source_label,omitempty"`
}

// DefinitionMetadata is Definition.metadata.
type DefinitionMetadata struct {
	Model                   string                    `json:"model,omitempty"`
	Tokens                  int                       `json:"tokens,omitempty"`
	PromptComponents        []string                  `json:"prompt_components,omitempty"`
	Sources                 []Provenance              `json:"sources,omitempty"`
	EnrichedSynonyms        []string                  `json:"enriched_synonyms,omitempty"`
	AIPendingSynonymsCount  int                       `json:"ai_pending_synonyms_count"`
	PromptText              string                    `json:"prompt_text,omitempty"`
	OntologicalMarker       string                    `json:"ontological_marker,omitempty"`
	OriginalText            string                    `json:"original_text,omitempty"`
	WebLookupStatus         string                    `json:"web_lookup_status,omitempty"`
	SynonymEnrichmentStatus string                    `json:"synonym_enrichment_status,omitempty"`
	Enhanced                bool                      `json:"enhanced"`
	ConflictsResolved       int                       `json:"conflicts_resolved"`
	ForceDuplicate          bool                      `json:"force_duplicate,omitempty"`
	Classification          *UFOClassificationResult  `json:"classification,omitempty"`
}

// Definition is owned by the repository after save. Invariant:
// valid == !ValidationResult.HasCriticalViolation(); Version increases
// monotonically per (term, organizational_context); archived rows are
// excluded from default queries.
type Definition struct {
	ID                    string              `json:"id,omitempty" db:"id"`
	Term                  string              `json:"term" db:"term"`
	Text                  string              `json:"text" db:"text"`
	OntologicalCategory   OntologicalCategory `json:"ontological_category" db:"ontological_category"`
	OrganizationalContext pq.StringArray      `json:"organizational_context" db:"organizational_context"`
	JuridicalContext      pq.StringArray      `json:"juridical_context" db:"juridical_context"`
	LegalBasis            pq.StringArray      `json:"legal_basis" db:"legal_basis"`
	OriginalText          string              `json:"original_text" db:"original_text"`
	Valid                 bool                `json:"valid" db:"valid"`
	Violations            []Violation         `json:"violations" db:"-"`
	Metadata              DefinitionMetadata  `json:"metadata" db:"-"`
	Status                DefinitionStatus    `json:"status" db:"status"`
	Version               int                 `json:"version" db:"version"`
	PreviousVersionID     string              `json:"previous_version_id,omitempty" db:"previous_version_id"`
	CreatedAt             time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at" db:"updated_at"`
	CreatedBy             string              `json:"created_by" db:"created_by"`
	ApprovedBy            string              `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt            *time.Time          `json:"approved_at,omitempty" db:"approved_at"`
}

// VoorbeeldRating is Voorbeeld.rating.
type VoorbeeldRating string

const (
	RatingGoed   VoorbeeldRating = "goed"
	RatingMatig  VoorbeeldRating = "matig"
	RatingSlecht VoorbeeldRating = "slecht"
)

// Voorbeeld is an example sentence attached to a Definition.
// Resaving deactivates the previous active row rather than overwriting it,
// so review history survives.
type Voorbeeld struct {
	ID          string          `json:"id" db:"id"`
	DefinitieID string          `json:"definitie_id" db:"definitie_id"`
	Text        string          `json:"text" db:"text" validate:"required"`
	Rating      VoorbeeldRating `json:"rating,omitempty" db:"rating"`
	Active      bool            `json:"active" db:"active"`
	ReviewedBy  string          `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	CreatedBy   string          `json:"created_by" db:"created_by"`
}

// SynonymGroup clusters peer terms with no internal hierarchy.
type SynonymGroup struct {
	ID            string    `json:"id" db:"id"`
	CanonicalTerm string    `json:"canonical_term" db:"canonical_term" validate:"required"`
	Domain        string    `json:"domain,omitempty" db:"domain"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
}

// MemberStatus is SynonymGroupMember.status.
type MemberStatus string

const (
	MemberActive        MemberStatus = "active"
	MemberAIPending      MemberStatus = "ai_pending"
	MemberRejectedAuto   MemberStatus = "rejected_auto"
	MemberDeprecated     MemberStatus = "deprecated"
)

// MemberSource is SynonymGroupMember.source.
type MemberSource string

const (
	SourceDBSeed      MemberSource = "db_seed"
	SourceManual      MemberSource = "manual"
	SourceAISuggested MemberSource = "ai_suggested"
	SourceImportedYAML MemberSource = "imported_yaml"
)

// SynonymGroupMember is one (group_id, term, definitie_id) triple.
type SynonymGroupMember struct {
	ID           string       `json:"id" db:"id"`
	GroupID      string       `json:"group_id" db:"group_id"`
	Term         string       `json:"term" db:"term" validate:"required"`
	Weight       float64      `json:"weight" db:"weight" validate:"gte=0,lte=1"`
	IsPreferred  bool         `json:"is_preferred" db:"is_preferred"`
	Status       MemberStatus `json:"status" db:"status"`
	Source       MemberSource `json:"source" db:"source"`
	ContextJSON  string       `json:"context_json,omitempty" db:"context_json"`
	DefinitieID  *string      `json:"definitie_id,omitempty" db:"definitie_id"`
	UsageCount   int          `json:"usage_count" db:"usage_count"`
	LastUsedAt   *time.Time   `json:"last_used_at,omitempty" db:"last_used_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	ReviewedBy   string       `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// WeightedSynonym is the query projection returned to callers.
type WeightedSynonym struct {
	Term        string       `json:"term" db:"term"`
	Weight      float64      `json:"weight" db:"weight"`
	Status      MemberStatus `json:"status" db:"status"`
	IsPreferred bool         `json:"is_preferred" db:"is_preferred"`
	UsageCount  int          `json:"usage_count" db:"usage_count"`
}

// UFOCategory is the 16-valued UFO/OntoUML ontological classification
// (Glossary).
type UFOCategory string

const (
	UFOKind               UFOCategory = "Kind"
	UFOEvent              UFOCategory = "Event"
	UFORole               UFOCategory = "Role"
	UFOPhase              UFOCategory = "Phase"
	UFORelator            UFOCategory = "Relator"
	UFOMode               UFOCategory = "Mode"
	UFOQuantity           UFOCategory = "Quantity"
	UFOQuality            UFOCategory = "Quality"
	UFOSubkind            UFOCategory = "Subkind"
	UFOCategoryCat        UFOCategory = "Category"
	UFOMixin              UFOCategory = "Mixin"
	UFORoleMixin          UFOCategory = "RoleMixin"
	UFOPhaseMixin         UFOCategory = "PhaseMixin"
	UFOCollective         UFOCategory = "Collective"
	UFOVariableCollection UFOCategory = "VariableCollection"
	UFOFixedCollection    UFOCategory = "FixedCollection"
)

// AllUFOCategories enumerates the 16 valid categories, used to validate
// classifier output ("primary_category is one of 16 categories").
var AllUFOCategories = []UFOCategory{
	UFOKind, UFOEvent, UFORole, UFOPhase, UFORelator, UFOMode, UFOQuantity,
	UFOQuality, UFOSubkind, UFOCategoryCat, UFOMixin, UFORoleMixin,
	UFOPhaseMixin, UFOCollective, UFOVariableCollection, UFOFixedCollection,
}

// UFOClassificationResult is the Classifier's output.
type UFOClassificationResult struct {
	Term                 string             `json:"term"`
	Definition           string             `json:"definition"`
	PrimaryCategory      UFOCategory        `json:"primary_category"`
	SecondaryCategories  []UFOCategory      `json:"secondary_categories"`
	Confidence           float64            `json:"confidence"`
	AllScores            map[UFOCategory]float64 `json:"all_scores"`
	MatchedPatterns      []string           `json:"matched_patterns"`
	DecisionPath         []string           `json:"decision_path"`
	DisambiguationNotes  []string           `json:"disambiguation_notes"`
	DetailedExplanation  []string           `json:"detailed_explanation"`
	ClassificationTimeMS int64              `json:"classification_time_ms"`
}

// PromptModuleOutput is one module's contribution to the assembled prompt.
type PromptModuleOutput struct {
	ModuleID     string         `json:"module_id"`
	Content      string         `json:"content"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	SharedWrites map[string]any `json:"shared_writes,omitempty"`
}
