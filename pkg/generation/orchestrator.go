// Package generation implements GenerationOrchestrator: the
// single entry point that runs a request through 11 fixed-order phases,
// each individually fault-tolerant, grounded on original_source's
// DefinitionOrchestratorV2.create_definition.
package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/audit"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/classifier"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/cleaning"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/enhancement"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/feedback"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/metrics"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptmodules"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptorchestrator"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/repository"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/sanitization"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/synonym"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/validation"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/weblookup"
)

// Collaborators groups every dependency the orchestrator accepts. Prompts,
// AI, and Validator are required and are used without a nil check; New
// defaults a nil Sanitizer and Cleaner; the rest, Repository included, are
// optional and their absence skips or degrades the corresponding phase
// rather than failing the request.
type Collaborators struct {
	Sanitizer   *sanitization.Sanitizer
	Feedback    *feedback.Engine
	Synonyms    *synonym.Orchestrator
	WebLookup   *weblookup.Client
	Prompts     *promptorchestrator.Orchestrator
	AI          aiprovider.Provider
	Cleaner     func(rawText, term string) cleaning.Result
	Validator   *validation.Orchestrator
	Enhancer    *enhancement.Service
	Repository  *repository.Repository
	Audit       *audit.Client
	Classifier  *classifier.UFOClassifier
}

// Orchestrator runs GenerationRequests through the 11-phase pipeline.
type Orchestrator struct {
	collab Collaborators
	cfg    config.Config
	tracer trace.Tracer
	logger logr.Logger
}

func New(collab Collaborators, cfg config.Config, tracer trace.Tracer, logger logr.Logger) *Orchestrator {
	if collab.Sanitizer == nil {
		collab.Sanitizer = sanitization.NoopSanitizer()
	}
	if collab.Cleaner == nil {
		collab.Cleaner = cleaning.Clean
	}
	return &Orchestrator{collab: collab, cfg: cfg, tracer: tracer, logger: logger}
}

// ResponseMetadata is Response.metadata.
type ResponseMetadata struct {
	GenerationID             string        `json:"generation_id"`
	Duration                 time.Duration `json:"duration"`
	PhasesCompleted          int           `json:"phases_completed"`
	WebLookupStatus          string        `json:"web_lookup_status"`
	SynonymEnrichmentStatus  string        `json:"synonym_enrichment_status"`
	Enhanced                 bool          `json:"enhanced"`
	ErrorType                string        `json:"error_type,omitempty"`
}

// Response is DefinitionResponse: success carries the
// persisted Definition and its ValidationResult; failure carries only an
// error plus the generation id, duration, and error type in Metadata.
type Response struct {
	Success          bool                    `json:"success"`
	Definition       *domain.Definition      `json:"definition,omitempty"`
	ValidationResult domain.ValidationResult `json:"validation_result,omitempty"`
	Error            string                  `json:"error,omitempty"`
	Metadata         ResponseMetadata        `json:"metadata"`
}

// Generate runs the 11-phase pipeline. It never returns a Go error: every
// failure mode is folded into Response per contract, except
// phase 7 (InvokeModel) which aborts the whole pipeline.
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerationRequest) Response {
	start := time.Now()
	generationID := req.ID
	if generationID == "" {
		generationID = uuid.NewString()
	}
	timer := metrics.NewTimer()

	// Phase 1: Sanitize.
	sanitized, err := o.runSanitize(ctx, generationID, req)
	if err != nil {
		return o.failureResponse(generationID, start, "sanitization", err)
	}

	// Phase 2: LoadFeedback.
	feedbackEntries := o.runLoadFeedback(ctx, generationID, sanitized)

	// Phase 3: EnsureSynonyms.
	synonymResult := o.runEnsureSynonyms(ctx, generationID, sanitized)

	// Phase 4: EnrichFromWeb.
	provenance, webLookupStatus := o.runEnrichFromWeb(ctx, generationID, sanitized)

	// Phase 5 (MergeDocuments) is a caller-supplied-snippet concern; this
	// deployment accepts no document upload surface (// Non-goals), so provenance from phase 4 passes through unchanged.

	// Phase 6: BuildPrompt.
	promptResult := o.runBuildPrompt(ctx, generationID, sanitized, feedbackEntries, synonymResult, provenance)

	// Phase 7: InvokeModel. A failure here aborts the pipeline.
	aiResponse, err := o.runInvokeModel(ctx, generationID, sanitized, promptResult.Prompt)
	if err != nil {
		metrics.RecordGeneration("error")
		return o.failureResponse(generationID, start, "ai_generation", err)
	}

	// Phase 8: Clean.
	cleanResult, displayOriginal := o.runClean(ctx, generationID, sanitized.Term, aiResponse.Text)

	// Phase 9: Validate.
	validationResult := o.runValidate(ctx, generationID, sanitized, cleanResult.Cleaned)

	// Phase 10: Enhance? (conditional, at most once).
	finalText := cleanResult.Cleaned
	enhanced := false
	if !validationResult.IsAcceptable && o.collab.Enhancer != nil {
		finalText, validationResult = o.runEnhance(ctx, generationID, sanitized, finalText, validationResult)
		enhanced = true
	}

	if !validationResult.IsAcceptable && o.collab.Audit != nil {
		def := domain.Definition{Term: sanitized.Term, ID: generationID}
		o.collab.Audit.RecordValidationFailure(ctx, def, validationResult)
	}

	definition := o.buildDefinition(ctx, sanitized, finalText, displayOriginal, validationResult, aiResponse, promptResult, synonymResult, provenance, webLookupStatus, enhanced)

	// Phase 11: Persist + Emit.
	o.runPersist(ctx, generationID, &definition)
	o.runEmitFeedback(ctx, generationID, definition, validationResult, sanitized)

	if validationResult.IsAcceptable {
		metrics.RecordGeneration("accepted")
	} else {
		metrics.RecordGeneration("rejected")
	}
	timer.RecordPhase("generation.total")

	return Response{
		Success:          true,
		Definition:       &definition,
		ValidationResult: validationResult,
		Metadata: ResponseMetadata{
			GenerationID:            generationID,
			Duration:                time.Since(start),
			PhasesCompleted:         11,
			WebLookupStatus:         webLookupStatus,
			SynonymEnrichmentStatus: string(synonymResult.Status),
			Enhanced:                enhanced,
		},
	}
}

// ExplainSynonymMember delegates to the synonym collaborator's jq-based
// context_json introspection, for the admin HTTP surface.
func (o *Orchestrator) ExplainSynonymMember(ctx context.Context, memberID, jqExpr string) (any, error) {
	if o.collab.Synonyms == nil {
		return nil, fmt.Errorf("synonym collaborator not configured")
	}
	return o.collab.Synonyms.ExplainMember(ctx, memberID, jqExpr)
}

func (o *Orchestrator) failureResponse(generationID string, start time.Time, errorType string, err error) Response {
	return Response{
		Success: false,
		Error:   fmt.Sprintf("generation failed: %s", err),
		Metadata: ResponseMetadata{
			GenerationID: generationID,
			Duration:     time.Since(start),
			ErrorType:    errorType,
		},
	}
}

func (o *Orchestrator) recordError(ctx context.Context, req domain.GenerationRequest, phase string, err error) {
	o.logger.Error(err, "generation phase degraded", "phase", phase, "term", req.Term)
	if o.collab.Audit != nil {
		o.collab.Audit.RecordGenerationError(ctx, req, phase, err)
	}
}

// promptmodulesFeedback converts feedback.Entry rows into the shape
// promptmodules.Module reads.
func promptmodulesFeedback(entries []feedback.Entry) []promptmodules.FeedbackEntry {
	out := make([]promptmodules.FeedbackEntry, len(entries))
	for i, e := range entries {
		out[i] = promptmodules.FeedbackEntry{Type: e.Type, Content: e.Content}
	}
	return out
}
