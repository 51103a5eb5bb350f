package generation

import (
	"context"
	"errors"
	"fmt"

	appErrors "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/errors"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/otelx"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/cleaning"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/feedback"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/metrics"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptmodules"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptorchestrator"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/synonym"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/validation"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/weblookup"
)

// runSanitize is phase 1. An absent Sanitizer (constructed as NoopSanitizer
// in New) passes the request through unchanged.
func (o *Orchestrator) runSanitize(ctx context.Context, generationID string, req domain.GenerationRequest) (domain.GenerationRequest, error) {
	_, end := otelx.StartPhase(ctx, o.tracer, generationID, "Sanitize")
	defer func() { end(nil) }()

	sanitized, err := o.collab.Sanitizer.SanitizeRequest(req)
	if err != nil {
		// SanitizeRequest only returns an error when SanitizeWithFallback's
		// panic recovery fired; SafeFallback already ran, so the request is
		// still safe to use (phase 1's pass-through rule).
		o.recordError(ctx, req, "Sanitize", err)
		return sanitized, nil
	}
	return sanitized, nil
}

// runLoadFeedback is phase 2: empty slice on miss or when no FeedbackEngine
// is configured.
func (o *Orchestrator) runLoadFeedback(ctx context.Context, generationID string, req domain.GenerationRequest) []feedback.Entry {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "LoadFeedback")
	var outcome error
	defer func() { end(outcome) }()

	if o.collab.Feedback == nil {
		return nil
	}
	category := domain.CategoryResultaat
	if req.OntologicalCategory != nil {
		category = *req.OntologicalCategory
	}
	entries, err := o.collab.Feedback.GetFeedbackForRequest(ctx, req.Term, category)
	if err != nil {
		outcome = err
		o.recordError(ctx, req, "LoadFeedback", err)
		return nil
	}
	return entries
}

// runEnsureSynonyms is phase 3. A missing orchestrator or a failed
// enrichment both degrade to an empty/partial synonym set rather than
// failing the request.
func (o *Orchestrator) runEnsureSynonyms(ctx context.Context, generationID string, req domain.GenerationRequest) synonym.EnsureResult {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "EnsureSynonyms")
	var outcome error
	defer func() { end(outcome) }()

	if o.collab.Synonyms == nil {
		return synonym.EnsureResult{Status: synonym.StatusNotAvail}
	}

	triggerContext := req.Term
	if len(req.JuridicalContext) > 0 {
		triggerContext = req.JuridicalContext[0]
	}
	minCount := o.cfg.Synonym.MinSynonyms
	result, err := o.collab.Synonyms.EnsureSynonyms(ctx, req.Term, minCount, triggerContext)
	if err != nil {
		outcome = err
		o.recordError(ctx, req, "EnsureSynonyms", err)
		return synonym.EnsureResult{Status: synonym.StatusError}
	}
	return result
}

// runEnrichFromWeb is phase 4: on timeout/error, continue with no sources.
// Results are re-ranked for juridical relevance before being marked
// used_in_prompt.
func (o *Orchestrator) runEnrichFromWeb(ctx context.Context, generationID string, req domain.GenerationRequest) ([]domain.Provenance, string) {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "EnrichFromWeb")
	var outcome error
	defer func() { end(outcome) }()

	if o.collab.WebLookup == nil {
		metrics.RecordWebLookupCall("not_available")
		return nil, "not_available"
	}

	context := append(append(append([]string{}, req.OrganizationalContext...), req.JuridicalContext...), req.LegalBasis...)
	timeout := o.cfg.WebLookup.Timeout()
	maxResults := o.cfg.WebLookup.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	results, err := o.collab.WebLookup.Lookup(ctx, weblookup.LookupRequest{
		Term:       req.Term,
		Context:    context,
		MaxResults: maxResults,
		Timeout:    timeout,
	})
	if err != nil {
		outcome = err
		o.recordError(ctx, req, "EnrichFromWeb", err)
		metrics.RecordWebLookupCall("error")
		return nil, "error"
	}
	if len(results) == 0 {
		metrics.RecordWebLookupCall("no_results")
		return nil, "no_results"
	}

	ranked := weblookup.RankJuridisch(results, context)
	const topK = 3
	provenance := make([]domain.Provenance, len(ranked))
	for i, r := range ranked {
		provenance[i] = domain.Provenance{
			Provider:     r.Provider,
			Title:        r.Title,
			URL:          r.URL,
			Snippet:      r.Snippet,
			Score:        r.Score,
			UsedInPrompt: i < topK,
			RetrievedAt:  r.RetrievedAt,
			DocID:        r.DocID,
			SourceLabel:  r.SourceLabel,
		}
	}
	metrics.RecordWebLookupCall("success")
	return provenance, "success"
}

// runBuildPrompt is phase 6 (phase 5, MergeDocuments, is a no-op in this
// deployment; see Generate). It always succeeds: PromptOrchestrator.BuildPrompt
// falls back to a minimal built-in prompt if every module errors.
func (o *Orchestrator) runBuildPrompt(ctx context.Context, generationID string, req domain.GenerationRequest, feedbackEntries []feedback.Entry, synonyms synonym.EnsureResult, provenance []domain.Provenance) promptorchestrator.BuildResult {
	_, end := otelx.StartPhase(ctx, o.tracer, generationID, "BuildPrompt")
	defer func() { end(nil) }()

	moduleCtx := promptmodules.ModuleContext{
		Term:                  req.Term,
		OrganizationalContext: req.OrganizationalContext,
		JuridicalContext:      req.JuridicalContext,
		LegalBasis:            req.LegalBasis,
		OntologicalCategory:   req.OntologicalCategory,
		Synonyms:              synonyms.Synonyms,
		Feedback:              promptmodulesFeedback(feedbackEntries),
		Sources:               provenance,
	}
	return o.collab.Prompts.BuildPrompt(moduleCtx, promptorchestrator.Options{})
}

// runInvokeModel is phase 7. Failure here aborts the whole pipeline.
func (o *Orchestrator) runInvokeModel(ctx context.Context, generationID string, req domain.GenerationRequest, prompt string) (aiprovider.Response, error) {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "InvokeModel")
	timer := metrics.NewTimer()
	var outcome error
	defer func() {
		end(outcome)
		timer.RecordPhase("InvokeModel")
	}()

	temperature := o.cfg.AI.Temperature
	maxTokens := o.cfg.AI.MaxTokens
	model := o.cfg.AI.Model
	if req.Options.Temperature != nil {
		temperature = *req.Options.Temperature
	}
	if req.Options.MaxTokens != nil {
		maxTokens = *req.Options.MaxTokens
	}
	if req.Options.Model != nil {
		model = *req.Options.Model
	}

	resp, err := o.collab.AI.Generate(ctx, aiprovider.Request{
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Model:       model,
	})
	if err != nil {
		outcome = err
		o.recordError(ctx, req, "InvokeModel", err)
		metrics.RecordAIProviderCall(model, "error", timer.Elapsed())
		return aiprovider.Response{}, fmt.Errorf("invoking model: %w", err)
	}
	metrics.RecordAIProviderCall(model, "success", timer.Elapsed())
	return resp, nil
}

// runClean is phase 8: the cleaned text plus a "display original" built by
// applying full header/prefix stripping to the raw model output.
func (o *Orchestrator) runClean(ctx context.Context, generationID, term, rawText string) (cleaning.Result, string) {
	_, end := otelx.StartPhase(ctx, o.tracer, generationID, "Clean")
	defer func() { end(nil) }()

	result := o.collab.Cleaner(rawText, term)
	displayOriginal := cleaning.DisplayOriginal(rawText, term)
	return result, displayOriginal
}

// runValidate is phase 9.
func (o *Orchestrator) runValidate(ctx context.Context, generationID string, req domain.GenerationRequest, cleanedText string) domain.ValidationResult {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "Validate")
	var outcome error
	defer func() { end(outcome) }()

	category := domain.CategoryResultaat
	if req.OntologicalCategory != nil {
		category = *req.OntologicalCategory
	}
	def := domain.Definition{
		Term:                  req.Term,
		Text:                  cleanedText,
		OntologicalCategory:   category,
		OrganizationalContext: req.OrganizationalContext,
		JuridicalContext:      req.JuridicalContext,
		LegalBasis:            req.LegalBasis,
		CreatedBy:             req.Actor,
	}
	result, err := o.collab.Validator.Validate(ctx, def, validation.ValidationContext{
		CorrelationID:  generationID,
		ForceDuplicate: req.Options.ForceDuplicate,
	})
	for _, v := range result.Violations {
		metrics.RecordViolation(v.RuleID, v.Severity)
	}
	if err != nil {
		outcome = err
		o.recordError(ctx, req, "Validate", err)
		// A validator error must not block storage: treat as not acceptable
		// and let the feedback loop learn from it, matching every other
		// phase's degrade-and-continue handling except InvokeModel.
		return domain.ValidationResult{IsAcceptable: false}
	}
	return result
}

// runEnhance is phase 10: at most one remediation pass, followed by
// exactly one re-validation.
func (o *Orchestrator) runEnhance(ctx context.Context, generationID string, req domain.GenerationRequest, text string, result domain.ValidationResult) (string, domain.ValidationResult) {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "Enhance")
	var outcome error
	defer func() { end(outcome) }()

	enhancedText, err := o.collab.Enhancer.Enhance(ctx, req.Term, text, result.Violations, req)
	if err != nil {
		outcome = err
		o.recordError(ctx, req, "Enhance", err)
		return text, result
	}

	cleaned := o.collab.Cleaner(enhancedText, req.Term)
	revalidated := o.runValidate(ctx, generationID, req, cleaned.Cleaned)
	return cleaned.Cleaned, revalidated
}

// runPersist is phase 11's storage half: always save, even when invalid
// (persisted as draft). A conflict with an existing row without
// force_duplicate is not saved: it is logged at info level and the response
// goes on with the definition's id left empty, rather than aborting the
// response, matching original_source's "storage unconditional on quality
// gate" comment.
func (o *Orchestrator) runPersist(ctx context.Context, generationID string, def *domain.Definition) {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "Persist")
	var outcome error
	defer func() { end(outcome) }()

	if o.collab.Repository == nil {
		return
	}
	id, err := o.collab.Repository.Save(ctx, def)
	if err != nil {
		outcome = err
		var dup *appErrors.DuplicateDefinitionError
		if errors.As(err, &dup) {
			o.logger.Info("definition already exists, not overwritten", "term", def.Term, "existing_id", dup.ExistingID)
			return
		}
		o.recordError(ctx, domain.GenerationRequest{Term: def.Term, ID: generationID}, "Persist", err)
		return
	}
	def.ID = id
}

// runEmitFeedback is phase 11's learning half: records a failed attempt for
// future prompt feedback when validation did not accept the definition.
func (o *Orchestrator) runEmitFeedback(ctx context.Context, generationID string, def domain.Definition, result domain.ValidationResult, req domain.GenerationRequest) {
	ctx, end := otelx.StartPhase(ctx, o.tracer, generationID, "EmitFeedback")
	var outcome error
	defer func() { end(outcome) }()

	if result.IsAcceptable || o.collab.Feedback == nil {
		return
	}
	if err := o.collab.Feedback.ProcessValidationFeedback(ctx, def.ID, result, req); err != nil {
		outcome = err
		o.recordError(ctx, req, "EmitFeedback", err)
	}
}
