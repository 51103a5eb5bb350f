package generation

import (
	"context"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptorchestrator"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/synonym"
)

// buildDefinition assembles the Definition persisted at the end of the
// pipeline, carrying every piece of per-phase metadata the response needs
// ("BuildDefinition" step, DefinitionMetadata).
func (o *Orchestrator) buildDefinition(
	ctx context.Context,
	req domain.GenerationRequest,
	text string,
	displayOriginal string,
	result domain.ValidationResult,
	aiResponse aiprovider.Response,
	prompt promptorchestrator.BuildResult,
	synonyms synonym.EnsureResult,
	provenance []domain.Provenance,
	webLookupStatus string,
	enhanced bool,
) domain.Definition {
	category := domain.CategoryResultaat
	if req.OntologicalCategory != nil {
		category = *req.OntologicalCategory
	}

	enrichedSynonyms := make([]string, 0, len(synonyms.Synonyms))
	for _, s := range synonyms.Synonyms {
		enrichedSynonyms = append(enrichedSynonyms, s.Term)
	}

	def := domain.Definition{
		Term:                  req.Term,
		Text:                  text,
		OntologicalCategory:   category,
		OrganizationalContext: req.OrganizationalContext,
		JuridicalContext:      req.JuridicalContext,
		LegalBasis:            req.LegalBasis,
		OriginalText:          displayOriginal,
		Valid:                 result.IsAcceptable,
		Violations:            result.Violations,
		Status:                domain.StatusDraft,
		CreatedBy:             req.Actor,
		Metadata: domain.DefinitionMetadata{
			Model:                   aiResponse.Model,
			Tokens:                  aiResponse.Tokens,
			PromptComponents:        prompt.Components,
			Sources:                 provenance,
			EnrichedSynonyms:        enrichedSynonyms,
			AIPendingSynonymsCount:  synonyms.AIPendingAddedCount,
			PromptText:              prompt.Prompt,
			OriginalText:            displayOriginal,
			WebLookupStatus:         webLookupStatus,
			SynonymEnrichmentStatus: string(synonyms.Status),
			Enhanced:                enhanced,
			ForceDuplicate:          req.Options.ForceDuplicate,
		},
	}
	if o.collab.Classifier != nil {
		if classification, err := o.collab.Classifier.Classify(ctx, req.Term, text, req.JuridicalContext); err == nil {
			def.Metadata.Classification = classification
		}
	}
	return def
}
