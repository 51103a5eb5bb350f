package promptmodules

import (
	"fmt"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// semanticCategorisationModule supplies ontological-category-specific
// guidance: four detailed profiles, or generic framing when
// no category is given.
type semanticCategorisationModule struct{}

func (m *semanticCategorisationModule) ID() string    { return "SemanticCategorisation" }
func (m *semanticCategorisationModule) Priority() int { return 85 }

var categoryProfiles = map[domain.OntologicalCategory]string{
	domain.CategoryProces: "Dit begrip duidt een PROCES aan: een reeks handelingen of " +
		"gebeurtenissen die zich in de tijd voltrekken. Formuleer de definitie rond " +
		"het verloop of de uitvoering van de handeling, niet rond het resultaat ervan.",
	domain.CategoryType: "Dit begrip duidt een TYPE aan: een classificerende indeling " +
		"waaronder meerdere exemplaren vallen. Formuleer de definitie als een " +
		"indelingscriterium, niet als een concreet geval.",
	domain.CategoryResultaat: "Dit begrip duidt een RESULTAAT aan: de uitkomst of het " +
		"product van een voorafgaand proces. Formuleer de definitie rond de " +
		"toestand die ontstaat nadat het proces is voltooid.",
	domain.CategoryExemplaar: "Dit begrip duidt een EXEMPLAAR aan: een concreet, " +
		"individueel geval van een type. Formuleer de definitie zodat ze op één " +
		"specifiek geval van toepassing is, niet op de klasse als geheel.",
}

func (m *semanticCategorisationModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	if ctx.OntologicalCategory == nil {
		content := "SEMANTISCHE CATEGORISERING:\nGeen ontologische categorie opgegeven; " +
			"formuleer een neutrale definitie die noch expliciet een proces, noch " +
			"een resultaat, noch een exemplaar veronderstelt."
		return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
	}

	profile, ok := categoryProfiles[*ctx.OntologicalCategory]
	if !ok {
		profile = "Onbekende categorie; behandel als generiek begrip."
	}

	content := fmt.Sprintf("SEMANTISCHE CATEGORISERING (%s):\n%s", *ctx.OntologicalCategory, profile)

	return domain.PromptModuleOutput{
		ModuleID: m.ID(),
		Content:  content,
		SharedWrites: map[string]any{
			"ontological_category": categoryLabel(ctx.OntologicalCategory),
		},
	}, nil
}
