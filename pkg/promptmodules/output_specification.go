package promptmodules

import "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"

// outputSpecificationModule fixes the required output shape: one sentence,
// a character budget, and explicit delimiters.
type outputSpecificationModule struct{}

func (m *outputSpecificationModule) ID() string    { return "OutputSpecification" }
func (m *outputSpecificationModule) Priority() int { return 95 }

func (m *outputSpecificationModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	content := "UITVOERSPECIFICATIE:\n" +
		"- Lever precies één volzin, eindigend op een punt.\n" +
		"- Maximaal 250 tekens, minimaal 20 tekens.\n" +
		"- Geen opsomming, geen meerdere zinnen, geen voetnoten.\n" +
		"- Omsluit de definitie met de markering [DEFINITIE] ... [/DEFINITIE] en niets daarbuiten."

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
}
