package promptmodules

import (
	"fmt"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// definitionTaskModule ends the prompt with a final checklist, the
// instruction to produce the answer, and a metadata trailer.
type definitionTaskModule struct{}

func (m *definitionTaskModule) ID() string    { return "DefinitionTask" }
func (m *definitionTaskModule) Priority() int { return 20 }

func (m *definitionTaskModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	content := fmt.Sprintf(
		"TAAK:\nControleer voordat je antwoordt: (1) één zin, (2) geen circulariteit, "+
			"(3) begint met zelfstandig naamwoord, (4) past bij de opgegeven categorie. "+
			"Produceer nu je antwoord.\n\n"+
			"[metadata term=%q category=%q]",
		ctx.Term, categoryLabel(ctx.OntologicalCategory),
	)

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
}
