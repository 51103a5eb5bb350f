package promptmodules

import (
	"fmt"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// errorPreventionModule lists positive action verbs plus up to three
// critical warnings, and builds a context-specific prohibitions block.
type errorPreventionModule struct{}

func (m *errorPreventionModule) ID() string    { return "ErrorPrevention" }
func (m *errorPreventionModule) Priority() int { return 70 }

var positiveVerbs = []string{"Start", "Definieer", "Structureer"}

var criticalWarnings = []string{
	"Gebruik nooit de term zelf in de definitie (geen circulariteit).",
	"Voeg geen voorbeelden, toelichtingen of bronverwijzingen toe aan de definitie zelf.",
	"Lever nooit meer dan één zin.",
}

func (m *errorPreventionModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	var sb strings.Builder
	sb.WriteString("FOUTPREVENTIE:\n")
	sb.WriteString(fmt.Sprintf("Begin je antwoord met een van: %s.\n", strings.Join(positiveVerbs, ", ")))
	sb.WriteString("Kritieke waarschuwingen:\n")
	for _, w := range criticalWarnings {
		sb.WriteString("- " + w + "\n")
	}

	if prohibitions := buildProhibitions(ctx); prohibitions != "" {
		sb.WriteString("Contextspecifieke verboden:\n")
		sb.WriteString(prohibitions)
	}

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: strings.TrimRight(sb.String(), "\n")}, nil
}

func buildProhibitions(ctx ModuleContext) string {
	var sb strings.Builder
	for _, org := range ctx.OrganizationalContext {
		sb.WriteString(fmt.Sprintf("- Vermijd jargon dat buiten de context van %s onbegrijpelijk is.\n", org))
	}
	for _, jur := range ctx.JuridicalContext {
		sb.WriteString(fmt.Sprintf("- Spreek niet in strijd met begrippen uit het %s.\n", jur))
	}
	return sb.String()
}
