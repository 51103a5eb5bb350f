package promptmodules

import (
	"fmt"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// contextAwarenessModule formats the organizational/juridical/legal-basis
// contexts and expands known abbreviations.
type contextAwarenessModule struct{}

func (m *contextAwarenessModule) ID() string    { return "ContextAwareness" }
func (m *contextAwarenessModule) Priority() int { return 90 }

func (m *contextAwarenessModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	org := expandAbbreviations(ctx.OrganizationalContext)
	jur := expandAbbreviations(ctx.JuridicalContext)
	legal := expandAbbreviations(ctx.LegalBasis)

	content := fmt.Sprintf(
		"CONTEXT:\n- Organisatorische context: %s\n- Juridisch kader: %s\n- Wettelijke grondslag: %s",
		formatList(org), formatList(jur), formatList(legal),
	)

	if sources := formatSources(ctx.Sources); sources != "" {
		content += "\n\n" + sources
	}

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
}

// formatSources renders the sources an earlier generation phase has
// already marked for prompt inclusion (phase 4/5's
// "used_in_prompt" provenance). Sources not marked for inclusion were
// retrieved for scoring only and never reach the prompt.
func formatSources(sources []domain.Provenance) string {
	var used []domain.Provenance
	for _, s := range sources {
		if s.UsedInPrompt {
			used = append(used, s)
		}
	}
	if len(used) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("### Contextinformatie uit bronnen:\n")
	for _, s := range used {
		fmt.Fprintf(&b, "- %s: %s\n", s.Title, s.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
