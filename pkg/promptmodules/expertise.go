package promptmodules

import (
	"fmt"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// expertiseModule opens the prompt with role framing and infers the term's
// word class into shared_state for downstream modules.
type expertiseModule struct{}

func (m *expertiseModule) ID() string   { return "Expertise" }
func (m *expertiseModule) Priority() int { return 100 }

func (m *expertiseModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	wordClass := inferWordClass(ctx.Term)

	content := fmt.Sprintf(
		"Je bent een ervaren juridisch terminoloog, gespecialiseerd in het opstellen "+
			"van eenduidige, beleidsmatige definities voor de Nederlandse overheid. "+
			"Je kent de stijlgids voor begrippenkaders en schrijft uitsluitend in het "+
			"Nederlands. De term '%s' is vermoedelijk een %s.",
		ctx.Term, wordClassLabel(wordClass),
	)

	return domain.PromptModuleOutput{
		ModuleID: m.ID(),
		Content:  content,
		SharedWrites: map[string]any{
			"word_class": wordClass,
		},
	}, nil
}

func wordClassLabel(class string) string {
	switch class {
	case "verbal-noun":
		return "verbaal zelfstandig naamwoord (handelings- of procesbegrip)"
	case "abstract-noun":
		return "abstract zelfstandig naamwoord"
	default:
		return "zelfstandig naamwoord"
	}
}
