package promptmodules

import "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"

// grammarModule states the Dutch grammar constraints definitions must
// satisfy.
type grammarModule struct{}

func (m *grammarModule) ID() string    { return "Grammar" }
func (m *grammarModule) Priority() int { return 75 }

const grammarRules = "GRAMMATICAREGELS:\n" +
	"- Begin de definitie met een zelfstandig naamwoord, nooit met een lidwoord of koppelwerkwoord.\n" +
	"- Gebruik geen copula-constructie (\"is een ding dat\"); beschrijf direct het wezenskenmerk.\n" +
	"- Vermijd passieve constructies waar een actieve vorm mogelijk is.\n" +
	"- Gebruik de tegenwoordige tijd."

func (m *grammarModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: grammarRules}, nil
}
