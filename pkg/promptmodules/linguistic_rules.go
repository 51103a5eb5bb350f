package promptmodules

import "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"

// linguisticRulesModule is the 9-module catalog's merge of Grammar and
// Template, content-preserving.
type linguisticRulesModule struct {
	grammar  grammarModule
	template templateModule
}

func (m *linguisticRulesModule) ID() string    { return "LinguisticRules" }
func (m *linguisticRulesModule) Priority() int { return 77 }

func (m *linguisticRulesModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	grammarOut, err := m.grammar.Execute(ctx, shared)
	if err != nil {
		return domain.PromptModuleOutput{}, err
	}
	templateOut, err := m.template.Execute(ctx, shared)
	if err != nil {
		return domain.PromptModuleOutput{}, err
	}

	content := grammarOut.Content + "\n\n" + templateOut.Content

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
}
