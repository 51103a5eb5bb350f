package promptmodules

import (
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// metricsModule is optional: a summary of which validation
// rules will be checked. Dropped entirely in compact mode.
type metricsModule struct{}

func (m *metricsModule) ID() string    { return "Metrics" }
func (m *metricsModule) Priority() int { return 10 }

func (m *metricsModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	if ctx.CompactMode {
		return domain.PromptModuleOutput{ModuleID: m.ID(), Content: ""}, nil
	}

	var codes []string
	for _, family := range allRuleFamilies() {
		for _, r := range family.rules {
			codes = append(codes, r.code)
		}
	}

	content := "METRIEKEN:\nDe volgende regels worden na generatie getoetst: " + strings.Join(codes, ", ") + "."

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
}
