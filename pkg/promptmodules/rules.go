package promptmodules

import (
	"fmt"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// rule is one testable formulation referenced by an opaque code
// (e.g. ESS-02).
type rule struct {
	code    string
	text    string
	good    string
	bad     string
}

func (r rule) render() string {
	return fmt.Sprintf("%s: %s\n  Goed: %s\n  Fout: %s", r.code, r.text, r.good, r.bad)
}

// ruleModule is one of the seven rule-family modules;
// each family has its own 2-letter prefix and priority band.
type ruleModule struct {
	family   string
	priority int
	rules    []rule
}

func newRuleModule(family string, priority int, rules []rule) *ruleModule {
	return &ruleModule{family: family, priority: priority, rules: rules}
}

func (m *ruleModule) ID() string    { return "ValidationRules" + m.family }
func (m *ruleModule) Priority() int { return m.priority }

func (m *ruleModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("VALIDATIEREGELS (%s):\n", m.family))
	for _, r := range m.rules {
		sb.WriteString(r.render())
		sb.WriteString("\n")
	}
	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: strings.TrimRight(sb.String(), "\n")}, nil
}

// unifiedValidationRulesModule is the 9-module catalog's merge of all
// seven rule families into one module, content-preserving.
type unifiedValidationRulesModule struct{}

func (m *unifiedValidationRulesModule) ID() string    { return "UnifiedValidationRules" }
func (m *unifiedValidationRulesModule) Priority() int { return 60 }

func (m *unifiedValidationRulesModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	var sb strings.Builder
	sb.WriteString("VALIDATIEREGELS (verenigd):\n")
	for _, family := range allRuleFamilies() {
		sb.WriteString(fmt.Sprintf("-- %s --\n", family.name))
		for _, r := range family.rules {
			sb.WriteString(r.render())
			sb.WriteString("\n")
		}
	}
	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: strings.TrimRight(sb.String(), "\n")}, nil
}

type ruleFamily struct {
	name  string
	rules []rule
}

func allRuleFamilies() []ruleFamily {
	return []ruleFamily{
		{"ARAI", araiRules},
		{"CON", conRules},
		{"ESS", essRules},
		{"INT", intRules},
		{"SAM", samRules},
		{"STR", strRules},
		{"VER", verRules},
	}
}

var araiRules = []rule{
	{"ARAI-01", "De definitie bevat geen afkortingen zonder dat ze eerder zijn uitgeschreven.",
		"\"Openbaar Ministerie (OM)\"", "\"OM\""},
	{"ARAI-02", "De definitie vermijdt anglicismen waar een Nederlands equivalent bestaat.",
		"\"vergunning\"", "\"license\""},
}

var conRules = []rule{
	{"CON-01", "De definitie is niet circulair: de term zelf komt niet in de definitie voor.",
		"\"Aanhouding is de handeling waarbij ...\"", "\"Aanhouding is een aanhouding van ...\""},
}

var essRules = []rule{
	{"ESS-01", "De definitie benoemt het wezenskenmerk, niet alleen een voorbeeld.",
		"\"Voertuig is een constructie bestemd voor verplaatsing over de weg.\"", "\"Voertuig is bijvoorbeeld een auto.\""},
	{"ESS-02", "De definitie bevat precies één hoofdzin.",
		"één punt aan het einde", "meerdere zinnen gescheiden door punten"},
}

var intRules = []rule{
	{"INT-01", "De definitie is intern consistent met de opgegeven ontologische categorie.",
		"procesdefinitie beschrijft een handeling", "procesdefinitie beschrijft een resultaat"},
}

var samRules = []rule{
	{"SAM-01", "De definitie is samenhangend met reeds vastgestelde definities binnen dezelfde context.",
		"hergebruik van bestaande terminologie", "tegenstrijdige terminologie"},
}

var strRules = []rule{
	{"STR-01", "De definitie begint met een zelfstandig naamwoord.",
		"\"Aanhouding is ...\"", "\"Het is een aanhouding die ...\""},
	{"STR-02", "De definitie gebruikt geen opsomming.",
		"doorlopende zin", "\"1) ... 2) ...\""},
}

var verRules = []rule{
	{"VER-01", "De definitie is verifieerbaar aan de hand van de genoemde wettelijke grondslag.",
		"grondslag expliciet te herleiden", "geen enkele toetsbare verwijzing"},
}
