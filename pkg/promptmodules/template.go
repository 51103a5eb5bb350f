package promptmodules

import "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"

// templateModule supplies category-specific opening templates and worked
// examples. Examples are dropped entirely in compact mode.
type templateModule struct{}

func (m *templateModule) ID() string    { return "Template" }
func (m *templateModule) Priority() int { return 80 }

var openingTemplates = map[domain.OntologicalCategory]string{
	domain.CategoryProces:    "\"[Term]\" is het geheel van handelingen waarbij ...",
	domain.CategoryType:      "\"[Term]\" is een categorie van ... die wordt gekenmerkt door ...",
	domain.CategoryResultaat: "\"[Term]\" is de uitkomst van ... waarbij ...",
	domain.CategoryExemplaar: "\"[Term]\" is een specifiek geval van ... dat ...",
}

var workedExamples = map[domain.OntologicalCategory]string{
	domain.CategoryProces:    "Voorbeeld: \"Aanhouding is de handeling waarbij een opsporingsambtenaar de bewegingsvrijheid van een verdachte beperkt.\"",
	domain.CategoryType:      "Voorbeeld: \"Misdrijf is een strafbaar feit waarop naar wettelijke omschrijving een gevangenisstraf van meer dan een jaar is gesteld.\"",
	domain.CategoryResultaat: "Voorbeeld: \"Veroordeling is de rechterlijke uitspraak waarbij schuld aan een strafbaar feit wordt vastgesteld.\"",
	domain.CategoryExemplaar: "Voorbeeld: \"Dagvaarding is de schriftelijke oproep van een verdachte om te verschijnen voor de rechter in een specifieke strafzaak.\"",
}

func (m *templateModule) Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error) {
	var content string

	if ctx.OntologicalCategory != nil {
		if tpl, ok := openingTemplates[*ctx.OntologicalCategory]; ok {
			content = "SJABLOON:\n" + tpl
			if !ctx.CompactMode {
				if example, ok := workedExamples[*ctx.OntologicalCategory]; ok {
					content += "\n" + example
				}
			}
		}
	}

	if content == "" {
		content = "SJABLOON:\n\"[Term]\" is ..."
	}

	return domain.PromptModuleOutput{ModuleID: m.ID(), Content: content}, nil
}
