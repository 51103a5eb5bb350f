package aiprovider

import "github.com/tmc/langchaingo/prompts"

// wrapperTemplate frames a generated prompt body identically for both
// backends, so a provider swap never changes what the model sees beyond
// the model/temperature it's invoked with.
var wrapperTemplate = prompts.NewPromptTemplate(
	"{{.body}}",
	[]string{"body"},
)

// formatPrompt renders req.Prompt through the shared template. It never
// fails on a plain string body; the error path exists because
// prompts.PromptTemplate.Format always returns one.
func formatPrompt(body string) (string, error) {
	return wrapperTemplate.Format(map[string]any{"body": body})
}
