package aiprovider

import (
	"os"
	"testing"

	"github.com/go-logr/logr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

func TestAIProvider(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AIProvider Suite")
}

var _ = Describe("New", func() {
	It("rejects an unsupported provider", func() {
		_, err := New(config.AIConfig{Provider: "openai"}, logr.Discard())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("newAnthropicProvider", func() {
	It("requires the configured api key environment variable to be set", func() {
		os.Unsetenv("DEFINITIE_ANTHROPIC_KEY_MISSING_TEST")

		_, err := newAnthropicProvider(config.AIConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-5",
			APIKeyEnv: "DEFINITIE_ANTHROPIC_KEY_MISSING_TEST",
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("formatPrompt", func() {
	It("returns the body unchanged", func() {
		out, err := formatPrompt("een definitie prompt")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("een definitie prompt"))
	})
})
