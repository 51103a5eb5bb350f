package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	var (
		tempDir    string
		configFile string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
		configFile = filepath.Join(tempDir, "config.yaml")
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("when config file exists with valid content", func() {
			BeforeEach(func() {
				validConfig := `
synonym_configuration:
  policy: pragmatic
  min_synonyms: 4
  gpt4_timeout: 45
  gpt4_max_retries: 2
  cache_ttl: 1200
  cache_max_size: 500
  min_weight: 0.6
  preferred_threshold: 0.9

ai:
  provider: anthropic
  model: claude-sonnet-4-5
  timeout: 20s
  temperature: 0.25
  max_tokens: 400

web_lookup:
  timeout_seconds: 8
  max_results: 3

logging:
  level: debug
  format: console
`
				Expect(os.WriteFile(configFile, []byte(validConfig), 0644)).To(Succeed())
			})

			It("loads configuration successfully", func() {
				cfg, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).NotTo(BeNil())

				Expect(cfg.Synonym.Policy).To(Equal(PolicyPragmatic))
				Expect(cfg.Synonym.MinSynonyms).To(Equal(4))
				Expect(cfg.Synonym.GPT4TimeoutSeconds).To(Equal(45))
				Expect(cfg.Synonym.CacheMaxSize).To(Equal(500))
				Expect(cfg.Synonym.MinWeight).To(Equal(0.6))

				Expect(cfg.AI.Provider).To(Equal("anthropic"))
				Expect(cfg.AI.MaxTokens).To(Equal(400))

				Expect(cfg.WebLookup.MaxResults).To(Equal(3))
				Expect(cfg.Logging.Level).To(Equal("debug"))
			})
		})

		Context("when config file is missing", func() {
			It("returns defaults with a warning, not an error", func() {
				cfg, err := Load(filepath.Join(tempDir, "does-not-exist.yaml"))
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Synonym.Policy).To(Equal(PolicyStrict))
				Expect(cfg.Warnings).NotTo(BeEmpty())
			})
		})

		Context("when a section is empty", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(configFile, []byte("server:\n  port: \"9999\"\n"), 0644)).To(Succeed())
			})

			It("fills that section with defaults and warns", func() {
				cfg, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Synonym.MinSynonyms).To(Equal(5))
				Expect(cfg.Server.Port).To(Equal("9999"))
				Expect(cfg.Warnings).NotTo(BeEmpty())
			})
		})

		Context("when a numeric value is out of range", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(configFile, []byte(`
synonym_configuration:
  gpt4_timeout: 1
  cache_ttl: 30
`), 0644)).To(Succeed())
			})

			It("returns a fatal aggregated error", func() {
				_, err := Load(configFile)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("gpt4_timeout"))
				Expect(err.Error()).To(ContainSubstring("cache_ttl"))
			})
		})
	})
})
