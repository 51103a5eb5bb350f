package classifier

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/lexicon"
)

func TestClassifier(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Classifier Suite")
}

func newTestClassifier() *UFOClassifier {
	return NewUFOClassifier(NewPatternMatcher(lexicon.New()))
}

var _ = Describe("UFOClassifier", func() {
	var c *UFOClassifier

	BeforeEach(func() {
		c = newTestClassifier()
	})

	Describe("Classify", func() {
		Context("with an independently-existing entity", func() {
			It("classifies a Kind with a non-empty decision path", func() {
				result, err := c.Classify(context.Background(), "voertuig", "Een zelfstandige entiteit die een persoon of organisatie toebehoort.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.PrimaryCategory).To(Equal(domain.UFOKind))
				Expect(result.DecisionPath).NotTo(BeEmpty())
			})
		})

		Context("with a happening-style definition", func() {
			It("classifies an Event", func() {
				result, err := c.Classify(context.Background(), "aanhouding", "De handeling die plaatsvindt tijdens een strafrechtelijke procedure.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.PrimaryCategory).To(Equal(domain.UFOEvent))
			})
		})

		Context("with a connecting-obligation definition", func() {
			It("classifies a Relator", func() {
				result, err := c.Classify(context.Background(), "contract", "Een verbintenis tussen partijen en wederpartij die over en weer verplichtingen schept.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.PrimaryCategory).To(Equal(domain.UFORelator))
			})
		})

		Context("with a term matching a disambiguation rule", func() {
			It("reclassifies 'zaak' to Event via disambiguation", func() {
				result, err := c.Classify(context.Background(), "zaak", "De strafzaak die bij de rechtbank aanhangig is gemaakt.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.PrimaryCategory).To(Equal(domain.UFOEvent))
				Expect(result.DisambiguationNotes).NotTo(BeEmpty())
			})

			It("coerces the undefined original_source enum member to Kind", func() {
				result, err := c.Classify(context.Background(), "zaak", "De zaak van verdachte is nog in behandeling.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.PrimaryCategory).To(Equal(domain.UFOKind))
			})
		})

		Context("with a fixed-membership collection", func() {
			It("classifies the step-9 FixedCollection subcategory", func() {
				result, err := c.Classify(context.Background(), "team", "Een vaste groep leden die samen een klus doen.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.PrimaryCategory).To(Equal(domain.UFOFixedCollection))
			})
		})

		Context("scoring output", func() {
			It("keeps confidence and every category score within [0,1], and caps secondary categories at 3", func() {
				result, err := c.Classify(context.Background(), "persoon", "Een persoon, organisatie, document of gebouw dat zelfstandig bestaat.", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Confidence).To(BeNumerically(">=", 0))
				Expect(result.Confidence).To(BeNumerically("<=", 1))
				for category, score := range result.AllScores {
					Expect(score).To(BeNumerically(">=", 0), "category %s", category)
					Expect(score).To(BeNumerically("<=", 1), "category %s", category)
				}
				Expect(len(result.SecondaryCategories)).To(BeNumerically("<=", 3))
			})
		})
	})

	Describe("hasStrongerCategory", func() {
		It("lets a dominant generic category suppress a weak specific signal", func() {
			matches := map[domain.UFOCategory][]string{
				domain.UFOKind:  {"a", "b", "c", "d", "e", "f"},
				domain.UFOEvent: {"a"},
			}
			Expect(c.hasStrongerCategory(matches, domain.UFOEvent)).To(BeTrue())
		})
	})

	Describe("Explain", func() {
		It("includes the decision path header in the detailed explanation", func() {
			result, err := c.Classify(context.Background(), "voertuig", "Een zelfstandige entiteit.", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.DetailedExplanation).To(ContainElement("Beslispad:"))
		})
	})
})
