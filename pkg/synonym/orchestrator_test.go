package synonym

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

func TestSynonymOrchestrator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Synonym Orchestrator Suite")
}

type stubSuggester struct {
	suggestions []Suggestion
	err         error
}

func (s *stubSuggester) Suggest(ctx context.Context, term string, existing []domain.WeightedSynonym) ([]Suggestion, error) {
	return s.suggestions, s.err
}

func testConfig() config.SynonymConfig {
	return config.SynonymConfig{
		Policy:             config.PolicyStrict,
		MinSynonyms:        3,
		GPT4TimeoutSeconds: 5,
		CacheTTLSeconds:    3600,
		CacheMaxSize:       100,
		MinWeight:          0.5,
		PreferredThreshold: 0.9,
	}
}

var _ = Describe("Orchestrator.visibleStatuses", func() {
	var db *sqlx.DB

	BeforeEach(func() {
		conn, _, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		db = sqlx.NewDb(conn, "postgres")
	})

	It("excludes ai_pending under the STRICT policy", func() {
		registry := NewRegistry(db)
		o := NewOrchestrator(registry, nil, testConfig())

		Expect(o.visibleStatuses()).NotTo(ContainElement(domain.MemberAIPending))
	})

	It("includes ai_pending under the PRAGMATIC policy", func() {
		registry := NewRegistry(db)
		cfg := testConfig()
		cfg.Policy = config.PolicyPragmatic
		o := NewOrchestrator(registry, nil, cfg)

		Expect(o.visibleStatuses()).To(ContainElement(domain.MemberAIPending))
	})
})

var _ = Describe("Orchestrator.EnsureSynonyms", func() {
	var mockDB sqlmock.Sqlmock
	var registry *Registry

	BeforeEach(func() {
		conn, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mockDB = m
		registry = NewRegistry(sqlx.NewDb(conn, "postgres"))
	})

	It("skips the suggester on the fast path when enough synonyms already exist", func() {
		mockDB.ExpectQuery(`SELECT m2.term, m2.weight, m2.status, m2.is_preferred, m2.usage_count`).
			WillReturnRows(sqlmock.NewRows([]string{"term", "weight", "status", "is_preferred", "usage_count"}).
				AddRow("a", 0.9, "active", true, 1).
				AddRow("b", 0.8, "active", false, 2).
				AddRow("c", 0.7, "active", false, 0))

		suggester := &stubSuggester{}
		o := NewOrchestrator(registry, suggester, testConfig())

		result, err := o.EnsureSynonyms(context.Background(), "term", 3, "test")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(StatusSuccess))
		Expect(result.Synonyms).To(HaveLen(3))
		Expect(result.AIPendingAddedCount).To(Equal(0))
	})

	It("reports not_available when no suggester is configured", func() {
		mockDB.ExpectQuery(`SELECT m2.term, m2.weight, m2.status, m2.is_preferred, m2.usage_count`).
			WillReturnRows(sqlmock.NewRows([]string{"term", "weight", "status", "is_preferred", "usage_count"}))

		o := NewOrchestrator(registry, nil, testConfig())

		result, err := o.EnsureSynonyms(context.Background(), "term", 3, "test")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(StatusNotAvail))
	})

	It("preserves existing synonyms and reports an error status when the suggester fails", func() {
		mockDB.ExpectQuery(`SELECT m2.term, m2.weight, m2.status, m2.is_preferred, m2.usage_count`).
			WillReturnRows(sqlmock.NewRows([]string{"term", "weight", "status", "is_preferred", "usage_count"}).
				AddRow("a", 0.9, "active", true, 1))

		suggester := &stubSuggester{err: errors.New("AI unavailable")}
		o := NewOrchestrator(registry, suggester, testConfig())

		result, err := o.EnsureSynonyms(context.Background(), "term", 3, "test")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(StatusError))
		Expect(result.Synonyms).To(HaveLen(1))
	})
})
