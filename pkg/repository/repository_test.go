package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

func TestRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Repository Suite")
}

func newMockRepository() (*Repository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	Expect(err).NotTo(HaveOccurred())
	db := sqlx.NewDb(mockDB, "postgres")
	return New(db), mock, mockDB
}

func pqArr() string {
	return "{}"
}

var resultColumns = []string{
	"id", "term", "text", "ontological_category", "organizational_context", "juridical_context",
	"legal_basis", "original_text", "valid", "status", "version", "previous_version_id",
	"created_at", "updated_at", "created_by", "approved_by", "approved_at",
}

var _ = Describe("Repository.Save", func() {
	var r *Repository
	var mock sqlmock.Sqlmock
	var mockDB *sql.DB

	BeforeEach(func() {
		r, mock, mockDB = newMockRepository()
	})

	AfterEach(func() {
		mockDB.Close()
	})

	It("inserts a fresh definition at version 1", func() {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM definities`).
			WithArgs("aanhouding", sqlmock.AnyArg()).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO definities`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("d1"))
		mock.ExpectExec(`INSERT INTO definitie_geschiedenis`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		def := &domain.Definition{Term: "aanhouding", Text: "tekst", CreatedBy: "actor"}
		id, err := r.Save(context.Background(), def)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("d1"))
		Expect(def.Version).To(Equal(1))
		Expect(mock.ExpectationsWereMet()).NotTo(HaveOccurred())
	})

	It("rejects a duplicate term without the force-duplicate flag", func() {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM definities`).
			WithArgs("aanhouding", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-1"))
		mock.ExpectRollback()

		def := &domain.Definition{Term: "aanhouding", Text: "tekst", CreatedBy: "actor"}
		_, err := r.Save(context.Background(), def)
		Expect(err).To(HaveOccurred())
	})

	It("versions forward and links the previous version when ForceDuplicate is set", func() {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM definities`).
			WithArgs("aanhouding", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-1"))
		mock.ExpectQuery(`SELECT version FROM definities WHERE id = \$1`).
			WithArgs("existing-1").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO definities`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("d2"))
		mock.ExpectExec(`INSERT INTO definitie_geschiedenis`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		def := &domain.Definition{
			Term: "aanhouding", Text: "tekst", CreatedBy: "actor",
			Metadata: domain.DefinitionMetadata{ForceDuplicate: true},
		}
		id, err := r.Save(context.Background(), def)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("d2"))
		Expect(def.Version).To(Equal(2))
		Expect(def.PreviousVersionID).To(Equal("existing-1"))
	})
})

var _ = Describe("Repository.Get", func() {
	var r *Repository
	var mock sqlmock.Sqlmock
	var mockDB *sql.DB

	BeforeEach(func() {
		r, mock, mockDB = newMockRepository()
	})

	AfterEach(func() {
		mockDB.Close()
	})

	It("returns the stored definition", func() {
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM definities WHERE id = \$1`).
			WithArgs("d1").
			WillReturnRows(sqlmock.NewRows(resultColumns).AddRow(
				"d1", "aanhouding", "tekst", "resultaat", pqArr(), pqArr(), pqArr(),
				"", true, "draft", 1, "", now, now, "actor", "", nil))

		def, err := r.Get(context.Background(), "d1")
		Expect(err).NotTo(HaveOccurred())
		Expect(def.Term).To(Equal("aanhouding"))
	})

	It("returns a not-found error for a missing id", func() {
		mock.ExpectQuery(`SELECT .* FROM definities WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := r.Get(context.Background(), "missing")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Repository.ChangeStatus", func() {
	var r *Repository
	var mock sqlmock.Sqlmock
	var mockDB *sql.DB

	BeforeEach(func() {
		r, mock, mockDB = newMockRepository()
	})

	AfterEach(func() {
		mockDB.Close()
	})

	It("rejects an illegal transition from established back to draft", func() {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM definities WHERE id = \$1`).
			WithArgs("d1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("established"))
		mock.ExpectRollback()

		err := r.ChangeStatus(context.Background(), "d1", domain.StatusDraft, "actor", "")
		Expect(err).To(HaveOccurred())
	})

	It("stamps the approver when transitioning to established", func() {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM definities WHERE id = \$1`).
			WithArgs("d1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("review"))
		mock.ExpectExec(`UPDATE definities SET status = \$1, updated_at = now\(\), approved_by = \$3, approved_at = now\(\) WHERE id = \$2`).
			WithArgs(domain.StatusEstablished, "d1", "reviewer").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO definitie_geschiedenis`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := r.ChangeStatus(context.Background(), "d1", domain.StatusEstablished, "reviewer", "ok")
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Repository.FindDuplicates", func() {
	var r *Repository
	var mock sqlmock.Sqlmock
	var mockDB *sql.DB

	BeforeEach(func() {
		r, mock, mockDB = newMockRepository()
	})

	AfterEach(func() {
		mockDB.Close()
	})

	It("returns an exact term match scored 1.0", func() {
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM definities WHERE term = \$1`).
			WithArgs("aanhouding").
			WillReturnRows(sqlmock.NewRows(resultColumns).AddRow(
				"d1", "aanhouding", "tekst", "resultaat", pqArr(), pqArr(), pqArr(),
				"", true, "draft", 1, "", now, now, "actor", "", nil))

		candidates, err := r.FindDuplicates(context.Background(), "aanhouding", "", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].Score).To(Equal(1.0))
	})
})

var _ = Describe("jaccard", func() {
	It("scores a partial token overlap between 0.5 and 1.0", func() {
		a := tokenize("voorlopige hechtenis")
		b := tokenize("voorlopige hechtenis verlengd")
		score := jaccard(a, b)
		Expect(score).To(BeNumerically(">=", 0.5))
		Expect(score).To(BeNumerically("<", 1.0))
	})

	It("scores identical token sets at 1.0", func() {
		identical := jaccard(tokenize("aanhouding"), tokenize("aanhouding"))
		Expect(identical).To(Equal(1.0))
	})
})
