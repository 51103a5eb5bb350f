package feedback

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	db := sqlx.NewDb(mockDB, "postgres")
	return New(db, 5), mock, mockDB
}

func TestGetFeedbackForRequestReturnsRows(t *testing.T) {
	e, mock, mockDB := newMockEngine(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT feedback_type, content\s+FROM definitie_feedback`).
		WithArgs("Vervoersverbod", domain.CategoryResultaat, 5).
		WillReturnRows(sqlmock.NewRows([]string{"feedback_type", "content"}).
			AddRow("validation_failure", `{"violations":[]}`))

	entries, err := e.GetFeedbackForRequest(context.Background(), "Vervoersverbod", domain.CategoryResultaat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Type != "validation_failure" {
		t.Errorf("unexpected type: %s", entries[0].Type)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProcessValidationFeedbackSkipsAcceptedDefinitions(t *testing.T) {
	e, mock, mockDB := newMockEngine(t)
	defer mockDB.Close()

	err := e.ProcessValidationFeedback(context.Background(), "def-1", domain.ValidationResult{IsAcceptable: true}, domain.GenerationRequest{Term: "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected query issued for an accepted definition: %v", err)
	}
}

func TestProcessValidationFeedbackInsertsOnFailure(t *testing.T) {
	e, mock, mockDB := newMockEngine(t)
	defer mockDB.Close()

	now := time.Now()
	_ = now

	mock.ExpectExec(`INSERT INTO definitie_feedback`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := domain.ValidationResult{
		IsAcceptable: false,
		Violations:   []domain.Violation{{RuleID: "SINGLE_SENTENCE", Severity: "critical", Message: "x"}},
	}
	err := e.ProcessValidationFeedback(context.Background(), "def-2", result, domain.GenerationRequest{Term: "Vervoersverbod"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
