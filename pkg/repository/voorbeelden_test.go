package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

func TestSaveVoorbeeldDeactivatesPreviousActiveRow(t *testing.T) {
	r, mock, mockDB := newMockRepository()
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE voorbeelden SET active = false`).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO voorbeelden`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("v2"))
	mock.ExpectCommit()

	v := &domain.Voorbeeld{DefinitieID: "d1", Text: "de verdachte werd aangehouden", CreatedBy: "actor"}
	id, err := r.SaveVoorbeeld(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "v2" || !v.Active {
		t.Errorf("expected new voorbeeld v2 marked active, got id=%s active=%v", id, v.Active)
	}
}

func TestSaveVoorbeeldRejectsInvalidRating(t *testing.T) {
	r, _, mockDB := newMockRepository()
	defer mockDB.Close()

	v := &domain.Voorbeeld{DefinitieID: "d1", Text: "x", Rating: "uitstekend"}
	_, err := r.SaveVoorbeeld(context.Background(), v)
	if err == nil {
		t.Fatal("expected a validation error for an unknown rating")
	}
}

func TestGetVoorbeeldenOrdersActiveFirst(t *testing.T) {
	r, mock, mockDB := newMockRepository()
	defer mockDB.Close()

	now := time.Now()
	cols := []string{"id", "definitie_id", "text", "rating", "active", "reviewed_by", "reviewed_at", "created_at", "created_by"}
	mock.ExpectQuery(`SELECT .* FROM voorbeelden\s+WHERE definitie_id = \$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("v2", "d1", "nieuw voorbeeld", "", true, "", nil, now, "actor").
			AddRow("v1", "d1", "oud voorbeeld", "goed", false, "reviewer", now, now, "actor"))

	voorbeelden, err := r.GetVoorbeelden(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voorbeelden) != 2 || !voorbeelden[0].Active {
		t.Fatalf("expected active voorbeeld first, got %+v", voorbeelden)
	}
}

func TestReviewVoorbeeldRejectsUnknownRating(t *testing.T) {
	r, _, mockDB := newMockRepository()
	defer mockDB.Close()

	err := r.ReviewVoorbeeld(context.Background(), "v1", "onduidelijk", "reviewer")
	if err == nil {
		t.Fatal("expected a validation error for an unknown rating")
	}
}

func TestReviewVoorbeeldReturnsNotFoundWhenNoRowAffected(t *testing.T) {
	r, mock, mockDB := newMockRepository()
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE voorbeelden SET rating`).
		WithArgs(domain.RatingGoed, "reviewer", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.ReviewVoorbeeld(context.Background(), "missing", domain.RatingGoed, "reviewer")
	if err == nil {
		t.Fatal("expected a not-found error")
	}
}

func TestDeleteVoorbeeldRemovesRow(t *testing.T) {
	r, mock, mockDB := newMockRepository()
	defer mockDB.Close()

	mock.ExpectExec(`DELETE FROM voorbeelden WHERE id = \$1`).
		WithArgs("v1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.DeleteVoorbeeld(context.Background(), "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
