package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/models"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestScheduleCreate_MapsUniqueViolationToConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)

	mock.ExpectExec("INSERT INTO schedule_entries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "unique_staff_date"})

	entry := &models.ScheduleEntry{
		StaffID:   uuid.New(),
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Shift:     models.ShiftFullDay,
		StartTime: "08:00",
		EndTime:   "17:00",
		CreatedBy: uuid.New(),
	}

	err := repo.Create(context.Background(), entry)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestScheduleDeleteForStaffBetween_ReturnsCount(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)

	staffID := uuid.New()
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM schedule_entries WHERE staff_id").
		WithArgs(staffID, from, to).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	count, err := repo.DeleteForStaffBetween(context.Background(), staffID, from, to)
	if err != nil {
		t.Fatalf("DeleteForStaffBetween failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 deleted entries, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestScheduleDeleteByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)

	id := uuid.New()
	mock.ExpectExec("DELETE FROM schedule_entries WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteByID(context.Background(), id)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleListBetween_ScansRows(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	staffID := uuid.New()
	createdBy := uuid.New()
	room := "Black"

	rows := pgxmock.NewRows([]string{
		"id", "staff_id", "date", "shift_type", "room", "start_time", "end_time", "notes", "created_by", "created_at",
	}).AddRow(uuid.New(), staffID, from, models.ShiftFullDay, &room, "08:00", "17:00", "", createdBy, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM schedule_entries").
		WithArgs(from, to).
		WillReturnRows(rows)

	entries, err := repo.ListBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListBetween failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Room == nil || *entries[0].Room != "Black" {
		t.Errorf("expected room Black, got %v", entries[0].Room)
	}
}
