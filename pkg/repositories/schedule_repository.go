package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// ScheduleRepository defines the interface for schedule entry data access.
type ScheduleRepository interface {
	// Create inserts one entry. A second entry for the same staff member
	// and date returns apperrors.ErrConflict.
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduleEntry, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// DeleteForStaffBetween removes one staff member's entries in the
	// inclusive range and returns how many were removed.
	DeleteForStaffBetween(ctx context.Context, staffID uuid.UUID, from, to time.Time) (int, error)
	// DeleteBetween removes all entries in the inclusive range.
	DeleteBetween(ctx context.Context, from, to time.Time) (int, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.ScheduleEntry, error)
	ListForDate(ctx context.Context, date time.Time) ([]*models.ScheduleEntry, error)
}

type scheduleRepository struct {
	db database.Querier
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db database.Querier) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, staff_id, date, shift_type, room, start_time, end_time, notes, created_by, created_at`

func (r *scheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	q := database.QuerierFrom(ctx, r.db)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO schedule_entries (id, staff_id, date, shift_type, room, start_time, end_time, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := q.Exec(ctx, query,
		entry.ID,
		entry.StaffID,
		entry.Date,
		entry.Shift,
		entry.Room,
		entry.StartTime,
		entry.EndTime,
		entry.Notes,
		entry.CreatedBy,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("staff %s already scheduled on %s: %w",
				entry.StaffID, entry.Date.Format("2006-01-02"), apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create schedule entry: %w", err)
	}

	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduleEntry, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries WHERE id = $1`
	return scanScheduleEntry(q.QueryRow(ctx, query, id))
}

func (r *scheduleRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("schedule entry %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

func (r *scheduleRepository) DeleteForStaffBetween(ctx context.Context, staffID uuid.UUID, from, to time.Time) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `DELETE FROM schedule_entries WHERE staff_id = $1 AND date BETWEEN $2 AND $3`

	result, err := q.Exec(ctx, query, staffID, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedule entries for staff: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *scheduleRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM schedule_entries WHERE date BETWEEN $1 AND $2`, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schedule entries: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *scheduleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.ScheduleEntry, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_entries
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, start_time`
	return r.list(ctx, query, from, to)
}

func (r *scheduleRepository) ListForDate(ctx context.Context, date time.Time) ([]*models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries WHERE date = $1 ORDER BY room, start_time`
	return r.list(ctx, query, date)
}

func (r *scheduleRepository) list(ctx context.Context, query string, args ...any) ([]*models.ScheduleEntry, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		entry, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}

	return entries, nil
}

func scanScheduleEntry(row pgx.Row) (*models.ScheduleEntry, error) {
	var entry models.ScheduleEntry
	err := row.Scan(
		&entry.ID,
		&entry.StaffID,
		&entry.Date,
		&entry.Shift,
		&entry.Room,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Notes,
		&entry.CreatedBy,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("schedule entry: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
	}
	return &entry, nil
}

var _ ScheduleRepository = (*scheduleRepository)(nil)
