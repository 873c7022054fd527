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

// LeaveRepository defines the interface for leave request data access.
type LeaveRepository interface {
	Create(ctx context.Context, req *models.LeaveRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error)
	ListByStatus(ctx context.Context, status models.LeaveStatus) ([]*models.LeaveRequest, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.LeaveRequest, error)
	// Decide moves a pending request to its terminal status. It returns
	// apperrors.ErrAlreadyDecided when the request exists but is no
	// longer pending.
	Decide(ctx context.Context, id uuid.UUID, status models.LeaveStatus, decidedBy uuid.UUID, notes string) error
	// ListApprovedOverlapping returns approved requests whose inclusive
	// range intersects [from, to].
	ListApprovedOverlapping(ctx context.Context, from, to time.Time) ([]*models.LeaveRequest, error)
	// ListApprovedByStaffInYear returns approved requests for one staff
	// member starting within the given calendar year.
	ListApprovedByStaffInYear(ctx context.Context, staffID uuid.UUID, year int) ([]*models.LeaveRequest, error)
}

type leaveRepository struct {
	db database.Querier
}

// NewLeaveRepository creates a new leave repository.
func NewLeaveRepository(db database.Querier) LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `id, staff_id, leave_type, start_date, end_date, reason, status, decided_by, decision_notes, decided_at, created_at`

func (r *leaveRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	q := database.QuerierFrom(ctx, r.db)

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = models.LeavePending
	req.CreatedAt = time.Now()

	query := `
		INSERT INTO leave_requests (id, staff_id, leave_type, start_date, end_date, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := q.Exec(ctx, query,
		req.ID, req.StaffID, req.Type, req.StartDate, req.EndDate, req.Reason, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}

	return nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = $1`
	return scanLeave(q.QueryRow(ctx, query, id))
}

func (r *leaveRepository) ListByStatus(ctx context.Context, status models.LeaveStatus) ([]*models.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE status = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

func (r *leaveRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE staff_id = $1 ORDER BY start_date DESC`
	return r.list(ctx, query, staffID)
}

func (r *leaveRepository) Decide(ctx context.Context, id uuid.UUID, status models.LeaveStatus, decidedBy uuid.UUID, notes string) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, decided_by = $2, decision_notes = $3, decided_at = now()
		WHERE id = $4 AND status = 'Pending'`

	result, err := q.Exec(ctx, query, status, decidedBy, notes, id)
	if err != nil {
		return fmt.Errorf("failed to decide leave request: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing request from one already decided.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("leave request %s: %w", id, apperrors.ErrAlreadyDecided)
	}

	return nil
}

func (r *leaveRepository) ListApprovedOverlapping(ctx context.Context, from, to time.Time) ([]*models.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE status = 'Approved' AND start_date <= $2 AND end_date >= $1
		ORDER BY start_date`
	return r.list(ctx, query, from, to)
}

func (r *leaveRepository) ListApprovedByStaffInYear(ctx context.Context, staffID uuid.UUID, year int) ([]*models.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE staff_id = $1 AND status = 'Approved' AND EXTRACT(YEAR FROM start_date) = $2
		ORDER BY start_date`
	return r.list(ctx, query, staffID, year)
}

func (r *leaveRepository) list(ctx context.Context, query string, args ...any) ([]*models.LeaveRequest, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.LeaveRequest
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave requests: %w", err)
	}

	return requests, nil
}

func scanLeave(row pgx.Row) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	err := row.Scan(
		&req.ID,
		&req.StaffID,
		&req.Type,
		&req.StartDate,
		&req.EndDate,
		&req.Reason,
		&req.Status,
		&req.DecidedBy,
		&req.DecisionNotes,
		&req.DecidedAt,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("leave request: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}
	return &req, nil
}

var _ LeaveRepository = (*leaveRepository)(nil)
