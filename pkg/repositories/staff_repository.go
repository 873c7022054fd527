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

// StaffRepository defines the interface for staff data access.
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error)
	GetByUsername(ctx context.Context, username string) (*models.StaffMember, error)
	List(ctx context.Context) ([]*models.StaffMember, error)
	ListActive(ctx context.Context) ([]*models.StaffMember, error)
	Update(ctx context.Context, id uuid.UUID, role models.Role, status string) error
}

type staffRepository struct {
	db database.Querier
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db database.Querier) StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, username, password_hash, full_name, role, email, phone, start_date, status, created_at`

func (r *staffRepository) Create(ctx context.Context, staff *models.StaffMember) error {
	q := database.QuerierFrom(ctx, r.db)

	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	staff.CreatedAt = time.Now()

	query := `
		INSERT INTO staff (id, username, password_hash, full_name, role, email, phone, start_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := q.Exec(ctx, query,
		staff.ID,
		staff.Username,
		staff.PasswordHash,
		staff.FullName,
		staff.Role,
		staff.Email,
		staff.Phone,
		staff.StartDate,
		staff.Status,
		staff.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q taken: %w", staff.Username, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return scanStaff(q.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*models.StaffMember, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`
	return scanStaff(q.QueryRow(ctx, query, username))
}

func (r *staffRepository) List(ctx context.Context) ([]*models.StaffMember, error) {
	return r.list(ctx, `SELECT `+staffColumns+` FROM staff ORDER BY role, full_name`)
}

func (r *staffRepository) ListActive(ctx context.Context) ([]*models.StaffMember, error) {
	return r.list(ctx, `SELECT `+staffColumns+` FROM staff WHERE status = 'Active' ORDER BY role, full_name`)
}

func (r *staffRepository) list(ctx context.Context, query string) ([]*models.StaffMember, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var members []*models.StaffMember
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return members, nil
}

func (r *staffRepository) Update(ctx context.Context, id uuid.UUID, role models.Role, status string) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `UPDATE staff SET role = $1, status = $2 WHERE id = $3`

	result, err := q.Exec(ctx, query, role, status, id)
	if err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("staff member %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

func scanStaff(row pgx.Row) (*models.StaffMember, error) {
	var member models.StaffMember
	err := row.Scan(
		&member.ID,
		&member.Username,
		&member.PasswordHash,
		&member.FullName,
		&member.Role,
		&member.Email,
		&member.Phone,
		&member.StartDate,
		&member.Status,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("staff member: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan staff member: %w", err)
	}
	return &member, nil
}

var _ StaffRepository = (*staffRepository)(nil)
