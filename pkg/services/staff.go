package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// CreateStaffInput holds the fields for creating a staff member.
type CreateStaffInput struct {
	Username  string
	Password  string
	FullName  string
	Role      models.Role
	Email     string
	Phone     string
	StartDate *time.Time
}

// StaffService manages the staff roster and authenticates logins.
type StaffService interface {
	Create(ctx context.Context, input CreateStaffInput) (*models.StaffMember, error)
	Get(ctx context.Context, id uuid.UUID) (*models.StaffMember, error)
	List(ctx context.Context) ([]*models.StaffMember, error)
	Update(ctx context.Context, id uuid.UUID, role models.Role, status string) error
	// Authenticate verifies a username and password, returning
	// apperrors.ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, username, password string) (*models.StaffMember, error)
}

type staffService struct {
	repo   repositories.StaffRepository
	audit  AuditService
	logger *zap.Logger
}

// NewStaffService creates a new staff service.
func NewStaffService(repo repositories.StaffRepository, audit AuditService, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, audit: audit, logger: logger}
}

func (s *staffService) Create(ctx context.Context, input CreateStaffInput) (*models.StaffMember, error) {
	if input.Username == "" || input.Password == "" || input.FullName == "" {
		return nil, fmt.Errorf("username, password and full name are required: %w", apperrors.ErrValidation)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", input.Role, apperrors.ErrInvalidRole)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.StaffMember{
		Username:     input.Username,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         input.Role,
		Email:        input.Email,
		Phone:        input.Phone,
		StartDate:    input.StartDate,
		Status:       models.StatusActive,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("staff member created",
		zap.String("staff_id", member.ID.String()),
		zap.String("role", string(member.Role)))
	s.audit.Log(ctx, "staff.create", "staff", &member.ID, map[string]any{
		"username": member.Username,
		"role":     member.Role,
	})

	return member, nil
}

func (s *staffService) Get(ctx context.Context, id uuid.UUID) (*models.StaffMember, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *staffService) List(ctx context.Context) ([]*models.StaffMember, error) {
	return s.repo.List(ctx)
}

func (s *staffService) Update(ctx context.Context, id uuid.UUID, role models.Role, status string) error {
	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, apperrors.ErrInvalidRole)
	}
	if status != models.StatusActive && status != models.StatusInactive {
		return fmt.Errorf("status %q: %w", status, apperrors.ErrValidation)
	}

	if err := s.repo.Update(ctx, id, role, status); err != nil {
		return err
	}

	s.audit.Log(ctx, "staff.update", "staff", &id, map[string]any{
		"role":   role,
		"status": status,
	})
	return nil
}

func (s *staffService) Authenticate(ctx context.Context, username, password string) (*models.StaffMember, error) {
	member, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !member.IsActive() || !auth.CheckPassword(member.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return member, nil
}

var _ StaffService = (*staffService)(nil)
