package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// KPIPassThreshold is the monthly percentage below which a month
// counts as failed.
const KPIPassThreshold = 70.0

// WarningService issues disciplinary warnings, both manual ones and
// the automatic warning after two consecutive failed KPI months.
type WarningService interface {
	// MaybeIssueKPIWarning applies the two-consecutive-failures rule
	// after a month has been scored. prev is the previous month's
	// summary, nil when that month was never scored. It reports whether
	// a warning was issued.
	MaybeIssueKPIWarning(ctx context.Context, staff *models.StaffMember, month, year int, percentage float64, prev *models.MonthlySummary) (bool, error)
	Issue(ctx context.Context, staffID uuid.UUID, warningType models.WarningType, reason string) (*models.Warning, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.Warning, error)
	List(ctx context.Context) ([]*models.Warning, error)
}

type warningService struct {
	warnings      repositories.WarningRepository
	staff         repositories.StaffRepository
	events        repositories.EventRepository
	notifications NotificationService
	audit         AuditService
	logger        *zap.Logger
}

// NewWarningService creates a new warning service.
func NewWarningService(
	warnings repositories.WarningRepository,
	staff repositories.StaffRepository,
	events repositories.EventRepository,
	notifications NotificationService,
	audit AuditService,
	logger *zap.Logger,
) WarningService {
	return &warningService{
		warnings:      warnings,
		staff:         staff,
		events:        events,
		notifications: notifications,
		audit:         audit,
		logger:        logger,
	}
}

func (s *warningService) MaybeIssueKPIWarning(ctx context.Context, staff *models.StaffMember, month, year int, percentage float64, prev *models.MonthlySummary) (bool, error) {
	if percentage >= KPIPassThreshold {
		return false, nil
	}
	// One failed month on its own never triggers a warning. An unscored
	// previous month does not count as a failure.
	if prev == nil || prev.Percentage >= KPIPassThreshold {
		return false, nil
	}

	actor, ok := models.GetActor(ctx)
	if !ok {
		return false, fmt.Errorf("no authenticated actor: %w", apperrors.ErrValidation)
	}

	reason := fmt.Sprintf("KPI below %.0f%% for two consecutive months: %s %d (%.1f%%) and %s %d (%.1f%%)",
		KPIPassThreshold,
		models.MonthName(prevMonthOf(month, year)), prevYearOf(month, year), prev.Percentage,
		models.MonthName(month), year, percentage)

	// The system issues the warning, not the scoring manager: IssuedBy
	// stays nil and the record is marked auto-generated.
	warning := &models.Warning{
		StaffID:       staff.ID,
		Type:          models.WarningKPIFailed,
		Reason:        reason,
		AutoGenerated: true,
	}
	if err := s.warnings.Create(ctx, warning); err != nil {
		return false, err
	}

	event := &models.PerformanceEvent{
		StaffID:     staff.ID,
		Type:        models.EventWarning,
		Description: reason,
		Data: map[string]any{
			"warning_id":   warning.ID.String(),
			"warning_type": warning.Type,
			"month":        month,
			"year":         year,
		},
		CreatedBy: actor.ID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return false, err
	}

	message := fmt.Sprintf("An automatic warning was recorded: %s", reason)
	if err := s.notifications.Notify(ctx, staff.ID, "KPI warning issued", message, models.NotifyWarning); err != nil {
		return false, err
	}

	s.logger.Warn("automatic KPI warning issued",
		zap.String("staff_id", staff.ID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Float64("percentage", percentage))
	s.audit.Log(ctx, "warning.auto_kpi", "warning", &warning.ID, map[string]any{
		"staff_id":   staff.ID.String(),
		"month":      month,
		"year":       year,
		"percentage": percentage,
	})

	return true, nil
}

func (s *warningService) Issue(ctx context.Context, staffID uuid.UUID, warningType models.WarningType, reason string) (*models.Warning, error) {
	actor, ok := models.GetActor(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated actor: %w", apperrors.ErrValidation)
	}
	if !warningType.Valid() {
		return nil, fmt.Errorf("warning type %q: %w", warningType, apperrors.ErrValidation)
	}
	if reason == "" {
		return nil, fmt.Errorf("reason is required: %w", apperrors.ErrValidation)
	}

	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	issuedBy := actor.ID
	warning := &models.Warning{
		StaffID:  member.ID,
		Type:     warningType,
		Reason:   reason,
		IssuedBy: &issuedBy,
	}
	if err := s.warnings.Create(ctx, warning); err != nil {
		return nil, err
	}

	event := &models.PerformanceEvent{
		StaffID:     member.ID,
		Type:        models.EventWarning,
		Description: fmt.Sprintf("%s warning: %s", warningType, reason),
		Data:        map[string]any{"warning_id": warning.ID.String(), "warning_type": warningType},
		CreatedBy:   actor.ID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("A %s warning was recorded: %s", warningType, reason)
	if err := s.notifications.Notify(ctx, member.ID, "Warning issued", message, models.NotifyWarning); err != nil {
		s.logger.Warn("failed to notify staff of warning", zap.Error(err))
	}

	s.audit.Log(ctx, "warning.issue", "warning", &warning.ID, map[string]any{
		"staff_id":     member.ID.String(),
		"warning_type": warningType,
	})

	return warning, nil
}

func (s *warningService) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.Warning, error) {
	return s.warnings.ListByStaff(ctx, staffID)
}

func (s *warningService) List(ctx context.Context) ([]*models.Warning, error) {
	return s.warnings.List(ctx)
}

// prevMonthOf and prevYearOf step one calendar month back.
func prevMonthOf(month, year int) int {
	if month == 1 {
		return 12
	}
	return month - 1
}

func prevYearOf(month, year int) int {
	if month == 1 {
		return year - 1
	}
	return year
}

var _ WarningService = (*warningService)(nil)
