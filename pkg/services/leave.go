package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// Annual entitlements in working days. Only these types are tracked
// against a balance; the rest are unlimited as far as the system is
// concerned.
var leaveEntitlements = map[models.LeaveType]int{
	models.LeaveAnnual:               21,
	models.LeaveSick:                 10,
	models.LeaveFamilyResponsibility: 3,
}

// SubmitLeaveInput holds the fields for a new leave request.
type SubmitLeaveInput struct {
	StaffID   uuid.UUID
	Type      models.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// LeaveDecision is the outcome of approving or rejecting a request.
type LeaveDecision struct {
	Request *models.LeaveRequest `json:"request"`
	// RemovedEntries counts the schedule entries the approval cascade
	// deleted. Always zero on rejection.
	RemovedEntries int `json:"removed_entries"`
}

// LeaveTypeBalance is one entitlement line of a staff member's balance.
type LeaveTypeBalance struct {
	Type      models.LeaveType `json:"leave_type"`
	Entitled  int              `json:"entitled"`
	Used      int              `json:"used"`
	Remaining int              `json:"remaining"`
}

// LeaveBalance summarizes a staff member's leave position for one year.
// Used days count weekdays only.
type LeaveBalance struct {
	StaffID uuid.UUID          `json:"staff_id"`
	Year    int                `json:"year"`
	Types   []LeaveTypeBalance `json:"types"`
}

// LeaveService manages the leave request lifecycle. Pending requests
// transition exactly once, to Approved or Rejected.
type LeaveService interface {
	Submit(ctx context.Context, input SubmitLeaveInput) (*models.LeaveRequest, error)
	Approve(ctx context.Context, id uuid.UUID, notes string) (*LeaveDecision, error)
	Reject(ctx context.Context, id uuid.UUID, notes string) (*LeaveDecision, error)
	Get(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error)
	ListPending(ctx context.Context) ([]*models.LeaveRequest, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.LeaveRequest, error)
	Balance(ctx context.Context, staffID uuid.UUID, year int) (*LeaveBalance, error)
}

type leaveService struct {
	leaves        repositories.LeaveRepository
	schedules     repositories.ScheduleRepository
	staff         repositories.StaffRepository
	events        repositories.EventRepository
	notifications NotificationService
	audit         AuditService
	txm           database.TxManager
	logger        *zap.Logger
}

// NewLeaveService creates a new leave service.
func NewLeaveService(
	leaves repositories.LeaveRepository,
	schedules repositories.ScheduleRepository,
	staff repositories.StaffRepository,
	events repositories.EventRepository,
	notifications NotificationService,
	audit AuditService,
	txm database.TxManager,
	logger *zap.Logger,
) LeaveService {
	return &leaveService{
		leaves:        leaves,
		schedules:     schedules,
		staff:         staff,
		events:        events,
		notifications: notifications,
		audit:         audit,
		txm:           txm,
		logger:        logger,
	}
}

func (s *leaveService) Submit(ctx context.Context, input SubmitLeaveInput) (*models.LeaveRequest, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("leave type %q: %w", input.Type, apperrors.ErrValidation)
	}

	start := clock.DateOf(input.StartDate)
	end := clock.DateOf(input.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("end date before start date: %w", apperrors.ErrValidation)
	}

	member, err := s.staff.GetByID(ctx, input.StaffID)
	if err != nil {
		return nil, err
	}

	req := &models.LeaveRequest{
		StaffID:   member.ID,
		Type:      input.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    input.Reason,
	}
	if err := s.leaves.Create(ctx, req); err != nil {
		return nil, err
	}

	s.notifyManagers(ctx, member, req)
	s.audit.Log(ctx, "leave.submit", "leave_request", &req.ID, map[string]any{
		"leave_type": req.Type,
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
	})

	return req, nil
}

// notifyManagers alerts every active manager to a new request.
// Failures here are logged, never fatal.
func (s *leaveService) notifyManagers(ctx context.Context, member *models.StaffMember, req *models.LeaveRequest) {
	managers, err := s.staff.ListActive(ctx)
	if err != nil {
		s.logger.Warn("failed to list managers for leave notification", zap.Error(err))
		return
	}

	title := "New leave request"
	message := fmt.Sprintf("%s requested %s leave from %s to %s",
		member.FullName, req.Type,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))

	for _, m := range managers {
		if !m.Role.IsManager() || m.ID == member.ID {
			continue
		}
		if err := s.notifications.Notify(ctx, m.ID, title, message, models.NotifyLeaveRequest); err != nil {
			s.logger.Warn("failed to notify manager of leave request",
				zap.String("manager_id", m.ID.String()), zap.Error(err))
		}
	}
}

func (s *leaveService) Approve(ctx context.Context, id uuid.UUID, notes string) (*LeaveDecision, error) {
	return s.decide(ctx, id, models.LeaveApproved, notes)
}

func (s *leaveService) Reject(ctx context.Context, id uuid.UUID, notes string) (*LeaveDecision, error) {
	return s.decide(ctx, id, models.LeaveRejected, notes)
}

// decide moves a pending request to its terminal status. Approval also
// removes the staff member's schedule entries inside the leave range;
// the update, the cascade, the event and the notification commit or
// roll back as one unit.
func (s *leaveService) decide(ctx context.Context, id uuid.UUID, status models.LeaveStatus, notes string) (*LeaveDecision, error) {
	actor, ok := models.GetActor(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated actor: %w", apperrors.ErrValidation)
	}

	var decision *LeaveDecision
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		if err := s.leaves.Decide(ctx, id, status, actor.ID, notes); err != nil {
			return err
		}

		req, err := s.leaves.GetByID(ctx, id)
		if err != nil {
			return err
		}

		removed := 0
		if status == models.LeaveApproved {
			removed, err = s.schedules.DeleteForStaffBetween(ctx, req.StaffID, req.StartDate, req.EndDate)
			if err != nil {
				return err
			}
		}

		event := &models.PerformanceEvent{
			StaffID: req.StaffID,
			Type:    models.EventLeave,
			Description: fmt.Sprintf("%s leave %s to %s: %s",
				req.Type, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), status),
			Data: map[string]any{
				"leave_request_id": req.ID.String(),
				"status":           status,
				"removed_entries":  removed,
			},
			CreatedBy: actor.ID,
		}
		if err := s.events.Create(ctx, event); err != nil {
			return err
		}

		title := fmt.Sprintf("Leave request %s", status)
		message := fmt.Sprintf("Your %s leave from %s to %s was %s",
			req.Type, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), status)
		if err := s.notifications.Notify(ctx, req.StaffID, title, message, models.NotifyLeaveResponse); err != nil {
			return err
		}

		decision = &LeaveDecision{Request: req, RemovedEntries: removed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave request decided",
		zap.String("leave_request_id", id.String()),
		zap.String("status", string(status)),
		zap.Int("removed_entries", decision.RemovedEntries))
	s.audit.Log(ctx, "leave.decide", "leave_request", &id, map[string]any{
		"status":          status,
		"removed_entries": decision.RemovedEntries,
	})

	return decision, nil
}

func (s *leaveService) Get(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error) {
	return s.leaves.GetByID(ctx, id)
}

func (s *leaveService) ListPending(ctx context.Context) ([]*models.LeaveRequest, error) {
	return s.leaves.ListByStatus(ctx, models.LeavePending)
}

func (s *leaveService) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.LeaveRequest, error) {
	return s.leaves.ListByStaff(ctx, staffID)
}

func (s *leaveService) Balance(ctx context.Context, staffID uuid.UUID, year int) (*LeaveBalance, error) {
	if _, err := s.staff.GetByID(ctx, staffID); err != nil {
		return nil, err
	}

	approved, err := s.leaves.ListApprovedByStaffInYear(ctx, staffID, year)
	if err != nil {
		return nil, err
	}

	used := make(map[models.LeaveType]int)
	for _, req := range approved {
		used[req.Type] += weekdaysIn(req.StartDate, req.EndDate)
	}

	balance := &LeaveBalance{StaffID: staffID, Year: year}
	for _, lt := range []models.LeaveType{models.LeaveAnnual, models.LeaveSick, models.LeaveFamilyResponsibility} {
		entitled := leaveEntitlements[lt]
		balance.Types = append(balance.Types, LeaveTypeBalance{
			Type:      lt,
			Entitled:  entitled,
			Used:      used[lt],
			Remaining: entitled - used[lt],
		})
	}

	return balance, nil
}

// weekdaysIn counts Monday-Friday days in the inclusive range.
func weekdaysIn(start, end time.Time) int {
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if clock.IsWeekday(day) {
			count++
		}
	}
	return count
}

var _ LeaveService = (*leaveService)(nil)
