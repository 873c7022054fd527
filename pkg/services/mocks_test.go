package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// In-memory fakes for the repository interfaces. They enforce the same
// uniqueness rules as the schema so service tests exercise the real
// conflict paths.

type fakeTxManager struct{}

func (fakeTxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStaffRepo struct {
	members []*models.StaffMember
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *models.StaffMember) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	for _, m := range r.members {
		if m.Username == staff.Username {
			return fmt.Errorf("username taken: %w", apperrors.ErrConflict)
		}
	}
	r.members = append(r.members, staff)
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*models.StaffMember, error) {
	for _, m := range r.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("staff member: %w", apperrors.ErrNotFound)
}

func (r *fakeStaffRepo) GetByUsername(_ context.Context, username string) (*models.StaffMember, error) {
	for _, m := range r.members {
		if m.Username == username {
			return m, nil
		}
	}
	return nil, fmt.Errorf("staff member: %w", apperrors.ErrNotFound)
}

func (r *fakeStaffRepo) List(_ context.Context) ([]*models.StaffMember, error) {
	return r.members, nil
}

func (r *fakeStaffRepo) ListActive(_ context.Context) ([]*models.StaffMember, error) {
	var active []*models.StaffMember
	for _, m := range r.members {
		if m.IsActive() {
			active = append(active, m)
		}
	}
	return active, nil
}

func (r *fakeStaffRepo) Update(_ context.Context, id uuid.UUID, role models.Role, status string) error {
	for _, m := range r.members {
		if m.ID == id {
			m.Role, m.Status = role, status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeScheduleRepo struct {
	entries []*models.ScheduleEntry
}

func (r *fakeScheduleRepo) Create(_ context.Context, entry *models.ScheduleEntry) error {
	for _, e := range r.entries {
		if e.StaffID == entry.StaffID && e.Date.Equal(entry.Date) {
			return fmt.Errorf("already scheduled: %w", apperrors.ErrConflict)
		}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ScheduleEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("schedule entry: %w", apperrors.ErrNotFound)
}

func (r *fakeScheduleRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeScheduleRepo) DeleteForStaffBetween(_ context.Context, staffID uuid.UUID, from, to time.Time) (int, error) {
	var kept []*models.ScheduleEntry
	removed := 0
	for _, e := range r.entries {
		if e.StaffID == staffID && !e.Date.Before(from) && !e.Date.After(to) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func (r *fakeScheduleRepo) DeleteBetween(_ context.Context, from, to time.Time) (int, error) {
	var kept []*models.ScheduleEntry
	removed := 0
	for _, e := range r.entries {
		if !e.Date.Before(from) && !e.Date.After(to) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func (r *fakeScheduleRepo) ListBetween(_ context.Context, from, to time.Time) ([]*models.ScheduleEntry, error) {
	var out []*models.ScheduleEntry
	for _, e := range r.entries {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListForDate(_ context.Context, date time.Time) ([]*models.ScheduleEntry, error) {
	var out []*models.ScheduleEntry
	for _, e := range r.entries {
		if e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) forStaff(staffID uuid.UUID) []*models.ScheduleEntry {
	var out []*models.ScheduleEntry
	for _, e := range r.entries {
		if e.StaffID == staffID {
			out = append(out, e)
		}
	}
	return out
}

type fakeLeaveRepo struct {
	requests []*models.LeaveRequest
}

func (r *fakeLeaveRepo) Create(_ context.Context, req *models.LeaveRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = models.LeavePending
	r.requests = append(r.requests, req)
	return nil
}

func (r *fakeLeaveRepo) GetByID(_ context.Context, id uuid.UUID) (*models.LeaveRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, fmt.Errorf("leave request: %w", apperrors.ErrNotFound)
}

func (r *fakeLeaveRepo) ListByStatus(_ context.Context, status models.LeaveStatus) ([]*models.LeaveRequest, error) {
	var out []*models.LeaveRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListByStaff(_ context.Context, staffID uuid.UUID) ([]*models.LeaveRequest, error) {
	var out []*models.LeaveRequest
	for _, req := range r.requests {
		if req.StaffID == staffID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) Decide(ctx context.Context, id uuid.UUID, status models.LeaveStatus, decidedBy uuid.UUID, notes string) error {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != models.LeavePending {
		return fmt.Errorf("leave request %s: %w", id, apperrors.ErrAlreadyDecided)
	}
	now := time.Now()
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecisionNotes = notes
	req.DecidedAt = &now
	return nil
}

func (r *fakeLeaveRepo) ListApprovedOverlapping(_ context.Context, from, to time.Time) ([]*models.LeaveRequest, error) {
	var out []*models.LeaveRequest
	for _, req := range r.requests {
		if req.Status == models.LeaveApproved && !req.StartDate.After(to) && !req.EndDate.Before(from) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListApprovedByStaffInYear(_ context.Context, staffID uuid.UUID, year int) ([]*models.LeaveRequest, error) {
	var out []*models.LeaveRequest
	for _, req := range r.requests {
		if req.StaffID == staffID && req.Status == models.LeaveApproved && req.StartDate.Year() == year {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeKPIRepo struct {
	defs   []*models.KPIDefinition
	scores []*models.KPIScore
}

func (r *fakeKPIRepo) ListActiveDefinitions(_ context.Context, role models.Role) ([]*models.KPIDefinition, error) {
	var out []*models.KPIDefinition
	for _, def := range r.defs {
		if def.Role == role && def.Active {
			out = append(out, def)
		}
	}
	return out, nil
}

func (r *fakeKPIRepo) ListCategories(_ context.Context, role models.Role) ([]*models.KPICategory, error) {
	return nil, nil
}

func (r *fakeKPIRepo) ListScores(_ context.Context, staffID uuid.UUID, month, year int) ([]*models.KPIScore, error) {
	var out []*models.KPIScore
	for _, score := range r.scores {
		if score.StaffID == staffID && score.Month == month && score.Year == year {
			out = append(out, score)
		}
	}
	return out, nil
}

func (r *fakeKPIRepo) DeleteScores(_ context.Context, staffID uuid.UUID, month, year int) (int, error) {
	var kept []*models.KPIScore
	removed := 0
	for _, score := range r.scores {
		if score.StaffID == staffID && score.Month == month && score.Year == year {
			removed++
			continue
		}
		kept = append(kept, score)
	}
	r.scores = kept
	return removed, nil
}

func (r *fakeKPIRepo) InsertScores(_ context.Context, scores []*models.KPIScore) error {
	for _, score := range scores {
		if score.ID == uuid.Nil {
			score.ID = uuid.New()
		}
		score.ScoredAt = time.Now()
		r.scores = append(r.scores, score)
	}
	return nil
}

type fakeWarningRepo struct {
	warnings []*models.Warning
}

func (r *fakeWarningRepo) Create(_ context.Context, warning *models.Warning) error {
	if warning.ID == uuid.Nil {
		warning.ID = uuid.New()
	}
	warning.IssuedAt = time.Now()
	r.warnings = append(r.warnings, warning)
	return nil
}

func (r *fakeWarningRepo) ListByStaff(_ context.Context, staffID uuid.UUID) ([]*models.Warning, error) {
	var out []*models.Warning
	for _, w := range r.warnings {
		if w.StaffID == staffID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWarningRepo) List(_ context.Context) ([]*models.Warning, error) {
	return r.warnings, nil
}

type fakeEventRepo struct {
	events []*models.PerformanceEvent
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.PerformanceEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) ListByStaff(_ context.Context, staffID uuid.UUID, limit int) ([]*models.PerformanceEvent, error) {
	var out []*models.PerformanceEvent
	for _, e := range r.events {
		if e.StaffID == staffID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeAuditRepo struct {
	entries []*models.AuditLogEntry
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *models.AuditLogEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, limit int) ([]*models.AuditLogEntry, error) {
	return r.entries, nil
}

var (
	_ repositories.StaffRepository        = (*fakeStaffRepo)(nil)
	_ repositories.ScheduleRepository     = (*fakeScheduleRepo)(nil)
	_ repositories.LeaveRepository        = (*fakeLeaveRepo)(nil)
	_ repositories.KPIRepository          = (*fakeKPIRepo)(nil)
	_ repositories.WarningRepository      = (*fakeWarningRepo)(nil)
	_ repositories.EventRepository        = (*fakeEventRepo)(nil)
	_ repositories.NotificationRepository = (*fakeNotificationRepo)(nil)
	_ repositories.AuditRepository        = (*fakeAuditRepo)(nil)
)
