package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/models"
)

type leaveFixture struct {
	svc           LeaveService
	leaves        *fakeLeaveRepo
	schedules     *fakeScheduleRepo
	staff         *fakeStaffRepo
	events        *fakeEventRepo
	notifications *fakeNotificationRepo
	requester     *models.StaffMember
	manager       *models.StaffMember
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()

	f := &leaveFixture{
		leaves:        &fakeLeaveRepo{},
		schedules:     &fakeScheduleRepo{},
		staff:         &fakeStaffRepo{},
		events:        &fakeEventRepo{},
		notifications: &fakeNotificationRepo{},
	}
	f.requester = member("Amahle N.", models.RoleDentalAssistant)
	f.manager = member("The Boss", models.RolePracticeManager)
	f.staff.members = []*models.StaffMember{f.requester, f.manager}

	logger := zap.NewNop()
	notifySvc := NewNotificationService(f.notifications, logger)
	auditSvc := NewAuditService(&fakeAuditRepo{}, logger)
	f.svc = NewLeaveService(
		f.leaves, f.schedules, f.staff, f.events,
		notifySvc, auditSvc, fakeTxManager{}, logger)
	return f
}

func (f *leaveFixture) managerCtx() context.Context {
	return models.WithActor(context.Background(), models.Actor{ID: f.manager.ID, Role: f.manager.Role})
}

func (f *leaveFixture) submit(t *testing.T, from, to time.Time) *models.LeaveRequest {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), SubmitLeaveInput{
		StaffID:   f.requester.ID,
		Type:      models.LeaveAnnual,
		StartDate: from,
		EndDate:   to,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	return req
}

func (f *leaveFixture) scheduleOn(day time.Time) *models.ScheduleEntry {
	entry := &models.ScheduleEntry{
		ID:        uuid.New(),
		StaffID:   f.requester.ID,
		Date:      day,
		Shift:     models.ShiftFullDay,
		CreatedBy: f.manager.ID,
	}
	f.schedules.entries = append(f.schedules.entries, entry)
	return entry
}

func TestLeaveSubmit_RejectsInvalidType(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitLeaveInput{
		StaffID:   f.requester.ID,
		Type:      "Gardening",
		StartDate: testMonday,
		EndDate:   testMonday,
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLeaveSubmit_RejectsReversedRange(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitLeaveInput{
		StaffID:   f.requester.ID,
		Type:      models.LeaveAnnual,
		StartDate: testMonday.AddDate(0, 0, 3),
		EndDate:   testMonday,
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLeaveSubmit_NotifiesManagers(t *testing.T) {
	f := newLeaveFixture(t)

	f.submit(t, testMonday, testMonday.AddDate(0, 0, 2))

	managerNotes, err := f.notifications.ListByUser(context.Background(), f.manager.ID, false)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(managerNotes) != 1 {
		t.Fatalf("expected 1 manager notification, got %d", len(managerNotes))
	}
	if managerNotes[0].Category != models.NotifyLeaveRequest {
		t.Errorf("expected category %s, got %s", models.NotifyLeaveRequest, managerNotes[0].Category)
	}

	requesterNotes, _ := f.notifications.ListByUser(context.Background(), f.requester.ID, false)
	if len(requesterNotes) != 0 {
		t.Errorf("requester should not be notified of their own request, got %d", len(requesterNotes))
	}
}

func TestLeaveApprove_CascadesScheduleRemoval(t *testing.T) {
	f := newLeaveFixture(t)
	req := f.submit(t, testMonday, testMonday.AddDate(0, 0, 2)) // Mon-Wed

	inside1 := f.scheduleOn(testMonday)
	inside2 := f.scheduleOn(testMonday.AddDate(0, 0, 1))
	outside := f.scheduleOn(testMonday.AddDate(0, 0, 4)) // Friday

	decision, err := f.svc.Approve(f.managerCtx(), req.ID, "enjoy")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if decision.RemovedEntries != 2 {
		t.Errorf("expected 2 removed entries, got %d", decision.RemovedEntries)
	}
	if decision.Request.Status != models.LeaveApproved {
		t.Errorf("expected status Approved, got %s", decision.Request.Status)
	}

	remaining := f.schedules.forStaff(f.requester.ID)
	if len(remaining) != 1 || remaining[0].ID != outside.ID {
		t.Errorf("expected only the Friday entry to survive, got %d entries", len(remaining))
	}
	for _, gone := range []*models.ScheduleEntry{inside1, inside2} {
		for _, e := range remaining {
			if e.ID == gone.ID {
				t.Error("entry inside leave range survived approval")
			}
		}
	}

	// Approval records an event and notifies the requester.
	if len(f.events.events) != 1 || f.events.events[0].Type != models.EventLeave {
		t.Errorf("expected one leave event, got %+v", f.events.events)
	}
	notes, _ := f.notifications.ListByUser(context.Background(), f.requester.ID, false)
	if len(notes) != 1 || notes[0].Category != models.NotifyLeaveResponse {
		t.Errorf("expected one leave response notification, got %d", len(notes))
	}
}

func TestLeaveReject_NoCascade(t *testing.T) {
	f := newLeaveFixture(t)
	req := f.submit(t, testMonday, testMonday.AddDate(0, 0, 2))
	f.scheduleOn(testMonday)

	decision, err := f.svc.Reject(f.managerCtx(), req.ID, "short staffed")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	if decision.RemovedEntries != 0 {
		t.Errorf("expected no removed entries on rejection, got %d", decision.RemovedEntries)
	}
	if decision.Request.Status != models.LeaveRejected {
		t.Errorf("expected status Rejected, got %s", decision.Request.Status)
	}
	if len(f.schedules.forStaff(f.requester.ID)) != 1 {
		t.Error("rejection must leave the schedule untouched")
	}
}

func TestLeaveDecide_SecondDecisionFails(t *testing.T) {
	f := newLeaveFixture(t)
	req := f.submit(t, testMonday, testMonday)

	if _, err := f.svc.Approve(f.managerCtx(), req.ID, ""); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if _, err := f.svc.Reject(f.managerCtx(), req.ID, ""); !errors.Is(err, apperrors.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := f.svc.Approve(f.managerCtx(), req.ID, ""); !errors.Is(err, apperrors.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided on re-approve, got %v", err)
	}
}

func TestLeaveDecide_RequiresActor(t *testing.T) {
	f := newLeaveFixture(t)
	req := f.submit(t, testMonday, testMonday)

	if _, err := f.svc.Approve(context.Background(), req.ID, ""); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation without actor, got %v", err)
	}
}

func TestLeaveBalance_CountsWeekdaysOnly(t *testing.T) {
	f := newLeaveFixture(t)

	// Friday through Monday: only Friday and Monday are working days.
	friday := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	req := f.submit(t, friday, friday.AddDate(0, 0, 3))
	if _, err := f.svc.Approve(f.managerCtx(), req.ID, ""); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	balance, err := f.svc.Balance(context.Background(), f.requester.ID, 2025)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}

	for _, line := range balance.Types {
		switch line.Type {
		case models.LeaveAnnual:
			if line.Used != 2 {
				t.Errorf("expected 2 annual days used, got %d", line.Used)
			}
			if line.Remaining != 19 {
				t.Errorf("expected 19 annual days remaining, got %d", line.Remaining)
			}
		case models.LeaveSick:
			if line.Used != 0 || line.Remaining != 10 {
				t.Errorf("expected untouched sick balance, got used=%d remaining=%d", line.Used, line.Remaining)
			}
		}
	}
}

func TestLeaveBalance_IgnoresPendingAndRejected(t *testing.T) {
	f := newLeaveFixture(t)

	f.submit(t, testMonday, testMonday.AddDate(0, 0, 4)) // stays pending
	rejected := f.submit(t, testMonday.AddDate(0, 0, 7), testMonday.AddDate(0, 0, 8))
	if _, err := f.svc.Reject(f.managerCtx(), rejected.ID, ""); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	balance, err := f.svc.Balance(context.Background(), f.requester.ID, 2025)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	for _, line := range balance.Types {
		if line.Used != 0 {
			t.Errorf("expected no %s days used, got %d", line.Type, line.Used)
		}
	}
}
