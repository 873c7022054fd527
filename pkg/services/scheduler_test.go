package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/config"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// The test week: Monday 2025-03-10 through Saturday 2025-03-15,
// ISO week 11.
var (
	testMonday   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	testSaturday = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
)

func testSchedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		Rooms: []string{"Black Room", "Red Room", "Pink Room"},
		DentistRooms: map[string]string{
			"Dr. Buleni":     "Black Room",
			"Dr. Ramakuwela": "Red Room",
			"Zwane":          "Pink Room",
		},
		WeekdayStart: "08:00",
		WeekdayEnd:   "17:00",
		SaturdayEnd:  "13:00",
	}
}

type schedulerFixture struct {
	svc        SchedulerService
	schedules  *fakeScheduleRepo
	leaves     *fakeLeaveRepo
	staff      *fakeStaffRepo
	dentists   []*models.StaffMember
	assistants []*models.StaffMember
	others     []*models.StaffMember
	manager    *models.StaffMember
}

func member(name string, role models.Role) *models.StaffMember {
	return &models.StaffMember{
		ID:       uuid.New(),
		Username: name,
		FullName: name,
		Role:     role,
		Status:   models.StatusActive,
	}
}

func newSchedulerFixture(t *testing.T, roster ...*models.StaffMember) *schedulerFixture {
	t.Helper()

	f := &schedulerFixture{
		schedules: &fakeScheduleRepo{},
		leaves:    &fakeLeaveRepo{},
		staff:     &fakeStaffRepo{},
	}

	if roster == nil {
		roster = []*models.StaffMember{
			member("Dr. Buleni", models.RoleDentist),
			member("Dr. Ramakuwela", models.RoleDentist),
			member("Dr. Zwane", models.RoleDentist),
			member("Amahle N.", models.RoleDentalAssistant),
			member("Bongi M.", models.RoleDentalAssistant),
			member("Clara D.", models.RoleDentalAssistant),
			member("Reception Desk", models.RoleReceptionist),
			member("Cleaning Crew", models.RoleCleaner),
			member("The Boss", models.RolePracticeManager),
			member("IT Admin", models.RoleSuperAdmin),
		}
	}
	for _, m := range roster {
		f.staff.members = append(f.staff.members, m)
		switch m.Role {
		case models.RoleDentist:
			f.dentists = append(f.dentists, m)
		case models.RoleDentalAssistant:
			f.assistants = append(f.assistants, m)
		case models.RolePracticeManager:
			f.manager = m
			f.others = append(f.others, m)
		case models.RoleReceptionist, models.RoleCleaner:
			f.others = append(f.others, m)
		}
	}
	if f.manager == nil {
		f.manager = member("The Boss", models.RolePracticeManager)
		f.staff.members = append(f.staff.members, f.manager)
		f.others = append(f.others, f.manager)
	}

	f.svc = NewSchedulerService(
		f.schedules, f.leaves, f.staff,
		testSchedulingConfig(), fakeTxManager{}, clock.Fixed(testMonday), zap.NewNop())
	return f
}

func (f *schedulerFixture) actorCtx() context.Context {
	return models.WithActor(context.Background(), models.Actor{ID: f.manager.ID, Role: f.manager.Role})
}

func (f *schedulerFixture) approveLeave(staffID uuid.UUID, from, to time.Time) {
	f.leaves.requests = append(f.leaves.requests, &models.LeaveRequest{
		ID:        uuid.New(),
		StaffID:   staffID,
		Type:      models.LeaveAnnual,
		StartDate: from,
		EndDate:   to,
		Status:    models.LeaveApproved,
	})
}

func (f *schedulerFixture) entryFor(t *testing.T, staffID uuid.UUID, day time.Time) *models.ScheduleEntry {
	t.Helper()
	for _, e := range f.schedules.entries {
		if e.StaffID == staffID && e.Date.Equal(day) {
			return e
		}
	}
	return nil
}

func TestGenerateWeek_FullRoster(t *testing.T) {
	f := newSchedulerFixture(t)

	result, err := f.svc.GenerateWeek(f.actorCtx(), testMonday)
	if err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}

	// 9 schedulable staff each weekday, one per group on Saturday.
	if want := 9*5 + 3; result.Created != want {
		t.Errorf("expected %d created entries, got %d", want, result.Created)
	}
	if result.SkippedLeave != 0 || result.SkippedExisting != 0 {
		t.Errorf("expected no skips, got leave=%d existing=%d", result.SkippedLeave, result.SkippedExisting)
	}
	if !result.WeekStart.Equal(testMonday) {
		t.Errorf("expected week start %v, got %v", testMonday, result.WeekStart)
	}

	// Dentists keep their fixed rooms all week.
	for day := 0; day < 5; day++ {
		date := testMonday.AddDate(0, 0, day)
		entry := f.entryFor(t, f.dentists[0].ID, date)
		if entry == nil {
			t.Fatalf("no entry for dentist on %v", date)
		}
		if entry.Room == nil || *entry.Room != "Black Room" {
			t.Errorf("day %d: expected Black Room for Dr. Buleni, got %v", day, entry.Room)
		}
		if entry.Shift != models.ShiftFullDay || entry.StartTime != "08:00" || entry.EndTime != "17:00" {
			t.Errorf("day %d: unexpected dentist shift %s %s-%s", day, entry.Shift, entry.StartTime, entry.EndTime)
		}
	}

	// Assistants rotate: on day d assistant i takes room (d+i) mod 3.
	rooms := testSchedulingConfig().Rooms
	for day := 0; day < 5; day++ {
		date := testMonday.AddDate(0, 0, day)
		for i, assistant := range f.assistants {
			entry := f.entryFor(t, assistant.ID, date)
			if entry == nil {
				t.Fatalf("no entry for assistant %d on %v", i, date)
			}
			want := rooms[(day+i)%3]
			if entry.Room == nil || *entry.Room != want {
				t.Errorf("day %d assistant %d: expected %s, got %v", day, i, want, entry.Room)
			}
		}
	}

	// Receptionist, cleaner and practice manager get no room.
	for _, m := range f.others {
		entry := f.entryFor(t, m.ID, testMonday)
		if entry == nil {
			t.Fatalf("no entry for %s on Monday", m.FullName)
		}
		if entry.Room != nil {
			t.Errorf("expected no room for %s, got %s", m.FullName, *entry.Room)
		}
	}

	// Super Admin is never scheduled.
	for _, e := range f.schedules.entries {
		for _, m := range f.staff.members {
			if m.Role == models.RoleSuperAdmin && e.StaffID == m.ID {
				t.Error("super admin was scheduled")
			}
		}
	}
}

func TestGenerateWeek_RerunIsNoOp(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := f.actorCtx()

	first, err := f.svc.GenerateWeek(ctx, testMonday)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	second, err := f.svc.GenerateWeek(ctx, testMonday)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.Created != 0 {
		t.Errorf("expected rerun to create nothing, created %d", second.Created)
	}
	if second.SkippedExisting != first.Created {
		t.Errorf("expected %d existing skips, got %d", first.Created, second.SkippedExisting)
	}
	if len(f.schedules.entries) != first.Created {
		t.Errorf("expected %d total entries after rerun, got %d", first.Created, len(f.schedules.entries))
	}
}

func TestGenerateWeek_NormalizesToMonday(t *testing.T) {
	f := newSchedulerFixture(t)

	// Wednesday of the same week.
	result, err := f.svc.GenerateWeek(f.actorCtx(), testMonday.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}
	if !result.WeekStart.Equal(testMonday) {
		t.Errorf("expected week start %v, got %v", testMonday, result.WeekStart)
	}
}

func TestGenerateWeek_ZeroDateUsesClock(t *testing.T) {
	f := newSchedulerFixture(t)

	// The fixture clock is pinned to testMonday.
	result, err := f.svc.GenerateWeek(f.actorCtx(), time.Time{})
	if err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}
	if !result.WeekStart.Equal(testMonday) {
		t.Errorf("expected week start %v from the clock, got %v", testMonday, result.WeekStart)
	}
}

func TestGenerateWeek_LeaveExcludesStaff(t *testing.T) {
	f := newSchedulerFixture(t)
	dentist := f.dentists[0]
	f.approveLeave(dentist.ID, testMonday, testMonday.AddDate(0, 0, 4))

	result, err := f.svc.GenerateWeek(f.actorCtx(), testMonday)
	if err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}

	if result.SkippedLeave != 5 {
		t.Errorf("expected 5 leave skips, got %d", result.SkippedLeave)
	}
	for day := 0; day < 5; day++ {
		if f.entryFor(t, dentist.ID, testMonday.AddDate(0, 0, day)) != nil {
			t.Errorf("dentist on leave was scheduled on day %d", day)
		}
	}
	// Leave ended Friday, so Saturday selection may still include them.
	if result.Created != 9*5-5+3 {
		t.Errorf("expected %d created, got %d", 9*5-5+3, result.Created)
	}
}

func TestGenerateWeek_AssistantRotationAdjustsForLeave(t *testing.T) {
	f := newSchedulerFixture(t)
	// First assistant out on Monday: the remaining two close ranks and
	// take the rotation from position zero.
	f.approveLeave(f.assistants[0].ID, testMonday, testMonday)

	if _, err := f.svc.GenerateWeek(f.actorCtx(), testMonday); err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}

	second := f.entryFor(t, f.assistants[1].ID, testMonday)
	if second == nil || second.Room == nil || *second.Room != "Black Room" {
		t.Errorf("expected second assistant in Black Room on Monday, got %v", second)
	}
	third := f.entryFor(t, f.assistants[2].ID, testMonday)
	if third == nil || third.Room == nil || *third.Room != "Red Room" {
		t.Errorf("expected third assistant in Red Room on Monday, got %v", third)
	}
}

func TestGenerateWeek_SaturdayRotation(t *testing.T) {
	f := newSchedulerFixture(t)

	if _, err := f.svc.GenerateWeek(f.actorCtx(), testMonday); err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}

	// ISO week 11 mod 3 picks the third member of each group.
	dentist := f.entryFor(t, f.dentists[2].ID, testSaturday)
	if dentist == nil {
		t.Fatal("expected third dentist on Saturday")
	}
	if dentist.Shift != models.ShiftMorning || dentist.EndTime != "13:00" {
		t.Errorf("unexpected Saturday dentist shift %s ending %s", dentist.Shift, dentist.EndTime)
	}

	assistant := f.entryFor(t, f.assistants[2].ID, testSaturday)
	if assistant == nil {
		t.Fatal("expected third assistant on Saturday")
	}
	// The assistant shares the Saturday dentist's room.
	if assistant.Room == nil || dentist.Room == nil || *assistant.Room != *dentist.Room {
		t.Errorf("expected assistant to share dentist room %v, got %v", dentist.Room, assistant.Room)
	}

	saturdayEntries, _ := f.schedules.ListForDate(context.Background(), testSaturday)
	if len(saturdayEntries) != 3 {
		t.Errorf("expected 3 Saturday entries, got %d", len(saturdayEntries))
	}
}

func TestGenerateWeek_SaturdayAssistantFallbackRoom(t *testing.T) {
	// No dentists at all: the Saturday assistant falls back to the
	// room rotation by week number.
	f := newSchedulerFixture(t,
		member("Amahle N.", models.RoleDentalAssistant),
		member("Bongi M.", models.RoleDentalAssistant),
		member("Clara D.", models.RoleDentalAssistant),
	)

	if _, err := f.svc.GenerateWeek(f.actorCtx(), testMonday); err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}

	assistant := f.entryFor(t, f.assistants[11%3].ID, testSaturday)
	if assistant == nil {
		t.Fatal("expected an assistant on Saturday")
	}
	if assistant.Room == nil || *assistant.Room != "Pink Room" {
		t.Errorf("expected fallback room Pink Room (week 11), got %v", assistant.Room)
	}
}

func TestGenerateWeek_UnmatchedDentistGetsNoRoom(t *testing.T) {
	f := newSchedulerFixture(t,
		member("Dr. Locum", models.RoleDentist),
	)

	if _, err := f.svc.GenerateWeek(f.actorCtx(), testMonday); err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}

	entry := f.entryFor(t, f.dentists[0].ID, testMonday)
	if entry == nil {
		t.Fatal("expected entry for unmatched dentist")
	}
	if entry.Room != nil {
		t.Errorf("expected no room for unmatched dentist, got %s", *entry.Room)
	}
}

func TestGenerateWeek_EmptyRoster(t *testing.T) {
	f := newSchedulerFixture(t, member("The Boss", models.RolePracticeManager))
	// Only the manager: weekdays plus possibly Saturday.
	result, err := f.svc.GenerateWeek(f.actorCtx(), testMonday)
	if err != nil {
		t.Fatalf("GenerateWeek failed: %v", err)
	}
	if result.Created != 6 {
		t.Errorf("expected 6 entries for a one-person roster, got %d", result.Created)
	}
}

func TestGenerateWeek_RequiresActor(t *testing.T) {
	f := newSchedulerFixture(t)

	_, err := f.svc.GenerateWeek(context.Background(), testMonday)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation without actor, got %v", err)
	}
}
