package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/config"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// AddEntryInput holds the fields for a manual schedule entry.
type AddEntryInput struct {
	StaffID   uuid.UUID
	Date      time.Time
	Shift     models.ShiftType
	Room      *string
	StartTime string
	EndTime   string
	Notes     string
}

// DaySchedule is one day of the weekly grid.
type DaySchedule struct {
	Date    time.Time               `json:"date"`
	Entries []*models.ScheduleEntry `json:"entries"`
}

// WeekGrid is the Monday-to-Saturday view of the schedule.
type WeekGrid struct {
	WeekStart time.Time     `json:"week_start"`
	Days      []DaySchedule `json:"days"`
}

// ScheduleService covers manual schedule maintenance alongside the
// generator: single-entry add and delete, clearing a week, and the
// read views.
type ScheduleService interface {
	// AddEntry places one staff member on one day. It refuses a
	// duplicate day (apperrors.ErrConflict) and a day inside approved
	// leave (apperrors.ErrLeaveConflict).
	AddEntry(ctx context.Context, input AddEntryInput) (*models.ScheduleEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearWeek removes every entry in the week containing anyDay and
	// returns how many went.
	ClearWeek(ctx context.Context, anyDay time.Time) (int, error)
	WeekGrid(ctx context.Context, anyDay time.Time) (*WeekGrid, error)
	ListForDate(ctx context.Context, date time.Time) ([]*models.ScheduleEntry, error)
}

type scheduleService struct {
	schedules repositories.ScheduleRepository
	leaves    repositories.LeaveRepository
	staff     repositories.StaffRepository
	cfg       config.SchedulingConfig
	audit     AuditService
	logger    *zap.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(
	schedules repositories.ScheduleRepository,
	leaves repositories.LeaveRepository,
	staff repositories.StaffRepository,
	cfg config.SchedulingConfig,
	audit AuditService,
	logger *zap.Logger,
) ScheduleService {
	return &scheduleService{
		schedules: schedules,
		leaves:    leaves,
		staff:     staff,
		cfg:       cfg,
		audit:     audit,
		logger:    logger,
	}
}

func (s *scheduleService) AddEntry(ctx context.Context, input AddEntryInput) (*models.ScheduleEntry, error) {
	actor, ok := models.GetActor(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated actor: %w", apperrors.ErrValidation)
	}
	if !input.Shift.Valid() {
		return nil, fmt.Errorf("shift type %q: %w", input.Shift, apperrors.ErrValidation)
	}

	member, err := s.staff.GetByID(ctx, input.StaffID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, fmt.Errorf("staff member %s is inactive: %w", member.ID, apperrors.ErrValidation)
	}

	day := clock.DateOf(input.Date)

	onLeave, err := s.onApprovedLeave(ctx, member.ID, day)
	if err != nil {
		return nil, err
	}
	if onLeave {
		return nil, fmt.Errorf("%s on %s: %w", member.FullName, day.Format("2006-01-02"), apperrors.ErrLeaveConflict)
	}

	start, end := input.StartTime, input.EndTime
	if start == "" || end == "" {
		start, end = s.defaultHours(input.Shift, day)
	}

	entry := &models.ScheduleEntry{
		StaffID:   member.ID,
		Date:      day,
		Shift:     input.Shift,
		Room:      input.Room,
		StartTime: start,
		EndTime:   end,
		Notes:     input.Notes,
		CreatedBy: actor.ID,
	}
	if err := s.schedules.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, "schedule.add", "schedule_entry", &entry.ID, map[string]any{
		"staff_id": member.ID.String(),
		"date":     day.Format("2006-01-02"),
		"shift":    input.Shift,
	})

	return entry, nil
}

func (s *scheduleService) onApprovedLeave(ctx context.Context, staffID uuid.UUID, day time.Time) (bool, error) {
	approved, err := s.leaves.ListApprovedOverlapping(ctx, day, day)
	if err != nil {
		return false, err
	}
	for _, req := range approved {
		if req.StaffID == staffID {
			return true, nil
		}
	}
	return false, nil
}

// defaultHours fills in shift times when the caller leaves them blank.
func (s *scheduleService) defaultHours(shift models.ShiftType, day time.Time) (string, string) {
	switch shift {
	case models.ShiftMorning:
		return s.cfg.WeekdayStart, s.cfg.SaturdayEnd
	case models.ShiftAfternoon:
		return s.cfg.SaturdayEnd, s.cfg.WeekdayEnd
	case models.ShiftOff:
		return "", ""
	default:
		if day.Weekday() == time.Saturday {
			return s.cfg.WeekdayStart, s.cfg.SaturdayEnd
		}
		return s.cfg.WeekdayStart, s.cfg.WeekdayEnd
	}
}

func (s *scheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.schedules.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, "schedule.delete", "schedule_entry", &id, map[string]any{
		"staff_id": entry.StaffID.String(),
		"date":     entry.Date.Format("2006-01-02"),
	})
	return nil
}

func (s *scheduleService) ClearWeek(ctx context.Context, anyDay time.Time) (int, error) {
	monday := clock.MondayOf(anyDay)
	saturday := monday.AddDate(0, 0, 5)

	removed, err := s.schedules.DeleteBetween(ctx, monday, saturday)
	if err != nil {
		return 0, err
	}

	s.logger.Info("week cleared",
		zap.Time("week_start", monday),
		zap.Int("removed", removed))
	s.audit.Log(ctx, "schedule.clear_week", "schedule_entry", nil, map[string]any{
		"week_start": monday.Format("2006-01-02"),
		"removed":    removed,
	})

	return removed, nil
}

func (s *scheduleService) WeekGrid(ctx context.Context, anyDay time.Time) (*WeekGrid, error) {
	monday := clock.MondayOf(anyDay)
	saturday := monday.AddDate(0, 0, 5)

	entries, err := s.schedules.ListBetween(ctx, monday, saturday)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*models.ScheduleEntry)
	for _, entry := range entries {
		key := clock.DateOf(entry.Date).Format("2006-01-02")
		byDate[key] = append(byDate[key], entry)
	}

	grid := &WeekGrid{WeekStart: monday}
	for i := 0; i < 6; i++ {
		day := monday.AddDate(0, 0, i)
		grid.Days = append(grid.Days, DaySchedule{
			Date:    day,
			Entries: byDate[day.Format("2006-01-02")],
		})
	}

	return grid, nil
}

func (s *scheduleService) ListForDate(ctx context.Context, date time.Time) ([]*models.ScheduleEntry, error) {
	return s.schedules.ListForDate(ctx, clock.DateOf(date))
}

var _ ScheduleService = (*scheduleService)(nil)
