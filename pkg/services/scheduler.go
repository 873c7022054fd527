package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/config"
	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// GenerateResult reports what one generation run did.
type GenerateResult struct {
	WeekStart       time.Time `json:"week_start"`
	Created         int       `json:"created"`
	SkippedLeave    int       `json:"skipped_leave"`
	SkippedExisting int       `json:"skipped_existing"`
}

// SchedulerService generates the weekly staff and room schedule.
//
// The rules, in order: dentists work weekdays in their fixed rooms,
// dental assistants rotate through the room pool, everyone else works
// weekdays without a room, and Saturday runs a morning shift with one
// representative per group chosen by week number. Staff on approved
// leave are never scheduled, and existing entries are left untouched,
// which makes a rerun for the same week a no-op.
type SchedulerService interface {
	// GenerateWeek builds the schedule for the week containing anyDay.
	// A zero anyDay means the current week.
	GenerateWeek(ctx context.Context, anyDay time.Time) (*GenerateResult, error)
}

type schedulerService struct {
	schedules repositories.ScheduleRepository
	leaves    repositories.LeaveRepository
	staff     repositories.StaffRepository
	cfg       config.SchedulingConfig
	txm       database.TxManager
	clk       clock.Clock
	logger    *zap.Logger
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	schedules repositories.ScheduleRepository,
	leaves repositories.LeaveRepository,
	staff repositories.StaffRepository,
	cfg config.SchedulingConfig,
	txm database.TxManager,
	clk clock.Clock,
	logger *zap.Logger,
) SchedulerService {
	return &schedulerService{
		schedules: schedules,
		leaves:    leaves,
		staff:     staff,
		cfg:       cfg,
		txm:       txm,
		clk:       clk,
		logger:    logger,
	}
}

// weekState carries the per-run working set: the roster split by
// scheduling group plus lookups for existing entries and approved
// leave across the week.
type weekState struct {
	monday     time.Time
	saturday   time.Time
	dentists   []*models.StaffMember
	assistants []*models.StaffMember
	others     []*models.StaffMember
	existing   map[string]bool // staffID|date
	leaves     map[uuid.UUID][]*models.LeaveRequest
	createdBy  uuid.UUID
	result     *GenerateResult
}

func existingKey(staffID uuid.UUID, day time.Time) string {
	return staffID.String() + "|" + day.Format("2006-01-02")
}

func (w *weekState) hasEntry(staffID uuid.UUID, day time.Time) bool {
	return w.existing[existingKey(staffID, day)]
}

func (w *weekState) onLeave(staffID uuid.UUID, day time.Time) bool {
	for _, req := range w.leaves[staffID] {
		if req.Covers(day) {
			return true
		}
	}
	return false
}

func (s *schedulerService) GenerateWeek(ctx context.Context, anyDay time.Time) (*GenerateResult, error) {
	actor, ok := models.GetActor(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated actor: %w", apperrors.ErrValidation)
	}

	if anyDay.IsZero() {
		anyDay = s.clk.Now()
	}
	monday := clock.MondayOf(anyDay)
	saturday := monday.AddDate(0, 0, 5)

	var result *GenerateResult
	err := s.txm.InTx(ctx, func(ctx context.Context) error {
		state, err := s.loadWeek(ctx, monday, saturday, actor.ID)
		if err != nil {
			return err
		}

		for dayIdx := 0; dayIdx < 5; dayIdx++ {
			day := monday.AddDate(0, 0, dayIdx)
			if err := s.generateWeekday(ctx, state, day, dayIdx); err != nil {
				return err
			}
		}

		if err := s.generateSaturday(ctx, state); err != nil {
			return err
		}

		result = state.result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("weekly schedule generated",
		zap.Time("week_start", monday),
		zap.Int("created", result.Created),
		zap.Int("skipped_leave", result.SkippedLeave),
		zap.Int("skipped_existing", result.SkippedExisting))

	return result, nil
}

func (s *schedulerService) loadWeek(ctx context.Context, monday, saturday time.Time, createdBy uuid.UUID) (*weekState, error) {
	state := &weekState{
		monday:    monday,
		saturday:  saturday,
		existing:  make(map[string]bool),
		leaves:    make(map[uuid.UUID][]*models.LeaveRequest),
		createdBy: createdBy,
		result:    &GenerateResult{WeekStart: monday},
	}

	roster, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, member := range roster {
		profile, ok := member.Role.Profile()
		if !ok || !profile.Schedulable {
			continue
		}
		switch profile.Group {
		case models.GroupDentist:
			state.dentists = append(state.dentists, member)
		case models.GroupAssistant:
			state.assistants = append(state.assistants, member)
		default:
			state.others = append(state.others, member)
		}
	}

	entries, err := s.schedules.ListBetween(ctx, monday, saturday)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		state.existing[existingKey(entry.StaffID, entry.Date)] = true
	}

	approved, err := s.leaves.ListApprovedOverlapping(ctx, monday, saturday)
	if err != nil {
		return nil, err
	}
	for _, req := range approved {
		state.leaves[req.StaffID] = append(state.leaves[req.StaffID], req)
	}

	return state, nil
}

func (s *schedulerService) generateWeekday(ctx context.Context, state *weekState, day time.Time, dayIdx int) error {
	// Dentists hold their fixed rooms every weekday.
	for _, dentist := range state.dentists {
		room := s.fixedRoom(dentist)
		if err := s.place(ctx, state, dentist, day, models.ShiftFullDay, room, s.cfg.WeekdayStart, s.cfg.WeekdayEnd); err != nil {
			return err
		}
	}

	// Assistants rotate rooms. The rotation index is the assistant's
	// position among those available that day, offset by the weekday,
	// so the pairing shifts every day and adjusts when someone is out.
	available := state.assistants[:0:0]
	for _, assistant := range state.assistants {
		if state.onLeave(assistant.ID, day) {
			state.result.SkippedLeave++
			continue
		}
		available = append(available, assistant)
	}
	for i, assistant := range available {
		room := s.cfg.Rooms[(dayIdx+i)%len(s.cfg.Rooms)]
		if err := s.placeScheduled(ctx, state, assistant, day, models.ShiftFullDay, &room, s.cfg.WeekdayStart, s.cfg.WeekdayEnd); err != nil {
			return err
		}
	}

	// Everyone else works the weekday without a room assignment.
	for _, member := range state.others {
		if err := s.place(ctx, state, member, day, models.ShiftFullDay, nil, s.cfg.WeekdayStart, s.cfg.WeekdayEnd); err != nil {
			return err
		}
	}

	return nil
}

// generateSaturday staffs the Saturday morning shift with one
// representative per group, rotating by ISO week number so the duty
// spreads fairly across the year.
func (s *schedulerService) generateSaturday(ctx context.Context, state *weekState) error {
	day := state.saturday
	week := clock.ISOWeek(day)

	var dentistRoom *string
	dentistChosen := false
	if dentist := pickAvailable(state, state.dentists, day, week); dentist != nil {
		dentistRoom = s.fixedRoom(dentist)
		dentistChosen = true
		if err := s.placeScheduled(ctx, state, dentist, day, models.ShiftMorning, dentistRoom, s.cfg.WeekdayStart, s.cfg.SaturdayEnd); err != nil {
			return err
		}
	}

	if assistant := pickAvailable(state, state.assistants, day, week); assistant != nil {
		// The assistant works alongside the Saturday dentist, so they
		// share a room. With no dentist on, fall back to the rotation.
		room := dentistRoom
		if !dentistChosen {
			r := s.cfg.Rooms[week%len(s.cfg.Rooms)]
			room = &r
		}
		if err := s.placeScheduled(ctx, state, assistant, day, models.ShiftMorning, room, s.cfg.WeekdayStart, s.cfg.SaturdayEnd); err != nil {
			return err
		}
	}

	if member := pickAvailable(state, state.others, day, week); member != nil {
		if err := s.placeScheduled(ctx, state, member, day, models.ShiftMorning, nil, s.cfg.WeekdayStart, s.cfg.SaturdayEnd); err != nil {
			return err
		}
	}

	return nil
}

// pickAvailable selects the week's representative from the group
// members not on leave. Members on leave count as leave skips.
func pickAvailable(state *weekState, group []*models.StaffMember, day time.Time, week int) *models.StaffMember {
	available := group[:0:0]
	for _, member := range group {
		if state.onLeave(member.ID, day) {
			state.result.SkippedLeave++
			continue
		}
		available = append(available, member)
	}
	if len(available) == 0 {
		return nil
	}
	return available[week%len(available)]
}

// place creates one entry, skipping staff on leave or already scheduled.
func (s *schedulerService) place(ctx context.Context, state *weekState, member *models.StaffMember, day time.Time, shift models.ShiftType, room *string, start, end string) error {
	if state.onLeave(member.ID, day) {
		state.result.SkippedLeave++
		return nil
	}
	return s.placeScheduled(ctx, state, member, day, shift, room, start, end)
}

// placeScheduled creates one entry for a member already known to be
// off leave, skipping only existing entries.
func (s *schedulerService) placeScheduled(ctx context.Context, state *weekState, member *models.StaffMember, day time.Time, shift models.ShiftType, room *string, start, end string) error {
	if state.hasEntry(member.ID, day) {
		state.result.SkippedExisting++
		return nil
	}

	entry := &models.ScheduleEntry{
		StaffID:   member.ID,
		Date:      day,
		Shift:     shift,
		Room:      room,
		StartTime: start,
		EndTime:   end,
		CreatedBy: state.createdBy,
	}
	if err := s.schedules.Create(ctx, entry); err != nil {
		return err
	}

	state.existing[existingKey(member.ID, day)] = true
	state.result.Created++
	return nil
}

// fixedRoom resolves a dentist's room by matching configured name
// fragments against the full name. Keys are checked in sorted order so
// the outcome never depends on map iteration. No match means no room.
func (s *schedulerService) fixedRoom(dentist *models.StaffMember) *string {
	keys := make([]string, 0, len(s.cfg.DentistRooms))
	for key := range s.cfg.DentistRooms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	name := strings.ToLower(dentist.FullName)
	for _, key := range keys {
		if strings.Contains(name, strings.ToLower(key)) {
			room := s.cfg.DentistRooms[key]
			return &room
		}
	}
	return nil
}

var _ SchedulerService = (*schedulerService)(nil)
