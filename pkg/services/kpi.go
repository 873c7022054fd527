package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// ScoreInput is one KPI result in a scoring submission.
type ScoreInput struct {
	KPIID uuid.UUID `json:"kpi_id"`
	Score int       `json:"score"`
	Notes string    `json:"notes,omitempty"`
}

// ScoreResult reports the outcome of a scoring submission.
type ScoreResult struct {
	Summary       *models.MonthlySummary `json:"summary"`
	Replaced      int                    `json:"replaced"`
	WarningIssued bool                   `json:"warning_issued"`
}

// MonthResult is one month of a staff member's KPI history.
type MonthResult struct {
	Month   int                    `json:"month"`
	Year    int                    `json:"year"`
	Summary *models.MonthlySummary `json:"summary"`
}

// StaffRanking is one staff member's position in the monthly ranking.
type StaffRanking struct {
	StaffID  uuid.UUID              `json:"staff_id"`
	FullName string                 `json:"full_name"`
	Role     models.Role            `json:"role"`
	Summary  *models.MonthlySummary `json:"summary"`
}

// RankingsResult is the monthly leaderboard. EmployeeOfMonth is nil
// when nobody fully scored at or above the pass threshold.
type RankingsResult struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	Rankings        []*StaffRanking `json:"rankings"`
	EmployeeOfMonth *StaffRanking   `json:"employee_of_month,omitempty"`
}

// KPIService scores staff against their role's KPI set and aggregates
// the results. Scoring a month that already has scores replaces them,
// and a failing month can trigger the automatic warning rule.
type KPIService interface {
	// MonthlySummary aggregates one staff member's month. A nil summary
	// means the month has no score at all, which callers must keep
	// distinct from a summary at zero percent.
	MonthlySummary(ctx context.Context, staffID uuid.UUID, month, year int) (*models.MonthlySummary, error)
	SubmitScores(ctx context.Context, staffID uuid.UUID, month, year int, items []ScoreInput) (*ScoreResult, error)
	History(ctx context.Context, staffID uuid.UUID, months int) ([]*MonthResult, error)
	Rankings(ctx context.Context, month, year int) (*RankingsResult, error)
	// Definitions returns the active KPI set a role is scored against,
	// after applying the role alias.
	Definitions(ctx context.Context, role models.Role) ([]*models.KPIDefinition, error)
}

type kpiService struct {
	kpis          repositories.KPIRepository
	staff         repositories.StaffRepository
	events        repositories.EventRepository
	notifications NotificationService
	warnings      WarningService
	audit         AuditService
	txm           database.TxManager
	clk           clock.Clock
	logger        *zap.Logger
}

// NewKPIService creates a new KPI service.
func NewKPIService(
	kpis repositories.KPIRepository,
	staff repositories.StaffRepository,
	events repositories.EventRepository,
	notifications NotificationService,
	warnings WarningService,
	audit AuditService,
	txm database.TxManager,
	clk clock.Clock,
	logger *zap.Logger,
) KPIService {
	return &kpiService{
		kpis:          kpis,
		staff:         staff,
		events:        events,
		notifications: notifications,
		warnings:      warnings,
		audit:         audit,
		txm:           txm,
		clk:           clk,
		logger:        logger,
	}
}

func (s *kpiService) MonthlySummary(ctx context.Context, staffID uuid.UUID, month, year int) (*models.MonthlySummary, error) {
	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, member, month, year)
}

// summarize computes the aggregate for one month. It returns nil for
// roles that are never scored, for roles with no active definitions,
// and for months with no recorded scores.
func (s *kpiService) summarize(ctx context.Context, member *models.StaffMember, month, year int) (*models.MonthlySummary, error) {
	kpiRole, scorable := member.Role.KPIRole()
	if !scorable {
		return nil, nil
	}

	defs, err := s.kpis.ListActiveDefinitions(ctx, kpiRole)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, nil
	}

	scores, err := s.kpis.ListScores(ctx, member.ID, month, year)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	met := 0
	for _, score := range scores {
		if score.Score == models.KPIMet {
			met++
		}
	}

	return &models.MonthlySummary{
		Met:         met,
		Scored:      len(scores),
		Percentage:  float64(met) / float64(len(scores)) * 100,
		TotalKPIs:   len(defs),
		FullyScored: len(scores) == len(defs),
	}, nil
}

func (s *kpiService) SubmitScores(ctx context.Context, staffID uuid.UUID, month, year int, items []ScoreInput) (*ScoreResult, error) {
	actor, ok := models.GetActor(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated actor: %w", apperrors.ErrValidation)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range: %w", month, apperrors.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no scores submitted: %w", apperrors.ErrValidation)
	}

	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	kpiRole, scorable := member.Role.KPIRole()
	if !scorable {
		return nil, fmt.Errorf("role %q is not scored: %w", member.Role, apperrors.ErrInvalidRole)
	}

	defs, err := s.kpis.ListActiveDefinitions(ctx, kpiRole)
	if err != nil {
		return nil, err
	}
	valid := make(map[uuid.UUID]bool, len(defs))
	for _, def := range defs {
		valid[def.ID] = true
	}

	scores := make([]*models.KPIScore, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !valid[item.KPIID] {
			return nil, fmt.Errorf("KPI %s does not apply to role %q: %w", item.KPIID, kpiRole, apperrors.ErrValidation)
		}
		if seen[item.KPIID] {
			return nil, fmt.Errorf("KPI %s scored twice: %w", item.KPIID, apperrors.ErrValidation)
		}
		if item.Score != models.KPIMet && item.Score != models.KPINotMet {
			return nil, fmt.Errorf("score %d must be 0 or 1: %w", item.Score, apperrors.ErrValidation)
		}
		seen[item.KPIID] = true
		scores = append(scores, &models.KPIScore{
			StaffID:  member.ID,
			KPIID:    item.KPIID,
			Month:    month,
			Year:     year,
			Score:    item.Score,
			Notes:    item.Notes,
			ScoredBy: actor.ID,
		})
	}

	// Replace the month atomically: the delete and every insert land
	// together or not at all.
	replaced := 0
	err = s.txm.InTx(ctx, func(ctx context.Context) error {
		replaced, err = s.kpis.DeleteScores(ctx, member.ID, month, year)
		if err != nil {
			return err
		}
		return s.kpis.InsertScores(ctx, scores)
	})
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, member, month, year)
	if err != nil {
		return nil, err
	}

	event := &models.PerformanceEvent{
		StaffID:     member.ID,
		Type:        models.EventKPIScore,
		Description: fmt.Sprintf("KPI scores recorded for %s %d", models.MonthName(month), year),
		Data: map[string]any{
			"month":    month,
			"year":     year,
			"scored":   len(scores),
			"replaced": replaced,
		},
		CreatedBy: actor.ID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record KPI event", zap.Error(err))
	}

	message := fmt.Sprintf("Your KPI scores for %s %d were recorded", models.MonthName(month), year)
	if err := s.notifications.Notify(ctx, member.ID, "KPI scores recorded", message, models.NotifyKPIScore); err != nil {
		s.logger.Warn("failed to notify staff of KPI scores", zap.Error(err))
	}

	result := &ScoreResult{Summary: summary, Replaced: replaced}

	if summary != nil && summary.Percentage < KPIPassThreshold {
		prev, err := s.summarize(ctx, member, prevMonthOf(month, year), prevYearOf(month, year))
		if err != nil {
			return nil, err
		}
		issued, err := s.warnings.MaybeIssueKPIWarning(ctx, member, month, year, summary.Percentage, prev)
		if err != nil {
			return nil, err
		}
		result.WarningIssued = issued
	}

	s.audit.Log(ctx, "kpi.submit", "staff", &member.ID, map[string]any{
		"month":    month,
		"year":     year,
		"scored":   len(scores),
		"replaced": replaced,
	})

	return result, nil
}

func (s *kpiService) History(ctx context.Context, staffID uuid.UUID, months int) ([]*MonthResult, error) {
	if months <= 0 {
		months = 12
	}

	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	month, year := int(now.Month()), now.Year()

	var history []*MonthResult
	for i := 0; i < months; i++ {
		summary, err := s.summarize(ctx, member, month, year)
		if err != nil {
			return nil, err
		}
		history = append(history, &MonthResult{Month: month, Year: year, Summary: summary})

		month, year = prevMonthOf(month, year), prevYearOf(month, year)
	}

	return history, nil
}

func (s *kpiService) Rankings(ctx context.Context, month, year int) (*RankingsResult, error) {
	roster, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &RankingsResult{Month: month, Year: year}
	for _, member := range roster {
		summary, err := s.summarize(ctx, member, month, year)
		if err != nil {
			return nil, err
		}
		if summary == nil {
			continue
		}
		result.Rankings = append(result.Rankings, &StaffRanking{
			StaffID:  member.ID,
			FullName: member.FullName,
			Role:     member.Role,
			Summary:  summary,
		})
	}

	sort.SliceStable(result.Rankings, func(i, j int) bool {
		return result.Rankings[i].Summary.Percentage > result.Rankings[j].Summary.Percentage
	})

	// Employee of the month must be fully scored and at or above the
	// pass threshold.
	for _, ranking := range result.Rankings {
		if ranking.Summary.FullyScored && ranking.Summary.Percentage >= KPIPassThreshold {
			result.EmployeeOfMonth = ranking
			break
		}
	}

	return result, nil
}

func (s *kpiService) Definitions(ctx context.Context, role models.Role) ([]*models.KPIDefinition, error) {
	kpiRole, scorable := role.KPIRole()
	if !scorable {
		return nil, fmt.Errorf("role %q is not scored: %w", role, apperrors.ErrInvalidRole)
	}
	return s.kpis.ListActiveDefinitions(ctx, kpiRole)
}

var _ KPIService = (*kpiService)(nil)
