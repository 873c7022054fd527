package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// KPIRepository defines the interface for KPI definition and score data
// access.
type KPIRepository interface {
	ListActiveDefinitions(ctx context.Context, role models.Role) ([]*models.KPIDefinition, error)
	ListCategories(ctx context.Context, role models.Role) ([]*models.KPICategory, error)
	ListScores(ctx context.Context, staffID uuid.UUID, month, year int) ([]*models.KPIScore, error)
	// DeleteScores removes an existing month's scores ahead of a
	// re-score and returns how many rows went.
	DeleteScores(ctx context.Context, staffID uuid.UUID, month, year int) (int, error)
	InsertScores(ctx context.Context, scores []*models.KPIScore) error
}

type kpiRepository struct {
	db database.Querier
}

// NewKPIRepository creates a new KPI repository.
func NewKPIRepository(db database.Querier) KPIRepository {
	return &kpiRepository{db: db}
}

func (r *kpiRepository) ListActiveDefinitions(ctx context.Context, role models.Role) ([]*models.KPIDefinition, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, category_id, role, name, description, active
		FROM kpi_definitions
		WHERE role = $1 AND active
		ORDER BY name`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list KPI definitions: %w", err)
	}
	defer rows.Close()

	var defs []*models.KPIDefinition
	for rows.Next() {
		var def models.KPIDefinition
		if err := rows.Scan(&def.ID, &def.CategoryID, &def.Role, &def.Name, &def.Description, &def.Active); err != nil {
			return nil, fmt.Errorf("failed to scan KPI definition: %w", err)
		}
		defs = append(defs, &def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating KPI definitions: %w", err)
	}

	return defs, nil
}

func (r *kpiRepository) ListCategories(ctx context.Context, role models.Role) ([]*models.KPICategory, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT id, role, name, active FROM kpi_categories WHERE role = $1 AND active ORDER BY name`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list KPI categories: %w", err)
	}
	defer rows.Close()

	var cats []*models.KPICategory
	for rows.Next() {
		var cat models.KPICategory
		if err := rows.Scan(&cat.ID, &cat.Role, &cat.Name, &cat.Active); err != nil {
			return nil, fmt.Errorf("failed to scan KPI category: %w", err)
		}
		cats = append(cats, &cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating KPI categories: %w", err)
	}

	return cats, nil
}

func (r *kpiRepository) ListScores(ctx context.Context, staffID uuid.UUID, month, year int) ([]*models.KPIScore, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, staff_id, kpi_id, month, year, score, notes, scored_by, scored_at
		FROM kpi_scores
		WHERE staff_id = $1 AND month = $2 AND year = $3`

	rows, err := q.Query(ctx, query, staffID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list KPI scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.KPIScore
	for rows.Next() {
		var score models.KPIScore
		err := rows.Scan(&score.ID, &score.StaffID, &score.KPIID, &score.Month, &score.Year,
			&score.Score, &score.Notes, &score.ScoredBy, &score.ScoredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan KPI score: %w", err)
		}
		scores = append(scores, &score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating KPI scores: %w", err)
	}

	return scores, nil
}

func (r *kpiRepository) DeleteScores(ctx context.Context, staffID uuid.UUID, month, year int) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `DELETE FROM kpi_scores WHERE staff_id = $1 AND month = $2 AND year = $3`

	result, err := q.Exec(ctx, query, staffID, month, year)
	if err != nil {
		return 0, fmt.Errorf("failed to delete KPI scores: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *kpiRepository) InsertScores(ctx context.Context, scores []*models.KPIScore) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO kpi_scores (id, staff_id, kpi_id, month, year, score, notes, scored_by, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	for _, score := range scores {
		if score.ID == uuid.Nil {
			score.ID = uuid.New()
		}
		score.ScoredAt = now

		_, err := q.Exec(ctx, query,
			score.ID, score.StaffID, score.KPIID, score.Month, score.Year,
			score.Score, score.Notes, score.ScoredBy, score.ScoredAt)
		if err != nil {
			return fmt.Errorf("failed to insert KPI score: %w", err)
		}
	}

	return nil
}

var _ KPIRepository = (*kpiRepository)(nil)
