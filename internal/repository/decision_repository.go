package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/database"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// PostgresDecisionRepository implements DecisionRepository for PostgreSQL.
// The full decision payload is stored as JSONB alongside a few indexed
// columns for lookups.
type PostgresDecisionRepository struct {
	db *database.DB
}

// NewPostgresDecisionRepository creates a new decision repository
func NewPostgresDecisionRepository(db *database.DB) DecisionRepository {
	return &PostgresDecisionRepository{db: db}
}

// Create inserts a new decision record
func (d *PostgresDecisionRepository) Create(ctx context.Context, record *models.DecisionRecord) error {
	payload, err := json.Marshal(record.Decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision payload: %w", err)
	}

	query := `
		INSERT INTO decisions (id, home_team, away_team, match_date, league, class, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = d.db.GetPool().Exec(ctx, query,
		record.ID, record.Decision.Match.Home, record.Decision.Match.Away,
		record.Decision.Match.Date, record.Decision.Match.League,
		string(record.Decision.Class), payload, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}

	return nil
}

// GetByID retrieves a decision record by ID
func (d *PostgresDecisionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DecisionRecord, error) {
	query := `SELECT id, payload, created_at FROM decisions WHERE id = $1`

	return d.scanOne(d.db.GetPool().QueryRow(ctx, query, id))
}

// GetByFixture retrieves the most recent decision for a fixture
func (d *PostgresDecisionRepository) GetByFixture(ctx context.Context, home, away string, date time.Time) (*models.DecisionRecord, error) {
	query := `
		SELECT id, payload, created_at
		FROM decisions
		WHERE home_team = $1 AND away_team = $2 AND match_date = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	return d.scanOne(d.db.GetPool().QueryRow(ctx, query, home, away, date))
}

// ListByDateRange retrieves decisions created within a date range, newest first
func (d *PostgresDecisionRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.DecisionRecord, error) {
	query := `
		SELECT id, payload, created_at
		FROM decisions
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
	`

	rows, err := d.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions by date range: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// ListByClass retrieves the most recent decisions of a given class
func (d *PostgresDecisionRepository) ListByClass(ctx context.Context, class models.DecisionClass, limit int) ([]*models.DecisionRecord, error) {
	query := `
		SELECT id, payload, created_at
		FROM decisions
		WHERE class = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := d.db.GetPool().Query(ctx, query, string(class), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions by class: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

func (d *PostgresDecisionRepository) scanOne(row pgx.Row) (*models.DecisionRecord, error) {
	record := &models.DecisionRecord{}
	var payload []byte
	err := row.Scan(&record.ID, &payload, &record.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	if err := json.Unmarshal(payload, &record.Decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision payload: %w", err)
	}

	return record, nil
}

func scanDecisions(rows pgx.Rows) ([]*models.DecisionRecord, error) {
	var records []*models.DecisionRecord
	for rows.Next() {
		record := &models.DecisionRecord{}
		var payload []byte
		if err := rows.Scan(&record.ID, &payload, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		if err := json.Unmarshal(payload, &record.Decision); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decision payload: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
