package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/database"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `match_date, home_team, away_team, home_goals, away_goals, home_xg, away_xg, league, season`

// Insert upserts a single match row keyed by (date, home, away)
func (m *PostgresMatchRepository) Insert(ctx context.Context, match *models.MatchHistoryRow) error {
	query := `
		INSERT INTO matches (match_date, home_team, away_team, home_goals, away_goals, home_xg, away_xg, league, season)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_date, home_team, away_team) DO UPDATE SET
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			home_xg = EXCLUDED.home_xg,
			away_xg = EXCLUDED.away_xg,
			league = EXCLUDED.league,
			season = EXCLUDED.season
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		match.Date, match.HomeTeam, match.AwayTeam, match.HomeGoals, match.AwayGoals,
		match.HomeXG, match.AwayXG, match.League, match.Season,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return nil
}

// InsertBatch upserts a slice of match rows in a single round trip
func (m *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []*models.MatchHistoryRow) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO matches (match_date, home_team, away_team, home_goals, away_goals, home_xg, away_xg, league, season)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_date, home_team, away_team) DO UPDATE SET
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			home_xg = EXCLUDED.home_xg,
			away_xg = EXCLUDED.away_xg,
			league = EXCLUDED.league,
			season = EXCLUDED.season
	`
	for _, match := range matches {
		batch.Queue(query,
			match.Date, match.HomeTeam, match.AwayTeam, match.HomeGoals, match.AwayGoals,
			match.HomeXG, match.AwayXG, match.League, match.Season,
		)
	}

	results := m.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range matches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert match batch: %w", err)
		}
	}

	return nil
}

// GetByLeagueSeason retrieves all matches for a league season ordered by date
func (m *PostgresMatchRepository) GetByLeagueSeason(ctx context.Context, league, season string) ([]*models.MatchHistoryRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE league = $1 AND season = $2
		ORDER BY match_date ASC, home_team ASC, away_team ASC
	`, matchColumns)

	rows, err := m.db.GetPool().Query(ctx, query, league, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by league season: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetByLeagueBefore retrieves league matches played strictly before the cutoff
func (m *PostgresMatchRepository) GetByLeagueBefore(ctx context.Context, league string, cutoff time.Time) ([]*models.MatchHistoryRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE league = $1 AND match_date < $2
		ORDER BY match_date ASC, home_team ASC, away_team ASC
	`, matchColumns)

	rows, err := m.db.GetPool().Query(ctx, query, league, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches before cutoff: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetByTeam retrieves the most recent matches involving a team, newest first
func (m *PostgresMatchRepository) GetByTeam(ctx context.Context, league, team string, limit int) ([]*models.MatchHistoryRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE league = $1 AND (home_team = $2 OR away_team = $2)
		ORDER BY match_date DESC
		LIMIT $3
	`, matchColumns)

	rows, err := m.db.GetPool().Query(ctx, query, league, team, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by team: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// CountByLeagueSeason returns the number of stored matches for a league season
func (m *PostgresMatchRepository) CountByLeagueSeason(ctx context.Context, league, season string) (int, error) {
	var count int
	err := m.db.GetPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM matches WHERE league = $1 AND season = $2`,
		league, season,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}

	return count, nil
}

func scanMatches(rows pgx.Rows) ([]*models.MatchHistoryRow, error) {
	var matches []*models.MatchHistoryRow
	for rows.Next() {
		match := &models.MatchHistoryRow{}
		err := rows.Scan(
			&match.Date, &match.HomeTeam, &match.AwayTeam, &match.HomeGoals, &match.AwayGoals,
			&match.HomeXG, &match.AwayXG, &match.League, &match.Season,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}
