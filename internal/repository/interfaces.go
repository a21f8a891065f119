package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// MatchRepository defines the interface for historical match data access
type MatchRepository interface {
	Insert(ctx context.Context, match *models.MatchHistoryRow) error
	InsertBatch(ctx context.Context, matches []*models.MatchHistoryRow) error
	GetByLeagueSeason(ctx context.Context, league, season string) ([]*models.MatchHistoryRow, error)
	GetByLeagueBefore(ctx context.Context, league string, cutoff time.Time) ([]*models.MatchHistoryRow, error)
	GetByTeam(ctx context.Context, league, team string, limit int) ([]*models.MatchHistoryRow, error)
	CountByLeagueSeason(ctx context.Context, league, season string) (int, error)
}

// DecisionRepository defines the interface for published decision persistence
type DecisionRepository interface {
	Create(ctx context.Context, record *models.DecisionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DecisionRecord, error)
	GetByFixture(ctx context.Context, home, away string, date time.Time) (*models.DecisionRecord, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.DecisionRecord, error)
	ListByClass(ctx context.Context, class models.DecisionClass, limit int) ([]*models.DecisionRecord, error)
}
