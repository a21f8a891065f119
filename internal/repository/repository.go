package repository

import (
	"fmt"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match    MatchRepository
	Decision DecisionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:    NewPostgresMatchRepository(db),
		Decision: NewPostgresDecisionRepository(db),
	}, nil
}
