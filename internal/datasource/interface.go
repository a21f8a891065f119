// Package datasource provides clients for the upstream feeds that supply
// match history, fixtures, and pre-match evidence.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// HistoryProvider supplies completed matches for model training.
type HistoryProvider interface {
	// FetchMatches retrieves completed matches for a league season
	FetchMatches(ctx context.Context, league, season string) ([]*models.MatchHistoryRow, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// FixtureProvider supplies upcoming fixtures to price.
type FixtureProvider interface {
	// FetchFixtures retrieves fixtures scheduled within the window
	FetchFixtures(ctx context.Context, league string, from, to time.Time) ([]*models.Fixture, error)

	Name() string
	IsEnabled() bool
}

// EvidenceProvider assembles the pre-match evidence bundle for one fixture.
type EvidenceProvider interface {
	// FetchEvidence retrieves everything known about the fixture
	FetchEvidence(ctx context.Context, fixture *models.Fixture) (*models.Evidence, error)

	Name() string
	IsEnabled() bool
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
