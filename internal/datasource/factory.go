package datasource

import (
	"fmt"
	"log"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/config"
)

// Factory creates data source implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewFootballData creates the API client from configuration
func (f *Factory) NewFootballData() (*FootballDataClient, error) {
	fd := f.config.DataSources.FootballData
	if fd.BaseURL == "" {
		return nil, fmt.Errorf("football data base URL is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = f.config.FootballDataTimeout()
	if fd.RetryAttempts > 0 {
		httpCfg.MaxRetries = fd.RetryAttempts
	}
	if fd.RequestsPerSecond > 0 {
		httpCfg.RateLimit = float64(fd.RequestsPerSecond)
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)
	return NewFootballDataClient(httpClient, fd.BaseURL, fd.APIKey, true, f.logger), nil
}

// NewCSVHistory creates a local-file history provider
func (f *Factory) NewCSVHistory(path string) (*CSVHistoryProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("CSV path is required")
	}
	return NewCSVHistoryProvider(path, true, f.logger), nil
}
