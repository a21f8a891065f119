package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/metrics"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

const footballDataSourceName = "football_data"

// FootballDataClient implements HistoryProvider, FixtureProvider, and
// EvidenceProvider against the football data API.
type FootballDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// footballDataMatch represents a match row from the API
type footballDataMatch struct {
	Date      string   `json:"utcDate"`
	Status    string   `json:"status"`
	HomeTeam  string   `json:"homeTeam"`
	AwayTeam  string   `json:"awayTeam"`
	HomeGoals *int     `json:"homeGoals"`
	AwayGoals *int     `json:"awayGoals"`
	HomeXG    *float64 `json:"homeXg"`
	AwayXG    *float64 `json:"awayXg"`
	League    string   `json:"competition"`
	Season    string   `json:"season"`
}

// footballDataTeamStats mirrors the season stats block returned by the API
type footballDataTeamStats struct {
	MatchesPlayed           int      `json:"matchesPlayed"`
	Rank                    int      `json:"rank"`
	Points                  int      `json:"points"`
	PPG                     float64  `json:"ppg"`
	HomePPG                 float64  `json:"homePpg"`
	AwayPPG                 float64  `json:"awayPpg"`
	GoalsFor                int      `json:"goalsFor"`
	GoalsAgainst            int      `json:"goalsAgainst"`
	XGPerGame               float64  `json:"xgPerGame"`
	XGAPerGame              float64  `json:"xgaPerGame"`
	DefensiveActionsPerGame float64  `json:"defensiveActionsPerGame"`
	CornersPerGame          float64  `json:"cornersPerGame"`
	AerialsWonPct           float64  `json:"aerialsWonPct"`
	SquadValueMillions      *float64 `json:"squadValueMillions"`
	StrengthOfSchedule      float64  `json:"strengthOfSchedule"`
}

// footballDataEvidence is the aggregate pre-match payload for one fixture
type footballDataEvidence struct {
	HomeStats     *footballDataTeamStats        `json:"homeStats"`
	AwayStats     *footballDataTeamStats        `json:"awayStats"`
	Lineups       *models.LineupsBlock          `json:"lineups"`
	H2H           []models.H2HMeeting           `json:"headToHead"`
	Injuries      *models.InjuryReport          `json:"injuries"`
	KeyPlayers    *models.KeyPlayersBlock       `json:"keyPlayers"`
	Form          *models.FormBlock             `json:"form"`
	Predictions   *models.APIPredictionsBlock   `json:"predictions"`
	Sentiment     *float64                      `json:"sentimentScore"`
	NewsItemCount int                           `json:"newsItemCount"`
}

// NewFootballDataClient creates a new football data API client
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *FootballDataClient {
	return &FootballDataClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchMatches retrieves completed matches for a league season
func (c *FootballDataClient) FetchMatches(ctx context.Context, league, season string) ([]*models.MatchHistoryRow, error) {
	if !c.enabled {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeNetworkError, "data source disabled", nil)
	}

	url := fmt.Sprintf("%s/matches?competition=%s&season=%s&status=FINISHED", c.baseURL, league, season)

	body, err := c.get(ctx, url, "fetch_matches")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var apiMatches []footballDataMatch
	if err := json.NewDecoder(body).Decode(&apiMatches); err != nil {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	matches := make([]*models.MatchHistoryRow, 0, len(apiMatches))
	for _, am := range apiMatches {
		match, err := c.convertMatch(&am)
		if err != nil {
			if c.logger != nil {
				c.logger.Printf("Skipping match %s vs %s: %v", am.HomeTeam, am.AwayTeam, err)
			}
			continue
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// FetchFixtures retrieves fixtures scheduled within the window
func (c *FootballDataClient) FetchFixtures(ctx context.Context, league string, from, to time.Time) ([]*models.Fixture, error) {
	if !c.enabled {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeNetworkError, "data source disabled", nil)
	}

	url := fmt.Sprintf("%s/matches?competition=%s&dateFrom=%s&dateTo=%s&status=SCHEDULED",
		c.baseURL, league, from.Format("2006-01-02"), to.Format("2006-01-02"))

	body, err := c.get(ctx, url, "fetch_fixtures")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var apiMatches []footballDataMatch
	if err := json.NewDecoder(body).Decode(&apiMatches); err != nil {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	fixtures := make([]*models.Fixture, 0, len(apiMatches))
	for _, am := range apiMatches {
		kickOff, err := time.Parse(time.RFC3339, am.Date)
		if err != nil {
			if c.logger != nil {
				c.logger.Printf("Skipping fixture %s vs %s: bad kick-off %q", am.HomeTeam, am.AwayTeam, am.Date)
			}
			continue
		}
		fixtures = append(fixtures, &models.Fixture{
			HomeTeam: am.HomeTeam,
			AwayTeam: am.AwayTeam,
			League:   am.League,
			KickOff:  kickOff,
		})
	}

	return fixtures, nil
}

// FetchEvidence retrieves everything known about the fixture
func (c *FootballDataClient) FetchEvidence(ctx context.Context, fixture *models.Fixture) (*models.Evidence, error) {
	if !c.enabled {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeNetworkError, "data source disabled", nil)
	}

	url := fmt.Sprintf("%s/evidence?home=%s&away=%s&date=%s",
		c.baseURL, fixture.HomeTeam, fixture.AwayTeam, fixture.KickOff.Format("2006-01-02"))

	body, err := c.get(ctx, url, "fetch_evidence")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var payload footballDataEvidence
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return c.convertEvidence(fixture, &payload), nil
}

// Name returns the data source name
func (c *FootballDataClient) Name() string {
	return footballDataSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *FootballDataClient) IsEnabled() bool {
	return c.enabled
}

// get issues an authenticated GET and maps error statuses
func (c *FootballDataClient) get(ctx context.Context, url, operation string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordDataSourceRequest(footballDataSourceName, "error")
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeNetworkError, fmt.Sprintf("%s failed", operation), err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		metrics.RecordDataSourceRequest(footballDataSourceName, "auth_failed")
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		metrics.RecordDataSourceRequest(footballDataSourceName, "rate_limited")
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		metrics.RecordDataSourceRequest(footballDataSourceName, "not_found")
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordDataSourceRequest(footballDataSourceName, "error")
		return nil, NewDataSourceError(footballDataSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	metrics.RecordDataSourceRequest(footballDataSourceName, "success")
	return resp.Body, nil
}

// convertMatch converts an API match row to the internal history row
func (c *FootballDataClient) convertMatch(am *footballDataMatch) (*models.MatchHistoryRow, error) {
	if am.HomeGoals == nil || am.AwayGoals == nil {
		return nil, fmt.Errorf("missing final score")
	}

	date, err := time.Parse(time.RFC3339, am.Date)
	if err != nil {
		return nil, fmt.Errorf("bad match date %q: %w", am.Date, err)
	}

	match := &models.MatchHistoryRow{
		Date:      date,
		HomeTeam:  am.HomeTeam,
		AwayTeam:  am.AwayTeam,
		HomeGoals: *am.HomeGoals,
		AwayGoals: *am.AwayGoals,
		League:    am.League,
		Season:    am.Season,
	}
	if am.HomeXG != nil {
		match.HomeXG = *am.HomeXG
	}
	if am.AwayXG != nil {
		match.AwayXG = *am.AwayXG
	}

	return match, nil
}

// convertEvidence maps the aggregate payload onto the internal Evidence shape
func (c *FootballDataClient) convertEvidence(fixture *models.Fixture, payload *footballDataEvidence) *models.Evidence {
	ev := &models.Evidence{
		HomeTeam:       fixture.HomeTeam,
		AwayTeam:       fixture.AwayTeam,
		League:         fixture.League,
		Date:           fixture.KickOff,
		Lineups:        payload.Lineups,
		H2H:            payload.H2H,
		Injuries:       payload.Injuries,
		Form:           payload.Form,
		APIPredictions: payload.Predictions,
		SentimentScore: payload.Sentiment,
		NewsItemCount:  payload.NewsItemCount,
	}

	if payload.HomeStats != nil || payload.AwayStats != nil {
		ev.SeasonStats = &models.SeasonStatsBlock{
			Home: convertTeamStats(payload.HomeStats),
			Away: convertTeamStats(payload.AwayStats),
		}
	}

	ev.KeyPlayers = payload.KeyPlayers

	return ev
}

func convertTeamStats(ts *footballDataTeamStats) *models.TeamSeasonStats {
	if ts == nil {
		return nil
	}
	stats := &models.TeamSeasonStats{
		MatchesPlayed:           ts.MatchesPlayed,
		Rank:                    ts.Rank,
		Points:                  ts.Points,
		PPG:                     ts.PPG,
		HomePPG:                 ts.HomePPG,
		AwayPPG:                 ts.AwayPPG,
		GoalsFor:                ts.GoalsFor,
		GoalsAgainst:            ts.GoalsAgainst,
		XGPerGame:               ts.XGPerGame,
		XGAPerGame:              ts.XGAPerGame,
		DefensiveActionsPerGame: ts.DefensiveActionsPerGame,
		CornersPerGame:          ts.CornersPerGame,
		AerialsWonPct:           ts.AerialsWonPct,
		StrengthOfSchedule:      ts.StrengthOfSchedule,
	}
	if ts.SquadValueMillions != nil {
		stats.SquadValueMillions = *ts.SquadValueMillions
	}
	return stats
}
