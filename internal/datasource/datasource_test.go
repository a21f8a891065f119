package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp csv: %v", err)
	}
	return path
}

const csvHeader = "date,home_team,away_team,home_goals,away_goals,home_xg,away_xg,league,season\n"

// TestCSVHistoryProviderParse tests parsing a well-formed export
func TestCSVHistoryProviderParse(t *testing.T) {
	path := writeTempCSV(t, csvHeader+
		"2026-08-15,Arsenal,Chelsea,2,1,1.8,0.9,premier_league,2026-27\n"+
		"2026-08-16,Leeds,Everton,0,0,,,premier_league,2026-27\n")

	provider := NewCSVHistoryProvider(path, true, nil)
	matches, err := provider.FetchMatches(context.Background(), "", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	if matches[0].HomeTeam != "Arsenal" || matches[0].HomeGoals != 2 {
		t.Errorf("first row parsed wrong: %+v", matches[0])
	}

	// Empty xG columns become zero
	if matches[1].HomeXG != 0 || matches[1].AwayXG != 0 {
		t.Errorf("expected zero xG for empty columns, got %+v", matches[1])
	}
}

// TestCSVHistoryProviderFilters tests league and season filtering
func TestCSVHistoryProviderFilters(t *testing.T) {
	path := writeTempCSV(t, csvHeader+
		"2026-08-15,Arsenal,Chelsea,2,1,1.8,0.9,premier_league,2026-27\n"+
		"2026-08-15,Getafe,Sevilla,1,1,1.1,1.0,la_liga,2026-27\n")

	provider := NewCSVHistoryProvider(path, true, nil)
	matches, err := provider.FetchMatches(context.Background(), "la_liga", "2026-27")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match after filtering, got %d", len(matches))
	}
	if matches[0].HomeTeam != "Getafe" {
		t.Errorf("expected Getafe row, got %+v", matches[0])
	}
}

// TestCSVHistoryProviderSkipsBadRows tests that malformed rows are skipped
func TestCSVHistoryProviderSkipsBadRows(t *testing.T) {
	path := writeTempCSV(t, csvHeader+
		"not-a-date,Arsenal,Chelsea,2,1,1.8,0.9,premier_league,2026-27\n"+
		"2026-08-15,Leeds,Everton,x,0,,,premier_league,2026-27\n"+
		"2026-08-16,Brentford,Fulham,1,0,1.2,0.6,premier_league,2026-27\n")

	provider := NewCSVHistoryProvider(path, true, nil)
	matches, err := provider.FetchMatches(context.Background(), "", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected only the valid row, got %d rows", len(matches))
	}
	if matches[0].HomeTeam != "Brentford" {
		t.Errorf("expected Brentford row, got %+v", matches[0])
	}
}

// TestCSVHistoryProviderBadHeader tests header validation
func TestCSVHistoryProviderBadHeader(t *testing.T) {
	path := writeTempCSV(t, "a,b,c\n")

	provider := NewCSVHistoryProvider(path, true, nil)
	_, err := provider.FetchMatches(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected error for bad header")
	}
}

// TestCSVHistoryProviderDisabled tests the disabled path
func TestCSVHistoryProviderDisabled(t *testing.T) {
	provider := NewCSVHistoryProvider("nowhere.csv", false, nil)
	_, err := provider.FetchMatches(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected error when disabled")
	}
}

func newTestFootballDataClient(t *testing.T, handler http.Handler) *FootballDataClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	httpClient := NewRateLimitedHTTPClient(cfg, nil)

	return NewFootballDataClient(httpClient, server.URL, "test-key", true, nil)
}

// TestFootballDataFetchMatches tests the history conversion path
func TestFootballDataFetchMatches(t *testing.T) {
	client := newTestFootballDataClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"utcDate":"2026-08-15T14:00:00Z","status":"FINISHED","homeTeam":"Arsenal","awayTeam":"Chelsea","homeGoals":2,"awayGoals":1,"homeXg":1.8,"awayXg":0.9,"competition":"premier_league","season":"2026-27"},
			{"utcDate":"2026-08-22T14:00:00Z","status":"SCHEDULED","homeTeam":"Leeds","awayTeam":"Everton","competition":"premier_league","season":"2026-27"}
		]`))
	}))

	matches, err := client.FetchMatches(context.Background(), "premier_league", "2026-27")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// The unfinished match lacks a score and is skipped
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].HomeGoals != 2 || matches[0].HomeXG != 1.8 {
		t.Errorf("match converted wrong: %+v", matches[0])
	}
}

// TestFootballDataFetchFixtures tests the fixture conversion path
func TestFootballDataFetchFixtures(t *testing.T) {
	client := newTestFootballDataClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"utcDate":"2026-08-22T14:00:00Z","status":"SCHEDULED","homeTeam":"Leeds","awayTeam":"Everton","competition":"premier_league","season":"2026-27"}
		]`))
	}))

	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	to := from.Add(72 * time.Hour)
	fixtures, err := client.FetchFixtures(context.Background(), "premier_league", from, to)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(fixtures))
	}
	if fixtures[0].HomeTeam != "Leeds" {
		t.Errorf("fixture converted wrong: %+v", fixtures[0])
	}
}

// TestFootballDataFetchEvidence tests the evidence conversion path
func TestFootballDataFetchEvidence(t *testing.T) {
	client := newTestFootballDataClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"homeStats": {"matchesPlayed": 10, "rank": 3, "ppg": 2.1, "xgPerGame": 1.9, "xgaPerGame": 0.8},
			"lineups": {"home_formation": "4-3-3", "away_formation": "4-4-2", "confirmed": true},
			"sentimentScore": 0.4,
			"newsItemCount": 12
		}`))
	}))

	fixture := &models.Fixture{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		League:   "premier_league",
		KickOff:  time.Date(2026, 8, 22, 14, 0, 0, 0, time.UTC),
	}
	ev, err := client.FetchEvidence(context.Background(), fixture)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if ev.SeasonStats == nil || ev.SeasonStats.Home == nil || ev.SeasonStats.Home.Rank != 3 {
		t.Errorf("season stats converted wrong: %+v", ev.SeasonStats)
	}
	if ev.Lineups == nil || !ev.Lineups.Confirmed {
		t.Errorf("lineups converted wrong: %+v", ev.Lineups)
	}
	if ev.NewsItemCount != 12 {
		t.Errorf("expected 12 news items, got %d", ev.NewsItemCount)
	}
}

// TestFootballDataAuthFailure tests 401 mapping
func TestFootballDataAuthFailure(t *testing.T) {
	client := newTestFootballDataClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.FetchMatches(context.Background(), "premier_league", "2026-27")
	dsErr, ok := err.(DataSourceError)
	if !ok {
		t.Fatalf("expected DataSourceError, got %T: %v", err, err)
	}
	if dsErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("expected auth failure code, got %s", dsErr.Code)
	}
}
