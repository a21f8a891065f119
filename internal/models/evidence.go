package models

import (
	"time"
)

// Evidence bundles everything collected for one fixture before pricing.
// Every block besides the fixture identity is optional; consumers document
// their fallback when a block is nil and missing blocks reduce confidence.
type Evidence struct {
	HomeTeam string    `json:"home_team" validate:"required"`
	AwayTeam string    `json:"away_team" validate:"required"`
	League   string    `json:"league"`
	Date     time.Time `json:"date" validate:"required"`

	SeasonStats    *SeasonStatsBlock    `json:"season_stats,omitempty"`
	Lineups        *LineupsBlock        `json:"lineups,omitempty"`
	H2H            []H2HMeeting         `json:"h2h,omitempty"`
	Injuries       *InjuryReport        `json:"injuries,omitempty"`
	KeyPlayers     *KeyPlayersBlock     `json:"key_players,omitempty"`
	Form           *FormBlock           `json:"form,omitempty"`
	APIPredictions *APIPredictionsBlock `json:"api_predictions,omitempty"`

	// SentimentScore is the aggregate narrative sentiment in [-1, 1],
	// nil when no news coverage was collected.
	SentimentScore *float64 `json:"sentiment_score,omitempty" validate:"omitempty,gte=-1,lte=1"`
	NewsItemCount  int      `json:"news_item_count" validate:"gte=0"`
}

// Sentiment returns the sentiment score, or 0 when no coverage exists.
func (e *Evidence) Sentiment() float64 {
	if e.SentimentScore == nil {
		return 0
	}
	return *e.SentimentScore
}

// HasHardStats reports whether season statistics were collected.
func (e *Evidence) HasHardStats() bool {
	return e.SeasonStats != nil && (e.SeasonStats.Home != nil || e.SeasonStats.Away != nil)
}

// HasNews reports whether any narrative coverage was collected.
func (e *Evidence) HasNews() bool {
	return e.NewsItemCount > 0 || e.SentimentScore != nil
}

// TeamSeasonStats summarizes one team's season to date.
type TeamSeasonStats struct {
	MatchesPlayed           int     `json:"matches_played"`
	Rank                    int     `json:"rank"`
	Points                  int     `json:"points"`
	PPG                     float64 `json:"ppg"`
	HomePPG                 float64 `json:"home_ppg"`
	AwayPPG                 float64 `json:"away_ppg"`
	GoalsFor                int     `json:"goals_for"`
	GoalsAgainst            int     `json:"goals_against"`
	XGPerGame               float64 `json:"xg_per_game"`
	XGAPerGame              float64 `json:"xga_per_game"`
	DefensiveActionsPerGame float64 `json:"defensive_actions_per_game"`
	CornersPerGame          float64 `json:"corners_per_game"`
	AerialsWonPct           float64 `json:"aerials_won_pct"`
	SquadValueMillions      float64 `json:"squad_value_millions"`
	StrengthOfSchedule      float64 `json:"strength_of_schedule"`
}

// SeasonStatsBlock carries the season summaries for both sides.
type SeasonStatsBlock struct {
	Home *TeamSeasonStats `json:"home,omitempty"`
	Away *TeamSeasonStats `json:"away,omitempty"`
}

// LineupsBlock carries the announced formations. Confirmed is true only for
// official lineups, not for predicted ones.
type LineupsBlock struct {
	HomeFormation string `json:"home_formation"`
	AwayFormation string `json:"away_formation"`
	Confirmed     bool   `json:"confirmed"`
}

// H2HMeeting is one prior meeting between the two teams.
type H2HMeeting struct {
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
}

// InjuryStatus describes availability of an injured or suspended player.
type InjuryStatus string

const (
	InjuryStatusOut          InjuryStatus = "OUT"
	InjuryStatusDoubtful     InjuryStatus = "DOUBTFUL"
	InjuryStatusQuestionable InjuryStatus = "QUESTIONABLE"
)

// Injury is one absence entry from the injury report.
type Injury struct {
	Team       string       `json:"team"`
	PlayerName string       `json:"player_name"`
	Reason     string       `json:"reason"`
	Position   string       `json:"position"`
	KeyPlayer  bool         `json:"key_player"`
	Status     InjuryStatus `json:"status"`
}

// InjuryReport wraps the injury list; a non-nil report with zero entries
// still counts as collected evidence.
type InjuryReport struct {
	Entries []Injury `json:"entries"`
}

// ForTeam returns the entries for one team.
func (r *InjuryReport) ForTeam(team string) []Injury {
	var out []Injury
	for _, e := range r.Entries {
		if e.Team == team {
			out = append(out, e)
		}
	}
	return out
}

// PlayerForm is a key player with recent output.
type PlayerForm struct {
	Name   string  `json:"name"`
	XG     float64 `json:"xg"`
	InForm bool    `json:"in_form"`
}

// KeyPlayersBlock lists key players per side.
type KeyPlayersBlock struct {
	Home []PlayerForm `json:"home,omitempty"`
	Away []PlayerForm `json:"away,omitempty"`
}

// FormBlock carries last-5/6 form strings such as "WWDLW", most recent first.
type FormBlock struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// APIPredictionsBlock carries third-party model probabilities, expressed as
// percentages that need not sum to 100.
type APIPredictionsBlock struct {
	HomePct float64 `json:"home_pct"`
	DrawPct float64 `json:"draw_pct"`
	AwayPct float64 `json:"away_pct"`
}
