// Package models defines the domain value types shared across the pricing system.
package models

import (
	"time"
)

// MatchHistoryRow represents one completed match in the historical table.
// Rows are input-only and never mutated after ingestion.
type MatchHistoryRow struct {
	Date      time.Time `db:"match_date" json:"date" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals int       `db:"home_goals" json:"home_goals" validate:"gte=0"`
	AwayGoals int       `db:"away_goals" json:"away_goals" validate:"gte=0"`
	HomeXG    float64   `db:"home_xg" json:"home_xg" validate:"gte=0"`
	AwayXG    float64   `db:"away_xg" json:"away_xg" validate:"gte=0"`
	League    string    `db:"league" json:"league"`
	Season    string    `db:"season" json:"season"`
}

// Result returns "H", "D" or "A" from the final score.
func (m *MatchHistoryRow) Result() string {
	switch {
	case m.HomeGoals > m.AwayGoals:
		return "H"
	case m.HomeGoals < m.AwayGoals:
		return "A"
	default:
		return "D"
	}
}

// GoalDiff returns home goals minus away goals.
func (m *MatchHistoryRow) GoalDiff() int {
	return m.HomeGoals - m.AwayGoals
}

// Fixture identifies one scheduled match to be priced.
type Fixture struct {
	HomeTeam string    `json:"home" validate:"required"`
	AwayTeam string    `json:"away" validate:"required"`
	League   string    `json:"league"`
	KickOff  time.Time `json:"date" validate:"required"`
}
