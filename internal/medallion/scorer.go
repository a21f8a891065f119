// Package medallion aggregates fixture evidence into the seven-category
// Medallion score per team and derives a recommended AH line.
package medallion

import (
	"math"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/qscore"
)

// Category bounds used for grading.
type bounds struct{ min, max int }

var categoryBounds = map[string]bounds{
	models.CategoryTechnique:     {0, 25},
	models.CategoryMustWin:       {0, 17},
	models.CategoryAbsences:      {-50, 0},
	models.CategoryHomeAdvantage: {-25, 10},
	models.CategoryTactics:       {0, 25},
	models.CategoryForm:          {0, 8},
	models.CategoryPerformance:   {0, 15},
}

// Score computes both team totals and the recommended line. Evidence blocks
// that are missing fall back to neutral category scores.
func Score(ev *models.Evidence) *models.MedallionResult {
	result := &models.MedallionResult{
		HomeCategories: make(map[string]models.CategoryScore, len(models.CategoryKeys)),
		AwayCategories: make(map[string]models.CategoryScore, len(models.CategoryKeys)),
	}

	homeStats, awayStats := sideStats(ev)

	homeTactics, awayTactics := tacticsScores(ev)
	set := func(category string, home, away int) {
		result.HomeCategories[category] = graded(category, home)
		result.AwayCategories[category] = graded(category, away)
		result.HomeTotal += home
		result.AwayTotal += away
	}

	set(models.CategoryTechnique, technique(homeStats, awayStats), technique(awayStats, homeStats))
	set(models.CategoryMustWin, mustWin(homeStats), mustWin(awayStats))
	set(models.CategoryAbsences, absences(ev, ev.HomeTeam), absences(ev, ev.AwayTeam))
	set(models.CategoryHomeAdvantage, homeAdvantage(homeStats), awayDisadvantage(awayStats))
	set(models.CategoryTactics, homeTactics, awayTactics)
	set(models.CategoryForm, formScore(ev, true), formScore(ev, false))
	set(models.CategoryPerformance, performance(homeStats), performance(awayStats))

	result.RecommendedLine = RecommendLine(result.HomeTotal - result.AwayTotal)
	return result
}

// RecommendLine maps the total difference onto the quarter-step ladder, from
// the home perspective.
func RecommendLine(delta int) float64 {
	switch {
	case delta > 25:
		return -0.75
	case delta > 15:
		return -0.5
	case delta > 5:
		return -0.25
	case delta >= -5:
		return 0.0
	case delta >= -15:
		return 0.25
	case delta >= -25:
		return 0.5
	default:
		return 0.75
	}
}

// technique scores points-per-game adjusted for strength of schedule,
// relative to the opponent.
func technique(own, opp *models.TeamSeasonStats) int {
	if own == nil {
		return 12
	}
	score := own.PPG * 8
	if own.StrengthOfSchedule > 0 {
		score += (own.StrengthOfSchedule - 1) * 10
	}
	if opp != nil {
		score += (own.PPG - opp.PPG) * 2
	}
	return clamp(int(math.Round(score)), 0, 25)
}

// mustWin scores motivation from table position: title chase high,
// relegation battle highest, midtable low.
func mustWin(stats *models.TeamSeasonStats) int {
	if stats == nil || stats.Rank == 0 {
		return 8
	}
	switch {
	case stats.Rank >= 17:
		return 17
	case stats.Rank <= 4:
		return 14
	default:
		return 4
	}
}

// absences penalizes confirmed-out players: key players cost more than
// regulars; doubtful and questionable entries are skipped.
func absences(ev *models.Evidence, team string) int {
	if ev.Injuries == nil {
		return 0
	}
	penalty := 0
	for _, inj := range ev.Injuries.ForTeam(team) {
		if inj.Status != models.InjuryStatusOut {
			continue
		}
		if inj.KeyPlayer {
			penalty -= 15
		} else {
			penalty -= 5
		}
	}
	return clamp(penalty, -50, 0)
}

func homeAdvantage(stats *models.TeamSeasonStats) int {
	if stats == nil {
		return 0
	}
	if stats.HomePPG >= 2.0 {
		return 10
	}
	return 0
}

func awayDisadvantage(stats *models.TeamSeasonStats) int {
	if stats == nil {
		return -5
	}
	if stats.AwayPPG < 0.8 && stats.AwayPPG > 0 {
		return -15
	}
	return -5
}

func tacticsScores(ev *models.Evidence) (home, away int) {
	if ev.Lineups == nil {
		return 10, 10
	}
	homeShape, homeErr := qscore.ParseFormation(ev.Lineups.HomeFormation)
	awayShape, awayErr := qscore.ParseFormation(ev.Lineups.AwayFormation)
	if homeErr != nil || awayErr != nil {
		home, away = 0, 0
		if homeErr == nil {
			home = 10
		}
		if awayErr == nil {
			away = 10
		}
		return home, away
	}
	score := func(o qscore.MatchupOutcome) int {
		switch o {
		case qscore.MatchupAdvantage:
			return 20
		case qscore.MatchupDisadvantage:
			return 5
		default:
			return 10
		}
	}
	homeArch := homeShape.Classify()
	awayArch := awayShape.Classify()
	return score(qscore.Matchup(homeArch, awayArch)), score(qscore.Matchup(awayArch, homeArch))
}

func formScore(ev *models.Evidence, home bool) int {
	if ev.Form == nil {
		return 3
	}
	form := ev.Form.Home
	if !home {
		form = ev.Form.Away
	}
	points := qscore.FormPoints(form, 6)
	switch {
	case points >= 13:
		return 8
	case points >= 10:
		return 6
	case points >= 7:
		return 3
	default:
		return 0
	}
}

func performance(stats *models.TeamSeasonStats) int {
	if stats == nil {
		return 6
	}
	switch {
	case stats.XGPerGame > 2.0:
		return 15
	case stats.XGPerGame > 1.7:
		return 12
	case stats.XGPerGame > 1.4:
		return 9
	case stats.XGPerGame > 1.1:
		return 6
	default:
		return 3
	}
}

func graded(category string, score int) models.CategoryScore {
	b := categoryBounds[category]
	span := float64(b.max - b.min)
	ratio := 0.0
	if span > 0 {
		ratio = float64(score-b.min) / span
	}
	var grade models.Grade
	switch {
	case ratio >= 0.8:
		grade = models.GradeA
	case ratio >= 0.6:
		grade = models.GradeB
	case ratio >= 0.4:
		grade = models.GradeC
	case ratio >= 0.2:
		grade = models.GradeD
	default:
		grade = models.GradeE
	}
	return models.CategoryScore{Score: score, Grade: grade}
}

func sideStats(ev *models.Evidence) (home, away *models.TeamSeasonStats) {
	if ev.SeasonStats == nil {
		return nil, nil
	}
	return ev.SeasonStats.Home, ev.SeasonStats.Away
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
