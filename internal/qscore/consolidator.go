package qscore

import (
	"fmt"
	"math"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Aggregate weights for the secondary probability signal.
const (
	weightQ2  = 1.5
	weightQ4  = 1.5
	weightQ17 = 1.0
	weightQ6  = 0.5
)

// Consolidate evaluates every question independently against the evidence and
// returns the full battery. Missing inputs yield the documented default and a
// reason string; no question ever depends on another.
func Consolidate(ev *models.Evidence) *models.QScores {
	q := &models.QScores{Details: make(map[string]models.QuestionScore, len(models.QuestionKeys))}

	q.Details["Q1"] = q1Form(ev)
	q.Details["Q2"] = q2Offense(ev)
	q.Details["Q3"] = q3BenchDepth(ev)
	q.Details["Q4"] = q4Defense(ev)
	q.Details["Q5"] = q5Manager()
	q.Details["Q6"] = q6Tactics(ev)
	q.Details["Q7"] = q7Pressing(ev)
	q.Details["Q8"] = q8SetPieces(ev)
	q.Details["Q9"] = q9LeaguePosition(ev)
	q.Details["Q10"] = q10LocalContext(ev)
	q.Details["Q11"] = q11Momentum(ev)
	q.Details["Q12"] = q12OpponentQuality(ev)
	q.Details["Q13"] = q13XGVsGoals(ev)
	q.Details["Q14"] = q14PlayerForm(ev)
	q.Details["Q15"] = q15KeyInjuries(ev)
	q.Details["Q16"] = q16DefensiveCluster(ev)
	q.Details["Q17"] = q17H2HDominance(ev)
	q.Details["Q18"] = q18H2HAtVenue(ev)
	q.Details["Q19"] = q19H2HVeto(ev)

	q.HomeAggregate = aggregate(q, func(s models.QuestionScore) int { return s.Home })
	q.AwayAggregate = aggregate(q, func(s models.QuestionScore) int { return s.Away })
	return q
}

func aggregate(q *models.QScores, pick func(models.QuestionScore) int) float64 {
	sum := weightQ2*float64(pick(q.Details["Q2"])) +
		weightQ4*float64(pick(q.Details["Q4"])) +
		weightQ17*float64(pick(q.Details["Q17"])) +
		weightQ6*float64(pick(q.Details["Q6"]))
	return sum / (weightQ2 + weightQ4 + weightQ17 + weightQ6) * 10
}

// FormPoints converts a W/D/L string into league points over the last n
// characters. Unknown characters are ignored.
func FormPoints(form string, n int) int {
	points := 0
	counted := 0
	for _, c := range form {
		if counted >= n {
			break
		}
		switch c {
		case 'W', 'w':
			points += 3
			counted++
		case 'D', 'd':
			points++
			counted++
		case 'L', 'l':
			counted++
		}
	}
	return points
}

func q1Form(ev *models.Evidence) models.QuestionScore {
	if ev.Form == nil {
		return models.QuestionScore{Home: 5, Away: 5, Reason: "no form data, neutral default"}
	}
	score := func(form string) int {
		points := FormPoints(form, 5)
		return int(math.Round(float64(points) * 10.0 / 15.0))
	}
	return models.QuestionScore{
		Home:   score(ev.Form.Home),
		Away:   score(ev.Form.Away),
		Reason: fmt.Sprintf("last-5 points home=%d away=%d", FormPoints(ev.Form.Home, 5), FormPoints(ev.Form.Away, 5)),
	}
}

func xgTier(xg float64) int {
	switch {
	case xg > 2.0:
		return 9
	case xg > 1.7:
		return 8
	case xg > 1.4:
		return 6
	case xg > 1.1:
		return 4
	default:
		return 2
	}
}

func q2Offense(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 4, Away: 4, Reason: "no season stats, neutral default"}
	}
	return models.QuestionScore{
		Home:   xgTier(home.XGPerGame),
		Away:   xgTier(away.XGPerGame),
		Reason: fmt.Sprintf("xg/game home=%.2f away=%.2f", home.XGPerGame, away.XGPerGame),
	}
}

func q3BenchDepth(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 1, Away: 1, Reason: "no squad value data, default"}
	}
	tier := func(millions float64) int {
		switch {
		case millions > 500:
			return 5
		case millions > 250:
			return 4
		case millions > 100:
			return 3
		case millions > 50:
			return 2
		default:
			return 1
		}
	}
	return models.QuestionScore{
		Home:   tier(home.SquadValueMillions),
		Away:   tier(away.SquadValueMillions),
		Reason: "squad-value proxy",
	}
}

func xgaTier(xga float64) int {
	switch {
	case xga < 0.8:
		return 9
	case xga < 1.0:
		return 8
	case xga < 1.3:
		return 6
	case xga < 1.6:
		return 4
	default:
		return 2
	}
}

func q4Defense(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 4, Away: 4, Reason: "no season stats, neutral default"}
	}
	return models.QuestionScore{
		Home:   xgaTier(home.XGAPerGame),
		Away:   xgaTier(away.XGAPerGame),
		Reason: fmt.Sprintf("xga/game home=%.2f away=%.2f", home.XGAPerGame, away.XGAPerGame),
	}
}

func q5Manager() models.QuestionScore {
	// No manager evidence collected yet; the documented default applies.
	return models.QuestionScore{Home: 2, Away: 2, Reason: "manager default"}
}

func q6Tactics(ev *models.Evidence) models.QuestionScore {
	if ev.Lineups == nil {
		return models.QuestionScore{Home: 5, Away: 5, Reason: "no lineups, neutral default"}
	}
	homeShape, homeErr := ParseFormation(ev.Lineups.HomeFormation)
	awayShape, awayErr := ParseFormation(ev.Lineups.AwayFormation)
	if homeErr != nil || awayErr != nil {
		score := models.QuestionScore{Reason: "invalid formation, no tactical contribution"}
		if homeErr == nil {
			score.Home = 5
		}
		if awayErr == nil {
			score.Away = 5
		}
		return score
	}

	homeArch := homeShape.Classify()
	awayArch := awayShape.Classify()
	toScore := func(o MatchupOutcome) int {
		switch o {
		case MatchupAdvantage:
			return 7
		case MatchupDisadvantage:
			return 3
		default:
			return 5
		}
	}
	return models.QuestionScore{
		Home:   toScore(Matchup(homeArch, awayArch)),
		Away:   toScore(Matchup(awayArch, homeArch)),
		Reason: fmt.Sprintf("tactical matchup %s vs %s", homeArch, awayArch),
	}
}

func q7Pressing(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 1, Away: 1, Reason: "no defensive action data, default"}
	}
	tier := func(actions float64) int {
		switch {
		case actions >= 160:
			return 5
		case actions >= 120:
			return 3
		default:
			return 1
		}
	}
	return models.QuestionScore{
		Home:   tier(home.DefensiveActionsPerGame),
		Away:   tier(away.DefensiveActionsPerGame),
		Reason: "defensive actions per game",
	}
}

func q8SetPieces(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 2, Away: 2, Reason: "no set-piece data, default"}
	}
	score := func(s *models.TeamSeasonStats) int {
		v := 1
		switch {
		case s.CornersPerGame >= 6:
			v += 2
		case s.CornersPerGame >= 4:
			v++
		}
		switch {
		case s.AerialsWonPct >= 55:
			v += 2
		case s.AerialsWonPct >= 50:
			v++
		}
		if v > 5 {
			v = 5
		}
		return v
	}
	return models.QuestionScore{Home: score(home), Away: score(away), Reason: "corners and aerial duels"}
}

func q9LeaguePosition(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok || home.Rank == 0 || away.Rank == 0 {
		return models.QuestionScore{Home: 5, Away: 5, Reason: "no table position, neutral default"}
	}
	tier := func(rank int) int {
		switch {
		case rank <= 4:
			return 9
		case rank >= 17:
			return 8
		default:
			return 5
		}
	}
	return models.QuestionScore{
		Home:   tier(home.Rank),
		Away:   tier(away.Rank),
		Reason: fmt.Sprintf("table rank home=%d away=%d", home.Rank, away.Rank),
	}
}

func q10LocalContext(ev *models.Evidence) models.QuestionScore {
	if !ev.HasNews() {
		return models.QuestionScore{Reason: "no news coverage"}
	}
	s := ev.Sentiment()
	tier := func(v float64) int {
		switch {
		case v > 0.6:
			return 5
		case v > 0.3:
			return 3
		case v > 0.1:
			return 1
		default:
			return 0
		}
	}
	return models.QuestionScore{
		Home:   tier(s),
		Away:   tier(-s),
		Reason: fmt.Sprintf("sentiment %.2f over %d items", s, ev.NewsItemCount),
	}
}

func q11Momentum(ev *models.Evidence) models.QuestionScore {
	if ev.Form == nil {
		return models.QuestionScore{Home: 2, Away: 2, Reason: "no form data, default"}
	}
	tier := func(form string) int {
		points := FormPoints(form, 3)
		switch {
		case points >= 9:
			return 5
		case points >= 7:
			return 4
		case points >= 5:
			return 3
		case points >= 3:
			return 2
		case points >= 1:
			return 1
		default:
			return 0
		}
	}
	return models.QuestionScore{Home: tier(ev.Form.Home), Away: tier(ev.Form.Away), Reason: "last-3 momentum"}
}

func q12OpponentQuality(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 2, Away: 2, Reason: "no opponent strength data, default"}
	}
	// Facing a weaker opponent scores higher.
	tier := func(oppPPG float64) int {
		switch {
		case oppPPG < 1.0:
			return 5
		case oppPPG < 1.5:
			return 3
		case oppPPG < 2.0:
			return 2
		default:
			return 1
		}
	}
	return models.QuestionScore{
		Home:   tier(away.PPG),
		Away:   tier(home.PPG),
		Reason: fmt.Sprintf("opponent ppg home-faces=%.2f away-faces=%.2f", away.PPG, home.PPG),
	}
}

func q13XGVsGoals(ev *models.Evidence) models.QuestionScore {
	home, away, ok := teamStats(ev)
	if !ok {
		return models.QuestionScore{Home: 3, Away: 3, Reason: "no xg-vs-goals data, default"}
	}
	score := func(s *models.TeamSeasonStats) int {
		if s.MatchesPlayed == 0 {
			return 3
		}
		diff := float64(s.GoalsFor)/float64(s.MatchesPlayed) - s.XGPerGame
		switch {
		case diff < -0.3:
			// Scoring below expected output: positive regression candidate.
			return 4
		case diff > 0.3:
			return 1
		default:
			return 3
		}
	}
	return models.QuestionScore{Home: score(home), Away: score(away), Reason: "goals vs xg over/under-performance"}
}

func q14PlayerForm(ev *models.Evidence) models.QuestionScore {
	if ev.KeyPlayers == nil {
		return models.QuestionScore{Home: 1, Away: 1, Reason: "no key player data, default"}
	}
	count := func(players []models.PlayerForm) int {
		n := 0
		for _, p := range players {
			if p.InForm {
				n++
			}
		}
		switch {
		case n >= 3:
			return 5
		case n == 2:
			return 4
		case n == 1:
			return 2
		default:
			return 0
		}
	}
	return models.QuestionScore{Home: count(ev.KeyPlayers.Home), Away: count(ev.KeyPlayers.Away), Reason: "in-form key players"}
}

func q15KeyInjuries(ev *models.Evidence) models.QuestionScore {
	if ev.Injuries == nil {
		return models.QuestionScore{Reason: "no injury report"}
	}
	penalty := func(team string) int {
		p := 0
		for _, inj := range ev.Injuries.ForTeam(team) {
			if inj.Status != models.InjuryStatusOut || !inj.KeyPlayer {
				continue
			}
			p -= 2
		}
		if p < -5 {
			p = -5
		}
		return p
	}
	return models.QuestionScore{
		Home:   penalty(ev.HomeTeam),
		Away:   penalty(ev.AwayTeam),
		Reason: "key players ruled out",
	}
}

func q16DefensiveCluster(ev *models.Evidence) models.QuestionScore {
	if ev.Injuries == nil {
		return models.QuestionScore{Reason: "no injury report"}
	}
	penalty := func(team string) int {
		defenders := 0
		for _, inj := range ev.Injuries.ForTeam(team) {
			if inj.Status == models.InjuryStatusOut && isDefensivePosition(inj.Position) {
				defenders++
			}
		}
		switch {
		case defenders >= 3:
			return -5
		case defenders == 2:
			return -3
		default:
			return 0
		}
	}
	return models.QuestionScore{Home: penalty(ev.HomeTeam), Away: penalty(ev.AwayTeam), Reason: "defensive absences cluster"}
}

func isDefensivePosition(position string) bool {
	switch position {
	case "GK", "DF", "CB", "LB", "RB", "WB", "DEF":
		return true
	default:
		return false
	}
}

func h2hWins(ev *models.Evidence, team string) (wins, total int) {
	for _, m := range ev.H2H {
		total++
		switch {
		case m.HomeGoals > m.AwayGoals && m.HomeTeam == team:
			wins++
		case m.AwayGoals > m.HomeGoals && m.AwayTeam == team:
			wins++
		}
	}
	return wins, total
}

func q17H2HDominance(ev *models.Evidence) models.QuestionScore {
	homeWins, total := h2hWins(ev, ev.HomeTeam)
	awayWins, _ := h2hWins(ev, ev.AwayTeam)
	if total < 3 {
		return models.QuestionScore{Home: 5, Away: 5, Reason: "fewer than 3 meetings, neutral default"}
	}
	tier := func(wins int) int {
		pct := float64(wins) / float64(total) * 100
		switch {
		case pct >= 70:
			return 9
		case pct >= 55:
			return 7
		case pct >= 40:
			return 5
		case pct >= 25:
			return 3
		default:
			return 1
		}
	}
	return models.QuestionScore{
		Home:   tier(homeWins),
		Away:   tier(awayWins),
		Reason: fmt.Sprintf("h2h wins home=%d away=%d of %d", homeWins, awayWins, total),
	}
}

func q18H2HAtVenue(ev *models.Evidence) models.QuestionScore {
	venueWins, venueTotal := 0, 0
	for _, m := range ev.H2H {
		if m.HomeTeam != ev.HomeTeam {
			continue
		}
		venueTotal++
		if m.HomeGoals > m.AwayGoals {
			venueWins++
		}
	}
	if venueTotal < 2 {
		return models.QuestionScore{Home: 2, Away: 2, Reason: "insufficient venue history, default"}
	}
	pct := float64(venueWins) / float64(venueTotal) * 100
	homeScore := 1
	switch {
	case pct >= 60:
		homeScore = 5
	case pct >= 40:
		homeScore = 3
	}
	awayScore := 6 - homeScore
	if awayScore > 5 {
		awayScore = 5
	}
	return models.QuestionScore{
		Home:   homeScore,
		Away:   awayScore,
		Reason: fmt.Sprintf("home venue win%% %.0f over %d meetings", pct, venueTotal),
	}
}

func q19H2HVeto(ev *models.Evidence) models.QuestionScore {
	homeWins, total := h2hWins(ev, ev.HomeTeam)
	awayWins, _ := h2hWins(ev, ev.AwayTeam)
	if total < 5 {
		return models.QuestionScore{Reason: "no extreme h2h pattern"}
	}
	flag := func(wins int) int {
		if float64(wins)/float64(total) >= 0.8 {
			return 1
		}
		return 0
	}
	score := models.QuestionScore{Home: flag(homeWins), Away: flag(awayWins)}
	if score.Home == 1 || score.Away == 1 {
		score.Reason = "extreme h2h dominance pattern"
	} else {
		score.Reason = "no extreme h2h pattern"
	}
	return score
}

func teamStats(ev *models.Evidence) (*models.TeamSeasonStats, *models.TeamSeasonStats, bool) {
	if ev.SeasonStats == nil || ev.SeasonStats.Home == nil || ev.SeasonStats.Away == nil {
		return nil, nil, false
	}
	return ev.SeasonStats.Home, ev.SeasonStats.Away, true
}
