package backtest

import (
	"math"
	"time"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Outcome is the settlement of one Asian Handicap position.
type Outcome string

// Settlement outcomes. Quarter lines settle as the average of the two
// adjacent half-step lines, producing the half results.
const (
	OutcomeWin      Outcome = "WIN"
	OutcomeHalfWin  Outcome = "HALF_WIN"
	OutcomePush     Outcome = "PUSH"
	OutcomeHalfLoss Outcome = "HALF_LOSS"
	OutcomeLoss     Outcome = "LOSS"
)

// Metrics summarizes one replay run.
type Metrics struct {
	Matches int `json:"matches"`
	Priced  int `json:"priced"`
	Skipped int `json:"skipped"`
	Refits  int `json:"refits"`

	Wins       int `json:"wins"`
	HalfWins   int `json:"half_wins"`
	Pushes     int `json:"pushes"`
	HalfLosses int `json:"half_losses"`
	Losses     int `json:"losses"`

	// HitRate counts wins plus half the half-wins over settled positions,
	// pushes excluded.
	HitRate float64 `json:"hit_rate"`

	// UnitReturn is the flat-stake profit at the fair odds. A calibrated
	// ladder should hover near zero.
	UnitReturn float64 `json:"unit_return"`

	// BrierScore measures 1X2 probability calibration, lower is better.
	BrierScore float64 `json:"brier_score"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	brierSum   float64
	brierCount int
}

// Settle resolves an AH position at the given line for the side whose
// adjusted goal difference is diff.
func Settle(line, diff float64) Outcome {
	// Quarter lines are a split stake on the neighbouring half steps.
	if quarter := math.Mod(math.Abs(line), 0.5); math.Abs(quarter-0.25) < 1e-9 {
		lower := Settle(line-0.25, diff)
		upper := Settle(line+0.25, diff)
		return combineHalves(lower, upper)
	}

	adjusted := diff + line
	switch {
	case adjusted > 1e-9:
		return OutcomeWin
	case adjusted < -1e-9:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}

func combineHalves(a, b Outcome) Outcome {
	wins := halves(a, OutcomeWin) + halves(b, OutcomeWin)
	losses := halves(a, OutcomeLoss) + halves(b, OutcomeLoss)
	switch {
	case wins == 2:
		return OutcomeWin
	case losses == 2:
		return OutcomeLoss
	case wins == 1 && losses == 0:
		return OutcomeHalfWin
	case losses == 1 && wins == 0:
		return OutcomeHalfLoss
	default:
		return OutcomePush
	}
}

func halves(o, target Outcome) int {
	if o == target {
		return 1
	}
	return 0
}

func (m *Metrics) record(outcome Outcome, odds float64) {
	profit := odds - 1
	switch outcome {
	case OutcomeWin:
		m.Wins++
		m.UnitReturn += profit
	case OutcomeHalfWin:
		m.HalfWins++
		m.UnitReturn += profit / 2
	case OutcomePush:
		m.Pushes++
	case OutcomeHalfLoss:
		m.HalfLosses++
		m.UnitReturn -= 0.5
	case OutcomeLoss:
		m.Losses++
		m.UnitReturn -= 1
	}
}

func (m *Metrics) addBrier(probs models.Probabilities, match models.MatchHistoryRow) {
	var home, draw, away float64
	switch match.Result() {
	case "H":
		home = 1
	case "D":
		draw = 1
	default:
		away = 1
	}
	m.brierSum += (probs.Home-home)*(probs.Home-home) +
		(probs.Draw-draw)*(probs.Draw-draw) +
		(probs.Away-away)*(probs.Away-away)
	m.brierCount++
}

func (m *Metrics) finalize() {
	settled := float64(m.Wins + m.HalfWins + m.HalfLosses + m.Losses)
	if settled > 0 {
		m.HitRate = (float64(m.Wins) + 0.5*float64(m.HalfWins)) / settled
	}
	if m.brierCount > 0 {
		m.BrierScore = m.brierSum / float64(m.brierCount)
	}
}
