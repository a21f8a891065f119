package ahline

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Ladder construction constants. The ladder is anchored at line -0.5 for the
// favorite, where the fair odd equals the moneyline odd; each quarter step
// away from the anchor moves the odd by 15%.
const (
	AnchorLine   = -0.5
	LineStep     = 0.25
	MinLine      = -3.0
	MaxLine      = 3.0
	StepDown     = 0.85
	StepUp       = 1.15
	MinOdds      = 1.01
	MaxOdds      = 999.0
	tieEpsilon   = 1e-6
	fairOddsGoal = 2.0
)

// Entry is one rung of the AH ladder, from the favorite's perspective.
type Entry struct {
	Line float64     `json:"line"`
	Odds float64     `json:"odds"`
	Side models.Side `json:"side"`
}

// Ladder is the ordered quarter-step price ladder for one fixture.
type Ladder struct {
	Entries  []Entry
	Favorite models.Side
	Underdog models.Side
}

// BuildLadder generates the quarter-step grid from -3.0 to +3.0. Lines are
// constructed in exact decimal steps so no float drift accumulates across the
// grid. Negative lines point at the favorite, positive lines at the underdog.
func BuildLadder(favProbPct float64, favorite models.Side) *Ladder {
	if favProbPct <= 0 {
		favProbPct = MinProbPct
	}
	oddML := 100.0 / favProbPct

	underdog := models.SideAway
	if favorite == models.SideAway {
		underdog = models.SideHome
	}

	ladder := &Ladder{Favorite: favorite, Underdog: underdog}

	step := decimal.NewFromFloat(LineStep)
	anchor := decimal.NewFromFloat(AnchorLine)
	line := decimal.NewFromFloat(MinLine)
	limit := decimal.NewFromFloat(MaxLine)

	for line.LessThanOrEqual(limit) {
		steps := line.Sub(anchor).Div(step).IntPart()
		odds := oddsAtStep(oddML, int(steps))

		side := favorite
		if line.IsPositive() {
			side = underdog
		}
		ladder.Entries = append(ladder.Entries, Entry{
			Line: line.InexactFloat64(),
			Odds: odds,
			Side: side,
		})
		line = line.Add(step)
	}
	return ladder
}

func oddsAtStep(oddML float64, steps int) float64 {
	odds := oddML
	switch {
	case steps > 0:
		odds = oddML * math.Pow(StepDown, float64(steps))
	case steps < 0:
		odds = oddML * math.Pow(StepUp, float64(-steps))
	}
	return clampOdds(odds)
}

func clampOdds(odds float64) float64 {
	if odds < MinOdds {
		return MinOdds
	}
	if odds > MaxOdds {
		return MaxOdds
	}
	return odds
}

// FairLine returns the rung priced at even money. When the moneyline odd is
// already at or above 2.00 the entry closest to 2.00 wins, equidistant
// entries (within epsilon) breaking toward the lower |line|. When the
// favorite is priced under evens at the anchor, the handicap is stepped
// deeper instead and the first rung at or above 2.00 wins, so a short-priced
// favorite never gets a line paying under even money while a deeper line
// reaches it.
func (l *Ladder) FairLine() Entry {
	if anchorOdds := l.OddsAt(AnchorLine); !math.IsNaN(anchorOdds) && anchorOdds < fairOddsGoal-tieEpsilon {
		return l.firstEvenMoney()
	}
	return l.closestToEven()
}

// firstEvenMoney walks the favorite handicaps deeper from the anchor and
// returns the first rung at or above 2.00. An equidistant shallower
// neighbour still wins per the tie rule.
func (l *Ladder) firstEvenMoney() Entry {
	for i := len(l.Entries) - 1; i >= 0; i-- {
		entry := l.Entries[i]
		if entry.Line > AnchorLine+tieEpsilon {
			continue
		}
		if entry.Odds < fairOddsGoal-tieEpsilon {
			continue
		}
		if i+1 < len(l.Entries) {
			prev := l.Entries[i+1]
			if math.Abs(math.Abs(prev.Odds-fairOddsGoal)-math.Abs(entry.Odds-fairOddsGoal)) <= tieEpsilon {
				return prev
			}
		}
		return entry
	}
	return l.closestToEven()
}

func (l *Ladder) closestToEven() Entry {
	best := l.Entries[0]
	bestDist := math.Abs(best.Odds - fairOddsGoal)
	for _, entry := range l.Entries[1:] {
		dist := math.Abs(entry.Odds - fairOddsGoal)
		switch {
		case dist < bestDist-tieEpsilon:
			best = entry
			bestDist = dist
		case math.Abs(dist-bestDist) <= tieEpsilon && math.Abs(entry.Line) < math.Abs(best.Line):
			best = entry
			bestDist = dist
		}
	}
	return best
}

// OddsAt returns the fair odd at a given line, or NaN when the line is off
// the grid.
func (l *Ladder) OddsAt(line float64) float64 {
	for _, entry := range l.Entries {
		if math.Abs(entry.Line-line) < tieEpsilon {
			return entry.Odds
		}
	}
	return math.NaN()
}
