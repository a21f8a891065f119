package models

import (
	"time"

	"github.com/google/uuid"
)

// Side identifies a side of the handicap market.
type Side string

// Market sides.
const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// DecisionClass is the final bet classification.
type DecisionClass string

// Decision classes, first-match-wins order: VETO, FLIP, CORE, EXP.
const (
	DecisionCore DecisionClass = "CORE"
	DecisionExp  DecisionClass = "EXP"
	DecisionFlip DecisionClass = "FLIP"
	DecisionVeto DecisionClass = "VETO"
)

// Consensus classifies the agreement between the statistical line and the
// Medallion line.
type Consensus string

// Consensus buckets on |L_med - L_stat|.
const (
	ConsensusAgree    Consensus = "CONSENSUS"
	ConsensusMinorDiv Consensus = "MINOR_DIVERGENCE"
	ConsensusMajorDiv Consensus = "MAJOR_DIVERGENCE"
)

// Probabilities is a normalized 1X2 distribution; components are in [0, 1]
// and sum to 1 within 1e-6.
type Probabilities struct {
	Home float64 `json:"home" validate:"gte=0,lte=1"`
	Draw float64 `json:"draw" validate:"gte=0,lte=1"`
	Away float64 `json:"away" validate:"gte=0,lte=1"`
}

// MatchRef identifies the priced fixture inside a Decision.
type MatchRef struct {
	Home   string    `json:"home"`
	Away   string    `json:"away"`
	Date   time.Time `json:"date"`
	League string    `json:"league"`
}

// StatisticalOutput is the statistical model's contribution to a Decision.
type StatisticalOutput struct {
	HomeXG        float64       `json:"home_xg"`
	AwayXG        float64       `json:"away_xg"`
	Probabilities Probabilities `json:"probabilities"`
	Line          float64       `json:"line"`
	Source        string        `json:"source"`
}

// Decision is the immutable pricing outcome for one fixture.
type Decision struct {
	Match         MatchRef          `json:"match"`
	Probabilities Probabilities     `json:"probabilities"`
	FairLine      float64           `json:"fair_line"`
	FairOdds      float64           `json:"fair_odds"`
	FavoriteSide  Side              `json:"favorite_side"`
	YudorAHTeam   string            `json:"yudor_ah_team"`
	Class         DecisionClass     `json:"decision"`
	Tier          int               `json:"tier"`
	Confidence    int               `json:"confidence"`
	CSFinal       int               `json:"cs_final"`
	RScore        float64           `json:"r_score"`
	Consensus     Consensus         `json:"consensus"`
	Reasons       []string          `json:"reasons"`
	Medallion     MedallionResult   `json:"medallion"`
	Statistical   StatisticalOutput `json:"statistical"`
	QScores       QScores           `json:"q_scores"`
}

// BetSide resolves the team name the recommendation points to, given the
// favorite side and the two team names.
func (d *Decision) BetSide() string {
	return d.YudorAHTeam
}

// DecisionRecord is the persisted audit row wrapping a Decision.
type DecisionRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Decision  Decision  `db:"decision" json:"decision"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
