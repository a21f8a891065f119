package models

// QuestionScore is the per-team outcome of one consolidation question,
// together with the reasoning recorded for the audit trail.
type QuestionScore struct {
	Home   int    `json:"home"`
	Away   int    `json:"away"`
	Reason string `json:"reason,omitempty"`
}

// QuestionKeys lists the fixed battery of questions in evaluation order.
var QuestionKeys = []string{
	"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7", "Q8", "Q9", "Q10",
	"Q11", "Q12", "Q13", "Q14", "Q15", "Q16", "Q17", "Q18", "Q19",
}

// QScores is the consolidated Q1..Q19 battery for one fixture. Every question
// is always present; missing evidence yields the documented default.
type QScores struct {
	Details map[string]QuestionScore `json:"details"`

	// HomeAggregate and AwayAggregate are the weighted 0..100 scalars used
	// by the decision engine as a secondary probability signal.
	HomeAggregate float64 `json:"home"`
	AwayAggregate float64 `json:"away"`
}

// Get returns the score for a question key, zero-valued when absent.
func (q *QScores) Get(key string) QuestionScore {
	if q.Details == nil {
		return QuestionScore{}
	}
	return q.Details[key]
}
