// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for published decisions
// and model lifecycle events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogDecisionPublished logs a decision leaving the engine.
func (al *AuditLogger) LogDecisionPublished(decisionID, home, away, league, class, side string, fairLine, fairOdds float64, confidence int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"decision_id": decisionID,
		"home":        home,
		"away":        away,
		"league":      league,
		"class":       class,
		"side":        side,
		"fair_line":   fairLine,
		"fair_odds":   fairOdds,
		"confidence":  confidence,
		"timestamp":   timestamp.Unix(),
	}).Info("Decision published")
}

// LogModelFit logs a model fitting event.
func (al *AuditLogger) LogModelFit(league, season string, matches int, durationSeconds float64) {
	al.WithFields(logrus.Fields{
		"league":           league,
		"season":           season,
		"matches":          matches,
		"duration_seconds": durationSeconds,
	}).Info("Model fitted")
}

// LogModelFitFailure logs a failed fit with the cause.
func (al *AuditLogger) LogModelFitFailure(league, season string, matches int, reason string) {
	al.WithFields(logrus.Fields{
		"league":  league,
		"season":  season,
		"matches": matches,
		"reason":  reason,
	}).Warn("Model fit failed")
}

// LogDataSourceFailure logs an upstream data source failure.
func (al *AuditLogger) LogDataSourceFailure(source, operation, reason string) {
	al.WithFields(logrus.Fields{
		"source":    source,
		"operation": operation,
		"reason":    reason,
	}).Warn("Data source failure recorded")
}
