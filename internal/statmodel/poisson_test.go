package statmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoissonPMFBasics(t *testing.T) {
	assert.InDelta(t, 1.0, PoissonPMF(0, 0), 1e-12)
	assert.InDelta(t, 0.0, PoissonPMF(3, 0), 1e-12)
	assert.Equal(t, 0.0, PoissonPMF(-1, 1.5))
	assert.Equal(t, 0.0, PoissonPMF(2, -0.5))

	// P(X=1) for lambda=1 is e^-1.
	assert.InDelta(t, 0.3678794411714423, PoissonPMF(1, 1.0), 1e-12)
}

func TestPoissonPMFSumsToOne(t *testing.T) {
	for _, lambda := range []float64{0.3, 1.2, 2.7} {
		sum := 0.0
		for k := 0; k <= 50; k++ {
			sum += PoissonPMF(k, lambda)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "lambda %.1f", lambda)
	}
}

func TestScoreMatrixSumsToOne(t *testing.T) {
	matrix := ScoreMatrix(1.5, 1.2, DixonColesRho)

	total := 0.0
	for i := range matrix {
		for j := range matrix[i] {
			assert.GreaterOrEqual(t, matrix[i][j], 0.0)
			total += matrix[i][j]
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestScoreMatrixDixonColesShiftsLowScores(t *testing.T) {
	corrected := ScoreMatrix(1.5, 1.2, DixonColesRho)
	independent := ScoreMatrix(1.5, 1.2, 0)

	// Negative rho inflates 0-0 and 1-1 and deflates 1-0 and 0-1.
	assert.Greater(t, corrected[0][0], independent[0][0])
	assert.Greater(t, corrected[1][1], independent[1][1])
	assert.Less(t, corrected[0][1], independent[0][1])
	assert.Less(t, corrected[1][0], independent[1][0])
}

func TestOutcomeProbabilitiesPartition(t *testing.T) {
	matrix := ScoreMatrix(1.8, 0.9, DixonColesRho)
	home, draw, away := OutcomeProbabilities(matrix)

	assert.InDelta(t, 1.0, home+draw+away, 1e-9)
	// The stronger attack should be the favorite.
	assert.Greater(t, home, away)
}
