// Package statmodel fits a Poisson goal model on historical matches and
// derives scoreline distributions for upcoming fixtures.
package statmodel

import (
	"math"
)

// MaxGoals bounds the scoreline matrix at goals 0..MaxGoals per side.
const MaxGoals = 10

// DixonColesRho is the low-score correlation parameter. It is kept global
// rather than refit per league-season.
const DixonColesRho = -0.13

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda).
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda < 0 {
		return 0
	}
	logP := -lambda + float64(k)*math.Log(lambda) - logFactorial(k)
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(logP)
}

func logFactorial(k int) float64 {
	lf := 0.0
	for i := 2; i <= k; i++ {
		lf += math.Log(float64(i))
	}
	return lf
}

// ScoreMatrix builds the (MaxGoals+1)x(MaxGoals+1) joint scoreline matrix for
// independent Poisson goals, applies the Dixon-Coles correction to the four
// low-score cells and renormalizes to sum to 1.
func ScoreMatrix(lambdaHome, lambdaAway, rho float64) [][]float64 {
	size := MaxGoals + 1
	matrix := make([][]float64, size)
	for i := 0; i < size; i++ {
		matrix[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			matrix[i][j] = PoissonPMF(i, lambdaHome) * PoissonPMF(j, lambdaAway)
		}
	}

	matrix[0][0] *= 1 - lambdaHome*lambdaAway*rho
	matrix[0][1] *= 1 + lambdaHome*rho
	matrix[1][0] *= 1 + lambdaAway*rho
	matrix[1][1] *= 1 - rho

	return renormalize(matrix)
}

func renormalize(matrix [][]float64) [][]float64 {
	total := 0.0
	for i := range matrix {
		for j := range matrix[i] {
			total += matrix[i][j]
		}
	}
	if total <= 0 {
		return matrix
	}
	for i := range matrix {
		for j := range matrix[i] {
			matrix[i][j] /= total
		}
	}
	return matrix
}

// OutcomeProbabilities sums the matrix triangles into 1X2 probabilities:
// strict lower triangle is a home win, the diagonal a draw, strict upper an
// away win.
func OutcomeProbabilities(matrix [][]float64) (home, draw, away float64) {
	for i := range matrix {
		for j := range matrix[i] {
			switch {
			case i > j:
				home += matrix[i][j]
			case i == j:
				draw += matrix[i][j]
			default:
				away += matrix[i][j]
			}
		}
	}
	return home, draw, away
}
