package statmodel

import (
	"math"
	"sort"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Training bounds.
const (
	MinTrainingMatches = 50
	maxIRLSIterations  = 50
	irlsTolerance      = 1e-8
	ridge              = 1e-8
)

// Fit estimates the Poisson GLM with log link on the long-form team-match
// view: each historical match produces two rows, (team=home, opponent=away,
// home=1, goals=home_goals) and the mirrored away row. The formula is
// goals ~ home + team + opponent, with the alphabetically first team as the
// reference category on both factors.
func Fit(history []models.MatchHistoryRow) (*Model, error) {
	if len(history) < MinTrainingMatches {
		return nil, models.ErrInsufficientData
	}

	teams := collectTeams(history)
	if len(teams) < 2 {
		return nil, models.ErrInsufficientData
	}

	// Column layout: [intercept, home, attack(teams[1:]), defense(teams[1:])].
	attackIdx := make(map[string]int, len(teams))
	defenseIdx := make(map[string]int, len(teams))
	p := 2
	for i, team := range teams {
		if i == 0 {
			attackIdx[team] = -1
			defenseIdx[team] = -1
			continue
		}
		attackIdx[team] = p
		p++
	}
	for i, team := range teams {
		if i == 0 {
			continue
		}
		defenseIdx[team] = p
		p++
	}

	n := len(history) * 2
	rows := make([][]float64, 0, n)
	y := make([]float64, 0, n)
	for _, m := range history {
		rows = append(rows, designRow(p, 1, attackIdx[m.HomeTeam], defenseIdx[m.AwayTeam]))
		y = append(y, float64(m.HomeGoals))
		rows = append(rows, designRow(p, 0, attackIdx[m.AwayTeam], defenseIdx[m.HomeTeam]))
		y = append(y, float64(m.AwayGoals))
	}

	beta, err := irls(rows, y, p)
	if err != nil {
		return nil, err
	}

	model := &Model{
		Intercept:     beta[0],
		HomeAdvantage: beta[1],
		Attack:        make(map[string]float64, len(teams)),
		Defense:       make(map[string]float64, len(teams)),
		Matches:       len(history),
	}
	for _, team := range teams {
		if idx := attackIdx[team]; idx >= 0 {
			model.Attack[team] = beta[idx]
		} else {
			model.Attack[team] = 0
		}
		if idx := defenseIdx[team]; idx >= 0 {
			model.Defense[team] = beta[idx]
		} else {
			model.Defense[team] = 0
		}
	}
	return model, nil
}

func designRow(p int, home float64, attackCol, defenseCol int) []float64 {
	row := make([]float64, p)
	row[0] = 1
	row[1] = home
	if attackCol >= 0 {
		row[attackCol] = 1
	}
	if defenseCol >= 0 {
		row[defenseCol] = 1
	}
	return row
}

// irls runs iteratively reweighted least squares for the Poisson log link.
func irls(x [][]float64, y []float64, p int) ([]float64, error) {
	n := len(x)
	beta := make([]float64, p)

	// Start from log of mean response.
	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(n)
	if meanY <= 0 {
		meanY = 1e-3
	}
	beta[0] = math.Log(meanY)

	for iter := 0; iter < maxIRLSIterations; iter++ {
		xtwx := make([][]float64, p)
		for i := range xtwx {
			xtwx[i] = make([]float64, p)
			xtwx[i][i] = ridge
		}
		xtwz := make([]float64, p)

		for i := 0; i < n; i++ {
			eta := dot(x[i], beta)
			// Guard the exponent against runaway iterations.
			if eta > 30 {
				eta = 30
			} else if eta < -30 {
				eta = -30
			}
			mu := math.Exp(eta)
			w := mu
			z := eta + (y[i]-mu)/mu

			for a := 0; a < p; a++ {
				if x[i][a] == 0 {
					continue
				}
				xa := x[i][a]
				xtwz[a] += xa * w * z
				for b := a; b < p; b++ {
					xtwx[a][b] += xa * w * x[i][b]
				}
			}
		}
		// Mirror the upper triangle.
		for a := 0; a < p; a++ {
			for b := 0; b < a; b++ {
				xtwx[a][b] = xtwx[b][a]
			}
		}

		next, err := solve(xtwx, xtwz)
		if err != nil {
			return nil, err
		}

		shift := 0.0
		for i := range beta {
			shift = math.Max(shift, math.Abs(next[i]-beta[i]))
		}
		beta = next
		if shift < irlsTolerance {
			break
		}
	}
	return beta, nil
}

// solve performs Gaussian elimination with partial pivoting on a copy of the
// system. The normal-equations matrix here is symmetric positive definite
// once the ridge term is added, so a singular pivot means degenerate data.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, models.ErrInsufficientData
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	sol := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := m[r][n]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * sol[c]
		}
		sol[r] = sum / m[r][r]
	}
	return sol, nil
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func collectTeams(history []models.MatchHistoryRow) []string {
	seen := make(map[string]struct{}, 32)
	for _, m := range history {
		seen[m.HomeTeam] = struct{}{}
		seen[m.AwayTeam] = struct{}{}
	}
	teams := make([]string, 0, len(seen))
	for team := range seen {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
