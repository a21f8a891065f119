// Package qscore maps raw fixture evidence to the fixed Q1..Q19 battery of
// bounded integer scores.
package qscore

import (
	"strconv"
	"strings"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Shape is a collapsed formation: defenders, midfielders, forwards.
type Shape struct {
	Defenders   int
	Midfielders int
	Forwards    int
}

// ParseFormation parses "d-d-d" or "d-d-d-d" strings. Four-band formations
// are collapsed: defenders, sum of the middle bands, forwards.
func ParseFormation(s string) (Shape, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 && len(parts) != 4 {
		return Shape{}, models.ErrInvalidFormation
	}

	nums := make([]int, 0, len(parts))
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 10 {
			return Shape{}, models.ErrInvalidFormation
		}
		nums = append(nums, n)
		total += n
	}
	if total != 10 {
		return Shape{}, models.ErrInvalidFormation
	}

	shape := Shape{Defenders: nums[0], Forwards: nums[len(nums)-1]}
	for _, mid := range nums[1 : len(nums)-1] {
		shape.Midfielders += mid
	}
	return shape, nil
}

// Archetype buckets a shape into the three tactical families used by the
// matchup table.
type Archetype string

// Tactical archetypes.
const (
	Archetype433 Archetype = "4-3-3"
	Archetype442 Archetype = "4-4-2"
	Archetype352 Archetype = "3-5-2"
)

// Classify maps a shape to its nearest archetype.
func (s Shape) Classify() Archetype {
	switch {
	case s.Defenders <= 3 || s.Midfielders >= 5:
		return Archetype352
	case s.Forwards >= 3:
		return Archetype433
	default:
		return Archetype442
	}
}

// MatchupOutcome is the result of a tactical pairing for one side.
type MatchupOutcome int

// Matchup outcomes.
const (
	MatchupNeutral MatchupOutcome = iota
	MatchupAdvantage
	MatchupDisadvantage
)

// beats encodes the rock-paper-scissors cycle: 4-3-3 beats 4-4-2,
// 3-5-2 beats 4-3-3, 4-4-2 beats 3-5-2.
var beats = map[Archetype]Archetype{
	Archetype433: Archetype442,
	Archetype352: Archetype433,
	Archetype442: Archetype352,
}

// Matchup returns the outcome for the first archetype against the second.
// Mirrored archetypes are neutral.
func Matchup(a, b Archetype) MatchupOutcome {
	if a == b {
		return MatchupNeutral
	}
	if beats[a] == b {
		return MatchupAdvantage
	}
	if beats[b] == a {
		return MatchupDisadvantage
	}
	return MatchupNeutral
}
