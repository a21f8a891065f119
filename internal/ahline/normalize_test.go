package ahline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSurplusSplit(t *testing.T) {
	// 50 + 30 + 30 = 110: the 10 surplus comes off home and away equally.
	probs := Normalize(50, 30, 30)

	assert.InDelta(t, 45.0, probs.HomePct, 1e-9)
	assert.InDelta(t, 25.0, probs.AwayPct, 1e-9)
	assert.InDelta(t, 30.0, probs.DrawPct, 1e-9)
	assert.InDelta(t, 100.0, probs.HomePct+probs.AwayPct+probs.DrawPct, 1e-9)
}

func TestNormalizeDeficitSplit(t *testing.T) {
	probs := Normalize(40, 20, 20)

	assert.InDelta(t, 50.0, probs.HomePct, 1e-9)
	assert.InDelta(t, 30.0, probs.AwayPct, 1e-9)
	assert.InDelta(t, 20.0, probs.DrawPct, 1e-9)
}

func TestNormalizeDetectsDecimalInput(t *testing.T) {
	probs := Normalize(0.45, 0.30, 0.25)

	assert.InDelta(t, 45.0, probs.HomePct, 1e-9)
	assert.InDelta(t, 30.0, probs.AwayPct, 1e-9)
	assert.InDelta(t, 25.0, probs.DrawPct, 1e-9)
}

func TestNormalizeTinyDrawStaysPercentage(t *testing.T) {
	// A legitimately small draw percentage next to percentage home/away is
	// not rescaled, only clamped to the floor.
	probs := Normalize(55, 44, 0.9)

	assert.InDelta(t, MinProbPct, probs.DrawPct, 1e-9)
	assert.InDelta(t, 53.0, probs.HomePct, 1e-9)
	assert.InDelta(t, 42.0, probs.AwayPct, 1e-9)
	assert.InDelta(t, 100.0, probs.HomePct+probs.AwayPct+probs.DrawPct, 1e-9)
}

func TestNormalizeClampsExtremes(t *testing.T) {
	probs := Normalize(98, 1, 1)

	assert.LessOrEqual(t, probs.HomePct, MaxProbPct)
	assert.GreaterOrEqual(t, probs.AwayPct, MinProbPct)
	assert.GreaterOrEqual(t, probs.DrawPct, MinProbPct)
}

func TestFavoriteTieGoesToHome(t *testing.T) {
	probs := NormalizedProbs{HomePct: 40, AwayPct: 40, DrawPct: 20}

	homeIsFav, favPct := probs.Favorite()
	assert.True(t, homeIsFav)
	assert.Equal(t, 40.0, favPct)
}

func TestFavoriteAway(t *testing.T) {
	probs := NormalizedProbs{HomePct: 30, AwayPct: 45, DrawPct: 25}

	homeIsFav, favPct := probs.Favorite()
	assert.False(t, homeIsFav)
	assert.Equal(t, 45.0, favPct)
}
