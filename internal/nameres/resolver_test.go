package nameres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

var premierLeagueTeams = []string{
	"Arsenal",
	"Chelsea",
	"Manchester United",
	"Manchester City",
	"Newcastle United",
}

func TestResolveExact(t *testing.T) {
	r := NewCanonicalResolver(premierLeagueTeams, nil, nil)

	got, err := r.Resolve("Arsenal")
	assert.NoError(t, err)
	assert.Equal(t, "Arsenal", got)
}

func TestResolveNormalized(t *testing.T) {
	r := NewCanonicalResolver(premierLeagueTeams, nil, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"arsenal fc", "Arsenal"},
		{"  CHELSEA ", "Chelsea"},
		{"Newcastle United FC", "Newcastle United"},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.in)
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestResolveAlias(t *testing.T) {
	aliases := map[string]string{
		"Man Utd":  "Manchester United",
		"Man City": "Manchester City",
	}
	r := NewCanonicalResolver(premierLeagueTeams, aliases, nil)

	got, err := r.Resolve("man utd")
	assert.NoError(t, err)
	assert.Equal(t, "Manchester United", got)
}

func TestResolveFuzzy(t *testing.T) {
	r := NewCanonicalResolver(premierLeagueTeams, nil, nil)

	// One transposition away
	got, err := r.Resolve("Chelsae")
	assert.NoError(t, err)
	assert.Equal(t, "Chelsea", got)
}

func TestResolveUnknown(t *testing.T) {
	r := NewCanonicalResolver(premierLeagueTeams, nil, nil)

	_, err := r.Resolve("Real Madrid")
	assert.ErrorIs(t, err, models.ErrUnknownTeam)
}

func TestResolveEmpty(t *testing.T) {
	r := NewCanonicalResolver(premierLeagueTeams, nil, nil)

	_, err := r.Resolve("   ")
	assert.ErrorIs(t, err, models.ErrUnknownTeam)
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"kitten", "sitting", 3},
		{"arsenal", "arsenal", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistance(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
