package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

func TestModelCacheSetGet(t *testing.T) {
	cache := NewModelCache(time.Hour)
	key := ModelKey{League: "premier_league", Season: "2024-25", Cutoff: "2025-03-01"}

	_, found := cache.Get(key)
	assert.False(t, found)

	cache.Set(key, leagueModel())
	model, found := cache.Get(key)
	require.True(t, found)
	assert.Equal(t, "premier_league", model.League)
	assert.Equal(t, 1, cache.Len())
}

func TestModelCacheGetByLeague(t *testing.T) {
	cache := NewModelCache(time.Hour)
	cache.Set(ModelKey{League: "premier_league", Season: "2024-25"}, leagueModel())

	model, found := cache.GetByLeague("premier_league")
	require.True(t, found)
	assert.Equal(t, "premier_league", model.League)

	_, found = cache.GetByLeague("la_liga")
	assert.False(t, found)
}

func TestModelCacheGetByLeaguePrefersNewestCutoff(t *testing.T) {
	cache := NewModelCache(time.Hour)

	older := leagueModel()
	older.Matches = 159
	newer := leagueModel()
	newer.Matches = 41
	cache.Set(ModelKey{League: "premier_league", Season: "2024-25", Cutoff: "2025-02-28"}, older)
	cache.Set(ModelKey{League: "premier_league", Season: "2024-25", Cutoff: "2025-03-01"}, newer)

	// Two overlapping slices must always resolve to the newest fit.
	for i := 0; i < 200; i++ {
		model, found := cache.GetByLeague("premier_league")
		require.True(t, found)
		assert.Equal(t, 41, model.Matches)
	}
}

func TestModelCacheKeyString(t *testing.T) {
	key := ModelKey{League: "la_liga", Season: "2024-25", Cutoff: "2025-03-01"}
	assert.Equal(t, "la_liga:2024-25:2025-03-01", key.String())
}

func TestModelCacheExpiry(t *testing.T) {
	cache := NewModelCache(10 * time.Millisecond)
	key := ModelKey{League: "premier_league"}
	cache.Set(key, leagueModel())

	time.Sleep(30 * time.Millisecond)
	_, found := cache.Get(key)
	assert.False(t, found)
}

func TestModelCacheDefaultTTL(t *testing.T) {
	cache := NewModelCache(0)
	cache.Set(ModelKey{League: "premier_league"}, &statmodel.Model{League: "premier_league"})
	assert.Equal(t, 1, cache.Len())
}
