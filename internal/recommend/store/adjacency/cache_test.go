package adjacency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLoader struct {
	table map[string][]string
	err   error
}

func (l *failingLoader) LoadAll(_ context.Context) (map[string][]string, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.table, nil
}

func TestCacheServesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(KoreaRegions())
	cache, err := NewCache(ctx, store)
	require.NoError(t, err)

	got, err := cache.Adjacent(ctx, "Seoul")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gyeonggi", "Incheon"}, got)

	isolated, err := cache.Adjacent(ctx, "Jeju")
	require.NoError(t, err)
	assert.Empty(t, isolated)

	unknown, err := cache.Adjacent(ctx, "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestCacheRefreshPicksUpEdits(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(KoreaRegions())
	cache, err := NewCache(ctx, store)
	require.NoError(t, err)

	store.Set("Jeju", "Jeonnam")
	before, _ := cache.Adjacent(ctx, "Jeju")
	assert.Empty(t, before)

	require.NoError(t, cache.Refresh(ctx))
	after, _ := cache.Adjacent(ctx, "Jeju")
	assert.Equal(t, []string{"Jeonnam"}, after)
}

func TestCacheKeepsSnapshotOnFailedRefresh(t *testing.T) {
	ctx := context.Background()
	loader := &failingLoader{table: map[string][]string{"Busan": {"Ulsan"}}}
	cache, err := NewCache(ctx, loader)
	require.NoError(t, err)

	loader.err = errors.New("db down")
	require.Error(t, cache.Refresh(ctx))

	got, err := cache.Adjacent(ctx, "Busan")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ulsan"}, got)
}

func TestCallerCannotMutateSnapshot(t *testing.T) {
	ctx := context.Background()
	cache, err := NewCache(ctx, NewInMemoryStore(KoreaRegions()))
	require.NoError(t, err)

	got, _ := cache.Adjacent(ctx, "Busan")
	got[0] = "Tokyo"
	again, _ := cache.Adjacent(ctx, "Busan")
	assert.Equal(t, "Ulsan", again[0])
}

func TestKoreaRegionsReferenceKnownRegions(t *testing.T) {
	table := KoreaRegions()
	for main, neighbours := range table {
		for _, n := range neighbours {
			_, ok := table[n]
			assert.True(t, ok, "%s lists unknown neighbour %s", main, n)
			assert.NotEqual(t, main, n)
		}
	}
}
