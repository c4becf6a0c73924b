package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSubstrateContract(t, store)
}

func TestMemoryStore_Disabled(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, "k", "v"))

	store.SetDisabled(true)
	assert.False(t, store.Available(ctx))
	assert.ErrorIs(t, store.Set(ctx, "k", "v2"), domain.ErrStorageUnavailable)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	store.SetDisabled(false)
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemoryStore_Quota(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithQuota(16))

	require.NoError(t, store.Set(ctx, "k", "12345"))
	require.NoError(t, store.Set(ctx, "k", strings.Repeat("x", 15)), "overwrite replaces the old entry size")
	assert.ErrorIs(t, store.Set(ctx, "k", strings.Repeat("x", 16)), domain.ErrQuotaExceeded)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, got, 15, "failed write leaves previous value intact")
}
