package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSubstrateContract runs a suite of tests to verify that a Substrate implementation
// adheres to the defined interface contract.
func RunSubstrateContract(t *testing.T, sub Substrate) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Available", func(t *testing.T) {
		assert.True(t, sub.Available(ctx), "fresh substrate should be available")
	})

	t.Run("Set and Get", func(t *testing.T) {
		value := `{"currentStep":2,"formData":{"firstName":"Ana"}}`
		require.NoError(t, sub.Set(ctx, key, value), "Set should not return error")

		got, err := sub.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, value, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, sub.Set(ctx, key, "first"))
		require.NoError(t, sub.Set(ctx, key, "second"))

		got, err := sub.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", got, "last writer wins")
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := sub.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, sub.Set(ctx, key, "value"))
		require.NoError(t, sub.Remove(ctx, key), "Remove should not return error")

		_, err := sub.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Get after Remove should return ErrNotFound")

		assert.NoError(t, sub.Remove(ctx, key), "Remove should be idempotent")
	})

	lister, ok := sub.(Lister)
	if !ok {
		return
	}

	t.Run("Keys", func(t *testing.T) {
		prefix := key + ":wf:"
		id1 := prefix + "1"
		id2 := prefix + "2"
		require.NoError(t, sub.Set(ctx, id1, "a"))
		require.NoError(t, sub.Set(ctx, id2, "b"))
		require.NoError(t, sub.Set(ctx, "other-"+key, "c"))

		defer func() {
			_ = sub.Remove(ctx, id1)
			_ = sub.Remove(ctx, id2)
			_ = sub.Remove(ctx, "other-"+key)
		}()

		keys, err := lister.Keys(ctx, prefix)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{id1, id2}, keys, fmt.Sprintf("keys under %q", prefix))
	})
}
