package persistence

import (
	"context"
	"testing"

	"github.com/estate/backend/internal/domain/broker"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBrokerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBrokerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	ayse, err := broker.NewBroker(tenantID, "Ayse Yilmaz", "Ayse@Example.com", "+90 555 000 0000")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ayse))

	mehmet, err := broker.NewBroker(tenantID, "Mehmet Demir", "mehmet@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, mehmet))

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, tenantID, "  AYSE@example.COM ")
		require.NoError(t, err)
		assert.Equal(t, ayse.ID, found.ID)
		assert.Equal(t, "Ayse Yilmaz", found.Name)
	})

	t.Run("directory lookup returns the ID", func(t *testing.T) {
		id, err := repo.FindBrokerIDByEmail(ctx, tenantID, "mehmet@example.com")
		require.NoError(t, err)
		assert.Equal(t, mehmet.ID, id)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.FindBrokerIDByEmail(ctx, tenantID, "nobody@example.com")
		assert.True(t, shared.IsNotFoundError(err))
	})

	t.Run("other tenant cannot see the broker", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New(), ayse.ID)
		assert.True(t, shared.IsNotFoundError(err))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup, err := broker.NewBroker(tenantID, "Someone Else", "ayse@example.com", "")
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		assert.True(t, shared.IsConflictError(err))
	})

	t.Run("updates in place", func(t *testing.T) {
		mehmet.Deactivate()
		require.NoError(t, repo.Save(ctx, mehmet))

		found, err := repo.FindByID(ctx, tenantID, mehmet.ID)
		require.NoError(t, err)
		assert.Equal(t, broker.StatusInactive, found.Status)
	})

	t.Run("lists with search and paging", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "name"
		filter.OrderDir = "asc"

		all, total, err := repo.List(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, all, 2)
		assert.Equal(t, "Ayse Yilmaz", all[0].Name)

		filter.Search = "mehmet"
		found, total, err := repo.List(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, mehmet.ID, found[0].ID)

		filter.Search = ""
		filter.Filters = map[string]any{"status": string(broker.StatusActive)}
		active, total, err := repo.List(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, ayse.ID, active[0].ID)
	})
}
