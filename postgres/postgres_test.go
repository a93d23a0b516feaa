package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/studyplan"
	"github.com/meikuraledutech/studyplan/internal/storetest"
	"github.com/stretchr/testify/require"
)

// The suite needs a disposable database; its tables are dropped between tests.
func TestPGStoreContract(t *testing.T) {
	dbURL := os.Getenv("STUDYPLAN_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("STUDYPLAN_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	storetest.Run(t, func(t *testing.T) studyplan.Store {
		store := New(pool)
		require.NoError(t, store.DropSchema(ctx))
		require.NoError(t, store.CreateSchema(ctx))
		return store
	})
}

func TestTextArray(t *testing.T) {
	require.NotNil(t, textArray(nil))
	require.Equal(t, []string{"A"}, textArray([]string{"A"}))
}
