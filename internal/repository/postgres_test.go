package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

func setupPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := NewPostgresRepository(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestPostgresRepository_Lifecycle(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	s := newSession("cs_pg")
	s.Fulfillment = &model.Fulfillment{Type: model.FulfillmentTypeShipping, SelectedOptionID: "pickup"}
	require.NoError(t, repo.Insert(ctx, s))
	assert.ErrorIs(t, repo.Insert(ctx, s), ErrSessionExists)

	got, err := repo.Get(ctx, "cs_pg")
	require.NoError(t, err)
	assert.Equal(t, "pickup", got.Fulfillment.SelectedOptionID)

	updated, err := repo.Update(ctx, "cs_pg", func(s *model.Session) error {
		s.Terminal = model.StatusCanceled
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCanceled, updated.Terminal)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "cs_pg", func(s *model.Session) error {
		s.Terminal = ""
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err = repo.Get(ctx, "cs_pg")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCanceled, got.Terminal)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPostgresRepository_ConcurrentUpdates(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newSession("cs_pg")))

	const n = 20
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := repo.Update(gctx, "cs_pg", func(s *model.Session) error {
				s.LineItems[0].Quantity++
				return nil
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := repo.Get(ctx, "cs_pg")
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), got.LineItems[0].Quantity)
}
