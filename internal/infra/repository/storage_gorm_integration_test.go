//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupGormDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgC.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StorageEntry{}, &model.ClientErrorReport{}))
	return db
}

func TestStorageGormRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewStorageGormRepository(setupGormDB(t))

	_, err := r.Get(ctx, "dev", "ecommerce_auth")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.Set(ctx, "dev", "ecommerce_auth", `{"accessToken":"a"}`))
	// 上書き
	require.NoError(t, r.Set(ctx, "dev", "ecommerce_auth", `{"accessToken":"b"}`))

	v, err := r.Get(ctx, "dev", "ecommerce_auth")
	require.NoError(t, err)
	assert.Equal(t, `{"accessToken":"b"}`, v)

	require.NoError(t, r.Set(ctx, "dev", "ecommerce_view_mode", "ADMIN"))
	require.NoError(t, r.Delete(ctx, "dev", "ecommerce_auth", "ecommerce_view_mode"))

	_, err = r.Get(ctx, "dev", "ecommerce_view_mode")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestClientErrorGormRepository_CreateList(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewClientErrorGormRepository(setupGormDB(t))

	require.NoError(t, r.Create(ctx, &model.ClientErrorReport{Device: "dev-a", Message: "first", Component: "cart"}))
	second := &model.ClientErrorReport{Device: "dev-b", Message: "second", Component: "checkout"}
	require.NoError(t, r.Create(ctx, second))
	assert.NotZero(t, second.ID)

	all, err := r.List(ctx, repo.ClientErrorFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Message)

	dev := "dev-a"
	own, err := r.List(ctx, repo.ClientErrorFilter{Device: &dev})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "first", own[0].Message)
}
