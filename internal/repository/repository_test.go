package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/llNABSll/customer-api/internal/model"
	"github.com/llNABSll/customer-api/pkg/db/transactor"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const connectionTimeout = 3 * time.Second

const (
	pgContainerName = "pg-test-customer-api"
	pgTestUser      = "test"
	pgTestPassword  = "test"
	pgTestDB        = "customers"
)

var pgPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

//nolint:funlen // function contains a lot of boilerplate actions
func runWithPostgres(m *testing.M) int {
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Warnf("docker is not available, repository tests will be skipped - %v", err)
		return m.Run()
	}

	if err := dockerPool.Client.Ping(); err != nil {
		logrus.Warnf("docker is not responding, repository tests will be skipped - %v", err)
		return m.Run()
	}

	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       pgContainerName,
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
	})
	if err != nil {
		logrus.Errorf("failed to start postgresql - %v", err)
		return 1
	}

	defer func() {
		if err := dockerPool.Purge(postgres); err != nil {
			logrus.Errorf("failed to purge postgres container - %v", err)
		}
	}()

	pgURI := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable",
		pgTestUser, pgTestPassword, postgres.GetPort("5432/tcp"), pgTestDB)

	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		pgPool, err = pgxpool.Connect(ctx, pgURI)
		if err != nil {
			return err
		}
		return pgPool.Ping(ctx)
	})
	if err != nil {
		logrus.Errorf("failed to establish connection to postgresql - %v", err)
		return 1
	}

	defer pgPool.Close()

	// apply customers table ddl
	migrationsPath, err := filepath.Abs("../../migrations/V1__create_customers_table.sql")
	if err != nil {
		logrus.Errorf("failed to find migrations path - %v", err)
		return 1
	}

	ddl, err := os.ReadFile(migrationsPath)
	if err != nil {
		logrus.Errorf("failed to read customers ddl - %v", err)
		return 1
	}

	if _, err := pgPool.Exec(context.Background(), string(ddl)); err != nil {
		logrus.Errorf("failed to apply customers ddl - %v", err)
		return 1
	}

	return m.Run()
}

func testRepository(t *testing.T) CustomerRepository {
	t.Helper()

	if pgPool == nil {
		t.Skip("docker is not available")
	}

	t.Cleanup(func() {
		// sequence is deliberately not restarted, ids must not be reused
		_, err := pgPool.Exec(context.Background(), "TRUNCATE customers")
		require.NoError(t, err, "failed to clean up customers table")
	})

	return NewPostgresCustomerRepository(transactor.NewPgxWithinTransactionExecutor(pgPool))
}

func TestCreateAssignsFreshIdentifiers(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	first := &model.Customer{Name: "A", Email: "a@x.com"}
	second := &model.Customer{Name: "B", Email: "b@x.com"}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NotZero(t, first.ID, "id must be assigned on creation")
	require.Greater(t, second.ID, first.ID, "ids must be allocated monotonically")
}

func TestCreateAfterDeleteDoesNotReuseID(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	first := &model.Customer{Name: "A", Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, first))

	removed, err := repo.DeleteByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)

	second := &model.Customer{Name: "B", Email: "b@x.com"}
	require.NoError(t, repo.Create(ctx, second))
	require.Greater(t, second.ID, first.ID, "id of deleted customer must not be reused")
}

func TestFindByIDRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	company := "Initech"
	phone := "+3725550199"
	created := &model.Customer{Name: "John Walls", Email: "john.walls@somemal.com", Company: &company, Phone: &phone}
	require.NoError(t, repo.Create(ctx, created))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, found, "found customer must match created one in all fields")
}

func TestFindByIDMissing(t *testing.T) {
	repo := testRepository(t)

	found, err := repo.FindByID(context.Background(), 404404)
	require.NoError(t, err, "missing customer must not be an error at repository level")
	require.Nil(t, found, "no customer must be returned")
}

func TestFindAllOrderedByID(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	customers := []*model.Customer{
		{Name: "A", Email: "a@x.com"},
		{Name: "B", Email: "b@x.com"},
		{Name: "C", Email: "c@x.com"},
	}
	for _, c := range customers {
		require.NoError(t, repo.Create(ctx, c))
	}

	found, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, found, len(customers), "all created customers must be listed")

	for i, c := range found {
		require.Equal(t, customers[i], c, "customers must be listed in insertion order")
	}
}

func TestFindAllEmpty(t *testing.T) {
	repo := testRepository(t)

	found, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, found, "empty store must list no customers")
	require.NotNil(t, found, "empty list must be a sequence, not absence")
}

func TestUpdateReplacesAllFields(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	company := "Initech"
	created := &model.Customer{Name: "A", Email: "a@x.com", Company: &company}
	require.NoError(t, repo.Create(ctx, created))

	updated := &model.Customer{ID: created.ID, Name: "B", Email: "b@x.com", Company: nil, Phone: nil}
	affected, err := repo.Update(ctx, updated)
	require.NoError(t, err)
	require.True(t, affected, "existing row must be affected")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, found, "update must replace fields wholesale, nil optional clears the column")
}

func TestUpdateMissing(t *testing.T) {
	repo := testRepository(t)

	affected, err := repo.Update(context.Background(), &model.Customer{ID: 404404, Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	require.False(t, affected, "no row must be affected for missing id")
}

func TestUpdateJoinsAmbientTransaction(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	created := &model.Customer{Name: "A", Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, created))

	trx := transactor.NewPgxTransactor(pgPool)
	err := trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := repo.FindByID(txCtx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, existing)

		existing.Name = "B"
		_, err = repo.Update(txCtx, existing)
		return err
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "B", found.Name, "update made within transaction must be committed")
}

func TestDeleteByIDReturnsRemovedRow(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	created := &model.Customer{Name: "A", Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, created))

	removed, err := repo.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, removed, "removed row must be returned for the deletion event payload")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, found, "deleted customer must be gone")
}

func TestDeleteByIDMissing(t *testing.T) {
	repo := testRepository(t)

	removed, err := repo.DeleteByID(context.Background(), 404404)
	require.NoError(t, err, "missing customer must not be an error at repository level")
	require.Nil(t, removed, "no row must be returned")
}
