package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/loanflow/internal/adapters/directory"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()

	store, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestStoreSeedAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Seed(ctx, directory.Defaults()))

	priya, err := store.FindByIdentity(ctx, "FGHIJ5678K")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicantRecord{
		CustomerID:     "CUST002",
		IdentityNumber: "FGHIJ5678K",
		Name:           "Priya Sharma",
		EmploymentType: domain.EmploymentSalaried,
		MonthlyIncome:  95000,
		CreditScore:    742,
	}, priya)
}

func TestStoreSeedReplacesExistingRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Seed(ctx, directory.Defaults()))

	updated := directory.Defaults()[1]
	updated.CreditScore = 801
	require.NoError(t, store.Seed(ctx, []domain.ApplicantRecord{updated}))

	got, err := store.FindByIdentity(ctx, updated.IdentityNumber)
	require.NoError(t, err)
	assert.Equal(t, 801, got.CreditScore)
}

func TestStoreMigrateIsRepeatable(t *testing.T) {
	t.Parallel()

	store := openSQLite(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestStoreUnknownApplicant(t *testing.T) {
	t.Parallel()

	_, err := openSQLite(t).FindByIdentity(context.Background(), "ZZZZZ9999Z")
	require.ErrorIs(t, err, domain.ErrApplicantNotFound)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open("mysql", "dsn")
	require.ErrorContains(t, err, "unsupported directory driver")

	_, err = Open(DriverSQLite, " ")
	require.Error(t, err)
}

func TestRebindNumbersPostgresPlaceholders(t *testing.T) {
	t.Parallel()

	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestStorePostgres(t *testing.T) {
	dsn := os.Getenv("LF_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LF_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := Open(DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Seed(ctx, directory.Defaults()))

	sneha, err := store.FindByIdentity(ctx, "QRSTU3456V")
	require.NoError(t, err)
	assert.Equal(t, 672, sneha.CreditScore)
}
