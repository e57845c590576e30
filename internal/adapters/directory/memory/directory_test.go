package memory

import (
	"context"
	"testing"

	"github.com/bnema/loanflow/internal/adapters/directory"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryFindsDefaultApplicants(t *testing.T) {
	t.Parallel()

	dir := New(directory.Defaults())

	priya, err := dir.FindByIdentity(context.Background(), "FGHIJ5678K")
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", priya.Name)
	assert.Equal(t, 742, priya.CreditScore)
	assert.Equal(t, int64(95000), priya.MonthlyIncome)

	sneha, err := dir.FindByIdentity(context.Background(), "QRSTU3456V")
	require.NoError(t, err)
	assert.Equal(t, 672, sneha.CreditScore)
}

func TestDirectoryUnknownApplicant(t *testing.T) {
	t.Parallel()

	_, err := New(directory.Defaults()).FindByIdentity(context.Background(), "ZZZZZ9999Z")
	require.ErrorIs(t, err, domain.ErrApplicantNotFound)
}

func TestDirectoryHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(directory.Defaults()).FindByIdentity(ctx, "FGHIJ5678K")
	require.ErrorIs(t, err, context.Canceled)
}
