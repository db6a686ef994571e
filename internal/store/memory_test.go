package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcast-dev/flowcast/internal/model"
)

func seedState(companyID string) *State {
	gid := "grp_1"
	return &State{
		Company: Company{
			ID:             companyID,
			Name:           "Acme",
			CreatedAt:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			CurrentBalance: decimal.NewFromInt(5000),
		},
		Transactions: []model.Transaction{
			{ID: 1, Date: model.NewDate(2026, time.January, 5), Description: "PAYROLL", Amount: decimal.NewFromInt(-2000), Type: model.TypeDebit, GroupID: &gid, CategoryID: "payroll"},
		},
		Groups: []model.Group{
			{ID: gid, Name: "Payroll", CategoryID: "payroll", Frequency: model.FreqSemiMonthly, AvgAmount: decimal.NewFromInt(-2000), TransactionCount: 1, TransactionIDs: []int{1}},
		},
	}
}

func TestMemory_GetNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_PutRequiresID(t *testing.T) {
	m := NewMemory()
	err := m.Put(context.Background(), &State{})
	assert.Error(t, err)
}

func TestMemory_PutGetRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, seedState("acme")))

	got, err := m.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company.Name)
	require.Len(t, got.Transactions, 1)
	require.Len(t, got.Groups, 1)
	assert.True(t, got.Company.CurrentBalance.Equal(decimal.NewFromInt(5000)))
	require.NotNil(t, got.Transactions[0].GroupID)
	assert.Equal(t, "grp_1", *got.Transactions[0].GroupID)
}

func TestMemory_GetReturnsIsolatedCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, seedState("acme")))

	got, err := m.Get(ctx, "acme")
	require.NoError(t, err)

	// Mutate the returned copy heavily.
	got.Company.Name = "Changed"
	got.Transactions[0].Description = "TAMPERED"
	*got.Transactions[0].GroupID = "grp_999"
	got.Groups[0].TransactionIDs[0] = 42

	fresh, err := m.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", fresh.Company.Name)
	assert.Equal(t, "PAYROLL", fresh.Transactions[0].Description)
	assert.Equal(t, "grp_1", *fresh.Transactions[0].GroupID)
	assert.Equal(t, []int{1}, fresh.Groups[0].TransactionIDs)
}

func TestMemory_PutStoresCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	state := seedState("acme")
	require.NoError(t, m.Put(ctx, state))

	// Mutations after Put must not leak into the store.
	state.Transactions[0].Description = "TAMPERED"

	got, err := m.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "PAYROLL", got.Transactions[0].Description)
}

func TestMemory_ListAndCount(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, seedState("acme")))
	require.NoError(t, m.Put(ctx, seedState("globex")))

	companies, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	count, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemory_PutReplaces(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, seedState("acme")))

	replacement := seedState("acme")
	replacement.Transactions = nil
	replacement.Groups = nil
	require.NoError(t, m.Put(ctx, replacement))

	got, err := m.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Empty(t, got.Transactions)
	assert.Empty(t, got.Groups)
}
