package company

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcast-dev/flowcast/internal/ledger"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newTestService() (*Service, store.Store, *store.Locks) {
	st := store.NewMemory()
	locks := store.NewLocks()
	return NewService(st, locks), st, locks
}

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateParams{Name: "Acme Widgets", Website: "https://acme.example"})
	require.NoError(t, err)
	assert.Equal(t, "acme_widgets", result.CompanyID)
	assert.Equal(t, "acme_w", result.AccessCode)

	company, err := svc.Get(ctx, "acme_widgets")
	require.NoError(t, err)
	assert.Equal(t, "Acme Widgets", company.Name)
	assert.Equal(t, "https://acme.example", company.Website)
	assert.Equal(t, SetupStepDataUpload, company.SetupStep)
	assert.Equal(t, DefaultPrimaryColor, company.PrimaryColor)
	assert.Equal(t, DefaultSecondaryColor, company.SecondaryColor)
	assert.True(t, company.CurrentBalance.IsZero())
	assert.False(t, company.CreatedAt.IsZero())
}

func TestCreate_EmptyNameFallsBack(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateParams{})
	require.NoError(t, err)
	assert.Equal(t, "co_1", result.CompanyID)

	company, err := svc.Get(ctx, "co_1")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, company.Name)
}

func TestCreate_LongNameTruncated(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Create(context.Background(), CreateParams{Name: "Very Long Company Name Incorporated"})
	require.NoError(t, err)
	assert.Len(t, result.CompanyID, 20)
	assert.Equal(t, "very_long_company_na", result.CompanyID)
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFetchBranding(t *testing.T) {
	b := FetchBranding("https://acme.example/about")
	assert.Equal(t, "https://logo.clearbit.com/acme.example", b.LogoURL)
	assert.Equal(t, DefaultPrimaryColor, b.PrimaryColor)
	assert.True(t, b.Extracted)

	b = FetchBranding("acme.example")
	assert.Equal(t, "https://logo.clearbit.com/acme.example", b.LogoURL)

	b = FetchBranding("")
	assert.Empty(t, b.LogoURL)
	assert.Equal(t, DefaultSecondaryColor, b.SecondaryColor)
}

func TestSetBalance(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateParams{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.SetBalance(ctx, result.CompanyID, decimal.RequireFromString("12345.67")))

	company, err := svc.Get(ctx, result.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "12345.67", company.CurrentBalance.String())

	err = svc.SetBalance(ctx, "ghost", decimal.Zero)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetBalance_HoldsCompanyLock(t *testing.T) {
	svc, _, locks := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateParams{Name: "Acme"})
	require.NoError(t, err)

	unlock := locks.Lock(result.CompanyID)

	done := make(chan error, 1)
	go func() { done <- svc.SetBalance(ctx, result.CompanyID, decimal.NewFromInt(500)) }()

	select {
	case <-done:
		t.Fatal("balance write completed while the company lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	require.NoError(t, <-done)

	company, err := svc.Get(ctx, result.CompanyID)
	require.NoError(t, err)
	assert.True(t, company.CurrentBalance.Equal(decimal.NewFromInt(500)))
}

func TestSetBalance_ConcurrentImportNotClobbered(t *testing.T) {
	svc, st, locks := newTestService()
	ledg := ledger.NewService(st, locks)
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateParams{Name: "Acme"})
	require.NoError(t, err)

	raw := "01/05/2026\nGUSTO PAYROLL\t-2000.00\nGUSTO PAYROLL\t-2100.00\n"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, importErr := ledg.Import(ctx, result.CompanyID, raw)
		assert.NoError(t, importErr)
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.SetBalance(ctx, result.CompanyID, decimal.NewFromInt(10000)))
	}()
	wg.Wait()

	// Whichever order the writes land in, the balance write must never put
	// a pre-import aggregate back over the imported batch.
	state, err := st.Get(ctx, result.CompanyID)
	require.NoError(t, err)
	assert.Len(t, state.Transactions, 2)
	assert.Len(t, state.Groups, 1)
	assert.True(t, state.Company.CurrentBalance.Equal(decimal.NewFromInt(10000)))
}

func TestSetSentiment(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, CreateParams{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.SetSentiment(ctx, result.CompanyID, store.Sentiment{Revenue: "grow"}))

	state, err := st.Get(ctx, result.CompanyID)
	require.NoError(t, err)
	require.NotNil(t, state.Sentiment)
	assert.Equal(t, "grow", state.Sentiment.Revenue)
	assert.Equal(t, "continue", state.Sentiment.Expenses, "empty expectations default to continue")

	err = svc.SetSentiment(ctx, "ghost", store.Sentiment{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
