package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcast-dev/flowcast/internal/forecast"
	"github.com/flowcast-dev/flowcast/internal/model"
	"github.com/flowcast-dev/flowcast/internal/store"
)

const sampleStatement = "JAN 05, 2026\n" +
	"GUSTO PAYROLL\t-2000.00\n" +
	"01/12/2026\n" +
	"GUSTO PAYROLL\t-2100.00\n" +
	"MISC OFFICE THING\t-42.00\n" +
	"MISC OFFICE THING\t-48.00\n" +
	"BORING SINGLETON\t-100.00\n"

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemory()
	err := st.Put(context.Background(), &store.State{
		Company: store.Company{ID: "acme", Name: "Acme", CurrentBalance: decimal.NewFromInt(10000)},
	})
	require.NoError(t, err)
	return NewService(st, store.NewLocks()), st
}

// assertPartition checks the membership partition invariant: grouped counts
// plus ungrouped transactions always cover the whole batch exactly.
func assertPartition(t *testing.T, state *store.State) {
	t.Helper()
	grouped := 0
	for _, g := range state.Groups {
		assert.Equal(t, len(g.TransactionIDs), g.TransactionCount)
		grouped += g.TransactionCount
	}
	ungrouped := 0
	for _, txn := range state.Transactions {
		if txn.GroupID == nil {
			ungrouped++
		}
	}
	assert.Equal(t, len(state.Transactions), grouped+ungrouped)
}

func TestImport(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	result, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TransactionsImported)
	assert.Equal(t, 2, result.GroupsDetected)
	require.NotNil(t, result.DateRange.Start)
	assert.Equal(t, "2026-01-05", result.DateRange.Start.String())
	assert.Equal(t, "2026-01-12", result.DateRange.End.String())

	state, err := st.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, SetupStepCategorization, state.Company.SetupStep)
	assert.Len(t, state.Transactions, 5)
	assert.Len(t, state.Groups, 2)
	assertPartition(t, state)
}

func TestImport_UnknownCompany(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Import(context.Background(), "ghost", sampleStatement)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImport_ReplacesPreviousBatch(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	result, err := svc.Import(ctx, "acme", "01/20/2026\nSOLO VENDOR\t-10.00\n")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TransactionsImported)
	assert.Equal(t, 0, result.GroupsDetected)

	state, err := st.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, state.Transactions, 1)
	assert.Empty(t, state.Groups)
}

func TestImport_EmptyBatchSucceeds(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Import(context.Background(), "acme", "nothing parseable here")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TransactionsImported)
	assert.Nil(t, result.DateRange.Start)
	assert.Nil(t, result.DateRange.End)
}

func TestGroups_IncludesReferenceTables(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	view, err := svc.Groups(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, view.Groups, 2)
	assert.NotEmpty(t, view.Categories)
	assert.Len(t, view.Frequencies, 7)
}

func TestDetail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, "acme", "grp_1")
	require.NoError(t, err)
	assert.Equal(t, "Payroll", detail.Group.Name)
	assert.Len(t, detail.Transactions, 2)
	for _, txn := range detail.Transactions {
		assert.Equal(t, "GUSTO PAYROLL", txn.Description)
	}

	_, err = svc.Detail(ctx, "acme", "grp_99")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateGroup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	name := "Team payroll"
	freq := model.FreqSemiMonthly
	confirmed := true
	group, err := svc.UpdateGroup(ctx, "acme", "grp_1", UpdateGroupParams{
		Name:      &name,
		Frequency: &freq,
		Confirmed: &confirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Team payroll", group.Name)
	assert.Equal(t, model.FreqSemiMonthly, group.Frequency)
	assert.True(t, group.Confirmed)

	// Persisted.
	view, err := svc.Groups(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Team payroll", view.Groups[0].Name)
	assert.True(t, view.Groups[0].Confirmed)
}

func TestUpdateGroup_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	badCat := "not_a_category"
	_, err = svc.UpdateGroup(ctx, "acme", "grp_1", UpdateGroupParams{CategoryID: &badCat})
	assert.ErrorContains(t, err, "unknown category")

	badFreq := model.Frequency("fortnightly")
	_, err = svc.UpdateGroup(ctx, "acme", "grp_1", UpdateGroupParams{Frequency: &badFreq})
	assert.ErrorContains(t, err, "unknown frequency")

	_, err = svc.UpdateGroup(ctx, "acme", "grp_99", UpdateGroupParams{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMoveTransactions_ToExistingGroup(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	// Move the ungrouped -100 singleton (id 5) into the payroll group.
	result, err := svc.MoveTransactions(ctx, "acme", MoveParams{
		TransactionIDs: []int{5},
		TargetGroupID:  "grp_1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, "grp_1", result.TargetGroupID)

	state, err := st.Get(ctx, "acme")
	require.NoError(t, err)
	assertPartition(t, state)

	payroll := state.Groups[0]
	assert.Equal(t, 3, payroll.TransactionCount)
	// (-2000 + -2100 + -100) / 3 = -1400, recomputed immediately.
	assert.True(t, payroll.AvgAmount.Equal(decimal.NewFromInt(-1400)), "got %s", payroll.AvgAmount)
}

func TestMoveTransactions_ToNewGroup(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	result, err := svc.MoveTransactions(ctx, "acme", MoveParams{
		TransactionIDs: []int{3, 4},
		NewGroup: &NewGroupParams{
			Name:       "Office misc",
			CategoryID: "daily_ops",
			Frequency:  model.FreqMonthly,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Moved)
	assert.Equal(t, "grp_3", result.TargetGroupID)

	state, err := st.Get(ctx, "acme")
	require.NoError(t, err)
	assertPartition(t, state)

	// Source fallback group is drained and its average reset.
	source := state.Groups[1]
	assert.Equal(t, 0, source.TransactionCount)
	assert.True(t, source.AvgAmount.IsZero())

	created := state.Groups[2]
	assert.Equal(t, "Office misc", created.Name)
	assert.Equal(t, "daily_ops", created.CategoryID)
	assert.Equal(t, model.FreqMonthly, created.Frequency)
	assert.Equal(t, []int{3, 4}, created.TransactionIDs)
	assert.True(t, created.AvgAmount.Equal(decimal.NewFromInt(-45)), "got %s", created.AvgAmount)
	assert.False(t, created.Confirmed)
}

func TestMoveTransactions_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	_, err = svc.MoveTransactions(ctx, "acme", MoveParams{TargetGroupID: "grp_1"})
	assert.ErrorContains(t, err, "no transaction ids")

	_, err = svc.MoveTransactions(ctx, "acme", MoveParams{TransactionIDs: []int{99}, TargetGroupID: "grp_1"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.MoveTransactions(ctx, "acme", MoveParams{TransactionIDs: []int{1}, TargetGroupID: "grp_42"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.MoveTransactions(ctx, "acme", MoveParams{TransactionIDs: []int{1}, NewGroup: &NewGroupParams{}})
	assert.ErrorContains(t, err, "name is required")
}

func TestForecast(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	// Not ready until a group is confirmed.
	_, err = svc.Forecast(ctx, "acme", 14)
	assert.ErrorIs(t, err, forecast.ErrNotReady)

	confirmed := true
	_, err = svc.UpdateGroup(ctx, "acme", "grp_1", UpdateGroupParams{Confirmed: &confirmed})
	require.NoError(t, err)

	// Pin "today" to Monday 2026-01-05; the weekly payroll group fires on
	// the two Mondays in range.
	svc.now = func() time.Time { return time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC) }

	result, err := svc.Forecast(ctx, "acme", 14)
	require.NoError(t, err)
	require.Len(t, result.Rows, 14)

	assert.True(t, result.Summary.StartingBalance.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "2026-01-12", result.Summary.LowPoint.Date.String())
	assert.True(t, result.Summary.LowPoint.Balance.Equal(decimal.NewFromInt(5900)), "got %s", result.Summary.LowPoint.Balance)
}

func TestForecast_BadHorizon(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	_, err = svc.Forecast(ctx, "acme", 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, forecast.ErrNotReady)
}

func TestTrends(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Import(ctx, "acme", sampleStatement)
	require.NoError(t, err)

	result, err := svc.Trends(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, result.Weekly, 2)
	assert.Equal(t, "stable", string(result.Revenue))
	assert.Equal(t, "stable", string(result.Expenses))
}
