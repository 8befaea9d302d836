package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gigurra/cashflow-forecast/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	version, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	// Running again is a no-op
	require.NoError(t, store.Migrate(ctx))
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "forecast.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(context.Background()))
	assert.FileExists(t, path)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestSaveProfile_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, internal.Profile{
		UserID:          "u1",
		CurrentBalance:  "1,250.00",
		Savings:         "500",
		WeeklySpendBand: 2,
	}))
	require.NoError(t, store.SaveProfile(ctx, internal.Profile{
		UserID:          "u1",
		University:      "Leeds",
		CurrentBalance:  "900",
		WeeklySpendBand: 3,
	}))

	p, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Leeds", p.University)
	assert.Equal(t, internal.Amount("900"), p.CurrentBalance)
	assert.Equal(t, internal.Amount(""), p.Savings)
	assert.Equal(t, 3, p.WeeklySpendBand)
}

func TestSaveProfile_RequiresUserID(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.SaveProfile(context.Background(), internal.Profile{CurrentBalance: "1"}))
}

func TestFetchUserData_NoProfile(t *testing.T) {
	store := newTestStore(t)

	data, err := store.FetchUserData(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, data.Profile)
	assert.Empty(t, data.Cashflows)
}

func TestInsertCashflows_OrderedByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.InsertCashflows(ctx, "u1", []internal.CashflowRecord{
		{Direction: "out", Title: "Rent", Amount: "650", Recurrence: "monthly", ScheduledDate: "2025-10-01"},
		{Direction: "in", Title: "Loan", Amount: "3,000.50", Recurrence: "termly", ScheduledDate: "2025-09-20", Source: "onboarding"},
		{Direction: "out", Title: "Gym", Amount: "25", Recurrence: "monthly", ScheduledDate: "2025-09-25"},
	})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, r := range stored {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "u1", r.UserID)
	}
	assert.NotEqual(t, stored[0].ID, stored[1].ID)

	// Other users' records are not returned
	_, err = store.InsertCashflows(ctx, "u2", []internal.CashflowRecord{
		{Direction: "out", Title: "Other", Amount: "1", Recurrence: "once", ScheduledDate: "2025-01-01"},
	})
	require.NoError(t, err)

	data, err := store.FetchUserData(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, data.Cashflows, 3)

	var titles []string
	for _, r := range data.Cashflows {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"Loan", "Gym", "Rent"}, titles)
	assert.Equal(t, internal.Amount("3,000.50"), data.Cashflows[0].Amount)
	assert.Equal(t, "onboarding", data.Cashflows[0].Source)
}

func TestInsertCashflows_Empty(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.InsertCashflows(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReplaceCashflows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.InsertCashflows(ctx, "u1", []internal.CashflowRecord{
		{Direction: "out", Title: "Old", Amount: "1", Recurrence: "once", ScheduledDate: "2025-01-01"},
	})
	require.NoError(t, err)
	_, err = store.InsertCashflows(ctx, "u2", []internal.CashflowRecord{
		{Direction: "out", Title: "Other user", Amount: "1", Recurrence: "once", ScheduledDate: "2025-01-01"},
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = store.ReplaceCashflows(ctx, "u1", []internal.CashflowRecord{
			{Direction: "out", Title: "New", Amount: "2", Recurrence: "once", ScheduledDate: "2025-02-01"},
		})
		require.NoError(t, err)
	}

	records, err := store.ListCashflows(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "New", records[0].Title)

	others, err := store.ListCashflows(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestUpdateCashflow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.InsertCashflows(ctx, "u1", []internal.CashflowRecord{
		{Direction: "out", Title: "Rent", Amount: "650", Recurrence: "monthly", ScheduledDate: "2025-10-01"},
	})
	require.NoError(t, err)

	updated := stored[0]
	updated.Amount = "700"
	updated.Title = "Rent (new flat)"
	require.NoError(t, store.UpdateCashflow(ctx, updated.ID, updated))

	records, err := store.ListCashflows(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, internal.Amount("700"), records[0].Amount)
	assert.Equal(t, "Rent (new flat)", records[0].Title)
	assert.Equal(t, stored[0].ID, records[0].ID)
}

func TestUpdateCashflow_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateCashflow(context.Background(), "missing", internal.CashflowRecord{Direction: "out", Amount: "1", ScheduledDate: "2025-01-01"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCashflow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.InsertCashflows(ctx, "u1", []internal.CashflowRecord{
		{Direction: "out", Title: "Rent", Amount: "650", Recurrence: "monthly", ScheduledDate: "2025-10-01"},
		{Direction: "out", Title: "Gym", Amount: "25", Recurrence: "monthly", ScheduledDate: "2025-09-25"},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteCashflow(ctx, stored[0].ID))
	assert.ErrorIs(t, store.DeleteCashflow(ctx, stored[0].ID), ErrNotFound)

	records, err := store.ListCashflows(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gym", records[0].Title)
}

func TestStoredRecordsBuildRules(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, internal.Profile{UserID: "u1", CurrentBalance: "100"}))
	_, err := store.InsertCashflows(ctx, "u1", []internal.CashflowRecord{
		{Direction: "in", Title: "Job", Amount: "1,200", Recurrence: "monthly", ScheduledDate: "2025-09-28"},
	})
	require.NoError(t, err)

	data, err := store.FetchUserData(ctx, "u1")
	require.NoError(t, err)

	rules, errs := data.Rules(nil)
	assert.Empty(t, errs)
	require.Len(t, rules, 1)
	assert.Equal(t, 1200.0, rules[0].Amount)
}
