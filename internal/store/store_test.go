package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantom-finance/phantomfin/internal/budget"
)

func openTest(t *testing.T, path string) *Store {
	t.Helper()
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_NewDatabaseGetsDefaults(t *testing.T) {
	t.Parallel()
	st := openTest(t, filepath.Join(t.TempDir(), "test.db"))

	doc := st.Snapshot()
	require.Equal(t, 1, doc.Version)
	require.Equal(t, "USD", doc.Profile.Currency)
	require.Empty(t, doc.Income)
}

func TestStore_MutationsSurviveReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Mutate(func(doc *budget.Document) {
		doc.Income = append(doc.Income, budget.Income{ID: "i1", Name: "Salary", Amount: 4000, Frequency: "monthly"})
		doc.Profile.Name = "Alex"
	}))
	require.NoError(t, st.Close())

	st2 := openTest(t, path)
	doc := st2.Snapshot()
	require.Equal(t, "Alex", doc.Profile.Name)
	require.Len(t, doc.Income, 1)
	require.Equal(t, "Salary", doc.Income[0].Name)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	t.Parallel()
	st := openTest(t, filepath.Join(t.TempDir(), "test.db"))

	snap := st.Snapshot()
	snap.Profile.Name = "scribbled"
	require.Empty(t, st.Snapshot().Profile.Name)
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	t.Parallel()
	st := openTest(t, filepath.Join(t.TempDir(), "test.db"))

	var seen []string
	unsub := st.Subscribe(func(doc *budget.Document) {
		seen = append(seen, doc.Profile.Name)
	})

	require.NoError(t, st.Mutate(func(doc *budget.Document) { doc.Profile.Name = "first" }))
	require.Equal(t, []string{"first"}, seen)

	unsub()
	require.NoError(t, st.Mutate(func(doc *budget.Document) { doc.Profile.Name = "second" }))
	require.Equal(t, []string{"first"}, seen)
}

func TestStore_DemoModeIsNotPersisted(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	require.NoError(t, err)

	st.EnterDemoMode()
	require.True(t, st.DemoMode())
	require.NotEmpty(t, st.Snapshot().Income) // sample data visible

	require.NoError(t, st.Mutate(func(doc *budget.Document) { doc.Profile.Name = "demo scribble" }))
	require.NoError(t, st.ExitDemoMode(false))
	require.False(t, st.DemoMode())
	require.Empty(t, st.Snapshot().Income)
	require.NotEqual(t, "demo scribble", st.Snapshot().Profile.Name)
	require.NoError(t, st.Close())

	st2 := openTest(t, path)
	require.Empty(t, st2.Snapshot().Income)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	st := openTest(t, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, st.Mutate(func(doc *budget.Document) {
		doc.Debts = append(doc.Debts, budget.Debt{ID: "d1", Name: "Car Loan", MonthlyPayment: 350, TotalDebt: 9000})
	}))

	data, err := st.ExportJSON()
	require.NoError(t, err)

	other := openTest(t, filepath.Join(t.TempDir(), "other.db"))
	require.NoError(t, other.ImportJSON(data))

	doc := other.Snapshot()
	require.Len(t, doc.Debts, 1)
	require.Equal(t, "Car Loan", doc.Debts[0].Name)
	require.Equal(t, 350.00, doc.Debts[0].MonthlyPayment)
}

func TestStore_FailedPersistLeavesDocumentUntouched(t *testing.T) {
	t.Parallel()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	var notified int
	st.Subscribe(func(*budget.Document) { notified++ })

	// closing the database makes the next write fail
	require.NoError(t, st.Close())

	err = st.Mutate(func(doc *budget.Document) {
		doc.Income = append(doc.Income, budget.Income{ID: "i1", Name: "Salary", Amount: 4000})
		doc.Profile.Name = "partial"
	})
	require.Error(t, err)

	doc := st.Snapshot()
	require.Empty(t, doc.Income)
	require.Empty(t, doc.Profile.Name)
	require.Zero(t, notified)
}

func TestStore_ImportRejectsBadJSON(t *testing.T) {
	t.Parallel()
	st := openTest(t, filepath.Join(t.TempDir(), "test.db"))
	require.Error(t, st.ImportJSON([]byte("not json")))
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()
	st := openTest(t, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, st.Mutate(func(doc *budget.Document) {
		doc.Income = append(doc.Income, budget.Income{ID: "i1", Name: "Salary", Amount: 4000})
	}))

	require.NoError(t, st.Clear())
	require.Empty(t, st.Snapshot().Income)
}
