package budget

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalMonthlyIncome_NormalizesFrequencies(t *testing.T) {
	t.Parallel()
	d := &Document{Income: []Income{
		{Amount: 1200, Frequency: "monthly"},
		{Amount: 600, Frequency: "biweekly"},
		{Amount: 300, Frequency: "weekly"},
		{Amount: 100}, // unknown frequency treated as monthly
	}}

	want := 1200.0 + 600*26/12 + 300*52/12 + 100
	require.InDelta(t, want, d.TotalMonthlyIncome(), 0.001)
}

func TestNetMonthly(t *testing.T) {
	t.Parallel()
	d := &Document{
		Income:           []Income{{Amount: 5000, Frequency: "monthly"}},
		MonthlyExpenses:  []MonthlyExpense{{Amount: 1500}, {Amount: 500}},
		Debts:            []Debt{{MonthlyPayment: 400, TotalDebt: 12000}},
		BusinessExpenses: []BusinessExpense{{MonthlyCost: 100}},
	}

	require.InDelta(t, 2500.0, d.NetMonthly(), 0.001)
	require.InDelta(t, 12000.0, d.TotalDebt(), 0.001)
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()
	d := DefaultDocument()
	d.Income = append(d.Income, Income{ID: "i1", Name: "Salary"})

	c := d.Clone()
	c.Income[0].Name = "changed"
	c.Settings.Theme = "light"

	require.Equal(t, "Salary", d.Income[0].Name)
	require.Equal(t, "dark", d.Settings.Theme)
}

func TestSectionVocabulary(t *testing.T) {
	t.Parallel()
	require.True(t, SectionMonthly.Valid())
	require.False(t, Section("groceries").Valid())

	require.Equal(t, "income", DefaultCategory(SectionIncome))
	require.Equal(t, "general", DefaultCategory(SectionDebts))
	require.Equal(t, "Housing", DefaultCategory(SectionMonthly))

	// unknown sections borrow the monthly vocabulary
	require.Equal(t, CategoryOptions(SectionMonthly), CategoryOptions(Section("nope")))
}

func TestSectionCount(t *testing.T) {
	t.Parallel()
	d := &Document{
		Income:       []Income{{}, {}},
		AnnualBudget: []AnnualItem{{}},
	}
	require.Equal(t, 2, d.SectionCount(SectionIncome))
	require.Equal(t, 1, d.SectionCount(SectionAnnual))
	require.Equal(t, 0, d.SectionCount(SectionSkip))
}

func TestDemoDocument_IsPopulated(t *testing.T) {
	t.Parallel()
	d := DemoDocument()
	require.NotEmpty(t, d.Income)
	require.NotEmpty(t, d.MonthlyExpenses)
	require.NotEmpty(t, d.Debts)
	require.Greater(t, d.TotalMonthlyIncome(), 0.0)
}
